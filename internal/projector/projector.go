// Package projector flattens one JSON object into the ordered rows of an
// editing form: a header for every nested object and a field for every leaf.
package projector

import (
	"strings"

	"github.com/creachadair/mds/mapset"
	"github.com/iancoleman/strcase"

	"github.com/mcncl/jsonform/internal/config"
	"github.com/mcncl/jsonform/internal/models"
)

// Projector builds form rows from objects.
type Projector struct {
	// humanize renders labels as space-separated words instead of raw keys.
	humanize bool
}

// NewProjector creates a Projector that labels rows with their raw keys.
func NewProjector() *Projector {
	return &Projector{}
}

// NewProjectorWithConfig creates a Projector using the display settings of cfg.
func NewProjectorWithConfig(cfg *config.Config) *Projector {
	return &Projector{humanize: cfg.Display.HumanizeLabels}
}

// Project walks obj in member order and returns its rows. Paths are rooted
// at base. A nested object whose dot-joined path is in collapsed contributes
// only its header row. Arrays are never descended into.
func (p *Projector) Project(obj *models.Object, base models.Path, collapsed mapset.Set[string]) []models.Row {
	return p.project(nil, obj, base, len(base), collapsed)
}

func (p *Projector) project(rows []models.Row, obj *models.Object, base models.Path, depth int, collapsed mapset.Set[string]) []models.Row {
	for key, value := range obj.All() {
		path := base.Child(key)
		if nested, ok := value.(*models.Object); ok {
			closed := collapsed.Has(path.String())
			rows = append(rows, models.Row{
				Kind:      models.SectionRow,
				Key:       key,
				Path:      path,
				Depth:     depth,
				Label:     p.label(key),
				Collapsed: closed,
			})
			if !closed {
				rows = p.project(rows, nested, path, depth+1, collapsed)
			}
			continue
		}
		rows = append(rows, models.Row{
			Kind:  models.LeafRow,
			Key:   key,
			Path:  path,
			Depth: depth,
			Label: p.label(key),
			Value: value,
			Type:  models.KindOf(value),
			Text:  models.Text(value),
		})
	}
	return rows
}

func (p *Projector) label(key string) string {
	if p.humanize {
		return strcase.ToDelimited(key, ' ')
	}
	return key
}

// CollectPaths returns the path of every leaf in objs, in the order each
// path is first seen. Nested objects are walked; arrays are leaves. Keys are
// kept whole, so a key containing a dot is one path element.
func CollectPaths(objs []*models.Object) []models.Path {
	seen := mapset.New[string]()
	var paths []models.Path
	var walk func(obj *models.Object, base models.Path)
	walk = func(obj *models.Object, base models.Path) {
		for key, value := range obj.All() {
			path := base.Child(key)
			if nested, ok := value.(*models.Object); ok {
				walk(nested, path)
				continue
			}
			if k := strings.Join(path, "\x00"); !seen.Has(k) {
				seen.Add(k)
				paths = append(paths, path)
			}
		}
	}
	for _, obj := range objs {
		walk(obj, nil)
	}
	return paths
}
