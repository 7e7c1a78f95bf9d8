// Package binding holds the editable text of every leaf field of the object
// on display, and writes that text back into the object.
package binding

import (
	stderrors "errors"
	"strings"

	"github.com/creachadair/mds/mapset"

	"github.com/mcncl/jsonform/internal/address"
	"github.com/mcncl/jsonform/internal/coerce"
	"github.com/mcncl/jsonform/internal/errors"
	"github.com/mcncl/jsonform/internal/models"
	"github.com/mcncl/jsonform/internal/projector"
)

// A Binding associates a displayed field with its location and the type its
// value had when it was projected.
type Binding struct {
	Path models.Path
	Text string
	Type models.Kind
}

// Table is the set of bindings for one projection of one object. It is
// replaced wholesale by every Rebuild.
type Table struct {
	projector *projector.Projector
	atomic    bool

	bindings []*Binding
	index    map[string]*Binding
}

// NewTable creates an empty table whose rows are produced by p. With atomic
// set, a committed write coerces every field before changing any of them.
func NewTable(p *projector.Projector, atomic bool) *Table {
	return &Table{projector: p, atomic: atomic, index: make(map[string]*Binding)}
}

func indexKey(p models.Path) string { return strings.Join(p, "\x00") }

// Rebuild projects obj and replaces the table with one binding per leaf row.
// It returns the projected rows.
func (t *Table) Rebuild(obj *models.Object, collapsed mapset.Set[string]) []models.Row {
	rows := t.projector.Project(obj, nil, collapsed)
	t.bindings = make([]*Binding, 0, len(rows))
	t.index = make(map[string]*Binding, len(rows))
	for _, row := range rows {
		if row.IsSection() {
			continue
		}
		b := &Binding{Path: row.Path, Text: row.Text, Type: row.Type}
		t.bindings = append(t.bindings, b)
		t.index[indexKey(row.Path)] = b
	}
	return rows
}

// Refresh re-projects the object the table was last built from, after a
// change of layout or structure. A binding whose value is still the one its
// text produced under live coercion keeps that text, so text that did not
// convert is still reported by the next committed write instead of being
// replaced by its fallback. Such a binding is kept even when its row is no
// longer shown, for example inside a collapsed section.
func (t *Table) Refresh(obj *models.Object, collapsed mapset.Set[string]) []models.Row {
	prev := t.bindings
	rows := t.Rebuild(obj, collapsed)
	for _, old := range prev {
		v, err := address.Get(obj, old.Path)
		if err != nil || models.KindOf(v) != old.Type || old.Text == models.Text(v) {
			continue
		}
		if !models.Equal(coerce.Preview(old.Text, old.Type), v) {
			continue
		}
		key := indexKey(old.Path)
		if b, ok := t.index[key]; ok {
			b.Text = old.Text
			continue
		}
		b := &Binding{Path: old.Path, Text: old.Text, Type: old.Type}
		t.bindings = append(t.bindings, b)
		t.index[key] = b
	}
	for i, row := range rows {
		if b, ok := t.index[indexKey(row.Path)]; ok && !row.IsSection() {
			rows[i].Text = b.Text
		}
	}
	return rows
}

// Clear drops all bindings.
func (t *Table) Clear() {
	t.bindings = nil
	t.index = make(map[string]*Binding)
}

// Len reports the number of bindings.
func (t *Table) Len() int { return len(t.bindings) }

// Lookup returns a copy of the binding for path.
func (t *Table) Lookup(path models.Path) (Binding, bool) {
	b, ok := t.index[indexKey(path)]
	if !ok {
		return Binding{}, false
	}
	return *b, true
}

// Bindings returns copies of all bindings in row order.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	for i, b := range t.bindings {
		out[i] = *b
	}
	return out
}

// SetText replaces the text of the field at path.
func (t *Table) SetText(path models.Path, text string) error {
	b, ok := t.index[indexKey(path)]
	if !ok {
		return errors.NewPathError(path.String(), "no editable field at this path", errors.ErrPathNotFound)
	}
	b.Text = text
	return nil
}

// Commit writes every binding into root using the coercion policy of mode.
//
// Live commits never fail on coercion. A committed write stops at the first
// coercion error; whether fields before it were written depends on whether
// the table is atomic. A path that no longer resolves is reported as a path
// error in either mode.
func (t *Table) Commit(root *models.Object, mode coerce.Mode) error {
	if mode == coerce.Committed && t.atomic {
		return t.commitAtomic(root)
	}
	for _, b := range t.bindings {
		v, err := coerce.Coerce(b.Text, b.Type, mode)
		if err != nil {
			return fieldError(b, err)
		}
		if err := address.Set(root, b.Path, v); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) commitAtomic(root *models.Object) error {
	values := make([]any, len(t.bindings))
	for i, b := range t.bindings {
		v, err := coerce.Strict(b.Text, b.Type)
		if err != nil {
			return fieldError(b, err)
		}
		values[i] = v
	}
	// Check every target before the first write, so a stale path cannot
	// leave the object half-updated either.
	for _, b := range t.bindings {
		parent, _ := b.Path.Parent()
		if _, err := address.Resolve(root, parent); err != nil {
			return err
		}
	}
	for i, b := range t.bindings {
		if err := address.Set(root, b.Path, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// fieldError attaches the binding's path to a coercion error.
func fieldError(b *Binding, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return errors.NewCoercionError(b.Path.String(), appErr.Message, appErr.Err)
	}
	return errors.NewCoercionError(b.Path.String(), "conversion failed", err)
}
