package projector

import (
	"testing"

	"github.com/creachadair/mds/mapset"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonform/internal/config"
	"github.com/mcncl/jsonform/internal/models"
	"github.com/mcncl/jsonform/internal/parser"
)

func mustObject(t *testing.T, src string) *models.Object {
	t.Helper()
	v, err := parser.ParseString(src)
	require.NoError(t, err)
	obj, ok := v.(*models.Object)
	require.True(t, ok)
	return obj
}

func TestProject_FlatObject(t *testing.T) {
	obj := mustObject(t, `{"id":1,"active":true,"score":3.5}`)

	got := NewProjector().Project(obj, nil, nil)
	want := []models.Row{
		{Kind: models.LeafRow, Key: "id", Path: models.Path{"id"}, Label: "id", Value: int64(1), Type: models.KindInt, Text: "1"},
		{Kind: models.LeafRow, Key: "active", Path: models.Path{"active"}, Label: "active", Value: true, Type: models.KindBool, Text: "true"},
		{Kind: models.LeafRow, Key: "score", Path: models.Path{"score"}, Label: "score", Value: 3.5, Type: models.KindFloat, Text: "3.5"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Project() mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_NestedAndArrays(t *testing.T) {
	obj := mustObject(t, `{"name":"n","tags":["a","b"],"meta":{"x":null,"deep":{"y":"z"}},"last":0}`)

	got := NewProjector().Project(obj, nil, mapset.New[string]())
	want := []models.Row{
		{Kind: models.LeafRow, Key: "name", Path: models.Path{"name"}, Label: "name", Value: "n", Type: models.KindString, Text: "n"},
		{Kind: models.LeafRow, Key: "tags", Path: models.Path{"tags"}, Label: "tags", Value: models.Array{"a", "b"}, Type: models.KindArray, Text: `["a","b"]`},
		{Kind: models.SectionRow, Key: "meta", Path: models.Path{"meta"}, Label: "meta"},
		{Kind: models.LeafRow, Key: "x", Path: models.Path{"meta", "x"}, Depth: 1, Label: "x", Type: models.KindNull, Text: "null"},
		{Kind: models.SectionRow, Key: "deep", Path: models.Path{"meta", "deep"}, Depth: 1, Label: "deep"},
		{Kind: models.LeafRow, Key: "y", Path: models.Path{"meta", "deep", "y"}, Depth: 2, Label: "y", Value: "z", Type: models.KindString, Text: "z"},
		{Kind: models.LeafRow, Key: "last", Path: models.Path{"last"}, Label: "last", Value: int64(0), Type: models.KindInt, Text: "0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Project() mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_Collapsed(t *testing.T) {
	obj := mustObject(t, `{"a":{"b":1,"c":{"d":2}}}`)
	p := NewProjector()

	rows := p.Project(obj, nil, mapset.New("a"))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsSection())
	assert.True(t, rows[0].Collapsed)
	assert.Equal(t, "a", rows[0].Path.String())

	rows = p.Project(obj, nil, mapset.New("a.c"))
	var paths []string
	for _, r := range rows {
		paths = append(paths, r.Path.String())
	}
	assert.Equal(t, []string{"a", "a.b", "a.c"}, paths)
	assert.False(t, rows[0].Collapsed)
	assert.True(t, rows[2].Collapsed)
}

func TestProject_BasePath(t *testing.T) {
	obj := mustObject(t, `{"k":1}`)
	rows := NewProjector().Project(obj, models.Path{"outer", "inner"}, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, models.Path{"outer", "inner", "k"}, rows[0].Path)
	assert.Equal(t, 2, rows[0].Depth)
}

func TestProject_HumanizedLabels(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Display.HumanizeLabels = true
	obj := mustObject(t, `{"userName":"x","billing_address":{"zipCode":"1"}}`)

	rows := NewProjectorWithConfig(cfg).Project(obj, nil, nil)
	require.Len(t, rows, 3)
	assert.Equal(t, "user name", rows[0].Label)
	assert.Equal(t, "billing address", rows[1].Label)
	assert.Equal(t, "zip code", rows[2].Label)
	assert.Equal(t, "userName", rows[0].Key, "keys are never rewritten")
}

func TestProject_EmptyObject(t *testing.T) {
	assert.Empty(t, NewProjector().Project(models.NewObject(), nil, nil))
}

func TestCollectPaths(t *testing.T) {
	a := mustObject(t, `{"id":1,"user":{"name":"a"},"tags":[]}`)
	b := mustObject(t, `{"id":2,"user":{"email":"e","name":"b"},"extra":true}`)

	got := CollectPaths([]*models.Object{a, b})
	want := []models.Path{{"id"}, {"user", "name"}, {"tags"}, {"user", "email"}, {"extra"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CollectPaths() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectPaths_DottedKeys(t *testing.T) {
	obj := mustObject(t, `{"a.b":1,"a":{"b":2}}`)

	got := CollectPaths([]*models.Object{obj})
	want := []models.Path{{"a.b"}, {"a", "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CollectPaths() mismatch (-want +got):\n%s", diff)
	}
}
