package address

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonform/internal/errors"
	"github.com/mcncl/jsonform/internal/models"
	"github.com/mcncl/jsonform/internal/parser"
)

func mustObject(t *testing.T, src string) *models.Object {
	t.Helper()
	v, err := parser.ParseString(src)
	require.NoError(t, err)
	obj, ok := v.(*models.Object)
	require.True(t, ok, "expected an object, got %T", v)
	return obj
}

func TestGet(t *testing.T) {
	root := mustObject(t, `{"a": {"b": {"c": 3}}, "list": [1, 2], "n": null}`)

	v, err := Get(root, models.Path{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = Get(root, models.Path{})
	require.NoError(t, err)
	assert.Same(t, root, v)

	v, err = Get(root, models.Path{"n"})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGet_Errors(t *testing.T) {
	root := mustObject(t, `{"a": {"b": 1}, "list": [1, 2]}`)

	tests := []struct {
		name string
		path models.Path
		want error
	}{
		{"missing top-level", models.Path{"x"}, errors.ErrPathNotFound},
		{"missing nested", models.Path{"a", "x"}, errors.ErrPathNotFound},
		{"through a leaf", models.Path{"a", "b", "c"}, errors.ErrNotContainer},
		{"through an array", models.Path{"list", "0"}, errors.ErrNotContainer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Get(root, tt.path)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.want), "got %v", err)
			assert.True(t, errors.IsType(err, errors.ErrorTypePath))
		})
	}
}

func TestSetThenGet(t *testing.T) {
	root := mustObject(t, `{"a": {"b": 1}, "c": "x"}`)

	paths := []models.Path{{"a", "b"}, {"c"}, {"a", "new"}}
	values := []any{int64(99), models.Array{"p"}, nil}
	for i, p := range paths {
		require.NoError(t, Set(root, p, values[i]))
		got, err := Get(root, p)
		require.NoError(t, err)
		assert.True(t, models.Equal(values[i], got), "path %v", p)
	}
	assert.Equal(t, `{"a":{"b":99,"new":null},"c":["p"]}`, models.Text(root))
}

func TestSet_MissingParent(t *testing.T) {
	root := mustObject(t, `{"a": 1}`)

	err := Set(root, models.Path{"x", "y"}, int64(1))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrPathNotFound))

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "x.y", appErr.Field)

	err = Set(root, models.Path{"a", "b"}, int64(1))
	assert.True(t, stderrors.Is(err, errors.ErrNotContainer))

	assert.Error(t, Set(root, models.Path{}, int64(1)))
}

func TestResolveAndDelete(t *testing.T) {
	root := mustObject(t, `{"a": {"b": 1, "c": 2}, "d": 3}`)

	obj, err := Resolve(root, models.Path{"a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, obj.Keys())

	_, err = Resolve(root, models.Path{"d"})
	assert.True(t, stderrors.Is(err, errors.ErrNotContainer))

	require.NoError(t, Delete(root, models.Path{"a", "b"}))
	assert.False(t, Exists(root, models.Path{"a", "b"}))
	assert.True(t, Exists(root, models.Path{"a", "c"}))

	err = Delete(root, models.Path{"a", "b"})
	assert.True(t, stderrors.Is(err, errors.ErrPathNotFound))
}

func TestEnsure(t *testing.T) {
	root := mustObject(t, `{"a": {"b": 1}, "s": "x"}`)

	obj, err := Ensure(root, models.Path{"a", "c", "d"})
	require.NoError(t, err)
	obj.Set("e", true)
	assert.Equal(t, `{"a":{"b":1,"c":{"d":{"e":true}}},"s":"x"}`, models.Text(root))

	same, err := Ensure(root, models.Path{"a"})
	require.NoError(t, err)
	assert.True(t, same.Has("b"))

	_, err = Ensure(root, models.Path{"s", "t"})
	assert.True(t, stderrors.Is(err, errors.ErrNotContainer))

	self, err := Ensure(root, nil)
	require.NoError(t, err)
	assert.Same(t, root, self)
}
