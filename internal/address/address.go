// Package address reads and writes values inside a nested object by path.
//
// Callers always re-resolve through the root on every access; nothing here
// holds references into the tree between calls.
package address

import (
	"fmt"

	"github.com/mcncl/jsonform/internal/errors"
	"github.com/mcncl/jsonform/internal/models"
)

// Get returns the value at p within root. The empty path yields root itself.
func Get(root *models.Object, p models.Path) (any, error) {
	var cur any = root
	for i, key := range p {
		obj, ok := cur.(*models.Object)
		if !ok {
			return nil, errors.NewPathError(p.String(),
				fmt.Sprintf("%q is not an object", p[:i].String()), errors.ErrNotContainer)
		}
		v, ok := obj.Get(key)
		if !ok {
			return nil, errors.NewPathError(p.String(),
				fmt.Sprintf("missing key %q", key), errors.ErrPathNotFound)
		}
		cur = v
	}
	return cur, nil
}

// Resolve returns the object at p within root.
func Resolve(root *models.Object, p models.Path) (*models.Object, error) {
	v, err := Get(root, p)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*models.Object)
	if !ok {
		return nil, errors.NewPathError(p.String(), "value is not an object", errors.ErrNotContainer)
	}
	return obj, nil
}

// Set assigns value at p within root, creating the final key if needed. The
// parent of p must already exist.
func Set(root *models.Object, p models.Path, value any) error {
	if len(p) == 0 {
		return errors.NewPathError("", "cannot assign to the root object", errors.ErrPathNotFound)
	}
	parentPath, key := p.Parent()
	parent, err := Resolve(root, parentPath)
	if err != nil {
		return reroot(err, p)
	}
	parent.Set(key, value)
	return nil
}

// Delete removes the member at p from its parent object.
func Delete(root *models.Object, p models.Path) error {
	if len(p) == 0 {
		return errors.NewPathError("", "cannot delete the root object", errors.ErrPathNotFound)
	}
	parentPath, key := p.Parent()
	parent, err := Resolve(root, parentPath)
	if err != nil {
		return reroot(err, p)
	}
	if !parent.Delete(key) {
		return errors.NewPathError(p.String(), fmt.Sprintf("missing key %q", key), errors.ErrPathNotFound)
	}
	return nil
}

// Ensure returns the object at p within root, creating empty objects for any
// missing keys along the way. A key that holds a non-object value is an
// error.
func Ensure(root *models.Object, p models.Path) (*models.Object, error) {
	cur := root
	for i, key := range p {
		v, ok := cur.Get(key)
		if !ok {
			next := models.NewObject()
			cur.Set(key, next)
			cur = next
			continue
		}
		next, ok := v.(*models.Object)
		if !ok {
			return nil, errors.NewPathError(p.String(),
				fmt.Sprintf("%q is not an object", p[:i+1].String()), errors.ErrNotContainer)
		}
		cur = next
	}
	return cur, nil
}

// Exists reports whether p resolves within root.
func Exists(root *models.Object, p models.Path) bool {
	_, err := Get(root, p)
	return err == nil
}

// reroot reports a failure to resolve a parent against the full path the
// caller asked for.
func reroot(err error, p models.Path) error {
	if pe, ok := err.(*errors.AppError); ok {
		out := *pe
		out.Field = p.String()
		return &out
	}
	return err
}
