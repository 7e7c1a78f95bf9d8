package editor

import (
	stderrors "errors"

	"github.com/mcncl/jsonform/internal/address"
	"github.com/mcncl/jsonform/internal/coerce"
	"github.com/mcncl/jsonform/internal/errors"
	"github.com/mcncl/jsonform/internal/models"
	"github.com/mcncl/jsonform/internal/projector"
)

// Columns returns the path of every leaf that occurs in any object of the
// document, in the order each is first seen.
func (s *Session) Columns() []models.Path {
	return projector.CollectPaths(s.store.Objects())
}

// Cell returns the text of the value at column in the object at row. It
// reports false if that object has no such value.
func (s *Session) Cell(row int, column models.Path) (string, bool, error) {
	obj, err := s.store.At(row)
	if err != nil {
		return "", false, err
	}
	if len(column) == 0 {
		return "", false, errors.NewPathError("", "column is empty", errors.ErrPathNotFound)
	}
	v, err := address.Get(obj, column)
	if err != nil {
		return "", false, nil
	}
	return models.Text(v), true, nil
}

// SetCell stores text at path in the object at row. An existing value
// keeps its type and text that does not convert to it is an error. A
// missing value is created as a string, along with any missing sections
// above it.
func (s *Session) SetCell(row int, path models.Path, text string) error {
	obj, err := s.store.At(row)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return errors.NewPathError("", "column is empty", errors.ErrPathNotFound)
	}
	column := path.String()

	var value any = text
	if old, err := address.Get(obj, path); err == nil {
		kind := models.KindOf(old)
		if kind == models.KindObject {
			return errors.NewPathError(column, "cell holds a section", errors.ErrNotContainer)
		}
		if value, err = coerce.Strict(text, kind); err != nil {
			var appErr *errors.AppError
			if stderrors.As(err, &appErr) {
				return errors.NewCoercionError(column, appErr.Message, appErr.Err)
			}
			return err
		}
	}

	parentPath, key := path.Parent()
	parent, err := address.Ensure(obj, parentPath)
	if err != nil {
		return err
	}
	parent.Set(key, value)

	if row == s.store.Index() {
		s.refresh()
	}
	return nil
}
