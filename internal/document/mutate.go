package document

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonform/internal/address"
	"github.com/mcncl/jsonform/internal/errors"
	"github.com/mcncl/jsonform/internal/models"
	"github.com/mcncl/jsonform/internal/parser"
)

// ObjectKeyword is the property value that creates an empty nested object.
const ObjectKeyword = "object"

// parseRaw returns raw decoded as JSON, or raw itself if it is not JSON.
func parseRaw(raw string) any {
	if v, ok := parser.ParseValue(raw); ok {
		return v
	}
	return raw
}

func requireKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.NewStateError("property name cannot be empty", errors.ErrEmptyKey)
	}
	return key, nil
}

// AppendObject appends a new object holding one property and moves to it.
// The value is decoded as JSON if possible and kept as a string otherwise.
func (s *Store) AppendObject(key, rawValue string) error {
	if !s.Loaded() {
		return errors.NewStateError("no document loaded", errors.ErrNoDocument)
	}
	key, err := requireKey(key)
	if err != nil {
		return err
	}
	obj := models.NewObject(models.Member{Key: key, Value: parseRaw(strings.TrimSpace(rawValue))})
	s.objects = append(s.objects, obj)
	s.index = len(s.objects) - 1
	return nil
}

// DuplicateLast appends a deep copy of the last object and moves to it.
func (s *Store) DuplicateLast() error {
	if len(s.objects) == 0 {
		return errors.NewStateError("no objects to copy", errors.ErrEmptyDocument)
	}
	s.objects = append(s.objects, s.objects[len(s.objects)-1].Clone())
	s.index = len(s.objects) - 1
	return nil
}

// HasProperty reports whether the object at path within the current object
// already has key. Callers use it to confirm an overwrite before AddProperty.
func (s *Store) HasProperty(path models.Path, key string) (bool, error) {
	cur, err := s.Current()
	if err != nil {
		return false, err
	}
	target, err := address.Resolve(cur, path)
	if err != nil {
		return false, err
	}
	return target.Has(strings.TrimSpace(key)), nil
}

// AddProperty sets key on the object at path within the current object,
// replacing any existing value. The raw value "object" creates an empty
// nested object; anything else is decoded as JSON or kept as a string.
func (s *Store) AddProperty(path models.Path, key, rawValue string) error {
	cur, err := s.Current()
	if err != nil {
		return err
	}
	key, err = requireKey(key)
	if err != nil {
		return err
	}
	target, err := address.Resolve(cur, path)
	if err != nil {
		return err
	}

	rawValue = strings.TrimSpace(rawValue)
	var value any
	if rawValue == ObjectKeyword {
		value = models.NewObject()
	} else {
		value = parseRaw(rawValue)
	}
	target.Set(key, value)
	return nil
}

// DeleteProperty removes the member at path from the current object.
func (s *Store) DeleteProperty(path models.Path) error {
	cur, err := s.Current()
	if err != nil {
		return err
	}
	return address.Delete(cur, path)
}

// DeleteCurrent removes the current object. The last remaining object cannot
// be removed.
func (s *Store) DeleteCurrent() error {
	if !s.Loaded() {
		return errors.NewStateError("no document loaded", errors.ErrNoDocument)
	}
	if len(s.objects) == 1 {
		return errors.NewStateError("at least one object must remain", errors.ErrLastObject)
	}
	s.objects = append(s.objects[:s.index], s.objects[s.index+1:]...)
	s.index = min(s.index, len(s.objects)-1)
	return nil
}

// ReplaceCurrent swaps the current object for obj.
func (s *Store) ReplaceCurrent(obj *models.Object) error {
	if !s.Loaded() {
		return errors.NewStateError("no document loaded", errors.ErrNoDocument)
	}
	if obj == nil {
		return errors.NewValidationError(fmt.Sprintf("Item at index %d is not an object.", s.index), errors.ErrNotObject)
	}
	s.objects[s.index] = obj
	return nil
}
