// Package document owns the array of objects being edited, the position of
// the object on display, and reading and writing the backing file.
package document

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcncl/jsonform/internal/config"
	"github.com/mcncl/jsonform/internal/errors"
	"github.com/mcncl/jsonform/internal/formatter"
	"github.com/mcncl/jsonform/internal/models"
	"github.com/mcncl/jsonform/internal/parser"
)

// Direction is a navigation step.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// Store holds a validated document. A Store is either empty (nothing loaded)
// or loaded, in which case it has at least one object and a valid index.
type Store struct {
	path    string
	objects []*models.Object
	index   int
	staged  bool

	opts      parser.Options
	formatter *formatter.Formatter
}

// NewStore creates an empty Store using the load and save settings of cfg.
func NewStore(cfg *config.Config) *Store {
	return &Store{
		opts: parser.Options{AllowComments: cfg.Load.AllowComments},
		formatter: &formatter.Formatter{
			Indent:          cfg.Save.Indent,
			TrailingNewline: cfg.Save.TrailingNewline,
		},
	}
}

// Loaded reports whether a document is present.
func (s *Store) Loaded() bool { return len(s.objects) > 0 }

// Path returns the file the document was loaded from.
func (s *Store) Path() string { return s.path }

// Len returns the number of objects in the document.
func (s *Store) Len() int { return len(s.objects) }

// Index returns the position of the current object.
func (s *Store) Index() int { return s.index }

// Objects returns the objects of the document. The objects themselves are
// shared with the store.
func (s *Store) Objects() []*models.Object {
	out := make([]*models.Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Current returns the object on display.
func (s *Store) Current() (*models.Object, error) {
	if !s.Loaded() {
		return nil, errors.NewStateError("no document loaded", errors.ErrNoDocument)
	}
	return s.objects[s.index], nil
}

// At returns the object at position i.
func (s *Store) At(i int) (*models.Object, error) {
	if !s.Loaded() {
		return nil, errors.NewStateError("no document loaded", errors.ErrNoDocument)
	}
	if i < 0 || i >= len(s.objects) {
		return nil, errors.NewStateError(fmt.Sprintf("no object at index %d", i), errors.ErrOutOfRange)
	}
	return s.objects[i], nil
}

// Validate checks that v is a non-empty array of objects and returns them.
func Validate(v any) ([]*models.Object, error) {
	arr, ok := v.(models.Array)
	if !ok {
		return nil, errors.NewValidationError("Root element must be an array (list) of objects.", errors.ErrNotArray)
	}
	if len(arr) == 0 {
		return nil, errors.NewValidationError("JSON array is empty.", errors.ErrEmptyArray)
	}
	objs := make([]*models.Object, len(arr))
	for i, elt := range arr {
		obj, ok := elt.(*models.Object)
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("Item at index %d is not an object.", i), errors.ErrNotObject)
		}
		objs[i] = obj
	}
	return objs, nil
}

// Load reads and validates the file at path and makes it the current
// document, positioned at the first object. On failure the previous document
// is left in place.
func (s *Store) Load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("invalid path '%s'", path), err)
	}
	objs, err := s.read(abs)
	if err != nil {
		return err
	}
	s.path = abs
	s.objects = objs
	s.index = 0
	s.staged = false
	return nil
}

// Reload re-reads the current file. The position is kept, clamped to the new
// length.
func (s *Store) Reload() error {
	if s.path == "" {
		return errors.NewStateError("no document loaded", errors.ErrNoDocument)
	}
	objs, err := s.read(s.path)
	if err != nil {
		return err
	}
	s.objects = objs
	s.index = min(s.index, len(objs)-1)
	s.staged = false
	return nil
}

func (s *Store) read(path string) ([]*models.Object, error) {
	v, err := parser.ParseFile(path, s.opts)
	if err != nil {
		return nil, err
	}
	return Validate(v)
}

// Step moves one object in dir. At either end it does nothing. It reports
// whether the position changed.
func (s *Store) Step(dir Direction) bool {
	next := s.index + int(dir)
	if !s.Loaded() || next < 0 || next >= len(s.objects) {
		return false
	}
	s.index = next
	return true
}

// Seek moves to the object at position i.
func (s *Store) Seek(i int) error {
	if _, err := s.At(i); err != nil {
		return err
	}
	s.index = i
	return nil
}

// StageSave marks the document ready to be written. The write happens on
// ConfirmSave, so that a caller can ask before overwriting the file.
func (s *Store) StageSave() error {
	if !s.Loaded() {
		return errors.NewStateError("no document loaded", errors.ErrNoDocument)
	}
	s.staged = true
	return nil
}

// Staged reports whether a save is waiting for confirmation.
func (s *Store) Staged() bool { return s.staged }

// CancelSave discards a staged save.
func (s *Store) CancelSave() { s.staged = false }

// ConfirmSave writes a staged document back to its file.
func (s *Store) ConfirmSave() error {
	if !s.staged {
		return errors.NewStateError("save has not been staged", errors.ErrNotStaged)
	}
	if err := s.write(); err != nil {
		return err
	}
	s.staged = false
	return nil
}

// Encode returns the document as it would be saved.
func (s *Store) Encode() ([]byte, error) {
	arr := make(models.Array, len(s.objects))
	for i, obj := range s.objects {
		arr[i] = obj
	}
	out, err := s.formatter.Format(arr)
	if err != nil {
		return nil, errors.NewIOError("failed to encode document", err)
	}
	return out, nil
}

// write replaces the file through a temporary file in the same directory, so
// a failed write never truncates the original.
func (s *Store) write() error {
	data, err := s.Encode()
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(s.path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to write '%s'", s.path), err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.NewIOError(fmt.Sprintf("failed to write '%s'", s.path), err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to write '%s'", s.path), err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to write '%s'", s.path), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to replace '%s'", s.path), err)
	}
	return nil
}
