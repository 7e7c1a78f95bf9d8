// Package editor ties a document, its projected form and the user's edits
// together into one editing session. It is the surface a presentation layer
// (the CLI, or any other front end) drives; it never prompts or renders.
package editor

import (
	"io"
	"log"

	"github.com/creachadair/mds/mapset"
	"github.com/davecgh/go-spew/spew"

	"github.com/mcncl/jsonform/internal/binding"
	"github.com/mcncl/jsonform/internal/coerce"
	"github.com/mcncl/jsonform/internal/config"
	"github.com/mcncl/jsonform/internal/document"
	"github.com/mcncl/jsonform/internal/errors"
	"github.com/mcncl/jsonform/internal/formatter"
	"github.com/mcncl/jsonform/internal/models"
	"github.com/mcncl/jsonform/internal/projector"
	"github.com/mcncl/jsonform/internal/sidecar"
)

// Session is one editing session over one document at a time. All state that
// a front end would otherwise keep globally (the collapsed sections, the
// current position) lives here, so independent sessions can coexist.
//
// A Session is not safe for concurrent use.
type Session struct {
	cfg       *config.Config
	store     *document.Store
	table     *binding.Table
	collapsed mapset.Set[string]
	rows      []models.Row

	formatter *formatter.Formatter
	sidecar   *sidecar.Sidecar
	logger    *log.Logger
}

// NewSession creates an empty session configured by cfg. Debug output goes
// to logger when cfg.Dev.Debug is set; a nil logger discards it.
func NewSession(cfg *config.Config, logger *log.Logger) *Session {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Session{
		cfg:       cfg,
		store:     document.NewStore(cfg),
		table:     binding.NewTable(projector.NewProjectorWithConfig(cfg), cfg.Commit.Atomic),
		collapsed: mapset.New[string](),
		formatter: &formatter.Formatter{Indent: cfg.Save.Indent, TrailingNewline: cfg.Save.TrailingNewline},
		logger:    logger,
	}
	if cfg.Session.Enabled {
		s.sidecar = sidecar.New(cfg.Session.File)
	}
	return s
}

func (s *Session) debugf(format string, args ...any) {
	if s.cfg.Dev.Debug {
		s.logger.Printf(format, args...)
	}
}

// rebuild re-projects the current object. Every binding from the previous
// projection is discarded.
func (s *Session) rebuild() []models.Row {
	cur, err := s.store.Current()
	if err != nil {
		s.table.Clear()
		s.rows = nil
		return nil
	}
	s.rows = s.table.Rebuild(cur, s.collapsed)
	if s.cfg.Dev.Debug {
		s.logger.Printf("projected object %d: %d rows, %d bindings\n%s",
			s.store.Index(), len(s.rows), s.table.Len(), spew.Sdump(s.table.Bindings()))
	}
	return s.Rows()
}

// refresh re-projects the current object after a change that does not move
// to another object. Text that has not converted yet is carried over.
func (s *Session) refresh() []models.Row {
	cur, err := s.store.Current()
	if err != nil {
		return s.rebuild()
	}
	s.rows = s.table.Refresh(cur, s.collapsed)
	s.debugf("refreshed object %d: %d rows, %d bindings", s.store.Index(), len(s.rows), s.table.Len())
	return s.Rows()
}

// commit writes the bound field text into the current object.
func (s *Session) commit(mode coerce.Mode) error {
	cur, err := s.store.Current()
	if err != nil {
		return err
	}
	if err := s.table.Commit(cur, mode); err != nil {
		s.debugf("%s commit of object %d failed: %v", mode, s.store.Index(), err)
		return err
	}
	return nil
}

// LoadDocument reads and validates the file at path and shows its first
// object. If loading fails the session keeps its current document.
//
// Collapsed sections are kept when path names the file already open and
// cleared otherwise.
func (s *Session) LoadDocument(path string) ([]models.Row, error) {
	prev := s.store.Path()
	if err := s.store.Load(path); err != nil {
		s.debugf("load %s: %v", path, err)
		return nil, err
	}
	if s.store.Path() != prev {
		s.collapsed = mapset.New[string]()
	}
	s.debugf("loaded %s: %d objects", s.store.Path(), s.store.Len())

	if err := s.sidecar.Remember(s.store.Path()); err != nil {
		s.debugf("session file not updated: %v", err)
	}
	return s.rebuild(), nil
}

// LastOpened returns the file recorded by the most recent successful load
// in any session sharing the session file. It returns "" if there is none
// or the record cannot be read.
func (s *Session) LastOpened() string {
	path, err := s.sidecar.LastOpened()
	if err != nil {
		s.debugf("session file not read: %v", err)
		return ""
	}
	return path
}

// Reload re-reads the open file. The position is kept where possible and
// collapsed sections are left as they are.
func (s *Session) Reload() ([]models.Row, error) {
	if err := s.store.Reload(); err != nil {
		return nil, err
	}
	return s.rebuild(), nil
}

// Loaded reports whether a document is open.
func (s *Session) Loaded() bool { return s.store.Loaded() }

// Path returns the absolute path of the open file.
func (s *Session) Path() string { return s.store.Path() }

// Rows returns the rows of the current projection.
func (s *Session) Rows() []models.Row {
	out := make([]models.Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Current returns the object on display.
func (s *Session) Current() (*models.Object, error) { return s.store.Current() }

// Document returns every object of the open document.
func (s *Session) Document() []*models.Object { return s.store.Objects() }

// Position returns the index of the current object and the document length.
func (s *Session) Position() (index, length int) { return s.store.Index(), s.store.Len() }

// CanPrev reports whether there is an object before the current one.
func (s *Session) CanPrev() bool { return s.store.Loaded() && s.store.Index() > 0 }

// CanNext reports whether there is an object after the current one.
func (s *Session) CanNext() bool { return s.store.Loaded() && s.store.Index() < s.store.Len()-1 }

// Collapsed reports whether the section at path is collapsed.
func (s *Session) Collapsed(path models.Path) bool { return s.collapsed.Has(path.String()) }

// SetFieldText records new text for the field at path and writes it into
// the current object leniently. A text that does not convert to the field's
// type is stored as the type's zero value until it is committed.
func (s *Session) SetFieldText(path models.Path, text string) error {
	if err := s.table.SetText(path, text); err != nil {
		return err
	}
	return s.commit(coerce.Live)
}

// ToggleSection collapses the section at path, or expands it if it is
// already collapsed, and re-projects.
func (s *Session) ToggleSection(path models.Path) []models.Row {
	key := path.String()
	if s.collapsed.Has(key) {
		s.collapsed.Remove(key)
	} else {
		s.collapsed.Add(key)
	}
	return s.refresh()
}

// Navigate commits the current object strictly and moves one object in dir.
// If the commit fails the position does not change. Moving past either end
// of the document does nothing, and commits nothing.
func (s *Session) Navigate(dir document.Direction) ([]models.Row, error) {
	if !s.store.Loaded() {
		return nil, noDocument()
	}
	if (dir == document.Prev && !s.CanPrev()) || (dir == document.Next && !s.CanNext()) {
		return s.Rows(), nil
	}
	if err := s.commit(coerce.Committed); err != nil {
		return nil, err
	}
	if s.store.Step(dir) {
		s.debugf("moved %s to object %d", dir, s.store.Index())
	}
	return s.rebuild(), nil
}

// Goto commits the current object strictly and moves to the object at
// index i.
func (s *Session) Goto(i int) ([]models.Row, error) {
	if err := s.commit(coerce.Committed); err != nil {
		return nil, err
	}
	if err := s.store.Seek(i); err != nil {
		return nil, err
	}
	return s.rebuild(), nil
}

// StageSave commits the current object strictly and marks the document
// ready to be written. Nothing is written until ConfirmSave.
func (s *Session) StageSave() error {
	if err := s.commit(coerce.Committed); err != nil {
		return err
	}
	if err := s.store.StageSave(); err != nil {
		return err
	}
	s.rebuild()
	return nil
}

// ConfirmSave writes a staged document to its file. Edits made since the
// save was staged are committed strictly first; if that fails nothing is
// written and the save stays staged.
func (s *Session) ConfirmSave() error {
	if err := s.commitBeforeLeaving(); err != nil {
		return err
	}
	if err := s.store.ConfirmSave(); err != nil {
		return err
	}
	s.debugf("saved %s", s.store.Path())
	return nil
}

// CancelSave drops a staged save.
func (s *Session) CancelSave() { s.store.CancelSave() }

// Save stages the document and writes it if confirm agrees. It reports
// whether the file was written.
func (s *Session) Save(confirm func(path string) bool) (bool, error) {
	if err := s.StageSave(); err != nil {
		return false, err
	}
	if confirm != nil && !confirm(s.store.Path()) {
		s.store.CancelSave()
		return false, nil
	}
	if err := s.ConfirmSave(); err != nil {
		return false, err
	}
	return true, nil
}

// AddObject commits the current object strictly, then appends an object
// holding one property and shows it.
func (s *Session) AddObject(key, rawValue string) ([]models.Row, error) {
	if err := s.commitBeforeLeaving(); err != nil {
		return nil, err
	}
	if err := s.store.AppendObject(key, rawValue); err != nil {
		return nil, err
	}
	return s.rebuild(), nil
}

// DuplicateLast commits the current object strictly, then appends a deep
// copy of the last object and shows it.
func (s *Session) DuplicateLast() ([]models.Row, error) {
	if err := s.commitBeforeLeaving(); err != nil {
		return nil, err
	}
	if err := s.store.DuplicateLast(); err != nil {
		return nil, err
	}
	return s.rebuild(), nil
}

// PropertyExists reports whether the section at path already has key, so a
// front end can ask before AddProperty overwrites it.
func (s *Session) PropertyExists(path models.Path, key string) (bool, error) {
	return s.store.HasProperty(path, key)
}

// AddProperty sets key on the section at path (the empty path is the
// current object itself). See document.Store.AddProperty for how rawValue
// is read.
func (s *Session) AddProperty(path models.Path, key, rawValue string) ([]models.Row, error) {
	if err := s.store.AddProperty(path, key, rawValue); err != nil {
		return nil, err
	}
	return s.refresh(), nil
}

// DeleteProperty removes the field or section at path from the current object.
func (s *Session) DeleteProperty(path models.Path) ([]models.Row, error) {
	if err := s.store.DeleteProperty(path); err != nil {
		return nil, err
	}
	return s.refresh(), nil
}

// DeleteObject removes the current object. The last object cannot be removed.
func (s *Session) DeleteObject() ([]models.Row, error) {
	if err := s.store.DeleteCurrent(); err != nil {
		return nil, err
	}
	return s.rebuild(), nil
}

// commitBeforeLeaving is the strict commit run before the current object is
// written or replaced on display. Without a document there is nothing to
// commit.
func (s *Session) commitBeforeLeaving() error {
	if !s.store.Loaded() {
		return nil
	}
	return s.commit(coerce.Committed)
}

func noDocument() error {
	return errors.NewStateError("no document loaded", errors.ErrNoDocument)
}
