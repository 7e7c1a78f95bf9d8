// Package sidecar remembers the last file opened in the editor.
//
// The record is a best-effort convenience: read and write failures are
// reported to the caller but never stop an editing session.
package sidecar

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// record is the on-disk form of the sidecar file.
type record struct {
	LastOpenedFile string `json:"last_opened_file"`
}

// Sidecar reads and writes the record at a fixed path. A nil *Sidecar is
// valid and disabled.
type Sidecar struct {
	path string
}

// New returns a Sidecar stored at path. An empty path disables it.
func New(path string) *Sidecar {
	if path == "" {
		return nil
	}
	return &Sidecar{path: path}
}

// Path returns the location of the record file.
func (s *Sidecar) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// LastOpened returns the recorded file path, or "" if there is none.
func (s *Sidecar) LastOpened() (string, error) {
	if s == nil {
		return "", nil
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("reading session file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", fmt.Errorf("decoding session file %s: %w", s.path, err)
	}
	return rec.LastOpenedFile, nil
}

// Remember records path as the last opened file.
func (s *Sidecar) Remember(path string) error {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(record{LastOpenedFile: path})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating session directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}
