package editor

import (
	"github.com/goccy/go-json"

	"github.com/mcncl/jsonform/internal/coerce"
	"github.com/mcncl/jsonform/internal/errors"
	"github.com/mcncl/jsonform/internal/models"
	"github.com/mcncl/jsonform/internal/parser"
)

// Preview returns the current object as indented JSON, including any edits
// made so far.
func (s *Session) Preview() (string, error) {
	if err := s.commit(coerce.Live); err != nil {
		return "", err
	}
	cur, err := s.store.Current()
	if err != nil {
		return "", err
	}
	out, err := s.formatter.FormatString(cur)
	if err != nil {
		return "", errors.NewValidationError("object cannot be rendered as JSON", err)
	}
	return out, nil
}

// ApplyPreview replaces the current object with the object encoded in text.
// If text is not a JSON object the document is unchanged.
func (s *Session) ApplyPreview(text string) ([]models.Row, error) {
	if !s.store.Loaded() {
		return nil, noDocument()
	}
	data := []byte(text)
	if !s.cfg.Load.AllowComments && !json.Valid(data) {
		return nil, errors.NewValidationError("preview text is not valid JSON", errors.ErrInvalidJSON)
	}
	v, err := parser.ParseBytes(data, parser.Options{AllowComments: s.cfg.Load.AllowComments})
	if err != nil {
		return nil, errors.NewValidationError("preview text is not valid JSON", err)
	}
	obj, ok := v.(*models.Object)
	if !ok {
		return nil, errors.NewValidationError("preview text must be a JSON object", errors.ErrNotObject)
	}
	if err := s.store.ReplaceCurrent(obj); err != nil {
		return nil, err
	}
	return s.rebuild(), nil
}
