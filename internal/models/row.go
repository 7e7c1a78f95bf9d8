package models

// RowKind distinguishes the two kinds of projected rows.
type RowKind int

const (
	// SectionRow is the header of a nested object.
	SectionRow RowKind = iota
	// LeafRow is an editable field.
	LeafRow
)

func (k RowKind) String() string {
	if k == SectionRow {
		return "section"
	}
	return "leaf"
}

// A Row is one line of a projected form: either a section header for a nested
// object or a leaf field. Depth only affects presentation.
type Row struct {
	Kind  RowKind
	Key   string
	Path  Path
	Depth int

	// Label is the display name of the row. It is the key unless the form was
	// projected with humanized labels.
	Label string

	// Leaf rows only.
	Value any
	Type  Kind
	Text  string

	// Section rows only.
	Collapsed bool
}

// IsSection reports whether r is a section header.
func (r Row) IsSection() bool { return r.Kind == SectionRow }
