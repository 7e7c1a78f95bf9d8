package models

import (
	"slices"
	"strings"
)

// A Path addresses a member inside a nested object as the sequence of keys
// leading to it. The empty path addresses the object itself.
type Path []string

// ParsePath splits a dot-joined path. The empty string is the empty path.
func ParsePath(s string) Path {
	if s == "" {
		return Path{}
	}
	return Path(strings.Split(s, "."))
}

// String returns the dot-joined form of p, as used for collapsed sections.
func (p Path) String() string { return strings.Join(p, ".") }

// Child returns a new path extending p by key. It never aliases p.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// Parent returns p without its last key, and the last key.
func (p Path) Parent() (Path, string) {
	if len(p) == 0 {
		return p, ""
	}
	return p[:len(p)-1], p[len(p)-1]
}

// Equal reports whether p and q have the same keys in the same order.
func (p Path) Equal(q Path) bool { return slices.Equal(p, q) }
