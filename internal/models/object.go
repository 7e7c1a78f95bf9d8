package models

import "iter"

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value any
}

// An Object is a JSON object whose members keep their insertion order.
// The zero value is an empty object ready to use.
type Object struct {
	members []Member
}

// NewObject returns an object holding the given members in order. Later
// members replace earlier members with the same key.
func NewObject(members ...Member) *Object {
	o := &Object{members: make([]Member, 0, len(members))}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return o
}

// Len reports the number of members in o.
func (o *Object) Len() int { return len(o.members) }

func (o *Object) find(key string) int {
	for i, m := range o.members {
		if m.Key == key {
			return i
		}
	}
	return -1
}

// Get returns the value of the member with the given key.
func (o *Object) Get(key string) (any, bool) {
	if i := o.find(key); i >= 0 {
		return o.members[i].Value, true
	}
	return nil, false
}

// Has reports whether o has a member with the given key.
func (o *Object) Has(key string) bool { return o.find(key) >= 0 }

// Set assigns value to key. An existing member keeps its position; a new
// member is appended.
func (o *Object) Set(key string, value any) {
	if i := o.find(key); i >= 0 {
		o.members[i].Value = value
		return
	}
	o.members = append(o.members, Member{Key: key, Value: value})
}

// Delete removes the member with the given key, and reports whether it was
// present.
func (o *Object) Delete(key string) bool {
	i := o.find(key)
	if i < 0 {
		return false
	}
	o.members = append(o.members[:i], o.members[i+1:]...)
	return true
}

// Keys returns the member keys of o in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// All iterates over the members of o in order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, m := range o.members {
			if !yield(m.Key, m.Value) {
				return
			}
		}
	}
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	out := &Object{members: make([]Member, len(o.members))}
	for i, m := range o.members {
		out.members[i] = Member{Key: m.Key, Value: Clone(m.Value)}
	}
	return out
}

// MarshalJSON encodes o with its members in order.
func (o *Object) MarshalJSON() ([]byte, error) { return AppendJSON(nil, o) }
