package parser

import (
	"fmt"
	"strconv"

	"github.com/creachadair/jtree"

	"github.com/mcncl/jsonform/internal/models"
)

// A decoder implements jtree.Handler to build a value tree. Objects are
// *models.Object so that member order survives decoding.
type decoder struct {
	stk  []*frame
	root any
}

type frame struct {
	obj *models.Object
	arr models.Array
	key string // pending member key, objects only
}

func (d *decoder) push(f *frame) { d.stk = append(d.stk, f) }

func (d *decoder) pop() *frame {
	f := d.stk[len(d.stk)-1]
	d.stk = d.stk[:len(d.stk)-1]
	return f
}

// add delivers a complete value to the innermost open container, or makes it
// the root if there is none.
func (d *decoder) add(v any) {
	if len(d.stk) == 0 {
		d.root = v
		return
	}
	top := d.stk[len(d.stk)-1]
	if top.obj != nil {
		top.obj.Set(top.key, v)
	} else {
		top.arr = append(top.arr, v)
	}
}

func (d *decoder) BeginObject(jtree.Anchor) error {
	d.push(&frame{obj: models.NewObject()})
	return nil
}

func (d *decoder) EndObject(jtree.Anchor) error {
	d.add(d.pop().obj)
	return nil
}

func (d *decoder) BeginArray(jtree.Anchor) error {
	d.push(&frame{arr: models.Array{}})
	return nil
}

func (d *decoder) EndArray(jtree.Anchor) error {
	d.add(d.pop().arr)
	return nil
}

func (d *decoder) BeginMember(loc jtree.Anchor) error {
	key, err := jtree.Unquote(loc.Text())
	if err != nil {
		return fmt.Errorf("invalid object key: %w", err)
	}
	d.stk[len(d.stk)-1].key = string(key)
	return nil
}

func (d *decoder) EndMember(jtree.Anchor) error { return nil }

func (d *decoder) Value(loc jtree.Anchor) error {
	text := string(loc.Text())
	switch loc.Token() {
	case jtree.String:
		s, err := jtree.UnquoteString(text)
		if err != nil {
			return fmt.Errorf("invalid string: %w", err)
		}
		d.add(string(s))
	case jtree.Integer:
		if z, err := strconv.ParseInt(text, 10, 64); err == nil {
			d.add(z)
			break
		}
		// Out of int64 range.
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", text, err)
		}
		d.add(f)
	case jtree.Number:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", text, err)
		}
		d.add(f)
	case jtree.True, jtree.False:
		d.add(loc.Token() == jtree.True)
	case jtree.Null:
		d.add(nil)
	default:
		return fmt.Errorf("unknown value %v", loc.Token())
	}
	return nil
}

func (d *decoder) EndOfInput(jtree.Anchor) {}
