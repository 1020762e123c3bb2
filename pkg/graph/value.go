package graph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueKind represents the shape of an attribute value
type ValueKind uint8

const (
	KindScalar ValueKind = iota
	KindLabel
	KindSequence
)

// String returns the string representation of a value kind
func (k ValueKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindLabel:
		return "label"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Value is a node or edge attribute value: a number, a string label or an
// ordered sequence of numbers and labels.
type Value struct {
	kind  ValueKind
	num   float64
	label string
	items []Value
}

// Helper functions to create typed values
func Scalar(f float64) Value {
	return Value{kind: KindScalar, num: f}
}

func Label(s string) Value {
	return Value{kind: KindLabel, label: s}
}

// Sequence builds a sequence value. Items must be scalars or labels;
// nesting a sequence inside a sequence panics.
func Sequence(items ...Value) Value {
	seq := make([]Value, len(items))
	for i, item := range items {
		if item.kind == KindSequence {
			panic("graph: sequence values cannot be nested")
		}
		seq[i] = item
	}
	return Value{kind: KindSequence, items: seq}
}

func Scalars(fs ...float64) Value {
	seq := make([]Value, len(fs))
	for i, f := range fs {
		seq[i] = Scalar(f)
	}
	return Value{kind: KindSequence, items: seq}
}

func Labels(ss ...string) Value {
	seq := make([]Value, len(ss))
	for i, s := range ss {
		seq[i] = Label(s)
	}
	return Value{kind: KindSequence, items: seq}
}

// Empty returns the empty sequence, used for every missing attribute value.
func Empty() Value {
	return Value{kind: KindSequence}
}

// Kind returns the shape of the value
func (v Value) Kind() ValueKind {
	return v.kind
}

// Scalar returns the number held by a scalar value
func (v Value) Scalar() (float64, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	return v.num, true
}

// Label returns the string held by a label value
func (v Value) Label() (string, bool) {
	if v.kind != KindLabel {
		return "", false
	}
	return v.label, true
}

// Items returns a copy of the items of a sequence value (nil otherwise)
func (v Value) Items() []Value {
	if v.kind != KindSequence || len(v.items) == 0 {
		return nil
	}
	out := make([]Value, len(v.items))
	copy(out, v.items)
	return out
}

// Item returns the i-th item of a sequence
func (v Value) Item(i int) Value {
	return v.items[i]
}

// Len returns the number of items of a sequence, 1 for scalars and labels
func (v Value) Len() int {
	if v.kind == KindSequence {
		return len(v.items)
	}
	return 1
}

// IsEmpty reports whether v is an empty sequence
func (v Value) IsEmpty() bool {
	return v.kind == KindSequence && len(v.items) == 0
}

// Mean returns the arithmetic mean of a scalar sequence, or the scalar
// itself. ok is false for labels, empty sequences and sequences holding
// labels.
func (v Value) Mean() (mean float64, ok bool) {
	switch v.kind {
	case KindScalar:
		return v.num, true
	case KindSequence:
		if len(v.items) == 0 {
			return 0, false
		}
		sum := 0.0
		for _, item := range v.items {
			if item.kind != KindScalar {
				return 0, false
			}
			sum += item.num
		}
		return sum / float64(len(v.items)), true
	default:
		return 0, false
	}
}

// Append returns a sequence with item added at the end. Scalars and labels
// are promoted to a one-item sequence first.
func (v Value) Append(item Value) Value {
	var base []Value
	if v.kind == KindSequence {
		base = v.items
	} else {
		base = []Value{v}
	}
	seq := make([]Value, len(base), len(base)+1)
	copy(seq, base)
	return Sequence(append(seq, item)...)
}

// Equal reports whether two values have the same shape and content
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.num == other.num
	case KindLabel:
		return v.label == other.label
	default:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	}
}

// Any converts the value to plain Go types for serialisation
func (v Value) Any() any {
	switch v.kind {
	case KindScalar:
		return v.num
	case KindLabel:
		return v.label
	default:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Any()
		}
		return out
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindLabel:
		return v.label
	default:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
}

// ValueOf converts plain Go values (numbers, strings and slices of them) to
// a Value.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Empty(), nil
	case Value:
		return t, nil
	case float64:
		return Scalar(t), nil
	case float32:
		return Scalar(float64(t)), nil
	case int:
		return Scalar(float64(t)), nil
	case int64:
		return Scalar(float64(t)), nil
	case string:
		return Label(t), nil
	case []string:
		return Labels(t...), nil
	case []float64:
		return Scalars(t...), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			iv, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			if iv.kind == KindSequence {
				return Value{}, fmt.Errorf("nested sequence values are not supported")
			}
			items = append(items, iv)
		}
		return Sequence(items...), nil
	default:
		return Value{}, fmt.Errorf("unsupported attribute value type %T", x)
	}
}

// Attributes maps attribute names to values
type Attributes map[string]Value

// Clone returns a copy of the attribute map. Values are immutable and are
// shared.
func (a Attributes) Clone() Attributes {
	clone := make(Attributes, len(a))
	for k, v := range a {
		clone[k] = v
	}
	return clone
}

// Names returns the attribute names in sorted order
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for k := range a {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
