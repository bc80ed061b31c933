package calc

import (
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindInvalid is the zero Kind. The engine uses an invalid Value as
	// its "no printable result" sentinel; an invalid Value never reaches
	// the stack.
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
	KindFunc
	KindVarRef
)

// Value is a closed tagged variant over every kind of thing that can sit
// on the stack: scalars, containers, callable references, and deferred
// variable references. Every stack slot holds a fully realized Value.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	eng  byte // engineering-notation suffix letter, 0 when untagged
	s    string
	list []Value
	m    map[string]Value
	fn   *Function
}

// Null is the null value.
var Null = Value{kind: KindNull}

// noValue marks "the command produced nothing printable". It is never
// pushed.
var noValue = Value{}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// FromBool creates a boolean Value.
func FromBool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// FromInt creates an integer Value.
func FromInt(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// FromFloat creates a float Value.
func FromFloat(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// FromString creates a text Value.
func FromString(s string) Value {
	return Value{kind: KindString, s: s}
}

// FromList creates a sequence Value. The slice is used directly, not
// copied.
func FromList(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, list: items}
}

// FromMap creates a mapping Value. The map is used directly, not copied.
func FromMap(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, m: m}
}

// FromFunc creates a callable-reference Value.
func FromFunc(f *Function) Value {
	return Value{kind: KindFunc, fn: f}
}

// FromVarRef creates a variable-reference Value: a deferred lookup of the
// named variable, distinct from the variable's current value.
func FromVarRef(name string) Value {
	return Value{kind: KindVarRef, s: name}
}

// ---------------------------------------------------------------------------
// Kind checks and accessors
// ---------------------------------------------------------------------------

// Kind returns the variant tag of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid returns false for the engine's "no value" sentinel.
func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

// IsNull returns true if v is the null value.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsBool returns true if v holds a boolean.
func (v Value) IsBool() bool {
	return v.kind == KindBool
}

// Bool returns v as a bool. Panics if v is not a boolean.
func (v Value) Bool() bool {
	if v.kind != KindBool {
		panic("Value.Bool: not a boolean")
	}
	return v.b
}

// IsInt returns true if v holds an integer.
func (v Value) IsInt() bool {
	return v.kind == KindInt
}

// Int returns v as an int64. Panics if v is not an integer.
func (v Value) Int() int64 {
	if v.kind != KindInt {
		panic("Value.Int: not an integer")
	}
	return v.i
}

// IsFloat returns true if v holds a float.
func (v Value) IsFloat() bool {
	return v.kind == KindFloat
}

// Float returns v as a float64. Panics if v is not a float.
func (v Value) Float() float64 {
	if v.kind != KindFloat {
		panic("Value.Float: not a float")
	}
	return v.f
}

// IsNumber returns true if v holds an integer or a float.
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// AsFloat returns a numeric v widened to float64. Panics if v is not a
// number.
func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	}
	panic("Value.AsFloat: not a number")
}

// IsString returns true if v holds text.
func (v Value) IsString() bool {
	return v.kind == KindString
}

// Text returns the text payload of a string Value, or the variable name of
// a variable reference. Panics otherwise.
func (v Value) Text() string {
	if v.kind != KindString && v.kind != KindVarRef {
		panic("Value.Text: not a string or variable reference")
	}
	return v.s
}

// IsList returns true if v holds a sequence.
func (v Value) IsList() bool {
	return v.kind == KindList
}

// List returns the sequence payload. Panics if v is not a list.
func (v Value) List() []Value {
	if v.kind != KindList {
		panic("Value.List: not a list")
	}
	return v.list
}

// IsMap returns true if v holds a mapping.
func (v Value) IsMap() bool {
	return v.kind == KindMap
}

// Map returns the mapping payload. Panics if v is not a map.
func (v Value) Map() map[string]Value {
	if v.kind != KindMap {
		panic("Value.Map: not a map")
	}
	return v.m
}

// IsFunc returns true if v holds a callable reference.
func (v Value) IsFunc() bool {
	return v.kind == KindFunc
}

// Func returns the callable descriptor. Panics if v is not a callable
// reference.
func (v Value) Func() *Function {
	if v.kind != KindFunc {
		panic("Value.Func: not a callable reference")
	}
	return v.fn
}

// IsVarRef returns true if v is a deferred variable reference.
func (v Value) IsVarRef() bool {
	return v.kind == KindVarRef
}

// ---------------------------------------------------------------------------
// Engineering-notation tags
// ---------------------------------------------------------------------------

// HasEng returns true if a numeric v carries an engineering-notation tag.
func (v Value) HasEng() bool {
	return v.eng != 0
}

// Eng returns the engineering-notation suffix letter, or 0 when untagged.
func (v Value) Eng() byte {
	return v.eng
}

// WithEng returns a copy of a numeric v tagged with the given suffix
// letter. Panics if v is not a number or the suffix is unknown.
func (v Value) WithEng(suffix byte) Value {
	if !v.IsNumber() {
		panic("Value.WithEng: not a number")
	}
	if _, ok := engExponents[suffix]; !ok {
		panic("Value.WithEng: unknown engineering suffix")
	}
	v.eng = suffix
	return v
}

// WithoutEng returns a copy of v with any engineering-notation tag
// removed.
func (v Value) WithoutEng() Value {
	v.eng = 0
	return v
}

// ---------------------------------------------------------------------------
// Truthiness, iteration, equality
// ---------------------------------------------------------------------------

// IsTruthy reports whether v counts as true in a boolean context: null,
// false, zero, empty text and empty containers are falsy.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindList:
		return len(v.list) > 0
	case KindMap:
		return len(v.m) > 0
	}
	return true
}

// Elements expands an iterable Value into its elements: a list yields a
// copy of its items, text yields its characters, and a mapping yields its
// keys in sorted order. The second result is false for non-iterables.
func (v Value) Elements() ([]Value, bool) {
	switch v.kind {
	case KindList:
		out := make([]Value, len(v.list))
		copy(out, v.list)
		return out, true
	case KindString:
		out := make([]Value, 0, len(v.s))
		for _, r := range v.s {
			out = append(out, FromString(string(r)))
		}
		return out, true
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Value, len(keys))
		for i, k := range keys {
			out[i] = FromString(k)
		}
		return out, true
	}
	return nil, false
}

// Equal reports structural equality. Integers and floats compare by
// magnitude, so 4 equals 4.0. Engineering-notation tags do not affect
// equality.
func (v Value) Equal(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		if v.kind == KindInt && other.kind == KindInt {
			return v.i == other.i
		}
		return v.AsFloat() == other.AsFloat()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindString, KindVarRef:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, val := range v.m {
			o, ok := other.m[k]
			if !ok || !val.Equal(o) {
				return false
			}
		}
		return true
	case KindFunc:
		return v.fn == other.fn
	}
	return false
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

// Repr renders v the way it would be entered: strings quoted, booleans as
// True/False, null as None, containers element by element. Numbers with an
// engineering-notation tag render with their suffix.
func (v Value) Repr() string {
	switch v.kind {
	case KindNull:
		return "None"
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindInt, KindFloat:
		return formatNumber(v)
	case KindString:
		return quoteString(v.s)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.Repr()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = quoteString(k) + ": " + v.m[k].Repr()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindFunc:
		return v.fn.String()
	case KindVarRef:
		return "Variable(" + v.s + ")"
	}
	return "<invalid>"
}

// Str renders v for display inside joined text: like Repr, but strings
// appear unquoted.
func (v Value) Str() string {
	if v.kind == KindString {
		return v.s
	}
	return v.Repr()
}

// formatNumber renders an integer or float, honoring any
// engineering-notation tag.
func formatNumber(v Value) string {
	if v.eng != 0 {
		return formatEng(v)
	}
	if v.kind == KindInt {
		return strconv.FormatInt(v.i, 10)
	}
	f := v.f
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Keep a decimal marker so floats stay visually distinct from ints.
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") &&
		!strings.Contains(s, "NaN") {
		s += ".0"
	}
	return s
}

// quoteString renders s single-quoted with minimal escaping.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString("\\'")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
