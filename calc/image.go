package calc

import (
	"fmt"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Session images are CBOR-encoded snapshots of the stack and the variable
// store. Canonical encoding keeps images deterministic for a given state.

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("calc: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// imageVersion guards against loading images written by an incompatible
// build.
const imageVersion = 1

// wireValue is the serialized form of a Value. Callable references
// serialize by registry path and re-resolve at load time.
type wireValue struct {
	Kind  uint8                `cbor:"k"`
	Bool  bool                 `cbor:"b,omitempty"`
	Int   int64                `cbor:"i,omitempty"`
	Float float64              `cbor:"f,omitempty"`
	Eng   uint8                `cbor:"e,omitempty"`
	Text  string               `cbor:"s,omitempty"`
	List  []wireValue          `cbor:"l,omitempty"`
	Map   map[string]wireValue `cbor:"m,omitempty"`
	Func  string               `cbor:"fn,omitempty"`
}

// Image is one saved session snapshot.
type Image struct {
	Version   int                  `cbor:"version"`
	Session   string               `cbor:"session"`
	SavedAt   time.Time            `cbor:"saved_at"`
	Stack     []wireValue          `cbor:"stack"`
	Variables map[string]wireValue `cbor:"variables"`
}

func toWire(v Value) wireValue {
	w := wireValue{Kind: uint8(v.kind), Eng: v.eng}
	switch v.kind {
	case KindBool:
		w.Bool = v.b
	case KindInt:
		w.Int = v.i
	case KindFloat:
		w.Float = v.f
	case KindString, KindVarRef:
		w.Text = v.s
	case KindList:
		w.List = make([]wireValue, len(v.list))
		for i, item := range v.list {
			w.List[i] = toWire(item)
		}
	case KindMap:
		w.Map = make(map[string]wireValue, len(v.m))
		for k, item := range v.m {
			w.Map[k] = toWire(item)
		}
	case KindFunc:
		w.Func = v.fn.Path()
	}
	return w
}

func (c *Calculator) fromWire(w wireValue) (Value, error) {
	switch Kind(w.Kind) {
	case KindNull:
		return Null, nil
	case KindBool:
		return FromBool(w.Bool), nil
	case KindInt:
		v := FromInt(w.Int)
		if w.Eng != 0 {
			v = v.WithEng(w.Eng)
		}
		return v, nil
	case KindFloat:
		v := FromFloat(w.Float)
		if w.Eng != 0 {
			v = v.WithEng(w.Eng)
		}
		return v, nil
	case KindString:
		return FromString(w.Text), nil
	case KindVarRef:
		return FromVarRef(w.Text), nil
	case KindList:
		items := make([]Value, len(w.List))
		for i, item := range w.List {
			v, err := c.fromWire(item)
			if err != nil {
				return noValue, err
			}
			items[i] = v
		}
		return FromList(items), nil
	case KindMap:
		m := make(map[string]Value, len(w.Map))
		for k, item := range w.Map {
			v, err := c.fromWire(item)
			if err != nil {
				return noValue, err
			}
			m[k] = v
		}
		return FromMap(m), nil
	case KindFunc:
		f, ok := c.functions[w.Func]
		if !ok {
			return noValue, fmt.Errorf("unknown function %q in image", w.Func)
		}
		return FromFunc(f), nil
	}
	return noValue, fmt.Errorf("unknown value kind %d in image", w.Kind)
}

// writeImage serializes the given stack and the current variables to
// path.
func (c *Calculator) writeImage(path string, stack []Value) error {
	img := Image{
		Version:   imageVersion,
		Session:   c.ID,
		SavedAt:   time.Now().UTC(),
		Stack:     make([]wireValue, len(stack)),
		Variables: make(map[string]wireValue, len(c.variables)),
	}
	for i, v := range stack {
		img.Stack[i] = toWire(v)
	}
	for name, v := range c.variables {
		img.Variables[name] = toWire(v)
	}

	data, err := cborEncMode.Marshal(&img)
	if err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}

// readImage deserializes a session image and resolves it against this
// session's function table. Nothing is applied on error.
func (c *Calculator) readImage(path string) ([]Value, map[string]Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read image: %w", err)
	}

	var img Image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Version != imageVersion {
		return nil, nil, fmt.Errorf("image version %d not supported",
			img.Version)
	}

	stack := make([]Value, len(img.Stack))
	for i, w := range img.Stack {
		v, err := c.fromWire(w)
		if err != nil {
			return nil, nil, err
		}
		stack[i] = v
	}
	variables := make(map[string]Value, len(img.Variables))
	for name, w := range img.Variables {
		v, err := c.fromWire(w)
		if err != nil {
			return nil, nil, err
		}
		variables[name] = v
	}

	return stack, variables, nil
}
