package calc

import (
	"fmt"
	"math"
	"strings"
)

// ---------------------------------------------------------------------------
// Operator builtins
// ---------------------------------------------------------------------------

// registerOperatorBuiltins installs the "op" namespace and the symbolic
// aliases (+, -, *, /, comparisons) users actually type.
func (c *Calculator) registerOperatorBuiltins() {
	c.Register("op", "add", 2, "a + b; concatenates text and sequences",
		func(args []Value) (Value, error) {
			if err := needArgs("add", args, 2); err != nil {
				return noValue, err
			}
			return opAdd(args[0], args[1])
		})

	c.Register("op", "sub", 2, "a - b",
		func(args []Value) (Value, error) {
			if err := needArgs("sub", args, 2); err != nil {
				return noValue, err
			}
			return opSub(args[0], args[1])
		})

	c.Register("op", "mul", 2, "a * b; repeats text and sequences",
		func(args []Value) (Value, error) {
			if err := needArgs("mul", args, 2); err != nil {
				return noValue, err
			}
			return opMul(args[0], args[1])
		})

	c.Register("op", "truediv", 2, "a / b",
		func(args []Value) (Value, error) {
			if err := needArgs("truediv", args, 2); err != nil {
				return noValue, err
			}
			a, b, err := twoNumbers("truediv", args[0], args[1])
			if err != nil {
				return noValue, err
			}
			if b == 0 {
				return noValue, fmt.Errorf("division by zero")
			}
			return FromFloat(a / b), nil
		})

	c.Register("op", "floordiv", 2, "a // b",
		func(args []Value) (Value, error) {
			if err := needArgs("floordiv", args, 2); err != nil {
				return noValue, err
			}
			if args[0].IsInt() && args[1].IsInt() {
				if args[1].Int() == 0 {
					return noValue, fmt.Errorf("division by zero")
				}
				return FromInt(floorDivInt(args[0].Int(), args[1].Int())), nil
			}
			a, b, err := twoNumbers("floordiv", args[0], args[1])
			if err != nil {
				return noValue, err
			}
			if b == 0 {
				return noValue, fmt.Errorf("division by zero")
			}
			return FromFloat(math.Floor(a / b)), nil
		})

	c.Register("op", "mod", 2, "a mod b, with the sign of b",
		func(args []Value) (Value, error) {
			if err := needArgs("mod", args, 2); err != nil {
				return noValue, err
			}
			if args[0].IsInt() && args[1].IsInt() {
				b := args[1].Int()
				if b == 0 {
					return noValue, fmt.Errorf("division by zero")
				}
				return FromInt(((args[0].Int() % b) + b) % b), nil
			}
			a, b, err := twoNumbers("mod", args[0], args[1])
			if err != nil {
				return noValue, err
			}
			if b == 0 {
				return noValue, fmt.Errorf("division by zero")
			}
			m := math.Mod(a, b)
			if m != 0 && (m < 0) != (b < 0) {
				m += b
			}
			return FromFloat(m), nil
		})

	c.Register("op", "neg", 1, "-a",
		func(args []Value) (Value, error) {
			if err := needArgs("neg", args, 1); err != nil {
				return noValue, err
			}
			switch {
			case args[0].IsInt():
				return FromInt(-args[0].Int()), nil
			case args[0].IsFloat():
				return FromFloat(-args[0].Float()), nil
			}
			return noValue, notNumber("neg", args[0])
		})

	c.Register("op", "eq", 2, "a == b",
		func(args []Value) (Value, error) {
			if err := needArgs("eq", args, 2); err != nil {
				return noValue, err
			}
			return FromBool(args[0].Equal(args[1])), nil
		})

	c.Register("op", "ne", 2, "a != b",
		func(args []Value) (Value, error) {
			if err := needArgs("ne", args, 2); err != nil {
				return noValue, err
			}
			return FromBool(!args[0].Equal(args[1])), nil
		})

	for _, cmp := range []struct {
		name string
		doc  string
		keep func(int) bool
	}{
		{"lt", "a < b", func(n int) bool { return n < 0 }},
		{"le", "a <= b", func(n int) bool { return n <= 0 }},
		{"gt", "a > b", func(n int) bool { return n > 0 }},
		{"ge", "a >= b", func(n int) bool { return n >= 0 }},
	} {
		keep := cmp.keep
		name := cmp.name
		c.Register("op", name, 2, cmp.doc,
			func(args []Value) (Value, error) {
				if err := needArgs(name, args, 2); err != nil {
					return noValue, err
				}
				n, err := compareValues(args[0], args[1])
				if err != nil {
					return noValue, err
				}
				return FromBool(keep(n)), nil
			})
	}

	c.Register("op", "not", 1, "logical negation",
		func(args []Value) (Value, error) {
			if err := needArgs("not", args, 1); err != nil {
				return noValue, err
			}
			return FromBool(!args[0].IsTruthy()), nil
		})

	for alias, path := range map[string]string{
		"+":   "op.add",
		"-":   "op.sub",
		"*":   "op.mul",
		"/":   "op.truediv",
		"div": "op.truediv",
		"==":  "op.eq",
		"!=":  "op.ne",
		"<":   "op.lt",
		"<=":  "op.le",
		">":   "op.gt",
		">=":  "op.ge",
	} {
		c.RegisterAlias(alias, path)
	}
}

// ---------------------------------------------------------------------------
// Arithmetic helpers
// ---------------------------------------------------------------------------

func opAdd(a, b Value) (Value, error) {
	switch {
	case a.IsNumber() && b.IsNumber():
		var result Value
		if a.IsInt() && b.IsInt() {
			result = FromInt(a.Int() + b.Int())
		} else {
			result = FromFloat(a.AsFloat() + b.AsFloat())
		}
		if tag := combineEngTag(a, b); tag != 0 {
			result = result.WithEng(tag)
		}
		return result, nil
	case a.IsString() && b.IsString():
		return FromString(a.Text() + b.Text()), nil
	case a.IsList() && b.IsList():
		joined := append(append([]Value{}, a.List()...), b.List()...)
		return FromList(joined), nil
	}
	return noValue, fmt.Errorf("cannot add %s and %s", a.Repr(), b.Repr())
}

func opSub(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return noValue, fmt.Errorf("cannot subtract %s from %s",
			b.Repr(), a.Repr())
	}
	var result Value
	if a.IsInt() && b.IsInt() {
		result = FromInt(a.Int() - b.Int())
	} else {
		result = FromFloat(a.AsFloat() - b.AsFloat())
	}
	if tag := combineEngTag(a, b); tag != 0 {
		result = result.WithEng(tag)
	}
	return result, nil
}

func opMul(a, b Value) (Value, error) {
	switch {
	case a.IsNumber() && b.IsNumber():
		if a.IsInt() && b.IsInt() {
			return FromInt(a.Int() * b.Int()), nil
		}
		return FromFloat(a.AsFloat() * b.AsFloat()), nil
	case a.IsString() && b.IsInt():
		return FromString(strings.Repeat(a.Text(), clampRepeat(b.Int()))), nil
	case a.IsInt() && b.IsString():
		return FromString(strings.Repeat(b.Text(), clampRepeat(a.Int()))), nil
	case a.IsList() && b.IsInt():
		return repeatList(a.List(), b.Int()), nil
	case a.IsInt() && b.IsList():
		return repeatList(b.List(), a.Int()), nil
	}
	return noValue, fmt.Errorf("cannot multiply %s and %s", a.Repr(), b.Repr())
}

func clampRepeat(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}

func repeatList(items []Value, n int64) Value {
	out := []Value{}
	for i := int64(0); i < n; i++ {
		out = append(out, items...)
	}
	return FromList(out)
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// compareValues orders two values: numbers by magnitude, text
// lexicographically, booleans false before true, sequences element by
// element. Mixed kinds are an error.
func compareValues(a, b Value) (int, error) {
	switch {
	case a.IsNumber() && b.IsNumber():
		x, y := a.AsFloat(), b.AsFloat()
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case a.IsString() && b.IsString():
		return strings.Compare(a.Text(), b.Text()), nil
	case a.IsBool() && b.IsBool():
		switch {
		case !a.Bool() && b.Bool():
			return -1, nil
		case a.Bool() && !b.Bool():
			return 1, nil
		}
		return 0, nil
	case a.IsList() && b.IsList():
		la, lb := a.List(), b.List()
		for i := 0; i < len(la) && i < len(lb); i++ {
			n, err := compareValues(la[i], lb[i])
			if err != nil {
				return 0, err
			}
			if n != 0 {
				return n, nil
			}
		}
		return len(la) - len(lb), nil
	}
	return 0, fmt.Errorf("cannot compare %s and %s", a.Repr(), b.Repr())
}

// needArgs checks an exact operand count.
func needArgs(name string, args []Value, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s takes %d argument%s, got %d",
			name, n, plural(n), len(args))
	}
	return nil
}

func notNumber(name string, v Value) error {
	return fmt.Errorf("%s needs a number, got %s", name, v.Repr())
}
