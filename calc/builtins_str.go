package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Text builtins
// ---------------------------------------------------------------------------

// registerStringBuiltins installs the "str" namespace: text transforms
// and the kind conversion functions.
func (c *Calculator) registerStringBuiltins() {
	for _, t := range []struct {
		name string
		doc  string
		fn   func(string) string
	}{
		{"upper", "text converted to upper case", strings.ToUpper},
		{"lower", "text converted to lower case", strings.ToLower},
		{"strip", "text with surrounding whitespace removed", strings.TrimSpace},
	} {
		name := t.name
		fn := t.fn
		c.Register("str", name, 1, t.doc,
			func(args []Value) (Value, error) {
				s, err := oneString(name, args)
				if err != nil {
					return noValue, err
				}
				return FromString(fn(s)), nil
			})
	}

	c.Register("str", "split", 1, "text split on whitespace into a list",
		func(args []Value) (Value, error) {
			s, err := oneString("split", args)
			if err != nil {
				return noValue, err
			}
			fields := strings.Fields(s)
			out := make([]Value, len(fields))
			for i, f := range fields {
				out[i] = FromString(f)
			}
			return FromList(out), nil
		})

	c.Register("str", "str", 1, "operand rendered as text",
		func(args []Value) (Value, error) {
			if err := needArgs("str", args, 1); err != nil {
				return noValue, err
			}
			return FromString(args[0].Str()), nil
		})

	c.Register("str", "repr", 1, "operand rendered as a readable literal",
		func(args []Value) (Value, error) {
			if err := needArgs("repr", args, 1); err != nil {
				return noValue, err
			}
			return FromString(args[0].Repr()), nil
		})

	c.Register("str", "int", 1, "operand converted to an integer",
		func(args []Value) (Value, error) {
			if err := needArgs("int", args, 1); err != nil {
				return noValue, err
			}
			return toInt(args[0])
		})

	c.Register("str", "float", 1, "operand converted to a float",
		func(args []Value) (Value, error) {
			if err := needArgs("float", args, 1); err != nil {
				return noValue, err
			}
			return toFloat(args[0])
		})

	c.Register("str", "bool", 1, "operand truthiness as a boolean",
		func(args []Value) (Value, error) {
			if err := needArgs("bool", args, 1); err != nil {
				return noValue, err
			}
			return FromBool(args[0].IsTruthy()), nil
		})
}

func oneString(name string, args []Value) (string, error) {
	if err := needArgs(name, args, 1); err != nil {
		return "", err
	}
	if !args[0].IsString() {
		return "", fmt.Errorf("%s needs text, got %s", name, args[0].Repr())
	}
	return args[0].Text(), nil
}

func toInt(v Value) (Value, error) {
	switch {
	case v.IsInt():
		return v.WithoutEng(), nil
	case v.IsFloat():
		return FromInt(int64(math.Trunc(v.Float()))), nil
	case v.IsBool():
		if v.Bool() {
			return FromInt(1), nil
		}
		return FromInt(0), nil
	case v.IsString():
		n, err := strconv.ParseInt(strings.TrimSpace(v.Text()), 10, 64)
		if err != nil {
			return noValue, fmt.Errorf(
				"cannot convert %s to an integer", v.Repr())
		}
		return FromInt(n), nil
	}
	return noValue, fmt.Errorf("cannot convert %s to an integer", v.Repr())
}

func toFloat(v Value) (Value, error) {
	switch {
	case v.IsNumber():
		return FromFloat(v.AsFloat()), nil
	case v.IsBool():
		if v.Bool() {
			return FromFloat(1), nil
		}
		return FromFloat(0), nil
	case v.IsString():
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text()), 64)
		if err != nil {
			return noValue, fmt.Errorf(
				"cannot convert %s to a float", v.Repr())
		}
		return FromFloat(f), nil
	}
	return noValue, fmt.Errorf("cannot convert %s to a float", v.Repr())
}
