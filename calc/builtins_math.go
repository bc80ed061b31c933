package calc

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Math builtins
// ---------------------------------------------------------------------------

// registerMathBuiltins installs the "math" namespace: unary float
// functions, integral rounding, and a few two-operand functions.
func (c *Calculator) registerMathBuiltins() {
	for _, u := range []struct {
		name string
		doc  string
		fn   func(float64) float64
	}{
		{"sqrt", "square root", math.Sqrt},
		{"exp", "e raised to the operand", math.Exp},
		{"log", "natural logarithm", math.Log},
		{"log2", "base-2 logarithm", math.Log2},
		{"log10", "base-10 logarithm", math.Log10},
		{"sin", "sine, operand in radians", math.Sin},
		{"cos", "cosine, operand in radians", math.Cos},
		{"tan", "tangent, operand in radians", math.Tan},
		{"degrees", "radians to degrees", func(x float64) float64 {
			return x * 180 / math.Pi
		}},
		{"radians", "degrees to radians", func(x float64) float64 {
			return x * math.Pi / 180
		}},
	} {
		name := u.name
		fn := u.fn
		c.Register("math", name, 1, u.doc,
			func(args []Value) (Value, error) {
				x, err := oneNumber(name, args)
				if err != nil {
					return noValue, err
				}
				return FromFloat(fn(x)), nil
			})
	}

	for _, r := range []struct {
		name string
		doc  string
		fn   func(float64) float64
	}{
		{"ceil", "smallest integer >= operand", math.Ceil},
		{"floor", "largest integer <= operand", math.Floor},
		{"trunc", "operand with the fraction removed", math.Trunc},
		{"round", "operand rounded to the nearest integer", math.RoundToEven},
	} {
		name := r.name
		fn := r.fn
		c.Register("math", name, 1, r.doc,
			func(args []Value) (Value, error) {
				if err := needArgs(name, args, 1); err != nil {
					return noValue, err
				}
				if args[0].IsInt() {
					return args[0].WithoutEng(), nil
				}
				x, err := oneNumber(name, args)
				if err != nil {
					return noValue, err
				}
				return FromInt(int64(fn(x))), nil
			})
	}

	c.Register("math", "abs", 1, "absolute value",
		func(args []Value) (Value, error) {
			if err := needArgs("abs", args, 1); err != nil {
				return noValue, err
			}
			switch {
			case args[0].IsInt():
				n := args[0].Int()
				if n < 0 {
					n = -n
				}
				return FromInt(n), nil
			case args[0].IsFloat():
				return FromFloat(math.Abs(args[0].Float())), nil
			}
			return noValue, notNumber("abs", args[0])
		})

	c.Register("math", "pow", 2, "first operand raised to the second",
		func(args []Value) (Value, error) {
			if err := needArgs("pow", args, 2); err != nil {
				return noValue, err
			}
			a, b := args[0], args[1]
			if a.IsInt() && b.IsInt() && b.Int() >= 0 {
				return FromInt(powInt(a.Int(), b.Int())), nil
			}
			x, y, err := twoNumbers("pow", a, b)
			if err != nil {
				return noValue, err
			}
			return FromFloat(math.Pow(x, y)), nil
		})

	c.Register("math", "hypot", 2, "sqrt(a*a + b*b)",
		func(args []Value) (Value, error) {
			if err := needArgs("hypot", args, 2); err != nil {
				return noValue, err
			}
			x, y, err := twoNumbers("hypot", args[0], args[1])
			if err != nil {
				return noValue, err
			}
			return FromFloat(math.Hypot(x, y)), nil
		})

	c.Register("math", "factorial", 1, "n! for a non-negative integer",
		func(args []Value) (Value, error) {
			if err := needArgs("factorial", args, 1); err != nil {
				return noValue, err
			}
			if !args[0].IsInt() {
				return noValue, fmt.Errorf(
					"factorial needs an integer, got %s", args[0].Repr())
			}
			n := args[0].Int()
			if n < 0 {
				return noValue, fmt.Errorf(
					"factorial of a negative number is undefined")
			}
			if n > 20 {
				return noValue, fmt.Errorf("factorial(%d) overflows", n)
			}
			result := int64(1)
			for i := int64(2); i <= n; i++ {
				result *= i
			}
			return FromInt(result), nil
		})

	c.Register("math", "gcd", 2, "greatest common divisor of two integers",
		func(args []Value) (Value, error) {
			if err := needArgs("gcd", args, 2); err != nil {
				return noValue, err
			}
			if !args[0].IsInt() || !args[1].IsInt() {
				return noValue, fmt.Errorf(
					"gcd needs integers, got %s and %s",
					args[0].Repr(), args[1].Repr())
			}
			a, b := args[0].Int(), args[1].Int()
			if a < 0 {
				a = -a
			}
			if b < 0 {
				b = -b
			}
			for b != 0 {
				a, b = b, a%b
			}
			return FromInt(a), nil
		})
}

func powInt(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// ---------------------------------------------------------------------------
// Numeric coercion
// ---------------------------------------------------------------------------

func oneNumber(name string, args []Value) (float64, error) {
	if err := needArgs(name, args, 1); err != nil {
		return 0, err
	}
	if !args[0].IsNumber() {
		return 0, notNumber(name, args[0])
	}
	return args[0].AsFloat(), nil
}

func twoNumbers(name string, a, b Value) (float64, float64, error) {
	if !a.IsNumber() {
		return 0, 0, notNumber(name, a)
	}
	if !b.IsNumber() {
		return 0, 0, notNumber(name, b)
	}
	return a.AsFloat(), b.AsFloat(), nil
}
