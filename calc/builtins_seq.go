package calc

import (
	"fmt"
	"sort"
	"strings"
)

// ---------------------------------------------------------------------------
// Sequence builtins
// ---------------------------------------------------------------------------

// registerSequenceBuiltins installs the "seq" namespace. Most of these
// accept either one iterable operand or, with a count modifier, that many
// individual operands.
func (c *Calculator) registerSequenceBuiltins() {
	c.Register("seq", "range", 1, "list of integers 0..n-1; 2 args: start, stop; 3: start, stop, step",
		func(args []Value) (Value, error) {
			return seqRange(args)
		})

	c.Register("seq", "len", 1, "number of elements in a sequence",
		func(args []Value) (Value, error) {
			if err := needArgs("len", args, 1); err != nil {
				return noValue, err
			}
			v := args[0]
			switch {
			case v.IsString():
				return FromInt(int64(len([]rune(v.Text())))), nil
			case v.IsList():
				return FromInt(int64(len(v.List()))), nil
			case v.IsMap():
				return FromInt(int64(len(v.Map()))), nil
			}
			return noValue, fmt.Errorf("%s has no length", v.Repr())
		})

	c.Register("seq", "sum", 1, "sum of a sequence of numbers",
		func(args []Value) (Value, error) {
			items, err := spreadNumbers("sum", args)
			if err != nil {
				return noValue, err
			}
			allInt := true
			var fTotal float64
			var iTotal int64
			for _, v := range items {
				if v.IsInt() {
					iTotal += v.Int()
				} else {
					allInt = false
				}
				fTotal += v.AsFloat()
			}
			if allInt {
				return FromInt(iTotal), nil
			}
			return FromFloat(fTotal), nil
		})

	c.Register("seq", "min", 1, "smallest element of a sequence",
		func(args []Value) (Value, error) {
			return seqExtreme("min", args, func(n int) bool { return n < 0 })
		})

	c.Register("seq", "max", 1, "largest element of a sequence",
		func(args []Value) (Value, error) {
			return seqExtreme("max", args, func(n int) bool { return n > 0 })
		})

	c.Register("seq", "sorted", 1, "elements of a sequence in ascending order",
		func(args []Value) (Value, error) {
			items, err := spreadElements("sorted", args)
			if err != nil {
				return noValue, err
			}
			out := append([]Value{}, items...)
			sort.SliceStable(out, func(i, j int) bool {
				n, cmpErr := compareValues(out[i], out[j])
				if cmpErr != nil && err == nil {
					err = cmpErr
				}
				return n < 0
			})
			if err != nil {
				return noValue, err
			}
			return FromList(out), nil
		})

	c.Register("seq", "reversed", 1, "elements of a sequence in reverse order",
		func(args []Value) (Value, error) {
			items, err := spreadElements("reversed", args)
			if err != nil {
				return noValue, err
			}
			out := append([]Value{}, items...)
			reverseValues(out)
			return FromList(out), nil
		})

	c.Register("seq", "count", 2, "occurrences of the second operand in the first",
		func(args []Value) (Value, error) {
			if err := needArgs("count", args, 2); err != nil {
				return noValue, err
			}
			container, item := args[0], args[1]
			switch {
			case container.IsString() && item.IsString():
				return FromInt(int64(strings.Count(
					container.Text(), item.Text()))), nil
			case container.IsList():
				n := int64(0)
				for _, v := range container.List() {
					if v.Equal(item) {
						n++
					}
				}
				return FromInt(n), nil
			}
			return noValue, fmt.Errorf("cannot count %s in %s",
				item.Repr(), container.Repr())
		})
}

func seqRange(args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 3 {
		return noValue, fmt.Errorf(
			"range takes 1 to 3 arguments, got %d", len(args))
	}
	for _, v := range args {
		if !v.IsInt() {
			return noValue, fmt.Errorf(
				"range needs integers, got %s", v.Repr())
		}
	}
	start, stop, step := int64(0), int64(0), int64(1)
	switch len(args) {
	case 1:
		stop = args[0].Int()
	case 2:
		start, stop = args[0].Int(), args[1].Int()
	case 3:
		start, stop, step = args[0].Int(), args[1].Int(), args[2].Int()
		if step == 0 {
			return noValue, fmt.Errorf("range step must not be zero")
		}
	}
	out := []Value{}
	if step > 0 {
		for i := start; i < stop; i += step {
			out = append(out, FromInt(i))
		}
	} else {
		for i := start; i > stop; i += step {
			out = append(out, FromInt(i))
		}
	}
	return FromList(out), nil
}

func seqExtreme(name string, args []Value, better func(int) bool) (Value, error) {
	items, err := spreadElements(name, args)
	if err != nil {
		return noValue, err
	}
	if len(items) == 0 {
		return noValue, fmt.Errorf("%s of an empty sequence", name)
	}
	best := items[0]
	for _, v := range items[1:] {
		n, err := compareValues(v, best)
		if err != nil {
			return noValue, err
		}
		if better(n) {
			best = v
		}
	}
	return best, nil
}

// spreadElements treats a single iterable operand as its elements and
// multiple operands as the sequence itself.
func spreadElements(name string, args []Value) ([]Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%s needs at least 1 argument", name)
	}
	if len(args) == 1 {
		items, ok := args[0].Elements()
		if !ok {
			return nil, fmt.Errorf("%s needs a sequence, got %s",
				name, args[0].Repr())
		}
		return items, nil
	}
	return args, nil
}

func spreadNumbers(name string, args []Value) ([]Value, error) {
	items, err := spreadElements(name, args)
	if err != nil {
		return nil, err
	}
	for _, v := range items {
		if !v.IsNumber() {
			return nil, notNumber(name, v)
		}
	}
	return items, nil
}
