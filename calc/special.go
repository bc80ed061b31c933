package calc

// SpecialFunc is the signature of a special-command handler. count is
// NoCount when the token carried no numeric modifier. The returned Value
// feeds result printing; an invalid Value means nothing printable.
type SpecialFunc func(c *Calculator, mods Modifiers, count int) (Value, error)

// registerSpecialCommands installs the built-in special commands and
// their short aliases.
func (c *Calculator) registerSpecialCommands() {
	for _, entry := range []struct {
		fn    SpecialFunc
		names []string
	}{
		{specialApply, []string{"apply"}},
		{specialClear, []string{"clear", "c"}},
		{specialDup, []string{"dup", "d"}},
		{specialFunctions, []string{"functions"}},
		{specialJoin, []string{"join"}},
		{specialList, []string{"list"}},
		{specialLoad, []string{"load"}},
		{specialMap, []string{"map"}},
		{specialPop, []string{"pop"}},
		{specialPrint, []string{"print", "p"}},
		{specialQuit, []string{"quit", "q"}},
		{specialReduce, []string{"reduce"}},
		{specialReverse, []string{"reverse"}},
		{specialSave, []string{"save"}},
		{specialStack, []string{"stack", "s", "f"}},
		{specialStore, []string{"store"}},
		{specialSwap, []string{"swap"}},
		{specialUndo, []string{"undo"}},
		{specialVariables, []string{"variables"}},
		{specialVersion, []string{"version"}},
	} {
		for _, name := range entry.names {
			c.RegisterSpecial(name, entry.fn)
		}
	}
}

// specialQuit ends the session.
func specialQuit(c *Calculator, mods Modifiers, count int) (Value, error) {
	return noValue, ErrQuit
}

// specialVersion displays the build identifier.
func specialVersion(c *Calculator, mods Modifiers, count int) (Value, error) {
	c.report("%s", Version)
	return noValue, nil
}

// specialFunctions lists every registered callable with its default arity
// and origin.
func specialFunctions(c *Calculator, mods Modifiers, count int) (Value, error) {
	for _, name := range sortedNames(c.functions) {
		c.report("%s %s", name, c.functions[name])
	}
	return noValue, nil
}

// specialVariables lists the current variable bindings.
func specialVariables(c *Calculator, mods Modifiers, count int) (Value, error) {
	for _, name := range sortedNames(c.variables) {
		c.report("%s: %s", name, c.variables[name].Repr())
	}
	return noValue, nil
}

// specialStack displays the whole stack without mutating it.
func specialStack(c *Calculator, mods Modifiers, count int) (Value, error) {
	c.PrintStack()
	return noValue, nil
}

// specialPrint displays the top count items (default 1) without mutating
// the stack.
func specialPrint(c *Calculator, mods Modifiers, count int) (Value, error) {
	if count == NoCount {
		if mods.All {
			c.PrintStack()
			return noValue, nil
		}
		count = 1
	}
	if count > len(c.stack) {
		return noValue, calcErrorf(
			"Cannot print %d item%s (stack length is %d)",
			count, plural(count), len(c.stack))
	}
	if count == 1 {
		c.printTop()
		return noValue, nil
	}
	for _, v := range c.stack[len(c.stack)-count:] {
		c.pprint(v)
	}
	return noValue, nil
}

// specialClear empties the stack.
func specialClear(c *Calculator, mods Modifiers, count int) (Value, error) {
	if mods.PreserveStack {
		return noValue, calcErrorf("The := modifier makes no sense with clear")
	}
	if len(c.stack) > 0 {
		c.finish(noValue, mods, finishOpts{nPop: len(c.stack), discard: true})
	}
	return noValue, nil
}

// specialDup duplicates the top count items (default 1), preserving their
// order.
func specialDup(c *Calculator, mods Modifiers, count int) (Value, error) {
	if mods.PreserveStack {
		return noValue, calcErrorf("The := modifier makes no sense with dup")
	}
	if len(c.stack) == 0 {
		return noValue, calcErrorf("Cannot duplicate (stack is empty)")
	}

	n := 1
	if count != NoCount {
		n = count
	} else if mods.All {
		n = len(c.stack)
	}
	if n > len(c.stack) {
		return noValue, calcErrorf(
			"Cannot duplicate %d item%s (stack length is %d)",
			n, plural(n), len(c.stack))
	}

	block := append([]Value(nil), c.stack[len(c.stack)-n:]...)
	c.finish(FromList(block), mods, finishOpts{extend: true})
	if n == 1 {
		return block[0], nil
	}
	return FromList(block), nil
}

// specialPop discards the top count items (default 1; all with *).
func specialPop(c *Calculator, mods Modifiers, count int) (Value, error) {
	n := 1
	if count != NoCount {
		n = count
	} else if mods.All {
		n = len(c.stack)
	}

	if len(c.stack) < n {
		return noValue, calcErrorf(
			"Cannot pop %d item%s (stack length is %d)",
			n, plural(n), len(c.stack))
	}

	var popped Value
	if n == 1 {
		popped = c.stack[len(c.stack)-1]
	} else {
		popped = FromList(append([]Value(nil), c.stack[len(c.stack)-n:]...))
	}
	c.finish(popped, mods, finishOpts{nPop: n, discard: true})
	return popped, nil
}

// specialSwap exchanges the top two items.
func specialSwap(c *Calculator, mods Modifiers, count int) (Value, error) {
	if len(c.stack) < 2 {
		return noValue, calcErrorf("Cannot swap (stack needs 2 items)")
	}
	top := c.stack[len(c.stack)-1]
	second := c.stack[len(c.stack)-2]
	c.finish(FromList([]Value{top, second}), mods,
		finishOpts{nPop: 2, extend: true})
	return noValue, nil
}

// specialReverse reverses the order of the top count items (default 2;
// the whole stack with *). Reversing a single item is a no-op.
func specialReverse(c *Calculator, mods Modifiers, count int) (Value, error) {
	n := 2
	if count != NoCount {
		n = count
	} else if mods.All {
		n = len(c.stack)
	}

	if len(c.stack) < n {
		return noValue, calcErrorf(
			"Cannot reverse %d item%s (stack length is %d)",
			n, plural(n), len(c.stack))
	}
	if n <= 1 {
		return noValue, nil
	}

	block := append([]Value(nil), c.stack[len(c.stack)-n:]...)
	reverseValues(block)
	c.finish(FromList(block), mods, finishOpts{nPop: n, extend: true})
	return noValue, nil
}

// specialList converts stack items into a single sequence. With the
// default count the top item is expanded by iteration (a non-iterable
// becomes a one-element sequence); with a count or *, that many items pop
// into one sequence, oldest first.
func specialList(c *Calculator, mods Modifiers, count int) (Value, error) {
	if len(c.stack) == 0 {
		return noValue, calcErrorf("Cannot run list (stack is empty)")
	}

	n := 1
	if count != NoCount {
		n = count
	} else if mods.All {
		n = len(c.stack)
	}

	var value Value
	if n == 1 {
		top := c.stack[len(c.stack)-1]
		if elems, ok := top.Elements(); ok {
			value = FromList(elems)
		} else {
			value = FromList([]Value{top})
		}
	} else {
		if len(c.stack) < n {
			return noValue, calcErrorf(
				"Cannot list %d item%s (stack length is %d)",
				n, plural(n), len(c.stack))
		}
		value = FromList(append([]Value(nil), c.stack[len(c.stack)-n:]...))
	}

	c.finish(value, mods, finishOpts{nPop: n})
	return value, nil
}

// specialStore binds stack item(s) to a variable. The variable name is a
// text operand resolved like any auxiliary operand; a single data operand
// binds directly, several bind as one sequence.
func specialStore(c *Calculator, mods Modifiers, count int) (Value, error) {
	name, args, err := c.findStringAndArgs("store", mods, count)
	if err != nil {
		return noValue, err
	}

	var value Value
	if len(args) == 1 {
		value = args[0]
	} else {
		value = FromList(args)
	}

	if !mods.PreserveStack {
		c.saveState()
		c.drop(len(args) + 1)
	}
	c.variables[name] = value
	return noValue, nil
}

// specialApply invokes a callable operand against its resolved data
// operands.
func specialApply(c *Calculator, mods Modifiers, count int) (Value, error) {
	f, args, err := c.findCallableAndArgs("apply", mods, count)
	if err != nil {
		return noValue, err
	}
	result, err := f.Fn(args)
	if err != nil {
		return noValue, calcErrorf("Exception running %s(%s): %s",
			f.Name, renderArgs(args), err)
	}
	c.finish(result, mods, finishOpts{nPop: len(args) + 1})
	return result, nil
}

// specialReduce folds a callable left to right over its data operands,
// seeding with the first. A single sequence operand folds over its
// elements.
func specialReduce(c *Calculator, mods Modifiers, count int) (Value, error) {
	f, args, err := c.findCallableAndArgs("reduce", mods, count)
	if err != nil {
		return noValue, err
	}

	nPop := len(args) + 1
	if len(args) == 1 {
		elems, ok := args[0].Elements()
		if !ok {
			return noValue, calcErrorf(
				"Cannot reduce over non-iterable %s", args[0].Repr())
		}
		args = elems
	}
	if len(args) == 0 {
		return noValue, calcErrorf("Cannot reduce over an empty sequence")
	}

	acc := args[0]
	for _, x := range args[1:] {
		acc, err = f.Fn([]Value{acc, x})
		if err != nil {
			return noValue, calcErrorf("Exception running %s(%s): %s",
				f.Name, renderArgs([]Value{acc, x}), err)
		}
	}

	c.finish(acc, mods, finishOpts{nPop: nPop})
	return acc, nil
}

// specialMap applies a callable to each data operand. A single sequence
// operand maps over its elements and pushes one sequence; several data
// operands push their mapped results individually.
func specialMap(c *Calculator, mods Modifiers, count int) (Value, error) {
	f, args, err := c.findCallableAndArgs("map", mods, count)
	if err != nil {
		return noValue, err
	}

	nPop := len(args) + 1
	extend := true
	if len(args) == 1 {
		elems, ok := args[0].Elements()
		if !ok {
			return noValue, calcErrorf(
				"Cannot map over non-iterable %s", args[0].Repr())
		}
		args = elems
		extend = false
	}

	mapped := make([]Value, len(args))
	for i, x := range args {
		mapped[i], err = f.Fn([]Value{x})
		if err != nil {
			return noValue, calcErrorf("Exception running %s(%s): %s",
				f.Name, x.Str(), err)
		}
	}

	c.finish(FromList(mapped), mods, finishOpts{nPop: nPop, extend: extend})
	return FromList(mapped), nil
}

// specialJoin concatenates the string renderings of its data operands (or
// of a single sequence operand's elements) using a text operand as the
// separator.
func specialJoin(c *Calculator, mods Modifiers, count int) (Value, error) {
	sep, args, err := c.findStringAndArgs("join", mods, count)
	if err != nil {
		return noValue, err
	}

	nPop := len(args) + 1
	if len(args) == 1 {
		elems, ok := args[0].Elements()
		if !ok {
			return noValue, calcErrorf(
				"Cannot join non-iterable %s", args[0].Repr())
		}
		args = elems
	}

	joined := ""
	for i, x := range args {
		if i > 0 {
			joined += sep
		}
		joined += x.Str()
	}

	result := FromString(joined)
	c.finish(result, mods, finishOpts{nPop: nPop})
	return result, nil
}

// specialUndo restores the stack and variables from the undo slot. The
// restore itself is not undoable.
func specialUndo(c *Calculator, mods Modifiers, count int) (Value, error) {
	if !c.hasUndo {
		return noValue, calcErrorf("No undo saved")
	}
	if mods.PreserveStack {
		return noValue, calcErrorf("The := modifier makes no sense with undo")
	}
	if mods.Print {
		return noValue, calcErrorf("The :p modifier makes no sense with undo")
	}

	c.stack = append([]Value(nil), c.prevStack...)
	c.variables = make(map[string]Value, len(c.prevVariables))
	for k, v := range c.prevVariables {
		c.variables[k] = v
	}
	return noValue, nil
}

// specialSave writes a session image. The top stack item must be the file
// name; it is consumed, and the remaining stack plus the variables go
// into the image.
func specialSave(c *Calculator, mods Modifiers, count int) (Value, error) {
	if len(c.stack) == 0 || !c.stack[len(c.stack)-1].IsString() {
		return noValue, stackErrorf(
			"save needs a file name on top of the stack")
	}
	path := c.stack[len(c.stack)-1].Text()

	if err := c.writeImage(path, c.stack[:len(c.stack)-1]); err != nil {
		return noValue, err
	}
	if !mods.PreserveStack {
		c.saveState()
		c.drop(1)
	}
	c.debugf("Saved session image to %s", path)
	return noValue, nil
}

// specialLoad replaces the stack and variables from a session image named
// by the top stack item. The pre-load state stays in the undo slot.
func specialLoad(c *Calculator, mods Modifiers, count int) (Value, error) {
	if mods.PreserveStack {
		return noValue, calcErrorf("The := modifier makes no sense with load")
	}
	if len(c.stack) == 0 || !c.stack[len(c.stack)-1].IsString() {
		return noValue, stackErrorf(
			"load needs a file name on top of the stack")
	}
	path := c.stack[len(c.stack)-1].Text()

	stack, variables, err := c.readImage(path)
	if err != nil {
		return noValue, err
	}
	c.saveState()
	c.stack = stack
	c.variables = variables
	c.debugf("Loaded session image from %s", path)
	return noValue, nil
}
