package calc

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Version is the build identifier shown by the version special command.
const Version = "1.0.0"

// Calculator is one interpreter session: the stack, the variable store,
// the function and special-command tables, the one-slot undo snapshot, and
// the session flags. A Calculator is not safe for concurrent use; each
// session owns its state exclusively.
type Calculator struct {
	// ID identifies the session, e.g. in saved images.
	ID string

	stack     []Value
	variables map[string]Value
	functions map[string]*Function
	special   map[string]SpecialFunc

	prevStack     []Value
	prevVariables map[string]Value
	hasUndo       bool

	splitLines bool
	separator  string
	modSep     byte
	autoPrint  bool
	debug      bool

	out io.Writer
	err io.Writer
}

// Options configures a new Calculator. The zero value gives an
// interactive-friendly default: whitespace splitting on, auto-print off,
// output to stdout and errors to stderr.
type Options struct {
	AutoPrint bool
	NoSplit   bool
	Separator string // command separator; empty means any whitespace run
	ModSep    byte   // modifier separator; 0 means ':'
	Debug     bool
	Out       io.Writer
	Err       io.Writer
}

// New creates a session with the full builtin function library
// registered. The function table is read-only once New returns.
func New(opts Options) *Calculator {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.ModSep == 0 {
		opts.ModSep = DefaultModifierSeparator
	}

	c := &Calculator{
		ID:         uuid.NewString(),
		stack:      []Value{},
		variables:  map[string]Value{},
		functions:  map[string]*Function{},
		special:    map[string]SpecialFunc{},
		splitLines: !opts.NoSplit,
		separator:  opts.Separator,
		modSep:     opts.ModSep,
		autoPrint:  opts.AutoPrint,
		debug:      opts.Debug,
		out:        opts.Out,
		err:        opts.Err,
	}

	c.registerSpecialCommands()
	c.registerOperatorBuiltins()
	c.registerMathBuiltins()
	c.registerStringBuiltins()
	c.registerSequenceBuiltins()
	c.addConstants()

	return c
}

// addConstants pre-binds the usual mathematical constants as variables.
func (c *Calculator) addConstants() {
	for _, con := range []struct {
		name  string
		value float64
	}{
		{"e", math.E},
		{"pi", math.Pi},
		{"tau", 2 * math.Pi},
		{"inf", math.Inf(1)},
		{"nan", math.NaN()},
	} {
		c.variables[con.name] = FromFloat(con.value)
	}
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

// report writes a line of normal display output.
func (c *Calculator) report(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// errorf writes a line of error output.
func (c *Calculator) errorf(format string, args ...interface{}) {
	fmt.Fprintf(c.err, format+"\n", args...)
}

// debugf writes a line of debug chatter to the error sink when debugging
// is on.
func (c *Calculator) debugf(format string, args ...interface{}) {
	if c.debug {
		fmt.Fprintf(c.err, "      # "+format+"\n", args...)
	}
}

// pprint renders one value to the display sink.
func (c *Calculator) pprint(v Value) {
	c.report("%s", v.Repr())
}

// PrintStack displays the whole stack, bottom first.
func (c *Calculator) PrintStack() {
	c.pprint(FromList(c.stack))
}

// printTop displays the top stack item, or an error when the stack is
// empty.
func (c *Calculator) printTop() {
	if len(c.stack) == 0 {
		c.errorf("Cannot print top of stack item (stack is empty)")
		return
	}
	c.pprint(c.stack[len(c.stack)-1])
}

// ---------------------------------------------------------------------------
// Session state access
// ---------------------------------------------------------------------------

// Len returns the stack depth.
func (c *Calculator) Len() int {
	return len(c.stack)
}

// StackSnapshot returns a copy of the stack, bottom first.
func (c *Calculator) StackSnapshot() []Value {
	out := make([]Value, len(c.stack))
	copy(out, c.stack)
	return out
}

// VariablesSnapshot returns a copy of the variable bindings.
func (c *Calculator) VariablesSnapshot() map[string]Value {
	out := make(map[string]Value, len(c.variables))
	for k, v := range c.variables {
		out[k] = v
	}
	return out
}

// Variable returns the value bound to name.
func (c *Calculator) Variable(name string) (Value, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// SetVariable binds a value to a variable name, replacing any previous
// binding. Undo coverage is the caller's concern.
func (c *Calculator) SetVariable(name string, value Value) {
	c.variables[name] = value
}

// Function returns the registered callable descriptor for name.
func (c *Calculator) Function(name string) (*Function, bool) {
	f, ok := c.functions[name]
	return f, ok
}

// saveState stores the one-slot undo snapshot: shallow copies of the
// stack and the variable store, taken before a mutation.
func (c *Calculator) saveState() {
	c.prevStack = make([]Value, len(c.stack))
	copy(c.prevStack, c.stack)
	c.prevVariables = make(map[string]Value, len(c.variables))
	for k, v := range c.variables {
		c.prevVariables[k] = v
	}
	c.hasUndo = true
}

// drop removes the top n stack items.
func (c *Calculator) drop(n int) {
	c.stack = c.stack[:len(c.stack)-n]
}

// convertStackArgs resolves stack items into callable operands: variable
// references become their current values, everything else passes through.
func (c *Calculator) convertStackArgs(args []Value) []Value {
	out := make([]Value, len(args))
	for i, arg := range args {
		if arg.IsVarRef() {
			if v, ok := c.variables[arg.Text()]; ok {
				out[i] = v
			} else {
				out[i] = Null
			}
		} else {
			out[i] = arg
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Result finalization
// ---------------------------------------------------------------------------

type finishOpts struct {
	nPop    int
	repeat  int  // 0 means 1
	extend  bool // push a list result element by element
	discard bool // mutate but push nothing
}

// finish applies the final effect of a command: snapshot the undo slot,
// pop consumed operands, and push the result (expanded to a list first
// when the iterate modifier is given). With preserve-stack set nothing is
// mutated at all.
func (c *Calculator) finish(result Value, mods Modifiers, o finishOpts) {
	if (o.nPop > 0 || !o.discard) && !mods.PreserveStack {
		c.saveState()
		if o.nPop > 0 {
			c.drop(o.nPop)
		}
	}

	if mods.Iterate {
		if elems, ok := result.Elements(); ok {
			result = FromList(elems)
		}
	}

	if mods.PreserveStack || o.discard {
		return
	}

	repeat := o.repeat
	if repeat == 0 {
		repeat = 1
	}
	for i := 0; i < repeat; i++ {
		if o.extend {
			c.stack = append(c.stack, result.List()...)
		} else {
			c.stack = append(c.stack, result)
		}
	}
}

// ---------------------------------------------------------------------------
// Execution
// ---------------------------------------------------------------------------

// Execute runs one input line. Processing of the line stops at the first
// failing token; tokens already applied stay applied. The returned bool
// reports whether every token succeeded. The returned error is non-nil
// only for session-ending conditions (ErrQuit).
func (c *Calculator) Execute(line string) (bool, error) {
	commands := findCommands(line, c.splitLines, c.separator, c.modSep)

	for i, cmd := range commands {
		if cmd.Err != nil {
			c.errorf("Could not parse %q: %s", cmd.Text, cmd.Err.Error())
			return false, nil
		}
		ok, err := c.executeOne(cmd)
		if err != nil {
			return false, err
		}
		if !ok {
			if i+1 < len(commands) {
				c.debugf("Ignoring commands from %q on due to previous error",
					commands[i+1].Text)
			}
			return false, nil
		}
	}

	return true, nil
}

// executeOne dispatches a single token: session-flag modifiers first, then
// the decision tree over functions, variables, special commands and
// literals.
func (c *Calculator) executeOne(cmd Command) (bool, error) {
	mods := cmd.Mods

	if mods.Split {
		if !c.splitLines {
			c.debugf("Line splitting switched ON")
		}
		c.splitLines = true
	} else if mods.NoSplit {
		if c.splitLines {
			c.debugf("Line splitting switched OFF")
		}
		c.splitLines = false
	}

	if mods.All && cmd.Count != NoCount && cmd.Count != len(c.stack) {
		c.errorf("* modifier conflicts with explicit count %d "+
			"(stack has %d item%s)",
			cmd.Count, len(c.stack), plural(len(c.stack)))
		return false, nil
	}

	if mods.AutoPrint {
		c.toggleAutoPrint()
	}
	if mods.Debug {
		c.toggleDebug()
	}

	if cmd.Text == "" {
		c.debugf("Empty command")
		return true, nil
	}

	if cmd.Count == 0 {
		c.debugf("Count was zero - nothing to do!")
		return true, nil
	}

	for _, try := range []func(Command) (bool, Value, error){
		c.tryFunction, c.tryVariable, c.trySpecial, c.tryLiteral,
	} {
		done, value, err := try(cmd)
		if err != nil {
			if errors.Is(err, ErrQuit) {
				return false, err
			}
			c.errorf("%s", err.Error())
			return false, nil
		}
		if done {
			if value.IsValid() && (mods.Print || c.autoPrint) {
				c.pprint(value)
			}
			return true, nil
		}
	}

	if cmd.Count != NoCount {
		c.errorf("Modifier count %d will not be used", cmd.Count)
	}
	c.errorf("Could not find a way to execute %q", cmd.Text)
	return false, nil
}

// tryFunction handles tokens naming a registered callable: push its
// reference with the push modifier, otherwise invoke it with operands
// from the stack.
func (c *Calculator) tryFunction(cmd Command) (bool, Value, error) {
	if cmd.Mods.ForceCommand {
		return false, noValue, nil
	}

	f, ok := c.functions[cmd.Text]
	if !ok {
		c.debugf("%q is not a known function", cmd.Text)
		return false, noValue, nil
	}
	c.debugf("Found function %q", cmd.Text)

	if cmd.Mods.Push {
		v := FromFunc(f)
		c.finish(v, cmd.Mods, finishOpts{})
		return true, v, nil
	}

	return c.runFunction(cmd.Text, cmd.Mods, cmd.Count, f)
}

// runFunction invokes a callable against stack operands: default arity
// from the descriptor, overridden by a count or the all modifier;
// operands pass in pushed order, reversed by the reverse modifier.
func (c *Calculator) runFunction(command string, mods Modifiers, count int, f *Function) (bool, Value, error) {
	var nArgs int
	switch {
	case count != NoCount:
		nArgs = count
	case mods.All:
		nArgs = len(c.stack)
	default:
		nArgs = f.NArgs
	}

	if len(c.stack) < nArgs {
		return false, noValue, calcErrorf(
			"Not enough args on stack! (%s needs %d arg%s, stack has "+
				"%d item%s)",
			command, nArgs, plural(nArgs), len(c.stack), plural(len(c.stack)))
	}

	args := c.convertStackArgs(c.stack[len(c.stack)-nArgs:])
	if mods.Reverse {
		reverseValues(args)
	}

	c.debugf("Calling %s with %s", f.Name, renderArgs(args))
	result, err := f.Fn(args)
	if err != nil {
		return false, noValue, calcErrorf("Exception running %s(%s): %s",
			f.Name, renderArgs(args), err)
	}

	c.finish(result, mods, finishOpts{nPop: nArgs})
	return true, result, nil
}

// tryVariable handles tokens naming a bound variable: push its value
// (count times), push a reference to it with the push modifier, or invoke
// it when the value is callable.
func (c *Calculator) tryVariable(cmd Command) (bool, Value, error) {
	if cmd.Mods.ForceCommand {
		return false, noValue, nil
	}

	value, ok := c.variables[cmd.Text]
	if !ok {
		c.debugf("%q is not a variable", cmd.Text)
		return false, noValue, nil
	}
	c.debugf("%q is a variable (value %s)", cmd.Text, value.Repr())

	if value.IsFunc() && !cmd.Mods.Push {
		return c.runFunction(cmd.Text, cmd.Mods, cmd.Count, value.Func())
	}

	if cmd.Mods.Push {
		value = FromVarRef(cmd.Text)
	}

	repeat := cmd.Count
	if repeat == NoCount {
		repeat = 1
	}
	c.finish(value, cmd.Mods, finishOpts{repeat: repeat})
	return true, value, nil
}

// trySpecial handles the built-in special commands. With the force-command
// modifier set a miss is an error rather than a fallthrough.
func (c *Calculator) trySpecial(cmd Command) (bool, Value, error) {
	fn, ok := c.special[cmd.Text]
	if !ok {
		if cmd.Mods.ForceCommand {
			return false, noValue, calcErrorf("Unknown special command: %s",
				cmd.Text)
		}
		return false, noValue, nil
	}

	value, err := fn(c, cmd.Mods, cmd.Count)
	if err != nil {
		if errors.Is(err, ErrQuit) {
			return false, noValue, err
		}
		return false, noValue, calcErrorf(
			"Could not run special command %q: %s", cmd.Text, err)
	}
	return true, value, nil
}

// tryLiteral handles everything else: literal value expressions,
// engineering-notation numerals, and variable assignment.
func (c *Calculator) tryLiteral(cmd Command) (bool, Value, error) {
	if v, err := parseLiteral(cmd.Text); err == nil {
		c.debugf("Literal %q worked: %s", cmd.Text, v.Repr())
		return c.pushLiteral(v, cmd)
	}

	if v, ok := parseEng(cmd.Text); ok {
		c.debugf("Engineering numeral %q worked: %s", cmd.Text, v.Repr())
		return c.pushLiteral(v, cmd)
	}

	if name, expr, ok := splitAssignment(cmd.Text); ok {
		value, err := c.evalAssignment(expr)
		if err != nil {
			return false, noValue, err
		}
		if !cmd.Mods.PreserveStack {
			c.saveState()
		}
		c.variables[name] = value
		c.debugf("Assigned %s = %s", name, value.Repr())
		return true, noValue, nil
	}

	return false, noValue, nil
}

func (c *Calculator) pushLiteral(v Value, cmd Command) (bool, Value, error) {
	repeat := cmd.Count
	if repeat == NoCount {
		repeat = 1
	}
	c.finish(v, cmd.Mods, finishOpts{repeat: repeat})
	return true, v, nil
}

// evalAssignment evaluates the right-hand side of an assignment: a
// literal, an engineering numeral, another variable's value, or a
// callable reference.
func (c *Calculator) evalAssignment(expr string) (Value, error) {
	if v, err := parseLiteral(expr); err == nil {
		return v, nil
	}
	if v, ok := parseEng(expr); ok {
		return v, nil
	}
	if v, ok := c.variables[expr]; ok {
		return v, nil
	}
	if f, ok := c.functions[expr]; ok {
		return FromFunc(f), nil
	}
	return noValue, syntaxErrorf("Cannot evaluate %q", expr)
}

// ---------------------------------------------------------------------------
// Session flag toggles
// ---------------------------------------------------------------------------

func (c *Calculator) toggleAutoPrint() {
	c.autoPrint = !c.autoPrint
	if c.autoPrint {
		c.debugf("Auto print on")
	} else {
		c.debugf("Auto print off")
	}
}

func (c *Calculator) toggleDebug() {
	c.debug = !c.debug
	if c.debug {
		c.debugf("Debug on")
	} else {
		c.debugf("Debug off")
	}
}

// ---------------------------------------------------------------------------
// Auxiliary operand resolution
// ---------------------------------------------------------------------------

// findWithArgs looks for an auxiliary operand (a callable, or text) and
// its data operands on the stack.
//
// Default convention: the auxiliary operand was pushed before its data
// operands, so it sits deeper. With no count the stack is scanned from
// the top for the first item satisfying pred and everything above it
// becomes the data operands, in pushed order. With the reverse modifier
// the auxiliary operand is instead expected on top, and the data operands
// are passed in reversed order.
func (c *Calculator) findWithArgs(command, description string,
	pred func(Value) bool, defaultArgCount func(Value) int,
	mods Modifiers, count int) (Value, []Value, error) {

	stackLen := len(c.stack)

	if stackLen < 2 || (count != NoCount && stackLen < count+1) {
		return noValue, nil, stackErrorf(
			"Cannot run %q (stack has only %d item%s)",
			command, stackLen, plural(stackLen))
	}

	if mods.Reverse {
		item := c.stack[stackLen-1]
		if !pred(item) {
			return noValue, nil, stackErrorf("Top stack item (%s) is not %s",
				item.Repr(), description)
		}

		n := count
		if n == NoCount {
			if mods.All {
				n = stackLen - 1
			} else {
				n = defaultArgCount(item)
			}
		}

		avail := stackLen - 1
		if avail < n {
			return noValue, nil, stackErrorf(
				"Cannot run %q with %d argument%s "+
					"(stack has only %d item%s available)",
				command, n, plural(n), avail, plural(avail))
		}

		args := append([]Value(nil), c.stack[stackLen-1-n:stackLen-1]...)
		reverseValues(args)
		return item, c.convertStackArgs(args), nil
	}

	var item Value
	var args []Value

	switch {
	case count != NoCount:
		item = c.stack[stackLen-count-1]
		if !pred(item) {
			return noValue, nil, stackErrorf(
				"Cannot run %q with %d argument%s. Stack item (%s) is not %s",
				command, count, plural(count), item.Repr(), description)
		}
		args = append([]Value(nil), c.stack[stackLen-count:]...)

	case mods.All:
		item = c.stack[0]
		if !pred(item) {
			return noValue, nil, stackErrorf(
				"Deepest stack item (%s) is not %s", item.Repr(), description)
		}
		args = append([]Value(nil), c.stack[1:]...)

	default:
		found := false
		for i := stackLen - 1; i >= 0; i-- {
			if pred(c.stack[i]) {
				item = c.stack[i]
				found = true
				break
			}
			args = append(args, c.stack[i])
		}
		if !found {
			return noValue, nil, stackErrorf(
				"Could not find %s item on stack", description)
		}
		reverseValues(args) // back into pushed order
	}

	return item, c.convertStackArgs(args), nil
}

// findCallableAndArgs resolves a callable auxiliary operand and its data
// operands.
func (c *Calculator) findCallableAndArgs(command string, mods Modifiers, count int) (*Function, []Value, error) {
	item, args, err := c.findWithArgs(command, "callable",
		Value.IsFunc,
		func(v Value) int { return v.Func().NArgs },
		mods, count)
	if err != nil {
		return nil, nil, err
	}
	return item.Func(), args, nil
}

// findStringAndArgs resolves a text auxiliary operand and its data
// operands.
func (c *Calculator) findStringAndArgs(command string, mods Modifiers, count int) (string, []Value, error) {
	item, args, err := c.findWithArgs(command, "a string",
		Value.IsString,
		func(Value) int { return 1 },
		mods, count)
	if err != nil {
		return "", nil, err
	}
	return item.Text(), args, nil
}

// ---------------------------------------------------------------------------
// Small helpers
// ---------------------------------------------------------------------------

func reverseValues(vs []Value) {
	for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
		vs[i], vs[j] = vs[j], vs[i]
	}
}

func renderArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Str()
	}
	return strings.Join(parts, ", ")
}

// sortedNames returns map keys in sorted order, for stable listings.
func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
