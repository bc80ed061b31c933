package calc

import "fmt"

// BuiltinFunc is the signature of an invocable registered in the function
// table. It receives its operands already resolved (variable references
// replaced by their values) and in the order they were pushed.
type BuiltinFunc func(args []Value) (Value, error)

// Function describes one registered callable: where it came from, what it
// is called, how many operands it consumes by default, and the invocable
// itself. Descriptors are immutable once registered and shared by
// reference from every Value that wraps them.
type Function struct {
	Module string // origin namespace, for diagnostic listing
	Name   string
	NArgs  int // default arity
	Doc    string
	Fn     BuiltinFunc
}

// Path returns the fully qualified registry name.
func (f *Function) Path() string {
	return f.Module + "." + f.Name
}

func (f *Function) String() string {
	return fmt.Sprintf("Function(%s (calls %s with %d arg%s))",
		f.Name, f.Path(), f.NArgs, plural(f.NArgs))
}

// Register adds a callable to the function table under both its qualified
// path and, when free, its bare name. The table is meant to be populated
// during construction only.
func (c *Calculator) Register(module, name string, nArgs int, doc string, fn BuiltinFunc) {
	f := &Function{Module: module, Name: name, NArgs: nArgs, Doc: doc, Fn: fn}
	path := f.Path()
	if _, exists := c.functions[path]; exists {
		c.errorf("Function %q already exists", path)
		return
	}
	c.functions[path] = f
	if _, exists := c.functions[name]; !exists {
		c.functions[name] = f
	}
}

// RegisterAlias makes an extra name for an already registered callable.
func (c *Calculator) RegisterAlias(alias, path string) {
	f, ok := c.functions[path]
	if !ok {
		c.errorf("Long function name %q is unknown", path)
		return
	}
	if _, exists := c.functions[alias]; exists {
		c.report("%s already known", alias)
		return
	}
	c.functions[alias] = f
}

// RegisterSpecial adds a special-command handler under the given name.
func (c *Calculator) RegisterSpecial(name string, fn SpecialFunc) {
	c.special[name] = fn
}

// plural returns "s" unless n is 1, for error message grammar.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
