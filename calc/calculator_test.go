package calc

import (
	"bytes"
	"strings"
	"testing"
)

func newTestCalc(t *testing.T) (*Calculator, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := New(Options{Out: &out, Err: &errOut})
	return c, &out, &errOut
}

func mustExecute(t *testing.T, c *Calculator, lines ...string) {
	t.Helper()
	for _, line := range lines {
		ok, err := c.Execute(line)
		if err != nil {
			t.Fatalf("Execute(%q) error: %v", line, err)
		}
		if !ok {
			t.Fatalf("Execute(%q) failed", line)
		}
	}
}

func mustTop(t *testing.T, c *Calculator) Value {
	t.Helper()
	if c.Len() == 0 {
		t.Fatal("stack is empty")
	}
	stack := c.StackSnapshot()
	return stack[len(stack)-1]
}

func checkStack(t *testing.T, c *Calculator, want ...Value) {
	t.Helper()
	got := c.StackSnapshot()
	if len(got) != len(want) {
		t.Fatalf("stack = %s, want %s",
			FromList(got).Repr(), FromList(want).Repr())
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("stack = %s, want %s",
				FromList(got).Repr(), FromList(want).Repr())
		}
	}
}

func ints(ns ...int64) []Value {
	out := make([]Value, len(ns))
	for i, n := range ns {
		out[i] = FromInt(n)
	}
	return out
}

func TestPushOrder(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "4 5")
	checkStack(t, c, ints(4, 5)...)
}

func TestAddition(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "4 5 +")
	checkStack(t, c, ints(9)...)
}

func TestSubtractionOperandOrder(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "5 4 -")
	checkStack(t, c, ints(1)...)
}

func TestSubtractionReversed(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "5 4 -:r")
	checkStack(t, c, ints(-1)...)
}

func TestMultilinesKeepState(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "4", "5", "+")
	checkStack(t, c, ints(9)...)
}

func TestPreserveStack(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "4 5 +:=")
	checkStack(t, c, ints(4, 5)...)
}

func TestPrintModifier(t *testing.T) {
	c, out, _ := newTestCalc(t)
	mustExecute(t, c, "4 5 +:p")
	if got := out.String(); got != "9\n" {
		t.Errorf("output = %q, want 9", got)
	}
}

func TestAutoPrint(t *testing.T) {
	var out bytes.Buffer
	c := New(Options{AutoPrint: true, Out: &out})
	mustExecute(t, c, "4")
	if got := out.String(); got != "4\n" {
		t.Errorf("output = %q, want 4", got)
	}
}

func TestCountRepeatsPush(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "True:5")
	if c.Len() != 5 {
		t.Fatalf("stack depth = %d, want 5", c.Len())
	}
	for _, v := range c.StackSnapshot() {
		if !v.Equal(FromBool(true)) {
			t.Fatalf("stack item = %s, want True", v.Repr())
		}
	}
}

func TestCountZeroIsNoOp(t *testing.T) {
	c, _, errOut := newTestCalc(t)
	mustExecute(t, c, "4:0")
	if c.Len() != 0 {
		t.Errorf("stack depth = %d, want 0", c.Len())
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected error output: %q", errOut.String())
	}
}

func TestAllModifierOnFunction(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "1 2 3 4 sum:*")
	checkStack(t, c, ints(10)...)
}

func TestAllModifierArityMismatch(t *testing.T) {
	c, _, errOut := newTestCalc(t)
	mustExecute(t, c, "1 2 3")
	// add takes exactly two operands; * hands it three.
	if ok, _ := c.Execute("+:*"); ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(errOut.String(), "Exception running add") {
		t.Errorf("error output = %q", errOut.String())
	}
	checkStack(t, c, ints(1, 2, 3)...)
}

func TestAllConflictsWithCount(t *testing.T) {
	c, _, errOut := newTestCalc(t)
	mustExecute(t, c, "1 2 3")
	if ok, _ := c.Execute("+:*2"); ok {
		t.Fatal("expected failure for conflicting * and count")
	}
	if !strings.Contains(errOut.String(), "conflicts") {
		t.Errorf("error output = %q", errOut.String())
	}
}

func TestVariableAssignmentAndUse(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "a=4", "a a +")
	checkStack(t, c, ints(8)...)
	if v, ok := c.Variable("a"); !ok || !v.Equal(FromInt(4)) {
		t.Errorf("variable a = %v, %v", v, ok)
	}
}

func TestAssignmentPushesNothing(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "a=4")
	if c.Len() != 0 {
		t.Errorf("stack depth = %d, want 0", c.Len())
	}
}

func TestAssignmentFromVariable(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "a=4", "b=a", "b")
	checkStack(t, c, ints(4)...)
}

func TestVariablePushModifier(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "a=4", "a:!")
	top := mustTop(t, c)
	if !top.IsVarRef() || top.Text() != "a" {
		t.Fatalf("top = %s, want Variable(a)", top.Repr())
	}

	// The reference resolves at call time, not at push time.
	mustExecute(t, c, "a=10", "3 +")
	checkStack(t, c, ints(13)...)
}

func TestCallableVariableRuns(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "f=+", "4 5 f")
	checkStack(t, c, ints(9)...)
}

func TestFunctionPushModifier(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "+:!")
	top := mustTop(t, c)
	if !top.IsFunc() || top.Func().Name != "add" {
		t.Fatalf("top = %s, want the add callable", top.Repr())
	}
}

func TestApplyWithPushedCallable(t *testing.T) {
	c, _, _ := newTestCalc(t)
	// The callable goes on first, then the data operands.
	mustExecute(t, c, "-:! 5 4 apply")
	checkStack(t, c, ints(1)...)
}

func TestConstants(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "pi")
	top := mustTop(t, c)
	if !top.IsFloat() || top.Float() < 3.14 || top.Float() > 3.15 {
		t.Errorf("pi = %s", top.Repr())
	}
}

func TestErrorHaltsRestOfLine(t *testing.T) {
	c, _, errOut := newTestCalc(t)
	ok, err := c.Execute("4 nosuchthing 5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected the line to fail")
	}
	// The token before the failure still applied; the one after did not.
	checkStack(t, c, ints(4)...)
	if !strings.Contains(errOut.String(), "nosuchthing") {
		t.Errorf("error output = %q", errOut.String())
	}

	// The next line starts fresh.
	mustExecute(t, c, "5 +")
	checkStack(t, c, ints(9)...)
}

func TestBadModifierKeepsAppliedTokens(t *testing.T) {
	c, _, errOut := newTestCalc(t)
	if ok, _ := c.Execute("4 dup:zz 5"); ok {
		t.Fatal("expected the line to fail")
	}
	checkStack(t, c, ints(4)...)

	c2, _, _ := newTestCalc(t)
	if ok, _ := c2.Execute("4 5 +:zz 6"); ok {
		t.Fatal("expected the line to fail")
	}
	checkStack(t, c2, ints(4, 5)...)

	// The report names the offending token, not just the bad letter.
	if !strings.Contains(errOut.String(), "dup:zz") ||
		!strings.Contains(errOut.String(), "z") {
		t.Errorf("error output = %q", errOut.String())
	}
}

func TestUnknownModifierReported(t *testing.T) {
	c, _, errOut := newTestCalc(t)
	if ok, _ := c.Execute("dup:x"); ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(errOut.String(), "x") {
		t.Errorf("error output = %q", errOut.String())
	}
}

func TestNotEnoughArgs(t *testing.T) {
	c, _, errOut := newTestCalc(t)
	mustExecute(t, c, "4")
	if ok, _ := c.Execute("+"); ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(errOut.String(), "Not enough args") {
		t.Errorf("error output = %q", errOut.String())
	}
	// Nothing was consumed.
	checkStack(t, c, ints(4)...)
}

func TestQuitPropagates(t *testing.T) {
	c, _, _ := newTestCalc(t)
	_, err := c.Execute("quit")
	if err != ErrQuit {
		t.Fatalf("err = %v, want ErrQuit", err)
	}
}

func TestIterateModifier(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "'abc' list:i")
	top := mustTop(t, c)
	if !top.IsList() || len(top.List()) != 3 {
		t.Fatalf("top = %s, want a 3-element list", top.Repr())
	}
}

func TestNoSplitTakesEffectNextLine(t *testing.T) {
	c, _, _ := newTestCalc(t)
	// The :n modifier changes splitting for following lines only.
	mustExecute(t, c, "4 5 :n")
	checkStack(t, c, ints(4, 5)...)
	mustExecute(t, c, "[6, 7]")
	if c.Len() != 3 {
		t.Fatalf("stack depth = %d, want 3", c.Len())
	}
	top := mustTop(t, c)
	if !top.IsList() {
		t.Fatalf("top = %s, want the list literal", top.Repr())
	}

	// And :s turns splitting back on.
	mustExecute(t, c, "pop :s")
	mustExecute(t, c, "1 2")
	checkStack(t, c, ints(4, 5, 1, 2)...)
}

func TestForceCommandModifier(t *testing.T) {
	c, _, _ := newTestCalc(t)
	// A variable shadowing a special command still runs as the command
	// with :c.
	mustExecute(t, c, "pop=99", "4 5")
	mustExecute(t, c, "pop:c")
	checkStack(t, c, ints(4)...)

	// Without :c the variable wins.
	mustExecute(t, c, "pop")
	checkStack(t, c, ints(4, 99)...)
}

func TestForceCommandUnknown(t *testing.T) {
	c, _, errOut := newTestCalc(t)
	if ok, _ := c.Execute("nosuch:c"); ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(errOut.String(), "Unknown special command") {
		t.Errorf("error output = %q", errOut.String())
	}
}

func TestDebugToggle(t *testing.T) {
	c, _, errOut := newTestCalc(t)
	mustExecute(t, c, ":D", "4")
	if !strings.Contains(errOut.String(), "#") {
		t.Errorf("expected debug chatter, got %q", errOut.String())
	}
}

func TestCommentLine(t *testing.T) {
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "# nothing to see", "4 # push four", "5 +")
	checkStack(t, c, ints(9)...)
}

func TestExceptionFromBuiltin(t *testing.T) {
	c, _, errOut := newTestCalc(t)
	mustExecute(t, c, "4 0")
	if ok, _ := c.Execute("/"); ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(errOut.String(), "division by zero") {
		t.Errorf("error output = %q", errOut.String())
	}
	checkStack(t, c, ints(4, 0)...)
}
