package calc

import "sort"

// Modifier letters recognized after the modifier separator. Digits are
// handled separately (they concatenate into the command's count).
var modifierNames = map[byte]string{
	'*': "all",
	'c': "forceCommand",
	'D': "debug",
	'i': "iterate",
	'n': "noSplit",
	'=': "preserveStack",
	'p': "print",
	'P': "autoPrint",
	'!': "push",
	'r': "reverse",
	's': "split",
}

// Modifiers holds the per-token directives parsed from a token's modifier
// section. The zero value means "no modifiers".
type Modifiers struct {
	All           bool // *: consume the whole stack
	ForceCommand  bool // c: only consider special commands
	Debug         bool // D: toggle session debug output
	Iterate       bool // i: expand an iterable result into a list
	NoSplit       bool // n: stop splitting input lines (from the next line)
	PreserveStack bool // =: run but restore the stack afterwards
	Print         bool // p: print the command's result
	AutoPrint     bool // P: toggle automatic result printing
	Push          bool // !: push a reference instead of invoking
	Reverse       bool // r: reverse operand conventions
	Split         bool // s: resume splitting input lines
}

// strToModifiers converts a string of modifier letters into a Modifiers
// value. Repeated letters are tolerated. Unknown letters produce an
// UnknownModifiersError; contradictory combinations produce an
// IncompatibleModifiersError.
func strToModifiers(s string) (Modifiers, error) {
	var m Modifiers
	seen := make(map[byte]bool)
	var unknown []string

	for i := 0; i < len(s); i++ {
		letter := s[i]
		if seen[letter] {
			continue
		}
		seen[letter] = true

		switch letter {
		case '*':
			m.All = true
		case 'c':
			m.ForceCommand = true
		case 'D':
			m.Debug = true
		case 'i':
			m.Iterate = true
		case 'n':
			m.NoSplit = true
		case '=':
			m.PreserveStack = true
		case 'p':
			m.Print = true
		case 'P':
			m.AutoPrint = true
		case '!':
			m.Push = true
		case 'r':
			m.Reverse = true
		case 's':
			m.Split = true
		default:
			unknown = append(unknown, string(letter))
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Modifiers{}, &UnknownModifiersError{Letters: unknown}
	}

	if m.Push && m.PreserveStack {
		return Modifiers{}, &IncompatibleModifiersError{
			Reason: "= (preserve stack) makes no sense with ! (push)"}
	}

	if m.Split && m.NoSplit {
		return Modifiers{}, &IncompatibleModifiersError{
			Reason: "s (split lines) makes no sense with n (do not split lines)"}
	}

	return m, nil
}
