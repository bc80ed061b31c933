package calc

import (
	"strconv"
	"strings"
	"unicode"
)

// DefaultModifierSeparator introduces a token's modifier section.
const DefaultModifierSeparator = ':'

// NoCount marks a token whose modifier section carried no numeric
// argument.
const NoCount = -1

// Command is one parsed token: the command text, its modifiers, an
// optional count, and any parse error (a bad modifier section). A Command
// with a non-nil Err stops the line at that token.
type Command struct {
	Text  string
	Mods  Modifiers
	Count int
	Err   error
}

// findModifiers locates the modifier section of a single field. It returns
// the offset of the modifier separator (-1 if the field has no modifier
// section), the parsed Modifiers, and the count (NoCount if absent).
//
// The section starts at the last separator in the field. All digits after
// it, in order of appearance, concatenate into the count. A section
// containing characters that are neither modifier letters, digits nor
// spaces is not treated as a modifier section at all; that keeps literals
// like {'a': 27} intact. A section made only of letters and digits where
// some letter is unrecognized is a syntax error.
func findModifiers(field string, sep byte) (int, Modifiers, int, error) {
	idx := strings.LastIndexByte(field, sep)
	if idx == -1 {
		return -1, Modifiers{}, NoCount, nil
	}

	section := field[idx+1:]
	var letters, digits strings.Builder
	for _, r := range section {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case unicode.IsSpace(r):
			// Tolerated; fields only contain spaces when line
			// splitting is off or a custom separator is in use.
		case r < 128 && modifierLetter(byte(r)):
			letters.WriteRune(r)
		case unicode.IsLetter(r):
			return -1, Modifiers{}, NoCount,
				&UnknownModifiersError{Letters: []string{string(r)}}
		default:
			// Not a modifier section after all.
			return -1, Modifiers{}, NoCount, nil
		}
	}

	mods, err := strToModifiers(letters.String())
	if err != nil {
		return -1, Modifiers{}, NoCount, err
	}

	count := NoCount
	if digits.Len() > 0 {
		n, err := strconv.Atoi(digits.String())
		if err != nil {
			return -1, Modifiers{}, NoCount,
				syntaxErrorf("bad count in modifiers %q", section)
		}
		count = n
	}

	return idx, mods, count, nil
}

func modifierLetter(c byte) bool {
	_, ok := modifierNames[c]
	return ok
}

// findCommands splits an input line into its commands. With splitting on,
// the line is partitioned on whitespace (or the configured separator) and
// each field is checked for a trailing modifier section; a field whose
// modifiers start the following field is also accepted, so "4 :p" works.
// With splitting off the whole line is one command. A command starting
// with '#' is a comment and ends the line.
func findCommands(line string, splitLines bool, separator string, modSep byte) []Command {
	trimmed := strings.TrimSpace(line)

	var fields []string
	switch {
	case !splitLines:
		fields = []string{trimmed}
	case separator == "":
		fields = strings.Fields(trimmed)
	default:
		fields = strings.Split(trimmed, separator)
	}

	var commands []Command
	for i := 0; i < len(fields); i++ {
		field := fields[i]
		idx, mods, count, err := findModifiers(field, modSep)
		if err != nil {
			commands = append(commands, Command{Text: field, Err: err})
			return commands
		}

		var text string
		if idx == -1 {
			// No modifier section here. A section at the very start
			// of the next field belongs to this command.
			if i+1 < len(fields) {
				nextIdx, nextMods, nextCount, nextErr :=
					findModifiers(fields[i+1], modSep)
				if nextErr != nil {
					// The current field is still a valid token; only
					// the malformed one stops the line.
					text = strings.TrimSpace(field)
					if strings.HasPrefix(text, "#") {
						return commands
					}
					commands = append(commands,
						Command{Text: text, Count: NoCount},
						Command{Text: fields[i+1], Err: nextErr})
					return commands
				}
				if nextIdx == 0 {
					mods = nextMods
					count = nextCount
					i++
				}
			}
			text = strings.TrimSpace(field)
		} else {
			text = strings.TrimSpace(field[:idx])
		}

		if strings.HasPrefix(text, "#") {
			// Comment: ignore the rest of the line.
			return commands
		}

		commands = append(commands, Command{Text: text, Mods: mods, Count: count})
	}

	return commands
}
