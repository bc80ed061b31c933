package calc

import (
	"testing"
)

func parse(line string) []Command {
	return findCommands(line, true, "", DefaultModifierSeparator)
}

func TestFindCommandsPlain(t *testing.T) {
	cmds := parse("4 5 +")
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}
	for i, want := range []string{"4", "5", "+"} {
		if cmds[i].Text != want {
			t.Errorf("cmds[%d].Text = %q, want %q", i, cmds[i].Text, want)
		}
		if cmds[i].Count != NoCount {
			t.Errorf("cmds[%d].Count = %d, want NoCount", i, cmds[i].Count)
		}
	}
}

func TestFindCommandsModifiers(t *testing.T) {
	cmds := parse("+:p")
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if cmds[0].Text != "+" || !cmds[0].Mods.Print {
		t.Errorf("got %+v, want + with print", cmds[0])
	}
}

func TestFindCommandsCount(t *testing.T) {
	cmds := parse("dup:3")
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if cmds[0].Count != 3 {
		t.Errorf("Count = %d, want 3", cmds[0].Count)
	}
}

func TestFindCommandsCountDigitsConcatenate(t *testing.T) {
	// Digits in the modifier section concatenate in order of appearance.
	cmds := parse("dup:1p2")
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if cmds[0].Count != 12 {
		t.Errorf("Count = %d, want 12", cmds[0].Count)
	}
	if !cmds[0].Mods.Print {
		t.Error("print modifier lost")
	}
}

func TestFindCommandsDetachedModifiers(t *testing.T) {
	// A modifier section opening the next field belongs to this command.
	cmds := parse("4 :p")
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if cmds[0].Text != "4" || !cmds[0].Mods.Print {
		t.Errorf("got %+v, want 4 with print", cmds[0])
	}
}

func TestFindCommandsComment(t *testing.T) {
	cmds := parse("4 5 # + 6")
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	if cmds[0].Text != "4" || cmds[1].Text != "5" {
		t.Errorf("got %v", cmds)
	}
}

func TestFindCommandsWholeLineComment(t *testing.T) {
	if cmds := parse("# just a note"); len(cmds) != 0 {
		t.Errorf("got %d commands, want 0", len(cmds))
	}
}

func TestFindCommandsNoSplit(t *testing.T) {
	cmds := findCommands("[1, 2, 3]", false, "", DefaultModifierSeparator)
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if cmds[0].Text != "[1, 2, 3]" {
		t.Errorf("Text = %q, want the whole line", cmds[0].Text)
	}
}

func TestFindCommandsNoSplitModifiers(t *testing.T) {
	cmds := findCommands("[1, 2, 3] :i", false, "", DefaultModifierSeparator)
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if cmds[0].Text != "[1, 2, 3]" || !cmds[0].Mods.Iterate {
		t.Errorf("got %+v, want the list with iterate", cmds[0])
	}
}

func TestFindCommandsCustomSeparator(t *testing.T) {
	cmds := findCommands("a string/4/+", true, "/", DefaultModifierSeparator)
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}
	if cmds[0].Text != "a string" {
		t.Errorf("cmds[0].Text = %q, want %q", cmds[0].Text, "a string")
	}
}

func TestFindCommandsMapLiteralIsNotModifiers(t *testing.T) {
	// The colon inside a map literal must not read as a modifier section.
	cmds := findCommands("{'a': 27}", false, "", DefaultModifierSeparator)
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if cmds[0].Text != "{'a': 27}" {
		t.Errorf("Text = %q, want the intact literal", cmds[0].Text)
	}
	if cmds[0].Err != nil {
		t.Errorf("unexpected error: %v", cmds[0].Err)
	}
}

func TestFindCommandsBadModifier(t *testing.T) {
	cmds := parse("dup:x +")
	if len(cmds) != 1 {
		t.Fatalf("got %d commands, want 1", len(cmds))
	}
	if cmds[0].Err == nil {
		t.Fatal("expected an error for unknown modifier letter")
	}
}

func TestFindCommandsBadModifierKeepsPriorTokens(t *testing.T) {
	// Valid tokens before the malformed one survive; only the line's
	// tail is abandoned.
	cmds := parse("4 5 +:zz 6")
	if len(cmds) != 3 {
		t.Fatalf("got %d commands, want 3", len(cmds))
	}
	for i, want := range []string{"4", "5"} {
		if cmds[i].Text != want || cmds[i].Err != nil {
			t.Errorf("cmds[%d] = %+v, want valid token %q", i, cmds[i], want)
		}
		if cmds[i].Count != NoCount {
			t.Errorf("cmds[%d].Count = %d, want NoCount", i, cmds[i].Count)
		}
	}
	if cmds[2].Err == nil {
		t.Error("expected the malformed token to carry an error")
	}
}
