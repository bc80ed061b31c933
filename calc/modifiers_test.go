package calc

import (
	"errors"
	"testing"
)

func TestStrToModifiers(t *testing.T) {
	tests := []struct {
		in   string
		want Modifiers
	}{
		{"", Modifiers{}},
		{"p", Modifiers{Print: true}},
		{"*", Modifiers{All: true}},
		{"!", Modifiers{Push: true}},
		{"=", Modifiers{PreserveStack: true}},
		{"ip", Modifiers{Iterate: true, Print: true}},
		{"pp", Modifiers{Print: true}}, // repeats tolerated
		{"cD", Modifiers{ForceCommand: true, Debug: true}},
		{"rP", Modifiers{Reverse: true, AutoPrint: true}},
		{"s", Modifiers{Split: true}},
		{"n", Modifiers{NoSplit: true}},
	}

	for _, tt := range tests {
		got, err := strToModifiers(tt.in)
		if err != nil {
			t.Errorf("strToModifiers(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("strToModifiers(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestStrToModifiersUnknown(t *testing.T) {
	_, err := strToModifiers("pxy")
	var unknown *UnknownModifiersError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownModifiersError, got %v", err)
	}
	if len(unknown.Letters) != 2 || unknown.Letters[0] != "x" || unknown.Letters[1] != "y" {
		t.Errorf("unknown letters = %v, want [x y]", unknown.Letters)
	}
}

func TestStrToModifiersIncompatible(t *testing.T) {
	for _, in := range []string{"!=", "sn"} {
		_, err := strToModifiers(in)
		var incompatible *IncompatibleModifiersError
		if !errors.As(err, &incompatible) {
			t.Errorf("strToModifiers(%q): expected IncompatibleModifiersError, got %v",
				in, err)
		}
	}
}
