package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[repl]
prompt = "rpn> "
separator = "/"
modifier = ";"
no-split = true
print = true
debug = true

[history]
enabled = false
path = "hist.db"
limit = 100

[startup]
file = "startup.rpn"
`
	if err := os.WriteFile(filepath.Join(dir, "reckon.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.REPL.Prompt != "rpn> " {
		t.Errorf("prompt = %q, want rpn> ", c.REPL.Prompt)
	}
	if c.REPL.Separator != "/" {
		t.Errorf("separator = %q, want /", c.REPL.Separator)
	}
	if c.REPL.Modifier != ";" {
		t.Errorf("modifier = %q, want ;", c.REPL.Modifier)
	}
	if !c.REPL.NoSplit {
		t.Error("no-split = false, want true")
	}
	if !c.REPL.Print {
		t.Error("print = false, want true")
	}
	if c.History.Enabled {
		t.Error("history enabled = true, want false")
	}
	if c.History.Limit != 100 {
		t.Errorf("history limit = %d, want 100", c.History.Limit)
	}

	histPath, err := c.HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath failed: %v", err)
	}
	if histPath != filepath.Join(c.Dir, "hist.db") {
		t.Errorf("history path = %q, want it under %q", histPath, c.Dir)
	}
	if c.StartupFilePath() != filepath.Join(c.Dir, "startup.rpn") {
		t.Errorf("startup file = %q, want it under %q", c.StartupFilePath(), c.Dir)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "reckon.toml"), []byte("[repl]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.REPL.Modifier != ":" {
		t.Errorf("default modifier = %q, want :", c.REPL.Modifier)
	}
	if !c.History.Enabled {
		t.Error("default history enabled = false, want true")
	}
	if c.History.Limit != 500 {
		t.Errorf("default history limit = %d, want 500", c.History.Limit)
	}
}

func TestLoadConfigBadModifier(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "reckon.toml"),
		[]byte("[repl]\nmodifier = \"::\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected error for multi-character modifier")
	}
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	tomlContent := `[repl]
prompt = "found> "
`
	if err := os.WriteFile(filepath.Join(dir, "reckon.toml"), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c.REPL.Prompt != "found> " {
		t.Errorf("prompt = %q, want found> ", c.REPL.Prompt)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	c, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if c == nil {
		t.Fatal("expected default config when no reckon.toml exists")
	}
	if c.REPL.Prompt != "--> " {
		t.Errorf("default prompt = %q, want --> ", c.REPL.Prompt)
	}
}
