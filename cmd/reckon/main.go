// Reckon CLI - an interactive postfix (RPN) calculator.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/tliron/commonlog"

	"github.com/chazu/reckon/calc"
	"github.com/chazu/reckon/config"
	"github.com/chazu/reckon/history"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	cfg, err := config.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "reckon: %v\n", err)
		os.Exit(1)
	}

	prompt := flag.String("prompt", cfg.REPL.Prompt, "Interactive prompt")
	separator := flag.String("separator", cfg.REPL.Separator,
		"Command separator (default: whitespace)")
	modifier := flag.String("modifier", cfg.REPL.Modifier,
		"Character that introduces modifiers")
	debug := flag.Bool("debug", cfg.REPL.Debug, "Print debug output")
	autoPrint := flag.Bool("print", cfg.REPL.Print,
		"Print the result of every command")
	noSplit := flag.Bool("noSplit", cfg.REPL.NoSplit,
		"Treat each whole line as a single command")
	noFinalPrint := flag.Bool("noFinalPrint", false,
		"Do not print the stack when input runs out")
	useStdin := flag.Bool("stdin", false,
		"Read commands from standard input even with file arguments")
	startupFile := flag.String("startupFile", cfg.StartupFilePath(),
		"File of commands to run before the session")
	noHistory := flag.Bool("noHistory", !cfg.History.Enabled,
		"Do not record interactive commands")
	showVersion := flag.Bool("version", false, "Print the version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: reckon [options] [file...]\n\n")
		fmt.Fprintf(os.Stderr, "Runs commands from the given files (use \"-\" for standard\n")
		fmt.Fprintf(os.Stderr, "input), then from standard input. With no files and a terminal,\n")
		fmt.Fprintf(os.Stderr, "starts an interactive session.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  reckon                   # Interactive session\n")
		fmt.Fprintf(os.Stderr, "  echo '4 5 +' | reckon    # One-shot calculation\n")
		fmt.Fprintf(os.Stderr, "  reckon defs.rpn -        # Load a file, then read stdin\n")
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(calc.Version)
		return
	}

	if len(*modifier) != 1 {
		fmt.Fprintf(os.Stderr,
			"reckon: modifier must be a single character, got %q\n", *modifier)
		os.Exit(2)
	}
	if len(*separator) > 1 {
		fmt.Fprintf(os.Stderr,
			"reckon: separator must be a single character, got %q\n", *separator)
		os.Exit(2)
	}

	if *debug {
		commonlog.Configure(2, nil)
	} else {
		commonlog.Configure(0, nil)
	}

	c := calc.New(calc.Options{
		AutoPrint: *autoPrint,
		NoSplit:   *noSplit,
		Separator: *separator,
		ModSep:    (*modifier)[0],
		Debug:     *debug,
		Out:       os.Stdout,
		Err:       os.Stderr,
	})

	if *startupFile != "" {
		if err := runFile(c, *startupFile); err != nil {
			if errors.Is(err, calc.ErrQuit) {
				return
			}
			fmt.Fprintf(os.Stderr, "reckon: %v\n", err)
			os.Exit(1)
		}
	}

	files := flag.Args()
	for _, path := range files {
		var err error
		if path == "-" {
			err = runLines(c, os.Stdin)
		} else {
			err = runFile(c, path)
		}
		if err != nil {
			if errors.Is(err, calc.ErrQuit) {
				finish(c, *noFinalPrint)
				return
			}
			fmt.Fprintf(os.Stderr, "reckon: %v\n", err)
			os.Exit(1)
		}
	}

	readStdin := *useStdin || len(files) == 0
	if readStdin && !hasReadStdin(files) {
		var err error
		if interactive() {
			err = repl(c, cfg, *prompt, *noHistory)
		} else {
			err = runLines(c, os.Stdin)
		}
		if err != nil && !errors.Is(err, calc.ErrQuit) {
			fmt.Fprintf(os.Stderr, "reckon: %v\n", err)
			os.Exit(1)
		}
	}

	finish(c, *noFinalPrint)
}

// finish prints the remaining stack: a single value prints bare, more
// than one prints the whole stack.
func finish(c *calc.Calculator, noFinalPrint bool) {
	if noFinalPrint {
		return
	}
	switch c.Len() {
	case 0:
	case 1:
		fmt.Println(c.StackSnapshot()[0].Repr())
	default:
		c.PrintStack()
	}
}

func hasReadStdin(files []string) bool {
	for _, f := range files {
		if f == "-" {
			return true
		}
	}
	return false
}

func interactive() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func runFile(c *calc.Calculator, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return runLines(c, f)
}

func runLines(c *calc.Calculator, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if _, err := c.Execute(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func repl(c *calc.Calculator, cfg *config.Config, prompt string, noHistory bool) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	commonlog.NewInfoMessage(0, "reckon session "+c.ID)

	var store *history.Store
	if !noHistory {
		path, err := cfg.HistoryPath()
		if err != nil {
			commonlog.NewWarningMessage(0, "history disabled: "+err.Error())
		} else if store, err = history.Open(path); err != nil {
			commonlog.NewWarningMessage(0, "history disabled: "+err.Error())
			store = nil
		}
	}
	if store != nil {
		defer store.Close()
		lines, err := store.Recent(cfg.History.Limit)
		if err != nil {
			commonlog.NewWarningMessage(0, "cannot load history: "+err.Error())
		}
		for _, line := range lines {
			ln.AppendHistory(line)
		}
	}

	for {
		line, err := ln.Prompt(prompt)
		switch {
		case err == nil:
		case errors.Is(err, liner.ErrPromptAborted):
			// Ctrl+C abandons the line, not the session.
			continue
		case errors.Is(err, io.EOF):
			fmt.Println()
			return nil
		default:
			return err
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
			if store != nil {
				if err := store.Append(c.ID, line); err != nil {
					commonlog.NewWarningMessage(0, err.Error())
				}
			}
		}

		if _, err := c.Execute(line); err != nil {
			if errors.Is(err, calc.ErrQuit) {
				return nil
			}
			return err
		}
	}
}
