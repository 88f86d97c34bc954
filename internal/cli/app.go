// Package cli implements the jg command: flag and subcommand wiring,
// terminal detection, and output formatting around the query engine.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/micahkepe/jsongrep/pkg/jsongrep"
)

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

// App carries the process streams and terminal facts so the command logic
// is testable with in-memory buffers.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinTTY and StdoutTTY report whether the respective stream is a
	// terminal. They gate the no-input help behavior and the path-header
	// and color defaults.
	StdinTTY  bool
	StdoutTTY bool

	Logger hclog.Logger
}

// New builds an App wired to the real process streams.
func New() *App {
	return &App{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		StdinTTY:  isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
		StdoutTTY: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		Logger: hclog.New(&hclog.LoggerOptions{
			Name:   "jg",
			Level:  hclog.Info,
			Output: os.Stderr,
		}),
	}
}

// Command assembles the urfave/cli command tree.
func (a *App) Command() *cli.App {
	return &cli.App{
		Name:            "jg",
		Usage:           "query JSON documents with a regular-expression-like path language",
		UsageText:       "jg [options] QUERY [FILE]\njg generate shell SHELL\njg generate man [--output-dir DIR]",
		ArgsUsage:       "QUERY [FILE]",
		Version:         Version,
		HideHelpCommand: true,
		Reader:          a.Stdin,
		Writer:          a.Stdout,
		ErrWriter:       a.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "count",
				Usage: "display count of number of matches",
			},
			&cli.BoolFlag{
				Name:  "depth",
				Usage: "display depth of the input document",
			},
			&cli.BoolFlag{
				Name:  "compact",
				Usage: "do not pretty-print matched values, use compact output",
			},
			&cli.BoolFlag{
				Name:    "no-display",
				Aliases: []string{"n"},
				Usage:   "do not display matched JSON values",
			},
			&cli.BoolFlag{
				Name:    "fixed-string",
				Aliases: []string{"F"},
				Usage:   "treat QUERY as a literal field name to find anywhere in the document",
			},
			&cli.BoolFlag{
				Name:  "with-path",
				Usage: "print the path header line before each match",
			},
			&cli.BoolFlag{
				Name:  "no-path",
				Usage: "suppress the path header line",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			a.generateCommand(),
		},
		Action: a.run,
	}
}

// Run executes the command line and returns the process exit code.
func (a *App) Run(args []string) int {
	if err := a.Command().Run(args); err != nil {
		if isBrokenPipe(err) {
			return 0
		}
		a.Logger.Error("jg failed", "error", err)
		return 1
	}
	return 0
}

func (a *App) run(c *cli.Context) error {
	if c.Bool("verbose") {
		a.Logger.SetLevel(hclog.Debug)
	}
	if c.Bool("with-path") && c.Bool("no-path") {
		return errors.New("--with-path and --no-path are mutually exclusive")
	}
	if c.NArg() == 0 {
		cli.ShowAppHelp(c)
		return errors.New("query string required unless using a subcommand")
	}

	queryArg := c.Args().Get(0)
	dfa, err := a.compileQuery(queryArg, c.Bool("fixed-string"))
	if err != nil {
		return err
	}

	input, err := a.openInput(c)
	if err != nil {
		return err
	}
	if input == nil {
		// No file and stdin is a terminal: nothing to read.
		cli.ShowAppHelp(c)
		return errors.New("no input: provide FILE or pipe JSON on stdin")
	}
	defer input.Close()

	doc, err := jsongrep.From(input)
	if err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}

	matches := doc.FindDFA(dfa)
	a.Logger.Debug("query executed", "matches", len(matches))

	p := &printer{
		out:      a.Stdout,
		compact:  c.Bool("compact"),
		color:    a.StdoutTTY && !c.Bool("compact"),
		withPath: a.resolveWithPath(c, len(matches)),
	}

	if c.Bool("count") {
		if err := p.line(fmt.Sprintf("Found matches: %d", len(matches))); err != nil {
			return err
		}
	}
	if c.Bool("depth") {
		if err := p.line(fmt.Sprintf("Document depth: %d", doc.Depth())); err != nil {
			return err
		}
	}
	if c.Bool("no-display") {
		return nil
	}
	return p.printMatches(matches)
}

func (a *App) compileQuery(text string, fixedString bool) (*jsongrep.DFA, error) {
	var ast *jsongrep.AST
	if fixedString {
		ast = jsongrep.FixedString(text)
	} else {
		var err error
		ast, err = jsongrep.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse query: %w", err)
		}
	}
	dfa, err := jsongrep.CompileAST(ast)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	a.Logger.Debug("query compiled",
		"query", ast.String(),
		"alphabet_symbols", len(dfa.Alphabet.Symbols),
		"nfa_positions", dfa.NFAPositions,
		"dfa_states", len(dfa.Table),
	)
	return dfa, nil
}

// openInput resolves the document source: the FILE argument if present,
// stdin when piped, nil when stdin is a terminal and no FILE was given.
func (a *App) openInput(c *cli.Context) (io.ReadCloser, error) {
	if c.NArg() >= 2 {
		path := c.Args().Get(1)
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return f, nil
	}
	if a.StdinTTY {
		return nil, nil
	}
	return io.NopCloser(a.Stdin), nil
}

// resolveWithPath applies the path-header policy: an explicit flag always
// wins; otherwise headers appear on a terminal, or whenever there is more
// than one match to tell apart.
func (a *App) resolveWithPath(c *cli.Context, matchCount int) bool {
	if c.Bool("with-path") {
		return true
	}
	if c.Bool("no-path") {
		return false
	}
	return a.StdoutTTY || matchCount > 1
}
