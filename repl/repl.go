// Package repl implements the Read-Eval-Print Loop for the tangram
// toolchain.
//
// The language's grammar is whole-program — a Source is every global
// followed by every function, with exactly one main/0 — so unlike the
// teacher's line-at-a-time dynamic-language REPL (the former repl.go),
// a session here accumulates lines into a buffer and submits the whole
// buffer as one Source on a blank line. The banner/readline/color
// plumbing and the executeWithRecovery panic-recovery shape are kept
// directly from the teacher.
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/tangramlang/tangram/analyzer"
	"github.com/tangramlang/tangram/environment"
	"github.com/tangramlang/tangram/interp"
	"github.com/tangramlang/tangram/parser"
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl holds the display configuration for an interactive session.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string
}

// NewRepl creates a Repl with the given display configuration.
func NewRepl(banner, version, author, line, license, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt}
}

// PrintBannerInfo writes the startup banner and usage instructions.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Welcome to tangram!")
	cyanColor.Fprintf(writer, "%s\n", "Enter a complete program (globals, functions, one main/0) and submit with a blank line")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit")
	cyanColor.Fprintf(writer, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start runs the REPL main loop against reader/writer until the user
// exits or EOF is reached.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.NewEx(&readline.Config{
		Prompt: r.Prompt,
		Stdin:  io.NopCloser(reader),
		Stdout: writer,
	})
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	var buf strings.Builder

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		trimmed := strings.Trim(line, " \n\t\r")

		if trimmed == ".exit" {
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		if trimmed == "" {
			source := buf.String()
			buf.Reset()
			if strings.TrimSpace(source) == "" {
				continue
			}
			rl.SaveHistory(source)
			r.executeWithRecovery(writer, source)
			continue
		}

		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

// executeWithRecovery parses, analyzes, and runs source as a complete
// program, reporting parse/analysis/runtime errors in red and the
// result in yellow. It recovers from panics so a single bad program
// cannot crash the session.
func (r *Repl) executeWithRecovery(writer io.Writer, source string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[RUNTIME ERROR] %v\n", recovered)
		}
	}()

	src, err := parser.Parse(source)
	if err != nil {
		redColor.Fprintf(writer, "%s\n", err)
		return
	}

	env := environment.New(writer)
	anlz := analyzer.New(env.Functions)
	if err := anlz.Analyze(src); err != nil {
		redColor.Fprintf(writer, "%s\n", err)
		return
	}

	in := interp.New(env)
	result, err := in.Run(src)
	if err != nil {
		redColor.Fprintf(writer, "%s\n", err)
		return
	}
	yellowColor.Fprintf(writer, "%s\n", result.String())
}
