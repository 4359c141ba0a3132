// Command tangram is the entry point for the tangram toolchain. It
// provides four modes of operation: REPL (default), file execution,
// Java-like source emission, and a REPL server — grounded directly on
// the teacher's main/main.go dispatch (--help/--version/server/file/REPL),
// with an "emit" mode added for spec.md §6's translation target.
package main

import (
	"net"
	"os"

	"github.com/fatih/color"

	"github.com/tangramlang/tangram/analyzer"
	"github.com/tangramlang/tangram/emitter"
	"github.com/tangramlang/tangram/environment"
	"github.com/tangramlang/tangram/file"
	"github.com/tangramlang/tangram/interp"
	"github.com/tangramlang/tangram/object"
	"github.com/tangramlang/tangram/parser"
	"github.com/tangramlang/tangram/repl"
)

var VERSION = "v0.1.0"
var AUTHOR = "tangram contributors"
var LICENSE = "MIT"
var PROMPT = "tangram >>> "

var BANNER = `
  _
 | |_ __ _ _ __   __ _ _ __ __ _ _ __ ___
 | __/ _` + "`" + ` | '_ \ / _` + "`" + ` | '__/ _` + "`" + ` | '_ ` + "`" + ` _ \
 | || (_| | | | | (_| | | | (_| | | | | | |
  \__\__,_|_| |_|\__, |_|  \__,_|_| |_| |_|
                 |___/
`

var LINE = "----------------------------------------------------------------"

var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
)

func main() {
	if len(os.Args) > 1 {
		switch arg := os.Args[1]; arg {
		case "--help", "-h":
			showHelp()
			os.Exit(0)
		case "--version", "-v":
			showVersion()
			os.Exit(0)
		case "server":
			if len(os.Args) < 3 {
				redColor.Fprintf(os.Stderr, "[USAGE ERROR] missing port for server mode. Usage: tangram server <port>\n")
				os.Exit(1)
			}
			startServer(os.Args[2])
			return
		case "emit":
			if len(os.Args) < 3 {
				redColor.Fprintf(os.Stderr, "[USAGE ERROR] missing source file for emit mode. Usage: tangram emit <path> [out.java]\n")
				os.Exit(1)
			}
			outPath := ""
			if len(os.Args) >= 4 {
				outPath = os.Args[3]
			}
			runEmit(os.Args[2], outPath)
		default:
			runFile(arg)
		}
		return
	}

	repler := repl.NewRepl(BANNER, VERSION, AUTHOR, LINE, LICENSE, PROMPT)
	repler.Start(os.Stdin, os.Stdout)
}

func showHelp() {
	cyanColor.Println("tangram - a statically typed toolchain")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	yellowColor.Println("  tangram                       Start interactive REPL mode")
	yellowColor.Println("  tangram <path-to-file>        Execute a tangram source file")
	yellowColor.Println("  tangram emit <path> [out]     Emit a Java-like translation of a source file")
	yellowColor.Println("  tangram server <port>         Start REPL server on the given port")
	yellowColor.Println("  tangram --help                Display this help message")
	yellowColor.Println("  tangram --version             Display version information")
}

func showVersion() {
	cyanColor.Println("tangram - a statically typed toolchain")
	cyanColor.Printf("Version: %s\n", VERSION)
	cyanColor.Printf("License: %s\n", LICENSE)
}

// runFile executes a single source file's main/0 and reports its result.
func runFile(fileName string) {
	source, err := file.ReadSource(fileName)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read file '%s': %v\n", fileName, err)
		os.Exit(1)
	}
	executeFileWithRecovery(source)
}

// runEmit analyzes a source file and writes its Java-like translation
// either to outPath or, if empty, to stdout.
func runEmit(fileName string, outPath string) {
	source, err := file.ReadSource(fileName)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not read file '%s': %v\n", fileName, err)
		os.Exit(1)
	}

	src, err := parser.Parse(source)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[PARSE ERROR] %s\n", err)
		os.Exit(1)
	}

	env := environment.New(os.Stdout)
	anlz := analyzer.New(env.Functions)
	if err := anlz.Analyze(src); err != nil {
		redColor.Fprintf(os.Stderr, "[ANALYSIS ERROR] %s\n", err)
		os.Exit(1)
	}

	rendered := emitter.Emit(src)
	if outPath == "" {
		os.Stdout.WriteString(rendered)
		return
	}
	if err := file.WriteEmitted(outPath, rendered); err != nil {
		redColor.Fprintf(os.Stderr, "[FILE ERROR] could not write '%s': %v\n", outPath, err)
		os.Exit(1)
	}
}

// startServer listens on port, handing each accepted connection its own
// independent REPL session in its own goroutine (spec.md §5).
func startServer(port string) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to start server on port %s: %v\n", port, err)
		os.Exit(1)
	}
	cyanColor.Printf("tangram REPL server listening on :%s\n", port)
	defer listener.Close()

	for {
		conn, err := listener.Accept()
		if err != nil {
			redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to accept connection: %v\n", err)
			continue
		}
		go handleClient(conn)
	}
}

func handleClient(conn net.Conn) {
	defer conn.Close()
	cyanColor.Printf("new client connected from %s\n", conn.RemoteAddr())
	repler := repl.NewRepl(BANNER, VERSION, AUTHOR, LINE, LICENSE, PROMPT)
	repler.Start(conn, conn)
	cyanColor.Printf("client disconnected from %s\n", conn.RemoteAddr())
}

// executeFileWithRecovery parses, analyzes, and runs source, reporting
// the integer exit status main/0 returns.
func executeFileWithRecovery(source string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(os.Stderr, "[RUNTIME ERROR] %v\n", recovered)
			os.Exit(1)
		}
	}()

	src, err := parser.Parse(source)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[PARSE ERROR] %s\n", err)
		os.Exit(1)
	}

	env := environment.New(os.Stdout)
	anlz := analyzer.New(env.Functions)
	if err := anlz.Analyze(src); err != nil {
		redColor.Fprintf(os.Stderr, "[ANALYSIS ERROR] %s\n", err)
		os.Exit(1)
	}

	in := interp.New(env)
	result, err := in.Run(src)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[RUNTIME ERROR] %s\n", err)
		os.Exit(1)
	}

	exitCode := 0
	if n, ok := result.(object.Int); ok {
		exitCode = int(n.Value.Int64())
	}
	yellowColor.Printf("exit: %s\n", result.String())
	os.Exit(exitCode)
}
