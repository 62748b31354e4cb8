package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/peterh/liner"

	achronyme "github.com/eddndev/achronyme-core-sub006"
	"github.com/eddndev/achronyme-core-sub006/internal/logger"
)

const (
	appName     = "ach"
	historyFile = ".achronyme_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("Achronyme %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", achronyme.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func usage() {
	fmt.Printf("Usage: %s <command> [options]\n\n", appName)
	fmt.Println("Commands:")
	fmt.Println("  run <file>   Evaluate a script")
	fmt.Println("  repl         Start an interactive session")
	fmt.Println("  version      Print the version")
}

func main() {
	verbose := flag.Bool("v", false, "Verbose mode")
	noColor := flag.Bool("n", false, "No color")
	flag.Usage = usage
	flag.Parse()

	logger.Init(*verbose, *noColor)

	args := flag.Args()
	if len(args) == 0 {
		repl(!*noColor)
		return
	}

	switch args[0] {
	case "version":
		fmt.Println(achronyme.Version)
	case "repl":
		repl(!*noColor)
	case "run":
		if len(args) < 2 {
			log.Fatal("No input file provided", "help", fmt.Sprintf("%s run <file>", appName))
		}
		runFile(args[1])
	default:
		usage()
		os.Exit(2)
	}
}

func runFile(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Cannot read input file", "error", err)
	}
	ip := achronyme.NewInterpreter()
	if _, err := ip.EvalPersistentSource(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, achronyme.WrapErrorWithName(err, filepath.Base(path), string(src)))
		os.Exit(1)
	}
}

func repl(color bool) {
	fmt.Println(banner)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	paint := func(s string, f func(string) string) string {
		if color {
			return f(s)
		}
		return s
	}

	ip := achronyme.NewInterpreter()
	var buf strings.Builder

	for {
		prompt := promptMain
		if buf.Len() > 0 {
			prompt = promptCont
		}
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			buf.Reset()
			continue
		}
		if err != nil {
			fmt.Println()
			return
		}

		if buf.Len() == 0 {
			switch strings.TrimSpace(input) {
			case "":
				continue
			case ":quit":
				return
			}
		}

		buf.WriteString(input)
		buf.WriteByte('\n')
		src := buf.String()

		// A parse that fails only because input ran out means the user
		// is mid-construct: keep reading with a continuation prompt.
		if _, perr := achronyme.ParseSourceInteractive(src); achronyme.IsIncomplete(perr) {
			continue
		}

		buf.Reset()
		line.AppendHistory(strings.TrimRight(src, "\n"))

		val, err := ip.EvalPersistentSource(src)
		if err != nil {
			fmt.Println(paint(achronyme.WrapErrorWithSource(err, src).Error(), red))
			continue
		}
		fmt.Println(paint(achronyme.FormatValue(val), blue))
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}
