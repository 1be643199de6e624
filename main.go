// This is the main-driver for cubit, a small C-subset to x86-64
// assembler.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/HarumiKiyama/chibicc-rust/internal/cerr"
	"github.com/HarumiKiyama/chibicc-rust/internal/compiler"
	"github.com/HarumiKiyama/chibicc-rust/internal/config"
)

var (
	redColor  = color.New(color.FgRed)
	cyanColor = color.New(color.FgCyan)
)

// stagePrefix returns the colored "[LEX ERROR]"-style prefix for err's
// stage, or a generic one if err isn't a *cerr.Error.
func stagePrefix(err error) string {
	ce, ok := err.(*cerr.Error)
	if !ok {
		return "[ERROR]"
	}
	switch ce.Stage {
	case cerr.Lex:
		return "[LEX ERROR]"
	case cerr.Parse:
		return "[PARSE ERROR]"
	case cerr.Codegen:
		return "[CODEGEN ERROR]"
	default:
		return "[ERROR]"
	}
}

func fail(err error) {
	redColor.Fprintf(os.Stderr, "%s %s\n", stagePrefix(err), err.Error())
	os.Exit(1)
}

func usageError(format string, args ...interface{}) {
	redColor.Fprintf(os.Stderr, "[USAGE ERROR] "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	cfgPath := flag.String("config", "", "Path to an alternate TOML config file (defaults to ~/.config/cubit/config.toml).")
	// The other flags are not defined yet, so flag.Parse would reject them
	// here; take only -config's value from the arguments.
	args := os.Args[1:]
	for i, a := range args {
		if !strings.HasPrefix(a, "-") {
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if name == "config" && hasValue {
			*cfgPath = value
		} else if name == "config" && i+1 < len(args) {
			*cfgPath = args[i+1]
		}
	}

	var cfg *config.Config
	var err error
	if *cfgPath != "" {
		cfg, err = config.LoadFrom(*cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fail(err)
	}

	// Re-parse with the config's values as flag defaults, so an explicit
	// flag on the command line always wins over the config file.
	debug := flag.Bool("debug", cfg.Debug, "Print diagnostic information about the compilation to stderr.")
	compile := flag.Bool("compile", cfg.Compile, "Assemble the generated program, via invoking the configured assembler.")
	program := flag.String("filename", "a.out", "The binary to write, when -compile is set.")
	run := flag.Bool("run", cfg.Run, "Run the binary, post-compile.")
	assembler := flag.String("assembler", cfg.Assembler, "The command used to assemble and link the generated program.")
	flag.Parse()

	if *run {
		*compile = true
	}

	if len(flag.Args()) != 1 {
		usageError("expected a single source string argument, got %d", len(flag.Args()))
	}

	comp := compiler.New(flag.Args()[0])
	comp.SetDebug(*debug)

	out, err := comp.Compile()
	if err != nil {
		fail(err)
	}

	if !*compile {
		fmt.Print(out)
		return
	}

	if *debug {
		cyanColor.Fprintf(os.Stderr, "[debug] invoking %s -static -o %s -x assembler -\n", *assembler, *program)
	}

	asm := exec.Command(*assembler, "-static", "-o", *program, "-x", "assembler", "-")
	asm.Stdout = os.Stdout
	asm.Stderr = os.Stderr

	var b bytes.Buffer
	b.WriteString(out)
	asm.Stdin = &b

	if err := asm.Run(); err != nil {
		redColor.Fprintf(os.Stderr, "[ASSEMBLE ERROR] %s\n", err)
		os.Exit(1)
	}

	if *run {
		bin := *program
		if !strings.ContainsRune(bin, filepath.Separator) {
			bin = "." + string(filepath.Separator) + bin
		}
		exe := exec.Command(bin)
		exe.Stdout = os.Stdout
		exe.Stderr = os.Stderr
		exe.Stdin = os.Stdin
		if err := exe.Run(); err != nil {
			redColor.Fprintf(os.Stderr, "[RUN ERROR] could not launch %s: %s\n", *program, err)
			os.Exit(1)
		}
	}
}
