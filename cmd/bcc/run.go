package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/IsVohi/ByteCode-Compiler/compiler"
	"github.com/IsVohi/ByteCode-Compiler/dis"
	"github.com/IsVohi/ByteCode-Compiler/internal/lexer"
	"github.com/IsVohi/ByteCode-Compiler/optimizer"
	"github.com/IsVohi/ByteCode-Compiler/parser"
	"github.com/IsVohi/ByteCode-Compiler/vm"
)

func runHandler(ctx *cli.Context) error {
	file := ctx.Arg(0)
	if file == "" {
		// With a terminal on stdin, start the interactive shell;
		// otherwise execute the piped program
		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return runRepl()
		}
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		return runSource(ctx, string(source))
	}
	source, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return runSource(ctx, string(source))
}

func runSource(ctx *cli.Context, source string) error {
	logger := newLogger(ctx.Bool("verbose"))

	if ctx.Bool("verbose") {
		tokens, err := lexer.New(source).Tokenize()
		if err == nil {
			logger.Debug().Int("tokens", len(tokens)).Msg("lexical analysis")
		}
	}

	program, err := parser.Parse(source)
	if err != nil {
		return err
	}
	logger.Debug().Int("items", len(program.Items)).Msg("parsing")

	if ctx.Bool("no-opt") {
		logger.Debug().Msg("skipping optimization")
	} else {
		opt := optimizer.New()
		if err := opt.Run(program); err != nil {
			return err
		}
		stats := opt.Stats()
		logger.Debug().
			Int("constants_folded", stats.ConstantsFolded).
			Int("dead_code_removed", stats.DeadCodeRemoved).
			Msg("optimization")
	}

	code, err := compiler.Compile(program)
	if err != nil {
		return err
	}
	logger.Debug().
		Int("instructions", len(code.Code)).
		Int("constants", len(code.Constants)).
		Int("functions", len(code.Functions)).
		Msg("code generation")

	if ctx.Bool("dump") {
		dis.Dump(os.Stdout, code)
	}

	var options []vm.Option
	var profiler *vm.Profiler
	if ctx.Bool("profile") {
		profiler = vm.NewProfiler()
		options = append(options, vm.WithObserver(profiler))
		profiler.Start()
	}

	start := time.Now()
	result, err := vm.New(options...).Run(code)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("result", result.Inspect()).
		Dur("elapsed", time.Since(start)).
		Msg("execution")

	if profiler != nil {
		profiler.Stop()
		fmt.Println()
		profiler.Dump(os.Stdout)
	}
	return nil
}

func disHandler(ctx *cli.Context) error {
	source, err := os.ReadFile(ctx.Arg(0))
	if err != nil {
		return err
	}
	program, err := parser.Parse(string(source))
	if err != nil {
		return err
	}
	if !ctx.Bool("no-opt") {
		if err := optimizer.New().Run(program); err != nil {
			return err
		}
	}
	code, err := compiler.Compile(program)
	if err != nil {
		return err
	}
	dis.Dump(os.Stdout, code)
	return nil
}

func versionHandler(ctx *cli.Context) error {
	fmt.Printf("%s (%s)\n", version, commit)
	return nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.Disabled
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
