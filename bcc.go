// Package bcc compiles and executes programs written in a small
// imperative language. Source code is parsed into a syntax tree, lowered
// to compact bytecode, and run on a stack-based virtual machine.
//
// The simplest way to run code is the Eval function:
//
//	result, err := bcc.Eval("print(3 + 5);")
//
// Compile produces the bytecode program without executing it, and
// Session provides incremental evaluation for interactive use.
package bcc

import (
	"io"

	"github.com/IsVohi/ByteCode-Compiler/bytecode"
	"github.com/IsVohi/ByteCode-Compiler/compiler"
	"github.com/IsVohi/ByteCode-Compiler/object"
	"github.com/IsVohi/ByteCode-Compiler/optimizer"
	"github.com/IsVohi/ByteCode-Compiler/parser"
	"github.com/IsVohi/ByteCode-Compiler/vm"
)

type config struct {
	optimize bool
	output   io.Writer
	observer vm.Observer
}

// Option is a configuration function for Eval, Compile, and Session.
type Option func(*config)

// WithoutOptimizer disables the AST optimization pass.
func WithoutOptimizer() Option {
	return func(cfg *config) {
		cfg.optimize = false
	}
}

// WithOutput sets the sink that print statements write to. The default
// is standard output.
func WithOutput(w io.Writer) Option {
	return func(cfg *config) {
		cfg.output = w
	}
}

// WithObserver sets an observer that receives a callback for every
// executed instruction.
func WithObserver(observer vm.Observer) Option {
	return func(cfg *config) {
		cfg.observer = observer
	}
}

func newConfig(options []Option) *config {
	cfg := &config{optimize: true}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg
}

func (cfg *config) vmOptions() []vm.Option {
	var opts []vm.Option
	if cfg.output != nil {
		opts = append(opts, vm.WithOutput(cfg.output))
	}
	if cfg.observer != nil {
		opts = append(opts, vm.WithObserver(cfg.observer))
	}
	return opts
}

// Compile parses, optimizes, and lowers the given source code, returning
// the bytecode program.
func Compile(source string, options ...Option) (*bytecode.Program, error) {
	cfg := newConfig(options)
	program, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	if cfg.optimize {
		if err := optimizer.New().Run(program); err != nil {
			return nil, err
		}
	}
	return compiler.Compile(program)
}

// Eval compiles and executes the given source code and returns the value
// of the outermost return.
func Eval(source string, options ...Option) (object.Object, error) {
	cfg := newConfig(options)
	code, err := Compile(source, options...)
	if err != nil {
		return nil, err
	}
	return vm.New(cfg.vmOptions()...).Run(code)
}
