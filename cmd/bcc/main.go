package main

import (
	"os"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/deepnoodle-ai/wonton/color"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	app := cli.New("bcc").
		Description("Bytecode compiler and stack VM for a small imperative language").
		Version(version)

	app.GlobalFlags(
		cli.Bool("verbose", "v").Help("Print pipeline diagnostics"),
		cli.Bool("no-color", "").Env("NO_COLOR").Help("Disable colored output"),
	)

	// Root command: compiles and runs a file, or starts the shell
	app.Main().
		Args("file?").
		Flags(
			cli.Bool("no-opt", "").Help("Disable the optimization pass"),
			cli.Bool("profile", "").Help("Collect and print opcode statistics"),
			cli.Bool("dump", "").Help("Dump bytecode before execution"),
		).
		Run(runHandler)

	app.Command("dis").
		Description("Disassemble compiled bytecode").
		Args("file").
		Flags(
			cli.Bool("no-opt", "").Help("Disable the optimization pass"),
		).
		Run(disHandler)

	app.Command("version").
		Description("Print version information").
		Run(versionHandler)

	if err := app.Execute(); err != nil {
		if cli.IsHelpRequested(err) {
			return
		}
		printError(err.Error())
		os.Exit(cli.GetExitCode(err))
	}
}

func printError(msg string) {
	if color.ShouldColorize(os.Stderr) {
		msg = color.Red.Apply(msg)
	}
	os.Stderr.WriteString(msg + "\n")
}
