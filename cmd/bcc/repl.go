package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/wonton/color"
	"github.com/peterh/liner"

	bcc "github.com/IsVohi/ByteCode-Compiler"
	"github.com/IsVohi/ByteCode-Compiler/object"
)

const historyFile = ".bcc_history"

// runRepl starts the interactive shell. Each line is compiled
// incrementally and executed on a persistent VM, so variables and
// functions defined on one line remain available on the next.
func runRepl() error {
	fmt.Printf("bcc %s — type \"exit\" or ctrl-d to quit\n", version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := bcc.NewSession()

	for {
		line, err := ln.Prompt(">>> ")
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" {
			return nil
		}
		if input == "reset" {
			session.Reset()
			continue
		}
		ln.AppendHistory(line)

		result, err := session.Feed(line)
		if err != nil {
			printReplError(err)
			continue
		}
		// Statements evaluate to void; only print actual values
		if _, isVoid := result.(*object.VoidType); !isVoid {
			fmt.Println(result.Inspect())
		}
	}
}

func printReplError(err error) {
	msg := err.Error()
	if color.ShouldColorize(os.Stderr) {
		msg = color.Red.Apply(msg)
	}
	fmt.Fprintln(os.Stderr, msg)
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}
