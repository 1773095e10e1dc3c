package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zephyrtronium/arith/internal/repl"
)

// replCmd returns the definition of the repl command.
func (env *rootEnv) replCmd() *cobra.Command {
	var prompt, noColor bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively.",
		Long: `
Reads an expression, then a line of variable values written as
"name value name value ...", and prints the result, until end of input.
Variables defined with --given or --vars are used when the line omits them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.runReplCmd(prompt, noColor)
		},
	}
	cmd.Flags().BoolVar(&prompt, "prompt", false, "print prompts even when input is not a terminal")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "do not color error messages")
	return cmd
}

// runReplCmd executes the repl command.
func (env *rootEnv) runReplCmd(prompt, noColor bool) error {
	opts, err := env.parseOpts()
	if err != nil {
		return err
	}
	vars, err := env.bindings(opts)
	if err != nil {
		return err
	}
	return repl.Run(env.stdin, env.stdout, repl.Options{
		Logger:    env.log,
		Prompt:    prompt || isTerminal(env.stdin),
		Color:     !noColor && !color.NoColor && isTerminal(env.stdout),
		Defaults:  vars,
		ParseOpts: opts,
		Format:    env.verb,
	})
}

// isTerminal reports whether v is a file descriptor connected to a terminal.
func isTerminal(v interface{}) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
