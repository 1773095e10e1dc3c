// Command arith evaluates arithmetic expressions given as arguments, read from
// standard input one per line, or interactively with the repl subcommand.
package main

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/arith"
	"github.com/zephyrtronium/arith/internal/varfile"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// rootEnv provides the environment for the root command and its subcommands.
type rootEnv struct {
	given    []string
	varsFile string
	maxDepth int
	verb     string
	verbose  bool
	prec     uint
	echo     bool

	stdin  io.Reader
	stdout io.Writer
	log    zerolog.Logger
}

// newRootCmd returns the definition of the root command.
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	env := &rootEnv{stdin: stdin, stdout: stdout, log: zerolog.Nop()}
	cmd := &cobra.Command{
		Use:   "arith [flags] [expr...]",
		Short: "Evaluate arithmetic expressions.",
		Long: `
Evaluates each argument as an arithmetic expression and prints the results, one
per line. With no arguments, expressions are read from standard input, one per
line.

Variables are defined with --given name=value, where the value may itself be an
expression using variables defined before it, or with --vars naming a YAML file
of names and numbers. --given definitions override the file.

Use -- before expressions that begin with "-".`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env.log = newLogger(stderr, env.verbose)
		},
		RunE: env.runRootCmd,
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringArrayVar(&env.given, "given", nil, "name=value variable definition (any number of times)")
	pf.StringVar(&env.varsFile, "vars", "", "YAML file of variable definitions")
	pf.IntVar(&env.maxDepth, "max-depth", 512, "maximum nesting depth of parentheses, 0 for no limit")
	pf.StringVar(&env.verb, "fmt", "%g", "result formatting string")
	pf.BoolVarP(&env.verbose, "verbose", "v", false, "log parse trees and variable definitions")
	cmd.Flags().UintVarP(&env.prec, "prec", "p", 0, "precision of calculations in bits, 0 for float64")
	cmd.Flags().BoolVar(&env.echo, "echo", false, "print parse trees")

	cmd.AddCommand(env.replCmd())
	return cmd
}

// newLogger creates a console logger on w.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).Level(lvl).With().Timestamp().Logger()
}

// runRootCmd executes the root command.
func (env *rootEnv) runRootCmd(cmd *cobra.Command, args []string) error {
	opts, err := env.parseOpts()
	if err != nil {
		return err
	}
	srcs := args
	if len(srcs) == 0 {
		srcs, err = readLines(env.stdin)
		if err != nil {
			return err
		}
	}
	exprs := make([]*arith.Expr, 0, len(srcs))
	for _, src := range srcs {
		e, err := arith.Parse(src, opts...)
		if err != nil {
			return errors.Wrapf(err, "parsing %q", src)
		}
		env.log.Debug().Str("src", src).Stringer("tree", e).Strs("vars", e.Vars()).Msg("parsed")
		exprs = append(exprs, e)
	}
	if env.prec == 0 {
		return env.evalFloat(exprs, opts)
	}
	return env.evalBig(exprs, opts)
}

func (env *rootEnv) parseOpts() ([]arith.ParseOption, error) {
	if env.maxDepth < 0 {
		return nil, errors.Errorf("max depth (%d) must not be negative", env.maxDepth)
	}
	return []arith.ParseOption{arith.MaxDepth(env.maxDepth)}, nil
}

// evalFloat evaluates expressions with float64 arithmetic and prints each
// result or error.
func (env *rootEnv) evalFloat(exprs []*arith.Expr, opts []arith.ParseOption) error {
	vars, err := env.bindings(opts)
	if err != nil {
		return err
	}
	verb := env.verb + "\n"
	for _, e := range exprs {
		if env.echo {
			fmt.Fprintf(env.stdout, "%v : ", e)
		}
		r, err := e.Eval(vars)
		if err != nil {
			fmt.Fprintln(env.stdout, err)
			continue
		}
		fmt.Fprintf(env.stdout, verb, r)
	}
	return nil
}

// evalBig evaluates expressions to the configured precision and prints each
// result or error.
func (env *rootEnv) evalBig(exprs []*arith.Expr, opts []arith.ParseOption) error {
	ctx := arith.NewContext(arith.Prec(env.prec))
	if env.varsFile != "" {
		vars, err := varfile.Load(env.varsFile)
		if err != nil {
			return err
		}
		for name, v := range vars {
			ctx.Set(name, big.NewFloat(v))
		}
	}
	defs, err := env.definitions()
	if err != nil {
		return err
	}
	var errs *multierror.Error
	for _, d := range defs {
		e, err := arith.Parse(d[1], opts...)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "setting %s", d[0]))
			continue
		}
		r := ctx.Eval(e)
		if r == nil {
			errs = multierror.Append(errs, errors.Wrapf(ctx.Err(), "setting %s", d[0]))
			continue
		}
		ctx.Set(d[0], r)
		env.log.Debug().Str("name", d[0]).Stringer("value", r).Msg("defined")
	}
	if err := errs.ErrorOrNil(); err != nil {
		return err
	}

	verb := env.verb + "\n"
	for _, e := range exprs {
		if env.echo {
			fmt.Fprintf(env.stdout, "%v : ", e)
		}
		r := ctx.Eval(e)
		if r == nil {
			fmt.Fprintln(env.stdout, ctx.Err())
			continue
		}
		fmt.Fprintf(env.stdout, verb, r)
	}
	return nil
}

// bindings collects variable values from the variables file and --given
// definitions, evaluated in order with float64 arithmetic.
func (env *rootEnv) bindings(opts []arith.ParseOption) (map[string]float64, error) {
	vars := make(map[string]float64)
	if env.varsFile != "" {
		v, err := varfile.Load(env.varsFile)
		if err != nil {
			return nil, err
		}
		vars = v
	}
	defs, err := env.definitions()
	if err != nil {
		return nil, err
	}
	var errs *multierror.Error
	for _, d := range defs {
		r, err := arith.EvalString(d[1], vars, opts...)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "setting %s", d[0]))
			continue
		}
		vars[d[0]] = r
		env.log.Debug().Str("name", d[0]).Float64("value", r).Msg("defined")
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return vars, nil
}

// definitions splits --given flags into names and value expressions.
func (env *rootEnv) definitions() ([][2]string, error) {
	var errs *multierror.Error
	defs := make([][2]string, 0, len(env.given))
	for _, s := range env.given {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			errs = multierror.Append(errs, errors.Errorf(`variable definitions must be "name=value", not %q`, s))
			continue
		}
		name, value := strings.TrimSpace(d[0]), strings.TrimSpace(d[1])
		if err := varfile.CheckName(name); err != nil {
			errs = multierror.Append(errs, errors.Wrap(err, "--given"))
			continue
		}
		defs = append(defs, [2]string{name, value})
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return defs, nil
}

// readLines reads the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		if l := strings.TrimSpace(s.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "reading expressions")
	}
	return lines, nil
}
