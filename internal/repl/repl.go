// Package repl implements the interactive expression evaluator. Each round
// reads an expression line, then a line of variable bindings written as
// "name value name value ...", and prints the result.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/arith"
)

const (
	exprPrompt = "Enter expression. CTRL-C to quit."
	varsPrompt = "Now enter list of space separated variable values (e.g., x 2 y 1). CTRL-C to quit."
)

// Options configures Run.
type Options struct {
	// Logger receives debug logs of parse trees and bindings.
	Logger zerolog.Logger
	// Prompt enables printing prompts before each line.
	Prompt bool
	// Color enables coloring error messages.
	Color bool
	// Defaults are bindings used for variables not given on the bindings
	// line.
	Defaults map[string]float64
	// ParseOpts are applied to every expression.
	ParseOpts []arith.ParseOption
	// Format is the fmt verb for results. The default is %g.
	Format string
}

// Run reads rounds from in until EOF, writing prompts and results to out.
// The returned error is nil at EOF; malformed input is reported to out and
// never ends the loop.
func Run(in io.Reader, out io.Writer, opts Options) error {
	s := bufio.NewScanner(in)
	red := color.New(color.FgRed)
	if opts.Color {
		red.EnableColor()
	} else {
		red.DisableColor()
	}
	verb := opts.Format
	if verb == "" {
		verb = "%g"
	}
	w := &writer{out: out}
	report := func(err error) {
		w.do(func() (int, error) { return red.Fprintf(out, "Error: %v\n", err) })
	}
	for w.err == nil {
		if opts.Prompt {
			w.println(exprPrompt)
		}
		if !s.Scan() {
			break
		}
		e, err := arith.Parse(s.Text(), opts.ParseOpts...)
		if err != nil {
			report(err)
			continue
		}
		opts.Logger.Debug().Str("tree", e.String()).Strs("vars", e.Vars()).Msg("parsed")

		if opts.Prompt {
			w.println(varsPrompt)
		}
		if !s.Scan() {
			break
		}
		vars, err := Bindings(s.Text(), opts.Defaults)
		if err != nil {
			report(err)
			continue
		}
		r, err := e.Eval(vars)
		if err != nil {
			report(err)
			continue
		}
		w.do(func() (int, error) { return fmt.Fprintf(out, "Result is: "+verb+"\n", r) })
	}
	if w.err != nil {
		return errors.Wrap(w.err, "writing output")
	}
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "reading input")
	}
	return nil
}

// Bindings parses a line of "name value" pairs on top of defaults. Every
// problem in the line is reported.
func Bindings(line string, defaults map[string]float64) (map[string]float64, error) {
	vars := make(map[string]float64, len(defaults))
	for k, v := range defaults {
		vars[k] = v
	}
	f := strings.Fields(line)
	var errs *multierror.Error
	if len(f)%2 != 0 {
		errs = multierror.Append(errs, errors.Errorf("variable %q has no value", f[len(f)-1]))
		f = f[:len(f)-1]
	}
	for i := 0; i < len(f); i += 2 {
		v, err := strconv.ParseFloat(f[i+1], 64)
		if err != nil {
			errs = multierror.Append(errs, errors.Errorf("value %q for %s is not a number", f[i+1], f[i]))
			continue
		}
		vars[f[i]] = v
	}
	if errs != nil {
		errs.ErrorFormat = oneline
		return nil, errs
	}
	return vars, nil
}

func oneline(errs []error) string {
	s := make([]string, len(errs))
	for i, err := range errs {
		s[i] = err.Error()
	}
	return strings.Join(s, "; ")
}

// writer remembers the first write error so the loop can stop.
type writer struct {
	out io.Writer
	err error
}

func (w *writer) do(f func() (int, error)) {
	if w.err != nil {
		return
	}
	_, w.err = f()
}

func (w *writer) println(s string) {
	w.do(func() (int, error) { return fmt.Fprintln(w.out, s) })
}
