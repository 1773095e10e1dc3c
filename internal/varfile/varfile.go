// Package varfile reads variable bindings from YAML files.
//
// A variable file is a mapping of names to numbers:
//
//	x: 4
//	yy: -1.5e3
//	big: .inf
package varfile

import (
	"math"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/arith"
)

// Load reads the variable file at path.
func Load(path string) (map[string]float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading variable file")
	}
	vars, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "in %s", path)
	}
	return vars, nil
}

// Parse decodes variable bindings from YAML. Every invalid name or value is
// reported in the returned error, not just the first.
func Parse(data []byte) (map[string]float64, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding variables")
	}
	vars := make(map[string]float64)
	if len(doc.Content) == 0 {
		// Empty document.
		return vars, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, errors.Errorf("line %d: variables must be a mapping of names to numbers", m.Line)
	}
	var errs *multierror.Error
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if err := CheckName(k.Value); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "line %d", k.Line))
			continue
		}
		if _, ok := vars[k.Value]; ok {
			errs = multierror.Append(errs, errors.Errorf("line %d: duplicate variable %q", k.Line, k.Value))
			continue
		}
		var x float64
		if err := v.Decode(&x); err != nil {
			errs = multierror.Append(errs, errors.Errorf("line %d: value of %q is not a number", v.Line, k.Value))
			continue
		}
		if math.IsNaN(x) {
			errs = multierror.Append(errs, errors.Errorf("line %d: value of %q is NaN", v.Line, k.Value))
			continue
		}
		vars[k.Value] = x
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return vars, nil
}

// CheckName returns an error if name could not be used as a variable in an
// expression parsed with the default options.
func CheckName(name string) error {
	if name == "" {
		return errors.New("empty variable name")
	}
	if _, ok := arith.LookupOp(name); ok {
		return errors.Errorf("%q is an operator, not a variable name", name)
	}
	if arith.ValidName(name) {
		return nil
	}
	if _, err := strconv.ParseFloat(name, 64); err == nil {
		return errors.Errorf("%q is a number, not a variable name", name)
	}
	return errors.Errorf("%q is not a valid variable name", name)
}
