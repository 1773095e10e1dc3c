// Package session keeps parsed expressions and their variable bindings behind
// integer handles, for callers that cannot hold Go pointers.
package session

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/zephyrtronium/arith"
)

// Handle identifies a parsed expression in a Registry. The zero Handle is
// never valid.
type Handle uint64

// ErrUnknownHandle is the cause of errors from operations on handles which
// were never returned by Parse or have been released.
var ErrUnknownHandle = errors.New("unknown handle")

// Status codes describe the outcome of an operation for callers which only
// receive integers.
const (
	StatusOK = iota
	StatusUnknownHandle
	StatusUndefinedVariable
	StatusInvalidExpression
	StatusInvalidArgument
)

// Status maps an error from a Registry operation to a status code.
func Status(err error) int {
	if err == nil {
		return StatusOK
	}
	if errors.Is(err, ErrUnknownHandle) {
		return StatusUnknownHandle
	}
	var name *arith.NameError
	if errors.As(err, &name) {
		return StatusUndefinedVariable
	}
	var input arith.InputError
	if errors.As(err, &input) {
		return StatusInvalidExpression
	}
	return StatusInvalidArgument
}

type entry struct {
	expr *arith.Expr
	vars map[string]float64
}

// Registry owns parsed expressions and their variable tables. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.Mutex
	log     zerolog.Logger
	opts    []arith.ParseOption
	cache   *lru.Cache
	entries map[Handle]*entry
	next    Handle
	last    error
}

// New creates a registry which caches up to cacheSize parsed expressions by
// their source text. opts apply to every Parse.
func New(log zerolog.Logger, cacheSize int, opts ...arith.ParseOption) (*Registry, error) {
	c, err := lru.New(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating parse cache")
	}
	return &Registry{
		log:     log,
		opts:    opts,
		cache:   c,
		entries: make(map[Handle]*entry),
	}, nil
}

// fail records err as the last error. The caller must hold r.mu.
func (r *Registry) fail(err error) error {
	r.last = err
	r.log.Debug().Err(err).Msg("operation failed")
	return err
}

// Parse parses text and returns a handle for the expression with an empty
// variable table. Expressions are immutable, so handles for the same text
// share one parsed tree.
func (r *Registry) Parse(text string) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var expr *arith.Expr
	v, hit := r.cache.Get(text)
	if hit {
		expr = v.(*arith.Expr)
	} else {
		var err error
		expr, err = arith.Parse(text, r.opts...)
		if err != nil {
			return 0, r.fail(errors.Wrapf(err, "parsing %q", text))
		}
		r.cache.Add(text, expr)
	}
	r.next++
	h := r.next
	r.entries[h] = &entry{expr: expr, vars: make(map[string]float64)}
	r.log.Debug().Uint64("handle", uint64(h)).Str("text", text).Bool("cached", hit).Str("tree", expr.String()).Msg("parsed")
	return h, nil
}

func (r *Registry) lookup(h Handle) (*entry, error) {
	e := r.entries[h]
	if e == nil {
		return nil, r.fail(errors.Wrapf(ErrUnknownHandle, "handle %d", h))
	}
	return e, nil
}

// AddVariable binds name to v for the expression with handle h, replacing
// any previous binding. Bindings persist across evaluations until Release.
func (r *Registry) AddVariable(h Handle, name string, v float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(h)
	if err != nil {
		return err
	}
	if name == "" {
		return r.fail(errors.Errorf("handle %d: empty variable name", h))
	}
	e.vars[name] = v
	r.log.Debug().Uint64("handle", uint64(h)).Str("name", name).Float64("value", v).Msg("bound variable")
	return nil
}

// Evaluate evaluates the expression with handle h using its current
// bindings.
func (r *Registry) Evaluate(h Handle) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	v, err := e.expr.Eval(e.vars)
	if err != nil {
		return 0, r.fail(errors.Wrapf(err, "evaluating handle %d", h))
	}
	return v, nil
}

// Release discards the expression with handle h and its bindings. Releasing
// an unknown handle does nothing.
func (r *Registry) Release(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[h]; !ok {
		r.log.Debug().Uint64("handle", uint64(h)).Msg("release of unknown handle")
		return
	}
	delete(r.entries, h)
	r.log.Debug().Uint64("handle", uint64(h)).Msg("released")
}

// LastError returns the error from the most recent failed operation, or nil
// if none has failed. Successful operations do not clear it.
func (r *Registry) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
