// Command libarith builds a C shared library for parsing and evaluating
// expressions:
//
//	go build -buildmode=c-shared -o libarith.so ./cmd/libarith
//
// Expressions are referred to by nonzero handles. arith_parse returns 0 when
// the text does not parse; arith_add_variable and arith_evaluate return 0 on
// success or a nonzero status code, and arith_last_error describes the most
// recent failure.
//
// Status codes:
//
//	0  success
//	1  unknown or released handle
//	2  undefined variable
//	3  invalid expression
//	4  invalid argument
//
// Set ARITH_DEBUG=1 in the environment to log handle lifecycles to stderr.
package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/arith/internal/session"
)

// cacheSize is the number of distinct expression texts whose parse trees are
// kept for reuse.
const cacheSize = 256

var registry = func() *session.Registry {
	log := zerolog.Nop()
	if os.Getenv("ARITH_DEBUG") != "" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).Level(zerolog.DebugLevel).With().Timestamp().Str("lib", "arith").Logger()
	}
	r, err := session.New(log, cacheSize)
	if err != nil {
		panic(err)
	}
	return r
}()

//export arith_parse
func arith_parse(text *C.char) C.uint64_t {
	if text == nil {
		return 0
	}
	h, err := registry.Parse(C.GoString(text))
	if err != nil {
		return 0
	}
	return C.uint64_t(h)
}

//export arith_add_variable
func arith_add_variable(h C.uint64_t, name *C.char, value C.double) C.int {
	if name == nil {
		return C.int(session.StatusInvalidArgument)
	}
	err := registry.AddVariable(session.Handle(h), C.GoString(name), float64(value))
	return C.int(session.Status(err))
}

//export arith_evaluate
func arith_evaluate(h C.uint64_t, result *C.double) C.int {
	if result == nil {
		return C.int(session.StatusInvalidArgument)
	}
	v, err := registry.Evaluate(session.Handle(h))
	if err != nil {
		return C.int(session.Status(err))
	}
	*result = C.double(v)
	return C.int(session.StatusOK)
}

//export arith_free
func arith_free(h C.uint64_t) {
	registry.Release(session.Handle(h))
}

// arith_last_error copies the message of the most recent failure into buf as
// a NUL-terminated string, truncated to fit in n bytes. It returns the length
// of the full message, which is 0 if nothing has failed.
//
//export arith_last_error
func arith_last_error(buf *C.char, n C.size_t) C.size_t {
	err := registry.LastError()
	if err == nil {
		if buf != nil && n > 0 {
			*buf = 0
		}
		return 0
	}
	msg := err.Error()
	if buf != nil && n > 0 {
		b := unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(n))
		k := copy(b[:len(b)-1], msg)
		b[k] = 0
	}
	return C.size_t(len(msg))
}

func main() {}
