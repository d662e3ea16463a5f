// Package jsonmin removes insignificant whitespace from JSON at high
// throughput. String contents, numbers and structural tokens are copied
// byte for byte; only whitespace outside strings is dropped.
//
// Large inputs are cut at structurally safe points, minified on a pool of
// work-stealing goroutines and stitched back together in input order. The
// result is always identical to the single-threaded pass.
package jsonmin

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/biggeezerdevelopment/jsonmin/internal/logging"
	"github.com/biggeezerdevelopment/jsonmin/internal/minify"
	"github.com/biggeezerdevelopment/jsonmin/internal/parser"
	"github.com/biggeezerdevelopment/jsonmin/internal/scanner"
)

var (
	// ErrUnbalancedStructure means a closing bracket had nothing to close.
	ErrUnbalancedStructure = scanner.ErrUnbalancedStructure
	// ErrUnterminatedString means the input ended inside a string.
	ErrUnterminatedString = scanner.ErrUnterminatedString
	// ErrUnexpectedEndOfInput means the input ended with open structures.
	ErrUnexpectedEndOfInput = scanner.ErrUnexpectedEndOfInput
	// ErrOutputBufferTooSmall signals an internal sizing bug.
	ErrOutputBufferTooSmall = scanner.ErrOutputBufferTooSmall

	ErrInvalidMode = errors.New("invalid mode")
)

// SyntaxError carries the error kind and the absolute input offset.
type SyntaxError = scanner.SyntaxError

const version = "1.2.0"

// Version returns the library version.
func Version() string {
	return version
}

// SetLogger routes the library's debug logging to l. Logging is off by
// default.
func SetLogger(l zerolog.Logger) {
	logging.Set(l)
}

// Minify returns a minified copy of input using the calling goroutine
// only.
func Minify(input []byte) ([]byte, error) {
	return minify.Minify(input)
}

// MinifyString is Minify for strings.
func MinifyString(input string) (string, error) {
	out, err := minify.Minify([]byte(input))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// MinifyParallel minifies input on up to workers goroutines. Small inputs
// take the serial path. workers <= 0 means one per CPU.
func MinifyParallel(input []byte, workers int) ([]byte, error) {
	return MinifyContext(context.Background(), input, workers)
}

// MinifyContext is MinifyParallel with cancellation. On cancellation the
// in-flight chunks finish, the rest are dropped and ctx.Err() is returned.
func MinifyContext(ctx context.Context, input []byte, workers int) ([]byte, error) {
	m, err := New(Options{Mode: SPORT, Workers: workers})
	if err != nil {
		return nil, err
	}
	return m.MinifyContext(ctx, input)
}

// MinifyWithMode minifies input using the preset of mode.
func MinifyWithMode(input []byte, mode Mode) ([]byte, error) {
	m, err := New(Options{Mode: mode})
	if err != nil {
		return nil, err
	}
	return m.Minify(input)
}

// Valid reports whether data is exactly one well-formed JSON value,
// surrounded by optional whitespace.
func Valid(data []byte) bool {
	return parser.Check(data) == nil
}

// Validate is Valid with the reason for rejection.
func Validate(data []byte) error {
	return parser.Check(data)
}
