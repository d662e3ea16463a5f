// Package minify is the single-threaded JSON minifier every worker runs.
//
// The state machine only knows about strings, escapes and nesting depth, so
// it can resume at any byte that is outside a string. The parallel path
// relies on that: each chunk gets a fresh State seeded with the chunk's
// entry depth and absolute offset.
package minify

import (
	"slices"

	"github.com/biggeezerdevelopment/jsonmin/internal/scanner"
)

var defaultAccel = scanner.Detect()

// State is the parse state carried across one chunk, or across the
// successive writes of one stream.
type State struct {
	InString      bool
	EscapePending bool
	Depth         int32
	// Offset is the absolute input position of the next byte, used to
	// report errors.
	Offset int64
}

// NewState returns the state for a chunk that starts at offset with the
// given nesting depth.
func NewState(depth int, offset int64) State {
	return State{Depth: int32(depth), Offset: offset}
}

// Run minifies src into dst and returns the number of bytes written. It
// does no end-of-input validation, so it can be called on a fragment; call
// Finish once the whole document has been seen.
//
// dst must be at least len(src) bytes, output never grows.
func (s *State) Run(dst, src []byte, acc scanner.Accelerator) (int, error) {
	if len(dst) < len(src) {
		return 0, &scanner.SyntaxError{Kind: scanner.ErrOutputBufferTooSmall, Offset: s.Offset}
	}
	if acc == nil {
		acc = defaultAccel
	}

	end := len(src)
	n, i := 0, 0
	for i < end {
		if s.InString {
			if s.EscapePending {
				dst[n] = src[i]
				n++
				i++
				s.EscapePending = false
				continue
			}
			j := i + acc.StringRun(src[i:])
			n += copy(dst[n:], src[i:j])
			i = j
			if i == end {
				break
			}
			// src[i] is a quote or a backslash.
			if src[i] == '\\' {
				s.EscapePending = true
			} else {
				s.InString = false
			}
			dst[n] = src[i]
			n++
			i++
			continue
		}

		c := src[i]
		switch scanner.ByteClass[c] {
		case scanner.ClassSpace:
			i += acc.SpaceRun(src[i:])
			continue
		case scanner.ClassQuote:
			s.InString = true
		case scanner.ClassOpen:
			s.Depth++
		case scanner.ClassClose:
			if s.Depth == 0 {
				return 0, &scanner.SyntaxError{Kind: scanner.ErrUnbalancedStructure, Offset: s.Offset + int64(i)}
			}
			s.Depth--
		}
		dst[n] = c
		n++
		i++
	}

	s.Offset += int64(end)
	return n, nil
}

// Finish validates that the input ended at a point where a document may
// end: outside any string and with every structure closed.
func (s *State) Finish() error {
	if s.InString {
		return &scanner.SyntaxError{Kind: scanner.ErrUnterminatedString, Offset: s.Offset}
	}
	if s.Depth > 0 {
		return &scanner.SyntaxError{Kind: scanner.ErrUnexpectedEndOfInput, Offset: s.Offset}
	}
	return nil
}

// Append minifies a complete document and appends the result to dst.
func Append(dst, src []byte, acc scanner.Accelerator) ([]byte, error) {
	l := len(dst)
	dst = slices.Grow(dst, len(src))

	var st State
	n, err := st.Run(dst[l:l+len(src)], src, acc)
	if err != nil {
		return dst[:l], err
	}
	if err := st.Finish(); err != nil {
		return dst[:l], err
	}
	return dst[:l+n], nil
}

// Minify returns a minified copy of a complete document.
func Minify(src []byte) ([]byte, error) {
	return Append(make([]byte, 0, len(src)), src, nil)
}
