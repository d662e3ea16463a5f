package scanner

import (
	"errors"
	"strconv"
)

// Error kinds shared by the boundary scanner and the chunk minifier.
var (
	ErrUnbalancedStructure  = errors.New("unbalanced structure")
	ErrUnterminatedString   = errors.New("unterminated string")
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")
	ErrOutputBufferTooSmall = errors.New("output buffer too small")
)

// SyntaxError reports where in the input a structural problem was found.
// Offset is absolute: chunk-local positions are rebased onto the whole input.
type SyntaxError struct {
	Kind   error
	Offset int64
}

func (e *SyntaxError) Error() string {
	return e.Kind.Error() + " at offset " + strconv.FormatInt(e.Offset, 10)
}

func (e *SyntaxError) Unwrap() error {
	return e.Kind
}

func syntaxError(kind error, offset int64) error {
	return &SyntaxError{Kind: kind, Offset: offset}
}
