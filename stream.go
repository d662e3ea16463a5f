package jsonmin

import (
	"errors"
	"io"

	"github.com/biggeezerdevelopment/jsonmin/internal/minify"
	"github.com/biggeezerdevelopment/jsonmin/internal/scanner"
)

var errWriterClosed = errors.New("jsonmin: write to closed Writer")

// Writer minifies everything written to it and forwards the result. Input
// may be split anywhere, including inside strings and escape sequences.
// Close reports a document that ended inside a string or structure.
type Writer struct {
	w      io.Writer
	acc    scanner.Accelerator
	st     minify.State
	buf    []byte
	err    error
	closed bool
}

// NewWriter returns a Writer in ECO configuration.
func NewWriter(w io.Writer) *Writer {
	return EcoMinifier.NewWriter(w)
}

// NewWriter returns a Writer using m's accelerator and stream buffer size.
func (m *Minifier) NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:   w,
		acc: m.acc,
		buf: make([]byte, m.opts.StreamBufferSize),
	}
}

// Write minifies p. The count is of input bytes consumed.
func (mw *Writer) Write(p []byte) (int, error) {
	if mw.closed {
		return 0, errWriterClosed
	}
	if mw.err != nil {
		return 0, mw.err
	}

	consumed := 0
	for len(p) > 0 {
		k := min(len(p), len(mw.buf))
		n, err := mw.st.Run(mw.buf[:k], p[:k], mw.acc)
		if err != nil {
			mw.err = err
			return consumed, err
		}
		if n > 0 {
			if _, err := mw.w.Write(mw.buf[:n]); err != nil {
				mw.err = err
				return consumed, err
			}
		}
		p = p[k:]
		consumed += k
	}
	return consumed, nil
}

// Close checks that the document is complete. It does not close the
// underlying writer.
func (mw *Writer) Close() error {
	if mw.closed {
		return mw.err
	}
	mw.closed = true
	if mw.err != nil {
		return mw.err
	}
	mw.err = mw.st.Finish()
	return mw.err
}

// Offset returns the number of input bytes consumed so far.
func (mw *Writer) Offset() int64 {
	return mw.st.Offset
}
