package jsonmin

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/biggeezerdevelopment/jsonmin/internal/minify"
	"github.com/biggeezerdevelopment/jsonmin/internal/scanner"
)

// Minifier is a reusable, concurrency-safe minifier bound to a set of
// options.
type Minifier struct {
	opts Options
	acc  scanner.Accelerator
}

// New validates opts and builds a Minifier.
func New(opts Options) (*Minifier, error) {
	if opts.Mode < ECO || opts.Mode > TURBO {
		return nil, ErrInvalidMode
	}
	opts = opts.withDefaults()
	acc, err := scanner.ByName(opts.Accelerator)
	if err != nil {
		return nil, err
	}
	return &Minifier{opts: opts, acc: acc}, nil
}

// NewMinifier returns a Minifier using the preset of mode. An unknown mode
// falls back to SPORT.
func NewMinifier(mode Mode) *Minifier {
	m, err := New(Options{Mode: mode})
	if err != nil {
		m, _ = New(Options{Mode: SPORT})
	}
	return m
}

// Default minifiers for each mode
var (
	EcoMinifier   = NewMinifier(ECO)
	SportMinifier = NewMinifier(SPORT)
	TurboMinifier = NewMinifier(TURBO)
)

// Options returns the effective options.
func (m *Minifier) Options() Options {
	return m.opts
}

// Accelerator names the byte classification kernel in use.
func (m *Minifier) Accelerator() string {
	return m.acc.Name()
}

// Minify minifies input with m's options.
func (m *Minifier) Minify(input []byte) ([]byte, error) {
	return m.MinifyContext(context.Background(), input)
}

// MinifyContext is Minify with cancellation of the parallel path.
func (m *Minifier) MinifyContext(ctx context.Context, input []byte) ([]byte, error) {
	out, _, err := m.run(ctx, input)
	return out, err
}

// MinifyWithReport also describes how the work was split.
func (m *Minifier) MinifyWithReport(ctx context.Context, input []byte) ([]byte, Report, error) {
	return m.run(ctx, input)
}

// MinifyString minifies a string.
func (m *Minifier) MinifyString(input string) (string, error) {
	out, err := m.Minify([]byte(input))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// MinifyReader reads r to the end and returns the minified document. ECO
// minifies while reading instead of buffering the input first.
func (m *Minifier) MinifyReader(r io.Reader) ([]byte, error) {
	if m.opts.Mode == ECO {
		var buf bytes.Buffer
		if err := m.MinifyStream(&buf, r); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return m.Minify(data)
}

// MinifyStream copies r to w minified, holding at most two stream buffers
// in memory.
func (m *Minifier) MinifyStream(w io.Writer, r io.Reader) error {
	mw := m.NewWriter(w)
	buf := make([]byte, m.opts.StreamBufferSize)
	if _, err := io.CopyBuffer(mw, onlyReader{r}, buf); err != nil {
		return err
	}
	return mw.Close()
}

// onlyReader hides WriterTo so CopyBuffer honours our buffer size.
type onlyReader struct {
	io.Reader
}

func (m *Minifier) run(ctx context.Context, input []byte) ([]byte, Report, error) {
	start := time.Now()
	rep := Report{
		Mode:        m.opts.Mode,
		InputBytes:  len(input),
		Accelerator: m.acc.Name(),
		Workers:     1,
		Chunks:      1,
	}

	if err := ctx.Err(); err != nil {
		return nil, rep, err
	}

	var out []byte
	var err error
	if m.opts.Mode == ECO {
		out, err = minify.Append(make([]byte, 0, len(input)), input, m.acc)
	} else {
		out, err = m.minifyParallel(ctx, input, &rep)
	}

	rep.Elapsed = time.Since(start)
	if err != nil {
		return nil, rep, err
	}
	rep.OutputBytes = len(out)
	return out, rep, nil
}

// MinifyReader minifies everything read from r using the preset of mode.
func MinifyReader(r io.Reader, mode Mode) ([]byte, error) {
	return NewMinifier(mode).MinifyReader(r)
}

// MinifyStream minifies r into w in ECO mode.
func MinifyStream(w io.Writer, r io.Reader) error {
	return EcoMinifier.MinifyStream(w, r)
}
