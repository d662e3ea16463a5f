package jsonmin

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/biggeezerdevelopment/jsonmin/internal/mmap"
)

// MinifyFile minifies inputPath into outputPath using mode. ECO streams
// the file; the other modes map it into memory first.
func MinifyFile(inputPath, outputPath string, mode Mode) error {
	return NewMinifier(mode).MinifyFile(inputPath, outputPath)
}

// MinifyFile minifies inputPath into outputPath. The output file is only
// replaced once the whole input minified successfully.
func (m *Minifier) MinifyFile(inputPath, outputPath string) error {
	return m.MinifyFileContext(context.Background(), inputPath, outputPath)
}

// MinifyFileContext is MinifyFile with cancellation. A cancelled ctx stops
// the parallel path and the ECO stream and leaves outputPath untouched.
func (m *Minifier) MinifyFileContext(ctx context.Context, inputPath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.opts.Mode == ECO {
		return m.streamFile(ctx, inputPath, outputPath)
	}

	in, err := mmap.Open(inputPath)
	if err != nil {
		return fmt.Errorf("jsonmin: open %s: %w", inputPath, err)
	}
	out, err := m.MinifyContext(ctx, in.Bytes())
	if cerr := in.Close(); err == nil && cerr != nil {
		return fmt.Errorf("jsonmin: close %s: %w", inputPath, cerr)
	}
	if err != nil {
		return fmt.Errorf("jsonmin: %s: %w", inputPath, err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("jsonmin: write %s: %w", outputPath, err)
	}
	return nil
}

func (m *Minifier) streamFile(ctx context.Context, inputPath, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("jsonmin: open %s: %w", inputPath, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".jsonmin-*")
	if err != nil {
		return fmt.Errorf("jsonmin: create temp for %s: %w", outputPath, err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriterSize(tmp, m.opts.StreamBufferSize)
	if err := m.MinifyStream(bw, ctxReader{ctx, in}); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonmin: %s: %w", inputPath, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonmin: write %s: %w", outputPath, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("jsonmin: chmod %s: %w", outputPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonmin: write %s: %w", outputPath, err)
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return fmt.Errorf("jsonmin: rename to %s: %w", outputPath, err)
	}
	return nil
}

// ctxReader fails reads once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// ValidateFile reports whether the file holds one well-formed JSON value.
func ValidateFile(path string) bool {
	in, err := mmap.Open(path)
	if err != nil {
		return false
	}
	defer in.Close()
	return Valid(in.Bytes())
}
