package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/biggeezerdevelopment/jsonmin"
	"github.com/biggeezerdevelopment/jsonmin/internal/mmap"
)

const stdio = "-"

func (a *app) minify(cmd *cobra.Command, args []string) error {
	m, err := minifierFrom(a.v)
	if err != nil {
		return err
	}

	in, out := stdio, stdio
	if len(args) > 0 {
		in = args[0]
	}
	if len(args) > 1 {
		out = args[1]
	}

	// ECO never holds the whole document unless it has to be validated.
	if m.Options().Mode == jsonmin.ECO && !a.v.GetBool("validate") {
		return a.stream(cmd, m, in, out)
	}

	data, release, err := readInput(cmd, in)
	if err != nil {
		return err
	}
	if a.v.GetBool("validate") {
		if err := jsonmin.Validate(data); err != nil {
			release()
			return fmt.Errorf("%s: invalid JSON: %w", displayName(in), err)
		}
	}

	// The result never aliases data, so the mapping can go before out is
	// written, even when out is the input file.
	res, rep, err := m.MinifyWithReport(cmd.Context(), data)
	release()
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(in), err)
	}
	if err := writeOutput(cmd, out, res); err != nil {
		return err
	}

	if a.v.GetBool("stats") {
		printReport(cmd.ErrOrStderr(), displayName(in), rep)
	}
	return nil
}

func (a *app) stream(cmd *cobra.Command, m *jsonmin.Minifier, in, out string) (err error) {
	start := time.Now()

	var r io.Reader = cmd.InOrStdin()
	if in != stdio {
		f, oerr := os.Open(in)
		if oerr != nil {
			return oerr
		}
		defer f.Close()
		r = f
	}

	// A file output is written beside the target and renamed over it on
	// success, so out may name the input file.
	var w io.Writer = cmd.OutOrStdout()
	if out != stdio {
		f, cerr := os.CreateTemp(filepath.Dir(out), ".jsonmin-*")
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err == nil {
				err = os.Chmod(f.Name(), 0o644)
			}
			if err == nil {
				err = os.Rename(f.Name(), out)
			}
			if err != nil {
				os.Remove(f.Name())
			}
		}()
		w = f
	}

	cr := &countingReader{r: r}
	bw := bufio.NewWriterSize(w, m.Options().StreamBufferSize)
	cw := &countingWriter{w: bw}
	if err := m.MinifyStream(cw, cr); err != nil {
		return fmt.Errorf("%s: %w", displayName(in), err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	if a.v.GetBool("stats") {
		printReport(cmd.ErrOrStderr(), displayName(in), jsonmin.Report{
			Mode:        jsonmin.ECO,
			InputBytes:  int(cr.n),
			OutputBytes: int(cw.n),
			Accelerator: m.Accelerator(),
			Workers:     1,
			Chunks:      1,
			Elapsed:     time.Since(start),
		})
	}
	return nil
}

// readInput returns the whole input. Files are memory mapped; release
// unmaps them and must be called once data is no longer used.
func readInput(cmd *cobra.Command, name string) (data []byte, release func(), err error) {
	if name == stdio {
		data, err = io.ReadAll(cmd.InOrStdin())
		return data, func() {}, err
	}
	f, err := mmap.Open(name)
	if err != nil {
		return nil, nil, err
	}
	return f.Bytes(), func() { f.Close() }, nil
}

func writeOutput(cmd *cobra.Command, name string, data []byte) error {
	if name == stdio {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(name, data, 0o644)
}

func displayName(name string) string {
	if name == stdio {
		return "<stdin>"
	}
	return name
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
