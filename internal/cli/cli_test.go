package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pretty = "{\n  \"a\" : 1 ,\n  \"b\" : [ 1 , 2 , 3 ] ,\n  \"s\" : \"x  y\"\n}\n"
const compact = `{"a":1,"b":[1,2,3],"s":"x  y"}`

// run executes the command tree with args and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	// Keep the caller's environment and config out of the test.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestMinify_Stdio(t *testing.T) {
	for _, mode := range []string{"eco", "sport", "turbo"} {
		t.Run(mode, func(t *testing.T) {
			out, _, err := run(t, pretty, "--mode", mode)
			require.NoError(t, err)
			assert.Equal(t, compact, out)
		})
	}
}

func TestMinify_Files(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(in, []byte(pretty), 0o644))

	for _, mode := range []string{"eco", "sport"} {
		stdout, stderr, err := run(t, "", "-m", mode, "--stats", in, out)
		require.NoError(t, err)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "chunks")
		assert.Contains(t, stderr, in)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, compact, string(data))
	}
}

func TestMinify_Errors(t *testing.T) {
	_, _, err := run(t, `{"a":1`)
	assert.ErrorContains(t, err, "unexpected end of input")

	_, _, err = run(t, `{"a":1`, "--mode", "eco")
	assert.ErrorContains(t, err, "unexpected end of input")

	_, _, err = run(t, `{"a" 1}`, "--validate")
	assert.ErrorContains(t, err, "invalid JSON")

	_, _, err = run(t, "{}", "--mode", "warp")
	assert.ErrorContains(t, err, "invalid mode")

	_, _, err = run(t, "{}", "--accel", "gpu")
	assert.Error(t, err)

	_, _, err = run(t, "{}", "--chunk-size", "lots")
	assert.ErrorContains(t, err, "invalid chunk size")

	_, _, err = run(t, "{}", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMinify_FailedStreamRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.json")

	_, _, err := run(t, `["unterminated`, "-m", "eco", "-", out)
	require.Error(t, err)
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "partial output left behind")
}

func TestMinify_InPlace(t *testing.T) {
	for _, mode := range []string{"eco", "sport", "turbo"} {
		t.Run(mode, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "doc.json")
			require.NoError(t, os.WriteFile(path, []byte(pretty), 0o644))

			_, _, err := run(t, "", "-m", mode, path, path)
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, compact, string(data))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temporary file left behind")
		})
	}
}

func TestMinify_FailedStreamKeepsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(out, []byte(compact), 0o644))

	_, _, err := run(t, `{"a":[1,2`, "-m", "eco", "-", out)
	require.Error(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, compact, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBatch_Cancelled(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	in := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(in, []byte(pretty), 0o644))
	outDir := filepath.Join(dir, "out")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"batch", "--no-progress", "-o", outDir, in})
	err := cmd.ExecuteContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(filepath.Join(outDir, "a.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestConfig_EnvAndFile(t *testing.T) {
	t.Setenv("JSONMIN_MODE", "warp")
	_, _, err := run(t, "{}")
	assert.ErrorContains(t, err, "invalid mode", "JSONMIN_MODE must be honoured")

	// Flags win over the environment.
	out, _, err := run(t, "{ }", "--mode", "turbo")
	require.NoError(t, err)
	assert.Equal(t, "{}", out)

	t.Setenv("JSONMIN_MODE", "")
	cfg := filepath.Join(t.TempDir(), "jsonmin.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("mode: turbo\nchunk-size: 64KiB\nstats: true\n"), 0o644))
	_, stderr, err := run(t, pretty, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, stderr, "turbo")

	_, _, err = run(t, "{}", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.json", "b.json", "c.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(pretty), 0o644))
		files = append(files, path)
	}

	outDir := filepath.Join(dir, "out")
	args := append([]string{"batch", "--no-progress", "-j", "2", "-o", outDir}, files...)
	_, _, err := run(t, "", args...)
	require.NoError(t, err)

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(outDir, filepath.Base(f)))
		require.NoError(t, err)
		assert.Equal(t, compact, string(data))
	}

	// Without --out-dir the suffix replaces the extension.
	_, _, err = run(t, "", "batch", "--no-progress", "-m", "eco", files[0])
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "a.min.json"))
	require.NoError(t, err)
	assert.Equal(t, compact, string(data))
}

func TestBatch_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(good, []byte(pretty), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`{"a":`), 0o644))

	_, stderr, err := run(t, "", "batch", "--no-progress", "-o", filepath.Join(dir, "out"), good, bad, filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "2 of 3 files failed")
	assert.Contains(t, stderr, "2 files failed")

	data, err := os.ReadFile(filepath.Join(dir, "out", "good.json"))
	require.NoError(t, err)
	assert.Equal(t, compact, string(data))
}

func TestBatchOutput(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "a.json"), batchOutput(filepath.Join("in", "a.json"), "out", ".min.json"))
	assert.Equal(t, filepath.Join("in", "a.min.json"), batchOutput(filepath.Join("in", "a.json"), "", ".min.json"))
	assert.Equal(t, "data.min.json", batchOutput("data", "", ".min.json"))
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3", "today", "abc123")
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "jsonmin 1.2.3")
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "Accelerator:")
}
