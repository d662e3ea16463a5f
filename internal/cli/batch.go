package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/biggeezerdevelopment/jsonmin/internal/logging"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>...",
		Short: "Minify many files concurrently",
		Long: `Minify every file named on the command line.

Results go to --out-dir under the same base name, or next to the input with
--suffix replacing the extension. A failing file does not stop the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.batch,
	}
	cmd.Flags().StringP("out-dir", "o", "", "Directory for the minified files")
	cmd.Flags().String("suffix", ".min.json", "Suffix replacing the input extension when --out-dir is not set")
	cmd.Flags().IntP("jobs", "j", 0, "Files processed at once (0 = one per CPU)")
	cmd.Flags().Bool("no-progress", false, "Hide the progress bar")
	return cmd
}

// batchOutput names the output file for input.
func batchOutput(input, outDir, suffix string) string {
	if outDir != "" {
		return filepath.Join(outDir, filepath.Base(input))
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

func (a *app) batch(cmd *cobra.Command, files []string) error {
	m, err := minifierFrom(a.v)
	if err != nil {
		return err
	}
	log := logging.L()

	outDir := a.v.GetString("out-dir")
	suffix := a.v.GetString("suffix")
	if outDir == "" && suffix == "" {
		return fmt.Errorf("either --out-dir or --suffix is required")
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
	}

	jobs := a.v.GetInt("jobs")
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Minifying"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetVisibility(!a.v.GetBool("no-progress")),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)

	var (
		inTotal, outTotal atomic.Int64
		failed            atomic.Int32
		start             = time.Now()
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)
	for _, input := range files {
		input := input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer bar.Add(1)

			output := batchOutput(input, outDir, suffix)
			in, err := os.Stat(input)
			if err != nil {
				failed.Add(1)
				log.Warn().Err(err).Str("file", input).Msg("skipped")
				return nil
			}
			if err := m.MinifyFileContext(ctx, input, output); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failed.Add(1)
				log.Warn().Err(err).Str("file", input).Msg("failed")
				return nil
			}
			out, err := os.Stat(output)
			if err != nil {
				failed.Add(1)
				log.Warn().Err(err).Str("file", output).Msg("output missing")
				return nil
			}

			inTotal.Add(in.Size())
			outTotal.Add(out.Size())
			log.Debug().Str("file", input).Str("output", output).Int64("bytes", in.Size()).Msg("minified")
			return nil
		})
	}
	err = g.Wait()
	_ = bar.Finish()
	if err != nil {
		return err
	}

	n := int(failed.Load())
	if a.v.GetBool("stats") || n > 0 {
		printBatchSummary(cmd.ErrOrStderr(), len(files)-n, inTotal.Load(), outTotal.Load(), n, time.Since(start))
	}
	if n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(files))
	}
	return nil
}
