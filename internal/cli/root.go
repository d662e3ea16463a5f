// Package cli implements the jsonmin command line.
package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/biggeezerdevelopment/jsonmin"
	"github.com/biggeezerdevelopment/jsonmin/internal/logging"
)

var (
	// Version information
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, bt, gc string) {
	version = v
	buildTime = bt
	gitCommit = gc
}

// Execute runs the jsonmin command with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// app carries the configuration resolved for one invocation.
type app struct {
	v *viper.Viper
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "jsonmin [input] [output]",
		Short: "Minify JSON on every core",
		Long: `jsonmin removes insignificant whitespace from JSON documents.

Input and output default to stdin and stdout; "-" names them explicitly.
Large documents are split at safe points and minified in parallel. The
output is byte for byte what a single-threaded pass produces.

Every flag can also be set from a JSONMIN_ environment variable
(JSONMIN_MODE, JSONMIN_CHUNK_SIZE, ...) or from a YAML config file.`,
		Args:          cobra.MaximumNArgs(2),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a.v = v

			level := zerolog.WarnLevel
			if v.GetBool("verbose") {
				level = zerolog.DebugLevel
			}
			jsonmin.SetLogger(logging.Console(cmd.ErrOrStderr(), level))
			return nil
		},
		RunE: a.minify,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringP("mode", "m", "sport", "Processing mode: eco, sport or turbo")
	pf.IntP("workers", "w", 0, "Worker goroutines (0 = one per CPU)")
	pf.String("chunk-size", "", "Target chunk size, e.g. 256KiB or 1MB (default: mode preset)")
	pf.Int("split-depth", 0, "Deepest nesting level to split at, -1 for top level only (default: mode preset)")
	pf.String("accel", "auto", "Byte classification kernel: auto, scalar or wide")
	pf.Bool("stats", false, "Print a report to stderr")
	pf.Bool("validate", false, "Reject input that is not exactly one well-formed JSON value")
	pf.String("config", "", "Config file (default: $XDG_CONFIG_HOME/jsonmin/config.yaml if present)")
	pf.BoolP("verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(newBatchCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "jsonmin %s\n", version)
			fmt.Fprintf(out, "Library: %s\n", jsonmin.Version())
			fmt.Fprintf(out, "Accelerator: %s\n", jsonmin.SportMinifier.Accelerator())
			fmt.Fprintf(out, "Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out, "Build time: %s\n", buildTime)
			fmt.Fprintf(out, "Git commit: %s\n", gitCommit)
		},
	}
}
