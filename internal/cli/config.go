package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/biggeezerdevelopment/jsonmin"
)

const (
	ConfigDirName  = "jsonmin"
	ConfigFileName = "config.yaml"
	EnvPrefix      = "JSONMIN"
)

// loadConfig layers flags over JSONMIN_ variables over the config file.
// A missing default config file is not an error; a missing --config is.
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	path := v.GetString("config")
	if path == "" {
		path = defaultConfigFile()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, ConfigDirName, ConfigFileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// minifierFrom builds a Minifier from the resolved settings.
func minifierFrom(v *viper.Viper) (*jsonmin.Minifier, error) {
	mode, err := jsonmin.ParseMode(v.GetString("mode"))
	if err != nil {
		return nil, err
	}

	opts := jsonmin.Options{
		Mode:        mode,
		Workers:     v.GetInt("workers"),
		SplitDepth:  v.GetInt("split-depth"),
		Accelerator: v.GetString("accel"),
	}
	if s := v.GetString("chunk-size"); s != "" {
		n, err := humanize.ParseBytes(s)
		if err != nil {
			return nil, fmt.Errorf("invalid chunk size %q: %w", s, err)
		}
		opts.ChunkSize = int(n)
		opts.MinChunkSize = int(n / 8)
	}
	return jsonmin.New(opts)
}
