// Command gradesync serves the course gradebook API and offers one-off
// fetch, parse and export tools over the same sheets.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"gradesync/internal/config"
	"gradesync/internal/infrastructure"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every subcommand
type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "gradesync",
		Short:         "Course gradebook served from published spreadsheets",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newServeCmd(opts),
		newFetchCmd(opts),
		newParseCmd(opts),
		newExportCmd(opts),
	)
	return root
}

// loadConfig reads configuration and applies the verbose flag
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// toolLogger logs to stderr so command output on stdout stays parseable
func (o *rootOptions) toolLogger(cfg config.LoggingConfig) *slog.Logger {
	if o.verbose {
		cfg.Level = "debug"
	} else if cfg.Level == "" || cfg.Level == "info" {
		cfg.Level = "warn"
	}
	return infrastructure.NewWriterLogger(os.Stderr, cfg)
}
