// Package cli implements folioctl, the command-line companion of the folio server.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/folio/internal/logger"
	"github.com/kailas-cloud/folio/internal/version"
)

// options are shared by every subcommand.
type options struct {
	historyPath string
	logLevel    string

	out    io.Writer
	logger *zap.Logger
}

// NewRootCommand builds the folioctl command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &options{out: out}

	root := &cobra.Command{
		Use:          "folioctl",
		Short:        "Search and seed a folio portfolio catalog",
		Version:      version.String(),
		SilenceUsage: true,
		Long: `folioctl searches a portfolio seed file offline, keeps a local list of
recent searches and loads seed files into a Redis or Valkey catalog.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			l, err := logger.NewLogger("cli", opts.logLevel)
			if err != nil {
				return err
			}
			opts.logger = l
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.historyPath, "history", os.Getenv("FOLIO_HISTORY"),
		"Recent searches file (default ~/.folio/recent.json)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newSearchCommand(opts),
		newRecentCommand(opts),
		newSeedCommand(opts),
	)
	return root
}

// Execute runs folioctl and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *options) history() (*History, error) {
	if o.historyPath != "" {
		return NewHistory(o.historyPath), nil
	}
	path, err := DefaultHistoryPath()
	if err != nil {
		return nil, err
	}
	return NewHistory(path), nil
}
