package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/folio"
)

type seedFlags struct {
	file     string
	addr     string
	driver   string
	password string
}

func newSeedCommand(opts *options) *cobra.Command {
	f := &seedFlags{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a seed file into the catalog database",
		Long: `Upserts every project and post of a seed file into Redis or Valkey.
Running folio servers pick the changes up through pub/sub.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), opts, f)
		},
	}
	cmd.Flags().StringVarP(&f.file, "file", "f", defaultSeedFile, "Seed file to load")
	cmd.Flags().StringVar(&f.addr, "addr", envOr("FOLIO_DB_ADDR", "localhost:6379"), "Database address")
	cmd.Flags().StringVar(&f.driver, "driver", "valkey", "Database driver: valkey or redis")
	cmd.Flags().StringVar(&f.password, "password", os.Getenv("FOLIO_DB_PASSWORD"), "Database password")
	return cmd
}

func runSeed(ctx context.Context, opts *options, f *seedFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var conn folio.Option
	switch f.driver {
	case "valkey":
		conn = folio.WithValkey(f.addr, f.password)
	case "redis":
		conn = folio.WithRedis(f.addr, f.password)
	default:
		return fmt.Errorf("unknown driver %q (want valkey or redis)", f.driver)
	}

	client, err := folio.New(conn, folio.WithLogger(opts.logger))
	if err != nil {
		return err
	}
	defer client.Close()

	st, err := client.Seed(ctx, f.file)
	fmt.Fprintf(opts.out, "Seeded %s: %d created, %d updated, %d failed\n", f.file, st.Created, st.Updated, st.Failed)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
