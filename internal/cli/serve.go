package cli

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/avdeevlv/vitrina/internal/devserver"
	"github.com/avdeevlv/vitrina/internal/fixtures"
)

// NewServeCommand runs the fixture API server.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var fixturesDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local fixture storefront API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := fixturesDir
			if dir == "" {
				dir = opts.cfg.Serve.FixturesDir
			}

			var (
				cat *fixtures.Catalog
				err error
			)
			if dir != "" {
				cat, err = fixtures.LoadDir(dir)
			} else {
				cat, err = fixtures.LoadDefault()
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "load fixtures", err)
			}

			srv := devserver.New(cat)
			slog.Info("fixture API listening",
				"addr", opts.cfg.Serve.Addr, "products", len(cat.Products))
			if err := http.ListenAndServe(opts.cfg.Serve.Addr, srv.Handler()); err != nil {
				return WrapExitError(ExitFailure, "serve", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fixturesDir, "fixtures", "", "directory of .cue fixture files (default: built-in catalog)")
	return cmd
}
