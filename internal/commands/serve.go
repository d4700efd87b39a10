package commands

import (
	"fmt"
	"os"

	"github.com/hubworks/ledger/internal/config"
	v1 "github.com/hubworks/ledger/internal/controllers/v1"
	"github.com/hubworks/ledger/internal/router"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API. It is configured with the API_URL, PORT, GIN_MODE, LOG_FORMAT, DB_DRIVER, DB_DSN and CHART_TEMPLATE environment variables.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			return runServe(cfg)
		},
	}
}

func runServe(cfg config.Config) error {
	setupLogging(cfg, os.Stdout)

	chart, err := cfg.Chart()
	if err != nil {
		return err
	}
	v1.Chart = chart

	if err := openDatabase(cfg); err != nil {
		return err
	}

	r, teardown, err := router.Config(cfg.APIURL)
	defer teardown()
	if err != nil {
		return err
	}

	router.AttachRoutes(r.Group("/"))

	log.Info().Str("driver", string(cfg.DBDriver)).Str("port", cfg.Port).Msg("starting ledger API")
	if err := r.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		return fmt.Errorf("running server: %w", err)
	}

	return nil
}
