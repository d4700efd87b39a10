package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/hubworks/ledger/internal/buildinfo"
	"github.com/hubworks/ledger/internal/config"
	"github.com/hubworks/ledger/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ledger",
		Short:   "Double-entry general ledger with budget tracking",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newVerifyCommand())

	return rootCmd
}

// setupLogging configures gin and the global logger.
//
// The log format can be set explicitly. If it is not set, it defaults
// to human readable for development and JSON for release.
func setupLogging(cfg config.Config, output io.Writer) {
	gin.SetMode(cfg.GinMode)

	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: output}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()
}

// openDatabase connects to the configured database. For SQLite, the
// directory of the database file is created if needed.
func openDatabase(cfg config.Config) error {
	if cfg.DBDriver == models.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBDSN), os.ModePerm); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	return models.Open(cfg.DBDriver, cfg.DBDSN)
}
