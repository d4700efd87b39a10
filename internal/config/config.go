// Package config reads the configuration of the ledger server from
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hubworks/ledger/internal/ledger"
	"github.com/hubworks/ledger/internal/models"
	"gopkg.in/yaml.v3"
)

var (
	ErrAPIURLRequired = errors.New("environment variable API_URL must be set")
	ErrChartEmpty     = errors.New("the chart of accounts template does not contain any accounts")
)

// Config is the server configuration.
type Config struct {
	APIURL        *url.URL      // Base URL for all links, API_URL
	GinMode       string        // GIN_MODE, defaults to release
	LogFormat     string        // LOG_FORMAT, "human" or "json". Empty selects by gin mode
	DBDriver      models.Driver // DB_DRIVER, sqlite or postgres
	DBDSN         string        // DB_DSN
	Port          string        // PORT
	ChartTemplate string        // CHART_TEMPLATE, path to a YAML chart of accounts
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	apiURL, ok := os.LookupEnv("API_URL")
	if !ok || apiURL == "" {
		return Config{}, ErrAPIURLRequired
	}

	u, err := url.Parse(strings.TrimSuffix(apiURL, "/"))
	if err != nil {
		return Config{}, fmt.Errorf("environment variable API_URL must be a valid URL: %w", err)
	}

	cfg, err := LoadDatabase()
	if err != nil {
		return Config{}, err
	}

	cfg.APIURL = u
	cfg.Port = getenv("PORT", "8080")
	cfg.ChartTemplate = os.Getenv("CHART_TEMPLATE")

	return cfg, nil
}

// LoadDatabase reads the logging and database settings only. Commands that
// do not serve the API use it, API_URL is not required.
func LoadDatabase() (Config, error) {
	cfg := Config{
		GinMode:   getenv("GIN_MODE", "release"),
		LogFormat: os.Getenv("LOG_FORMAT"),
		DBDriver:  models.Driver(getenv("DB_DRIVER", string(models.DriverSQLite))),
		DBDSN:     getenv("DB_DSN", "data/ledger.db"),
	}

	if cfg.DBDriver != models.DriverSQLite && cfg.DBDriver != models.DriverPostgres {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q, use sqlite or postgres", cfg.DBDriver)
	}

	return cfg, nil
}

// Chart returns the chart of accounts for new companies. Without a
// template, the default chart is used.
func (c Config) Chart() ([]ledger.ChartEntry, error) {
	if c.ChartTemplate == "" {
		return ledger.DefaultChart(), nil
	}

	return LoadChart(c.ChartTemplate)
}

type chartFile struct {
	Accounts []ledger.ChartEntry `yaml:"accounts"`
}

// LoadChart reads a chart of accounts template.
//
//	accounts:
//	  - code: "1000"
//	    name: Cash at Bank
//	    type: asset
//	    bank: true
//	  - code: "1010"
//	    name: Petty Cash
//	    type: asset
//	    parent: "1000"
func LoadChart(path string) ([]ledger.ChartEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chart template: %w", err)
	}

	var chart chartFile
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("parsing chart template: %w", err)
	}

	if len(chart.Accounts) == 0 {
		return nil, ErrChartEmpty
	}

	return chart.Accounts, nil
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
