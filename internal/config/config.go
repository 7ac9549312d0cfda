package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"harga-pangan-go/internal/dataset"
)

const envPrefix = "PANGAN"

// Config is the process configuration, read from PANGAN_* variables
type Config struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	CleanPath    string        `envconfig:"CLEAN_PATH" default:"data/data_harga_pangan_wide_imputed.csv"`
	WinsorPath   string        `envconfig:"WINSOR_PATH" default:"data/data_harga_pangan_wide_imputed_winsor.csv"`
	GeoPath      string        `envconfig:"GEO_PATH" default:"data/data_harga_pangan_with_latlon_FINAL.csv"`
	SchemaPath   string        `envconfig:"SCHEMA_PATH"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
	LoadRetry    time.Duration `envconfig:"LOAD_RETRY" default:"2s"`
}

// Load reads an optional .env file into the environment, then the PANGAN_* variables.
// Variables already set in the environment win over .env.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if cfg.CleanPath == "" || cfg.WinsorPath == "" {
		return nil, fmt.Errorf("clean and winsorized table paths are required")
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// Schema returns the schema descriptor named by SchemaPath, or the default one
func (c *Config) Schema() (dataset.Schema, error) {
	if c.SchemaPath == "" {
		return dataset.DefaultSchema(), nil
	}
	s, err := dataset.LoadSchema(c.SchemaPath)
	if err != nil {
		return dataset.Schema{}, fmt.Errorf("schema %s: %w", c.SchemaPath, err)
	}
	return s, nil
}
