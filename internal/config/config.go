package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds the defaults of the command line flags. Values come from the
// environment (optionally via a .env file); flags override them.
type Config struct {
	Dir        string `env:"MTGTALLY_DIR"         env-default:"."`
	Pattern    string `env:"MTGTALLY_GLOB"        env-default:"*.txt"`
	Output     string `env:"MTGTALLY_OUTPUT"      env-default:"card_counts.txt"`
	XLSXOutput string `env:"MTGTALLY_XLSX_OUTPUT" env-default:"card_counts.xlsx"`
	MinTotal   int    `env:"MTGTALLY_MIN"         env-default:"10"`
	Label      string `env:"MTGTALLY_LABEL"       env-default:"MTG card totals"`

	LogLevel  string `env:"MTGTALLY_LOG_LEVEL"  env-default:"info"`
	LogFormat string `env:"MTGTALLY_LOG_FORMAT" env-default:"console"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Dir) == "" {
		return fmt.Errorf("input directory is empty")
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil {
		return fmt.Errorf("invalid glob %q: %w", c.Pattern, err)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output path is empty")
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("unsupported log format: %s", c.LogFormat)
	}
	return nil
}
