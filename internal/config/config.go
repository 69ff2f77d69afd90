package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root       string   `yaml:"root" validate:"required"`
		Extensions []string `yaml:"extensions" validate:"dive,startswith=."`
		Ignore     []string `yaml:"ignore"`
	} `yaml:"project"`
	Guide struct {
		Title        string `yaml:"title"`
		TemplatesDir string `yaml:"templates_dir"` // optional per-position page overrides
	} `yaml:"guide"`
	Extractor struct {
		Mode    string `yaml:"mode" validate:"oneof=line treesitter"`
		Workers int    `yaml:"workers" validate:"gte=1"`
	} `yaml:"extractor"`
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
	Server struct {
		Addr  string `yaml:"addr" validate:"required"`
		Watch bool   `yaml:"watch"`
	} `yaml:"server"`
	LogLevel string `yaml:"log_level" validate:"oneof=trace debug info warn warning error"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Project.Root == "" {
		c.Project.Root = "."
	}
	if c.Guide.Title == "" {
		c.Guide.Title = "Style Guide"
	}
	if c.Extractor.Mode == "" {
		c.Extractor.Mode = "line"
	}
	if c.Extractor.Workers == 0 {
		c.Extractor.Workers = 4
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = "styledoc.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// LoadConfig reads path, applies STYLEDOC_* environment overrides and
// defaults, and validates the result. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("STYLEDOC_ROOT"); v != "" {
		c.Project.Root = v
	}
	if v := os.Getenv("STYLEDOC_EXTENSIONS"); v != "" {
		c.Project.Extensions = splitList(v)
	}
	if v := os.Getenv("STYLEDOC_TITLE"); v != "" {
		c.Guide.Title = v
	}
	if v := os.Getenv("STYLEDOC_EXTRACTOR"); v != "" {
		c.Extractor.Mode = v
	}
	if v := os.Getenv("STYLEDOC_DB"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("STYLEDOC_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("STYLEDOC_WATCH"); v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STYLEDOC_WATCH: %w", err)
		}
		c.Server.Watch = watch
	}
	if v := os.Getenv("STYLEDOC_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
