package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/faanross/simulacra_png/internal/wire"
)

const (
	DefaultPath        = "simulacra.yaml"
	DefaultPasswordEnv = "SIMULACRA_PASSWORD"
)

// Config holds CLI defaults. Command line flags override every field.
type Config struct {
	LogLevel    string `yaml:"logLevel"`
	PasswordEnv string `yaml:"passwordEnv"`
	NoiseWidth  int    `yaml:"noiseWidth"`
	OutputDir   string `yaml:"outputDir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var c Config
	c.fillDefaults()
	return c
}

// Load reads a YAML config file. A missing file at the default path is not
// an error; a missing file that was asked for explicitly is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.fillDefaults()

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if c.NoiseWidth < 0 {
		return Config{}, fmt.Errorf("config %s: noiseWidth must be positive, got %d", path, c.NoiseWidth)
	}

	return c, nil
}

// Logger builds a text logger at the configured level.
func (c Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func (c *Config) fillDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PasswordEnv == "" {
		c.PasswordEnv = DefaultPasswordEnv
	}
	if c.NoiseWidth == 0 {
		c.NoiseWidth = wire.DEFAULT_WIDTH
	}
}
