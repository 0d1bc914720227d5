package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvDevelopment turns on debug logging.
	EnvDevelopment = "development"

	envPrefix = "visualizer"
)

// Settings holds ambient process settings read from the environment
// (VISUALIZER_* variables, optionally from a .env file).
type Settings struct {
	Env string `envconfig:"ENV" default:"production"`

	// Logging settings. Stdout is the display, so logs go to LogFile when
	// set and to stderr otherwise.
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
	LogFile  string `envconfig:"LOG_FILE"`
}

// LoadSettings loads settings from a .env file and environment variables.
func LoadSettings() (*Settings, error) {
	// Try to load .env file (optional)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var settings Settings
	if err := envconfig.Process(envPrefix, &settings); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &settings, nil
}
