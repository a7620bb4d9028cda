package loader

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "CURSORCOLUMN"

// Env holds process options taken from the environment.
type Env struct {
	// Config is the settings file path.
	// Env: CURSORCOLUMN_CONFIG
	Config string `envconfig:"CONFIG"`

	// LogLevel is the log verbosity.
	// Env: CURSORCOLUMN_LOG_LEVEL (default: info)
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFile receives log output so the terminal stays clean.
	// Env: CURSORCOLUMN_LOG_FILE (default: cursorcolumn.log)
	LogFile string `envconfig:"LOG_FILE" default:"cursorcolumn.log"`

	// LogFormat is text or json.
	// Env: CURSORCOLUMN_LOG_FORMAT (default: text)
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, fmt.Errorf("process env: %w", err)
	}
	return env, nil
}
