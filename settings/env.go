package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds process settings read from the environment.
type Env struct {
	ConfigDir     string        `env:"CLIPTR_CONFIG_DIR"`
	LogLevel      string        `env:"CLIPTR_LOG_LEVEL" envDefault:"INFO"`
	DetectTimeout time.Duration `env:"CLIPTR_DETECT_TIMEOUT" envDefault:"2s"`
	Detector      string        `env:"CLIPTR_DETECTOR" envDefault:"lingua"`
	PollInterval  time.Duration `env:"CLIPTR_POLL_INTERVAL" envDefault:"500ms"`
	APIKey        string        `env:"OPENROUTER_API_KEY"`
}

// LoadEnv reads the given .env files (default ".env" in the working
// directory) into the environment without overriding variables that are
// already set, then parses Env. Missing .env files are not an error.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	e, err := env.ParseAs[Env]()
	if err != nil {
		return Env{}, fmt.Errorf("parsing environment: %w", err)
	}
	return e, nil
}

// APIKey returns the key to use: flag, then environment, then the
// credential store. It also reports where the key came from.
func APIKey(flagKey string, e Env) (key, source string) {
	switch {
	case flagKey != "":
		return flagKey, "flag"
	case e.APIKey != "":
		return e.APIKey, "env"
	}
	if k := GetAPIKey(ProviderOpenRouter); k != "" {
		return k, "store"
	}
	return "", ""
}
