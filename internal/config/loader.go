package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "CONCERT_"
	envConfig  = "CONCERT_CONFIG"
	dotEnvFile = ".env"
)

// Load builds a Config by layering, lowest precedence first:
//  1. Default()
//  2. the YAML file named by CONCERT_CONFIG, when set
//  3. CONCERT_* environment variables, e.g. CONCERT_MONGO_URI -> mongo_uri
func Load(_ context.Context) (Config, error) {
	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv(envConfig)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("%w: environment: %v", ErrLoadConfig, err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("%w: decode: %v", ErrLoadConfig, err)
	}
	cfg.normalise()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv exports the variables of the given .env files (default ".env") into the
// process environment without overriding variables that are already set.
// Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{dotEnvFile}
	}
	existing := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%w: stat %s: %v", ErrLoadConfig, path, err)
		}
		existing = append(existing, path)
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("%w: dotenv: %v", ErrLoadConfig, err)
	}
	return nil
}
