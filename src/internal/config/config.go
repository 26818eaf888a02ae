package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides, e.g. PREBIB__LOG__LEVEL=debug.
const EnvPrefix = "PREBIB__"

type Log struct {
	Level  string `koanf:"level"`  // debug|info|warn|error
	Format string `koanf:"format"` // text|json
}

// Config holds run settings. The exclusion and warning tables are built in
// and not configurable.
type Config struct {
	Log         Log    `koanf:"log"`
	MetricsFile string `koanf:"metrics_file"` // prometheus textfile, empty disables
	Banner      bool   `koanf:"banner"`
}

// Load merges defaults, the YAML file at path (skipped when path is empty)
// and PREBIB__ environment variables, in that order.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	for key, v := range map[string]any{
		"log.level":  "warn",
		"log.format": "text",
		"banner":     true,
	} {
		if err := k.Set(key, v); err != nil {
			return Config{}, err
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	envKey := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", envKey), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q not supported (want debug|info|warn|error)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q not supported (want text|json)", c.Log.Format)
	}
	return nil
}
