package kafka

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "MTKERAS_KAFKA__"

type Config struct {
	Brokers   []string `koanf:"brokers"`
	Topic     string   `koanf:"topic"`
	Partition int32    `koanf:"partition"`
	// Count is the number of messages forming the dataset, one element each.
	Count     int    `koanf:"count"`
	StartFrom string `koanf:"start_from"` // oldest|newest (default oldest)
	Version   string `koanf:"version"`
	TLSEn     bool   `koanf:"tls_enabled"`
	SASLUser  string `koanf:"sasl_user"`
	SASLPass  string `koanf:"sasl_pass"`
	// IdleTimeout bounds the wait for the next message.
	IdleTimeout time.Duration `koanf:"idle_timeout"`
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// LoadConfig merges YAML (if present) with env-vars
// (prefix `MTKERAS_KAFKA__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	// schema version check (only when YAML is present)
	sv := k.String("schema_version")
	if sv != "" && sv != "v1" {
		return Config{}, fmt.Errorf("kafka schema_version %q not supported (want v1)", sv)
	}

	_ = k.Load(env.Provider(envPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

func applyDefaults(c *Config) {
	if c.StartFrom == "" {
		c.StartFrom = "oldest"
	}
	if c.Version == "" {
		c.Version = "2.1.0"
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 10 * time.Second
	}
}
