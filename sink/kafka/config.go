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

const envPrefix = "MTKERAS_KAFKA_SINK__"

type Config struct {
	Brokers  []string      `koanf:"brokers"`
	Topic    string        `koanf:"topic"`
	Acks     int16         `koanf:"required_acks"` // 0,1,-1
	Version  string        `koanf:"version"`
	TLSEn    bool          `koanf:"tls_enabled"`
	SASLUser string        `koanf:"sasl_user"`
	SASLPass string        `koanf:"sasl_pass"`
	Timeout  time.Duration `koanf:"timeout"` // per report delivery
}

// LoadConfig merges YAML (if present) with env-vars
// (prefix `MTKERAS_KAFKA_SINK__`, delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	sv := k.String("schema_version")
	if sv != "" && sv != "v1" {
		return Config{}, fmt.Errorf("kafka sink schema_version %q not supported (want v1)", sv)
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

func applyDefaults(c *Config) {
	if c.Acks == 0 {
		c.Acks = int16(1)
	}
	if c.Version == "" {
		c.Version = "2.1.0"
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
}
