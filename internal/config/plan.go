package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mtkeras/internal/plan"
)

const SupportedSchema = "v1"

// LoadPlan parses a run plan YAML, validates schema_version, and resolves
// every file it references against the plan's directory.
func LoadPlan(path string) (plan.File, error) {
	var cfg plan.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, fmt.Errorf("plan schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedSchema)
	}
	if cfg.Domain == "" {
		return cfg, fmt.Errorf("plan: domain is required")
	}
	if cfg.Source.Driver == "" {
		cfg.Source.Driver = "file"
	}
	if cfg.Relation.Name == "" {
		cfg.Relation.Name = "equality"
	}
	if len(cfg.Sinks) == 0 {
		cfg.Sinks = []string{"stdout"}
	}

	dir := filepath.Dir(path)
	for _, p := range []*string{&cfg.Source.Path, &cfg.Source.Config, &cfg.Relation.Aux, &cfg.SinkConfigs.Kafka} {
		*p = resolve(dir, *p)
	}
	return cfg, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
