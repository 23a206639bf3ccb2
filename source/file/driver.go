// Package file reads a dataset from a JSON file.
package file

import (
	"context"
	"fmt"
	"os"

	"mtkeras/internal/domain"
	"mtkeras/source"
)

type Config struct {
	Path string
}

type driver struct {
	cfg Config
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("file-source: expected Config, got %T", raw)
	}
	if c.Path == "" {
		return fmt.Errorf("file-source: path is required")
	}
	d.cfg = c
	return nil
}

func (d *driver) Load(_ context.Context, kind domain.Kind) (domain.Dataset, error) {
	raw, err := os.ReadFile(d.cfg.Path)
	if err != nil {
		return nil, err
	}
	ds, err := domain.Decode(kind, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.cfg.Path, err)
	}
	return ds, nil
}

func (d *driver) Close() error { return nil }

func init() { source.Register("file", func() source.Adapter { return &driver{} }) }
