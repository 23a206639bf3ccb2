// Package source loads source datasets. Drivers register themselves by name
// from init.
package source

import (
	"context"
	"fmt"
	"sort"

	"mtkeras/internal/domain"
)

// Adapter is the common behaviour every dataset source exposes.
type Adapter interface {
	Configure(any) error // driver-specific config struct
	Load(ctx context.Context, kind domain.Kind) (domain.Dataset, error)
	Close() error
}

// Factory builds an Adapter.
type Factory func() Adapter

var registry = map[string]Factory{}

// Register is called from each driver's init.
func Register(name string, f Factory) {
	registry[name] = f
}

// NewAdapter returns a driver by name ("file", "kafka").
func NewAdapter(name string) (Adapter, error) {
	if f, ok := registry[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("source: unsupported driver %q (have %v)", name, Drivers())
}

// Drivers lists the registered source names.
func Drivers() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
