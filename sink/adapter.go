// Package sink publishes relation reports. Drivers register themselves by
// name from init, the way database/sql drivers do.
package sink

import (
	"fmt"
	"sort"

	"mtkeras/internal/relation"
)

// Adapter is the common behaviour every sink exposes.
type Adapter interface {
	Configure(any) error         // driver-specific config struct
	Push(relation.Report) error // publish one report
	Close() error               // idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q (have %v)", name, Drivers())
}

// Drivers lists the registered sink names.
func Drivers() []string {
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
