package transform

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"

	"mtkeras/internal/domain"
)

// Operation names.
const (
	OpPermutative    = "permutative"
	OpAdditive       = "additive"
	OpBrightness     = "brightness"
	OpMultiplicative = "multiplicative"
	OpInvertive      = "invertive"
	OpNoise          = "noise"
	OpFlipH          = "fliph"
	OpFlipV          = "flipv"
	OpRotate         = "rotate"
	OpNoREC          = "NoREC"
)

// DefaultNoiseToken is the sentinel prepended to text elements by noise.
const DefaultNoiseToken int64 = 4

// Env carries what randomized operations draw from. A pipeline owns one Env;
// seeding it makes a chain replayable.
type Env struct {
	Rand       *rand.Rand
	NoiseToken domain.Token
}

// NewEnv returns an Env with a PCG source seeded from seed.
func NewEnv(seed uint64) *Env {
	return &Env{Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), NoiseToken: DefaultNoiseToken}
}

// Func applies one operation to ds for a single domain. It may modify ds in
// place and must return the resulting dataset with the same element count.
type Func func(env *Env, ds domain.Dataset, args Args) (domain.Dataset, error)

// Registry maps (operation, domain) pairs to implementations.
type Registry struct {
	ops        map[string]map[domain.Kind]Func
	fromSource map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{ops: map[string]map[domain.Kind]Func{}, fromSource: map[string]bool{}}
}

// Register binds fn to name for each of kinds, replacing earlier bindings.
func (r *Registry) Register(name string, fn Func, kinds ...domain.Kind) {
	m := r.ops[name]
	if m == nil {
		m = map[domain.Kind]Func{}
		r.ops[name] = m
	}
	for _, k := range kinds {
		m[k] = fn
	}
}

// MarkFromSource declares that name always starts from the pipeline's source
// snapshot instead of the current follow-up set.
func (r *Registry) MarkFromSource(name string) { r.fromSource[name] = true }

// FromSource reports whether name was marked with MarkFromSource.
func (r *Registry) FromSource(name string) bool { return r.fromSource[name] }

// Lookup finds the implementation of name for kind.
func (r *Registry) Lookup(name string, kind domain.Kind) (Func, error) {
	m, ok := r.ops[name]
	if !ok {
		return nil, fmt.Errorf("unknown transformation %q", name)
	}
	fn, ok := m[kind]
	if !ok {
		return nil, domain.DomainMismatchError{Op: name, Domain: kind}
	}
	return fn, nil
}

// Apply looks up name for kind and runs it.
func (r *Registry) Apply(env *Env, name string, kind domain.Kind, ds domain.Dataset, args Args) (domain.Dataset, error) {
	fn, err := r.Lookup(name, kind)
	if err != nil {
		return nil, err
	}
	n := ds.Len()
	out, err := fn(env, ds, args)
	if err != nil {
		return nil, err
	}
	if out.Len() != n {
		return nil, domain.LengthMismatchError{What: name + " result", Want: n, Got: out.Len()}
	}
	return out, nil
}

// Names lists the registered operations, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for n := range r.ops {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Domains lists the domains name is defined for.
func (r *Registry) Domains(name string) []domain.Kind {
	var out []domain.Kind
	for k := range r.ops[name] {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Default returns a registry holding every built-in operation.
func Default() *Registry {
	r := NewRegistry()
	r.Register(OpPermutative, permutative, domain.Text)
	r.Register(OpAdditive, additive, domain.GrayscaleImage)
	r.Register(OpBrightness, brightness, domain.GrayscaleImage, domain.ColorImage)
	r.Register(OpMultiplicative, multiplicative, domain.GrayscaleImage)
	r.Register(OpInvertive, invertive, domain.Text)
	r.Register(OpNoise, imageNoise, domain.GrayscaleImage, domain.ColorImage)
	r.Register(OpNoise, textNoise, domain.Text)
	r.Register(OpNoise, termNoise, domain.SearchTerm)
	r.Register(OpFlipH, flipH, domain.GrayscaleImage, domain.ColorImage)
	r.Register(OpFlipV, flipV, domain.GrayscaleImage, domain.ColorImage)
	r.Register(OpRotate, rotate, domain.GrayscaleImage, domain.ColorImage)
	r.Register(OpNoREC, noREC, domain.SQLQuery)
	r.MarkFromSource(OpNoREC)
	return r
}

// Args are named operation parameters, as written in a run plan.
type Args map[string]any

// Float returns the named number, def when absent.
func (a Args) Float(op, name string, def float64) (float64, error) {
	v, ok := a[name]
	if !ok {
		return def, nil
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return 0, domain.InvalidParameterError{Op: op, Param: name, Reason: fmt.Sprintf("got %T, want a number", v)}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, domain.InvalidParameterError{Op: op, Param: name, Reason: "not a finite number"}
	}
	return f, nil
}

// RequireFloat is Float without a default.
func (a Args) RequireFloat(op, name string) (float64, error) {
	if _, ok := a[name]; !ok {
		return 0, domain.InvalidParameterError{Op: op, Param: name, Reason: "missing"}
	}
	return a.Float(op, name, 0)
}

// MaxCount caps integer count parameters such as the noise count.
const MaxCount = math.MaxInt32

// Count returns a non-negative integer parameter no larger than MaxCount,
// def when absent.
func (a Args) Count(op, name string, def int) (int, error) {
	f, err := a.Float(op, name, float64(def))
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, domain.InvalidParameterError{Op: op, Param: name, Reason: "must be >= 0"}
	}
	if f != math.Trunc(f) {
		return 0, domain.InvalidParameterError{Op: op, Param: name, Reason: "must be an integer"}
	}
	if f > MaxCount {
		return 0, domain.InvalidParameterError{Op: op, Param: name, Reason: fmt.Sprintf("must be <= %d", MaxCount)}
	}
	return int(f), nil
}
