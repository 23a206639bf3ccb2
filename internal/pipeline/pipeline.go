// Package pipeline runs one metamorphic test session: a fixed source
// dataset, a chain of transformations producing the follow-up set, and one
// relation evaluated over the oracle's outputs for both.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"mtkeras/internal/domain"
	"mtkeras/internal/logging"
	"mtkeras/internal/oracle"
	"mtkeras/internal/relation"
	"mtkeras/internal/telemetry"
	"mtkeras/internal/transform"
)

type State int

const (
	Created State = iota
	Transformed
	Evaluated
	Done
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Transformed:
		return "transformed"
	case Evaluated:
		return "evaluated"
	case Done:
		return "done"
	}
	return "unknown"
}

// ErrNoOracle is returned when a relation is evaluated on a pipeline built
// without WithOracle.
var ErrNoOracle = errors.New("pipeline has no oracle")

type Option func(*Pipeline)

func WithOracle(o oracle.Oracle) Option { return func(p *Pipeline) { p.oracle = o } }

// WithSeed makes randomized transformations replayable.
func WithSeed(seed uint64) Option {
	return func(p *Pipeline) { p.env.Rand = transform.NewEnv(seed).Rand }
}

func WithRand(r *rand.Rand) Option { return func(p *Pipeline) { p.env.Rand = r } }

func WithRegistry(r *transform.Registry) Option { return func(p *Pipeline) { p.reg = r } }

// WithNoiseToken replaces the sentinel that noise prepends to text elements.
func WithNoiseToken(tok domain.Token) Option { return func(p *Pipeline) { p.env.NoiseToken = tok } }

// Pipeline is a single-use session. Transformation methods chain; the first
// error sticks and turns every later call into a no-op, see Err.
type Pipeline struct {
	kind    domain.Kind
	source  domain.Dataset
	current domain.Dataset
	state   State
	err     error

	oracle oracle.Oracle
	reg    *transform.Registry
	env    *transform.Env

	report relation.Report
	log    *slog.Logger
}

// New starts a session over a private copy of ds. Later changes to ds do not
// reach the pipeline.
func New(ds domain.Dataset, kind domain.Kind, opts ...Option) (*Pipeline, error) {
	if err := domain.Check(kind, ds); err != nil {
		return nil, err
	}
	p := &Pipeline{
		kind:    kind,
		source:  ds.Clone(),
		current: ds.Clone(),
		reg:     transform.Default(),
		env:     transform.NewEnv(rand.Uint64()),
		log:     logging.Session(kind),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Apply runs the named transformation. Operations registered as
// from-source start over from the source snapshot. A failed operation leaves
// the follow-up set as it was.
func (p *Pipeline) Apply(name string, args transform.Args) *Pipeline {
	if p.err != nil {
		return p
	}
	if p.state >= Evaluated {
		p.err = domain.ErrSessionClosed
		return p
	}
	// Operations work in place; the follow-up set only changes on success.
	in := p.current.Clone()
	if p.reg.FromSource(name) {
		in = p.source.Clone()
	}
	out, err := p.reg.Apply(p.env, name, p.kind, in, args)
	if err != nil {
		p.log.Debug("transformation failed", "op", name, "err", err)
		p.err = err
		return p
	}
	p.current = out
	p.state = Transformed
	telemetry.TransformationApplied(name, p.kind.String())
	p.log.Debug("transformation applied", "op", name, "elements", out.Len())
	return p
}

func (p *Pipeline) Permutative() *Pipeline { return p.Apply(transform.OpPermutative, nil) }

func (p *Pipeline) Additive(k float64) *Pipeline {
	return p.Apply(transform.OpAdditive, transform.Args{"k": k})
}

func (p *Pipeline) Brightness(gamma, gain float64) *Pipeline {
	return p.Apply(transform.OpBrightness, transform.Args{"gamma": gamma, "gain": gain})
}

func (p *Pipeline) Multiplicative(m float64) *Pipeline {
	return p.Apply(transform.OpMultiplicative, transform.Args{"m": m})
}

func (p *Pipeline) Invertive() *Pipeline { return p.Apply(transform.OpInvertive, nil) }

func (p *Pipeline) Noise(n int) *Pipeline {
	return p.Apply(transform.OpNoise, transform.Args{"n": n})
}

func (p *Pipeline) FlipH() *Pipeline { return p.Apply(transform.OpFlipH, nil) }
func (p *Pipeline) FlipV() *Pipeline { return p.Apply(transform.OpFlipV, nil) }

func (p *Pipeline) Rotate(deg float64) *Pipeline {
	return p.Apply(transform.OpRotate, transform.Args{"deg": deg})
}

// NoREC replaces the follow-up query with the NoREC rewrite of the source query.
func (p *Pipeline) NoREC() *Pipeline { return p.Apply(transform.OpNoREC, nil) }

// Equality runs the oracle on both datasets and flags every position whose
// outputs differ.
func (p *Pipeline) Equality(ctx context.Context) (relation.Report, error) {
	return p.Evaluate(ctx, relation.Equality())
}

// Evaluate runs the oracle on the source and follow-up sets and checks rel
// over the paired outputs. A pipeline evaluates at most once.
func (p *Pipeline) Evaluate(ctx context.Context, rel relation.Relation) (relation.Report, error) {
	if p.err != nil {
		return relation.Report{}, p.err
	}
	if p.state >= Evaluated {
		return relation.Report{}, domain.ErrSessionClosed
	}
	if p.oracle == nil {
		return relation.Report{}, ErrNoOracle
	}
	o := oracle.Checked("oracle", p.oracle)
	src, err := o.Invoke(ctx, p.kind, p.source.Clone())
	if err != nil {
		p.err = err
		return relation.Report{}, err
	}
	fu, err := o.Invoke(ctx, p.kind, p.current)
	if err != nil {
		p.err = err
		return relation.Report{}, err
	}
	rep, err := relation.Evaluate(rel, src, fu)
	if err != nil {
		p.err = err
		return relation.Report{}, err
	}
	p.report = rep
	p.state = Evaluated
	return rep, nil
}

// Publisher receives the report of an evaluated pipeline.
type Publisher interface {
	Push(relation.Report) error
}

// Publish hands the report to every publisher in order and closes the session.
func (p *Pipeline) Publish(pubs ...Publisher) error {
	switch {
	case p.state == Done:
		return domain.ErrSessionClosed
	case p.state != Evaluated:
		return errors.New("pipeline has not been evaluated")
	}
	for _, pub := range pubs {
		if err := pub.Push(p.report); err != nil {
			return err
		}
	}
	p.state = Done
	return nil
}

func (p *Pipeline) Domain() domain.Kind { return p.kind }
func (p *Pipeline) State() State        { return p.state }
func (p *Pipeline) Err() error          { return p.err }

// Source returns a copy of the source snapshot.
func (p *Pipeline) Source() domain.Dataset { return p.source.Clone() }

// Current returns a copy of the follow-up set.
func (p *Pipeline) Current() domain.Dataset { return p.current.Clone() }

// Report returns the evaluation report; ok is false before evaluation.
func (p *Pipeline) Report() (rep relation.Report, ok bool) {
	return p.report, p.state >= Evaluated
}

// ViolatingIndices returns the violating positions of the last evaluation.
func (p *Pipeline) ViolatingIndices() []int {
	return append([]int(nil), p.report.Violations...)
}

// ViolatingCases returns the source elements at the violating positions.
func (p *Pipeline) ViolatingCases() []any {
	src := p.source.Clone()
	out := make([]any, 0, len(p.report.Violations))
	for _, i := range p.report.Violations {
		out = append(out, domain.Element(src, i))
	}
	return out
}
