package engine

import (
	"context"
	"errors"
	"io"

	"mtkeras/internal/domain"
	"mtkeras/internal/oracle"
	"mtkeras/internal/pipeline"
	"mtkeras/internal/plan"
	"mtkeras/internal/relation"
	"mtkeras/sink"
)

type Engine struct {
	plan     plan.File
	kind     domain.Kind
	dataset  domain.Dataset
	oracle   oracle.Oracle
	relation relation.Relation
	sinks    []sink.Adapter
	closers  []io.Closer
}

func (e *Engine) Domain() domain.Kind { return e.kind }

func (e *Engine) session(withOracle bool) (*pipeline.Pipeline, error) {
	var opts []pipeline.Option
	if e.plan.Seed != nil {
		opts = append(opts, pipeline.WithSeed(*e.plan.Seed))
	}
	if withOracle && e.oracle != nil {
		opts = append(opts, pipeline.WithOracle(e.oracle))
	}
	p, err := pipeline.New(e.dataset, e.kind, opts...)
	if err != nil {
		return nil, err
	}
	if err := p.ApplyAll(e.plan.Transformations).Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// Run transforms the source set, evaluates the relation over the oracle's
// outputs and publishes the report to every sink. Violations are part of
// the report, not errors.
func (e *Engine) Run(ctx context.Context) (relation.Report, error) {
	p, err := e.session(true)
	if err != nil {
		return relation.Report{}, err
	}
	rep, err := p.Evaluate(ctx, e.relation)
	if err != nil {
		return relation.Report{}, err
	}
	pubs := make([]pipeline.Publisher, len(e.sinks))
	for i, s := range e.sinks {
		pubs[i] = s
	}
	return rep, p.Publish(pubs...)
}

// FollowUp applies the plan's transformations without consulting the oracle.
func (e *Engine) FollowUp() (domain.Dataset, error) {
	p, err := e.session(false)
	if err != nil {
		return nil, err
	}
	return p.Current(), nil
}

func (e *Engine) Close() error {
	var errs []error
	for _, s := range e.sinks {
		errs = append(errs, s.Close())
	}
	for _, c := range e.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
