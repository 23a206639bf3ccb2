// Package oracle adapts systems under test (classifiers, search engines,
// query executors) to a single contract: run a whole dataset, return one
// output per element in the same order.
package oracle

import (
	"context"
	"time"

	"mtkeras/internal/domain"
	"mtkeras/internal/telemetry"
)

// Oracle runs the system under test over ds. Output i must belong to element i.
type Oracle interface {
	Invoke(ctx context.Context, kind domain.Kind, ds domain.Dataset) ([]domain.Output, error)
}

// Func adapts a plain function to Oracle.
type Func func(ctx context.Context, kind domain.Kind, ds domain.Dataset) ([]domain.Output, error)

func (f Func) Invoke(ctx context.Context, kind domain.Kind, ds domain.Dataset) ([]domain.Output, error) {
	return f(ctx, kind, ds)
}

// Checked rejects results that do not align with the dataset and wraps raw
// errors as [domain.OracleFailureError].
func Checked(name string, o Oracle) Oracle {
	return Func(func(ctx context.Context, kind domain.Kind, ds domain.Dataset) ([]domain.Output, error) {
		out, err := o.Invoke(ctx, kind, ds)
		if err != nil {
			if domain.IsErrorType[domain.OracleFailureError](err) {
				return nil, err
			}
			return nil, domain.OracleFailureError{Oracle: name, Index: -1, Err: err}
		}
		if len(out) != ds.Len() {
			return nil, domain.OracleFailureError{Oracle: name, Index: -1,
				Err: domain.LengthMismatchError{What: "oracle outputs", Want: ds.Len(), Got: len(out)}}
		}
		return out, nil
	})
}

// WithTimeout bounds each invocation of o by d. A d <= 0 returns o unchanged.
func WithTimeout(o Oracle, d time.Duration) Oracle {
	if d <= 0 {
		return o
	}
	return Func(func(ctx context.Context, kind domain.Kind, ds domain.Dataset) ([]domain.Output, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return o.Invoke(ctx, kind, ds)
	})
}

// Instrument records invocation duration and failures under name.
func Instrument(name string, o Oracle) Oracle {
	return Func(func(ctx context.Context, kind domain.Kind, ds domain.Dataset) ([]domain.Output, error) {
		start := time.Now()
		out, err := o.Invoke(ctx, kind, ds)
		telemetry.OracleObserved(name, time.Since(start), err)
		return out, err
	})
}
