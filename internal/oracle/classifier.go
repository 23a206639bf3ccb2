package oracle

import (
	"context"

	"mtkeras/internal/domain"
)

// ClassPredictor is a trained model that returns one class index per input.
type ClassPredictor interface {
	PredictClasses(ctx context.Context, inputs []Tensor) ([]int, error)
}

// ClassPredictorFunc adapts a function to ClassPredictor.
type ClassPredictorFunc func(ctx context.Context, inputs []Tensor) ([]int, error)

func (f ClassPredictorFunc) PredictClasses(ctx context.Context, inputs []Tensor) ([]int, error) {
	return f(ctx, inputs)
}

// Classifier runs an image classifier after [Preprocess].
type Classifier struct {
	Model ClassPredictor
}

func (c Classifier) Invoke(ctx context.Context, kind domain.Kind, ds domain.Dataset) ([]domain.Output, error) {
	in, err := Preprocess(kind, ds)
	if err != nil {
		return nil, err
	}
	classes, err := c.Model.PredictClasses(ctx, in)
	if err != nil {
		return nil, domain.OracleFailureError{Oracle: "classifier", Index: -1, Err: err}
	}
	out := make([]domain.Output, len(classes))
	for i, c := range classes {
		out[i] = c
	}
	return out, nil
}
