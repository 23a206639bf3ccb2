package relation

import (
	"mtkeras/internal/domain"
	"mtkeras/internal/logging"
	"mtkeras/internal/telemetry"
)

// Report is the outcome of one relation evaluation.
type Report struct {
	Relation string `json:"relation"`
	// Cases is the number of compared positions.
	Cases int `json:"cases"`
	// Violations holds the violating positions in ascending order.
	Violations []int `json:"violating_indices"`
}

// Count is the number of violating positions.
func (r Report) Count() int { return len(r.Violations) }

func (r Report) String() string {
	return logging.ViolationLine(r.Count(), r.Relation)
}

// Evaluate runs rel over two aligned output sequences and logs the count.
func Evaluate(rel Relation, source, followUp []domain.Output) (Report, error) {
	if len(source) != len(followUp) {
		return Report{}, domain.LengthMismatchError{What: rel.Name() + " follow-up outputs", Want: len(source), Got: len(followUp)}
	}
	idx, err := rel.Violations(source, followUp)
	if err != nil {
		return Report{}, err
	}
	if idx == nil {
		idx = []int{}
	}
	rep := Report{Relation: rel.Name(), Cases: len(source), Violations: idx}
	telemetry.RelationEvaluated(rep.Relation, rep.Count())
	logging.Violations(rep.Relation, rep.Cases, rep.Count())
	return rep, nil
}
