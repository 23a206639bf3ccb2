package pipeline

import (
	"fmt"

	"mtkeras/internal/plan"
	"mtkeras/internal/transform"
)

// ApplyAll runs the transformations of a run plan in order. The failing
// step is named in the sticky error.
func (p *Pipeline) ApplyAll(steps []plan.Transformation) *Pipeline {
	if p.err != nil {
		return p
	}
	for i, s := range steps {
		p.Apply(s.Name, transform.Args(s.Params))
		if p.err != nil {
			p.err = fmt.Errorf("transformation %d (%s): %w", i, s.Name, p.err)
			return p
		}
	}
	return p
}
