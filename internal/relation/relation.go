// Package relation holds the metamorphic output patterns (MROPs): rules that
// compare source outputs with follow-up outputs position by position and
// report the positions where the rule does not hold.
package relation

import (
	"fmt"

	"mtkeras/internal/domain"
)

// Relation names.
const (
	NameEquality    = "equality"
	NameEquivalence = "equivalence"
	NameSubset      = "subset"
	NameDisjoint    = "disjoint"
	NameComplete    = "complete"
	NameDifference  = "difference"
)

// Relation decides, for each aligned pair of outputs, whether it violates the rule.
// Violations rejects sequences of unequal length with a [domain.LengthMismatchError].
type Relation interface {
	Name() string
	Violations(source, followUp []domain.Output) ([]int, error)
}

func alignedLengths(name string, source, followUp []domain.Output) error {
	if len(source) != len(followUp) {
		return domain.LengthMismatchError{What: name + " follow-up outputs", Want: len(source), Got: len(followUp)}
	}
	return nil
}

type pairwise struct {
	name  string
	check func(i int, src, fu domain.Output) (bool, error)
}

func (p pairwise) Name() string { return p.name }

func (p pairwise) Violations(source, followUp []domain.Output) ([]int, error) {
	if err := alignedLengths(p.name, source, followUp); err != nil {
		return nil, err
	}
	var out []int
	for i := range source {
		bad, err := p.check(i, source[i], followUp[i])
		if err != nil {
			return nil, err
		}
		if bad {
			out = append(out, i)
		}
	}
	return out, nil
}

// Equality requires identical outputs, including order inside composite outputs.
func Equality() Relation {
	return pairwise{NameEquality, func(_ int, src, fu domain.Output) (bool, error) {
		return !equal(src, fu), nil
	}}
}

// Equivalence requires the same items in any order.
func Equivalence() Relation {
	return pairwise{NameEquivalence, func(i int, src, fu domain.Output) (bool, error) {
		a, err := setOf(NameEquivalence, i, src)
		if err != nil {
			return false, err
		}
		b, err := setOf(NameEquivalence, i, fu)
		if err != nil {
			return false, err
		}
		return !a.equals(b), nil
	}}
}

// Subset flags a collection pair when the source is a strict subset of the
// follow-up, and a numeric pair when source < follow-up.
func Subset() Relation {
	return pairwise{NameSubset, func(i int, src, fu domain.Output) (bool, error) {
		if s, ok := isNumber(src); ok {
			f, ok := isNumber(fu)
			if !ok {
				return false, domain.OutputShapeError{Relation: NameSubset, Index: i, Reason: fmt.Sprintf("source is a number, follow-up is %T", fu)}
			}
			return s < f, nil
		}
		a, err := setOf(NameSubset, i, src)
		if err != nil {
			return false, err
		}
		b, err := setOf(NameSubset, i, fu)
		if err != nil {
			return false, err
		}
		return len(a) < len(b) && a.subsetOf(b), nil
	}}
}

// Disjoint requires source and follow-up to share no item.
func Disjoint() Relation {
	return pairwise{NameDisjoint, func(i int, src, fu domain.Output) (bool, error) {
		a, err := setOf(NameDisjoint, i, src)
		if err != nil {
			return false, err
		}
		b, err := setOf(NameDisjoint, i, fu)
		if err != nil {
			return false, err
		}
		return a.intersects(b), nil
	}}
}

type auxiliary struct {
	name  string
	aux   []domain.Output
	check func(i int, src, fu, aux domain.Output) (bool, error)
}

func (a auxiliary) Name() string { return a.name }

func (a auxiliary) Violations(source, followUp []domain.Output) ([]int, error) {
	if err := alignedLengths(a.name, source, followUp); err != nil {
		return nil, err
	}
	if len(a.aux) != len(source) {
		return nil, domain.LengthMismatchError{What: a.name + " auxiliary outputs", Want: len(source), Got: len(a.aux)}
	}
	var out []int
	for i := range source {
		bad, err := a.check(i, source[i], followUp[i], a.aux[i])
		if err != nil {
			return nil, err
		}
		if bad {
			out = append(out, i)
		}
	}
	return out, nil
}

// Complete requires source == followUp + other: ordered concatenation for
// collections and strings, a sum for numbers.
func Complete(other []domain.Output) Relation {
	return auxiliary{NameComplete, other, func(i int, src, fu, o domain.Output) (bool, error) {
		joined, err := concat(i, fu, o)
		if err != nil {
			return false, err
		}
		return !equal(src, joined), nil
	}}
}

func concat(i int, a, b domain.Output) (domain.Output, error) {
	na, nb := normalize(a), normalize(b)
	switch x := na.(type) {
	case []any:
		if y, ok := nb.([]any); ok {
			return append(append([]any{}, x...), y...), nil
		}
	case string:
		if y, ok := nb.(string); ok {
			return x + y, nil
		}
	case float64:
		if y, ok := nb.(float64); ok {
			return x + y, nil
		}
	}
	return nil, domain.OutputShapeError{Relation: NameComplete, Index: i, Reason: fmt.Sprintf("cannot join %T and %T", a, b)}
}

// Difference requires set(followUp) - set(source) to equal expected[i] as a set.
func Difference(expected []domain.Output) Relation {
	return auxiliary{NameDifference, expected, func(i int, src, fu, want domain.Output) (bool, error) {
		a, err := setOf(NameDifference, i, src)
		if err != nil {
			return false, err
		}
		b, err := setOf(NameDifference, i, fu)
		if err != nil {
			return false, err
		}
		w, err := setOf(NameDifference, i, want)
		if err != nil {
			return false, err
		}
		return !b.minus(a).equals(w), nil
	}}
}

// Names lists the built-in relations.
func Names() []string {
	return []string{NameEquality, NameEquivalence, NameSubset, NameDisjoint, NameComplete, NameDifference}
}

// New builds the named relation. aux is the second follow-up output sequence
// for complete and the expected differences for difference; other relations
// reject it.
func New(name string, aux []domain.Output) (Relation, error) {
	switch name {
	case NameComplete:
		if aux == nil {
			return nil, fmt.Errorf("relation %s needs a second follow-up output sequence", name)
		}
		return Complete(aux), nil
	case NameDifference:
		if aux == nil {
			return nil, fmt.Errorf("relation %s needs the expected differences", name)
		}
		return Difference(aux), nil
	}
	if aux != nil {
		return nil, fmt.Errorf("relation %s takes no auxiliary outputs", name)
	}
	switch name {
	case NameEquality:
		return Equality(), nil
	case NameEquivalence:
		return Equivalence(), nil
	case NameSubset:
		return Subset(), nil
	case NameDisjoint:
		return Disjoint(), nil
	}
	return nil, fmt.Errorf("unknown relation %q", name)
}
