package transform

import (
	"slices"

	"mtkeras/internal/domain"
)

func permutative(env *Env, ds domain.Dataset, _ Args) (domain.Dataset, error) {
	texts := ds.(domain.Texts)
	for _, t := range texts {
		env.Rand.Shuffle(len(t), func(i, j int) { t[i], t[j] = t[j], t[i] })
	}
	return texts, nil
}

func invertive(_ *Env, ds domain.Dataset, _ Args) (domain.Dataset, error) {
	texts := ds.(domain.Texts)
	for _, t := range texts {
		slices.Reverse(t)
	}
	return texts, nil
}

// textNoise prepends the sentinel token n times, each time to a randomly
// chosen element.
func textNoise(env *Env, ds domain.Dataset, args Args) (domain.Dataset, error) {
	n, err := args.Count(OpNoise, "n", 0)
	if err != nil {
		return nil, err
	}
	texts := ds.(domain.Texts)
	if n == 0 {
		return texts, nil
	}
	if len(texts) == 0 {
		return nil, domain.InvalidParameterError{Op: OpNoise, Param: "n", Reason: "no text elements to perturb"}
	}
	for range n {
		i := env.Rand.IntN(len(texts))
		texts[i] = slices.Insert(texts[i], 0, env.NoiseToken)
	}
	return texts, nil
}

// termNoise prepends a space to every search term when n > 0.
func termNoise(_ *Env, ds domain.Dataset, args Args) (domain.Dataset, error) {
	n, err := args.Count(OpNoise, "n", 0)
	if err != nil {
		return nil, err
	}
	terms := ds.(domain.Terms)
	if n == 0 {
		return terms, nil
	}
	for i, s := range terms {
		terms[i] = " " + s
	}
	return terms, nil
}
