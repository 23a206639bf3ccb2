package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"mtkeras/internal/domain"
)

func additive(_ *Env, ds domain.Dataset, args Args) (domain.Dataset, error) {
	k, err := args.RequireFloat(OpAdditive, "k")
	if err != nil {
		return nil, err
	}
	imgs := ds.(domain.Images)
	for _, im := range imgs {
		for _, p := range im.Planes {
			p.Apply(func(_, _ int, v float64) float64 { return v + k }, p)
		}
	}
	return imgs, nil
}

func multiplicative(_ *Env, ds domain.Dataset, args Args) (domain.Dataset, error) {
	m, err := args.RequireFloat(OpMultiplicative, "m")
	if err != nil {
		return nil, err
	}
	imgs := ds.(domain.Images)
	if m == 1 {
		return imgs, nil
	}
	for _, im := range imgs {
		for _, p := range im.Planes {
			p.Scale(m, p)
		}
	}
	return imgs, nil
}

// brightness applies gain*(p/scale)^gamma*scale per pixel, where scale is 255
// for images in the 0..255 range and 1 for images already in 0..1.
func brightness(_ *Env, ds domain.Dataset, args Args) (domain.Dataset, error) {
	gamma, err := args.Float(OpBrightness, "gamma", 1)
	if err != nil {
		return nil, err
	}
	gain, err := args.Float(OpBrightness, "gain", 1)
	if err != nil {
		return nil, err
	}
	if gamma < 0 {
		return nil, domain.InvalidParameterError{Op: OpBrightness, Param: "gamma", Reason: "must be >= 0"}
	}
	imgs := ds.(domain.Images)
	if gamma == 1 && gain == 1 {
		return imgs, nil
	}
	for i, im := range imgs {
		for _, p := range im.Planes {
			if mat.Min(p) < 0 {
				return nil, domain.InvalidParameterError{Op: OpBrightness, Param: "dataset", Reason: fmt.Sprintf("negative pixel values in element %d", i)}
			}
		}
	}
	for _, im := range imgs {
		scale := 1.0
		if im.Max() > 1 {
			scale = 255
		}
		for _, p := range im.Planes {
			p.Apply(func(_, _ int, v float64) float64 {
				return gain * math.Pow(v/scale, gamma) * scale
			}, p)
		}
	}
	return imgs, nil
}

type noisePoint struct {
	r, c, ch int
	v        float64
}

// imageNoise draws one mask of n points per call and sets it into every
// element. Elements whose shape differs from the first get their own mask.
func imageNoise(env *Env, ds domain.Dataset, args Args) (domain.Dataset, error) {
	n, err := args.Count(OpNoise, "n", 0)
	if err != nil {
		return nil, err
	}
	imgs := ds.(domain.Images)
	if n == 0 || len(imgs) == 0 {
		return imgs, nil
	}
	h0, w0 := imgs[0].Dims()
	shared := drawMask(env, n, h0, w0, len(imgs[0].Planes))
	for _, im := range imgs {
		mask := shared
		if h, w := im.Dims(); h != h0 || w != w0 {
			mask = drawMask(env, n, h, w, len(im.Planes))
		}
		for _, pt := range mask {
			im.Planes[pt.ch].Set(pt.r, pt.c, pt.v)
		}
	}
	return imgs, nil
}

func drawMask(env *Env, n, h, w, planes int) []noisePoint {
	mask := make([]noisePoint, n)
	for i := range mask {
		pt := noisePoint{r: env.Rand.IntN(h), c: env.Rand.IntN(w)}
		if planes > 1 {
			pt.ch = env.Rand.IntN(planes)
		}
		pt.v = float64(env.Rand.IntN(256))
		mask[i] = pt
	}
	return mask
}

func flipH(_ *Env, ds domain.Dataset, _ Args) (domain.Dataset, error) {
	imgs := ds.(domain.Images)
	for _, im := range imgs {
		for _, p := range im.Planes {
			mirror(p, true)
		}
	}
	return imgs, nil
}

func flipV(_ *Env, ds domain.Dataset, _ Args) (domain.Dataset, error) {
	imgs := ds.(domain.Images)
	for _, im := range imgs {
		for _, p := range im.Planes {
			mirror(p, false)
		}
	}
	return imgs, nil
}

// mirror reverses the columns (horizontal) or rows of p in place.
func mirror(p *mat.Dense, horizontal bool) {
	h, w := p.Dims()
	if horizontal {
		for r := range h {
			for c := 0; c < w/2; c++ {
				a, b := p.At(r, c), p.At(r, w-1-c)
				p.Set(r, c, b)
				p.Set(r, w-1-c, a)
			}
		}
		return
	}
	tmp := make([]float64, w)
	for r := 0; r < h/2; r++ {
		mat.Row(tmp, r, p)
		p.SetRow(r, mat.Row(nil, h-1-r, p))
		p.SetRow(h-1-r, tmp)
	}
}
