package transform

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"mtkeras/internal/domain"
)

// rotate turns every element counter-clockwise by deg degrees about its
// center. Output keeps the input shape; samples falling outside the input are
// zero. Values are interpolated bilinearly and never renormalised.
func rotate(_ *Env, ds domain.Dataset, args Args) (domain.Dataset, error) {
	deg, err := args.RequireFloat(OpRotate, "deg")
	if err != nil {
		return nil, err
	}
	imgs := ds.(domain.Images)
	if math.Mod(deg, 360) == 0 {
		return imgs, nil
	}
	theta := deg * math.Pi / 180
	sin, cos := math.Sincos(theta)
	for i, im := range imgs {
		for k, p := range im.Planes {
			imgs[i].Planes[k] = rotatePlane(p, sin, cos)
		}
	}
	return imgs, nil
}

func rotatePlane(src *mat.Dense, sin, cos float64) *mat.Dense {
	h, w := src.Dims()
	cy, cx := float64(h-1)/2, float64(w-1)/2
	dst := mat.NewDense(h, w, nil)
	for r := range h {
		for c := range w {
			x, y := float64(c)-cx, float64(r)-cy
			sx := cos*x - sin*y + cx
			sy := sin*x + cos*y + cy
			dst.Set(r, c, bilinear(src, sy, sx))
		}
	}
	return dst
}

func bilinear(src *mat.Dense, y, x float64) float64 {
	h, w := src.Dims()
	if y < -1 || x < -1 || y > float64(h) || x > float64(w) {
		return 0
	}
	y0, x0 := math.Floor(y), math.Floor(x)
	fy, fx := y-y0, x-x0
	at := func(r, c int) float64 {
		if r < 0 || c < 0 || r >= h || c >= w {
			return 0
		}
		return src.At(r, c)
	}
	r0, c0 := int(y0), int(x0)
	return (1-fy)*((1-fx)*at(r0, c0)+fx*at(r0, c0+1)) +
		fy*((1-fx)*at(r0+1, c0)+fx*at(r0+1, c0+1))
}
