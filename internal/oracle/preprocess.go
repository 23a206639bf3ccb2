package oracle

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"mtkeras/internal/domain"
)

// Tensor is one preprocessed classifier input in row-major order.
type Tensor struct {
	Shape []int
	Data  []float64
}

// Preprocess prepares image datasets for a classifier. Grayscale images are
// flattened to H*W values scaled by 1/255. Color images are converted to
// gray, histogram-equalised, scaled by 1/255 and shaped [H, W, 1]. Shapes are
// taken from each element.
func Preprocess(kind domain.Kind, ds domain.Dataset) ([]Tensor, error) {
	if !kind.IsImage() {
		return nil, domain.DomainMismatchError{Op: "classifier preprocessing", Domain: kind}
	}
	if err := domain.Check(kind, ds); err != nil {
		return nil, err
	}
	imgs := ds.(domain.Images)
	out := make([]Tensor, len(imgs))
	for i, im := range imgs {
		h, w := im.Dims()
		data := make([]float64, 0, h*w)
		if kind == domain.GrayscaleImage {
			for _, row := range im.Rows(0) {
				for _, v := range row {
					data = append(data, v/255)
				}
			}
			out[i] = Tensor{Shape: []int{h * w}, Data: data}
			continue
		}
		for _, v := range equalizeHist(toGray8(im)) {
			data = append(data, float64(v)/255)
		}
		out[i] = Tensor{Shape: []int{h, w, 1}, Data: data}
	}
	return out, nil
}

func toUint8(v float64) float64 {
	return math.Trunc(min(max(v, 0), 255))
}

// toGray8 converts B, G, R planes to 8-bit luma.
func toGray8(im domain.Image) []uint8 {
	h, w := im.Dims()
	b, g, r := im.Planes[0], im.Planes[1], im.Planes[2]
	out := make([]uint8, 0, h*w)
	for y := range h {
		for x := range w {
			l := 0.114*toUint8(b.At(y, x)) + 0.587*toUint8(g.At(y, x)) + 0.299*toUint8(r.At(y, x))
			out = append(out, uint8(math.Round(min(l, 255))))
		}
	}
	return out
}

// equalizeHist spreads the 8-bit histogram of px over the full range.
func equalizeHist(px []uint8) []uint8 {
	hist := make([]float64, 256)
	for _, v := range px {
		hist[v]++
	}
	first := 0
	for first < 255 && hist[first] == 0 {
		first++
	}
	out := make([]uint8, len(px))
	total := float64(len(px))
	if hist[first] == total {
		for i := range out {
			out[i] = uint8(first)
		}
		return out
	}
	cdf := floats.CumSum(make([]float64, 256), hist)
	scale := 255 / (total - hist[first])
	var lut [256]uint8
	for j := first + 1; j < 256; j++ {
		lut[j] = uint8(min(math.Round((cdf[j]-hist[first])*scale), 255))
	}
	for i, v := range px {
		out[i] = lut[v]
	}
	return out
}
