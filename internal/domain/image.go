package domain

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Image is one element of an image dataset. Grayscale images carry a single
// plane, color images three planes in B, G, R order. All planes share H×W.
type Image struct {
	Planes []*mat.Dense
}

// NewGray builds a single-plane image from row-major pixel rows.
func NewGray(rows [][]float64) (Image, error) {
	p, err := plane(rows)
	if err != nil {
		return Image{}, err
	}
	return Image{Planes: []*mat.Dense{p}}, nil
}

// NewColor builds a three-plane image from [row][col][channel] pixels.
func NewColor(px [][][]float64) (Image, error) {
	h := len(px)
	if h == 0 || len(px[0]) == 0 {
		return Image{}, fmt.Errorf("color image: empty pixel array")
	}
	w := len(px[0])
	planes := []*mat.Dense{mat.NewDense(h, w, nil), mat.NewDense(h, w, nil), mat.NewDense(h, w, nil)}
	for r, row := range px {
		if len(row) != w {
			return Image{}, fmt.Errorf("color image: row %d has %d columns, want %d", r, len(row), w)
		}
		for c, ch := range row {
			if len(ch) != 3 {
				return Image{}, fmt.Errorf("color image: pixel (%d,%d) has %d channels, want 3", r, c, len(ch))
			}
			for k := range 3 {
				planes[k].Set(r, c, ch[k])
			}
		}
	}
	return Image{Planes: planes}, nil
}

func plane(rows [][]float64) (*mat.Dense, error) {
	h := len(rows)
	if h == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("image: empty pixel array")
	}
	w := len(rows[0])
	data := make([]float64, 0, h*w)
	for r, row := range rows {
		if len(row) != w {
			return nil, fmt.Errorf("image: row %d has %d columns, want %d", r, len(row), w)
		}
		data = append(data, row...)
	}
	return mat.NewDense(h, w, data), nil
}

// Dims returns the height and width shared by all planes.
func (im Image) Dims() (h, w int) {
	if len(im.Planes) == 0 {
		return 0, 0
	}
	return im.Planes[0].Dims()
}

// Clone returns a deep copy.
func (im Image) Clone() Image {
	out := Image{Planes: make([]*mat.Dense, len(im.Planes))}
	for i, p := range im.Planes {
		out.Planes[i] = mat.DenseCopyOf(p)
	}
	return out
}

// Max is the largest value over all planes.
func (im Image) Max() float64 {
	m := mat.Max(im.Planes[0])
	for _, p := range im.Planes[1:] {
		m = max(m, mat.Max(p))
	}
	return m
}

// Equal reports exact value equality of two images.
func (im Image) Equal(o Image) bool {
	if len(im.Planes) != len(o.Planes) {
		return false
	}
	for i := range im.Planes {
		if !mat.Equal(im.Planes[i], o.Planes[i]) {
			return false
		}
	}
	return true
}

// Rows returns plane k as row-major pixel rows.
func (im Image) Rows(k int) [][]float64 {
	h, w := im.Dims()
	out := make([][]float64, h)
	for r := range h {
		out[r] = make([]float64, w)
		mat.Row(out[r], r, im.Planes[k])
	}
	return out
}

// Pixels returns the image as [row][col][channel] values.
func (im Image) Pixels() [][][]float64 {
	h, w := im.Dims()
	out := make([][][]float64, h)
	for r := range h {
		out[r] = make([][]float64, w)
		for c := range w {
			px := make([]float64, len(im.Planes))
			for k, p := range im.Planes {
				px[k] = p.At(r, c)
			}
			out[r][c] = px
		}
	}
	return out
}
