package domain

import (
	"fmt"
	"slices"
)

// Dataset is an ordered test set. Each domain has its own concrete type:
// [Images], [Texts], [Terms] or [Query].
type Dataset interface {
	// Len is the number of elements; oracle outputs align with it positionally.
	Len() int
	// Clone returns a deep copy sharing no mutable state with the receiver.
	Clone() Dataset
}

// Token is one item of a text element, an int64 or a string.
type Token = any

// Output is what an oracle returns for one element: a number, string, bool,
// nil or a collection of outputs.
type Output = any

type (
	Images []Image
	Texts  [][]Token
	Terms  []string
	// Query holds exactly one SQL statement.
	Query string
)

func (ds Images) Len() int { return len(ds) }
func (ds Texts) Len() int  { return len(ds) }
func (ds Terms) Len() int  { return len(ds) }
func (Query) Len() int     { return 1 }

func (ds Images) Clone() Dataset {
	out := make(Images, len(ds))
	for i, im := range ds {
		out[i] = im.Clone()
	}
	return out
}

func (ds Texts) Clone() Dataset {
	out := make(Texts, len(ds))
	for i, t := range ds {
		out[i] = slices.Clone(t)
	}
	return out
}

func (ds Terms) Clone() Dataset { return slices.Clone(ds) }
func (q Query) Clone() Dataset  { return q }

// Element returns element i of ds.
func Element(ds Dataset, i int) any {
	switch ds := ds.(type) {
	case Images:
		return ds[i]
	case Texts:
		return ds[i]
	case Terms:
		return ds[i]
	case Query:
		if i != 0 {
			panic(fmt.Sprintf("query dataset index %d out of range", i))
		}
		return string(ds)
	}
	panic(fmt.Sprintf("unknown dataset type %T", ds))
}

// Check verifies that ds has the concrete type and element shape that kind requires.
func Check(kind Kind, ds Dataset) error {
	switch kind {
	case GrayscaleImage, ColorImage:
		imgs, ok := ds.(Images)
		if !ok {
			return fmt.Errorf("%v dataset: got %T, want Images", kind, ds)
		}
		for i, im := range imgs {
			if len(im.Planes) != kind.Planes() {
				return fmt.Errorf("%v dataset: element %d has %d planes, want %d", kind, i, len(im.Planes), kind.Planes())
			}
			h, w := im.Dims()
			for k, p := range im.Planes {
				if ph, pw := p.Dims(); ph != h || pw != w {
					return fmt.Errorf("%v dataset: element %d plane %d is %dx%d, want %dx%d", kind, i, k, ph, pw, h, w)
				}
			}
		}
	case Text:
		if _, ok := ds.(Texts); !ok {
			return fmt.Errorf("text dataset: got %T, want Texts", ds)
		}
	case SearchTerm:
		if _, ok := ds.(Terms); !ok {
			return fmt.Errorf("searchTerm dataset: got %T, want Terms", ds)
		}
	case SQLQuery:
		if _, ok := ds.(Query); !ok {
			return fmt.Errorf("sqlQuery dataset: got %T, want Query", ds)
		}
	default:
		return fmt.Errorf("unknown data domain %v", kind)
	}
	return nil
}
