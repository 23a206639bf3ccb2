// Package domain describes the data a metamorphic test run operates on: the
// closed set of data domains, the dataset shape for each of them, the oracle
// output type and the error taxonomy shared by the engine.
package domain

import (
	"fmt"
	"strings"
)

// Kind is the data domain of a test set. It decides which transformations and
// relations are legal and is fixed for the lifetime of a pipeline.
type Kind int

const (
	GrayscaleImage Kind = iota + 1
	ColorImage
	Text
	SearchTerm
	SQLQuery
)

var kindNames = map[Kind]string{
	GrayscaleImage: "grayscaleImage",
	ColorImage:     "colorImage",
	Text:           "text",
	SearchTerm:     "searchTerm",
	SQLQuery:       "sqlQuery",
}

// Kinds returns every known domain in declaration order.
func Kinds() []Kind {
	return []Kind{GrayscaleImage, ColorImage, Text, SearchTerm, SQLQuery}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsImage reports whether elements of k are images.
func (k Kind) IsImage() bool { return k == GrayscaleImage || k == ColorImage }

// Planes is the number of channels an image of kind k carries, 0 for non-image kinds.
func (k Kind) Planes() int {
	switch k {
	case GrayscaleImage:
		return 1
	case ColorImage:
		return 3
	default:
		return 0
	}
}

// ParseKind accepts the canonical names plus the short aliases used by older run files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grayscaleimage", "grayscale", "gray":
		return GrayscaleImage, nil
	case "colorimage", "color":
		return ColorImage, nil
	case "text":
		return Text, nil
	case "searchterm", "search":
		return SearchTerm, nil
	case "sqlquery", "sql", "query":
		return SQLQuery, nil
	}
	return 0, fmt.Errorf("unknown data domain %q", s)
}
