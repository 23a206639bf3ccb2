package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Decode parses a JSON test set for kind:
//
//	grayscaleImage  [N][H][W]number
//	colorImage      [N][H][W][3]number
//	text            [N][]token (integer or string)
//	searchTerm      [N]string
//	sqlQuery        string, or a one-element array of strings
func Decode(kind Kind, data []byte) (Dataset, error) {
	if kind == SQLQuery {
		e, err := DecodeElement(kind, data)
		if err != nil {
			var one []string
			if json.Unmarshal(data, &one) != nil || len(one) != 1 {
				return nil, err
			}
			return Query(one[0]), nil
		}
		return Query(e.(string)), nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%v dataset: %w", kind, err)
	}
	elems := make([]any, len(raw))
	for i, r := range raw {
		e, err := DecodeElement(kind, r)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = e
	}
	return Collect(kind, elems)
}

// DecodeElement parses one element. SQL queries may be a JSON string or bare text.
func DecodeElement(kind Kind, data []byte) (any, error) {
	switch kind {
	case GrayscaleImage:
		var rows [][]float64
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("grayscale image: %w", err)
		}
		return NewGray(rows)
	case ColorImage:
		var px [][][]float64
		if err := json.Unmarshal(data, &px); err != nil {
			return nil, fmt.Errorf("color image: %w", err)
		}
		return NewColor(px)
	case Text:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var toks []any
		if err := dec.Decode(&toks); err != nil {
			return nil, fmt.Errorf("text: %w", err)
		}
		for i, t := range toks {
			n, err := normalizeToken(t)
			if err != nil {
				return nil, fmt.Errorf("text: token %d: %w", i, err)
			}
			toks[i] = n
		}
		return toks, nil
	case SearchTerm:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("search term: %w", err)
		}
		return s, nil
	case SQLQuery:
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			return s, nil
		}
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 || trimmed[0] == '[' {
			return nil, fmt.Errorf("sql query: expected a string")
		}
		return string(trimmed), nil
	}
	return nil, fmt.Errorf("unknown data domain %v", kind)
}

func normalizeToken(t any) (Token, error) {
	switch v := t.(type) {
	case string:
		return v, nil
	case json.Number:
		if i, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return i, nil
		}
		return nil, fmt.Errorf("non-integer number %v", v)
	}
	return nil, fmt.Errorf("unsupported token %T", t)
}

// Collect assembles decoded elements into the dataset type of kind.
func Collect(kind Kind, elems []any) (Dataset, error) {
	switch kind {
	case GrayscaleImage, ColorImage:
		out := make(Images, len(elems))
		for i, e := range elems {
			im, ok := e.(Image)
			if !ok {
				return nil, fmt.Errorf("element %d: got %T, want Image", i, e)
			}
			out[i] = im
		}
		return out, Check(kind, out)
	case Text:
		out := make(Texts, len(elems))
		for i, e := range elems {
			toks, ok := e.([]any)
			if !ok {
				return nil, fmt.Errorf("element %d: got %T, want tokens", i, e)
			}
			out[i] = toks
		}
		return out, nil
	case SearchTerm:
		out := make(Terms, len(elems))
		for i, e := range elems {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("element %d: got %T, want string", i, e)
			}
			out[i] = s
		}
		return out, nil
	case SQLQuery:
		if len(elems) != 1 {
			return nil, LengthMismatchError{What: "sql query dataset", Want: 1, Got: len(elems)}
		}
		s, ok := elems[0].(string)
		if !ok {
			return nil, fmt.Errorf("query: got %T, want string", elems[0])
		}
		return Query(s), nil
	}
	return nil, fmt.Errorf("unknown data domain %v", kind)
}

// Encode renders ds in the format Decode reads.
func Encode(ds Dataset) ([]byte, error) {
	return json.Marshal(Generic(ds))
}

// Generic converts ds into plain JSON-shaped values ([]any, float64, string).
func Generic(ds Dataset) any {
	switch ds := ds.(type) {
	case Images:
		out := make([]any, len(ds))
		for i, im := range ds {
			if len(im.Planes) == 1 {
				out[i] = im.Rows(0)
			} else {
				out[i] = im.Pixels()
			}
		}
		return out
	case Texts:
		out := make([]any, len(ds))
		for i, t := range ds {
			out[i] = []any(t)
		}
		return out
	case Terms:
		out := make([]any, len(ds))
		for i, s := range ds {
			out[i] = s
		}
		return out
	case Query:
		return string(ds)
	}
	return nil
}
