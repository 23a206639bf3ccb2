package transform

import (
	"slices"
	"strings"

	"mtkeras/internal/domain"
)

// noREC rewrites "SELECT <cols> FROM <rest>" as
// "SELECT * FROM <rest> WHERE <cols>", splitting on single spaces and keeping
// every token as written. The keyword match on FROM is case-sensitive.
func noREC(_ *Env, ds domain.Dataset, _ Args) (domain.Dataset, error) {
	q := string(ds.(domain.Query))
	return NoREC(q)
}

// NoREC is the query rewrite used by the NoREC transformation.
func NoREC(q string) (domain.Query, error) {
	tok := strings.Split(q, " ")
	i := slices.Index(tok, "FROM")
	if i < 0 {
		return "", domain.MalformedQueryError{Query: q, Reason: "no FROM clause"}
	}
	if i == 0 {
		return "", domain.MalformedQueryError{Query: q, Reason: "query starts with FROM"}
	}
	return domain.Query(tok[0] + " * " + strings.Join(tok[i:], " ") + " WHERE " + strings.Join(tok[1:i], " ")), nil
}
