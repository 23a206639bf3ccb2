package oracle

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"mtkeras/internal/domain"
	"mtkeras/internal/logging"
)

// SearchEngine submits each search term to a results page and reads the
// result count shown in the element whose id is ResultID.
type SearchEngine struct {
	Endpoint string
	// Param is the query-string key carrying the term, "q" when empty.
	Param    string
	ResultID string
	// Client defaults to http.DefaultClient. No cookie jar is shared between terms.
	Client *http.Client
	Policy FailurePolicy
}

const searchOracle = "search"

func (s *SearchEngine) Invoke(ctx context.Context, kind domain.Kind, ds domain.Dataset) ([]domain.Output, error) {
	if kind != domain.SearchTerm {
		return nil, domain.DomainMismatchError{Op: "search engine oracle", Domain: kind}
	}
	terms := ds.(domain.Terms)
	out := make([]domain.Output, len(terms))
	for i, term := range terms {
		n, err := s.count(ctx, term)
		if err != nil {
			if ctx.Err() != nil {
				return nil, domain.OracleFailureError{Oracle: searchOracle, Index: i, Err: ctx.Err()}
			}
			v, err := s.Policy.handle(searchOracle, i, err)
			if err != nil {
				return nil, err
			}
			out[i] = v
			continue
		}
		logging.L().Debug("search result", "term", term, "count", n)
		out[i] = n
	}
	return out, nil
}

func (s *SearchEngine) count(ctx context.Context, term string) (int, error) {
	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return 0, err
	}
	param := s.Param
	if param == "" {
		param = "q"
	}
	q := u.Query()
	q.Set(param, term)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}
	cl := s.Client
	if cl == nil {
		cl = http.DefaultClient
	}
	resp, err := cl.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("search %q: %s", term, resp.Status)
	}
	doc, err := html.Parse(resp.Body)
	if err != nil {
		return 0, err
	}
	node := findByID(doc, s.ResultID)
	if node == nil {
		return 0, fmt.Errorf("search %q: no element with id %q", term, s.ResultID)
	}
	txt := strings.ReplaceAll(strings.TrimSpace(innerText(node)), ",", "")
	n, err := strconv.Atoi(txt)
	if err != nil {
		return 0, fmt.Errorf("search %q: result %q is not a count", term, txt)
	}
	return n, nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findByID(c, id); f != nil {
			return f
		}
	}
	return nil
}

func innerText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
