package oracle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtkeras/internal/domain"
)

func searchServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("term") {
		case "golang":
			fmt.Fprint(w, `<html><body><div id="stats"> <b>1,234</b> </div></body></html>`)
		case " golang":
			fmt.Fprint(w, `<html><body><div id="stats">1234</div></body></html>`)
		case "broken":
			fmt.Fprint(w, `<html><body><p>redesigned page</p></body></html>`)
		default:
			http.Error(w, "nope", http.StatusServiceUnavailable)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchEngine(t *testing.T) {
	srv := searchServer(t)
	s := &SearchEngine{Endpoint: srv.URL + "/search", Param: "term", ResultID: "stats"}
	out, err := s.Invoke(context.Background(), domain.SearchTerm, domain.Terms{"golang", " golang"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Output{1234, 1234}, out)
}

func TestSearchEngineFailurePolicy(t *testing.T) {
	srv := searchServer(t)
	terms := domain.Terms{"golang", "broken", "down"}

	s := &SearchEngine{Endpoint: srv.URL, Param: "term", ResultID: "stats", Policy: FailurePolicy{Mode: UseDefault, Default: 0}}
	out, err := s.Invoke(context.Background(), domain.SearchTerm, terms)
	require.NoError(t, err)
	assert.Equal(t, []domain.Output{1234, 0, 0}, out)

	s.Policy = FailurePolicy{}
	_, err = s.Invoke(context.Background(), domain.SearchTerm, terms)
	var of domain.OracleFailureError
	require.ErrorAs(t, err, &of)
	assert.Equal(t, 1, of.Index)
}

func TestSearchEngineDomain(t *testing.T) {
	_, err := (&SearchEngine{}).Invoke(context.Background(), domain.Text, domain.Texts{})
	assert.True(t, domain.IsErrorType[domain.DomainMismatchError](err))
}
