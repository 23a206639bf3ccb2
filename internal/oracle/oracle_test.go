package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtkeras/internal/domain"
)

func TestChecked(t *testing.T) {
	short := Func(func(context.Context, domain.Kind, domain.Dataset) ([]domain.Output, error) {
		return []domain.Output{1}, nil
	})
	_, err := Checked("short", short).Invoke(context.Background(), domain.SearchTerm, domain.Terms{"a", "b"})
	var of domain.OracleFailureError
	require.ErrorAs(t, err, &of)
	assert.True(t, domain.IsErrorType[domain.LengthMismatchError](err))

	failing := Func(func(context.Context, domain.Kind, domain.Dataset) ([]domain.Output, error) {
		return nil, errors.New("model not loaded")
	})
	_, err = Checked("failing", failing).Invoke(context.Background(), domain.SearchTerm, domain.Terms{"a"})
	require.ErrorAs(t, err, &of)
	assert.Equal(t, "failing", of.Oracle)
}

func TestWithTimeout(t *testing.T) {
	blocking := Func(func(ctx context.Context, _ domain.Kind, _ domain.Dataset) ([]domain.Output, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	_, err := WithTimeout(blocking, 10*time.Millisecond).Invoke(context.Background(), domain.Text, domain.Texts{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.NotNil(t, WithTimeout(blocking, 0))
}

func TestInstrumentPassesThrough(t *testing.T) {
	o := Instrument("instrument-test", Func(func(context.Context, domain.Kind, domain.Dataset) ([]domain.Output, error) {
		return []domain.Output{"x"}, nil
	}))
	out, err := o.Invoke(context.Background(), domain.SearchTerm, domain.Terms{"a"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Output{"x"}, out)
}

func TestParseFailureMode(t *testing.T) {
	m, err := ParseFailureMode("default")
	require.NoError(t, err)
	assert.Equal(t, UseDefault, m)
	m, err = ParseFailureMode("")
	require.NoError(t, err)
	assert.Equal(t, FailFast, m)
	_, err = ParseFailureMode("retry")
	assert.Error(t, err)
}
