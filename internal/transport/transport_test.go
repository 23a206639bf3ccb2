package transport

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"mtkeras/internal/domain"
	"mtkeras/internal/oracle"
)

func startBufconn(t *testing.T, o oracle.Oracle, opts ...ServerOption) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(lis, o, opts...)
	go func() { _ = srv.Serve() }()
	t.Cleanup(srv.Stop)

	cli, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })
	return cli
}

var tokenCount = oracle.Func(func(_ context.Context, kind domain.Kind, ds domain.Dataset) ([]domain.Output, error) {
	if kind != domain.Text {
		return nil, domain.DomainMismatchError{Op: "token count", Domain: kind}
	}
	texts := ds.(domain.Texts)
	out := make([]domain.Output, len(texts))
	for i, t := range texts {
		out[i] = len(t)
	}
	return out, nil
})

func TestPredictRoundTrip(t *testing.T) {
	cli := startBufconn(t, tokenCount)
	out, err := cli.Invoke(context.Background(), domain.Text, domain.Texts{{int64(1), "a"}, {}, {"x", "y", int64(3)}})
	require.NoError(t, err)
	assert.Equal(t, []domain.Output{2.0, 0.0, 3.0}, out)
}

func TestPredictImages(t *testing.T) {
	var got domain.Dataset
	cli := startBufconn(t, oracle.Func(func(_ context.Context, _ domain.Kind, ds domain.Dataset) ([]domain.Output, error) {
		got = ds
		return []domain.Output{[]any{"cat", 1}}, nil
	}))
	im, err := domain.NewGray([][]float64{{0, 128}, {255, 3}})
	require.NoError(t, err)
	out, err := cli.Invoke(context.Background(), domain.GrayscaleImage, domain.Images{im})
	require.NoError(t, err)
	assert.Equal(t, []domain.Output{[]any{"cat", 1.0}}, out)
	require.IsType(t, domain.Images{}, got)
	assert.True(t, got.(domain.Images)[0].Equal(im))
}

func TestPredictErrors(t *testing.T) {
	cli := startBufconn(t, tokenCount)
	_, err := cli.Invoke(context.Background(), domain.SearchTerm, domain.Terms{"a"})
	require.True(t, domain.IsErrorType[domain.OracleFailureError](err))
	assert.Equal(t, codes.InvalidArgument, status.Code(errors.Unwrap(err)))

	cli = startBufconn(t, oracle.Func(func(context.Context, domain.Kind, domain.Dataset) ([]domain.Output, error) {
		return nil, errors.New("model crashed")
	}))
	_, err = cli.Invoke(context.Background(), domain.Text, domain.Texts{{"a"}})
	assert.Equal(t, codes.Internal, status.Code(errors.Unwrap(err)))
}

func TestClassifyRoundTrip(t *testing.T) {
	var shapes [][]int
	model := oracle.ClassPredictorFunc(func(_ context.Context, in []oracle.Tensor) ([]int, error) {
		out := make([]int, len(in))
		for i, x := range in {
			shapes = append(shapes, x.Shape)
			if x.Data[0] > 0.5 {
				out[i] = 1
			}
		}
		return out, nil
	})
	cli := startBufconn(t, tokenCount, WithClassPredictor(model))

	classes, err := cli.PredictClasses(context.Background(), []oracle.Tensor{
		{Shape: []int{2, 1, 1}, Data: []float64{0.9, 0}},
		{Shape: []int{2}, Data: []float64{0.1, 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, classes)
	assert.Equal(t, [][]int{{2, 1, 1}, {2}}, shapes)

	// Preprocessing runs on the client; the server only sees tensors.
	im, err := domain.NewColor([][][]float64{{{0, 0, 0}, {255, 255, 255}}})
	require.NoError(t, err)
	shapes = nil
	out, err := oracle.Classifier{Model: cli}.Invoke(context.Background(), domain.ColorImage, domain.Images{im})
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, [][]int{{1, 2, 1}}, shapes)
}

func TestClassifyErrors(t *testing.T) {
	cli := startBufconn(t, tokenCount)
	_, err := cli.PredictClasses(context.Background(), []oracle.Tensor{{Shape: []int{1}, Data: []float64{0}}})
	assert.Equal(t, codes.Unimplemented, status.Code(err))

	cli = startBufconn(t, tokenCount, WithClassPredictor(oracle.ClassPredictorFunc(func(context.Context, []oracle.Tensor) ([]int, error) {
		return []int{0}, nil
	})))
	_, err = cli.PredictClasses(context.Background(), []oracle.Tensor{{Shape: []int{3}, Data: []float64{0}}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = cli.PredictClasses(context.Background(), []oracle.Tensor{
		{Shape: []int{1}, Data: []float64{0}},
		{Shape: []int{1}, Data: []float64{1}},
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}
