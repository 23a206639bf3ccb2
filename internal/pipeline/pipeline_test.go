package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtkeras/internal/domain"
	"mtkeras/internal/oracle"
	"mtkeras/internal/plan"
	"mtkeras/internal/relation"
	"mtkeras/internal/transform"
)

func grayset(t *testing.T) domain.Images {
	t.Helper()
	a, err := domain.NewGray([][]float64{{0, 10, 20}, {30, 40, 50}})
	require.NoError(t, err)
	b, err := domain.NewGray([][]float64{{255, 0, 1}, {2, 3, 4}})
	require.NoError(t, err)
	return domain.Images{a, b}
}

// firstPixel classifies an image by its top-left pixel.
var firstPixel = oracle.Func(func(_ context.Context, _ domain.Kind, ds domain.Dataset) ([]domain.Output, error) {
	imgs := ds.(domain.Images)
	out := make([]domain.Output, len(imgs))
	for i, im := range imgs {
		out[i] = im.Planes[0].At(0, 0) > 100
	}
	return out, nil
})

func TestIdentityLaws(t *testing.T) {
	src := grayset(t)
	p, err := New(src, domain.GrayscaleImage, WithSeed(1))
	require.NoError(t, err)
	p.Noise(0).Rotate(0).Brightness(1, 1).Multiplicative(1).FlipH().FlipH().FlipV().FlipV()
	require.NoError(t, p.Err())
	assert.Equal(t, Transformed, p.State())
	for i, im := range p.Current().(domain.Images) {
		assert.True(t, im.Equal(src[i]), "element %d", i)
	}
}

func TestSourceIsSnapshot(t *testing.T) {
	src := grayset(t)
	p, err := New(src, domain.GrayscaleImage)
	require.NoError(t, err)

	src[0].Planes[0].Set(0, 0, 99)
	p.Additive(5)
	require.NoError(t, p.Err())

	assert.Equal(t, 0.0, p.Source().(domain.Images)[0].Planes[0].At(0, 0))
	assert.Equal(t, 5.0, p.Current().(domain.Images)[0].Planes[0].At(0, 0))

	p.Current().(domain.Images)[0].Planes[0].Set(0, 0, -1)
	assert.Equal(t, 5.0, p.Current().(domain.Images)[0].Planes[0].At(0, 0))
}

func TestTextChainIsReplayable(t *testing.T) {
	src := domain.Texts{{int64(1), int64(2), int64(3), "a"}, {"x", "y"}, {int64(7)}}
	run := func() domain.Dataset {
		p, err := New(src, domain.Text, WithSeed(42), WithNoiseToken("<unk>"))
		require.NoError(t, err)
		p.Permutative().Noise(2).Invertive()
		require.NoError(t, p.Err())
		return p.Current()
	}
	a, b := run(), run()
	assert.Equal(t, a, b)

	total := 0
	for i, toks := range a.(domain.Texts) {
		total += len(toks) - len(src[i])
		assert.Subset(t, toks, src[i])
	}
	assert.Equal(t, 2, total)
}

func TestNoRECStartsFromSource(t *testing.T) {
	p, err := New(domain.Query("SELECT a FROM t WHERE a>1"), domain.SQLQuery)
	require.NoError(t, err)
	p.NoREC().NoREC()
	require.NoError(t, p.Err())
	assert.Equal(t, domain.Query("SELECT * FROM t WHERE a>1 WHERE a"), p.Current())
	assert.Equal(t, domain.Query("SELECT a FROM t WHERE a>1"), p.Source())
}

func TestStickyError(t *testing.T) {
	p, err := New(domain.Terms{"go"}, domain.SearchTerm)
	require.NoError(t, err)

	p.Rotate(90).Noise(1)
	assert.True(t, domain.IsErrorType[domain.DomainMismatchError](p.Err()))
	assert.Equal(t, domain.Terms{"go"}, p.Current())
	assert.Equal(t, Created, p.State())

	_, err = p.Equality(context.Background())
	assert.Equal(t, p.Err(), err)
}

func TestFailedTransformKeepsFollowUp(t *testing.T) {
	a, err := domain.NewGray([][]float64{{100, 200}})
	require.NoError(t, err)
	b, err := domain.NewGray([][]float64{{-1, 5}})
	require.NoError(t, err)

	p, err := New(domain.Images{a, b}, domain.GrayscaleImage)
	require.NoError(t, err)
	p.Additive(-1).Brightness(2, 1)
	require.True(t, domain.IsErrorType[domain.InvalidParameterError](p.Err()))

	cur := p.Current().(domain.Images)
	assert.Equal(t, [][]float64{{99, 199}}, cur[0].Rows(0))
	assert.Equal(t, [][]float64{{-2, 4}}, cur[1].Rows(0))
	assert.Equal(t, Transformed, p.State())
}

func TestApplyDiscardsPartialWrites(t *testing.T) {
	reg := transform.NewRegistry()
	reg.Register("scribble", func(_ *transform.Env, ds domain.Dataset, _ transform.Args) (domain.Dataset, error) {
		imgs := ds.(domain.Images)
		imgs[0].Planes[0].Set(0, 0, 42)
		return nil, errors.New("scribble: gave up")
	}, domain.GrayscaleImage)

	ds := grayset(t)
	p, err := New(ds, domain.GrayscaleImage, WithRegistry(reg))
	require.NoError(t, err)
	p.Apply("scribble", nil)
	require.Error(t, p.Err())
	cur := p.Current().(domain.Images)
	assert.Equal(t, ds[0].Rows(0), cur[0].Rows(0))
	assert.Equal(t, Created, p.State())
}

func TestApplyAll(t *testing.T) {
	p, err := New(grayset(t), domain.GrayscaleImage)
	require.NoError(t, err)
	p.ApplyAll([]plan.Transformation{
		{Name: "additive", Params: map[string]any{"k": 1}},
		{Name: "multiplicative", Params: map[string]any{"m": 2.0}},
	})
	require.NoError(t, p.Err())
	assert.Equal(t, 2.0, p.Current().(domain.Images)[0].Planes[0].At(0, 0))

	p.ApplyAll([]plan.Transformation{{Name: "noise", Params: map[string]any{"n": -1}}})
	assert.ErrorContains(t, p.Err(), "transformation 0 (noise)")
	assert.True(t, domain.IsErrorType[domain.InvalidParameterError](p.Err()))
}

func TestEqualityAndPublish(t *testing.T) {
	p, err := New(grayset(t), domain.GrayscaleImage, WithOracle(firstPixel))
	require.NoError(t, err)
	rep, err := p.Additive(200).Equality(context.Background())
	require.NoError(t, err)
	assert.Equal(t, relation.Report{Relation: "equality", Cases: 2, Violations: []int{0}}, rep)
	assert.Equal(t, Evaluated, p.State())
	assert.Equal(t, []int{0}, p.ViolatingIndices())

	cases := p.ViolatingCases()
	require.Len(t, cases, 1)
	assert.True(t, cases[0].(domain.Image).Equal(grayset(t)[0]))

	_, err = p.Equality(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	p.FlipH()
	assert.ErrorIs(t, p.Err(), domain.ErrSessionClosed)

	var got []relation.Report
	pub := publisherFunc(func(r relation.Report) error { got = append(got, r); return nil })
	require.NoError(t, p.Publish(pub, pub))
	assert.Len(t, got, 2)
	assert.Equal(t, Done, p.State())
	assert.ErrorIs(t, p.Publish(pub), domain.ErrSessionClosed)
}

func TestEvaluateErrors(t *testing.T) {
	p, err := New(grayset(t), domain.GrayscaleImage)
	require.NoError(t, err)
	_, err = p.Equality(context.Background())
	assert.ErrorIs(t, err, ErrNoOracle)
	assert.Error(t, p.Publish())

	short := oracle.Func(func(context.Context, domain.Kind, domain.Dataset) ([]domain.Output, error) {
		return []domain.Output{true}, nil
	})
	p, err = New(grayset(t), domain.GrayscaleImage, WithOracle(short))
	require.NoError(t, err)
	_, err = p.Equality(context.Background())
	assert.True(t, domain.IsErrorType[domain.LengthMismatchError](err))

	boom := errors.New("boom")
	p, err = New(grayset(t), domain.GrayscaleImage, WithOracle(oracle.Func(func(context.Context, domain.Kind, domain.Dataset) ([]domain.Output, error) {
		return nil, boom
	})))
	require.NoError(t, err)
	_, err = p.Evaluate(context.Background(), relation.Disjoint())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, p.Err(), boom)
}

func TestNewRejectsWrongDataset(t *testing.T) {
	_, err := New(domain.Terms{"a"}, domain.Text)
	assert.Error(t, err)
}

type publisherFunc func(relation.Report) error

func (f publisherFunc) Push(r relation.Report) error { return f(r) }
