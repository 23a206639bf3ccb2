package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGrayscale(t *testing.T) {
	ds, err := Decode(GrayscaleImage, []byte(`[[[0,1,2],[3,4,5]],[[6,7,8],[9,10,11]]]`))
	require.NoError(t, err)
	imgs := ds.(Images)
	require.Len(t, imgs, 2)
	h, w := imgs[1].Dims()
	assert.Equal(t, 2, h)
	assert.Equal(t, 3, w)
	assert.Equal(t, 11.0, imgs[1].Planes[0].At(1, 2))
}

func TestDecodeColor(t *testing.T) {
	ds, err := Decode(ColorImage, []byte(`[[[[1,2,3],[4,5,6]]]]`))
	require.NoError(t, err)
	im := ds.(Images)[0]
	require.Len(t, im.Planes, 3)
	assert.Equal(t, 6.0, im.Planes[2].At(0, 1))
}

func TestDecodeRejectsRaggedImage(t *testing.T) {
	_, err := Decode(GrayscaleImage, []byte(`[[[0,1],[2]]]`))
	assert.Error(t, err)
}

func TestDecodeText(t *testing.T) {
	ds, err := Decode(Text, []byte(`[[1, 2, "x"], []]`))
	require.NoError(t, err)
	assert.Equal(t, Texts{{int64(1), int64(2), "x"}, {}}, ds)

	_, err = Decode(Text, []byte(`[[1.5]]`))
	assert.Error(t, err)
}

func TestDecodeQuery(t *testing.T) {
	for _, in := range []string{`"SELECT a FROM t"`, `["SELECT a FROM t"]`, "SELECT a FROM t\n"} {
		ds, err := Decode(SQLQuery, []byte(in))
		require.NoError(t, err, in)
		assert.Equal(t, Query("SELECT a FROM t"), ds)
	}
	_, err := Decode(SQLQuery, []byte(`["a", "b"]`))
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	for _, test := range []struct {
		kind Kind
		json string
	}{
		{GrayscaleImage, `[[[1,2],[3,4]]]`},
		{ColorImage, `[[[[1,2,3]]]]`},
		{Text, `[[1,"b"]]`},
		{SearchTerm, `["go","rust"]`},
		{SQLQuery, `"SELECT 1"`},
	} {
		t.Run(test.kind.String(), func(t *testing.T) {
			ds, err := Decode(test.kind, []byte(test.json))
			require.NoError(t, err)
			b, err := Encode(ds)
			require.NoError(t, err)
			assert.JSONEq(t, test.json, string(b))
		})
	}
}
