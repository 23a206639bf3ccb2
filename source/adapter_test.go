package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtkeras/source"
	_ "mtkeras/source/file"
	_ "mtkeras/source/kafka"
)

func TestNewAdapter(t *testing.T) {
	assert.Equal(t, []string{"file", "kafka"}, source.Drivers())

	a, err := source.NewAdapter("file")
	require.NoError(t, err)
	assert.NotNil(t, a)

	_, err = source.NewAdapter("ftp")
	assert.EqualError(t, err, `source: unsupported driver "ftp" (have [file kafka])`)
}
