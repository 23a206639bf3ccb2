package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadPlan_ResolvesRelativePathsAndDefaults(t *testing.T) {
	path := writePlan(t, `schema_version: v1
domain: grayscaleImage
seed: 7
source:
  path: data/mnist.json
transformations:
  - { name: additive, params: { k: 10 } }
  - { name: rotate, params: { deg: 12.5 } }
relation: { name: difference, aux: expected.json }
oracle:
  kind: grpc
  address: localhost:50051
  timeout_ms: 500
  on_failure: { mode: default, default: -1 }
sink_configs: { kafka: /etc/mtkeras/kafka_sink.yml }
`)
	cfg, err := LoadPlan(path)
	require.NoError(t, err)
	dir := filepath.Dir(path)

	assert.Equal(t, SupportedSchema, cfg.SchemaVersion)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, uint64(7), *cfg.Seed)
	assert.Equal(t, "file", cfg.Source.Driver)
	assert.Equal(t, filepath.Join(dir, "data/mnist.json"), cfg.Source.Path)
	assert.Equal(t, filepath.Join(dir, "expected.json"), cfg.Relation.Aux)
	assert.Equal(t, "/etc/mtkeras/kafka_sink.yml", cfg.SinkConfigs.Kafka)
	assert.Equal(t, []string{"stdout"}, cfg.Sinks)

	require.Len(t, cfg.Transformations, 2)
	assert.Equal(t, 10, cfg.Transformations[0].Params["k"])
	assert.Equal(t, 12.5, cfg.Transformations[1].Params["deg"])
	assert.Equal(t, 500, cfg.Oracle.TimeoutMS)
	assert.Equal(t, "default", cfg.Oracle.OnFailure.Mode)
	assert.Equal(t, -1, cfg.Oracle.OnFailure.Default)
}

func TestLoadPlan_Invalid(t *testing.T) {
	for name, body := range map[string]string{
		"schema":    "schema_version: v999\ndomain: text\n",
		"no domain": "schema_version: v1\n",
		"yaml":      "domain: [text\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadPlan(writePlan(t, body))
			assert.Error(t, err)
		})
	}
	_, err := LoadPlan(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
