package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRelate(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "src.json", `[[1, 2, 3], [1, 2, 3]]`)
	fu := write(t, dir, "fu.json", `[[1, 2], [1]]`)
	aux := write(t, dir, "aux.json", `[[3], [3]]`)

	out, err := execute(t, "relate", "-r", "complete", "--source", src, "--followup", fu, "--aux", aux)
	require.NoError(t, err)
	assert.Equal(t, "There are 1 violations of MROP complete.\nviolating indices: [1]\n", out)

	_, err = execute(t, "relate", "-r", "complete", "--source", src, "--followup", fu, "--aux", "")
	assert.Error(t, err)
}

func TestTransform(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "images.json", `[[[1, 2], [3, 4]]]`)
	plan := write(t, dir, "plan.yml", `domain: grayscaleImage
source: { path: images.json }
transformations:
  - { name: fliph }
  - { name: additive, params: { k: 1 } }
`)
	outPath := filepath.Join(dir, "followup.json")
	_, err := execute(t, "transform", "--plan", plan, "--out", outPath)
	require.NoError(t, err)
	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.JSONEq(t, `[[[3, 2], [5, 4]]]`, string(raw))
}
