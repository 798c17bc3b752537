package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/dzjyyds666/tomljson/parse/block"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const sample = `# service config
[server]
host = "localhost"
port = 8080
tls = false
ports = [80, 443]
limits = { rps = 100, burst = { size = 10, window = "1s" } }

[owner]
name = "Tom"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestConvert(t *testing.T) {
	var out bytes.Buffer
	doc, err := Convert(strings.NewReader(sample), &out, "  ")
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 2)

	want := "{\n" +
		"  \"server\": {\n" +
		"    \"host\": \"localhost\",\n" +
		"    \"port\": 8080,\n" +
		"    \"tls\": false,\n" +
		"    \"ports\": [\n" +
		"      80,\n" +
		"      443\n" +
		"    ],\n" +
		"    \"limits\": {\n" +
		"      \"rps\": 100,\n" +
		"      \"burst\": {\n" +
		"        \"size\": 10,\n" +
		"        \"window\": \"1s\"\n" +
		"      }\n" +
		"    }\n" +
		"  },\n" +
		"  \"owner\": {\n" +
		"    \"name\": \"Tom\"\n" +
		"  }\n" +
		"}\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertReadError(t *testing.T) {
	var out bytes.Buffer
	_, err := Convert(iotest.ErrReader(errors.New("disk gone")), &out, "  ")
	require.ErrorIs(t, err, ErrIO)
	require.Zero(t, out.Len())
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "app.toml", sample)

	res, err := File(context.Background(), in, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, Result{Path: in, Output: filepath.Join(dir, "app.json"), Blocks: 2}, res)

	got := readJSON(t, res.Output)
	want := map[string]any{
		"server": map[string]any{
			"host":  "localhost",
			"port":  float64(8080),
			"tls":   false,
			"ports": []any{float64(80), float64(443)},
			"limits": map[string]any{
				"rps":   float64(100),
				"burst": map[string]any{"size": float64(10), "window": "1s"},
			},
		},
		"owner": map[string]any{"name": "Tom"},
	}
	require.Empty(t, cmp.Diff(want, got))
}

func TestFileOverwritesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "app.toml", "[a]\nx = 1\n")
	writeFile(t, dir, "app.json", `{"stale": true}`)

	_, err := File(context.Background(), in, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": map[string]any{"x": float64(1)}}, readJSON(t, filepath.Join(dir, "app.json")))
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := File(context.Background(), filepath.Join(dir, "nope.toml"), DefaultOptions())
		require.ErrorIs(t, err, ErrFileNotFound)
		var fe *FileError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, filepath.Join(dir, "nope.toml"), fe.Path)
	})

	t.Run("malformed entry leaves no output", func(t *testing.T) {
		in := writeFile(t, dir, "bad.toml", "[a]\nx = 1\nstray\n")
		_, err := File(context.Background(), in, DefaultOptions())
		require.ErrorIs(t, err, block.ErrMalformedEntry)
		_, statErr := os.Stat(filepath.Join(dir, "bad.json"))
		require.True(t, os.IsNotExist(statErr))
	})

	t.Run("invalid structure leaves no output", func(t *testing.T) {
		in := writeFile(t, dir, "date.toml", "[a]\nwhen = 1979-05-27\n")
		_, err := File(context.Background(), in, DefaultOptions())
		require.ErrorIs(t, err, block.ErrInvalidStructure)
		_, statErr := os.Stat(filepath.Join(dir, "date.json"))
		require.True(t, os.IsNotExist(statErr))
	})

	t.Run("output equal to input", func(t *testing.T) {
		in := writeFile(t, dir, "same.json", "[a]\nx = 1\n")
		_, err := File(context.Background(), in, DefaultOptions())
		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		in := writeFile(t, dir, "ok.toml", "[a]\nx = 1\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := File(ctx, in, DefaultOptions())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRun(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		_, err := Run(context.Background(), nil, DefaultOptions())
		require.ErrorIs(t, err, ErrMissingArguments)
	})

	t.Run("one failure does not stop siblings", func(t *testing.T) {
		dir := t.TempDir()
		good := writeFile(t, dir, "good.toml", "[a]\nx = \"hi\"\n")
		bad := writeFile(t, dir, "bad.toml", "[a]\no = { x = 1, y }\n")
		other := writeFile(t, dir, "other.toml", "[b]\nn = 42\n")

		opts := DefaultOptions()
		opts.Workers = 2
		results, err := Run(context.Background(), []string{good, bad, other}, opts)
		require.ErrorIs(t, err, block.ErrMalformedInlineObject)
		require.Contains(t, err.Error(), bad)
		require.Len(t, results, 2)
		require.Equal(t, good, results[0].Path)
		require.Equal(t, other, results[1].Path)

		require.Equal(t, map[string]any{"a": map[string]any{"x": "hi"}}, readJSON(t, filepath.Join(dir, "good.json")))
		require.Equal(t, map[string]any{"b": map[string]any{"n": float64(42)}}, readJSON(t, filepath.Join(dir, "other.json")))
	})

	t.Run("all failures are reported", func(t *testing.T) {
		dir := t.TempDir()
		missing := filepath.Join(dir, "missing.toml")
		bad := writeFile(t, dir, "bad.toml", "[a\n")
		_, err := Run(context.Background(), []string{missing, bad}, DefaultOptions())
		require.ErrorIs(t, err, ErrFileNotFound)
		require.ErrorIs(t, err, block.ErrMalformedHeader)
	})

	t.Run("fail fast returns the first failure", func(t *testing.T) {
		dir := t.TempDir()
		bad := writeFile(t, dir, "bad.toml", "[a]\nstray\n")
		opts := DefaultOptions()
		opts.FailFast = true
		opts.Workers = 1
		_, err := Run(context.Background(), []string{bad}, opts)
		require.ErrorIs(t, err, block.ErrMalformedEntry)
		require.False(t, errors.Is(err, context.Canceled))
	})

	t.Run("fail fast abandons pending siblings", func(t *testing.T) {
		dir := t.TempDir()
		bad := writeFile(t, dir, "bad.toml", "[a]\nstray\n")
		good := writeFile(t, dir, "good.toml", "[a]\nx = 1\n")
		opts := DefaultOptions()
		opts.FailFast = true
		opts.Workers = 1
		results, err := Run(context.Background(), []string{bad, good}, opts)
		require.ErrorIs(t, err, block.ErrMalformedEntry)
		require.Empty(t, results)
		_, statErr := os.Stat(filepath.Join(dir, "good.json"))
		require.True(t, os.IsNotExist(statErr))
	})
}
