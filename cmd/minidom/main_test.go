package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/minidom/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestRender(t *testing.T) {
	path := writeFile(t, "page.html", "<main .app #root>\n  <h1>Hi</h1>\n  <input disabled/>\n</main>\n")

	out, err := run(t, "render", path)
	require.NoError(t, err)
	assert.Contains(t, out, `<main`)
	assert.Contains(t, out, `id="root"`)
	assert.Contains(t, out, `<h1>Hi</h1>`)
}

func TestRenderParseError(t *testing.T) {
	path := writeFile(t, "bad.html", "<div></span>")

	_, err := run(t, "render", path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "M103"))
	assert.True(t, strings.HasPrefix(err.Error(), path))
}

func TestRenderParseErrorOutput(t *testing.T) {
	t.Cleanup(errors.EnableColors)
	path := writeFile(t, "bad.html", "<div></span>")

	_, err := run(t, "--no-color", "render", path)
	require.Error(t, err)

	var buf bytes.Buffer
	errors.Print(&buf, err)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, path+"\n"), out)
	assert.Contains(t, out, "ERROR M103: Closing tag does not match opening tag")
	assert.NotContains(t, out, "\033[")
}

func TestRenderMissingFile(t *testing.T) {
	_, err := run(t, "render", filepath.Join(t.TempDir(), "missing.html"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRenderSnapshot(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MINIDOM_SNAPSHOT_DIR", dir)
	path := writeFile(t, "page.html", "<p>saved</p>")

	out, err := run(t, "render", path, "--snapshot", "home")
	require.NoError(t, err)
	assert.Contains(t, out, "snapshot stored at")

	data, err := os.ReadFile(filepath.Join(dir, "home.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<p>saved</p>")
}

func TestBadConfig(t *testing.T) {
	path := writeFile(t, "minidom.yaml", "log:\n  format: xml\n")

	_, err := run(t, "--config", path, "version")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "M500"))
}

func TestStartURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"", "?/", "http://localhost/?/"},
		{"http://app.test", "?/", "http://app.test/?/"},
		{"http://app.test/", "/?/home", "http://app.test/?/home"},
		{"http://app.test/?/todos", "?/", "http://app.test/?/todos"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, startURL(tt.base, tt.path), "base %q", tt.base)
	}
}
