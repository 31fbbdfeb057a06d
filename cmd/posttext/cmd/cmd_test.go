package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgFile, verbose = "", false
		compileOut, compileTitle = "", ""
		parseSource = false
		stylesCSS = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	t.Setenv("POSTTEXT_CONFIG", "")
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "doc.pt")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestCompileCommand(t *testing.T) {
	src := writeSource(t, `\posttext[title=CLI];\title{Hi}`)
	out := filepath.Join(t.TempDir(), "site")

	stdout, err := run(t, "compile", src, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Compiled")
	assert.Contains(t, stdout, "CLI")

	page, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<h1>Hi</h1>")
}

func TestCompileCommandError(t *testing.T) {
	src := writeSource(t, `\title{unterminated`)
	_, err := run(t, "compile", src, "--out", t.TempDir())
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	src := writeSource(t, `\bold{Hello, World!}`)

	stdout, err := run(t, "parse", src)
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &tree))
	assert.Equal(t, "Document", tree["type"])
	assert.Contains(t, stdout, "name: bold")
}

func TestParseCommandSource(t *testing.T) {
	src := writeSource(t, `\bold{a\;b}`)

	stdout, err := run(t, "parse", src, "--source")
	require.NoError(t, err)
	assert.Equal(t, `\bold{a\;b};`, strings.TrimSpace(stdout))
}

func TestVersionCommand(t *testing.T) {
	stdout, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "PostText v")
	assert.Contains(t, stdout, "Go Version")
}

func TestStylesCommand(t *testing.T) {
	stdout, err := run(t, "styles")
	require.NoError(t, err)
	assert.Contains(t, stdout, "github")

	stdout, err = run(t, "styles", "--css", "monokai")
	require.NoError(t, err)
	assert.Contains(t, stdout, ".chroma")
}
