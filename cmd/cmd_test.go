package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnoswap-labs/dracula/internal/types"
)

const pythonSrc = "# skip this\ndef f():\n    pass # comment\n"

// execute runs a fresh command tree. Tests stay sequential because the
// color setting is process global.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--color", "off"}, args...))

	err := root.Execute()
	return out.String(), err
}

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"main.py":   pythonSrc,
		"lib.rs":    "// doc\nfn main() {\n}\n",
		"notes.txt": "ignored\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestCountJSON(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "", "count", "--json", dir)
	require.NoError(t, err)

	var report countReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Files, 2)
	assert.Equal(t, filepath.Join(dir, "lib.rs"), report.Files[0].Filename)
	assert.Equal(t, []int{1}, report.Files[0].Indices)
	assert.Equal(t, []int{1, 2}, report.Files[1].Indices)
	assert.Equal(t, tt.Summary{Files: 2, Lines: 6, Meaningful: 3}, report.Summary)
}

func TestCountJSONOutputFile(t *testing.T) {
	dir := setupProject(t)
	target := filepath.Join(t.TempDir(), "out.json")

	out, err := execute(t, "", "count", "--json", "-o", target, dir)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"meaningful": 3`)
}

func TestCountText(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "", "--mode", "both", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Meaningful  Executable")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "2 files")
}

func TestCountStdin(t *testing.T) {
	out, err := execute(t, "# c\nx = 1\n", "count", "--json", "-")
	require.NoError(t, err)

	var report countReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Files, 1)
	assert.Equal(t, "stdin.py", report.Files[0].Filename)
	assert.Equal(t, 1, report.Files[0].Meaningful)

	_, err = execute(t, "x", "count", "--stdin-filename", "in.unknown", "-")
	assert.Error(t, err)
}

func TestLines(t *testing.T) {
	dir := setupProject(t)
	file := filepath.Join(dir, "main.py")

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"indices", []string{"lines", file}, "1,2\n"},
		{"executable", []string{"lines", "--executable", file}, "2,3\n"},
		{"stdin", []string{"lines", "--stdin-filename", "x.rs", "-"}, "0\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, "fn main() { let x = 1; }\n", tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}

	out, err := execute(t, "", "lines", "--annotate", file)
	require.NoError(t, err)
	assert.Contains(t, out, "1 .. | # skip this")
	assert.Contains(t, out, "2 ME | def f():")
}

func TestClean(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "", "clean", filepath.Join(dir, "main.py"))
	require.NoError(t, err)
	assert.Equal(t, "def f():\n    pass \n", out)

	_, err = execute(t, "", "clean", filepath.Join(dir, "notes.txt"))
	assert.Error(t, err)

	_, err = execute(t, "\xff\n", "clean", "--stdin-filename", "a.c", "-")
	assert.ErrorIs(t, err, tt.ErrInvalidEncoding)
}

func TestExec(t *testing.T) {
	dir := setupProject(t)

	out, err := execute(t, "", "exec", filepath.Join(dir, "main.py"))
	require.NoError(t, err)
	assert.Equal(t, "2,3\n", out)

	out, err = execute(t, pythonSrc, "exec", "--grammar", "python", "-")
	require.NoError(t, err)
	assert.Equal(t, "2,3\n", out)

	broken := filepath.Join(dir, "broken.py")
	require.NoError(t, os.WriteFile(broken, []byte("def (:\n"), 0o644))
	_, err = execute(t, "", "exec", broken)
	assert.ErrorIs(t, err, ErrNoTreeAnswer)

	_, err = execute(t, "x", "exec", "--grammar", "cobol", "-")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".dracula.yaml")

	out, err := execute(t, "", "--config", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mode: native")

	_, err = execute(t, "", "--config", path, "init")
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	dir := setupProject(t)
	config := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(config, []byte("name: t\nextensions:\n  .txt: python\n"), 0o644))

	out, err := execute(t, "", "--config", config, "count", "--json", dir)
	require.NoError(t, err)

	var report countReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Files, 3)
}

func TestGlobalFlagErrors(t *testing.T) {
	dir := setupProject(t)

	_, err := execute(t, "", "--color", "rainbow", "count", dir)
	assert.Error(t, err)

	_, err = execute(t, "", "--mode", "sideways", "count", dir)
	assert.Error(t, err)

	_, err = execute(t, "", "--config", filepath.Join(dir, "missing.yaml"), "count", dir)
	assert.Error(t, err)
}
