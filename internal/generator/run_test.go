package generator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/calumari/covers/internal/macro"
)

// TestRun expands the archives in testdata. The archive comment holds one
// setting per line (mode=, features=, manifest=, no-pub); files under want/
// are the expected results and an error file holds the expected error text.
func TestRun(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txt")
	require.NoError(t, err)
	require.NotEmpty(t, files, "no test cases")

	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txt"), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			require.NoError(t, err)

			dir := t.TempDir()
			want := map[string]string{}
			var wantErr string
			for _, f := range ar.Files {
				switch {
				case f.Name == "error":
					wantErr = strings.TrimSpace(string(f.Data))
				case strings.HasPrefix(f.Name, "want/"):
					want[strings.TrimPrefix(f.Name, "want/")] = string(f.Data)
				default:
					targ := filepath.Join(dir, f.Name)
					require.NoError(t, os.MkdirAll(filepath.Dir(targ), 0o777))
					require.NoError(t, os.WriteFile(targ, f.Data, 0o666))
				}
			}

			var stdout bytes.Buffer
			cfg := parseConfig(t, string(ar.Comment), dir)
			cfg.Write = true
			cfg.Stdout = &stdout
			err = Run(cfg)
			if wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), wantErr)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, stdout.String())
			for name, text := range want {
				have, err := os.ReadFile(filepath.Join(dir, name))
				require.NoError(t, err)
				assert.Equal(t, trimText(text), trimText(string(have)), name)
			}
		})
	}
}

func parseConfig(t *testing.T, comment, dir string) Config {
	t.Helper()
	cfg := Config{Paths: []string{dir}, Mode: macro.Debug}
	for _, line := range strings.Split(comment, "\n") {
		key, value, _ := strings.Cut(strings.TrimSpace(line), "=")
		switch key {
		case "mode":
			mode, err := macro.ParseBuildMode(value)
			require.NoError(t, err)
			cfg.Mode = mode
		case "features":
			cfg.Features = strings.Split(value, ",")
		case "manifest":
			cfg.Manifest = filepath.Join(dir, value)
		case "no-pub":
			cfg.NoPub = true
		}
	}
	return cfg
}

// trimText drops trailing blanks on every line and trailing blank lines.
func trimText(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func TestRunPrintsExpansions(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.rs")
	b := filepath.Join(dir, "b.rs")
	require.NoError(t, os.WriteFile(a, []byte("#[mock]\nfn m() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("fn plain() {}\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, Run(Config{Paths: []string{dir}, Mode: macro.Debug, Stdout: &out}))
	assert.Equal(t, "// "+a+"\npub fn m() {}\n// "+b+"\nfn plain() {}\n", out.String())

	// printing leaves the sources alone
	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "#[mock]\nfn m() {}\n", string(data))
}

func TestRunDiff(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("#[mock]\nfn m() {}\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, Run(Config{Paths: []string{path}, Mode: macro.Test, Diff: true, Stdout: &out}))
	assert.Contains(t, out.String(), "--- "+path+"\n")
	assert.Contains(t, out.String(), "+++ "+path+" (expanded)\n")
	assert.Contains(t, out.String(), "-#[mock]\n")
	assert.Contains(t, out.String(), "-fn m() {}\n")
	assert.Contains(t, out.String(), "+pub fn m() {}\n")
}

func TestRunDiffSkipsUnchangedFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn plain() {}\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, Run(Config{Paths: []string{path}, Mode: macro.Debug, Diff: true, Stdout: &out}))
	assert.Empty(t, out.String())
}

func TestRunWithoutSources(t *testing.T) {
	err := Run(Config{Paths: []string{t.TempDir()}, Mode: macro.Debug})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Rust source files")
}

func TestRunMissingPath(t *testing.T) {
	err := Run(Config{Paths: []string{filepath.Join(t.TempDir(), "missing.rs")}, Mode: macro.Debug})
	require.ErrorIs(t, err, os.ErrNotExist)
}
