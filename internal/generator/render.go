package generator

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pmezard/go-difflib/difflib"
)

// run expands the collected files concurrently, then emits the results in
// path order.
func (g *generator) run(cfg Config) error {
	paths := cfg.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	files, err := collectFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no Rust source files found")
	}

	results := make([]fileResult, len(files))
	eg := errGroupLimitCPU()
	for i, path := range files {
		i, path := i, path
		eg.Go(func() error {
			r, err := g.expandFile(path)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	total := 0
	for _, r := range results {
		total += r.Count
	}
	g.logf("%d files, %d annotated items", len(results), total)

	w := cfg.Stdout
	if w == nil {
		w = os.Stdout
	}
	for _, r := range results {
		if err := emit(cfg, w, r, len(results) > 1); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) expandFile(path string) (fileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileResult{}, err
	}
	old := string(data)
	out, n, err := g.expandSource(old)
	if err != nil {
		return fileResult{}, fmt.Errorf("%s:%w", path, err)
	}
	if n > 0 {
		g.logf("%s: %d annotated items", path, n)
	}
	return fileResult{Path: path, Old: old, New: out, Count: n}, nil
}

// emit writes r back in place, prints its diff, or prints its expanded text,
// as cfg asks. Printed text of several files is headed by each path.
func emit(cfg Config, w io.Writer, r fileResult, many bool) error {
	if cfg.Write && r.changed() {
		info, err := os.Stat(r.Path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(r.Path, []byte(r.New), info.Mode().Perm()); err != nil {
			return err
		}
	}
	switch {
	case cfg.Diff:
		if !r.changed() {
			return nil
		}
		diff, err := unifiedDiff(r)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, diff)
		return err
	case cfg.Write:
		return nil
	}
	if many {
		if _, err := fmt.Fprintf(w, "// %s\n", r.Path); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, r.New)
	return err
}

func unifiedDiff(r fileResult) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(r.Old),
		B:        difflib.SplitLines(r.New),
		FromFile: r.Path,
		ToFile:   r.Path + " (expanded)",
		Context:  3,
	})
}
