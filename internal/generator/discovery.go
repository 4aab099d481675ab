package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/go-analyze/bulk"

	"github.com/calumari/covers/internal/tokens"
)

var errIncompleteItem = errors.New("annotated item has no body or terminating ';'")

// collectFiles expands paths into the sorted set of Rust sources to process.
// Directories are walked recursively, skipping build output and hidden
// directories.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	files = bulk.SliceFilterInPlace(func(path string) bool {
		return filepath.Ext(path) == ".rs"
	}, files)
	sort.Strings(files)
	return slices.Compact(files), nil
}

func skipDir(name string) bool {
	return name == "target" || strings.HasPrefix(name, ".")
}

// findAnnotations locates every item carrying a covers attribute, descending
// into modules, impl and trait blocks. The outer attributes and doc comments
// ahead of the covers attribute belong to the item. Annotated items are not
// searched further.
func findAnnotations(src string, s tokens.Stream) ([]annotation, error) {
	var out []annotation
	from := 0
	for i := 0; i < len(s); i++ {
		t := s[i]
		if t.IsGroup(tokens.Brace) {
			inner, err := findAnnotations(src, t.Stream)
			if err != nil {
				return nil, err
			}
			out = append(out, inner...)
			from = i + 1
			continue
		}
		if !isOuterAttr(s, i) {
			continue
		}
		kind, args, ok := matchAttribute(src, s[i+1])
		if !ok {
			continue
		}
		end, err := itemEnd(s, i+2)
		if err != nil {
			return nil, fmt.Errorf("%d: %w", lineAt(src, t.Pos), err)
		}
		lead := i
		for lead-2 >= from && isOuterAttr(s, lead-2) {
			lead -= 2
		}
		item := append(tokens.Stream{}, s[lead:i]...)
		out = append(out, annotation{
			kind:    kind,
			args:    args,
			item:    append(item, s[i+2:end]...),
			pos:     attrPos(s, lead),
			attrPos: t.Pos,
			attrEnd: s[i+1].End,
			end:     s[end-1].End,
		})
		i = end - 1
		from = end
	}
	return out, nil
}

// isOuterAttr reports whether s[i:] starts with an outer attribute, doc
// comments included.
func isOuterAttr(s tokens.Stream, i int) bool {
	return i+1 < len(s) && s[i].IsPunct("#") && !s[i].Joint && s[i+1].IsGroup(tokens.Bracket)
}

// attrPos returns the source offset of the attribute at s[i]. The '#' of a
// doc comment has no offset of its own; its group spans the comment.
func attrPos(s tokens.Stream, i int) int {
	if s[i].End > 0 {
		return s[i].Pos
	}
	return s[i+1].Pos
}

// matchAttribute recognizes `[mock]`, `[mocked(...)]` and their
// `covers::`-qualified forms.
func matchAttribute(src string, attr tokens.Token) (kind, args string, ok bool) {
	s := attr.Stream
	if len(s) >= 3 && s[0].IsIdent(crateName) && s[1].IsPunct(":") && s[1].Joint && s[2].IsPunct(":") {
		s = s[3:]
	}
	switch {
	case len(s) == 1 && s[0].IsIdent(attrMock):
		return attrMock, "", true
	case len(s) == 1 && s[0].IsIdent(attrMocked):
		return attrMocked, "", true
	case len(s) == 2 && s[0].IsIdent(attrMocked) && s[1].IsGroup(tokens.Parenthesis):
		g := s[1]
		return attrMocked, src[g.Pos+1 : g.End-1], true
	}
	return "", "", false
}

// itemEnd returns the index just past the item starting at s[from]: its first
// top-level brace group or ';'.
func itemEnd(s tokens.Stream, from int) (int, error) {
	for j := from; j < len(s); j++ {
		if s[j].IsGroup(tokens.Brace) || s[j].IsPunct(";") {
			return j + 1, nil
		}
	}
	return 0, errIncompleteItem
}
