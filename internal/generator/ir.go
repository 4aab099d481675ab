package generator

import (
	"io"

	"github.com/calumari/covers/internal/macro"
	"github.com/calumari/covers/internal/tokens"
)

// attribute names recognized on function items, bare or as `covers::<name>`.
const (
	attrMocked = "mocked"
	attrMock   = "mock"
	crateName  = "covers"
)

// Config holds settings for an expansion run.
type Config struct {
	Paths    []string        // files or directories to expand; directories are walked for *.rs
	Mode     macro.BuildMode // build profile the expansion targets
	Features []string        // crate features: a prefix (_, __, _orig_) and/or no-pub
	NoPub    bool            // same as the no-pub feature
	Manifest string          // optional Cargo.toml whose covers dependency features are merged in
	Write    bool            // rewrite files in place instead of printing
	Diff     bool            // print unified diffs instead of expanded text
	Verbose  bool            // log every expansion
	Stdout   io.Writer       // destination for printed output; os.Stdout when nil
}

// annotation is one annotated item found in a source file.
type annotation struct {
	kind    string        // attrMocked or attrMock
	args    string        // raw text between the attribute's parentheses
	item    tokens.Stream // the item without the covers attribute
	pos     int           // offset of the item, its leading attributes included
	attrPos int           // offset of the covers attribute's '#'
	attrEnd int           // offset just past the covers attribute's ']'
	end     int           // offset just past the item
}

// fileResult is the outcome of expanding a single file.
type fileResult struct {
	Path  string
	Old   string
	New   string
	Count int
}

func (r fileResult) changed() bool { return r.Old != r.New }
