package generator

import (
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// lineAt returns the 1-based line holding offset off of src.
func lineAt(src string, off int) int {
	return 1 + strings.Count(src[:off], "\n")
}

// indentAt returns the whitespace that opens the line holding offset off.
func indentAt(src string, off int) string {
	line := src[strings.LastIndexByte(src[:off], '\n')+1 : off]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// skipSpace returns the offset of the first non-whitespace byte at or after off.
func skipSpace(src string, off int) int {
	return len(src) - len(strings.TrimLeft(src[off:], " \t\r\n"))
}

// wholeLines widens [start, end) to the full lines it spans, trailing newline
// included, when nothing else shares those lines.
func wholeLines(src string, start, end int) (int, int) {
	ls := strings.LastIndexByte(src[:start], '\n') + 1
	rest := src[end:]
	le := strings.IndexByte(rest, '\n') + 1
	if le == 0 {
		le = len(rest)
	}
	if strings.TrimLeft(src[ls:start], " \t") != "" || strings.TrimSpace(rest[:le]) != "" {
		return start, end
	}
	return ls, end + le
}

// errGroupLimitCPU returns an errgroup running at most NumCPU goroutines.
func errGroupLimitCPU() *errgroup.Group {
	eg := &errgroup.Group{}
	eg.SetLimit(runtime.NumCPU())
	return eg
}
