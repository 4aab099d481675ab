package generator

import (
	"fmt"
	"sort"
	"strings"
)

// A buffer is a queue of edits to apply to a source text. Edits are given in
// offsets of the original text and may be queued in any order.
type buffer struct {
	old   string
	edits []edit
}

type edit struct {
	start int
	end   int
	text  string
}

func newBuffer(old string) *buffer {
	return &buffer{old: old}
}

// Replace queues replacing old[start:end] with text.
func (b *buffer) Replace(start, end int, text string) {
	if start < 0 || end < start || end > len(b.old) {
		panic("invalid edit position")
	}
	b.edits = append(b.edits, edit{start, end, text})
}

func (b *buffer) Insert(pos int, text string) {
	b.Replace(pos, pos, text)
}

func (b *buffer) Delete(start, end int) {
	b.Replace(start, end, "")
}

// String applies the queued edits and returns the new text. Overlapping edits
// are an error.
func (b *buffer) String() (string, error) {
	sort.SliceStable(b.edits, func(i, j int) bool {
		if b.edits[i].start != b.edits[j].start {
			return b.edits[i].start < b.edits[j].start
		}
		return b.edits[i].end < b.edits[j].end
	})
	var sb strings.Builder
	offset := 0
	for i, e := range b.edits {
		if e.start < offset {
			prev := b.edits[i-1]
			return "", fmt.Errorf("overlapping edits at [%d,%d) and [%d,%d)", prev.start, prev.end, e.start, e.end)
		}
		sb.WriteString(b.old[offset:e.start])
		sb.WriteString(e.text)
		offset = e.end
	}
	sb.WriteString(b.old[offset:])
	return sb.String(), nil
}
