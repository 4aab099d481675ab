package macro

import "github.com/calumari/covers/internal/tokens"

// qualifiers that may sit between the visibility and the fn keyword.
var fnQualifiers = map[string]bool{
	"const":   true,
	"async":   true,
	"unsafe":  true,
	"extern":  true,
	"default": true,
}

// MakePublic returns the function item with `pub` visibility. If `pub`
// appears before the fn keyword the item is returned as is; otherwise `pub`
// is inserted at the start of the function header, ahead of any qualifiers
// such as `async` or `extern "C"`. Applying it twice is the same as once.
func MakePublic(item tokens.Stream) tokens.Stream {
	for i, tok := range item {
		if tok.IsIdent(pubKeyword) {
			return item
		}
		if tok.IsIdent(fnKeyword) {
			at := headerStart(item, i)
			out := make(tokens.Stream, 0, len(item)+1)
			out = append(out, item[:at]...)
			out = append(out, tokens.NewIdent(pubKeyword))
			return append(out, item[at:]...)
		}
	}
	return item
}

// headerStart walks back from the fn keyword over its qualifiers.
func headerStart(item tokens.Stream, fn int) int {
	at := fn
	for at > 0 {
		prev := item[at-1]
		switch {
		case prev.Kind == tokens.Ident && fnQualifiers[prev.Text]:
			at--
		case prev.Kind == tokens.Literal && at > 1 && item[at-2].IsIdent("extern"):
			at--
		default:
			return at
		}
	}
	return at
}
