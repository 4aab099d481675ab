package macro

import (
	"fmt"
	"strings"

	"github.com/calumari/covers/internal/tokens"
)

// Invocation is one application of `mocked` to a function item.
type Invocation struct {
	// Args is the raw argument text, e.g. `module::mock_bar, scope = impl`.
	Args string
	Item tokens.Stream
	// Source is the text Item was lexed from. When set, the expansion keeps
	// the spacing of the original item.
	Source string
	// Indent is prepended to each line of the generated dispatcher.
	Indent string
}

// Expansion is the result of a mocked rewrite.
type Expansion struct {
	Text   string
	Tokens tokens.Stream
	// Name is the function's declared name and Target the name the original
	// is preserved under. Both are empty when nothing was rewritten.
	Name      string
	Target    string
	Args      string
	ImplScope bool
}

// Mocked rewrites a function item into its renamed, public original plus a
// dispatcher with the original name and signature. Under `cfg(test)` the
// dispatcher returns the mock's result, otherwise the original's. Release
// builds get the item back unchanged.
func Mocked(s Settings, args string, item tokens.Stream) (tokens.Stream, error) {
	exp, err := ExpandMocked(s, Invocation{Args: args, Item: item})
	if err != nil {
		return nil, err
	}
	return exp.Tokens, nil
}

// ExpandMocked is Mocked returning the composed source text alongside the
// tokens.
func ExpandMocked(s Settings, inv Invocation) (*Expansion, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !s.Mode.Instrumented() {
		return &Expansion{Text: tokens.Render(inv.Source, inv.Item), Tokens: inv.Item}, nil
	}
	params, err := ParseParams(inv.Args)
	if err != nil {
		return nil, err
	}

	sc := scanFunction(inv.Item, s.prefix())
	if sc.stage.before(stageBody) {
		return nil, fmt.Errorf("%w: no %s found", ErrNotFunction, sc.stage+1)
	}
	implScope := sc.implScope || params.ImplScope()

	text, err := renderDispatcher(dispatcherModel{
		Original:  tokens.Render(inv.Source, MakePublic(sc.original)),
		Signature: tokens.Render(inv.Source, sc.signature),
		Indent:    inv.Indent,
		Mock:      params.Reference,
		Target:    sc.target,
		Args:      sc.args,
		ImplScope: implScope,
	})
	if err != nil {
		return nil, err
	}
	toks, err := tokens.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedExpansion, err)
	}
	return &Expansion{
		Text:      text,
		Tokens:    toks,
		Name:      sc.name,
		Target:    sc.target,
		Args:      sc.args,
		ImplScope: implScope,
	}, nil
}

// functionScan accumulates the two derived token sequences of a function.
type functionScan struct {
	stage stage
	// signature holds everything but the body, under the declared name.
	signature tokens.Stream
	// original holds the whole item, under the prefixed name.
	original  tokens.Stream
	name      string
	target    string
	args      string
	implScope bool
}

func scanFunction(item tokens.Stream, prefix string) functionScan {
	var sc functionScan
	for _, tok := range item {
		switch {
		case sc.stage.before(stageFnKeyword) && tok.IsIdent(fnKeyword):
			sc.stage = stageFnKeyword
			sc.signature = append(sc.signature, tok)
			sc.original = append(sc.original, tok)
		case sc.stage == stageFnKeyword && tok.Kind == tokens.Ident:
			sc.stage = stageFnName
			sc.name = tok.Text
			sc.target = prefix + strings.TrimPrefix(tok.Text, "r#")
			renamed := tok
			renamed.Text = sc.target
			sc.signature = append(sc.signature, tok)
			sc.original = append(sc.original, renamed)
		case sc.stage == stageFnName && tok.IsGroup(tokens.Parenthesis):
			sc.stage = stageArgs
			sc.args = ParseArgs(tok.Stream)
			sc.implScope = hasReceiver(sc.args)
			sc.signature = append(sc.signature, tok)
			sc.original = append(sc.original, tok)
		case sc.stage == stageArgs && tok.IsGroup(tokens.Brace):
			sc.stage = stageBody
			sc.original = append(sc.original, tok)
		default:
			if sc.stage.before(stageBody) {
				sc.signature = append(sc.signature, tok)
			}
			sc.original = append(sc.original, tok)
		}
	}
	return sc
}
