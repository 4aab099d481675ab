package generator

import (
	"fmt"
	"log"

	"github.com/calumari/covers/internal/macro"
	"github.com/calumari/covers/internal/tokens"
)

// generator holds the settings shared by every file of a run.
type generator struct {
	settings macro.Settings
	verbose  bool
}

// Run expands every `mocked` and `mock` annotated item under cfg.Paths.
func Run(cfg Config) error {
	g, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	return g.run(cfg)
}

func newGenerator(cfg Config) (*generator, error) {
	features := append([]string(nil), cfg.Features...)
	if cfg.Manifest != "" {
		mf, err := manifestFeatures(cfg.Manifest)
		if err != nil {
			return nil, err
		}
		features = append(features, mf...)
	}
	if cfg.NoPub {
		features = append(features, macro.FeatureNoPub)
	}
	settings, err := macro.NewSettings(cfg.Mode, features)
	if err != nil {
		return nil, err
	}
	return &generator{settings: settings, verbose: cfg.Verbose}, nil
}

// expandSource rewrites every annotated item in src and reports how many
// there were.
func (g *generator) expandSource(src string) (string, int, error) {
	stream, err := tokens.Parse(src)
	if err != nil {
		return "", 0, err
	}
	anns, err := findAnnotations(src, stream)
	if err != nil {
		return "", 0, err
	}
	buf := newBuffer(src)
	for _, a := range anns {
		if err := g.expand(buf, src, a); err != nil {
			return "", 0, fmt.Errorf("%d: %w", lineAt(src, a.attrPos), err)
		}
	}
	out, err := buf.String()
	if err != nil {
		return "", 0, err
	}
	return out, len(anns), nil
}

// expand queues the rewrite of a single annotated item.
func (g *generator) expand(buf *buffer, src string, a annotation) error {
	line := lineAt(src, a.attrPos)
	switch a.kind {
	case attrMocked:
		if !g.settings.Mode.Instrumented() {
			// the item compiles as written
			buf.Delete(a.attrPos, skipSpace(src, a.attrEnd))
			return nil
		}
		exp, err := macro.ExpandMocked(g.settings, macro.Invocation{
			Args:   a.args,
			Item:   a.item,
			Source: src,
			Indent: indentAt(src, a.pos),
		})
		if err != nil {
			return err
		}
		g.logf("%d: %s renamed to %s, dispatching to %s", line, exp.Name, exp.Target, a.args)
		buf.Replace(a.pos, a.end, exp.Text)
	case attrMock:
		out := macro.Mock(g.settings, a.item)
		if len(out) == 0 {
			g.logf("%d: mock removed", line)
			buf.Delete(wholeLines(src, a.pos, a.end))
			return nil
		}
		buf.Replace(a.pos, a.end, tokens.Render(src, out))
	default:
		return fmt.Errorf("unknown attribute %q", a.kind)
	}
	return nil
}

func (g *generator) logf(format string, args ...any) {
	if g.verbose {
		log.Printf(format, args...)
	}
}
