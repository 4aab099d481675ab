package macro

import (
	"fmt"
	"strings"
)

// Params are the arguments of a `mocked` invocation: the path of the mock
// function followed by optional `key = value` options.
type Params struct {
	Reference string
	// Options holds lower-cased keys and values; the last duplicate wins.
	Options map[string]string
}

// ParseParams parses the raw argument text of a `mocked` invocation, e.g.
// `Struct::mock_baz, scope = impl`.
func ParseParams(args string) (*Params, error) {
	parts := strings.Split(args, ",")
	p := &Params{
		Reference: strings.TrimSpace(parts[0]),
		Options:   make(map[string]string),
	}
	if p.Reference == "" {
		return nil, ErrMissingReference
	}
	for _, part := range parts[1:] {
		entry := strings.Split(part, "=")
		if len(entry) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedOption, strings.TrimSpace(part))
		}
		key := strings.ToLower(strings.TrimSpace(entry[0]))
		p.Options[key] = strings.ToLower(strings.TrimSpace(entry[1]))
	}
	return p, nil
}

// Option returns the value of option key.
func (p *Params) Option(key string) (string, bool) {
	v, ok := p.Options[strings.ToLower(key)]
	return v, ok
}

// ImplScope reports whether `scope = impl` was given, marking a function
// declared inside an impl block whose original must be called as `Self::`.
func (p *Params) ImplScope() bool {
	v, ok := p.Option(optionScope)
	return ok && v == scopeImpl
}

const (
	optionScope = "scope"
	scopeImpl   = "impl"
)
