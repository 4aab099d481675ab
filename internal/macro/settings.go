package macro

import (
	"fmt"
	"slices"
	"strings"
)

// BuildMode is the compilation profile the expansion is produced for.
type BuildMode int

const (
	Release BuildMode = iota
	Debug
	Test
)

func (m BuildMode) String() string {
	switch m {
	case Release:
		return "release"
	case Debug:
		return "debug"
	case Test:
		return "test"
	}
	return fmt.Sprintf("BuildMode(%d)", int(m))
}

// Instrumented reports whether mocking machinery is compiled in, which is the
// case for debug and test builds.
func (m BuildMode) Instrumented() bool { return m == Debug || m == Test }

// ParseBuildMode parses a build mode name, case-insensitively.
func ParseBuildMode(s string) (BuildMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "release":
		return Release, nil
	case "debug":
		return Debug, nil
	case "test":
		return Test, nil
	}
	return Release, fmt.Errorf("%w: %q", ErrUnknownBuildMode, s)
}

// Prefixes prepended to the name of the preserved original function. Each
// is also the name of the crate feature that selects it.
const (
	PrefixUnderscore = "_"
	PrefixDouble     = "__"
	PrefixOrig       = "_orig_"
)

// FeatureNoPub disables visibility elevation for `mock` functions.
const FeatureNoPub = "no-pub"

var prefixFeatures = []string{PrefixUnderscore, PrefixDouble, PrefixOrig}

// SelectPrefix picks the original function prefix from a feature list.
// Without a prefix feature the default `_` is used; naming two different
// prefixes is an error.
func SelectPrefix(features []string) (string, error) {
	var selected []string
	for _, f := range features {
		f = strings.TrimSpace(f)
		if slices.Contains(prefixFeatures, f) && !slices.Contains(selected, f) {
			selected = append(selected, f)
		}
	}
	switch len(selected) {
	case 0:
		return PrefixUnderscore, nil
	case 1:
		return selected[0], nil
	}
	return "", fmt.Errorf("%w (got %s)", ErrConflictingPrefix, strings.Join(selected, ", "))
}

// Settings is the build configuration shared by every expansion in a run.
type Settings struct {
	Mode BuildMode
	// Prefix is prepended to the preserved original's name; empty means `_`.
	Prefix string
	// NoPub leaves `mock` functions at their declared visibility.
	NoPub bool
}

// NewSettings builds Settings for mode from crate features.
func NewSettings(mode BuildMode, features []string) (Settings, error) {
	prefix, err := SelectPrefix(features)
	if err != nil {
		return Settings{}, err
	}
	noPub := slices.ContainsFunc(features, func(f string) bool {
		return strings.TrimSpace(f) == FeatureNoPub
	})
	return Settings{Mode: mode, Prefix: prefix, NoPub: noPub}, nil
}

// Validate checks that the prefix is one of the supported literals.
func (s Settings) Validate() error {
	if s.Prefix != "" && !slices.Contains(prefixFeatures, s.Prefix) {
		return fmt.Errorf("%w: %q", ErrUnknownPrefix, s.Prefix)
	}
	return nil
}

func (s Settings) prefix() string {
	if s.Prefix == "" {
		return PrefixUnderscore
	}
	return s.Prefix
}
