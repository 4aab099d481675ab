package macro

import "errors"

// Configuration errors, reported before any rewriting.
var (
	ErrConflictingPrefix = errors.New("only a single prefix feature may be selected: '_', '__' or '_orig_'")
	ErrUnknownPrefix     = errors.New("unknown original function prefix")
	ErrUnknownBuildMode  = errors.New("unknown build mode")
)

// Invocation argument errors.
var (
	ErrMissingReference = errors.New("at least a fully-qualified reference to a mock is required")
	ErrMalformedOption  = errors.New("extra parameters must be given in `key = value` format")
)

// Structural errors: the annotated item was not recognized as a function, or
// the composed expansion is not a well-formed token stream.
var (
	ErrNotFunction        = errors.New("annotated item is not a function definition")
	ErrMalformedExpansion = errors.New("expansion is not a well-formed token stream")
)
