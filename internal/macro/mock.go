package macro

import "github.com/calumari/covers/internal/tokens"

// Mock keeps a mock function in debug and test builds only. Instrumented
// builds get the item back made public, unless NoPub is set; release builds
// get an empty stream so the function is compiled away.
func Mock(s Settings, item tokens.Stream) tokens.Stream {
	if !s.Mode.Instrumented() {
		return tokens.Stream{}
	}
	if s.NoPub {
		return item
	}
	return MakePublic(item)
}
