package macro

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calumari/covers/internal/tokens"
)

const fooSrc = `fn foo(name: &str) -> String { format!("Response: Foo = {}", name) }`

func TestMocked(t *testing.T) {
	t.Run("renames the original and dispatches to the mock", func(t *testing.T) {
		exp, err := ExpandMocked(Settings{Mode: Test}, Invocation{Args: "mock_foo", Item: lex(t, fooSrc)})
		require.NoError(t, err)

		wantText := `pub fn _foo (name : & str) -> String { format ! ("Response: Foo = {}" , name) }

fn foo (name : & str) -> String {
    #[cfg(test)]
    return mock_foo(name);
    #[cfg(not(test))]
    return _foo(name);
}`
		assert.Equal(t, wantText, exp.Text)
		assert.Equal(t, `pub fn _foo (name : & str) -> String { format ! ("Response: Foo = {}" , name) } `+
			`fn foo (name : & str) -> String { # [cfg (test)] return mock_foo (name) ; # [cfg (not (test))] return _foo (name) ; }`,
			exp.Tokens.String())
		assert.Equal(t, "foo", exp.Name)
		assert.Equal(t, "_foo", exp.Target)
		assert.Equal(t, "name", exp.Args)
		assert.False(t, exp.ImplScope)
	})

	t.Run("keeps source spacing when the source is known", func(t *testing.T) {
		exp, err := ExpandMocked(Settings{Mode: Debug}, Invocation{Args: "mock_foo", Item: lex(t, fooSrc), Source: fooSrc, Indent: "  "})
		require.NoError(t, err)
		wantText := `pub fn _foo(name: &str) -> String { format!("Response: Foo = {}", name) }

  fn foo(name: &str) -> String {
      #[cfg(test)]
      return mock_foo(name);
      #[cfg(not(test))]
      return _foo(name);
  }`
		assert.Equal(t, wantText, exp.Text)
	})

	t.Run("release build returns the item unchanged", func(t *testing.T) {
		item := lex(t, fooSrc)
		out, err := Mocked(Settings{Mode: Release}, "mock_foo", item)
		require.NoError(t, err)
		assert.Equal(t, item, out)
	})

	t.Run("release build ignores invocation arguments", func(t *testing.T) {
		_, err := Mocked(Settings{Mode: Release}, "", lex(t, fooSrc))
		require.NoError(t, err)
	})

	t.Run("function without parameters calls with empty parentheses", func(t *testing.T) {
		exp, err := ExpandMocked(Settings{Mode: Test}, Invocation{Args: "mock_now", Item: lex(t, "fn now() -> u64 { 0 }")})
		require.NoError(t, err)
		assert.Equal(t, "", exp.Args)
		assert.Contains(t, exp.Text, "return mock_now();")
		assert.Contains(t, exp.Text, "return _now();")
	})

	t.Run("receiver method is qualified with Self", func(t *testing.T) {
		exp, err := ExpandMocked(Settings{Mode: Test}, Invocation{
			Args: "module::yyy",
			Item: lex(t, `fn xxx(self, name: &str) -> String { name.to_string() }`),
		})
		require.NoError(t, err)
		assert.True(t, exp.ImplScope)
		assert.Contains(t, exp.Text, "return module::yyy(self, name);")
		assert.Contains(t, exp.Text, "return Self::_xxx(self, name);")
	})

	t.Run("borrowed receiver with lifetime is qualified with Self", func(t *testing.T) {
		exp, err := ExpandMocked(Settings{Mode: Test}, Invocation{
			Args: "mock_get",
			Item: lex(t, `fn get(&'a mut self) -> u8 { 1 }`),
		})
		require.NoError(t, err)
		assert.True(t, exp.ImplScope)
		assert.Contains(t, exp.Text, "return Self::_get(self);")
	})

	t.Run("scope option qualifies a static method", func(t *testing.T) {
		exp, err := ExpandMocked(Settings{Mode: Test}, Invocation{
			Args: "Struct::mock_baz, scope = impl",
			Item: lex(t, `fn baz(name: &str) -> String { name.to_string() }`),
		})
		require.NoError(t, err)
		assert.True(t, exp.ImplScope)
		assert.Contains(t, exp.Text, "return Struct::mock_baz(name);")
		assert.Contains(t, exp.Text, "return Self::_baz(name);")
	})

	t.Run("configured prefixes", func(t *testing.T) {
		for _, prefix := range []string{"_", "__", "_orig_"} {
			exp, err := ExpandMocked(Settings{Mode: Test, Prefix: prefix}, Invocation{Args: "m", Item: lex(t, "fn f() {}")})
			require.NoError(t, err)
			assert.Equal(t, prefix+"f", exp.Target)
			assert.True(t, strings.HasPrefix(exp.Text, "pub fn "+prefix+"f ()"), exp.Text)
		}
	})

	t.Run("already public original keeps a single pub", func(t *testing.T) {
		exp, err := ExpandMocked(Settings{Mode: Test}, Invocation{Args: "m", Item: lex(t, "pub fn f() {}")})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(exp.Text, "pub fn _f () {}"), exp.Text)
		assert.Contains(t, exp.Text, "\n\npub fn f () {\n")
	})

	t.Run("attributes and generics are kept on both functions", func(t *testing.T) {
		exp, err := ExpandMocked(Settings{Mode: Test}, Invocation{
			Args: "mock_first",
			Item: lex(t, "#[inline] fn first<T: Clone>(items: &[T]) -> Option<T> where T: Default { items.first().cloned() }"),
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(exp.Text, "# [inline] pub fn _first < T : Clone > (items : & [T]) -> Option < T > where T : Default {"), exp.Text)
		assert.Contains(t, exp.Text, "# [inline] fn first < T : Clone > (items : & [T]) -> Option < T > where T : Default {\n")
		assert.Contains(t, exp.Text, "return _first(items);")
	})

	t.Run("visibility restriction is not mistaken for the argument list", func(t *testing.T) {
		exp, err := ExpandMocked(Settings{Mode: Test}, Invocation{Args: "m", Item: lex(t, "pub(crate) fn f(a: u8) {}")})
		require.NoError(t, err)
		assert.Equal(t, "a", exp.Args)
	})

	t.Run("raw identifier name", func(t *testing.T) {
		exp, err := ExpandMocked(Settings{Mode: Test}, Invocation{Args: "m", Item: lex(t, "fn r#match() {}")})
		require.NoError(t, err)
		assert.Equal(t, "_match", exp.Target)
		assert.Contains(t, exp.Text, "fn r#match () {\n")
	})
}

func TestMockedErrors(t *testing.T) {
	t.Run("missing reference", func(t *testing.T) {
		_, err := Mocked(Settings{Mode: Test}, "", lex(t, fooSrc))
		require.ErrorIs(t, err, ErrMissingReference)
	})

	t.Run("malformed option", func(t *testing.T) {
		_, err := Mocked(Settings{Mode: Debug}, "mock_foo, scope", lex(t, fooSrc))
		require.ErrorIs(t, err, ErrMalformedOption)
	})

	t.Run("item without body", func(t *testing.T) {
		_, err := Mocked(Settings{Mode: Test}, "m", lex(t, "fn f(a: u8);"))
		require.ErrorIs(t, err, ErrNotFunction)
		assert.Contains(t, err.Error(), "no body found")
	})

	t.Run("item without fn keyword", func(t *testing.T) {
		_, err := Mocked(Settings{Mode: Test}, "m", lex(t, "struct S {}"))
		require.ErrorIs(t, err, ErrNotFunction)
		assert.Contains(t, err.Error(), "no fn keyword found")
	})

	t.Run("reference that breaks the expansion", func(t *testing.T) {
		_, err := Mocked(Settings{Mode: Test}, "mock_foo(", lex(t, fooSrc))
		require.ErrorIs(t, err, ErrMalformedExpansion)
		var se *tokens.SyntaxError
		require.ErrorAs(t, err, &se)
	})

	t.Run("unknown prefix", func(t *testing.T) {
		_, err := Mocked(Settings{Mode: Test, Prefix: "x_"}, "m", lex(t, fooSrc))
		require.ErrorIs(t, err, ErrUnknownPrefix)
	})
}

func TestMock(t *testing.T) {
	item := lex(t, "fn mock_bar(name: &str) -> String { name.into() }")

	t.Run("debug build makes the mock public", func(t *testing.T) {
		assert.Equal(t, "pub fn mock_bar (name : & str) -> String { name . into () }", Mock(Settings{Mode: Debug}, item).String())
	})

	t.Run("test build makes the mock public", func(t *testing.T) {
		assert.True(t, Mock(Settings{Mode: Test}, item)[0].IsIdent("pub"))
	})

	t.Run("no-pub keeps the declared visibility", func(t *testing.T) {
		assert.Equal(t, item, Mock(Settings{Mode: Test, NoPub: true}, item))
	})

	t.Run("release build compiles the mock away", func(t *testing.T) {
		out := Mock(Settings{Mode: Release}, item)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})
}
