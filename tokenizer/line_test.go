// Copyright © 2024 The StrataRegula authors

package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeLine(t *testing.T) {
	t.Run("blank", func(t *testing.T) {
		assert.Empty(t, TokenizeLine("   "))
	})
	t.Run("key value", func(t *testing.T) {
		toks := TokenizeLine("  host: localhost")
		require.Len(t, toks, 2)
		assert.Equal(t, TokenContext{Token: "host", Type: TokenKey, Depth: 1, Offset: 2}, toks[0])
		assert.Equal(t, TokenContext{Token: "localhost", Type: TokenValue, Depth: 2, Offset: 8}, toks[1])
	})
	t.Run("empty value is a completion point", func(t *testing.T) {
		toks := TokenizeLine("  host:")
		require.Len(t, toks, 2)
		assert.Equal(t, TokenValue, toks[1].Type)
		assert.Equal(t, "", toks[1].Token)
		assert.Equal(t, 7, toks[1].Offset)
		assert.Equal(t, 2, toks[1].Depth)
		assert.True(t, toks[1].CompletionPoint)
	})
	t.Run("dotted value", func(t *testing.T) {
		toks := TokenizeLine("target:   web.")
		require.Len(t, toks, 2)
		assert.Equal(t, TokenPartialValue, toks[1].Type)
		assert.Equal(t, 10, toks[1].Offset)
		assert.True(t, toks[1].CompletionPoint)
	})
	t.Run("partial key", func(t *testing.T) {
		toks := TokenizeLine("    prod.")
		require.Len(t, toks, 1)
		assert.Equal(t, TokenContext{Token: "prod.", Type: TokenPartialKey, Depth: 2, Offset: 4, CompletionPoint: true}, toks[0])
	})
	t.Run("key after list marker", func(t *testing.T) {
		toks := TokenizeLine("  -   name: checkout")
		require.Len(t, toks, 2)
		assert.Equal(t, TokenContext{Token: "name", Type: TokenKey, Depth: 1, Offset: 6}, toks[0])
		assert.Equal(t, "checkout", toks[1].Token)
		assert.Equal(t, 12, toks[1].Offset)
	})
	t.Run("dash without space stays in key", func(t *testing.T) {
		toks := TokenizeLine("-x: 1")
		require.Len(t, toks, 2)
		assert.Equal(t, "-x", toks[0].Token)
		assert.Equal(t, 0, toks[0].Offset)
	})
	t.Run("list item", func(t *testing.T) {
		toks := TokenizeLine("  - frontend")
		require.Len(t, toks, 1)
		assert.Equal(t, TokenListItem, toks[0].Type)
		assert.False(t, toks[0].CompletionPoint)
	})
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "key", TokenKey.String())
	assert.Equal(t, "partial_key", TokenPartialKey.String())
	assert.Equal(t, "list_item", TokenListItem.String())
	assert.Equal(t, "unknown", TokenType(42).String())
}

func TestFindCompletionContext(t *testing.T) {
	text := "db:\n  host: local\n  prod."

	t.Run("value token", func(t *testing.T) {
		tok, ok := FindCompletionContext(text, 4+9)
		require.True(t, ok)
		assert.Equal(t, "local", tok.Token)
		assert.Equal(t, TokenValue, tok.Type)
	})
	t.Run("key token", func(t *testing.T) {
		tok, ok := FindCompletionContext(text, 1)
		require.True(t, ok)
		assert.Equal(t, "db", tok.Token)
		assert.Equal(t, TokenKey, tok.Type)
	})
	t.Run("end of dotted key", func(t *testing.T) {
		tok, ok := FindCompletionContext(text, len(text))
		require.True(t, ok)
		assert.Equal(t, "prod.", tok.Token)
		assert.True(t, tok.CompletionPoint)
	})
	t.Run("synthesized in indentation", func(t *testing.T) {
		tok, ok := FindCompletionContext(text, 4)
		require.True(t, ok)
		assert.Equal(t, TokenContext{Type: TokenPartialKey, Depth: 1, Offset: 0, CompletionPoint: true}, tok)
	})
	t.Run("synthesized on blank line", func(t *testing.T) {
		tok, ok := FindCompletionContext("a: 1\n\nb: 2", 5)
		require.True(t, ok)
		assert.Equal(t, TokenPartialKey, tok.Type)
		assert.True(t, tok.CompletionPoint)
	})
	t.Run("out of range", func(t *testing.T) {
		_, ok := FindCompletionContext(text, len(text)+1)
		assert.False(t, ok)
		_, ok = FindCompletionContext(text, -1)
		assert.False(t, ok)
	})
}
