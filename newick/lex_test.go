package newick

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, s string) []token {
	t.Helper()
	lx := lex(strings.NewReader(s))
	var toks []token
	for {
		tok := lx.nextItem()
		toks = append(toks, tok)
		if tok.kind == tokEOF || tok.kind == tokError {
			break
		}
	}
	return toks
}

func TestLexerStructuralTokens(t *testing.T) {
	toks := lexAll(t, "(A,B)C;")
	kinds := make([]tokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.kind
	}
	assert.Equal(t, []tokenKind{
		tokLParen, tokLabel, tokComma, tokLabel, tokRParen, tokLabel, tokSemicolon, tokEOF,
	}, kinds)
}

func TestLexerQuotedLabelUnescapesDoubledQuote(t *testing.T) {
	toks := lexAll(t, "'Homo ''sapiens''':1;")
	require.True(t, len(toks) >= 1)
	assert.Equal(t, tokLabel, toks[0].kind)
	assert.Equal(t, "Homo 'sapiens'", toks[0].val)
}

func TestLexerBracketCommentIsDiscarded(t *testing.T) {
	toks := lexAll(t, "(A[this is a comment],B);")
	kinds := make([]tokenKind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.kind)
	}
	assert.Equal(t, []tokenKind{
		tokLParen, tokLabel, tokComma, tokLabel, tokRParen, tokSemicolon, tokEOF,
	}, kinds)
}

func TestLexerNestedBracketComment(t *testing.T) {
	toks := lexAll(t, "A[outer [inner] still outer]B;")
	require.Len(t, toks, 3)
	assert.Equal(t, tokLabel, toks[0].kind)
	assert.Equal(t, "A", toks[0].val)
	assert.Equal(t, tokLabel, toks[1].kind)
	assert.Equal(t, "B", toks[1].val)
}

func TestLexerUnterminatedCommentIsError(t *testing.T) {
	toks := lexAll(t, "A[unterminated")
	assert.Equal(t, tokError, toks[len(toks)-1].kind)
}

func TestLexerUnterminatedQuotedLabelIsError(t *testing.T) {
	toks := lexAll(t, "'unterminated")
	assert.Equal(t, tokError, toks[len(toks)-1].kind)
}

func TestLexerNextNumberAfterColon(t *testing.T) {
	lx := lex(strings.NewReader(":0.125,"))
	colon := lx.nextItem()
	require.Equal(t, tokColon, colon.kind)

	num, err := lx.nextNumber()
	require.NoError(t, err)
	assert.InDelta(t, 0.125, num.num, 1e-12)

	next := lx.nextItem()
	assert.Equal(t, tokComma, next.kind)
}

func TestLexerNextNumberRejectsMissingDigits(t *testing.T) {
	lx := lex(strings.NewReader(":,"))
	require.Equal(t, tokColon, lx.nextItem().kind)
	_, err := lx.nextNumber()
	assert.Error(t, err)
}

func TestLexerNextNumberSkipsCommentBeforeDigits(t *testing.T) {
	lx := lex(strings.NewReader(": [a comment] 2.5e-3;"))
	require.Equal(t, tokColon, lx.nextItem().kind)
	num, err := lx.nextNumber()
	require.NoError(t, err)
	assert.InDelta(t, 2.5e-3, num.num, 1e-12)
}
