package newick

import (
	"io"
	"strings"

	"github.com/tuftsbcb/phylotree/config"
	"github.com/tuftsbcb/phylotree/tree"
)

// Resolver maps a bare or quoted Newick label at a leaf position to a
// TaxonId. ParseString's default resolver interns directly into a
// fresh tree.TaxonTable; the nexus package supplies one that consults
// a TRANSLATE map first and falls back to interning only when running
// in non-strict mode.
type Resolver func(label string) (tree.TaxonId, error)

// NewBuilder returns the tree.Builder implied by cfg.Representation,
// pre-sized for a tree with approximately numLeavesHint leaves. Nexus
// uses this directly so every tree in a file is built with the same
// representation the caller asked for.
func NewBuilder(cfg config.Config, numLeavesHint int) tree.Builder {
	if cfg.Representation == config.Simple {
		return tree.NewSimpleTreeBuilder()
	}
	return tree.NewCompactTreeBuilder(numLeavesHint)
}

// ParseString parses exactly one Newick tree out of s, which must
// contain a tree terminated by ';' (trailing bytes after the
// semicolon are simply never read). The taxon table is created fresh
// and returned alongside the tree, since a CompactTree or SimpleTree
// is meaningless without the table that resolves its TaxonIds.
func ParseString(s string, cfg config.Config) (tree.Tree, *tree.TaxonTable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	table := tree.NewTaxonTable(16)
	builder := NewBuilder(cfg, 16)
	resolve := func(label string) (tree.TaxonId, error) {
		return table.Intern(label), nil
	}
	t, err := ParseTreeWithBuilder(strings.NewReader(s), builder, resolve)
	if err != nil {
		return nil, nil, err
	}
	return t, table, nil
}

// ParseTreeWithBuilder parses exactly one Newick tree from r, driving
// builder and resolving leaf labels via resolve. This is the entry
// point the nexus package uses to parse each "tree NAME = NEWICK;"
// line against a taxon table and translate map it already owns.
func ParseTreeWithBuilder(r io.Reader, builder tree.Builder, resolve Resolver) (tree.Tree, error) {
	lx := lex(r)
	p := &parser{lx: lx, builder: builder, resolve: resolve}
	return p.run()
}

// parser drives a tree.Builder through exactly one Newick tree. It
// tracks nesting with a plain int rather than an explicit frame stack
// of its own (the Builder implementations carry whatever per-depth
// state they need), and keeps at most one pushed-back token, so that
// thousands of nested parentheses add only a few words of parser state
// rather than stack frames.
type parser struct {
	lx      *lexer
	builder tree.Builder
	resolve Resolver

	hasPending bool
	pending    token
}

func (p *parser) next() token {
	if p.hasPending {
		p.hasPending = false
		return p.pending
	}
	return p.lx.nextItem()
}

func (p *parser) pushBack(t token) {
	p.pending, p.hasPending = t, true
}

func (p *parser) run() (tree.Tree, error) {
	depth := 0
	expectSubtree := true

	for {
		if expectSubtree {
			tok := p.next()
			switch tok.kind {
			case tokLParen:
				p.builder.BeginInternal()
				depth++
			case tokLabel:
				taxon, err := p.resolve(tok.val)
				if err != nil {
					return nil, err
				}
				p.builder.AddLeaf(taxon)
				if err := p.maybeBranchLength(); err != nil {
					return nil, err
				}
				expectSubtree = false
			case tokSemicolon:
				if depth == 0 {
					return nil, errEmptyTree(tok.pos)
				}
				return nil, errUnexpected(tok.pos, tok.kind.String(), "a label or '('")
			case tokComma, tokRParen:
				if depth > 0 {
					return nil, errEmptyChild(tok.pos)
				}
				return nil, errUnexpected(tok.pos, tok.kind.String(), "a label or '('")
			case tokError:
				return nil, &LexError{Pos: tok.pos, Message: tok.val}
			case tokEOF:
				return nil, errUnexpectedEOF(tok.pos)
			default:
				return nil, errUnexpected(tok.pos, tok.kind.String(), "a label or '('")
			}
			continue
		}

		tok := p.next()
		switch tok.kind {
		case tokComma:
			if depth == 0 {
				return nil, errUnexpected(tok.pos, tok.kind.String(), "';'")
			}
			expectSubtree = true
		case tokRParen:
			if depth == 0 {
				return nil, errUnexpected(tok.pos, tok.kind.String(), "';'")
			}
			p.builder.EndInternal()
			depth--
			if err := p.maybeInternalLabel(); err != nil {
				return nil, err
			}
			if err := p.maybeBranchLength(); err != nil {
				return nil, err
			}
		case tokSemicolon:
			if depth != 0 {
				return nil, errUnexpected(tok.pos, tok.kind.String(), "',' or ')'")
			}
			return p.builder.Finish()
		case tokError:
			return nil, &LexError{Pos: tok.pos, Message: tok.val}
		case tokEOF:
			return nil, errUnexpectedEOF(tok.pos)
		default:
			expected := "',' or ')'"
			if depth == 0 {
				expected = "';'"
			}
			return nil, errUnexpected(tok.pos, tok.kind.String(), expected)
		}
	}
}

// maybeBranchLength consumes an optional ':' number immediately
// following the vertex that was just attached, be it a leaf or an
// internal vertex whose ')' was just seen.
func (p *parser) maybeBranchLength() error {
	tok := p.next()
	if tok.kind != tokColon {
		p.pushBack(tok)
		return nil
	}
	numTok, lerr := p.lx.nextNumber()
	if lerr != nil {
		return lerr
	}
	p.builder.SetBranchLengthOfJustAttached(numTok.num)
	return nil
}

// maybeInternalLabel consumes an optional label immediately following
// the ')' that just closed an internal vertex. An absent label is not
// an error: per the grammar an internal vertex's label is optional,
// and the Builder simply never hears SetLabelOfJustClosed for it.
func (p *parser) maybeInternalLabel() error {
	tok := p.next()
	if tok.kind != tokLabel {
		p.pushBack(tok)
		return nil
	}
	p.builder.SetLabelOfJustClosed(tok.val)
	return nil
}
