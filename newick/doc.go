/*
Package newick provides a lexer and parser for the Newick tree format:
nested parenthesised lists of labelled, optionally branch-lengthed
vertices terminated by a semicolon. See
http://evolution.genetics.washington.edu/phylip/newick_doc.html for an
informal description of the grammar.

Quoted labels ('...', with '' escaping a literal quote) and
square-bracket comments (including [&...]-shaped ones, which are
discarded uniformly — this package never interprets vertex
annotations) are both recognized. The parser drives a tree.Builder
rather than constructing a concrete representation itself, so the same
grammar handling works for both the compact and simple tree.Tree
implementations.

Parsing is iterative rather than recursive: a single int tracks
nesting depth and the Builder being driven carries whatever per-depth
state it needs, so a pathologically deep input (thousands of nested
parentheses) cannot exhaust the goroutine stack.
*/
package newick
