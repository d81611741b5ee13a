package tree

import "fmt"

// BuildErrorKind distinguishes the ways a Builder can fail to produce a
// Tree in Finish.
type BuildErrorKind int

const (
	// Unbalanced means BeginInternal/EndInternal calls did not nest
	// correctly — Finish was called with an internal vertex still open.
	Unbalanced BuildErrorKind = iota
	// NoRoot means Finish was called before any vertex was produced.
	NoRoot
)

func (k BuildErrorKind) String() string {
	switch k {
	case Unbalanced:
		return "unbalanced"
	case NoRoot:
		return "no root"
	}
	return "unknown"
}

// BuildError is returned by Builder.Finish when the sequence of builder
// events did not describe a well-formed tree.
type BuildError struct {
	Kind BuildErrorKind
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build error: %s", e.Kind)
}

func errUnbalanced() error { return &BuildError{Kind: Unbalanced} }
func errNoRoot() error     { return &BuildError{Kind: NoRoot} }
