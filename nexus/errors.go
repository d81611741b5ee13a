package nexus

import "fmt"

// NexusErrorKind distinguishes the structural ways a Nexus stream can
// fail to match the block/command grammar.
type NexusErrorKind int

const (
	// MissingHeader means the stream did not begin with "#NEXUS".
	MissingHeader NexusErrorKind = iota
	// MalformedBlock means a BEGIN/END boundary or command was
	// malformed (missing name, missing terminating ';', unexpected
	// EOF mid-block).
	MalformedBlock
	// UnknownCommand means an unrecognized command appeared inside
	// TREES under StrictTranslate.
	UnknownCommand
	// DuplicateTaxon means TAXLABELS named the same taxon twice.
	DuplicateTaxon
	// IO wraps an underlying read failure.
	IO
)

func (k NexusErrorKind) String() string {
	switch k {
	case MissingHeader:
		return "missing #NEXUS header"
	case MalformedBlock:
		return "malformed block"
	case UnknownCommand:
		return "unknown command"
	case DuplicateTaxon:
		return "duplicate taxon"
	case IO:
		return "io error"
	}
	return "unknown nexus error"
}

// NexusError reports a structural problem in the block/command
// structure of a Nexus stream, with the block name and byte position
// where the problem was found.
type NexusError struct {
	Kind    NexusErrorKind
	Block   string
	Pos     int
	Message string
}

func (e *NexusError) Error() string {
	if e.Block != "" {
		return fmt.Sprintf("nexus: %s in block %q at byte %d: %s", e.Kind, e.Block, e.Pos, e.Message)
	}
	return fmt.Sprintf("nexus: %s at byte %d: %s", e.Kind, e.Pos, e.Message)
}

func errMissingHeader(pos int) error {
	return &NexusError{Kind: MissingHeader, Pos: pos, Message: "expected '#NEXUS' as the first token"}
}

func errMalformedBlock(block string, pos int, format string, v ...interface{}) error {
	return &NexusError{Kind: MalformedBlock, Block: block, Pos: pos, Message: fmt.Sprintf(format, v...)}
}

func errUnknownCommand(block, cmd string, pos int) error {
	return &NexusError{Kind: UnknownCommand, Block: block, Pos: pos, Message: fmt.Sprintf("unrecognized command %q", cmd)}
}

func errDuplicateTaxon(name string, pos int) error {
	return &NexusError{Kind: DuplicateTaxon, Block: "TAXA", Pos: pos, Message: fmt.Sprintf("taxon %q already declared", name)}
}

func errUnterminatedComment(pos int) error {
	return &NexusError{Kind: MalformedBlock, Pos: pos, Message: "unterminated comment"}
}

func errUnterminatedQuote(pos int) error {
	return &NexusError{Kind: MalformedBlock, Pos: pos, Message: "unterminated quoted word"}
}

func errUnexpectedEOFInTree(pos int) error {
	return &NexusError{Kind: MalformedBlock, Block: "TREES", Pos: pos, Message: "unexpected end of input inside tree statement"}
}

// TranslateError reports, under StrictTranslate, either a TRANSLATE
// entry naming a taxon absent from a prior TAXA block, or a tree-body
// leaf label that has no TRANSLATE entry (LocalID and Name are then
// both that label, and Pos is 0).
type TranslateError struct {
	LocalID string
	Name    string
	Pos     int
}

func (e *TranslateError) Error() string {
	return fmt.Sprintf("nexus: unresolved translate entry %q -> %q at byte %d", e.LocalID, e.Name, e.Pos)
}
