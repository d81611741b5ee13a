package config

import "github.com/sirupsen/logrus"

// Representation selects which concrete tree.Builder a parse drives.
type Representation int

const (
	// Compact builds a structure-of-arrays tree.CompactTree, the
	// default: dense, shares well across thousands of trees.
	Compact Representation = iota
	// Simple builds a pointer-based tree.SimpleTree, convenient for
	// small trees or interactive pointer-chasing traversal.
	Simple
)

func (r Representation) String() string {
	if r == Simple {
		return "simple"
	}
	return "compact"
}

// Mode selects whether a Nexus parse materializes every retained tree
// up front or hands the caller a lazy iterator.
type Mode int

const (
	// Eager parses every retained tree before returning.
	Eager Mode = iota
	// Lazy returns a nexus.TreeIterator that parses on demand.
	Lazy
)

func (m Mode) String() string {
	if m == Lazy {
		return "lazy"
	}
	return "eager"
}

// Config holds the options shared by every entry point in this
// module. The zero value is not valid; use Default() and override the
// fields that matter, or construct a literal and call Validate.
type Config struct {
	// Representation selects compact (default) or simple trees.
	Representation Representation

	// Mode selects eager (default) or lazy Nexus iteration. Ignored by
	// newick.ParseString, which always produces exactly one tree.
	Mode Mode

	// SkipFirst unconditionally drops the first N tree declarations,
	// applied before BurninFraction.
	SkipFirst int

	// BurninFraction drops the first floor(f*total) tree declarations,
	// applied after SkipFirst. Must be in [0, 1).
	BurninFraction float64

	// SampleEvery keeps every k-th surviving tree declaration. Must be
	// a positive integer; 1 keeps everything.
	SampleEvery int

	// MaxTrees stops after N kept trees. Zero means unbounded.
	MaxTrees int

	// StrictTranslate, when true, turns an unresolved TRANSLATE entry
	// into a *nexus.TranslateError instead of a logged warning.
	StrictTranslate bool

	// BurninTotalHint, when non-zero, is used as the total tree count
	// for BurninFraction instead of performing a seek-based pre-pass.
	// Required when BurninFraction is non-zero and the underlying
	// source is not an io.Seeker.
	BurninTotalHint int

	// Logger receives the Nexus driver's warning-level recoverable
	// conditions (non-strict translate mismatches, skipped unrecognized
	// TREES commands). Unknown blocks are skipped without logging.
	// Defaults to logrus.StandardLogger() when nil.
	Logger *logrus.Logger
}

// Default returns the documented default Config: compact
// representation, eager mode, no skipping or sampling, non-strict
// translate.
func Default() Config {
	return Config{
		Representation: Compact,
		Mode:           Eager,
		SampleEvery:    1,
		Logger:         logrus.StandardLogger(),
	}
}

// Validate checks the numeric invariants spelled out in the option
// table: BurninFraction in [0,1), SampleEvery strictly positive,
// SkipFirst and MaxTrees non-negative.
func (c Config) Validate() error {
	if c.BurninFraction < 0 || c.BurninFraction >= 1 {
		return errInvalidBurninFraction(c.BurninFraction)
	}
	if c.SampleEvery <= 0 {
		return errInvalidSampleEvery(c.SampleEvery)
	}
	if c.SkipFirst < 0 {
		return errInvalidSkipFirst(c.SkipFirst)
	}
	if c.MaxTrees < 0 {
		return errInvalidMaxTrees(c.MaxTrees)
	}
	return nil
}

// logger returns c.Logger, falling back to logrus's shared standard
// logger so callers never have to populate this field for the common
// case.
func (c Config) logger() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}

// LoggerOrDefault is the exported accessor nexus uses, keeping the fallback
// logic in one place rather than duplicated at every call site.
func (c Config) LoggerOrDefault() *logrus.Logger {
	return c.logger()
}
