package tree

// TaxonId is a dense, zero-based identifier assigned to a taxon name in
// the order it was first seen by a TaxonTable. Once issued, an id never
// changes and is never reused.
type TaxonId int

// NoTaxon is returned by Taxon for internal (non-leaf) vertices.
const NoTaxon TaxonId = -1

// TaxonTable is an insertion-ordered set of taxon names, each assigned a
// stable TaxonId. A TaxonTable is typically shared across every tree
// parsed from a single Newick call or Nexus file, so that thousands of
// trees over the same taxa pay for the name strings exactly once.
type TaxonTable struct {
	names []string
	ids   map[string]TaxonId
}

// NewTaxonTable returns an empty table pre-sized for sizeHint taxa.
func NewTaxonTable(sizeHint int) *TaxonTable {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &TaxonTable{
		names: make([]string, 0, sizeHint),
		ids:   make(map[string]TaxonId, sizeHint),
	}
}

// Intern returns the TaxonId for name, assigning a new one in insertion
// order if name has not been seen before. Intern is idempotent: calling
// it twice with the same name returns the same id.
func (t *TaxonTable) Intern(name string) TaxonId {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := TaxonId(len(t.names))
	t.names = append(t.names, name)
	t.ids[name] = id
	return id
}

// Get returns the TaxonId for name, if it has been interned.
func (t *TaxonTable) Get(name string) (TaxonId, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// NameOf returns the name for id. Panics if id is out of range, which
// indicates a bug in the caller (every TaxonId handed out by a tree
// built against this table must be in range).
func (t *TaxonTable) NameOf(id TaxonId) string {
	return t.names[id]
}

// Len returns the number of distinct taxa interned so far.
func (t *TaxonTable) Len() int {
	return len(t.names)
}

// Names returns the interned names in insertion (TaxonId) order. The
// returned slice must not be mutated by the caller.
func (t *TaxonTable) Names() []string {
	return t.names
}
