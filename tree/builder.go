package tree

// VertexId is an opaque, representation-specific handle to a vertex
// within a single Tree. It is only meaningful in combination with the
// Tree it was obtained from.
type VertexId int

// Tree is the read-only surface shared by CompactTree and SimpleTree.
// Both representations are isomorphic for a given parse: same vertex
// count, same leaf taxon multiset, same parent relation up to
// relabelling of VertexId values.
type Tree interface {
	// NumVertices returns the total number of vertices, leaves and
	// internal, including the root.
	NumVertices() int

	// NumLeaves returns the number of vertices with no children. O(1).
	NumLeaves() int

	// Root returns the root vertex of the tree.
	Root() VertexId

	// Parent returns the parent of v, or (0, false) if v is the root.
	Parent(v VertexId) (VertexId, bool)

	// Children returns the children of v in the order they appeared in
	// the source. A leaf's children slice is empty.
	Children(v VertexId) []VertexId

	// BranchLength returns the length of v's incoming branch, if any.
	BranchLength(v VertexId) (float64, bool)

	// Taxon returns the taxon of v if v is a leaf, else (NoTaxon, false).
	Taxon(v VertexId) (TaxonId, bool)

	// Label returns the label attached to v, if any. Only internal
	// vertices carry a Label in this model; leaves are named via Taxon.
	Label(v VertexId) (string, bool)
}

// Builder is the capability set a Newick parser drives to assemble a
// tree without knowing which concrete representation it is building.
// Entering '(' issues BeginInternal, each child of that internal vertex
// issues either AddLeaf or a nested BeginInternal/.../EndInternal pair,
// and the branch length/label immediately following a closed child
// attach to "the vertex most recently added as a child of the current
// focus" via SetBranchLengthOfJustAttached/SetLabelOfJustClosed.
type Builder interface {
	// BeginInternal opens a new internal vertex as the current focus.
	BeginInternal()

	// EndInternal closes the current internal vertex. Its children list
	// is complete; the now-closed vertex becomes "the vertex most
	// recently added as a child" of the enclosing focus.
	EndInternal()

	// AddLeaf appends a leaf child, bound to taxon, to the current
	// focus. The new leaf becomes "the vertex most recently added as a
	// child" of the current focus.
	AddLeaf(taxon TaxonId)

	// SetLabelOfJustClosed attaches an internal-node label to the
	// vertex most recently closed by EndInternal.
	SetLabelOfJustClosed(label string)

	// SetBranchLengthOfJustAttached attaches a branch length to the
	// vertex (leaf or internal) most recently added as a child of the
	// current focus.
	SetBranchLengthOfJustAttached(length float64)

	// Finish yields the completed tree. Returns a *BuildError if
	// BeginInternal/EndInternal calls were unbalanced, or if no vertex
	// was ever produced.
	Finish() (Tree, error)
}
