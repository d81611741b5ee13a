package tree

// CompactTree is a structure-of-arrays encoding of a rooted tree,
// designed so that a collection of thousands of such trees sharing one
// TaxonTable costs, per tree, roughly one int32 + one float64 + one
// TaxonId per vertex (plus two flag bytes and the child-offset table),
// with no per-vertex heap allocation.
//
// Vertices are packed in the order EndInternal/AddLeaf events close
// them, which for a well-formed parse is a post-order traversal; the
// root is always the last vertex appended.
type CompactTree struct {
	parent       []int32
	hasBranch    []bool
	branchLength []float64
	isLeaf       []bool
	taxon        []TaxonId
	labels       map[int32]string

	// CSR child-offset table, built once in Finish.
	childStart []int32
	childIdx   []int32

	root      VertexId
	numLeaves int
}

const noParent int32 = -1

func (c *CompactTree) NumVertices() int { return len(c.parent) }
func (c *CompactTree) NumLeaves() int   { return c.numLeaves }
func (c *CompactTree) Root() VertexId   { return c.root }

func (c *CompactTree) Parent(v VertexId) (VertexId, bool) {
	p := c.parent[v]
	if p == noParent {
		return 0, false
	}
	return VertexId(p), true
}

func (c *CompactTree) Children(v VertexId) []VertexId {
	start, end := c.childStart[v], c.childStart[v+1]
	if start == end {
		return nil
	}
	out := make([]VertexId, end-start)
	for i, idx := range c.childIdx[start:end] {
		out[i] = VertexId(idx)
	}
	return out
}

func (c *CompactTree) BranchLength(v VertexId) (float64, bool) {
	if !c.hasBranch[v] {
		return 0, false
	}
	return c.branchLength[v], true
}

func (c *CompactTree) Taxon(v VertexId) (TaxonId, bool) {
	if !c.isLeaf[v] {
		return NoTaxon, false
	}
	return c.taxon[v], true
}

func (c *CompactTree) Label(v VertexId) (string, bool) {
	if c.labels == nil {
		return "", false
	}
	l, ok := c.labels[int32(v)]
	return l, ok
}

// compactFrame tracks the in-progress children of one open internal vertex
// during construction.
type compactFrame struct {
	children []int32
}

// CompactTreeBuilder implements Builder, producing a CompactTree.
type CompactTreeBuilder struct {
	parent       []int32
	hasBranch    []bool
	branchLength []float64
	isLeaf       []bool
	taxon        []TaxonId
	labels       map[int32]string
	childrenTmp  [][]int32

	stack      []compactFrame
	lastVertex int32
	haveLast   bool

	rootSet   bool
	rootIndex int32
	numLeaves int
}

// NewCompactTreeBuilder returns a builder pre-sized for a tree with
// approximately numLeavesHint leaves (0 if unknown).
func NewCompactTreeBuilder(numLeavesHint int) *CompactTreeBuilder {
	cap := 0
	if numLeavesHint > 0 {
		cap = 2*numLeavesHint - 1
	}
	return &CompactTreeBuilder{
		parent:       make([]int32, 0, cap),
		hasBranch:    make([]bool, 0, cap),
		branchLength: make([]float64, 0, cap),
		isLeaf:       make([]bool, 0, cap),
		taxon:        make([]TaxonId, 0, cap),
		childrenTmp:  make([][]int32, 0, cap),
	}
}

func (b *CompactTreeBuilder) appendVertex(isLeaf bool, taxon TaxonId, children []int32) int32 {
	idx := int32(len(b.parent))
	b.parent = append(b.parent, noParent)
	b.hasBranch = append(b.hasBranch, false)
	b.branchLength = append(b.branchLength, 0)
	b.isLeaf = append(b.isLeaf, isLeaf)
	b.taxon = append(b.taxon, taxon)
	b.childrenTmp = append(b.childrenTmp, children)
	for _, c := range children {
		b.parent[c] = idx
	}
	return idx
}

func (b *CompactTreeBuilder) BeginInternal() {
	b.stack = append(b.stack, compactFrame{})
}

func (b *CompactTreeBuilder) EndInternal() {
	n := len(b.stack)
	frame := b.stack[n-1]
	b.stack = b.stack[:n-1]

	idx := b.appendVertex(false, NoTaxon, frame.children)
	b.lastVertex, b.haveLast = idx, true

	if len(b.stack) == 0 {
		b.rootSet, b.rootIndex = true, idx
	} else {
		parent := &b.stack[len(b.stack)-1]
		parent.children = append(parent.children, idx)
	}
}

func (b *CompactTreeBuilder) AddLeaf(taxon TaxonId) {
	idx := b.appendVertex(true, taxon, nil)
	b.lastVertex, b.haveLast = idx, true
	b.numLeaves++

	if len(b.stack) == 0 {
		b.rootSet, b.rootIndex = true, idx
	} else {
		parent := &b.stack[len(b.stack)-1]
		parent.children = append(parent.children, idx)
	}
}

func (b *CompactTreeBuilder) SetLabelOfJustClosed(label string) {
	if !b.haveLast {
		return
	}
	if b.labels == nil {
		b.labels = make(map[int32]string)
	}
	b.labels[b.lastVertex] = label
}

func (b *CompactTreeBuilder) SetBranchLengthOfJustAttached(length float64) {
	if !b.haveLast {
		return
	}
	b.hasBranch[b.lastVertex] = true
	b.branchLength[b.lastVertex] = length
}

func (b *CompactTreeBuilder) Finish() (Tree, error) {
	if len(b.stack) != 0 {
		return nil, errUnbalanced()
	}
	if !b.rootSet {
		return nil, errNoRoot()
	}

	n := len(b.parent)
	childStart := make([]int32, n+1)
	for i := 0; i < n; i++ {
		childStart[i+1] = childStart[i] + int32(len(b.childrenTmp[i]))
	}
	childIdx := make([]int32, childStart[n])
	for i := 0; i < n; i++ {
		copy(childIdx[childStart[i]:childStart[i+1]], b.childrenTmp[i])
	}

	return &CompactTree{
		parent:       b.parent,
		hasBranch:    b.hasBranch,
		branchLength: b.branchLength,
		isLeaf:       b.isLeaf,
		taxon:        b.taxon,
		labels:       b.labels,
		childStart:   childStart,
		childIdx:     childIdx,
		root:         VertexId(b.rootIndex),
		numLeaves:    b.numLeaves,
	}, nil
}
