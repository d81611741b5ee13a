/*
Package tree provides the in-memory representations populated by the
newick and nexus packages: a shared taxon table, a Builder capability
interface, and two interchangeable tree representations.

CompactTree packs a tree into parallel arrays (structure-of-arrays) for
memory density across large posterior samples. SimpleTree allocates one
vertex object per node for ergonomic recursive traversal. Both satisfy
the same read-only Tree interface.
*/
package tree
