package nexus

import "github.com/tuftsbcb/phylotree/tree"

// TreeIterator parses one retained tree declaration at a time from a
// Nexus TREES block, applying the same skip_first/burnin_fraction/
// sample_every/max_trees filter as eager mode without materializing
// the trees it drops.
type TreeIterator struct {
	d    *driver
	done bool
	err  error
}

func newTreeIterator(d *driver) *TreeIterator {
	return &TreeIterator{d: d}
}

// Next returns the next retained tree, or (nil, false, nil) once the
// TREES block is exhausted. Once it returns an error, every
// subsequent call returns the same error.
func (it *TreeIterator) Next() (tree.Tree, bool, error) {
	if it.done {
		return nil, false, it.err
	}
	t, ok, err := it.d.nextDeclaration()
	if err != nil {
		it.done, it.err = true, err
		return nil, false, err
	}
	if !ok {
		it.done = true
		return nil, false, nil
	}
	return t, true, nil
}
