package huffman

import (
	"github.com/emirpasic/gods/queues/priorityqueue"

	"github.com/fumin/ppm/coder"
)

const none = -1

type node struct {
	weight uint64
	parent int32
	left   int32
	right  int32
}

// A Tree is the Huffman tree of a single decision.
//
// Nodes live in one arena. The first entries are the leaves, one per candidate
// in list order; internal nodes follow in creation order, and the last node is
// the root. Building is deterministic: the two nodes of lowest weight are merged
// first, ties go to the lower arena index, and the first node taken becomes the
// left (0) child.
type Tree struct {
	nodes  []node
	leaves int
	queue  *priorityqueue.Queue
}

// compare orders arena indices by weight, then by index.
func (t *Tree) compare(a, b interface{}) int {
	i, j := a.(int32), b.(int32)
	wi, wj := t.nodes[i].weight, t.nodes[j].weight
	switch {
	case wi < wj:
		return -1
	case wi > wj:
		return 1
	case i < j:
		return -1
	case i > j:
		return 1
	}
	return 0
}

// Build discards the previous tree and builds a new one over weights.
func (t *Tree) Build(weights []uint32) error {
	if len(weights) == 0 {
		return coder.ErrNoCandidates
	}
	if t.queue == nil {
		t.queue = priorityqueue.NewWith(t.compare)
	}
	t.queue.Clear()
	t.nodes = t.nodes[:0]
	t.leaves = len(weights)

	for i, w := range weights {
		t.nodes = append(t.nodes, node{weight: uint64(w), parent: none, left: none, right: none})
		t.queue.Enqueue(int32(i))
	}

	for t.queue.Size() > 1 {
		a, _ := t.queue.Dequeue()
		b, _ := t.queue.Dequeue()
		left, right := a.(int32), b.(int32)

		idx := int32(len(t.nodes))
		t.nodes = append(t.nodes, node{
			weight: t.nodes[left].weight + t.nodes[right].weight,
			parent: none,
			left:   left,
			right:  right,
		})
		t.nodes[left].parent = idx
		t.nodes[right].parent = idx
		t.queue.Enqueue(idx)
	}
	t.queue.Clear()
	return nil
}

// Len returns the number of candidates the tree was built over.
func (t *Tree) Len() int {
	return t.leaves
}

func (t *Tree) root() int32 {
	return int32(len(t.nodes) - 1)
}

func (t *Tree) isLeaf(n int32) bool {
	return t.nodes[n].left == none
}

// Code appends the root-to-leaf path of candidate i to dst, true meaning a right branch.
// The code of the only candidate of a single-candidate tree is empty.
func (t *Tree) Code(dst []bool, i int) []bool {
	start := len(dst)
	for n := int32(i); t.nodes[n].parent != none; n = t.nodes[n].parent {
		p := t.nodes[n].parent
		dst = append(dst, t.nodes[p].right == n)
	}

	// The ascent collected leaf-to-root.
	for l, r := start, len(dst)-1; l < r; l, r = l+1, r-1 {
		dst[l], dst[r] = dst[r], dst[l]
	}
	return dst
}
