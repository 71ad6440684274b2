package interval

import "math"

// avlNode is one key of the tree. A key is a distinct (start, stop) range;
// the handful of distinct values sharing that exact range are kept as a
// small bag on the node rather than one-interval-per-node. This sidesteps
// needing an ordering over the generic value type V, which is only
// required to be comparable, not ordered.
type avlNode[V comparable] struct {
	start, stop int64
	vals        []V
	left, right *avlNode[V]
	height      int
	// max is the maximum stop across the node's entire subtree, used to
	// prune subtrees that end before a query begins.
	max int64
}

func nodeHeight[V comparable](n *avlNode[V]) int {
	if n == nil {
		return 0
	}
	return n.height
}

func nodeMax[V comparable](n *avlNode[V]) int64 {
	if n == nil {
		return math.MinInt64
	}
	return n.max
}

func update[V comparable](n *avlNode[V]) {
	n.height = 1 + maxInt(nodeHeight(n.left), nodeHeight(n.right))
	m := n.stop
	if lm := nodeMax(n.left); lm > m {
		m = lm
	}
	if rm := nodeMax(n.right); rm > m {
		m = rm
	}
	n.max = m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func balanceFactor[V comparable](n *avlNode[V]) int {
	return nodeHeight(n.left) - nodeHeight(n.right)
}

// rotateRight lifts n's left child up, descends n to the right. It calls
// update(n) before update(newRoot), so the caller need not update either.
func rotateRight[V comparable](n *avlNode[V]) *avlNode[V] {
	l := n.left
	n.left = l.right
	l.right = n
	update(n)
	update(l)
	return l
}

func rotateLeft[V comparable](n *avlNode[V]) *avlNode[V] {
	r := n.right
	n.right = r.left
	r.left = n
	update(n)
	update(r)
	return r
}

func rebalance[V comparable](n *avlNode[V]) *avlNode[V] {
	bf := balanceFactor(n)
	if bf > 1 {
		if balanceFactor(n.left) < 0 {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	}
	if bf < -1 {
		if balanceFactor(n.right) > 0 {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

func keyLess(startA, stopA, startB, stopB int64) bool {
	if startA != startB {
		return startA < startB
	}
	return stopA < stopB
}

// insertNode inserts val under the (start, stop) key, creating a new node
// when the key is new and appending to the value bag when the key already
// exists. Reports whether anything changed (false if val is already
// present under that exact key).
func insertNode[V comparable](n *avlNode[V], start, stop int64, val V) (*avlNode[V], bool) {
	if n == nil {
		return &avlNode[V]{start: start, stop: stop, vals: []V{val}, height: 1, max: stop}, true
	}
	if start == n.start && stop == n.stop {
		for _, v := range n.vals {
			if v == val {
				return n, false
			}
		}
		n.vals = append(n.vals, val)
		return n, true
	}
	var changed bool
	if keyLess(start, stop, n.start, n.stop) {
		n.left, changed = insertNode(n.left, start, stop, val)
	} else {
		n.right, changed = insertNode(n.right, start, stop, val)
	}
	if !changed {
		return n, false
	}
	update(n)
	return rebalance(n), true
}

// removeMin detaches and returns the leftmost node of the subtree, along
// with the subtree root after removal. Used to find an in-order successor
// when deleting a two-child node.
func removeMin[V comparable](n *avlNode[V]) (*avlNode[V], *avlNode[V]) {
	if n.left == nil {
		return n.right, n
	}
	var removed *avlNode[V]
	n.left, removed = removeMin(n.left)
	update(n)
	return rebalance(n), removed
}

// removeNode deletes val under the (start, stop) key. Reports whether a
// matching value existed.
func removeNode[V comparable](n *avlNode[V], start, stop int64, val V) (*avlNode[V], bool) {
	if n == nil {
		return nil, false
	}
	if start == n.start && stop == n.stop {
		idx := -1
		for i, v := range n.vals {
			if v == val {
				idx = i
				break
			}
		}
		if idx < 0 {
			return n, false
		}
		n.vals = append(n.vals[:idx], n.vals[idx+1:]...)
		if len(n.vals) > 0 {
			return n, true
		}
		switch {
		case n.left == nil:
			return n.right, true
		case n.right == nil:
			return n.left, true
		default:
			succRoot, succ := removeMin(n.right)
			n.right = succRoot
			n.start, n.stop, n.vals = succ.start, succ.stop, succ.vals
			update(n)
			return rebalance(n), true
		}
	}
	var removed bool
	if keyLess(start, stop, n.start, n.stop) {
		n.left, removed = removeNode(n.left, start, stop, val)
	} else {
		n.right, removed = removeNode(n.right, start, stop, val)
	}
	if !removed {
		return n, false
	}
	update(n)
	return rebalance(n), true
}

// eachOverlap performs a pruned in-order walk, yielding every (start, stop,
// val) triple overlapping [qs, qe). Returning false from yield stops the
// walk early.
func eachOverlap[V comparable](n *avlNode[V], qs, qe int64, yield func(start, stop int64, val V) bool) bool {
	if n == nil || n.max <= qs {
		return true
	}
	if !eachOverlap(n.left, qs, qe, yield) {
		return false
	}
	if n.start < qe && n.stop > qs {
		for _, v := range n.vals {
			if !yield(n.start, n.stop, v) {
				return false
			}
		}
	}
	if n.start < qe {
		return eachOverlap(n.right, qs, qe, yield)
	}
	return true
}

// countNode returns the number of distinct (key, val) entries in the
// subtree, used by the tests to cross-check the tree against Lapper.Len.
func countNode[V comparable](n *avlNode[V]) int {
	if n == nil {
		return 0
	}
	return len(n.vals) + countNode(n.left) + countNode(n.right)
}

// inorder appends every entry of the subtree, in ascending key order, to
// dst. Used for debug assertions comparing tree contents to the sorted set.
func inorder[V comparable](n *avlNode[V], dst []Interval[V]) []Interval[V] {
	if n == nil {
		return dst
	}
	dst = inorder(n.left, dst)
	for _, v := range n.vals {
		dst = append(dst, Interval[V]{Start: n.start, Stop: n.stop, Val: v})
	}
	return inorder(n.right, dst)
}

// buildBalanced builds a height-balanced tree from buckets already sorted
// ascending by (start, stop) with no duplicate keys, by repeated median
// split.
func buildBalanced[V comparable](buckets []bucket[V]) *avlNode[V] {
	if len(buckets) == 0 {
		return nil
	}
	mid := len(buckets) / 2
	n := &avlNode[V]{start: buckets[mid].start, stop: buckets[mid].stop, vals: buckets[mid].vals}
	n.left = buildBalanced(buckets[:mid])
	n.right = buildBalanced(buckets[mid+1:])
	update(n)
	return n
}

type bucket[V comparable] struct {
	start, stop int64
	vals        []V
}
