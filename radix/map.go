// Package radix implements a compressed (Patricia-style) string-keyed prefix
// tree: point lookup, prefix-subtree views, and bounded-edit-distance fuzzy
// lookup over a generic value type.
package radix

import (
	"sort"
	"strings"

	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
)

// node is a single radix tree node. children is keyed by the first byte of
// each child's edge label so that sibling edges never share a first byte.
type node[V any] struct {
	edge     string
	children map[byte]*node[V]
	hasValue bool
	value    V
}

func newNode[V any](edge string) *node[V] {
	return &node[V]{edge: edge, children: make(map[byte]*node[V])}
}

// Map is a radix tree keyed by string. The zero value is not usable; use New.
type Map[V any] struct {
	root      *node[V]
	size      int
	sizeValid bool
}

// New returns an empty Map.
func New[V any]() *Map[V] {
	return &Map[V]{root: newNode[V](""), sizeValid: true}
}

// Get returns the value stored at key, if any.
func (m *Map[V]) Get(key string) (V, bool) {
	n := m.find(key)
	if n == nil || !n.hasValue {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	n := m.find(key)
	return n != nil && n.hasValue
}

// find returns the node whose full key equals key exactly, or nil.
func (m *Map[V]) find(key string) *node[V] {
	cur := m.root
	remaining := key
	for remaining != "" {
		child, ok := cur.children[remaining[0]]
		if !ok {
			return nil
		}
		edge := child.edge
		if !strings.HasPrefix(remaining, edge) {
			return nil
		}
		remaining = remaining[len(edge):]
		cur = child
	}
	return cur
}

// Set stores value at key, splitting edges as needed to preserve the radix
// invariants (no single-child interior node without a leaf value; sibling
// edges never share a first byte).
func (m *Map[V]) Set(key string, value V) error {
	_, existed := m.Get(key)
	m.insert(key, value)
	if !existed {
		m.invalidateSize()
	}
	return nil
}

func (m *Map[V]) insert(key string, value V) {
	cur := m.root
	remaining := key
	for {
		if remaining == "" {
			cur.hasValue = true
			cur.value = value
			return
		}

		child, ok := cur.children[remaining[0]]
		if !ok {
			leaf := newNode[V](remaining)
			leaf.hasValue = true
			leaf.value = value
			cur.children[remaining[0]] = leaf
			return
		}

		common := commonPrefixLen(remaining, child.edge)
		switch {
		case common == len(child.edge):
			// Child's whole edge is consumed; descend.
			remaining = remaining[common:]
			cur = child
			continue
		case common == len(remaining):
			// remaining is a strict prefix of child.edge: split the edge.
			splitNode := newNode[V](remaining)
			child.edge = child.edge[common:]
			splitNode.children[child.edge[0]] = child
			splitNode.hasValue = true
			splitNode.value = value
			cur.children[remaining[0]] = splitNode
			return
		default:
			// Partial overlap: split into a shared interior node with two
			// children (the shortened old child, and the new remainder).
			sharedPrefix := remaining[:common]
			splitNode := newNode[V](sharedPrefix)
			child.edge = child.edge[common:]
			splitNode.children[child.edge[0]] = child
			cur.children[sharedPrefix[0]] = splitNode

			leafSuffix := remaining[common:]
			leaf := newNode[V](leafSuffix)
			leaf.hasValue = true
			leaf.value = value
			splitNode.children[leafSuffix[0]] = leaf
			return
		}
	}
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// Update atomically fetches the current value at key (or the zero value),
// calls fn, and stores the returned value.
func (m *Map[V]) Update(key string, fn func(V, bool) V) error {
	cur, found := m.Get(key)
	next := fn(cur, found)
	return m.Set(key, next)
}

// Fetch returns a pointer to the value stored at key, inserting init() if
// absent. The pointer aliases the tree's storage until the next mutation
// that might relocate the node (Delete, or a Set that splits this node's
// edge away); callers should treat it as valid only until then.
func (m *Map[V]) Fetch(key string, init func() V) *V {
	n := m.find(key)
	if n != nil && n.hasValue {
		return &n.value
	}
	m.Set(key, init())
	n = m.find(key)
	return &n.value
}

// Delete removes key, restoring the radix invariants afterwards: if the
// leaf's node becomes empty it is pruned upward; if a node is left with
// exactly one child and no leaf value, the child's edge is merged into it.
func (m *Map[V]) Delete(key string) {
	if _, ok := m.Get(key); !ok {
		return
	}
	m.deletePath(m.root, key)
	m.invalidateSize()
}

// deletePath walks from cur toward key, removing the leaf value and
// collapsing nodes on the way back up.
func (m *Map[V]) deletePath(cur *node[V], remaining string) {
	if remaining == "" {
		cur.hasValue = false
		var zero V
		cur.value = zero
		return
	}

	child, ok := cur.children[remaining[0]]
	if !ok || !strings.HasPrefix(remaining, child.edge) {
		return
	}

	m.deletePath(child, remaining[len(child.edge):])

	// Restore invariants at child.
	if !child.hasValue {
		switch len(child.children) {
		case 0:
			delete(cur.children, child.edge[0])
		case 1:
			var only *node[V]
			for _, c := range child.children {
				only = c
			}
			only.edge = child.edge + only.edge
			cur.children[child.edge[0]] = only
		}
	}
}

// Size returns the number of leaf entries. The count may be cached and is
// recomputed lazily after mutation.
func (m *Map[V]) Size() int {
	if !m.sizeValid {
		m.size = countLeaves(m.root)
		m.sizeValid = true
	}
	return m.size
}

func (m *Map[V]) invalidateSize() {
	m.sizeValid = false
}

func countLeaves[V any](n *node[V]) int {
	count := 0
	if n.hasValue {
		count++
	}
	for _, c := range n.children {
		count += countLeaves(c)
	}
	return count
}

// sortedChildKeys returns the first-byte keys of n's children in
// deterministic (lexicographic) order, so enumeration order is stable
// across calls given the same tree contents.
func sortedChildKeys[V any](n *node[V]) []byte {
	keys := make([]byte, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ErrInvalidKey is the error kind for a key of the wrong shape. Map[V]'s
// methods only accept a string key, so Set, Update and Fetch never return
// it.
var ErrInvalidKey = lexerrors.ErrInvalidKey

// ErrInvalidPrefix is returned by AtPrefix when called on a view with a
// prefix argument that does not start with the view's own prefix.
var ErrInvalidPrefix = lexerrors.ErrInvalidPrefix
