package radix

import (
	"strings"

	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
)

// View is a mutable window onto the subtree of a Map rooted at a prefix.
// Operations on a View see and mutate the same underlying storage as the
// Map it was created from; the view aliases storage, it does not copy it.
// Per the package-level contract, a View is only valid for use before the
// next mutation of the parent Map (AtPrefix, Set, Delete, etc. on the
// parent may relocate the subtree the view refers to).
type View[V any] struct {
	m      *Map[V]
	prefix string // the literal prefix this view was created with
	anchor string // prefix extended to the node actually reached (anchor ⊇ prefix)
	node   *node[V]
}

// AtPrefix returns a View over all keys starting with prefix. If the tree
// has no keys starting with prefix the view is empty (valid, but Get/Has
// always report absent and Set-ing into it creates fresh structure).
func (m *Map[V]) AtPrefix(prefix string) *View[V] {
	n, anchor, ok := m.descend(prefix)
	if !ok {
		return &View[V]{m: m, prefix: prefix, anchor: prefix, node: nil}
	}
	return &View[V]{m: m, prefix: prefix, anchor: anchor, node: n}
}

// descend walks from the root consuming prefix. It returns the node whose
// own full key extends at least as far as prefix, along with that node's
// true full key (which may be longer than prefix when prefix lands strictly
// inside an edge label).
func (m *Map[V]) descend(prefix string) (n *node[V], fullKey string, ok bool) {
	cur := m.root
	consumed := ""
	remaining := prefix
	for remaining != "" {
		child, exists := cur.children[remaining[0]]
		if !exists {
			return nil, "", false
		}
		edge := child.edge
		switch {
		case strings.HasPrefix(remaining, edge):
			consumed += edge
			remaining = remaining[len(edge):]
			cur = child
		case strings.HasPrefix(edge, remaining):
			consumed += edge
			cur = child
			remaining = ""
		default:
			return nil, "", false
		}
	}
	return cur, consumed, true
}

// Prefix returns the literal prefix this view was created with.
func (v *View[V]) Prefix() string { return v.prefix }

// Get looks up a key relative to the view's anchor.
func (v *View[V]) Get(key string) (V, bool) {
	return v.m.Get(v.anchor + key)
}

// Has reports whether a relative key is present.
func (v *View[V]) Has(key string) bool {
	return v.m.Has(v.anchor + key)
}

// Set stores value at a key relative to the view's anchor.
func (v *View[V]) Set(key string, value V) error {
	err := v.m.Set(v.anchor+key, value)
	if err == nil {
		v.refresh()
	}
	return err
}

// Fetch returns a mutable pointer to the value at a relative key, inserting
// init() if absent.
func (v *View[V]) Fetch(key string, init func() V) *V {
	p := v.m.Fetch(v.anchor+key, init)
	v.refresh()
	return p
}

// Delete removes a relative key.
func (v *View[V]) Delete(key string) {
	v.m.Delete(v.anchor + key)
	v.refresh()
}

// refresh re-anchors the view after a mutation that may have split or
// removed the node it was pointing at.
func (v *View[V]) refresh() {
	n, anchor, ok := v.m.descend(v.prefix)
	if !ok {
		v.node = nil
		v.anchor = v.prefix
		return
	}
	v.node = n
	v.anchor = anchor
}

// AtPrefix returns a nested view over keys starting with prefix, which must
// itself start with this view's own prefix.
func (v *View[V]) AtPrefix(prefix string) (*View[V], error) {
	if !strings.HasPrefix(prefix, v.prefix) {
		return nil, lexerrors.ErrInvalidPrefix
	}
	return v.m.AtPrefix(prefix), nil
}

// Keys returns every key in the view, in lexicographic edge order.
func (v *View[V]) Keys() []string {
	keys := make([]string, 0)
	v.walk(func(k string, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Values returns every value in the view, ordered the same as Keys.
func (v *View[V]) Values() []V {
	values := make([]V, 0)
	v.walk(func(_ string, val V) bool {
		values = append(values, val)
		return true
	})
	return values
}

// Entry is a single key/value pair produced by Map.Entries or View.Entries.
type Entry[V any] struct {
	Key   string
	Value V
}

// Entries returns every entry in the view, ordered the same as Keys.
func (v *View[V]) Entries() []Entry[V] {
	entries := make([]Entry[V], 0)
	v.walk(func(k string, val V) bool {
		entries = append(entries, Entry[V]{Key: k, Value: val})
		return true
	})
	return entries
}

func (v *View[V]) walk(yield func(string, V) bool) {
	if v.node == nil {
		return
	}
	walkNode(v.node, v.anchor, yield)
}

func walkNode[V any](n *node[V], key string, yield func(string, V) bool) bool {
	if n.hasValue {
		if !yield(key, n.value) {
			return false
		}
	}
	for _, b := range sortedChildKeys(n) {
		c := n.children[b]
		if !walkNode(c, key+c.edge, yield) {
			return false
		}
	}
	return true
}

// Entries returns every entry in the whole map, in deterministic
// (lexicographic edge) order.
func (m *Map[V]) Entries() []Entry[V] {
	return m.AtPrefix("").Entries()
}

// Keys returns every key in the whole map.
func (m *Map[V]) Keys() []string {
	return m.AtPrefix("").Keys()
}

// Values returns every value in the whole map.
func (m *Map[V]) Values() []V {
	return m.AtPrefix("").Values()
}
