// Package tree turns flat parent-pointer records into a forest.
package tree

// RootID is the parent sentinel used by menus and departments.
const RootID int64 = -1

type Node[T any] struct {
	Item     T
	Children []*Node[T]
}

// Accessor extracts the identity and parent reference of an item.
type Accessor[T any] struct {
	ID       func(T) int64
	ParentID func(T) int64
}

// Build nests items under their parents. Items whose parent equals rootID
// become roots; items whose parent is neither rootID nor present in items are
// dropped. Sibling order follows input order.
func Build[T any](items []T, acc Accessor[T], rootID int64) []*Node[T] {
	roots := make([]*Node[T], 0)
	if len(items) == 0 {
		return roots
	}

	byID := make(map[int64]*Node[T], len(items))
	nodes := make([]*Node[T], len(items))
	for i, item := range items {
		n := &Node[T]{Item: item, Children: make([]*Node[T], 0)}
		nodes[i] = n
		if _, dup := byID[acc.ID(item)]; !dup {
			byID[acc.ID(item)] = n
		}
	}

	for i, item := range items {
		n := nodes[i]
		pid := acc.ParentID(item)
		if pid == rootID {
			roots = append(roots, n)
			continue
		}
		if parent, ok := byID[pid]; ok && parent != n {
			parent.Children = append(parent.Children, n)
		}
	}
	return roots
}

// Flat is one pre-order entry produced by Flatten.
type Flat[T any] struct {
	Item     T
	ParentID int64
}

// Flatten walks the forest pre-order, recording each node's parent as seen
// during traversal (rootID for top-level nodes).
func Flatten[T any](forest []*Node[T], acc Accessor[T], rootID int64) []Flat[T] {
	out := make([]Flat[T], 0)
	var walk func(nodes []*Node[T], parent int64)
	walk = func(nodes []*Node[T], parent int64) {
		for _, n := range nodes {
			out = append(out, Flat[T]{Item: n.Item, ParentID: parent})
			walk(n.Children, acc.ID(n.Item))
		}
	}
	walk(forest, rootID)
	return out
}

// Map converts a forest of T into any recursive shape R. attach receives the
// converted node and its converted children.
func Map[T, R any](forest []*Node[T], convert func(T) R, attach func(R, []R) R) []R {
	out := make([]R, 0, len(forest))
	for _, n := range forest {
		children := Map(n.Children, convert, attach)
		out = append(out, attach(convert(n.Item), children))
	}
	return out
}
