package tree

import "github.com/benz9527/xrbt/lib/infra"

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

// RBNode is the read-only view of a stored entry.
// Absent links are returned as nil interfaces.
type RBNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

// RBTree is a red-black tree keyed by the native ordering of K.
// It is not safe for concurrent use.
//
// The traversal callbacks return true to stop the walk.
type RBTree[K infra.OrderedKey, V any] interface {
	Len() int64
	Root() RBNode[K, V]
	Insert(key K, val V) error
	Remove(key K) bool
	Find(key K) (V, bool)
	Min() (V, error)
	Max() (V, error)
	InOrderTraverse(fn func(key K, val V) bool) error
	ReverseOrderTraverse(fn func(key K, val V) bool) error
	// RangeTraverse walks the keys in [from, to] ascending, or in
	// [to, from] descending when from > to.
	RangeTraverse(from, to K, fn func(key K, val V) bool) error
	// Release severs every link and empties the tree.
	// The tree may be reused afterward.
	Release()
}
