package tree

import (
	"fmt"

	"github.com/benz9527/xrbt/lib/infra"
)

// walk is the inorder (or reverse inorder) DFS shared by all traversals.
// Subtrees rooted at a node matched by skip are pruned on the near side,
// the walk turns to the far child instead. visit returns true to stop.
func (tree *rbTree[K, V]) walk(
	from *rbNode[K, V],
	desc bool,
	skip func(key K) bool,
	visit func(node *rbNode[K, V]) bool,
) {
	if from == nil {
		return
	}

	near, far := func(n *rbNode[K, V]) *rbNode[K, V] { return n.left },
		func(n *rbNode[K, V]) *rbNode[K, V] { return n.right }
	if desc {
		near, far = far, near
	}

	// The stack depth is bounded by the tree height.
	stack := make([]*rbNode[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()
	pushSpine := func(aux *rbNode[K, V]) {
		for aux != nil {
			if skip != nil && skip(aux.key) {
				aux = far(aux)
				continue
			}
			stack = append(stack, aux)
			aux = near(aux)
		}
	}

	pushSpine(from)
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if visit(aux) {
			return
		}
		pushSpine(far(aux))
	}
}

func (tree *rbTree[K, V]) InOrderTraverse(fn func(key K, val V) bool) error {
	if fn == nil {
		return fmt.Errorf("%w: nil inorder traverse callback", ErrInvalidArgument)
	}
	tree.walk(tree.root, false, nil, func(node *rbNode[K, V]) bool {
		return fn(node.key, node.val)
	})
	return nil
}

func (tree *rbTree[K, V]) ReverseOrderTraverse(fn func(key K, val V) bool) error {
	if fn == nil {
		return fmt.Errorf("%w: nil reverse order traverse callback", ErrInvalidArgument)
	}
	tree.walk(tree.root, true, nil, func(node *rbNode[K, V]) bool {
		return fn(node.key, node.val)
	})
	return nil
}

// subtree returns the highest node whose key lies in [lo, hi].
// All keys in [lo, hi] are stored under it.
func (tree *rbTree[K, V]) subtree(lo, hi K) *rbNode[K, V] {
	for aux := tree.root; aux != nil; {
		if aux.key > hi {
			aux = aux.left
		} else if aux.key < lo {
			aux = aux.right
		} else {
			return aux
		}
	}
	return nil
}

func (tree *rbTree[K, V]) RangeTraverse(from, to K, fn func(key K, val V) bool) error {
	if fn == nil {
		return fmt.Errorf("%w: nil range traverse callback", ErrInvalidArgument)
	}
	if infra.IsUnordered(from) || infra.IsUnordered(to) {
		return fmt.Errorf("%w: unordered range bound", ErrInvalidArgument)
	}

	if from <= to {
		tree.walk(tree.subtree(from, to), false,
			func(key K) bool { return key < from },
			func(node *rbNode[K, V]) bool {
				if node.key > to {
					return true
				}
				return fn(node.key, node.val)
			},
		)
		return nil
	}

	tree.walk(tree.subtree(to, from), true,
		func(key K) bool { return key > from },
		func(node *rbNode[K, V]) bool {
			if node.key < to {
				return true
			}
			return fn(node.key, node.val)
		},
	)
	return nil
}
