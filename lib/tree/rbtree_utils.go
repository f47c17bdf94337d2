package tree

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"

	"github.com/benz9527/xrbt/lib/infra"
)

func isBlack[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return node == nil || node.Color() == Black
}

func isRed[K infra.OrderedKey, V any](node RBNode[K, V]) bool {
	return node != nil && node.Color() == Red
}

func blackDepthTo[K infra.OrderedKey, V any](target, to RBNode[K, V]) int {
	depth := 0
	for aux := target; aux != nil && aux != to; aux = aux.Parent() {
		if isBlack[K, V](aux) {
			depth++
		}
	}
	return depth
}

// preorder visits every node from the root, parent before children.
func preorder[K infra.OrderedKey, V any](tree RBTree[K, V], visit func(node RBNode[K, V], depth int) error) error {
	type frame struct {
		node  RBNode[K, V]
		depth int
	}
	aux := tree.Root()
	if aux == nil {
		return nil
	}

	stack := make([]frame, 0, 32)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, frame{aux, 0})
	for size := len(stack); size > 0; size = len(stack) {
		f := stack[size-1]
		stack = stack[:size-1]
		if err := visit(f.node, f.depth); err != nil {
			return err
		}
		if r := f.node.Right(); r != nil {
			stack = append(stack, frame{r, f.depth + 1})
		}
		if l := f.node.Left(); l != nil {
			stack = append(stack, frame{l, f.depth + 1})
		}
	}
	return nil
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func RedViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	return preorder[K, V](tree, func(node RBNode[K, V], _ int) error {
		if isRed[K, V](node) && (isRed[K, V](node.Left()) || isRed[K, V](node.Right())) {
			return fmt.Errorf("%w: red node %v has a red child", ErrRedViolation, node.Key())
		}
		return nil
	})
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
	        /  \
	     <8>    [15]
	     / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

Each nil leaf to root node black depth are equal.
Only the nodes with at least one nil child have to be checked.
*/
func BlackViolationValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	root := tree.Root()
	expected := -1
	return preorder[K, V](tree, func(node RBNode[K, V], _ int) error {
		if node.Left() != nil && node.Right() != nil {
			return nil
		}
		depth := blackDepthTo[K, V](node, root)
		if expected < 0 {
			expected = depth
		} else if depth != expected {
			return fmt.Errorf("%w: black depth %d at key %v, expected %d",
				ErrBlackViolation, depth, node.Key(), expected)
		}
		return nil
	})
}

func RootColorValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	if root := tree.Root(); isRed[K, V](root) {
		return fmt.Errorf("%w: root key %v", ErrRootColor, root.Key())
	}
	return nil
}

func ParentLinkValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	if root := tree.Root(); root != nil && root.Parent() != nil {
		return fmt.Errorf("%w: root key %v has a parent", ErrParentLink, root.Key())
	}
	return preorder[K, V](tree, func(node RBNode[K, V], _ int) error {
		for _, child := range []RBNode[K, V]{node.Left(), node.Right()} {
			if child != nil && child.Parent() != node {
				return fmt.Errorf("%w: child key %v of key %v",
					ErrParentLink, child.Key(), node.Key())
			}
		}
		return nil
	})
}

// OrderValidate checks the strict ascending inorder keys and
// the reachable nodes against the tree length.
func OrderValidate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	var (
		prev    K
		visited int64
	)
	stack := make([]RBNode[K, V], 0, 32)
	defer func() {
		clear(stack)
	}()
	for aux := tree.Root(); aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}
	for size := len(stack); size > 0; size = len(stack) {
		aux := stack[size-1]
		stack = stack[:size-1]
		if visited > 0 && !(prev < aux.Key()) {
			return fmt.Errorf("%w: key %v after %v", ErrOrder, aux.Key(), prev)
		}
		prev = aux.Key()
		visited++
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	if visited != tree.Len() {
		return fmt.Errorf("%w: %d reachable nodes, length %d", ErrCount, visited, tree.Len())
	}
	return nil
}

// Validate reports every violated rbtree rule at once.
func Validate[K infra.OrderedKey, V any](tree RBTree[K, V]) error {
	return multierr.Combine(
		OrderValidate[K, V](tree),
		ParentLinkValidate[K, V](tree),
		RootColorValidate[K, V](tree),
		RedViolationValidate[K, V](tree),
		BlackViolationValidate[K, V](tree),
	)
}

/*
Dump writes the tree in preorder, one node per line.

	47 Black (Root)
	  24 Black (Left)
	    3 Red (Left)
	    35 Red (Right)
	  52 Black (Right)
*/
func Dump[K infra.OrderedKey, V any](tree RBTree[K, V], w io.Writer) error {
	return preorder[K, V](tree, func(node RBNode[K, V], depth int) error {
		dir := Root
		if p := node.Parent(); p != nil {
			if p.Left() == node {
				dir = Left
			} else {
				dir = Right
			}
		}
		_, err := fmt.Fprintf(w, "%s%v %s (%s)\n", strings.Repeat("  ", depth), node.Key(), node.Color(), dir)
		return err
	})
}
