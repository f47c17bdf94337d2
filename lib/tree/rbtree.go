package tree

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/benz9527/xrbt/lib/infra"
)

type rbNode[K infra.OrderedKey, V any] struct {
	parent *rbNode[K, V]
	left   *rbNode[K, V]
	right  *rbNode[K, V]
	key    K
	val    V
	color  RBColor
}

func (node *rbNode[K, V]) Color() RBColor {
	return node.color
}

func (node *rbNode[K, V]) Key() K {
	return node.key
}

func (node *rbNode[K, V]) Val() V {
	return node.val
}

func (node *rbNode[K, V]) Left() RBNode[K, V] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K, V]) Parent() RBNode[K, V] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[K, V]) Right() RBNode[K, V] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

// All NIL nodes are considered black.
func (node *rbNode[K, V]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K, V]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K, V]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[K, V]) Direction() RBDirection {
	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K, V]) sibling() *rbNode[K, V] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:
	}
	return nil
}

func (node *rbNode[K, V]) grandpa() *rbNode[K, V] {
	if node.parent == nil {
		return nil
	}
	return node.parent.parent
}

func (node *rbNode[K, V]) uncle() *rbNode[K, V] {
	if node.grandpa() == nil {
		return nil
	}
	return node.parent.sibling()
}

/*
Zig-zag descendants of the grandpa G (1 and 3):

	1:  G    2:  G    3: G    4: G
	   /        /         \       \
	  P        P           P       P
	   \      /           /         \
	    X    X           X           X
*/
func (node *rbNode[K, V]) isZigZag() bool {
	if node.grandpa() == nil {
		return false
	}
	return (node == node.parent.left) != (node.parent == node.grandpa().left)
}

// redChild prefers the left child.
func (node *rbNode[K, V]) redChild() *rbNode[K, V] {
	if node == nil {
		return nil
	}
	if node.left.isRed() {
		return node.left
	}
	if node.right.isRed() {
		return node.right
	}
	return nil
}

func (node *rbNode[K, V]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[K, V]) minimum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[K, V]) maximum() *rbNode[K, V] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

type rbTree[K infra.OrderedKey, V any] struct {
	root   *rbNode[K, V]
	count  int64
	logger *zap.Logger
	stats  *rbTreeStats
}

func (tree *rbTree[K, V]) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *rbTree[K, V]) search(key K) *rbNode[K, V] {
	for aux := tree.root; aux != nil; {
		if key == aux.key {
			return aux
		} else if key < aux.key {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

// trace records a rebalance case hit at the node x.
func (tree *rbTree[K, V]) trace(c string, x *rbNode[K, V]) {
	tree.stats.IncreaseRebalanceCount(c)
	if tree.logger == nil {
		return
	}
	if ce := tree.logger.Check(zap.DebugLevel, "rbtree rebalance"); ce != nil {
		ce.Write(zap.String("case", c), zap.Any("key", x.key))
	}
}

// violation aborts the current operation. The tree was corrupted
// before the call, nothing can be repaired locally.
func (tree *rbTree[K, V]) violation(msg string, x *rbNode[K, V]) {
	err := infra.WrapErrorStackWithMessage(ErrInvariantViolation, msg)
	if tree.logger != nil {
		fields := []zap.Field{zap.Error(err)}
		if x != nil {
			fields = append(fields, zap.Any("key", x.key))
		}
		tree.logger.Error("rbtree invariant violation", fields...)
	}
	panic(err)
}

// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// The longest path nodes' number is 2 * shortest path nodes' number.

/*
rotate lifts X over its parent P. X is a left child here (right rotation),
a right child is mirrored (left rotation).

	     |                  |
	     P                  X
	    / \   rotate(X)    / \
	   X   R  ========>   L   P
	  / \                    / \
	 L   Xc                 Xc  R
*/
func (tree *rbTree[K, V]) rotate(x *rbNode[K, V]) {
	if x == nil || x.parent == nil {
		tree.violation("rotate a node without parent", x)
	}

	p := x.parent
	g := p.parent
	if x == p.left {
		p.left, x.right = x.right, p
	} else {
		p.right, x.left = x.left, p
	}
	p.fixLink()
	x.fixLink()

	x.parent = g
	switch {
	case g == nil:
		tree.root = x
	case g.left == p:
		g.left = x
	default:
		g.right = x
	}
	tree.stats.IncreaseRotateCount()
}

func (tree *rbTree[K, V]) Insert(key K, val V) error {
	if infra.IsUnordered(key) {
		return fmt.Errorf("%w: unordered key %v", ErrInvalidArgument, key)
	}

	var x, y *rbNode[K, V] = tree.root, nil
	for x != nil {
		y = x
		if /* equal */ key == x.key {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
		} else /* less */ if key < x.key {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := &rbNode[K, V]{
		key:    key,
		val:    val,
		color:  Red,
		parent: y,
	}
	if y == nil {
		tree.root = z
	} else if key < y.key {
		y.left = z
	} else {
		y.right = z
	}

	atomic.AddInt64(&tree.count, 1)
	tree.stats.RecordLen(1)
	tree.insertRebalance(z)
	tree.root.color = Black
	return nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: X is the root, repaint it into black.

im2: X's parent P is black, nothing violated.

im3: Both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Continue to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is a zig-zag descendant of G. Rotate X over P to get a zig-zig shape,
then P continues to im5 as the new X.

	  [G]                 [G]
	  / \    rotate(X)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: X is a zig-zig descendant of G.

	    [G]                 [P]
	    / \    rotate(P)    / \
	  <P> [U]  ========>  <X> <G>
	  /                         \
	<X>                         [U]
*/
func (tree *rbTree[K, V]) insertRebalance(x *rbNode[K, V]) {
	for {
		if /* im1 */ x.isRoot() {
			x.color = Black
			return
		}

		if /* im2 */ x.parent.isBlack() {
			return
		}

		g := x.grandpa()
		if g == nil {
			// A red root is repainted by the caller.
			return
		}

		if u := x.uncle(); /* im3 */ u.isRed() {
			tree.trace("insert.recolor", x)
			x.parent.color = Black
			u.color = Black
			g.color = Red
			x = g
			continue
		}

		if /* im4 */ x.isZigZag() {
			tree.trace("insert.zigzag", x)
			p := x.parent
			tree.rotate(x)
			x = p
		}

		/* im5 */
		tree.trace("insert.rotate", x)
		p := x.parent
		p.color = Black
		p.parent.color = Red
		tree.rotate(p)
		return
	}
}

func (tree *rbTree[K, V]) Find(key K) (V, bool) {
	if x := tree.search(key); x != nil {
		return x.val, true
	}
	var zero V
	return zero, false
}

func (tree *rbTree[K, V]) Min() (V, error) {
	if tree.root == nil {
		var zero V
		return zero, ErrEmptyTree
	}
	return tree.root.minimum().val, nil
}

func (tree *rbTree[K, V]) Max() (V, error) {
	if tree.root == nil {
		var zero V
		return zero, ErrEmptyTree
	}
	return tree.root.maximum().val, nil
}

// Release walks the tree iteratively and cuts every parent and child link.
func (tree *rbTree[K, V]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		return
	}

	released := atomic.SwapInt64(&tree.count, 0)
	tree.stats.RecordLen(-released)

	stack := make([]*rbNode[K, V], 0, 64)
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		aux.left, aux.right, aux.parent = nil, nil, nil
	}
}

type RBTreeOpt[K infra.OrderedKey, V any] func(*rbTree[K, V])

func WithRBTreeLogger[K infra.OrderedKey, V any](logger *zap.Logger) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if logger != nil {
			tree.logger = logger.Named("rbtree")
		}
	}
}

func WithRBTreeStats[K infra.OrderedKey, V any](name string) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.stats = newRBTreeStats(name)
	}
}

func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	tree := &rbTree[K, V]{
		count:  0,
		logger: zap.NewNop(),
	}

	for _, o := range opts {
		o(tree)
	}
	return tree
}
