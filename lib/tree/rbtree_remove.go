package tree

import "sync/atomic"

/*
r1: Current node X has left and right node.
Copy the key & value of X's succ (the minimum of the right subtree) into X,
then remove the succ node instead. The succ node has no left child.

	  |                    |
	  X                    S
	 / \                  / \
	L  ..   copy(S, X)   L  ..
	    |   =========>       |
	    P                    P
	   / \                  / \
	  S  ..                S  ..   <- removed

r2: The removed node X has at most one child C. Splice C into X's slot.

r3: X is the root, C becomes the new root.

r4: X is red, splice only. Removing a red node never changes the
black depth.

r5: X is black, the side of C lost one black node. (black-violation)
*/
func (tree *rbTree[K, V]) Remove(key K) bool {
	z := tree.search(key)
	if z == nil {
		return false
	}

	if /* r1 */ z.left != nil && z.right != nil {
		succ := z.right.minimum()
		z.key, z.val = succ.key, succ.val
		z = succ
	}

	/* r2 */
	child := z.right
	if child == nil {
		child = z.left
	}

	if p := z.parent; /* r3 */ p == nil {
		tree.root = child
		if child != nil {
			child.parent = nil
		}
	} else {
		isLeft := z == p.left
		var sibling *rbNode[K, V]
		if isLeft {
			p.left, sibling = child, p.right
		} else {
			p.right, sibling = child, p.left
		}
		if child != nil {
			child.parent = p
		}
		if /* r5 */ z.isBlack() {
			tree.resolveBlackCount(child, p, sibling, isLeft)
		}
	}

	z.parent, z.left, z.right = nil, nil, nil
	atomic.AddInt64(&tree.count, -1)
	tree.stats.RecordLen(-1)
	if tree.root != nil {
		tree.root.color = Black
	}
	return true
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X is the node (maybe NIL) on the side which lost one black node.
P is X's parent, S is X's sibling.
Sc is S's child on the same side as X (near nephew).
Sd is S's child on the opposite side (far nephew).
S always exists, X's side had at least one black node before the removal.

rm1: X is red. Repaint it into black to take back the lost black node.

rm2: P is NIL. X is the root, the whole tree lost one black node evenly.

rm3: P is red (so S is black). See resolveRedParent.

rm4: P is black and S is red. See resolveRedSibling.

rm5: P is black, S is black and has a red child. See resolveBlackSibling.

rm6: All of P, S, Sc and Sd are black.
Paint S into red, then the subtree P lost one black node as a whole.
Continue to fix P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]
*/
func (tree *rbTree[K, V]) resolveBlackCount(x, p, s *rbNode[K, V], isLeft bool) {
	for {
		if /* rm1 */ x.isRed() {
			tree.trace("remove.absorb", x)
			x.color = Black
			return
		}

		if /* rm2 */ p == nil {
			return
		}
		if s == nil {
			tree.violation("black depth lost without sibling", p)
		}

		if /* rm3 */ p.isRed() {
			tree.resolveRedParent(p, s)
			return
		}

		if /* rm4 */ s.isRed() {
			tree.resolveRedSibling(p, s, isLeft)
			return
		}

		if /* rm5 */ g := s.redChild(); g != nil {
			tree.resolveBlackSibling(s, g)
			return
		}

		/* rm6 */
		tree.trace("remove.borrow", p)
		s.color = Red
		x, p = p, p.parent
		if p == nil {
			return
		}
		if isLeft = x == p.left; isLeft {
			s = p.right
		} else {
			s = p.left
		}
	}
}

/*
P is red and S is black.

rm3-1: S has a red child G. If G is the near nephew, rotate it over S first
so that the red child is a zig-zig descendant of P. Then rotate S over P,
S takes P's red color and both of its children are black.

	  <P>                   <S>                 <S>
	  / \    rotate(S)      / \     repaint     / \
	[X] [S]  ========>    <P> <Sd>  ======>   [P] [Sd]
	    / \               / \                 / \
	 [Sc] <Sd>          [X] [Sc]            [X] [Sc]

rm3-2: S has no red child. Swap the colors of P and S.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]
*/
func (tree *rbTree[K, V]) resolveRedParent(p, s *rbNode[K, V]) {
	g := s.redChild()
	if /* rm3-2 */ g == nil {
		tree.trace("remove.red-parent.recolor", p)
		p.color = Black
		s.color = Red
		return
	}

	/* rm3-1 */
	tree.trace("remove.red-parent.rotate", p)
	if g.isZigZag() {
		tree.rotate(g)
		s = g
	}
	tree.rotate(s)
	s.color = Red
	p.color = Black
	p.sibling().color = Black
}

/*
P is black and S is red, so both nephews are black and the near nephew Sc
must exist. Otherwise, the black depth of S's side would be the same as
X's side before the removal.

rm4-1: Sc has no red child. Rotate S over P, paint S into black and Sc into
red.

	  [P]                   [S]
	  / \    rotate(S)      / \
	[X] <S>  ========>    [P] [Sd]
	    / \               / \
	 [Sc] [Sd]          [X] <Sc>

rm4-2: Sc has a red child, whichever side it hangs on. Rotate S over P,
paint S into black and P into red. Now X's parent is red and Sc is X's new
sibling, continue with rm3-1.

	  [P]                   [S]
	  / \    rotate(S)      / \
	[X] <S>  ========>    <P> [Sd]
	    / \               / \
	 [Sc] [Sd]          [X] [Sc]
	  {c}                    {c}
*/
func (tree *rbTree[K, V]) resolveRedSibling(p, s *rbNode[K, V], isLeft bool) {
	sc := s.right
	if isLeft {
		sc = s.left
	}
	if sc == nil {
		tree.violation("red sibling without near nephew", p)
	}

	if /* rm4-1 */ sc.left.isBlack() && sc.right.isBlack() {
		tree.trace("remove.red-sibling.rotate", p)
		s.color = Black
		sc.color = Red
		tree.rotate(s)
		return
	}

	/* rm4-2 */
	tree.trace("remove.red-sibling.normalize", p)
	tree.rotate(s)
	s.color = Black
	p.color = Red
	tree.resolveRedParent(p, sc)
}

/*
P is black ({P} in general) and S is black with a red child G.

rm5-1: G is the near nephew (zig-zag descendant of P). Rotate G up twice,
it takes P's place and is painted into black.

	  [P]                        [G]
	  / \      rotate(G) x2      / \
	[X] [S]    ===========>    [P] [S]
	    / \                    / \   \
	  <G> [Sd]               [X] ..  [Sd]

rm5-2: G is the far nephew (zig-zig descendant of P). Rotate S over P and
paint G into black.

	  [P]                   [S]
	  / \    rotate(S)      / \
	[X] [S]  ========>    [P] [G]
	    / \               / \
	 {Sc} <G>           [X] {Sc}
*/
func (tree *rbTree[K, V]) resolveBlackSibling(s, g *rbNode[K, V]) {
	if /* rm5-1 */ g.isZigZag() {
		tree.trace("remove.black-sibling.zigzag", g)
		tree.rotate(g)
		tree.rotate(g)
		g.color = Black
		return
	}

	/* rm5-2 */
	tree.trace("remove.black-sibling.rotate", g)
	tree.rotate(s)
	g.color = Black
}
