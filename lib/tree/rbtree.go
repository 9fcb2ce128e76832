package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/benz9527/xrbset/lib/infra"
)

type rbNode[K any] struct {
	parent *rbNode[K]
	left   *rbNode[K]
	right  *rbNode[K]
	key    K
	color  RBColor
}

func (node *rbNode[K]) Key() K {
	return node.key
}

func (node *rbNode[K]) Color() RBColor {
	return node.color
}

func (node *rbNode[K]) Left() RBNode[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K]) Right() RBNode[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *rbNode[K]) Parent() RBNode[K] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

// NIL leaves are black.
func (node *rbNode[K]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[K]) direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[K]) minimum() *rbNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *rbNode[K]) maximum() *rbNode[K] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (node *rbNode[K]) pred() *rbNode[K] {
	x := node
	if x == nil {
		return nil
	}
	if x.left != nil {
		return x.left.maximum()
	}

	aux := x.parent
	// Backtrack to the first ancestor reached by a right edge.
	for aux != nil && x == aux.left {
		x = aux
		aux = aux.parent
	}
	return aux
}

// The succ node of the current node is its next node in sorted order.
func (node *rbNode[K]) succ() *rbNode[K] {
	x := node
	if x == nil {
		return nil
	}
	if x.right != nil {
		return x.right.minimum()
	}

	aux := x.parent
	// Backtrack to the first ancestor reached by a left edge.
	for aux != nil && x == aux.right {
		x = aux
		aux = aux.parent
	}
	return aux
}

func asRBNode[K any](node RBNode[K]) *rbNode[K] {
	if node == nil {
		return nil
	}
	n, ok := node.(*rbNode[K])
	if !ok {
		return nil
	}
	return n
}

func toRBNode[K any](node *rbNode[K]) RBNode[K] {
	if node == nil {
		return nil
	}
	return node
}

type rbTree[K any] struct {
	root   *rbNode[K]
	less   infra.LessFunc[K]
	count  int64
	isDesc bool
}

func (tree *rbTree[K]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K]) Root() RBNode[K] {
	return toRBNode(tree.root)
}

func (tree *rbTree[K]) Less() infra.LessFunc[K] {
	return tree.less
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K]) leftRotate(x *rbNode[K]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K]) rightRotate(x *rbNode[K]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
}

// replaceChild points the link of p that referenced old to young.
// A nil p means old was the root.
func (tree *rbTree[K]) replaceChild(p, old, young *rbNode[K]) {
	if p == nil {
		tree.root = young
	} else if p.left == old {
		p.left = young
	} else {
		p.right = young
	}
}

func (tree *rbTree[K]) Insert(key K) RBNode[K] {
	return tree.insert(key)
}

// i1: Empty rbtree, the new node becomes the root and is painted black.
// Equivalent keys are not rejected here, they descend right.
func (tree *rbTree[K]) insert(key K) *rbNode[K] {
	var x, y *rbNode[K] = tree.root, nil
	dir := Root
	for x != nil {
		y = x
		if /* less */ tree.less(key, x.key) {
			x, dir = x.left, Left
		} else /* greater or equal */ {
			x, dir = x.right, Right
		}
	}

	z := &rbNode[K]{
		key:    key,
		color:  Red,
		parent: y,
	}
	switch dir {
	case Root:
		tree.root = z
	case Left:
		y.left = z
	case Right:
		y.right = z
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] insert a new key into unknown direction")
	}

	tree.count++
	tree.insertRebalance(z)
	return z
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: Current node X's parent P is black (or X is the root), nothing to do.

im2: Both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
Repaint P and U into black and G into red. G may now be red-violation,
continue to fix from G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im3: The parent P is red but the uncle U is black. (red-violation)
X is the inner grandchild. Rotate P to the opposite direction so X
becomes the outer grandchild, then enter im4.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im4: X is the outer grandchild. Repaint P into black and G into red,
then rotate G. The walk terminates.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]

The root is painted black after the walk, the im2 absorption may
have turned it red.
*/
func (tree *rbTree[K]) insertRebalance(x *rbNode[K]) {
	for /* im1 */ x.parent.isRed() {
		// A red parent is never the root, the grandpa exists.
		p, gp := x.parent, x.parent.parent
		if p == gp.left {
			if /* im2 */ u := gp.right; u.isRed() {
				p.color, u.color, gp.color = Black, Black, Red
				x = gp
				continue
			}
			if /* im3 */ x == p.right {
				tree.leftRotate(p)
				x, p = p, x
			}
			/* im4 */
			p.color, gp.color = Black, Red
			tree.rightRotate(gp)
			break
		}

		if /* im2 */ u := gp.left; u.isRed() {
			p.color, u.color, gp.color = Black, Black, Red
			x = gp
			continue
		}
		if /* im3 */ x == p.left {
			tree.rightRotate(p)
			x, p = p, x
		}
		/* im4 */
		p.color, gp.color = Black, Red
		tree.leftRotate(gp)
		break
	}
	tree.root.color = Black
}

func (tree *rbTree[K]) Remove(key K) bool {
	z := tree.search(key)
	if z == nil {
		return false
	}
	tree.removeNode(z)
	return true
}

func (tree *rbTree[K]) RemoveNode(node RBNode[K]) bool {
	z := asRBNode(node)
	if !tree.owns(z) {
		return false
	}
	tree.removeNode(z)
	return true
}

func (tree *rbTree[K]) RemoveMin() (RBNode[K], bool) {
	if tree.root == nil {
		return nil, false
	}
	_min := tree.root.minimum()
	tree.removeNode(_min)
	return _min, true
}

/*
r1: Node Z has two children.
Its succ S (leftmost node of Z's right subtree) has no left child.
S is spliced into Z's position and takes over Z's color. The position
that really loses a node is S's old position, so S's old color and
S's right child X decide the rebalance.

	  |                    |
	  Z                    S
	 / \                  / \
	L   R   splice(S)    L   R
	   /    =========>      /
	  S                    X
	   \
	    X

r2: Node Z has at most one child X (or NIL). X is promoted into Z's
position.

If the node that left its position was black, the promoted position X
carries a double black. (black-violation)

Keys never move between nodes, so the other nodes keep their identity
and cursors pointing to them stay valid.
*/
func (tree *rbTree[K]) removeNode(z *rbNode[K]) {
	var (
		x, xp *rbNode[K]
		color RBColor
	)
	if /* r1 */ z.left != nil && z.right != nil {
		s := z.right.minimum()
		tree.replaceChild(z.parent, z, s)

		x, xp, color = s.right, s.parent, s.color
		if xp == z {
			xp = s
		} else {
			if x != nil {
				x.parent = xp
			}
			xp.left = x
			s.right = z.right
			s.right.parent = s
		}
		s.parent = z.parent
		s.color = z.color
		s.left = z.left
		s.left.parent = s
	} else /* r2 */ {
		if z.left != nil {
			x = z.left
		} else {
			x = z.right
		}
		xp, color = z.parent, z.color
		if x != nil {
			x.parent = xp
		}
		tree.replaceChild(xp, z, x)
	}

	if color == Black {
		tree.removeRebalance(x, xp)
	}

	// Unlink node
	z.parent, z.left, z.right = nil, nil, nil
	tree.count--
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

X is the double black position (maybe NIL, so its parent P is tracked).
Sc is the sibling's child on X's side, Sd is the one on the far side.

rm1: The sibling S is red, so P, Sc and Sd are black.
Repaint S into black and P into red, rotate P toward X.
X gets a black sibling, enter rm2, rm3 or rm4.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S, Sc and Sd are black.
Repaint S into red, P inherits the double black. If P is red it is
painted black and the walk stops, otherwise continue from P.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: S is black, Sc is red and Sd is black.
Repaint Sc into black and S into red, rotate S away from X.
Enter rm4.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm4: S is black and Sd is red.
S takes P's color, P and Sd are painted black, rotate P toward X.
The double black is resolved.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K]) removeRebalance(x, p *rbNode[K]) {
	for x != tree.root && x.isBlack() {
		// The double black position is never the root here, so P exists
		// and the sibling is not NIL (its side has a positive black height).
		if x == p.left {
			s := p.right
			if /* rm1 */ s.isRed() {
				s.color, p.color = Black, Red
				tree.leftRotate(p)
				s = p.right
			}
			if /* rm2 */ s.left.isBlack() && s.right.isBlack() {
				s.color = Red
				x, p = p, p.parent
				continue
			}
			if /* rm3 */ s.right.isBlack() {
				s.left.color = Black
				s.color = Red
				tree.rightRotate(s)
				s = p.right
			}
			/* rm4 */
			s.color, p.color = p.color, Black
			s.right.color = Black
			tree.leftRotate(p)
			x = tree.root
			break
		}

		s := p.left
		if /* rm1 */ s.isRed() {
			s.color, p.color = Black, Red
			tree.rightRotate(p)
			s = p.left
		}
		if /* rm2 */ s.left.isBlack() && s.right.isBlack() {
			s.color = Red
			x, p = p, p.parent
			continue
		}
		if /* rm3 */ s.left.isBlack() {
			s.right.color = Black
			s.color = Red
			tree.leftRotate(s)
			s = p.left
		}
		/* rm4 */
		s.color, p.color = p.color, Black
		s.left.color = Black
		tree.rightRotate(p)
		x = tree.root
		break
	}

	if x != nil {
		x.color = Black
	}
}

func (tree *rbTree[K]) search(key K) *rbNode[K] {
	for aux := tree.root; aux != nil; {
		if tree.less(key, aux.key) {
			aux = aux.left
		} else if tree.less(aux.key, key) {
			aux = aux.right
		} else {
			return aux
		}
	}
	return nil
}

func (tree *rbTree[K]) recursiveSearch(x *rbNode[K], key K) *rbNode[K] {
	if x == nil {
		return nil
	}
	if tree.less(key, x.key) {
		return tree.recursiveSearch(x.left, key)
	} else if tree.less(x.key, key) {
		return tree.recursiveSearch(x.right, key)
	}
	return x
}

func (tree *rbTree[K]) Search(key K) RBNode[K] {
	return toRBNode(tree.search(key))
}

func (tree *rbTree[K]) RecursiveSearch(key K) RBNode[K] {
	return toRBNode(tree.recursiveSearch(tree.root, key))
}

// The first node whose key is not less than key.
func (tree *rbTree[K]) lowerBound(key K) *rbNode[K] {
	var res *rbNode[K]
	for aux := tree.root; aux != nil; {
		if tree.less(aux.key, key) {
			aux = aux.right
		} else {
			res, aux = aux, aux.left
		}
	}
	return res
}

// The first node whose key is greater than key.
func (tree *rbTree[K]) upperBound(key K) *rbNode[K] {
	var res *rbNode[K]
	for aux := tree.root; aux != nil; {
		if tree.less(key, aux.key) {
			res, aux = aux, aux.left
		} else {
			aux = aux.right
		}
	}
	return res
}

func (tree *rbTree[K]) LowerBound(key K) RBNode[K] {
	return toRBNode(tree.lowerBound(key))
}

func (tree *rbTree[K]) UpperBound(key K) RBNode[K] {
	return toRBNode(tree.upperBound(key))
}

func (tree *rbTree[K]) Minimum() RBNode[K] {
	return toRBNode(tree.root.minimum())
}

func (tree *rbTree[K]) Maximum() RBNode[K] {
	return toRBNode(tree.root.maximum())
}

// MinKey requires a non-empty tree.
func (tree *rbTree[K]) MinKey() K {
	if tree.root == nil {
		panic( /* debug assertion */ "[rbtree] min key of an empty tree")
	}
	return tree.root.minimum().key
}

// MaxKey requires a non-empty tree.
func (tree *rbTree[K]) MaxKey() K {
	if tree.root == nil {
		panic( /* debug assertion */ "[rbtree] max key of an empty tree")
	}
	return tree.root.maximum().key
}

func (tree *rbTree[K]) Successor(node RBNode[K]) RBNode[K] {
	return toRBNode(asRBNode(node).succ())
}

func (tree *rbTree[K]) Predecessor(node RBNode[K]) RBNode[K] {
	return toRBNode(asRBNode(node).pred())
}

// owns reports whether node is linked under the root of this tree.
func (tree *rbTree[K]) owns(node *rbNode[K]) bool {
	if node == nil || tree.root == nil {
		return false
	}
	aux := node
	for ; aux.parent != nil; aux = aux.parent {
	}
	return aux == tree.root
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[K]) Foreach(action func(idx int64, color RBColor, key K) bool) {
	aux := tree.root
	if aux == nil || action == nil {
		return
	}

	stack := make([]*rbNode[K], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (tree *rbTree[K]) Traverse(order TraverseOrder, action func(idx int64, color RBColor, key K) bool) {
	if tree.root == nil || action == nil {
		return
	}

	switch order {
	case PreOrder:
		stack := []*rbNode[K]{tree.root}
		for idx := int64(0); len(stack) > 0; idx++ {
			aux := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !action(idx, aux.color, aux.key) {
				return
			}
			if aux.right != nil {
				stack = append(stack, aux.right)
			}
			if aux.left != nil {
				stack = append(stack, aux.left)
			}
		}
	case PostOrder:
		// Walk by the parent links, prev remembers where we came from.
		var prev *rbNode[K]
		idx := int64(0)
		for aux := tree.root; aux != nil; {
			switch {
			case prev == aux.parent && aux.left != nil:
				prev, aux = aux, aux.left
			case (prev == aux.parent || prev == aux.left) && aux.right != nil:
				prev, aux = aux, aux.right
			default:
				if !action(idx, aux.color, aux.key) {
					return
				}
				idx++
				prev, aux = aux, aux.parent
			}
		}
	default:
		tree.Foreach(action)
	}
}

// Manifest prints the tree row by row, each node as key/color.
func (tree *rbTree[K]) Manifest(w io.Writer) error {
	if tree.root == nil || w == nil {
		return nil
	}

	builder := strings.Builder{}
	current, next := []*rbNode[K]{tree.root}, make([]*rbNode[K], 0, 8)
	for len(current) > 0 {
		next = next[:0]
		for i, x := range current {
			if i > 0 {
				_ = builder.WriteByte(' ')
			}
			c := "b"
			if x.isRed() {
				c = "r"
			}
			_, _ = fmt.Fprintf(&builder, "%v/%s", x.key, c)
			if x.left != nil {
				next = append(next, x.left)
			}
			if x.right != nil {
				next = append(next, x.right)
			}
		}
		_ = builder.WriteByte('\n')
		current, next = next, current
	}
	_, err := io.WriteString(w, builder.String())
	return err
}

// Release detaches every node in post-order without recursion.
// Each node is visited exactly once.
func (tree *rbTree[K]) Release() {
	aux := tree.root
	tree.root = nil
	for aux != nil {
		if aux.left != nil {
			aux = aux.left
			continue
		}
		if aux.right != nil {
			aux = aux.right
			continue
		}
		p := aux.parent
		if p != nil {
			if p.left == aux {
				p.left = nil
			} else {
				p.right = nil
			}
		}
		aux.parent = nil
		tree.count--
		aux = p
	}
}

type RBTreeOpt[K any] func(*rbTree[K])

func WithRBTreeDesc[K any]() RBTreeOpt[K] {
	return func(tree *rbTree[K]) {
		tree.isDesc = true
	}
}

func newRBTree[K any](less infra.LessFunc[K], opts ...RBTreeOpt[K]) *rbTree[K] {
	if less == nil {
		panic( /* debug assertion */ "[rbtree] nil less comparator")
	}
	tree := &rbTree[K]{
		count:  0,
		isDesc: false,
	}

	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	if tree.isDesc {
		less = infra.ReverseLess(less)
	}
	tree.less = less
	return tree
}

func NewRBTree[K infra.OrderedKey](opts ...RBTreeOpt[K]) RBTree[K] {
	return newRBTree[K](infra.OrderedLess[K](), opts...)
}

func NewRBTreeWithLess[K any](less infra.LessFunc[K], opts ...RBTreeOpt[K]) RBTree[K] {
	return newRBTree[K](less, opts...)
}
