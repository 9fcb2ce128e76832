package tree

import (
	"errors"

	"go.uber.org/multierr"
)

var (
	ErrRBTreeOrderViolation = errors.New("rbtree order violation")
	ErrRBTreeRedViolation   = errors.New("rbtree red violation")
	ErrRBTreeBlackViolation = errors.New("rbtree black violation")
	ErrRBTreeSizeMismatch   = errors.New("rbtree size mismatch")
	ErrRBTreeLinkViolation  = errors.New("rbtree parent link violation")
)

// Black height mismatch sentinel.
const blackHeightMismatch = -1

func isBlack[K any](node RBNode[K]) bool {
	return node == nil || node.Color() == Black
}

func isRed[K any](node RBNode[K]) bool {
	return node != nil && node.Color() == Red
}

// IsValid is the conjunction of the order, color and black height checks.
func (tree *rbTree[K]) IsValid() bool {
	return tree.isOrdered() &&
		tree.isColorCorrect() &&
		tree.blackHeight(tree.root) != blackHeightMismatch
}

// Validate reports every broken rule instead of the first one.
func (tree *rbTree[K]) Validate() (err error) {
	if !tree.isOrdered() {
		err = multierr.Append(err, ErrRBTreeOrderViolation)
	}
	if !tree.isColorCorrect() {
		err = multierr.Append(err, ErrRBTreeRedViolation)
	}
	if tree.blackHeight(tree.root) == blackHeightMismatch {
		err = multierr.Append(err, ErrRBTreeBlackViolation)
	}
	if !tree.isLinked() {
		err = multierr.Append(err, ErrRBTreeLinkViolation)
	}
	if n := tree.reachable(); n != tree.count {
		err = multierr.Append(err, ErrRBTreeSizeMismatch)
	}
	return err
}

// Strict ascending order over a full min to succ walk.
func (tree *rbTree[K]) isOrdered() bool {
	if tree.root == nil {
		return true
	}
	prev := tree.root.minimum()
	for next := prev.succ(); next != nil; prev, next = next, next.succ() {
		if !tree.less(prev.key, next.key) {
			return false
		}
	}
	return true
}

// The root is black and every red node has black (or NIL) children.
func (tree *rbTree[K]) isColorCorrect() bool {
	if tree.root == nil {
		return true
	}
	if tree.root.isRed() {
		return false
	}
	var check func(x *rbNode[K]) bool
	check = func(x *rbNode[K]) bool {
		if x == nil {
			return true
		}
		if x.isRed() && (x.left.isRed() || x.right.isRed()) {
			return false
		}
		return check(x.left) && check(x.right)
	}
	return check(tree.root)
}

// blackHeight counts the black nodes down to the NIL leaves of x,
// any imbalance short-circuits to blackHeightMismatch.
func (tree *rbTree[K]) blackHeight(x *rbNode[K]) int {
	if x == nil {
		return 0
	}
	l := tree.blackHeight(x.left)
	if l == blackHeightMismatch {
		return blackHeightMismatch
	}
	r := tree.blackHeight(x.right)
	if r == blackHeightMismatch || l != r {
		return blackHeightMismatch
	}
	if x.isBlack() {
		return l + 1
	}
	return l
}

// Every child points back to its parent and the root has no parent.
func (tree *rbTree[K]) isLinked() bool {
	if tree.root == nil {
		return true
	}
	if tree.root.parent != nil {
		return false
	}
	ok := true
	tree.walk(func(x *rbNode[K]) bool {
		if (x.left != nil && x.left.parent != x) || (x.right != nil && x.right.parent != x) {
			ok = false
		}
		return ok
	})
	return ok
}

func (tree *rbTree[K]) reachable() int64 {
	n := int64(0)
	tree.walk(func(*rbNode[K]) bool {
		n++
		return true
	})
	return n
}

// walk visits the nodes by the child links only, so it does not
// depend on the parent links being right.
func (tree *rbTree[K]) walk(fn func(x *rbNode[K]) bool) {
	if tree.root == nil {
		return
	}
	stack := []*rbNode[K]{tree.root}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(x) {
			return
		}
		if x.left != nil {
			stack = append(stack, x.left)
		}
		if x.right != nil {
			stack = append(stack, x.right)
		}
	}
}

// rbtree rule validation utilities over the public node view.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// Inorder traversal to validate the rbtree red rule.
func RedViolationValidate[K any](tree RBTree[K]) error {
	aux := tree.Root()
	if aux == nil {
		return nil
	}
	if isRed(aux) {
		return ErrRBTreeRedViolation
	}

	stack := make([]RBNode[K], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; isRed(aux) {
			if isRed(aux.Parent()) || isRed(aux.Left()) || isRed(aux.Right()) {
				return ErrRBTreeRedViolation
			}
		}

		stack = stack[:size-1]
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

// BFS traversal to load all nodes with at least one NIL child.
func bfsLeaves[K any](tree RBTree[K]) []RBNode[K] {
	aux := tree.Root()
	if aux == nil {
		return nil
	}

	leaves := make([]RBNode[K], 0, tree.Len()>>1+1)
	queue := []RBNode[K]{aux}
	for len(queue) > 0 {
		aux = queue[0]
		queue = queue[1:]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
	}
	return leaves
}

func blackDepth[K any](node RBNode[K]) int {
	depth := 0
	for aux := node; aux != nil; aux = aux.Parent() {
		if isBlack(aux) {
			depth++
		}
	}
	return depth
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
	<1>            [16]

Each NIL leaf to root black depth is equal.
*/
func BlackViolationValidate[K any](tree RBTree[K]) error {
	leaves := bfsLeaves(tree)
	if leaves == nil {
		return nil
	}

	depth := blackDepth(leaves[0])
	for i := 1; i < len(leaves); i++ {
		if blackDepth(leaves[i]) != depth {
			return ErrRBTreeBlackViolation
		}
	}
	return nil
}
