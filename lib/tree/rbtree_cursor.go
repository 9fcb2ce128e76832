package tree

// Cursor is a position in the sorted order of a tree.
// The zero value is the end sentinel. Cursors are equal iff they
// point to the same node, so == tests position, not key.
type Cursor[K any] struct {
	node *rbNode[K]
}

func (c Cursor[K]) IsEnd() bool {
	return c.node == nil
}

// Key requires a non-end cursor.
func (c Cursor[K]) Key() K {
	if c.node == nil {
		panic( /* debug assertion */ "[rbtree] dereference an end cursor")
	}
	return c.node.key
}

func (c Cursor[K]) Node() RBNode[K] {
	return toRBNode(c.node)
}

func (c Cursor[K]) Equal(other Cursor[K]) bool {
	return c.node == other.node
}

// Next steps to the in-order successor. Stepping from end stays at end.
func (c Cursor[K]) Next() Cursor[K] {
	return Cursor[K]{node: c.node.succ()}
}

// Prev steps to the in-order predecessor. Stepping from end stays at end.
func (c Cursor[K]) Prev() Cursor[K] {
	return Cursor[K]{node: c.node.pred()}
}

// Advance steps n times forward (or backward for negative n) and
// stops early at end.
func (c Cursor[K]) Advance(n int) Cursor[K] {
	for ; n > 0 && !c.IsEnd(); n-- {
		c = c.Next()
	}
	for ; n < 0 && !c.IsEnd(); n++ {
		c = c.Prev()
	}
	return c
}

// ReverseCursor walks the sorted order backwards on top of a Cursor.
type ReverseCursor[K any] struct {
	base Cursor[K]
}

func NewReverseCursor[K any](base Cursor[K]) ReverseCursor[K] {
	return ReverseCursor[K]{base: base}
}

func (rc ReverseCursor[K]) Base() Cursor[K] {
	return rc.base
}

func (rc ReverseCursor[K]) IsEnd() bool {
	return rc.base.IsEnd()
}

func (rc ReverseCursor[K]) Key() K {
	return rc.base.Key()
}

func (rc ReverseCursor[K]) Equal(other ReverseCursor[K]) bool {
	return rc.base.Equal(other.base)
}

func (rc ReverseCursor[K]) Next() ReverseCursor[K] {
	return ReverseCursor[K]{base: rc.base.Prev()}
}

func (rc ReverseCursor[K]) Prev() ReverseCursor[K] {
	return ReverseCursor[K]{base: rc.base.Next()}
}
