package tree

import (
	"io"
	"math"

	"github.com/benz9527/xrbset/lib/infra"
)

var _ OrderedSet[int] = (*rbSet[int])(nil)

// rbSet is the unique key facade over rbTree. The tree itself accepts
// equivalent keys, uniqueness is checked here before every insert.
type rbSet[K any] struct {
	tree *rbTree[K]
	less infra.LessFunc[K]
}

func (s *rbSet[K]) emptyTree() *rbTree[K] {
	return &rbTree[K]{
		less:   s.less,
		isDesc: s.tree.isDesc,
	}
}

func (s *rbSet[K]) Len() int64 {
	return s.tree.Len()
}

func (s *rbSet[K]) Empty() bool {
	return s.tree.root == nil
}

func (s *rbSet[K]) MaxSize() int64 {
	return math.MaxInt64
}

func (s *rbSet[K]) KeyComp() infra.LessFunc[K] {
	return s.less
}

func (s *rbSet[K]) ValueComp() infra.LessFunc[K] {
	return s.less
}

func (s *rbSet[K]) Begin() Cursor[K] {
	return Cursor[K]{node: s.tree.root.minimum()}
}

func (s *rbSet[K]) End() Cursor[K] {
	return Cursor[K]{}
}

func (s *rbSet[K]) RBegin() ReverseCursor[K] {
	return ReverseCursor[K]{base: Cursor[K]{node: s.tree.root.maximum()}}
}

func (s *rbSet[K]) REnd() ReverseCursor[K] {
	return ReverseCursor[K]{}
}

// Insert returns the cursor to the key, whether it was inserted now or
// it was already present.
func (s *rbSet[K]) Insert(key K) Cursor[K] {
	if x := s.tree.search(key); x != nil {
		return Cursor[K]{node: x}
	}
	return Cursor[K]{node: s.tree.insert(key)}
}

// Erase returns the cursor to the former successor of key, or end if the
// key is absent.
func (s *rbSet[K]) Erase(key K) Cursor[K] {
	x := s.tree.search(key)
	if x == nil {
		return s.End()
	}
	next := x.succ()
	s.tree.removeNode(x)
	return Cursor[K]{node: next}
}

// EraseAt advances pos before the removal, so pos itself is never
// dereferenced after the tree changed.
func (s *rbSet[K]) EraseAt(pos Cursor[K]) Cursor[K] {
	if pos.IsEnd() {
		return pos
	}
	key := pos.Key()
	next := pos.Next()
	s.tree.Remove(key)
	return next
}

func (s *rbSet[K]) EraseReverseAt(pos ReverseCursor[K]) ReverseCursor[K] {
	if pos.IsEnd() {
		return pos
	}
	key := pos.Key()
	next := pos.Next()
	s.tree.Remove(key)
	return next
}

func (s *rbSet[K]) Clear() {
	s.tree.Release()
}

func (s *rbSet[K]) Find(key K) Cursor[K] {
	return Cursor[K]{node: s.tree.search(key)}
}

func (s *rbSet[K]) Count(key K) int64 {
	if s.tree.search(key) != nil {
		return 1
	}
	return 0
}

func (s *rbSet[K]) Contains(key K) bool {
	return s.tree.search(key) != nil
}

func (s *rbSet[K]) LowerBound(key K) Cursor[K] {
	return Cursor[K]{node: s.tree.lowerBound(key)}
}

func (s *rbSet[K]) UpperBound(key K) Cursor[K] {
	return Cursor[K]{node: s.tree.upperBound(key)}
}

func (s *rbSet[K]) EqualRange(key K) (Cursor[K], Cursor[K]) {
	return s.LowerBound(key), s.UpperBound(key)
}

// Clone reinserts every key into a fresh tree, no node is shared.
func (s *rbSet[K]) Clone() OrderedSet[K] {
	dst := &rbSet[K]{
		tree: s.emptyTree(),
		less: s.less,
	}
	s.tree.Foreach(func(_ int64, _ RBColor, key K) bool {
		dst.tree.insert(key)
		return true
	})
	return dst
}

// CopyFrom replaces the content by copies of other's keys and keeps the
// comparator of s.
func (s *rbSet[K]) CopyFrom(other OrderedSet[K]) {
	if other == nil {
		return
	}
	if o, ok := other.(*rbSet[K]); ok && o == s {
		return
	}
	s.tree.Release()
	other.Foreach(func(_ int64, key K) bool {
		s.Insert(key)
		return true
	})
}

// Move hands the tree over to a new set in O(1) and leaves s empty.
func (s *rbSet[K]) Move() OrderedSet[K] {
	dst := &rbSet[K]{
		tree: s.tree,
		less: s.less,
	}
	s.tree = dst.emptyTree()
	return dst
}

func (s *rbSet[K]) MoveFrom(other OrderedSet[K]) {
	if other == nil {
		return
	}
	o, ok := other.(*rbSet[K])
	if !ok {
		s.CopyFrom(other)
		other.Clear()
		return
	}
	if o == s {
		return
	}
	s.tree.Release()
	s.tree, s.less = o.tree, o.less
	o.tree = s.emptyTree()
}

func (s *rbSet[K]) Swap(other OrderedSet[K]) {
	if other == nil {
		return
	}
	o, ok := other.(*rbSet[K])
	if !ok {
		keys := s.Keys()
		s.CopyFrom(other)
		other.Clear()
		for _, key := range keys {
			other.Insert(key)
		}
		return
	}
	s.tree, o.tree = o.tree, s.tree
	s.less, o.less = o.less, s.less
}

// Equal compares the sizes first, then the keys pairwise in sorted order.
func (s *rbSet[K]) Equal(other OrderedSet[K]) bool {
	if other == nil || s.Len() != other.Len() {
		return false
	}
	for l, r := s.Begin(), other.Begin(); !l.IsEnd(); l, r = l.Next(), r.Next() {
		if r.IsEnd() || !s.less.Equivalent(l.Key(), r.Key()) {
			return false
		}
	}
	return true
}

func (s *rbSet[K]) Owns(pos Cursor[K]) bool {
	return s.tree.owns(pos.node)
}

func (s *rbSet[K]) Foreach(action func(idx int64, key K) bool) {
	if action == nil {
		return
	}
	s.tree.Foreach(func(idx int64, _ RBColor, key K) bool {
		return action(idx, key)
	})
}

func (s *rbSet[K]) Keys() []K {
	keys := make([]K, 0, s.Len())
	s.tree.Foreach(func(_ int64, _ RBColor, key K) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (s *rbSet[K]) IsValid() bool {
	return s.tree.IsValid()
}

func (s *rbSet[K]) Validate() error {
	return s.tree.Validate()
}

func (s *rbSet[K]) Manifest(w io.Writer) error {
	return s.tree.Manifest(w)
}

func NewOrderedSet[K infra.OrderedKey](opts ...RBTreeOpt[K]) OrderedSet[K] {
	tree := newRBTree[K](infra.OrderedLess[K](), opts...)
	return &rbSet[K]{
		tree: tree,
		less: tree.less,
	}
}

func NewOrderedSetWithLess[K any](less infra.LessFunc[K], opts ...RBTreeOpt[K]) OrderedSet[K] {
	tree := newRBTree[K](less, opts...)
	return &rbSet[K]{
		tree: tree,
		less: tree.less,
	}
}

// NewOrderedSetFrom builds a set holding the unique keys of keys.
func NewOrderedSetFrom[K infra.OrderedKey](keys []K, opts ...RBTreeOpt[K]) OrderedSet[K] {
	s := NewOrderedSet[K](opts...)
	for _, key := range keys {
		s.Insert(key)
	}
	return s
}
