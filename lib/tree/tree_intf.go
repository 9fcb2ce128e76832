package tree

import (
	"io"
	"strconv"

	"github.com/benz9527/xrbset/lib/infra"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "RBColor(" + strconv.Itoa(int(c)) + ")"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

type TraverseOrder uint8

const (
	PreOrder TraverseOrder = iota
	InOrder
	PostOrder
)

// RBNode is the read-only view of a tree node.
// Absent relations are returned as nil interfaces.
type RBNode[K any] interface {
	Key() K
	Color() RBColor
	Left() RBNode[K]
	Right() RBNode[K]
	Parent() RBNode[K]
}

// RBTree is the balancing engine. It does not reject equivalent keys,
// a key that is not less than the current node descends right.
type RBTree[K any] interface {
	Len() int64
	Root() RBNode[K]
	Less() infra.LessFunc[K]
	Insert(key K) RBNode[K]
	Remove(key K) bool
	RemoveNode(node RBNode[K]) bool
	RemoveMin() (RBNode[K], bool)
	Search(key K) RBNode[K]
	RecursiveSearch(key K) RBNode[K]
	Minimum() RBNode[K]
	Maximum() RBNode[K]
	MinKey() K
	MaxKey() K
	Successor(node RBNode[K]) RBNode[K]
	Predecessor(node RBNode[K]) RBNode[K]
	LowerBound(key K) RBNode[K]
	UpperBound(key K) RBNode[K]
	Foreach(action func(idx int64, color RBColor, key K) bool)
	Traverse(order TraverseOrder, action func(idx int64, color RBColor, key K) bool)
	Manifest(w io.Writer) error
	Release()
	IsValid() bool
	Validate() error
}

// OrderedSet is a set of unique keys kept in ascending comparator order.
// Cursors stay valid until the node they point to is erased.
type OrderedSet[K any] interface {
	Len() int64
	Empty() bool
	MaxSize() int64
	KeyComp() infra.LessFunc[K]
	ValueComp() infra.LessFunc[K]

	Begin() Cursor[K]
	End() Cursor[K]
	RBegin() ReverseCursor[K]
	REnd() ReverseCursor[K]

	Insert(key K) Cursor[K]
	Erase(key K) Cursor[K]
	EraseAt(pos Cursor[K]) Cursor[K]
	EraseReverseAt(pos ReverseCursor[K]) ReverseCursor[K]
	Clear()

	Find(key K) Cursor[K]
	Count(key K) int64
	Contains(key K) bool
	LowerBound(key K) Cursor[K]
	UpperBound(key K) Cursor[K]
	EqualRange(key K) (Cursor[K], Cursor[K])

	Clone() OrderedSet[K]
	CopyFrom(other OrderedSet[K])
	Move() OrderedSet[K]
	MoveFrom(other OrderedSet[K])
	Swap(other OrderedSet[K])
	Equal(other OrderedSet[K]) bool

	Owns(pos Cursor[K]) bool
	Foreach(action func(idx int64, key K) bool)
	Keys() []K
	Manifest(w io.Writer) error
	IsValid() bool
	Validate() error
}
