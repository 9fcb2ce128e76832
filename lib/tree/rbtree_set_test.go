package tree

import (
	"bytes"
	"math"
	randv2 "math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/google/btree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/xrbset/lib/infra"
)

func requireSetKeys[K any](t *testing.T, set OrderedSet[K], expected []K) {
	t.Helper()
	if diff := cmp.Diff(expected, set.Keys()); diff != "" {
		t.Fatalf("set keys mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, int64(len(expected)), set.Len())
	require.Equal(t, len(expected) == 0, set.Empty())
	require.NoError(t, set.Validate())
}

func TestOrderedSet_EraseAtWhileIterating(t *testing.T) {
	set := NewOrderedSet[int]()
	for i := 0; i < 20; i++ {
		set.Insert(i)
	}
	require.True(t, set.IsValid())

	expected := 0
	for c := set.Begin(); !c.IsEnd(); {
		require.Equal(t, expected, c.Key())
		c = set.EraseAt(c)
		expected++
		require.True(t, set.IsValid())
		require.Equal(t, int64(20-expected), set.Len())
	}
	require.Equal(t, 20, expected)
	require.True(t, set.Empty())
	require.True(t, set.EraseAt(set.End()).IsEnd())
}

func TestOrderedSet_RandomKeysMatchReference(t *testing.T) {
	set := NewOrderedSet[int]()
	ref := btree.NewOrderedG[int](16)
	for i := 0; i < 1000; i++ {
		key := randv2.IntN(1 << 12)
		set.Insert(key)
		ref.ReplaceOrInsert(key)
	}

	expected := make([]int, 0, ref.Len())
	ref.Ascend(func(item int) bool {
		expected = append(expected, item)
		return true
	})
	requireSetKeys(t, set, expected)
	require.True(t, slices.IsSorted(set.Keys()))
}

func TestOrderedSet_InsertTwice(t *testing.T) {
	set := NewOrderedSet[int]()
	first := set.Insert(5)
	second := set.Insert(5)
	require.Equal(t, first, second)
	require.True(t, first == second)
	require.Equal(t, int64(1), set.Len())
	require.Equal(t, int64(1), set.Count(5))
	require.Equal(t, int64(0), set.Count(6))
}

func TestOrderedSet_EraseKey(t *testing.T) {
	set := NewOrderedSetFrom([]int{1, 2, 3})
	next := set.Erase(2)
	require.Equal(t, 3, next.Key())
	require.False(t, set.Contains(2))
	requireSetKeys(t, set, []int{1, 3})

	// absent key
	require.True(t, set.Erase(2).IsEnd())
	requireSetKeys(t, set, []int{1, 3})

	require.True(t, set.Erase(3).IsEnd())
	require.True(t, set.Erase(-1).IsEnd())
	requireSetKeys(t, set, []int{1})
}

func TestOrderedSet_CloneIndependence(t *testing.T) {
	set := NewOrderedSet[int]()
	keys := make([]int, 0, 50)
	for i := 0; i < 50; i++ {
		set.Insert(i * 3)
		keys = append(keys, i*3)
	}
	cloned := set.Clone()
	set.Clear()

	requireSetKeys(t, set, []int{})
	requireSetKeys(t, cloned, keys)
	require.True(t, cloned.IsValid())

	// and the other way round
	set.Insert(7)
	cloned.Erase(0)
	require.True(t, set.Contains(7))
	require.False(t, cloned.Contains(7))
	require.Equal(t, int64(49), cloned.Len())
	require.Equal(t, int64(1), set.Len())
}

func TestOrderedSet_RandomRemoval(t *testing.T) {
	set := NewOrderedSet[int]()
	keys := make([]int, 0, 1000)
	for i := 0; i < 1000; i++ {
		set.Insert(i)
		keys = append(keys, i)
	}
	randv2.Shuffle(len(keys), func(i, j int) {
		keys[i], keys[j] = keys[j], keys[i]
	})

	for idx, key := range keys {
		c := set.Find(key)
		require.False(t, c.IsEnd())
		set.EraseAt(c)
		require.False(t, set.Contains(key))
		require.True(t, set.IsValid())
		require.Equal(t, int64(len(keys)-idx-1), set.Len())
	}
	require.True(t, set.Empty())
	require.NoError(t, set.Validate())
}

func TestOrderedSet_MoveAndSwap(t *testing.T) {
	set := NewOrderedSetFrom([]int{1, 2, 3})
	pos := set.Find(2)

	moved := set.Move()
	requireSetKeys(t, set, []int{})
	requireSetKeys(t, moved, []int{1, 2, 3})
	require.True(t, moved.Owns(pos))
	require.False(t, set.Owns(pos))

	// The moved-from set stays usable.
	set.Insert(9)
	requireSetKeys(t, set, []int{9})

	dst := NewOrderedSetFrom([]int{100, 200})
	dst.MoveFrom(moved)
	requireSetKeys(t, dst, []int{1, 2, 3})
	requireSetKeys(t, moved, []int{})
	require.True(t, dst.Owns(pos))

	// self move assignment keeps the content
	dst.MoveFrom(dst)
	requireSetKeys(t, dst, []int{1, 2, 3})

	dst.Swap(set)
	requireSetKeys(t, dst, []int{9})
	requireSetKeys(t, set, []int{1, 2, 3})
	require.True(t, set.Owns(pos))
}

func TestOrderedSet_CopyFrom(t *testing.T) {
	src := NewOrderedSetFrom([]string{"b", "a", "c"})
	dst := NewOrderedSetFrom([]string{"z"})
	dst.CopyFrom(src)
	requireSetKeys(t, dst, []string{"a", "b", "c"})
	requireSetKeys(t, src, []string{"a", "b", "c"})
	require.True(t, dst.Equal(src))
	require.False(t, dst.Find("a") == src.Find("a"))

	dst.CopyFrom(dst)
	requireSetKeys(t, dst, []string{"a", "b", "c"})

	dst.Insert("d")
	require.False(t, dst.Equal(src))
	require.False(t, src.Contains("d"))
}

func TestOrderedSet_Equal(t *testing.T) {
	a := NewOrderedSetFrom([]int{1, 2, 3})
	b := NewOrderedSetFrom([]int{3, 2, 1})
	require.True(t, a.Equal(b))
	require.True(t, b.Equal(a))
	require.True(t, a.Equal(a))
	require.False(t, a.Equal(nil))

	b.Erase(2)
	b.Insert(4)
	require.False(t, a.Equal(b))
	b.Erase(4)
	require.False(t, a.Equal(b))

	require.True(t, NewOrderedSet[int]().Equal(NewOrderedSet[int]()))
}

func TestOrderedSet_Bounds(t *testing.T) {
	set := NewOrderedSetFrom([]int{10, 20, 30})

	for _, key := range []int{-1, 10, 15, 20, 30, 31} {
		lo, hi := set.EqualRange(key)
		require.Equal(t, set.LowerBound(key), lo)
		require.Equal(t, set.UpperBound(key), hi)
	}

	lo, hi := set.EqualRange(20)
	require.Equal(t, 20, lo.Key())
	require.Equal(t, 30, hi.Key())
	require.Equal(t, hi, lo.Next())

	lo, hi = set.EqualRange(15)
	require.Equal(t, lo, hi)
	require.Equal(t, 20, lo.Key())

	lo, hi = set.EqualRange(31)
	require.True(t, lo.IsEnd())
	require.True(t, hi.IsEnd())
	require.Equal(t, set.End(), lo)

	require.True(t, set.UpperBound(30).IsEnd())
	require.Equal(t, 10, set.LowerBound(math.MinInt).Key())
}

func TestOrderedSet_EraseReverseAt(t *testing.T) {
	set := NewOrderedSetFrom([]int{1, 2, 3, 4})
	visited := make([]int, 0, 4)
	for rc := set.RBegin(); !rc.IsEnd(); {
		visited = append(visited, rc.Key())
		if rc.Key()%2 == 0 {
			rc = set.EraseReverseAt(rc)
			continue
		}
		rc = rc.Next()
	}
	require.Equal(t, []int{4, 3, 2, 1}, visited)
	requireSetKeys(t, set, []int{1, 3})
	require.True(t, set.EraseReverseAt(set.REnd()).IsEnd())
}

func TestOrderedSet_Descending(t *testing.T) {
	set := NewOrderedSetFrom([]int{1, 5, 3}, WithRBTreeDesc[int]())
	requireSetKeys(t, set, []int{5, 3, 1})
	require.Equal(t, 3, set.LowerBound(4).Key())
	require.True(t, set.KeyComp()(5, 1))
	require.True(t, set.ValueComp()(5, 1))

	cloned := set.Clone()
	cloned.Insert(4)
	requireSetKeys(t, cloned, []int{5, 4, 3, 1})

	moved := set.Move()
	set.Insert(2)
	set.Insert(8)
	requireSetKeys(t, set, []int{8, 2})
	requireSetKeys(t, moved, []int{5, 3, 1})
}

func TestOrderedSet_CustomLess(t *testing.T) {
	less := func(i, j string) bool {
		return strings.ToLower(i) < strings.ToLower(j)
	}
	set := NewOrderedSetWithLess[string](less)
	set.Insert("Go")
	set.Insert("go")
	set.Insert("Rust")
	requireSetKeys(t, set, []string{"Go", "Rust"})
	require.True(t, set.Contains("GO"))
	require.Equal(t, "Go", set.Find("gO").Key())

	set.Erase("RUST")
	requireSetKeys(t, set, []string{"Go"})
}

func TestOrderedSet_Misc(t *testing.T) {
	set := NewOrderedSet[float64]()
	require.Equal(t, int64(math.MaxInt64), set.MaxSize())
	require.True(t, set.Empty())
	require.True(t, set.Begin() == set.End())
	require.True(t, set.RBegin() == set.REnd())

	for _, key := range []float64{2.5, -1, 0} {
		set.Insert(key)
	}
	require.Equal(t, -1.0, set.Begin().Key())
	require.Equal(t, 2.5, set.RBegin().Key())

	keys := make([]float64, 0, 2)
	set.Foreach(func(idx int64, key float64) bool {
		keys = append(keys, key)
		return idx < 1
	})
	require.Equal(t, []float64{-1, 0}, keys)

	buf := &bytes.Buffer{}
	require.NoError(t, set.Manifest(buf))
	require.Equal(t, "0/b\n-1/r 2.5/r\n", buf.String())

	other := NewOrderedSetFrom([]float64{1})
	require.False(t, set.Owns(other.Begin()))
	require.False(t, set.Owns(set.End()))
	require.True(t, set.Owns(set.Find(0)))

	set.Clear()
	require.True(t, set.Empty())
	require.False(t, set.Owns(other.Begin()))
	require.True(t, set.Find(0).IsEnd())
}

// A minimal foreign implementation exercises the content based
// fallbacks of MoveFrom, Swap and Equal.
type sliceSet struct {
	OrderedSet[int]
}

func TestOrderedSet_ForeignImplementation(t *testing.T) {
	foreign := sliceSet{OrderedSet: NewOrderedSetFrom([]int{7, 8})}
	set := NewOrderedSetFrom([]int{1})

	require.False(t, set.Equal(foreign))
	set.Swap(foreign)
	requireSetKeys(t, set, []int{7, 8})
	requireSetKeys[int](t, foreign, []int{1})

	require.True(t, foreign.Equal(NewOrderedSetFrom([]int{1})))

	set.MoveFrom(foreign)
	requireSetKeys(t, set, []int{1})
	requireSetKeys[int](t, foreign, []int{})
}

func TestOrderedSet_LessFuncEquivalent(t *testing.T) {
	set := NewOrderedSetWithLess[int](infra.OrderedLess[int]())
	set.Insert(1)
	require.True(t, set.KeyComp().Equivalent(1, set.Begin().Key()))
}
