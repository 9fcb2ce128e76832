package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// LessFunc is a strict weak ordering.
// Keys i and j are equivalent iff !less(i, j) && !less(j, i).
type LessFunc[K any] func(i, j K) bool

func OrderedLess[K OrderedKey]() LessFunc[K] {
	return func(i, j K) bool {
		return i < j
	}
}

// ReverseLess flips the order of less, so the smallest key becomes the largest.
func ReverseLess[K any](less LessFunc[K]) LessFunc[K] {
	if less == nil {
		return nil
	}
	return func(i, j K) bool {
		return less(j, i)
	}
}

// Equivalent reports whether neither key is ordered before the other.
func (less LessFunc[K]) Equivalent(i, j K) bool {
	return !less(i, j) && !less(j, i)
}
