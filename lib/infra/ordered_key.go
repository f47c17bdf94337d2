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

// OrderedKey is the set of key types the ordered containers
// compare with the native operators.
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// IsUnordered reports whether the key cannot take part in a total
// order. Only a floating NaN compares unequal to itself.
func IsUnordered[K OrderedKey](key K) bool {
	return key != key
}
