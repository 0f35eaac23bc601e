package trail

import "github.com/google/uuid"

// Value lists the fixed-size primitive types a Manager can hold. The set is
// closed so every type maps to exactly one Kind.
type Value interface {
	uint | uint8 | uint16 | uint32 | uint64 |
		int | int8 | int16 | int32 | int64 |
		float32 | float64 | bool
}

// Number is the subset of Value that supports Increment and Decrement.
type Number interface {
	uint | uint8 | uint16 | uint32 | uint64 |
		int | int8 | int16 | int32 | int64 |
		float32 | float64
}

// Kind tags the store a handle indexes.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindBool

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindInt:
		return "int"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// KindOf reports the Kind backing T.
func KindOf[T Value]() Kind {
	var zero T
	switch any(zero).(type) {
	case uint:
		return KindUint
	case uint8:
		return KindUint8
	case uint16:
		return KindUint16
	case uint32:
		return KindUint32
	case uint64:
		return KindUint64
	case int:
		return KindInt
	case int8:
		return KindInt8
	case int16:
		return KindInt16
	case int32:
		return KindInt32
	case int64:
		return KindInt64
	case float32:
		return KindFloat32
	case float64:
		return KindFloat64
	case bool:
		return KindBool
	default:
		return KindUnknown
	}
}

// Handle addresses one managed resource of type T. Handles are only
// meaningful for the Manager that issued them and stay valid for its whole
// lifetime.
type Handle[T Value] struct {
	owner uuid.UUID
	index int
}

// Index returns the slot index within the store for T.
func (h Handle[T]) Index() int {
	return h.index
}

// Kind returns the store kind this handle addresses.
func (h Handle[T]) Kind() Kind {
	return KindOf[T]()
}

// IsZero reports whether h was never issued by a Manager.
func (h Handle[T]) IsZero() bool {
	return h.owner == uuid.Nil
}

// Optional is a managed value that may be absent.
type Optional[T Value] struct {
	Value T
	Valid bool
}

// Some wraps v as a present Optional.
func Some[T Value](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// None returns an absent Optional.
func None[T Value]() Optional[T] {
	return Optional[T]{}
}

// Get returns the wrapped value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// OptionalHandle addresses one managed Optional[T] resource.
type OptionalHandle[T Value] struct {
	owner uuid.UUID
	index int
}

// Index returns the slot index within the optional store for T.
func (h OptionalHandle[T]) Index() int {
	return h.index
}

// Kind returns the kind of the wrapped value.
func (h OptionalHandle[T]) Kind() Kind {
	return KindOf[T]()
}

// IsZero reports whether h was never issued by a Manager.
func (h OptionalHandle[T]) IsZero() bool {
	return h.owner == uuid.Nil
}
