package models

// Optional is a tri-state field for partial updates: absent (leave the stored
// value untouched), null (clear the stored value) or set (write the value).
// The zero value is absent.
type Optional[T any] struct {
	present bool
	valid   bool
	value   T
}

// Set returns an Optional carrying a value to write.
func Set[T any](v T) Optional[T] {
	return Optional[T]{present: true, valid: true, value: v}
}

// Null returns an Optional that clears the stored value.
func Null[T any]() Optional[T] {
	return Optional[T]{present: true}
}

// Absent reports whether the field was omitted entirely.
func (o Optional[T]) Absent() bool { return !o.present }

// Clear reports whether the field was explicitly supplied as null.
func (o Optional[T]) Clear() bool { return o.present && !o.valid }

// Get returns the value and whether one was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present && o.valid
}

// Ptr returns the value as a pointer, nil when the field is absent or null.
func (o Optional[T]) Ptr() *T {
	if v, ok := o.Get(); ok {
		return &v
	}
	return nil
}
