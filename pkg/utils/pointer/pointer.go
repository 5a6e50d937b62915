package pointer

// Ref returns a pointer to t. Handy for literals.
func Ref[T any](t T) *T {
	return &t
}

// SafeDeref dereferences ptr, yielding T's zero value when ptr is nil.
func SafeDeref[T any](ptr *T) T {
	if ptr == nil {
		return *new(T)
	}
	return *ptr
}
