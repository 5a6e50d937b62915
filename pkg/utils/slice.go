package utils

// Map applies mapper to each element of sli.
//
// args:
//   - sli : slice of `T`s
//   - mapper : mapping function from T to R
//
// return:
//
//	slice of `R`s, where the element indexed `N` is `mapper(sli[N])`.
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for i, v := range sli {
		ret[i] = mapper(v)
	}
	return ret
}

// Map over sli with a fallible mapper.
//
// If mapper causes error, return (nil, error).
// Otherwise, return (mapping result, nil).
func MapUntilError[T any, R any](sli []T, mapper func(v T) (R, error)) ([]R, error) {
	ret := make([]R, len(sli))
	for i, v := range sli {
		mapped, err := mapper(v)
		if err != nil {
			return nil, err
		}
		ret[i] = mapped
	}
	return ret, nil
}

// convert slice to map.
//
// If keys given with getkey collide, a value coming later takes over the
// previous one.
//
// args:
//   - sli: source slice
//   - getkey: get key from an element of sli
func ToMap[T any, K comparable](sli []T, getkey func(v T) K) map[K]T {
	ret := make(map[K]T, len(sli))
	for _, v := range sli {
		ret[getkey(v)] = v
	}
	return ret
}

// flatten map to a slice of its keys. Ordering is not defined.
func KeysOf[T any, K comparable](m map[K]T) []K {
	sli := make([]K, 0, len(m))
	for key := range m {
		sli = append(sli, key)
	}
	return sli
}

// flatten map to a slice of its values. Ordering is not defined.
func ValuesOf[T any, K comparable](m map[K]T) []T {
	sli := make([]T, 0, len(m))
	for _, value := range m {
		sli = append(sli, value)
	}
	return sli
}

// filter elements matching predicator.
//
// args:
//
// - vs: slice
//
// - predicator: function returns true for each element to remain in result
func Filter[T any](vs []T, predicator func(T) bool) []T {
	ret := []T{}
	for _, v := range vs {
		if predicator(v) {
			ret = append(ret, v)
		}
	}
	return ret
}

// find first element matching predicator.
//
// returns:
//
//	(T, true) if found. otherwise, (zero value of T, false)
func First[T any](sli []T, predicator func(T) bool) (T, bool) {
	for _, v := range sli {
		if predicator(v) {
			return v, true
		}
	}

	var zero T
	return zero, false
}
