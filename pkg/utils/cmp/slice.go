package cmp

// SliceEq reports a == b, element by element in order.
func SliceEq[T comparable](a []T, b []T) bool {
	return SliceEqWith(a, b, func(ae T, be T) bool { return ae == be })
}

// SliceEqWith reports len(a) == len(b) and eq(a[i], b[i]) for each i.
func SliceEqWith[T any, U any](a []T, b []U, eq func(T, U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

// SliceContentEq reports that a and b hold the same elements with the same
// multiplicity, ignoring order.
func SliceContentEq[T comparable](a []T, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	count := map[T]int{}
	for _, ae := range a {
		count[ae] += 1
	}
	for _, be := range b {
		count[be] -= 1
		if count[be] < 0 {
			return false
		}
	}
	return true
}

// SliceContentEqWith is SliceContentEq under an equivalence eq
// instead of ==.
func SliceContentEqWith[T any, U any](a []T, b []U, eq func(T, U) bool) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
A:
	for _, ae := range a {
		for i, be := range b {
			if used[i] || !eq(ae, be) {
				continue
			}
			used[i] = true
			continue A
		}
		return false
	}
	return true
}

// SliceContains reports that needle occurs in haystack as a contiguous
// subsequence. Empty needles are found everywhere.
func SliceContains[T comparable](haystack []T, needle []T) bool {
	if len(needle) == 0 {
		return true
	}
H:
	for start := 0; start+len(needle) <= len(haystack); start++ {
		for i, ne := range needle {
			if haystack[start+i] != ne {
				continue H
			}
		}
		return true
	}
	return false
}

// SliceSubsetWith reports that each element of sub has a distinct
// counterpart in super under eq.
func SliceSubsetWith[T any, U any](super []T, sub []U, eq func(T, U) bool) bool {
	if len(super) < len(sub) {
		return false
	}
	used := make([]bool, len(super))
S:
	for _, se := range sub {
		for i, pe := range super {
			if used[i] || !eq(pe, se) {
				continue
			}
			used[i] = true
			continue S
		}
		return false
	}
	return true
}
