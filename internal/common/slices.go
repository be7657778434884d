package common

import "slices"

// AppendUnique appends v to s unless it is already present, preserving insertion order.
func AppendUnique[S ~[]E, E comparable](s S, v E) S {
	if slices.Contains(s, v) {
		return s
	}

	return append(s, v)
}
