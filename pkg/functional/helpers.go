package f

import "slices"

type Set[T comparable] map[T]struct{}

func NewSet[T comparable]() Set[T] {
	return make(map[T]struct{})
}

func (s Set[T]) Add(item T) {
	s[item] = struct{}{}
}

func (s Set[T]) Contains(item T) bool {
	_, found := s[item]
	return found
}

func Map[T, U any](ts []T, f func(T) U) []U {
	us := make([]U, len(ts))
	for i, t := range ts {
		us[i] = f(t)
	}
	return us
}

func MapMap[K comparable, T, U any](tm map[K]T, f func(T) U) map[K]U {
	um := make(map[K]U, len(tm))
	for k, t := range tm {
		um[k] = f(t)
	}
	return um
}

func Filtered[T any](ts []T, f func(T) bool) []T {
	filtered := make([]T, 0)
	for _, t := range ts {
		if f(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Partition splits ts into the items matching f and the rest, preserving order
func Partition[T any](ts []T, f func(T) bool) (matched []T, rest []T) {
	matched = make([]T, 0)
	rest = make([]T, 0)
	for _, t := range ts {
		if f(t) {
			matched = append(matched, t)
		} else {
			rest = append(rest, t)
		}
	}
	return matched, rest
}

// RemoveDuplicates keeps the first occurrence of each item. The input slice is reused.
func RemoveDuplicates[T comparable](sliceList []T) []T {
	seen := NewSet[T]()
	return slices.DeleteFunc(sliceList, func(t T) bool {
		if seen.Contains(t) {
			return true
		}
		seen.Add(t)
		return false
	})
}

func SlicesItemsMatch[T comparable](slice1, slice2 []T) bool {
	if len(slice1) != len(slice2) {
		return false
	}
	counts := make(map[T]int, len(slice1))
	for _, item := range slice1 {
		counts[item]++
	}
	for _, item := range slice2 {
		counts[item]--
		if counts[item] < 0 {
			return false
		}
	}
	return true
}
