package collections

import "sort"

// SliceInsertAt returns a new slice with value inserted at index i.  The
// given slice is not modified.
func SliceInsertAt[T any](slice []T, i int, value T) []T {
	result := make([]T, 0, len(slice)+1)
	result = append(result, slice[:i]...)
	result = append(result, value)
	result = append(result, slice[i:]...)
	return result
}

// SliceInsertSorted returns a new slice with value inserted after every
// element that does not sort after it, so equal elements keep insertion
// order.  The given slice must already be sorted by less and is not
// modified.
func SliceInsertSorted[T any](slice []T, value T, less func(a, b T) bool) []T {
	i := sort.Search(len(slice), func(i int) bool {
		return less(value, slice[i])
	})
	return SliceInsertAt(slice, i, value)
}

// SliceRemoveIndex returns a new slice without the element at index i.  The
// given slice is not modified.
func SliceRemoveIndex[T any](slice []T, i int) []T {
	result := make([]T, 0, len(slice)-1)
	result = append(result, slice[:i]...)
	result = append(result, slice[i+1:]...)
	return result
}
