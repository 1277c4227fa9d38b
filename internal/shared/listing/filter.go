package listing

import "strings"

// Predicate narrows a result set.
type Predicate[T any] func(T) bool

// Filter keeps the items matching every predicate. Nil predicates are skipped,
// so callers can pass optional filters unconditionally.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
next:
	for _, item := range items {
		for _, p := range preds {
			if p != nil && !p(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	return out
}

// ContainsFold reports whether needle occurs in any of the fields, ignoring case.
// An empty needle matches everything.
func ContainsFold(needle string, fields ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// EqualOrEmpty matches when want is empty or equals got, ignoring case.
func EqualOrEmpty(want, got string) bool {
	return want == "" || want == "all" || strings.EqualFold(want, got)
}
