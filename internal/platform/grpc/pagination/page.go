// Package pagination normalizes page sizes for list queries.
//
// List ordering is fixed (keyset order by row id), so the package only
// concerns itself with bounding how many rows a caller may request.
package pagination

// Limits bounds requested page sizes. Default replaces non-positive
// requests; Max caps oversized ones.
type Limits struct {
	Default int
	Max     int
}

// Clamp resolves a requested page size against the limits. The result is
// always at least 1 so a degenerate configuration cannot produce empty
// pages with a non-empty token.
func Clamp(requested int, limits Limits) int {
	pageSize := requested
	if pageSize <= 0 {
		pageSize = limits.Default
	}
	if limits.Max > 0 && pageSize > limits.Max {
		pageSize = limits.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}
