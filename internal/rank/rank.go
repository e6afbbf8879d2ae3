// Package rank orders normalized products by confidence and applies the
// result-count limit for the final envelope.
package rank

import (
	"sort"

	"github.com/claimsight/gomatch/internal/product"
)

// Rank sorts products by confidence descending and truncates to max.
// The sort is stable: exact confidence ties (common, since absent scores
// default to 0) preserve backend-returned order. The second return value
// is the pre-truncation count. A non-positive max returns an empty slice.
func Rank(in []product.Product, max int) ([]product.Product, int) {
	total := len(in)
	out := make([]product.Product, total)
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if max <= 0 {
		return []product.Product{}, total
	}
	if len(out) > max {
		out = out[:max]
	}
	return out, total
}
