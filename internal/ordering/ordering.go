// Package ordering normalizes sibling order values after structural
// edits: deletes leave gaps, duplications insert ties, and both are
// resolved by a single resequence pass to a dense 1..N range.
package ordering

import (
	"sort"
	"time"
)

// Sequenced is implemented by any node carrying a mutable sibling order.
type Sequenced interface {
	SeqOrder() int
	SetSeqOrder(int)
	SeqCreatedAt() time.Time
}

// Resequence reassigns order = 1..N following the current relative
// sequence: a stable sort by the existing order, ties broken by creation
// time. A duplicate inserted with its source's order value therefore
// lands directly after the source. Only nodes whose order actually
// changed are returned, so a second call on the result is a no-op.
func Resequence[T Sequenced](siblings []T) []T {
	sorted := make([]T, len(siblings))
	copy(sorted, siblings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SeqOrder() != sorted[j].SeqOrder() {
			return sorted[i].SeqOrder() < sorted[j].SeqOrder()
		}
		return sorted[i].SeqCreatedAt().Before(sorted[j].SeqCreatedAt())
	})

	var changed []T
	for i, node := range sorted {
		want := i + 1
		if node.SeqOrder() != want {
			node.SetSeqOrder(want)
			changed = append(changed, node)
		}
	}
	return changed
}
