package planner

import (
	"github.com/detentsh/driver/internal/prng"
)

// DefaultBatchSize is the target number of primaries per batch when
// the caller requests batch mode without an explicit
// -driver-batch-count: the batch count is chosen so each batch holds
// roughly this many primaries.
const DefaultBatchSize = 25

// batchCount computes how many batches primaryCount inputs split into,
// given an explicit count (0 means "compute it") and an optional
// per-batch size limit (0 means DefaultBatchSize).
func batchCount(primaryCount, explicitCount, sizeLimit int) int {
	if explicitCount > 0 {
		if explicitCount > primaryCount {
			// More batches requested than primaries exist: collapse to
			// one batch containing all of them.
			return 1
		}
		return explicitCount
	}
	if primaryCount == 0 {
		return 0
	}
	size := DefaultBatchSize
	if sizeLimit > 0 {
		size = sizeLimit
	}
	n := (primaryCount + size - 1) / size
	if n < 1 {
		n = 1
	}
	return n
}

// partitionBatches deterministically shuffles [0, primaryCount) with
// seed, then assigns shuffled index i to batch i mod batchCount.
// Within each batch, primaries keep their source-listed order.
func partitionBatches(primaryCount, count int, seed uint64) [][]int {
	if count <= 0 {
		return nil
	}
	perm := prng.New(seed).Permutation(primaryCount)
	batches := make([][]int, count)
	for i, original := range perm {
		b := i % count
		batches[b] = append(batches[b], original)
	}
	for _, b := range batches {
		sortInts(b)
	}
	return batches
}

// sortInts is a small insertion sort; batches are small (bounded by
// primaryCount) so this avoids pulling in sort for one call site.
func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}
