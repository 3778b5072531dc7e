package evaluation

import "github.com/inonelg/housecheck/pkg/checklist"

// Batches partitions items into contiguous slices of at most size each.
// Checklist ids are unique within a merged list (pkg/checklist.Dedupe
// guarantees it), so batches never overlap by construction — later
// batches' results can be merged into earlier ones without conflict.
func Batches(items []checklist.Item, size int) [][]checklist.Item {
	if size <= 0 {
		size = len(items)
	}
	if size == 0 {
		return nil
	}

	var batches [][]checklist.Item
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
