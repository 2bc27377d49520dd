package geo

import (
	"sort"

	h3 "github.com/uber/h3-go/v4"
)

// NearestEntity finds the entity closest to origin that satisfies pred. The
// search expands concentric rings of cells at searchResolution, a coarser
// tessellation than the index itself, and stops at the first ring holding at
// least one passing candidate. Ties within a ring break by ascending id,
// never by map iteration order. ok is false when maxRing rings are exhausted
// without a match.
func NearestEntity(origin CellID, index LocationIndex, searchResolution, maxRing int, pred func(id string) bool) (string, bool) {
	if len(index) == 0 {
		return "", false
	}

	// Bucket indexed ids under their parent cell at the search resolution.
	buckets := make(map[CellID][]string, len(index))
	for cell, ids := range index {
		parent := cellParent(cell, searchResolution)
		buckets[parent] = append(buckets[parent], ids...)
	}

	originCell := h3.Cell(cellParent(origin, searchResolution))
	seen := make(map[CellID]struct{})
	for k := 0; k <= maxRing; k++ {
		var candidates []string
		for _, cell := range h3.GridDisk(originCell, k) {
			id := CellID(cell)
			if _, done := seen[id]; done {
				continue
			}
			seen[id] = struct{}{}
			candidates = append(candidates, buckets[id]...)
		}
		sort.Strings(candidates)
		for _, id := range candidates {
			if pred(id) {
				return id, true
			}
		}
	}
	return "", false
}
