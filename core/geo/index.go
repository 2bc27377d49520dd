package geo

import "sort"

// LocationIndex maps a cell to the ids of the entities currently inside it.
// Id slices are kept in ascending order so every iteration is deterministic.
// The index is treated as an immutable value: WithEntity and WithoutEntity
// return updated copies, cloning only what they touch.
type LocationIndex map[CellID][]string

// Contains reports whether id is indexed under cell.
func (ix LocationIndex) Contains(cell CellID, id string) bool {
	ids := ix[cell]
	i := sort.SearchStrings(ids, id)
	return i < len(ids) && ids[i] == id
}

// WithEntity returns a copy of the index with id present under cell.
func (ix LocationIndex) WithEntity(cell CellID, id string) LocationIndex {
	if ix.Contains(cell, id) {
		return ix
	}
	out := ix.clone()
	ids := ix[cell]
	i := sort.SearchStrings(ids, id)
	updated := make([]string, 0, len(ids)+1)
	updated = append(updated, ids[:i]...)
	updated = append(updated, id)
	updated = append(updated, ids[i:]...)
	out[cell] = updated
	return out
}

// WithoutEntity returns a copy of the index with id removed from cell. Cells
// left empty are dropped. Removing an absent id returns the index unchanged.
func (ix LocationIndex) WithoutEntity(cell CellID, id string) LocationIndex {
	ids := ix[cell]
	i := sort.SearchStrings(ids, id)
	if i >= len(ids) || ids[i] != id {
		return ix
	}
	out := ix.clone()
	if len(ids) == 1 {
		delete(out, cell)
		return out
	}
	updated := make([]string, 0, len(ids)-1)
	updated = append(updated, ids[:i]...)
	updated = append(updated, ids[i+1:]...)
	out[cell] = updated
	return out
}

// Count returns the total number of indexed ids.
func (ix LocationIndex) Count() int {
	n := 0
	for _, ids := range ix {
		n += len(ids)
	}
	return n
}

func (ix LocationIndex) clone() LocationIndex {
	out := make(LocationIndex, len(ix)+1)
	for cell, ids := range ix {
		out[cell] = ids
	}
	return out
}
