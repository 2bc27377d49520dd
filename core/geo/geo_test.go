package geo

import (
	"testing"

	"github.com/voltride/fleetsim/core/model"
)

var (
	downtown = model.Coordinate{Lat: 37.7749, Lon: -122.4194}
	across   = model.Coordinate{Lat: 37.8044, Lon: -122.2711}
)

func TestCellOfDeterministic(t *testing.T) {
	a, err := CellOf(downtown, 11)
	if err != nil {
		t.Fatalf("cell: %v", err)
	}
	b, err := CellOf(downtown, 11)
	if err != nil {
		t.Fatalf("cell: %v", err)
	}
	if a != b {
		t.Fatalf("same coordinate produced different cells: %v vs %v", a, b)
	}
	coarse, err := CellOf(downtown, 7)
	if err != nil {
		t.Fatalf("cell: %v", err)
	}
	if coarse == a {
		t.Fatalf("different resolutions produced the same cell")
	}
}

func TestCellOfMalformed(t *testing.T) {
	cases := []struct {
		name  string
		coord model.Coordinate
		res   int
	}{
		{"lat out of range", model.Coordinate{Lat: 95, Lon: 0}, 11},
		{"lon out of range", model.Coordinate{Lat: 0, Lon: 200}, 11},
		{"resolution too deep", downtown, 16},
		{"negative resolution", downtown, -1},
	}
	for _, tc := range cases {
		if _, err := CellOf(tc.coord, tc.res); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestCellCenterRoundTrip(t *testing.T) {
	cell, err := CellOf(downtown, 11)
	if err != nil {
		t.Fatalf("cell: %v", err)
	}
	again, err := CellOf(CellCenter(cell), 11)
	if err != nil {
		t.Fatalf("cell of center: %v", err)
	}
	if again != cell {
		t.Fatalf("centroid left its own cell: %v vs %v", again, cell)
	}
}

func TestLocationIndexCloneOnWrite(t *testing.T) {
	cell, _ := CellOf(downtown, 11)
	base := LocationIndex{}
	one := base.WithEntity(cell, "veh-b")
	two := one.WithEntity(cell, "veh-a")

	if len(base) != 0 {
		t.Fatalf("base index mutated")
	}
	if !one.Contains(cell, "veh-b") || one.Contains(cell, "veh-a") {
		t.Fatalf("intermediate index mutated by later write")
	}
	ids := two[cell]
	if len(ids) != 2 || ids[0] != "veh-a" || ids[1] != "veh-b" {
		t.Fatalf("ids not sorted ascending: %v", ids)
	}

	removed := two.WithoutEntity(cell, "veh-a").WithoutEntity(cell, "veh-b")
	if len(removed) != 0 {
		t.Fatalf("empty cell not dropped: %v", removed)
	}
	if two.Count() != 2 {
		t.Fatalf("removal mutated source index")
	}
}

func TestNearestEntityPrefersCloserRing(t *testing.T) {
	res := 11
	originCell, _ := CellOf(downtown, res)
	farCell, _ := CellOf(across, res)

	index := LocationIndex{}.WithEntity(originCell, "near").WithEntity(farCell, "far")

	id, ok := NearestEntity(originCell, index, 7, 10, func(string) bool { return true })
	if !ok {
		t.Fatalf("expected a match")
	}
	if id != "near" {
		t.Fatalf("expected near, got %s", id)
	}
}

func TestNearestEntityPredicate(t *testing.T) {
	res := 11
	originCell, _ := CellOf(downtown, res)
	farCell, _ := CellOf(across, res)

	index := LocationIndex{}.WithEntity(originCell, "near").WithEntity(farCell, "far")

	id, ok := NearestEntity(originCell, index, 7, 10, func(id string) bool { return id != "near" })
	if !ok || id != "far" {
		t.Fatalf("expected far, got %q ok=%v", id, ok)
	}

	if _, ok := NearestEntity(originCell, index, 7, 10, func(string) bool { return false }); ok {
		t.Fatalf("predicate rejecting everything still matched")
	}
}

func TestNearestEntityTieBreaksByID(t *testing.T) {
	res := 11
	cell, _ := CellOf(downtown, res)
	index := LocationIndex{}.WithEntity(cell, "veh-b").WithEntity(cell, "veh-a")

	id, ok := NearestEntity(cell, index, 7, 0, func(string) bool { return true })
	if !ok || id != "veh-a" {
		t.Fatalf("expected veh-a by ascending id, got %q ok=%v", id, ok)
	}
}

func TestNearestEntityRingBudget(t *testing.T) {
	res := 11
	farCell, _ := CellOf(across, res)
	originCell, _ := CellOf(downtown, res)
	index := LocationIndex{}.WithEntity(farCell, "far")

	if _, ok := NearestEntity(originCell, index, 7, 0, func(string) bool { return true }); ok {
		t.Fatalf("ring budget 0 should not reach a distant entity")
	}
	if id, ok := NearestEntity(originCell, index, 7, 20, func(string) bool { return true }); !ok || id != "far" {
		t.Fatalf("wide budget should reach the entity, got %q ok=%v", id, ok)
	}
}

func TestNearestEntityEmptyIndex(t *testing.T) {
	originCell, _ := CellOf(downtown, 11)
	if _, ok := NearestEntity(originCell, LocationIndex{}, 7, 10, func(string) bool { return true }); ok {
		t.Fatalf("empty index matched")
	}
}
