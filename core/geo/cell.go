package geo

import (
	"fmt"
	"math"

	h3 "github.com/uber/h3-go/v4"

	"github.com/voltride/fleetsim/core/model"
)

// CellID identifies an H3 hexagonal cell at some resolution.
type CellID uint64

func (c CellID) String() string { return h3.Cell(c).String() }

// CellOf discretizes a coordinate into the cell containing it. Same input
// always yields the same cell. A malformed coordinate is an error; callers
// treat it as "no match" rather than a crash.
func CellOf(coord model.Coordinate, resolution int) (CellID, error) {
	if math.IsNaN(coord.Lat) || math.IsNaN(coord.Lon) ||
		coord.Lat < -90 || coord.Lat > 90 || coord.Lon < -180 || coord.Lon > 180 {
		return 0, fmt.Errorf("geo: malformed coordinate (%v, %v)", coord.Lat, coord.Lon)
	}
	if resolution < 0 || resolution > 15 {
		return 0, fmt.Errorf("geo: invalid resolution %d", resolution)
	}
	cell := h3.LatLngToCell(h3.LatLng{Lat: coord.Lat, Lng: coord.Lon}, resolution)
	return CellID(cell), nil
}

// CellCenter returns the centroid coordinate of a cell.
func CellCenter(cell CellID) model.Coordinate {
	ll := h3.CellToLatLng(h3.Cell(cell))
	return model.Coordinate{Lat: ll.Lat, Lon: ll.Lng}
}

// cellParent coarsens a cell to the given resolution.
func cellParent(cell CellID, resolution int) CellID {
	return CellID(h3.Cell(cell).Parent(resolution))
}
