package state

import (
	"github.com/voltride/fleetsim/core/geo"
	"github.com/voltride/fleetsim/core/model"
)

// CheckInvariants verifies that every entity map and its location index
// agree: each entity is indexed at the cell of its coordinate, and each
// indexed id exists in the map. A non-nil result is an InvariantError.
func (w World) CheckInvariants() error {
	if err := checkIndexed(w, "vehicle", w.VehicleLocations, vehicleCoords(w.Vehicles)); err != nil {
		return err
	}
	if err := checkIndexed(w, "request", w.RequestLocations, requestCoords(w.Requests)); err != nil {
		return err
	}
	if err := checkIndexed(w, "station", w.StationLocations, stationCoords(w.Stations)); err != nil {
		return err
	}
	return checkIndexed(w, "base", w.BaseLocations, baseCoords(w.Bases))
}

func checkIndexed(w World, kind string, index geo.LocationIndex, coords map[string]model.Coordinate) error {
	for id, coord := range coords {
		cell, err := geo.CellOf(coord, w.Resolution)
		if err != nil {
			return Invariantf("%s %s has malformed coordinate at tick %d: %v", kind, id, w.Tick, err)
		}
		if !index.Contains(cell, id) {
			return Invariantf("%s %s not indexed at its cell at tick %d", kind, id, w.Tick)
		}
	}
	indexed := index.Count()
	if indexed != len(coords) {
		return Invariantf("%s index holds %d ids but map holds %d at tick %d", kind, indexed, len(coords), w.Tick)
	}
	return nil
}

func vehicleCoords(m map[string]model.Vehicle) map[string]model.Coordinate {
	out := make(map[string]model.Coordinate, len(m))
	for id, v := range m {
		out[id] = v.Coordinate
	}
	return out
}

func requestCoords(m map[string]model.Request) map[string]model.Coordinate {
	out := make(map[string]model.Coordinate, len(m))
	for id, r := range m {
		out[id] = r.Origin
	}
	return out
}

func stationCoords(m map[string]model.Station) map[string]model.Coordinate {
	out := make(map[string]model.Coordinate, len(m))
	for id, s := range m {
		out[id] = s.Coordinate
	}
	return out
}

func baseCoords(m map[string]model.Base) map[string]model.Coordinate {
	out := make(map[string]model.Coordinate, len(m))
	for id, b := range m {
		out[id] = b.Coordinate
	}
	return out
}
