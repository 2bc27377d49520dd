package state

import (
	"github.com/voltride/fleetsim/core/geo"
	"github.com/voltride/fleetsim/core/model"
)

// AddRequest validates the geofence, snaps the request origin to the
// centroid of its cell and indexes the request. The snap gives every
// request a pickup buffer equal to the cell radius.
func (w World) AddRequest(r model.Request) (World, error) {
	if !w.RoadNetwork.CoordinateWithinGeofence(r.Origin) {
		return w, Validationf("request %s origin (%v, %v) not within geofence", r.ID, r.Origin.Lat, r.Origin.Lon)
	}
	if !w.RoadNetwork.CoordinateWithinOperatingArea(r.Destination) {
		return w, Validationf("request %s destination (%v, %v) not within operating area", r.ID, r.Destination.Lat, r.Destination.Lon)
	}
	if _, dup := w.Requests[r.ID]; dup {
		return w, Validationf("request %s already exists", r.ID)
	}
	cell, err := geo.CellOf(r.Origin, w.Resolution)
	if err != nil {
		return w, Validationf("request %s: %v", r.ID, err)
	}
	r = r.WithOrigin(geo.CellCenter(cell))

	requests := cloneMap(w.Requests)
	requests[r.ID] = r
	w.Requests = requests
	w.RequestLocations = w.RequestLocations.WithEntity(cell, r.ID)
	return w, nil
}

// RemoveRequest deletes a request once it has been fully serviced. It is
// idempotent: removing an absent id returns the world unchanged, because
// request lifetime is independent of simulation stepping.
func (w World) RemoveRequest(requestID string) (World, error) {
	r, ok := w.Requests[requestID]
	if !ok {
		return w, nil
	}
	cell, err := geo.CellOf(r.Origin, w.Resolution)
	if err != nil {
		return w, Invariantf("request %s indexed with malformed origin at tick %d: %v", requestID, w.Tick, err)
	}
	if !w.RequestLocations.Contains(cell, requestID) {
		return w, Invariantf("request %s missing from location index at tick %d", requestID, w.Tick)
	}
	requests := cloneMap(w.Requests)
	delete(requests, requestID)
	w.Requests = requests
	w.RequestLocations = w.RequestLocations.WithoutEntity(cell, requestID)
	return w, nil
}

// ModifyRequest replaces an existing request value.
func (w World) ModifyRequest(r model.Request) (World, error) {
	if _, ok := w.Requests[r.ID]; !ok {
		return w, Validationf("cannot modify request %s: not found", r.ID)
	}
	requests := cloneMap(w.Requests)
	requests[r.ID] = r
	w.Requests = requests
	return w, nil
}

// AddVehicle places a vehicle into the world and indexes its position.
func (w World) AddVehicle(v model.Vehicle) (World, error) {
	if !w.RoadNetwork.CoordinateWithinOperatingArea(v.Coordinate) {
		return w, Validationf("vehicle %s position (%v, %v) not within operating area", v.ID, v.Coordinate.Lat, v.Coordinate.Lon)
	}
	if _, dup := w.Vehicles[v.ID]; dup {
		return w, Validationf("vehicle %s already exists", v.ID)
	}
	cell, err := geo.CellOf(v.Coordinate, w.Resolution)
	if err != nil {
		return w, Validationf("vehicle %s: %v", v.ID, err)
	}
	vehicles := cloneMap(w.Vehicles)
	vehicles[v.ID] = v
	w.Vehicles = vehicles
	w.VehicleLocations = w.VehicleLocations.WithEntity(cell, v.ID)
	return w, nil
}

// RemoveVehicle takes a vehicle out of play, e.g. end of shift.
func (w World) RemoveVehicle(vehicleID string) (World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, Validationf("cannot remove vehicle %s: not found", vehicleID)
	}
	cell, err := geo.CellOf(v.Coordinate, w.Resolution)
	if err != nil {
		return w, Invariantf("vehicle %s indexed with malformed position at tick %d: %v", vehicleID, w.Tick, err)
	}
	if !w.VehicleLocations.Contains(cell, vehicleID) {
		return w, Invariantf("vehicle %s missing from location index at tick %d", vehicleID, w.Tick)
	}
	vehicles := cloneMap(w.Vehicles)
	delete(vehicles, vehicleID)
	w.Vehicles = vehicles
	w.VehicleLocations = w.VehicleLocations.WithoutEntity(cell, vehicleID)
	return w, nil
}

// ModifyVehicle replaces an existing vehicle value, reindexing its position
// when it moved to a different cell. Map and index change together or not
// at all.
func (w World) ModifyVehicle(v model.Vehicle) (World, error) {
	prev, ok := w.Vehicles[v.ID]
	if !ok {
		return w, Validationf("cannot modify vehicle %s: not found", v.ID)
	}
	prevCell, err := geo.CellOf(prev.Coordinate, w.Resolution)
	if err != nil {
		return w, Invariantf("vehicle %s indexed with malformed position at tick %d: %v", v.ID, w.Tick, err)
	}
	nextCell, err := geo.CellOf(v.Coordinate, w.Resolution)
	if err != nil {
		return w, Validationf("vehicle %s: %v", v.ID, err)
	}
	vehicles := cloneMap(w.Vehicles)
	vehicles[v.ID] = v
	w.Vehicles = vehicles
	if prevCell != nextCell {
		w.VehicleLocations = w.VehicleLocations.WithoutEntity(prevCell, v.ID).WithEntity(nextCell, v.ID)
	}
	return w, nil
}

// ModifyStation replaces an existing station value. Stations do not move,
// so the index is untouched.
func (w World) ModifyStation(s model.Station) (World, error) {
	if _, ok := w.Stations[s.ID]; !ok {
		return w, Validationf("cannot modify station %s: not found", s.ID)
	}
	stations := cloneMap(w.Stations)
	stations[s.ID] = s
	w.Stations = stations
	return w, nil
}

// BoardVehicle transfers a request's passengers onto a vehicle. It does not
// delete the request; cleanup is the caller's decision.
func (w World) BoardVehicle(requestID, vehicleID string) (World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, Validationf("request %s attempting to board vehicle %s which does not exist", requestID, vehicleID)
	}
	r, ok := w.Requests[requestID]
	if !ok {
		return w, Validationf("request %s does not exist but is attempting to board vehicle %s", requestID, vehicleID)
	}
	if r.Passengers > v.AvailableSeats {
		return w, Validationf("request %s has %d passengers but vehicle %s has %d seats available",
			requestID, r.Passengers, vehicleID, v.AvailableSeats)
	}
	v.AvailableSeats -= r.Passengers
	v.Passengers += r.Passengers
	return w.ModifyVehicle(v)
}

// VehicleAtRequest tests whether the vehicle and the request origin share a
// cell at the given resolution. A resolution of 0 uses the world's own.
// Unknown ids are simply not at the request.
func (w World) VehicleAtRequest(vehicleID, requestID string, overrideResolution int) bool {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return false
	}
	r, ok := w.Requests[requestID]
	if !ok {
		return false
	}
	resolution := overrideResolution
	if resolution == 0 {
		resolution = w.Resolution
	}
	vCell, err := geo.CellOf(v.Coordinate, resolution)
	if err != nil {
		return false
	}
	rCell, err := geo.CellOf(r.Origin, resolution)
	if err != nil {
		return false
	}
	return vCell == rCell
}

// AtLocation lists the ids of every entity kind present at a cell.
type AtLocation struct {
	Vehicles []string
	Requests []string
	Stations []string
	Bases    []string
}

// EntitiesAt returns all entities indexed at the given cell.
func (w World) EntitiesAt(cell geo.CellID) AtLocation {
	return AtLocation{
		Vehicles: w.VehicleLocations[cell],
		Requests: w.RequestLocations[cell],
		Stations: w.StationLocations[cell],
		Bases:    w.BaseLocations[cell],
	}
}
