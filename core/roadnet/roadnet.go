// Package roadnet is the routing and geofencing collaborator of the
// simulation core.
package roadnet

import "github.com/voltride/fleetsim/core/model"

// Network answers geofence queries and produces routes. Update returns the
// network to use from the given simulation time onward, so implementations
// can model time-varying congestion; a network is an immutable value.
type Network interface {
	// CoordinateWithinGeofence reports whether the coordinate is inside the
	// dispatchable service area.
	CoordinateWithinGeofence(c model.Coordinate) bool
	// CoordinateWithinOperatingArea reports whether the coordinate is inside
	// the wider simulated area.
	CoordinateWithinOperatingArea(c model.Coordinate) bool
	// Update refreshes any time-varying travel model for simTime, in
	// seconds since the start of the run.
	Update(simTime int64) Network
	// Route returns the step sequence from origin to destination, sized so
	// that one step is traversed per simulation tick.
	Route(origin, destination model.Coordinate, activity model.Activity) (model.Route, error)
}
