package fsm

import (
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/state"
)

// ServicingTrip carries boarded passengers from a request's origin to its
// destination.
type ServicingTrip struct {
	RequestID  string
	Route      model.Route
	Passengers int
}

func (ServicingTrip) Kind() model.StateKind { return model.StateServicingTrip }

func (s ServicingTrip) route() model.Route { return s.Route }

func (s ServicingTrip) withRoute(r model.Route) State {
	s.Route = r
	return s
}

// Enter boards the request's passengers and deletes the request: the
// passenger state now lives on the vehicle and nothing reads the request
// afterwards.
func (s ServicingTrip) Enter(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	if _, ok := w.Vehicles[vehicleID]; !ok {
		return w, state.Validationf("vehicle %s not found entering servicing trip", vehicleID)
	}
	r, ok := w.Requests[s.RequestID]
	if !ok {
		return w, state.Validationf("vehicle %s servicing request %s which does not exist", vehicleID, s.RequestID)
	}
	if r.Assigned() && r.AssignedVehicle != vehicleID {
		return w, state.Validationf("request %s already assigned to vehicle %s", s.RequestID, r.AssignedVehicle)
	}
	if s.Route == nil {
		route, err := w.RoadNetwork.Route(r.Origin, r.Destination, model.ActivityServicingTrip)
		if err != nil {
			return w, state.Validationf("vehicle %s trip route for request %s: %v", vehicleID, s.RequestID, err)
		}
		s.Route = route
	}
	s.Passengers = r.Passengers

	boarded, err := w.BoardVehicle(s.RequestID, vehicleID)
	if err != nil {
		return w, err
	}
	cleaned, err := boarded.RemoveRequest(s.RequestID)
	if err != nil {
		return w, err
	}
	return defaultEnter(cleaned, e, vehicleID, s)
}

// Update advances along the trip; an exhausted route drops the passengers
// off and parks the vehicle idle or in reserve.
func (s ServicingTrip) Update(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	if len(s.Route) > 0 {
		return moveVehicle(w, e, vehicleID)
	}
	exited, err := s.Exit(w, e, vehicleID)
	if err != nil {
		return w, err
	}
	return enterIdleOrReserve(exited, e, vehicleID)
}

// Exit drops the passengers off, restoring the seats taken on boarding.
func (s ServicingTrip) Exit(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, state.Validationf("vehicle %s not found exiting servicing trip", vehicleID)
	}
	v.AvailableSeats += s.Passengers
	if v.AvailableSeats > v.Seats {
		v.AvailableSeats = v.Seats
	}
	v.Passengers -= s.Passengers
	if v.Passengers < 0 {
		v.Passengers = 0
	}
	return w.ModifyVehicle(v)
}
