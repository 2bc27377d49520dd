package fsm

import (
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/state"
)

// DispatchingToRequest drives an assigned vehicle to a request's origin.
type DispatchingToRequest struct {
	RequestID string
	Route     model.Route
}

func (DispatchingToRequest) Kind() model.StateKind { return model.StateDispatchingToRequest }

func (s DispatchingToRequest) route() model.Route { return s.Route }

func (s DispatchingToRequest) withRoute(r model.Route) State {
	s.Route = r
	return s
}

// Enter claims the request for this vehicle and computes the pickup route.
// A request already claimed by another vehicle is a precondition failure.
func (s DispatchingToRequest) Enter(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, state.Validationf("vehicle %s not found dispatching to request %s", vehicleID, s.RequestID)
	}
	r, ok := w.Requests[s.RequestID]
	if !ok {
		return w, state.Validationf("vehicle %s dispatching to request %s which does not exist", vehicleID, s.RequestID)
	}
	if r.Assigned() && r.AssignedVehicle != vehicleID {
		return w, state.Validationf("request %s already assigned to vehicle %s", s.RequestID, r.AssignedVehicle)
	}
	if s.Route == nil {
		route, err := w.RoadNetwork.Route(v.Coordinate, r.Origin, model.ActivityDispatchTrip)
		if err != nil {
			return w, state.Validationf("vehicle %s dispatch route to request %s: %v", vehicleID, s.RequestID, err)
		}
		s.Route = route
	}
	claimed, err := w.ModifyRequest(r.WithAssignedVehicle(vehicleID))
	if err != nil {
		return w, err
	}
	return defaultEnter(claimed, e, vehicleID, s)
}

// Update advances toward the pickup. Once the route is exhausted the vehicle
// begins servicing the trip; a request that vanished, or a route that did
// not land on the pickup cell, releases the vehicle back to Idle.
func (s DispatchingToRequest) Update(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	if len(s.Route) > 0 {
		return moveVehicle(w, e, vehicleID)
	}
	exited, err := s.Exit(w, e, vehicleID)
	if err != nil {
		return w, err
	}
	if _, ok := exited.Requests[s.RequestID]; !ok {
		return Idle{}.Enter(exited, e, vehicleID)
	}
	if !exited.VehicleAtRequest(vehicleID, s.RequestID, 0) {
		released, err := s.releaseRequest(exited)
		if err != nil {
			return w, err
		}
		return Idle{}.Enter(released, e, vehicleID)
	}
	return ServicingTrip{RequestID: s.RequestID}.Enter(exited, e, vehicleID)
}

func (DispatchingToRequest) Exit(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	return w, nil
}

// releaseRequest drops the claim so the request can be rematched next tick.
func (s DispatchingToRequest) releaseRequest(w state.World) (state.World, error) {
	r, ok := w.Requests[s.RequestID]
	if !ok {
		return w, nil
	}
	return w.ModifyRequest(r.WithAssignedVehicle(""))
}
