package fsm

import (
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/events"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/state"
)

// routed is satisfied by every state that follows a route.
type routed interface {
	State
	route() model.Route
	withRoute(r model.Route) State
}

// moveVehicle advances the vehicle one route step: position, location index
// and spent energy all update together. A vehicle that cannot afford the
// step's energy is stranded OutOfService in place.
func moveVehicle(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, state.Validationf("vehicle %s not found attempting to move", vehicleID)
	}
	mover, ok := v.State.(routed)
	if !ok {
		return w, state.Invariantf("vehicle %s state %s has no route", vehicleID, v.StateKind())
	}
	route := mover.route()
	if len(route) == 0 {
		return w, nil
	}
	step := route[0]
	needed := e.Mechatronics.EnergyForDistance(v, step.DistanceKM)
	if needed > v.EnergyKWh {
		return OutOfService{}.Enter(w, e, vehicleID)
	}
	v.EnergyKWh -= needed
	v.Coordinate = step.Coordinate
	v.DistanceKM += step.DistanceKM
	v.State = mover.withRoute(route[1:])
	updated, err := w.ModifyVehicle(v)
	if err != nil {
		return w, err
	}
	e.Report(events.VehicleMoved{
		Tick:       w.Tick,
		VehicleID:  vehicleID,
		DistanceKM: step.DistanceKM,
		SOC:        v.SOC(),
		Activity:   string(step.Activity),
	})
	return updated, nil
}
