package fsm

import (
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/state"
)

// Repositioning moves an unassigned vehicle toward a target coordinate to
// rebalance coverage. The vehicle remains dispatchable while underway.
type Repositioning struct {
	Target model.Coordinate
	Route  model.Route
}

func (Repositioning) Kind() model.StateKind { return model.StateRepositioning }

func (s Repositioning) route() model.Route { return s.Route }

func (s Repositioning) withRoute(r model.Route) State {
	s.Route = r
	return s
}

// Enter computes the route from the vehicle's current position when none was
// supplied.
func (s Repositioning) Enter(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, state.Validationf("vehicle %s not found entering repositioning", vehicleID)
	}
	if s.Route == nil {
		route, err := w.RoadNetwork.Route(v.Coordinate, s.Target, model.ActivityRepositioning)
		if err != nil {
			return w, state.Validationf("vehicle %s repositioning: %v", vehicleID, err)
		}
		s.Route = route
	}
	return defaultEnter(w, e, vehicleID, s)
}

// Update advances along the route; an exhausted route transitions to Idle.
func (s Repositioning) Update(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	if len(s.Route) == 0 {
		exited, err := s.Exit(w, e, vehicleID)
		if err != nil {
			return w, err
		}
		return Idle{}.Enter(exited, e, vehicleID)
	}
	return moveVehicle(w, e, vehicleID)
}

func (Repositioning) Exit(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	return w, nil
}
