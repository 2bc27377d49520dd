package fsm

import (
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/state"
)

// Idle is the resting state for dispatchable vehicles between assignments.
type Idle struct{}

func (Idle) Kind() model.StateKind { return model.StateIdle }

func (s Idle) Enter(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	return defaultEnter(w, e, vehicleID, s)
}

// Update has no terminal condition: an idle vehicle waits for instructions.
func (Idle) Update(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	if _, ok := w.Vehicles[vehicleID]; !ok {
		return w, state.Validationf("vehicle %s not found", vehicleID)
	}
	return w, nil
}

func (Idle) Exit(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	return w, nil
}

// Reserve parks a vehicle at its base, out of the dispatchable pool.
type Reserve struct {
	BaseID string
}

func (Reserve) Kind() model.StateKind { return model.StateReserve }

func (s Reserve) Enter(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	if _, ok := w.Bases[s.BaseID]; !ok {
		return w, state.Validationf("vehicle %s entering reserve at unknown base %s", vehicleID, s.BaseID)
	}
	return defaultEnter(w, e, vehicleID, s)
}

func (Reserve) Update(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	if _, ok := w.Vehicles[vehicleID]; !ok {
		return w, state.Validationf("vehicle %s not found", vehicleID)
	}
	return w, nil
}

func (Reserve) Exit(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	return w, nil
}

// OutOfService marks a stranded or withdrawn vehicle. It never transitions
// out on its own.
type OutOfService struct{}

func (OutOfService) Kind() model.StateKind { return model.StateOutOfService }

func (s OutOfService) Enter(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	return defaultEnter(w, e, vehicleID, s)
}

func (OutOfService) Update(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	if _, ok := w.Vehicles[vehicleID]; !ok {
		return w, state.Validationf("vehicle %s not found", vehicleID)
	}
	return w, nil
}

func (OutOfService) Exit(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	return w, nil
}
