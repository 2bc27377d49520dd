// Package fsm implements the per-vehicle state machine. Each operating state
// is a tagged variant implementing the State interface; Enter, Update and
// Exit are the only operations allowed to change a vehicle's recorded state,
// and they are invoked only by the instruction application layer and the
// per-tick advance step.
package fsm

import (
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/events"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/state"
)

// State is one vehicle operating state. Implementations are value types
// carrying the state's data (route, target ids).
type State interface {
	model.VehicleState

	// Enter validates preconditions, performs entry side effects (charger
	// checkout, passenger boarding) and installs the state on the vehicle.
	// On failure the input world is returned untouched.
	Enter(w state.World, e *env.Env, vehicleID string) (state.World, error)

	// Update advances the vehicle one tick within this state. When the
	// state's terminal condition is met it exits and performs the state's
	// default transition instead.
	Update(w state.World, e *env.Env, vehicleID string) (state.World, error)

	// Exit reverses entry side effects before the state is replaced.
	Exit(w state.World, e *env.Env, vehicleID string) (state.World, error)
}

// Update advances the named vehicle one tick in whatever state it holds.
func Update(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, state.Validationf("vehicle %s not found", vehicleID)
	}
	st, ok := v.State.(State)
	if !ok {
		return w, state.Invariantf("vehicle %s holds a state with no transitions: %T", vehicleID, v.State)
	}
	return st.Update(w, e, vehicleID)
}

// defaultEnter swaps the vehicle's recorded state and files a transition
// record. States without entry side effects delegate here.
func defaultEnter(w state.World, e *env.Env, vehicleID string, next State) (state.World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, state.Validationf("vehicle %s not found entering %s", vehicleID, next.Kind())
	}
	from := v.StateKind()
	updated, err := w.ModifyVehicle(v.WithState(next))
	if err != nil {
		return w, err
	}
	e.Report(events.StateTransition{
		Tick:      w.Tick,
		VehicleID: vehicleID,
		From:      string(from),
		To:        string(next.Kind()),
	})
	return updated, nil
}

// enterIdleOrReserve is the shared end-of-activity transition: vehicles with
// a home base park in reserve, the rest return to the idle pool.
func enterIdleOrReserve(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, state.Validationf("vehicle %s not found", vehicleID)
	}
	if v.BaseID != "" {
		return Reserve{BaseID: v.BaseID}.Enter(w, e, vehicleID)
	}
	return Idle{}.Enter(w, e, vehicleID)
}
