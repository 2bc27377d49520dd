// Package dispatch contains the matching engine and the instruction
// application layer. Matching is a pure function of the world: emitting
// instructions never mutates state; Apply performs the transitions.
package dispatch

import (
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/fsm"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/state"
)

// Instruction is a proposed vehicle action produced by a matching pass.
type Instruction interface {
	VehicleID() string
	Kind() string
	// Apply performs the state transition the instruction names. On failure
	// the input world is returned untouched.
	Apply(w state.World, e *env.Env) (state.World, error)
}

// DispatchTrip sends a vehicle to pick up a request.
type DispatchTrip struct {
	Vehicle string
	Request string
}

func (i DispatchTrip) VehicleID() string { return i.Vehicle }
func (i DispatchTrip) Kind() string      { return "dispatch_trip" }

func (i DispatchTrip) Apply(w state.World, e *env.Env) (state.World, error) {
	return fsm.DispatchingToRequest{RequestID: i.Request}.Enter(w, e, i.Vehicle)
}

// DispatchStation sends a vehicle to charge at a station.
type DispatchStation struct {
	Vehicle     string
	Station     string
	ChargerType model.ChargerType
}

func (i DispatchStation) VehicleID() string { return i.Vehicle }
func (i DispatchStation) Kind() string      { return "dispatch_station" }

func (i DispatchStation) Apply(w state.World, e *env.Env) (state.World, error) {
	return fsm.DispatchingToStation{StationID: i.Station, ChargerType: i.ChargerType}.Enter(w, e, i.Vehicle)
}

// Reposition relocates an idle vehicle without an assignment.
type Reposition struct {
	Vehicle     string
	Destination model.Coordinate
}

func (i Reposition) VehicleID() string { return i.Vehicle }
func (i Reposition) Kind() string      { return "reposition" }

func (i Reposition) Apply(w state.World, e *env.Env) (state.World, error) {
	return fsm.Repositioning{Target: i.Destination}.Enter(w, e, i.Vehicle)
}
