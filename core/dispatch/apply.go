package dispatch

import (
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/events"
	"github.com/voltride/fleetsim/core/state"
)

// Failure records an instruction that could not be applied.
type Failure struct {
	VehicleID string
	Kind      string
	Err       error
}

// Apply executes instructions against the world in emitted order. A
// validation failure drops that instruction and continues; the world is
// never left partially mutated by a failed instruction. An invariant
// violation aborts and is returned as the error.
func Apply(w state.World, e *env.Env, instructions []Instruction) (state.World, []Failure, error) {
	var failures []Failure
	for _, instr := range instructions {
		next, err := instr.Apply(w, e)
		if err != nil {
			if state.IsInvariant(err) {
				return w, failures, err
			}
			failures = append(failures, Failure{VehicleID: instr.VehicleID(), Kind: instr.Kind(), Err: err})
			e.Report(events.InstructionFailed{
				Tick:        w.Tick,
				VehicleID:   instr.VehicleID(),
				Instruction: instr.Kind(),
				Reason:      err.Error(),
			})
			continue
		}
		w = next
	}
	return w, failures, nil
}
