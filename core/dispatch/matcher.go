package dispatch

import (
	"sort"

	"github.com/samber/lo"

	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/events"
	"github.com/voltride/fleetsim/core/geo"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/state"
)

// GreedyMatcher pairs the highest-value unmatched requests with their
// nearest eligible vehicles in a single pass. Higher-value requests always
// claim first, which favors throughput of high-value work over fairness;
// the result is conflict-free but not globally optimal.
type GreedyMatcher struct{}

// GenerateInstructions proposes dispatch instructions for the current world.
// The emitted order is deterministic: requests sorted by value descending,
// ties by creation tick then id; candidate vehicles resolved by the
// expanding-ring search with its ascending-id tie break.
func (GreedyMatcher) GenerateInstructions(w state.World, e *env.Env) ([]Instruction, []events.InstructionIssued) {
	unassigned := lo.Filter(lo.Values(w.Requests), func(r model.Request, _ int) bool {
		return !r.Assigned()
	})
	sort.Slice(unassigned, func(i, j int) bool {
		a, b := unassigned[i], unassigned[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.CreatedTick != b.CreatedTick {
			return a.CreatedTick < b.CreatedTick
		}
		return a.ID < b.ID
	})

	// Vehicles claimed during this pass; local to the pass by construction.
	claimed := make(map[string]struct{}, len(unassigned))

	var instructions []Instruction
	var audit []events.InstructionIssued
	for _, req := range unassigned {
		originCell, err := geo.CellOf(req.Origin, w.Resolution)
		if err != nil {
			continue // malformed origin: treated as no match
		}
		eligible := func(id string) bool {
			if _, taken := claimed[id]; taken {
				return false
			}
			v, ok := w.Vehicles[id]
			if !ok {
				return false
			}
			if e.Mechatronics.SOC(v) <= e.LowSOCFloor {
				return false
			}
			kind := v.StateKind()
			return kind == model.StateIdle || kind == model.StateRepositioning
		}
		vehicleID, ok := geo.NearestEntity(originCell, w.VehicleLocations, e.SearchResolution, e.MaxSearchRing, eligible)
		if !ok {
			continue // unmatched this tick; reconsidered next tick
		}
		claimed[vehicleID] = struct{}{}
		instructions = append(instructions, DispatchTrip{Vehicle: vehicleID, Request: req.ID})
		audit = append(audit, events.InstructionIssued{
			Tick:        w.Tick,
			VehicleID:   vehicleID,
			RequestID:   req.ID,
			Instruction: "dispatch_trip",
		})
	}
	return instructions, audit
}
