// Package sim drives the simulation loop: one world value threaded through
// every tick, instructions generated and applied, vehicles advanced.
package sim

import (
	"context"
	"sort"

	"github.com/samber/lo"

	"github.com/voltride/fleetsim/core/dispatch"
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/events"
	"github.com/voltride/fleetsim/core/fsm"
	"github.com/voltride/fleetsim/core/logger"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/state"
)

// ScheduledRequest is a request the feed injects when the clock reaches its
// tick. The feed must be ordered by tick ascending.
type ScheduledRequest struct {
	Tick    int64
	Request model.Request
}

// TickResult summarizes one simulation tick.
type TickResult struct {
	Tick         int64
	Instructions int
	Failures     []dispatch.Failure
	Unmatched    int
}

// Runner advances the simulation tick by tick. It owns no mutable world
// state; every Step consumes a world value and returns the next one.
type Runner struct {
	Matcher  dispatch.GreedyMatcher
	Charging dispatch.ChargingManager
	Env      *env.Env
	Log      logger.Logger

	feed []ScheduledRequest

	failedInstructions int
}

// NewRunner builds a runner over the given environment and request feed.
func NewRunner(e *env.Env, log logger.Logger, feed []ScheduledRequest) *Runner {
	sorted := make([]ScheduledRequest, len(feed))
	copy(sorted, feed)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tick < sorted[j].Tick })
	return &Runner{
		Charging: dispatch.ChargingManager{PreferredCharger: model.ChargerDCFC},
		Env:      e,
		Log:      log,
		feed:     sorted,
	}
}

// Step runs one tick: inject due requests, refresh the road network,
// generate and apply instructions, advance every vehicle in ascending id
// order, then advance the clock. A validation failure skips the offending
// instruction or vehicle; an invariant violation aborts the run.
func (r *Runner) Step(w state.World) (state.World, TickResult, error) {
	res := TickResult{Tick: w.Tick}

	for len(r.feed) > 0 && r.feed[0].Tick <= w.Tick {
		req := r.feed[0].Request
		req.CreatedTick = w.Tick
		r.feed = r.feed[1:]
		next, err := w.AddRequest(req)
		if err != nil {
			r.Log.Warnf("add request %s: %v", req.ID, err)
			continue
		}
		w = next
	}

	w = w.UpdateRoadNetwork(w.SimTimeSeconds())

	instructions, audit := r.Matcher.GenerateInstructions(w, r.Env)
	chargeInstr, chargeAudit := r.Charging.GenerateInstructions(w, r.Env)
	instructions = append(instructions, chargeInstr...)
	audit = append(audit, chargeAudit...)
	for _, rec := range audit {
		r.Env.Report(rec)
	}

	w, failures, err := dispatch.Apply(w, r.Env, instructions)
	if err != nil {
		return w, res, err
	}
	for _, f := range failures {
		r.Log.Warnf("instruction %s for vehicle %s skipped: %v", f.Kind, f.VehicleID, f.Err)
	}
	r.failedInstructions += len(failures)

	vehicleIDs := lo.Keys(w.Vehicles)
	sort.Strings(vehicleIDs)
	for _, id := range vehicleIDs {
		next, err := fsm.Update(w, r.Env, id)
		if err != nil {
			if state.IsInvariant(err) {
				return w, res, err
			}
			r.Log.Warnf("vehicle %s update: %v", id, err)
			continue
		}
		w = next
	}

	res.Instructions = len(instructions)
	res.Failures = failures
	res.Unmatched = lo.CountBy(lo.Values(w.Requests), func(req model.Request) bool {
		return !req.Assigned()
	})
	r.Env.Report(events.TickSummary{
		Tick:         w.Tick,
		Instructions: res.Instructions,
		Failures:     len(failures),
		Unmatched:    res.Unmatched,
		MeanSOC:      meanSOC(w),
	})
	return w.AdvanceTime(), res, nil
}

// Run executes ticks until the horizon or context cancellation and returns
// the final world with the end-of-run summary.
func (r *Runner) Run(ctx context.Context, w state.World, ticks int) (state.World, Summary, error) {
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return w, r.summarize(w), ctx.Err()
		default:
		}
		var err error
		w, _, err = r.Step(w)
		if err != nil {
			return w, r.summarize(w), err
		}
	}
	return w, r.summarize(w), nil
}
