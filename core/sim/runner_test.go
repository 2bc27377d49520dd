package sim

import (
	"context"
	"reflect"
	"testing"

	"github.com/voltride/fleetsim/core/energy"
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/events"
	"github.com/voltride/fleetsim/core/fsm"
	"github.com/voltride/fleetsim/core/logger"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/roadnet"
	"github.com/voltride/fleetsim/core/state"
)

type nopLog struct{}

func (nopLog) Debugf(string, ...any)         {}
func (nopLog) Debugw(string, map[string]any) {}
func (nopLog) Infof(string, ...any)          {}
func (nopLog) Warnf(string, ...any)          {}
func (nopLog) Errorf(string, ...any)         {}

var _ logger.Logger = nopLog{}

var testBounds = roadnet.Bounds{MinLat: 37.2, MinLon: -122.8, MaxLat: 38.2, MaxLon: -121.8}

func scenario(t *testing.T) (state.World, *env.Env, []ScheduledRequest) {
	t.Helper()
	station := model.Station{
		ID:         "st1",
		Coordinate: model.Coordinate{Lat: 37.78, Lon: -122.41},
		Chargers: map[string]model.Charger{
			"st1-DCFC-01": {ID: "st1-DCFC-01", Type: model.ChargerDCFC, PowerKW: 150},
		},
	}
	network := roadnet.NewHaversine(testBounds, roadnet.Bounds{}, 40, 60)
	w, err := state.New(network, 11, 60, []model.Station{station}, nil)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	for _, spec := range []struct {
		id  string
		c   model.Coordinate
		soc float64
	}{
		{"veh-a", model.Coordinate{Lat: 37.7749, Lon: -122.4194}, 0.9},
		{"veh-b", model.Coordinate{Lat: 37.7649, Lon: -122.4294}, 0.9},
		{"veh-c", model.Coordinate{Lat: 37.7549, Lon: -122.4394}, 0.1},
	} {
		v := model.Vehicle{
			ID: spec.id, State: fsm.Idle{}, Coordinate: spec.c,
			EnergyKWh: spec.soc * 50, CapacityKWh: 50, MaxChargeKW: 50,
			Seats: 4, AvailableSeats: 4,
		}
		w, err = w.AddVehicle(v)
		if err != nil {
			t.Fatalf("add vehicle: %v", err)
		}
	}
	e := &env.Env{
		Mechatronics:     energy.NewLinear(180),
		Reporter:         events.NopReporter{},
		LowSOCFloor:      0.2,
		TargetSOC:        0.95,
		SearchResolution: 7,
		MaxSearchRing:    10,
		TimestepSeconds:  60,
	}
	feed := []ScheduledRequest{
		{Tick: 2, Request: model.Request{
			ID:     "r2",
			Origin: model.Coordinate{Lat: 37.7759, Lon: -122.4184}, Destination: model.Coordinate{Lat: 37.7859, Lon: -122.4084},
			Value: 7, Passengers: 1,
		}},
		{Tick: 0, Request: model.Request{
			ID:     "r1",
			Origin: model.Coordinate{Lat: 37.7749, Lon: -122.4194}, Destination: model.Coordinate{Lat: 37.7849, Lon: -122.4094},
			Value: 10, Passengers: 2,
		}},
	}
	return w, e, feed
}

func TestStepInjectsAndMatchesFeed(t *testing.T) {
	w, e, feed := scenario(t)
	r := NewRunner(e, nopLog{}, feed)

	w, res, err := r.Step(w)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if w.Tick != 1 {
		t.Fatalf("clock did not advance, tick %d", w.Tick)
	}
	if res.Instructions == 0 {
		t.Fatalf("tick 0 should dispatch the injected request")
	}
	req, ok := w.Requests["r1"]
	if !ok {
		t.Fatalf("request r1 should still be in flight")
	}
	if !req.Assigned() {
		t.Fatalf("request r1 unmatched with idle vehicles available")
	}
	if _, ok := w.Requests["r2"]; ok {
		t.Fatalf("request r2 injected before its tick")
	}
	if err := w.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestRunDeterministic(t *testing.T) {
	run := func() (state.World, Summary) {
		w, e, feed := scenario(t)
		r := NewRunner(e, nopLog{}, feed)
		final, sum, err := r.Run(context.Background(), w, 30)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return final, sum
	}
	w1, s1 := run()
	w2, s2 := run()

	if !reflect.DeepEqual(s1, s2) {
		t.Fatalf("summaries diverged:\n%+v\n%+v", s1, s2)
	}
	if !reflect.DeepEqual(w1.Vehicles, w2.Vehicles) {
		t.Fatalf("vehicle states diverged between identical runs")
	}
	if !reflect.DeepEqual(w1.Requests, w2.Requests) {
		t.Fatalf("request states diverged between identical runs")
	}
	if err := w1.CheckInvariants(); err != nil {
		t.Fatalf("invariants after run: %v", err)
	}
}

func TestRunServicesRequests(t *testing.T) {
	w, e, feed := scenario(t)
	r := NewRunner(e, nopLog{}, feed)
	final, sum, err := r.Run(context.Background(), w, 60)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// both trips are short; an hour of ticks is plenty to finish them
	if len(final.Requests) != 0 {
		t.Fatalf("requests left unserviced: %v", len(final.Requests))
	}
	if sum.TotalDistanceKM == 0 {
		t.Fatalf("fleet drove nowhere")
	}
	if sum.Vehicles != 3 {
		t.Fatalf("expected 3 vehicles in summary, got %d", sum.Vehicles)
	}
	if sum.MeanSOC <= 0 || sum.MeanSOC > 1 {
		t.Fatalf("mean SOC out of range: %v", sum.MeanSOC)
	}
}

func TestRunHonorsContext(t *testing.T) {
	w, e, feed := scenario(t)
	r := NewRunner(e, nopLog{}, feed)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := r.Run(ctx, w, 10); err == nil {
		t.Fatalf("cancelled context should abort the run")
	}
}
