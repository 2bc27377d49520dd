package state

import (
	"testing"

	"github.com/voltride/fleetsim/core/geo"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/roadnet"
)

var (
	testBounds  = roadnet.Bounds{MinLat: 37.2, MinLon: -122.8, MaxLat: 38.2, MaxLon: -121.8}
	testStation = model.Station{
		ID:         "st1",
		Coordinate: model.Coordinate{Lat: 37.78, Lon: -122.41},
		Chargers: map[string]model.Charger{
			"st1-DCFC-01": {ID: "st1-DCFC-01", Type: model.ChargerDCFC, PowerKW: 150},
		},
	}
	testBase = model.Base{ID: "b1", Coordinate: model.Coordinate{Lat: 37.76, Lon: -122.42}, Stalls: 5}
)

func testWorld(t *testing.T) World {
	t.Helper()
	network := roadnet.NewHaversine(testBounds, roadnet.Bounds{}, 40, 60)
	w, err := New(network, 11, 60, []model.Station{testStation}, []model.Base{testBase})
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func testVehicle(id string, c model.Coordinate) model.Vehicle {
	return model.Vehicle{
		ID:             id,
		Coordinate:     c,
		EnergyKWh:      40,
		CapacityKWh:    50,
		MaxChargeKW:    50,
		Seats:          4,
		AvailableSeats: 4,
	}
}

func TestAddRequestSnapsOrigin(t *testing.T) {
	w := testWorld(t)
	raw := model.Coordinate{Lat: 37.7749, Lon: -122.4194}
	req := model.Request{ID: "r1", Origin: raw, Destination: model.Coordinate{Lat: 37.79, Lon: -122.40}, Passengers: 1}

	next, err := w.AddRequest(req)
	if err != nil {
		t.Fatalf("add request: %v", err)
	}
	cell, _ := geo.CellOf(raw, next.Resolution)
	want := geo.CellCenter(cell)
	got := next.Requests["r1"].Origin
	if got != want {
		t.Fatalf("origin not snapped to cell centroid: %+v vs %+v", got, want)
	}
	if !next.RequestLocations.Contains(cell, "r1") {
		t.Fatalf("request not indexed at its cell")
	}
	if len(w.Requests) != 0 {
		t.Fatalf("add mutated the input world")
	}
	if err := next.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestAddRequestValidation(t *testing.T) {
	w := testWorld(t)
	outside := model.Request{ID: "r1", Origin: model.Coordinate{Lat: 45, Lon: -122.41}, Destination: model.Coordinate{Lat: 37.79, Lon: -122.40}}
	if _, err := w.AddRequest(outside); !IsValidation(err) {
		t.Fatalf("expected validation error for origin outside geofence, got %v", err)
	}

	req := model.Request{ID: "r1", Origin: model.Coordinate{Lat: 37.77, Lon: -122.41}, Destination: model.Coordinate{Lat: 37.79, Lon: -122.40}}
	w, err := w.AddRequest(req)
	if err != nil {
		t.Fatalf("add request: %v", err)
	}
	if _, err := w.AddRequest(req); !IsValidation(err) {
		t.Fatalf("expected validation error for duplicate id, got %v", err)
	}
}

func TestRemoveRequestIdempotent(t *testing.T) {
	w := testWorld(t)
	req := model.Request{ID: "r1", Origin: model.Coordinate{Lat: 37.77, Lon: -122.41}, Destination: model.Coordinate{Lat: 37.79, Lon: -122.40}}
	w, err := w.AddRequest(req)
	if err != nil {
		t.Fatalf("add request: %v", err)
	}
	w, err = w.RemoveRequest("r1")
	if err != nil {
		t.Fatalf("remove request: %v", err)
	}
	if len(w.Requests) != 0 || w.RequestLocations.Count() != 0 {
		t.Fatalf("request not fully removed")
	}
	// a second removal, and removal of an unknown id, are no-ops
	again, err := w.RemoveRequest("r1")
	if err != nil {
		t.Fatalf("idempotent remove errored: %v", err)
	}
	if len(again.Requests) != 0 {
		t.Fatalf("idempotent remove changed the world")
	}
}

func TestAddVehicleAndReindexOnMove(t *testing.T) {
	w := testWorld(t)
	start := model.Coordinate{Lat: 37.7749, Lon: -122.4194}
	w, err := w.AddVehicle(testVehicle("veh1", start))
	if err != nil {
		t.Fatalf("add vehicle: %v", err)
	}
	if _, err := w.AddVehicle(testVehicle("veh1", start)); !IsValidation(err) {
		t.Fatalf("expected validation error for duplicate vehicle")
	}

	moved := w.Vehicles["veh1"]
	moved.Coordinate = model.Coordinate{Lat: 37.80, Lon: -122.40}
	w, err = w.ModifyVehicle(moved)
	if err != nil {
		t.Fatalf("modify vehicle: %v", err)
	}
	oldCell, _ := geo.CellOf(start, w.Resolution)
	newCell, _ := geo.CellOf(moved.Coordinate, w.Resolution)
	if w.VehicleLocations.Contains(oldCell, "veh1") {
		t.Fatalf("vehicle still indexed at old cell")
	}
	if !w.VehicleLocations.Contains(newCell, "veh1") {
		t.Fatalf("vehicle not indexed at new cell")
	}
	if err := w.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestRemoveVehicle(t *testing.T) {
	w := testWorld(t)
	w, _ = w.AddVehicle(testVehicle("veh1", model.Coordinate{Lat: 37.77, Lon: -122.41}))
	w, err := w.RemoveVehicle("veh1")
	if err != nil {
		t.Fatalf("remove vehicle: %v", err)
	}
	if _, err := w.RemoveVehicle("veh1"); !IsValidation(err) {
		t.Fatalf("expected validation error removing absent vehicle, got %v", err)
	}
}

func TestBoardVehicleSeats(t *testing.T) {
	w := testWorld(t)
	w, _ = w.AddVehicle(testVehicle("veh1", model.Coordinate{Lat: 37.77, Lon: -122.41}))
	req := model.Request{ID: "r1", Origin: model.Coordinate{Lat: 37.77, Lon: -122.41}, Destination: model.Coordinate{Lat: 37.79, Lon: -122.40}, Passengers: 2}
	w, _ = w.AddRequest(req)

	w, err := w.BoardVehicle("r1", "veh1")
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	v := w.Vehicles["veh1"]
	if v.AvailableSeats != 2 || v.Passengers != 2 {
		t.Fatalf("seats not transferred: %+v", v)
	}
	// boarding does not delete the request
	if _, ok := w.Requests["r1"]; !ok {
		t.Fatalf("boarding deleted the request")
	}

	big := model.Request{ID: "r2", Origin: model.Coordinate{Lat: 37.77, Lon: -122.41}, Destination: model.Coordinate{Lat: 37.79, Lon: -122.40}, Passengers: 3}
	w, _ = w.AddRequest(big)
	if _, err := w.BoardVehicle("r2", "veh1"); !IsValidation(err) {
		t.Fatalf("expected seat-capacity validation error, got %v", err)
	}
	if _, err := w.BoardVehicle("missing", "veh1"); !IsValidation(err) {
		t.Fatalf("expected validation error for unknown request")
	}
}

func TestVehicleAtRequest(t *testing.T) {
	w := testWorld(t)
	raw := model.Coordinate{Lat: 37.7749, Lon: -122.4194}
	req := model.Request{ID: "r1", Origin: raw, Destination: model.Coordinate{Lat: 37.79, Lon: -122.40}, Passengers: 1}
	w, _ = w.AddRequest(req)

	// place the vehicle exactly on the snapped origin
	w, err := w.AddVehicle(testVehicle("veh1", w.Requests["r1"].Origin))
	if err != nil {
		t.Fatalf("add vehicle: %v", err)
	}
	if !w.VehicleAtRequest("veh1", "r1", 0) {
		t.Fatalf("vehicle on the snapped origin should be at the request")
	}

	far := testVehicle("veh2", model.Coordinate{Lat: 37.90, Lon: -122.30})
	w, _ = w.AddVehicle(far)
	if w.VehicleAtRequest("veh2", "r1", 0) {
		t.Fatalf("distant vehicle reported at the request")
	}
	// a coarser override widens the pickup area
	if !w.VehicleAtRequest("veh1", "r1", 7) {
		t.Fatalf("override resolution should still match the co-located vehicle")
	}
	if w.VehicleAtRequest("ghost", "r1", 0) || w.VehicleAtRequest("veh1", "ghost", 0) {
		t.Fatalf("unknown ids should never match")
	}
}

func TestWorldClock(t *testing.T) {
	w := testWorld(t)
	w = w.AdvanceTime().AdvanceTime()
	if w.Tick != 2 {
		t.Fatalf("expected tick 2, got %d", w.Tick)
	}
	if w.SimTimeSeconds() != 120 {
		t.Fatalf("expected 120 s, got %d", w.SimTimeSeconds())
	}
	tagged := w.AssignClusterNode("node-7")
	if tagged.ClusterNodeID != "node-7" || w.ClusterNodeID != "" {
		t.Fatalf("cluster tag should copy, not mutate")
	}
}
