package mqtt

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/voltride/fleetsim/core/events"
)

func TestReporterPublishesPerKindTopics(t *testing.T) {
	pub := NewMockPublisher()
	rep := NewReporter(pub, "fleetsim")

	rep.File(events.VehicleMoved{Tick: 3, VehicleID: "veh1", DistanceKM: 0.5, SOC: 0.8, Activity: "servicing_trip"})
	rep.File(events.TickSummary{Tick: 3, Instructions: 2})

	moved := pub.Messages["fleetsim/vehicle_moved"]
	if len(moved) != 1 {
		t.Fatalf("expected one vehicle_moved payload, got %d", len(moved))
	}
	var decoded events.VehicleMoved
	if err := json.Unmarshal(moved[0], &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.VehicleID != "veh1" || decoded.DistanceKM != 0.5 {
		t.Fatalf("payload mangled: %+v", decoded)
	}
	if len(pub.Messages["fleetsim/tick_summary"]) != 1 {
		t.Fatalf("tick summary not published")
	}
}

func TestReporterDropsOnPublishError(t *testing.T) {
	pub := NewMockPublisher()
	pub.Err = errors.New("broker gone")
	rep := NewReporter(pub, "fleetsim")

	// must not panic or block
	rep.File(events.TickSummary{Tick: 1})
	if len(pub.Messages) != 0 {
		t.Fatalf("message recorded despite publish error")
	}
}

func TestConfigDefaultsAndValidation(t *testing.T) {
	c := Config{Enabled: true}
	c.SetDefaults()
	if c.TopicRoot != "fleetsim" || c.ClientID == "" {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("enabled config without broker must fail validation")
	}
	c.Broker = "tcp://localhost:1883"
	if err := c.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if err := (Config{}).Validate(); err != nil {
		t.Fatalf("disabled config should always validate: %v", err)
	}
}
