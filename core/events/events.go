// Package events defines the structured records the simulation core emits
// and the Reporter interface that carries them to the configured sinks.
// Records are plain data; formatting and persistence are infra concerns.
package events

// Record is a structured simulation event.
type Record interface {
	EventKind() string
}

// InstructionIssued is the audit entry for an instruction emitted by a
// matching pass. RequestID and StationID are set according to the
// instruction kind.
type InstructionIssued struct {
	Tick        int64  `json:"tick"`
	VehicleID   string `json:"vehicleId"`
	RequestID   string `json:"requestId,omitempty"`
	StationID   string `json:"stationId,omitempty"`
	Instruction string `json:"instruction"`
}

func (InstructionIssued) EventKind() string { return "instruction_issued" }

// InstructionFailed records an instruction dropped during application.
type InstructionFailed struct {
	Tick        int64  `json:"tick"`
	VehicleID   string `json:"vehicleId"`
	Instruction string `json:"instruction"`
	Reason      string `json:"reason"`
}

func (InstructionFailed) EventKind() string { return "instruction_failed" }

// StateTransition records a vehicle entering a new operating state.
type StateTransition struct {
	Tick      int64  `json:"tick"`
	VehicleID string `json:"vehicleId"`
	From      string `json:"from"`
	To        string `json:"to"`
}

func (StateTransition) EventKind() string { return "state_transition" }

// VehicleMoved records one route step traversed by a vehicle.
type VehicleMoved struct {
	Tick       int64   `json:"tick"`
	VehicleID  string  `json:"vehicleId"`
	DistanceKM float64 `json:"distanceKm"`
	SOC        float64 `json:"soc"`
	Activity   string  `json:"activity"`
}

func (VehicleMoved) EventKind() string { return "vehicle_moved" }

// ChargeSession records energy absorbed by a vehicle during one tick.
type ChargeSession struct {
	Tick      int64   `json:"tick"`
	VehicleID string  `json:"vehicleId"`
	StationID string  `json:"stationId"`
	ChargerID string  `json:"chargerId"`
	EnergyKWh float64 `json:"energyKwh"`
	SOC       float64 `json:"soc"`
}

func (ChargeSession) EventKind() string { return "charge_session" }

// TickSummary aggregates one tick of the run.
type TickSummary struct {
	Tick         int64   `json:"tick"`
	Instructions int     `json:"instructions"`
	Failures     int     `json:"failures"`
	Unmatched    int     `json:"unmatched"`
	MeanSOC      float64 `json:"meanSoc"`
}

func (TickSummary) EventKind() string { return "tick_summary" }

// Reporter receives records as they are produced.
type Reporter interface {
	File(rec Record)
}

// NopReporter discards every record.
type NopReporter struct{}

func (NopReporter) File(Record) {}

// MultiReporter fans records out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) File(rec Record) {
	for _, r := range m {
		r.File(rec)
	}
}

// MemoryReporter collects records in memory. Used in tests.
type MemoryReporter struct {
	Records []Record
}

func (m *MemoryReporter) File(rec Record) { m.Records = append(m.Records, rec) }
