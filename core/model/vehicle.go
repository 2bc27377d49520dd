package model

// StateKind tags a vehicle operating state.
type StateKind string

const (
	StateIdle                 StateKind = "idle"
	StateRepositioning        StateKind = "repositioning"
	StateDispatchingToRequest StateKind = "dispatching_to_request"
	StateServicingTrip        StateKind = "servicing_trip"
	StateDispatchingToStation StateKind = "dispatching_to_station"
	StateCharging             StateKind = "charging"
	StateReserve              StateKind = "reserve"
	StateOutOfService         StateKind = "out_of_service"
)

// VehicleState is the narrow view of a state variant as stored on a vehicle.
// The transition logic lives in core/fsm; no other code may swap this value.
type VehicleState interface {
	Kind() StateKind
}

// Vehicle is an electric fleet vehicle. It is an immutable value record:
// every change produces a new value which replaces the old one in the world
// through state.ModifyVehicle.
type Vehicle struct {
	ID             string
	State          VehicleState
	Coordinate     Coordinate
	EnergyKWh      float64 // energy currently stored
	CapacityKWh    float64 // total battery capacity
	MaxChargeKW    float64 // maximum charge acceptance
	Seats          int     // passenger capacity
	AvailableSeats int
	Passengers     int    // passengers currently aboard
	BaseID         string // optional home base
	DistanceKM     float64
}

// SOC returns the state of charge in [0,1].
func (v Vehicle) SOC() float64 {
	if v.CapacityKWh <= 0 {
		return 0
	}
	return v.EnergyKWh / v.CapacityKWh
}

// StateKind returns the kind of the current operating state. A vehicle with
// no recorded state is treated as idle.
func (v Vehicle) StateKind() StateKind {
	if v.State == nil {
		return StateIdle
	}
	return v.State.Kind()
}

// WithState returns a copy of the vehicle holding the given state.
func (v Vehicle) WithState(s VehicleState) Vehicle {
	v.State = s
	return v
}
