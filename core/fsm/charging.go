package fsm

import (
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/events"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/state"
)

// DispatchingToStation drives a vehicle to a charging station.
type DispatchingToStation struct {
	StationID   string
	ChargerType model.ChargerType
	Route       model.Route
}

func (DispatchingToStation) Kind() model.StateKind { return model.StateDispatchingToStation }

func (s DispatchingToStation) route() model.Route { return s.Route }

func (s DispatchingToStation) withRoute(r model.Route) State {
	s.Route = r
	return s
}

func (s DispatchingToStation) Enter(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, state.Validationf("vehicle %s not found dispatching to station %s", vehicleID, s.StationID)
	}
	st, ok := w.Stations[s.StationID]
	if !ok {
		return w, state.Validationf("vehicle %s dispatching to station %s which does not exist", vehicleID, s.StationID)
	}
	if s.Route == nil {
		route, err := w.RoadNetwork.Route(v.Coordinate, st.Coordinate, model.ActivityDispatchStation)
		if err != nil {
			return w, state.Validationf("vehicle %s route to station %s: %v", vehicleID, s.StationID, err)
		}
		s.Route = route
	}
	return defaultEnter(w, e, vehicleID, s)
}

// Update advances toward the station; on arrival it attempts to plug in. A
// failed checkout (all chargers busy) is returned as an error and retried on
// the next tick, since the vehicle keeps this state with an empty route.
func (s DispatchingToStation) Update(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	if len(s.Route) > 0 {
		return moveVehicle(w, e, vehicleID)
	}
	exited, err := s.Exit(w, e, vehicleID)
	if err != nil {
		return w, err
	}
	return Charging{StationID: s.StationID, ChargerType: s.ChargerType}.Enter(exited, e, vehicleID)
}

func (DispatchingToStation) Exit(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	return w, nil
}

// Charging occupies a checked-out charger until the target SOC is reached.
type Charging struct {
	StationID   string
	ChargerType model.ChargerType
	ChargerID   string
}

func (Charging) Kind() model.StateKind { return model.StateCharging }

// Enter checks a charger out of the station. Checkout is atomic: when no
// charger of the requested type is free the world is returned unchanged.
func (s Charging) Enter(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, state.Validationf("vehicle %s not found entering charging", vehicleID)
	}
	st, ok := w.Stations[s.StationID]
	if !ok {
		return w, state.Validationf("vehicle %s charging at station %s which does not exist", vehicleID, s.StationID)
	}
	if e.Mechatronics.IsFull(v) {
		return w, state.Validationf("vehicle %s is full but attempting to charge at station %s", vehicleID, s.StationID)
	}
	updated, charger, ok := st.CheckoutCharger(s.ChargerType)
	if !ok {
		return w, state.Validationf("no %s charger available at station %s for vehicle %s", s.ChargerType, s.StationID, vehicleID)
	}
	s.ChargerID = charger.ID
	withStation, err := w.ModifyStation(updated)
	if err != nil {
		return w, err
	}
	return defaultEnter(withStation, e, vehicleID, s)
}

// Update absorbs one tick of energy. Reaching the target SOC releases the
// charger and parks the vehicle idle or in reserve.
func (s Charging) Update(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	v, ok := w.Vehicles[vehicleID]
	if !ok {
		return w, state.Validationf("vehicle %s not found while charging", vehicleID)
	}
	if e.Mechatronics.SOC(v) >= e.TargetSOC {
		exited, err := s.Exit(w, e, vehicleID)
		if err != nil {
			return w, err
		}
		return enterIdleOrReserve(exited, e, vehicleID)
	}
	st, ok := w.Stations[s.StationID]
	if !ok {
		return w, state.Invariantf("vehicle %s charging at station %s which vanished at tick %d", vehicleID, s.StationID, w.Tick)
	}
	charger, ok := st.Chargers[s.ChargerID]
	if !ok {
		return w, state.Invariantf("vehicle %s holds unknown charger %s at station %s", vehicleID, s.ChargerID, s.StationID)
	}
	charged, _ := e.Mechatronics.AddEnergy(v, charger, e.TimestepSeconds)
	gained := charged.EnergyKWh - v.EnergyKWh
	updated, err := w.ModifyVehicle(charged)
	if err != nil {
		return w, err
	}
	e.Report(events.ChargeSession{
		Tick:      w.Tick,
		VehicleID: vehicleID,
		StationID: s.StationID,
		ChargerID: s.ChargerID,
		EnergyKWh: gained,
		SOC:       charged.SOC(),
	})
	return updated, nil
}

// Exit returns the charger to the station. ReturnCharger is idempotent, so
// a double exit is harmless.
func (s Charging) Exit(w state.World, e *env.Env, vehicleID string) (state.World, error) {
	st, ok := w.Stations[s.StationID]
	if !ok {
		return w, state.Invariantf("vehicle %s returning charger to station %s which vanished at tick %d", vehicleID, s.StationID, w.Tick)
	}
	return w.ModifyStation(st.ReturnCharger(s.ChargerID))
}
