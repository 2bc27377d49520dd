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

// ChargingManager sends idle vehicles at or below the SOC floor to the
// nearest station with a free charger of the preferred type. Vehicles above
// the floor belong to the trip matcher, so the two passes never compete.
type ChargingManager struct {
	PreferredCharger model.ChargerType
}

// GenerateInstructions proposes charging dispatches for the current world.
func (m ChargingManager) GenerateInstructions(w state.World, e *env.Env) ([]Instruction, []events.InstructionIssued) {
	chargerType := m.PreferredCharger
	if chargerType == "" {
		chargerType = model.ChargerDCFC
	}

	vehicleIDs := lo.Keys(w.Vehicles)
	sort.Strings(vehicleIDs)

	// Chargers claimed this pass, per station, so one pass never sends more
	// vehicles to a station than it has free plugs.
	claimedPlugs := make(map[string]int)

	var instructions []Instruction
	var audit []events.InstructionIssued
	for _, vehicleID := range vehicleIDs {
		v := w.Vehicles[vehicleID]
		if v.StateKind() != model.StateIdle {
			continue
		}
		if e.Mechatronics.SOC(v) > e.LowSOCFloor {
			continue
		}
		originCell, err := geo.CellOf(v.Coordinate, w.Resolution)
		if err != nil {
			continue
		}
		hasFreeCharger := func(id string) bool {
			st, ok := w.Stations[id]
			if !ok {
				return false
			}
			return st.FreeChargers(chargerType)-claimedPlugs[id] > 0
		}
		stationID, ok := geo.NearestEntity(originCell, w.StationLocations, e.SearchResolution, e.MaxSearchRing, hasFreeCharger)
		if !ok {
			continue
		}
		claimedPlugs[stationID]++
		instructions = append(instructions, DispatchStation{
			Vehicle:     vehicleID,
			Station:     stationID,
			ChargerType: chargerType,
		})
		audit = append(audit, events.InstructionIssued{
			Tick:        w.Tick,
			VehicleID:   vehicleID,
			StationID:   stationID,
			Instruction: "dispatch_station",
		})
	}
	return instructions, audit
}
