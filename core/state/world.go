// Package state owns the simulation world: the typed entity collections,
// their location indexes and the operations that produce new world versions.
// A World is a value. No operation mutates its input; each returns a fresh
// World sharing unmodified maps with its predecessor and cloning only the
// maps it writes.
package state

import (
	"github.com/voltride/fleetsim/core/geo"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/roadnet"
)

// DefaultResolution indexes entities within roughly 25 meters.
const DefaultResolution = 11

// World is the complete simulation state at one tick.
type World struct {
	RoadNetwork roadnet.Network

	Stations map[string]model.Station
	Bases    map[string]model.Base
	Vehicles map[string]model.Vehicle
	Requests map[string]model.Request

	StationLocations geo.LocationIndex
	BaseLocations    geo.LocationIndex
	VehicleLocations geo.LocationIndex
	RequestLocations geo.LocationIndex

	Tick            int64
	TimestepSeconds float64
	Resolution      int

	// ClusterNodeID is an opaque partition tag. Cross-partition coordination
	// is owned by an external layer.
	ClusterNodeID string
}

// New builds a world from static scenario data, indexing every station and
// base. Vehicles and requests arrive later through AddVehicle and AddRequest.
func New(network roadnet.Network, resolution int, timestepSeconds float64, stations []model.Station, bases []model.Base) (World, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	w := World{
		RoadNetwork:      network,
		Stations:         make(map[string]model.Station, len(stations)),
		Bases:            make(map[string]model.Base, len(bases)),
		Vehicles:         map[string]model.Vehicle{},
		Requests:         map[string]model.Request{},
		StationLocations: geo.LocationIndex{},
		BaseLocations:    geo.LocationIndex{},
		VehicleLocations: geo.LocationIndex{},
		RequestLocations: geo.LocationIndex{},
		TimestepSeconds:  timestepSeconds,
		Resolution:       resolution,
	}
	for _, s := range stations {
		cell, err := geo.CellOf(s.Coordinate, resolution)
		if err != nil {
			return World{}, Validationf("station %s: %v", s.ID, err)
		}
		if _, dup := w.Stations[s.ID]; dup {
			return World{}, Validationf("duplicate station id %s", s.ID)
		}
		w.Stations[s.ID] = s
		w.StationLocations = w.StationLocations.WithEntity(cell, s.ID)
	}
	for _, b := range bases {
		cell, err := geo.CellOf(b.Coordinate, resolution)
		if err != nil {
			return World{}, Validationf("base %s: %v", b.ID, err)
		}
		if _, dup := w.Bases[b.ID]; dup {
			return World{}, Validationf("duplicate base id %s", b.ID)
		}
		w.Bases[b.ID] = b
		w.BaseLocations = w.BaseLocations.WithEntity(cell, b.ID)
	}
	return w, nil
}

// AdvanceTime moves the simulation clock one tick forward.
func (w World) AdvanceTime() World {
	w.Tick++
	return w
}

// SimTimeSeconds is the clock position in seconds since the start of the run.
func (w World) SimTimeSeconds() int64 {
	return w.Tick * int64(w.TimestepSeconds)
}

// AssignClusterNode tags the world with a partition identifier.
func (w World) AssignClusterNode(id string) World {
	w.ClusterNodeID = id
	return w
}

// UpdateRoadNetwork refreshes the time-varying travel model, replacing only
// the road network handle.
func (w World) UpdateRoadNetwork(simTime int64) World {
	w.RoadNetwork = w.RoadNetwork.Update(simTime)
	return w
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
