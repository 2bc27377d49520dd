package config

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/roadnet"
)

// BoundsConfig is an axis-aligned latitude/longitude box.
type BoundsConfig struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

// Bounds converts to the road network representation.
func (b BoundsConfig) Bounds() roadnet.Bounds {
	return roadnet.Bounds{MinLat: b.MinLat, MinLon: b.MinLon, MaxLat: b.MaxLat, MaxLon: b.MaxLon}
}

// Empty reports whether the box covers no area.
func (b BoundsConfig) Empty() bool {
	return b.MaxLat <= b.MinLat || b.MaxLon <= b.MinLon
}

// SimConfig holds the run parameters.
type SimConfig struct {
	Ticks           int     `json:"ticks"`
	TimestepSeconds float64 `json:"timestepSeconds"`
	// Resolution indexes entities; SearchResolution drives the coarse
	// expanding-ring search.
	Resolution       int          `json:"resolution"`
	SearchResolution int          `json:"searchResolution"`
	MaxSearchRing    int          `json:"maxSearchRing"`
	LowSOCFloor      float64      `json:"lowSocFloor"`
	TargetSOC        float64      `json:"targetSoc"`
	SpeedKMH         float64      `json:"speedKmh"`
	WhPerKM          float64      `json:"whPerKm"`
	Geofence         BoundsConfig `json:"geofence"`
	OperatingArea    BoundsConfig `json:"operatingArea"`
	ClusterNodeID    string       `json:"clusterNodeId"`
	Seed             int64        `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *SimConfig) SetDefaults() {
	if c.Ticks == 0 {
		c.Ticks = 1440
	}
	if c.TimestepSeconds == 0 {
		c.TimestepSeconds = 60
	}
	if c.Resolution == 0 {
		c.Resolution = 11
	}
	if c.SearchResolution == 0 {
		c.SearchResolution = 7
	}
	if c.MaxSearchRing == 0 {
		c.MaxSearchRing = 10
	}
	if c.LowSOCFloor == 0 {
		c.LowSOCFloor = 0.2
	}
	if c.TargetSOC == 0 {
		c.TargetSOC = 0.95
	}
	if c.SpeedKMH == 0 {
		c.SpeedKMH = 40
	}
	if c.WhPerKM == 0 {
		c.WhPerKM = 180
	}
}

// Validate checks mandatory fields.
func (c SimConfig) Validate() error {
	if c.Ticks < 0 {
		return fmt.Errorf("sim: ticks must be non-negative")
	}
	if c.TimestepSeconds <= 0 {
		return fmt.Errorf("sim: timestepSeconds must be positive")
	}
	if c.Resolution < 1 || c.Resolution > 15 {
		return fmt.Errorf("sim: resolution must be in [1,15]")
	}
	if c.SearchResolution < 0 || c.SearchResolution > c.Resolution {
		return fmt.Errorf("sim: searchResolution must be in [0,%d]", c.Resolution)
	}
	if c.LowSOCFloor < 0 || c.LowSOCFloor >= 1 {
		return fmt.Errorf("sim: lowSocFloor must be in [0,1)")
	}
	if c.TargetSOC <= c.LowSOCFloor || c.TargetSOC > 1 {
		return fmt.Errorf("sim: targetSoc must be in (lowSocFloor,1]")
	}
	if c.Geofence.Empty() {
		return fmt.Errorf("sim: geofence is required")
	}
	return nil
}

// FleetConfig describes the vehicles generated at startup.
type FleetConfig struct {
	Count          int       `json:"count"`
	CapacityKWh    float64   `json:"capacityKwh"`
	InitialSOC     float64   `json:"initialSoc"`
	InitialSOCList []float64 `json:"initialSocList"`
	MaxChargeKW    float64   `json:"maxChargeKw"`
	Seats          int       `json:"seats"`
	AssignToBases  bool      `json:"assignToBases"`
	SpawnAtBases   bool      `json:"spawnAtBases"`
}

// SetDefaults applies sane defaults.
func (c *FleetConfig) SetDefaults() {
	if c.Count == 0 {
		c.Count = 20
	}
	if c.CapacityKWh == 0 {
		c.CapacityKWh = 50
	}
	if c.InitialSOC == 0 {
		c.InitialSOC = 1
	}
	if c.MaxChargeKW == 0 {
		c.MaxChargeKW = 50
	}
	if c.Seats == 0 {
		c.Seats = 4
	}
}

// Validate checks mandatory fields.
func (c FleetConfig) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("fleet: count must be non-negative")
	}
	if c.InitialSOC < 0 || c.InitialSOC > 1 {
		return fmt.Errorf("fleet: initialSoc must be in [0,1]")
	}
	if c.Seats < 1 {
		return fmt.Errorf("fleet: seats must be at least 1")
	}
	return nil
}

// Vehicles materializes the fleet. Placement uses the seeded source so a
// scenario reproduces the same fleet on every run. Bases are assigned
// round-robin when requested.
func (c FleetConfig) Vehicles(rng *rand.Rand, area BoundsConfig, bases []BaseConfig) []model.Vehicle {
	vehicles := make([]model.Vehicle, 0, c.Count)
	for i := 0; i < c.Count; i++ {
		soc := c.InitialSOC
		if len(c.InitialSOCList) > 0 {
			soc = c.InitialSOCList[i%len(c.InitialSOCList)]
		}
		v := model.Vehicle{
			ID:             fmt.Sprintf("veh%04d", i+1),
			CapacityKWh:    c.CapacityKWh,
			EnergyKWh:      soc * c.CapacityKWh,
			MaxChargeKW:    c.MaxChargeKW,
			Seats:          c.Seats,
			AvailableSeats: c.Seats,
		}
		if len(bases) > 0 && (c.AssignToBases || c.SpawnAtBases) {
			b := bases[i%len(bases)]
			if c.AssignToBases {
				v.BaseID = b.ID
			}
			if c.SpawnAtBases {
				v.Coordinate = model.Coordinate{Lat: b.Lat, Lon: b.Lon}
			}
		}
		if !c.SpawnAtBases {
			v.Coordinate = randomCoordinate(rng, area)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles
}

// ChargerConfig describes one group of identical plugs at a station.
type ChargerConfig struct {
	Type    string  `json:"type"`
	Count   int     `json:"count"`
	PowerKW float64 `json:"powerKw"`
}

// StationConfig describes a charging site.
type StationConfig struct {
	ID       string          `json:"id"`
	Lat      float64         `json:"lat"`
	Lon      float64         `json:"lon"`
	Chargers []ChargerConfig `json:"chargers"`
}

// Validate checks mandatory fields.
func (c StationConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("station: id is required")
	}
	for _, g := range c.Chargers {
		t := model.ChargerType(g.Type)
		if t != model.ChargerLevel2 && t != model.ChargerDCFC {
			return fmt.Errorf("station %s: unknown charger type %q", c.ID, g.Type)
		}
		if g.Count < 1 {
			return fmt.Errorf("station %s: charger count must be at least 1", c.ID)
		}
		if g.PowerKW <= 0 {
			return fmt.Errorf("station %s: charger powerKw must be positive", c.ID)
		}
	}
	return nil
}

// Station materializes the model value, expanding charger groups into
// individually addressable plugs.
func (c StationConfig) Station() model.Station {
	chargers := map[string]model.Charger{}
	for _, g := range c.Chargers {
		for i := 0; i < g.Count; i++ {
			id := fmt.Sprintf("%s-%s-%02d", c.ID, g.Type, i+1)
			chargers[id] = model.Charger{ID: id, Type: model.ChargerType(g.Type), PowerKW: g.PowerKW}
		}
	}
	return model.Station{
		ID:         c.ID,
		Coordinate: model.Coordinate{Lat: c.Lat, Lon: c.Lon},
		Chargers:   chargers,
	}
}

// BaseConfig describes a depot.
type BaseConfig struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	StationID string  `json:"stationId"`
	Stalls    int     `json:"stalls"`
}

// Validate checks mandatory fields.
func (c BaseConfig) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("base: id is required")
	}
	return nil
}

// Base materializes the model value.
func (c BaseConfig) Base() model.Base {
	return model.Base{
		ID:         c.ID,
		Coordinate: model.Coordinate{Lat: c.Lat, Lon: c.Lon},
		StationID:  c.StationID,
		Stalls:     c.Stalls,
	}
}

// RequestConfig is one explicit feed entry.
type RequestConfig struct {
	ID         string  `json:"id"`
	Tick       int64   `json:"tick"`
	OriginLat  float64 `json:"originLat"`
	OriginLon  float64 `json:"originLon"`
	DestLat    float64 `json:"destLat"`
	DestLon    float64 `json:"destLon"`
	Value      float64 `json:"value"`
	Passengers int     `json:"passengers"`
}

// RequestsConfig describes the trip feed: explicit entries, a random stream,
// or both.
type RequestsConfig struct {
	Explicit []RequestConfig `json:"explicit"`

	RandomCount    int     `json:"randomCount"`
	RandomLastTick int64   `json:"randomLastTick"`
	MinValue       float64 `json:"minValue"`
	MaxValue       float64 `json:"maxValue"`
	MaxPassengers  int     `json:"maxPassengers"`
}

// SetDefaults applies sane defaults.
func (c *RequestsConfig) SetDefaults() {
	if c.MinValue == 0 {
		c.MinValue = 5
	}
	if c.MaxValue == 0 {
		c.MaxValue = 50
	}
	if c.MaxPassengers == 0 {
		c.MaxPassengers = 2
	}
}

// Validate checks mandatory fields.
func (c RequestsConfig) Validate() error {
	if c.RandomCount < 0 {
		return fmt.Errorf("requests: randomCount must be non-negative")
	}
	if c.MaxValue < c.MinValue {
		return fmt.Errorf("requests: maxValue must be at least minValue")
	}
	for _, r := range c.Explicit {
		if r.Tick < 0 {
			return fmt.Errorf("request %s: tick must be non-negative", r.ID)
		}
		if r.Passengers < 0 {
			return fmt.Errorf("request %s: passengers must be non-negative", r.ID)
		}
	}
	return nil
}

// Feed materializes the scheduled requests: explicit entries first, then the
// seeded random stream spread over [0, randomLastTick].
func (c RequestsConfig) Feed(rng *rand.Rand, area BoundsConfig) []ScheduledRequest {
	feed := make([]ScheduledRequest, 0, len(c.Explicit)+c.RandomCount)
	for _, r := range c.Explicit {
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		passengers := r.Passengers
		if passengers == 0 {
			passengers = 1
		}
		feed = append(feed, ScheduledRequest{
			Tick: r.Tick,
			Request: model.Request{
				ID:          id,
				Origin:      model.Coordinate{Lat: r.OriginLat, Lon: r.OriginLon},
				Destination: model.Coordinate{Lat: r.DestLat, Lon: r.DestLon},
				Value:       r.Value,
				Passengers:  passengers,
			},
		})
	}
	lastTick := c.RandomLastTick
	if lastTick <= 0 {
		lastTick = 1
	}
	for i := 0; i < c.RandomCount; i++ {
		feed = append(feed, ScheduledRequest{
			Tick: rng.Int63n(lastTick),
			Request: model.Request{
				ID:          fmt.Sprintf("req-%s", uuid.NewString()[:8]),
				Origin:      randomCoordinate(rng, area),
				Destination: randomCoordinate(rng, area),
				Value:       c.MinValue + rng.Float64()*(c.MaxValue-c.MinValue),
				Passengers:  1 + rng.Intn(c.MaxPassengers),
			},
		})
	}
	return feed
}

// ScheduledRequest pairs a request with its arrival tick.
type ScheduledRequest struct {
	Tick    int64
	Request model.Request
}

func randomCoordinate(rng *rand.Rand, area BoundsConfig) model.Coordinate {
	return model.Coordinate{
		Lat: area.MinLat + rng.Float64()*(area.MaxLat-area.MinLat),
		Lon: area.MinLon + rng.Float64()*(area.MaxLon-area.MinLon),
	}
}
