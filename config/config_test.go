package config

import (
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
sim:
  ticks: 120
  timestepSeconds: 60
  speedKmh: 35
  seed: 42
  geofence:
    minLat: 37.2
    minLon: -122.8
    maxLat: 38.2
    maxLon: -121.8
fleet:
  count: 5
  capacityKwh: 60
  initialSoc: 0.9
stations:
  - id: st1
    lat: 37.78
    lon: -122.41
    chargers:
      - type: DCFC
        count: 2
        powerKw: 150
      - type: LEVEL_2
        count: 4
        powerKw: 7.2
bases:
  - id: b1
    lat: 37.76
    lon: -122.42
    stalls: 10
requests:
  randomCount: 20
  randomLastTick: 100
logging:
  level: debug
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeTemp(t, sampleYAML))
	require.NoError(t, err)

	require.Equal(t, 120, cfg.Sim.Ticks)
	require.Equal(t, 35.0, cfg.Sim.SpeedKMH)
	require.Equal(t, int64(42), cfg.Sim.Seed)
	require.Equal(t, 5, cfg.Fleet.Count)
	require.Equal(t, 60.0, cfg.Fleet.CapacityKWh)
	require.Len(t, cfg.Stations, 1)
	require.Len(t, cfg.Bases, 1)
	require.Equal(t, 20, cfg.Requests.RandomCount)
	require.Equal(t, "debug", cfg.Logging.Level)

	// defaults fill the omitted fields
	require.Equal(t, 11, cfg.Sim.Resolution)
	require.Equal(t, 7, cfg.Sim.SearchResolution)
	require.Equal(t, 0.2, cfg.Sim.LowSOCFloor)
	require.Equal(t, 0.95, cfg.Sim.TargetSOC)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte("x = 1"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadCharger(t *testing.T) {
	bad := `
sim:
  geofence: {minLat: 37.2, minLon: -122.8, maxLat: 38.2, maxLon: -121.8}
stations:
  - id: st1
    lat: 37.78
    lon: -122.41
    chargers:
      - type: TESLA_V4
        count: 1
        powerKw: 250
`
	_, err := Load(writeTemp(t, bad))
	require.Error(t, err)
}

func TestLoadRejectsMissingGeofence(t *testing.T) {
	_, err := Load(writeTemp(t, "sim:\n  ticks: 10\n"))
	require.Error(t, err)
}

func TestStationExpandsChargerGroups(t *testing.T) {
	sc := StationConfig{
		ID: "st1", Lat: 37.78, Lon: -122.41,
		Chargers: []ChargerConfig{
			{Type: "DCFC", Count: 2, PowerKW: 150},
			{Type: "LEVEL_2", Count: 3, PowerKW: 7.2},
		},
	}
	st := sc.Station()
	require.Len(t, st.Chargers, 5)
	c, ok := st.Chargers["st1-DCFC-01"]
	require.True(t, ok)
	require.Equal(t, 150.0, c.PowerKW)
	require.False(t, c.InUse)
}

func TestFleetGenerationIsSeeded(t *testing.T) {
	fc := FleetConfig{Count: 10, CapacityKWh: 50, InitialSOC: 0.8, MaxChargeKW: 50, Seats: 4}
	area := BoundsConfig{MinLat: 37.2, MinLon: -122.8, MaxLat: 38.2, MaxLon: -121.8}

	one := fc.Vehicles(rand.New(rand.NewSource(7)), area, nil)
	two := fc.Vehicles(rand.New(rand.NewSource(7)), area, nil)
	require.True(t, reflect.DeepEqual(one, two), "same seed must produce the same fleet")

	require.Equal(t, "veh0001", one[0].ID)
	require.Equal(t, 40.0, one[0].EnergyKWh)
	require.Equal(t, 4, one[0].AvailableSeats)
	for _, v := range one {
		require.GreaterOrEqual(t, v.Coordinate.Lat, area.MinLat)
		require.LessOrEqual(t, v.Coordinate.Lat, area.MaxLat)
	}
}

func TestFleetBaseAssignmentRoundRobin(t *testing.T) {
	fc := FleetConfig{Count: 4, CapacityKWh: 50, InitialSOC: 1, MaxChargeKW: 50, Seats: 4, AssignToBases: true, SpawnAtBases: true}
	bases := []BaseConfig{
		{ID: "b1", Lat: 37.76, Lon: -122.42},
		{ID: "b2", Lat: 37.74, Lon: -122.44},
	}
	vehicles := fc.Vehicles(rand.New(rand.NewSource(1)), BoundsConfig{}, bases)
	require.Equal(t, "b1", vehicles[0].BaseID)
	require.Equal(t, "b2", vehicles[1].BaseID)
	require.Equal(t, "b1", vehicles[2].BaseID)
	require.Equal(t, 37.76, vehicles[0].Coordinate.Lat)
}

func TestRequestFeedGeneration(t *testing.T) {
	rc := RequestsConfig{
		Explicit: []RequestConfig{
			{ID: "r1", Tick: 5, OriginLat: 37.77, OriginLon: -122.41, DestLat: 37.79, DestLon: -122.40, Value: 12, Passengers: 2},
		},
		RandomCount: 10, RandomLastTick: 50, MinValue: 5, MaxValue: 50, MaxPassengers: 2,
	}
	area := BoundsConfig{MinLat: 37.2, MinLon: -122.8, MaxLat: 38.2, MaxLon: -121.8}
	feed := rc.Feed(rand.New(rand.NewSource(3)), area)
	require.Len(t, feed, 11)
	require.Equal(t, "r1", feed[0].Request.ID)
	require.Equal(t, int64(5), feed[0].Tick)
	for _, sr := range feed[1:] {
		require.GreaterOrEqual(t, sr.Request.Value, 5.0)
		require.LessOrEqual(t, sr.Request.Value, 50.0)
		require.Less(t, sr.Tick, int64(50))
		require.NotEmpty(t, sr.Request.ID)
	}
}
