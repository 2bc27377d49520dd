package roadnet

import (
	"fmt"
	"math"

	"github.com/voltride/fleetsim/core/model"
)

const earthRadiusKM = 6371.0

// Bounds is an axis-aligned latitude/longitude box.
type Bounds struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Contains reports whether the coordinate lies inside the box.
func (b Bounds) Contains(c model.Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// Empty reports whether the box covers no area.
func (b Bounds) Empty() bool {
	return b.MaxLat <= b.MinLat || b.MaxLon <= b.MinLon
}

// Haversine routes along the great circle at a constant speed, splitting the
// distance into one step per tick. Update applies a peak-hour congestion
// factor to the effective speed.
type Haversine struct {
	Geofence        Bounds
	OperatingArea   Bounds
	SpeedKMH        float64
	TimestepSeconds float64

	congestion float64
}

// NewHaversine builds a free-flow network. The operating area defaults to
// the geofence when left empty.
func NewHaversine(geofence, operatingArea Bounds, speedKMH, timestepSeconds float64) Haversine {
	if operatingArea.Empty() {
		operatingArea = geofence
	}
	return Haversine{
		Geofence:        geofence,
		OperatingArea:   operatingArea,
		SpeedKMH:        speedKMH,
		TimestepSeconds: timestepSeconds,
		congestion:      1,
	}
}

func (n Haversine) CoordinateWithinGeofence(c model.Coordinate) bool {
	return n.Geofence.Contains(c)
}

func (n Haversine) CoordinateWithinOperatingArea(c model.Coordinate) bool {
	return n.OperatingArea.Contains(c)
}

// Update recomputes the congestion factor from the hour of day. Morning and
// evening peaks slow travel by 25%.
func (n Haversine) Update(simTime int64) Network {
	hour := (simTime / 3600) % 24
	n.congestion = 1
	if (hour >= 7 && hour < 9) || (hour >= 16 && hour < 18) {
		n.congestion = 1.25
	}
	return n
}

// Route interpolates steps along the great circle between origin and
// destination. Each step covers one tick of travel at the current effective
// speed; the final step lands exactly on the destination.
func (n Haversine) Route(origin, destination model.Coordinate, activity model.Activity) (model.Route, error) {
	if !n.OperatingArea.Contains(origin) || !n.OperatingArea.Contains(destination) {
		return nil, fmt.Errorf("roadnet: route endpoints outside operating area")
	}
	total := HaversineKM(origin, destination)
	if total == 0 {
		return model.Route{}, nil
	}
	congestion := n.congestion
	if congestion <= 0 {
		congestion = 1
	}
	stepKM := n.SpeedKMH / congestion * n.TimestepSeconds / 3600
	if stepKM <= 0 {
		return nil, fmt.Errorf("roadnet: non-positive step distance (speed %v km/h, timestep %v s)", n.SpeedKMH, n.TimestepSeconds)
	}
	steps := int(math.Ceil(total / stepKM))
	route := make(model.Route, 0, steps)
	prev := 0.0
	for i := 1; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		pos := model.Coordinate{
			Lat: origin.Lat + (destination.Lat-origin.Lat)*frac,
			Lon: origin.Lon + (destination.Lon-origin.Lon)*frac,
		}
		covered := total * frac
		route = append(route, model.Step{
			Coordinate: pos,
			DistanceKM: covered - prev,
			Activity:   activity,
		})
		prev = covered
	}
	return route, nil
}

// HaversineKM returns the great-circle distance between two coordinates.
func HaversineKM(a, b model.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
