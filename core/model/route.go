package model

// Activity labels what a vehicle is doing while traversing a route step.
type Activity string

const (
	ActivityDispatchTrip    Activity = "dispatch_trip"
	ActivityServicingTrip   Activity = "servicing_trip"
	ActivityDispatchStation Activity = "dispatch_station"
	ActivityRepositioning   Activity = "repositioning"
)

// Step is one discrete leg of a route: where the vehicle ends up after the
// leg, how far it traveled to get there and what it was doing.
type Step struct {
	Coordinate Coordinate
	DistanceKM float64
	Activity   Activity
}

// Route is a finite sequence of steps consumed one per simulation tick.
type Route []Step

// TotalDistanceKM sums the step distances of the route.
func (r Route) TotalDistanceKM() float64 {
	var total float64
	for _, s := range r {
		total += s.DistanceKM
	}
	return total
}
