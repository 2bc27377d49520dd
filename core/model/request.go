package model

// Request is a trip request presented by the external feed. It lives in the
// world from the moment it arrives until its passengers board a vehicle.
type Request struct {
	ID              string
	Origin          Coordinate
	Destination     Coordinate
	Value           float64 // priority/fare; higher values are matched first
	Passengers      int
	AssignedVehicle string // set once, by the dispatch instruction
	CreatedTick     int64
}

// Assigned reports whether a vehicle has claimed this request.
func (r Request) Assigned() bool { return r.AssignedVehicle != "" }

// WithOrigin returns a copy of the request with a replaced origin.
func (r Request) WithOrigin(c Coordinate) Request {
	r.Origin = c
	return r
}

// WithAssignedVehicle returns a copy of the request claimed by the vehicle.
// An empty id releases the claim.
func (r Request) WithAssignedVehicle(vehicleID string) Request {
	r.AssignedVehicle = vehicleID
	return r
}
