package model

// Base is a fleet depot where vehicles park in reserve between shifts. A base
// may be co-located with a charging station.
type Base struct {
	ID         string
	Coordinate Coordinate
	StationID  string // optional co-located station
	Stalls     int
}
