package model

// ChargerType distinguishes charging hardware classes.
type ChargerType string

const (
	ChargerLevel2 ChargerType = "LEVEL_2"
	ChargerDCFC   ChargerType = "DCFC"
)

// Charger is a single plug at a station. A charger is exclusive-use: the
// InUse flag changes only through Station.CheckoutCharger and
// Station.ReturnCharger.
type Charger struct {
	ID      string
	Type    ChargerType
	PowerKW float64
	InUse   bool
}
