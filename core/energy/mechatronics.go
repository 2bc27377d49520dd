// Package energy models the vehicle energy physics: consumption while
// moving and charge acceptance while plugged in.
package energy

import (
	"math"

	"github.com/voltride/fleetsim/core/model"
)

// Mechatronics is the energy collaborator of the state machine.
type Mechatronics interface {
	// SOC returns the vehicle fuel-source state of charge in [0,1].
	SOC(v model.Vehicle) float64
	// IsFull reports whether the vehicle cannot absorb more energy.
	IsFull(v model.Vehicle) bool
	// EnergyForDistance returns the energy in kWh needed to cover km.
	EnergyForDistance(v model.Vehicle, km float64) float64
	// AddEnergy charges the vehicle for up to seconds and returns the
	// updated vehicle along with the seconds actually spent charging.
	AddEnergy(v model.Vehicle, charger model.Charger, seconds float64) (model.Vehicle, float64)
}

// Linear is a simple mechatronics model: constant consumption per km and a
// charge curve whose power halves above the taper knee.
type Linear struct {
	WhPerKM  float64
	TaperSOC float64 // SOC above which charge power tapers
}

// NewLinear returns a Linear model with the default 80% taper knee.
func NewLinear(whPerKM float64) Linear {
	return Linear{WhPerKM: whPerKM, TaperSOC: 0.8}
}

func (m Linear) SOC(v model.Vehicle) float64 { return v.SOC() }

func (m Linear) IsFull(v model.Vehicle) bool { return v.EnergyKWh >= v.CapacityKWh }

func (m Linear) EnergyForDistance(v model.Vehicle, km float64) float64 {
	return km * m.WhPerKM / 1000
}

func (m Linear) AddEnergy(v model.Vehicle, charger model.Charger, seconds float64) (model.Vehicle, float64) {
	if seconds <= 0 || m.IsFull(v) {
		return v, 0
	}
	power := math.Min(charger.PowerKW, v.MaxChargeKW)
	if power <= 0 {
		return v, 0
	}
	taper := m.TaperSOC
	if taper <= 0 {
		taper = 0.8
	}
	if v.SOC() >= taper {
		power /= 2
	}
	gained := power * seconds / 3600
	used := seconds
	if headroom := v.CapacityKWh - v.EnergyKWh; gained > headroom {
		used = seconds * headroom / gained
		gained = headroom
	}
	v.EnergyKWh += gained
	return v, used
}
