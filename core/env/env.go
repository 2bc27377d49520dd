// Package env carries the read-only run parameters handed to every
// state-machine and dispatcher call.
package env

import (
	"github.com/voltride/fleetsim/core/energy"
	"github.com/voltride/fleetsim/core/events"
)

// Env is the simulation environment. The core reads it and never mutates it.
type Env struct {
	Mechatronics energy.Mechatronics
	Reporter     events.Reporter

	// LowSOCFloor excludes vehicles at or below this SOC from dispatch.
	LowSOCFloor float64
	// TargetSOC stops a charging session once reached.
	TargetSOC float64
	// SearchResolution is the coarse cell resolution for ring search.
	SearchResolution int
	// MaxSearchRing bounds the expanding-ring search.
	MaxSearchRing int
	// TimestepSeconds is the duration of one tick.
	TimestepSeconds float64
}

// Report files a record on the configured reporter, if any.
func (e *Env) Report(rec events.Record) {
	if e.Reporter != nil {
		e.Reporter.File(rec)
	}
}
