package model

import "sort"

// Station is a charging site holding a collection of chargers keyed by id.
// Stations are immutable values: checkout and return produce updated copies.
type Station struct {
	ID         string
	Coordinate Coordinate
	Chargers   map[string]Charger
}

// CheckoutCharger marks a free charger of the requested type as in use and
// returns the updated station together with the charger. ok is false when no
// charger of that type is free; the station is returned unchanged and must
// not be overbooked. Chargers are scanned in ascending id order so checkout
// is deterministic.
func (s Station) CheckoutCharger(t ChargerType) (Station, Charger, bool) {
	ids := make([]string, 0, len(s.Chargers))
	for id := range s.Chargers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := s.Chargers[id]
		if c.Type != t || c.InUse {
			continue
		}
		c.InUse = true
		updated := cloneChargers(s.Chargers)
		updated[id] = c
		s.Chargers = updated
		return s, c, true
	}
	return s, Charger{}, false
}

// ReturnCharger releases a checked-out charger. Returning an unknown or
// already-free charger is a no-op.
func (s Station) ReturnCharger(chargerID string) Station {
	c, ok := s.Chargers[chargerID]
	if !ok || !c.InUse {
		return s
	}
	c.InUse = false
	updated := cloneChargers(s.Chargers)
	updated[chargerID] = c
	s.Chargers = updated
	return s
}

// FreeChargers counts the chargers of the given type not currently in use.
func (s Station) FreeChargers(t ChargerType) int {
	n := 0
	for _, c := range s.Chargers {
		if c.Type == t && !c.InUse {
			n++
		}
	}
	return n
}

func cloneChargers(m map[string]Charger) map[string]Charger {
	out := make(map[string]Charger, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
