package sim

import (
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/state"
)

// Summary aggregates fleet KPIs at the end of a run.
type Summary struct {
	Ticks              int64
	Vehicles           int
	MeanSOC            float64
	StdDevSOC          float64
	MinSOC             float64
	MaxSOC             float64
	TotalDistanceKM    float64
	Stranded           int
	OpenRequests       int
	FailedInstructions int
}

func (r *Runner) summarize(w state.World) Summary {
	s := Summary{
		Ticks:              w.Tick,
		Vehicles:           len(w.Vehicles),
		OpenRequests:       len(w.Requests),
		FailedInstructions: r.failedInstructions,
	}
	if len(w.Vehicles) == 0 {
		return s
	}
	socs := make([]float64, 0, len(w.Vehicles))
	ids := lo.Keys(w.Vehicles)
	sort.Strings(ids)
	for _, id := range ids {
		v := w.Vehicles[id]
		socs = append(socs, v.SOC())
		s.TotalDistanceKM += v.DistanceKM
		if v.StateKind() == model.StateOutOfService {
			s.Stranded++
		}
	}
	s.MeanSOC, s.StdDevSOC = stat.MeanStdDev(socs, nil)
	s.MinSOC, s.MaxSOC = socs[0], socs[0]
	for _, soc := range socs {
		if soc < s.MinSOC {
			s.MinSOC = soc
		}
		if soc > s.MaxSOC {
			s.MaxSOC = soc
		}
	}
	return s
}

func meanSOC(w state.World) float64 {
	if len(w.Vehicles) == 0 {
		return 0
	}
	var total float64
	for _, v := range w.Vehicles {
		total += v.SOC()
	}
	return total / float64(len(w.Vehicles))
}
