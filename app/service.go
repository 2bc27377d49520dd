// Package app wires the configuration into a runnable simulation service.
package app

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/voltride/fleetsim/config"
	"github.com/voltride/fleetsim/core/energy"
	"github.com/voltride/fleetsim/core/env"
	"github.com/voltride/fleetsim/core/events"
	"github.com/voltride/fleetsim/core/fsm"
	"github.com/voltride/fleetsim/core/model"
	"github.com/voltride/fleetsim/core/roadnet"
	"github.com/voltride/fleetsim/core/sim"
	"github.com/voltride/fleetsim/core/state"
	"github.com/voltride/fleetsim/infra/logger"
	"github.com/voltride/fleetsim/infra/metrics"
	"github.com/voltride/fleetsim/infra/mqtt"
)

// Service owns a configured run: the initial world, the runner and the
// reporting sinks.
type Service struct {
	cfg    *config.Config
	world  state.World
	runner *sim.Runner
	log    logger.Logger

	closers []func()
}

// New builds a Service from the loaded configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.SetGlobalLevel(cfg.Logging.Level)
	logg := logger.New("service")

	network := roadnet.NewHaversine(
		cfg.Sim.Geofence.Bounds(),
		cfg.Sim.OperatingArea.Bounds(),
		cfg.Sim.SpeedKMH,
		cfg.Sim.TimestepSeconds,
	)

	stations := make([]model.Station, 0, len(cfg.Stations))
	for _, s := range cfg.Stations {
		stations = append(stations, s.Station())
	}
	bases := make([]model.Base, 0, len(cfg.Bases))
	for _, b := range cfg.Bases {
		bases = append(bases, b.Base())
	}

	w, err := state.New(network, cfg.Sim.Resolution, cfg.Sim.TimestepSeconds, stations, bases)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	if cfg.Sim.ClusterNodeID != "" {
		w = w.AssignClusterNode(cfg.Sim.ClusterNodeID)
	}

	svc := &Service{cfg: cfg, log: logg}
	reporter, err := svc.buildReporter()
	if err != nil {
		svc.Close()
		return nil, err
	}

	e := &env.Env{
		Mechatronics:     energy.NewLinear(cfg.Sim.WhPerKM),
		Reporter:         reporter,
		LowSOCFloor:      cfg.Sim.LowSOCFloor,
		TargetSOC:        cfg.Sim.TargetSOC,
		SearchResolution: cfg.Sim.SearchResolution,
		MaxSearchRing:    cfg.Sim.MaxSearchRing,
		TimestepSeconds:  cfg.Sim.TimestepSeconds,
	}

	rng := rand.New(rand.NewSource(cfg.Sim.Seed))
	spawnArea := cfg.Sim.OperatingArea
	if spawnArea.Empty() {
		spawnArea = cfg.Sim.Geofence
	}
	for _, v := range cfg.Fleet.Vehicles(rng, spawnArea, cfg.Bases) {
		if v.BaseID != "" {
			v.State = fsm.Reserve{BaseID: v.BaseID}
		} else {
			v.State = fsm.Idle{}
		}
		w, err = w.AddVehicle(v)
		if err != nil {
			svc.Close()
			return nil, fmt.Errorf("add vehicle %s: %w", v.ID, err)
		}
	}

	feed := make([]sim.ScheduledRequest, 0)
	for _, r := range cfg.Requests.Feed(rng, spawnArea) {
		feed = append(feed, sim.ScheduledRequest{Tick: r.Tick, Request: r.Request})
	}

	svc.world = w
	svc.runner = sim.NewRunner(e, logger.New("runner"), feed)
	return svc, nil
}

func (s *Service) buildReporter() (events.Reporter, error) {
	var sinks events.MultiReporter
	if s.cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if s.cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(
			s.cfg.Metrics.InfluxURL,
			s.cfg.Metrics.InfluxToken,
			s.cfg.Metrics.InfluxOrg,
			s.cfg.Metrics.InfluxBucket,
		)
		if closer, ok := sink.(*metrics.InfluxSink); ok {
			s.closers = append(s.closers, closer.Close)
		}
		sinks = append(sinks, sink)
	}
	if s.cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(s.cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		rep := mqtt.NewReporter(pub, s.cfg.MQTT.TopicRoot)
		s.closers = append(s.closers, rep.Close)
		sinks = append(sinks, rep)
	}
	if len(sinks) == 0 {
		return events.NopReporter{}, nil
	}
	return sinks, nil
}

// Run executes the configured number of ticks and logs the end-of-run
// summary. It returns early when the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.PrometheusEnabled {
		metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr, logger.New("prom-server"))
	}

	s.log.Infof("starting run: %d ticks, %d vehicles, %d stations",
		s.cfg.Sim.Ticks, len(s.world.Vehicles), len(s.world.Stations))

	final, summary, err := s.runner.Run(ctx, s.world, s.cfg.Sim.Ticks)
	s.world = final
	s.log.Infof("run finished: ticks=%d meanSOC=%.3f minSOC=%.3f maxSOC=%.3f distanceKM=%.1f stranded=%d openRequests=%d failedInstructions=%d",
		summary.Ticks, summary.MeanSOC, summary.MinSOC, summary.MaxSOC,
		summary.TotalDistanceKM, summary.Stranded, summary.OpenRequests, summary.FailedInstructions)
	return err
}

// World exposes the latest world value, for inspection after a run.
func (s *Service) World() state.World { return s.world }

// Close releases the reporting sinks.
func (s *Service) Close() error {
	for _, c := range s.closers {
		c()
	}
	return nil
}
