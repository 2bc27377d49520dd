package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/voltride/fleetsim/core/events"
	"github.com/voltride/fleetsim/infra/logger"
)

// InfluxSink writes simulation records to an InfluxDB instance using the
// official client. It implements events.Reporter.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopReporter if the health check fails, so a missing database never blocks
// a run.
func NewInfluxSinkWithFallback(url, token, org, bucket string) events.Reporter {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return events.NopReporter{}
	}
	return sink
}

// File writes one record as line protocol. Write errors are logged and
// dropped; the simulation never blocks on the sink.
func (s *InfluxSink) File(rec events.Record) {
	p := s.point(rec)
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		s.log.Errorf("influx write %s: %v", rec.EventKind(), err)
	}
}

func (s *InfluxSink) point(rec events.Record) *write.Point {
	now := time.Now()
	switch r := rec.(type) {
	case events.InstructionIssued:
		p := write.NewPointWithMeasurement("instruction_issued").
			AddTag("vehicle_id", r.VehicleID).
			AddTag("instruction", r.Instruction).
			AddField("tick", r.Tick).
			SetTime(now)
		if r.RequestID != "" {
			p = p.AddTag("request_id", r.RequestID)
		}
		if r.StationID != "" {
			p = p.AddTag("station_id", r.StationID)
		}
		return p
	case events.InstructionFailed:
		return write.NewPointWithMeasurement("instruction_failed").
			AddTag("vehicle_id", r.VehicleID).
			AddTag("instruction", r.Instruction).
			AddField("tick", r.Tick).
			AddField("reason", r.Reason).
			SetTime(now)
	case events.StateTransition:
		return write.NewPointWithMeasurement("state_transition").
			AddTag("vehicle_id", r.VehicleID).
			AddTag("from", r.From).
			AddTag("to", r.To).
			AddField("tick", r.Tick).
			SetTime(now)
	case events.VehicleMoved:
		return write.NewPointWithMeasurement("vehicle_moved").
			AddTag("vehicle_id", r.VehicleID).
			AddTag("activity", r.Activity).
			AddField("tick", r.Tick).
			AddField("distance_km", round3(r.DistanceKM)).
			AddField("soc", round3(r.SOC)).
			SetTime(now)
	case events.ChargeSession:
		return write.NewPointWithMeasurement("charge_session").
			AddTag("vehicle_id", r.VehicleID).
			AddTag("station_id", r.StationID).
			AddTag("charger_id", r.ChargerID).
			AddField("tick", r.Tick).
			AddField("energy_kwh", round3(r.EnergyKWh)).
			AddField("soc", round3(r.SOC)).
			SetTime(now)
	case events.TickSummary:
		return write.NewPointWithMeasurement("tick_summary").
			AddField("tick", r.Tick).
			AddField("instructions", r.Instructions).
			AddField("failures", r.Failures).
			AddField("unmatched", r.Unmatched).
			AddField("mean_soc", round3(r.MeanSOC)).
			SetTime(now)
	}
	return nil
}

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
