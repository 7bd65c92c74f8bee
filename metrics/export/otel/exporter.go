package otel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

const (
	liveSessionsName = "sessionauth_sessions_live"
	liveSessionsHelp = "Live sessions by role at collection time."
	statsLimit       = time.Second
)

type metricsSource interface {
	MetricsSnapshot() sessionauth.MetricsSnapshot
	AuditDropped() uint64
}

type statsSource interface {
	SessionStats(ctx context.Context) (sessionauth.SessionStats, error)
}

type deliveredSource interface {
	AuditDelivered() uint64
}

type observedCounter struct {
	id         sessionauth.MetricID
	instrument metric.Int64ObservableCounter
}

type observedHistogram struct {
	id      sessionauth.MetricID
	buckets [8]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// OTelExporter observes engine counters from a single registered callback.
type OTelExporter struct {
	source         metricsSource
	stats          statsSource
	delivered      deliveredSource
	registration   metric.Registration
	counters       []observedCounter
	histograms     []observedHistogram
	auditDropped   metric.Int64ObservableCounter
	auditDelivered metric.Int64ObservableCounter
	liveSessions   metric.Int64ObservableGauge
}

func NewOTelExporter(meter metric.Meter, engine *sessionauth.Engine) (*OTelExporter, error) {
	return NewOTelExporterFromSource(meter, engine)
}

// NewOTelExporterFromSource registers instruments on meter. A source that
// also reports SessionStats gets a live-session gauge with a role
// attribute, and one reporting AuditDelivered gets a delivered counter.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{
		source:     source,
		counters:   make([]observedCounter, 0, len(internaldefs.CounterDefs)),
		histograms: make([]observedHistogram, 0, len(internaldefs.HistogramDefs)),
	}
	if s, ok := source.(statsSource); ok {
		exporter.stats = s
	}
	if d, ok := source.(deliveredSource); ok {
		exporter.delivered = d
	}

	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+len(internaldefs.HistogramDefs)*9+3)

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	for _, def := range internaldefs.HistogramDefs {
		h := observedHistogram{id: def.ID}
		for i := 0; i < len(internaldefs.HistogramBoundSuffix); i++ {
			name := def.Name + "_bucket_le_" + internaldefs.HistogramBoundSuffix[i]
			ins, err := meter.Int64ObservableGauge(name, metric.WithDescription("Cumulative histogram bucket count."))
			if err != nil {
				return nil, fmt.Errorf("create histogram bucket gauge %s: %w", name, err)
			}
			h.buckets[i] = ins
			observables = append(observables, ins)
		}
		countName := def.Name + "_count"
		countIns, err := meter.Int64ObservableGauge(countName, metric.WithDescription("Histogram total sample count."))
		if err != nil {
			return nil, fmt.Errorf("create histogram count gauge %s: %w", countName, err)
		}
		h.count = countIns
		observables = append(observables, countIns)
		exporter.histograms = append(exporter.histograms, h)
	}

	auditDropped, err := meter.Int64ObservableCounter(
		internaldefs.AuditDroppedName,
		metric.WithDescription(internaldefs.AuditDroppedHelp),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	exporter.auditDropped = auditDropped
	observables = append(observables, auditDropped)

	if exporter.delivered != nil {
		auditDelivered, err := meter.Int64ObservableCounter(
			internaldefs.AuditDeliveredName,
			metric.WithDescription(internaldefs.AuditDeliveredHelp),
		)
		if err != nil {
			return nil, fmt.Errorf("create audit delivered counter: %w", err)
		}
		exporter.auditDelivered = auditDelivered
		observables = append(observables, auditDelivered)
	}

	if exporter.stats != nil {
		live, err := meter.Int64ObservableGauge(liveSessionsName, metric.WithDescription(liveSessionsHelp))
		if err != nil {
			return nil, fmt.Errorf("create live sessions gauge: %w", err)
		}
		exporter.liveSessions = live
		observables = append(observables, live)
	}

	registration, err := meter.RegisterCallback(exporter.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

func (e *OTelExporter) observe(ctx context.Context, observer metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()
	for _, c := range e.counters {
		observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
	}
	for _, h := range e.histograms {
		nonCumulative := internaldefs.NormalizeBuckets(snapshot.Histograms[h.id])
		cumulative := internaldefs.CumulativeBuckets(nonCumulative)
		for i := 0; i < len(cumulative); i++ {
			observer.ObserveInt64(h.buckets[i], int64(cumulative[i]))
		}
		observer.ObserveInt64(h.count, int64(cumulative[len(cumulative)-1]))
	}
	observer.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	if e.delivered != nil {
		observer.ObserveInt64(e.auditDelivered, int64(e.delivered.AuditDelivered()))
	}

	if e.stats == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, statsLimit)
	defer cancel()

	// A failed scan skips the gauge for this cycle.
	stats, err := e.stats.SessionStats(ctx)
	if err != nil {
		return nil
	}
	roles := make([]string, 0, len(stats.ByRole))
	for role := range stats.ByRole {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	for _, role := range roles {
		observer.ObserveInt64(e.liveSessions, int64(stats.ByRole[role]),
			metric.WithAttributes(attribute.String("role", role)))
	}
	return nil
}

func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
