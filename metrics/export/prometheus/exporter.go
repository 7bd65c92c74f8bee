package prometheus

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	sessionauth "github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/metrics/export/internaldefs"
)

type metricsSource interface {
	MetricsSnapshot() sessionauth.MetricsSnapshot
	AuditDropped() uint64
}

// statsSource is optionally implemented by sources that can count live
// sessions. *sessionauth.Engine implements it.
type statsSource interface {
	SessionStats(ctx context.Context) (sessionauth.SessionStats, error)
}

// deliveredSource is optionally implemented by sources that count audit
// events reaching the sink.
type deliveredSource interface {
	AuditDelivered() uint64
}

const (
	liveSessionsName  = "sessionauth_sessions_live"
	liveSessionsHelp  = "Live sessions by role at scrape time."
	defaultStatsLimit = time.Second
)

// PrometheusExporter renders engine metrics in Prometheus text exposition
// format.
type PrometheusExporter struct {
	source     metricsSource
	stats      statsSource
	delivered  deliveredSource
	statsLimit time.Duration
}

// NewPrometheusExporter reads counters and live session counts from engine.
func NewPrometheusExporter(engine *sessionauth.Engine) *PrometheusExporter {
	return NewPrometheusExporterFromSource(engine)
}

// NewPrometheusExporterFromSource reads from a custom source. When source
// also reports SessionStats, a live-session gauge is rendered. When it
// reports AuditDelivered, a delivered counter is rendered beside the
// dropped one.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	p := &PrometheusExporter{source: source, statsLimit: defaultStatsLimit}
	if s, ok := source.(statsSource); ok {
		p.stats = s
	}
	if d, ok := source.(deliveredSource); ok {
		p.delivered = d
	}
	return p
}

// Handler serves the exposition. The live-session scan is bounded by the
// request context and a one second limit.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.RenderContext(r.Context())))
	})
}

// Render is RenderContext with a background context.
func (p *PrometheusExporter) Render() string {
	return p.RenderContext(context.Background())
}

// RenderContext writes the current metrics in Prometheus text format. A
// disabled metrics source with no drops and no stats renders nothing.
func (p *PrometheusExporter) RenderContext(ctx context.Context) string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	var delivered uint64
	if p.delivered != nil {
		delivered = p.delivered.AuditDelivered()
	}
	byRole, haveStats := p.liveSessions(ctx)
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && dropped == 0 && delivered == 0 && !haveStats {
		return ""
	}

	var b strings.Builder
	b.Grow(4096)

	if len(snapshot.Counters) > 0 || len(snapshot.Histograms) > 0 {
		for _, def := range internaldefs.CounterDefs {
			writeCounter(&b, def.Name, def.Help, snapshot.Counters[def.ID])
		}
		for _, def := range internaldefs.HistogramDefs {
			nonCumulative := internaldefs.NormalizeBuckets(snapshot.Histograms[def.ID])
			cumulative := internaldefs.CumulativeBuckets(nonCumulative)
			writeHistogram(&b, def.Name, def.Help, cumulative)
		}
	}

	writeCounter(&b, internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, dropped)
	if p.delivered != nil {
		writeCounter(&b, internaldefs.AuditDeliveredName, internaldefs.AuditDeliveredHelp, delivered)
	}

	if haveStats {
		writeRoleGauge(&b, liveSessionsName, liveSessionsHelp, byRole)
	}

	return b.String()
}

func (p *PrometheusExporter) liveSessions(ctx context.Context) (map[string]int, bool) {
	if p.stats == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, p.statsLimit)
	defer cancel()

	stats, err := p.stats.SessionStats(ctx)
	if err != nil {
		return nil, false
	}
	return stats.ByRole, true
}

func writeHeader(b *strings.Builder, name, help, kind string) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(kind)
	b.WriteByte('\n')
}

func writeCounter(b *strings.Builder, name, help string, value uint64) {
	writeHeader(b, name, help, "counter")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

// writeRoleGauge always emits every known role so series do not vanish
// when a role has no sessions.
func writeRoleGauge(b *strings.Builder, name, help string, byRole map[string]int) {
	writeHeader(b, name, help, "gauge")

	roles := []string{"user", "admin", "super_admin"}
	for role := range byRole {
		if role != "user" && role != "admin" && role != "super_admin" {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles[3:])

	for _, role := range roles {
		b.WriteString(name)
		b.WriteString("{role=\"")
		b.WriteString(escapeLabel(role))
		b.WriteString("\"} ")
		b.WriteString(strconv.Itoa(byRole[role]))
		b.WriteByte('\n')
	}
}

func writeHistogram(b *strings.Builder, name, help string, cumulative [8]uint64) {
	writeHeader(b, name, help, "histogram")

	for i, le := range internaldefs.HistogramBounds {
		b.WriteString(name)
		b.WriteString("_bucket{le=\"")
		b.WriteString(le)
		b.WriteString("\"} ")
		b.WriteString(strconv.FormatUint(cumulative[i], 10))
		b.WriteByte('\n')
	}

	count := cumulative[len(cumulative)-1]
	b.WriteString(name)
	b.WriteString("_count ")
	b.WriteString(strconv.FormatUint(count, 10))
	b.WriteByte('\n')

	// Snapshots carry bucket counts only.
	b.WriteString(name)
	b.WriteString("_sum 0\n")
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, "\\", "\\\\")
	help = strings.ReplaceAll(help, "\n", "\\n")
	return help
}

func escapeLabel(v string) string {
	v = strings.ReplaceAll(v, "\\", "\\\\")
	v = strings.ReplaceAll(v, "\"", "\\\"")
	v = strings.ReplaceAll(v, "\n", "\\n")
	return v
}
