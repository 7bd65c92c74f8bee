// Package prometheus renders sessionauth metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [sessionauth.Engine] and exposes an
// [http.Handler]. Counter names are prefixed sessionauth_ and suffixed
// _total; the single histogram is sessionauth_validate_latency_seconds.
// When the source can report session statistics, a
// sessionauth_sessions_live gauge labeled by role is computed at scrape
// time. Nothing is registered globally; callers mount the handler.
package prometheus
