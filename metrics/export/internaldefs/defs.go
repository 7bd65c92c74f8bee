package internaldefs

import (
	sessionauth "github.com/MrEthical07/sessionauth"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   sessionauth.MetricID
	Name string
	Help string
}

// HistogramDef names one exported histogram.
type HistogramDef struct {
	ID   sessionauth.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter for audit events lost to backpressure.
const AuditDroppedName = "sessionauth_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// AuditDeliveredName is the counter for audit events handed to the sink.
const AuditDeliveredName = "sessionauth_audit_delivered_total"

// AuditDeliveredHelp describes AuditDeliveredName.
const AuditDeliveredHelp = "Audit events delivered to the configured sink."

// CounterDefs lists every exported counter in render order.
var CounterDefs = []CounterDef{
	{ID: sessionauth.MetricLoginSuccess, Name: "sessionauth_login_success_total", Help: "Successful logins."},
	{ID: sessionauth.MetricLoginFailure, Name: "sessionauth_login_failure_total", Help: "Failed logins, including inactive accounts."},
	{ID: sessionauth.MetricLoginRateLimited, Name: "sessionauth_login_rate_limited_total", Help: "Logins rejected by the failed-login throttle."},
	{ID: sessionauth.MetricLoginDegraded, Name: "sessionauth_login_degraded_total", Help: "Logins issued without a stored session record."},
	{ID: sessionauth.MetricSessionCreated, Name: "sessionauth_session_created_total", Help: "Session records stored at login."},
	{ID: sessionauth.MetricSessionRefreshed, Name: "sessionauth_session_refreshed_total", Help: "Explicit session refreshes."},
	{ID: sessionauth.MetricSessionInvalidated, Name: "sessionauth_session_invalidated_total", Help: "Session records deleted by logout, revocation or deactivation."},
	{ID: sessionauth.MetricLogout, Name: "sessionauth_logout_total", Help: "Single-session logout operations."},
	{ID: sessionauth.MetricLogoutAll, Name: "sessionauth_logout_all_total", Help: "Revoke-all operations."},
	{ID: sessionauth.MetricValidateSuccess, Name: "sessionauth_validate_success_total", Help: "Tokens accepted by the gate."},
	{ID: sessionauth.MetricValidateUnauthenticated, Name: "sessionauth_validate_unauthenticated_total", Help: "Gate rejections for missing, invalid or expired tokens."},
	{ID: sessionauth.MetricValidateSessionExpired, Name: "sessionauth_validate_session_expired_total", Help: "Gate rejections for valid tokens without a live session."},
	{ID: sessionauth.MetricValidateForbidden, Name: "sessionauth_validate_forbidden_total", Help: "Gate rejections for inactive principals."},
	{ID: sessionauth.MetricStoreUnavailable, Name: "sessionauth_store_unavailable_total", Help: "Operations degraded by a session registry outage."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: sessionauth.MetricValidateLatency, Name: "sessionauth_validate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds are the Prometheus le labels of the 8 buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is the instrument-name form of HistogramBounds.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-padding short input.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
