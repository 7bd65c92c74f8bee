package sessionauth

import (
	internalmetrics "github.com/MrEthical07/sessionauth/internal/metrics"
)

// MetricID identifies an engine counter.
type MetricID = internalmetrics.MetricID

const (
	MetricLoginSuccess            = internalmetrics.MetricLoginSuccess
	MetricLoginFailure            = internalmetrics.MetricLoginFailure
	MetricLoginRateLimited        = internalmetrics.MetricLoginRateLimited
	MetricLoginDegraded           = internalmetrics.MetricLoginDegraded
	MetricSessionCreated          = internalmetrics.MetricSessionCreated
	MetricSessionRefreshed        = internalmetrics.MetricSessionRefreshed
	MetricSessionInvalidated      = internalmetrics.MetricSessionInvalidated
	MetricLogout                  = internalmetrics.MetricLogout
	MetricLogoutAll               = internalmetrics.MetricLogoutAll
	MetricValidateSuccess         = internalmetrics.MetricValidateSuccess
	MetricValidateUnauthenticated = internalmetrics.MetricValidateUnauthenticated
	MetricValidateSessionExpired  = internalmetrics.MetricValidateSessionExpired
	MetricValidateForbidden       = internalmetrics.MetricValidateForbidden
	MetricStoreUnavailable        = internalmetrics.MetricStoreUnavailable
	MetricValidateLatency         = internalmetrics.MetricValidateLatency
)

// Metrics is the engine's lock-free counter set.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of every counter and histogram.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics builds a counter set; a disabled config yields no-op counters.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:                 cfg.Enabled,
		EnableLatencyHistograms: cfg.EnableLatencyHistograms,
	})
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}
