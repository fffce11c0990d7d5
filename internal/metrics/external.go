package metrics

import "time"

// RecordExternalAPIRequest records one call to an external API
func (m *Metrics) RecordExternalAPIRequest(api, operation string, duration time.Duration, err error) {
	m.safeExecute("RecordExternalAPIRequest", func() {
		m.ExternalAPIRequestsTotal.WithLabelValues(api, operation).Inc()
		m.ExternalAPIRequestDuration.WithLabelValues(api, operation).Observe(duration.Seconds())
		if err != nil {
			m.ExternalAPIErrors.WithLabelValues(api, operation).Inc()
		}
	})
}
