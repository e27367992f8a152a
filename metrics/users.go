package metrics

import (
	"log"

	"github.com/VictoriaMetrics/metrics"
)

// RecordLogin records a login, distinguishing first-time registrations
func RecordLogin(newUser bool) {
	if !IsEnabled() {
		return
	}

	userType := "returning"
	if newUser {
		userType = "new"
	}

	metricName := `campusbarter_logins_total{user_type="` + userType + `"}`
	counter := metrics.GetOrCreateCounter(metricName)
	counter.Inc()
	log.Printf("[METRICS] Login: user_type=%s", userType)
}

// RecordAuthFailure records a rejected credential
func RecordAuthFailure() {
	if !IsEnabled() {
		return
	}

	counter := metrics.GetOrCreateCounter(`campusbarter_auth_failures_total`)
	counter.Inc()
	log.Printf("[METRICS] Auth failure")
}
