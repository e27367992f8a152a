package metrics

import (
	"log"
	"strconv"

	"github.com/VictoriaMetrics/metrics"
)

// RecordExchange records a negotiation transition (created, accepted,
// rejected, cancelled, completed)
func RecordExchange(operation string) {
	if !IsEnabled() {
		return
	}

	metricName := `campusbarter_exchanges_total{operation="` + operation + `"}`
	counter := metrics.GetOrCreateCounter(metricName)
	counter.Inc()
	log.Printf("[METRICS] Exchange: operation=%s", operation)
}

// RecordCascadeRejections records how many pending exchanges one accept
// swept away
func RecordCascadeRejections(count int) {
	if !IsEnabled() {
		return
	}

	counter := metrics.GetOrCreateCounter(`campusbarter_cascade_rejections_total`)
	counter.Add(count)
	log.Printf("[METRICS] Cascade rejections: count=%s", strconv.Itoa(count))
}

// RecordMessage records a chat message sent on an exchange thread
func RecordMessage() {
	if !IsEnabled() {
		return
	}

	counter := metrics.GetOrCreateCounter(`campusbarter_messages_total`)
	counter.Inc()
	log.Printf("[METRICS] Message sent")
}
