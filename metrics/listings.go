package metrics

import (
	"log"

	"github.com/VictoriaMetrics/metrics"
)

// RecordListing records item listing creation per category
func RecordListing(category string) {
	if !IsEnabled() {
		return
	}

	metricName := `campusbarter_listings_total{category="` + category + `"}`
	counter := metrics.GetOrCreateCounter(metricName)
	counter.Inc()
	log.Printf("[METRICS] Listing: category=%s", category)
}

// RecordSearch records an item search with whether filters were used
func RecordSearch(hasKeyword, hasCategory bool) {
	if !IsEnabled() {
		return
	}

	keyword := "no"
	if hasKeyword {
		keyword = "yes"
	}
	category := "no"
	if hasCategory {
		category = "yes"
	}

	metricName := `campusbarter_searches_total{keyword="` + keyword + `",category="` + category + `"}`
	counter := metrics.GetOrCreateCounter(metricName)
	counter.Inc()
	log.Printf("[METRICS] Search: keyword=%s, category=%s", keyword, category)
}
