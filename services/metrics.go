// services/metrics.go
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	completionEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "progression_completion_events_total",
			Help: "Total number of completion events processed",
		},
		[]string{"status"},
	)
	badgesAwardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progression_badges_awarded_total",
			Help: "Total number of badges awarded",
		},
	)
	achievementsCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progression_achievements_completed_total",
			Help: "Total number of achievements completed",
		},
	)
	loginDenialsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "progression_login_denials_total",
			Help: "Total number of login attempts denied by the rate limiter",
		},
	)
)

// InitMetrics registers the progression metrics. Call this from main.go
func InitMetrics() {
	prometheus.MustRegister(completionEventsTotal)
	prometheus.MustRegister(badgesAwardedTotal)
	prometheus.MustRegister(achievementsCompletedTotal)
	prometheus.MustRegister(loginDenialsTotal)
}
