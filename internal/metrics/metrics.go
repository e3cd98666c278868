package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	postMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kraft_post_mutations_total",
		Help: "Number of post create/update/delete attempts grouped by op and status.",
	}, []string{"op", "status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kraft_login_attempts_total",
		Help: "Number of login attempts grouped by method and status.",
	}, []string{"method", "status"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kraft_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncPostMutation increments the post mutation counter.
func IncPostMutation(op, status string) {
	postMutations.WithLabelValues(op, status).Inc()
}

// IncLogin increments the login counter.
func IncLogin(method, status string) {
	loginAttempts.WithLabelValues(method, status).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}
