// Package metrics exposes prometheus counters for maze sessions.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	levelsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maze_levels_started_total",
		Help: "Level sessions started, by level.",
	}, []string{"level"})

	levelsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maze_levels_finished_total",
		Help: "Level sessions finished, by level and outcome.",
	}, []string{"level", "status"})

	completionSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maze_level_completion_seconds",
		Help:    "Play time of won levels.",
		Buckets: []float64{15, 30, 60, 120, 180, 300, 600},
	}, []string{"level"})

	mutationCells = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "maze_mutation_changed_cells",
		Help:    "Cells changed by a single mutation pass.",
		Buckets: prometheus.LinearBuckets(0, 2, 6),
	})

	mutationReverts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maze_mutation_reverted_total",
		Help: "Closing flips undone because they cut the exit off.",
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "maze_active_sessions",
		Help: "Sessions currently owned by the session manager.",
	})

	progressResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maze_progress_resets_total",
		Help: "Stored progress documents that were unreadable and reset.",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maze_http_requests_total",
		Help: "HTTP requests, by route and status code.",
	}, []string{"method", "route", "code"})
)

func LevelStarted(level int) {
	levelsStarted.WithLabelValues(strconv.Itoa(level)).Inc()
}

// LevelFinished records an outcome; seconds is only observed for wins.
func LevelFinished(level int, status string, seconds float64) {
	l := strconv.Itoa(level)
	levelsFinished.WithLabelValues(l, status).Inc()
	if status == "win" {
		completionSeconds.WithLabelValues(l).Observe(seconds)
	}
}

func Mutation(changed, reverted int) {
	mutationCells.Observe(float64(changed))
	mutationReverts.Add(float64(reverted))
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

func ProgressReset() {
	progressResets.Inc()
}

// Middleware counts requests by their registered route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
