package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hpungsan/scrawl/internal/errors"
)

// Registry holds every scrawl metric. It is kept apart from
// prometheus.DefaultRegistry so tests and embedders get a clean set.
var Registry = prometheus.NewRegistry()

var (
	commandsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrawl_commands_total",
			Help: "Game commands processed, partitioned by command and outcome.",
		},
		[]string{"command", "outcome"},
	)
	notificationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrawl_notifications_total",
			Help: "Player notifications attempted, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
	connectedPlayers = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "scrawl_connected_players",
			Help: "Players currently holding a websocket connection.",
		},
	)
)

// Outcome labels a command result: "ok" or the lowercased error code.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(string(errors.As(err).Code))
}

// ObserveCommand counts one processed command.
func ObserveCommand(command string, err error) {
	commandsTotal.WithLabelValues(command, Outcome(err)).Inc()
}

// ObserveNotification counts one notification attempt.
func ObserveNotification(err error) {
	outcome := "delivered"
	if err != nil {
		outcome = "failed"
	}
	notificationsTotal.WithLabelValues(outcome).Inc()
}

// SetConnectedPlayers records the number of open player connections.
func SetConnectedPlayers(n int) {
	connectedPlayers.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
