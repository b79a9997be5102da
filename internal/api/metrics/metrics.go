// Package metrics defines the custom Prometheus metrics for the songs API.
// It is the single source of truth for metric names, labels, and help
// strings. HTTP-level metrics come from the echoprometheus middleware; the
// counters here track domain events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "songsapi"

// UsersCreatedTotal counts successful signups, by role.
var UsersCreatedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid_credentials", "inactive"
var LoginsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SongsCreatedTotal counts songs added to the catalog.
var SongsCreatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "songs_created_total",
		Help:      "Total number of songs created.",
	},
)

// ExportsTotal counts report/export generations.
// Label:
//   - kind: "users_pdf", "indicators", "songs_by_author"
var ExportsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of generated reports and exports, by kind.",
	},
	[]string{"kind"},
)

// Register adds every domain collector to reg. The router calls this with
// the same registry the /metrics endpoint gathers from; counters that are
// not registered here increment invisibly and never appear in a scrape.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		UsersCreatedTotal,
		LoginsTotal,
		SongsCreatedTotal,
		ExportsTotal,
	)
}
