package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/event"
)

var (
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total number of failed database operations",
		},
		[]string{"operation", "collection"},
	)

	MongoConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mongo_pool_connections",
			Help: "MongoDB pool connections by state",
		},
		[]string{"state"}, // open, checked_out
	)
)

// TrackDBOperation starts a timer; callers defer ObserveDuration.
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

func TrackDBError(operation, collection string) {
	DBErrorsTotal.WithLabelValues(operation, collection).Inc()
}

// NewPoolMonitor keeps the connection gauges in step with the driver's pool
// events.
func NewPoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			switch evt.Type {
			case event.ConnectionCreated:
				MongoConnections.WithLabelValues("open").Inc()
			case event.ConnectionClosed:
				MongoConnections.WithLabelValues("open").Dec()
			case event.GetSucceeded:
				MongoConnections.WithLabelValues("checked_out").Inc()
			case event.ConnectionReturned:
				MongoConnections.WithLabelValues("checked_out").Dec()
			}
		},
	}
}
