package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ingestion metrics
	FeaturesIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_los_features_ingested_total",
		Help: "Total number of trip features ingested into sessions",
	})

	FeaturesRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_los_features_rejected_total",
		Help: "Total number of features rejected as malformed, by field",
	}, []string{"field"})

	RoutesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_los_routes_created_total",
		Help: "Total number of route groups created",
	})

	// Classification metrics
	ReclassificationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_los_reclassifications_total",
		Help: "Total number of time window changes applied to sessions",
	})

	TripsByLevel = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_los_trip_classifications_total",
		Help: "Trip classifications by resulting LOS level",
	}, []string{"level"})

	// Display state metrics
	TogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_los_toggles_total",
		Help: "Visibility operations applied, by operation",
	}, []string{"op"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "transit_los_sessions_active",
		Help: "Current number of open sessions",
	})
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
