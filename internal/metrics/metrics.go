package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/kuu-app/kuu-backend/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Identity flow

	RegistrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kuu",
		Name:      "registrations_total",
		Help:      "Users created through invite redemption.",
	})

	ChallengesIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kuu",
		Name:      "challenges_issued_total",
		Help:      "Authentication challenges minted.",
	})

	VerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kuu",
		Name:      "verifications_total",
		Help:      "Challenge verification attempts, by outcome.",
	}, []string{"outcome"})

	// Trust & invites

	VouchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kuu",
		Name:      "vouches_total",
		Help:      "Manual vouches recorded.",
	})

	InvitesGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kuu",
		Name:      "invites_generated_total",
		Help:      "Invite codes generated.",
	})

	InvitesRevokedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kuu",
		Name:      "invites_revoked_total",
		Help:      "Invite codes revoked by their owner.",
	})

	// Janitor

	JanitorPrunedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kuu",
		Name:      "janitor_pruned_total",
		Help:      "Expired rows pruned by the janitor, by kind.",
	}, []string{"kind"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kuu",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kuu",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		RegistrationsTotal,
		ChallengesIssuedTotal,
		VerificationsTotal,
		VouchesTotal,
		InvitesGeneratedTotal,
		InvitesRevokedTotal,
		JanitorPrunedTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
