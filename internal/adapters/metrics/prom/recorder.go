package prom

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

const namespace = "feedsync"

// Recorder exports the layer's counters to a Prometheus registry.
type Recorder struct {
	refreshes *prometheus.CounterVec
	attempts  *prometheus.CounterVec
	pages     *prometheus.CounterVec
	items     *prometheus.CounterVec
	mutations *prometheus.CounterVec
}

var _ ports.Metrics = (*Recorder)(nil)

func NewRecorder(registerer prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Access token renewals by outcome.",
		}, []string{"outcome"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_attempts_total",
			Help:      "Authenticated request attempts, split into first attempts and replays.",
		}, []string{"replay"}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_pages_total",
			Help:      "Feed pages merged into a controller.",
		}, []string{"resource"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_items_total",
			Help:      "Items received in feed pages.",
		}, []string{"resource"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Optimistic mutations by kind and outcome.",
		}, []string{"kind", "outcome"}),
	}

	for _, collector := range []prometheus.Collector{r.refreshes, r.attempts, r.pages, r.items, r.mutations} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}

	// Zero series so a fresh process still reports every refresh outcome.
	for _, outcome := range []ports.RefreshOutcome{
		ports.RefreshOutcomeRenewed, ports.RefreshOutcomeShared, ports.RefreshOutcomeExpired,
		ports.RefreshOutcomeFailed, ports.RefreshOutcomeSkipped,
	} {
		r.refreshes.WithLabelValues(string(outcome))
	}
	r.attempts.WithLabelValues("false")
	r.attempts.WithLabelValues("true")

	return r, nil
}

func (r *Recorder) RefreshCompleted(outcome ports.RefreshOutcome) {
	r.refreshes.WithLabelValues(string(outcome)).Inc()
}

func (r *Recorder) RequestAttempt(replay bool) {
	r.attempts.WithLabelValues(strconv.FormatBool(replay)).Inc()
}

func (r *Recorder) FeedPageLoaded(resource string, items int) {
	r.pages.WithLabelValues(resource).Inc()
	r.items.WithLabelValues(resource).Add(float64(items))
}

func (r *Recorder) MutationSettled(kind domain.MutationKind, outcome ports.MutationOutcome) {
	r.mutations.WithLabelValues(string(kind), string(outcome)).Inc()
}
