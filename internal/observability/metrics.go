package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "fantasy_draft"

// DraftMetrics counts draft outcomes on its own registry.
type DraftMetrics struct {
	registry *prometheus.Registry

	selectionsSaved     *prometheus.CounterVec
	selectionsRejected  *prometheus.CounterVec
	rosterReplacements  *prometheus.CounterVec
	rosterPlayers       prometheus.Histogram
	budgetRecalculation *prometheus.CounterVec
	syncUnits           *prometheus.CounterVec
}

func NewDraftMetrics() *DraftMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &DraftMetrics{
		registry: registry,
		selectionsSaved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "selections_saved_total",
			Help:      "Committed selection replacements.",
		}, []string{"tournament_id"}),
		selectionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "selections_rejected_total",
			Help:      "Selection saves rejected before commit, by reason.",
		}, []string{"reason"}),
		rosterReplacements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "roster_replacements_total",
			Help:      "Committed roster replacements.",
		}, []string{"tournament_id"}),
		rosterPlayers: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "roster_players",
			Help:      "Players per replaced roster.",
			Buckets:   prometheus.ExponentialBuckets(4, 2, 8),
		}),
		budgetRecalculation: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "budget_recalculations_total",
			Help:      "Budget recomputations, split by whether the stored budget changed.",
		}, []string{"changed"}),
		syncUnits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sync_units_total",
			Help:      "Collector units processed, by kind and status.",
		}, []string{"kind", "status"}),
	}
}

func (m *DraftMetrics) SelectionSaved(tournamentID int64) {
	m.selectionsSaved.WithLabelValues(strconv.FormatInt(tournamentID, 10)).Inc()
}

func (m *DraftMetrics) SelectionRejected(reason string) {
	m.selectionsRejected.WithLabelValues(reason).Inc()
}

func (m *DraftMetrics) RosterReplaced(tournamentID int64, players int) {
	m.rosterReplacements.WithLabelValues(strconv.FormatInt(tournamentID, 10)).Inc()
	m.rosterPlayers.Observe(float64(players))
}

func (m *DraftMetrics) BudgetRecalculated(changed bool) {
	m.budgetRecalculation.WithLabelValues(strconv.FormatBool(changed)).Inc()
}

func (m *DraftMetrics) SyncUnit(kind, status string) {
	m.syncUnits.WithLabelValues(kind, status).Inc()
}

// Handler serves the registry in the prometheus text format.
func (m *DraftMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
