package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/fantasy-draft/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ usecase.DraftMetrics = (*DraftMetrics)(nil)

func TestDraftMetrics_Counts(t *testing.T) {
	m := NewDraftMetrics()

	m.SelectionSaved(1)
	m.SelectionSaved(1)
	m.SelectionRejected("budgetExceeded")
	m.RosterReplaced(1, 12)
	m.BudgetRecalculated(true)
	m.BudgetRecalculated(false)
	m.SyncUnit("game", "inserted")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.selectionsSaved.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.selectionsRejected.WithLabelValues("budgetExceeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rosterReplacements.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.budgetRecalculation.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.syncUnits.WithLabelValues("game", "inserted")))
}

func TestDraftMetrics_Handler(t *testing.T) {
	m := NewDraftMetrics()
	m.SelectionRejected("wrongCount")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `fantasy_draft_selections_rejected_total{reason="wrongCount"} 1`))
}
