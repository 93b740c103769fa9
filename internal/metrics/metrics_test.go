package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveCountsOutcomes(t *testing.T) {
	m := NewResolver()
	m.Observe(OutcomeMatched, time.Millisecond)
	m.Observe(OutcomeMatched, time.Millisecond)
	m.Observe(OutcomeFallback, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.queries.WithLabelValues(OutcomeMatched)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues(OutcomeFallback)))
}

func TestHandlerExposesCorpusGauge(t *testing.T) {
	m := NewResolver()
	m.SetCorpusSize(7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "wave_faq_corpus_entries 7"))
}

func TestNilResolverIsNoop(t *testing.T) {
	var m *Resolver
	m.Observe(OutcomeError, time.Second)
	m.SetCorpusSize(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
