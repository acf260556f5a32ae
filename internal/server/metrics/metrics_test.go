package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(func() float64 { return 3 })
	m.Submissions.Inc()
	m.Submissions.Inc()
	m.Skips.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Skips))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HierarchyAdds))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestInstrument(t *testing.T) {
	m := New(nil)
	h := m.Instrument("/api/v1/progress", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/progress", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/progress", http.MethodGet, "418")))
}

func TestInstrumentNil(t *testing.T) {
	var m *Metrics
	called := false
	h := m.Instrument("/x", http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.True(t, called)
}

func TestHandler(t *testing.T) {
	m := New(nil)
	m.HierarchyAdds.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "reclass_hierarchy_entries_added_total 1"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
