package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reclass"
	"github.com/agentstation/reclass/internal/server/response"
	"github.com/agentstation/reclass/pkg/reconcile"
)

const (
	masterCSV = "ID,space_alias_name,space_category,space_type,department_occupied\n" +
		"1,Room 101,Admin,Office,Finance\n" +
		"2,Room 102,Support,Storage,Facilities\n"
	optionsCSV = "SPACE NAME,SPACE TYPE,SPACE CATEGORY\n" +
		"A,Office,Admin\n" +
		"A,Lab,Admin\n" +
		"B,Office,Ops\n"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *response.Error `json:"error"`
}

type testServer struct {
	*httptest.Server
	srv    *Server
	ledger string
}

func newTestServer(t *testing.T, mutate func(*Config)) *testServer {
	t.Helper()
	dir := t.TempDir()
	master := filepath.Join(dir, "master.csv")
	options := filepath.Join(dir, "options.csv")
	ledgerPath := filepath.Join(dir, "responses.csv")
	require.NoError(t, os.WriteFile(master, []byte(masterCSV), 0o644))
	require.NoError(t, os.WriteFile(options, []byte(optionsCSV), 0o644))

	client, err := reclass.New(
		reclass.WithMasterPath(master),
		reclass.WithHierarchyPath(options),
		reclass.WithLedgerPath(ledgerPath),
	)
	require.NoError(t, err)

	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	srv, err := New(client, cfg, nil)
	require.NoError(t, err)
	srv.Start()

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		_ = client.Close()
	})
	return &testServer{Server: ts, srv: srv, ledger: ledgerPath}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func (ts *testServer) newSession(t *testing.T) string {
	t.Helper()
	status, env := ts.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(nil, DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestHealthAndReady(t *testing.T) {
	ts := newTestServer(t, nil)

	status, env := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, env.Error)

	status, env = ts.do(t, http.MethodGet, "/api/v1/ready", nil)
	require.Equal(t, http.StatusOK, status)
	var ready map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &ready))
	assert.Equal(t, float64(2), ready["records"])
	assert.Equal(t, float64(3), ready["hierarchy_options"])
}

func TestReviewFlow(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.newSession(t)
	base := "/api/v1/sessions/" + id

	status, env := ts.do(t, http.MethodGet, base+"/next", nil)
	require.Equal(t, http.StatusOK, status)
	var next struct {
		State  reconcile.State `json:"state"`
		Record struct {
			ID string `json:"id"`
		} `json:"record"`
		AliasDraft string `json:"alias_draft"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &next))
	assert.Equal(t, reconcile.StateReviewing, next.State)
	assert.Equal(t, "1", next.Record.ID)

	status, _ = ts.do(t, http.MethodPut, base+"/draft", map[string]string{"alias": "Front desk"})
	assert.Equal(t, http.StatusNoContent, status)
	_, env = ts.do(t, http.MethodGet, base+"/next", nil)
	require.NoError(t, json.Unmarshal(env.Data, &next))
	assert.Equal(t, "Front desk", next.AliasDraft)

	// A selection the hierarchy does not offer is rejected before writing.
	status, env = ts.do(t, http.MethodPost, base+"/submit", map[string]string{
		"record_id": "1", "name": "B", "type": "Lab", "category": "Ops",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "type", env.Error.Details)

	status, env = ts.do(t, http.MethodPost, base+"/submit", map[string]string{
		"record_id": "1", "name": "A", "type": "Office", "category": "Admin", "alias": " Front desk ",
	})
	require.Equal(t, http.StatusCreated, status)
	var sub reconcile.Submission
	require.NoError(t, json.Unmarshal(env.Data, &sub))
	assert.Equal(t, "Front desk", sub.Response.NewSpaceAliasName)
	require.NotNil(t, sub.Next.Record)
	assert.Equal(t, "2", sub.Next.Record.ID)

	status, env = ts.do(t, http.MethodPost, base+"/skip", map[string]string{"record_id": "2"})
	require.Equal(t, http.StatusOK, status)
	var res reconcile.Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.AllComplete())

	_, env = ts.do(t, http.MethodGet, base+"/progress", nil)
	var p reconcile.Progress
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, reconcile.Progress{Completed: 1, Skipped: 1, Total: 2, Percent: 50}, p)

	// Outside the session nothing is skipped.
	_, env = ts.do(t, http.MethodGet, "/api/v1/progress", nil)
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 0, p.Skipped)

	_, env = ts.do(t, http.MethodGet, "/api/v1/ledger", nil)
	var rows struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Equal(t, 1, rows.Count)

	status, _ = ts.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, env = ts.do(t, http.MethodGet, base+"/next", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestSubmitValidation(t *testing.T) {
	ts := newTestServer(t, nil)
	base := "/api/v1/sessions/" + ts.newSession(t)

	status, env := ts.do(t, http.MethodPost, base+"/submit", map[string]string{"name": "A"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "record_id", env.Error.Details)

	status, env = ts.do(t, http.MethodPost, base+"/submit", map[string]string{
		"record_id": "99", "name": "A", "type": "Office", "category": "Admin",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	req, err := http.NewRequest(http.MethodPost, ts.URL+base+"/skip", strings.NewReader("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitAndSkipRequireCurrentRecord(t *testing.T) {
	ts := newTestServer(t, nil)
	base := "/api/v1/sessions/" + ts.newSession(t)
	a := map[string]string{"name": "A", "type": "Office", "category": "Admin"}
	submit := func(id string) (int, envelope) {
		body := map[string]string{"record_id": id}
		for k, v := range a {
			body[k] = v
		}
		return ts.do(t, http.MethodPost, base+"/submit", body)
	}

	// Nothing has been presented yet.
	status, env := ts.do(t, http.MethodPost, base+"/skip", map[string]string{"record_id": "1"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NOT_UNDER_REVIEW", env.Error.Code)

	status, _ = ts.do(t, http.MethodGet, base+"/next", nil)
	require.Equal(t, http.StatusOK, status)

	status, env = submit("2")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NOT_UNDER_REVIEW", env.Error.Code)

	status, _ = submit("1")
	require.Equal(t, http.StatusCreated, status)

	// Record 1 is completed and no longer under review.
	status, env = submit("1")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "NOT_UNDER_REVIEW", env.Error.Code)

	status, env = ts.do(t, http.MethodPost, base+"/skip", map[string]string{"record_id": "does-not-exist"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	_, env = ts.do(t, http.MethodGet, "/api/v1/ledger", nil)
	var rows struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Equal(t, 1, rows.Count)

	_, env = ts.do(t, http.MethodGet, base+"/progress", nil)
	var p reconcile.Progress
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, reconcile.Progress{Completed: 1, Skipped: 0, Total: 2, Percent: 50}, p)
}

func TestAllCompleteCountedOnce(t *testing.T) {
	ts := newTestServer(t, nil)
	base := "/api/v1/sessions/" + ts.newSession(t)

	for _, id := range []string{"1", "2"} {
		status, _ := ts.do(t, http.MethodGet, base+"/next", nil)
		require.Equal(t, http.StatusOK, status)
		status, _ = ts.do(t, http.MethodPost, base+"/skip", map[string]string{"record_id": id})
		require.Equal(t, http.StatusOK, status)
	}
	for range 3 {
		status, _ := ts.do(t, http.MethodGet, base+"/next", nil)
		require.Equal(t, http.StatusOK, status)
	}

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "reclass_sessions_all_complete_total 1")
}

func TestHierarchyRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	status, env := ts.do(t, http.MethodGet, "/api/v1/hierarchy/options?name=A&type=Lab", nil)
	require.Equal(t, http.StatusOK, status)
	var c reconcile.Cascade
	require.NoError(t, json.Unmarshal(env.Data, &c))
	assert.Equal(t, []string{"A", "B"}, c.Names)
	assert.Equal(t, []string{"Lab", "Office"}, c.Types)
	assert.Equal(t, []string{"Admin"}, c.Categories)

	status, env = ts.do(t, http.MethodPost, "/api/v1/hierarchy", map[string]string{
		"name": "C", "type": "Storage", "category": " ",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "category", env.Error.Details)

	status, _ = ts.do(t, http.MethodPost, "/api/v1/hierarchy", map[string]string{
		"name": "C", "type": "Storage", "category": "Support",
	})
	assert.Equal(t, http.StatusCreated, status)

	_, env = ts.do(t, http.MethodGet, "/api/v1/hierarchy/options", nil)
	require.NoError(t, json.Unmarshal(env.Data, &c))
	assert.Equal(t, []string{"A", "B", "C"}, c.Names)
}

func TestRecordRoute(t *testing.T) {
	ts := newTestServer(t, nil)

	status, env := ts.do(t, http.MethodGet, "/api/v1/records/2", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"space_alias_name":"Room 102"`)

	status, _ = ts.do(t, http.MethodGet, "/api/v1/records/404", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestExportLedger(t *testing.T) {
	ts := newTestServer(t, nil)

	status, _ := ts.do(t, http.MethodGet, "/api/v1/ledger/export", nil)
	assert.Equal(t, http.StatusNotFound, status)

	base := "/api/v1/sessions/" + ts.newSession(t)
	status, _ = ts.do(t, http.MethodGet, base+"/next", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.do(t, http.MethodPost, base+"/submit", map[string]string{
		"record_id": "1", "name": "B", "type": "Office", "category": "Ops",
	})
	require.Equal(t, http.StatusCreated, status)

	resp, err := http.Get(ts.URL + "/api/v1/ledger/export")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	want, err := os.ReadFile(ts.ledger)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, want, body)
	assert.Equal(t, `attachment; filename="responses.csv"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestAuth(t *testing.T) {
	ts := newTestServer(t, func(c *Config) {
		c.AuthEnabled = true
		c.APIKey = "secret"
	})

	status, _ := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env := ts.do(t, http.MethodGet, "/api/v1/progress", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/progress", nil)
	require.NoError(t, err)
	req.Header.Set("X-API-Key", "secret")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	base := "/api/v1/sessions/" + ts.newSession(t)
	status, _ := ts.do(t, http.MethodGet, base+"/next", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.do(t, http.MethodPost, base+"/skip", map[string]string{"record_id": "1"})
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "reclass_skips_total 1")
	assert.Contains(t, string(body), "reclass_active_sessions 1")
	assert.Contains(t, string(body), `reclass_http_requests_total{method="POST",route="POST /api/v1/sessions/{id}/skip",status="200"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.MetricsEnabled = false })
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Nil(t, ts.srv.Metrics())
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/events/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	r := bufio.NewReader(resp.Body)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "event: client.connected\n", line)

	base := "/api/v1/sessions/" + ts.newSession(t)
	status, _ := ts.do(t, http.MethodGet, base+"/next", nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.do(t, http.MethodPost, base+"/skip", map[string]string{"record_id": "1"})
	require.Equal(t, http.StatusOK, status)

	for {
		line, err = r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: record.skipped") {
			break
		}
	}
	line, err = r.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "id: "))
	line, err = r.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"record_id":"1"`)
}
