package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/journeygraph/pkg/config"
	"github.com/dd0wney/journeygraph/pkg/graph"
	"github.com/dd0wney/journeygraph/pkg/health"
	"github.com/dd0wney/journeygraph/pkg/ingest"
	"github.com/dd0wney/journeygraph/pkg/llm"
	"github.com/dd0wney/journeygraph/pkg/logging"
	"github.com/dd0wney/journeygraph/pkg/metrics"
	"github.com/dd0wney/journeygraph/pkg/naiverag"
)

func testDataset() ingest.Dataset {
	at := func(sec int) time.Time {
		return time.Date(2025, 3, 1, 10, 0, sec, 0, time.UTC)
	}
	return ingest.Dataset{
		Users: []ingest.UserRecord{
			{UserID: 1, RegistrationDate: "2025-01-05", Segment: "high_value", LTV: 640, Churned: false},
			{UserID: 2, RegistrationDate: "2025-01-12", Segment: "low", LTV: 25, Churned: true},
		},
		Products: []ingest.ProductRecord{
			{ProductID: 1, Name: "Headphones", Category: "Electronics", Price: 89.99, PopularityScore: 0.7},
			{ProductID: 2, Name: "Sneakers", Category: "Fashion", Price: 59.99, PopularityScore: 0.4},
		},
		Events: []ingest.EventRecord{
			{EventID: 1, UserID: 1, SessionID: 10, Timestamp: at(0), EventType: "page_view", PageURL: "/product/1", ProductID: 1},
			{EventID: 2, UserID: 1, SessionID: 10, Timestamp: at(10), EventType: "add_to_cart", PageURL: "/product/1", ProductID: 1},
			{EventID: 3, UserID: 1, SessionID: 10, Timestamp: at(20), EventType: "purchase", PageURL: "/checkout", ProductID: 1},
			{EventID: 4, UserID: 2, SessionID: 11, Timestamp: at(30), EventType: "page_view", PageURL: "/product/2", ProductID: 2},
			{EventID: 5, UserID: 2, SessionID: 11, Timestamp: at(40), EventType: "exit", PageURL: "/product/2"},
		},
	}
}

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()

	log := logging.NewJSONLogger(io.Discard, logging.ErrorLevel)
	ds := testDataset()
	g, _, err := ingest.Build(ds, log)
	require.NoError(t, err)

	idx := naiverag.NewIndex(naiverag.DefaultDimensions)
	idx.Build(ds)

	srv, err := NewServer(cfg, g, idx, llm.Disabled{}, health.NewChecker(), metrics.NewRegistry(), log)
	require.NoError(t, err)
	return srv
}

func TestPresetsEndpoint(t *testing.T) {
	srv := newTestServer(t, config.Default())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/presets")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var presets []Preset
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&presets))
	require.Len(t, presets, 5)
	assert.Equal(t, "churned_journeys", presets[0].ID)
	assert.Equal(t, "Electronics", presets[1].Category)
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t, config.Default())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats StatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	// 2 users + 2 sessions + 5 events + 2 products
	assert.Equal(t, 11, stats.TotalNodes)
	assert.Equal(t, 2, stats.NodeTypes["User"])
	assert.Equal(t, 5, stats.NodeTypes["Event"])
	assert.Equal(t, 2, stats.EdgeTypes["STARTED"])
	assert.Equal(t, 5, stats.EdgeTypes["CONTAINS"])
	assert.Equal(t, 2, stats.NaiveRAGDocuments)
}

func postQuery(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestQueryGraphRAG(t *testing.T) {
	srv := newTestServer(t, config.Default())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postQuery(t, ts.URL+"/query/graphrag", `{"query": "why do users churn?"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var qr QueryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&qr))
	assert.Equal(t, "graphrag", qr.Method)
	assert.Equal(t, "why do users churn?", qr.Query)
	assert.Contains(t, qr.Context, "## Customer Journey Context")
	// Disabled backend echoes the context back
	assert.Equal(t, qr.Context, qr.Response)
	assert.GreaterOrEqual(t, qr.LatencyMS, 0.0)
}

func TestQueryGraphRAGWithCategory(t *testing.T) {
	srv := newTestServer(t, config.Default())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postQuery(t, ts.URL+"/query/graphrag",
		`{"query": "why do users exit?", "category": "Fashion"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var qr QueryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&qr))
	assert.Contains(t, qr.Context, "## Exit Analysis for Fashion Category")
}

func TestQueryNaive(t *testing.T) {
	srv := newTestServer(t, config.Default())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postQuery(t, ts.URL+"/query/naive", `{"query": "churned user exit"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var qr QueryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&qr))
	assert.Equal(t, "naive", qr.Method)
	assert.Contains(t, qr.Context, "## Retrieved Session Context (Vector Search)")
}

func TestQueryCompare(t *testing.T) {
	srv := newTestServer(t, config.Default())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postQuery(t, ts.URL+"/query/compare", `{"query": "why do users churn?"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cr ComparisonResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cr))
	assert.Equal(t, "graphrag", cr.GraphRAG.Method)
	assert.Equal(t, "naive", cr.NaiveRAG.Method)
	assert.NotEqual(t, cr.GraphRAG.Context, cr.NaiveRAG.Context)
}

func TestQueryValidation(t *testing.T) {
	srv := newTestServer(t, config.Default())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	t.Run("missing query field", func(t *testing.T) {
		resp := postQuery(t, ts.URL+"/query/graphrag", `{"category": "Fashion"}`)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		resp := postQuery(t, ts.URL+"/query/graphrag", `{"query": `)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/query/graphrag")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestNotInitialized(t *testing.T) {
	log := logging.NewJSONLogger(io.Discard, logging.ErrorLevel)
	srv, err := NewServer(config.Default(), graph.New(), nil, llm.Disabled{},
		health.NewChecker(), metrics.NewRegistry(), log)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postQuery(t, ts.URL+"/query/graphrag", `{"query": "anything"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	statsResp, err := http.Get(ts.URL + "/stats")
	require.NoError(t, err)
	defer statsResp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, statsResp.StatusCode)
}

func TestErrorResponseShape(t *testing.T) {
	srv := newTestServer(t, config.Default())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postQuery(t, ts.URL+"/query/graphrag", `{}`)
	defer resp.Body.Close()

	var er ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&er))
	assert.Equal(t, http.StatusBadRequest, er.Code)
	assert.Equal(t, "Bad Request", er.Error)
	assert.NotEmpty(t, er.Message)
}
