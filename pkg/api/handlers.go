package api

import (
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/journeygraph/pkg/logging"
)

var validate = validator.New()

const notInitializedMsg = "API not fully initialized"

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	if !s.initialized() {
		s.respondError(w, http.StatusServiceUnavailable, notInitializedMsg)
		return
	}

	stats := s.graph.Stats()
	edgeTypes := make(map[string]int, len(stats.EdgesByType))
	for typ, n := range stats.EdgesByType {
		edgeTypes[string(typ)] = n
	}

	s.respondJSON(w, http.StatusOK, StatsResponse{
		TotalNodes:        stats.TotalNodes,
		TotalEdges:        stats.TotalEdges,
		NodeTypes:         stats.NodesByKind,
		EdgeTypes:         edgeTypes,
		NaiveRAGDocuments: s.index.Len(),
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	s.respondJSON(w, http.StatusOK, Presets)
}

// decodeQuery parses and validates a query request, writing the error
// response itself when the request is bad.
func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (QueryRequest, bool) {
	var req QueryRequest
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "use POST")
		return req, false
	}
	if !s.initialized() {
		s.respondError(w, http.StatusServiceUnavailable, notInitializedMsg)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return req, false
	}
	return req, true
}

func (s *Server) handleQueryGraphRAG(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	resp, err := s.runGraphRAG(r, req)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, "insight generation failed: "+err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQueryNaive(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	resp, err := s.runNaive(r, req)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, "insight generation failed: "+err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQueryCompare(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	graphResp, err := s.runGraphRAG(r, req)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, "insight generation failed: "+err.Error())
		return
	}
	naiveResp, err := s.runNaive(r, req)
	if err != nil {
		s.respondError(w, http.StatusBadGateway, "insight generation failed: "+err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, ComparisonResponse{
		Query:    req.Query,
		GraphRAG: graphResp,
		NaiveRAG: naiveResp,
	})
}

// runGraphRAG retrieves graph context for the routed intent and generates
// an insight over it.
func (s *Server) runGraphRAG(r *http.Request, req QueryRequest) (QueryResponse, error) {
	start := time.Now()

	retrievalStart := time.Now()
	context, intent := GraphContext(s.graph, req.Query, req.Category)
	s.metrics.RetrievalQueriesTotal.WithLabelValues(intent).Inc()
	s.metrics.RetrievalQueryDuration.WithLabelValues(intent).Observe(time.Since(retrievalStart).Seconds())

	s.log.Debug("graph retrieval",
		logging.Intent(intent),
		logging.Category(req.Category))

	response, err := s.generate(r, req.Query, context)
	if err != nil {
		return QueryResponse{}, err
	}

	return QueryResponse{
		Query:     req.Query,
		Method:    "graphrag",
		Context:   context,
		Response:  response,
		LatencyMS: roundMS(time.Since(start)),
	}, nil
}

// naiveTopK matches the document count the comparison was tuned for.
const naiveTopK = 10

func (s *Server) runNaive(r *http.Request, req QueryRequest) (QueryResponse, error) {
	start := time.Now()

	context := s.index.RetrieveContext(req.Query, naiveTopK)
	s.metrics.NaiveSearchesTotal.Inc()

	response, err := s.generate(r, req.Query, context)
	if err != nil {
		return QueryResponse{}, err
	}

	return QueryResponse{
		Query:     req.Query,
		Method:    "naive",
		Context:   context,
		Response:  response,
		LatencyMS: roundMS(time.Since(start)),
	}, nil
}

func (s *Server) generate(r *http.Request, query, context string) (string, error) {
	if !s.insight.Enabled() {
		s.metrics.InsightGenerationsTotal.WithLabelValues("disabled").Inc()
		return context, nil
	}

	response, err := s.insight.Generate(r.Context(), query, context)
	if err != nil {
		s.metrics.InsightGenerationsTotal.WithLabelValues("error").Inc()
		s.log.Error("insight generation", logging.Error(err))
		return "", err
	}
	s.metrics.InsightGenerationsTotal.WithLabelValues("ok").Inc()
	return response, nil
}

func roundMS(d time.Duration) float64 {
	ms := float64(d.Nanoseconds()) / 1e6
	return math.Round(ms*100) / 100
}
