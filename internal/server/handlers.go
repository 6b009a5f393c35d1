package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"fxagent/internal/agent"
)

// QueryRequest is the body of POST /query and POST /query-sync.
// Message is required; a missing or null value is rejected with 422.
type QueryRequest struct {
	Message *string `json:"message"`
}

// ErrorResponse is returned for requests rejected before reaching the agent
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// APIInfo is the body of GET /
type APIInfo struct {
	Message     string            `json:"message"`
	Description string            `json:"description"`
	Provider    string            `json:"provider"`
	Endpoints   map[string]string `json:"endpoints"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIInfo{
		Message:     "Currency Exchange Agent API",
		Description: "LLM-powered currency exchange agent",
		Provider:    s.agent.Provider(),
		Endpoints: map[string]string{
			"POST /query":      "Send currency exchange queries",
			"POST /query-sync": "Send currency exchange queries, answered synchronously",
			"GET /healthcheck": "Health check endpoint",
			"GET /metrics":     "Prometheus metrics",
		},
	})
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	msg, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	select {
	case result := <-s.agent.ProcessQuery(r.Context(), msg):
		writeResult(w, result)
	case <-r.Context().Done():
		// client went away; the reasoning loop sees the same cancellation
		if log := agent.GetLoggerFromContext(r.Context()); log != nil {
			log.Warn("client disconnected before the agent answered: %v", context.Cause(r.Context()))
		}
	}
}

func (s *Server) handleQuerySync(w http.ResponseWriter, r *http.Request) {
	msg, ok := decodeQuery(w, r)
	if !ok {
		return
	}

	writeResult(w, s.agent.ProcessQuerySync(r.Context(), msg))
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: "invalid request body: " + err.Error()})
		return "", false
	}

	if req.Message == nil {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: "invalid request body: field 'message' is required"})
		return "", false
	}

	if strings.TrimSpace(*req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "Message cannot be empty"})
		return "", false
	}

	return *req.Message, true
}

func writeResult(w http.ResponseWriter, result *agent.QueryResult) {
	if result == nil {
		msg := "Internal server error: no result"
		writeJSON(w, http.StatusInternalServerError, &agent.QueryResult{Error: &msg})
		return
	}

	if !result.Success {
		cause := ""
		if result.Error != nil {
			cause = *result.Error
		}
		msg := "Agent processing failed: " + cause
		writeJSON(w, http.StatusInternalServerError, &agent.QueryResult{Success: false, Error: &msg})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
