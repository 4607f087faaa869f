package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/FocuswithJustin/Typographe/internal/config"
	"github.com/FocuswithJustin/Typographe/internal/document"
	"github.com/FocuswithJustin/Typographe/internal/validation"
)

// apiVersion is reported by the root and health endpoints.
const apiVersion = "0.1.0"

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// CheckRequest is the request body for synchronous checks.
type CheckRequest struct {
	Content string            `json:"content"`
	Format  string            `json:"format,omitempty"` // "markdown" (default) or "html"
	Rules   map[string]string `json:"rules,omitempty"`
}

// CheckResult carries diagnostics and the corrected content.
type CheckResult struct {
	Diagnostics []document.Diagnostic `json:"diagnostics"`
	Fixed       string                `json:"fixed"`
	Changed     bool                  `json:"changed"`
	Summary     map[string]int        `json:"summary"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Words   int    `json:"lexicon_words"`
	Jobs    int    `json:"jobs"`
}

var startTime = time.Now()

func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"name":    "Typographe API",
		"version": apiVersion,
		"endpoints": []string{
			"GET /healthz",
			"POST /v1/check",
			"POST /v1/jobs",
			"GET /v1/jobs/:id",
			"DELETE /v1/jobs/:id",
			"WS /v1/ws",
		},
	})
}

// handleHealthz handles GET /healthz.
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	words := 0
	if serverLexicon != nil {
		words = serverLexicon.WordCount()
	}
	respond(w, http.StatusOK, HealthInfo{
		Status:  "healthy",
		Version: apiVersion,
		Uptime:  time.Since(startTime).String(),
		Words:   words,
		Jobs:    len(globalJobStore.List()),
	})
}

// handleCheck handles POST /v1/check - synchronous content check.
func handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxRequestBytes)
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	var res *document.Result
	var err error
	proc, perr := requestProcessor(req.Rules)
	if perr != nil {
		respondError(w, http.StatusBadRequest, "INVALID_RULES", perr.Error())
		return
	}

	switch req.Format {
	case "", "markdown":
		res, err = proc.ProcessMarkdown("", req.Content)
	case "html":
		res, err = proc.ProcessHTML("", req.Content)
	default:
		respondError(w, http.StatusBadRequest, "INVALID_FORMAT", "format must be markdown or html")
		return
	}
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "CHECK_FAILED", err.Error())
		return
	}

	summary := make(map[string]int)
	for _, d := range res.Diagnostics {
		summary[d.Rule]++
	}
	respond(w, http.StatusOK, CheckResult{
		Diagnostics: res.Diagnostics,
		Fixed:       res.Output,
		Changed:     res.Changed,
		Summary:     summary,
	})
}

// requestProcessor returns the processor serving one request: the
// default one, or a per-request build layering the request's rule
// overrides on top of the server's levels.
func requestProcessor(overrides map[string]string) (*document.Processor, error) {
	if len(overrides) == 0 {
		return defaultProcessor, nil
	}
	extra, err := config.SeverityMap(overrides)
	if err != nil {
		return nil, err
	}
	levels := defaultProcessor.Levels()
	levels.Apply(extra)
	return document.NewProcessor(document.Options{
		Lexicon:      serverLexicon,
		Levels:       levels,
		Translations: ServerConfig.Translations,
	}), nil
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
