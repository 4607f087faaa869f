package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FocuswithJustin/Typographe/internal/validation"
)

func init() {
	Init(Config{Port: 8099})
}

func TestHandleRoot(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handleRoot(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !apiResp.Success {
		t.Error("expected success to be true")
	}

	data, ok := apiResp.Data.(map[string]interface{})
	if !ok {
		t.Fatal("expected data to be a map")
	}

	if data["name"] != "Typographe API" {
		t.Errorf("expected name 'Typographe API', got %v", data["name"])
	}

	if data["version"] != apiVersion {
		t.Errorf("expected version %q, got %v", apiVersion, data["version"])
	}
}

func TestHandleRootNotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	w := httptest.NewRecorder()

	handleRoot(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if apiResp.Success {
		t.Error("expected success to be false")
	}

	if apiResp.Error == nil || apiResp.Error.Code != "NOT_FOUND" {
		t.Error("expected NOT_FOUND error")
	}
}

func TestHandleHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	handleHealthz(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	data, ok := apiResp.Data.(map[string]interface{})
	if !ok {
		t.Fatal("expected data to be a map")
	}

	if data["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", data["status"])
	}

	if words, _ := data["lexicon_words"].(float64); words <= 0 {
		t.Errorf("expected embedded lexicon words, got %v", data["lexicon_words"])
	}
}

func TestHandleHealthzMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	handleHealthz(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", resp.StatusCode)
	}
}

// postCheck runs one request through handleCheck and decodes the data
// payload as a generic map.
func postCheck(t *testing.T, body string) (*http.Response, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handleCheck(w, req)

	resp := w.Result()
	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	data, _ := apiResp.Data.(map[string]interface{})
	return resp, data
}

func TestHandleCheckMarkdown(t *testing.T) {
	resp, data := postCheck(t, `{"content":"Bonjour: monde!"}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	want := "Bonjour : monde !"
	if data["fixed"] != want {
		t.Errorf("fixed = %q, want %q", data["fixed"], want)
	}
	if data["changed"] != true {
		t.Error("expected changed to be true")
	}

	// The markdown flow lists what the fix pass rewrites, one entry per
	// correction.
	diags, _ := data["diagnostics"].([]interface{})
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	summary, _ := data["summary"].(map[string]interface{})
	if count, _ := summary["spacing"].(float64); count != 2 {
		t.Errorf("summary[spacing] = %v, want 2", summary["spacing"])
	}
}

func TestHandleCheckHTML(t *testing.T) {
	resp, data := postCheck(t, `{"content":"<p>Il dit \"oui\".</p>","format":"html"}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	fixed, _ := data["fixed"].(string)
	if !strings.Contains(fixed, "« oui »") {
		t.Errorf("fixed = %q, want French quotes", fixed)
	}
	if data["changed"] != true {
		t.Error("expected changed to be true")
	}
}

func TestHandleCheckCasingWarn(t *testing.T) {
	resp, data := postCheck(t, `{"content":"Nous partirons Lundi matin."}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	if data["changed"] != false {
		t.Error("expected changed to be false")
	}

	diags, _ := data["diagnostics"].([]interface{})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	diag, _ := diags[0].(map[string]interface{})
	if diag["rule"] != "casing" {
		t.Errorf("diagnostic rule = %v, want casing", diag["rule"])
	}

	summary, _ := data["summary"].(map[string]interface{})
	if count, _ := summary["casing"].(float64); count != 1 {
		t.Errorf("summary[casing] = %v, want 1", summary["casing"])
	}
}

func TestHandleCheckRulesOverride(t *testing.T) {
	resp, data := postCheck(t, `{"content":"Bonjour: monde.","rules":{"spacing":"warn"}}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	if data["changed"] != false {
		t.Error("expected changed to be false under warn severity")
	}

	diags, _ := data["diagnostics"].([]interface{})
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	diag, _ := diags[0].(map[string]interface{})
	if diag["rule"] != "spacing" {
		t.Errorf("diagnostic rule = %v, want spacing", diag["rule"])
	}
}

func TestHandleCheckInvalidFormat(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/check", strings.NewReader(`{"content":"x","format":"latex"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handleCheck(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if apiResp.Error == nil || apiResp.Error.Code != "INVALID_FORMAT" {
		t.Error("expected INVALID_FORMAT error")
	}
}

func TestHandleCheckInvalidRules(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/check", strings.NewReader(`{"content":"x","rules":{"spacing":"loud"}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handleCheck(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if apiResp.Error == nil || apiResp.Error.Code != "INVALID_RULES" {
		t.Error("expected INVALID_RULES error")
	}
}

func TestHandleCheckInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/check", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handleCheck(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if apiResp.Error == nil || apiResp.Error.Code != "INVALID_JSON" {
		t.Error("expected INVALID_JSON error")
	}
}

func TestHandleCheckMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/check", nil)
	w := httptest.NewRecorder()

	handleCheck(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", resp.StatusCode)
	}
}

func TestHandleCheckBodyTooLarge(t *testing.T) {
	body := `{"content":"` + strings.Repeat("a", validation.MaxRequestBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handleCheck(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if apiResp.Error == nil || apiResp.Error.Code != "INVALID_JSON" {
		t.Error("expected INVALID_JSON error")
	}
}

func TestSetupRoutes(t *testing.T) {
	mux := setupRoutes()
	if mux == nil {
		t.Fatal("setupRoutes returned nil")
	}

	routes := []struct {
		path   string
		method string
	}{
		{"/", http.MethodGet},
		{"/healthz", http.MethodGet},
		{"/v1/check", http.MethodPost},
		{"/v1/jobs", http.MethodPost},
	}

	for _, route := range routes {
		t.Run(route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			// Registered routes answer something other than 404
			if w.Code == http.StatusNotFound {
				t.Errorf("route %s not registered", route.path)
			}
		})
	}
}
