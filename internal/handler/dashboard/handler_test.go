package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/agentscaffold/dashboard/internal/model/message"
	"github.com/agentscaffold/dashboard/internal/service/alert"
	"github.com/agentscaffold/dashboard/internal/service/hub"
	"github.com/agentscaffold/dashboard/internal/service/query"
	"github.com/agentscaffold/dashboard/internal/service/store"
)

func setupRouter() (*chi.Mux, *store.Store) {
	st := store.New(store.DefaultCap)
	tracker := alert.NewTracker(st, zerolog.Nop())
	h := hub.New(zerolog.Nop())
	querySvc := query.NewService(st, tracker, h)
	handler := New(querySvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	r.Get("/health", handler.HandleHealth)
	return r, st
}

func get(r *chi.Mux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

type envelope struct {
	Status  string          `json:"status"`
	Service string          `json:"service"`
	Results json.RawMessage `json:"results"`
	Total   int             `json:"total"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestRecentMessagesEndpoint(t *testing.T) {
	r, st := setupRouter()
	st.Insert(message.Message{
		Title:        "note",
		Kind:         message.KindInformational,
		Value:        "v",
		Presentation: message.PresentText,
		SourceAgent:  "info-agent",
	})

	resp := get(r, "/messages/recent")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if env := decodeEnvelope(t, resp); env.Total != 1 || env.Status != "success" {
		t.Fatalf("unexpected envelope: %s", resp.Body.String())
	}
}

func TestRecentMessagesBadLimit(t *testing.T) {
	r, _ := setupRouter()

	if resp := get(r, "/messages/recent?limit=zero"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if resp := get(r, "/messages/recent?limit=-3"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestMessagesByKindEndpoint(t *testing.T) {
	r, st := setupRouter()
	st.Insert(message.Message{
		Title:        "rps",
		Kind:         message.KindThroughput,
		Value:        120,
		Presentation: message.PresentChart,
		SourceAgent:  "perf-agent",
		Throughput:   &message.ThroughputDetails{MetricName: "rps", Unit: "req/s"},
	})

	resp := get(r, "/messages/throughput")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if env := decodeEnvelope(t, resp); env.Total != 1 {
		t.Fatalf("unexpected envelope: %s", resp.Body.String())
	}

	if resp := get(r, "/messages/telepathy"); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", resp.Code)
	}
}

func TestActiveAlertsEndpoint(t *testing.T) {
	r, st := setupRouter()

	future := time.Now().UTC().Add(time.Hour)
	past := time.Now().UTC().Add(-time.Hour)
	st.Insert(message.Message{
		Title: "live", Kind: message.KindAlert, Value: "v",
		Presentation: message.PresentBadge, SourceAgent: "alerting-agent",
		Alert: &message.AlertDetails{Severity: message.SeverityWarning, Category: "infra", ExpiresAt: &future},
	})
	st.Insert(message.Message{
		Title: "stale", Kind: message.KindAlert, Value: "v",
		Presentation: message.PresentBadge, SourceAgent: "alerting-agent",
		Alert: &message.AlertDetails{Severity: message.SeverityWarning, Category: "infra", ExpiresAt: &past},
	})

	resp := get(r, "/messages/alerts")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if env := decodeEnvelope(t, resp); env.Total != 1 {
		t.Fatalf("expected 1 active alert, got envelope %s", resp.Body.String())
	}
}

func TestComplianceSummaryEndpoint(t *testing.T) {
	r, st := setupRouter()
	st.Insert(message.Message{
		Title: "rmf check", Kind: message.KindCompliance, Value: "v",
		Presentation: message.PresentTable, SourceAgent: "compliance-agent",
		Compliance: &message.ComplianceDetails{Domain: message.DomainRMF, Status: message.StatusWarning},
	})

	resp := get(r, "/compliance/summary")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	env := decodeEnvelope(t, resp)
	var summary struct {
		OverallStatus string `json:"overallStatus"`
	}
	if err := json.Unmarshal(env.Results, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.OverallStatus != "needs_attention" {
		t.Fatalf("expected needs_attention, got %s", summary.OverallStatus)
	}
}

func TestAgentStatusEndpoint(t *testing.T) {
	r, st := setupRouter()
	st.Insert(message.Message{
		Title: "note", Kind: message.KindInformational, Value: "v",
		Presentation: message.PresentText, SourceAgent: "info-agent",
	})

	resp := get(r, "/agent-status")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if env := decodeEnvelope(t, resp); env.Total != 1 {
		t.Fatalf("expected 1 agent, got envelope %s", resp.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := setupRouter()

	resp := get(r, "/health")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if body.Status != "healthy" || body.Service == "" {
		t.Fatalf("unexpected health body: %s", resp.Body.String())
	}
}
