package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agentscaffold/dashboard/internal/model/message"
	"github.com/agentscaffold/dashboard/internal/service/query"
	"github.com/agentscaffold/dashboard/pkg/utils"
)

// Version reported by the health probe.
const Version = "1.0.0"

// Handler exposes the read-side endpoints consumed by dashboards.
type Handler struct {
	query *query.Service
}

// New creates the query handler.
func New(q *query.Service) *Handler {
	return &Handler{query: q}
}

// RegisterRoutes registers the query endpoints. The alerts route must be
// registered before the {kind} wildcard so it is matched first.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/messages/recent", h.handleRecent)
	r.Get("/messages/alerts", h.handleActiveAlerts)
	r.Get("/messages/{kind}", h.handleByKind)
	r.Get("/compliance/summary", h.handleComplianceSummary)
	r.Get("/agent-status", h.handleAgentStatus)
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	msgs := h.query.RecentMessages(limit)
	utils.RespondResults(w, http.StatusOK, msgs, len(msgs))
}

func (h *Handler) handleByKind(w http.ResponseWriter, r *http.Request) {
	kind, ok := message.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		utils.RespondError(w, http.StatusBadRequest, "unknown message kind")
		return
	}

	limit, okLimit := parseLimit(w, r)
	if !okLimit {
		return
	}

	msgs, err := h.query.MessagesByKind(kind, limit)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondResults(w, http.StatusOK, msgs, len(msgs))
}

func (h *Handler) handleActiveAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.query.ActiveAlerts()
	utils.RespondResults(w, http.StatusOK, alerts, len(alerts))
}

func (h *Handler) handleComplianceSummary(w http.ResponseWriter, r *http.Request) {
	summary := h.query.ComplianceSummary()
	utils.RespondResults(w, http.StatusOK, summary, len(summary.Domains))
}

func (h *Handler) handleAgentStatus(w http.ResponseWriter, r *http.Request) {
	summary := h.query.AgentSummary()
	utils.RespondResults(w, http.StatusOK, summary, summary.Count)
}

// HandleHealth is the liveness probe surfaced at /health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.query.IsHealthy() {
		utils.RespondError(w, http.StatusServiceUnavailable, "unhealthy")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   utils.ServiceName,
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}
