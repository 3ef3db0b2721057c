package message

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agentscaffold/dashboard/internal/model/message"
	"github.com/agentscaffold/dashboard/internal/service/ingest"
	"github.com/agentscaffold/dashboard/pkg/utils"
)

// Handler exposes the per-kind ingestion endpoints called by agents.
type Handler struct {
	gateway *ingest.Gateway
}

// New creates the ingestion handler.
func New(gateway *ingest.Gateway) *Handler {
	return &Handler{gateway: gateway}
}

// RegisterRoutes registers one POST endpoint per message kind.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/messages/compliance", h.handleCompliance)
	r.Post("/messages/status", h.handleStatus)
	r.Post("/messages/throughput", h.handleThroughput)
	r.Post("/messages/alert", h.handleAlert)
	r.Post("/messages/informational", h.handleInformational)
}

// baseRequest carries the fields common to every kind.
type baseRequest struct {
	Title              string         `json:"title"`
	Value              any            `json:"value"`
	PresentationMethod string         `json:"presentationMethod"`
	SourceAgent        string         `json:"sourceAgent"`
	Metadata           map[string]any `json:"metadata"`
}

func (b baseRequest) submission(kind message.Kind) ingest.Submission {
	return ingest.Submission{
		Kind:         kind,
		Title:        b.Title,
		Value:        b.Value,
		Presentation: message.PresentationMethod(b.PresentationMethod),
		SourceAgent:  b.SourceAgent,
		Metadata:     b.Metadata,
	}
}

func (h *Handler) handleCompliance(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		baseRequest
		Domain string `json:"domain"`
		Status string `json:"status"`
		TestID string `json:"testId"`
	}
	if !decode(w, r, &payload) {
		return
	}

	sub := payload.submission(message.KindCompliance)
	sub.Compliance = &message.ComplianceDetails{
		Domain: payload.Domain,
		Status: payload.Status,
		TestID: payload.TestID,
	}
	h.submit(w, r, sub)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		baseRequest
		Component    string `json:"component"`
		HealthStatus string `json:"healthStatus"`
	}
	if !decode(w, r, &payload) {
		return
	}

	sub := payload.submission(message.KindStatus)
	sub.Status = &message.StatusDetails{
		Component: payload.Component,
		Health:    payload.HealthStatus,
	}
	h.submit(w, r, sub)
}

func (h *Handler) handleThroughput(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		baseRequest
		MetricName  string   `json:"metricName"`
		Unit        string   `json:"unit"`
		TargetValue *float64 `json:"targetValue"`
	}
	if !decode(w, r, &payload) {
		return
	}

	sub := payload.submission(message.KindThroughput)
	sub.Throughput = &message.ThroughputDetails{
		MetricName:  payload.MetricName,
		Unit:        payload.Unit,
		TargetValue: payload.TargetValue,
	}
	h.submit(w, r, sub)
}

func (h *Handler) handleAlert(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		baseRequest
		Severity       string     `json:"severity"`
		Category       string     `json:"category"`
		ActionRequired bool       `json:"actionRequired"`
		ExpiresAt      *time.Time `json:"expiresAt"`
	}
	if !decode(w, r, &payload) {
		return
	}

	sub := payload.submission(message.KindAlert)
	sub.Alert = &message.AlertDetails{
		Severity:       message.Severity(payload.Severity),
		Category:       payload.Category,
		ActionRequired: payload.ActionRequired,
		ExpiresAt:      payload.ExpiresAt,
	}
	h.submit(w, r, sub)
}

func (h *Handler) handleInformational(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		baseRequest
		Category string `json:"category"`
		Priority string `json:"priority"`
	}
	if !decode(w, r, &payload) {
		return
	}

	sub := payload.submission(message.KindInformational)
	if payload.Category != "" || payload.Priority != "" {
		sub.Informational = &message.InformationalDetails{
			Category: payload.Category,
			Priority: payload.Priority,
		}
	}
	h.submit(w, r, sub)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, sub ingest.Submission) {
	stored, err := h.gateway.Submit(r.Context(), sub)
	if err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			utils.RespondJSON(w, http.StatusBadRequest, map[string]any{
				"status":  "error",
				"service": utils.ServiceName,
				"field":   verr.Field,
				"reason":  verr.Reason,
			})
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]any{
		"status":    "success",
		"service":   utils.ServiceName,
		"messageId": stored.ID,
		"message":   stored,
		"timestamp": stored.CreatedAt.Format(time.RFC3339),
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
