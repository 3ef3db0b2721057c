package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentscaffold/dashboard/internal/metrics"
	"github.com/agentscaffold/dashboard/internal/model/message"
	"github.com/agentscaffold/dashboard/internal/service/alert"
	"github.com/agentscaffold/dashboard/internal/service/hub"
	"github.com/agentscaffold/dashboard/internal/service/store"
)

// ValidationError reports a missing or malformed submission field. The
// store is never touched when one is returned.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Submission is an inbound message from an agent, prior to validation
// and identity assignment. Exactly one details pointer matching Kind
// should be set for the kind-specific kinds.
type Submission struct {
	Kind         message.Kind
	Title        string
	Value        any
	Presentation message.PresentationMethod
	SourceAgent  string
	Metadata     map[string]any

	Compliance    *message.ComplianceDetails
	Status        *message.StatusDetails
	Throughput    *message.ThroughputDetails
	Alert         *message.AlertDetails
	Informational *message.InformationalDetails
}

// Gateway validates inbound submissions, assigns identity and server
// timestamps, writes to the store and triggers the live fan-out.
type Gateway struct {
	store   *store.Store
	tracker *alert.Tracker
	hub     *hub.Hub
	logger  zerolog.Logger
}

// NewGateway wires the gateway to its collaborators.
func NewGateway(st *store.Store, tracker *alert.Tracker, h *hub.Hub, logger zerolog.Logger) *Gateway {
	return &Gateway{
		store:   st,
		tracker: tracker,
		hub:     h,
		logger:  logger.With().Str("component", "ingest").Logger(),
	}
}

// Submit validates sub and, on success, stores it and broadcasts a
// message-added event. Broadcast is best-effort: ingestion success is
// determined solely by successful storage. Returns *ValidationError for
// rejected submissions.
func (g *Gateway) Submit(_ context.Context, sub Submission) (message.Message, error) {
	if err := validate(sub); err != nil {
		metrics.MessagesRejected.WithLabelValues(string(sub.Kind), err.Field).Inc()
		return message.Message{}, err
	}

	msg := message.Message{
		ID:            uuid.NewString(),
		Title:         sub.Title,
		Kind:          sub.Kind,
		Value:         sub.Value,
		Presentation:  sub.Presentation,
		SourceAgent:   sub.SourceAgent,
		Metadata:      sub.Metadata,
		CreatedAt:     time.Now().UTC(),
		Compliance:    sub.Compliance,
		Status:        sub.Status,
		Throughput:    sub.Throughput,
		Alert:         sub.Alert,
		Informational: sub.Informational,
	}

	stored, err := g.store.Insert(msg)
	if err != nil {
		// Unreachable after validation, but kept as a guard against
		// new kinds outgrowing the validator.
		metrics.MessagesRejected.WithLabelValues(string(sub.Kind), "kind").Inc()
		return message.Message{}, invalid("kind", err.Error())
	}

	metrics.MessagesIngested.WithLabelValues(string(stored.Kind)).Inc()
	g.logger.Info().
		Str("id", stored.ID).
		Str("kind", string(stored.Kind)).
		Str("title", stored.Title).
		Str("sourceAgent", stored.SourceAgent).
		Msg("message stored")

	if stored.Kind == message.KindAlert {
		g.tracker.OnNewAlert(stored)
	}

	g.hub.Broadcast(message.Event{
		Type:      message.EventMessageAdded,
		Message:   &stored,
		Timestamp: time.Now().UTC(),
	})

	return stored, nil
}

func validate(sub Submission) *ValidationError {
	if _, ok := message.ParseKind(string(sub.Kind)); !ok {
		return invalid("kind", "unknown message kind")
	}
	if sub.Title == "" {
		return invalid("title", "title is required")
	}
	if sub.Value == nil {
		return invalid("value", "value is required")
	}
	if sub.Presentation == "" {
		return invalid("presentationMethod", "presentation method is required")
	}
	if !message.ValidPresentation(sub.Presentation) {
		return invalid("presentationMethod", "unknown presentation method")
	}
	if sub.SourceAgent == "" {
		return invalid("sourceAgent", "source agent is required")
	}

	switch sub.Kind {
	case message.KindCompliance:
		if sub.Compliance == nil || sub.Compliance.Domain == "" {
			return invalid("domain", "compliance domain is required")
		}
		if sub.Compliance.Status == "" {
			return invalid("status", "compliance status is required")
		}
		if !message.ValidComplianceStatus(sub.Compliance.Status) {
			return invalid("status", "unknown compliance status")
		}
	case message.KindStatus:
		if sub.Status == nil || sub.Status.Health == "" {
			return invalid("healthStatus", "health status is required")
		}
		if !message.ValidHealth(sub.Status.Health) {
			return invalid("healthStatus", "unknown health status")
		}
	case message.KindThroughput:
		if sub.Throughput == nil || sub.Throughput.MetricName == "" {
			return invalid("metricName", "metric name is required")
		}
		if sub.Throughput.Unit == "" {
			return invalid("unit", "unit is required")
		}
	case message.KindAlert:
		if sub.Alert == nil || sub.Alert.Severity == "" {
			return invalid("severity", "alert severity is required")
		}
		if !message.ValidSeverity(sub.Alert.Severity) {
			return invalid("severity", "unknown alert severity")
		}
		if sub.Alert.Category == "" {
			return invalid("category", "alert category is required")
		}
	case message.KindInformational:
		// No kind-specific requirements.
	}
	return nil
}
