package alert_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentscaffold/dashboard/internal/model/message"
	"github.com/agentscaffold/dashboard/internal/service/alert"
	"github.com/agentscaffold/dashboard/internal/service/store"
)

func alertMessage(title string, expiresAt *time.Time) message.Message {
	return message.Message{
		Title:        title,
		Kind:         message.KindAlert,
		Value:        "details",
		Presentation: message.PresentBadge,
		SourceAgent:  "alerting-agent",
		Alert: &message.AlertDetails{
			Severity:  message.SeverityWarning,
			Category:  "infra",
			ExpiresAt: expiresAt,
		},
	}
}

func newTracker(t *testing.T, now time.Time) (*store.Store, *alert.Tracker) {
	t.Helper()
	st := store.New(10)
	tracker := alert.NewTracker(st, zerolog.Nop())
	tracker.SetClock(func() time.Time { return now })
	return st, tracker
}

func TestActiveAlertsFutureExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st, tracker := newTracker(t, now)

	expires := now.Add(time.Hour)
	if _, err := st.Insert(alertMessage("disk filling", &expires)); err != nil {
		t.Fatalf("Insert err: %v", err)
	}

	active := tracker.ActiveAlerts()
	if len(active) != 1 {
		t.Fatalf("expected 1 active alert, got %d", len(active))
	}
	if active[0].Title != "disk filling" {
		t.Fatalf("unexpected alert: %s", active[0].Title)
	}
}

func TestActiveAlertsPastExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st, tracker := newTracker(t, now)

	expired := now.Add(-time.Hour)
	if _, err := st.Insert(alertMessage("stale", &expired)); err != nil {
		t.Fatalf("Insert err: %v", err)
	}

	// Stored, but classified inactive.
	retained, err := st.ByKind(message.KindAlert, 0)
	if err != nil {
		t.Fatalf("ByKind err: %v", err)
	}
	if len(retained) != 1 {
		t.Fatalf("expected expired alert to be stored, got %d retained", len(retained))
	}
	if got := tracker.ActiveAlerts(); len(got) != 0 {
		t.Fatalf("expected no active alerts, got %d", len(got))
	}
}

func TestActiveAlertsWithoutExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st, tracker := newTracker(t, now)

	if _, err := st.Insert(alertMessage("no expiry", nil)); err != nil {
		t.Fatalf("Insert err: %v", err)
	}

	if got := tracker.ActiveAlerts(); len(got) != 1 {
		t.Fatalf("expected never-expiring alert to stay active, got %d", len(got))
	}
}

func TestOnNewAlertIgnoresOtherKinds(t *testing.T) {
	_, tracker := newTracker(t, time.Now().UTC())

	// Must not panic or misclassify.
	tracker.OnNewAlert(message.Message{Kind: message.KindStatus})

	if got := tracker.ActiveAlerts(); len(got) != 0 {
		t.Fatalf("expected no active alerts, got %d", len(got))
	}
}
