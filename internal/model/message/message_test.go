package message_test

import (
	"testing"
	"time"

	"github.com/agentscaffold/dashboard/internal/model/message"
)

func TestParseKind(t *testing.T) {
	if _, ok := message.ParseKind("compliance"); !ok {
		t.Fatal("expected compliance to parse")
	}
	if _, ok := message.ParseKind("gossip"); ok {
		t.Fatal("expected unknown kind to fail")
	}
}

func TestActiveAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	alert := message.Message{Kind: message.KindAlert, Alert: &message.AlertDetails{ExpiresAt: &future}}
	if !alert.ActiveAt(now) {
		t.Fatal("expected future-expiring alert active")
	}

	alert.Alert.ExpiresAt = &past
	if alert.ActiveAt(now) {
		t.Fatal("expected past-expiring alert inactive")
	}

	alert.Alert.ExpiresAt = nil
	if !alert.ActiveAt(now) {
		t.Fatal("expected never-expiring alert active")
	}

	info := message.Message{Kind: message.KindInformational}
	if info.ActiveAt(now) {
		t.Fatal("expected non-alert message inactive")
	}
}

func TestValidPresentation(t *testing.T) {
	if !message.ValidPresentation(message.PresentGauge) {
		t.Fatal("expected gauge to be valid")
	}
	if message.ValidPresentation("hologram") {
		t.Fatal("expected unknown method to be invalid")
	}
}
