package message

import "time"

// Event types pushed to live subscribers.
const (
	EventMessageAdded = "message-added"
	EventHeartbeat    = "heartbeat"
)

// Event is a single push to a live subscriber: either a message-added
// notification carrying the stored record, or a periodic heartbeat
// carrying aggregate summaries.
type Event struct {
	Type         string        `json:"type"`
	Message      *Message      `json:"message,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
	AgentSummary *AgentSummary `json:"agentSummary,omitempty"`
	UsageSummary *UsageSummary `json:"usageSummary,omitempty"`
}

// AgentActivity describes one producing agent as seen through its
// retained messages.
type AgentActivity struct {
	SourceAgent  string    `json:"sourceAgent"`
	MessageCount int       `json:"messageCount"`
	LastSeen     time.Time `json:"lastSeen"`
}

// AgentSummary is the roster of producing agents.
type AgentSummary struct {
	Count  int             `json:"count"`
	Agents []AgentActivity `json:"agents"`
}

// UsageSummary aggregates ingestion and live-connection activity.
type UsageSummary struct {
	TotalIngested  uint64          `json:"totalIngested"`
	IngestedByKind map[Kind]uint64 `json:"ingestedByKind"`
	RetainedByKind map[Kind]int    `json:"retainedByKind"`
	ActiveAlerts   int             `json:"activeAlerts"`
	Subscribers    int             `json:"subscribers"`
}
