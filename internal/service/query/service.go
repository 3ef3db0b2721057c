package query

import (
	"sort"
	"time"

	"github.com/agentscaffold/dashboard/internal/model/message"
	"github.com/agentscaffold/dashboard/internal/service/alert"
	"github.com/agentscaffold/dashboard/internal/service/hub"
	"github.com/agentscaffold/dashboard/internal/service/store"
)

const (
	// DefaultRecentLimit applies to merged recent-message queries.
	DefaultRecentLimit = 50

	// DefaultKindLimit applies to single-kind queries.
	DefaultKindLimit = 100
)

// DomainStatus is the current compliance standing of one domain,
// derived from its most recent retained compliance message.
type DomainStatus struct {
	Domain      string    `json:"domain"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"lastUpdated"`
	SourceAgent string    `json:"sourceAgent"`
	TestID      string    `json:"testId,omitempty"`
}

// ComplianceSummary aggregates the per-domain standing into one view.
type ComplianceSummary struct {
	OverallStatus  string            `json:"overallStatus"`
	Domains        []DomainStatus    `json:"domains"`
	RecentFailures []message.Message `json:"recentFailures"`
}

// Service answers read-only queries over the store and alert tracker.
// Nothing here mutates state; each query works from a single
// point-in-time snapshot of the store.
type Service struct {
	store   *store.Store
	tracker *alert.Tracker
	hub     *hub.Hub
}

// NewService wires the read side to its sources.
func NewService(st *store.Store, tracker *alert.Tracker, h *hub.Hub) *Service {
	return &Service{store: st, tracker: tracker, hub: h}
}

// RecentMessages returns the newest messages across every kind. A
// non-positive limit applies DefaultRecentLimit.
func (s *Service) RecentMessages(limit int) []message.Message {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.store.Recent(limit)
}

// MessagesByKind returns the newest messages of one kind. A
// non-positive limit applies DefaultKindLimit.
func (s *Service) MessagesByKind(kind message.Kind, limit int) ([]message.Message, error) {
	if limit <= 0 {
		limit = DefaultKindLimit
	}
	return s.store.ByKind(kind, limit)
}

// ActiveAlerts returns the currently active alerts, newest first.
func (s *Service) ActiveAlerts() []message.Message {
	return s.tracker.ActiveAlerts()
}

// ComplianceSummary computes the per-domain standing from the most
// recent retained compliance message of each domain. When two messages
// for a domain share a timestamp the later-inserted one wins. Overall
// status is non_compliant if any domain is non_compliant, otherwise
// needs_attention if any domain is in warning, otherwise compliant.
func (s *Service) ComplianceSummary() ComplianceSummary {
	msgs, err := s.store.ByKind(message.KindCompliance, 0)
	if err != nil {
		return ComplianceSummary{OverallStatus: message.StatusCompliant}
	}

	// msgs is newest first (timestamp order, later insert winning
	// ties), so the first occurrence of a domain is its current state.
	latest := make(map[string]DomainStatus)
	var failures []message.Message
	for _, m := range msgs {
		if m.Compliance == nil {
			continue
		}
		if _, seen := latest[m.Compliance.Domain]; !seen {
			latest[m.Compliance.Domain] = DomainStatus{
				Domain:      m.Compliance.Domain,
				Status:      m.Compliance.Status,
				LastUpdated: m.CreatedAt,
				SourceAgent: m.SourceAgent,
				TestID:      m.Compliance.TestID,
			}
		}
		if m.Compliance.Status == message.StatusNonCompliant && len(failures) < 10 {
			failures = append(failures, m)
		}
	}

	overall := message.StatusCompliant
	domains := make([]DomainStatus, 0, len(latest))
	for _, d := range latest {
		domains = append(domains, d)
		switch d.Status {
		case message.StatusNonCompliant:
			overall = message.StatusNonCompliant
		case message.StatusWarning:
			if overall != message.StatusNonCompliant {
				overall = "needs_attention"
			}
		}
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i].Domain < domains[j].Domain })

	return ComplianceSummary{
		OverallStatus:  overall,
		Domains:        domains,
		RecentFailures: failures,
	}
}

// AgentSummary derives the producing-agent roster from retained
// messages: per-agent message counts and last-seen timestamps.
func (s *Service) AgentSummary() message.AgentSummary {
	byAgent := make(map[string]message.AgentActivity)
	for _, m := range s.store.Snapshot() {
		act := byAgent[m.SourceAgent]
		act.SourceAgent = m.SourceAgent
		act.MessageCount++
		if m.CreatedAt.After(act.LastSeen) {
			act.LastSeen = m.CreatedAt
		}
		byAgent[m.SourceAgent] = act
	}

	agents := make([]message.AgentActivity, 0, len(byAgent))
	for _, act := range byAgent {
		agents = append(agents, act)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].SourceAgent < agents[j].SourceAgent })

	return message.AgentSummary{Count: len(agents), Agents: agents}
}

// UsageSummary aggregates lifetime ingestion totals and live counts.
func (s *Service) UsageSummary() message.UsageSummary {
	inserted := s.store.InsertedByKind()
	var total uint64
	for _, n := range inserted {
		total += n
	}
	return message.UsageSummary{
		TotalIngested:  total,
		IngestedByKind: inserted,
		RetainedByKind: s.store.CountByKind(),
		ActiveAlerts:   len(s.tracker.ActiveAlerts()),
		Subscribers:    s.hub.Count(),
	}
}

// HeartbeatSnapshot builds the periodic status event pushed to live
// subscribers.
func (s *Service) HeartbeatSnapshot() message.Event {
	agents := s.AgentSummary()
	usage := s.UsageSummary()
	return message.Event{
		Type:         message.EventHeartbeat,
		Timestamp:    time.Now().UTC(),
		AgentSummary: &agents,
		UsageSummary: &usage,
	}
}

// IsHealthy is the liveness probe surfaced by the HTTP layer.
func (s *Service) IsHealthy() bool {
	return s.store != nil && s.tracker != nil && s.hub != nil
}
