package message

import "time"

// Kind is the fixed category tag of a dashboard message.
type Kind string

const (
	KindCompliance    Kind = "compliance"
	KindStatus        Kind = "status"
	KindThroughput    Kind = "throughput"
	KindAlert         Kind = "alert"
	KindInformational Kind = "informational"
)

// Kinds lists every message kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindCompliance, KindStatus, KindThroughput, KindAlert, KindInformational}
}

// ParseKind maps an external kind string to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindCompliance, KindStatus, KindThroughput, KindAlert, KindInformational:
		return Kind(s), true
	}
	return "", false
}

// PresentationMethod is a rendering hint attached to every message. It is
// validated as an enum member but not cross-checked against the kind.
type PresentationMethod string

const (
	PresentChart  PresentationMethod = "chart"
	PresentTable  PresentationMethod = "table"
	PresentGauge  PresentationMethod = "gauge"
	PresentText   PresentationMethod = "text"
	PresentGraph  PresentationMethod = "graph"
	PresentMetric PresentationMethod = "metric"
	PresentList   PresentationMethod = "list"
	PresentBadge  PresentationMethod = "badge"
)

// ValidPresentation reports whether m is a known presentation method.
func ValidPresentation(m PresentationMethod) bool {
	switch m {
	case PresentChart, PresentTable, PresentGauge, PresentText,
		PresentGraph, PresentMetric, PresentList, PresentBadge:
		return true
	}
	return false
}

// ComplianceStatus values carried by compliance messages.
const (
	StatusCompliant    = "compliant"
	StatusNonCompliant = "non_compliant"
	StatusWarning      = "warning"
	StatusUnknown      = "unknown"
)

// ValidComplianceStatus reports whether s is a known compliance status.
func ValidComplianceStatus(s string) bool {
	switch s {
	case StatusCompliant, StatusNonCompliant, StatusWarning, StatusUnknown:
		return true
	}
	return false
}

// Well-known compliance domains. The domain field is an open string, so
// these are conventions rather than a closed set.
const (
	DomainSupplyChain      = "supply_chain"
	DomainPhysicalSecurity = "physical_security"
	DomainExplainableAI    = "explainable_ai"
	DomainPerfReliability  = "perf_reliability"
	DomainNIST80053        = "nist800_53"
	DomainRMF              = "rmf"
	DomainFedRAMP          = "fedramp"
)

// Severity of an alert message.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// ValidSeverity reports whether s is a known alert severity.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

// Health states reported by status messages.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

// ValidHealth reports whether h is a known agent health state.
func ValidHealth(h string) bool {
	switch h {
	case HealthHealthy, HealthDegraded, HealthUnhealthy:
		return true
	}
	return false
}

// ComplianceDetails carries the compliance-specific message fields.
type ComplianceDetails struct {
	Domain string `json:"domain"`
	Status string `json:"status"`
	TestID string `json:"testId,omitempty"`
}

// StatusDetails carries the status-specific message fields.
type StatusDetails struct {
	Component string `json:"component,omitempty"`
	Health    string `json:"health"`
}

// ThroughputDetails carries the throughput-specific message fields.
type ThroughputDetails struct {
	MetricName  string   `json:"metricName"`
	Unit        string   `json:"unit"`
	TargetValue *float64 `json:"targetValue,omitempty"`
}

// AlertDetails carries the alert-specific message fields. A nil ExpiresAt
// means the alert never expires on its own.
type AlertDetails struct {
	Severity       Severity   `json:"severity"`
	Category       string     `json:"category"`
	ActionRequired bool       `json:"actionRequired"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

// InformationalDetails carries the informational-specific message fields.
type InformationalDetails struct {
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// Message is a stored dashboard message. Kind selects which details
// pointer is populated; exactly one is non-nil for kind-specific kinds
// and consumers switch on Kind rather than probing pointers.
type Message struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Kind         Kind               `json:"kind"`
	Value        any                `json:"value"`
	Presentation PresentationMethod `json:"presentationMethod"`
	SourceAgent  string             `json:"sourceAgent"`
	Metadata     map[string]any     `json:"metadata,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`

	// Seq is the store insertion sequence, used as the deterministic
	// tie-break when two messages share a timestamp. Not part of the
	// wire format.
	Seq uint64 `json:"-"`

	Compliance    *ComplianceDetails    `json:"compliance,omitempty"`
	Status        *StatusDetails        `json:"status,omitempty"`
	Throughput    *ThroughputDetails    `json:"throughput,omitempty"`
	Alert         *AlertDetails         `json:"alert,omitempty"`
	Informational *InformationalDetails `json:"informational,omitempty"`
}

// ActiveAt reports whether an alert message is active at the given
// instant. Non-alert messages are never active.
func (m Message) ActiveAt(now time.Time) bool {
	if m.Kind != KindAlert || m.Alert == nil {
		return false
	}
	if m.Alert.ExpiresAt == nil {
		return true
	}
	return m.Alert.ExpiresAt.After(now)
}
