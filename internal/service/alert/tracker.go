package alert

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentscaffold/dashboard/internal/metrics"
	"github.com/agentscaffold/dashboard/internal/model/message"
	"github.com/agentscaffold/dashboard/internal/service/store"
)

// DefaultSweepInterval is the cadence of the optional background sweep.
const DefaultSweepInterval = 15 * time.Second

// Tracker derives the active-alert view from the store's alert history.
// It keeps no storage of its own: activity is computed lazily at query
// time by comparing expiration timestamps against the current clock.
type Tracker struct {
	store  *store.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewTracker creates a tracker over st.
func NewTracker(st *store.Store, logger zerolog.Logger) *Tracker {
	return &Tracker{
		store:  st,
		logger: logger.With().Str("component", "alerts").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the tracker's clock. Intended for tests.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

// ActiveAlerts returns the retained alert messages that have not yet
// expired, newest first. An alert without an expiration never expires.
func (t *Tracker) ActiveAlerts() []message.Message {
	alerts, err := t.store.ByKind(message.KindAlert, 0)
	if err != nil {
		return nil
	}

	now := t.now()
	active := make([]message.Message, 0, len(alerts))
	for _, a := range alerts {
		if a.ActiveAt(now) {
			active = append(active, a)
		}
	}
	return active
}

// OnNewAlert is invoked by the ingestion gateway right after an alert is
// stored. The stored record is the single source of truth, so the hook
// only observes: it logs and refreshes the active gauge. An alert that
// is already expired on arrival is stored but classified inactive.
func (t *Tracker) OnNewAlert(stored message.Message) {
	if stored.Kind != message.KindAlert || stored.Alert == nil {
		return
	}

	evt := t.logger.Info().
		Str("id", stored.ID).
		Str("severity", string(stored.Alert.Severity)).
		Str("category", stored.Alert.Category).
		Bool("actionRequired", stored.Alert.ActionRequired)
	if !stored.ActiveAt(t.now()) {
		evt = evt.Bool("expiredOnArrival", true)
	}
	evt.Msg("alert received")

	metrics.AlertsActive.Set(float64(len(t.ActiveAlerts())))
}

// RunSweep periodically recomputes the active-alert count so the gauge
// tracks expirations that happen without new ingestion. The view itself
// never depends on the sweep; it exists for observability only. Returns
// when ctx is cancelled.
func (t *Tracker) RunSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.AlertsActive.Set(float64(len(t.ActiveAlerts())))
		}
	}
}
