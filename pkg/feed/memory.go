package feed

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/models"
)

var ErrAlertNotFound = errors.New("alert not found")

type memorySubscriber struct {
	onSnapshot func([]models.Alert)
	onError    func(error)
}

// MemoryFeed is an in-process alert feed. It also answers acknowledgments
// itself, which makes it a complete stand-in for the backend in demo mode.
type MemoryFeed struct {
	// deliverMu serialises deliveries so subscribers see snapshots in
	// mutation order.
	deliverMu sync.Mutex
	mu        sync.Mutex
	alerts    map[string]models.Alert
	order     []string
	subs      map[int]memorySubscriber
	nextSubID int
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{
		alerts: make(map[string]models.Alert),
		subs:   make(map[int]memorySubscriber),
	}
}

func (f *MemoryFeed) Subscribe(ctx context.Context, onSnapshot func([]models.Alert), onError func(error)) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.deliverMu.Lock()
	defer f.deliverMu.Unlock()

	f.mu.Lock()
	id := f.nextSubID
	f.nextSubID++
	f.subs[id] = memorySubscriber{onSnapshot: onSnapshot, onError: onError}
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	onSnapshot(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.deliverMu.Lock()
			defer f.deliverMu.Unlock()
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}, nil
}

// Publish adds or replaces an alert and pushes the new snapshot.
func (f *MemoryFeed) Publish(_ context.Context, alert models.Alert) error {
	if alert.ID == "" {
		return errors.New("alert id can not be empty")
	}
	f.mutate(func() {
		if _, exists := f.alerts[alert.ID]; !exists {
			f.order = append(f.order, alert.ID)
		}
		f.alerts[alert.ID] = alert
	})
	return nil
}

func (f *MemoryFeed) Remove(alertID string) {
	f.mutate(func() {
		if _, exists := f.alerts[alertID]; !exists {
			return
		}
		delete(f.alerts, alertID)
		for i, id := range f.order {
			if id == alertID {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
	})
}

// Acknowledge marks the alert acknowledged. Repeating it is a no-op.
func (f *MemoryFeed) Acknowledge(ctx context.Context, alertID string, resolvedBy string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	f.mutate(func() {
		alert, exists := f.alerts[alertID]
		if !exists {
			err = ErrAlertNotFound
			return
		}
		if alert.Acknowledged {
			return
		}
		alert.Acknowledged = true
		alert.ResolvedBy = resolvedBy
		f.alerts[alertID] = alert
	})

	if err == nil {
		common.GetCategoryLogger(common.LoggerNameFeed, common.LoggerCategoryAck).
			Info("Alert acknowledged in memory feed", zap.String("alert_id", alertID), zap.String("resolved_by", resolvedBy))
	}
	return err
}

// Get returns the stored alert, acknowledged or not.
func (f *MemoryFeed) Get(alertID string) (models.Alert, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	alert, ok := f.alerts[alertID]
	return alert, ok
}

// Fail reports err to every subscriber, as a dropped connection would.
func (f *MemoryFeed) Fail(err error) {
	f.deliverMu.Lock()
	defer f.deliverMu.Unlock()

	f.mu.Lock()
	subs := f.subscribersLocked()
	f.mu.Unlock()

	for _, sub := range subs {
		if sub.onError != nil {
			sub.onError(err)
		}
	}
}

func (f *MemoryFeed) mutate(change func()) {
	f.deliverMu.Lock()
	defer f.deliverMu.Unlock()

	f.mu.Lock()
	change()
	snapshot := f.snapshotLocked()
	subs := f.subscribersLocked()
	f.mu.Unlock()

	for _, sub := range subs {
		sub.onSnapshot(append([]models.Alert(nil), snapshot...))
	}
}

func (f *MemoryFeed) snapshotLocked() []models.Alert {
	snapshot := make([]models.Alert, 0, len(f.order))
	for _, id := range f.order {
		if alert := f.alerts[id]; !alert.Acknowledged {
			snapshot = append(snapshot, alert)
		}
	}
	return snapshot
}

func (f *MemoryFeed) subscribersLocked() []memorySubscriber {
	subs := make([]memorySubscriber, 0, len(f.subs))
	for _, sub := range f.subs {
		subs = append(subs, sub)
	}
	return subs
}
