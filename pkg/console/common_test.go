package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"helmetwatch.xyz/alert-console/pkg/console/mocks"
	"helmetwatch.xyz/alert-console/pkg/feed"
	"helmetwatch.xyz/alert-console/pkg/models"
)

// recordingNotifier keeps every call so tests can assert on ordering.
type recordingNotifier struct {
	mu        sync.Mutex
	next      int
	shown     []models.Notification
	retracted []string
	onExpire  map[string]func(string)
}

func (n *recordingNotifier) Show(notification models.Notification, onExpire func(string)) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	if notification.Key == "" {
		notification.Key = fmt.Sprintf("n-%d", n.next)
	}
	n.shown = append(n.shown, notification)
	if onExpire != nil {
		if n.onExpire == nil {
			n.onExpire = make(map[string]func(string))
		}
		n.onExpire[notification.Key] = onExpire
	}
	return notification.Key
}

// expire plays the notifier dismissing key on its own.
func (n *recordingNotifier) expire(key string) {
	n.mu.Lock()
	onExpire := n.onExpire[key]
	delete(n.onExpire, key)
	n.mu.Unlock()
	if onExpire != nil {
		onExpire(key)
	}
}

func (n *recordingNotifier) Retract(key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.retracted = append(n.retracted, key)
}

func (n *recordingNotifier) Shown() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Notification(nil), n.shown...)
}

func (n *recordingNotifier) Retracted() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.retracted...)
}

func (n *recordingNotifier) ShownOfKind(kind models.NotificationKind) []models.Notification {
	var list []models.Notification
	for _, shown := range n.Shown() {
		if shown.Kind == kind {
			list = append(list, shown)
		}
	}
	return list
}

// gatedAcknowledger holds each acknowledgment until the test releases it.
type gatedAcknowledger struct {
	backend IAcknowledger
	gate    chan struct{}
	err     error
}

func newGatedAcknowledger(backend IAcknowledger) *gatedAcknowledger {
	return &gatedAcknowledger{backend: backend, gate: make(chan struct{})}
}

func (g *gatedAcknowledger) Acknowledge(ctx context.Context, alertID string, resolvedBy string) error {
	select {
	case <-g.gate:
	case <-ctx.Done():
		return ctx.Err()
	}
	if g.err != nil {
		return g.err
	}
	return g.backend.Acknowledge(ctx, alertID, resolvedBy)
}

func (g *gatedAcknowledger) release() {
	close(g.gate)
}

type testRig struct {
	ctrl     *gomock.Controller
	feed     *feed.MemoryFeed
	notifier *recordingNotifier
	sound    *mocks.MockISoundCue
	console  *Console
}

func newTestRig(t *testing.T, acknowledger IAcknowledger) *testRig {
	ctrl := gomock.NewController(t)
	memoryFeed := feed.NewMemoryFeed()
	if acknowledger == nil {
		acknowledger = memoryFeed
	}

	rig := &testRig{
		ctrl:     ctrl,
		feed:     memoryFeed,
		notifier: &recordingNotifier{},
		sound:    mocks.NewMockISoundCue(ctrl),
	}
	rig.console = New(NewAlertChannel(memoryFeed, acknowledger), Opts{
		Notifier:        rig.notifier,
		SoundCue:        rig.sound,
		Actor:           "control-room",
		NotificationTTL: time.Minute,
		AckTimeout:      2 * time.Second,
	})
	t.Cleanup(rig.console.Close)
	return rig
}

func (r *testRig) start(t *testing.T) {
	require.NoError(t, r.console.Start(context.Background()))
}

func (r *testRig) publish(t *testing.T, alerts ...models.Alert) {
	for _, alert := range alerts {
		require.NoError(t, r.feed.Publish(context.Background(), alert))
	}
}

func waitResult(t *testing.T, result <-chan error) error {
	t.Helper()
	select {
	case err := <-result:
		return err
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for acknowledgment result")
		return nil
	}
}

func ParseLogs(r io.Reader) []map[string]any {
	scanner := bufio.NewScanner(r)
	var logs []map[string]any

	for scanner.Scan() {
		var j map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
