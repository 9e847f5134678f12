package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"

	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/console/mocks"
	"helmetwatch.xyz/alert-console/pkg/feed"
	"helmetwatch.xyz/alert-console/pkg/models"
	"helmetwatch.xyz/alert-console/pkg/notify"
	_ "helmetwatch.xyz/alert-console/pkg/testing"
)

func TestNewAlertIsSurfaced(t *testing.T) {
	common.SetTestLoggerNop()
	rig := newTestRig(t, nil)
	rig.sound.EXPECT().Play().Return(nil).Times(1)
	rig.start(t)

	rig.publish(t, models.Alert{ID: "a1", Message: "Emergency button pressed", HelmetID: "H-1001", Location: "Section A", Timestamp: 100})

	view := rig.console.State()
	require.NotNil(t, view.Current)
	assert.Equal(t, "a1", view.Current.ID)
	assert.False(t, view.ModalOpen)
	assert.Equal(t, FeedStatusConnected, view.FeedStatus)

	shown := rig.notifier.Shown()
	require.Len(t, shown, 1)
	assert.Equal(t, models.NotificationKindAlert, shown[0].Kind)
	assert.Equal(t, "Emergency button pressed", shown[0].Message)
	assert.Equal(t, "H-1001", shown[0].HelmetID)
	assert.Equal(t, "Section A", shown[0].Location)
	assert.Equal(t, []string{models.NotificationActionAcknowledge}, shown[0].Actions)
	assert.Equal(t, time.Minute, shown[0].Duration)
	assert.Equal(t, shown[0].Key, view.ActiveNotificationKey)
}

func TestNewerAlertReplacesCurrent(t *testing.T) {
	common.SetTestLoggerNop()
	rig := newTestRig(t, nil)
	rig.sound.EXPECT().Play().Return(nil).Times(2)
	rig.start(t)

	rig.publish(t, models.Alert{ID: "a1", Timestamp: 100})
	first := rig.console.State().ActiveNotificationKey

	rig.publish(t, models.Alert{ID: "a2", Timestamp: 200})

	view := rig.console.State()
	require.NotNil(t, view.Current)
	assert.Equal(t, "a2", view.Current.ID)
	assert.Equal(t, []string{first}, rig.notifier.Retracted())
	require.Len(t, rig.notifier.Shown(), 2)
	assert.Equal(t, "a2", rig.notifier.Shown()[1].AlertID)
	assert.NotEqual(t, first, view.ActiveNotificationKey)
}

func TestOlderAlertDoesNotDisplaceNewer(t *testing.T) {
	common.SetTestLoggerNop()
	rig := newTestRig(t, nil)
	rig.sound.EXPECT().Play().Return(nil).Times(1)
	rig.start(t)

	rig.publish(t, models.Alert{ID: "a2", Timestamp: 200})
	// a late record from the past
	rig.publish(t, models.Alert{ID: "a0", Timestamp: 50})

	current, ok := rig.console.Current()
	require.True(t, ok)
	assert.Equal(t, "a2", current.ID)
	assert.Len(t, rig.notifier.Shown(), 1)
}

func TestRepeatedPushIsIdempotent(t *testing.T) {
	common.SetTestLoggerNop()
	rig := newTestRig(t, nil)
	rig.sound.EXPECT().Play().Return(nil).Times(1)
	rig.start(t)

	alert := models.Alert{ID: "a1", Message: "gas", Timestamp: 100}
	rig.publish(t, alert)
	rig.publish(t, alert)
	rig.publish(t, alert)

	assert.Len(t, rig.notifier.Shown(), 1)
	assert.Empty(t, rig.notifier.Retracted())
}

func TestEmptySnapshotClearsState(t *testing.T) {
	common.SetTestLoggerNop()
	rig := newTestRig(t, nil)
	rig.sound.EXPECT().Play().Return(nil).Times(1)
	rig.start(t)

	rig.publish(t, models.Alert{ID: "a1", Timestamp: 100})
	require.NoError(t, rig.console.OpenDetail())
	key := rig.console.State().ActiveNotificationKey

	rig.feed.Remove("a1")

	view := rig.console.State()
	assert.Nil(t, view.Current)
	assert.False(t, view.ModalOpen)
	assert.Empty(t, view.ActiveNotificationKey)
	assert.Equal(t, []string{key}, rig.notifier.Retracted())
}

func TestModalNeverOpensOnPush(t *testing.T) {
	common.SetTestLoggerNop()
	rig := newTestRig(t, nil)
	rig.sound.EXPECT().Play().Return(nil).AnyTimes()
	rig.start(t)

	for i, id := range []string{"a1", "a2", "a3"} {
		rig.publish(t, models.Alert{ID: id, Timestamp: models.Millis(100 * (i + 1))})
		assert.False(t, rig.console.State().ModalOpen)
	}

	require.NoError(t, rig.console.OpenDetail())
	assert.True(t, rig.console.State().ModalOpen)

	// the open view belonged to a3, a newer alert closes it
	rig.publish(t, models.Alert{ID: "a4", Timestamp: 400})
	assert.False(t, rig.console.State().ModalOpen)
}

func TestExpiredNotificationIsForgotten(t *testing.T) {
	common.SetTestLoggerNop()
	rig := newTestRig(t, nil)
	rig.sound.EXPECT().Play().Return(nil).AnyTimes()
	rig.start(t)

	rig.publish(t, models.Alert{ID: "a1", Timestamp: 100})
	first := rig.console.State().ActiveNotificationKey
	require.NotEmpty(t, first)

	rig.publish(t, models.Alert{ID: "a2", Timestamp: 200})
	second := rig.console.State().ActiveNotificationKey
	require.NotEqual(t, first, second)

	// a stale expiry leaves the newer notification alone
	rig.notifier.expire(first)
	assert.Equal(t, second, rig.console.State().ActiveNotificationKey)

	rig.notifier.expire(second)
	view := rig.console.State()
	assert.Empty(t, view.ActiveNotificationKey)
	require.NotNil(t, view.Current, "the alert outlives its notification")
	assert.Equal(t, "a2", view.Current.ID)
}

func TestNotificationExpiryWithHub(t *testing.T) {
	common.SetTestLoggerNop()
	memoryFeed := feed.NewMemoryFeed()
	hub := notify.NewHub("")

	c := New(NewAlertChannel(memoryFeed, memoryFeed), Opts{
		Notifier:        hub,
		SoundCue:        hub,
		NotificationTTL: 30 * time.Millisecond,
	})
	defer c.Close()
	require.NoError(t, c.Start(context.Background()))

	rig := &testRig{feed: memoryFeed}
	rig.publish(t, models.Alert{ID: "a1", Timestamp: 100})
	require.NotEmpty(t, c.State().ActiveNotificationKey)

	require.Eventually(t, func() bool {
		return len(hub.Active()) == 0 && c.State().ActiveNotificationKey == ""
	}, 2*time.Second, 10*time.Millisecond)
	_, ok := c.Current()
	assert.True(t, ok)
}

func TestAcknowledgeClearsBeforeBackendAnswers(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)
	memoryFeed := feed.NewMemoryFeed()
	gated := newGatedAcknowledger(memoryFeed)

	notifier := &recordingNotifier{}
	sound := mocks.NewMockISoundCue(ctrl)
	sound.EXPECT().Play().Return(nil).AnyTimes()
	journal := mocks.NewMockIJournal(ctrl)
	journal.EXPECT().Record(gomock.Any()).Return(nil).AnyTimes()

	c := New(NewAlertChannel(memoryFeed, gated), Opts{Notifier: notifier, SoundCue: sound, Journal: journal, Actor: "control-room"})
	defer c.Close()
	require.NoError(t, c.Start(context.Background()))

	require.NoError(t, memoryFeed.Publish(context.Background(), models.Alert{ID: "a1", Timestamp: 100}))
	require.NoError(t, memoryFeed.Publish(context.Background(), models.Alert{ID: "a2", Timestamp: 200}))
	require.NoError(t, c.OpenDetail())
	key := c.State().ActiveNotificationKey

	result, err := c.Acknowledge("a2")
	require.NoError(t, err)

	// backend has not answered yet
	view := c.State()
	assert.Nil(t, view.Current)
	assert.False(t, view.ModalOpen)
	assert.Empty(t, view.ActiveNotificationKey)
	assert.Contains(t, notifier.Retracted(), key)

	gated.release()
	require.NoError(t, waitResult(t, result))

	stored, ok := memoryFeed.Get("a2")
	require.True(t, ok)
	assert.True(t, stored.Acknowledged)
	assert.Equal(t, "control-room", stored.ResolvedBy)

	// the feed now only carries a1
	current, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "a1", current.ID)
	assert.Empty(t, notifier.ShownOfKind(models.NotificationKindError))
}

func TestAcknowledgeFailureIsNotRolledBack(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)
	memoryFeed := feed.NewMemoryFeed()
	acknowledger := mocks.NewMockIAcknowledger(ctrl)
	acknowledger.EXPECT().
		Acknowledge(gomock.Any(), gomock.Eq("a2"), gomock.Eq("control-room")).
		Return(errors.New("network unreachable")).
		Times(1)

	notifier := &recordingNotifier{}
	sound := mocks.NewMockISoundCue(ctrl)
	sound.EXPECT().Play().Return(nil).AnyTimes()

	c := New(NewAlertChannel(memoryFeed, acknowledger), Opts{Notifier: notifier, SoundCue: sound, Actor: "control-room"})
	defer c.Close()
	require.NoError(t, c.Start(context.Background()))

	require.NoError(t, memoryFeed.Publish(context.Background(), models.Alert{ID: "a2", Timestamp: 200}))

	result, err := c.Acknowledge("a2")
	require.NoError(t, err)
	require.EqualError(t, waitResult(t, result), "network unreachable")

	errorsShown := notifier.ShownOfKind(models.NotificationKindError)
	require.Len(t, errorsShown, 1)
	assert.Equal(t, "a2", errorsShown[0].AlertID)
	assert.Contains(t, errorsShown[0].Message, "network unreachable")
	assert.Positive(t, errorsShown[0].Duration)

	assert.Nil(t, c.State().Current, "optimistic clear stays in place")

	// the next push still carries a2, so it comes back
	require.NoError(t, memoryFeed.Publish(context.Background(), models.Alert{ID: "a2", Timestamp: 200}))
	current, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "a2", current.ID)
}

func TestAcknowledge_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	{
		rig := newTestRig(t, nil)
		_, err := rig.console.Acknowledge("a1")
		assert.ErrorIs(t, err, ErrNotStarted)
	}

	{
		rig := newTestRig(t, nil)
		rig.start(t)
		_, err := rig.console.Acknowledge("  ")
		assert.ErrorIs(t, err, ErrEmptyAlertID)
	}

	{
		rig := newTestRig(t, nil)
		rig.start(t)
		rig.console.Close()
		_, err := rig.console.Acknowledge("a1")
		assert.ErrorIs(t, err, ErrClosed)
	}

	{
		// unknown to the backend: reported, nothing else breaks
		rig := newTestRig(t, nil)
		rig.start(t)
		result, err := rig.console.Acknowledge("ghost")
		require.NoError(t, err)
		assert.ErrorIs(t, waitResult(t, result), feed.ErrAlertNotFound)
		assert.Len(t, rig.notifier.ShownOfKind(models.NotificationKindError), 1)
	}
}

func TestAcknowledgeAsUsesOperator(t *testing.T) {
	common.SetTestLoggerNop()
	rig := newTestRig(t, nil)
	rig.sound.EXPECT().Play().Return(nil).AnyTimes()
	rig.start(t)

	rig.publish(t, models.Alert{ID: "a1", Timestamp: 100})

	result, err := rig.console.AcknowledgeAs("a1", "night-shift")
	require.NoError(t, err)
	require.NoError(t, waitResult(t, result))

	stored, _ := rig.feed.Get("a1")
	assert.Equal(t, "night-shift", stored.ResolvedBy)

	rig.publish(t, models.Alert{ID: "a2", Timestamp: 200})
	result, err = rig.console.AcknowledgeAs("a2", " ")
	require.NoError(t, err)
	require.NoError(t, waitResult(t, result))

	stored, _ = rig.feed.Get("a2")
	assert.Equal(t, "control-room", stored.ResolvedBy, "blank operator falls back to the console actor")
}

func TestCloseDiscardsInflightAcknowledgment(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)
	memoryFeed := feed.NewMemoryFeed()
	gated := newGatedAcknowledger(memoryFeed)
	notifier := &recordingNotifier{}
	sound := mocks.NewMockISoundCue(ctrl)
	sound.EXPECT().Play().Return(nil).AnyTimes()

	c := New(NewAlertChannel(memoryFeed, gated), Opts{Notifier: notifier, SoundCue: sound})
	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, memoryFeed.Publish(context.Background(), models.Alert{ID: "a1", Timestamp: 100}))

	result, err := c.Acknowledge("a1")
	require.NoError(t, err)

	c.Close()

	assert.ErrorIs(t, waitResult(t, result), context.Canceled)
	assert.Empty(t, notifier.ShownOfKind(models.NotificationKindError), "no notice after close")

	// pushes after close are ignored
	require.NoError(t, memoryFeed.Publish(context.Background(), models.Alert{ID: "a9", Timestamp: 900}))
	assert.Nil(t, c.State().Current)
}

func TestModalLifecycle(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)
	memoryFeed := feed.NewMemoryFeed()
	acknowledger := mocks.NewMockIAcknowledger(ctrl)
	notifier := &recordingNotifier{}
	sound := mocks.NewMockISoundCue(ctrl)
	sound.EXPECT().Play().Return(nil).AnyTimes()

	c := New(NewAlertChannel(memoryFeed, acknowledger), Opts{Notifier: notifier, SoundCue: sound, Actor: "control-room"})
	defer c.Close()
	require.NoError(t, c.Start(context.Background()))

	assert.ErrorIs(t, c.OpenDetail(), ErrNoCurrentAlert)
	_, _, err := c.ConfirmDetail("")
	assert.ErrorIs(t, err, ErrNoCurrentAlert)

	require.NoError(t, memoryFeed.Publish(context.Background(), models.Alert{ID: "a1", Timestamp: 100}))

	require.NoError(t, c.OpenDetail())
	assert.True(t, c.State().ModalOpen)

	// cancelling never acknowledges
	c.CancelDetail()
	view := c.State()
	assert.False(t, view.ModalOpen)
	require.NotNil(t, view.Current)
	assert.Equal(t, "a1", view.Current.ID)

	acknowledger.EXPECT().
		Acknowledge(gomock.Any(), gomock.Eq("a1"), gomock.Eq("supervisor")).
		Return(nil).
		Times(1)

	require.NoError(t, c.OpenDetail())
	alertID, result, err := c.ConfirmDetail("supervisor")
	require.NoError(t, err)
	assert.Equal(t, "a1", alertID)
	require.NoError(t, waitResult(t, result))

	view = c.State()
	assert.False(t, view.ModalOpen)
	assert.Nil(t, view.Current)
}

func TestConfirmDetailRacingPush(t *testing.T) {
	common.SetTestLoggerNop()
	acknowledger := mocks.NewMockIAcknowledger(gomock.NewController(t))
	acknowledger.EXPECT().Acknowledge(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	rig := newTestRig(t, acknowledger)
	rig.sound.EXPECT().Play().Return(nil).AnyTimes()
	rig.start(t)

	for i := 0; i < 50; i++ {
		i := i
		base := fmt.Sprintf("b%d", i)
		newer := fmt.Sprintf("n%d", i)
		rig.publish(t, models.Alert{ID: base, Timestamp: models.Millis(10 * (i + 1))})

		pushed := make(chan struct{})
		go func() {
			defer close(pushed)
			_ = rig.feed.Publish(context.Background(), models.Alert{ID: newer, Timestamp: models.Millis(10*(i+1) + 5)})
		}()
		alertID, result, err := rig.console.ConfirmDetail("supervisor")
		<-pushed
		require.NoError(t, err)
		require.NoError(t, waitResult(t, result))

		// whatever got cleared is exactly what got acknowledged
		current, ok := rig.console.Current()
		switch alertID {
		case base:
			require.True(t, ok, "round %d: %s cleared without being acknowledged", i, newer)
			assert.Equal(t, newer, current.ID)
		case newer:
			assert.False(t, ok)
		default:
			t.Fatalf("round %d: unexpected alert %s acknowledged", i, alertID)
		}
	}
}

func TestSoundFailureIsSwallowed(t *testing.T) {
	common.SetTestLoggerNop()
	rig := newTestRig(t, nil)
	rig.sound.EXPECT().Play().Return(errors.New("autoplay blocked")).Times(1)
	rig.start(t)

	rig.publish(t, models.Alert{ID: "a1", Timestamp: 100})

	current, ok := rig.console.Current()
	require.True(t, ok)
	assert.Equal(t, "a1", current.ID)
	assert.Len(t, rig.notifier.Shown(), 1)
	assert.Empty(t, rig.notifier.ShownOfKind(models.NotificationKindError))
}

func TestFeedErrorMarksDisconnected(t *testing.T) {
	common.SetTestLoggerNop()
	rig := newTestRig(t, nil)
	rig.sound.EXPECT().Play().Return(nil).AnyTimes()
	rig.start(t)

	rig.publish(t, models.Alert{ID: "a1", Timestamp: 100})
	rig.feed.Fail(errors.New("connection reset"))

	view := rig.console.State()
	assert.Equal(t, FeedStatusDisconnected, view.FeedStatus)
	require.NotNil(t, view.Current, "no alert is dropped or fabricated on feed errors")
	assert.Len(t, rig.notifier.Shown(), 1)

	rig.publish(t, models.Alert{ID: "a1", Timestamp: 100})
	assert.Equal(t, FeedStatusConnected, rig.console.State().FeedStatus)
}

func TestStartFailure(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)
	feedMock := mocks.NewMockIFeed(ctrl)
	feedMock.EXPECT().
		Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("dial tcp: refused")).
		Times(1)

	c := New(NewAlertChannel(feedMock, mocks.NewMockIAcknowledger(ctrl)), Opts{})
	defer c.Close()

	require.Error(t, c.Start(context.Background()))
	assert.Equal(t, FeedStatusDisconnected, c.State().FeedStatus)
}

func TestStartRetryAfterFailure(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)
	memoryFeed := feed.NewMemoryFeed()
	feedMock := mocks.NewMockIFeed(ctrl)
	gomock.InOrder(
		feedMock.EXPECT().
			Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("broker down")),
		feedMock.EXPECT().
			Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(memoryFeed.Subscribe),
	)

	c := New(NewAlertChannel(feedMock, memoryFeed), Opts{})
	defer c.Close()

	require.Error(t, c.Start(context.Background()))
	_, err := c.Acknowledge("a1")
	assert.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, FeedStatusConnected, c.State().FeedStatus)

	require.NoError(t, memoryFeed.Publish(context.Background(), models.Alert{ID: "a1", Timestamp: 100}))
	current, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "a1", current.ID)
}

func TestCloseUnsubscribes(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)
	feedMock := mocks.NewMockIFeed(ctrl)

	unsubscribed := 0
	feedMock.EXPECT().
		Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(func() { unsubscribed++ }, nil).
		Times(1)

	c := New(NewAlertChannel(feedMock, mocks.NewMockIAcknowledger(ctrl)), Opts{})
	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Start(context.Background()), "second start is a no-op")

	c.Close()
	c.Close()
	assert.Equal(t, 1, unsubscribed)
	assert.ErrorIs(t, c.Start(context.Background()), ErrClosed)
}

func TestJournalRecordsLifecycle(t *testing.T) {
	common.SetTestLoggerNop()
	ctrl := gomock.NewController(t)
	memoryFeed := feed.NewMemoryFeed()
	sound := mocks.NewMockISoundCue(ctrl)
	sound.EXPECT().Play().Return(nil).AnyTimes()
	journal := mocks.NewMockIJournal(ctrl)

	var kinds []models.JournalKind
	journal.EXPECT().Record(gomock.Any()).DoAndReturn(func(entry *models.JournalEntry) error {
		kinds = append(kinds, entry.Kind)
		return nil
	}).AnyTimes()

	c := New(NewAlertChannel(memoryFeed, memoryFeed), Opts{SoundCue: sound, Journal: journal})
	defer c.Close()
	require.NoError(t, c.Start(context.Background()))

	require.NoError(t, memoryFeed.Publish(context.Background(), models.Alert{ID: "a1", Timestamp: 100}))
	result, err := c.Acknowledge("a1")
	require.NoError(t, err)
	require.NoError(t, waitResult(t, result))

	require.NoError(t, memoryFeed.Publish(context.Background(), models.Alert{ID: "a2", Timestamp: 200}))
	memoryFeed.Remove("a2")

	assert.Equal(t, []models.JournalKind{
		models.JournalKindShown,
		models.JournalKindAcknowledged,
		models.JournalKindShown,
		models.JournalKindCleared,
	}, kinds)
}

func TestNewAlert_WithLog(t *testing.T) {
	var buf = &bytes.Buffer{}
	common.SetTestCaptureLogger(buf, zapcore.InfoLevel)

	rig := newTestRig(t, nil)
	rig.sound.EXPECT().Play().Return(nil).Times(1)
	rig.start(t)

	rig.publish(t, models.Alert{ID: "a1", HelmetID: "H-1002", Message: "Emergency button pressed", Timestamp: 100})

	found := false
	for _, lobj := range ParseLogs(buf) {
		if lobj["category"] == "feed" &&
			lobj["logger"] == "alert_console" &&
			lobj["msg"] == "New alert selected" &&
			lobj["alert"].(map[string]any)["id"] == "a1" &&
			lobj["alert"].(map[string]any)["helmetId"] == "H-1002" {
			found = true
		}
	}
	assert.True(t, found, "log not found")
}
