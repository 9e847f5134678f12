package console

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/models"
)

var (
	ErrEmptyAlertID   = errors.New("alert id can not be empty")
	ErrNoCurrentAlert = errors.New("no current alert")
	ErrClosed         = errors.New("alert console is closed")
	ErrNotStarted     = errors.New("alert console is not started")
)

type FeedStatus string

const (
	FeedStatusConnecting   FeedStatus = "connecting"
	FeedStatusConnected    FeedStatus = "connected"
	FeedStatusDisconnected FeedStatus = "disconnected"
)

const (
	defaultNotificationTTL = 30 * time.Second
	defaultAckTimeout      = 10 * time.Second
	defaultActor           = "operator"
	errorNotificationTTL   = 6 * time.Second
)

type Opts struct {
	Notifier INotifier
	SoundCue ISoundCue
	Journal  IJournal

	// Actor is sent as resolvedBy when no operator identity is given.
	Actor           string
	NotificationTTL time.Duration
	AckTimeout      time.Duration
}

// View is a read-only copy of the console state.
type View struct {
	Current               *models.Alert `json:"current"`
	ModalOpen             bool          `json:"modalOpen"`
	ActiveNotificationKey string        `json:"activeNotificationKey,omitempty"`
	FeedStatus            FeedStatus    `json:"feedStatus"`
}

// Console holds the single current alert slot, surfaces new alerts to the
// operator and relays acknowledgments to the backend. Every handler runs
// under mu, so feed pushes and operator actions never interleave.
type Console struct {
	channel  AlertChannel
	notifier INotifier
	soundCue ISoundCue
	journal  IJournal

	actor           string
	notificationTTL time.Duration
	ackTimeout      time.Duration

	mu                    sync.Mutex
	current               *models.Alert
	modalOpen             bool
	activeNotificationKey string
	feedStatus            FeedStatus

	started     bool
	closed      bool
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	inflight    sync.WaitGroup
}

func New(channel AlertChannel, opts Opts) *Console {
	c := &Console{
		channel:         channel,
		notifier:        opts.Notifier,
		soundCue:        opts.SoundCue,
		journal:         opts.Journal,
		actor:           common.FirstNonBlank(opts.Actor, defaultActor),
		notificationTTL: opts.NotificationTTL,
		ackTimeout:      opts.AckTimeout,
		feedStatus:      FeedStatusConnecting,
	}
	if c.notificationTTL <= 0 {
		c.notificationTTL = defaultNotificationTTL
	}
	if c.ackTimeout <= 0 {
		c.ackTimeout = defaultAckTimeout
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	return c
}

// Start subscribes to the feed. The subscription lives until Close or until
// ctx is cancelled. A failed Start may be retried.
func (c *Console) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true
	c.mu.Unlock()

	unsubscribe, err := c.channel.Subscribe(c.ctx, c.handleSnapshot, c.handleFeedError)
	if err != nil {
		c.logger(common.LoggerCategoryFeed).Error("Feed subscription failed", zap.Error(err))
		c.mu.Lock()
		c.feedStatus = FeedStatusDisconnected
		// leave the console startable again
		c.started = false
		c.cancel()
		c.ctx, c.cancel = nil, nil
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		// closed while subscribing
		unsubscribe()
		return ErrClosed
	}
	c.unsubscribe = unsubscribe
	return nil
}

// Close tears the subscription down and discards the outcome of any
// acknowledgment still in flight. It waits for those calls to return.
func (c *Console) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	c.inflight.Wait()

	c.logger(common.LoggerCategoryFeed).Info("Alert console closed")
}

func (c *Console) State() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := View{
		ModalOpen:             c.modalOpen,
		ActiveNotificationKey: c.activeNotificationKey,
		FeedStatus:            c.feedStatus,
	}
	if c.current != nil {
		current := *c.current
		view.Current = &current
	}
	return view
}

// Current returns the alert currently surfaced, if any.
func (c *Console) Current() (models.Alert, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return models.Alert{}, false
	}
	return *c.current, true
}

func (c *Console) logger(category string) *zap.Logger {
	return common.GetCategoryLogger(common.LoggerNameConsole, category)
}

// retractLocked must be called with mu held.
func (c *Console) retractLocked() {
	if c.activeNotificationKey == "" {
		return
	}
	c.notifier.Retract(c.activeNotificationKey)
	c.activeNotificationKey = ""
}

func (c *Console) record(entry models.JournalEntry) {
	if c.journal == nil {
		return
	}
	if err := c.journal.Record(&entry); err != nil {
		c.logger(common.LoggerCategoryNotify).Warn("Failed to write journal entry",
			zap.String("alert_id", entry.AlertID), zap.Error(err))
	}
}

type nopNotifier struct{}

func (nopNotifier) Show(n models.Notification, _ func(string)) string { return n.Key }
func (nopNotifier) Retract(string)                                    {}
