package notify

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/models"
)

var ErrNoListener = errors.New("no operator client is listening")

type EventType string

const (
	EventOpen    EventType = "open"
	EventRetract EventType = "retract"
	EventSound   EventType = "sound"
)

// Event is what operator clients receive on the notification stream.
type Event struct {
	Type         EventType            `json:"type"`
	Key          string               `json:"key,omitempty"`
	Notification *models.Notification `json:"notification,omitempty"`
	Asset        string               `json:"asset,omitempty"`
	At           time.Time            `json:"at"`
}

type activeNotification struct {
	notification models.Notification
	timer        *time.Timer
	onExpire     func(key string)
}

// Hub fans transient notifications and sound cues out to operator clients
// and tracks which notifications are still on screen.
type Hub struct {
	soundAsset string
	logger     *zap.Logger

	mu          sync.Mutex
	active      map[string]*activeNotification
	subscribers map[int]chan Event
	nextSubID   int
}

func NewHub(soundAsset string) *Hub {
	if soundAsset == "" {
		soundAsset = "/alert.mp3"
	}
	return &Hub{
		soundAsset:  soundAsset,
		logger:      common.GetCategoryLogger(common.LoggerNameConsole, common.LoggerCategoryNotify),
		active:      make(map[string]*activeNotification),
		subscribers: make(map[int]chan Event),
	}
}

// Show publishes n and returns its key. A positive Duration retracts it
// automatically once elapsed, after which onExpire (if any) is called with
// the key. onExpire is not called for an explicit Retract.
func (h *Hub) Show(n models.Notification, onExpire func(key string)) string {
	if n.Key == "" {
		n.Key = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if previous, exists := h.active[n.Key]; exists && previous.timer != nil {
		previous.timer.Stop()
	}

	entry := &activeNotification{notification: n, onExpire: onExpire}
	if n.Duration > 0 {
		key := n.Key
		entry.timer = time.AfterFunc(n.Duration, func() {
			h.expire(key, entry)
		})
	}
	h.active[n.Key] = entry

	shown := n
	h.broadcastLocked(Event{Type: EventOpen, Key: n.Key, Notification: &shown, At: time.Now()})
	h.logger.Debug("Notification shown", zap.String("key", n.Key), zap.String("kind", string(n.Kind)))
	return n.Key
}

// Retract removes a notification. Unknown or expired keys are ignored.
func (h *Hub) Retract(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entry, exists := h.active[key]
	if !exists {
		return
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	h.retractLocked(key)
}

func (h *Hub) expire(key string, entry *activeNotification) {
	h.mu.Lock()
	// the key may have been re-shown with a new entry since the timer was set
	if current, exists := h.active[key]; !exists || current != entry {
		h.mu.Unlock()
		return
	}
	h.retractLocked(key)
	h.mu.Unlock()

	// called unlocked, callers may take their own locks and call back into the hub
	if entry.onExpire != nil {
		entry.onExpire(key)
	}
}

func (h *Hub) retractLocked(key string) {
	delete(h.active, key)
	h.broadcastLocked(Event{Type: EventRetract, Key: key, At: time.Now()})
	h.logger.Debug("Notification retracted", zap.String("key", key))
}

// Play asks every listening client to play the alert sound. It is best
// effort: without listeners it reports ErrNoListener.
func (h *Hub) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.subscribers) == 0 {
		return ErrNoListener
	}
	h.broadcastLocked(Event{Type: EventSound, Asset: h.soundAsset, At: time.Now()})
	return nil
}

// Active lists the notifications currently on screen, oldest first.
func (h *Hub) Active() []models.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := make([]models.Notification, 0, len(h.active))
	for _, entry := range h.active {
		list = append(list, entry.notification)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

// Subscribe returns a stream of events and a function to stop it. Events
// are dropped for a subscriber whose buffer is full.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextSubID
	h.nextSubID++
	ch := make(chan Event, buffer)
	h.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, id)
			close(ch)
		})
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) broadcastLocked(ev Event) {
	for id, ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			h.logger.Warn("Dropping event for slow subscriber", zap.Int("subscriber", id), zap.String("type", string(ev.Type)))
		}
	}
}
