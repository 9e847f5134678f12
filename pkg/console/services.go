package console

import (
	"context"

	"helmetwatch.xyz/alert-console/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_services.go -package=mocks helmetwatch.xyz/alert-console/pkg/console IFeed,IAcknowledger,INotifier,ISoundCue,IJournal

// IFeed pushes the full set of live alerts on every change. onSnapshot and
// onError must not be called after the returned unsubscribe has returned.
type IFeed interface {
	Subscribe(ctx context.Context, onSnapshot func([]models.Alert), onError func(error)) (func(), error)
}

type IAcknowledger interface {
	Acknowledge(ctx context.Context, alertID string, resolvedBy string) error
}

type INotifier interface {
	// Show displays n and returns its key. onExpire is called if the
	// notification goes away on its own, never for Retract.
	Show(n models.Notification, onExpire func(key string)) string
	Retract(key string)
}

type ISoundCue interface {
	Play() error
}

type IJournal interface {
	Record(entry *models.JournalEntry) error
}

// AlertChannel is the console's view of the backend: the live alert feed
// plus the acknowledgment call.
type AlertChannel interface {
	IFeed
	IAcknowledger
}

type alertChannel struct {
	IFeed
	IAcknowledger
}

func NewAlertChannel(feed IFeed, acknowledger IAcknowledger) AlertChannel {
	return &alertChannel{IFeed: feed, IAcknowledger: acknowledger}
}
