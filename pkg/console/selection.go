package console

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/models"
)

// SelectLatest returns the unacknowledged alert with the largest timestamp.
// On equal timestamps the one seen last wins.
func SelectLatest(alerts []models.Alert) (models.Alert, bool) {
	var latest models.Alert
	found := false
	for _, alert := range alerts {
		if alert.Acknowledged || alert.ID == "" {
			continue
		}
		if !found || alert.Timestamp >= latest.Timestamp {
			latest = alert
			found = true
		}
	}
	return latest, found
}

func (c *Console) handleSnapshot(alerts []models.Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	logger := c.logger(common.LoggerCategoryFeed)
	c.feedStatus = FeedStatusConnected

	latest, ok := SelectLatest(alerts)
	if !ok {
		if c.current != nil {
			logger.Info("No unacknowledged alerts left, clearing current alert",
				zap.String("alert_id", c.current.ID))
			c.record(models.JournalEntry{
				AlertID: c.current.ID,
				Kind:    models.JournalKindCleared,
				Detail:  "feed has no unacknowledged alerts",
			})
		}
		c.current = nil
		c.modalOpen = false
		c.retractLocked()
		return
	}

	if c.current != nil && c.current.ID == latest.ID {
		// same alert pushed again
		return
	}

	logger.Info("New alert selected", zap.Reflect("alert", latest), zap.Int("snapshot_size", len(alerts)))

	c.current = &latest
	// an open detail view belonged to the previous alert
	c.modalOpen = false
	c.retractLocked()
	c.activeNotificationKey = c.notifier.Show(alertNotification(latest, c.notificationTTL), c.notificationExpired)
	c.playSound()

	c.record(models.JournalEntry{
		AlertID:  latest.ID,
		Kind:     models.JournalKindShown,
		Message:  latest.Message,
		HelmetID: latest.HelmetID,
		Location: latest.Location,
	})
}

// notificationExpired forgets the alert notification once the notifier has
// dismissed it on its own. The alert itself stays current.
func (c *Console) notificationExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeNotificationKey != key {
		return
	}
	c.activeNotificationKey = ""
	c.logger(common.LoggerCategoryNotify).Debug("Alert notification expired", zap.String("key", key))
}

func (c *Console) handleFeedError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.feedStatus = FeedStatusDisconnected
	c.logger(common.LoggerCategoryFeed).Error("Feed error", zap.Error(err))
}

func (c *Console) playSound() {
	if c.soundCue == nil {
		return
	}
	if err := c.soundCue.Play(); err != nil {
		c.logger(common.LoggerCategoryNotify).Debug("Alert sound not played", zap.Error(err))
	}
}

func alertNotification(alert models.Alert, ttl time.Duration) models.Notification {
	return models.Notification{
		Kind:     models.NotificationKindAlert,
		Title:    "Emergency Alert",
		Message:  alert.Message,
		AlertID:  alert.ID,
		HelmetID: alert.HelmetID,
		Location: alert.Location,
		Actions:  []string{models.NotificationActionAcknowledge},
		Duration: ttl,
	}
}

func errorNotification(alertID string, err error) models.Notification {
	return models.Notification{
		Kind:     models.NotificationKindError,
		Title:    "Acknowledgment failed",
		Message:  fmt.Sprintf("Could not acknowledge alert %s: %v", alertID, err),
		AlertID:  alertID,
		Duration: errorNotificationTTL,
	}
}
