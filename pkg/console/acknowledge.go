package console

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/models"
)

// Acknowledge relays an acknowledgment using the console's own actor.
func (c *Console) Acknowledge(alertID string) (<-chan error, error) {
	return c.AcknowledgeAs(alertID, c.actor)
}

// AcknowledgeAs clears the local alert state right away and relays the
// acknowledgment to the backend in the background. The local clear is not
// rolled back on failure: an alert the backend never recorded comes back with
// the next feed push. The returned channel receives the backend outcome once.
func (c *Console) AcknowledgeAs(alertID string, actor string) (<-chan error, error) {
	alertID = strings.TrimSpace(alertID)
	if alertID == "" {
		return nil, ErrEmptyAlertID
	}
	_, result, err := c.acknowledge(func() (string, error) { return alertID, nil }, actor)
	return result, err
}

// acknowledge resolves the target alert with pick and clears the local state
// in the same critical section, so a push can not slip in between.
func (c *Console) acknowledge(pick func() (string, error), actor string) (string, <-chan error, error) {
	actor = common.FirstNonBlank(actor, c.actor)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", nil, ErrClosed
	}
	if !c.started {
		c.mu.Unlock()
		return "", nil, ErrNotStarted
	}
	alertID, err := pick()
	if err != nil {
		c.mu.Unlock()
		return "", nil, err
	}

	logger := c.logger(common.LoggerCategoryAck)
	if c.current != nil && c.current.ID != alertID {
		logger.Warn("Acknowledging an alert that is not the current one",
			zap.String("alert_id", alertID), zap.String("current_alert_id", c.current.ID))
	}

	c.retractLocked()
	c.modalOpen = false
	c.current = nil

	ctx, cancel := context.WithTimeout(c.ctx, c.ackTimeout)
	c.inflight.Add(1)
	c.mu.Unlock()

	logger.Info("Sending acknowledgment", zap.String("alert_id", alertID), zap.String("resolved_by", actor))

	result := make(chan error, 1)
	go func() {
		defer c.inflight.Done()
		defer cancel()

		err := c.channel.Acknowledge(ctx, alertID, actor)
		c.finishAcknowledge(alertID, actor, err)
		result <- err
		close(result)
	}()

	return alertID, result, nil
}

func (c *Console) finishAcknowledge(alertID string, actor string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger := c.logger(common.LoggerCategoryAck)
	if c.closed {
		logger.Debug("Discarding acknowledgment result after close",
			zap.String("alert_id", alertID), zap.Error(err))
		return
	}

	if err != nil {
		logger.Error("Acknowledgment failed", zap.String("alert_id", alertID), zap.Error(err))
		c.notifier.Show(errorNotification(alertID, err), nil)
		c.record(models.JournalEntry{
			AlertID: alertID,
			Kind:    models.JournalKindAckFailed,
			Actor:   actor,
			Detail:  err.Error(),
		})
		return
	}

	logger.Info("Acknowledgment accepted", zap.String("alert_id", alertID), zap.String("resolved_by", actor))
	c.record(models.JournalEntry{
		AlertID: alertID,
		Kind:    models.JournalKindAcknowledged,
		Actor:   actor,
	})
}
