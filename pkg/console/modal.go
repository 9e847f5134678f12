package console

import (
	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
)

// OpenDetail opens the detail view of the current alert. The view is only
// ever opened by an operator, never by a feed push.
func (c *Console) OpenDetail() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.current == nil {
		return ErrNoCurrentAlert
	}
	c.modalOpen = true
	c.logger(common.LoggerCategoryModal).Debug("Detail view opened", zap.String("alert_id", c.current.ID))
	return nil
}

// CancelDetail closes the detail view without acknowledging anything.
func (c *Console) CancelDetail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modalOpen = false
}

// ConfirmDetail acknowledges the current alert as actor and returns its id.
func (c *Console) ConfirmDetail(actor string) (string, <-chan error, error) {
	return c.acknowledge(func() (string, error) {
		if c.current == nil {
			return "", ErrNoCurrentAlert
		}
		return c.current.ID, nil
	}, actor)
}
