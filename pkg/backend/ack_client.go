package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/models"
)

var ErrAcknowledgeRejected = errors.New("acknowledgment rejected by backend")

// AckClient relays operator acknowledgments to the alert REST API.
type AckClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

type AckClientOpts struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

func NewAckClient(opts AckClientOpts) *AckClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &AckClient{
		httpClient: client,
		logger:     common.GetCategoryLogger(common.LoggerNameBackend, common.LoggerCategoryAck),
	}
}

// Acknowledge calls PUT /alerts/{alertId}/acknowledge. Any non-2xx answer or
// a body with success=false is an error.
func (c *AckClient) Acknowledge(ctx context.Context, alertID string, resolvedBy string) error {
	var response models.AcknowledgeResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("alertId", alertID).
		SetBody(models.AcknowledgeRequest{ResolvedBy: resolvedBy}).
		SetResult(&response).
		SetError(&response).
		Put("/alerts/{alertId}/acknowledge")

	if err != nil {
		c.logger.Error("Acknowledge API call failed", zap.String("alert_id", alertID), zap.Error(err))
		return fmt.Errorf("failed to call acknowledge API: %w", err)
	}

	if resp.IsError() || resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		c.logger.Error("Acknowledge API returned error status",
			zap.String("alert_id", alertID),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("msg", response.Message),
		)
		return fmt.Errorf("%w: status %d: %s", ErrAcknowledgeRejected, resp.StatusCode(), messageOr(response.Message, resp.Status()))
	}

	if !response.Success {
		c.logger.Error("Acknowledge API reported failure",
			zap.String("alert_id", alertID),
			zap.String("msg", response.Message),
		)
		return fmt.Errorf("%w: %s", ErrAcknowledgeRejected, messageOr(response.Message, "success=false"))
	}

	c.logger.Info("Alert acknowledged by backend", zap.String("alert_id", alertID), zap.String("resolved_by", resolvedBy))
	return nil
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
