package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"helmetwatch.xyz/alert-console/pkg/common"
	"helmetwatch.xyz/alert-console/pkg/console"
	"helmetwatch.xyz/alert-console/pkg/models"
	"helmetwatch.xyz/alert-console/pkg/notify"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

const streamBuffer = 32

type AcknowledgeRequest struct {
	ResolvedBy string `json:"resolvedBy"`
}

var acknowledgeRequestSchema = z.Struct(z.Shape{
	"resolvedBy": z.String().Min(1).Required(),
})

type AcknowledgeAccepted struct {
	AlertID    string `json:"alertId"`
	ResolvedBy string `json:"resolvedBy"`
	Accepted   bool   `json:"accepted"`
}

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameRestfulServer)
}

// consoleErrorStatus maps console errors onto HTTP status codes.
func consoleErrorStatus(err error) int {
	switch {
	case errors.Is(err, console.ErrEmptyAlertID):
		return http.StatusBadRequest
	case errors.Is(err, console.ErrNoCurrentAlert):
		return http.StatusConflict
	case errors.Is(err, console.ErrClosed), errors.Is(err, console.ErrNotStarted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (rs *RestfulServer) GetCurrent(c *gin.Context) {
	c.JSON(http.StatusOK, rs.Console.State())
}

func (rs *RestfulServer) OpenDetail(c *gin.Context) {
	if err := rs.Console.OpenDetail(); err != nil {
		c.JSON(consoleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rs.Console.State())
}

func (rs *RestfulServer) CancelDetail(c *gin.Context) {
	rs.Console.CancelDetail()
	c.JSON(http.StatusOK, rs.Console.State())
}

func (rs *RestfulServer) ConfirmDetail(c *gin.Context) {
	var req AcknowledgeRequest
	if err := acknowledgeRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.CheckOperatorLimiter(req.ResolvedBy) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	alertID, _, err := rs.Console.ConfirmDetail(req.ResolvedBy)
	if err != nil {
		logger().Warn("Confirmation refused", zap.Error(err))
		c.JSON(consoleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, AcknowledgeAccepted{
		AlertID:    alertID,
		ResolvedBy: req.ResolvedBy,
		Accepted:   true,
	})
}

func (rs *RestfulServer) AcknowledgeAlert(c *gin.Context) {
	alertID := c.Param("alert_id")

	var req AcknowledgeRequest
	if err := acknowledgeRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	if !rs.CheckOperatorLimiter(req.ResolvedBy) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	rs.acknowledge(c, alertID, req.ResolvedBy)
}

// acknowledge answers once the local state is cleared. The backend outcome
// reaches operators as an error notification, not through this response.
func (rs *RestfulServer) acknowledge(c *gin.Context, alertID string, resolvedBy string) {
	if _, err := rs.Console.AcknowledgeAs(alertID, resolvedBy); err != nil {
		logger().Warn("Acknowledgment refused", zap.String("alert_id", alertID), zap.Error(err))
		c.JSON(consoleErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, AcknowledgeAccepted{
		AlertID:    alertID,
		ResolvedBy: resolvedBy,
		Accepted:   true,
	})
}

func (rs *RestfulServer) GetNotifications(c *gin.Context) {
	if rs.Hub == nil {
		c.JSON(http.StatusOK, []models.Notification{})
		return
	}
	c.JSON(http.StatusOK, rs.Hub.Active())
}

// StreamNotifications replays the notifications on screen and then follows
// the hub as server-sent events.
func (rs *RestfulServer) StreamNotifications(c *gin.Context) {
	if rs.Hub == nil {
		c.Status(http.StatusNotFound)
		return
	}

	events, stop := rs.Hub.Subscribe(streamBuffer)
	defer stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	for _, n := range rs.Hub.Active() {
		shown := n
		c.SSEvent(string(notify.EventOpen), notify.Event{
			Type:         notify.EventOpen,
			Key:          shown.Key,
			Notification: &shown,
			At:           shown.CreatedAt,
		})
	}
	c.Writer.Flush()

	logger().Info("Notification stream opened", zap.String("remote", c.ClientIP()))

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	logger().Info("Notification stream closed", zap.String("remote", c.ClientIP()))
}

func (rs *RestfulServer) GetJournal(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		var err error
		if limit, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit should be an int value"})
			return
		}
	}

	if rs.Journal == nil {
		c.JSON(http.StatusOK, []models.JournalEntry{})
		return
	}

	var entries []models.JournalEntry
	var err error
	if alertID := c.Query("alert_id"); alertID != "" {
		entries, err = rs.Journal.ListForAlert(alertID)
	} else {
		entries, err = rs.Journal.List(limit)
	}
	if err != nil {
		logger().Error("Failed to list journal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	operator := c.Param("operator")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(operator, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
