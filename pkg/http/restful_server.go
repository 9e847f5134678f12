package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"helmetwatch.xyz/alert-console/pkg/console"
	"helmetwatch.xyz/alert-console/pkg/journal"
	"helmetwatch.xyz/alert-console/pkg/limiter"
	"helmetwatch.xyz/alert-console/pkg/notify"
)

type RestfulServer struct {
	Server           *gin.Engine
	Console          *console.Console
	Hub              *notify.Hub
	Journal          *journal.Journal
	RateLimiterStore *limiter.Store
}

func (rs *RestfulServer) GetLimiter(operator string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(operator)
	}
}

func (rs *RestfulServer) CheckOperatorLimiter(operator string) bool {
	limiter := rs.GetLimiter(operator)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(operator string, operatorRate float64, operatorBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(operator, rate.Limit(operatorRate), operatorBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	current := rs.Server.Group("/alert/current")
	{
		current.GET("", rs.GetCurrent)
		current.POST("/view", rs.OpenDetail)
		current.POST("/cancel", rs.CancelDetail)
		current.POST("/confirm", rs.ConfirmDetail)
	}

	rs.Server.POST("/alerts/:alert_id/acknowledge", rs.AcknowledgeAlert)

	notifications := rs.Server.Group("/notifications")
	{
		notifications.GET("", rs.GetNotifications)
		notifications.GET("/stream", rs.StreamNotifications)
	}

	rs.Server.GET("/journal", rs.GetJournal)
	rs.Server.POST("/operators/:operator/limiter", rs.PostLimiter)
}
