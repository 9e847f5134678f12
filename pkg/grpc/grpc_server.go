package grpc

import (
	"golang.org/x/time/rate"
	"helmetwatch.xyz/alert-console/pkg/console"
	"helmetwatch.xyz/alert-console/pkg/limiter"
)

type ConsoleServer struct {
	Console          *console.Console
	RateLimiterStore *limiter.Store
}

func (s *ConsoleServer) GetLimiter(operator string) *rate.Limiter {
	if s.RateLimiterStore == nil {
		return nil
	} else {
		return s.RateLimiterStore.GetLimiter(operator)
	}
}

func (s *ConsoleServer) CheckOperatorLimiter(operator string) bool {
	limiter := s.GetLimiter(operator)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

var _ AlertConsoleService = (*ConsoleServer)(nil)
