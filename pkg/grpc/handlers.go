package grpc

import (
	"context"
	"fmt"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"helmetwatch.xyz/alert-console/pkg/common"
)

func validateNonEmpty(value *string) z.ZogIssueList {
	var validator = z.String().Min(1).Required()
	return validator.Validate(value)
}

func okStatus() *StatusResponse {
	return &StatusResponse{Success: true, Message: "OK"}
}

func (s *ConsoleServer) currentResponse() *CurrentResponse {
	view := s.Console.State()
	return &CurrentResponse{Status: okStatus(), View: &view}
}

func (s *ConsoleServer) GetCurrent(ctx context.Context, _ *Empty) (*CurrentResponse, error) {
	return s.currentResponse(), nil
}

func (s *ConsoleServer) OpenDetail(ctx context.Context, _ *Empty) (*CurrentResponse, error) {
	if err := s.Console.OpenDetail(); err != nil {
		return &CurrentResponse{Status: &StatusResponse{Success: false, Message: err.Error()}}, nil
	}
	return s.currentResponse(), nil
}

func (s *ConsoleServer) CancelDetail(ctx context.Context, _ *Empty) (*CurrentResponse, error) {
	s.Console.CancelDetail()
	return s.currentResponse(), nil
}

// Acknowledge returns once the local state is cleared. A backend failure is
// reported to operators as an error notification.
func (s *ConsoleServer) Acknowledge(ctx context.Context, req *AcknowledgeRequest) (*AcknowledgeResponse, error) {
	if err := validateNonEmpty(&req.AlertId); err != nil {
		return &AcknowledgeResponse{Status: &StatusResponse{Success: false, Message: fmt.Sprintf("validation error: %v", err)}}, nil
	}
	if err := validateNonEmpty(&req.ResolvedBy); err != nil {
		return &AcknowledgeResponse{Status: &StatusResponse{Success: false, Message: fmt.Sprintf("validation error: %v", err)}}, nil
	}

	if _, err := s.Console.AcknowledgeAs(req.AlertId, req.ResolvedBy); err != nil {
		common.GetLoggerWith(common.LoggerNameGrpcServer).
			Warn("Acknowledgment refused", zap.String("alert_id", req.AlertId), zap.Error(err))
		return &AcknowledgeResponse{
			Status:  &StatusResponse{Success: false, Message: err.Error()},
			AlertId: req.AlertId,
		}, nil
	}

	return &AcknowledgeResponse{
		Status:     okStatus(),
		AlertId:    req.AlertId,
		ResolvedBy: req.ResolvedBy,
	}, nil
}

func (s *ConsoleServer) PostLimiter(ctx context.Context, req *LimiterRequest) (*LimiterResponse, error) {
	if err := validateNonEmpty(&req.Operator); err != nil {
		return &LimiterResponse{Status: &StatusResponse{Success: false, Message: fmt.Sprintf("validation error: %v", err)}}, nil
	}

	var rateValidator = z.Float64().Required()
	if err := rateValidator.Validate(&req.OperatorRate); err != nil {
		return &LimiterResponse{Status: &StatusResponse{Success: false, Message: fmt.Sprintf("validation error: %v", err)}}, nil
	}

	var burstValidator = z.Int32().Required()
	if err := burstValidator.Validate(&req.OperatorBurst); err != nil {
		return &LimiterResponse{Status: &StatusResponse{Success: false, Message: fmt.Sprintf("validation error: %v", err)}}, nil
	}

	if s.RateLimiterStore == nil {
		return &LimiterResponse{
			Status: &StatusResponse{
				Success: false,
				Message: "RateLimiterStore is not used. No effect.",
			},
		}, nil
	}

	s.RateLimiterStore.SetLimiter(req.Operator, rate.Limit(req.OperatorRate), int(req.OperatorBurst))
	return &LimiterResponse{Status: okStatus()}, nil
}
