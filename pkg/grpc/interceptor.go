package grpc

import (
	"context"
	"reflect"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"helmetwatch.xyz/alert-console/pkg/common"
)

// CreateRateLimitInterceptor limits the given request types per operator.
func (s *ConsoleServer) CreateRateLimitInterceptor(targetReqTypes []any) grpc.UnaryServerInterceptor {
	targetTypeMap := common.Reducer(targetReqTypes,
		func(m map[reflect.Type]bool, t any) map[reflect.Type]bool {
			m[reflect.TypeOf(t)] = true
			return m
		},
		map[reflect.Type]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetTypeMap[reflect.TypeOf(req)]; ok {
			if r, ok := req.(interface{ GetOperator() string }); ok {
				operator := r.GetOperator()
				if !s.CheckOperatorLimiter(operator) {
					common.GetLoggerWith(common.LoggerNameGrpcServer).
						Warn("Rate limit exceeded", zap.String("method", info.FullMethod), zap.String("operator", operator))
					return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
				}
			}
		}

		return handler(ctx, req)
	}
}
