package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	serviceName = "alertconsole.AlertConsole"

	methodGetCurrent   = "/" + serviceName + "/GetCurrent"
	methodOpenDetail   = "/" + serviceName + "/OpenDetail"
	methodCancelDetail = "/" + serviceName + "/CancelDetail"
	methodAcknowledge  = "/" + serviceName + "/Acknowledge"
	methodPostLimiter  = "/" + serviceName + "/PostLimiter"
)

type AlertConsoleService interface {
	GetCurrent(context.Context, *Empty) (*CurrentResponse, error)
	OpenDetail(context.Context, *Empty) (*CurrentResponse, error)
	CancelDetail(context.Context, *Empty) (*CurrentResponse, error)
	Acknowledge(context.Context, *AcknowledgeRequest) (*AcknowledgeResponse, error)
	PostLimiter(context.Context, *LimiterRequest) (*LimiterResponse, error)
}

// methodHandler has the shape grpc.MethodDesc.Handler expects.
type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

func unaryHandler[Req any, Resp any](fullMethod string, call func(AlertConsoleService, context.Context, *Req) (*Resp, error)) methodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AlertConsoleService), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AlertConsoleService), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*AlertConsoleService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetCurrent", Handler: unaryHandler(methodGetCurrent, AlertConsoleService.GetCurrent)},
		{MethodName: "OpenDetail", Handler: unaryHandler(methodOpenDetail, AlertConsoleService.OpenDetail)},
		{MethodName: "CancelDetail", Handler: unaryHandler(methodCancelDetail, AlertConsoleService.CancelDetail)},
		{MethodName: "Acknowledge", Handler: unaryHandler(methodAcknowledge, AlertConsoleService.Acknowledge)},
		{MethodName: "PostLimiter", Handler: unaryHandler(methodPostLimiter, AlertConsoleService.PostLimiter)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alertconsole",
}

func RegisterAlertConsoleServer(s grpc.ServiceRegistrar, srv AlertConsoleService) {
	s.RegisterService(&serviceDesc, srv)
}

// NewServer builds a grpc.Server speaking the console codec.
func NewServer(opts ...grpc.ServerOption) *grpc.Server {
	return grpc.NewServer(append([]grpc.ServerOption{grpc.ForceServerCodec(Codec)}, opts...)...)
}
