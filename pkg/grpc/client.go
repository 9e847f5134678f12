package grpc

import (
	"context"

	"google.golang.org/grpc"
)

type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) invoke(ctx context.Context, method string, in any, out any, opts ...grpc.CallOption) error {
	return c.conn.Invoke(ctx, method, in, out, append([]grpc.CallOption{grpc.ForceCodec(Codec)}, opts...)...)
}

func (c *Client) GetCurrent(ctx context.Context, opts ...grpc.CallOption) (*CurrentResponse, error) {
	out := new(CurrentResponse)
	if err := c.invoke(ctx, methodGetCurrent, &Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) OpenDetail(ctx context.Context, opts ...grpc.CallOption) (*CurrentResponse, error) {
	out := new(CurrentResponse)
	if err := c.invoke(ctx, methodOpenDetail, &Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelDetail(ctx context.Context, opts ...grpc.CallOption) (*CurrentResponse, error) {
	out := new(CurrentResponse)
	if err := c.invoke(ctx, methodCancelDetail, &Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Acknowledge(ctx context.Context, req *AcknowledgeRequest, opts ...grpc.CallOption) (*AcknowledgeResponse, error) {
	out := new(AcknowledgeResponse)
	if err := c.invoke(ctx, methodAcknowledge, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) PostLimiter(ctx context.Context, req *LimiterRequest, opts ...grpc.CallOption) (*LimiterResponse, error) {
	out := new(LimiterResponse)
	if err := c.invoke(ctx, methodPostLimiter, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
