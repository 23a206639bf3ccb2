package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"mtkeras/internal/domain"
	"mtkeras/internal/oracle"
)

// Client is an oracle.Oracle backed by a remote Oracle service. It is also an
// oracle.ClassPredictor, so oracle.Classifier{Model: c} preprocesses images
// locally and classifies them remotely.
type Client struct {
	cc *grpc.ClientConn
}

// Dial connects lazily to addr. Extra options are appended after the
// insecure transport credentials.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	cc, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc}, nil
}

func (c *Client) Invoke(ctx context.Context, kind domain.Kind, ds domain.Dataset) ([]domain.Output, error) {
	req, err := encodeRequest(kind, ds)
	if err != nil {
		return nil, err
	}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, predictMethod, req, resp); err != nil {
		return nil, domain.OracleFailureError{Oracle: "grpc", Index: -1, Err: err}
	}
	return decodeOutputs(resp)
}

func (c *Client) PredictClasses(ctx context.Context, in []oracle.Tensor) ([]int, error) {
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, classifyMethod, encodeTensors(in), resp); err != nil {
		return nil, err
	}
	return decodeClasses(resp)
}

func (c *Client) Close() error { return c.cc.Close() }
