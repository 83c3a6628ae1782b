package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/and161185/motd/internal/convert"
	"github.com/and161185/motd/internal/model"
)

// Client calls motd.v1.Motd over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

// Read fetches a random message. ok is false when the store is empty.
func (c *Client) Read(ctx context.Context, opts ...grpc.CallOption) (m model.Message, ok bool, err error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ReadMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return model.Message{}, false, err
	}
	if convert.IsEmpty(out) {
		return model.Message{}, false, nil
	}
	m, err = convert.FromProtoMessage(out)
	if err != nil {
		return model.Message{}, false, err
	}
	return m, true, nil
}

// Write appends text as userID, authenticated by the one-time code.
func (c *Client) Write(ctx context.Context, userID, code, text string, opts ...grpc.CallOption) (model.Message, error) {
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", BasicAuthValue(userID, code))
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, WriteMethod, wrapperspb.String(text), out, opts...); err != nil {
		return model.Message{}, err
	}
	return convert.FromProtoMessage(out)
}
