package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Fully qualified service and method names.
const (
	ServiceName = "motd.v1.Motd"
	ReadMethod  = "/" + ServiceName + "/Read"
	WriteMethod = "/" + ServiceName + "/Write"
)

// MotdServer is the server API for the motd.v1.Motd service.
// Payloads are protobuf well-known types, so no generated code is needed.
type MotdServer interface {
	Read(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Write(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// ServiceDesc describes motd.v1.Motd for grpc.ServiceRegistrar.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MotdServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Read", Handler: readHandler},
		{MethodName: "Write", Handler: writeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "motd/v1/motd.proto",
}

// RegisterMotdServer registers srv on s.
func RegisterMotdServer(s grpc.ServiceRegistrar, srv MotdServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func readHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MotdServer).Read(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReadMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MotdServer).Read(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func writeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MotdServer).Write(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: WriteMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MotdServer).Write(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
