package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "gbapi.v1.FlattenService"

// Full method names, as seen by interceptors.
const (
	FlattenMethod          = "/" + serviceName + "/Flatten"
	CheckSaturationMethod  = "/" + serviceName + "/CheckSaturation"
	ExtractSequencesMethod = "/" + serviceName + "/ExtractSequences"
)

// FlattenServiceDesc describes gbapi.v1.FlattenService for grpc.Server.
var FlattenServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*FlattenServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Flatten", Handler: unaryHandler(FlattenMethod, FlattenServer.Flatten)},
		{MethodName: "CheckSaturation", Handler: unaryHandler(CheckSaturationMethod, FlattenServer.CheckSaturation)},
		{MethodName: "ExtractSequences", Handler: unaryHandler(ExtractSequencesMethod, FlattenServer.ExtractSequences)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gbapi/v1/flatten.proto",
}

// RegisterFlattenServer registers srv on s.
func RegisterFlattenServer(s grpc.ServiceRegistrar, srv FlattenServer) {
	s.RegisterService(&FlattenServiceDesc, srv)
}

type unaryMethod func(FlattenServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FlattenServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FlattenServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FlattenClient calls gbapi.v1.FlattenService.
type FlattenClient struct {
	cc grpc.ClientConnInterface
}

// NewFlattenClient wraps an established connection.
func NewFlattenClient(cc grpc.ClientConnInterface) *FlattenClient {
	return &FlattenClient{cc: cc}
}

func (c *FlattenClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FlattenClient) Flatten(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, FlattenMethod, in, opts...)
}

func (c *FlattenClient) CheckSaturation(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CheckSaturationMethod, in, opts...)
}

func (c *FlattenClient) ExtractSequences(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ExtractSequencesMethod, in, opts...)
}
