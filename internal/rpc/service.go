// Package rpc exposes the crackers and the cipher operations as the
// monocrack.v1.Cracker gRPC service. Messages are google.protobuf.Struct
// values carrying the same fields as the REST API bodies.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "monocrack.v1.Cracker"

const (
	methodCrack   = "/" + ServiceName + "/Crack"
	methodEncrypt = "/" + ServiceName + "/Encrypt"
	methodDecrypt = "/" + ServiceName + "/Decrypt"
	methodDetect  = "/" + ServiceName + "/Detect"
)

// CrackerServer is the server API for the Cracker service.
type CrackerServer interface {
	Crack(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Encrypt(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Decrypt(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Detect(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterCrackerServer registers srv with s.
func RegisterCrackerServer(s grpc.ServiceRegistrar, srv CrackerServer) {
	s.RegisterService(&crackerServiceDesc, srv)
}

func unaryHandler(method string, call func(CrackerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CrackerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CrackerServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var crackerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CrackerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Crack", Handler: unaryHandler(methodCrack, CrackerServer.Crack)},
		{MethodName: "Encrypt", Handler: unaryHandler(methodEncrypt, CrackerServer.Encrypt)},
		{MethodName: "Decrypt", Handler: unaryHandler(methodDecrypt, CrackerServer.Decrypt)},
		{MethodName: "Detect", Handler: unaryHandler(methodDetect, CrackerServer.Detect)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "monocrack/v1/cracker.proto",
}

// CrackerClient is the client API for the Cracker service.
type CrackerClient interface {
	Crack(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Encrypt(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Decrypt(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Detect(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type crackerClient struct {
	cc grpc.ClientConnInterface
}

// NewCrackerClient returns a client for the Cracker service on cc.
func NewCrackerClient(cc grpc.ClientConnInterface) CrackerClient {
	return &crackerClient{cc: cc}
}

func (c *crackerClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *crackerClient) Crack(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodCrack, in, opts)
}

func (c *crackerClient) Encrypt(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodEncrypt, in, opts)
}

func (c *crackerClient) Decrypt(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodDecrypt, in, opts)
}

func (c *crackerClient) Detect(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, methodDetect, in, opts)
}
