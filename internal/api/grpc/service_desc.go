package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const servicePackage = "clubhub.v1."

// unary adapts a typed handler method to a grpc.MethodDesc. Domain errors are
// converted to status errors before interceptors see the result.
func unary[Req, Resp any](service, method string, call func(context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(_ any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				resp, err := call(ctx, req.(*Req))
				if err != nil {
					return nil, toStatus(ctx, err)
				}
				return resp, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{FullMethod: fullMethod}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func serviceDesc(service string, methods ...grpc.MethodDesc) *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: service,
		HandlerType: (*any)(nil),
		Methods:     methods,
		Streams:     []grpc.StreamDesc{},
		Metadata:    "clubhub/v1/" + service + ".json",
	}
}

// SuccessResponse is returned by calls that have nothing else to report.
type SuccessResponse struct {
	Success bool `json:"success"`
}

type Empty struct{}
