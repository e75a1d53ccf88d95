package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// BookServiceName is the fully qualified gRPC service name.
const BookServiceName = "taletrail.v1.BookService"

// Full method names.
const (
	BookServiceGetRecommendationsMethod = "/" + BookServiceName + "/GetRecommendations"
	BookServiceGetSimilarBooksMethod    = "/" + BookServiceName + "/GetSimilarBooks"
	BookServiceGetTrendingBooksMethod   = "/" + BookServiceName + "/GetTrendingBooks"
	BookServiceRateBookMethod           = "/" + BookServiceName + "/RateBook"
)

// BookServiceServer is the server API of the book service.
type BookServiceServer interface {
	GetRecommendations(context.Context, *GetRecommendationsRequest) (*GetRecommendationsResponse, error)
	GetSimilarBooks(context.Context, *GetSimilarBooksRequest) (*GetSimilarBooksResponse, error)
	GetTrendingBooks(context.Context, *GetTrendingBooksRequest) (*GetTrendingBooksResponse, error)
	RateBook(context.Context, *RateBookRequest) (*RateBookResponse, error)
}

// UnimplementedBookServiceServer can be embedded to have forward compatible implementations.
type UnimplementedBookServiceServer struct{}

func (UnimplementedBookServiceServer) GetRecommendations(context.Context, *GetRecommendationsRequest) (*GetRecommendationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRecommendations not implemented")
}

func (UnimplementedBookServiceServer) GetSimilarBooks(context.Context, *GetSimilarBooksRequest) (*GetSimilarBooksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSimilarBooks not implemented")
}

func (UnimplementedBookServiceServer) GetTrendingBooks(context.Context, *GetTrendingBooksRequest) (*GetTrendingBooksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTrendingBooks not implemented")
}

func (UnimplementedBookServiceServer) RateBook(context.Context, *RateBookRequest) (*RateBookResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RateBook not implemented")
}

// RegisterBookServiceServer registers srv on s.
func RegisterBookServiceServer(s grpc.ServiceRegistrar, srv BookServiceServer) {
	s.RegisterService(&BookServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[Req any, Resp any](method string, call func(BookServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BookServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BookServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// BookServiceDesc is the grpc.ServiceDesc of the book service.
var BookServiceDesc = grpc.ServiceDesc{
	ServiceName: BookServiceName,
	HandlerType: (*BookServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetRecommendations",
			Handler:    unaryHandler(BookServiceGetRecommendationsMethod, BookServiceServer.GetRecommendations),
		},
		{
			MethodName: "GetSimilarBooks",
			Handler:    unaryHandler(BookServiceGetSimilarBooksMethod, BookServiceServer.GetSimilarBooks),
		},
		{
			MethodName: "GetTrendingBooks",
			Handler:    unaryHandler(BookServiceGetTrendingBooksMethod, BookServiceServer.GetTrendingBooks),
		},
		{
			MethodName: "RateBook",
			Handler:    unaryHandler(BookServiceRateBookMethod, BookServiceServer.RateBook),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// BookServiceClient is the client API of the book service.
type BookServiceClient interface {
	GetRecommendations(ctx context.Context, in *GetRecommendationsRequest, opts ...grpc.CallOption) (*GetRecommendationsResponse, error)
	GetSimilarBooks(ctx context.Context, in *GetSimilarBooksRequest, opts ...grpc.CallOption) (*GetSimilarBooksResponse, error)
	GetTrendingBooks(ctx context.Context, in *GetTrendingBooksRequest, opts ...grpc.CallOption) (*GetTrendingBooksResponse, error)
	RateBook(ctx context.Context, in *RateBookRequest, opts ...grpc.CallOption) (*RateBookResponse, error)
}

type bookServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBookServiceClient creates a book service client. The connection must
// use the JSON codec, see grpcutil.Dial.
func NewBookServiceClient(cc grpc.ClientConnInterface) BookServiceClient {
	return &bookServiceClient{cc: cc}
}

func (c *bookServiceClient) GetRecommendations(ctx context.Context, in *GetRecommendationsRequest, opts ...grpc.CallOption) (*GetRecommendationsResponse, error) {
	out := new(GetRecommendationsResponse)
	if err := c.cc.Invoke(ctx, BookServiceGetRecommendationsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookServiceClient) GetSimilarBooks(ctx context.Context, in *GetSimilarBooksRequest, opts ...grpc.CallOption) (*GetSimilarBooksResponse, error) {
	out := new(GetSimilarBooksResponse)
	if err := c.cc.Invoke(ctx, BookServiceGetSimilarBooksMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookServiceClient) GetTrendingBooks(ctx context.Context, in *GetTrendingBooksRequest, opts ...grpc.CallOption) (*GetTrendingBooksResponse, error) {
	out := new(GetTrendingBooksResponse)
	if err := c.cc.Invoke(ctx, BookServiceGetTrendingBooksMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookServiceClient) RateBook(ctx context.Context, in *RateBookRequest, opts ...grpc.CallOption) (*RateBookResponse, error) {
	out := new(RateBookResponse)
	if err := c.cc.Invoke(ctx, BookServiceRateBookMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
