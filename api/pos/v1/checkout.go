package posv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dwikikusuma/pos/pkg/grpcjson"
)

type SaleItem struct {
	ProductId string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type Sale struct {
	TransactionId string      `json:"transaction_id"`
	Items         []*SaleItem `json:"items"`
	Total         string      `json:"total"`
	// Seconds since epoch.
	Timestamp float64 `json:"timestamp"`
}

type CheckoutRequest struct {
	SessionId string `json:"session_id"`
}

type CheckoutResponse struct {
	Sale *Sale `json:"sale"`
}

func (r *CheckoutResponse) GetSale() *Sale {
	if r == nil {
		return nil
	}
	return r.Sale
}

const checkoutService = "pos.v1.CheckoutService"

type CheckoutServiceServer interface {
	Checkout(context.Context, *CheckoutRequest) (*CheckoutResponse, error)
}

type UnimplementedCheckoutServiceServer struct{}

func (UnimplementedCheckoutServiceServer) Checkout(context.Context, *CheckoutRequest) (*CheckoutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Checkout not implemented")
}

var CheckoutService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: checkoutService,
	HandlerType: (*CheckoutServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Checkout", Handler: grpcjson.Unary("/"+checkoutService+"/Checkout", CheckoutServiceServer.Checkout)},
	},
	Metadata: "pos/v1/checkout",
}

func RegisterCheckoutServiceServer(s grpc.ServiceRegistrar, srv CheckoutServiceServer) {
	s.RegisterService(&CheckoutService_ServiceDesc, srv)
}

type CheckoutServiceClient interface {
	Checkout(ctx context.Context, in *CheckoutRequest, opts ...grpc.CallOption) (*CheckoutResponse, error)
}

type checkoutServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCheckoutServiceClient(cc grpc.ClientConnInterface) CheckoutServiceClient {
	return &checkoutServiceClient{cc: cc}
}

func (c *checkoutServiceClient) Checkout(ctx context.Context, in *CheckoutRequest, opts ...grpc.CallOption) (*CheckoutResponse, error) {
	out := new(CheckoutResponse)
	return out, c.cc.Invoke(ctx, "/"+checkoutService+"/Checkout", in, out, opts...)
}
