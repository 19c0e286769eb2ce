package posv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dwikikusuma/pos/pkg/grpcjson"
)

type CartLine struct {
	ProductId string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int64  `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type Cart struct {
	SessionId     string      `json:"session_id"`
	Items         []*CartLine `json:"items"`
	Total         string      `json:"total"`
	UpdatedAtUnix int64       `json:"updated_at_unix"`
}

type StartSessionRequest struct{}

type StartSessionResponse struct {
	SessionId string `json:"session_id"`
}

type EndSessionRequest struct {
	SessionId string `json:"session_id"`
}

type EndSessionResponse struct{}

type GetCartRequest struct {
	SessionId string `json:"session_id"`
}

type AddItemRequest struct {
	SessionId string `json:"session_id"`
	ProductId string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type SetItemQuantityRequest struct {
	SessionId string `json:"session_id"`
	ProductId string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type RemoveItemRequest struct {
	SessionId string `json:"session_id"`
	ProductId string `json:"product_id"`
}

type ClearCartRequest struct {
	SessionId string `json:"session_id"`
}

const cartService = "pos.v1.CartService"

type CartServiceServer interface {
	StartSession(context.Context, *StartSessionRequest) (*StartSessionResponse, error)
	EndSession(context.Context, *EndSessionRequest) (*EndSessionResponse, error)
	GetCart(context.Context, *GetCartRequest) (*Cart, error)
	AddItem(context.Context, *AddItemRequest) (*Cart, error)
	SetItemQuantity(context.Context, *SetItemQuantityRequest) (*Cart, error)
	RemoveItem(context.Context, *RemoveItemRequest) (*Cart, error)
	ClearCart(context.Context, *ClearCartRequest) (*Cart, error)
}

type UnimplementedCartServiceServer struct{}

func (UnimplementedCartServiceServer) StartSession(context.Context, *StartSessionRequest) (*StartSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method StartSession not implemented")
}
func (UnimplementedCartServiceServer) EndSession(context.Context, *EndSessionRequest) (*EndSessionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method EndSession not implemented")
}
func (UnimplementedCartServiceServer) GetCart(context.Context, *GetCartRequest) (*Cart, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCart not implemented")
}
func (UnimplementedCartServiceServer) AddItem(context.Context, *AddItemRequest) (*Cart, error) {
	return nil, status.Error(codes.Unimplemented, "method AddItem not implemented")
}
func (UnimplementedCartServiceServer) SetItemQuantity(context.Context, *SetItemQuantityRequest) (*Cart, error) {
	return nil, status.Error(codes.Unimplemented, "method SetItemQuantity not implemented")
}
func (UnimplementedCartServiceServer) RemoveItem(context.Context, *RemoveItemRequest) (*Cart, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveItem not implemented")
}
func (UnimplementedCartServiceServer) ClearCart(context.Context, *ClearCartRequest) (*Cart, error) {
	return nil, status.Error(codes.Unimplemented, "method ClearCart not implemented")
}

var CartService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: cartService,
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "StartSession", Handler: grpcjson.Unary("/"+cartService+"/StartSession", CartServiceServer.StartSession)},
		{MethodName: "EndSession", Handler: grpcjson.Unary("/"+cartService+"/EndSession", CartServiceServer.EndSession)},
		{MethodName: "GetCart", Handler: grpcjson.Unary("/"+cartService+"/GetCart", CartServiceServer.GetCart)},
		{MethodName: "AddItem", Handler: grpcjson.Unary("/"+cartService+"/AddItem", CartServiceServer.AddItem)},
		{MethodName: "SetItemQuantity", Handler: grpcjson.Unary("/"+cartService+"/SetItemQuantity", CartServiceServer.SetItemQuantity)},
		{MethodName: "RemoveItem", Handler: grpcjson.Unary("/"+cartService+"/RemoveItem", CartServiceServer.RemoveItem)},
		{MethodName: "ClearCart", Handler: grpcjson.Unary("/"+cartService+"/ClearCart", CartServiceServer.ClearCart)},
	},
	Metadata: "pos/v1/cart",
}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&CartService_ServiceDesc, srv)
}

type CartServiceClient interface {
	StartSession(ctx context.Context, in *StartSessionRequest, opts ...grpc.CallOption) (*StartSessionResponse, error)
	EndSession(ctx context.Context, in *EndSessionRequest, opts ...grpc.CallOption) (*EndSessionResponse, error)
	GetCart(ctx context.Context, in *GetCartRequest, opts ...grpc.CallOption) (*Cart, error)
	AddItem(ctx context.Context, in *AddItemRequest, opts ...grpc.CallOption) (*Cart, error)
	SetItemQuantity(ctx context.Context, in *SetItemQuantityRequest, opts ...grpc.CallOption) (*Cart, error)
	RemoveItem(ctx context.Context, in *RemoveItemRequest, opts ...grpc.CallOption) (*Cart, error)
	ClearCart(ctx context.Context, in *ClearCartRequest, opts ...grpc.CallOption) (*Cart, error)
}

type cartServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCartServiceClient(cc grpc.ClientConnInterface) CartServiceClient {
	return &cartServiceClient{cc: cc}
}

func (c *cartServiceClient) StartSession(ctx context.Context, in *StartSessionRequest, opts ...grpc.CallOption) (*StartSessionResponse, error) {
	out := new(StartSessionResponse)
	return out, c.cc.Invoke(ctx, "/"+cartService+"/StartSession", in, out, opts...)
}

func (c *cartServiceClient) EndSession(ctx context.Context, in *EndSessionRequest, opts ...grpc.CallOption) (*EndSessionResponse, error) {
	out := new(EndSessionResponse)
	return out, c.cc.Invoke(ctx, "/"+cartService+"/EndSession", in, out, opts...)
}

func (c *cartServiceClient) GetCart(ctx context.Context, in *GetCartRequest, opts ...grpc.CallOption) (*Cart, error) {
	out := new(Cart)
	return out, c.cc.Invoke(ctx, "/"+cartService+"/GetCart", in, out, opts...)
}

func (c *cartServiceClient) AddItem(ctx context.Context, in *AddItemRequest, opts ...grpc.CallOption) (*Cart, error) {
	out := new(Cart)
	return out, c.cc.Invoke(ctx, "/"+cartService+"/AddItem", in, out, opts...)
}

func (c *cartServiceClient) SetItemQuantity(ctx context.Context, in *SetItemQuantityRequest, opts ...grpc.CallOption) (*Cart, error) {
	out := new(Cart)
	return out, c.cc.Invoke(ctx, "/"+cartService+"/SetItemQuantity", in, out, opts...)
}

func (c *cartServiceClient) RemoveItem(ctx context.Context, in *RemoveItemRequest, opts ...grpc.CallOption) (*Cart, error) {
	out := new(Cart)
	return out, c.cc.Invoke(ctx, "/"+cartService+"/RemoveItem", in, out, opts...)
}

func (c *cartServiceClient) ClearCart(ctx context.Context, in *ClearCartRequest, opts ...grpc.CallOption) (*Cart, error) {
	out := new(Cart)
	return out, c.cc.Invoke(ctx, "/"+cartService+"/ClearCart", in, out, opts...)
}
