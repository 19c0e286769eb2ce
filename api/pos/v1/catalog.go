// Package posv1 is the RPC contract of the point-of-sale API: JSON messages and
// hand-written gRPC service descriptors served with the grpcjson codec.
package posv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dwikikusuma/pos/pkg/grpcjson"
)

// Prices and totals travel as decimal strings.
type Product struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	Stock         int64  `json:"stock"`
	CreatedAtUnix int64  `json:"created_at_unix"`
}

type CreateProductRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int64  `json:"stock"`
}

type CreateProductResponse struct {
	Product *Product `json:"product"`
}

func (r *CreateProductResponse) GetProduct() *Product {
	if r == nil {
		return nil
	}
	return r.Product
}

type GetProductRequest struct {
	Id string `json:"id"`
}

func (r *GetProductRequest) GetId() string {
	if r == nil {
		return ""
	}
	return r.Id
}

type GetProductResponse struct {
	Product *Product `json:"product"`
}

func (r *GetProductResponse) GetProduct() *Product {
	if r == nil {
		return nil
	}
	return r.Product
}

type UpdateProductRequest struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int64  `json:"stock"`
}

type UpdateProductResponse struct {
	Product *Product `json:"product"`
}

func (r *UpdateProductResponse) GetProduct() *Product {
	if r == nil {
		return nil
	}
	return r.Product
}

type DeleteProductRequest struct {
	Id string `json:"id"`
}

type DeleteProductResponse struct{}

type ListProductsRequest struct {
	Query string `json:"query"`
}

func (r *ListProductsRequest) GetQuery() string {
	if r == nil {
		return ""
	}
	return r.Query
}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
}

const catalogService = "pos.v1.CatalogService"

type CatalogServiceServer interface {
	CreateProduct(context.Context, *CreateProductRequest) (*CreateProductResponse, error)
	GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error)
	UpdateProduct(context.Context, *UpdateProductRequest) (*UpdateProductResponse, error)
	DeleteProduct(context.Context, *DeleteProductRequest) (*DeleteProductResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
}

type UnimplementedCatalogServiceServer struct{}

func (UnimplementedCatalogServiceServer) CreateProduct(context.Context, *CreateProductRequest) (*CreateProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateProduct not implemented")
}
func (UnimplementedCatalogServiceServer) GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProduct not implemented")
}
func (UnimplementedCatalogServiceServer) UpdateProduct(context.Context, *UpdateProductRequest) (*UpdateProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateProduct not implemented")
}
func (UnimplementedCatalogServiceServer) DeleteProduct(context.Context, *DeleteProductRequest) (*DeleteProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteProduct not implemented")
}
func (UnimplementedCatalogServiceServer) ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListProducts not implemented")
}

var CatalogService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: catalogService,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateProduct", Handler: grpcjson.Unary("/"+catalogService+"/CreateProduct", CatalogServiceServer.CreateProduct)},
		{MethodName: "GetProduct", Handler: grpcjson.Unary("/"+catalogService+"/GetProduct", CatalogServiceServer.GetProduct)},
		{MethodName: "UpdateProduct", Handler: grpcjson.Unary("/"+catalogService+"/UpdateProduct", CatalogServiceServer.UpdateProduct)},
		{MethodName: "DeleteProduct", Handler: grpcjson.Unary("/"+catalogService+"/DeleteProduct", CatalogServiceServer.DeleteProduct)},
		{MethodName: "ListProducts", Handler: grpcjson.Unary("/"+catalogService+"/ListProducts", CatalogServiceServer.ListProducts)},
	},
	Metadata: "pos/v1/catalog",
}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogService_ServiceDesc, srv)
}

type CatalogServiceClient interface {
	CreateProduct(ctx context.Context, in *CreateProductRequest, opts ...grpc.CallOption) (*CreateProductResponse, error)
	GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error)
	UpdateProduct(ctx context.Context, in *UpdateProductRequest, opts ...grpc.CallOption) (*UpdateProductResponse, error)
	DeleteProduct(ctx context.Context, in *DeleteProductRequest, opts ...grpc.CallOption) (*DeleteProductResponse, error)
	ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error)
}

type catalogServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogServiceClient(cc grpc.ClientConnInterface) CatalogServiceClient {
	return &catalogServiceClient{cc: cc}
}

func (c *catalogServiceClient) CreateProduct(ctx context.Context, in *CreateProductRequest, opts ...grpc.CallOption) (*CreateProductResponse, error) {
	out := new(CreateProductResponse)
	return out, c.cc.Invoke(ctx, "/"+catalogService+"/CreateProduct", in, out, opts...)
}

func (c *catalogServiceClient) GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error) {
	out := new(GetProductResponse)
	return out, c.cc.Invoke(ctx, "/"+catalogService+"/GetProduct", in, out, opts...)
}

func (c *catalogServiceClient) UpdateProduct(ctx context.Context, in *UpdateProductRequest, opts ...grpc.CallOption) (*UpdateProductResponse, error) {
	out := new(UpdateProductResponse)
	return out, c.cc.Invoke(ctx, "/"+catalogService+"/UpdateProduct", in, out, opts...)
}

func (c *catalogServiceClient) DeleteProduct(ctx context.Context, in *DeleteProductRequest, opts ...grpc.CallOption) (*DeleteProductResponse, error) {
	out := new(DeleteProductResponse)
	return out, c.cc.Invoke(ctx, "/"+catalogService+"/DeleteProduct", in, out, opts...)
}

func (c *catalogServiceClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	out := new(ListProductsResponse)
	return out, c.cc.Invoke(ctx, "/"+catalogService+"/ListProducts", in, out, opts...)
}
