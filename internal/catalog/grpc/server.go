package grpc

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	posv1 "github.com/dwikikusuma/pos/api/pos/v1"
	"github.com/dwikikusuma/pos/internal/catalog/app"
	"github.com/dwikikusuma/pos/internal/catalog/domain"
	"github.com/dwikikusuma/pos/internal/docstore"
)

type Server struct {
	posv1.UnimplementedCatalogServiceServer
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) CreateProduct(ctx context.Context, req *posv1.CreateProductRequest) (*posv1.CreateProductResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing body")
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}
	product, err := s.svc.CreateProduct(ctx, req.Name, price, req.Stock)
	if err != nil {
		return nil, mapErr(err)
	}
	return &posv1.CreateProductResponse{Product: ToProto(product)}, nil
}

func (s *Server) GetProduct(ctx context.Context, req *posv1.GetProductRequest) (*posv1.GetProductResponse, error) {
	p, err := s.svc.GetProduct(ctx, req.GetId())
	if err != nil {
		return nil, mapErr(err)
	}
	return &posv1.GetProductResponse{Product: ToProto(p)}, nil
}

func (s *Server) UpdateProduct(ctx context.Context, req *posv1.UpdateProductRequest) (*posv1.UpdateProductResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing body")
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}
	p, err := s.svc.UpdateProduct(ctx, req.Id, req.Name, price, req.Stock)
	if err != nil {
		return nil, mapErr(err)
	}
	return &posv1.UpdateProductResponse{Product: ToProto(p)}, nil
}

func (s *Server) DeleteProduct(ctx context.Context, req *posv1.DeleteProductRequest) (*posv1.DeleteProductResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing body")
	}
	if err := s.svc.DeleteProduct(ctx, req.Id); err != nil {
		return nil, mapErr(err)
	}
	return &posv1.DeleteProductResponse{}, nil
}

func (s *Server) ListProducts(ctx context.Context, req *posv1.ListProductsRequest) (*posv1.ListProductsResponse, error) {
	products, err := s.svc.ListProducts(ctx, req.GetQuery())
	if err != nil {
		return nil, mapErr(err)
	}

	out := make([]*posv1.Product, 0, len(products))
	for _, p := range products {
		out = append(out, ToProto(p))
	}
	return &posv1.ListProductsResponse{Products: out}, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, status.Error(codes.InvalidArgument, "price is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid price %q", s)
	}
	return d, nil
}

func ToProto(p domain.Product) *posv1.Product {
	return &posv1.Product{
		Id:            p.ID,
		Name:          p.Name,
		Price:         p.Price.String(),
		Stock:         p.Stock,
		CreatedAtUnix: p.CreatedAt.Unix(),
	}
}

func mapErr(err error) error {
	var perr *docstore.PersistenceError
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &perr):
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
