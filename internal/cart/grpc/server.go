package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	posv1 "github.com/dwikikusuma/pos/api/pos/v1"
	"github.com/dwikikusuma/pos/internal/cart/app"
	"github.com/dwikikusuma/pos/internal/cart/domain"
	"github.com/dwikikusuma/pos/internal/docstore"
)

type Server struct {
	posv1.UnimplementedCartServiceServer
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) StartSession(ctx context.Context, _ *posv1.StartSessionRequest) (*posv1.StartSessionResponse, error) {
	id, err := s.svc.StartSession(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	return &posv1.StartSessionResponse{SessionId: id}, nil
}

func (s *Server) EndSession(ctx context.Context, req *posv1.EndSessionRequest) (*posv1.EndSessionResponse, error) {
	if req == nil || req.SessionId == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}
	if err := s.svc.EndSession(ctx, req.SessionId); err != nil {
		return nil, mapErr(err)
	}
	return &posv1.EndSessionResponse{}, nil
}

func (s *Server) GetCart(ctx context.Context, req *posv1.GetCartRequest) (*posv1.Cart, error) {
	if req == nil || req.SessionId == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}
	cart, err := s.svc.GetCart(ctx, req.SessionId)
	if err != nil {
		return nil, mapErr(err)
	}
	return toProto(cart), nil
}

func (s *Server) AddItem(ctx context.Context, req *posv1.AddItemRequest) (*posv1.Cart, error) {
	if req == nil || req.SessionId == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}
	cart, err := s.svc.AddItem(ctx, req.SessionId, req.ProductId, req.Quantity)
	if err != nil {
		return nil, mapErr(err)
	}
	return toProto(cart), nil
}

func (s *Server) SetItemQuantity(ctx context.Context, req *posv1.SetItemQuantityRequest) (*posv1.Cart, error) {
	if req == nil || req.SessionId == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}
	cart, err := s.svc.SetItemQuantity(ctx, req.SessionId, req.ProductId, req.Quantity)
	if err != nil {
		return nil, mapErr(err)
	}
	return toProto(cart), nil
}

func (s *Server) RemoveItem(ctx context.Context, req *posv1.RemoveItemRequest) (*posv1.Cart, error) {
	if req == nil || req.SessionId == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}
	cart, err := s.svc.RemoveItem(ctx, req.SessionId, req.ProductId)
	if err != nil {
		return nil, mapErr(err)
	}
	return toProto(cart), nil
}

func (s *Server) ClearCart(ctx context.Context, req *posv1.ClearCartRequest) (*posv1.Cart, error) {
	if req == nil || req.SessionId == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}
	cart, err := s.svc.ClearCart(ctx, req.SessionId)
	if err != nil {
		return nil, mapErr(err)
	}
	return toProto(cart), nil
}

func toProto(cart *domain.Cart) *posv1.Cart {
	lines := cart.Items()
	items := make([]*posv1.CartLine, 0, len(lines))
	for _, l := range lines {
		items = append(items, &posv1.CartLine{
			ProductId: l.ProductID,
			Name:      l.Name,
			Price:     l.Price.String(),
			Quantity:  l.Quantity,
			LineTotal: l.Total().String(),
		})
	}

	return &posv1.Cart{
		SessionId:     cart.SessionID,
		Items:         items,
		Total:         cart.Total().String(),
		UpdatedAtUnix: cart.UpdatedAt.Unix(),
	}
}

func mapErr(err error) error {
	var perr *docstore.PersistenceError
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &perr):
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
