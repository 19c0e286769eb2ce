package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	posv1 "github.com/dwikikusuma/pos/api/pos/v1"
	"github.com/dwikikusuma/pos/internal/checkout/app"
	"github.com/dwikikusuma/pos/internal/docstore"
	salesdomain "github.com/dwikikusuma/pos/internal/sales/domain"
)

type Server struct {
	posv1.UnimplementedCheckoutServiceServer
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Checkout(ctx context.Context, req *posv1.CheckoutRequest) (*posv1.CheckoutResponse, error) {
	if req == nil || req.SessionId == "" {
		return nil, status.Error(codes.InvalidArgument, "session_id is required")
	}

	sale, err := s.svc.Checkout(ctx, req.SessionId)
	if err != nil {
		return nil, mapErr(err)
	}
	return &posv1.CheckoutResponse{Sale: ToProto(sale)}, nil
}

func ToProto(sale salesdomain.Sale) *posv1.Sale {
	items := make([]*posv1.SaleItem, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, &posv1.SaleItem{
			ProductId: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.String(),
			Quantity:  it.Quantity,
		})
	}

	return &posv1.Sale{
		TransactionId: sale.TransactionID,
		Items:         items,
		Total:         sale.Total.String(),
		Timestamp:     float64(sale.Timestamp.UnixMilli()) / 1000,
	}
}

func mapErr(err error) error {
	var perr *docstore.PersistenceError
	switch {
	case errors.Is(err, app.ErrEmptyCart), errors.Is(err, app.ErrInsufficientStock):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, app.ErrSessionNotFound), errors.Is(err, app.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &perr):
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
