package grpc

import (
	"bytes"
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	posv1 "github.com/dwikikusuma/pos/api/pos/v1"
	checkoutgrpc "github.com/dwikikusuma/pos/internal/checkout/grpc"
	"github.com/dwikikusuma/pos/internal/docstore"
	"github.com/dwikikusuma/pos/internal/report/app"
)

const exportFilename = "sales_report.csv"

type Server struct {
	posv1.UnimplementedReportServiceServer
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Dashboard(ctx context.Context, _ *posv1.DashboardRequest) (*posv1.DashboardResponse, error) {
	d, err := s.svc.Dashboard(ctx)
	if err != nil {
		return nil, mapErr(err)
	}

	resp := &posv1.DashboardResponse{
		ProductCount:     int64(d.ProductCount),
		TransactionCount: int64(d.TransactionCount),
		TotalRevenue:     d.TotalRevenue.String(),
	}
	for _, r := range d.Recent {
		resp.Recent = append(resp.Recent, &posv1.TransactionSummary{
			TransactionId: r.TransactionID,
			Date:          r.Date,
			Total:         r.Total.String(),
		})
	}
	for _, r := range d.RevenueByDay {
		resp.RevenueByDay = append(resp.RevenueByDay, &posv1.DailyRevenue{Date: r.Date, Revenue: r.Revenue.String()})
	}
	for _, p := range d.SalesByProduct {
		resp.SalesByProduct = append(resp.SalesByProduct, &posv1.ProductSales{
			Name:     p.Name,
			Quantity: p.Quantity,
			Revenue:  p.Revenue.String(),
		})
	}
	return resp, nil
}

func (s *Server) SalesReport(ctx context.Context, req *posv1.SalesReportRequest) (*posv1.SalesReportResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing body")
	}
	sales, err := s.svc.SalesBetween(ctx, req.Start, req.End)
	if err != nil {
		return nil, mapErr(err)
	}

	total := decimal.Zero
	out := make([]*posv1.Sale, 0, len(sales))
	for _, sale := range sales {
		total = total.Add(sale.Total)
		out = append(out, checkoutgrpc.ToProto(sale))
	}
	return &posv1.SalesReportResponse{Sales: out, Total: total.String()}, nil
}

func (s *Server) ExportSalesCSV(ctx context.Context, req *posv1.ExportSalesCSVRequest) (*posv1.ExportSalesCSVResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing body")
	}
	var buf bytes.Buffer
	if _, err := s.svc.ExportCSV(ctx, &buf, req.Start, req.End); err != nil {
		return nil, mapErr(err)
	}
	return &posv1.ExportSalesCSVResponse{Filename: exportFilename, Csv: buf.String()}, nil
}

func mapErr(err error) error {
	var perr *docstore.PersistenceError
	switch {
	case errors.Is(err, app.ErrInvalidRange):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &perr):
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
