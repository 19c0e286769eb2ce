package posv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dwikikusuma/pos/pkg/grpcjson"
)

type TransactionSummary struct {
	TransactionId string `json:"transaction_id"`
	Date          string `json:"date"`
	Total         string `json:"total"`
}

type DailyRevenue struct {
	Date    string `json:"date"`
	Revenue string `json:"revenue"`
}

type ProductSales struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Revenue  string `json:"revenue"`
}

type DashboardRequest struct{}

type DashboardResponse struct {
	ProductCount     int64                 `json:"product_count"`
	TransactionCount int64                 `json:"transaction_count"`
	TotalRevenue     string                `json:"total_revenue"`
	Recent           []*TransactionSummary `json:"recent"`
	RevenueByDay     []*DailyRevenue       `json:"revenue_by_day"`
	SalesByProduct   []*ProductSales       `json:"sales_by_product"`
}

// Dates are YYYY-MM-DD in the report time zone, both bounds inclusive.
type SalesReportRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type SalesReportResponse struct {
	Sales []*Sale `json:"sales"`
	Total string  `json:"total"`
}

type ExportSalesCSVRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ExportSalesCSVResponse struct {
	Filename string `json:"filename"`
	Csv      string `json:"csv"`
}

const reportService = "pos.v1.ReportService"

type ReportServiceServer interface {
	Dashboard(context.Context, *DashboardRequest) (*DashboardResponse, error)
	SalesReport(context.Context, *SalesReportRequest) (*SalesReportResponse, error)
	ExportSalesCSV(context.Context, *ExportSalesCSVRequest) (*ExportSalesCSVResponse, error)
}

type UnimplementedReportServiceServer struct{}

func (UnimplementedReportServiceServer) Dashboard(context.Context, *DashboardRequest) (*DashboardResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Dashboard not implemented")
}
func (UnimplementedReportServiceServer) SalesReport(context.Context, *SalesReportRequest) (*SalesReportResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SalesReport not implemented")
}
func (UnimplementedReportServiceServer) ExportSalesCSV(context.Context, *ExportSalesCSVRequest) (*ExportSalesCSVResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportSalesCSV not implemented")
}

var ReportService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: reportService,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Dashboard", Handler: grpcjson.Unary("/"+reportService+"/Dashboard", ReportServiceServer.Dashboard)},
		{MethodName: "SalesReport", Handler: grpcjson.Unary("/"+reportService+"/SalesReport", ReportServiceServer.SalesReport)},
		{MethodName: "ExportSalesCSV", Handler: grpcjson.Unary("/"+reportService+"/ExportSalesCSV", ReportServiceServer.ExportSalesCSV)},
	},
	Metadata: "pos/v1/report",
}

func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ReportService_ServiceDesc, srv)
}

type ReportServiceClient interface {
	Dashboard(ctx context.Context, in *DashboardRequest, opts ...grpc.CallOption) (*DashboardResponse, error)
	SalesReport(ctx context.Context, in *SalesReportRequest, opts ...grpc.CallOption) (*SalesReportResponse, error)
	ExportSalesCSV(ctx context.Context, in *ExportSalesCSVRequest, opts ...grpc.CallOption) (*ExportSalesCSVResponse, error)
}

type reportServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewReportServiceClient(cc grpc.ClientConnInterface) ReportServiceClient {
	return &reportServiceClient{cc: cc}
}

func (c *reportServiceClient) Dashboard(ctx context.Context, in *DashboardRequest, opts ...grpc.CallOption) (*DashboardResponse, error) {
	out := new(DashboardResponse)
	return out, c.cc.Invoke(ctx, "/"+reportService+"/Dashboard", in, out, opts...)
}

func (c *reportServiceClient) SalesReport(ctx context.Context, in *SalesReportRequest, opts ...grpc.CallOption) (*SalesReportResponse, error) {
	out := new(SalesReportResponse)
	return out, c.cc.Invoke(ctx, "/"+reportService+"/SalesReport", in, out, opts...)
}

func (c *reportServiceClient) ExportSalesCSV(ctx context.Context, in *ExportSalesCSVRequest, opts ...grpc.CallOption) (*ExportSalesCSVResponse, error) {
	out := new(ExportSalesCSVResponse)
	return out, c.cc.Invoke(ctx, "/"+reportService+"/ExportSalesCSV", in, out, opts...)
}
