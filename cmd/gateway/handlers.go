package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	posv1 "github.com/dwikikusuma/pos/api/pos/v1"
	"github.com/dwikikusuma/pos/pkg/metrics"
)

const maxBodyBytes = 1 << 20

type gateway struct {
	catalog  posv1.CatalogServiceClient
	cart     posv1.CartServiceClient
	checkout posv1.CheckoutServiceClient
	report   posv1.ReportServiceClient
	log      *slog.Logger
}

func (g *gateway) routes(m *metrics.ServerMetrics) http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern, name string, fn http.HandlerFunc) {
		mux.Handle(pattern, m.Wrap(name, fn))
	}

	handle("POST /v1/products", "create_product", g.createProduct)
	handle("GET /v1/products", "list_products", g.listProducts)
	handle("GET /v1/products/{id}", "get_product", g.getProduct)
	handle("PUT /v1/products/{id}", "update_product", g.updateProduct)
	handle("DELETE /v1/products/{id}", "delete_product", g.deleteProduct)

	handle("POST /v1/sessions", "start_session", g.startSession)
	handle("DELETE /v1/sessions/{id}", "end_session", g.endSession)
	handle("GET /v1/sessions/{id}/cart", "get_cart", g.getCart)
	handle("DELETE /v1/sessions/{id}/cart", "clear_cart", g.clearCart)
	handle("POST /v1/sessions/{id}/cart/items", "add_item", g.addItem)
	handle("PUT /v1/sessions/{id}/cart/items/{productID}", "set_item_quantity", g.setItemQuantity)
	handle("DELETE /v1/sessions/{id}/cart/items/{productID}", "remove_item", g.removeItem)
	handle("POST /v1/sessions/{id}/checkout", "checkout", g.doCheckout)

	handle("GET /v1/reports/dashboard", "dashboard", g.dashboard)
	handle("GET /v1/reports/sales", "sales_report", g.salesReport)
	handle("GET /v1/reports/sales.csv", "sales_csv", g.salesCSV)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// Catalog

func (g *gateway) createProduct(w http.ResponseWriter, r *http.Request) {
	var req posv1.CreateProductRequest
	if !g.decode(w, r, &req) {
		return
	}
	resp, err := g.catalog.CreateProduct(r.Context(), &req)
	g.reply(w, http.StatusCreated, resp.GetProduct(), err)
}

func (g *gateway) listProducts(w http.ResponseWriter, r *http.Request) {
	resp, err := g.catalog.ListProducts(r.Context(), &posv1.ListProductsRequest{Query: r.URL.Query().Get("q")})
	g.reply(w, http.StatusOK, resp, err)
}

func (g *gateway) getProduct(w http.ResponseWriter, r *http.Request) {
	resp, err := g.catalog.GetProduct(r.Context(), &posv1.GetProductRequest{Id: r.PathValue("id")})
	g.reply(w, http.StatusOK, resp.GetProduct(), err)
}

func (g *gateway) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req posv1.UpdateProductRequest
	if !g.decode(w, r, &req) {
		return
	}
	req.Id = r.PathValue("id")
	resp, err := g.catalog.UpdateProduct(r.Context(), &req)
	g.reply(w, http.StatusOK, resp.GetProduct(), err)
}

func (g *gateway) deleteProduct(w http.ResponseWriter, r *http.Request) {
	_, err := g.catalog.DeleteProduct(r.Context(), &posv1.DeleteProductRequest{Id: r.PathValue("id")})
	g.reply(w, http.StatusNoContent, nil, err)
}

// Cart

func (g *gateway) startSession(w http.ResponseWriter, r *http.Request) {
	resp, err := g.cart.StartSession(r.Context(), &posv1.StartSessionRequest{})
	g.reply(w, http.StatusCreated, resp, err)
}

func (g *gateway) endSession(w http.ResponseWriter, r *http.Request) {
	_, err := g.cart.EndSession(r.Context(), &posv1.EndSessionRequest{SessionId: r.PathValue("id")})
	g.reply(w, http.StatusNoContent, nil, err)
}

func (g *gateway) getCart(w http.ResponseWriter, r *http.Request) {
	resp, err := g.cart.GetCart(r.Context(), &posv1.GetCartRequest{SessionId: r.PathValue("id")})
	g.reply(w, http.StatusOK, resp, err)
}

func (g *gateway) clearCart(w http.ResponseWriter, r *http.Request) {
	resp, err := g.cart.ClearCart(r.Context(), &posv1.ClearCartRequest{SessionId: r.PathValue("id")})
	g.reply(w, http.StatusOK, resp, err)
}

func (g *gateway) addItem(w http.ResponseWriter, r *http.Request) {
	var req posv1.AddItemRequest
	if !g.decode(w, r, &req) {
		return
	}
	req.SessionId = r.PathValue("id")
	resp, err := g.cart.AddItem(r.Context(), &req)
	g.reply(w, http.StatusOK, resp, err)
}

func (g *gateway) setItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req posv1.SetItemQuantityRequest
	if !g.decode(w, r, &req) {
		return
	}
	req.SessionId = r.PathValue("id")
	req.ProductId = r.PathValue("productID")
	resp, err := g.cart.SetItemQuantity(r.Context(), &req)
	g.reply(w, http.StatusOK, resp, err)
}

func (g *gateway) removeItem(w http.ResponseWriter, r *http.Request) {
	resp, err := g.cart.RemoveItem(r.Context(), &posv1.RemoveItemRequest{
		SessionId: r.PathValue("id"),
		ProductId: r.PathValue("productID"),
	})
	g.reply(w, http.StatusOK, resp, err)
}

func (g *gateway) doCheckout(w http.ResponseWriter, r *http.Request) {
	resp, err := g.checkout.Checkout(r.Context(), &posv1.CheckoutRequest{SessionId: r.PathValue("id")})
	g.reply(w, http.StatusCreated, resp.GetSale(), err)
}

// Reports

func (g *gateway) dashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := g.report.Dashboard(r.Context(), &posv1.DashboardRequest{})
	g.reply(w, http.StatusOK, resp, err)
}

func (g *gateway) salesReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := g.report.SalesReport(r.Context(), &posv1.SalesReportRequest{Start: q.Get("start"), End: q.Get("end")})
	g.reply(w, http.StatusOK, resp, err)
}

func (g *gateway) salesCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := g.report.ExportSalesCSV(r.Context(), &posv1.ExportSalesCSVRequest{Start: q.Get("start"), End: q.Get("end")})
	if err != nil {
		g.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+resp.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, resp.Csv)
}

// Plumbing

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *gateway) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		g.writeError(w, status.Errorf(codes.InvalidArgument, "invalid JSON body: %v", err))
		return false
	}
	return true
}

func (g *gateway) reply(w http.ResponseWriter, code int, v any, err error) {
	if err != nil {
		g.writeError(w, err)
		return
	}
	if code == http.StatusNoContent {
		w.WriteHeader(code)
		return
	}
	writeJSON(w, code, v)
}

func (g *gateway) writeError(w http.ResponseWriter, err error) {
	httpStatus, code, msg := httpStatusFromGRPC(err)
	if httpStatus >= http.StatusInternalServerError {
		g.log.Error("upstream call failed", slog.String("code", code), slog.Any("err", err))
	}
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, httpStatus, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func httpStatusFromGRPC(err error) (int, string, string) {
	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "INVALID_ARGUMENT", st.Message()
	case codes.NotFound:
		return http.StatusNotFound, "NOT_FOUND", st.Message()
	case codes.FailedPrecondition:
		return http.StatusConflict, "FAILED_PRECONDITION", st.Message()
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable, "UNAVAILABLE", st.Message()
	}
	return http.StatusInternalServerError, "INTERNAL", "internal error"
}
