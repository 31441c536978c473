package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cosmeticpos-backend/internal/service"
)

type ReportHandler struct {
	Service service.ReportService
}

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/sales", h.salesByDay)
	r.Get("/reports/products", h.products)
	r.Get("/reports/clients", h.clients)
	r.Get("/reports/metrics", h.metrics)
	r.Get("/reports/{kind}/export", h.export)
}

func (h ReportHandler) salesByDay(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := h.Service.SalesByDay(r.Context(), actor, rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h ReportHandler) products(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := h.Service.ProductsSold(r.Context(), actor, rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h ReportHandler) clients(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := h.Service.Clients(r.Context(), actor, rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h ReportHandler) metrics(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.Service.Metrics(r.Context(), actor, rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// export needs reports.export on top of the permission of the report itself.
func (h ReportHandler) export(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(w, r)
	if actor == nil {
		return
	}
	if err := h.Service.CanExport(actor); err != nil {
		writeServiceError(w, err)
		return
	}
	format, ok := exportFormat(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
		return
	}
	rng, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	suffix := ""
	if rng.From != nil && rng.To != nil {
		suffix = fmt.Sprintf("%s_%s", rng.From.Format("20060102"), rng.To.Format("20060102"))
	}

	kind := chi.URLParam(r, "kind")
	var t table
	switch kind {
	case "sales":
		rows, err := h.Service.SalesByDay(r.Context(), actor, rng)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		t = salesTable(rows)
	case "products":
		rows, err := h.Service.ProductsSold(r.Context(), actor, rng)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		t = productSalesTable(rows)
	case "clients":
		rows, err := h.Service.Clients(r.Context(), actor, rng)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		t = clientSalesTable(rows)
	default:
		writeError(w, http.StatusNotFound, "unknown report "+kind)
		return
	}
	writeExport(w, format, "report_"+kind, suffix, t)
}

func salesTable(rows []service.DailySales) table {
	t := table{
		Sheet:  "Sales",
		Header: []string{"Date", "Sales", "Total", "Average Ticket"},
		Widths: []float64{12, 10, 16, 16},
	}
	for _, d := range rows {
		t.Rows = append(t.Rows, []any{d.Date, d.Count, d.Total, d.Average})
	}
	return t
}

func productSalesTable(rows []service.ProductSales) table {
	t := table{
		Sheet:  "Products",
		Header: []string{"SKU", "Product", "Units", "Total", "Margin %"},
		Widths: []float64{12, 32, 10, 16, 10},
	}
	for _, p := range rows {
		t.Rows = append(t.Rows, []any{p.SKU, p.Name, p.Quantity, p.Total, p.Margin})
	}
	return t
}

func clientSalesTable(rows []service.ClientSales) table {
	t := table{
		Sheet:  "Clients",
		Header: []string{"Document", "Client", "Tier", "Purchases", "Spent", "Last Purchase"},
		Widths: []float64{16, 28, 12, 12, 16, 22},
	}
	for _, c := range rows {
		t.Rows = append(t.Rows, []any{c.Document, c.Name, c.Tier, c.Purchases, c.Spent, c.LastPurchase})
	}
	return t
}
