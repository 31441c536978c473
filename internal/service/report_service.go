package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
)

const dateLayout = "2006-01-02"

// DateRange selects local calendar days. Both ends are inclusive and either
// may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type ReportService struct {
	Deps
}

type DailySales struct {
	Date    string          `json:"date"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Average decimal.Decimal `json:"average"`
}

type ProductSales struct {
	ProductID string          `json:"productId"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	Margin    decimal.Decimal `json:"margin"`
}

type ClientSales struct {
	ClientID     string          `json:"clientId"`
	Name         string          `json:"name"`
	Document     string          `json:"document"`
	Tier         string          `json:"tier"`
	Purchases    int             `json:"purchases"`
	Spent        decimal.Decimal `json:"spent"`
	LastPurchase time.Time       `json:"lastPurchase"`
}

type SalesMetrics struct {
	TotalSales    decimal.Decimal `json:"totalSales"`
	Transactions  int             `json:"transactions"`
	AverageTicket decimal.Decimal `json:"averageTicket"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	GrossProfit   decimal.Decimal `json:"grossProfit"`
	Margin        decimal.Decimal `json:"margin"`
}

// Bounds turns the inclusive local days of r into a half-open instant range.
func (r DateRange) Bounds(loc *time.Location) (from, to *time.Time) {
	if r.From != nil {
		f := time.Date(r.From.Year(), r.From.Month(), r.From.Day(), 0, 0, 0, 0, loc)
		from = &f
	}
	if r.To != nil {
		t := time.Date(r.To.Year(), r.To.Month(), r.To.Day()+1, 0, 0, 0, 0, loc)
		to = &t
	}
	return from, to
}

// paidSales returns PAID, non-deleted sales inside r.
func (s ReportService) paidSales(ctx context.Context, r DateRange) ([]*domain.Sale, error) {
	f := repository.SaleFilter{State: domain.SalePaid}
	f.From, f.To = r.Bounds(s.loc())
	return s.Repos.Sales.ListFiltered(ctx, f)
}

func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(moneyPlaces)
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(1)
}

// SalesByDay groups sales by local day, oldest first.
func (s ReportService) SalesByDay(ctx context.Context, actor *domain.User, r DateRange) ([]DailySales, error) {
	if err := authorize(actor, authz.ReportsBasic); err != nil {
		return nil, err
	}
	sales, err := s.paidSales(ctx, r)
	if err != nil {
		return nil, err
	}
	loc := s.loc()
	byDay := map[string]*DailySales{}
	for _, sale := range sales {
		day := sale.SoldAt.In(loc).Format(dateLayout)
		d, ok := byDay[day]
		if !ok {
			d = &DailySales{Date: day, Total: decimal.Zero}
			byDay[day] = d
		}
		d.Total = d.Total.Add(sale.Total)
		d.Count++
	}
	out := make([]DailySales, 0, len(byDay))
	for _, d := range byDay {
		d.Average = average(d.Total, d.Count)
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// ProductsSold ranks products by units sold. Margin is the catalog margin
// (sale price less purchase price over sale price).
func (s ReportService) ProductsSold(ctx context.Context, actor *domain.User, r DateRange) ([]ProductSales, error) {
	if err := authorize(actor, authz.ReportsAdvanced); err != nil {
		return nil, err
	}
	sales, err := s.paidSales(ctx, r)
	if err != nil {
		return nil, err
	}
	byProduct := map[string]*ProductSales{}
	for _, sale := range sales {
		for _, it := range sale.Items {
			ps, ok := byProduct[it.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: it.ProductID, Total: decimal.Zero}
				byProduct[it.ProductID] = ps
			}
			ps.Quantity += it.Quantity
			ps.Total = ps.Total.Add(it.Total)
		}
	}
	out := make([]ProductSales, 0, len(byProduct))
	for id, ps := range byProduct {
		p, err := s.Repos.Products.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		ps.SKU, ps.Name = p.SKU, p.Name
		ps.Margin = percentOf(p.SalePrice.Sub(p.PurchasePrice), p.SalePrice)
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}

// Clients ranks clients with purchases in range by amount spent.
func (s ReportService) Clients(ctx context.Context, actor *domain.User, r DateRange) ([]ClientSales, error) {
	if err := authorize(actor, authz.ReportsAdvanced); err != nil {
		return nil, err
	}
	sales, err := s.paidSales(ctx, r)
	if err != nil {
		return nil, err
	}
	byClient := map[string]*ClientSales{}
	for _, sale := range sales {
		if sale.ClientID == "" {
			continue
		}
		cs, ok := byClient[sale.ClientID]
		if !ok {
			cs = &ClientSales{ClientID: sale.ClientID, Spent: decimal.Zero}
			byClient[sale.ClientID] = cs
		}
		cs.Purchases++
		cs.Spent = cs.Spent.Add(sale.Total)
		if sale.SoldAt.After(cs.LastPurchase) {
			cs.LastPurchase = sale.SoldAt
		}
	}
	out := make([]ClientSales, 0, len(byClient))
	for id, cs := range byClient {
		c, err := s.Repos.Clients.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cs.Name, cs.Document, cs.Tier = c.DisplayName(), c.DocumentNumber, string(c.Tier)
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Spent.Equal(out[j].Spent) {
			return out[i].Spent.GreaterThan(out[j].Spent)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Metrics summarizes the range. Cost uses current purchase prices.
func (s ReportService) Metrics(ctx context.Context, actor *domain.User, r DateRange) (*SalesMetrics, error) {
	if err := authorize(actor, authz.ReportsBasic); err != nil {
		return nil, err
	}
	sales, err := s.paidSales(ctx, r)
	if err != nil {
		return nil, err
	}
	m := &SalesMetrics{TotalSales: decimal.Zero, TotalCost: decimal.Zero, Transactions: len(sales)}
	costs := map[string]decimal.Decimal{}
	for _, sale := range sales {
		m.TotalSales = m.TotalSales.Add(sale.Total)
		for _, it := range sale.Items {
			cost, ok := costs[it.ProductID]
			if !ok {
				p, err := s.Repos.Products.Get(ctx, it.ProductID)
				switch {
				case errors.Is(err, repository.ErrNotFound):
					cost = decimal.Zero
				case err != nil:
					return nil, err
				default:
					cost = p.PurchasePrice
				}
				costs[it.ProductID] = cost
			}
			m.TotalCost = m.TotalCost.Add(cost.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	m.AverageTicket = average(m.TotalSales, m.Transactions)
	m.GrossProfit = m.TotalSales.Sub(m.TotalCost)
	m.Margin = percentOf(m.GrossProfit, m.TotalSales)
	return m, nil
}

// CanExport reports whether actor may download report files.
func (s ReportService) CanExport(actor *domain.User) error {
	return authorize(actor, authz.ReportsExport)
}
