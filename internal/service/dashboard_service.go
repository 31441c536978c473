package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
)

// DashboardService derives the home panel from the current record set. It
// never writes.
type DashboardService struct {
	Deps
}

type DashboardSummary struct {
	Date           string            `json:"date"`
	SalesToday     decimal.Decimal   `json:"salesToday"`
	SalesCount     int               `json:"salesCount"`
	AverageTicket  decimal.Decimal   `json:"averageTicket"`
	ActiveProducts int               `json:"activeProducts"`
	ActiveClients  int               `json:"activeClients"`
	LowStockCount  int               `json:"lowStockCount"`
	Alerts         []*domain.Product `json:"alerts"`
}

type TopProduct struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

type SalesPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// dayBounds returns [start, start+1d) for the local calendar day of t.
func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func (s DashboardService) Summary(ctx context.Context, actor *domain.User) (*DashboardSummary, error) {
	if err := authorize(actor, authz.DashboardRead); err != nil {
		return nil, err
	}
	from, to := dayBounds(s.now(), s.loc())
	sales, err := s.Repos.Sales.ListFiltered(ctx, repository.SaleFilter{From: &from, To: &to, State: domain.SalePaid})
	if err != nil {
		return nil, err
	}
	out := &DashboardSummary{
		Date:          from.Format(dateLayout),
		SalesToday:    decimal.Zero,
		AverageTicket: decimal.Zero,
		SalesCount:    len(sales),
	}
	for _, sale := range sales {
		out.SalesToday = out.SalesToday.Add(sale.Total)
	}
	if out.SalesCount > 0 {
		out.AverageTicket = out.SalesToday.Div(decimal.NewFromInt(int64(out.SalesCount))).Round(moneyPlaces)
	}

	products, err := s.Repos.Products.List(ctx, repository.ListOptions{})
	if err != nil {
		return nil, err
	}
	out.ActiveProducts = len(products)
	out.Alerts = make([]*domain.Product, 0)
	for _, p := range products {
		if p.LowStock() {
			out.Alerts = append(out.Alerts, p)
		}
	}
	out.LowStockCount = len(out.Alerts)

	clients, err := s.Repos.Clients.List(ctx, repository.ListOptions{})
	if err != nil {
		return nil, err
	}
	out.ActiveClients = len(clients)
	return out, nil
}

// TopProducts ranks products by amount sold over the last days days.
func (s DashboardService) TopProducts(ctx context.Context, actor *domain.User, days, limit int) ([]TopProduct, error) {
	if err := authorize(actor, authz.DashboardRead); err != nil {
		return nil, err
	}
	sales, err := s.recentSales(ctx, days)
	if err != nil {
		return nil, err
	}
	byProduct := map[string]*TopProduct{}
	for _, sale := range sales {
		for _, it := range sale.Items {
			tp, ok := byProduct[it.ProductID]
			if !ok {
				tp = &TopProduct{ProductID: it.ProductID, Name: it.Name, Amount: decimal.Zero}
				byProduct[it.ProductID] = tp
			}
			tp.Quantity += it.Quantity
			tp.Amount = tp.Amount.Add(it.Total)
		}
	}
	out := make([]TopProduct, 0, len(byProduct))
	for _, tp := range byProduct {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SalesSeries returns one point per local day, oldest first, including
// days without sales.
func (s DashboardService) SalesSeries(ctx context.Context, actor *domain.User, days int) ([]SalesPoint, error) {
	if err := authorize(actor, authz.DashboardRead); err != nil {
		return nil, err
	}
	if days < 1 {
		days = 1
	}
	sales, err := s.recentSales(ctx, days)
	if err != nil {
		return nil, err
	}
	loc := s.loc()
	today, _ := dayBounds(s.now(), loc)
	points := make([]SalesPoint, days)
	index := make(map[string]int, days)
	for i := range points {
		d := today.AddDate(0, 0, i-days+1).Format(dateLayout)
		points[i] = SalesPoint{Date: d, Amount: decimal.Zero}
		index[d] = i
	}
	for _, sale := range sales {
		i, ok := index[sale.SoldAt.In(loc).Format(dateLayout)]
		if !ok {
			continue
		}
		points[i].Amount = points[i].Amount.Add(sale.Total)
		points[i].Count++
	}
	return points, nil
}

func (s DashboardService) recentSales(ctx context.Context, days int) ([]*domain.Sale, error) {
	if days < 1 {
		days = 1
	}
	today, to := dayBounds(s.now(), s.loc())
	from := today.AddDate(0, 0, -days+1)
	return s.Repos.Sales.ListFiltered(ctx, repository.SaleFilter{From: &from, To: &to, State: domain.SalePaid})
}
