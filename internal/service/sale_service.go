package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/metrics"
	"cosmeticpos-backend/internal/repository"
)

type SaleService struct {
	Deps
}

type SaleLineInput struct {
	ProductID    string           `json:"productId"`
	Quantity     int              `json:"quantity"`
	UnitPrice    *decimal.Decimal `json:"unitPrice"`
	ItemDiscount decimal.Decimal  `json:"itemDiscount"`
}

type SaleInput struct {
	ClientID        string               `json:"clientId"`
	Items           []SaleLineInput      `json:"items"`
	DiscountPercent decimal.Decimal      `json:"discountPercent"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
	AmountTendered  decimal.Decimal      `json:"amountTendered"`
	Notes           string               `json:"notes"`
}

func validPaymentMethod(m domain.PaymentMethod) bool {
	switch m {
	case domain.PaymentCash, domain.PaymentCard, domain.PaymentTransfer, domain.PaymentMixed:
		return true
	}
	return false
}

func (in SaleInput) validate() error {
	if len(in.Items) == 0 {
		return invalid("items", "cart is empty")
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return invalid(fmt.Sprintf("items[%d].productId", i), "is required")
		}
		if it.Quantity <= 0 {
			return invalid(fmt.Sprintf("items[%d].quantity", i), "must be greater than zero")
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return invalid(fmt.Sprintf("items[%d].unitPrice", i), "must not be negative")
		}
	}
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(hundred) {
		return invalid("discountPercent", "must be between 0 and 100")
	}
	if !validPaymentMethod(in.PaymentMethod) {
		return invalid("paymentMethod", "unsupported payment method %q", in.PaymentMethod)
	}
	return nil
}

// Create runs the sale ledger: prices the cart, decrements stock with one
// OUT movement per line, reclassifies the client and numbers the sale, all
// in one atomic unit. Nothing is written when validation fails.
func (s SaleService) Create(ctx context.Context, actor *domain.User, in SaleInput) (*domain.Sale, error) {
	if err := authorize(actor, authz.SalesWrite); err != nil {
		return nil, err
	}
	if in.DiscountPercent.IsPositive() {
		if err := authorize(actor, authz.SalesDiscount); err != nil {
			return nil, err
		}
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var sale *domain.Sale
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		products, err := s.loadCart(ctx, in.Items)
		if err != nil {
			return err
		}

		items := make([]domain.SaleItem, 0, len(in.Items))
		for _, line := range in.Items {
			p := products[line.ProductID]
			price := p.SalePrice
			if line.UnitPrice != nil {
				price = *line.UnitPrice
			}
			subtotal, tax, total := PriceLine(price, line.Quantity, p.Taxable, p.TaxRate)
			items = append(items, domain.SaleItem{
				ID:           uuid.NewString(),
				ProductID:    p.ID,
				SKU:          p.SKU,
				Name:         p.Name,
				Quantity:     line.Quantity,
				UnitPrice:    price,
				ItemDiscount: line.ItemDiscount,
				Subtotal:     subtotal,
				Tax:          tax,
				Total:        total,
			})
		}
		totals := SumSale(items, in.DiscountPercent)

		var client *domain.Client
		if in.ClientID != "" {
			client, err = s.Repos.Clients.Get(ctx, in.ClientID)
			if errors.Is(err, repository.ErrNotFound) || (err == nil && (client.Deleted() || !client.Active)) {
				return invalid("clientId", "client not found or inactive")
			}
			if err != nil {
				return err
			}
		}

		tendered, change := totals.Total, decimal.Zero
		if in.PaymentMethod == domain.PaymentCash {
			if in.AmountTendered.LessThan(totals.Total) {
				return fmt.Errorf("%w: tendered %s, total %s", ErrInsufficientPayment, in.AmountTendered, totals.Total)
			}
			tendered = in.AmountTendered
			change = in.AmountTendered.Sub(totals.Total)
		}

		n, err := s.Repos.Sales.Count(ctx)
		if err != nil {
			return err
		}

		sale, err = s.Repos.Sales.Create(ctx, &domain.Sale{
			Number:          fmt.Sprintf("V-%06d", n+1),
			ClientID:        in.ClientID,
			UserID:          actor.ID,
			SoldAt:          s.now(),
			Items:           items,
			Subtotal:        totals.Subtotal,
			DiscountPercent: in.DiscountPercent,
			DiscountValue:   totals.DiscountValue,
			TaxTotal:        totals.TaxTotal,
			Total:           totals.Total,
			PaymentMethod:   in.PaymentMethod,
			AmountTendered:  tendered,
			Change:          change,
			State:           domain.SalePaid,
			Notes:           strings.TrimSpace(in.Notes),
		})
		if err != nil {
			return err
		}

		for _, it := range items {
			p := products[it.ProductID]
			if err := s.moveStock(ctx, actor, p, domain.MovementOut, it.Quantity, "Sale", sale.Number); err != nil {
				return err
			}
		}

		if client != nil {
			client.PurchaseCount++
			client.TotalSpent = client.TotalSpent.Add(sale.Total)
			client.Tier = ClassifyClient(client.PurchaseCount, client.TotalSpent)
			if err := s.Repos.Clients.Save(ctx, client); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordSale(string(sale.PaymentMethod), sale.Total)
	s.log().Info("sale created", "number", sale.Number, "total", sale.Total.String(), "items", len(sale.Items), "user", actor.Username)
	s.audit(ctx, actor, domain.LogInfo, "Sale completed", fmt.Sprintf("Sale %s for %s", sale.Number, sale.Total.StringFixed(moneyPlaces)))
	return sale, nil
}

// loadCart fetches every product in the cart and checks stock against the
// quantity requested across all lines for that product.
func (s SaleService) loadCart(ctx context.Context, lines []SaleLineInput) (map[string]*domain.Product, error) {
	products := make(map[string]*domain.Product, len(lines))
	requested := make(map[string]int, len(lines))
	for _, line := range lines {
		requested[line.ProductID] += line.Quantity
		if _, ok := products[line.ProductID]; ok {
			continue
		}
		p, err := s.Repos.Products.Get(ctx, line.ProductID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && (p.Deleted() || !p.Active)) {
			return nil, invalid("productId", "product %s not found or inactive", line.ProductID)
		}
		if err != nil {
			return nil, err
		}
		products[line.ProductID] = p
	}
	for id, qty := range requested {
		p := products[id]
		if qty > p.Stock {
			return nil, fmt.Errorf("%w: %s requested %d, available %d", ErrInsufficientStock, p.SKU, qty, p.Stock)
		}
	}
	return products, nil
}

// moveStock applies one movement to p, saves it and appends the kardex entry.
func (s SaleService) moveStock(ctx context.Context, actor *domain.User, p *domain.Product, kind domain.MovementKind, qty int, reason, reference string) error {
	_, err := applyMovement(ctx, s.Deps, actor, p, MovementInput{
		ProductID: p.ID,
		Kind:      kind,
		Quantity:  qty,
		Reason:    reason,
		Reference: reference,
	})
	return err
}

func (s SaleService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Sale, error) {
	if err := authorizeAny(actor, authz.SalesWrite, authz.ReportsBasic, authz.InvoicingRead); err != nil {
		return nil, err
	}
	return s.Repos.Sales.Get(ctx, id)
}

// List hides deleted sales unless the filter asks for them.
func (s SaleService) List(ctx context.Context, actor *domain.User, f repository.SaleFilter) ([]*domain.Sale, error) {
	if err := authorizeAny(actor, authz.SalesWrite, authz.ReportsBasic, authz.InvoicingRead); err != nil {
		return nil, err
	}
	if f.IncludeDeleted || f.OnlyDeleted {
		if err := authorize(actor, authz.SalesRestore); err != nil {
			return nil, err
		}
	}
	return s.Repos.Sales.ListFiltered(ctx, f)
}

// Void cancels a paid sale and returns its units to stock. Client
// statistics are left as they were.
func (s SaleService) Void(ctx context.Context, actor *domain.User, id, reason string) (*domain.Sale, error) {
	if err := authorize(actor, authz.SalesCancel); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, invalid("reason", "is required")
	}

	var sale *domain.Sale
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.Repos.Sales.Get(ctx, id)
		if err != nil {
			return err
		}
		if sale.Deleted() || sale.State != domain.SalePaid {
			return fmt.Errorf("%w: sale %s is %s", ErrInvalidState, sale.Number, sale.State)
		}
		for _, it := range sale.Items {
			p, err := s.Repos.Products.Get(ctx, it.ProductID)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := s.moveStock(ctx, actor, p, domain.MovementIn, it.Quantity, "Sale voided", sale.Number); err != nil {
				return err
			}
		}
		now := s.now()
		sale.State = domain.SaleVoided
		sale.VoidedAt = &now
		sale.VoidedBy = actor.ID
		sale.VoidReason = reason
		return s.Repos.Sales.Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	metrics.SalesVoidedCounter.Inc()
	s.log().Info("sale voided", "number", sale.Number, "user", actor.Username)
	s.audit(ctx, actor, domain.LogWarning, "Sale voided", fmt.Sprintf("Sale %s voided: %s", sale.Number, reason))
	return sale, nil
}

// Delete moves a sale to the trash. Stock is not touched.
func (s SaleService) Delete(ctx context.Context, actor *domain.User, id, reason string) (bool, error) {
	if err := authorize(actor, authz.SalesDelete); err != nil {
		return false, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return false, invalid("reason", "is required")
	}
	var number string
	ok, err := s.Repos.Sales.SoftDelete(ctx, id, func(sale *domain.Sale) {
		sale.DeletedBy = actor.ID
		sale.DeleteReason = reason
		number = sale.Number
	})
	if err != nil || !ok {
		return ok, err
	}
	s.audit(ctx, actor, domain.LogWarning, "Sale deleted", fmt.Sprintf("Sale %s sent to trash: %s", number, reason))
	return true, nil
}

func (s SaleService) Restore(ctx context.Context, actor *domain.User, id string) (bool, error) {
	if err := authorize(actor, authz.SalesRestore); err != nil {
		return false, err
	}
	var number string
	ok, err := s.Repos.Sales.Restore(ctx, id, func(sale *domain.Sale) {
		sale.DeletedBy = ""
		sale.DeleteReason = ""
		number = sale.Number
	})
	if err != nil || !ok {
		return ok, err
	}
	s.audit(ctx, actor, domain.LogInfo, "Sale restored", fmt.Sprintf("Sale %s restored", number))
	return true, nil
}
