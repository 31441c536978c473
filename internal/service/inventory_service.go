package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/metrics"
	"cosmeticpos-backend/internal/repository"
)

type InventoryService struct {
	Deps
}

type MovementInput struct {
	ProductID string              `json:"productId"`
	Kind      domain.MovementKind `json:"kind"`
	Quantity  int                 `json:"quantity"`
	Reason    string              `json:"reason"`
	Notes     string              `json:"notes"`
	Reference string              `json:"reference"`
}

// applyMovement changes p.Stock, saves p and appends the movement. The
// caller owns the atomic unit.
func applyMovement(ctx context.Context, d Deps, actor *domain.User, p *domain.Product, in MovementInput) (*domain.InventoryMovement, error) {
	before := p.Stock
	after := before
	switch in.Kind {
	case domain.MovementIn:
		after = before + in.Quantity
	case domain.MovementOut:
		if in.Quantity > before {
			return nil, fmt.Errorf("%w: %s requested %d, available %d", ErrInsufficientStock, p.SKU, in.Quantity, before)
		}
		after = before - in.Quantity
	case domain.MovementAdjust:
		after = in.Quantity
	default:
		return nil, invalid("kind", "unknown movement kind %q", in.Kind)
	}

	p.Stock = after
	if err := d.Repos.Products.Save(ctx, p); err != nil {
		return nil, err
	}
	m, err := d.Repos.Movements.Create(ctx, &domain.InventoryMovement{
		ProductID:   p.ID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		StockBefore: before,
		StockAfter:  after,
		Reason:      in.Reason,
		Notes:       in.Notes,
		Reference:   in.Reference,
		UserID:      actorID(actor),
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMovement(string(in.Kind))
	return m, nil
}

// Adjust records a manual stock movement.
func (s InventoryService) Adjust(ctx context.Context, actor *domain.User, in MovementInput) (*domain.InventoryMovement, error) {
	if err := authorize(actor, authz.InventoryWrite); err != nil {
		return nil, err
	}
	in.Reason = strings.TrimSpace(in.Reason)
	switch {
	case in.ProductID == "":
		return nil, invalid("productId", "is required")
	case in.Quantity <= 0:
		return nil, invalid("quantity", "must be greater than zero")
	case in.Reason == "":
		return nil, invalid("reason", "is required")
	}

	var m *domain.InventoryMovement
	err := s.Repos.Store.Atomic(ctx, func(ctx context.Context) error {
		p, err := s.Repos.Products.Get(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p.Deleted() {
			return ErrNotFound
		}
		m, err = applyMovement(ctx, s.Deps, actor, p, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log().Info("stock adjusted", "product", m.ProductID, "kind", m.Kind, "before", m.StockBefore, "after", m.StockAfter)
	s.audit(ctx, actor, domain.LogInfo, "Stock movement", fmt.Sprintf("%s %d (%s): %d -> %d", m.Kind, m.Quantity, m.Reason, m.StockBefore, m.StockAfter))
	return m, nil
}

// Kardex lists one product's movements, newest first.
func (s InventoryService) Kardex(ctx context.Context, actor *domain.User, productID string) ([]*domain.InventoryMovement, error) {
	if err := authorize(actor, authz.InventoryMovements); err != nil {
		return nil, err
	}
	if _, err := s.Repos.Products.Get(ctx, productID); err != nil {
		return nil, err
	}
	return s.Repos.Movements.ListFiltered(ctx, repository.MovementFilter{ProductID: productID})
}

func (s InventoryService) Movements(ctx context.Context, actor *domain.User, f repository.MovementFilter) ([]*domain.InventoryMovement, error) {
	if err := authorize(actor, authz.InventoryMovements); err != nil {
		return nil, err
	}
	return s.Repos.Movements.ListFiltered(ctx, f)
}

func (s InventoryService) LowStock(ctx context.Context, actor *domain.User) ([]*domain.Product, error) {
	if err := authorizeAny(actor, authz.InventoryRead, authz.ProductsRead); err != nil {
		return nil, err
	}
	return s.Repos.Products.LowStock(ctx)
}

type ValuationLine struct {
	ProductID     string          `json:"productId"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Stock         int             `json:"stock"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	CostValue     decimal.Decimal `json:"costValue"`
	RetailValue   decimal.Decimal `json:"retailValue"`
}

type Valuation struct {
	Lines       []ValuationLine `json:"lines"`
	TotalUnits  int             `json:"totalUnits"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	TotalRetail decimal.Decimal `json:"totalRetail"`
}

// Valuation prices active stock at purchase and sale price.
func (s InventoryService) Valuation(ctx context.Context, actor *domain.User) (*Valuation, error) {
	if err := authorize(actor, authz.InventoryValuation); err != nil {
		return nil, err
	}
	products, err := s.Repos.Products.List(ctx, repository.ListOptions{})
	if err != nil {
		return nil, err
	}
	v := &Valuation{Lines: make([]ValuationLine, 0, len(products)), TotalCost: decimal.Zero, TotalRetail: decimal.Zero}
	for _, p := range products {
		units := decimal.NewFromInt(int64(p.Stock))
		line := ValuationLine{
			ProductID:     p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			Stock:         p.Stock,
			PurchasePrice: p.PurchasePrice,
			SalePrice:     p.SalePrice,
			CostValue:     p.PurchasePrice.Mul(units),
			RetailValue:   p.SalePrice.Mul(units),
		}
		v.Lines = append(v.Lines, line)
		v.TotalUnits += p.Stock
		v.TotalCost = v.TotalCost.Add(line.CostValue)
		v.TotalRetail = v.TotalRetail.Add(line.RetailValue)
	}
	return v, nil
}
