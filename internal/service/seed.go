package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cosmeticpos-backend/internal/domain"
	"cosmeticpos-backend/internal/repository"
)

func ptr[T any](v T) *T { return &v }

type demoProduct struct {
	sku, name, description string
	category, brand        int
	supplier               int
	purchase, sale         int64
	stock, minStock        int
}

// SeedDemoData loads the demo catalog when no categories exist yet. It goes
// through the services so opening stock lands in the kardex.
func SeedDemoData(ctx context.Context, svc Services, actor *domain.User) error {
	n, err := svc.Catalog.Repos.Categories.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var categories []string
	for _, c := range [][2]string{
		{"Cosméticos", "Productos de belleza y cuidado personal"},
		{"Cuidado Facial", "Productos para el cuidado del rostro"},
		{"Maquillaje", "Productos de maquillaje y coloración"},
		{"Cuidado Corporal", "Productos para el cuidado del cuerpo"},
	} {
		cat, err := svc.Catalog.CreateCategory(ctx, actor, LabelInput{Name: ptr(c[0]), Description: ptr(c[1])})
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c[0], err)
		}
		categories = append(categories, cat.ID)
	}

	var brands []string
	for _, b := range [][2]string{
		{"L'Oréal", "Marca internacional de cosméticos"},
		{"Maybelline", "Maquillaje profesional"},
		{"Nivea", "Cuidado personal"},
		{"AEJ Cosmetics", "Marca propia"},
	} {
		brand, err := svc.Catalog.CreateBrand(ctx, actor, LabelInput{Name: ptr(b[0]), Description: ptr(b[1])})
		if err != nil {
			return fmt.Errorf("seed brand %s: %w", b[0], err)
		}
		brands = append(brands, brand.ID)
	}

	var suppliers []string
	for _, in := range []SupplierInput{
		{
			TaxID: ptr("900123456-1"), LegalName: ptr("Distribuidora Belleza SAS"), TradeName: ptr("Belleza Total"),
			ContactName: ptr("Juan Pérez"), ContactEmail: ptr("juan@belleza.com"), ContactPhone: ptr("3001234567"),
			Address: ptr("Calle 50 #25-30"), City: ptr("Bogotá"),
		},
		{
			TaxID: ptr("800987654-2"), LegalName: ptr("Cosméticos Internacionales LTDA"), TradeName: ptr("Cosmo Internacional"),
			ContactName: ptr("María García"), ContactEmail: ptr("maria@cosmo.com"), ContactPhone: ptr("3009876543"),
			Address: ptr("Carrera 15 #80-45"), City: ptr("Medellín"),
		},
	} {
		sup, err := svc.Suppliers.Create(ctx, actor, in)
		if err != nil {
			return fmt.Errorf("seed supplier: %w", err)
		}
		suppliers = append(suppliers, sup.ID)
	}

	for _, p := range []demoProduct{
		{"COS-001", "Crema Facial Hidratante", "Crema hidratante para todo tipo de piel", 1, 0, 0, 25000, 45000, 50, 10},
		{"MAQ-001", "Base de Maquillaje Líquida", "Base líquida de larga duración", 2, 1, 0, 35000, 65000, 5, 10},
		{"COR-001", "Loción Corporal Nivea", "Loción hidratante para el cuerpo", 3, 2, 1, 18000, 32000, 25, 8},
		{"LIP-001", "Labial Mate Maybelline", "Labial de larga duración color rojo", 2, 1, 0, 12000, 22000, 0, 5},
		{"SER-001", "Serum Vitamina C", "Serum antioxidante con vitamina C", 1, 3, 1, 45000, 85000, 15, 8},
	} {
		_, err := svc.Products.Create(ctx, actor, ProductInput{
			SKU:           ptr(p.sku),
			Name:          ptr(p.name),
			Description:   ptr(p.description),
			CategoryID:    ptr(categories[p.category]),
			BrandID:       ptr(brands[p.brand]),
			SupplierID:    ptr(suppliers[p.supplier]),
			PurchasePrice: ptr(decimal.NewFromInt(p.purchase)),
			SalePrice:     ptr(decimal.NewFromInt(p.sale)),
			Stock:         ptr(p.stock),
			MinStock:      ptr(p.minStock),
		})
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.sku, err)
		}
	}

	for _, in := range []ClientInput{
		{
			DocumentType: ptr(domain.DocumentCC), DocumentNumber: ptr("12345678"),
			FirstName: ptr("María"), LastName: ptr("González"), Email: ptr("maria.gonzalez@email.com"),
			Phone: ptr("3001234567"), Address: ptr("Calle 123 #45-67"), City: ptr("Bogotá"),
			DataConsent: ptr(true), ConsentChannel: ptr(domain.ConsentWeb),
		},
		{
			DocumentType: ptr(domain.DocumentCC), DocumentNumber: ptr("87654321"),
			FirstName: ptr("Carlos"), LastName: ptr("Rodríguez"), Email: ptr("carlos.rodriguez@email.com"),
			Phone: ptr("3009876543"), Address: ptr("Carrera 45 #12-34"), City: ptr("Medellín"),
			DataConsent: ptr(true), ConsentChannel: ptr(domain.ConsentInPerson),
		},
	} {
		if _, err := svc.Clients.Create(ctx, actor, in); err != nil {
			return fmt.Errorf("seed client: %w", err)
		}
	}

	products, err := svc.Products.Repos.Products.List(ctx, repository.ListOptions{})
	if err != nil {
		return err
	}
	svc.Products.log().Info("demo data seeded", "products", len(products))
	return nil
}
