package service

import "cosmeticpos-backend/internal/config"

// Services is the set of use cases exposed to the HTTP layer.
type Services struct {
	Auth        AuthService
	Users       UserService
	Products    ProductService
	Catalog     CatalogService
	Clients     ClientService
	Suppliers   SupplierService
	Sales       SaleService
	Invoices    InvoiceService
	Inventory   InventoryService
	Settings    SettingsService
	Dashboard   DashboardService
	Reports     ReportService
	ActivityLog ActivityLogService
}

func New(d Deps, cfg config.Config) Services {
	return Services{
		Auth:        AuthService{Deps: d, Config: cfg},
		Users:       UserService{d},
		Products:    ProductService{d},
		Catalog:     CatalogService{d},
		Clients:     ClientService{d},
		Suppliers:   SupplierService{d},
		Sales:       SaleService{d},
		Invoices:    InvoiceService{d},
		Inventory:   InventoryService{d},
		Settings:    SettingsService{d},
		Dashboard:   DashboardService{d},
		Reports:     ReportService{d},
		ActivityLog: ActivityLogService{d},
	}
}
