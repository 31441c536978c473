package repository

import "cosmeticpos-backend/internal/ports"

// Repositories groups every entity repository over one record store.
type Repositories struct {
	Store       ports.RecordStore
	Users       UserRepository
	Products    ProductRepository
	Categories  CategoryRepository
	Brands      BrandRepository
	Clients     ClientRepository
	Suppliers   SupplierRepository
	Evaluations EvaluationRepository
	Sales       SaleRepository
	Invoices    InvoiceRepository
	Movements   MovementRepository
	Logs        ActivityLogRepository
	Settings    SettingsRepository
}

func New(store ports.RecordStore) Repositories {
	return Repositories{
		Store:       store,
		Users:       NewUserRepository(store),
		Products:    NewProductRepository(store),
		Categories:  NewCategoryRepository(store),
		Brands:      NewBrandRepository(store),
		Clients:     NewClientRepository(store),
		Suppliers:   NewSupplierRepository(store),
		Evaluations: NewEvaluationRepository(store),
		Sales:       NewSaleRepository(store),
		Invoices:    NewInvoiceRepository(store),
		Movements:   NewMovementRepository(store),
		Logs:        NewActivityLogRepository(store),
		Settings:    NewSettingsRepository(store),
	}
}
