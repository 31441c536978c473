package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enumerations
const (
	RoleSuperuser  UserRole = "SUPERUSER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSeller     UserRole = "SELLER"
	RoleWarehouse  UserRole = "WAREHOUSE"
	RoleAccountant UserRole = "ACCOUNTANT"

	LocationUSA      Location = "USA"
	LocationColombia Location = "COLOMBIA"

	DocumentCC  DocumentType = "CC"
	DocumentNIT DocumentType = "NIT"
	DocumentCE  DocumentType = "CE"
	DocumentTI  DocumentType = "TI"

	ConsentWeb      ConsentChannel = "WEB"
	ConsentInPerson ConsentChannel = "IN_PERSON"
	ConsentPhone    ConsentChannel = "PHONE"

	TierNew        ClientTier = "NEW"
	TierOccasional ClientTier = "OCCASIONAL"
	TierFrequent   ClientTier = "FREQUENT"
	TierVIP        ClientTier = "VIP"

	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentMixed    PaymentMethod = "MIXED"

	SaleOpen   SaleState = "OPEN"
	SalePaid   SaleState = "PAID"
	SaleVoided SaleState = "VOIDED"

	InvoiceIssued  InvoiceState = "ISSUED"
	InvoicePaid    InvoiceState = "PAID"
	InvoiceVoided  InvoiceState = "VOIDED"
	InvoiceOverdue InvoiceState = "OVERDUE"

	MovementIn     MovementKind = "IN"
	MovementOut    MovementKind = "OUT"
	MovementAdjust MovementKind = "ADJUST"

	LogInfo    ActivityLogType = "info"
	LogWarning ActivityLogType = "warning"
	LogError   ActivityLogType = "error"
)

type UserRole string
type Location string
type DocumentType string
type ConsentChannel string
type ClientTier string
type PaymentMethod string
type SaleState string
type InvoiceState string
type MovementKind string
type ActivityLogType string

// Base is the metadata block shared by every stored record.
type Base struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Meta exposes the metadata block to the record store.
func (b *Base) Meta() *Base { return b }

// Deleted reports whether the record carries a tombstone.
func (b Base) Deleted() bool { return b.DeletedAt != nil }

type User struct {
	Base
	Username     string     `json:"username"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Role         UserRole   `json:"role"`
	Location     Location   `json:"location"`
	Active       bool       `json:"active"`
	Permissions  []string   `json:"permissions"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

func (u User) IsActive() bool { return u.Active }

type Category struct {
	Base
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

func (c Category) IsActive() bool { return c.Active }

type Brand struct {
	Base
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

func (b Brand) IsActive() bool { return b.Active }

type Product struct {
	Base
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"categoryId"`
	BrandID       string          `json:"brandId"`
	SupplierID    string          `json:"supplierId,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"minStock"`
	Taxable       bool            `json:"taxable"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Active        bool            `json:"active"`
}

func (p Product) IsActive() bool { return p.Active }

// LowStock reports whether the product is at or below its minimum threshold.
func (p Product) LowStock() bool { return p.Stock <= p.MinStock }

type Client struct {
	Base
	DocumentType   DocumentType    `json:"documentType"`
	DocumentNumber string          `json:"documentNumber"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	CompanyName    string          `json:"companyName,omitempty"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	DataConsent    bool            `json:"dataConsent"`
	DataConsentAt  *time.Time      `json:"dataConsentAt,omitempty"`
	ConsentChannel ConsentChannel  `json:"consentChannel"`
	Tier           ClientTier      `json:"tier"`
	PurchaseCount  int             `json:"purchaseCount"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	Active         bool            `json:"active"`
}

func (c Client) IsActive() bool { return c.Active }

// DisplayName is the name printed on receipts and reports.
func (c Client) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type SaleItem struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	ItemDiscount decimal.Decimal `json:"itemDiscount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

type Sale struct {
	Base
	Number          string          `json:"number"`
	ClientID        string          `json:"clientId,omitempty"`
	UserID          string          `json:"userId"`
	SoldAt          time.Time       `json:"soldAt"`
	Items           []SaleItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountValue   decimal.Decimal `json:"discountValue"`
	TaxTotal        decimal.Decimal `json:"taxTotal"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	AmountTendered  decimal.Decimal `json:"amountTendered"`
	Change          decimal.Decimal `json:"change"`
	State           SaleState       `json:"state"`
	Notes           string          `json:"notes,omitempty"`
	VoidedAt        *time.Time      `json:"voidedAt,omitempty"`
	VoidedBy        string          `json:"voidedBy,omitempty"`
	VoidReason      string          `json:"voidReason,omitempty"`
	DeletedBy       string          `json:"deletedBy,omitempty"`
	DeleteReason    string          `json:"deleteReason,omitempty"`
}

type Invoice struct {
	Base
	Number       string          `json:"number"`
	SaleID       string          `json:"saleId"`
	ClientID     string          `json:"clientId,omitempty"`
	UserID       string          `json:"userId"`
	IssuedAt     time.Time       `json:"issuedAt"`
	DueAt        time.Time       `json:"dueAt"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxTotal     decimal.Decimal `json:"taxTotal"`
	Total        decimal.Decimal `json:"total"`
	State        InvoiceState    `json:"state"`
	Notes        string          `json:"notes,omitempty"`
	PaidAt       *time.Time      `json:"paidAt,omitempty"`
	VoidedAt     *time.Time      `json:"voidedAt,omitempty"`
	VoidedBy     string          `json:"voidedBy,omitempty"`
	VoidReason   string          `json:"voidReason,omitempty"`
	ReprintCount int             `json:"reprintCount"`
}

type InventoryMovement struct {
	Base
	ProductID   string       `json:"productId"`
	Kind        MovementKind `json:"kind"`
	Quantity    int          `json:"quantity"`
	StockBefore int          `json:"stockBefore"`
	StockAfter  int          `json:"stockAfter"`
	Reason      string       `json:"reason"`
	Notes       string       `json:"notes,omitempty"`
	Reference   string       `json:"reference,omitempty"`
	UserID      string       `json:"userId"`
}

type Supplier struct {
	Base
	TaxID        string `json:"taxId"`
	LegalName    string `json:"legalName"`
	TradeName    string `json:"tradeName"`
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	Website      string `json:"website,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Active       bool   `json:"active"`
}

func (s Supplier) IsActive() bool { return s.Active }

type SupplierEvaluation struct {
	Base
	SupplierID string          `json:"supplierId"`
	Quality    int             `json:"quality"`
	Price      int             `json:"price"`
	Delivery   int             `json:"delivery"`
	Service    int             `json:"service"`
	Average    decimal.Decimal `json:"average"`
	Comments   string          `json:"comments,omitempty"`
	UserID     string          `json:"userId"`
}

type ActivityLog struct {
	Base
	Title    string          `json:"title"`
	Message  string          `json:"message"`
	Actor    string          `json:"actor"`
	Type     ActivityLogType `json:"type"`
	LoggedAt time.Time       `json:"loggedAt"`
}

type CompanySettings struct {
	Base
	LegalName        string `json:"legalName"`
	TaxID            string `json:"taxId"`
	Address          string `json:"address"`
	City             string `json:"city"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Website          string `json:"website,omitempty"`
	LogoURL          string `json:"logoUrl,omitempty"`
	Slogan           string `json:"slogan,omitempty"`
	TaxRegime        string `json:"taxRegime"`
	EconomicActivity string `json:"economicActivity"`
	UpdatedBy        string `json:"updatedBy"`
}

type TaxSettings struct {
	Base
	GeneralVAT        decimal.Decimal `json:"generalVat"`
	ProductVAT        decimal.Decimal `json:"productVat"`
	WithholdingSource decimal.Decimal `json:"withholdingSource"`
	WithholdingVAT    decimal.Decimal `json:"withholdingVat"`
	WithholdingICA    decimal.Decimal `json:"withholdingIca"`
	UpdatedBy         string          `json:"updatedBy"`
}

type InvoicingSettings struct {
	Base
	Prefix         string `json:"prefix"`
	InitialNumber  int    `json:"initialNumber"`
	CurrentNumber  int    `json:"currentNumber"`
	Resolution     string `json:"resolution"`
	ResolutionDate string `json:"resolutionDate"`
	RangeStart     int    `json:"rangeStart"`
	RangeEnd       int    `json:"rangeEnd"`
	ExpiresAt      string `json:"expiresAt"`
	UpdatedBy      string `json:"updatedBy"`
}
