// Package authz holds the static role to permission table and the flat
// set-membership checks built on it.
package authz

import (
	"slices"
	"strings"

	"cosmeticpos-backend/internal/domain"
)

// Permission describes one grantable `<module>.<action>` string.
type Permission struct {
	Module      string
	Action      string
	Label       string
	Description string
}

// Key returns the permission string.
func (p Permission) Key() string { return p.Module + "." + p.Action }

// Permission strings used by the services.
const (
	DashboardRead          = "dashboard.read"
	DashboardManageMetrics = "dashboard.manage_metrics"

	ProductsRead        = "products.read"
	ProductsWrite       = "products.write"
	ProductsDelete      = "products.delete"
	ProductsManageStock = "products.manage_stock"

	ClientsRead   = "clients.read"
	ClientsWrite  = "clients.write"
	ClientsDelete = "clients.delete"
	ClientsExport = "clients.export"

	SalesWrite    = "sales.write"
	SalesCancel   = "sales.cancel"
	SalesDiscount = "sales.discount"
	SalesDelete   = "sales.delete"
	SalesRestore  = "sales.restore"

	InventoryRead      = "inventory.read"
	InventoryWrite     = "inventory.write"
	InventoryMovements = "inventory.movements"
	InventoryValuation = "inventory.valuation"

	ReportsBasic     = "reports.basic"
	ReportsAdvanced  = "reports.advanced"
	ReportsExport    = "reports.export"
	ReportsFinancial = "reports.financial"

	SuppliersRead     = "suppliers.read"
	SuppliersWrite    = "suppliers.write"
	SuppliersDelete   = "suppliers.delete"
	SuppliersEvaluate = "suppliers.evaluate"

	InvoicingRead    = "invoicing.read"
	InvoicingWrite   = "invoicing.write"
	InvoicingCancel  = "invoicing.cancel"
	InvoicingReprint = "invoicing.reprint"

	SettingsRead    = "settings.read"
	SettingsCompany = "settings.company"
	SettingsTaxes   = "settings.taxes"

	UsersRead        = "users.read"
	UsersWrite       = "users.write"
	UsersDelete      = "users.delete"
	UsersPermissions = "users.permissions"
)

var all = []Permission{
	{"dashboard", "read", "View dashboard", "Access the main panel"},
	{"dashboard", "manage_metrics", "Manage metrics", "Configure dashboard metrics"},

	{"products", "read", "View products", "Browse the product catalog"},
	{"products", "write", "Create/edit products", "Create and modify products"},
	{"products", "delete", "Delete products", "Remove products from the catalog"},
	{"products", "manage_stock", "Manage stock", "Change inventory quantities"},

	{"clients", "read", "View clients", "Browse the client base"},
	{"clients", "write", "Create/edit clients", "Register and modify clients"},
	{"clients", "delete", "Delete clients", "Remove clients"},
	{"clients", "export", "Export clients", "Export client data"},

	{"sales", "write", "Use POS", "Process sales at the point of sale"},
	{"sales", "cancel", "Void sales", "Void completed transactions"},
	{"sales", "discount", "Apply discounts", "Grant discounts on sales"},
	{"sales", "delete", "Delete sales", "Send sales to the trash"},
	{"sales", "restore", "Restore sales", "Restore sales from the trash"},

	{"inventory", "read", "View inventory", "Check inventory status"},
	{"inventory", "write", "Adjust inventory", "Record stock adjustments"},
	{"inventory", "movements", "View movements", "Browse movement history"},
	{"inventory", "valuation", "Inventory valuation", "Compute stock valuation"},

	{"reports", "basic", "Basic reports", "View basic sales reports"},
	{"reports", "advanced", "Advanced reports", "Access every report"},
	{"reports", "export", "Export reports", "Export reports to spreadsheets"},
	{"reports", "financial", "Financial reports", "View financial analysis"},

	{"suppliers", "read", "View suppliers", "Browse suppliers"},
	{"suppliers", "write", "Create/edit suppliers", "Manage suppliers"},
	{"suppliers", "delete", "Delete suppliers", "Remove suppliers"},
	{"suppliers", "evaluate", "Evaluate suppliers", "Rate supplier performance"},

	{"invoicing", "read", "View invoices", "Browse issued invoices"},
	{"invoicing", "write", "Create invoices", "Issue new invoices"},
	{"invoicing", "cancel", "Void invoices", "Void issued invoices"},
	{"invoicing", "reprint", "Reprint invoices", "Reprint invoices"},

	{"settings", "read", "View settings", "Read system configuration"},
	{"settings", "company", "Edit company", "Modify company profile"},
	{"settings", "taxes", "Edit taxes", "Configure taxes and withholdings"},

	{"users", "read", "View users", "Browse system users"},
	{"users", "write", "Create/edit users", "Manage system users"},
	{"users", "delete", "Delete users", "Remove users"},
	{"users", "permissions", "Manage permissions", "Grant specific permissions"},
}

var defaults = map[domain.UserRole][]string{
	domain.RoleAdmin: {
		DashboardRead, DashboardManageMetrics,
		ProductsRead, ProductsWrite, ProductsDelete, ProductsManageStock,
		ClientsRead, ClientsWrite, ClientsDelete, ClientsExport,
		SalesWrite, SalesCancel, SalesDiscount, SalesDelete, SalesRestore,
		InventoryRead, InventoryWrite, InventoryMovements, InventoryValuation,
		ReportsBasic, ReportsAdvanced, ReportsExport, ReportsFinancial,
		SuppliersRead, SuppliersWrite, SuppliersDelete, SuppliersEvaluate,
		InvoicingRead, InvoicingWrite, InvoicingCancel, InvoicingReprint,
		SettingsRead, SettingsCompany, SettingsTaxes,
	},
	domain.RoleSeller: {
		DashboardRead,
		ProductsRead,
		ClientsRead, ClientsWrite,
		SalesWrite, SalesDiscount,
		ReportsBasic,
	},
	domain.RoleWarehouse: {
		DashboardRead,
		ProductsRead, ProductsWrite, ProductsManageStock,
		InventoryRead, InventoryWrite, InventoryMovements, InventoryValuation,
		SuppliersRead, SuppliersWrite, SuppliersEvaluate,
		ReportsBasic, ReportsAdvanced,
	},
	domain.RoleAccountant: {
		DashboardRead,
		ReportsBasic, ReportsAdvanced, ReportsExport, ReportsFinancial,
		InvoicingRead, InvoicingWrite, InvoicingCancel, InvoicingReprint,
		SettingsRead,
	},
}

// All returns every grantable permission.
func All() []Permission {
	return slices.Clone(all)
}

// Keys returns every grantable permission string.
func Keys() []string {
	out := make([]string, 0, len(all))
	for _, p := range all {
		out = append(out, p.Key())
	}
	return out
}

// Known reports whether perm is a grantable permission string.
func Known(perm string) bool {
	for _, p := range all {
		if p.Key() == perm {
			return true
		}
	}
	return false
}

// ValidRole reports whether role belongs to the fixed role enumeration.
func ValidRole(role domain.UserRole) bool {
	if role == domain.RoleSuperuser {
		return true
	}
	_, ok := defaults[role]
	return ok
}

// DefaultPermissions returns a fresh copy of the role's seed permission set.
func DefaultPermissions(role domain.UserRole) []string {
	if role == domain.RoleSuperuser {
		return Keys()
	}
	return slices.Clone(defaults[role])
}

// GroupByModule splits permission strings into module -> actions.
func GroupByModule(perms []string) map[string][]string {
	grouped := make(map[string][]string)
	for _, p := range perms {
		module, action, ok := strings.Cut(p, ".")
		if !ok {
			continue
		}
		grouped[module] = append(grouped[module], action)
	}
	return grouped
}
