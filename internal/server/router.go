package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cosmeticpos-backend/internal/authz"
	"cosmeticpos-backend/internal/config"
	"cosmeticpos-backend/internal/handler"
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Health      handler.HealthHandler
	Home        handler.HomeHandler
	Docs        handler.DocsHandler
	Auth        handler.AuthHandler
	Users       handler.UserHandler
	Products    handler.ProductHandler
	Catalog     handler.CatalogHandler
	Clients     handler.ClientHandler
	Suppliers   handler.SupplierHandler
	Sales       handler.SaleHandler
	Invoices    handler.InvoiceHandler
	Inventory   handler.InventoryHandler
	Settings    handler.SettingsHandler
	Dashboard   handler.DashboardHandler
	Reports     handler.ReportHandler
	ActivityLog handler.ActivityLogHandler
}

// NewRouter wires HTTP routes and middleware. Route groups are gated on the
// permissions of their module; each service call checks its exact permission.
func NewRouter(cfg config.Config, logger *slog.Logger, auth Authenticator, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(MetricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	h.Health.RegisterRoutes(r)
	h.Home.RegisterRoutes(r)
	h.Docs.RegisterRoutes(r)
	h.Auth.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(auth, logger))
		h.Auth.RegisterProtectedRoutes(pr)
		h.ActivityLog.RegisterRoutes(pr)
		// user admin is decided per call: super users or the users.* permissions
		h.Users.RegisterRoutes(pr)

		pr.Group(func(g chi.Router) {
			g.Use(RequirePermission(authz.DashboardRead))
			h.Dashboard.RegisterRoutes(g)
		})
		pr.Group(func(g chi.Router) {
			g.Use(RequirePermission(authz.ProductsRead, authz.ProductsWrite, authz.ProductsDelete, authz.SalesWrite))
			h.Products.RegisterRoutes(g)
			h.Catalog.RegisterRoutes(g)
		})
		pr.Group(func(g chi.Router) {
			g.Use(RequirePermission(authz.ClientsRead, authz.ClientsWrite, authz.ClientsDelete, authz.ClientsExport))
			h.Clients.RegisterRoutes(g)
		})
		pr.Group(func(g chi.Router) {
			g.Use(RequirePermission(authz.SuppliersRead, authz.SuppliersWrite, authz.SuppliersDelete, authz.SuppliersEvaluate))
			h.Suppliers.RegisterRoutes(g)
		})
		pr.Group(func(g chi.Router) {
			g.Use(RequirePermission(authz.SalesWrite, authz.SalesCancel, authz.SalesDelete, authz.SalesRestore,
				authz.ReportsBasic, authz.InvoicingRead))
			h.Sales.RegisterRoutes(g)
		})
		pr.Group(func(g chi.Router) {
			g.Use(RequirePermission(authz.InvoicingRead, authz.InvoicingWrite, authz.InvoicingCancel, authz.InvoicingReprint))
			h.Invoices.RegisterRoutes(g)
		})
		pr.Group(func(g chi.Router) {
			g.Use(RequirePermission(authz.InventoryRead, authz.InventoryWrite, authz.InventoryMovements,
				authz.InventoryValuation, authz.ProductsRead, authz.ProductsManageStock))
			h.Inventory.RegisterRoutes(g)
		})
		pr.Group(func(g chi.Router) {
			g.Use(RequirePermission(authz.SettingsRead, authz.SettingsCompany, authz.SettingsTaxes))
			h.Settings.RegisterRoutes(g)
		})
		pr.Group(func(g chi.Router) {
			g.Use(RequirePermission(authz.ReportsBasic, authz.ReportsAdvanced, authz.ReportsExport, authz.ReportsFinancial))
			h.Reports.RegisterRoutes(g)
		})
	})

	return r
}
