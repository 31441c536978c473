package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmeticpos-backend/internal/config"
	"cosmeticpos-backend/internal/db"
	"cosmeticpos-backend/internal/handler"
	"cosmeticpos-backend/internal/repository"
	"cosmeticpos-backend/internal/service"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code  int    `json:"code"`
		Field string `json:"field"`
	} `json:"error"`
}

type apiClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newTestRouter(t *testing.T) *apiClient {
	t.Helper()
	cfg := config.Config{
		JWTSecret:      "router-secret",
		AccessTokenTTL: time.Hour,
		RateLimit:      10000,
		CORSOrigins:    []string{"*"},
		OpenAPIPath:    "../../api/openapi.yaml",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := db.NewMemory()
	svc := service.New(service.Deps{
		Repos:    repository.New(store),
		Logger:   logger,
		Location: time.UTC,
	}, cfg)
	_, err := svc.Auth.EnsureSuperuser(context.Background(), "supersecret")
	require.NoError(t, err)

	router := NewRouter(cfg, logger, svc.Auth, Handlers{
		Health:      handler.HealthHandler{DB: store},
		Home:        handler.HomeHandler{Version: "test"},
		Docs:        handler.DocsHandler{OpenAPIPath: cfg.OpenAPIPath},
		Auth:        handler.AuthHandler{Service: svc.Auth},
		Users:       handler.UserHandler{Service: svc.Users},
		Products:    handler.ProductHandler{Service: svc.Products},
		Catalog:     handler.CatalogHandler{Service: svc.Catalog},
		Clients:     handler.ClientHandler{Service: svc.Clients},
		Suppliers:   handler.SupplierHandler{Service: svc.Suppliers},
		Sales:       handler.SaleHandler{Service: svc.Sales},
		Invoices:    handler.InvoiceHandler{Service: svc.Invoices},
		Inventory:   handler.InventoryHandler{Service: svc.Inventory},
		Settings:    handler.SettingsHandler{Service: svc.Settings},
		Dashboard:   handler.DashboardHandler{Service: svc.Dashboard},
		Reports:     handler.ReportHandler{Service: svc.Reports},
		ActivityLog: handler.ActivityLogHandler{Service: svc.ActivityLog},
	})
	return &apiClient{t: t, router: router}
}

func (c *apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (c *apiClient) login(username, password string) {
	c.t.Helper()
	c.token = ""
	rec := c.do(http.MethodPost, "/auth/login", map[string]string{"username": username, "password": password})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	decodeEnvelope(c.t, rec, &out)
	require.NotEmpty(c.t, out.AccessToken)
	c.token = out.AccessToken
}

func (c *apiClient) create(path string, body any) map[string]any {
	c.t.Helper()
	rec := c.do(http.MethodPost, path, body)
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	var out map[string]any
	decodeEnvelope(c.t, rec, &out)
	return out
}

func TestHealthAndHome(t *testing.T) {
	c := newTestRouter(t)

	rec := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)

	rec = c.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cosmetic POS")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c := newTestRouter(t)

	rec := c.do(http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c.token = "not-a-jwt"
	rec = c.do(http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	c := newTestRouter(t)
	rec := c.do(http.MethodPost, "/auth/login", map[string]string{"username": "superadmin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeHidesPasswordHash(t *testing.T) {
	c := newTestRouter(t)
	c.login("superadmin", "supersecret")

	rec := c.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
	assert.Contains(t, rec.Body.String(), `"SUPERUSER"`)
}

func TestSaleFlowOverHTTP(t *testing.T) {
	c := newTestRouter(t)
	c.login("superadmin", "supersecret")

	product := c.create("/products", map[string]any{
		"sku": "lab-001", "name": "Labial mate", "purchasePrice": 15000, "salePrice": 30000,
		"stock": 10, "minStock": 2, "taxable": true, "taxRate": 19,
	})
	assert.Equal(t, "LAB-001", product["sku"])
	productID := product["id"].(string)

	sale := c.create("/sales", map[string]any{
		"items":          []map[string]any{{"productId": productID, "quantity": 2}},
		"paymentMethod":  "CASH",
		"amountTendered": 100000,
	})
	assert.Equal(t, "PAID", sale["state"])
	assert.Equal(t, "V-000001", sale["number"])
	saleID := sale["id"].(string)

	rec := c.do(http.MethodGet, "/products/"+productID, nil)
	var reloaded map[string]any
	decodeEnvelope(t, rec, &reloaded)
	assert.EqualValues(t, 8, reloaded["stock"])

	// too many units
	rec = c.do(http.MethodPost, "/sales", map[string]any{
		"items":          []map[string]any{{"productId": productID, "quantity": 50}},
		"paymentMethod":  "CASH",
		"amountTendered": 10000000,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	invoice := c.create("/invoices", map[string]any{"saleId": saleID, "dueDate": "2099-01-31"})
	assert.Equal(t, "ISSUED", invoice["state"])

	rec = c.do(http.MethodPost, "/invoices", map[string]any{"saleId": saleID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/sales/"+saleID+"/void", map[string]string{"reason": "customer changed mind"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/inventory/kardex/"+productID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var moves []map[string]any
	decodeEnvelope(t, rec, &moves)
	assert.Len(t, moves, 3)

	rec = c.do(http.MethodDelete, "/sales/"+saleID+"?reason=duplicate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/sales?deleted=only", nil)
	var trash []map[string]any
	decodeEnvelope(t, rec, &trash)
	assert.Len(t, trash, 1)
}

func TestValidationErrorCarriesField(t *testing.T) {
	c := newTestRouter(t)
	c.login("superadmin", "supersecret")

	rec := c.do(http.MethodPost, "/products", map[string]any{
		"sku": "X-1", "name": "Bad price", "purchasePrice": 100, "salePrice": 50,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "salePrice", env.Error.Field)

	rec = c.do(http.MethodPost, "/products", strings.NewReader("{"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSellerIsForbiddenFromSettings(t *testing.T) {
	c := newTestRouter(t)
	c.login("superadmin", "supersecret")
	c.create("/users", map[string]any{
		"username": "vendedora", "password": "secret123", "fullName": "Ana Vendedora", "role": "SELLER",
	})

	c.login("vendedora", "secret123")
	rec := c.do(http.MethodGet, "/settings", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPermissionChangeAppliesWithoutNewLogin(t *testing.T) {
	c := newTestRouter(t)
	c.login("superadmin", "supersecret")
	user := c.create("/users", map[string]any{
		"username": "bodega", "password": "secret123", "fullName": "Bodega", "role": "WAREHOUSE",
	})
	admin := c.token

	c.login("bodega", "secret123")
	rec := c.do(http.MethodGet, "/inventory/valuation", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	seller := c.token

	c.token = admin
	rec = c.do(http.MethodPut, "/users/"+user["id"].(string)+"/permissions", map[string]any{
		"permissions": []string{"dashboard.read"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	c.token = seller
	rec = c.do(http.MethodGet, "/inventory/valuation", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReportExport(t *testing.T) {
	c := newTestRouter(t)
	c.login("superadmin", "supersecret")

	rec := c.do(http.MethodGet, "/reports/sales/export?format=csv&from=2024-01-01&to=2024-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "report_sales_20240101_20240131.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Date,Sales,Total,Average Ticket"))

	rec = c.do(http.MethodGet, "/reports/products/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = c.do(http.MethodGet, "/reports/sales/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/reports/sales?from=2024-02-10&to=2024-02-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientExportAndHistory(t *testing.T) {
	c := newTestRouter(t)
	c.login("superadmin", "supersecret")
	client := c.create("/clients", map[string]any{
		"documentType": "CC", "documentNumber": "1020304050", "firstName": "Laura", "lastName": "Gomez",
		"email": "laura@example.com", "dataConsent": true, "consentChannel": "WEB",
	})

	rec := c.do(http.MethodGet, "/clients/export", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Laura Gomez")

	rec = c.do(http.MethodGet, "/clients/"+client["id"].(string)+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/clients/missing/history", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	c := newTestRouter(t)
	c.do(http.MethodGet, "/health", nil)
	rec := c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cosmeticpos_")
}
