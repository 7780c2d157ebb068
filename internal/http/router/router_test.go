package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/foxerka/enterprise-assets/internal/auth"
	"github.com/foxerka/enterprise-assets/internal/config"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/http/handler"
	"github.com/foxerka/enterprise-assets/internal/http/middleware"
	"github.com/foxerka/enterprise-assets/internal/http/router"
	"github.com/foxerka/enterprise-assets/internal/integrity"
	"github.com/foxerka/enterprise-assets/internal/lifecycle"
	"github.com/foxerka/enterprise-assets/internal/report"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"github.com/foxerka/enterprise-assets/internal/service"
	"github.com/foxerka/enterprise-assets/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testServer struct {
	handler http.Handler
	db      *gorm.DB
	tokens  *auth.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	cfg := &config.Config{
		App:  config.AppConfig{Environment: "development"},
		Auth: config.AuthConfig{JWTSecret: "test-secret", Issuer: "enterprise-assets", TokenTTL: 60, AdminRoles: []string{"admin"}},
	}
	tokens := auth.NewTokenService(&cfg.Auth)

	deps := service.Deps{
		DB:      db,
		Rules:   lifecycle.NewRules(db),
		Checker: integrity.NewChecker(db, logger),
		Logger:  logger,
	}
	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger)
	equipment := service.NewEquipmentService(deps)

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(service.NewAuthService(db, tokens, logger), logger),
		Asset:       handler.NewAssetHandler(service.NewAssetService(deps), logger),
		Equipment:   handler.NewEquipmentHandler(equipment, logger),
		Workshop:    handler.NewWorkshopHandler(service.NewWorkshopService(deps), logger),
		Supplier:    handler.NewSupplierHandler(service.NewSupplierService(deps), logger),
		Purchase:    handler.NewPurchaseHandler(service.NewPurchaseService(deps, numbers), logger),
		Maintenance: handler.NewMaintenanceHandler(service.NewMaintenanceService(deps), logger),
		Master:      handler.NewMasterHandler(service.NewMasterService(deps), logger),
		User:        handler.NewUserHandler(service.NewUserService(deps), logger),
		Role:        handler.NewRoleHandler(service.NewRoleService(deps), logger),
		WorkAct:     handler.NewWorkActHandler(service.NewWorkActService(deps), logger),
		Lookup:      handler.NewLookupHandler(service.NewLookupService(deps), logger),
		Integrity:   handler.NewIntegrityHandler(service.NewIntegrityService(deps), logger),
		Report:      handler.NewReportHandler(service.NewReportService(equipment, nil, logger), logger),
	}

	rt := router.NewRouter(
		cfg, logger, db,
		auth.NewMiddleware(tokens, logger),
		middleware.NewRateLimiter(&cfg.RateLimit, logger),
		h,
	)
	return &testServer{handler: rt.Setup(), db: db, tokens: tokens}
}

func (s *testServer) token(t *testing.T, role string) string {
	t.Helper()
	token, _, err := s.tokens.Issue(&auth.UserContext{UserID: 1, Username: "tester", Role: role})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[map[string]interface{}](t, w)["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/assets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/assets", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	role := testutil.CreateRole(t, s.db, "admin")
	user := testutil.CreateUser(t, s.db, "Petrov", &role.ID)
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)
	require.NoError(t, s.db.Model(user).Update("password_hash", hash).Error)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "petrov", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "petrov", "password": "s3cret!"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[domain.LoginResponse](t, w)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "Petrov", login.User.Username)

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, decode[domain.UserDTO](t, w).ID)

	// admin routes accept the admin role from the token
	w = s.do(t, http.MethodGet, "/api/v1/users", login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRejectOtherRoles(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/roles", s.token(t, "storekeeper"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/roles", s.token(t, "Admin"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAssetLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "")
	supplier := testutil.CreateSupplier(t, s.db, "Metallservis")

	w := s.do(t, http.MethodPost, "/api/v1/assets", token, map[string]interface{}{
		"name":       "",
		"quantity":   "-1",
		"supplierId": supplier.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decode[domain.APIError](t, w)
	assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
	assert.Contains(t, apiErr.Errors, "name")
	assert.Contains(t, apiErr.Errors, "quantity")

	w = s.do(t, http.MethodPost, "/api/v1/assets", token, map[string]interface{}{
		"name":        "Bolt M8",
		"quantity":    "5",
		"minQuantity": "10",
		"supplierId":  supplier.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	asset := decode[domain.AssetDTO](t, w)
	assert.Equal(t, "/api/v1/assets/"+strconv.FormatInt(asset.ID, 10), w.Header().Get("Location"))
	assert.True(t, asset.IsLowStock)

	w = s.do(t, http.MethodGet, "/api/v1/assets/stats?lowStock=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[domain.StatsSummaryDTO](t, w)
	assert.Equal(t, 1, stats.Total)
	require.NotNil(t, stats.LowStock)
	assert.Equal(t, 1, *stats.LowStock)

	// supplier is referenced by the asset
	w = s.do(t, http.MethodGet, "/api/v1/integrity/suppliers/"+strconv.FormatInt(supplier.ID, 10), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	preview := decode[domain.DeletePreviewDTO](t, w)
	assert.False(t, preview.Allowed)
	assert.Equal(t, []domain.Blocker{{Relation: "assets.supplier_id", Count: 1}}, preview.Blockers)

	w = s.do(t, http.MethodDelete, "/api/v1/suppliers/"+strconv.FormatInt(supplier.ID, 10), token, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	apiErr = decode[domain.APIError](t, w)
	assert.Equal(t, domain.ErrorTypeBlocked, apiErr.Type)
	assert.Len(t, apiErr.Blockers, 1)

	w = s.do(t, http.MethodDelete, "/api/v1/assets/"+strconv.FormatInt(asset.ID, 10), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/assets/"+strconv.FormatInt(asset.ID, 10), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/suppliers/"+strconv.FormatInt(supplier.ID, 10), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBadParameters(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "")

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/assets/abc", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/assets?typeId=x", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/lookups/colors", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/integrity/planets/1", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/equipment?dueBefore=tomorrow", token, nil).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workshops", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLookupsAndValidate(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "")

	w := s.do(t, http.MethodPost, "/api/v1/lookups/categories", token, map[string]string{"name": "Fasteners"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := decode[domain.LookupDTO](t, w)

	w = s.do(t, http.MethodGet, "/api/v1/lookups/categories", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[domain.PaginatedResponse](t, w)
	assert.Equal(t, int64(1), page.Total)

	w = s.do(t, http.MethodPost, "/api/v1/validate/assets", token, map[string]interface{}{
		"name":       "Washer",
		"quantity":   "100",
		"categoryId": category.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[domain.ValidationResultDTO](t, w).Valid)

	w = s.do(t, http.MethodPost, "/api/v1/validate/assets", token, map[string]interface{}{
		"name":       "Washer",
		"quantity":   "1",
		"categoryId": 9999,
	})
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[domain.ValidationResultDTO](t, w)
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "categoryId", result.Errors[0].Field)

	// nothing was written by validation
	var count int64
	require.NoError(t, s.db.Model(&domain.Asset{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEquipmentStatusAndSchedule(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "")

	eqType := testutil.CreateAssetType(t, s.db, "Equipment")
	faulty := testutil.CreateAssetStatus(t, s.db, "Faulty")
	asset := testutil.CreateAsset(t, s.db, "Press", func(a *domain.Asset) { a.TypeID = &eqType.ID })

	now := time.Now()
	soon := now.AddDate(0, 0, 3)
	later := now.AddDate(0, 2, 0)
	installed := now.AddDate(-1, 0, 0)

	ok := testutil.CreateEquipment(t, s.db, asset.ID, eqType.ID, func(e *domain.Equipment) {
		e.NextMaintenanceDate = &later
		e.InstallationDate = &installed
		e.WarrantyPeriodMonths = testutil.Ptr(36)
	})
	due := testutil.CreateEquipment(t, s.db, asset.ID, eqType.ID, func(e *domain.Equipment) { e.NextMaintenanceDate = &soon })
	broken := testutil.CreateEquipment(t, s.db, asset.ID, eqType.ID, func(e *domain.Equipment) { e.StatusID = &faulty.ID })

	w := s.do(t, http.MethodGet, "/api/v1/equipment/"+strconv.FormatInt(ok.ID, 10)+"/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	st := decode[domain.EntityStatusDTO](t, w)
	assert.Equal(t, "ok", st.Statuses["warranty"].Tier)
	assert.Equal(t, "scheduled", st.Statuses["maintenance"].Tier)

	w = s.do(t, http.MethodGet, "/api/v1/maintenance/schedule", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	items := decode[[]domain.MaintenanceScheduleItemDTO](t, w)
	require.Len(t, items, 3)
	assert.Equal(t, broken.ID, items[0].Equipment.ID)
	assert.Equal(t, due.ID, items[1].Equipment.ID)
	assert.Equal(t, ok.ID, items[2].Equipment.ID)

	w = s.do(t, http.MethodGet, "/api/v1/workshops/1/status", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReports(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "")

	w := s.do(t, http.MethodGet, "/api/v1/reports/equipment.xlsx", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "equipment-")
	assert.NotZero(t, w.Body.Len())

	// no storage configured
	w = s.do(t, http.MethodPost, "/api/v1/reports/equipment/archive", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
