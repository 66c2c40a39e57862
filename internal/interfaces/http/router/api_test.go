package router_test

import (
	"bytes"
	"context"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appaccount "github.com/setorcuan/backend/internal/application/account"
	appcatalog "github.com/setorcuan/backend/internal/application/catalog"
	appexchange "github.com/setorcuan/backend/internal/application/exchange"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/infrastructure/auth"
	"github.com/setorcuan/backend/internal/infrastructure/config"
	"github.com/setorcuan/backend/internal/infrastructure/persistence"
	"github.com/setorcuan/backend/internal/infrastructure/storage"
	"github.com/setorcuan/backend/internal/interfaces/http/handler"
	"github.com/setorcuan/backend/internal/interfaces/http/middleware"
	"github.com/setorcuan/backend/internal/interfaces/http/router"
	"github.com/setorcuan/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/crypto/bcrypt"
)

type api struct {
	engine     *gin.Engine
	jwt        *auth.JWTService
	adminToken string
}

func newAPI(t *testing.T, configure ...func(*router.Options)) *api {
	t.Helper()
	middleware.SetupValidator()

	db := testutil.NewSQLiteDB(t)
	testutil.SeedCatalog(t, db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "setorcuan-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	users := persistence.NewGormUserRepository(db)
	uploads := t.TempDir()
	proofs, err := storage.NewLocalStore(uploads, "", 1<<20)
	require.NoError(t, err)

	catalogSvc := appcatalog.NewService(
		persistence.NewGormRecyclableRepository(db),
		persistence.NewGormLocationRepository(db),
		nil, nil,
	)
	exchangeScope := persistence.NewGormExchangeTransactionScope(db)
	history := appexchange.NewHistoryService(persistence.NewGormTransactionReader(db), users)
	authSvc := appaccount.NewAuthService(users, jwtService, auth.NewPasswordHasher(bcrypt.MinCost), blacklist, nil)
	lifecycle := appexchange.NewLifecycleService(exchangeScope, proofs, nil)
	adjustments := appaccount.NewAdjustmentService(
		persistence.NewGormAccountTransactionScope(db),
		persistence.NewGormAuditRepository(db),
		nil,
	)

	opts := router.Options{
		JWT:        middleware.JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist},
		Security:   middleware.DefaultSecurityConfig(),
		UploadsDir: uploads,
	}
	for _, fn := range configure {
		fn(&opts)
	}

	engine := router.New(router.Handlers{
		Health: handler.NewHealthHandler("setorcuan-test", map[string]handler.HealthCheck{
			"database": persistence.PingGorm(db),
		}),
		Auth:        handler.NewAuthHandler(authSvc),
		User:        handler.NewUserHandler(authSvc, history),
		Transaction: handler.NewTransactionHandler(appexchange.NewIntakeService(exchangeScope, catalogSvc, appexchange.DefaultLimits(), nil), history),
		Catalog:     handler.NewCatalogHandler(catalogSvc),
		Admin:       handler.NewAdminHandler(lifecycle, history, adjustments, appaccount.NewDirectoryService(users)),
	}, opts)

	admin := testutil.CreateUser(t, db, "admin", testutil.WithRole(account.RoleAdmin))
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: admin.ID, Username: admin.Username, Role: string(admin.Role),
	})
	require.NoError(t, err)

	return &api{engine: engine, jwt: jwtService, adminToken: pair.AccessToken}
}

func (a *api) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.Do(t, a.engine, testutil.Request{Method: method, Path: path, Token: token, Body: body})
}

// registerCustomer signs up a customer with a complete payout profile
func (a *api) registerCustomer(t *testing.T, username string) appaccount.AuthResult {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "rahasia123",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	res := testutil.DataAs[appaccount.AuthResult](t, w)

	w = a.do(t, http.MethodPut, "/api/v1/user/profile", res.AccessToken, map[string]any{
		"full_name":      "Budi Santoso",
		"whatsapp":       "081234567890",
		"payout_method":  "dana",
		"payout_account": "081234567890",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	return res
}

func (a *api) uploadProof(t *testing.T, withdrawalID uuid.UUID, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="bukti"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/withdrawals/"+withdrawalID.String()+"/proof", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+a.adminToken)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func TestAPI_DepositAndWithdrawalLifecycle(t *testing.T) {
	a := newAPI(t)
	budi := a.registerCustomer(t, "budi")

	// deposit 3 kg of kardus at 4000/kg
	w := a.do(t, http.MethodPost, "/api/v1/transactions/deposits", budi.AccessToken, map[string]any{
		"category": "kardus", "weight_kg": "3", "location_id": "lokasi1",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	deposit := testutil.DataAs[appexchange.DepositResponse](t, w)
	assert.Equal(t, int64(12000), deposit.Points)
	assert.Equal(t, "pending", string(deposit.Status))

	w = a.do(t, http.MethodPut, "/api/v1/admin/transactions/"+deposit.ID.String()+"/status", a.adminToken,
		map[string]any{"status": "validated"})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	result := testutil.DataAs[appexchange.TransitionResult](t, w)
	require.NotNil(t, result.BalanceAfter)
	assert.Equal(t, int64(12000), *result.BalanceAfter)

	// a second validation must not credit again
	w = a.do(t, http.MethodPut, "/api/v1/admin/transactions/"+deposit.ID.String()+"/status", a.adminToken,
		map[string]any{"status": "validated"})
	testutil.AssertErrorResponse(t, w, http.StatusConflict, "INVALID_TRANSITION")

	w = a.do(t, http.MethodPost, "/api/v1/transactions/withdrawals", budi.AccessToken, map[string]any{"point_amount": 10000})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	withdrawal := testutil.DataAs[appexchange.WithdrawalResponse](t, w)

	statusURL := "/api/v1/admin/transactions/" + withdrawal.ID.String() + "/status"
	w = a.do(t, http.MethodPut, statusURL, a.adminToken, map[string]any{"status": "completed"})
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "MISSING_PROOF")

	w = a.do(t, http.MethodPut, statusURL, a.adminToken, map[string]any{"status": "processing"})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)

	w = a.uploadProof(t, withdrawal.ID, "image/png", pngBytes)
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	proof := testutil.DataAs[map[string]string](t, w)
	assert.Contains(t, proof["url"], "/uploads/proofs/"+withdrawal.ID.String()+"/")

	served := httptest.NewRecorder()
	a.engine.ServeHTTP(served, httptest.NewRequest(http.MethodGet, proof["url"], nil))
	assert.Equal(t, http.StatusOK, served.Code)

	w = a.do(t, http.MethodPut, statusURL, a.adminToken, map[string]any{"status": "completed"})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	result = testutil.DataAs[appexchange.TransitionResult](t, w)
	assert.Equal(t, int64(2000), *result.BalanceAfter)

	w = a.do(t, http.MethodGet, "/api/v1/user/summary", budi.AccessToken, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	summary := testutil.DataAs[appexchange.SummaryResponse](t, w)
	assert.Equal(t, int64(2000), summary.TotalCoins)
	assert.Equal(t, int64(12000), summary.CoinExchanged)
	assert.Equal(t, "3", summary.TotalKg.String())
	assert.Equal(t, int64(2), summary.Counts["success"])

	w = a.do(t, http.MethodGet, "/api/v1/transactions?status=success&page_size=10", budi.AccessToken, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	history := testutil.DataAs[[]appexchange.TransactionResponse](t, w)
	require.Len(t, history, 2)
	assert.Equal(t, withdrawal.ID, history[0].ID, "newest first")
}

func TestAPI_AdminTransactionsAreMasked(t *testing.T) {
	a := newAPI(t)
	siti := a.registerCustomer(t, "siti")
	w := a.do(t, http.MethodPost, "/api/v1/transactions/deposits", siti.AccessToken, map[string]any{
		"category": "plastik", "weight_kg": 1.5, "location_id": "lokasi1",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)

	w = a.do(t, http.MethodGet, "/api/v1/admin/transactions?status=pending", a.adminToken, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	rows := testutil.DataAs[[]appexchange.TransactionResponse](t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, "s***i", rows[0].Username)
	assert.NotEqual(t, siti.User.ID.String(), rows[0].UserID)

	w = a.do(t, http.MethodGet, "/api/v1/admin/transactions?unmasked=true", a.adminToken, nil)
	rows = testutil.DataAs[[]appexchange.TransactionResponse](t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, "siti", rows[0].Username)
	assert.Equal(t, siti.User.ID.String(), rows[0].UserID)

	env := testutil.DecodeEnvelope(t, w)
	assert.True(t, env.Success)
}

func TestAPI_AdminCancelAndAdjust(t *testing.T) {
	a := newAPI(t)
	budi := a.registerCustomer(t, "budi")

	w := a.do(t, http.MethodPost, "/api/v1/transactions/deposits", budi.AccessToken, map[string]any{
		"category": "kaca", "weight_kg": "2", "location_id": "lokasi1",
	})
	deposit := testutil.DataAs[appexchange.DepositResponse](t, w)

	w = a.do(t, http.MethodDelete, "/api/v1/admin/transactions/"+deposit.ID.String(), a.adminToken, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, "cancelled", testutil.DataAs[appexchange.TransitionResult](t, w).ToStatus)

	w = a.do(t, http.MethodPost, "/api/v1/admin/points/adjust", a.adminToken, map[string]any{
		"user_id": budi.User.ID.String(), "amount": 5000, "operation": "subtract",
	})
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE")

	w = a.do(t, http.MethodPost, "/api/v1/admin/points/adjust", a.adminToken, map[string]any{
		"user_id": budi.User.ID.String(), "amount": 5000, "operation": "add", "reason": "koreksi",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	adj := testutil.DataAs[appaccount.AdjustmentResult](t, w)
	assert.Equal(t, int64(5000), adj.BalanceAfter)

	w = a.do(t, http.MethodGet, "/api/v1/admin/audit?target_id="+budi.User.ID.String(), a.adminToken, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	entries := testutil.DataAs[[]appaccount.AuditEntryResponse](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, "points.add", entries[0].Action)
	assert.Equal(t, "koreksi", entries[0].Reason)
}

func TestAPI_AdminUserDirectory(t *testing.T) {
	a := newAPI(t)
	budi := a.registerCustomer(t, "budi")
	a.registerCustomer(t, "siti")

	w := a.do(t, http.MethodPost, "/api/v1/admin/points/adjust", a.adminToken, map[string]any{
		"user_id": budi.User.ID.String(), "amount": 1200, "operation": "add",
	})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)

	w = a.do(t, http.MethodGet, "/api/v1/admin/users?role=customer&sort_by=total_coins", a.adminToken, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	env := testutil.DecodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.EqualValues(t, 2, env.Meta.Total)
	users := testutil.DataAs[[]appaccount.UserResponse](t, w)
	require.Len(t, users, 2)
	assert.Equal(t, "budi", users[0].Username)
	assert.Equal(t, int64(1200), users[0].TotalCoins)
	assert.Equal(t, "081234567890", users[0].WhatsApp)

	w = a.do(t, http.MethodGet, "/api/v1/admin/users?search=sit", a.adminToken, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	users = testutil.DataAs[[]appaccount.UserResponse](t, w)
	require.Len(t, users, 1)
	assert.Equal(t, "siti", users[0].Username)

	w = a.do(t, http.MethodGet, "/api/v1/admin/users/"+budi.User.ID.String(), a.adminToken, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, int64(1200), testutil.DataAs[appaccount.UserResponse](t, w).TotalCoins)

	w = a.do(t, http.MethodGet, "/api/v1/admin/users/"+uuid.NewString(), a.adminToken, nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")

	w = a.do(t, http.MethodGet, "/api/v1/admin/users?sort_by=password_hash", a.adminToken, nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	w = a.do(t, http.MethodGet, "/api/v1/admin/users", budi.AccessToken, nil)
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, "FORBIDDEN")
}

func TestAPI_RequestsAreTraced(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	a := newAPI(t, func(o *router.Options) {
		o.Tracing = &middleware.TracingConfig{ServiceName: "setorcuan-test", Provider: provider}
	})

	w := a.do(t, http.MethodGet, "/api/v1/admin/users", a.adminToken, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/admin/users")
	var userID string
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "user_id" {
			userID = kv.Value.AsString()
		}
	}
	assert.NotEmpty(t, userID)
}

func TestAPI_RejectsOutOfRangeAmounts(t *testing.T) {
	a := newAPI(t)
	budi := a.registerCustomer(t, "budi")

	w := a.do(t, http.MethodPost, "/api/v1/admin/points/adjust", a.adminToken, map[string]any{
		"user_id": budi.User.ID.String(), "amount": int64(math.MaxInt64), "operation": "add",
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	w = a.do(t, http.MethodPut, "/api/v1/admin/recyclables", a.adminToken, map[string]any{
		"name": "emas", "price_per_kg": int64(math.MaxInt64),
	})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	w = a.do(t, http.MethodGet, "/api/v1/user/profile", budi.AccessToken, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, int64(0), testutil.DataAs[appaccount.UserResponse](t, w).TotalCoins)
}

func TestAPI_Authorization(t *testing.T) {
	a := newAPI(t)
	budi := a.registerCustomer(t, "budi")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
		code   string
	}{
		{"history needs a token", http.MethodGet, "/api/v1/transactions", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"customer cannot list all", http.MethodGet, "/api/v1/admin/transactions", budi.AccessToken, http.StatusForbidden, "FORBIDDEN"},
		{"customer cannot adjust", http.MethodPost, "/api/v1/admin/points/adjust", budi.AccessToken, http.StatusForbidden, "FORBIDDEN"},
		{"unknown transaction", http.MethodPut, "/api/v1/admin/transactions/" + uuid.NewString() + "/status", a.adminToken, http.StatusNotFound, "NOT_FOUND"},
		{"malformed id", http.MethodDelete, "/api/v1/admin/transactions/42", a.adminToken, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body any
			if tt.method == http.MethodPut {
				body = map[string]any{"status": "validated"}
			}
			w := a.do(t, tt.method, tt.path, tt.token, body)
			testutil.AssertErrorResponse(t, w, tt.status, tt.code)
		})
	}
}

func TestAPI_AuthFlow(t *testing.T) {
	a := newAPI(t)
	a.registerCustomer(t, "budi")

	w := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"login": "budi@example.com", "password": "salah"})
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "UNAUTHORIZED")

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"login": "budi", "password": "rahasia123"})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	session := testutil.DataAs[appaccount.AuthResult](t, w)
	assert.Equal(t, "dana", session.User.PayoutMethod)

	w = a.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{"refresh_token": session.RefreshToken})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	rotated := testutil.DataAs[appaccount.AuthResult](t, w)

	w = a.do(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]any{"refresh_token": session.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh tokens are single use")

	w = a.do(t, http.MethodPost, "/api/v1/auth/logout", rotated.AccessToken, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)

	w = a.do(t, http.MethodGet, "/api/v1/user/profile", rotated.AccessToken, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "TOKEN_REVOKED")
}

func TestAPI_ValidationAndPublicRoutes(t *testing.T) {
	a := newAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{"username": "x"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), `"field":"email"`)

	w = a.do(t, http.MethodGet, "/api/v1/recyclables", "", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Len(t, testutil.DataAs[[]appcatalog.RecyclableResponse](t, w), 3)

	w = a.do(t, http.MethodGet, "/api/v1/locations", "", nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)

	w = a.do(t, http.MethodPut, "/api/v1/admin/recyclables", a.adminToken, map[string]any{"name": "kaca", "price_per_kg": 7500})
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, int64(7500), testutil.DataAs[appcatalog.RecyclableResponse](t, w).PricePerKg)

	w = a.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
