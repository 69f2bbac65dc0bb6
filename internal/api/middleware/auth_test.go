package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peridotvault/peridot-core/internal/api/middleware"
	"github.com/peridotvault/peridot-core/internal/logger"
)

const testSecret = "test-secret"

var (
	account = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	now     = time.Unix(1_700_000_000, 0)
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	gin.SetMode(gin.TestMode)
	code := m.Run()
	os.Exit(code)
}

func hmacToken(t *testing.T, subject string, expiresAt time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthenticate(t *testing.T) {
	cfg := middleware.AuthConfig{
		JWTSecret: testSecret,
		APIKeys:   []string{"", "key-1"},
		Now:       func() time.Time { return now },
	}

	tests := []struct {
		name        string
		header      string
		cfg         middleware.AuthConfig
		wantSuccess bool
		wantType    string
		wantSubject string
	}{
		{name: "missing header", header: ""},
		{name: "malformed header", header: "Bearer"},
		{name: "unsupported scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "valid api key", header: "ApiKey key-1", wantSuccess: true, wantType: "apikey"},
		{name: "invalid api key", header: "ApiKey key-2"},
		{name: "no api keys configured", header: "ApiKey key-1", cfg: middleware.AuthConfig{JWTSecret: testSecret}},
		{
			name:        "valid hmac token",
			header:      "Bearer " + hmacToken(t, account.Hex(), now.Add(time.Hour)),
			wantSuccess: true,
			wantType:    "jwt",
			wantSubject: account.Hex(),
		},
		{name: "expired token", header: "Bearer " + hmacToken(t, account.Hex(), now.Add(-time.Minute))},
		{
			name:   "hmac token without a secret",
			header: "Bearer " + hmacToken(t, account.Hex(), now.Add(time.Hour)),
			cfg:    middleware.AuthConfig{APIKeys: []string{"key-1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			if tt.cfg.JWTSecret != "" || len(tt.cfg.APIKeys) > 0 {
				c = tt.cfg
				c.Now = cfg.Now
			}

			result := middleware.Authenticate(tt.header, c)
			assert.Equal(t, tt.wantSuccess, result.Success)
			if !tt.wantSuccess {
				assert.Error(t, result.Error)
				return
			}
			assert.NoError(t, result.Error)
			assert.Equal(t, tt.wantType, result.AuthType)
			assert.Equal(t, tt.wantSubject, result.AuthSubject)
		})
	}
}

func TestAuthenticate_RSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   account.Hex(),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	cfg := middleware.AuthConfig{JWTPublicKey: publicPEM, Now: func() time.Time { return now }}
	result := middleware.Authenticate("Bearer "+signed, cfg)
	require.True(t, result.Success, "%v", result.Error)
	assert.Equal(t, account.Hex(), result.AuthSubject)

	// An HMAC token is refused when only the public key is configured
	result = middleware.Authenticate("Bearer "+hmacToken(t, account.Hex(), now.Add(time.Hour)), cfg)
	assert.False(t, result.Success)
}

func TestAuth_SetsCaller(t *testing.T) {
	cfg := middleware.AuthConfig{JWTSecret: testSecret, Now: func() time.Time { return now }}

	router := gin.New()
	router.POST("/buy", middleware.Auth(cfg), func(c *gin.Context) {
		caller, ok := middleware.Caller(c)
		require.True(t, ok)
		c.String(http.StatusOK, caller.Hex())
	})

	req := httptest.NewRequest(http.MethodPost, "/buy", nil)
	req.Header.Set("Authorization", "Bearer "+hmacToken(t, "0x00000000000000000000000000000000000000b1", now.Add(time.Hour)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, account.Hex(), rec.Body.String())
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := middleware.AuthConfig{JWTSecret: testSecret, APIKeys: []string{"key-1"}, Now: func() time.Time { return now }}

	router := gin.New()
	router.POST("/admin", middleware.APIKeyAuth(cfg), func(c *gin.Context) {
		_, hasCaller := middleware.Caller(c)
		assert.False(t, hasCaller)
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "api key", header: "ApiKey key-1", wantStatus: http.StatusNoContent},
		{name: "bearer token", header: "Bearer " + hmacToken(t, account.Hex(), now.Add(time.Hour)), wantStatus: http.StatusUnauthorized},
		{name: "missing", header: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	const incoming = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.REQUEST_ID_HEADER, incoming)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, incoming, rec.Header().Get(middleware.REQUEST_ID_HEADER))

	// Malformed ids are replaced
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.REQUEST_ID_HEADER, "<script>")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.NotEqual(t, "<script>", rec.Header().Get(middleware.REQUEST_ID_HEADER))
	assert.Len(t, rec.Header().Get(middleware.REQUEST_ID_HEADER), 36)
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.GET("/", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}
