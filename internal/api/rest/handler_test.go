package rest_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peridotvault/peridot-core/internal/api/middleware"
	"github.com/peridotvault/peridot-core/internal/api/server"
	"github.com/peridotvault/peridot-core/internal/api/shared/dto"
	apierrors "github.com/peridotvault/peridot-core/internal/api/shared/errors"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/logger"
	mockspkg "github.com/peridotvault/peridot-core/internal/mocks"
	"github.com/peridotvault/peridot-core/internal/store"
)

const (
	testSecret = "test-secret"
	testAPIKey = "test-api-key"
)

var (
	caller   = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	saleAddr = common.HexToAddress("0x00000000000000000000000000000000000000e1")
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testHandlerMocks contains the mocked executor and the server under test
type testHandlerMocks struct {
	ctrl     *gomock.Controller
	executor *mockspkg.MockAPIExecutor
	handler  http.Handler
}

func setupTestHandler(t *testing.T) *testHandlerMocks {
	ctrl := gomock.NewController(t)
	exec := mockspkg.NewMockAPIExecutor(ctrl)

	srv := server.New(server.Config{Debug: false}, exec, middleware.AuthConfig{
		JWTSecret: testSecret,
		APIKeys:   []string{testAPIKey},
	})

	return &testHandlerMocks{ctrl: ctrl, executor: exec, handler: srv.Handler()}
}

func tearDownTestHandler(mocks *testHandlerMocks) {
	mocks.ctrl.Finish()
}

func bearer(t *testing.T, subject string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func (m *testHandlerMocks) do(method, path, body, authorization string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	rec := httptest.NewRecorder()
	m.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.APIError {
	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestHealthCheck(t *testing.T) {
	mocks := setupTestHandler(t)
	defer tearDownTestHandler(mocks)

	rec := mocks.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"peridot-node"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.REQUEST_ID_HEADER))
}

func TestGetSale(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(m *testHandlerMocks)
		wantStatus int
		wantCode   apierrors.ErrorCode
	}{
		{
			name:       "invalid address",
			path:       "/api/v1/sales/not-an-address",
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.ErrCodeBadRequest,
		},
		{
			name: "not found",
			path: "/api/v1/sales/" + saleAddr.Hex(),
			setup: func(m *testHandlerMocks) {
				m.executor.EXPECT().GetSale(gomock.Any(), saleAddr).Return(nil, apierrors.NewNotFoundError("Sale not found"))
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apierrors.ErrCodeNotFound,
		},
		{
			name: "found",
			path: "/api/v1/sales/" + strings.ToLower(saleAddr.Hex()),
			setup: func(m *testHandlerMocks) {
				m.executor.EXPECT().GetSale(gomock.Any(), saleAddr).Return(&dto.SaleResponse{Address: saleAddr.Hex(), Initialized: true}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestHandler(t)
			defer tearDownTestHandler(mocks)
			if tt.setup != nil {
				tt.setup(mocks)
			}

			rec := mocks.do(http.MethodGet, tt.path, "", "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
		})
	}
}

func TestBuy(t *testing.T) {
	path := "/api/v1/sales/" + saleAddr.Hex() + "/buy"

	tests := []struct {
		name          string
		body          string
		authorization func(t *testing.T) string
		setup         func(m *testHandlerMocks)
		wantStatus    int
		wantCode      apierrors.ErrorCode
	}{
		{
			name:       "missing token",
			wantStatus: http.StatusUnauthorized,
			wantCode:   apierrors.ErrCodeUnauthorized,
		},
		{
			name:          "api key is not a caller",
			authorization: func(t *testing.T) string { return "ApiKey " + testAPIKey },
			wantStatus:    http.StatusUnauthorized,
			wantCode:      apierrors.ErrCodeUnauthorized,
		},
		{
			name:          "subject is not an address",
			authorization: func(t *testing.T) string { return bearer(t, "alice") },
			wantStatus:    http.StatusUnauthorized,
			wantCode:      apierrors.ErrCodeUnauthorized,
		},
		{
			name:          "invalid value",
			body:          `{"value":"-1"}`,
			authorization: func(t *testing.T) string { return bearer(t, caller.Hex()) },
			wantStatus:    http.StatusUnprocessableEntity,
			wantCode:      apierrors.ErrCodeValidationFailed,
		},
		{
			name:          "supply exhausted",
			authorization: func(t *testing.T) string { return bearer(t, caller.Hex()) },
			setup: func(m *testHandlerMocks) {
				m.executor.EXPECT().Buy(gomock.Any(), caller, saleAddr, dto.BuyRequest{}).
					Return(nil, fmt.Errorf("buy reverted in 0xabc: %w", domain.ErrSupplyExhausted))
			},
			wantStatus: http.StatusConflict,
			wantCode:   apierrors.ErrCodeSupplyExhausted,
		},
		{
			name:          "insufficient payment",
			body:          `{"value":"1"}`,
			authorization: func(t *testing.T) string { return bearer(t, caller.Hex()) },
			setup: func(m *testHandlerMocks) {
				m.executor.EXPECT().Buy(gomock.Any(), caller, saleAddr, gomock.Any()).
					Return(nil, fmt.Errorf("buy reverted: %w", domain.ErrInsufficientPayment))
			},
			wantStatus: http.StatusPaymentRequired,
			wantCode:   apierrors.ErrCodeInsufficientPayment,
		},
		{
			name:          "bought",
			authorization: func(t *testing.T) string { return bearer(t, strings.ToLower(caller.Hex())) },
			setup: func(m *testHandlerMocks) {
				m.executor.EXPECT().Buy(gomock.Any(), caller, saleAddr, dto.BuyRequest{}).
					Return(&dto.TxResponse{TxHash: "0x01", Status: 1}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := setupTestHandler(t)
			defer tearDownTestHandler(mocks)
			if tt.setup != nil {
				tt.setup(mocks)
			}

			authorization := ""
			if tt.authorization != nil {
				authorization = tt.authorization(t)
			}

			rec := mocks.do(http.MethodPost, path, tt.body, authorization)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
		})
	}
}

func TestUpdateSale_ExactlyOneSetting(t *testing.T) {
	mocks := setupTestHandler(t)
	defer tearDownTestHandler(mocks)

	rec := mocks.do(http.MethodPatch, "/api/v1/sales/"+saleAddr.Hex(), `{"price":"10","max_supply":5}`, bearer(t, caller.Hex()))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	mocks.executor.EXPECT().UpdateSale(gomock.Any(), caller, saleAddr, gomock.Any()).
		DoAndReturn(func(_ interface{}, _, _ common.Address, req dto.UpdateSaleRequest) (*dto.TxResponse, error) {
			require.NotNil(t, req.MaxSupply)
			assert.Equal(t, uint64(5), *req.MaxSupply)
			return &dto.TxResponse{Status: 1}, nil
		})

	rec = mocks.do(http.MethodPatch, "/api/v1/sales/"+saleAddr.Hex(), `{"max_supply":5}`, bearer(t, caller.Hex()))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPublishGame(t *testing.T) {
	valid := `{
		"slug": "starfall",
		"token_uri_template": "ipfs://licenses/{id}.json",
		"contract_metadata_uri": "ipfs://contract.json",
		"contract_metadata": {"name": "Starfall License"},
		"price": "1000",
		"max_supply": 10,
		"treasury_router": "0x00000000000000000000000000000000000000a2",
		"developer_recipient": "0x00000000000000000000000000000000000000d1"
	}`

	t.Run("both game_id and slug", func(t *testing.T) {
		mocks := setupTestHandler(t)
		defer tearDownTestHandler(mocks)

		body := strings.Replace(valid, `"slug": "starfall",`, `"slug": "starfall", "game_id": "0x`+strings.Repeat("ab", 32)+`",`, 1)
		rec := mocks.do(http.MethodPost, "/api/v1/games", body, bearer(t, caller.Hex()))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("fee above 100%", func(t *testing.T) {
		mocks := setupTestHandler(t)
		defer tearDownTestHandler(mocks)

		body := strings.Replace(valid, `"max_supply": 10,`, `"max_supply": 10, "platform_fee_bps": 10001,`, 1)
		rec := mocks.do(http.MethodPost, "/api/v1/games", body, bearer(t, caller.Hex()))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("not allowlisted", func(t *testing.T) {
		mocks := setupTestHandler(t)
		defer tearDownTestHandler(mocks)

		mocks.executor.EXPECT().PublishGame(gomock.Any(), caller, gomock.Any()).
			Return(nil, fmt.Errorf("publishGame reverted: %w", domain.ErrUnauthorized))

		rec := mocks.do(http.MethodPost, "/api/v1/games", valid, bearer(t, caller.Hex()))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, apierrors.ErrCodeForbidden, decodeError(t, rec).Code)
	})

	t.Run("published", func(t *testing.T) {
		mocks := setupTestHandler(t)
		defer tearDownTestHandler(mocks)

		mocks.executor.EXPECT().PublishGame(gomock.Any(), caller, gomock.Any()).
			DoAndReturn(func(_ interface{}, _ common.Address, req dto.PublishGameRequest) (*dto.PublishGameResponse, error) {
				assert.Equal(t, domain.GameIDFromSlug("starfall"), req.ResolvedGameID())
				return &dto.PublishGameResponse{GameID: req.ResolvedGameID().Hex(), SaleContract: saleAddr.Hex()}, nil
			})

		rec := mocks.do(http.MethodPost, "/api/v1/games", valid, bearer(t, caller.Hex()))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp dto.PublishGameResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, saleAddr.Hex(), resp.SaleContract)
	})
}

func TestGetGame_NotProjected(t *testing.T) {
	mocks := setupTestHandler(t)
	defer tearDownTestHandler(mocks)

	gameID := domain.GameIDFromSlug("unknown")
	mocks.executor.EXPECT().GetGame(gomock.Any(), gameID).Return(nil, nil)

	rec := mocks.do(http.MethodGet, "/api/v1/games/"+gameID.Hex(), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListMetadataVersions(t *testing.T) {
	mocks := setupTestHandler(t)
	defer tearDownTestHandler(mocks)

	gameID := domain.GameIDFromSlug("starfall")
	mocks.executor.EXPECT().GetGame(gomock.Any(), gameID).Return(&dto.GameResponse{GameID: gameID.Hex(), SaleContract: saleAddr.Hex()}, nil)
	mocks.executor.EXPECT().ListMetadataVersions(gomock.Any(), saleAddr, domain.MetadataKindContract).
		Return([]dto.MetadataVersionResponse{{Kind: "contract", Version: 1}}, nil)

	rec := mocks.do(http.MethodGet, "/api/v1/games/"+gameID.Hex()+"/metadata?kind=contract", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":1`)

	rec = mocks.do(http.MethodGet, "/api/v1/games/"+gameID.Hex()+"/metadata?kind=build", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListGames_Pagination(t *testing.T) {
	mocks := setupTestHandler(t)
	defer tearDownTestHandler(mocks)

	active := true
	mocks.executor.EXPECT().ListGames(gomock.Any(), store.GameFilter{Active: &active, Limit: 100, Offset: 5}).
		Return(&dto.ListResponse[dto.GameResponse]{Items: []dto.GameResponse{}, Limit: 100, Offset: 5}, nil)

	rec := mocks.do(http.MethodGet, "/api/v1/games?active=true&limit=500&offset=5", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = mocks.do(http.MethodGet, "/api/v1/games?publisher=bob", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateWebhookClient(t *testing.T) {
	body := `{"webhook_url":"https://hooks.example.com/peridot","event_filters":["purchased"]}`

	t.Run("bearer token is rejected", func(t *testing.T) {
		mocks := setupTestHandler(t)
		defer tearDownTestHandler(mocks)

		rec := mocks.do(http.MethodPost, "/api/v1/webhooks/clients", body, bearer(t, caller.Hex()))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown event type", func(t *testing.T) {
		mocks := setupTestHandler(t)
		defer tearDownTestHandler(mocks)

		rec := mocks.do(http.MethodPost, "/api/v1/webhooks/clients",
			`{"webhook_url":"https://hooks.example.com/peridot","event_filters":["minted"]}`, "ApiKey "+testAPIKey)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("plain http outside debug", func(t *testing.T) {
		mocks := setupTestHandler(t)
		defer tearDownTestHandler(mocks)

		rec := mocks.do(http.MethodPost, "/api/v1/webhooks/clients",
			`{"webhook_url":"http://hooks.example.com/peridot","event_filters":["*"]}`, "ApiKey "+testAPIKey)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("created with default retries", func(t *testing.T) {
		mocks := setupTestHandler(t)
		defer tearDownTestHandler(mocks)

		mocks.executor.EXPECT().CreateWebhookClient(gomock.Any(), "https://hooks.example.com/peridot", []string{"purchased"}, 5).
			Return(&dto.CreateWebhookClientResponse{ClientID: "client-1", RetryMaxAttempts: 5}, nil)

		rec := mocks.do(http.MethodPost, "/api/v1/webhooks/clients", body, "ApiKey "+testAPIKey)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestGetStatus_DatabaseError(t *testing.T) {
	mocks := setupTestHandler(t)
	defer tearDownTestHandler(mocks)

	mocks.executor.EXPECT().GetStatus(gomock.Any()).Return(nil, apierrors.NewDatabaseError("Failed to get block cursor"))

	rec := mocks.do(http.MethodGet, "/api/v1/status", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apierrors.ErrCodeDatabaseError, decodeError(t, rec).Code)
}
