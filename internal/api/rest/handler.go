package rest

import (
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/peridotvault/peridot-core/internal/api/middleware"
	"github.com/peridotvault/peridot-core/internal/api/shared/constants"
	"github.com/peridotvault/peridot-core/internal/api/shared/dto"
	"github.com/peridotvault/peridot-core/internal/api/shared/executor"
	"github.com/peridotvault/peridot-core/internal/domain"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetStatus describes the node
	// GET /api/v1/status
	GetStatus(c *gin.Context)

	// GetAccount returns the native balance and nonce of an account
	// GET /api/v1/accounts/:address
	GetAccount(c *gin.Context)

	// GetTransaction returns a mined transaction and its decoded events
	// GET /api/v1/transactions/:tx_hash
	GetTransaction(c *gin.Context)

	// GetFactory returns the factory configuration
	// GET /api/v1/factory
	GetFactory(c *gin.Context)

	// GetPublisherStatus reports whether an address may publish
	// GET /api/v1/factory/publishers/:address
	GetPublisherStatus(c *gin.Context)

	// UpdateFactory applies one factory setting (requires authentication, factory owner only)
	// PATCH /api/v1/factory
	UpdateFactory(c *gin.Context)

	// PublishGame publishes a game through the factory (requires authentication)
	// POST /api/v1/games
	PublishGame(c *gin.Context)

	// ListRegistryGames lists registered games
	// GET /api/v1/registry/games?limit=<limit>&offset=<offset>
	ListRegistryGames(c *gin.Context)

	// GetRegistryGame returns a registry entry
	// GET /api/v1/registry/games/:game_id
	GetRegistryGame(c *gin.Context)

	// SetGameActive toggles a game (requires authentication, registry owner or factory only)
	// POST /api/v1/registry/games/:game_id/active
	SetGameActive(c *gin.Context)

	// ListGames lists projected games
	// GET /api/v1/games?publisher=<address>&active=<bool>&limit=<limit>&offset=<offset>
	ListGames(c *gin.Context)

	// GetGame returns a projected game
	// GET /api/v1/games/:game_id
	GetGame(c *gin.Context)

	// ListMetadataVersions returns the projected metadata history of a game
	// GET /api/v1/games/:game_id/metadata?kind=<game|contract>
	ListMetadataVersions(c *gin.Context)

	// ListPurchases lists projected purchases
	// GET /api/v1/purchases?sale_contract=<address>&buyer=<address>&limit=<limit>&offset=<offset>
	ListPurchases(c *gin.Context)

	// GetSale returns the live state of a sale
	// GET /api/v1/sales/:address
	GetSale(c *gin.Context)

	// GetLicenseBalance returns the license balance of an account
	// GET /api/v1/sales/:address/balances/:account
	GetLicenseBalance(c *gin.Context)

	// Buy buys one license (requires authentication)
	// POST /api/v1/sales/:address/buy
	Buy(c *gin.Context)

	// UpdateSale applies one sale setting (requires authentication, sale owner only)
	// PATCH /api/v1/sales/:address
	UpdateSale(c *gin.Context)

	// PublishMetadata advances a metadata head (requires authentication, sale owner only)
	// POST /api/v1/sales/:address/metadata
	PublishMetadata(c *gin.Context)

	// TransferLicense moves licenses (requires authentication)
	// POST /api/v1/sales/:address/transfers
	TransferLicense(c *gin.Context)

	// SetLicenseApproval approves an operator (requires authentication)
	// POST /api/v1/sales/:address/approvals
	SetLicenseApproval(c *gin.Context)

	// GetToken returns a payment token
	// GET /api/v1/tokens/:address?account=<address>
	GetToken(c *gin.Context)

	// ApproveToken sets a payment token allowance (requires authentication)
	// POST /api/v1/tokens/:address/approve
	ApproveToken(c *gin.Context)

	// HashMetadata validates a metadata document and returns its hash
	// POST /api/v1/metadata/hash
	HashMetadata(c *gin.Context)

	// CreateWebhookClient creates a new webhook client (requires authentication via API key)
	// POST /api/v1/webhooks/clients
	CreateWebhookClient(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug    bool
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(debug bool, exec executor.Executor) Handler {
	return &handler{
		debug:    debug,
		executor: exec,
	}
}

func (h *handler) GetStatus(c *gin.Context) {
	status, err := h.executor.GetStatus(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get status")
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *handler) GetAccount(c *gin.Context) {
	address, ok := pathAddress(c, "address")
	if !ok {
		return
	}

	account, err := h.executor.GetAccount(c.Request.Context(), address)
	if err != nil {
		respondError(c, err, "Failed to get account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *handler) GetTransaction(c *gin.Context) {
	txHash, err := domain.ParseGameID(c.Param("tx_hash"))
	if err != nil {
		respondBadRequest(c, "Invalid transaction hash", err.Error())
		return
	}

	tx, err := h.executor.GetTransaction(c.Request.Context(), txHash)
	if err != nil {
		respondError(c, err, "Failed to get transaction")
		return
	}
	if tx == nil {
		respondNotFound(c, "Transaction not found")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *handler) GetFactory(c *gin.Context) {
	factory, err := h.executor.GetFactory(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get factory")
		return
	}
	c.JSON(http.StatusOK, factory)
}

func (h *handler) GetPublisherStatus(c *gin.Context) {
	address, ok := pathAddress(c, "address")
	if !ok {
		return
	}

	status, err := h.executor.GetPublisherStatus(c.Request.Context(), address)
	if err != nil {
		respondError(c, err, "Failed to get publisher status")
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *handler) UpdateFactory(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req dto.UpdateFactoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	tx, err := h.executor.UpdateFactory(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err, "Failed to update factory")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *handler) PublishGame(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}

	var req dto.PublishGameRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}
	if len(req.ContractMetadata) > constants.MAX_METADATA_DOCUMENT_SIZE {
		respondValidationError(c, "contract_metadata is too large")
		return
	}

	resp, err := h.executor.PublishGame(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err, "Failed to publish game")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) ListRegistryGames(c *gin.Context) {
	page, err := ParsePageQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	games, err := h.executor.ListRegistryGames(c.Request.Context(), page.Limit, page.Offset)
	if err != nil {
		respondError(c, err, "Failed to list registry")
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *handler) GetRegistryGame(c *gin.Context) {
	gameID, ok := pathGameID(c)
	if !ok {
		return
	}

	game, err := h.executor.GetRegistryGame(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err, "Failed to get registry entry")
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *handler) SetGameActive(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	gameID, ok := pathGameID(c)
	if !ok {
		return
	}

	var req dto.SetGameActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	tx, err := h.executor.SetGameActive(c.Request.Context(), caller, gameID, *req.Active)
	if err != nil {
		respondError(c, err, "Failed to set game active")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *handler) ListGames(c *gin.Context) {
	filter, err := ParseListGamesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	games, err := h.executor.ListGames(c.Request.Context(), *filter)
	if err != nil {
		respondError(c, err, "Failed to list games")
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *handler) GetGame(c *gin.Context) {
	gameID, ok := pathGameID(c)
	if !ok {
		return
	}

	game, err := h.executor.GetGame(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err, "Failed to get game")
		return
	}
	if game == nil {
		respondNotFound(c, "Game not found")
		return
	}
	c.JSON(http.StatusOK, game)
}

func (h *handler) ListMetadataVersions(c *gin.Context) {
	gameID, ok := pathGameID(c)
	if !ok {
		return
	}
	kind, err := ParseMetadataKindQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	game, err := h.executor.GetGame(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err, "Failed to get game")
		return
	}
	if game == nil {
		respondNotFound(c, "Game not found")
		return
	}

	versions, err := h.executor.ListMetadataVersions(c.Request.Context(), common.HexToAddress(game.SaleContract), kind)
	if err != nil {
		respondError(c, err, "Failed to list metadata versions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": versions})
}

func (h *handler) ListPurchases(c *gin.Context) {
	filter, err := ParseListPurchasesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	purchases, err := h.executor.ListPurchases(c.Request.Context(), *filter)
	if err != nil {
		respondError(c, err, "Failed to list purchases")
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func (h *handler) GetSale(c *gin.Context) {
	address, ok := pathAddress(c, "address")
	if !ok {
		return
	}

	sale, err := h.executor.GetSale(c.Request.Context(), address)
	if err != nil {
		respondError(c, err, "Failed to get sale")
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *handler) GetLicenseBalance(c *gin.Context) {
	address, ok := pathAddress(c, "address")
	if !ok {
		return
	}
	account, ok := pathAddress(c, "account")
	if !ok {
		return
	}

	balance, err := h.executor.GetLicenseBalance(c.Request.Context(), address, account)
	if err != nil {
		respondError(c, err, "Failed to get license balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *handler) Buy(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	address, ok := pathAddress(c, "address")
	if !ok {
		return
	}

	// The body is optional
	var req dto.BuyRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	tx, err := h.executor.Buy(c.Request.Context(), caller, address, req)
	if err != nil {
		respondError(c, err, "Failed to buy license")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *handler) UpdateSale(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	address, ok := pathAddress(c, "address")
	if !ok {
		return
	}

	var req dto.UpdateSaleRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	tx, err := h.executor.UpdateSale(c.Request.Context(), caller, address, req)
	if err != nil {
		respondError(c, err, "Failed to update sale")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *handler) PublishMetadata(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	address, ok := pathAddress(c, "address")
	if !ok {
		return
	}

	var req dto.PublishMetadataRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	resp, err := h.executor.PublishMetadata(c.Request.Context(), caller, address, req)
	if err != nil {
		respondError(c, err, "Failed to publish metadata")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) TransferLicense(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	address, ok := pathAddress(c, "address")
	if !ok {
		return
	}

	var req dto.TransferLicenseRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	tx, err := h.executor.TransferLicense(c.Request.Context(), caller, address, req)
	if err != nil {
		respondError(c, err, "Failed to transfer license")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *handler) SetLicenseApproval(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	address, ok := pathAddress(c, "address")
	if !ok {
		return
	}

	var req dto.SetApprovalRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	tx, err := h.executor.SetLicenseApproval(c.Request.Context(), caller, address, req)
	if err != nil {
		respondError(c, err, "Failed to set approval")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *handler) GetToken(c *gin.Context) {
	address, ok := pathAddress(c, "address")
	if !ok {
		return
	}
	account, err := ParseAccountQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	token, err := h.executor.GetToken(c.Request.Context(), address, account)
	if err != nil {
		respondError(c, err, "Failed to get token")
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *handler) ApproveToken(c *gin.Context) {
	caller, ok := callerAddress(c)
	if !ok {
		return
	}
	address, ok := pathAddress(c, "address")
	if !ok {
		return
	}

	var req dto.ApproveTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	tx, err := h.executor.ApproveToken(c.Request.Context(), caller, address, req)
	if err != nil {
		respondError(c, err, "Failed to approve token")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *handler) HashMetadata(c *gin.Context) {
	var req dto.HashMetadataRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	resp, err := h.executor.HashMetadata(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to hash metadata")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateWebhookClient creates a new webhook client (requires authentication via API key)
func (h *handler) CreateWebhookClient(c *gin.Context) {
	var req dto.CreateWebhookClientRequest
	if !bindJSON(c, &req) {
		return
	}

	// Validate request body
	if err := req.Validate(h.debug); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	retryMaxAttempts := constants.DEFAULT_RETRY_MAX_ATTEMPTS
	if req.RetryMaxAttempts != nil {
		retryMaxAttempts = *req.RetryMaxAttempts
	}

	response, err := h.executor.CreateWebhookClient(
		c.Request.Context(),
		req.WebhookURL,
		req.EventFilters,
		retryMaxAttempts,
	)
	if err != nil {
		respondError(c, err, "Failed to create webhook client")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "peridot-node",
	})
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

func pathAddress(c *gin.Context, name string) (common.Address, bool) {
	addr, err := domain.ParseAddress(c.Param(name))
	if err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid %s", name), err.Error())
		return common.Address{}, false
	}
	return addr, true
}

func pathGameID(c *gin.Context) (domain.GameID, bool) {
	gameID, err := domain.ParseGameID(c.Param("game_id"))
	if err != nil {
		respondBadRequest(c, "Invalid game id", err.Error())
		return domain.GameID{}, false
	}
	return gameID, true
}

func callerAddress(c *gin.Context) (common.Address, bool) {
	caller, ok := middleware.Caller(c)
	if !ok {
		respondUnauthorized(c, "Caller address is required")
		return common.Address{}, false
	}
	return caller, true
}
