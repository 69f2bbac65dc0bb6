package executor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/peridotvault/peridot-core/internal/api/shared/dto"
	apierrors "github.com/peridotvault/peridot-core/internal/api/shared/errors"
	"github.com/peridotvault/peridot-core/internal/deployment"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/factory"
	"github.com/peridotvault/peridot-core/internal/ledger"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/metadata"
	"github.com/peridotvault/peridot-core/internal/sale"
	"github.com/peridotvault/peridot-core/internal/store"
	"github.com/peridotvault/peridot-core/internal/token"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// GetStatus describes the node, its contracts and the projection progress
	GetStatus(ctx context.Context) (*dto.StatusResponse, error)
	// GetAccount returns the native state of an account
	GetAccount(ctx context.Context, address common.Address) (*dto.AccountResponse, error)
	// GetTransaction returns a mined transaction, or nil
	GetTransaction(ctx context.Context, txHash common.Hash) (*dto.TxResponse, error)

	// GetFactory returns the live factory configuration
	GetFactory(ctx context.Context) (*dto.FactoryResponse, error)
	// GetPublisherStatus reports whether an address may publish
	GetPublisherStatus(ctx context.Context, address common.Address) (*dto.PublisherStatusResponse, error)
	// UpdateFactory applies one owner-controlled factory setting
	UpdateFactory(ctx context.Context, caller common.Address, req dto.UpdateFactoryRequest) (*dto.TxResponse, error)
	// PublishGame deploys, initializes and registers a sale through the factory
	PublishGame(ctx context.Context, caller common.Address, req dto.PublishGameRequest) (*dto.PublishGameResponse, error)

	// GetRegistryGame returns a live registry entry
	GetRegistryGame(ctx context.Context, gameID domain.GameID) (*dto.RegistryGameResponse, error)
	// ListRegistryGames pages through the registry in registration order
	ListRegistryGames(ctx context.Context, limit, offset int) (*dto.ListResponse[dto.RegistryGameResponse], error)
	// SetGameActive toggles the discoverability of a registered game
	SetGameActive(ctx context.Context, caller common.Address, gameID domain.GameID, active bool) (*dto.TxResponse, error)

	// GetSale returns the live state of a sale
	GetSale(ctx context.Context, saleAddress common.Address) (*dto.SaleResponse, error)
	// Buy sells one license to the caller
	Buy(ctx context.Context, caller, saleAddress common.Address, req dto.BuyRequest) (*dto.TxResponse, error)
	// UpdateSale applies one owner-controlled sale setting
	UpdateSale(ctx context.Context, caller, saleAddress common.Address, req dto.UpdateSaleRequest) (*dto.TxResponse, error)
	// PublishMetadata advances a metadata head of a sale
	PublishMetadata(ctx context.Context, caller, saleAddress common.Address, req dto.PublishMetadataRequest) (*dto.PublishMetadataResponse, error)
	// GetLicenseBalance returns the license balance of an account
	GetLicenseBalance(ctx context.Context, saleAddress, account common.Address) (*dto.LicenseBalanceResponse, error)
	// TransferLicense moves licenses between accounts
	TransferLicense(ctx context.Context, caller, saleAddress common.Address, req dto.TransferLicenseRequest) (*dto.TxResponse, error)
	// SetLicenseApproval approves or revokes an operator for the caller's licenses
	SetLicenseApproval(ctx context.Context, caller, saleAddress common.Address, req dto.SetApprovalRequest) (*dto.TxResponse, error)

	// GetToken returns a payment token, with the balance of account when given
	GetToken(ctx context.Context, tokenAddress common.Address, account *common.Address) (*dto.TokenResponse, error)
	// ApproveToken sets a payment token allowance of the caller
	ApproveToken(ctx context.Context, caller, tokenAddress common.Address, req dto.ApproveTokenRequest) (*dto.TxResponse, error)

	// HashMetadata validates a document and returns its canonical form and digest
	HashMetadata(ctx context.Context, req dto.HashMetadataRequest) (*dto.MetadataHashResponse, error)

	// ListGames lists projected games
	ListGames(ctx context.Context, filter store.GameFilter) (*dto.ListResponse[dto.GameResponse], error)
	// GetGame returns a projected game, or nil
	GetGame(ctx context.Context, gameID domain.GameID) (*dto.GameResponse, error)
	// ListMetadataVersions returns the projected history of one metadata head
	ListMetadataVersions(ctx context.Context, saleAddress common.Address, kind domain.MetadataKind) ([]dto.MetadataVersionResponse, error)
	// ListPurchases lists projected purchases, newest first
	ListPurchases(ctx context.Context, filter store.PurchaseFilter) (*dto.ListResponse[dto.PurchaseResponse], error)

	// CreateWebhookClient registers a webhook client with a generated secret
	CreateWebhookClient(ctx context.Context, webhookURL string, eventFilters []string, retryMaxAttempts int) (*dto.CreateWebhookClientResponse, error)
}

type executor struct {
	ledger    *ledger.Ledger
	system    *deployment.System
	store     store.Store
	validator metadata.Validator
	hasher    metadata.Hasher
}

func NewExecutor(l *ledger.Ledger, sys *deployment.System, st store.Store, validator metadata.Validator, hasher metadata.Hasher) Executor {
	return &executor{ledger: l, system: sys, store: st, validator: validator, hasher: hasher}
}

func (e *executor) GetStatus(ctx context.Context) (*dto.StatusResponse, error) {
	network := e.ledger.NetworkID()
	projected, err := e.store.GetBlockCursor(ctx, network)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get block cursor: %v", err))
	}

	return &dto.StatusResponse{
		Network:        string(network),
		Chain:          string(e.ledger.Chain()),
		LatestBlock:    e.ledger.LatestBlock().Number,
		Implementation: e.system.Implementation.Hex(),
		Registry:       e.system.Registry.Address().Hex(),
		Factory:        e.system.Factory.Address().Hex(),
		ProjectedBlock: projected,
	}, nil
}

func (e *executor) GetAccount(ctx context.Context, address common.Address) (*dto.AccountResponse, error) {
	return &dto.AccountResponse{
		Address:    address.Hex(),
		Balance:    e.ledger.BalanceOf(address).String(),
		Nonce:      e.ledger.NonceOf(address),
		IsContract: e.ledger.IsContract(address),
	}, nil
}

func (e *executor) GetTransaction(ctx context.Context, txHash common.Hash) (*dto.TxResponse, error) {
	receipt, err := e.ledger.Receipt(txHash)
	if err != nil {
		if errors.Is(err, ledger.ErrReceiptNotFound) {
			return nil, nil
		}
		return nil, err
	}
	tx := e.mapReceipt(receipt)
	return &tx, nil
}

func (e *executor) GetFactory(ctx context.Context) (*dto.FactoryResponse, error) {
	info, err := e.system.Factory.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read factory: %w", err)
	}
	return dto.MapFactoryToDTO(info), nil
}

func (e *executor) GetPublisherStatus(ctx context.Context, address common.Address) (*dto.PublisherStatusResponse, error) {
	info, err := e.system.Factory.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read factory: %w", err)
	}
	allowed, err := e.system.Factory.IsPublisher(address)
	if err != nil {
		return nil, fmt.Errorf("failed to read publisher allowlist: %w", err)
	}

	return &dto.PublisherStatusResponse{
		Address:          address.Hex(),
		Allowed:          allowed,
		AllowlistEnabled: info.AllowlistEnabled,
		CanPublish:       allowed || !info.AllowlistEnabled,
	}, nil
}

func (e *executor) UpdateFactory(ctx context.Context, caller common.Address, req dto.UpdateFactoryRequest) (*dto.TxResponse, error) {
	f := e.system.Factory

	var (
		receipt *ledger.Receipt
		err     error
		action  string
	)
	switch {
	case req.Registry != nil:
		action = "setRegistry"
		receipt, err = f.SetRegistry(ctx, caller, common.HexToAddress(*req.Registry))
	case req.Publisher != nil:
		action = "setPublisher"
		receipt, err = f.SetPublisher(ctx, caller, common.HexToAddress(req.Publisher.Address), req.Publisher.Allowed)
	case req.AllowlistEnabled != nil:
		action = "setAllowlistEnabled"
		receipt, err = f.SetAllowlistEnabled(ctx, caller, *req.AllowlistEnabled)
	case req.PlatformFeeBps != nil:
		action = "setPlatformFeeBps"
		receipt, err = f.SetPlatformFeeBps(ctx, caller, *req.PlatformFeeBps)
	case req.FeeConfig != nil:
		action = "setFeeConfig"
		fee, perr := domain.ParseAmount(req.FeeConfig.Fee)
		if perr != nil {
			return nil, apierrors.NewValidationError(perr.Error())
		}
		receipt, err = f.SetFeeConfig(ctx, caller, common.HexToAddress(req.FeeConfig.Recipient), optionalAddress(req.FeeConfig.Token), fee)
	case req.Owner != nil:
		action = "transferOwnership"
		receipt, err = f.TransferOwnership(ctx, caller, common.HexToAddress(*req.Owner))
	default:
		return nil, apierrors.NewValidationError("exactly one setting must be provided")
	}

	return e.txResult(ctx, action, receipt, err, "Factory")
}

func (e *executor) PublishGame(ctx context.Context, caller common.Address, req dto.PublishGameRequest) (*dto.PublishGameResponse, error) {
	params := factory.PublishParams{
		TokenURITemplate:   req.TokenURITemplate,
		ContractMetaURI:    req.ContractMetaURI,
		GameID:             req.ResolvedGameID(),
		PaymentToken:       optionalAddress(req.PaymentToken),
		MaxSupply:          req.MaxSupply,
		TreasuryRouter:     common.HexToAddress(req.TreasuryRouter),
		DeveloperRecipient: common.HexToAddress(req.DeveloperRecipient),
		PlatformFeeBps:     req.PlatformFeeBps,
	}

	price, err := domain.ParseAmount(req.Price)
	if err != nil {
		return nil, apierrors.NewValidationError(err.Error())
	}
	params.Price = price

	if req.ContractMetaHash != "" {
		params.ContractMetaHash = common.HexToHash(req.ContractMetaHash)
	} else {
		doc, err := metadata.Prepare(e.validator, e.hasher, domain.MetadataKindContract, req.ContractMetadata)
		if err != nil {
			return nil, err
		}
		params.ContractMetaHash = doc.Hash
	}

	var value *big.Int
	if req.Value != nil {
		if value, err = domain.ParseAmount(*req.Value); err != nil {
			return nil, apierrors.NewValidationError(err.Error())
		}
	} else {
		info, err := e.system.Factory.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to read factory: %w", err)
		}
		value = new(big.Int)
		if domain.IsNative(info.FeeToken) {
			value.Set(info.PublishFee)
		}
	}

	saleAddress, receipt, err := e.system.Factory.PublishGame(ctx, caller, value, params)
	tx, err := e.txResult(ctx, "publishGame", receipt, err, "Factory")
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Game published",
		zap.String("gameID", params.GameID.Hex()),
		zap.String("sale", saleAddress.Hex()),
		zap.String("publisher", caller.Hex()),
	)

	return &dto.PublishGameResponse{
		GameID:           params.GameID.Hex(),
		SaleContract:     saleAddress.Hex(),
		ContractMetaHash: params.ContractMetaHash.Hex(),
		Tx:               *tx,
	}, nil
}

func (e *executor) GetRegistryGame(ctx context.Context, gameID domain.GameID) (*dto.RegistryGameResponse, error) {
	game, err := e.system.Registry.Game(gameID)
	if err != nil {
		return nil, err
	}
	resp := dto.MapRegistryGameToDTO(*game)
	return &resp, nil
}

func (e *executor) ListRegistryGames(ctx context.Context, limit, offset int) (*dto.ListResponse[dto.RegistryGameResponse], error) {
	games, total, err := e.system.Registry.List(offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list registry: %w", err)
	}

	items := make([]dto.RegistryGameResponse, len(games))
	for i, g := range games {
		items[i] = dto.MapRegistryGameToDTO(g)
	}
	return &dto.ListResponse[dto.RegistryGameResponse]{Items: items, Total: int64(total), Limit: limit, Offset: offset}, nil
}

func (e *executor) SetGameActive(ctx context.Context, caller common.Address, gameID domain.GameID, active bool) (*dto.TxResponse, error) {
	receipt, err := e.system.Registry.SetActive(ctx, caller, gameID, active)
	return e.txResult(ctx, "setActive", receipt, err, "Registry")
}

func (e *executor) GetSale(ctx context.Context, saleAddress common.Address) (*dto.SaleResponse, error) {
	k := sale.NewClient(e.ledger, saleAddress)
	info, err := k.Info()
	if err != nil {
		return nil, contractError(err, "Sale")
	}

	licenseURI := ""
	if info.Initialized {
		if licenseURI, err = k.URI(domain.LicenseTokenID()); err != nil {
			return nil, contractError(err, "Sale")
		}
	}
	return dto.MapSaleToDTO(info, licenseURI), nil
}

func (e *executor) Buy(ctx context.Context, caller, saleAddress common.Address, req dto.BuyRequest) (*dto.TxResponse, error) {
	k := sale.NewClient(e.ledger, saleAddress)

	value := new(big.Int)
	if req.Value != nil {
		v, err := domain.ParseAmount(*req.Value)
		if err != nil {
			return nil, apierrors.NewValidationError(err.Error())
		}
		value = v
	} else {
		info, err := k.Info()
		if err != nil {
			return nil, contractError(err, "Sale")
		}
		if domain.IsNative(info.PaymentToken) {
			value.Set(info.Price)
		}
	}

	receipt, err := k.Buy(ctx, caller, value)
	return e.txResult(ctx, "buy", receipt, err, "Sale")
}

func (e *executor) UpdateSale(ctx context.Context, caller, saleAddress common.Address, req dto.UpdateSaleRequest) (*dto.TxResponse, error) {
	k := sale.NewClient(e.ledger, saleAddress)

	var (
		receipt *ledger.Receipt
		err     error
		action  string
	)
	switch {
	case req.Price != nil:
		action = "setPrice"
		price, perr := domain.ParseAmount(*req.Price)
		if perr != nil {
			return nil, apierrors.NewValidationError(perr.Error())
		}
		receipt, err = k.SetPrice(ctx, caller, price)
	case req.MaxSupply != nil:
		action = "setMaxSupply"
		receipt, err = k.SetMaxSupply(ctx, caller, *req.MaxSupply)
	case req.TreasuryRouter != nil:
		action = "setTreasuryRouter"
		receipt, err = k.SetTreasuryRouter(ctx, caller, common.HexToAddress(*req.TreasuryRouter))
	case req.DeveloperRecipient != nil:
		action = "setDeveloperRecipient"
		receipt, err = k.SetDeveloperRecipient(ctx, caller, common.HexToAddress(*req.DeveloperRecipient))
	case req.PlatformFeeBps != nil:
		action = "setPlatformFeeBps"
		receipt, err = k.SetPlatformFeeBps(ctx, caller, *req.PlatformFeeBps)
	case req.Owner != nil:
		action = "transferOwnership"
		receipt, err = k.TransferOwnership(ctx, caller, common.HexToAddress(*req.Owner))
	default:
		return nil, apierrors.NewValidationError("exactly one setting must be provided")
	}

	return e.txResult(ctx, action, receipt, err, "Sale")
}

func (e *executor) PublishMetadata(ctx context.Context, caller, saleAddress common.Address, req dto.PublishMetadataRequest) (*dto.PublishMetadataResponse, error) {
	kind := domain.MetadataKind(req.Kind)
	if kind == "" {
		kind = domain.MetadataKindGame
	}

	var hash common.Hash
	if req.Hash != "" {
		hash = common.HexToHash(req.Hash)
	} else {
		doc, err := metadata.Prepare(e.validator, e.hasher, kind, req.Document)
		if err != nil {
			return nil, err
		}
		hash = doc.Hash
	}

	k := sale.NewClient(e.ledger, saleAddress)
	var (
		receipt *ledger.Receipt
		err     error
	)
	if kind == domain.MetadataKindContract {
		receipt, err = k.PublishContractMetadata(ctx, caller, hash, req.URI)
	} else {
		receipt, err = k.PublishMetadata(ctx, caller, hash, req.URI)
	}

	tx, err := e.txResult(ctx, "publishMetadata", receipt, err, "Sale")
	if err != nil {
		return nil, err
	}
	return &dto.PublishMetadataResponse{Kind: string(kind), Hash: hash.Hex(), URI: req.URI, Tx: *tx}, nil
}

func (e *executor) GetLicenseBalance(ctx context.Context, saleAddress, account common.Address) (*dto.LicenseBalanceResponse, error) {
	licenseID := domain.LicenseTokenID()
	balance, err := sale.NewClient(e.ledger, saleAddress).BalanceOf(account, licenseID)
	if err != nil {
		return nil, contractError(err, "Sale")
	}

	return &dto.LicenseBalanceResponse{
		SaleContract: saleAddress.Hex(),
		Account:      account.Hex(),
		LicenseID:    licenseID.String(),
		Balance:      balance.String(),
		HasLicense:   balance.Sign() > 0,
	}, nil
}

func (e *executor) TransferLicense(ctx context.Context, caller, saleAddress common.Address, req dto.TransferLicenseRequest) (*dto.TxResponse, error) {
	holder := caller
	if req.From != "" {
		holder = common.HexToAddress(req.From)
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, apierrors.NewValidationError(err.Error())
	}

	receipt, err := sale.NewClient(e.ledger, saleAddress).SafeTransferFrom(ctx, caller, holder, common.HexToAddress(req.To), domain.LicenseTokenID(), amount)
	return e.txResult(ctx, "safeTransferFrom", receipt, err, "Sale")
}

func (e *executor) SetLicenseApproval(ctx context.Context, caller, saleAddress common.Address, req dto.SetApprovalRequest) (*dto.TxResponse, error) {
	receipt, err := sale.NewClient(e.ledger, saleAddress).SetApprovalForAll(ctx, caller, common.HexToAddress(req.Operator), req.Approved)
	return e.txResult(ctx, "setApprovalForAll", receipt, err, "Sale")
}

func (e *executor) GetToken(ctx context.Context, tokenAddress common.Address, account *common.Address) (*dto.TokenResponse, error) {
	t := token.NewClient(e.ledger, tokenAddress)
	info, err := t.Info()
	if err != nil {
		return nil, contractError(err, "Token")
	}

	resp := dto.MapTokenToDTO(info)
	if account != nil {
		balance, err := t.BalanceOf(*account)
		if err != nil {
			return nil, contractError(err, "Token")
		}
		resp.Account = account.Hex()
		resp.Balance = balance.String()
	}
	return resp, nil
}

func (e *executor) ApproveToken(ctx context.Context, caller, tokenAddress common.Address, req dto.ApproveTokenRequest) (*dto.TxResponse, error) {
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return nil, apierrors.NewValidationError(err.Error())
	}
	receipt, err := token.NewClient(e.ledger, tokenAddress).Approve(ctx, caller, common.HexToAddress(req.Spender), amount)
	return e.txResult(ctx, "approve", receipt, err, "Token")
}

func (e *executor) HashMetadata(ctx context.Context, req dto.HashMetadataRequest) (*dto.MetadataHashResponse, error) {
	doc, err := metadata.Prepare(e.validator, e.hasher, domain.MetadataKind(req.Kind), req.Document)
	if err != nil {
		return nil, err
	}
	return &dto.MetadataHashResponse{Kind: string(doc.Kind), Hash: doc.Hash.Hex(), Canonical: string(doc.Canonical)}, nil
}

func (e *executor) ListGames(ctx context.Context, filter store.GameFilter) (*dto.ListResponse[dto.GameResponse], error) {
	if filter.Publisher != "" {
		filter.Publisher = domain.NormalizeAddress(filter.Publisher)
	}

	games, total, err := e.store.ListGames(ctx, e.ledger.NetworkID(), filter)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list games: %v", err))
	}

	items := make([]dto.GameResponse, len(games))
	for i := range games {
		items[i] = dto.MapGameToDTO(&games[i])
	}
	return &dto.ListResponse[dto.GameResponse]{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (e *executor) GetGame(ctx context.Context, gameID domain.GameID) (*dto.GameResponse, error) {
	game, err := e.store.GetGame(ctx, e.ledger.NetworkID(), gameID.Hex())
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get game: %v", err))
	}
	if game == nil {
		return nil, nil
	}
	resp := dto.MapGameToDTO(game)
	return &resp, nil
}

func (e *executor) ListMetadataVersions(ctx context.Context, saleAddress common.Address, kind domain.MetadataKind) ([]dto.MetadataVersionResponse, error) {
	versions, err := e.store.ListMetadataVersions(ctx, e.ledger.NetworkID(), saleAddress.Hex(), kind)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list metadata versions: %v", err))
	}

	items := make([]dto.MetadataVersionResponse, len(versions))
	for i := range versions {
		items[i] = dto.MapMetadataVersionToDTO(&versions[i])
	}
	return items, nil
}

func (e *executor) ListPurchases(ctx context.Context, filter store.PurchaseFilter) (*dto.ListResponse[dto.PurchaseResponse], error) {
	if filter.SaleContract != "" {
		filter.SaleContract = domain.NormalizeAddress(filter.SaleContract)
	}
	if filter.Buyer != "" {
		filter.Buyer = domain.NormalizeAddress(filter.Buyer)
	}

	purchases, total, err := e.store.ListPurchases(ctx, e.ledger.NetworkID(), filter)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list purchases: %v", err))
	}

	items := make([]dto.PurchaseResponse, len(purchases))
	for i := range purchases {
		items[i] = dto.MapPurchaseToDTO(&purchases[i])
	}
	return &dto.ListResponse[dto.PurchaseResponse]{Items: items, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (e *executor) CreateWebhookClient(ctx context.Context, webhookURL string, eventFilters []string, retryMaxAttempts int) (*dto.CreateWebhookClientResponse, error) {
	secret, err := generateSecret()
	if err != nil {
		return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to generate webhook secret: %v", err))
	}

	filters, err := json.Marshal(eventFilters)
	if err != nil {
		return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to encode event filters: %v", err))
	}

	client, err := e.store.CreateWebhookClient(ctx, store.CreateWebhookClientInput{
		ClientID:         uuid.NewString(),
		WebhookURL:       webhookURL,
		WebhookSecret:    secret,
		EventFilters:     datatypes.JSON(filters),
		IsActive:         true,
		RetryMaxAttempts: retryMaxAttempts,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create webhook client: %v", err))
	}

	logger.InfoCtx(ctx, "Webhook client created", zap.String("clientID", client.ClientID), zap.Strings("eventFilters", eventFilters))

	return &dto.CreateWebhookClientResponse{
		ClientID:         client.ClientID,
		WebhookURL:       client.WebhookURL,
		WebhookSecret:    client.WebhookSecret,
		EventFilters:     eventFilters,
		IsActive:         client.IsActive,
		RetryMaxAttempts: client.RetryMaxAttempts,
		CreatedAt:        client.CreatedAt,
		UpdatedAt:        client.UpdatedAt,
	}, nil
}

// txResult maps a mined receipt or the reason the transaction failed.
// Failed transactions are still mined, so the hash is kept in the error.
func (e *executor) txResult(ctx context.Context, action string, receipt *ledger.Receipt, err error, subject string) (*dto.TxResponse, error) {
	if err != nil {
		err = contractError(err, subject)
		if receipt != nil {
			logger.WarnCtx(ctx, "Transaction reverted",
				zap.String("action", action),
				zap.String("txHash", receipt.TxHash.Hex()),
				zap.String("from", receipt.From.Hex()),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%s reverted in %s: %w", action, receipt.TxHash.Hex(), err)
		}
		return nil, err
	}

	tx := e.mapReceipt(receipt)
	return &tx, nil
}

func (e *executor) mapReceipt(receipt *ledger.Receipt) dto.TxResponse {
	blockTime := time.Time{}
	if block, err := e.ledger.BlockByNumber(receipt.BlockNumber); err == nil {
		blockTime = block.Time
	}
	return dto.MapReceiptToDTO(e.ledger.Chain(), receipt, blockTime)
}

// contractError reports an address that holds no contract of the expected
// kind as not found
func contractError(err error, subject string) error {
	if errors.Is(err, ledger.ErrNoContract) || errors.Is(err, ledger.ErrWrongContract) {
		return apierrors.NewNotFoundError(subject+" not found", err.Error())
	}
	return err
}

func optionalAddress(s string) common.Address {
	if s == "" {
		return common.Address{}
	}
	return common.HexToAddress(s)
}

func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
