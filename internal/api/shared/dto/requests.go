package dto

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/api/shared/constants"
	apierrors "github.com/peridotvault/peridot-core/internal/api/shared/errors"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/webhook"
)

// PublishGameRequest represents the request body for publishing a game through the factory
type PublishGameRequest struct {
	// Either GameID or Slug identifies the game; the id of a slug is its keccak256 hash
	GameID string `json:"game_id,omitempty"`
	Slug   string `json:"slug,omitempty"`

	TokenURITemplate string `json:"token_uri_template"`
	ContractMetaURI  string `json:"contract_metadata_uri"`
	// ContractMetadata is hashed after validation when ContractMetaHash is empty
	ContractMetadata json.RawMessage `json:"contract_metadata,omitempty"`
	ContractMetaHash string          `json:"contract_metadata_hash,omitempty"`

	PaymentToken       string  `json:"payment_token,omitempty"` // empty = native currency
	Price              string  `json:"price"`
	MaxSupply          uint64  `json:"max_supply"`
	TreasuryRouter     string  `json:"treasury_router"`
	DeveloperRecipient string  `json:"developer_recipient"`
	PlatformFeeBps     *uint16 `json:"platform_fee_bps,omitempty"`

	// Value overrides the native amount sent with the transaction; defaults to the native publish fee
	Value *string `json:"value,omitempty"`
}

// Validate validates the request body
func (r *PublishGameRequest) Validate() error {
	if (r.GameID == "") == (r.Slug == "") {
		return apierrors.NewValidationError("exactly one of game_id and slug is required")
	}
	if r.GameID != "" {
		if _, err := domain.ParseGameID(r.GameID); err != nil {
			return apierrors.NewValidationError(err.Error())
		}
	}
	if r.ContractMetaURI == "" {
		return apierrors.NewValidationError("contract_metadata_uri is required")
	}
	if len(r.ContractMetadata) == 0 && r.ContractMetaHash == "" {
		return apierrors.NewValidationError("contract_metadata or contract_metadata_hash is required")
	}
	if err := validateHash("contract_metadata_hash", r.ContractMetaHash); err != nil {
		return err
	}
	if err := validateOptionalAddress("payment_token", r.PaymentToken); err != nil {
		return err
	}
	if err := validateAddress("treasury_router", r.TreasuryRouter); err != nil {
		return err
	}
	if err := validateAddress("developer_recipient", r.DeveloperRecipient); err != nil {
		return err
	}
	if err := validateAmount("price", r.Price); err != nil {
		return err
	}
	if r.PlatformFeeBps != nil && *r.PlatformFeeBps > domain.MAX_BPS {
		return apierrors.NewValidationError(fmt.Sprintf("platform_fee_bps must not exceed %d", domain.MAX_BPS))
	}
	if r.Value != nil {
		return validateAmount("value", *r.Value)
	}
	return nil
}

// ResolvedGameID returns the id named by GameID or derived from Slug
func (r *PublishGameRequest) ResolvedGameID() domain.GameID {
	if r.Slug != "" {
		return domain.GameIDFromSlug(r.Slug)
	}
	id, _ := domain.ParseGameID(r.GameID)
	return id
}

// BuyRequest represents the request body for buying a license
type BuyRequest struct {
	// Value overrides the native amount sent; defaults to the price for native sales
	Value *string `json:"value,omitempty"`
}

// Validate validates the request body
func (r *BuyRequest) Validate() error {
	if r.Value != nil {
		return validateAmount("value", *r.Value)
	}
	return nil
}

// UpdateSaleRequest changes one owner-controlled sale setting per request
type UpdateSaleRequest struct {
	Price              *string `json:"price,omitempty"`
	MaxSupply          *uint64 `json:"max_supply,omitempty"`
	TreasuryRouter     *string `json:"treasury_router,omitempty"`
	DeveloperRecipient *string `json:"developer_recipient,omitempty"`
	PlatformFeeBps     *uint16 `json:"platform_fee_bps,omitempty"`
	Owner              *string `json:"owner,omitempty"`
}

// Validate validates the request body
func (r *UpdateSaleRequest) Validate() error {
	if countSet(r.Price != nil, r.MaxSupply != nil, r.TreasuryRouter != nil, r.DeveloperRecipient != nil, r.PlatformFeeBps != nil, r.Owner != nil) != 1 {
		return apierrors.NewValidationError("exactly one setting must be provided")
	}

	switch {
	case r.Price != nil:
		return validateAmount("price", *r.Price)
	case r.TreasuryRouter != nil:
		return validateAddress("treasury_router", *r.TreasuryRouter)
	case r.DeveloperRecipient != nil:
		return validateAddress("developer_recipient", *r.DeveloperRecipient)
	case r.Owner != nil:
		return validateAddress("owner", *r.Owner)
	}
	return nil
}

// PublishMetadataRequest represents the request body for publishing a metadata head
type PublishMetadataRequest struct {
	Kind string `json:"kind,omitempty"` // "game" (default) or "contract"
	URI  string `json:"uri"`
	// Document is validated and hashed when Hash is empty
	Document json.RawMessage `json:"document,omitempty"`
	Hash     string          `json:"hash,omitempty"`
}

// Validate validates the request body
func (r *PublishMetadataRequest) Validate() error {
	if r.Kind == "" {
		r.Kind = string(domain.MetadataKindGame)
	}
	if !domain.IsValidMetadataKind(domain.MetadataKind(r.Kind)) {
		return apierrors.NewValidationError(fmt.Sprintf("unsupported metadata kind: %s", r.Kind))
	}
	if r.URI == "" {
		return apierrors.NewValidationError("uri is required")
	}
	if (len(r.Document) == 0) == (r.Hash == "") {
		return apierrors.NewValidationError("exactly one of document and hash is required")
	}
	if len(r.Document) > constants.MAX_METADATA_DOCUMENT_SIZE {
		return apierrors.NewValidationError("document is too large")
	}
	return validateHash("hash", r.Hash)
}

// HashMetadataRequest represents the request body for hashing a metadata document
type HashMetadataRequest struct {
	Kind     string          `json:"kind,omitempty"`
	Document json.RawMessage `json:"document"`
}

// Validate validates the request body
func (r *HashMetadataRequest) Validate() error {
	if r.Kind == "" {
		r.Kind = string(domain.MetadataKindGame)
	}
	if !domain.IsValidMetadataKind(domain.MetadataKind(r.Kind)) {
		return apierrors.NewValidationError(fmt.Sprintf("unsupported metadata kind: %s", r.Kind))
	}
	if len(r.Document) == 0 {
		return apierrors.NewValidationError("document is required")
	}
	if len(r.Document) > constants.MAX_METADATA_DOCUMENT_SIZE {
		return apierrors.NewValidationError("document is too large")
	}
	return nil
}

// TransferLicenseRequest represents the request body for moving licenses between accounts
type TransferLicenseRequest struct {
	// From is the holder; defaults to the caller, an approved operator may name another holder
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// Validate validates the request body
func (r *TransferLicenseRequest) Validate() error {
	if err := validateOptionalAddress("from", r.From); err != nil {
		return err
	}
	if err := validateAddress("to", r.To); err != nil {
		return err
	}
	return validateAmount("amount", r.Amount)
}

// SetApprovalRequest represents the request body for operator approval of licenses
type SetApprovalRequest struct {
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

// Validate validates the request body
func (r *SetApprovalRequest) Validate() error {
	return validateAddress("operator", r.Operator)
}

// PublisherUpdate changes the allowlist membership of one address
type PublisherUpdate struct {
	Address string `json:"address"`
	Allowed bool   `json:"allowed"`
}

// FeeConfigUpdate replaces the publish fee settings
type FeeConfigUpdate struct {
	Recipient string `json:"recipient"`
	Token     string `json:"token,omitempty"` // empty = native currency
	Fee       string `json:"fee"`
}

// UpdateFactoryRequest changes one owner-controlled factory setting per request
type UpdateFactoryRequest struct {
	Registry         *string          `json:"registry,omitempty"`
	Publisher        *PublisherUpdate `json:"publisher,omitempty"`
	AllowlistEnabled *bool            `json:"allowlist_enabled,omitempty"`
	PlatformFeeBps   *uint16          `json:"platform_fee_bps,omitempty"`
	FeeConfig        *FeeConfigUpdate `json:"fee_config,omitempty"`
	Owner            *string          `json:"owner,omitempty"`
}

// Validate validates the request body
func (r *UpdateFactoryRequest) Validate() error {
	if countSet(r.Registry != nil, r.Publisher != nil, r.AllowlistEnabled != nil, r.PlatformFeeBps != nil, r.FeeConfig != nil, r.Owner != nil) != 1 {
		return apierrors.NewValidationError("exactly one setting must be provided")
	}

	switch {
	case r.Registry != nil:
		return validateAddress("registry", *r.Registry)
	case r.Publisher != nil:
		return validateAddress("publisher.address", r.Publisher.Address)
	case r.FeeConfig != nil:
		if err := validateAddress("fee_config.recipient", r.FeeConfig.Recipient); err != nil {
			return err
		}
		if err := validateOptionalAddress("fee_config.token", r.FeeConfig.Token); err != nil {
			return err
		}
		return validateAmount("fee_config.fee", r.FeeConfig.Fee)
	case r.Owner != nil:
		return validateAddress("owner", *r.Owner)
	}
	return nil
}

// SetGameActiveRequest represents the request body for toggling game discoverability
type SetGameActiveRequest struct {
	Active *bool `json:"active"`
}

// Validate validates the request body
func (r *SetGameActiveRequest) Validate() error {
	if r.Active == nil {
		return apierrors.NewValidationError("active is required")
	}
	return nil
}

// ApproveTokenRequest represents the request body for a payment token allowance
type ApproveTokenRequest struct {
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

// Validate validates the request body
func (r *ApproveTokenRequest) Validate() error {
	if err := validateAddress("spender", r.Spender); err != nil {
		return err
	}
	return validateAmount("amount", r.Amount)
}

// CreateWebhookClientRequest represents the request body for creating a webhook client
type CreateWebhookClientRequest struct {
	WebhookURL       string   `json:"webhook_url"`
	EventFilters     []string `json:"event_filters"`
	RetryMaxAttempts *int     `json:"retry_max_attempts,omitempty"`
}

// Validate validates the request body. Plain HTTP endpoints are accepted only in debug mode.
func (r *CreateWebhookClientRequest) Validate(debug bool) error {
	if r.WebhookURL == "" {
		return apierrors.NewValidationError("webhook_url is required")
	}

	u, err := url.Parse(r.WebhookURL)
	if err != nil || u.Host == "" {
		return apierrors.NewValidationError("webhook_url must be a valid URL")
	}
	if debug {
		if u.Scheme != "http" && u.Scheme != "https" {
			return apierrors.NewValidationError("webhook_url must be a valid URL")
		}
	} else if u.Scheme != "https" {
		return apierrors.NewValidationError("webhook_url must be a valid HTTPS URL")
	}

	if len(r.EventFilters) == 0 {
		return apierrors.NewValidationError("event_filters is required and must not be empty")
	}
	for _, eventType := range r.EventFilters {
		if eventType != webhook.EventTypeWildcard && !domain.IsValidEventType(eventType) {
			return apierrors.NewValidationError(fmt.Sprintf("unsupported event type: %s. Supported types: %v", eventType, domain.EventTypes))
		}
	}

	if r.RetryMaxAttempts != nil {
		if *r.RetryMaxAttempts < 1 || *r.RetryMaxAttempts > constants.MAX_RETRY_MAX_ATTEMPTS {
			return apierrors.NewValidationError(fmt.Sprintf("retry_max_attempts must be between 1 and %d", constants.MAX_RETRY_MAX_ATTEMPTS))
		}
	}

	return nil
}

func countSet(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func validateAddress(field, value string) error {
	if !common.IsHexAddress(strings.TrimSpace(value)) {
		return apierrors.NewValidationError(fmt.Sprintf("%s must be a hex address", field))
	}
	return nil
}

func validateOptionalAddress(field, value string) error {
	if value == "" {
		return nil
	}
	return validateAddress(field, value)
}

func validateAmount(field, value string) error {
	if value == "" {
		return apierrors.NewValidationError(fmt.Sprintf("%s is required", field))
	}
	if _, err := domain.ParseAmount(value); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("%s must be a non-negative integer", field))
	}
	return nil
}

func validateHash(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := domain.ParseGameID(value); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("%s must be a 0x-prefixed 32-byte hex string", field))
	}
	return nil
}
