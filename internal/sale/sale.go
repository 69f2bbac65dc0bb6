package sale

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/events"
	"github.com/peridotvault/peridot-core/internal/ledger"
)

var (
	// ErrNotInitialized is returned by entry points that need an initialized sale
	ErrNotInitialized = fmt.Errorf("%w: sale not initialized", domain.ErrConfiguration)
	// ErrMetadataNotPublished is returned when the game metadata head is read or
	// required before its first publish
	ErrMetadataNotPublished = fmt.Errorf("%w: game metadata not published", domain.ErrInvariantViolation)
	// ErrNotOwner is returned when a non-owner calls an owner-only entry point
	ErrNotOwner = fmt.Errorf("%w: caller is not the sale owner", domain.ErrUnauthorized)
)

// InitParams are the one-time initialization fields of a sale
type InitParams struct {
	TokenURITemplate   string
	ContractMetaHash   common.Hash
	ContractMetaURI    string
	GameID             domain.GameID
	PaymentToken       common.Address // zero address = native currency
	Price              *big.Int
	MaxSupply          uint64 // 0 = unlimited
	TreasuryRouter     common.Address
	DeveloperRecipient common.Address
	PlatformFeeBps     uint16
	// Owner receives administrative rights; the initializing caller when zero
	Owner common.Address
}

// LicenseSale is the per-game sale contract. One canonical instance is
// deployed uninitialized and every game gets its own clone of it.
type LicenseSale struct {
	initialized bool
	owner       common.Address

	tokenURITemplate string
	gameID           domain.GameID
	paymentToken     common.Address

	price              *big.Int
	maxSupply          uint64
	totalMinted        uint64
	treasuryRouter     common.Address
	developerRecipient common.Address
	platformFeeBps     uint16

	contractMetaHead domain.Head
	metadataHead     domain.Head

	balances          map[balanceKey]*big.Int
	operatorApprovals map[approvalKey]bool
}

// New returns uninitialized sale storage
func New() *LicenseSale {
	return &LicenseSale{
		price:             new(big.Int),
		balances:          make(map[balanceKey]*big.Int),
		operatorApprovals: make(map[approvalKey]bool),
	}
}

// Clone implements ledger.Template
func (s *LicenseSale) Clone() ledger.Contract {
	return New()
}

// Initialize sets every initial field exactly once. The contract metadata
// head starts at version 1; the game metadata head stays empty.
func (s *LicenseSale) Initialize(c *ledger.Call, p InitParams) error {
	if s.initialized {
		return fmt.Errorf("%w: sale %s", domain.ErrAlreadyInitialized, c.Self.Hex())
	}
	if err := validateFeeBps(p.PlatformFeeBps); err != nil {
		return err
	}
	if err := validateRecipient("treasury router", p.TreasuryRouter); err != nil {
		return err
	}
	if err := validateRecipient("developer recipient", p.DeveloperRecipient); err != nil {
		return err
	}

	price := new(big.Int)
	if p.Price != nil {
		if p.Price.Sign() < 0 {
			return fmt.Errorf("%w: negative price", domain.ErrInvariantViolation)
		}
		price.Set(p.Price)
	}

	owner := p.Owner
	if owner == (common.Address{}) {
		owner = c.Sender
	}

	ledger.Set(c, &s.initialized, true)
	ledger.Set(c, &s.tokenURITemplate, p.TokenURITemplate)
	ledger.Set(c, &s.gameID, p.GameID)
	ledger.Set(c, &s.paymentToken, p.PaymentToken)
	ledger.Set(c, &s.price, price)
	ledger.Set(c, &s.maxSupply, p.MaxSupply)
	ledger.Set(c, &s.treasuryRouter, p.TreasuryRouter)
	ledger.Set(c, &s.developerRecipient, p.DeveloperRecipient)
	ledger.Set(c, &s.platformFeeBps, p.PlatformFeeBps)
	ledger.Set(c, &s.contractMetaHead, domain.Head{Version: 1, Hash: p.ContractMetaHash, URI: p.ContractMetaURI})

	if err := s.setOwner(c, owner); err != nil {
		return err
	}
	// initial settings are announced like later updates
	if err := events.Emit(c, events.PriceUpdated, price); err != nil {
		return err
	}
	if err := events.Emit(c, events.MaxSupplyUpdated, new(big.Int).SetUint64(p.MaxSupply)); err != nil {
		return err
	}
	return events.Emit(c, events.ContractMetadataPublished, new(big.Int).SetUint64(1), p.ContractMetaHash, p.ContractMetaURI)
}

// PublishMetadata appends a game metadata version; owner only
func (s *LicenseSale) PublishMetadata(c *ledger.Call, hash common.Hash, uri string) error {
	if err := s.onlyOwner(c); err != nil {
		return err
	}
	head := domain.Head{Version: s.metadataHead.Version + 1, Hash: hash, URI: uri}
	ledger.Set(c, &s.metadataHead, head)
	return events.Emit(c, events.MetadataPublished, new(big.Int).SetUint64(head.Version), hash, uri)
}

// PublishContractMetadata appends a contract metadata version; owner only
func (s *LicenseSale) PublishContractMetadata(c *ledger.Call, hash common.Hash, uri string) error {
	if err := s.onlyOwner(c); err != nil {
		return err
	}
	head := domain.Head{Version: s.contractMetaHead.Version + 1, Hash: hash, URI: uri}
	ledger.Set(c, &s.contractMetaHead, head)
	return events.Emit(c, events.ContractMetadataPublished, new(big.Int).SetUint64(head.Version), hash, uri)
}

// SetPrice changes the license price; owner only
func (s *LicenseSale) SetPrice(c *ledger.Call, price *big.Int) error {
	if err := s.onlyOwner(c); err != nil {
		return err
	}
	if price == nil || price.Sign() < 0 {
		return fmt.Errorf("%w: invalid price", domain.ErrInvariantViolation)
	}
	ledger.Set(c, &s.price, new(big.Int).Set(price))
	return events.Emit(c, events.PriceUpdated, price)
}

// SetMaxSupply changes the supply cap; owner only. A non-zero cap below the
// number of licenses already minted is rejected; 0 lifts the cap.
func (s *LicenseSale) SetMaxSupply(c *ledger.Call, maxSupply uint64) error {
	if err := s.onlyOwner(c); err != nil {
		return err
	}
	if maxSupply != 0 && maxSupply < s.totalMinted {
		return fmt.Errorf("%w: max supply %d below minted %d", domain.ErrInvariantViolation, maxSupply, s.totalMinted)
	}
	ledger.Set(c, &s.maxSupply, maxSupply)
	return events.Emit(c, events.MaxSupplyUpdated, new(big.Int).SetUint64(maxSupply))
}

// SetTreasuryRouter changes the platform fee recipient; owner only
func (s *LicenseSale) SetTreasuryRouter(c *ledger.Call, router common.Address) error {
	if err := s.onlyOwner(c); err != nil {
		return err
	}
	if err := validateRecipient("treasury router", router); err != nil {
		return err
	}
	ledger.Set(c, &s.treasuryRouter, router)
	return events.Emit(c, events.TreasuryRouterUpdated, router)
}

// SetDeveloperRecipient changes the developer payout address; owner only
func (s *LicenseSale) SetDeveloperRecipient(c *ledger.Call, recipient common.Address) error {
	if err := s.onlyOwner(c); err != nil {
		return err
	}
	if err := validateRecipient("developer recipient", recipient); err != nil {
		return err
	}
	ledger.Set(c, &s.developerRecipient, recipient)
	return events.Emit(c, events.DeveloperRecipientUpdated, recipient)
}

// SetPlatformFeeBps changes the platform share of each sale; owner only
func (s *LicenseSale) SetPlatformFeeBps(c *ledger.Call, bps uint16) error {
	if err := s.onlyOwner(c); err != nil {
		return err
	}
	if err := validateFeeBps(bps); err != nil {
		return err
	}
	ledger.Set(c, &s.platformFeeBps, bps)
	return events.Emit(c, events.PlatformFeeBpsUpdated, bps)
}

// TransferOwnership hands administrative rights to newOwner; owner only
func (s *LicenseSale) TransferOwnership(c *ledger.Call, newOwner common.Address) error {
	if err := s.onlyOwner(c); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return fmt.Errorf("%w: new owner is the zero address", domain.ErrInvariantViolation)
	}
	return s.setOwner(c, newOwner)
}

func (s *LicenseSale) setOwner(c *ledger.Call, owner common.Address) error {
	previous := s.owner
	ledger.Set(c, &s.owner, owner)
	return events.Emit(c, events.OwnershipTransferred, previous, owner)
}

func (s *LicenseSale) onlyOwner(c *ledger.Call) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if c.Sender != s.owner {
		return fmt.Errorf("%w: %s", ErrNotOwner, c.Sender.Hex())
	}
	return nil
}

func validateFeeBps(bps uint16) error {
	if bps > domain.MAX_BPS {
		return fmt.Errorf("%w: platform fee %d bps exceeds %d", domain.ErrInvariantViolation, bps, domain.MAX_BPS)
	}
	return nil
}

func validateRecipient(name string, addr common.Address) error {
	if addr == (common.Address{}) {
		return fmt.Errorf("%w: %s is the zero address", domain.ErrInvariantViolation, name)
	}
	return nil
}

// Initialized reports whether Initialize has run
func (s *LicenseSale) Initialized() bool { return s.initialized }

// Owner returns the administrative owner
func (s *LicenseSale) Owner() common.Address { return s.owner }

func (s *LicenseSale) GameID() domain.GameID { return s.gameID }

func (s *LicenseSale) PaymentToken() common.Address { return s.paymentToken }

func (s *LicenseSale) Price() *big.Int { return new(big.Int).Set(s.price) }

func (s *LicenseSale) MaxSupply() uint64 { return s.maxSupply }

func (s *LicenseSale) TotalMinted() uint64 { return s.totalMinted }

func (s *LicenseSale) TreasuryRouter() common.Address { return s.treasuryRouter }

func (s *LicenseSale) DeveloperRecipient() common.Address { return s.developerRecipient }

func (s *LicenseSale) PlatformFeeBps() uint16 { return s.platformFeeBps }

func (s *LicenseSale) TokenURITemplate() string { return s.tokenURITemplate }

func (s *LicenseSale) ContractMetaHead() domain.Head { return s.contractMetaHead }

func (s *LicenseSale) ContractMetaHeadVersion() uint64 { return s.contractMetaHead.Version }

// MetadataHeadVersion returns 0 until the first game metadata publish
func (s *LicenseSale) MetadataHeadVersion() uint64 { return s.metadataHead.Version }

// MetadataHead returns the current game metadata head
func (s *LicenseSale) MetadataHead() (domain.Head, error) {
	if !s.metadataHead.Published() {
		return domain.Head{}, ErrMetadataNotPublished
	}
	return s.metadataHead, nil
}

// MetadataHeadHash returns the digest of the current game metadata
func (s *LicenseSale) MetadataHeadHash() (common.Hash, error) {
	head, err := s.MetadataHead()
	if err != nil {
		return common.Hash{}, err
	}
	return head.Hash, nil
}
