package sale

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/ledger"
)

// Info is a consistent snapshot of a sale's public state
type Info struct {
	Address            common.Address
	Initialized        bool
	Owner              common.Address
	GameID             domain.GameID
	PaymentToken       common.Address
	Price              *big.Int
	MaxSupply          uint64
	TotalMinted        uint64
	TreasuryRouter     common.Address
	DeveloperRecipient common.Address
	PlatformFeeBps     uint16
	TokenURITemplate   string
	ContractMetaHead   domain.Head
	MetadataHead       domain.Head // zero until the first publish
}

// Client submits transactions to and reads from one sale on a ledger
type Client struct {
	ledger  *ledger.Ledger
	address common.Address
}

// NewClient binds a client to the sale at address
func NewClient(l *ledger.Ledger, address common.Address) *Client {
	return &Client{ledger: l, address: address}
}

// DeployImplementation deploys the uninitialized canonical sale that the
// factory clones
func DeployImplementation(ctx context.Context, l *ledger.Ledger, from common.Address) (common.Address, *ledger.Receipt, error) {
	return l.Deploy(ctx, from, New(), nil)
}

// DeployStandalone deploys a sale initialized in its creating transaction,
// outside of the factory and registry
func DeployStandalone(ctx context.Context, l *ledger.Ledger, from common.Address, params InitParams) (*Client, *ledger.Receipt, error) {
	s := New()
	addr, receipt, err := l.Deploy(ctx, from, s, func(c *ledger.Call) error {
		return s.Initialize(c, params)
	})
	if err != nil {
		return nil, receipt, err
	}
	return NewClient(l, addr), receipt, nil
}

// InitializeAt initializes the sale at addr from inside a running call
func InitializeAt(c *ledger.Call, addr common.Address, params InitParams) error {
	return c.Call(addr, nil, func(sub *ledger.Call) error {
		s, err := ledger.This[*LicenseSale](sub)
		if err != nil {
			return err
		}
		return s.Initialize(sub, params)
	})
}

// Address returns the sale address
func (k *Client) Address() common.Address {
	return k.address
}

func (k *Client) transact(ctx context.Context, from common.Address, value *big.Int, fn func(c *ledger.Call, s *LicenseSale) error) (*ledger.Receipt, error) {
	return k.ledger.Transact(ctx, from, k.address, value, func(c *ledger.Call) error {
		s, err := ledger.This[*LicenseSale](c)
		if err != nil {
			return err
		}
		return fn(c, s)
	})
}

// Initialize initializes an uninitialized sale
func (k *Client) Initialize(ctx context.Context, from common.Address, params InitParams) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, s *LicenseSale) error {
		return s.Initialize(c, params)
	})
}

// PublishMetadata publishes a new game metadata version
func (k *Client) PublishMetadata(ctx context.Context, from common.Address, hash common.Hash, uri string) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, s *LicenseSale) error {
		return s.PublishMetadata(c, hash, uri)
	})
}

// PublishContractMetadata publishes a new contract metadata version
func (k *Client) PublishContractMetadata(ctx context.Context, from common.Address, hash common.Hash, uri string) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, s *LicenseSale) error {
		return s.PublishContractMetadata(c, hash, uri)
	})
}

// Buy purchases one license for from, sending value in native currency
func (k *Client) Buy(ctx context.Context, from common.Address, value *big.Int) (*ledger.Receipt, error) {
	return k.transact(ctx, from, value, func(c *ledger.Call, s *LicenseSale) error {
		return s.Buy(c)
	})
}

// SetPrice changes the price
func (k *Client) SetPrice(ctx context.Context, from common.Address, price *big.Int) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, s *LicenseSale) error {
		return s.SetPrice(c, price)
	})
}

// SetMaxSupply changes the supply cap
func (k *Client) SetMaxSupply(ctx context.Context, from common.Address, maxSupply uint64) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, s *LicenseSale) error {
		return s.SetMaxSupply(c, maxSupply)
	})
}

// SetTreasuryRouter changes the fee recipient
func (k *Client) SetTreasuryRouter(ctx context.Context, from, router common.Address) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, s *LicenseSale) error {
		return s.SetTreasuryRouter(c, router)
	})
}

// SetDeveloperRecipient changes the developer payout address
func (k *Client) SetDeveloperRecipient(ctx context.Context, from, recipient common.Address) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, s *LicenseSale) error {
		return s.SetDeveloperRecipient(c, recipient)
	})
}

// SetPlatformFeeBps changes the platform share
func (k *Client) SetPlatformFeeBps(ctx context.Context, from common.Address, bps uint16) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, s *LicenseSale) error {
		return s.SetPlatformFeeBps(c, bps)
	})
}

// TransferOwnership hands the sale to newOwner
func (k *Client) TransferOwnership(ctx context.Context, from, newOwner common.Address) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, s *LicenseSale) error {
		return s.TransferOwnership(c, newOwner)
	})
}

// SetApprovalForAll grants or revokes an operator over from's licenses
func (k *Client) SetApprovalForAll(ctx context.Context, from, operator common.Address, approved bool) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, s *LicenseSale) error {
		return s.SetApprovalForAll(c, operator, approved)
	})
}

// SafeTransferFrom moves licenses from holder to to
func (k *Client) SafeTransferFrom(ctx context.Context, from, holder, to common.Address, id, amount *big.Int) (*ledger.Receipt, error) {
	return k.transact(ctx, from, nil, func(c *ledger.Call, s *LicenseSale) error {
		return s.SafeTransferFrom(c, holder, to, id, amount)
	})
}

// Info returns a snapshot of the sale state
func (k *Client) Info() (*Info, error) {
	var out *Info
	err := ledger.View(k.ledger, k.address, func(s *LicenseSale) error {
		out = &Info{
			Address:            k.address,
			Initialized:        s.Initialized(),
			Owner:              s.Owner(),
			GameID:             s.GameID(),
			PaymentToken:       s.PaymentToken(),
			Price:              s.Price(),
			MaxSupply:          s.MaxSupply(),
			TotalMinted:        s.TotalMinted(),
			TreasuryRouter:     s.TreasuryRouter(),
			DeveloperRecipient: s.DeveloperRecipient(),
			PlatformFeeBps:     s.PlatformFeeBps(),
			TokenURITemplate:   s.TokenURITemplate(),
			ContractMetaHead:   s.ContractMetaHead(),
		}
		if head, err := s.MetadataHead(); err == nil {
			out.MetadataHead = head
		}
		return nil
	})
	return out, err
}

// MetadataHead returns the current game metadata head
func (k *Client) MetadataHead() (domain.Head, error) {
	var out domain.Head
	err := ledger.View(k.ledger, k.address, func(s *LicenseSale) error {
		var err error
		out, err = s.MetadataHead()
		return err
	})
	return out, err
}

// BalanceOf returns how many units of license id account holds
func (k *Client) BalanceOf(account common.Address, id *big.Int) (*big.Int, error) {
	var out *big.Int
	err := ledger.View(k.ledger, k.address, func(s *LicenseSale) error {
		out = s.BalanceOf(account, id)
		return nil
	})
	return out, err
}

// IsApprovedForAll reports operator approval
func (k *Client) IsApprovedForAll(account, operator common.Address) (bool, error) {
	var out bool
	err := ledger.View(k.ledger, k.address, func(s *LicenseSale) error {
		out = s.IsApprovedForAll(account, operator)
		return nil
	})
	return out, err
}

// URI returns the resolved metadata URI of license id
func (k *Client) URI(id *big.Int) (string, error) {
	var out string
	err := ledger.View(k.ledger, k.address, func(s *LicenseSale) error {
		out = s.ResolvedURI(id)
		return nil
	})
	return out, err
}
