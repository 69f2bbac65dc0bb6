package sale

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/events"
	"github.com/peridotvault/peridot-core/internal/ledger"
	"github.com/peridotvault/peridot-core/internal/token"
)

var (
	owner     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	buyer     = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	stranger  = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	treasury  = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	developer = common.HexToAddress("0x00000000000000000000000000000000000000e1")

	metaHash = crypto.Keccak256Hash([]byte("ipfs://game/meta-v1.json"))
)

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	rich := new(big.Int).Mul(big.NewInt(1_000), big.NewInt(1e18))
	return ledger.New(domain.ChainLocalDevnet, ledger.Genesis{
		Time: time.Unix(1_700_000_000, 0),
		Alloc: map[common.Address]*big.Int{
			owner:    rich,
			buyer:    rich,
			stranger: rich,
		},
	}, adapter.NewFixedClock(time.Unix(1_700_000_000, 0)))
}

func defaultParams() InitParams {
	return InitParams{
		TokenURITemplate:   "ipfs://base/{id}.json",
		ContractMetaHash:   crypto.Keccak256Hash([]byte("ipfs://contract/v1.json")),
		ContractMetaURI:    "ipfs://contract/v1.json",
		GameID:             domain.GameIDFromSlug("peridot:studio:my-game"),
		Price:              big.NewInt(1_000_000),
		MaxSupply:          0,
		TreasuryRouter:     treasury,
		DeveloperRecipient: developer,
		PlatformFeeBps:     1000,
	}
}

func deploySale(t *testing.T, l *ledger.Ledger, params InitParams) *Client {
	t.Helper()
	client, receipt, err := DeployStandalone(context.Background(), l, owner, params)
	require.NoError(t, err)
	require.True(t, receipt.Succeeded())
	return client
}

func publishedSale(t *testing.T, l *ledger.Ledger, params InitParams) *Client {
	t.Helper()
	client := deploySale(t, l, params)
	_, err := client.PublishMetadata(context.Background(), owner, metaHash, "ipfs://game/meta-v1.json")
	require.NoError(t, err)
	return client
}

func info(t *testing.T, client *Client) *Info {
	t.Helper()
	out, err := client.Info()
	require.NoError(t, err)
	return out
}

func TestInitialize(t *testing.T) {
	l := newLedger(t)
	params := defaultParams()
	client := deploySale(t, l, params)

	got := info(t, client)
	assert.True(t, got.Initialized)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, params.GameID, got.GameID)
	assert.True(t, domain.IsNative(got.PaymentToken))
	assert.Equal(t, int64(1_000_000), got.Price.Int64())
	assert.Equal(t, uint16(1000), got.PlatformFeeBps)
	assert.Equal(t, domain.Head{Version: 1, Hash: params.ContractMetaHash, URI: params.ContractMetaURI}, got.ContractMetaHead)
	assert.False(t, got.MetadataHead.Published())

	_, err := client.Initialize(context.Background(), owner, params)
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)

	_, err = client.Initialize(context.Background(), stranger, params)
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)
	assert.Equal(t, owner, info(t, client).Owner)
}

func TestInitialize_AnnouncesSettings(t *testing.T) {
	l := newLedger(t)
	params := defaultParams()
	params.MaxSupply = 250

	_, receipt, err := DeployStandalone(context.Background(), l, owner, params)
	require.NoError(t, err)

	var names []string
	var price, maxSupply *big.Int
	for _, lg := range receipt.Logs {
		decoded, err := events.Decode(*lg)
		require.NoError(t, err)
		names = append(names, decoded.Name)
		switch decoded.Name {
		case events.PriceUpdated:
			price = decoded.BigInt("price")
		case events.MaxSupplyUpdated:
			maxSupply = decoded.BigInt("maxSupply")
		}
	}

	assert.Equal(t, []string{
		events.OwnershipTransferred,
		events.PriceUpdated,
		events.MaxSupplyUpdated,
		events.ContractMetadataPublished,
	}, names)
	require.NotNil(t, price)
	require.NotNil(t, maxSupply)
	assert.Equal(t, int64(1_000_000), price.Int64())
	assert.Equal(t, int64(250), maxSupply.Int64())
}

func TestInitialize_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *InitParams)
	}{
		{name: "fee above max", mutate: func(p *InitParams) { p.PlatformFeeBps = 10001 }},
		{name: "zero treasury", mutate: func(p *InitParams) { p.TreasuryRouter = common.Address{} }},
		{name: "zero developer", mutate: func(p *InitParams) { p.DeveloperRecipient = common.Address{} }},
		{name: "negative price", mutate: func(p *InitParams) { p.Price = big.NewInt(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLedger(t)
			params := defaultParams()
			tt.mutate(&params)

			_, receipt, err := DeployStandalone(context.Background(), l, owner, params)
			assert.ErrorIs(t, err, domain.ErrInvariantViolation)
			assert.False(t, receipt.Succeeded())
			assert.False(t, l.IsContract(crypto.CreateAddress(owner, 0)))
		})
	}
}

func TestInitialize_ExplicitOwner(t *testing.T) {
	l := newLedger(t)
	params := defaultParams()
	params.Owner = developer

	client := deploySale(t, l, params)
	assert.Equal(t, developer, info(t, client).Owner)

	_, err := client.SetPrice(context.Background(), owner, big.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestBuy_BeforeMetadataPublish(t *testing.T) {
	l := newLedger(t)
	client := deploySale(t, l, defaultParams())
	buyerBefore := l.BalanceOf(buyer)

	receipt, err := client.Buy(context.Background(), buyer, big.NewInt(1_000_000))
	require.ErrorIs(t, err, domain.ErrInvariantViolation)
	require.ErrorIs(t, err, ErrMetadataNotPublished)
	assert.False(t, receipt.Succeeded())

	assert.Equal(t, uint64(0), info(t, client).TotalMinted)
	assert.Equal(t, 0, buyerBefore.Cmp(l.BalanceOf(buyer)))
	assert.Equal(t, 0, l.BalanceOf(treasury).Sign())
	assert.Equal(t, 0, l.BalanceOf(developer).Sign())
	assert.Equal(t, 0, l.BalanceOf(client.Address()).Sign())
}

func TestPublishMetadata_RoundTrip(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	client := deploySale(t, l, defaultParams())

	_, err := client.MetadataHead()
	require.ErrorIs(t, err, ErrMetadataNotPublished)

	for version := uint64(1); version <= 3; version++ {
		hash := crypto.Keccak256Hash(big.NewInt(int64(version)).Bytes())
		uri := "ipfs://game/meta.json"

		receipt, err := client.PublishMetadata(ctx, owner, hash, uri)
		require.NoError(t, err)

		head, err := client.MetadataHead()
		require.NoError(t, err)
		assert.Equal(t, domain.Head{Version: version, Hash: hash, URI: uri}, head)

		require.Len(t, receipt.Logs, 1)
		decoded, err := events.Decode(*receipt.Logs[0])
		require.NoError(t, err)
		assert.Equal(t, events.MetadataPublished, decoded.Name)
		assert.Equal(t, version, decoded.BigInt("version").Uint64())
		assert.Equal(t, hash, decoded.Hash("hash"))
	}

	// the contract head keeps its own counter
	_, err = client.PublishContractMetadata(ctx, owner, metaHash, "ipfs://contract/v2.json")
	require.NoError(t, err)
	got := info(t, client)
	assert.Equal(t, uint64(2), got.ContractMetaHead.Version)
	assert.Equal(t, uint64(3), got.MetadataHead.Version)

	_, err = client.PublishMetadata(ctx, stranger, metaHash, "ipfs://evil.json")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = client.PublishContractMetadata(ctx, stranger, metaHash, "ipfs://evil.json")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestBuy_SplitsPayment(t *testing.T) {
	l := newLedger(t)
	client := publishedSale(t, l, defaultParams())

	receipt, err := client.Buy(context.Background(), buyer, big.NewInt(1_000_000))
	require.NoError(t, err)

	assert.Equal(t, int64(100_000), l.BalanceOf(treasury).Int64())
	assert.Equal(t, int64(900_000), l.BalanceOf(developer).Int64())
	assert.Equal(t, 0, l.BalanceOf(client.Address()).Sign())

	balance, err := client.BalanceOf(buyer, domain.LicenseTokenID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), balance.Int64())
	assert.Equal(t, uint64(1), info(t, client).TotalMinted)

	var names []string
	for _, lg := range receipt.Logs {
		decoded, err := events.Decode(*lg)
		require.NoError(t, err)
		names = append(names, decoded.Name)
		if decoded.Name == events.Purchased {
			assert.Equal(t, buyer, decoded.Address("buyer"))
			assert.Equal(t, int64(1_000_000), decoded.BigInt("amountPaid").Int64())
			assert.Equal(t, int64(domain.LICENSE_TOKEN_ID), decoded.BigInt("licenseId").Int64())
		}
	}
	assert.Equal(t, []string{events.TransferSingle, events.Purchased}, names)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		price int64
		bps   uint16
		fee   int64
	}{
		{price: 1_000_000, bps: 1000, fee: 100_000},
		{price: 999, bps: 1000, fee: 99},
		{price: 1, bps: 9999, fee: 0},
		{price: 7, bps: 10000, fee: 7},
		{price: 12345, bps: 0, fee: 0},
		{price: 0, bps: 500, fee: 0},
		{price: 10_001, bps: 3333, fee: 3333},
	}

	for _, tt := range tests {
		fee, remainder := Split(big.NewInt(tt.price), tt.bps)
		assert.Equal(t, tt.fee, fee.Int64(), "price %d bps %d", tt.price, tt.bps)
		assert.Equal(t, tt.price, new(big.Int).Add(fee, remainder).Int64())
	}
}

func TestBuy_SupplyCap(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	params := defaultParams()
	params.MaxSupply = 3
	client := publishedSale(t, l, params)

	for i := 0; i < 3; i++ {
		_, err := client.Buy(ctx, buyer, big.NewInt(1_000_000))
		require.NoError(t, err)
	}

	developerBefore := l.BalanceOf(developer)
	_, err := client.Buy(ctx, stranger, big.NewInt(1_000_000))
	require.ErrorIs(t, err, domain.ErrSupplyExhausted)

	assert.Equal(t, uint64(3), info(t, client).TotalMinted)
	assert.Equal(t, 0, developerBefore.Cmp(l.BalanceOf(developer)))

	// repeat purchases accumulate on the single license id
	balance, err := client.BalanceOf(buyer, domain.LicenseTokenID())
	require.NoError(t, err)
	assert.Equal(t, int64(3), balance.Int64())

	// lifting the cap reopens the sale
	_, err = client.SetMaxSupply(ctx, owner, 0)
	require.NoError(t, err)
	_, err = client.Buy(ctx, stranger, big.NewInt(1_000_000))
	require.NoError(t, err)
}

func TestBuy_Payment(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	client := publishedSale(t, l, defaultParams())

	_, err := client.Buy(ctx, buyer, big.NewInt(999_999))
	require.ErrorIs(t, err, domain.ErrInsufficientPayment)
	assert.Equal(t, uint64(0), info(t, client).TotalMinted)

	before := l.BalanceOf(buyer)
	_, err = client.Buy(ctx, buyer, big.NewInt(1_500_000))
	require.NoError(t, err)

	// overpayment is refunded
	spent := new(big.Int).Sub(before, l.BalanceOf(buyer))
	assert.Equal(t, int64(1_000_000), spent.Int64())
	assert.Equal(t, 0, l.BalanceOf(client.Address()).Sign())
}

func TestBuy_FreeLicense(t *testing.T) {
	l := newLedger(t)
	params := defaultParams()
	params.Price = big.NewInt(0)
	client := publishedSale(t, l, params)

	_, err := client.Buy(context.Background(), buyer, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info(t, client).TotalMinted)
}

// sink is a contract that accepts neither native value nor licenses
type sink struct{}

func TestBuy_PayoutFailureReverts(t *testing.T) {
	l := newLedger(t)
	sinkAddr, _, err := l.Deploy(context.Background(), stranger, &sink{}, nil)
	require.NoError(t, err)

	params := defaultParams()
	params.DeveloperRecipient = sinkAddr
	client := publishedSale(t, l, params)

	before := l.BalanceOf(buyer)
	_, err = client.Buy(context.Background(), buyer, big.NewInt(1_000_000))
	require.ErrorIs(t, err, domain.ErrTransferFailed)

	assert.Equal(t, uint64(0), info(t, client).TotalMinted)
	assert.Equal(t, 0, before.Cmp(l.BalanceOf(buyer)))
	assert.Equal(t, 0, l.BalanceOf(treasury).Sign())
	balance, err := client.BalanceOf(buyer, domain.LicenseTokenID())
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())
}

// reentrantBuyer receives the developer payout and immediately tries to buy
// again with it
type reentrantBuyer struct {
	sale      common.Address
	reentered bool
	err       error
}

func (r *reentrantBuyer) Receive(c *ledger.Call) error {
	if r.reentered {
		return nil
	}
	ledger.Set(c, &r.reentered, true)
	r.err = c.Call(r.sale, c.Value, func(sub *ledger.Call) error {
		s, err := ledger.This[*LicenseSale](sub)
		if err != nil {
			return err
		}
		return s.Buy(sub)
	})
	return nil
}

func (r *reentrantBuyer) OnLicenseReceived(*ledger.Call, common.Address, common.Address, *big.Int, *big.Int) error {
	return nil
}

func TestBuy_ReentrancyObservesUpdatedSupply(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	attacker := &reentrantBuyer{}
	attackerAddr, _, err := l.Deploy(ctx, stranger, attacker, nil)
	require.NoError(t, err)

	params := defaultParams()
	params.MaxSupply = 1
	params.PlatformFeeBps = 0
	params.DeveloperRecipient = attackerAddr
	client := publishedSale(t, l, params)
	attacker.sale = client.Address()

	_, err = client.Buy(ctx, buyer, big.NewInt(1_000_000))
	require.NoError(t, err)

	assert.True(t, attacker.reentered)
	require.ErrorIs(t, attacker.err, domain.ErrSupplyExhausted)
	assert.Equal(t, uint64(1), info(t, client).TotalMinted)

	balance, err := client.BalanceOf(attackerAddr, domain.LicenseTokenID())
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())
	assert.Equal(t, int64(1_000_000), l.BalanceOf(attackerAddr).Int64())
}

func TestBuy_ReentrancyWithOpenSupply(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	attacker := &reentrantBuyer{}
	attackerAddr, _, err := l.Deploy(ctx, stranger, attacker, nil)
	require.NoError(t, err)

	params := defaultParams()
	params.PlatformFeeBps = 0
	params.DeveloperRecipient = attackerAddr
	client := publishedSale(t, l, params)
	attacker.sale = client.Address()

	_, err = client.Buy(ctx, buyer, big.NewInt(1_000_000))
	require.NoError(t, err)
	require.NoError(t, attacker.err)

	// the nested purchase is a separate mint, never a double count
	assert.Equal(t, uint64(2), info(t, client).TotalMinted)
	balance, err := client.BalanceOf(attackerAddr, domain.LicenseTokenID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), balance.Int64())
}

func TestBuy_LicenseToContractWithoutHook(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	sinkAddr, _, err := l.Deploy(ctx, stranger, &sink{}, nil)
	require.NoError(t, err)

	params := defaultParams()
	params.Price = big.NewInt(0)
	free := publishedSale(t, l, params)
	_, err = l.Transact(ctx, buyer, sinkAddr, nil, func(c *ledger.Call) error {
		return c.Call(free.Address(), nil, func(sub *ledger.Call) error {
			s, err := ledger.This[*LicenseSale](sub)
			if err != nil {
				return err
			}
			return s.Buy(sub)
		})
	})
	require.ErrorIs(t, err, ErrNotReceiver)
	assert.Equal(t, uint64(0), info(t, free).TotalMinted)
}

func TestSetters(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	client := publishedSale(t, l, defaultParams())

	newTreasury := common.HexToAddress("0x00000000000000000000000000000000000000f1")

	_, err := client.SetPrice(ctx, owner, big.NewInt(5))
	require.NoError(t, err)
	_, err = client.SetTreasuryRouter(ctx, owner, newTreasury)
	require.NoError(t, err)
	_, err = client.SetDeveloperRecipient(ctx, owner, stranger)
	require.NoError(t, err)
	_, err = client.SetPlatformFeeBps(ctx, owner, 2500)
	require.NoError(t, err)
	receipt, err := client.SetMaxSupply(ctx, owner, 10)
	require.NoError(t, err)

	decoded, err := events.Decode(*receipt.Logs[0])
	require.NoError(t, err)
	assert.Equal(t, events.MaxSupplyUpdated, decoded.Name)

	got := info(t, client)
	assert.Equal(t, int64(5), got.Price.Int64())
	assert.Equal(t, newTreasury, got.TreasuryRouter)
	assert.Equal(t, stranger, got.DeveloperRecipient)
	assert.Equal(t, uint16(2500), got.PlatformFeeBps)
	assert.Equal(t, uint64(10), got.MaxSupply)

	_, err = client.SetPlatformFeeBps(ctx, owner, 10001)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	_, err = client.SetTreasuryRouter(ctx, owner, common.Address{})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	unauthorized := []func() (*ledger.Receipt, error){
		func() (*ledger.Receipt, error) { return client.SetPrice(ctx, buyer, big.NewInt(1)) },
		func() (*ledger.Receipt, error) { return client.SetMaxSupply(ctx, buyer, 1) },
		func() (*ledger.Receipt, error) { return client.SetTreasuryRouter(ctx, buyer, buyer) },
		func() (*ledger.Receipt, error) { return client.SetDeveloperRecipient(ctx, buyer, buyer) },
		func() (*ledger.Receipt, error) { return client.SetPlatformFeeBps(ctx, buyer, 0) },
		func() (*ledger.Receipt, error) { return client.TransferOwnership(ctx, buyer, buyer) },
	}
	for _, call := range unauthorized {
		_, err := call()
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
	assert.Equal(t, got, info(t, client))
}

func TestSetMaxSupply_BelowMinted(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	client := publishedSale(t, l, defaultParams())

	for i := 0; i < 2; i++ {
		_, err := client.Buy(ctx, buyer, big.NewInt(1_000_000))
		require.NoError(t, err)
	}

	// lowering is allowed while the cap stays at or above minted
	_, err := client.SetMaxSupply(ctx, owner, 10)
	require.NoError(t, err)
	_, err = client.SetMaxSupply(ctx, owner, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), info(t, client).MaxSupply)

	_, err = client.SetMaxSupply(ctx, owner, 1)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.Equal(t, uint64(5), info(t, client).MaxSupply)

	_, err = client.SetMaxSupply(ctx, owner, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), info(t, client).MaxSupply)

	_, err = client.Buy(ctx, buyer, big.NewInt(1_000_000))
	assert.ErrorIs(t, err, domain.ErrSupplyExhausted)
}

func TestTransferOwnership(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	client := deploySale(t, l, defaultParams())

	_, err := client.TransferOwnership(ctx, owner, common.Address{})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	_, err = client.TransferOwnership(ctx, owner, stranger)
	require.NoError(t, err)

	_, err = client.PublishMetadata(ctx, owner, metaHash, "ipfs://x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = client.PublishMetadata(ctx, stranger, metaHash, "ipfs://x")
	assert.NoError(t, err)
}

func TestLicenseTransfers(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	client := publishedSale(t, l, defaultParams())
	id := domain.LicenseTokenID()

	_, err := client.Buy(ctx, buyer, big.NewInt(1_000_000))
	require.NoError(t, err)

	_, err = client.SafeTransferFrom(ctx, stranger, buyer, stranger, id, big.NewInt(1))
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = client.SetApprovalForAll(ctx, buyer, stranger, true)
	require.NoError(t, err)
	approved, err := client.IsApprovedForAll(buyer, stranger)
	require.NoError(t, err)
	assert.True(t, approved)

	_, err = client.SafeTransferFrom(ctx, stranger, buyer, developer, id, big.NewInt(1))
	require.NoError(t, err)

	balance, err := client.BalanceOf(developer, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), balance.Int64())
	balance, err = client.BalanceOf(buyer, id)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())

	_, err = client.SafeTransferFrom(ctx, buyer, buyer, developer, id, big.NewInt(1))
	assert.ErrorIs(t, err, domain.ErrInsufficientPayment)

	_, err = client.SetApprovalForAll(ctx, buyer, buyer, true)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	uri, err := client.URI(id)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://base/0000000000000000000000000000000000000000000000000000000000000001.json", uri)
}

func TestBuy_TokenPayment(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	usd, _, err := token.Deploy(ctx, l, buyer, "Peridot USD", "pUSD", 6, big.NewInt(10_000_000))
	require.NoError(t, err)

	params := defaultParams()
	params.PaymentToken = usd.Address()
	client := publishedSale(t, l, params)

	_, err = client.Buy(ctx, buyer, nil)
	require.ErrorIs(t, err, domain.ErrInsufficientPayment)

	_, err = usd.Approve(ctx, buyer, client.Address(), big.NewInt(1_000_000))
	require.NoError(t, err)

	_, err = client.Buy(ctx, buyer, big.NewInt(1))
	require.ErrorIs(t, err, domain.ErrInvariantViolation)

	_, err = client.Buy(ctx, buyer, nil)
	require.NoError(t, err)

	treasuryBalance, err := usd.BalanceOf(treasury)
	require.NoError(t, err)
	developerBalance, err := usd.BalanceOf(developer)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), treasuryBalance.Int64())
	assert.Equal(t, int64(900_000), developerBalance.Int64())

	allowance, err := usd.Allowance(buyer, client.Address())
	require.NoError(t, err)
	assert.Equal(t, 0, allowance.Sign())
}
