package registry_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/events"
	"github.com/peridotvault/peridot-core/internal/ledger"
	"github.com/peridotvault/peridot-core/internal/registry"
)

var (
	owner     = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	factory   = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	publisher = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	stranger  = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	saleA     = common.HexToAddress("0x0000000000000000000000000000000000005a1e")
	saleB     = common.HexToAddress("0x0000000000000000000000000000000000005b1e")

	gameOne = domain.GameIDFromSlug("peridot:studio:game-1")
	gameTwo = domain.GameIDFromSlug("peridot:studio:game-2")
)

var genesisTime = time.Unix(1_700_000_000, 0)

func setup(t *testing.T, withFactory bool) (*ledger.Ledger, *registry.Client) {
	t.Helper()
	l := ledger.New(domain.ChainLocalDevnet, ledger.Genesis{
		Time:  genesisTime,
		Alloc: map[common.Address]*big.Int{owner: big.NewInt(1)},
	}, adapter.NewFixedClock(genesisTime.Add(time.Minute)))

	client, _, err := registry.Deploy(context.Background(), l, owner)
	require.NoError(t, err)

	if withFactory {
		_, err = client.SetFactory(context.Background(), owner, factory)
		require.NoError(t, err)
	}
	return l, client
}

func TestSetFactory(t *testing.T) {
	_, client := setup(t, false)
	ctx := context.Background()

	_, err := client.SetFactory(ctx, stranger, factory)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = client.SetFactory(ctx, owner, common.Address{})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	receipt, err := client.SetFactory(ctx, owner, factory)
	require.NoError(t, err)
	require.Len(t, receipt.Logs, 1)

	// idempotent: the same value again succeeds without an event
	receipt, err = client.SetFactory(ctx, owner, factory)
	require.NoError(t, err)
	assert.Empty(t, receipt.Logs)

	got, err := client.Factory()
	require.NoError(t, err)
	assert.Equal(t, factory, got)

	// re-pointing is allowed
	_, err = client.SetFactory(ctx, owner, stranger)
	require.NoError(t, err)
	got, err = client.Factory()
	require.NoError(t, err)
	assert.Equal(t, stranger, got)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name        string
		withFactory bool
		from        common.Address
		sale        common.Address
		expectedErr error
	}{
		{name: "factory registers", withFactory: true, from: factory, sale: saleA},
		{name: "factory not set", withFactory: false, from: factory, sale: saleA, expectedErr: domain.ErrConfiguration},
		{name: "caller is not the factory", withFactory: true, from: stranger, sale: saleA, expectedErr: domain.ErrUnauthorized},
		{name: "owner is not the factory", withFactory: true, from: owner, sale: saleA, expectedErr: domain.ErrUnauthorized},
		{name: "zero sale contract", withFactory: true, from: factory, sale: common.Address{}, expectedErr: domain.ErrInvariantViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := setup(t, tt.withFactory)

			receipt, err := client.Register(context.Background(), tt.from, gameOne, tt.sale, publisher)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				registered, rerr := client.IsRegistered(gameOne)
				require.NoError(t, rerr)
				assert.False(t, registered)
				return
			}
			require.NoError(t, err)

			game, err := client.Game(gameOne)
			require.NoError(t, err)
			assert.Equal(t, saleA, game.SaleContract)
			assert.Equal(t, publisher, game.Publisher)
			assert.True(t, game.Active)
			assert.Equal(t, uint64(genesisTime.Add(time.Minute).Unix()), game.CreatedAt)

			require.Len(t, receipt.Logs, 1)
			decoded, err := events.Decode(*receipt.Logs[0])
			require.NoError(t, err)
			assert.Equal(t, events.GameRegistered, decoded.Name)
			assert.Equal(t, gameOne, decoded.Hash("gameId"))
			assert.Equal(t, saleA, decoded.Address("saleContract"))
			assert.Equal(t, publisher, decoded.Address("publisher"))
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	_, client := setup(t, true)
	ctx := context.Background()

	_, err := client.Register(ctx, factory, gameOne, saleA, publisher)
	require.NoError(t, err)

	_, err = client.Register(ctx, factory, gameOne, saleB, stranger)
	require.ErrorIs(t, err, domain.ErrInvariantViolation)
	require.ErrorIs(t, err, registry.ErrAlreadyRegistered)

	game, err := client.Game(gameOne)
	require.NoError(t, err)
	assert.Equal(t, saleA, game.SaleContract)
	assert.Equal(t, publisher, game.Publisher)

	games, total, err := client.List(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, games, 1)
}

func TestGames_Unknown(t *testing.T) {
	l, client := setup(t, true)

	_, err := client.Game(gameTwo)
	assert.ErrorIs(t, err, domain.ErrGameNotFound)

	err = ledger.View(l, client.Address(), func(r *registry.GameRegistry) error {
		assert.Equal(t, registry.Entry{}, r.Games(gameTwo))
		assert.False(t, r.Games(gameTwo).Registered())
		return nil
	})
	require.NoError(t, err)
}

func TestSetActive(t *testing.T) {
	_, client := setup(t, true)
	ctx := context.Background()

	_, err := client.Register(ctx, factory, gameOne, saleA, publisher)
	require.NoError(t, err)

	_, err = client.SetActive(ctx, stranger, gameOne, false)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = client.SetActive(ctx, publisher, gameTwo, false)
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	receipt, err := client.SetActive(ctx, publisher, gameOne, false)
	require.NoError(t, err)
	decoded, err := events.Decode(*receipt.Logs[0])
	require.NoError(t, err)
	assert.Equal(t, events.GameActiveSet, decoded.Name)
	assert.False(t, decoded.Bool("active"))

	game, err := client.Game(gameOne)
	require.NoError(t, err)
	assert.False(t, game.Active)

	_, err = client.SetActive(ctx, owner, gameOne, true)
	require.NoError(t, err)
	game, err = client.Game(gameOne)
	require.NoError(t, err)
	assert.True(t, game.Active)
}

func TestList(t *testing.T) {
	_, client := setup(t, true)
	ctx := context.Background()

	ids := []domain.GameID{gameOne, gameTwo, domain.GameIDFromSlug("peridot:studio:game-3")}
	for _, id := range ids {
		_, err := client.Register(ctx, factory, id, saleA, publisher)
		require.NoError(t, err)
	}

	games, total, err := client.List(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, games, 1)
	assert.Equal(t, gameTwo, games[0].GameID)

	games, _, err = client.List(5, 10)
	require.NoError(t, err)
	assert.Empty(t, games)

	games, _, err = client.List(0, 0)
	require.NoError(t, err)
	require.Len(t, games, 3)
	for i, g := range games {
		assert.Equal(t, ids[i], g.GameID)
	}
}

func TestTransferOwnership(t *testing.T) {
	_, client := setup(t, false)
	ctx := context.Background()

	_, err := client.TransferOwnership(ctx, stranger, stranger)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = client.TransferOwnership(ctx, owner, common.Address{})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	_, err = client.TransferOwnership(ctx, owner, stranger)
	require.NoError(t, err)

	got, err := client.Owner()
	require.NoError(t, err)
	assert.Equal(t, stranger, got)

	_, err = client.SetFactory(ctx, owner, factory)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = client.SetFactory(ctx, stranger, factory)
	assert.NoError(t, err)
}
