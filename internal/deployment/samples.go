package deployment

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/factory"
	"github.com/peridotvault/peridot-core/internal/logger"
	"github.com/peridotvault/peridot-core/internal/metadata"
)

const (
	SampleTokenURITemplate = "https://metadata.peridotvault.dev/pgc1/{id}.json"
	sampleContractURI      = "https://metadata.peridotvault.dev/contracts/game-%d.json"
	sampleSlug             = "peridot:studio:game-%d"
	samplePlatformFeeBps   = uint16(1000)
)

// SamplePrice is the license price of sample games: 0.01 of the native unit
var SamplePrice = new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil)

// SampleGame is a game published by PublishSampleGames
type SampleGame struct {
	Slug   string
	GameID domain.GameID
	Sale   common.Address
}

// SampleGameID returns the id of the i-th sample game
func SampleGameID(i int) domain.GameID {
	return domain.GameIDFromSlug(fmt.Sprintf(sampleSlug, i))
}

// PublishSampleGames publishes count demo games from publisher, paying the
// configured publish fee. Games that are already registered are skipped, so
// reruns only fill the gaps.
func PublishSampleGames(ctx context.Context, sys *System, publisher common.Address, count int) ([]SampleGame, error) {
	info, err := sys.Factory.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read factory: %w", err)
	}

	var value *big.Int
	if domain.IsNative(info.FeeToken) {
		value = info.PublishFee
	}

	bps := samplePlatformFeeBps
	games := make([]SampleGame, 0, count)
	for i := 1; i <= count; i++ {
		g := SampleGame{Slug: fmt.Sprintf(sampleSlug, i), GameID: SampleGameID(i)}

		existing, err := sys.Registry.Game(g.GameID)
		if err != nil && !errors.Is(err, domain.ErrGameNotFound) {
			return nil, fmt.Errorf("failed to read registry entry of %s: %w", g.Slug, err)
		}
		if err == nil {
			g.Sale = existing.SaleContract
			games = append(games, g)
			logger.InfoCtx(ctx, "Sample game already registered", zap.String("slug", g.Slug))
			continue
		}

		contractURI := fmt.Sprintf(sampleContractURI, i)
		clone, _, err := sys.Factory.PublishGame(ctx, publisher, value, factory.PublishParams{
			TokenURITemplate:   SampleTokenURITemplate,
			ContractMetaHash:   metadata.URIHash(contractURI),
			ContractMetaURI:    contractURI,
			GameID:             g.GameID,
			Price:              new(big.Int).Set(SamplePrice),
			TreasuryRouter:     publisher,
			DeveloperRecipient: publisher,
			PlatformFeeBps:     &bps,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to publish %s: %w", g.Slug, err)
		}

		entry, err := sys.Registry.Game(g.GameID)
		if err != nil {
			return nil, fmt.Errorf("failed to read registry entry of %s: %w", g.Slug, err)
		}
		if entry.SaleContract != clone {
			return nil, fmt.Errorf("%w: registry lists %s for %s, published %s",
				domain.ErrInvariantViolation, entry.SaleContract.Hex(), g.Slug, clone.Hex())
		}

		g.Sale = clone
		games = append(games, g)
		logger.InfoCtx(ctx, "Published sample game",
			zap.String("slug", g.Slug),
			zap.String("gameId", g.GameID.Hex()),
			zap.String("sale", clone.Hex()))
	}
	return games, nil
}
