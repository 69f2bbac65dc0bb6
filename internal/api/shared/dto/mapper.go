package dto

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/peridotvault/peridot-core/internal/domain"
	"github.com/peridotvault/peridot-core/internal/events"
	"github.com/peridotvault/peridot-core/internal/factory"
	"github.com/peridotvault/peridot-core/internal/ledger"
	"github.com/peridotvault/peridot-core/internal/registry"
	"github.com/peridotvault/peridot-core/internal/sale"
	"github.com/peridotvault/peridot-core/internal/store/schema"
	"github.com/peridotvault/peridot-core/internal/token"
)

// MapReceiptToDTO maps a receipt and the ledger events it emitted
func MapReceiptToDTO(chain domain.Chain, r *ledger.Receipt, blockTime time.Time) TxResponse {
	tx := TxResponse{
		TxHash:      r.TxHash.Hex(),
		BlockNumber: r.BlockNumber,
		From:        r.From.Hex(),
		Value:       "0",
		Status:      r.Status,
		Error:       r.Error,
		Events:      []*domain.LedgerEvent{},
	}
	if r.To != nil {
		tx.To = r.To.Hex()
	}
	if r.Value != nil {
		tx.Value = r.Value.String()
	}
	if r.ContractAddress != (common.Address{}) {
		tx.ContractAddress = r.ContractAddress.Hex()
	}

	for _, lg := range r.Logs {
		event, err := events.ToLedgerEvent(chain, *lg, blockTime)
		if err != nil || event == nil {
			continue
		}
		tx.Events = append(tx.Events, event)
	}
	return tx
}

func mapHead(h domain.Head) HeadResponse {
	if !h.Published() {
		return HeadResponse{}
	}
	return HeadResponse{Version: h.Version, Hash: h.Hash.Hex(), URI: h.URI}
}

// MapSaleToDTO maps a sale snapshot
func MapSaleToDTO(info *sale.Info, licenseURI string) *SaleResponse {
	return &SaleResponse{
		Address:            info.Address.Hex(),
		Initialized:        info.Initialized,
		Owner:              info.Owner.Hex(),
		GameID:             info.GameID.Hex(),
		PaymentToken:       info.PaymentToken.Hex(),
		Price:              info.Price.String(),
		MaxSupply:          info.MaxSupply,
		TotalMinted:        info.TotalMinted,
		TreasuryRouter:     info.TreasuryRouter.Hex(),
		DeveloperRecipient: info.DeveloperRecipient.Hex(),
		PlatformFeeBps:     info.PlatformFeeBps,
		TokenURITemplate:   info.TokenURITemplate,
		LicenseURI:         licenseURI,
		ContractMetaHead:   mapHead(info.ContractMetaHead),
		MetadataHead:       mapHead(info.MetadataHead),
	}
}

// MapFactoryToDTO maps a factory snapshot
func MapFactoryToDTO(info *factory.Info) *FactoryResponse {
	return &FactoryResponse{
		Address:          info.Address.Hex(),
		Owner:            info.Owner.Hex(),
		Implementation:   info.Implementation.Hex(),
		Registry:         info.Registry.Hex(),
		FeeRecipient:     info.FeeRecipient.Hex(),
		FeeToken:         info.FeeToken.Hex(),
		PublishFee:       info.PublishFee.String(),
		PlatformFeeBps:   info.PlatformFeeBps,
		AllowlistEnabled: info.AllowlistEnabled,
	}
}

// MapRegistryGameToDTO maps a registry entry
func MapRegistryGameToDTO(g registry.Game) RegistryGameResponse {
	return RegistryGameResponse{
		GameID:       g.GameID.Hex(),
		SaleContract: g.SaleContract.Hex(),
		Publisher:    g.Publisher.Hex(),
		CreatedAt:    time.Unix(int64(g.CreatedAt), 0).UTC(),
		Active:       g.Active,
	}
}

// MapGameToDTO maps a projected game row
func MapGameToDTO(g *schema.Game) GameResponse {
	return GameResponse{
		GameID:          g.GameID,
		SaleContract:    g.SaleContract,
		Publisher:       g.Publisher,
		Active:          g.Active,
		Price:           g.Price,
		MaxSupply:       g.MaxSupply,
		LicensesSold:    g.LicensesSold,
		MetadataVersion: g.MetadataVersion,
		MetadataURI:     g.MetadataURI,
		PublishedTxHash: g.PublishedTxHash,
		PublishedAt:     g.PublishedAt.UTC(),
	}
}

// MapMetadataVersionToDTO maps a projected metadata version row
func MapMetadataVersionToDTO(v *schema.MetadataVersion) MetadataVersionResponse {
	return MetadataVersionResponse{
		Kind:        v.Kind,
		Version:     v.Version,
		Hash:        v.Hash,
		URI:         v.URI,
		TxHash:      v.TxHash,
		BlockNumber: v.BlockNumber,
		PublishedAt: v.PublishedAt.UTC(),
	}
}

// MapPurchaseToDTO maps a projected purchase row
func MapPurchaseToDTO(p *schema.Purchase) PurchaseResponse {
	return PurchaseResponse{
		SaleContract: p.SaleContract,
		GameID:       p.GameID,
		Buyer:        p.Buyer,
		AmountPaid:   p.AmountPaid,
		LicenseID:    p.LicenseID,
		TxHash:       p.TxHash,
		BlockNumber:  p.BlockNumber,
		PurchasedAt:  p.PurchasedAt.UTC(),
	}
}

// MapTokenToDTO maps a payment token description
func MapTokenToDTO(info *token.Info) *TokenResponse {
	return &TokenResponse{
		Address:     info.Address.Hex(),
		Name:        info.Name,
		Symbol:      info.Symbol,
		Decimals:    info.Decimals,
		TotalSupply: info.TotalSupply.String(),
	}
}
