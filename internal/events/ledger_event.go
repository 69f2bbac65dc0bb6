package events

import (
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/peridotvault/peridot-core/internal/domain"
)

// ToLedgerEvent converts a log into the event format delivered downstream.
// It returns nil without error for logs that downstream consumers ignore
// (token transfers, approvals, admin wiring).
func ToLedgerEvent(chain domain.Chain, lg types.Log, ts time.Time) (*domain.LedgerEvent, error) {
	decoded, err := Decode(lg)
	if err != nil {
		return nil, err
	}

	event := &domain.LedgerEvent{
		Chain:       chain,
		Contract:    lg.Address.Hex(),
		TxHash:      lg.TxHash.Hex(),
		BlockNumber: lg.BlockNumber,
		LogIndex:    lg.Index,
		Timestamp:   ts.UTC(),
	}

	switch decoded.Name {
	case GamePublished:
		event.EventType = domain.EventTypeGamePublished
		event.GameID = decoded.Hash("gameId").Hex()
		event.Publisher = decoded.Address("publisher").Hex()
		event.SaleContract = decoded.Address("saleContract").Hex()
	case GameActiveSet:
		active := decoded.Bool("active")
		event.EventType = domain.EventTypeGameActiveSet
		event.GameID = decoded.Hash("gameId").Hex()
		event.Active = &active
	case MetadataPublished, ContractMetadataPublished:
		event.EventType = domain.EventTypeMetadataPublished
		if decoded.Name == ContractMetadataPublished {
			event.EventType = domain.EventTypeContractMetadataPublished
		}
		event.Version = decoded.BigInt("version").Uint64()
		event.Hash = decoded.Hash("hash").Hex()
		event.URI = decoded.String("uri")
	case Purchased:
		event.EventType = domain.EventTypePurchased
		event.Account = decoded.Address("buyer").Hex()
		event.Amount = decoded.BigInt("amountPaid").String()
		event.LicenseID = decoded.BigInt("licenseId").String()
	case PriceUpdated:
		event.EventType = domain.EventTypePriceUpdated
		event.Amount = decoded.BigInt("price").String()
	case MaxSupplyUpdated:
		event.EventType = domain.EventTypeMaxSupplyUpdated
		event.Amount = decoded.BigInt("maxSupply").String()
	default:
		return nil, nil
	}

	return event, nil
}
