package ledger

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	// ReceiptStatusFailed is the status of a reverted transaction
	ReceiptStatusFailed = uint64(0)
	// ReceiptStatusSuccessful is the status of a committed transaction
	ReceiptStatusSuccessful = uint64(1)
)

// Block is one mined block. Every transaction is mined into its own block; the
// genesis block (number 0) carries no transaction.
type Block struct {
	Number     uint64
	Hash       common.Hash
	ParentHash common.Hash
	Time       time.Time
	TxHash     common.Hash // zero for genesis
	Logs       []*types.Log
}

// Receipt is the outcome of one transaction
type Receipt struct {
	TxHash          common.Hash
	BlockNumber     uint64
	BlockHash       common.Hash
	From            common.Address
	To              *common.Address // nil for contract creation
	Value           *big.Int
	ContractAddress common.Address // set for contract creation
	Status          uint64
	Logs            []*types.Log
	Error           string // revert reason for failed transactions
}

// Succeeded reports whether the transaction committed
func (r *Receipt) Succeeded() bool {
	return r.Status == ReceiptStatusSuccessful
}

// LogQuery filters the event log. Zero ToBlock means latest.
type LogQuery struct {
	FromBlock uint64
	ToBlock   uint64
	Addresses []common.Address
	// Topic0 restricts results to one event signature when set
	Topic0 *common.Hash
}

func (q LogQuery) matches(lg *types.Log) bool {
	if q.Topic0 != nil && (len(lg.Topics) == 0 || lg.Topics[0] != *q.Topic0) {
		return false
	}
	if len(q.Addresses) == 0 {
		return true
	}
	for _, addr := range q.Addresses {
		if lg.Address == addr {
			return true
		}
	}
	return false
}
