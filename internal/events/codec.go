package events

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/peridotvault/peridot-core/internal/ledger"
)

// Topic returns the signature hash (topic 0) of an event
func Topic(name string) common.Hash {
	return ABI.Events[name].ID
}

// Pack encodes an event into log topics and data. Arguments are given in
// declaration order; indexed ones become topics.
func Pack(name string, args ...interface{}) ([]common.Hash, []byte, error) {
	ev, ok := ABI.Events[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown event %s", name)
	}
	if len(args) != len(ev.Inputs) {
		return nil, nil, fmt.Errorf("event %s takes %d arguments, got %d", name, len(ev.Inputs), len(args))
	}

	var indexed [][]interface{}
	var data []interface{}
	for i, input := range ev.Inputs {
		arg := args[i]
		if input.Indexed {
			indexed = append(indexed, []interface{}{arg})
			continue
		}
		// the packer wants plain arrays for fixed bytes
		if h, ok := arg.(common.Hash); ok {
			arg = [32]byte(h)
		}
		data = append(data, arg)
	}

	topics := []common.Hash{ev.ID}
	if len(indexed) > 0 {
		packed, err := abi.MakeTopics(indexed...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to pack %s topics: %w", name, err)
		}
		for _, t := range packed {
			topics = append(topics, t[0])
		}
	}

	encoded, err := ev.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to pack %s data: %w", name, err)
	}

	return topics, encoded, nil
}

// Emit packs an event and appends it to the log of the executing call.
// A packing failure is a programming error and aborts the call.
func Emit(c *ledger.Call, name string, args ...interface{}) error {
	topics, data, err := Pack(name, args...)
	if err != nil {
		return err
	}
	c.Emit(topics, data)
	return nil
}

// Decoded is a log decoded against the event ABI
type Decoded struct {
	Name string
	Args map[string]interface{}
}

// Decode decodes a log emitted by one of the core contracts
func Decode(lg types.Log) (*Decoded, error) {
	if len(lg.Topics) == 0 {
		return nil, fmt.Errorf("anonymous log in tx %s", lg.TxHash.Hex())
	}

	ev, err := ABI.EventByID(lg.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("unknown event topic %s: %w", lg.Topics[0].Hex(), err)
	}

	args := make(map[string]interface{})
	if len(lg.Data) > 0 {
		if err := ev.Inputs.NonIndexed().UnpackIntoMap(args, lg.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack %s data: %w", ev.Name, err)
		}
	}

	var indexed abi.Arguments
	for _, input := range ev.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if err := abi.ParseTopicsIntoMap(args, indexed, lg.Topics[1:]); err != nil {
		return nil, fmt.Errorf("failed to parse %s topics: %w", ev.Name, err)
	}

	return &Decoded{Name: ev.Name, Args: args}, nil
}

// Address returns an address argument
func (d *Decoded) Address(key string) common.Address {
	v, _ := d.Args[key].(common.Address)
	return v
}

// Hash returns a bytes32 argument
func (d *Decoded) Hash(key string) common.Hash {
	switch v := d.Args[key].(type) {
	case [32]byte:
		return common.Hash(v)
	case common.Hash:
		return v
	}
	return common.Hash{}
}

// BigInt returns a uint256 argument, never nil
func (d *Decoded) BigInt(key string) *big.Int {
	if v, ok := d.Args[key].(*big.Int); ok && v != nil {
		return v
	}
	return new(big.Int)
}

// String returns a string argument
func (d *Decoded) String(key string) string {
	v, _ := d.Args[key].(string)
	return v
}

// Bool returns a bool argument
func (d *Decoded) Bool(key string) bool {
	v, _ := d.Args[key].(bool)
	return v
}

// Uint64 returns a uint64 or uint16 argument
func (d *Decoded) Uint64(key string) uint64 {
	switch v := d.Args[key].(type) {
	case uint64:
		return v
	case uint16:
		return uint64(v)
	}
	return 0
}
