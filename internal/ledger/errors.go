package ledger

import (
	"errors"
	"fmt"

	"github.com/peridotvault/peridot-core/internal/domain"
)

var (
	// ErrNoContract is returned when a call targets an address without deployed code
	ErrNoContract = fmt.Errorf("%w: no contract at address", domain.ErrConfiguration)
	// ErrWrongContract is returned when the code at an address is not of the expected kind
	ErrWrongContract = fmt.Errorf("%w: unexpected contract type", domain.ErrConfiguration)
	// ErrNotCloneable is returned when cloning an implementation that cannot produce clones
	ErrNotCloneable = fmt.Errorf("%w: contract cannot be cloned", domain.ErrConfiguration)
	// ErrInsufficientFunds is returned when a native transfer exceeds the payer balance
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient native balance", domain.ErrInsufficientPayment)
	// ErrNotReceivable is returned when native value is sent to a contract without a receive hook
	ErrNotReceivable = fmt.Errorf("%w: recipient contract cannot receive native value", domain.ErrTransferFailed)
	// ErrCallDepth is returned when nested calls exceed MaxCallDepth
	ErrCallDepth = errors.New("max call depth exceeded")
	// ErrBlockNotFound is returned for unknown block numbers
	ErrBlockNotFound = errors.New("block not found")
	// ErrReceiptNotFound is returned for unknown transaction hashes
	ErrReceiptNotFound = errors.New("receipt not found")
)
