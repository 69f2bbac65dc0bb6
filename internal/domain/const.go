package domain

import "math/big"

const (
	// MAX_BPS is the basis-point denominator; fee shares are expressed in 0..MAX_BPS
	MAX_BPS = 10000

	// LICENSE_TOKEN_ID is the single token class minted by every license sale
	LICENSE_TOKEN_ID = 1

	// ETHEREUM_ZERO_ADDRESS is the textual form of the native-currency sentinel
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// DEFAULT_CHAIN is the chain id used for a local devnet
	DEFAULT_CHAIN = ChainLocalDevnet
)

// LicenseTokenID returns LICENSE_TOKEN_ID as a big integer
func LicenseTokenID() *big.Int {
	return big.NewInt(LICENSE_TOKEN_ID)
}
