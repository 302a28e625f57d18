package config

const (
	NetworkMain = "main"
	NetworkTest = "test"

	DefaultServerAddr = "127.0.0.1:8669"
	DefaultRPCTarget  = "http://127.0.0.1:8545"
	DefaultTokenAddr  = "0x0000000000000000000000000000456E65726779"
	DefaultSymbol     = "VTHO"
	DefaultDecimals   = 18

	MaxGasPriceCoef = 255
)

var Networks = map[string]Network{
	NetworkMain: {
		Name:     NetworkMain,
		Genesis:  "0x00000000851caf3cfdb6e899cf5958bfb1ac3413d346d43539627e6be7ec1b4a",
		Node:     "https://mainnet.vechain.org",
		Explorer: "https://explore.vechain.org/",
	},
	NetworkTest: {
		Name:     NetworkTest,
		Genesis:  "0x000000000b2bce3c70bc649a02749e8687721b09ed2e15997f466536b20bb127",
		Node:     "https://testnet.vechain.org",
		Explorer: "https://explore-testnet.vechain.org/",
	},
}

var DefaultTransferConfig = TransferConfig{
	Gas:               100000,
	GasPriceCoef:      0,
	Expiration:        32,
	ReceiptTimeoutSec: 120,
	TickIntervalMs:    1000,
	RequestTimeoutMs:  15000,
}
