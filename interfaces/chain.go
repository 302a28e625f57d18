package interfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mezonai/vewallet/client"
)

type ChainClient interface {
	Genesis(ctx context.Context) (*client.Block, error)
	BestBlock(ctx context.Context) (*client.Block, error)
	Account(ctx context.Context, addr common.Address) (*client.Account, error)
	Receipt(ctx context.Context, id common.Hash) (*client.Receipt, error)
	SendRawTransaction(ctx context.Context, raw string) (common.Hash, error)
}

// NetworkVerifier confirms a node serves the expected genesis.
type NetworkVerifier interface {
	VerifyNetwork(ctx context.Context, expected common.Hash) (*client.Block, error)
}

// Ticker resolves once per new block.
type Ticker interface {
	Next(ctx context.Context) error
}
