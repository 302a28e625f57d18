package interfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mezonai/vewallet/client"
	"github.com/mezonai/vewallet/transaction"
)

type TransferService interface {
	Transfer(ctx context.Context, signer Signer, to, amount string) (*client.Receipt, error)
	// Pending lists the transfers of origin still waiting for a receipt.
	Pending(origin common.Address) []transaction.PendingTransfer
}
