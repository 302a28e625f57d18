package interfaces

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mezonai/vewallet/transaction"
)

// Tracking transfers between node acceptance and receipt
type TransferTrackerInterface interface {
	Track(p transaction.PendingTransfer)
	Complete(id common.Hash) (time.Duration, bool)
	Pending(origin common.Address) []transaction.PendingTransfer
}
