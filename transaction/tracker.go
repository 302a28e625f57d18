package transaction

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mezonai/vewallet/logx"
	"github.com/mezonai/vewallet/monitoring"
	"github.com/mezonai/vewallet/utils"
)

// PendingTransfer is a submitted transaction still waiting for its receipt.
type PendingTransfer struct {
	ID          common.Hash    `json:"id"`
	Origin      common.Address `json:"origin"`
	To          common.Address `json:"to"`
	Amount      string         `json:"amount"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// Tracker tracks transfers between node acceptance and receipt.
type Tracker struct {
	// pending maps transaction id to *PendingTransfer
	pending sync.Map

	// originTxs maps origin address to list of transaction ids
	originTxs sync.Map
	originMu  sync.Mutex

	pendingCount int64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Track starts tracking a transfer accepted by the node.
func (t *Tracker) Track(p PendingTransfer) {
	if _, loaded := t.pending.LoadOrStore(p.ID, &p); loaded {
		return
	}
	atomic.AddInt64(&t.pendingCount, 1)

	t.originMu.Lock()
	var ids []common.Hash
	if existing, ok := t.originTxs.Load(p.Origin); ok {
		ids = existing.([]common.Hash)
	}
	t.originTxs.Store(p.Origin, append(ids, p.ID))
	t.originMu.Unlock()

	monitoring.SetPendingTransfers(atomic.LoadInt64(&t.pendingCount))
	logx.Info("TRACKER", fmt.Sprintf("Tracking transfer: %s (origin: %s)", utils.ShortenLog(p.ID.Hex()), utils.ShortenLog(p.Origin.Hex())))
}

// Complete stops tracking a transfer, returning how long it was pending.
func (t *Tracker) Complete(id common.Hash) (time.Duration, bool) {
	v, exists := t.pending.LoadAndDelete(id)
	if !exists {
		logx.Warn("TRACKER", fmt.Sprintf("Transfer %s is not tracked", utils.ShortenLog(id.Hex())))
		return 0, false
	}
	atomic.AddInt64(&t.pendingCount, -1)
	p := v.(*PendingTransfer)

	t.originMu.Lock()
	if existing, ok := t.originTxs.Load(p.Origin); ok {
		updated, removed := remove(existing.([]common.Hash), id)
		if removed {
			if len(updated) == 0 {
				t.originTxs.Delete(p.Origin)
			} else {
				t.originTxs.Store(p.Origin, updated)
			}
		}
	}
	t.originMu.Unlock()

	monitoring.SetPendingTransfers(atomic.LoadInt64(&t.pendingCount))
	elapsed := time.Since(p.SubmittedAt)
	logx.Info("TRACKER", fmt.Sprintf("Transfer settled: %s after %.1fs", utils.ShortenLog(id.Hex()), utils.SecondsBetween(p.SubmittedAt, time.Now())))
	return elapsed, true
}

// Pending lists transfers still waiting for a receipt for origin, oldest first.
func (t *Tracker) Pending(origin common.Address) []PendingTransfer {
	v, ok := t.originTxs.Load(origin)
	if !ok {
		return nil
	}
	ids := v.([]common.Hash)
	out := make([]PendingTransfer, 0, len(ids))
	for _, id := range ids {
		if p, ok := t.pending.Load(id); ok {
			out = append(out, *p.(*PendingTransfer))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out
}

// Count returns the number of transfers being tracked.
func (t *Tracker) Count() int64 {
	return atomic.LoadInt64(&t.pendingCount)
}

func remove(slice []common.Hash, item common.Hash) ([]common.Hash, bool) {
	for i, v := range slice {
		if v == item {
			return append(slice[:i:i], slice[i+1:]...), true
		}
	}
	return slice, false
}
