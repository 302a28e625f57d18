package client

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const DefaultTickInterval = time.Second

type bestBlockSource interface {
	BestBlock(ctx context.Context) (*Block, error)
}

// Ticker resolves each time the node's best block changes. It is shared by
// concurrent transfers: every caller waiting when a new block appears wakes up.
type Ticker struct {
	src      bestBlockSource
	interval time.Duration

	mu     sync.Mutex
	lastID common.Hash
}

func NewTicker(src bestBlockSource, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Ticker{src: src, interval: interval}
}

// Next blocks until a block newer than the last one seen appears, ctx is
// done, or the node fails.
func (t *Ticker) Next(ctx context.Context) error {
	seen, err := t.last(ctx)
	if err != nil {
		return err
	}

	timer := time.NewTimer(t.interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		best, err := t.src.BestBlock(ctx)
		if err != nil {
			return err
		}
		if best.ID != seen {
			t.mu.Lock()
			t.lastID = best.ID
			t.mu.Unlock()
			return nil
		}
		timer.Reset(t.interval)
	}
}

func (t *Ticker) last(ctx context.Context) (common.Hash, error) {
	t.mu.Lock()
	seen := t.lastID
	t.mu.Unlock()
	if seen != (common.Hash{}) {
		return seen, nil
	}

	best, err := t.src.BestBlock(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	t.mu.Lock()
	if t.lastID == (common.Hash{}) {
		t.lastID = best.ID
	}
	seen = t.lastID
	t.mu.Unlock()
	return seen, nil
}
