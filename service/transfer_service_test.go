package service

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mezonai/vewallet/client"
	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/pkg/wallet"
	"github.com/mezonai/vewallet/transaction"
)

const (
	recipient = "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"
	genesisID = "0x000000000b2bce3c70bc649a02749e8687721b09ed2e15997f466536b20bb127"
	headID    = "0x00000a0b1c2d3e4f000000000000000000000000000000000000000000000001"
)

type fakeChain struct {
	mu           sync.Mutex
	receipts     []*client.Receipt
	receiptCalls int
	genesisCalls int
	submitted    []string
	submitErr    error
}

func (f *fakeChain) Genesis(context.Context) (*client.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genesisCalls++
	return &client.Block{ID: common.HexToHash(genesisID)}, nil
}

func (f *fakeChain) BestBlock(context.Context) (*client.Block, error) {
	return &client.Block{ID: common.HexToHash(headID), Number: 2571}, nil
}

func (f *fakeChain) Account(context.Context, common.Address) (*client.Account, error) {
	return &client.Account{}, nil
}

func (f *fakeChain) Receipt(context.Context, common.Hash) (*client.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.receiptCalls
	f.receiptCalls++
	if i < len(f.receipts) {
		return f.receipts[i], nil
	}
	return nil, nil
}

func (f *fakeChain) SendRawTransaction(_ context.Context, raw string) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, raw)
	if f.submitErr != nil {
		return common.Hash{}, f.submitErr
	}
	tx, err := transaction.DecodeHex(raw)
	if err != nil {
		return common.Hash{}, err
	}
	return tx.ID()
}

// walletSponsor co-signs like a real sponsor service.
type walletSponsor struct {
	w     *wallet.Wallet
	err   error
	mu    sync.Mutex
	calls int
}

func (s *walletSponsor) Sponsor(_ context.Context, origin common.Address, raw string) ([]byte, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	tx, err := transaction.DecodeHex(raw)
	if err != nil {
		return nil, err
	}
	hash, err := tx.DelegatorSigningHash(origin)
	if err != nil {
		return nil, err
	}
	return s.w.Sign(hash[:])
}

type countingTicker struct {
	ticks  int
	block  bool
	onTick func()
}

func (t *countingTicker) Next(ctx context.Context) error {
	t.ticks++
	if t.onTick != nil {
		t.onTick()
	}
	if t.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

type fixture struct {
	chain   *fakeChain
	sponsor *walletSponsor
	ticker  *countingTicker
	tracker *transaction.Tracker
	origin  *wallet.Wallet
	svc     *TransferServiceImpl
}

func newFixture(t *testing.T, cfg TransferConfig) *fixture {
	t.Helper()
	origin, err := wallet.NewWallet()
	require.NoError(t, err)
	sponsorKey, err := wallet.NewWallet()
	require.NoError(t, err)

	f := &fixture{
		chain:   &fakeChain{},
		sponsor: &walletSponsor{w: sponsorKey},
		ticker:  &countingTicker{},
		tracker: transaction.NewTracker(),
		origin:  origin,
	}
	f.svc = NewTransferService(f.chain, f.sponsor, f.ticker, f.tracker, cfg)
	return f
}

func includedReceipt() *client.Receipt {
	return &client.Receipt{GasUsed: 36518, Meta: client.ReceiptMeta{BlockNumber: 2572}}
}

func TestTransfer_SponsoredAndPolledUntilReceipt(t *testing.T) {
	f := newFixture(t, TransferConfig{})
	f.chain.receipts = []*client.Receipt{nil, nil, nil, includedReceipt()}

	receipt, err := f.svc.Transfer(context.Background(), f.origin, recipient, "1.5")
	require.NoError(t, err)
	assert.Equal(t, uint32(2572), receipt.Meta.BlockNumber)

	assert.Equal(t, 4, f.chain.receiptCalls)
	assert.Equal(t, 3, f.ticker.ticks)
	assert.Equal(t, int64(0), f.tracker.Count())

	require.Len(t, f.chain.submitted, 1)
	tx, err := transaction.DecodeHex(f.chain.submitted[0])
	require.NoError(t, err)

	assert.Len(t, tx.Clauses, 1)
	assert.True(t, tx.IsDelegated())
	assert.Equal(t, byte(0x27), tx.ChainTag)
	assert.Equal(t, transaction.BlockRefFromID(common.HexToHash(headID)), tx.BlockRef)
	assert.Equal(t, uint64(DefaultGas), tx.Gas)
	require.NotNil(t, tx.Clauses[0].To)
	assert.Equal(t, VTHOContract, *tx.Clauses[0].To)

	to, amount, err := transaction.DecodeTransferCall(tx.Clauses[0].Data)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(recipient), to)
	assert.Equal(t, "1500000000000000000", amount.String())

	require.Len(t, tx.Signature, 2*wallet.SignatureLength)
	signingHash, err := tx.SigningHash()
	require.NoError(t, err)
	originSig, err := f.origin.Sign(signingHash[:])
	require.NoError(t, err)
	assert.Equal(t, originSig, tx.Signature[:wallet.SignatureLength])

	delegatorHash, err := tx.DelegatorSigningHash(f.origin.Address())
	require.NoError(t, err)
	sponsorSig, err := f.sponsor.w.Sign(delegatorHash[:])
	require.NoError(t, err)
	assert.Equal(t, sponsorSig, tx.Signature[wallet.SignatureLength:])

	gotOrigin, err := tx.Origin()
	require.NoError(t, err)
	assert.Equal(t, f.origin.Address(), gotOrigin)
	delegator, err := tx.Delegator()
	require.NoError(t, err)
	assert.Equal(t, f.sponsor.w.Address(), *delegator)
}

func TestTransfer_ImmediateReceiptSkipsTicker(t *testing.T) {
	f := newFixture(t, TransferConfig{})
	f.chain.receipts = []*client.Receipt{includedReceipt()}

	_, err := f.svc.Transfer(context.Background(), f.origin, recipient, "1")
	require.NoError(t, err)
	assert.Equal(t, 0, f.ticker.ticks)
}

func TestTransfer_SponsorErrorStopsBeforeSubmit(t *testing.T) {
	f := newFixture(t, TransferConfig{})
	f.sponsor.err = &errors.SponsorError{Message: "origin not allowed"}

	_, err := f.svc.Transfer(context.Background(), f.origin, recipient, "1")
	var se *errors.SponsorError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "origin not allowed", se.Message)
	assert.Empty(t, f.chain.submitted)
	assert.Equal(t, 0, f.chain.receiptCalls)
}

func TestTransfer_ReceiptTimeout(t *testing.T) {
	f := newFixture(t, TransferConfig{ReceiptTimeout: 20 * time.Millisecond})
	f.ticker.block = true

	_, err := f.svc.Transfer(context.Background(), f.origin, recipient, "1")
	assert.True(t, errors.Is(err, errors.ErrReceiptTimeout))
	assert.Len(t, f.chain.submitted, 1)
	assert.Equal(t, int64(0), f.tracker.Count())
}

func TestTransfer_CallerCancellation(t *testing.T) {
	f := newFixture(t, TransferConfig{ReceiptTimeout: time.Minute})
	f.ticker.block = true

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.svc.Transfer(ctx, f.origin, recipient, "1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, errors.Is(err, errors.ErrReceiptTimeout))
}

func TestTransfer_SubmitFailure(t *testing.T) {
	f := newFixture(t, TransferConfig{})
	f.chain.submitErr = &client.HTTPError{StatusCode: 400, Body: "tx rejected: insufficient energy"}

	_, err := f.svc.Transfer(context.Background(), f.origin, recipient, "1")
	var httpErr *client.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 0, f.chain.receiptCalls)
}

func TestTransfer_InvalidInput(t *testing.T) {
	f := newFixture(t, TransferConfig{})

	_, err := f.svc.Transfer(context.Background(), f.origin, "0x1234", "1")
	assert.True(t, errors.Is(err, errors.ErrInvalidAddress))

	_, err = f.svc.Transfer(context.Background(), f.origin, recipient, "1.2.3")
	assert.True(t, errors.Is(err, errors.ErrInvalidAmount))

	_, err = f.svc.Transfer(context.Background(), nil, recipient, "1")
	assert.True(t, errors.Is(err, errors.ErrKeyUnavailable))

	assert.Equal(t, 0, f.sponsor.calls)
}

func TestTransfer_GenesisFetchedOnce(t *testing.T) {
	f := newFixture(t, TransferConfig{TokenDecimals: 6})
	f.chain.receipts = []*client.Receipt{includedReceipt(), includedReceipt()}

	for i := 0; i < 2; i++ {
		_, err := f.svc.Transfer(context.Background(), f.origin, recipient, "2.5")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.chain.genesisCalls)

	tx, err := transaction.DecodeHex(f.chain.submitted[1])
	require.NoError(t, err)
	_, amount, err := transaction.DecodeTransferCall(tx.Clauses[0].Data)
	require.NoError(t, err)
	assert.Equal(t, "2500000", amount.String())
}

// liveChain grows one block per best block query and includes each
// transaction after it has been polled twice.
type liveChain struct {
	*fakeChain
	height int64
	polls  map[common.Hash]int
}

func (c *liveChain) BestBlock(context.Context) (*client.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height++
	return &client.Block{ID: common.BigToHash(big.NewInt(c.height)), Number: uint32(c.height)}, nil
}

func (c *liveChain) Receipt(_ context.Context, id common.Hash) (*client.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polls[id]++
	if c.polls[id] < 3 {
		return nil, nil
	}
	return &client.Receipt{Meta: client.ReceiptMeta{TxID: id, BlockNumber: uint32(c.height)}}, nil
}

func TestTransfer_ConcurrentTransfersShareTicker(t *testing.T) {
	f := newFixture(t, TransferConfig{ReceiptTimeout: 5 * time.Second})
	chain := &liveChain{fakeChain: f.chain, polls: make(map[common.Hash]int)}
	fixed := time.UnixMilli(1700000000000)
	svc := NewTransferService(chain, f.sponsor, client.NewTicker(chain, time.Millisecond), f.tracker, TransferConfig{ReceiptTimeout: 5 * time.Second})
	svc.now = func() time.Time { return fixed }

	const transfers = 4
	receipts := make(chan *client.Receipt, transfers)
	errs := make(chan error, transfers)
	var wg sync.WaitGroup
	for i := 0; i < transfers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			receipt, err := svc.Transfer(context.Background(), f.origin, recipient, "1")
			errs <- err
			receipts <- receipt
		}()
	}
	wg.Wait()
	close(errs)
	close(receipts)

	for err := range errs {
		require.NoError(t, err)
	}
	ids := make(map[common.Hash]bool)
	for r := range receipts {
		ids[r.Meta.TxID] = true
	}
	assert.Len(t, ids, transfers)
	assert.Len(t, chain.submitted, transfers)
	assert.Equal(t, int64(0), f.tracker.Count())
}

func TestTransfer_PendingWhileWaitingForReceipt(t *testing.T) {
	f := newFixture(t, TransferConfig{})
	f.chain.receipts = []*client.Receipt{nil, includedReceipt()}

	var seen []transaction.PendingTransfer
	f.ticker.onTick = func() { seen = f.svc.Pending(f.origin.Address()) }

	_, err := f.svc.Transfer(context.Background(), f.origin, recipient, "3")
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.Equal(t, common.HexToAddress(recipient), seen[0].To)
	assert.Equal(t, "3", seen[0].Amount)
	assert.Empty(t, f.svc.Pending(f.origin.Address()))
}
