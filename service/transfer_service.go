package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/mezonai/vewallet/client"
	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/interfaces"
	"github.com/mezonai/vewallet/logx"
	"github.com/mezonai/vewallet/monitoring"
	"github.com/mezonai/vewallet/pkg/wallet"
	"github.com/mezonai/vewallet/transaction"
	"github.com/mezonai/vewallet/utils"
)

// VTHOContract is the built-in energy token contract.
var VTHOContract = common.HexToAddress("0x0000000000000000000000000000456E65726779")

const (
	DefaultGas            = 100000
	DefaultExpiration     = 32
	DefaultReceiptTimeout = 2 * time.Minute
)

type TransferConfig struct {
	TokenContract  common.Address
	TokenDecimals  uint8
	Gas            uint64
	GasPriceCoef   uint8
	Expiration     uint32
	ReceiptTimeout time.Duration
}

func (c TransferConfig) withDefaults() TransferConfig {
	if c.TokenContract == (common.Address{}) {
		c.TokenContract = VTHOContract
	}
	if c.TokenDecimals == 0 {
		c.TokenDecimals = utils.EtherDecimals
	}
	if c.Gas == 0 {
		c.Gas = DefaultGas
	}
	if c.Expiration == 0 {
		c.Expiration = DefaultExpiration
	}
	if c.ReceiptTimeout <= 0 {
		c.ReceiptTimeout = DefaultReceiptTimeout
	}
	return c
}

// TransferServiceImpl sends sponsored single-clause token transfers.
type TransferServiceImpl struct {
	chain   interfaces.ChainClient
	sponsor interfaces.Sponsor
	ticker  interfaces.Ticker
	tracker interfaces.TransferTrackerInterface
	cfg     TransferConfig
	now     func() time.Time

	genesisMu sync.Mutex
	chainTag  *byte

	lastNonce atomic.Uint64
}

func NewTransferService(chain interfaces.ChainClient, sponsor interfaces.Sponsor, ticker interfaces.Ticker, tracker interfaces.TransferTrackerInterface, cfg TransferConfig) *TransferServiceImpl {
	return &TransferServiceImpl{
		chain:   chain,
		sponsor: sponsor,
		ticker:  ticker,
		tracker: tracker,
		cfg:     cfg.withDefaults(),
		now:     time.Now,
	}
}

// Transfer sends amount tokens from the signer to `to` with gas paid by the
// sponsor, then waits for the receipt.
func (s *TransferServiceImpl) Transfer(ctx context.Context, signer interfaces.Signer, to, amount string) (*client.Receipt, error) {
	if signer == nil {
		return nil, errors.ErrKeyUnavailable
	}
	toAddr, err := transaction.ParseAddress(to)
	if err != nil {
		return nil, err
	}
	value, err := utils.ParseUnits(amount, s.cfg.TokenDecimals)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidAmount, err.Error())
	}

	tx, err := s.buildTransfer(ctx, toAddr, value)
	if err != nil {
		return nil, err
	}
	origin := signer.Address()

	unsignedRaw, err := tx.EncodeHex()
	if err != nil {
		return nil, errors.Wrap(err, "encode unsigned transaction")
	}
	sponsorSig, err := s.sponsor.Sponsor(ctx, origin, unsignedRaw)
	if err != nil {
		monitoring.RecordTransfer(monitoring.TransferSponsorRefused)
		return nil, err
	}
	if len(sponsorSig) != wallet.SignatureLength {
		monitoring.RecordTransfer(monitoring.TransferSponsorRefused)
		return nil, errors.Wrapf(errors.ErrInvalidSignature, "sponsor signature must be %d bytes, got %d", wallet.SignatureLength, len(sponsorSig))
	}

	signingHash, err := tx.SigningHash()
	if err != nil {
		return nil, errors.Wrap(err, "signing hash")
	}
	originSig, err := signer.Sign(signingHash[:])
	if err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}

	sig := make([]byte, 0, 2*wallet.SignatureLength)
	sig = append(sig, originSig...)
	sig = append(sig, sponsorSig...)
	tx.Signature = sig

	delegator, err := tx.Delegator()
	if err != nil {
		monitoring.RecordTransfer(monitoring.TransferSponsorRefused)
		return nil, err
	}
	localID, err := tx.ID()
	if err != nil {
		return nil, err
	}
	logx.Info("TRANSFER", fmt.Sprintf("Transfer %s -> %s of %s signed, gas payer %s", origin.Hex(), toAddr.Hex(), amount, delegator.Hex()))

	raw, err := tx.EncodeHex()
	if err != nil {
		return nil, errors.Wrap(err, "encode signed transaction")
	}
	id, err := s.chain.SendRawTransaction(ctx, raw)
	if err != nil {
		monitoring.RecordTransfer(monitoring.TransferSubmitFailed)
		return nil, errors.Wrap(err, errors.ErrMsgSubmitFailed)
	}
	if id != localID {
		logx.Warn("TRANSFER", fmt.Sprintf("Node returned id %s, computed %s", utils.ShortenLog(id.Hex()), utils.ShortenLog(localID.Hex())))
	}

	submittedAt := s.now()
	s.tracker.Track(transaction.PendingTransfer{
		ID:          id,
		Origin:      origin,
		To:          toAddr,
		Amount:      amount,
		SubmittedAt: submittedAt,
	})
	receipt, err := s.waitForReceipt(ctx, id)
	s.tracker.Complete(id)
	if err != nil {
		if errors.Is(err, errors.ErrReceiptTimeout) {
			monitoring.RecordTransfer(monitoring.TransferTimedOut)
		} else {
			monitoring.RecordTransfer(monitoring.TransferFailedUnknown)
		}
		return nil, err
	}
	monitoring.RecordReceiptWait(s.now().Sub(submittedAt))

	if receipt.Reverted {
		monitoring.RecordTransfer(monitoring.TransferReverted)
		logx.Warn("TRANSFER", fmt.Sprintf("Transfer %s reverted in block %d", id.Hex(), receipt.Meta.BlockNumber))
	} else {
		monitoring.RecordTransfer(monitoring.TransferSucceeded)
		logx.Info("TRANSFER", fmt.Sprintf("Transfer %s included in block %d", id.Hex(), receipt.Meta.BlockNumber))
	}
	return receipt, nil
}

func (s *TransferServiceImpl) Pending(origin common.Address) []transaction.PendingTransfer {
	return s.tracker.Pending(origin)
}

// buildTransfer assembles the unsigned delegated transaction anchored at the
// current best block.
func (s *TransferServiceImpl) buildTransfer(ctx context.Context, to common.Address, value *uint256.Int) (*transaction.Transaction, error) {
	clause, err := transaction.NewTransferClause(s.cfg.TokenContract, to, value)
	if err != nil {
		return nil, err
	}
	tag, err := s.getChainTag(ctx)
	if err != nil {
		return nil, err
	}
	best, err := s.chain.BestBlock(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch best block")
	}

	return transaction.NewBuilder().
		ChainTag(tag).
		BlockRef(transaction.BlockRefFromID(best.ID)).
		Expiration(s.cfg.Expiration).
		Clause(clause).
		GasPriceCoef(s.cfg.GasPriceCoef).
		Gas(s.cfg.Gas).
		Nonce(s.nextNonce()).
		Delegated(true).
		Build()
}

// getChainTag fetches the genesis once and caches its chain tag.
func (s *TransferServiceImpl) getChainTag(ctx context.Context) (byte, error) {
	s.genesisMu.Lock()
	defer s.genesisMu.Unlock()
	if s.chainTag != nil {
		return *s.chainTag, nil
	}
	genesis, err := s.chain.Genesis(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "fetch genesis")
	}
	tag := transaction.ChainTagFromGenesis(genesis.ID)
	s.chainTag = &tag
	return tag, nil
}

// nextNonce is the current time in milliseconds, bumped past the previous
// nonce so transfers built in the same millisecond never share a tx id.
func (s *TransferServiceImpl) nextNonce() uint64 {
	for {
		last := s.lastNonce.Load()
		next := uint64(s.now().UnixMilli())
		if next <= last {
			next = last + 1
		}
		if s.lastNonce.CompareAndSwap(last, next) {
			return next
		}
	}
}

// waitForReceipt polls for the receipt once per block until it is available,
// the receipt timeout elapses or ctx is done.
func (s *TransferServiceImpl) waitForReceipt(ctx context.Context, id common.Hash) (*client.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.ReceiptTimeout)
	defer cancel()

	for {
		receipt, err := s.chain.Receipt(waitCtx, id)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err == nil {
			err = s.ticker.Next(waitCtx)
		}
		if err != nil {
			if ctx.Err() == nil && waitCtx.Err() != nil {
				return nil, errors.Wrapf(errors.ErrReceiptTimeout, "transaction %s after %s", id.Hex(), s.cfg.ReceiptTimeout)
			}
			return nil, err
		}
	}
}
