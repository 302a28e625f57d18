package transaction

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/mezonai/vewallet/errors"
)

// ErrClauseCount is returned when a built transaction does not carry exactly one clause.
var ErrClauseCount = errors.New("transaction must carry exactly one clause")

// Builder assembles an unsigned single-clause transaction.
type Builder struct {
	tx Transaction
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) ChainTag(tag byte) *Builder {
	b.tx.ChainTag = tag
	return b
}

func (b *Builder) BlockRef(ref uint64) *Builder {
	b.tx.BlockRef = ref
	return b
}

func (b *Builder) Expiration(exp uint32) *Builder {
	b.tx.Expiration = exp
	return b
}

func (b *Builder) Clause(c *Clause) *Builder {
	b.tx.Clauses = append(b.tx.Clauses, c)
	return b
}

func (b *Builder) GasPriceCoef(coef uint8) *Builder {
	b.tx.GasPriceCoef = coef
	return b
}

func (b *Builder) Gas(gas uint64) *Builder {
	b.tx.Gas = gas
	return b
}

func (b *Builder) DependsOn(id *common.Hash) *Builder {
	b.tx.DependsOn = id
	return b
}

func (b *Builder) Nonce(nonce uint64) *Builder {
	b.tx.Nonce = nonce
	return b
}

func (b *Builder) Delegated(flag bool) *Builder {
	b.tx.Features.SetDelegated(flag)
	return b
}

// Build returns a copy of the assembled transaction.
func (b *Builder) Build() (*Transaction, error) {
	if len(b.tx.Clauses) != 1 {
		return nil, errors.Wrapf(ErrClauseCount, "got %d", len(b.tx.Clauses))
	}
	if b.tx.Gas == 0 {
		return nil, errors.New("transaction gas must be > 0")
	}
	tx := b.tx
	tx.Clauses = append([]*Clause(nil), b.tx.Clauses...)
	return &tx, nil
}
