package transaction

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/blake2b"

	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/pkg/wallet"
)

const (
	unsignedFieldCount = 9
	signedFieldCount   = 10
)

// Features is the bit set carried in the reserved field of a transaction.
type Features uint32

// DelegationFeature marks a transaction whose gas is paid by a sponsor.
const DelegationFeature Features = 1

func (f Features) IsDelegated() bool {
	return f&DelegationFeature == DelegationFeature
}

func (f *Features) SetDelegated(flag bool) {
	if flag {
		*f |= DelegationFeature
	} else {
		*f &^= DelegationFeature
	}
}

// Clause is one call or transfer embedded in a transaction.
type Clause struct {
	To    *common.Address `rlp:"nil"`
	Value *big.Int
	Data  []byte
}

// Transaction is a VeChainThor transaction. The wire form is RLP with nine
// fields when unsigned and ten once the signature is attached.
type Transaction struct {
	ChainTag     byte
	BlockRef     uint64
	Expiration   uint32
	Clauses      []*Clause
	GasPriceCoef uint8
	Gas          uint64
	DependsOn    *common.Hash
	Nonce        uint64
	Features     Features

	// Signature is origin(65) for plain transactions and origin(65) ||
	// delegator(65) when the delegation feature is set.
	Signature []byte
}

// ChainTagFromGenesis returns the last byte of the genesis block id.
func ChainTagFromGenesis(genesisID common.Hash) byte {
	return genesisID[len(genesisID)-1]
}

// BlockRefFromID returns the first 8 bytes of a block id as the block ref.
func BlockRefFromID(blockID common.Hash) uint64 {
	return binary.BigEndian.Uint64(blockID[:8])
}

func (t *Transaction) IsDelegated() bool {
	return t.Features.IsDelegated()
}

func (t *Transaction) reserved() []interface{} {
	if t.Features == 0 {
		return []interface{}{}
	}
	return []interface{}{uint32(t.Features)}
}

func (t *Transaction) clauses() []*Clause {
	out := make([]*Clause, len(t.Clauses))
	for i, c := range t.Clauses {
		cp := *c
		if cp.Value == nil {
			cp.Value = new(big.Int)
		}
		out[i] = &cp
	}
	return out
}

func (t *Transaction) unsignedFields() []interface{} {
	return []interface{}{
		t.ChainTag,
		t.BlockRef,
		t.Expiration,
		t.clauses(),
		t.GasPriceCoef,
		t.Gas,
		t.DependsOn,
		t.Nonce,
		t.reserved(),
	}
}

// EncodeUnsigned returns the canonical encoding without the signature field,
// the form sponsors expect for co-signing.
func (t *Transaction) EncodeUnsigned() ([]byte, error) {
	return rlp.EncodeToBytes(t.unsignedFields())
}

// Encode returns the canonical encoding. Transactions without a signature are
// encoded in their unsigned form.
func (t *Transaction) Encode() ([]byte, error) {
	if len(t.Signature) == 0 {
		return t.EncodeUnsigned()
	}
	return rlp.EncodeToBytes(append(t.unsignedFields(), t.Signature))
}

// EncodeHex is Encode rendered as 0x-prefixed hex.
func (t *Transaction) EncodeHex() (string, error) {
	raw, err := t.Encode()
	if err != nil {
		return "", err
	}
	return hexutil.Encode(raw), nil
}

// SigningHash is blake2b-256 over the unsigned encoding.
func (t *Transaction) SigningHash() (common.Hash, error) {
	raw, err := t.EncodeUnsigned()
	if err != nil {
		return common.Hash{}, err
	}
	return blake2b.Sum256(raw), nil
}

// DelegatorSigningHash is the hash a sponsor signs for the given origin.
func (t *Transaction) DelegatorSigningHash(origin common.Address) (common.Hash, error) {
	signingHash, err := t.SigningHash()
	if err != nil {
		return common.Hash{}, err
	}
	return hashWithOrigin(signingHash, origin), nil
}

func hashWithOrigin(signingHash common.Hash, origin common.Address) common.Hash {
	h, _ := blake2b.New256(nil)
	h.Write(signingHash[:])
	h.Write(origin[:])
	var out common.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Origin recovers the sender from the first signature.
func (t *Transaction) Origin() (common.Address, error) {
	if len(t.Signature) < wallet.SignatureLength {
		return common.Address{}, errors.Wrap(errors.ErrInvalidSignature, "transaction is not signed")
	}
	signingHash, err := t.SigningHash()
	if err != nil {
		return common.Address{}, err
	}
	return wallet.RecoverAddress(signingHash[:], t.Signature[:wallet.SignatureLength])
}

// Delegator recovers the sponsor from the second signature. It returns nil
// for transactions without the delegation feature.
func (t *Transaction) Delegator() (*common.Address, error) {
	if !t.IsDelegated() {
		return nil, nil
	}
	if len(t.Signature) != 2*wallet.SignatureLength {
		return nil, errors.Wrapf(errors.ErrInvalidSignature, "delegated signature must be %d bytes, got %d", 2*wallet.SignatureLength, len(t.Signature))
	}
	origin, err := t.Origin()
	if err != nil {
		return nil, err
	}
	hash, err := t.DelegatorSigningHash(origin)
	if err != nil {
		return nil, err
	}
	delegator, err := wallet.RecoverAddress(hash[:], t.Signature[wallet.SignatureLength:])
	if err != nil {
		return nil, err
	}
	return &delegator, nil
}

// ID is blake2b-256(signing hash || origin). Only signed transactions have one.
func (t *Transaction) ID() (common.Hash, error) {
	origin, err := t.Origin()
	if err != nil {
		return common.Hash{}, err
	}
	signingHash, err := t.SigningHash()
	if err != nil {
		return common.Hash{}, err
	}
	return hashWithOrigin(signingHash, origin), nil
}

// Decode parses a signed or unsigned canonical encoding.
func Decode(data []byte) (*Transaction, error) {
	var fields []rlp.RawValue
	if err := rlp.DecodeBytes(data, &fields); err != nil {
		return nil, errors.Wrap(err, "decode transaction")
	}
	if len(fields) != unsignedFieldCount && len(fields) != signedFieldCount {
		return nil, errors.Errorf("decode transaction: expected %d or %d fields, got %d", unsignedFieldCount, signedFieldCount, len(fields))
	}

	t := &Transaction{}
	targets := []interface{}{&t.ChainTag, &t.BlockRef, &t.Expiration, &t.Clauses, &t.GasPriceCoef, &t.Gas}
	for i, target := range targets {
		if err := rlp.DecodeBytes(fields[i], target); err != nil {
			return nil, errors.Wrapf(err, "decode transaction field %d", i)
		}
	}

	var dependsOn []byte
	if err := rlp.DecodeBytes(fields[6], &dependsOn); err != nil {
		return nil, errors.Wrap(err, "decode depends on")
	}
	switch len(dependsOn) {
	case 0:
	case common.HashLength:
		h := common.BytesToHash(dependsOn)
		t.DependsOn = &h
	default:
		return nil, errors.Errorf("decode depends on: invalid length %d", len(dependsOn))
	}

	if err := rlp.DecodeBytes(fields[7], &t.Nonce); err != nil {
		return nil, errors.Wrap(err, "decode nonce")
	}

	var reserved []rlp.RawValue
	if err := rlp.DecodeBytes(fields[8], &reserved); err != nil {
		return nil, errors.Wrap(err, "decode reserved")
	}
	if len(reserved) > 1 {
		return nil, errors.Errorf("decode reserved: unsupported fields %d", len(reserved)-1)
	}
	if len(reserved) == 1 {
		var features uint32
		if err := rlp.DecodeBytes(reserved[0], &features); err != nil {
			return nil, errors.Wrap(err, "decode features")
		}
		if features == 0 {
			return nil, errors.New("decode reserved: trailing zero features")
		}
		t.Features = Features(features)
	}

	if len(fields) == signedFieldCount {
		if err := rlp.DecodeBytes(fields[9], &t.Signature); err != nil {
			return nil, errors.Wrap(err, "decode signature")
		}
	}
	return t, nil
}

// DecodeHex parses a 0x-prefixed hex encoding.
func DecodeHex(raw string) (*Transaction, error) {
	data, err := hexutil.Decode(raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode transaction hex")
	}
	return Decode(data)
}
