// File: pkg/wallet/wallet.go
package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/mezonai/vewallet/errors"
)

const (
	// PrivateKeyLength is the size of a raw secp256k1 scalar.
	PrivateKeyLength = 32
	// SignatureLength is r(32) || s(32) || v(1), v in {0,1}.
	SignatureLength = 65

	compactSigMagicOffset = 27
)

// Wallet represents a secp256k1 key pair and the address derived from it.
// It satisfies interfaces.Signer.
type Wallet struct {
	privateKey *secp256k1.PrivateKey
	address    common.Address
}

// NewWallet generates a new wallet.
func NewWallet() (*Wallet, error) {
	var seed [PrivateKeyLength]byte
	for {
		if _, err := rand.Read(seed[:]); err != nil {
			return nil, err
		}
		w, err := FromBytes(seed[:])
		if err == nil {
			return w, nil
		}
	}
}

// FromHex builds a wallet from a hex encoded private key, with or without 0x.
func FromHex(key string) (*Wallet, error) {
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(strings.TrimPrefix(key, "0x"), "0X")
	raw, err := hex.DecodeString(key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrKeyUnavailable, "decode private key")
	}
	return FromBytes(raw)
}

// FromBytes builds a wallet from a raw 32 byte private key.
func FromBytes(raw []byte) (*Wallet, error) {
	if len(raw) != PrivateKeyLength {
		return nil, errors.Wrapf(errors.ErrKeyUnavailable, "private key must be %d bytes, got %d", PrivateKeyLength, len(raw))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(raw); overflow || scalar.IsZero() {
		return nil, errors.Wrap(errors.ErrKeyUnavailable, "private key out of range")
	}
	priv := secp256k1.NewPrivateKey(&scalar)
	return &Wallet{
		privateKey: priv,
		address:    PubkeyToAddress(priv.PubKey()),
	}, nil
}

// Address returns the account address of the wallet.
func (w *Wallet) Address() common.Address {
	return w.address
}

// PrivateKeyHex returns the raw key without 0x prefix. Avoid logging it.
func (w *Wallet) PrivateKeyHex() string {
	return hex.EncodeToString(w.privateKey.Serialize())
}

// Sign signs a 32 byte hash and returns r || s || v.
func (w *Wallet) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("wallet: hash must be 32 bytes, got %d", len(hash))
	}
	compact := ecdsa.SignCompact(w.privateKey, hash, false)
	// compact is [27+recid] || r || s
	sig := make([]byte, SignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0] - compactSigMagicOffset
	return sig, nil
}

// RecoverAddress returns the address whose key produced sig over hash.
func RecoverAddress(hash, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, errors.Wrapf(errors.ErrInvalidSignature, "signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	if sig[64] > 1 {
		return common.Address{}, errors.Wrapf(errors.ErrInvalidSignature, "invalid recovery id %d", sig[64])
	}
	compact := make([]byte, SignatureLength)
	compact[0] = sig[64] + compactSigMagicOffset
	copy(compact[1:], sig[:64])
	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return common.Address{}, errors.Wrap(errors.ErrInvalidSignature, err.Error())
	}
	return PubkeyToAddress(pub), nil
}

// PubkeyToAddress derives the 20 byte account address: keccak256(X || Y)[12:].
func PubkeyToAddress(pub *secp256k1.PublicKey) common.Address {
	uncompressed := pub.SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:])
	return common.BytesToAddress(h.Sum(nil)[12:])
}
