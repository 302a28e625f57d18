package interfaces

import "github.com/ethereum/go-ethereum/common"

// Signer produces 65 byte r||s||v signatures over 32 byte hashes.
type Signer interface {
	Address() common.Address
	Sign(hash []byte) ([]byte, error)
}
