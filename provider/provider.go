// Package provider implements an EIP-1193 style request interface backed by a
// local private key.
package provider

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/jsonx"
	"github.com/mezonai/vewallet/logx"
	"github.com/mezonai/vewallet/monitoring"
	"github.com/mezonai/vewallet/pkg/wallet"
)

const (
	MethodAccounts        = "eth_accounts"
	MethodRequestAccounts = "eth_requestAccounts"
	MethodChainID         = "eth_chainId"
	MethodGetBalance      = "eth_getBalance"
	MethodBlockNumber     = "eth_blockNumber"
	MethodPrivateKey      = "private_key"
)

type RequestArguments struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params,omitempty"`
}

// Provider sends a request and decodes the answer into result, which must be
// a pointer.
type Provider interface {
	Request(ctx context.Context, args RequestArguments, result interface{}) error
}

// KeyProvider answers account queries from a wallet and forwards chain
// queries to a backend.
type KeyProvider struct {
	wallet  *wallet.Wallet
	chainID string
	backend Provider
}

func NewKeyProvider(w *wallet.Wallet, chainID string, backend Provider) *KeyProvider {
	return &KeyProvider{wallet: w, chainID: chainID, backend: backend}
}

func (p *KeyProvider) Address() common.Address {
	return p.wallet.Address()
}

func (p *KeyProvider) Request(ctx context.Context, args RequestArguments, result interface{}) error {
	monitoring.IncreaseProviderRequest(args.Method)

	switch args.Method {
	case MethodAccounts, MethodRequestAccounts:
		return assign([]string{p.wallet.Address().Hex()}, result)
	case MethodChainID:
		if p.chainID != "" {
			return assign(p.chainID, result)
		}
	case MethodPrivateKey:
		return assign(p.wallet.PrivateKeyHex(), result)
	}

	if p.backend == nil {
		return errors.Errorf("provider: method %s is not supported", args.Method)
	}
	logx.Debug("PROVIDER", fmt.Sprintf("Forwarding %s to backend", args.Method))
	return p.backend.Request(ctx, args, result)
}

// assign copies value into result through its JSON form, the way a remote
// answer would be decoded.
func assign(value, result interface{}) error {
	if result == nil {
		return nil
	}
	return jsonx.Convert(value, result)
}
