package provider

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/interfaces"
	"github.com/mezonai/vewallet/transaction"
)

// ThorBackend answers the few chain queries the wallet needs straight from
// the Thor REST API, for setups without a JSON-RPC proxy.
type ThorBackend struct {
	chain interfaces.ChainClient
}

func NewThorBackend(chain interfaces.ChainClient) *ThorBackend {
	return &ThorBackend{chain: chain}
}

func (b *ThorBackend) Request(ctx context.Context, args RequestArguments, result interface{}) error {
	switch args.Method {
	case MethodGetBalance:
		addr, err := addressParam(args.Params)
		if err != nil {
			return err
		}
		acc, err := b.chain.Account(ctx, addr)
		if err != nil {
			return err
		}
		balance := "0x0"
		if acc.Balance != nil {
			balance = acc.Balance.String()
		}
		return assign(balance, result)
	case MethodBlockNumber:
		best, err := b.chain.BestBlock(ctx)
		if err != nil {
			return err
		}
		return assign(hexutil.EncodeUint64(uint64(best.Number)), result)
	case MethodChainID:
		genesis, err := b.chain.Genesis(ctx)
		if err != nil {
			return err
		}
		return assign(hexutil.EncodeUint64(uint64(transaction.ChainTagFromGenesis(genesis.ID))), result)
	}
	return errors.Errorf("provider: method %s is not supported", args.Method)
}

func addressParam(params []interface{}) (common.Address, error) {
	if len(params) == 0 {
		return common.Address{}, errors.Wrap(errors.ErrInvalidAddress, "missing address param")
	}
	s, ok := params[0].(string)
	if !ok {
		return common.Address{}, errors.Wrap(errors.ErrInvalidAddress, "address param must be a string")
	}
	return transaction.ParseAddress(s)
}
