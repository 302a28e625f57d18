package provider

import (
	"context"
	"fmt"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/logx"
)

// RPCBackend forwards requests to an Ethereum JSON-RPC proxy such as web3-gear.
type RPCBackend struct {
	target string
	cli    *jrpc2.Client
}

func NewRPCBackend(target string) *RPCBackend {
	ch := jhttp.NewChannel(target, nil)
	return &RPCBackend{
		target: target,
		cli:    jrpc2.NewClient(ch, nil),
	}
}

func (b *RPCBackend) Request(ctx context.Context, args RequestArguments, result interface{}) error {
	var params interface{}
	if len(args.Params) > 0 {
		params = args.Params
	}
	if err := b.cli.CallResult(ctx, args.Method, params, result); err != nil {
		logx.Warn("PROVIDER", fmt.Sprintf("%s via %s failed: %v", args.Method, b.target, err))
		return errors.Wrapf(err, "provider: %s", args.Method)
	}
	return nil
}

func (b *RPCBackend) Close() error {
	return b.cli.Close()
}
