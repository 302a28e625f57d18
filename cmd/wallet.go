package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mezonai/vewallet/app"
	"github.com/mezonai/vewallet/auth"
	"github.com/mezonai/vewallet/client"
	"github.com/mezonai/vewallet/config"
	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/logx"
	"github.com/mezonai/vewallet/provider"
	"github.com/mezonai/vewallet/service"
	"github.com/mezonai/vewallet/sponsor"
	"github.com/mezonai/vewallet/transaction"
)

// walletDeps are the objects built from configuration for one command.
type walletDeps struct {
	cfg    *config.AppConfig
	tuning *config.TransferConfig
	app    *app.App
	closer func()
}

// keySource picks the login key source from flags, then from the config file.
func keySource(cfg *config.AppConfig) auth.KeySource {
	switch {
	case rootConfig.PrivateKey != "":
		return auth.StaticKey(rootConfig.PrivateKey)
	case rootConfig.PrivateKeyFile != "":
		return auth.FileKey(rootConfig.PrivateKeyFile)
	case rootConfig.Prompt:
		return auth.NewPromptKey(os.Stdin, os.Stderr)
	case cfg.Auth.PrivateKey != "":
		return auth.StaticKey(cfg.Auth.PrivateKey)
	case cfg.Auth.KeyFile != "":
		return auth.FileKey(cfg.Auth.KeyFile)
	}
	return auth.NewPromptKey(os.Stdin, os.Stderr)
}

func buildWallet(ctx context.Context) (*walletDeps, error) {
	cfg, err := config.LoadAppConfig(rootConfig.ConfigFile)
	if err != nil {
		return nil, err
	}
	tuning, err := config.LoadTransferConfig(rootConfig.TuningFile)
	if err != nil {
		return nil, err
	}
	requestTimeout := time.Duration(tuning.RequestTimeoutMs) * time.Millisecond

	thor, err := client.NewClient(client.Config{Endpoint: cfg.Chain.Node, Timeout: requestTimeout})
	if err != nil {
		return nil, err
	}

	closer := func() {}
	var backend provider.Provider = provider.NewThorBackend(thor)
	if cfg.Chain.RPCTarget != "" {
		rpc := provider.NewRPCBackend(cfg.Chain.RPCTarget)
		backend = rpc
		closer = func() { rpc.Close() }
	}

	sdk := auth.NewLocalAuth(auth.Options{
		ClientID:    cfg.Auth.ClientID,
		ChainID:     cfg.Chain.Genesis,
		Source:      keySource(cfg),
		Backend:     backend,
		AutoConnect: cfg.Auth.AutoConnect,
		UserName:    cfg.Auth.UserName,
		UserEmail:   cfg.Auth.UserEmail,
	})

	var transfers *service.TransferServiceImpl
	if cfg.Sponsor.URL != "" {
		sp, err := sponsor.NewClient(sponsor.Config{URL: cfg.Sponsor.URL, Timeout: requestTimeout})
		if err != nil {
			closer()
			return nil, err
		}
		contract, err := transaction.ParseAddress(cfg.Token.Contract)
		if err != nil {
			closer()
			return nil, errors.Wrap(err, "token contract")
		}
		ticker := client.NewTicker(thor, time.Duration(tuning.TickIntervalMs)*time.Millisecond)
		transfers = service.NewTransferService(thor, sp, ticker, transaction.NewTracker(), service.TransferConfig{
			TokenContract:  contract,
			TokenDecimals:  cfg.Token.Decimals,
			Gas:            tuning.Gas,
			GasPriceCoef:   uint8(tuning.GasPriceCoef),
			Expiration:     tuning.Expiration,
			ReceiptTimeout: time.Duration(tuning.ReceiptTimeoutSec) * time.Second,
		})
	} else {
		logx.Warn("CLI", "No sponsor url configured, transfers are disabled")
	}

	opts := app.Options{
		SDK:             sdk,
		Chain:           thor,
		ExpectedGenesis: common.HexToHash(cfg.Chain.Genesis),
	}
	if transfers != nil {
		opts.Transfers = transfers
	}
	a := app.New(opts)
	if err := a.Init(ctx); err != nil {
		closer()
		return nil, err
	}
	if rootConfig.Verbose {
		logx.Debug("CLI", fmt.Sprintf("Wallet ready on %s network via %s", cfg.Chain.Network, cfg.Chain.Node))
	}
	return &walletDeps{cfg: cfg, tuning: tuning, app: a, closer: closer}, nil
}

// loggedInWallet builds the wallet and logs in unless a session was restored.
func loggedInWallet(ctx context.Context) (*walletDeps, error) {
	deps, err := buildWallet(ctx)
	if err != nil {
		return nil, err
	}
	if deps.app.Status().LoggedIn {
		return deps, nil
	}
	if err := deps.app.Login(ctx); err != nil {
		deps.closer()
		return nil, err
	}
	return deps, nil
}

func printConsole(a *app.App) {
	fmt.Println(a.ConsoleText())
}
