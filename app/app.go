// Package app holds the user facing handlers: login, logout, account queries
// and the sponsored transfer.
package app

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mezonai/vewallet/auth"
	"github.com/mezonai/vewallet/client"
	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/interfaces"
	"github.com/mezonai/vewallet/logx"
	"github.com/mezonai/vewallet/monitoring"
	"github.com/mezonai/vewallet/provider"
	"github.com/mezonai/vewallet/session"
	"github.com/mezonai/vewallet/transaction"
	"github.com/mezonai/vewallet/utils"
)

const MsgLoggedOut = "logged out"

type Options struct {
	SDK       auth.SDK
	Chain     interfaces.NetworkVerifier
	Transfers interfaces.TransferService
	// ExpectedGenesis is checked against the node at Init when set.
	ExpectedGenesis common.Hash
}

type App struct {
	sdk       auth.SDK
	chain     interfaces.NetworkVerifier
	transfers interfaces.TransferService
	genesis   common.Hash

	session *session.Session
	console *Console
	loading Loading
}

func New(opts Options) *App {
	return &App{
		sdk:       opts.SDK,
		chain:     opts.Chain,
		transfers: opts.Transfers,
		genesis:   opts.ExpectedGenesis,
		session:   session.New(opts.SDK),
		console:   NewConsole(),
	}
}

func (a *App) Console() *Console {
	return a.console
}

// ConsoleText is the rendered last console output.
func (a *App) ConsoleText() string {
	return a.console.Text()
}

func (a *App) Loading() bool {
	return a.loading.Active()
}

func (a *App) Status() session.Status {
	return a.session.Status()
}

// Init prepares the SDK, checks the node network and adopts a provider the
// SDK already has.
func (a *App) Init(ctx context.Context) error {
	if err := a.sdk.InitModal(ctx); err != nil {
		logx.Error("SESSION", fmt.Sprintf("Init failed: %v", err))
		return err
	}
	if a.chain != nil && a.genesis != (common.Hash{}) {
		if _, err := a.chain.VerifyNetwork(ctx, a.genesis); err != nil {
			logx.Error("SESSION", fmt.Sprintf("Network check failed: %v", err))
			return err
		}
	}
	if p := a.sdk.Provider(); p != nil {
		a.session.Adopt(p, a.sdk.Connected())
	}
	return nil
}

func (a *App) Login(ctx context.Context) error {
	p, err := a.sdk.Connect(ctx)
	if err != nil {
		a.session.Clear()
		if errors.Is(err, errors.ErrUserCancelled) {
			monitoring.RecordLogin("cancelled")
			a.console.Print(errors.ErrMsgUserCancelled)
		} else {
			monitoring.RecordLogin("failed")
			a.console.Print(errors.ErrMsgLoginFailed)
		}
		logx.Error("SESSION", fmt.Sprintf("Login failed: %v", err))
		return err
	}

	a.session.Adopt(p, a.sdk.Connected())
	monitoring.RecordLogin("ok")
	a.console.Clear()
	return nil
}

// Logout always clears the local session, even when the SDK fails.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sdk.Logout(ctx); err != nil {
		logx.Error("SESSION", fmt.Sprintf("SDK logout failed: %v", err))
	}
	a.session.Clear()
	a.console.Print(MsgLoggedOut)
	return nil
}

func (a *App) GetUserInfo(ctx context.Context) (*auth.UserInfo, error) {
	if _, err := a.requireProvider(); err != nil {
		return nil, err
	}
	user, err := a.sdk.GetUserInfo(ctx)
	if err != nil {
		a.console.Print(err.Error())
		return nil, err
	}
	a.console.Print(user)
	return user, nil
}

func (a *App) GetAccounts(ctx context.Context) (string, error) {
	p, err := a.requireProvider()
	if err != nil {
		return "", err
	}
	address, err := firstAccount(ctx, p)
	if err != nil {
		a.console.Print(err.Error())
		return "", err
	}
	a.console.Print(address)
	return address, nil
}

func (a *App) GetBalance(ctx context.Context) (string, error) {
	p, err := a.requireProvider()
	if err != nil {
		return "", err
	}
	address, err := firstAccount(ctx, p)
	if err != nil {
		a.console.Print(err.Error())
		return "", err
	}

	var raw interface{}
	err = p.Request(ctx, provider.RequestArguments{
		Method: provider.MethodGetBalance,
		Params: []interface{}{address, "latest"},
	}, &raw)
	if err != nil {
		a.console.Print(err.Error())
		return "", err
	}
	wei, err := utils.ParseQuantity(raw)
	if err != nil {
		a.console.Print(err.Error())
		return "", err
	}
	balance := utils.FormatEther(wei)
	a.console.Print(balance)
	return balance, nil
}

// Transfer sends a sponsored token transfer signed with the session key. The
// loading indicator is raised for the whole call.
func (a *App) Transfer(ctx context.Context, to, amount string) (*client.Receipt, error) {
	if _, err := a.requireProvider(); err != nil {
		return nil, err
	}
	if a.transfers == nil {
		return nil, errors.New("transfers are not configured")
	}

	a.loading.Start()
	defer a.loading.Stop()

	signer, err := a.session.Signer()
	if err != nil {
		a.console.Print(err.Error())
		return nil, err
	}
	receipt, err := a.transfers.Transfer(ctx, signer, to, amount)
	if err != nil {
		logx.Error("TRANSFER", fmt.Sprintf("Transfer to %s failed: %v", to, err))
		a.console.Print(err.Error())
		return nil, err
	}
	a.console.Print(receipt)
	return receipt, nil
}

// PendingTransfers lists the logged in account's transfers still waiting for
// a receipt.
func (a *App) PendingTransfers(ctx context.Context) ([]transaction.PendingTransfer, error) {
	p, err := a.requireProvider()
	if err != nil {
		return nil, err
	}
	if a.transfers == nil {
		return nil, nil
	}
	address, err := firstAccount(ctx, p)
	if err != nil {
		a.console.Print(err.Error())
		return nil, err
	}
	return a.transfers.Pending(common.HexToAddress(address)), nil
}

func (a *App) requireProvider() (provider.Provider, error) {
	p := a.session.Provider()
	if p == nil {
		a.console.Print(errors.ErrMsgProviderNotInitialized)
		return nil, errors.ErrProviderNotInitialized
	}
	return p, nil
}

func firstAccount(ctx context.Context, p provider.Provider) (string, error) {
	var accounts []string
	if err := p.Request(ctx, provider.RequestArguments{Method: provider.MethodAccounts}, &accounts); err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", errors.ErrNotConnected
	}
	return accounts[0], nil
}
