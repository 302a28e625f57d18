package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mezonai/vewallet/app"
	"github.com/mezonai/vewallet/logx"
)

// sessionCommand logs in, runs action and prints the console.
func sessionCommand(use, short, category string, action func(ctx context.Context, a *app.App) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			deps, err := loggedInWallet(ctx)
			if err != nil {
				logx.Error(category, err)
				os.Exit(1)
			}
			defer deps.closer()

			err = action(ctx, deps.app)
			printConsole(deps.app)
			if err != nil {
				logx.Error(category, err)
				os.Exit(1)
			}
		},
	}
}

func init() {
	rootCmd.AddCommand(
		sessionCommand("accounts", "Print the logged in account address", "ACCOUNTS CLI",
			func(ctx context.Context, a *app.App) error {
				_, err := a.GetAccounts(ctx)
				return err
			}),
		sessionCommand("balance", "Print the VET balance of the logged in account", "BALANCE CLI",
			func(ctx context.Context, a *app.App) error {
				_, err := a.GetBalance(ctx)
				return err
			}),
		sessionCommand("userinfo", "Print the profile of the logged in user", "USERINFO CLI",
			func(ctx context.Context, a *app.App) error {
				_, err := a.GetUserInfo(ctx)
				return err
			}),
	)
}
