package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/logx"
)

type TransferConfig struct {
	To     string
	Amount string
}

var transferConfig TransferConfig

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Send a sponsored token transfer",
	Long:  "Log in, build a VIP-180 transfer, have the sponsor co-sign it, submit it and wait for the receipt.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTransfer(); err != nil {
			logx.Error("TRANSFER CLI", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferCmd.Flags().StringVarP(&transferConfig.To, "to", "t", "", "recipient address")
	transferCmd.Flags().StringVarP(&transferConfig.Amount, "amount", "a", "", "amount in whole tokens, e.g. 1.5")
}

func runTransfer() error {
	if strings.TrimSpace(transferConfig.To) == "" || strings.TrimSpace(transferConfig.Amount) == "" {
		return errors.New("both --to and --amount are required")
	}

	ctx := context.Background()
	deps, err := loggedInWallet(ctx)
	if err != nil {
		return err
	}
	defer deps.closer()

	receipt, err := deps.app.Transfer(ctx, transferConfig.To, transferConfig.Amount)
	printConsole(deps.app)
	if err != nil {
		return err
	}
	if receipt.Reverted {
		return fmt.Errorf("transfer %s reverted", receipt.Meta.TxID.Hex())
	}
	logx.Info("TRANSFER CLI", fmt.Sprintf("Transfer %s included in block %d", receipt.Meta.TxID.Hex(), receipt.Meta.BlockNumber))
	return nil
}
