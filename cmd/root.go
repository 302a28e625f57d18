package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mezonai/vewallet/logx"
)

type RootConfig struct {
	ConfigFile     string
	TuningFile     string
	PrivateKey     string
	PrivateKeyFile string
	Prompt         bool
	LogToFile      bool
	Verbose        bool
}

var rootConfig RootConfig

var rootCmd = &cobra.Command{
	Use:   "vewallet",
	Short: "VeChain wallet with sponsored token transfers",
	Long: `Command line interface for logging in with a private key, reading account data
from a VeChainThor node and sending VIP-180 token transfers whose gas is paid by a sponsor.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootConfig.LogToFile {
			logx.InitFileLogger()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfig.ConfigFile, "config", "c", "", "path to vewallet.yml")
	rootCmd.PersistentFlags().StringVar(&rootConfig.TuningFile, "tuning", "", "path to the .ini file with the [transfer] section")
	rootCmd.PersistentFlags().StringVarP(&rootConfig.PrivateKey, "private-key", "p", "", "login private key in hex")
	rootCmd.PersistentFlags().StringVarP(&rootConfig.PrivateKeyFile, "private-key-file", "f", "", "file holding the login private key in hex")
	rootCmd.PersistentFlags().BoolVar(&rootConfig.Prompt, "prompt", false, "ask for the private key on stdin")
	rootCmd.PersistentFlags().BoolVar(&rootConfig.LogToFile, "log-file", false, "write logs to LOGFILE instead of stderr")
	rootCmd.PersistentFlags().BoolVarP(&rootConfig.Verbose, "verbose", "v", false, "verbose output")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CLI", "Command execution failed:", err)
		os.Exit(1)
	}
}
