package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mezonai/vewallet/config"
	"github.com/mezonai/vewallet/jsonrpc"
	"github.com/mezonai/vewallet/logx"
	"github.com/mezonai/vewallet/monitoring"
)

type ServeConfig struct {
	Addr string
}

var serveConfig ServeConfig

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wallet over JSON-RPC",
	Long:  "Start a JSON-RPC 2.0 server exposing login, logout, user info, accounts, balance and sponsored transfers.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			logx.Error("SERVE", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfig.Addr, "addr", "", "listen address (default from config or "+config.DefaultServerAddr+")")
}

func runServe() error {
	monitoring.InitMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := buildWallet(ctx)
	if err != nil {
		return err
	}
	defer deps.closer()

	addr := serveConfig.Addr
	if addr == "" {
		addr = deps.cfg.Server.Addr
	}
	if addr == "" {
		addr = config.DefaultServerAddr
	}

	server := jsonrpc.NewServer(addr, deps.app)
	if cors, ok := jsonrpc.CORSFromEnv(); ok {
		server.SetCORSConfig(cors)
	}
	server.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logx.Info("SERVE", "Received signal:", sig.String(), "- shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
