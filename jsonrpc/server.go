package jsonrpc

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/mezonai/vewallet/auth"
	"github.com/mezonai/vewallet/client"
	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/exception"
	"github.com/mezonai/vewallet/logx"
	"github.com/mezonai/vewallet/monitoring"
	"github.com/mezonai/vewallet/session"
	"github.com/mezonai/vewallet/transaction"
)

// --- Error mapping ---

const (
	codeInvalidParams jrpc2.Code = -32602
	codeServerError   jrpc2.Code = -32000
	codeUnauthorized  jrpc2.Code = -32001
)

func rpcCode(code errors.WalletErrorCode) jrpc2.Code {
	switch code {
	case errors.ErrCodeInvalidRequest, errors.ErrCodeInvalidAddress, errors.ErrCodeInvalidAmount:
		return codeInvalidParams
	case errors.ErrCodeProviderNotInitialized, errors.ErrCodeNotConnected, errors.ErrCodeKeyUnavailable,
		errors.ErrCodeUserCancelled, errors.ErrCodeModalNotInitialized:
		return codeUnauthorized
	}
	return codeServerError
}

func toJRPC2Error(err error) error {
	if err == nil {
		return nil
	}
	var walletErr *errors.WalletError
	if errors.As(err, &walletErr) {
		return jrpc2.Errorf(rpcCode(walletErr.Code), "%s", walletErr.Message).WithData(walletErr)
	}
	var sponsorErr *errors.SponsorError
	if errors.As(err, &sponsorErr) {
		return jrpc2.Errorf(codeServerError, "%s", sponsorErr.Error()).WithData(sponsorErr)
	}
	return jrpc2.Errorf(codeServerError, "%s", err.Error())
}

// --- Params/Results ---

type transferParams struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type accountResponse struct {
	Address string `json:"address"`
}

type balanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

type pendingResponse struct {
	Transfers []transaction.PendingTransfer `json:"transfers"`
}

type consoleResponse struct {
	Text    string `json:"text"`
	Loading bool   `json:"loading"`
}

// Wallet is the set of handlers exposed over JSON-RPC.
type Wallet interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	GetUserInfo(ctx context.Context) (*auth.UserInfo, error)
	GetAccounts(ctx context.Context) (string, error)
	GetBalance(ctx context.Context) (string, error)
	Transfer(ctx context.Context, to, amount string) (*client.Receipt, error)
	PendingTransfers(ctx context.Context) ([]transaction.PendingTransfer, error)
	Status() session.Status
	ConsoleText() string
	Loading() bool
}

// --- Server ---

type Server struct {
	addr       string
	wallet     Wallet
	corsConfig CORSConfig
	httpServer *http.Server
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

func NewServer(addr string, wallet Wallet) *Server {
	return &Server{
		addr:   addr,
		wallet: wallet,
		corsConfig: CORSConfig{
			AllowedOrigins: []string{},
			AllowedMethods: []string{},
			AllowedHeaders: []string{},
			MaxAge:         0,
		},
	}
}

// Handler serves JSON-RPC on / and prometheus metrics on /metrics.
func (s *Server) Handler() http.Handler {
	methods := s.buildMethodMap()
	jh := jhttp.NewBridge(methods, &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.setCORSHeaders(w, r)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		logx.Debug("JSONRPC", fmt.Sprintf("Request from %s", extractClientIPFromRequest(r)))
		jh.ServeHTTP(w, r)
	})

	mux := http.NewServeMux()
	mux.Handle("/", h)
	monitoring.RegisterMetrics(mux)
	return mux
}

func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	exception.SafeGo("jsonrpc-server", func() {
		logx.Info("JSONRPC", fmt.Sprintf("Listening on %s", s.addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Error("JSONRPC", fmt.Sprintf("Server stopped: %v", err))
		}
	})
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// SetCORSConfig allows configuring CORS settings
func (s *Server) SetCORSConfig(config CORSConfig) {
	s.corsConfig = config
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		MethodSessionLogin: handler.New(func(ctx context.Context) (*session.Status, error) {
			if err := s.wallet.Login(ctx); err != nil {
				return nil, toJRPC2Error(err)
			}
			st := s.wallet.Status()
			return &st, nil
		}),
		MethodSessionLogout: handler.New(func(ctx context.Context) (*messageResponse, error) {
			if err := s.wallet.Logout(ctx); err != nil {
				return nil, toJRPC2Error(err)
			}
			return &messageResponse{Message: s.wallet.ConsoleText()}, nil
		}),
		MethodSessionUserInfo: handler.New(func(ctx context.Context) (*auth.UserInfo, error) {
			user, err := s.wallet.GetUserInfo(ctx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return user, nil
		}),
		MethodSessionAccounts: handler.New(func(ctx context.Context) (*accountResponse, error) {
			address, err := s.wallet.GetAccounts(ctx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &accountResponse{Address: address}, nil
		}),
		MethodSessionBalance: handler.New(func(ctx context.Context) (*balanceResponse, error) {
			address, err := s.wallet.GetAccounts(ctx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			balance, err := s.wallet.GetBalance(ctx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &balanceResponse{Address: address, Balance: balance}, nil
		}),
		MethodSessionStatus: handler.New(func(ctx context.Context) (*session.Status, error) {
			st := s.wallet.Status()
			return &st, nil
		}),
		MethodTransferSend: handler.New(func(ctx context.Context, p transferParams) (*client.Receipt, error) {
			receipt, err := s.wallet.Transfer(ctx, p.To, p.Amount)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return receipt, nil
		}),
		MethodTransferPending: handler.New(func(ctx context.Context) (*pendingResponse, error) {
			pending, err := s.wallet.PendingTransfers(ctx)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			if pending == nil {
				pending = []transaction.PendingTransfer{}
			}
			return &pendingResponse{Transfers: pending}, nil
		}),
		MethodConsoleRead: handler.New(func(ctx context.Context) (*consoleResponse, error) {
			return &consoleResponse{Text: s.wallet.ConsoleText(), Loading: s.wallet.Loading()}, nil
		}),
	}
}

// --- Helpers ---

func (s *Server) setCORSHeaders(w http.ResponseWriter, r *http.Request) {
	if len(s.corsConfig.AllowedOrigins) > 0 {
		if s.corsConfig.AllowedOrigins[0] == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			origin := r.Header.Get("Origin")
			for _, allowedOrigin := range s.corsConfig.AllowedOrigins {
				if origin == allowedOrigin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
	}

	if len(s.corsConfig.AllowedMethods) > 0 {
		w.Header().Set("Access-Control-Allow-Methods", strings.Join(s.corsConfig.AllowedMethods, ", "))
	}
	if len(s.corsConfig.AllowedHeaders) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(s.corsConfig.AllowedHeaders, ", "))
	}
	if s.corsConfig.MaxAge > 0 {
		w.Header().Set("Access-Control-Max-Age", strconv.Itoa(s.corsConfig.MaxAge))
	}
}

// --- Env helpers ---

// CORSFromEnv reads environment variables and constructs a CORSConfig.
// Returns (cfg, true) if any CORS-related env var is set; otherwise (zero, false).
//
// Env vars:
// - CORS_ALLOWED_ORIGINS: comma-separated list
// - CORS_ALLOWED_METHODS: comma-separated list
// - CORS_ALLOWED_HEADERS: comma-separated list
// - CORS_MAX_AGE: integer seconds
func CORSFromEnv() (CORSConfig, bool) {
	origins := os.Getenv("CORS_ALLOWED_ORIGINS")
	methods := os.Getenv("CORS_ALLOWED_METHODS")
	headers := os.Getenv("CORS_ALLOWED_HEADERS")
	maxAgeStr := os.Getenv("CORS_MAX_AGE")

	var maxAge int
	if maxAgeStr != "" {
		if v, err := strconv.Atoi(maxAgeStr); err == nil {
			maxAge = v
		}
	}

	var allowedOrigins, allowedMethods, allowedHeaders []string
	if origins != "" {
		allowedOrigins = splitAndTrim(origins)
	}
	if methods != "" {
		allowedMethods = splitAndTrim(methods)
	}
	if headers != "" {
		allowedHeaders = splitAndTrim(headers)
	}

	provided := len(allowedOrigins) > 0 || len(allowedMethods) > 0 || len(allowedHeaders) > 0 || maxAge > 0
	if !provided {
		return CORSConfig{}, false
	}

	return CORSConfig{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: allowedMethods,
		AllowedHeaders: allowedHeaders,
		MaxAge:         maxAge,
	}, true
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
