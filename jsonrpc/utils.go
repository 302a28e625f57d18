package jsonrpc

import (
	"net"
	"net/http"
	"strings"

	"github.com/mezonai/vewallet/logx"
)

// JSON-RPC Method name constants
const (
	// Session methods
	MethodSessionLogin    = "session.login"
	MethodSessionLogout   = "session.logout"
	MethodSessionUserInfo = "session.userinfo"
	MethodSessionAccounts = "session.accounts"
	MethodSessionBalance  = "session.balance"
	MethodSessionStatus   = "session.status"

	// Transfer methods
	MethodTransferSend    = "transfer.send"
	MethodTransferPending = "transfer.pending"

	// Console methods
	MethodConsoleRead = "console.read"
)

func extractClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		logx.Debug("JSONRPC", "X-Forwarded-For:", xff)
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return "unknown"
}
