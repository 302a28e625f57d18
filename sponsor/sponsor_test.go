package sponsor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/jsonx"
)

var origin = common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")

func newSponsor(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{URL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestSponsor_ReturnsSignature(t *testing.T) {
	sig := "0x" + strings.Repeat("ab", 65)
	c := newSponsor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req request
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, jsonx.Unmarshal(body, &req))
		assert.Equal(t, origin.Hex(), req.Origin)
		assert.Equal(t, "0xf85501", req.Raw)
		io.WriteString(w, `{"signature":"`+sig+`"}`)
	})

	got, err := c.Sponsor(context.Background(), origin, "0xf85501")
	require.NoError(t, err)
	assert.Len(t, got, 65)
	assert.Equal(t, byte(0xab), got[64])
}

func TestSponsor_ErrorField(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantStatus int
	}{
		{"ok status", http.StatusOK, `{"error":"origin not whitelisted"}`, "origin not whitelisted", 0},
		{"bad request", http.StatusBadRequest, `{"error":"quota exceeded"}`, "quota exceeded", http.StatusBadRequest},
		{"bare status", http.StatusServiceUnavailable, `upstream down`, "Service Unavailable", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newSponsor(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := c.Sponsor(context.Background(), origin, "0x00")

			var se *errors.SponsorError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantMsg, se.Message)
			assert.Equal(t, tt.wantStatus, se.StatusCode)
			assert.Equal(t, errors.ErrCodeSponsorRejected, errors.CodeOf(err))
		})
	}
}

func TestSponsor_InvalidSignature(t *testing.T) {
	for _, body := range []string{`{"signature":"0x1234"}`, `{"signature":"zz"}`, `{}`} {
		c := newSponsor(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, body)
		})
		_, err := c.Sponsor(context.Background(), origin, "0x00")
		assert.True(t, errors.Is(err, errors.ErrInvalidSignature), body)
	}
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}
