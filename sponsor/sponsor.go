// Package sponsor requests fee delegation signatures from a sponsor endpoint.
package sponsor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/jsonx"
	"github.com/mezonai/vewallet/logx"
	"github.com/mezonai/vewallet/monitoring"
	"github.com/mezonai/vewallet/pkg/wallet"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	URL     string
	Timeout time.Duration
}

type request struct {
	Origin string `json:"origin"`
	Raw    string `json:"raw"`
}

type response struct {
	Signature string `json:"signature"`
	Error     string `json:"error"`
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	cfg.URL = strings.TrimSpace(cfg.URL)
	if cfg.URL == "" {
		return nil, errors.New("sponsor: url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}, nil
}

// Sponsor asks the endpoint to co-sign raw for origin. Any error reported by
// the endpoint is returned as *errors.SponsorError and is never retried.
func (c *Client) Sponsor(ctx context.Context, origin common.Address, raw string) ([]byte, error) {
	start := time.Now()
	defer func() { monitoring.RecordSponsorLatency(time.Since(start)) }()

	body, err := jsonx.Marshal(request{Origin: origin.Hex(), Raw: raw})
	if err != nil {
		return nil, errors.Wrap(err, "sponsor: encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "sponsor: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "sponsor: request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "sponsor: read response")
	}

	var res response
	if jerr := jsonx.Unmarshal(data, &res); jerr != nil && resp.StatusCode/100 == 2 {
		return nil, errors.Wrap(jerr, "sponsor: decode response")
	}
	if res.Error != "" {
		logx.Warn("SPONSOR", fmt.Sprintf("Sponsor refused origin %s: %s", origin.Hex(), res.Error))
		se := &errors.SponsorError{Message: res.Error}
		if resp.StatusCode/100 != 2 {
			se.StatusCode = resp.StatusCode
		}
		return nil, se
	}
	if resp.StatusCode/100 != 2 {
		return nil, &errors.SponsorError{Message: http.StatusText(resp.StatusCode), StatusCode: resp.StatusCode}
	}

	sig, err := hexutil.Decode(res.Signature)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidSignature, "sponsor signature: %v", err)
	}
	if len(sig) != wallet.SignatureLength {
		return nil, errors.Wrapf(errors.ErrInvalidSignature, "sponsor signature must be %d bytes, got %d", wallet.SignatureLength, len(sig))
	}
	logx.Info("SPONSOR", fmt.Sprintf("Sponsor co-signed for origin %s in %s", origin.Hex(), time.Since(start).Round(time.Millisecond)))
	return sig, nil
}
