package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/jsonx"
	"github.com/mezonai/vewallet/logx"
)

const defaultTimeout = 15 * time.Second

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// HTTPError is returned when the node answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("thor: status %d: %s", e.StatusCode, e.Body)
}

// ThorClient talks to the REST API of a VeChainThor node.
type ThorClient struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) (*ThorClient, error) {
	cfg.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if cfg.Endpoint == "" {
		return nil, errors.New("thor: endpoint is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &ThorClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *ThorClient) Endpoint() string {
	return c.cfg.Endpoint
}

// Block fetches a block by revision: a number, an id, "best" or "finalized".
func (c *ThorClient) Block(ctx context.Context, revision string) (*Block, error) {
	var b *Block
	if err := c.do(ctx, http.MethodGet, "/blocks/"+revision, nil, &b); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, errors.Errorf("thor: block %s not found", revision)
	}
	return b, nil
}

func (c *ThorClient) Genesis(ctx context.Context) (*Block, error) {
	return c.Block(ctx, "0")
}

func (c *ThorClient) BestBlock(ctx context.Context) (*Block, error) {
	return c.Block(ctx, "best")
}

func (c *ThorClient) Account(ctx context.Context, addr common.Address) (*Account, error) {
	var a Account
	if err := c.do(ctx, http.MethodGet, "/accounts/"+addr.Hex(), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Receipt returns nil without error while the transaction is pending.
func (c *ThorClient) Receipt(ctx context.Context, id common.Hash) (*Receipt, error) {
	var r *Receipt
	if err := c.do(ctx, http.MethodGet, "/transactions/"+id.Hex()+"/receipt", nil, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// SendRawTransaction submits a 0x-prefixed signed transaction and returns its id.
func (c *ThorClient) SendRawTransaction(ctx context.Context, raw string) (common.Hash, error) {
	var res txIDResponse
	if err := c.do(ctx, http.MethodPost, "/transactions", rawTxRequest{Raw: raw}, &res); err != nil {
		return common.Hash{}, err
	}
	logx.Info("THOR", fmt.Sprintf("Transaction accepted: %s", res.ID.Hex()))
	return res.ID, nil
}

// VerifyNetwork checks that the node serves the expected genesis. A zero
// expected id only fetches the genesis.
func (c *ThorClient) VerifyNetwork(ctx context.Context, expected common.Hash) (*Block, error) {
	genesis, err := c.Genesis(ctx)
	if err != nil {
		return nil, err
	}
	if expected != (common.Hash{}) && genesis.ID != expected {
		return nil, errors.Wrapf(errors.ErrNetworkMismatch, "node %s serves genesis %s, expected %s", c.cfg.Endpoint, genesis.ID.Hex(), expected.Hex())
	}
	return genesis, nil
}

func (c *ThorClient) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := jsonx.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "thor: encode request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint+path, body)
	if err != nil {
		return errors.Wrap(err, "thor: build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "thor: %s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "thor: read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if err := jsonx.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "thor: decode %s", path)
	}
	return nil
}
