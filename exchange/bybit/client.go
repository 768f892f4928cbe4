// Package bybit fetches the account equity shown next to the journal. It
// only reads the unified wallet balance; nothing here places orders.
package bybit

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MainnetURL = "https://api.bybit.com"
	TestnetURL = "https://api-testnet.bybit.com"

	walletBalancePath = "/v5/account/wallet-balance"
	walletQuery       = "accountType=UNIFIED"
	defaultRecvWindow = 5000
)

var ErrMissingCredentials = errors.New("bybit api key and secret are required")

// APIError is a response with a non-zero retCode.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bybit api error %d: %s", e.Code, e.Msg)
}

type Client struct {
	BaseURL    string // e.g. https://api.bybit.com
	APIKey     string
	APISecret  string
	RecvWindow int // milliseconds
	HTTP       *http.Client
	Now        func() time.Time
	Logger     *zap.Logger
}

func BaseURL(env string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "mainnet", "live":
		return MainnetURL, nil
	case "testnet", "demo":
		return TestnetURL, nil
	default:
		return "", fmt.Errorf("unknown bybit env %q (want mainnet|testnet)", env)
	}
}

// Sign returns the hex HMAC-SHA256 of timestamp+apiKey+recvWindow+payload.
func Sign(secret, timestamp, apiKey, recvWindow, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + apiKey + recvWindow + payload))
	return hex.EncodeToString(mac.Sum(nil))
}

type walletResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		List []struct {
			TotalEquity string `json:"totalEquity"`
		} `json:"list"`
	} `json:"result"`
}

// Balance returns the total equity of the unified trading account.
func (c *Client) Balance(ctx context.Context) (decimal.Decimal, error) {
	if c.APIKey == "" || c.APISecret == "" {
		return decimal.Zero, ErrMissingCredentials
	}

	body, err := c.get(ctx, walletBalancePath, walletQuery)
	if err != nil {
		return decimal.Zero, err
	}
	defer body.Close()

	var wr walletResponse
	if err := json.NewDecoder(body).Decode(&wr); err != nil {
		return decimal.Zero, fmt.Errorf("decode wallet balance: %w", err)
	}
	if wr.RetCode != 0 {
		msg := wr.RetMsg
		if msg == "" {
			msg = "Bybit API Error"
		}
		return decimal.Zero, &APIError{Code: wr.RetCode, Msg: msg}
	}
	if len(wr.Result.List) == 0 {
		return decimal.Zero, errors.New("bybit wallet balance: empty account list")
	}

	raw := wr.Result.List[0].TotalEquity
	if raw == "" {
		return decimal.Zero, nil
	}
	equity, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse totalEquity %q: %w", raw, err)
	}

	c.logger().Debug("bybit balance fetched", zap.String("equity", equity.String()))
	return equity, nil
}

func (c *Client) get(ctx context.Context, path, query string) (io.ReadCloser, error) {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base := c.BaseURL
	if base == "" {
		base = MainnetURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	u.Path = path
	u.RawQuery = query

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	ts := strconv.FormatInt(c.now().UnixMilli(), 10)
	recv := strconv.Itoa(c.recvWindow())
	req.Header.Set("X-BAPI-API-KEY", c.APIKey)
	req.Header.Set("X-BAPI-TIMESTAMP", ts)
	req.Header.Set("X-BAPI-SIGN", Sign(c.APISecret, ts, c.APIKey, recv, query))
	req.Header.Set("X-BAPI-RECV-WINDOW", recv)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bybit request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		resp.Body.Close()
		c.logger().Warn("bybit http error", zap.Int("status", resp.StatusCode), zap.String("path", path))
		return nil, fmt.Errorf("bybit http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return resp.Body, nil
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Client) recvWindow() int {
	if c.RecvWindow > 0 {
		return c.RecvWindow
	}
	return defaultRecvWindow
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}
