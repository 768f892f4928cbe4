package bybit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.UnixMilli(1700000000000)

func newTestClient(url string) *Client {
	return &Client{
		BaseURL:    url,
		APIKey:     "key",
		APISecret:  "secret",
		RecvWindow: 5000,
		HTTP:       &http.Client{Timeout: 5 * time.Second},
		Now:        func() time.Time { return fixedNow },
	}
}

func TestSign(t *testing.T) {
	t.Parallel()

	// HMAC-SHA256("secret", "1700000000000key5000accountType=UNIFIED")
	got := Sign("secret", "1700000000000", "key", "5000", "accountType=UNIFIED")
	assert.Len(t, got, 64)
	assert.Equal(t, got, Sign("secret", "1700000000000", "key", "5000", "accountType=UNIFIED"))
	assert.NotEqual(t, got, Sign("other", "1700000000000", "key", "5000", "accountType=UNIFIED"))
	assert.NotEqual(t, got, Sign("secret", "1700000000001", "key", "5000", "accountType=UNIFIED"))

	// RFC 4231 test case 2
	assert.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		Sign("Jefe", "what do ya want ", "", "", "for nothing?"))
}

func TestBalance_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v5/account/wallet-balance", r.URL.Path)
		assert.Equal(t, "UNIFIED", r.URL.Query().Get("accountType"))

		assert.Equal(t, "key", r.Header.Get("X-BAPI-API-KEY"))
		assert.Equal(t, "1700000000000", r.Header.Get("X-BAPI-TIMESTAMP"))
		assert.Equal(t, "5000", r.Header.Get("X-BAPI-RECV-WINDOW"))
		assert.Equal(t,
			Sign("secret", "1700000000000", "key", "5000", "accountType=UNIFIED"),
			r.Header.Get("X-BAPI-SIGN"))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"retCode":0,"retMsg":"OK","result":{"list":[{"totalEquity":"10250.4321","accountType":"UNIFIED"}]}}`))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Balance(context.Background())
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("10250.4321")), got.String())
}

func TestBalance_MissingCredentials(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	c.APISecret = ""
	_, err := c.Balance(context.Background())
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Equal(t, 0, calls)
}

func TestBalance_APIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"retCode":10003,"retMsg":"API key is invalid.","result":{}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Balance(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 10003, apiErr.Code)
	assert.Equal(t, "API key is invalid.", apiErr.Msg)
}

func TestBalance_HTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Balance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestBalance_BadPayloads(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"not json", `<html>`, "decode wallet balance"},
		{"empty list", `{"retCode":0,"result":{"list":[]}}`, "empty account list"},
		{"bad equity", `{"retCode":0,"result":{"list":[{"totalEquity":"lots"}]}}`, "parse totalEquity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Balance(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBalance_ContextCanceled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"retCode":0,"result":{"list":[{"totalEquity":"1"}]}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(server.URL).Balance(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBaseURL(t *testing.T) {
	t.Parallel()

	u, err := BaseURL("testnet")
	require.NoError(t, err)
	assert.Equal(t, TestnetURL, u)

	u, err = BaseURL("")
	require.NoError(t, err)
	assert.Equal(t, MainnetURL, u)

	_, err = BaseURL("moon")
	assert.Error(t, err)
}
