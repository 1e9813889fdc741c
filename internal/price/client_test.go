package price

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
	"pairs": [{
		"priceUsd": "0.001234",
		"priceChange": {"m5": 0.1, "m30": -0.5, "h1": 1.2, "h24": -3.4},
		"fdv": 1234567.89,
		"liquidity": {"usd": 45678.9},
		"volume": {"h24": 9876.54}
	}]
}`

func TestClient_PairData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/pairs/ton/test-pair", r.URL.Path)
		w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-pair", server.URL)
	pair, err := client.PairData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "0.001234", pair.PriceUSD)
	assert.Equal(t, -3.4, pair.PriceChange.H24)
	assert.Equal(t, 1234567.89, pair.FDV)
	assert.Equal(t, 45678.9, pair.Liquidity.USD)
	assert.Equal(t, 9876.54, pair.Volume.H24)
}

func TestClient_PairDataErrors(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"server error", http.StatusInternalServerError, "", "status 500"},
		{"empty pairs", http.StatusOK, `{"pairs": []}`, "no pairs"},
		{"invalid json", http.StatusOK, `{`, "decode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClientWithBaseURL("test-pair", server.URL)
			_, err := client.PairData(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestPair_ChangeFor(t *testing.T) {
	pair := Pair{PriceChange: PriceChange{M5: 1, M30: 2, H1: 3, H24: 4}}

	assert.Equal(t, 1.0, pair.ChangeFor("5m"))
	assert.Equal(t, 2.0, pair.ChangeFor("30m"))
	assert.Equal(t, 3.0, pair.ChangeFor("1h"))
	assert.Equal(t, 4.0, pair.ChangeFor("1d"))
	assert.Equal(t, 4.0, pair.ChangeFor("all"))
}
