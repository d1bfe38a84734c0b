package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio_tracker/internal/client"
	"portfolio_tracker/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBlockscoutSourceFetchTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "1",
			"message": "OK",
			"result": [
				{"balance": "5000000", "contractAddress": "0xAAA0000000000000000000000000000000000001", "decimals": "6", "name": "USD Coin", "symbol": "USDC", "type": "ERC-20"},
				{"balance": "1000000000000000000", "contractAddress": "0x0000000000000000000000000000000000000000", "decimals": "18", "name": "Ether", "symbol": "ETH", "type": "ERC-20"},
				{"balance": "1", "contractAddress": "0xaaa0000000000000000000000000000000000002", "decimals": "0", "name": "Punk", "symbol": "PUNK", "type": "ERC-721"},
				{"balance": "100", "contractAddress": "0xaaa0000000000000000000000000000000000003", "decimals": "18", "name": "No Symbol", "symbol": "", "type": "ERC-20"},
				{"balance": "0", "contractAddress": "0xaaa0000000000000000000000000000000000004", "decimals": "18", "name": "Drained", "symbol": "GONE", "type": "ERC-20"},
				{"balance": "7000000000000000000", "contractAddress": "0xaaa0000000000000000000000000000000000005", "decimals": "", "name": "No Decimals", "symbol": "RAW", "type": "ERC-20"}
			]
		}`))
	}))
	defer srv.Close()

	source := NewBlockscoutSource(client.NewBlockscoutClient(5*time.Second, zap.NewNop()), zap.NewNop())
	chain := entity.Chain{ID: 10, Name: "OP Mainnet", ExplorerAPIURL: srv.URL}

	records, err := source.FetchTokens(context.Background(), chain, "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	require.Len(t, records, 2)

	usdc := records[0]
	assert.Equal(t, "0xaaa0000000000000000000000000000000000001", usdc.ContractAddress)
	assert.Equal(t, "USDC", usdc.Symbol)
	assert.Equal(t, uint8(6), usdc.Decimals)
	assert.Equal(t, "5", usdc.Formatted)
	assert.Equal(t, "blockscout", usdc.Source)

	// Missing decimal count defaults to 18.
	raw := records[1]
	assert.Equal(t, "RAW", raw.Symbol)
	assert.Equal(t, uint8(18), raw.Decimals)
	assert.Equal(t, "7", raw.Formatted)
}

func TestBlockscoutSourceEmptyWallet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "0", "message": "No tokens found", "result": "No tokens found"}`))
	}))
	defer srv.Close()

	source := NewBlockscoutSource(client.NewBlockscoutClient(5*time.Second, zap.NewNop()), zap.NewNop())
	chain := entity.Chain{ID: 10, Name: "OP Mainnet", ExplorerAPIURL: srv.URL}

	records, err := source.FetchTokens(context.Background(), chain, "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestBlockscoutSourceSupports(t *testing.T) {
	source := NewBlockscoutSource(client.NewBlockscoutClient(time.Second, zap.NewNop()), zap.NewNop())

	assert.True(t, source.Supports(entity.Chain{ExplorerAPIURL: "https://eth.blockscout.com/api"}))
	assert.False(t, source.Supports(entity.Chain{}))
}
