package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	weth = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
	usdc = "0xaf88d065e77c8cC2239327C5EDb3A432268e5831"
	arb  = "0x912CE59144191C1204E64559FE8253a0e49E6548"
)

func TestDEXScreener_DirectArray(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[{"chainId":"arbitrum","pairAddress":"0xp1","baseToken":{"address":"` + weth + `","symbol":"WETH"},"quoteToken":{"symbol":"USDC"},"priceUsd":"2500.1","liquidity":{"usd":1000000}}]`))
	}))
	defer srv.Close()

	c := NewDEXScreenerClient(srv.URL+"/", time.Second, rate.NewLimiter(rate.Inf, 1), zap.NewNop(), 0)
	pairs, err := c.GetTokenPairsByAddresses(context.Background(), "arbitrum", []string{weth})
	require.NoError(t, err)

	assert.Equal(t, "/tokens/v1/arbitrum/"+weth, gotPath)
	require.Len(t, pairs, 1)
	assert.Equal(t, "2500.1", pairs[0].PriceUsd)
	require.NotNil(t, pairs[0].Liquidity)
	assert.Equal(t, 1_000_000.0, pairs[0].Liquidity.Usd)
}

func TestDEXScreener_WrappedObject(t *testing.T) {
	srv := statusServer(t, http.StatusOK, `{"schemaVersion":"1.0.0","pairs":[{"pairAddress":"0xp2","baseToken":{"address":"`+usdc+`"},"quoteToken":{"symbol":"USDT"},"priceUsd":"1.0001","liquidity":null}]}`)

	pairs, err := NewDEXScreenerClient(srv.URL, time.Second, nil, zap.NewNop(), 0).GetTokenPairsByAddresses(context.Background(), "arbitrum", []string{usdc})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "0xp2", pairs[0].PairAddress)
	assert.Nil(t, pairs[0].Liquidity)
}

func TestDEXScreener_Batches(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, strings.TrimPrefix(r.URL.Path, "/tokens/v1/arbitrum/"))
		mu.Unlock()
		_, _ = w.Write([]byte(`[{"pairAddress":"0xp","baseToken":{"address":"x"},"quoteToken":{"symbol":"USDC"},"priceUsd":"1"}]`))
	}))
	defer srv.Close()

	c := NewDEXScreenerClient(srv.URL, time.Second, nil, zap.NewNop(), 2)
	pairs, err := c.GetTokenPairsByAddresses(context.Background(), "arbitrum", []string{weth, usdc, arb})
	require.NoError(t, err)

	assert.Len(t, pairs, 2)
	assert.Equal(t, []string{weth + "," + usdc, arb}, requests)
}

func TestDEXScreener_Errors(t *testing.T) {
	c := NewDEXScreenerClient("http://127.0.0.1:1", time.Second, nil, zap.NewNop(), 0)
	_, err := c.GetTokenPairsByAddresses(context.Background(), "arbitrum", nil)
	assert.EqualError(t, err, "tokenAddresses cannot be empty")

	notFound := statusServer(t, http.StatusNotFound, `{"error":"not found"}`)
	_, err = NewDEXScreenerClient(notFound.URL, time.Second, nil, zap.NewNop(), 0).GetTokenPairsByAddresses(context.Background(), "arbitrum", []string{weth})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed with status 404")

	garbage := statusServer(t, http.StatusOK, `not json`)
	_, err = NewDEXScreenerClient(garbage.URL, time.Second, nil, zap.NewNop(), 0).GetTokenPairsByAddresses(context.Background(), "arbitrum", []string{weth})
	assert.ErrorContains(t, err, "failed to unmarshal")
}
