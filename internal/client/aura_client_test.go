package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"aura_gateway/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const wallet = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

type failureCounter struct {
	mu    sync.Mutex
	bases []string
}

func (f *failureCounter) RecordAuraCandidateFailure(baseURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bases = append(f.bases, baseURL)
}

func statusServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAuraClient_FailsOverToNextCandidate(t *testing.T) {
	down := statusServer(t, http.StatusBadGateway, "bad gateway")

	var gotPath, gotAddress, gotAuth string
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAddress = r.URL.Query().Get("address")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"address":"` + wallet + `","totalValueUSD":1234.5,"networks":[{"network":{"name":"Arbitrum One","chainId":42161},"tokens":[{"address":"0x0","symbol":"ETH","balance":"0.5","balanceUSD":1250,"network":"arbitrum"}],"totalValueUSD":"1250"}]}`))
	}))
	defer up.Close()

	failures := &failureCounter{}
	c := NewAuraClient([]string{down.URL + "/", " ", up.URL}, "secret", time.Second, nil, failures, zap.NewNop())

	portfolio, err := c.GetPortfolio(context.Background(), wallet)
	require.NoError(t, err)

	assert.Equal(t, "/portfolio/balances", gotPath)
	assert.Equal(t, wallet, gotAddress)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, wallet, portfolio.Address)
	assert.Equal(t, entity.FlexString("1234.5"), portfolio.TotalValueUSD)
	require.Len(t, portfolio.Networks, 1)
	assert.Equal(t, entity.FlexString("42161"), portfolio.Networks[0].Network.ChainID)
	assert.Equal(t, entity.FlexString("1250"), portfolio.Networks[0].Tokens[0].BalanceUSD)
	assert.Equal(t, []string{down.URL}, failures.bases)
}

func TestAuraClient_UndecodableBodyCountsAsFailure(t *testing.T) {
	garbage := statusServer(t, http.StatusOK, "<html>maintenance</html>")
	good := statusServer(t, http.StatusOK, `{"strategies":[{"llm":{"provider":"openai","model":"gpt-4"},"response":[{"name":"Hold","risk":"low","expectedYield":"2%","timeframe":"30 days","description":"d","actions":[]}]}]}`)

	failures := &failureCounter{}
	c := NewAuraClient([]string{garbage.URL, good.URL}, "", time.Second, nil, failures, zap.NewNop())

	strategies, err := c.GetStrategies(context.Background(), wallet)
	require.NoError(t, err)
	require.Len(t, strategies.Strategies, 1)
	assert.Equal(t, "Hold", strategies.Strategies[0].Response[0].Name)
	assert.Len(t, failures.bases, 1)
}

func TestAuraClient_AllCandidatesFail(t *testing.T) {
	first := statusServer(t, http.StatusInternalServerError, "")
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	failures := &failureCounter{}
	c := NewAuraClient([]string{first.URL, closedURL}, "", 500*time.Millisecond, nil, failures, zap.NewNop())

	_, err := c.GetPortfolio(context.Background(), wallet)
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrExternalService)
	assert.Contains(t, err.Error(), closedURL)
	assert.Len(t, failures.bases, 2)
}

func TestAuraClient_NoCandidates(t *testing.T) {
	c := NewAuraClient(nil, "", time.Second, nil, nil, zap.NewNop())
	_, err := c.GetStrategies(context.Background(), wallet)
	assert.ErrorIs(t, err, entity.ErrExternalService)
}

func TestAuraClient_CancelledContext(t *testing.T) {
	srv := statusServer(t, http.StatusOK, `{}`)
	c := NewAuraClient([]string{srv.URL}, "", time.Second, nil, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetPortfolio(ctx, wallet)
	assert.ErrorIs(t, err, context.Canceled)
}
