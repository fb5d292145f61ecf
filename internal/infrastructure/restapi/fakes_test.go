package restapi

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	networkdefinition "aura_gateway/internal/infrastructure/network/definition"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testWallet    = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	testRecipient = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"
	testTxHash    = "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePortfolio struct {
	portfolio port.PortfolioResult
	strategy  port.StrategyResult
	err       error
	filter    port.StrategyFilter
}

func (f *fakePortfolio) GetPortfolio(context.Context, string) (port.PortfolioResult, error) {
	return f.portfolio, f.err
}

func (f *fakePortfolio) GetStrategies(_ context.Context, _ string, filter port.StrategyFilter) (port.StrategyResult, error) {
	f.filter = filter
	return f.strategy, f.err
}

type fakeActions struct {
	rec     entity.ActionRecord
	err     error
	last    port.ActionRequest
	records map[string]entity.ActionRecord
}

func (f *fakeActions) Prepare(_ context.Context, req port.ActionRequest) (entity.ActionRecord, error) {
	f.last = req
	return f.rec, f.err
}

func (f *fakeActions) Get(actionID string) (entity.ActionRecord, error) {
	rec, ok := f.records[actionID]
	if !ok {
		return entity.ActionRecord{}, entity.ErrNotFound
	}
	return rec, nil
}

func (f *fakeActions) UpdateStatus(actionID string, status entity.ActionStatus, txHash, errMsg string) (entity.ActionRecord, error) {
	rec, err := f.Get(actionID)
	rec.Status = status
	return rec, err
}

type fakeTransfers struct {
	rec        entity.TransferRecord
	status     port.TransactionStatus
	err        error
	last       port.TransferRequest
	lastStatus [2]string
}

func (f *fakeTransfers) Prepare(_ context.Context, req port.TransferRequest) (entity.TransferRecord, error) {
	f.last = req
	return f.rec, f.err
}

func (f *fakeTransfers) Status(_ context.Context, network, txHash string) (port.TransactionStatus, error) {
	f.lastStatus = [2]string{network, txHash}
	return f.status, f.err
}

type fakeSigning struct {
	result   port.SignRequestResult
	callback port.SignCallbackResult
	err      error
	last     port.SignRequest
	lastCB   port.SignCallback
}

func (f *fakeSigning) CreateSession(_ context.Context, req port.SignRequest) (port.SignRequestResult, error) {
	f.last = req
	return f.result, f.err
}

func (f *fakeSigning) HandleCallback(_ context.Context, cb port.SignCallback) (port.SignCallbackResult, error) {
	f.lastCB = cb
	return f.callback, f.err
}

func (f *fakeSigning) SessionTTL() time.Duration { return 30 * time.Minute }

type fakeFees struct {
	estimate  entity.Outcome[entity.FeeEstimate]
	err       error
	network   string
	operation entity.Operation
}

func (f *fakeFees) Estimate(context.Context, string, entity.TransactionRequest) (entity.Outcome[entity.FeeEstimate], error) {
	return f.estimate, f.err
}

func (f *fakeFees) QuickEstimate(_ context.Context, network string, operation entity.Operation) (entity.Outcome[entity.FeeEstimate], error) {
	f.network, f.operation = network, operation
	return f.estimate, f.err
}

type fakeChat struct {
	resp port.ChatResponse
	err  error
}

func (f *fakeChat) Chat(context.Context, []port.ChatMessage, string) (port.ChatResponse, error) {
	return f.resp, f.err
}

type apiFixture struct {
	router    *gin.Engine
	portfolio *fakePortfolio
	actions   *fakeActions
	transfers *fakeTransfers
	signing   *fakeSigning
	fees      *fakeFees
	chat      *fakeChat
}

func newAPIFixture(t *testing.T, opts Options) *apiFixture {
	t.Helper()
	f := &apiFixture{
		portfolio: &fakePortfolio{},
		actions:   &fakeActions{records: map[string]entity.ActionRecord{}},
		transfers: &fakeTransfers{},
		signing:   &fakeSigning{},
		fees:      &fakeFees{},
		chat:      &fakeChat{},
	}
	networks := networkdefinition.NewNetworkDefinitionProvider(nil, zap.NewNop())
	h := NewHandler(networks, Services{
		Portfolio: f.portfolio,
		Actions:   f.actions,
		Transfers: f.transfers,
		Signing:   f.signing,
		Fees:      f.fees,
		Chat:      f.chat,
	}, opts, zap.NewNop())
	f.router = SetupRouter(h, nil, zap.NewNop())
	return f
}

func (f *apiFixture) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func field(t *testing.T, m map[string]any, key string) map[string]any {
	t.Helper()
	v, ok := m[key].(map[string]any)
	require.Truef(t, ok, "%s is not an object: %v", key, m[key])
	return v
}

func detailFields(t *testing.T, body map[string]any) []string {
	t.Helper()
	details, ok := body["details"].([]any)
	require.Truef(t, ok, "details missing: %v", body)
	out := make([]string, 0, len(details))
	for _, d := range details {
		out = append(out, d.(map[string]any)["field"].(string))
	}
	return out
}
