package restapi

import (
	"net/http"
	"strings"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	auraSource        = "AURA AdEx API"
	apiVersion        = "1.0.0"
	signRequestNotice = "Silakan lakukan konfirmasi di wallet Anda."
)

// Services are the application services behind the HTTP API.
type Services struct {
	Portfolio port.PortfolioService
	Actions   port.ActionService
	Transfers port.TransferService
	Signing   port.SigningService
	Fees      port.FeeEstimator
	Chat      port.ChatService
}

// Options configure request defaults.
type Options struct {
	// DefaultWalletAddress is the sender used when an action request names none.
	DefaultWalletAddress string
	// PublicBaseURL prefixes the default wallet callback link.
	PublicBaseURL string
	ChatEnabled   bool
}

// Handler serves the gateway API.
type Handler struct {
	networks NetworkRegistry
	svc      Services
	opts     Options
	adapter  inputAdapter
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(networks NetworkRegistry, svc Services, opts Options, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	isNetwork := func(name string) bool {
		_, ok := networks.GetNetworkDefinitionByName(name)
		return ok
	}
	return &Handler{
		networks: networks,
		svc:      svc,
		opts:     opts,
		adapter:  inputAdapter{networks: networks, defaultWallet: opts.DefaultWalletAddress},
		validate: newValidator(isNetwork),
		logger:   logger.Named("Handler"),
	}
}

func (h *Handler) check(c *gin.Context, title string, v any) bool {
	if err := h.validate.Struct(v); err != nil {
		respondBadRequest(c, title, toValidationError(err).Fields)
		return false
	}
	return true
}

// bindQuery binds the query string into q and answers 400 when it cannot be mapped.
func (h *Handler) bindQuery(c *gin.Context, title string, q any) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		respondBadRequest(c, title, []entity.FieldError{{Field: "query", Message: err.Error()}})
		return false
	}
	return true
}

type chatRequest struct {
	Messages      []port.ChatMessage `json:"messages"`
	WalletAddress string             `json:"walletAddress"`
}

// Chat handles POST /chat.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Messages) == 0 {
		respondBadRequest(c, "Messages array is required", nil)
		return
	}
	resp, err := h.svc.Chat.Chat(c.Request.Context(), req.Messages, req.WalletAddress)
	if err != nil {
		h.respondError(c, err, errorTitles{failed: "Failed to process chat message"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Portfolio handles GET /portfolio.
func (h *Handler) Portfolio(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		respondBadRequest(c, "Address parameter is required", nil)
		return
	}
	if !evmAddressPattern.MatchString(address) {
		respondBadRequest(c, "Invalid address format", []entity.FieldError{{Field: "address", Message: "must be a 0x-prefixed 40 hex character address"}})
		return
	}

	res, err := h.svc.Portfolio.GetPortfolio(c.Request.Context(), address)
	if err != nil {
		h.respondError(c, err, errorTitles{failed: "Failed to fetch portfolio data"})
		return
	}
	meta := gin.H{
		"source":  auraSource,
		"version": apiVersion,
		"cached":  res.Cached,
	}
	if res.Portfolio.Degraded() {
		meta["degraded"] = true
		meta["degradedReason"] = res.Portfolio.Reason
	}
	respondOK(c, res.Portfolio.Value, gin.H{"meta": meta})
}

type strategyQuery struct {
	Address   string `form:"address" validate:"required,evmaddress"`
	RiskLevel string `form:"riskLevel" validate:"omitempty,oneof=low moderate high"`
	Timeframe string `form:"timeframe" validate:"omitempty,oneof=1d 7d 30d 90d"`
}

// Strategy handles GET /strategy.
func (h *Handler) Strategy(c *gin.Context) {
	var q strategyQuery
	if !h.bindQuery(c, "Invalid parameters", &q) {
		return
	}
	if q.Address == "" {
		respondBadRequest(c, "Address parameter is required", nil)
		return
	}
	q.RiskLevel = strings.ToLower(q.RiskLevel)
	if !h.check(c, "Invalid parameters", q) {
		return
	}

	res, err := h.svc.Portfolio.GetStrategies(c.Request.Context(), q.Address, port.StrategyFilter{RiskLevel: q.RiskLevel, Timeframe: q.Timeframe})
	if err != nil {
		h.respondError(c, err, errorTitles{failed: "Failed to fetch strategy data"})
		return
	}
	meta := gin.H{
		"source":          auraSource,
		"version":         apiVersion,
		"totalStrategies": res.TotalStrategies,
	}
	if res.Strategies.Degraded() {
		meta["degraded"] = true
		meta["degradedReason"] = res.Strategies.Reason
	}
	respondOK(c, res.Strategies.Value, gin.H{
		"filters": gin.H{"riskLevel": nullable(q.RiskLevel), "timeframe": nullable(q.Timeframe)},
		"meta":    meta,
	})
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// PrepareAction handles POST /action.
func (h *Handler) PrepareAction(c *gin.Context) {
	raw, err := decodeRawInput(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "Invalid request parameters", []entity.FieldError{{Field: "body", Message: "must be a JSON object"}})
		return
	}
	in, err := h.adapter.action(raw)
	if err != nil {
		respondBadRequest(c, "Invalid request parameters", []entity.FieldError{{Field: "deadline", Message: err.Error()}})
		return
	}
	if !h.check(c, "Invalid request parameters", in) {
		return
	}

	rec, err := h.svc.Actions.Prepare(c.Request.Context(), port.ActionRequest{
		Operation:   entity.Operation(in.Operation),
		Platform:    in.Platform,
		Network:     in.Network,
		TokenIn:     in.TokenIn,
		TokenOut:    in.TokenOut,
		AmountIn:    in.AmountIn,
		FromAddress: in.FromAddress,
		Slippage:    in.Slippage,
		Deadline:    in.Deadline,
	})
	if err != nil {
		h.respondError(c, err, errorTitles{failed: "Failed to prepare action"})
		return
	}
	respondOK(c, actionData(rec), nil)
}

func actionData(rec entity.ActionRecord) gin.H {
	data := gin.H{
		"actionId":           rec.ActionID,
		"operation":          rec.Operation,
		"platform":           rec.Platform,
		"network":            rec.Network,
		"transactionRequest": rec.TransactionRequest,
		"approvals":          rec.Approvals,
		"estimatedFees":      rec.EstimatedFees,
		"status":             rec.Status,
		"requiresSignature":  rec.Status == entity.StatusPrepared || rec.Status == entity.StatusPendingSignature,
		"metadata":           rec.Metadata,
		"degraded":           rec.Degraded,
		"expiresAt":          rec.ExpiresAt,
	}
	if len(rec.DegradedReasons) > 0 {
		data["degradedReasons"] = rec.DegradedReasons
	}
	return data
}

// ActionStatus handles GET /action/:actionId.
func (h *Handler) ActionStatus(c *gin.Context) {
	rec, err := h.svc.Actions.Get(c.Param("actionId"))
	if err != nil {
		h.respondError(c, err, errorTitles{failed: "Failed to get action status", notFound: "Action not found"})
		return
	}
	data := actionData(rec)
	data["txHash"] = rec.TxHash
	data["error"] = rec.Error
	data["history"] = rec.History
	data["createdAt"] = rec.CreatedAt
	data["updatedAt"] = rec.UpdatedAt
	respondOK(c, data, nil)
}

// PrepareTransfer handles POST /transfer.
func (h *Handler) PrepareTransfer(c *gin.Context) {
	raw, err := decodeRawInput(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "Invalid request parameters", []entity.FieldError{{Field: "body", Message: "must be a JSON object"}})
		return
	}
	in := h.adapter.transfer(raw)
	if !h.check(c, "Invalid request parameters", in) {
		return
	}

	rec, err := h.svc.Transfers.Prepare(c.Request.Context(), port.TransferRequest{
		FromAddress: in.FromAddress,
		ToAddress:   in.ToAddress,
		Token:       in.Token,
		Amount:      in.Amount,
		Network:     in.Network,
		Memo:        in.Memo,
	})
	if err != nil {
		h.respondError(c, err, errorTitles{failed: "Failed to prepare transfer"})
		return
	}

	transferType := "ERC20_TRANSFER"
	if entity.IsNativeAddress(rec.Token.Address) {
		transferType = "NATIVE_TRANSFER"
	}
	data := gin.H{
		"transferId":         rec.TransferID,
		"fromAddress":        rec.FromAddress,
		"toAddress":          rec.ToAddress,
		"token":              rec.Token,
		"amount":             rec.Amount,
		"network":            rec.Network,
		"memo":               rec.Memo,
		"transactionRequest": rec.TransactionRequest,
		"estimatedFees":      rec.EstimatedFees,
		"status":             rec.Status,
		"requiresSignature":  true,
		"balanceCheck":       rec.BalanceCheck,
		"degraded":           rec.Degraded,
		"metadata": gin.H{
			"estimatedTime": "1-3 minutes",
			"riskLevel":     "low",
			"type":          transferType,
		},
	}
	if len(rec.DegradedReasons) > 0 {
		data["degradedReasons"] = rec.DegradedReasons
	}
	respondOK(c, data, nil)
}

// TransferStatus handles GET /transfer.
func (h *Handler) TransferStatus(c *gin.Context) {
	txHash := strings.TrimSpace(c.Query("txHash"))
	network := strings.TrimSpace(c.Query("network"))
	if txHash == "" || network == "" {
		respondBadRequest(c, "Transaction hash and network are required", nil)
		return
	}

	status, err := h.svc.Transfers.Status(c.Request.Context(), h.networks.NormalizeNetwork(network), txHash)
	if err != nil {
		h.respondError(c, err, errorTitles{failed: "Failed to get transfer status"})
		return
	}
	data := gin.H{
		"txHash":        status.TxHash,
		"network":       status.Network,
		"status":        status.Status,
		"confirmations": status.Confirmations,
		"explorerUrl":   status.ExplorerURL,
	}
	if status.BlockNumber > 0 {
		data["blockNumber"] = status.BlockNumber
		data["gasUsed"] = status.GasUsed
		data["effectiveGasPrice"] = status.EffectiveGasPrice
	}
	if id := c.Query("transferId"); id != "" {
		data["transferId"] = id
	}
	respondOK(c, data, nil)
}

// SignRequest handles POST /sign-request.
func (h *Handler) SignRequest(c *gin.Context) {
	raw, err := decodeRawInput(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "Invalid request parameters", []entity.FieldError{{Field: "body", Message: "must be a JSON object"}})
		return
	}
	in := h.adapter.signRequest(raw)
	if missing := in.missingSignFields(); len(missing) > 0 {
		details := make([]entity.FieldError, 0, len(missing))
		for _, f := range missing {
			details = append(details, entity.FieldError{Field: f, Message: "is required"})
		}
		respondBadRequest(c, "Invalid request parameters", details)
		return
	}
	if !h.check(c, "Invalid request parameters", in) {
		return
	}
	if in.UserCallbackURL == "" {
		in.UserCallbackURL = h.callbackURL(c)
	}

	res, err := h.svc.Signing.CreateSession(c.Request.Context(), port.SignRequest{
		ActionID:        in.ActionID,
		Operation:       entity.Operation(in.Operation),
		FromAddress:     in.FromAddress,
		Network:         in.Network,
		Platform:        in.Platform,
		TokenIn:         in.TokenIn,
		TokenOut:        in.TokenOut,
		AmountIn:        in.AmountIn,
		TargetAddress:   in.TargetAddress,
		Slippage:        in.Slippage,
		UserCallbackURL: in.UserCallbackURL,
		Metadata:        in.Metadata,
	})
	if err != nil {
		h.respondError(c, err, errorTitles{failed: "Failed to prepare signature request", notFound: "Action not found"})
		return
	}

	data := gin.H{
		"sessionId":          res.Session.SessionID,
		"actionId":           res.Session.ActionID,
		"redirectUrl":        res.WalletConnectURI,
		"operationDetails":   res.Session.OperationDetails,
		"transactionRequest": res.Session.TransactionRequest,
		"estimatedFees":      res.Session.EstimatedFees,
		"expiresAt":          res.Session.ExpiresAt,
		"qrCode":             res.QRCodeURL,
		"deepLink":           res.DeepLinks,
		"instructions":       res.Instructions,
		"degraded":           res.Session.Degraded,
	}
	if len(res.Session.Approvals) > 0 {
		data["approvals"] = res.Session.Approvals
	}
	if len(res.DegradedReasons) > 0 {
		data["degradedReasons"] = res.DegradedReasons
	}
	respondOK(c, data, gin.H{"message": signRequestNotice})
}

func (h *Handler) callbackURL(c *gin.Context) string {
	base := strings.TrimRight(h.opts.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/sign-callback"
}

type signCallbackQuery struct {
	SessionID string `form:"sessionId" validate:"required"`
	TxHash    string `form:"txHash"`
	Status    string `form:"status" validate:"required,oneof=success fail cancelled"`
	Network   string `form:"network" validate:"omitempty,network"`
	Error     string `form:"error"`
}

// SignCallback handles GET /sign-callback.
func (h *Handler) SignCallback(c *gin.Context) {
	var q signCallbackQuery
	if !h.bindQuery(c, "Invalid callback parameters", &q) {
		return
	}
	if q.Network != "" {
		q.Network = h.networks.NormalizeNetwork(q.Network)
	}
	if !h.check(c, "Invalid callback parameters", q) {
		return
	}

	res, err := h.svc.Signing.HandleCallback(c.Request.Context(), port.SignCallback{
		SessionID: q.SessionID,
		TxHash:    q.TxHash,
		Status:    entity.ActionStatus(q.Status),
		Network:   q.Network,
		Error:     q.Error,
	})
	if err != nil {
		h.respondError(c, err, errorTitles{failed: "Failed to process callback", notFound: "Session not found or expired"})
		return
	}

	data := callbackData{
		SessionID:              res.Session.SessionID,
		Operation:              string(res.Session.Operation),
		Status:                 string(res.Session.Status),
		TransactionDetails:     res.Transaction,
		TransactionError:       res.TransactionError,
		PortfolioRefreshNeeded: res.PortfolioRefreshNeeded,
		NextSteps:              res.NextSteps,
	}
	success := res.Session.Status == entity.StatusSuccess

	if isDesktopBrowser(c.GetHeader("User-Agent")) {
		page, err := renderCallbackPage(success, data)
		if err != nil {
			h.respondError(c, err, errorTitles{failed: "Failed to process callback"})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   success,
		"data":      data,
		"timestamp": timestamp(),
	})
}

func isDesktopBrowser(userAgent string) bool {
	return strings.Contains(userAgent, "Mozilla") && !strings.Contains(userAgent, "Mobile")
}

type feesQuery struct {
	Network   string `form:"network" validate:"required,network"`
	Operation string `form:"operation" validate:"oneof=swap stake bridge transfer"`
}

// Fees handles GET /fees.
func (h *Handler) Fees(c *gin.Context) {
	var q feesQuery
	if !h.bindQuery(c, "Invalid parameters", &q) {
		return
	}
	if q.Network != "" {
		q.Network = h.networks.NormalizeNetwork(q.Network)
	}
	q.Operation = strings.ToLower(q.Operation)
	if q.Operation == "" {
		q.Operation = string(entity.OperationSwap)
	}
	if !h.check(c, "Invalid parameters", q) {
		return
	}

	est, err := h.svc.Fees.QuickEstimate(c.Request.Context(), q.Network, entity.Operation(q.Operation))
	if err != nil {
		h.respondError(c, err, errorTitles{failed: "Failed to estimate fees"})
		return
	}
	data := gin.H{
		"network":       q.Network,
		"operation":     q.Operation,
		"estimatedFees": est.Value,
		"degraded":      est.Degraded(),
	}
	if est.Degraded() {
		data["degradedReason"] = est.Reason
	}
	respondOK(c, data, nil)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	defs := h.networks.GetAllNetworkDefinitions()
	networks := make([]string, 0, len(defs))
	for _, d := range defs {
		networks = append(networks, d.Identifier)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"version":     apiVersion,
		"networks":    networks,
		"chatEnabled": h.opts.ChatEnabled,
		"timestamp":   timestamp(),
	})
}
