package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/url"
	"strings"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	walletConnectBridge = "https://bridge.walletconnect.org"
	qrCodeBaseURL       = "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data="
)

var signInstructions = map[string]string{
	"mobile":  "Tap the button below to open your wallet app",
	"desktop": "Scan the QR code with your mobile wallet or use WalletConnect",
	"web":     "Connect your browser wallet extension",
}

var operationNextSteps = map[entity.Operation]string{
	entity.OperationSwap:     "Swap completed - check your wallet for new tokens",
	entity.OperationBridge:   "Bridge transfer initiated - tokens will arrive on destination chain",
	entity.OperationStake:    "Staking position created - you will start earning rewards",
	entity.OperationTransfer: "Transfer completed - recipient should receive tokens shortly",
}

type signingServiceImpl struct {
	networks port.NetworkDefinitionProvider
	clients  port.BlockchainClientProvider
	actions  port.ActionService
	builder  port.TxBuilder
	fees     port.FeeEstimator
	sessions port.KVStore[entity.SignSession]
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewSigningService creates the signing session service. Sessions expire after ttl.
func NewSigningService(
	networks port.NetworkDefinitionProvider,
	clients port.BlockchainClientProvider,
	actions port.ActionService,
	builder port.TxBuilder,
	fees port.FeeEstimator,
	sessions port.KVStore[entity.SignSession],
	ttl time.Duration,
	logger *zap.Logger,
) port.SigningService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &signingServiceImpl{
		networks: networks,
		clients:  clients,
		actions:  actions,
		builder:  builder,
		fees:     fees,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger.Named("SigningService"),
		now:      time.Now,
	}
}

func (s *signingServiceImpl) SessionTTL() time.Duration {
	return s.ttl
}

// CreateSession prepares the transaction, stores a signing session and builds the wallet links.
func (s *signingServiceImpl) CreateSession(ctx context.Context, req port.SignRequest) (port.SignRequestResult, error) {
	if _, err := url.ParseRequestURI(req.UserCallbackURL); err != nil {
		return port.SignRequestResult{}, entity.NewValidationError("userCallbackUrl", "must be a valid URL")
	}

	session, reasons, err := s.prepare(ctx, req)
	if err != nil {
		return port.SignRequestResult{}, err
	}

	now := s.now()
	session.SessionID = "session_" + uuid.NewString()
	session.CallbackURL = req.UserCallbackURL
	session.Status = entity.StatusPendingSignature
	session.CreatedAt = now
	session.ExpiresAt = now.Add(s.ttl)
	session.Degraded = reasons.Any()

	def, err := lookupNetwork(s.networks, session.Network)
	if err != nil {
		return port.SignRequestResult{}, err
	}
	uri, err := walletConnectURI(def.ChainID, session, callbackWithSession(req.UserCallbackURL, session.SessionID))
	if err != nil {
		return port.SignRequestResult{}, err
	}

	s.sessions.Put(session.SessionID, session, s.ttl)
	if session.ActionID != "" {
		if _, err := s.actions.UpdateStatus(session.ActionID, entity.StatusPendingSignature, "", ""); err != nil {
			s.logger.Warn("Failed to mark action as pending signature", zap.String("actionId", session.ActionID), zap.Error(err))
		}
	}
	s.logger.Info("Signing session created",
		zap.String("sessionId", session.SessionID),
		zap.String("operation", string(session.Operation)),
		zap.String("network", session.Network))

	return port.SignRequestResult{
		Session:          session,
		WalletConnectURI: uri,
		QRCodeURL:        qrCodeBaseURL + url.QueryEscape(uri),
		DeepLinks:        deepLinks(uri),
		Instructions:     signInstructions,
		DegradedReasons:  reasons,
	}, nil
}

func (s *signingServiceImpl) prepare(ctx context.Context, req port.SignRequest) (entity.SignSession, entity.DegradedReasons, error) {
	if req.ActionID != "" {
		rec, err := s.actions.Get(req.ActionID)
		if err != nil {
			return entity.SignSession{}, nil, err
		}
		return entity.SignSession{
			ActionID:           rec.ActionID,
			FromAddress:        rec.FromAddress,
			Operation:          rec.Operation,
			Network:            rec.Network,
			TransactionRequest: rec.TransactionRequest,
			Approvals:          rec.Approvals,
			EstimatedFees:      rec.EstimatedFees,
			OperationDetails:   operationDetails(rec.Operation, rec.Platform, rec.Metadata.AmountIn, rec.Metadata.TokenIn, rec.Metadata.TokenOut, "", rec.Metadata.RiskLevel),
		}, entity.DegradedReasons(rec.DegradedReasons), nil
	}

	if err := checkSignRequestFields(req); err != nil {
		return entity.SignSession{}, nil, err
	}

	if req.Operation == entity.OperationTransfer {
		return s.prepareTransfer(ctx, req)
	}

	platform := req.Platform
	if platform == "" {
		platform = defaultPlatformFor(req.Operation)
	}
	rec, err := s.actions.Prepare(ctx, port.ActionRequest{
		Operation:   req.Operation,
		Platform:    platform,
		Network:     req.Network,
		TokenIn:     req.TokenIn,
		TokenOut:    req.TokenOut,
		AmountIn:    req.AmountIn,
		FromAddress: req.FromAddress,
		Slippage:    req.Slippage,
	})
	if err != nil {
		return entity.SignSession{}, nil, err
	}
	return entity.SignSession{
		ActionID:           rec.ActionID,
		FromAddress:        rec.FromAddress,
		Operation:          rec.Operation,
		Network:            rec.Network,
		TransactionRequest: rec.TransactionRequest,
		Approvals:          rec.Approvals,
		EstimatedFees:      rec.EstimatedFees,
		OperationDetails:   operationDetails(req.Operation, platform, req.AmountIn, req.TokenIn, req.TokenOut, "", rec.Metadata.RiskLevel),
	}, entity.DegradedReasons(rec.DegradedReasons), nil
}

func (s *signingServiceImpl) prepareTransfer(ctx context.Context, req port.SignRequest) (entity.SignSession, entity.DegradedReasons, error) {
	def, err := lookupNetwork(s.networks, req.Network)
	if err != nil {
		return entity.SignSession{}, nil, err
	}
	built, err := s.builder.BuildTransfer(ctx, port.TransferParams{
		Network:   def.Identifier,
		Token:     req.TokenIn,
		Amount:    req.AmountIn,
		From:      req.FromAddress,
		Recipient: req.TargetAddress,
	})
	if err != nil {
		return entity.SignSession{}, nil, fmt.Errorf("failed to build transfer transaction: %w", err)
	}
	fees, err := s.fees.Estimate(ctx, def.Identifier, built.Transaction.Value)
	if err != nil {
		return entity.SignSession{}, nil, err
	}
	var reasons entity.DegradedReasons
	reasons.Note("token", built.Token.Degraded(), built.Token.Reason)
	reasons.Note("fees", fees.Degraded(), fees.Reason)

	return entity.SignSession{
		FromAddress:        req.FromAddress,
		Operation:          entity.OperationTransfer,
		Network:            def.Identifier,
		TransactionRequest: built.Transaction.Value,
		EstimatedFees:      fees.Value,
		OperationDetails:   operationDetails(entity.OperationTransfer, "Native", req.AmountIn, req.TokenIn, "", req.TargetAddress, "low"),
	}, reasons, nil
}

func checkSignRequestFields(req port.SignRequest) error {
	var ok bool
	switch req.Operation {
	case entity.OperationSwap, entity.OperationBridge:
		ok = req.TokenIn != "" && req.TokenOut != "" && req.AmountIn != ""
	case entity.OperationStake:
		ok = req.TokenIn != "" && req.AmountIn != ""
	case entity.OperationTransfer:
		ok = req.TargetAddress != "" && req.TokenIn != "" && req.AmountIn != ""
	default:
		return fmt.Errorf("%w: %s", entity.ErrUnsupportedOperation, req.Operation)
	}
	if !ok {
		return entity.NewValidationError("operation", fmt.Sprintf("Missing required parameters for %s operation", req.Operation))
	}
	return nil
}

func defaultPlatformFor(op entity.Operation) string {
	switch op {
	case entity.OperationBridge:
		return "Stargate"
	case entity.OperationStake:
		return "Aave"
	case entity.OperationTransfer:
		return "Native"
	default:
		return defaultPlatform
	}
}

func operationDetails(op entity.Operation, platform, amount, tokenIn, tokenOut, target, risk string) map[string]string {
	var description string
	switch op {
	case entity.OperationSwap:
		description = fmt.Sprintf("Swap %s %s for %s", amount, tokenIn, tokenOut)
	case entity.OperationBridge:
		description = fmt.Sprintf("Bridge %s %s to %s", amount, tokenIn, tokenOut)
	case entity.OperationStake:
		description = fmt.Sprintf("Stake %s %s", amount, tokenIn)
	case entity.OperationTransfer:
		description = fmt.Sprintf("Transfer %s %s to %s", amount, tokenIn, target)
	}
	if platform == "" {
		platform = defaultPlatformFor(op)
	}
	return map[string]string{
		"type":        string(op),
		"description": description,
		"platform":    platform,
		"risk":        risk,
	}
}

func callbackWithSession(callbackURL, sessionID string) string {
	sep := "?"
	if strings.Contains(callbackURL, "?") {
		sep = "&"
	}
	return callbackURL + sep + "sessionId=" + url.QueryEscape(sessionID)
}

type walletConnectPayload struct {
	Topic     string                    `json:"topic"`
	Version   string                    `json:"version"`
	Bridge    string                    `json:"bridge"`
	Key       string                    `json:"key"`
	ChainID   uint64                    `json:"chainId"`
	Operation entity.Operation          `json:"operation"`
	TxData    entity.TransactionRequest `json:"txData"`
	Callback  string                    `json:"callback"`
}

// walletConnectURI builds a WalletConnect v2 style pairing URI carrying the transaction.
func walletConnectURI(chainID uint64, session entity.SignSession, callback string) (string, error) {
	topic, err := randomHex(32)
	if err != nil {
		return "", err
	}
	key, err := randomHex(32)
	if err != nil {
		return "", err
	}
	payload := walletConnectPayload{
		Topic:     strings.TrimPrefix(topic, "0x"),
		Version:   "2",
		Bridge:    walletConnectBridge,
		Key:       key,
		ChainID:   chainID,
		Operation: session.Operation,
		TxData:    session.TransactionRequest,
		Callback:  callback,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode WalletConnect payload: %w", err)
	}
	return fmt.Sprintf("wc:%s@%s?relay-protocol=irn&symKey=%s&data=%s",
		payload.Topic, payload.Version, payload.Key, url.QueryEscape(string(raw))), nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hexutil.Encode(buf), nil
}

func deepLinks(uri string) map[string]string {
	encoded := url.QueryEscape(uri)
	return map[string]string{
		"metamask": "metamask://wc?uri=" + encoded,
		"trust":    "trust://wc?uri=" + encoded,
		"rainbow":  "rainbow://wc?uri=" + encoded,
		"coinbase": "cbwallet://wc?uri=" + encoded,
		"generic":  uri,
	}
}

// HandleCallback records the wallet's outcome for a session and, for a reported success,
// reads the transaction receipt.
func (s *signingServiceImpl) HandleCallback(ctx context.Context, cb port.SignCallback) (port.SignCallbackResult, error) {
	switch cb.Status {
	case entity.StatusSuccess, entity.StatusFail, entity.StatusCancelled:
	default:
		return port.SignCallbackResult{}, entity.NewValidationError("status", "must be one of success, fail, cancelled")
	}

	session, ok := s.sessions.Get(cb.SessionID)
	if !ok {
		return port.SignCallbackResult{}, fmt.Errorf("%w: session %s", entity.ErrNotFound, cb.SessionID)
	}
	if session.CompletedAt != nil {
		return port.SignCallbackResult{}, entity.NewValidationError("sessionId", "session already completed")
	}

	network := session.Network
	if cb.Network != "" {
		network = cb.Network
	}

	result := port.SignCallbackResult{}
	if cb.Status == entity.StatusSuccess && cb.TxHash != "" {
		def, err := lookupNetwork(s.networks, network)
		if err != nil {
			return port.SignCallbackResult{}, err
		}
		status, err := transactionStatus(ctx, s.clients, def, cb.TxHash)
		if err != nil {
			s.logger.Warn("Failed to fetch transaction details",
				zap.String("sessionId", cb.SessionID),
				zap.String("txHash", cb.TxHash),
				zap.Error(err))
			result.Transaction = &port.TransactionStatus{TxHash: cb.TxHash, Network: def.Identifier, Status: "unknown", ExplorerURL: def.ExplorerTxURL(cb.TxHash)}
			result.TransactionError = "Failed to fetch transaction details"
		} else {
			result.Transaction = &status
			result.PortfolioRefreshNeeded = status.Status == txStatusSuccess
		}
	}

	now := s.now()
	session.Status = cb.Status
	session.TxHash = cb.TxHash
	session.Error = cb.Error
	session.CompletedAt = &now
	if remaining := session.ExpiresAt.Sub(now); remaining > 0 {
		s.sessions.Put(session.SessionID, session, remaining)
	}

	if session.ActionID != "" {
		if _, err := s.actions.UpdateStatus(session.ActionID, cb.Status, cb.TxHash, cb.Error); err != nil {
			s.logger.Warn("Failed to update linked action", zap.String("actionId", session.ActionID), zap.Error(err))
		}
	}

	result.Session = session
	result.NextSteps = nextSteps(cb.Status, session.Operation, result.PortfolioRefreshNeeded)
	s.logger.Info("Signing callback processed",
		zap.String("sessionId", session.SessionID),
		zap.String("status", string(cb.Status)),
		zap.String("txHash", cb.TxHash))
	return result, nil
}

func nextSteps(status entity.ActionStatus, op entity.Operation, refresh bool) []string {
	switch status {
	case entity.StatusSuccess:
		steps := []string{"Transaction completed successfully"}
		if refresh {
			steps = append(steps, "Your portfolio will be updated shortly")
		}
		if line, ok := operationNextSteps[op]; ok {
			steps = append(steps, line)
		}
		return append(steps, "View updated portfolio in the MCP dashboard")
	case entity.StatusFail:
		return []string{"Transaction failed", "Check transaction details for more information", "You can try the operation again"}
	default:
		return []string{"Transaction was cancelled", "You can initiate a new transaction anytime"}
	}
}
