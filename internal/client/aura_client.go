package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CandidateFailureRecorder counts failed attempts against an AURA base URL.
type CandidateFailureRecorder interface {
	RecordAuraCandidateFailure(baseURL string)
}

type auraClientImpl struct {
	client   *fasthttp.Client
	baseURLs []string
	apiKey   string
	timeout  time.Duration
	limiter  *rate.Limiter
	failures CandidateFailureRecorder
	logger   *zap.Logger
}

// NewAuraClient creates an AURA client that tries baseURLs in order.
func NewAuraClient(baseURLs []string, apiKey string, candidateTimeout time.Duration, limiter *rate.Limiter, failures CandidateFailureRecorder, logger *zap.Logger) port.AuraClient {
	urls := make([]string, 0, len(baseURLs))
	for _, u := range baseURLs {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			urls = append(urls, u)
		}
	}
	return &auraClientImpl{
		client:   &fasthttp.Client{},
		baseURLs: urls,
		apiKey:   apiKey,
		timeout:  candidateTimeout,
		limiter:  limiter,
		failures: failures,
		logger:   logger.Named("AuraClient"),
	}
}

func (c *auraClientImpl) GetPortfolio(ctx context.Context, address string) (entity.WalletPortfolio, error) {
	var portfolio entity.WalletPortfolio
	if err := c.getWithFailover(ctx, "/portfolio/balances", address, &portfolio); err != nil {
		return entity.WalletPortfolio{}, err
	}
	return portfolio, nil
}

func (c *auraClientImpl) GetStrategies(ctx context.Context, address string) (entity.StrategyResponse, error) {
	var strategies entity.StrategyResponse
	if err := c.getWithFailover(ctx, "/portfolio/strategies", address, &strategies); err != nil {
		return entity.StrategyResponse{}, err
	}
	return strategies, nil
}

// getWithFailover returns after the first candidate that answers 2xx with a decodable body.
// When every candidate fails the last error is returned.
func (c *auraClientImpl) getWithFailover(ctx context.Context, path, address string, out any) error {
	if len(c.baseURLs) == 0 {
		return fmt.Errorf("%w: no AURA base URL configured", entity.ErrExternalService)
	}

	var lastErr error
	for i, base := range c.baseURLs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("AURA rate limiter: %w", err)
			}
		}

		err := c.getOnce(ctx, base, path, address, out)
		if err == nil {
			if i > 0 {
				c.logger.Info("AURA request served by fallback endpoint", zap.String("baseURL", base), zap.String("path", path))
			}
			return nil
		}

		lastErr = err
		if c.failures != nil {
			c.failures.RecordAuraCandidateFailure(base)
		}
		c.logger.Warn("AURA endpoint failed, trying next candidate",
			zap.String("baseURL", base),
			zap.String("path", path),
			zap.Int("candidate", i+1),
			zap.Int("candidates", len(c.baseURLs)),
			zap.Error(err),
		)
	}
	return lastErr
}

func (c *auraClientImpl) getOnce(ctx context.Context, base, path, address string, out any) error {
	requestURL := fmt.Sprintf("%s%s?address=%s", base, path, url.QueryEscape(address))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return fmt.Errorf("%w: AURA request to %s timed out", entity.ErrTimeout, requestURL)
		}
		return fmt.Errorf("%w: failed to execute request to %s: %v", entity.ErrExternalService, requestURL, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: AURA request to %s failed with status %d", entity.ErrExternalService, requestURL, status)
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: failed to decode AURA response from %s: %v", entity.ErrExternalService, requestURL, err)
	}
	return nil
}
