package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/platform/httpx"
	"greenfield-planner/internal/platform/obs"
	"net/http"
	"strings"
	"time"
)

// GFAClient offloads allocation runs to a remote solver service.
// It implements ports.RemoteOptimizer and is safe for concurrent use.
type GFAClient struct {
	client  *httpx.Client
	baseURL string
	apiKey  string
}

func NewGFAClient(baseURL, apiKey string, timeout time.Duration) (*GFAClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("remote gfa client: base url is empty")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GFAClient{
		client:  httpx.NewClient(timeout),
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

func (c *GFAClient) Optimize(ctx context.Context, in domain.PlanInput) (_ domain.Result, err error) {
	defer obs.Time(ctx, "remote.Optimize")(&err)

	body, err := json.Marshal(toRequest(in))
	if err != nil {
		return domain.Result{}, fmt.Errorf("remote optimize: encode request: %w", err)
	}

	endpoint := c.baseURL + "/v1/gfa/optimize"
	resp, err := c.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		return req, nil
	})
	if err != nil {
		return domain.Result{}, fmt.Errorf("remote optimize: %w", err)
	}
	defer resp.Body.Close()

	var decoded optimizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Result{}, fmt.Errorf("remote optimize: decode response: %w", err)
	}

	if decoded.Status != "ok" {
		msg := decoded.Error
		if msg == "" {
			msg = "no error message"
		}
		return domain.Result{}, fmt.Errorf("remote optimize: solver status %q: %s", decoded.Status, msg)
	}

	return fromResponse(decoded), nil
}
