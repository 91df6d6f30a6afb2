package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"modelbridge/domain"
)

// Health checks whether the bridge server is up.
func (c *Client) Health(ctx context.Context) (*domain.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send health request to bridge: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read health response body (status %s): %w", resp.Status, readErr)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bridge health request failed with status %s: %s", resp.Status, string(bodyBytes))
	}

	var responseData domain.HealthResponse
	if err := json.Unmarshal(bodyBytes, &responseData); err != nil {
		return nil, fmt.Errorf("failed to decode health response (status %s): %w. Full response body: %s", resp.Status, err, string(bodyBytes))
	}
	return &responseData, nil
}

// ListModels fetches the bridge's available models.
func (c *Client) ListModels(ctx context.Context) (*domain.ModelListResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list models request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send list models request to bridge: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read list models response body (status %s): %w", resp.Status, readErr)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bridge list models request failed with status %s: %s", resp.Status, string(bodyBytes))
	}

	var responseData domain.ModelListResponse
	if err := json.Unmarshal(bodyBytes, &responseData); err != nil {
		return nil, fmt.Errorf("failed to decode list models response (status %s): %w. Full response body: %s", resp.Status, err, string(bodyBytes))
	}
	return &responseData, nil
}

// Chat sends a bridge chat request and returns the single composed response.
// Any non-2xx status or success=false is surfaced as an error carrying the
// bridge's error string; the original error kind is not preserved.
func (c *Client) Chat(ctx context.Context, bridgeReq domain.BridgeRequest) (*domain.BridgeResponse, error) {
	payload, err := json.Marshal(bridgeReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send chat request to bridge: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read chat response body (status %s): %w", resp.Status, readErr)
	}

	var responseData domain.BridgeResponse
	if err := json.Unmarshal(bodyBytes, &responseData); err != nil {
		return nil, fmt.Errorf("failed to decode chat response (status %s): %w. Full response body: %s", resp.Status, err, string(bodyBytes))
	}

	if resp.StatusCode != http.StatusOK || !responseData.Success {
		errMsg := responseData.Error
		if errMsg == "" {
			errMsg = string(bodyBytes)
		}
		return nil, fmt.Errorf("bridge chat request failed with status %s: %s", resp.Status, errMsg)
	}

	return &responseData, nil
}
