package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/warfroggy/clashlens/internal/domain/model"
	"github.com/warfroggy/clashlens/internal/domain/types"
)

// client wraps http.Client with the service's response envelope.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type ingestAck struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
}

// postSnapshots submits one player's batch.
func (c *client) postSnapshots(ctx context.Context, tag string, rows []model.RawSnapshot) (ingestAck, error) {
	body, err := json.Marshal(rows)
	if err != nil {
		return ingestAck{}, fmt.Errorf("encoding batch: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/snapshots/%s", c.baseURL, url.PathEscape(tag))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ingestAck{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	env, status, err := c.do(req)
	if err != nil {
		return ingestAck{}, err
	}
	if status != http.StatusAccepted && status != http.StatusOK {
		return ingestAck{}, fmt.Errorf("unexpected status %d posting snapshots", status)
	}

	var ack ingestAck
	if err := json.Unmarshal(env.Data, &ack); err != nil {
		return ingestAck{}, fmt.Errorf("decoding ingest ack: %w", err)
	}
	return ack, nil
}

// getHistory fetches the reconstructed timeline for a player.
func (c *client) getHistory(ctx context.Context, tag string, days int) (types.History, error) {
	endpoint := fmt.Sprintf("%s/api/v1/player/%s/history?days=%d", c.baseURL, url.PathEscape(tag), days)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return types.History{}, err
	}

	env, status, err := c.do(req)
	if err != nil {
		return types.History{}, err
	}
	if status != http.StatusOK {
		return types.History{}, fmt.Errorf("unexpected status %d fetching history", status)
	}

	var history types.History
	if err := json.Unmarshal(env.Data, &history); err != nil {
		return types.History{}, fmt.Errorf("decoding history: %w", err)
	}
	return history, nil
}

// getActivity fetches the scored activity view for a player.
func (c *client) getActivity(ctx context.Context, tag string) (types.Activity, error) {
	endpoint := fmt.Sprintf("%s/api/v1/player/%s/activity", c.baseURL, url.PathEscape(tag))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return types.Activity{}, err
	}

	env, status, err := c.do(req)
	if err != nil {
		return types.Activity{}, err
	}
	if status != http.StatusOK {
		return types.Activity{}, fmt.Errorf("unexpected status %d fetching activity", status)
	}

	var activity types.Activity
	if err := json.Unmarshal(env.Data, &activity); err != nil {
		return types.Activity{}, fmt.Errorf("decoding activity: %w", err)
	}
	return activity, nil
}

func (c *client) do(req *http.Request) (envelope, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, resp.StatusCode, fmt.Errorf("decoding envelope: %w", err)
	}
	return env, resp.StatusCode, nil
}
