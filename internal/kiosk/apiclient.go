package kiosk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIClient submits attendance events to the attendhub API using a station
// token obtained at registration.
type APIClient struct {
	BaseURL string
	HTTP    *http.Client

	token string
}

// NewAPIClient creates a client for the given API base URL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Register registers the station and stores the issued token.
func (c *APIClient) Register(ctx context.Context, stationID string) error {
	body, _ := json.Marshal(map[string]string{"station_id": stationID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/stations/register", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("station register failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("station register error %s: %s", resp.Status, string(raw))
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

// CheckIn submits a check-in event.
func (c *APIClient) CheckIn(ctx context.Context, name string, confidence float64) error {
	return c.submit(ctx, "/v1/attendance/checkin", name, confidence)
}

// CheckOut submits a check-out event.
func (c *APIClient) CheckOut(ctx context.Context, name string, confidence float64) error {
	return c.submit(ctx, "/v1/attendance/checkout", name, confidence)
}

func (c *APIClient) submit(ctx context.Context, path, name string, confidence float64) error {
	body, _ := json.Marshal(map[string]any{"name": name, "confidence": confidence})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error %s: %s", resp.Status, string(raw))
	}
	return nil
}
