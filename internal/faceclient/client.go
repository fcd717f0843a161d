package faceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Recognition is the recognition service's verdict for one frame. A nil
// Name means no known face was detected; that is not an error.
type Recognition struct {
	Name         *string `json:"name"`
	Confidence   float64 `json:"confidence"`
	Distance     float64 `json:"distance,omitempty"`
	FaceLocation []int   `json:"face_location,omitempty"`
	Message      string  `json:"message,omitempty"`
}

// Status describes the recognition service's health payload.
type Status struct {
	Status     string   `json:"status"`
	KnownFaces []string `json:"known_faces"`
	TotalFaces int      `json:"total_faces"`
	Tolerance  float64  `json:"tolerance"`
	Message    string   `json:"message,omitempty"`
}

// Client calls the face recognition service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a client. Recognition can be slow on loaded hardware, so the
// timeout is generous.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Recognize posts a single base64-encoded JPEG frame. The caller never
// retries; the next poll tick simply posts the next frame.
func (c *Client) Recognize(ctx context.Context, imageBase64 string) (*Recognition, error) {
	if imageBase64 == "" {
		return nil, fmt.Errorf("image data required")
	}
	body, _ := json.Marshal(map[string]string{"image": imageBase64})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/recognize-face", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognition request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("recognition service error %s: %s", resp.Status, string(bodyBytes))
	}

	var out Recognition
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode recognition response: %w", err)
	}
	return &out, nil
}

// ReloadFaces asks the service to re-scan its known-faces gallery.
func (c *Client) ReloadFaces(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/reload-faces", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("reload faces: %s", resp.Status)
	}
	var out struct {
		LoadedFaces []string `json:"loaded_faces"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.LoadedFaces, nil
}

// GetStatus fetches the service health/info payload.
func (c *Client) GetStatus(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/status", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status: %s", resp.Status)
	}
	var out Status
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reports whether the service answers its status endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.GetStatus(ctx)
	return err
}
