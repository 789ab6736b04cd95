// Package grades calls the remote grade-prediction service for charges
// whose offense grade is missing. The model behind the service is an
// opaque oracle: it returns an ordered list of [grade, probability]
// pairs, possibly only its top candidates.
//
// Requests are fire-and-forget from the store's point of view: there is
// no cancellation, and a slow response is still applied when it lands.
package grades

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/expungepa/petition-builder/internal/store"
)

// StatuteComponents are the parts of a statute citation ("18 2705 a.1")
// the prediction service expects.
type StatuteComponents struct {
	Title      string `json:"title"`
	Section    string `json:"section"`
	Subsection string `json:"subsection"`
}

// SplitStatute extracts the title, section and subsection from a
// statute string. The first two space-separated tokens are title and
// section; everything after is joined into the subsection.
func SplitStatute(statute string) StatuteComponents {
	parts := strings.Fields(statute)

	components := StatuteComponents{}
	if len(parts) > 0 {
		components.Title = parts[0]
	}
	if len(parts) > 1 {
		components.Section = parts[1]
	}
	if len(parts) > 2 {
		components.Subsection = strings.Join(parts[2:], "")
	}
	return components
}

// Client talks to the grade-prediction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a prediction client for the given service URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Offense string `json:"offense"`
	StatuteComponents
}

// Predict asks the oracle for the likely grades of an offense.
func (c *Client) Predict(ctx context.Context, offense string, components StatuteComponents) (store.GradeProbabilities, error) {
	body, err := json.Marshal(predictRequest{Offense: offense, StatuteComponents: components})
	if err != nil {
		return nil, fmt.Errorf("failed to encode prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("grade prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("grade service returned %d: %s", resp.StatusCode, payload)
	}

	var probabilities store.GradeProbabilities
	if err := json.NewDecoder(resp.Body).Decode(&probabilities); err != nil {
		return nil, fmt.Errorf("failed to decode prediction response: %w", err)
	}

	return probabilities, nil
}
