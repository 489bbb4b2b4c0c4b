package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	dashboard "github.com/goliatone/go-classboard/components/dashboard"
)

// HTTPConfig configures the HTTP analytics client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to the school's learning-analytics service over REST.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client capable of hitting the live analytics API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("analytics: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchParticipation implements ParticipationClient via the participation endpoint.
func (c *HTTPClient) FetchParticipation(ctx context.Context, query dashboard.ParticipationQuery) ([]dashboard.ParticipationPoint, error) {
	req := participationRequest{
		ClassroomID: query.ClassroomID,
		Days:        query.Days,
		Locale:      query.Viewer.Locale,
	}
	var resp participationResponse
	if err := c.do(ctx, http.MethodPost, "/participation/query", req, &resp); err != nil {
		return nil, err
	}
	return resp.toPoints()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("analytics: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("analytics: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("analytics: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("analytics: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("analytics: decode response: %w", err)
	}
	return nil
}

type participationRequest struct {
	ClassroomID string `json:"classroom_id"`
	Days        int    `json:"days"`
	Locale      string `json:"locale,omitempty"`
}

type participationDay struct {
	Day       string `json:"day"`
	Posts     int    `json:"posts"`
	Questions int    `json:"questions"`
}

type participationResponse struct {
	ClassroomID string             `json:"classroom_id"`
	Days        []participationDay `json:"days"`
}

// toPoints parses the day buckets and returns them oldest first.
func (r participationResponse) toPoints() ([]dashboard.ParticipationPoint, error) {
	points := make([]dashboard.ParticipationPoint, len(r.Days))
	for i, bucket := range r.Days {
		day, err := time.Parse(time.DateOnly, bucket.Day)
		if err != nil {
			return nil, fmt.Errorf("analytics: parse participation day %q: %w", bucket.Day, err)
		}
		points[i] = dashboard.ParticipationPoint{Day: day, Posts: bucket.Posts, Questions: bucket.Questions}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Day.Before(points[j].Day) })
	return points, nil
}
