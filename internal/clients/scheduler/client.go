package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/gigpost-backend/internal/logger"
)

// Client forwards a command to the external scheduler service for
// deferred execution. The scheduler replays the job as a plain HTTP
// call against this service at the requested time.
type Client interface {
	ScheduleJob(ctx context.Context, job Job) (*JobReference, error)
}

type Job struct {
	RunAt   string            `json:"run_at"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

type JobReference struct {
	Reference string `json:"reference"`
}

type httpClient struct {
	log     *logger.Logger
	baseURL string
	client  *http.Client
}

func NewClient(log *logger.Logger, baseURL string) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("missing scheduler base URL")
	}
	return &httpClient{
		log:     log.With("client", "SchedulerClient"),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *httpClient) ScheduleJob(ctx context.Context, job Job) (*JobReference, error) {
	raw, err := json.Marshal(&job)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scheduler request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("scheduler responded %d", resp.StatusCode)
	}
	var ref JobReference
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return nil, fmt.Errorf("decode scheduler response: %w", err)
	}
	return &ref, nil
}
