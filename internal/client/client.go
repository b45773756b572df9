package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/damz-ai/detect-console/internal/apierr"
	"github.com/damz-ai/detect-console/internal/config"
	"github.com/damz-ai/detect-console/internal/metrics"
	"github.com/damz-ai/detect-console/internal/models"
)

const (
	EndpointDetect       = "/detect"
	EndpointDetectUpload = "/detect/upload"
	EndpointVideoAction  = "/video_action/detect/upload"
	EndpointHealth       = "/health"

	// error bodies are shown to the user, there is no point reading megabytes
	maxErrorBody = 64 << 10
)

// Client talks to the remote detection service. Each call makes exactly one
// HTTP round trip.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the transport, mostly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(cfg config.APIConfig, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		// no cookie jar: credentials are never sent
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// DetectObjects runs zero-shot detection on an image reachable by URL.
func (c *Client) DetectObjects(ctx context.Context, req models.DetectionRequest) (*models.DetectionResponse, error) {
	httpReq, err := newDetectRequest(ctx, c.baseURL, req)
	if err != nil {
		return nil, err
	}

	var resp models.DetectionResponse
	if err := c.do(httpReq, EndpointDetect, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DetectObjectsFromFile runs zero-shot detection on an uploaded image.
func (c *Client) DetectObjectsFromFile(
	ctx context.Context,
	file models.Upload,
	queries []string,
	boxThreshold, textThreshold float64,
	priority int,
) (*models.DetectionResponse, error) {
	body, contentType, err := buildDetectUploadForm(file, queries, boxThreshold, textThreshold, priority)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EndpointDetectUpload, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	var resp models.DetectionResponse
	if err := c.do(httpReq, EndpointDetectUpload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DetectVideoAction uploads a video and asks for segments matching the prompt.
func (c *Client) DetectVideoAction(ctx context.Context, req models.VideoActionRequest) (*models.VideoActionResponse, error) {
	body, contentType, err := buildVideoActionForm(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EndpointVideoAction, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	var resp models.VideoActionResponse
	if err := c.do(httpReq, EndpointVideoAction, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks that the service answers at all.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+EndpointHealth, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(httpReq, EndpointHealth, nil)
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := apierr.Classify(apierr.Failure{Err: err})
		metrics.UpstreamRequest(endpoint, string(apiErr.Category), time.Since(start))
		return apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := apierr.Classify(apierr.Failure{
			Status:  resp.StatusCode,
			Body:    strings.TrimSpace(string(body)),
			BodyErr: readErr,
		})
		metrics.UpstreamRequest(endpoint, string(apiErr.Category), time.Since(start))
		return apiErr
	}

	if out != nil {
		if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(out); err != nil {
			apiErr := apierr.Parse(err)
			metrics.UpstreamRequest(endpoint, string(apiErr.Category), time.Since(start))
			return apiErr
		}
	}

	metrics.UpstreamRequest(endpoint, "ok", time.Since(start))
	return nil
}
