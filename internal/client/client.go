// Package client talks to the exercise API over HTTP.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"muscledynamics/workout-builder/internal/domain"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client is a small JSON client for the /api surface.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:5000.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListExercises fetches one page of exercises. List dimensions are sent
// comma-joined; empty dimensions and non-positive page/limit are omitted so
// the server applies its defaults.
func (c *Client) ListExercises(ctx context.Context, filter domain.ExerciseFilter, page, limit int) (*domain.ExercisePage, error) {
	q := url.Values{}
	if len(filter.Muscles) > 0 {
		q.Set("muscles", strings.Join(filter.Muscles, ","))
	}
	if len(filter.Equipment) > 0 {
		q.Set("equipment", strings.Join(filter.Equipment, ","))
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	var out domain.ExercisePage
	if err := c.get(ctx, "/api/exercises", q, &out); err != nil {
		return nil, err
	}
	if out.Exercises == nil {
		out.Exercises = []domain.Exercise{}
	}
	return &out, nil
}

// GetExercise fetches one exercise by storage key or dataset id.
func (c *Client) GetExercise(ctx context.Context, id string) (*domain.Exercise, error) {
	var out domain.Exercise
	if err := c.get(ctx, "/api/exercises/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Equipment fetches the equipment vocabulary.
func (c *Client) Equipment(ctx context.Context) ([]string, error) {
	var out []string
	err := c.get(ctx, "/api/exercises/equipment", nil, &out)
	return out, err
}

// Muscles fetches the muscle vocabulary.
func (c *Client) Muscles(ctx context.Context) ([]string, error) {
	var out []string
	err := c.get(ctx, "/api/exercises/muscles", nil, &out)
	return out, err
}

// Random fetches a random sample of count exercises.
func (c *Client) Random(ctx context.Context, count int) ([]domain.Exercise, error) {
	var out []domain.Exercise
	err := c.get(ctx, "/api/exercises/random/"+strconv.Itoa(count), nil, &out)
	return out, err
}

// Health probes /api/health; any 2xx means ready.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/api/health", nil, nil)
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Request failed", zap.String("url", target), zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	c.logger.Debug("Request done",
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		}
		apiErr.Detail = body.Error
	}
	return apiErr
}
