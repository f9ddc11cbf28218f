// Package hub downloads dataset source files from a Hugging Face style hub
// and decodes them into source-shaped rows. Files are cached locally; the
// cache key is repo/revision/path, so a revision bump re-downloads.
package hub

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/distillprep/distillprep/internal/config"
	"github.com/distillprep/distillprep/internal/metrics"
	"github.com/distillprep/distillprep/pkg/models"
)

const (
	// DefaultBaseRetryDelay is the base delay for exponential backoff
	DefaultBaseRetryDelay = 2 * time.Second
)

// Client downloads and caches dataset files from the hub
type Client struct {
	httpClient     *http.Client
	limiters       *RateLimiterPool
	cfg            config.HubConfig
	token          string
	logger         *slog.Logger
	collector      *metrics.Collector
	baseRetryDelay time.Duration
}

// NewClient creates a new hub client. The token may be empty for public
// datasets.
func NewClient(cfg config.HubConfig, token string, collector *metrics.Collector, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		limiters:       NewRateLimiterPool(cfg.BurstPercent),
		cfg:            cfg,
		token:          token,
		logger:         logger.With("component", "hub"),
		collector:      collector,
		baseRetryDelay: DefaultBaseRetryDelay,
	}
}

// Download fetches one file of a dataset repository at a revision and
// returns the local cache path. Cached files are returned without a request.
func (c *Client) Download(ctx context.Context, repo, revision, remotePath string) (string, error) {
	cachePath := filepath.Join(c.cfg.CacheDir, "datasets", repo, revision, remotePath)
	if _, err := os.Stat(cachePath); err == nil {
		c.logger.Debug("Cache hit", "repo", repo, "file", remotePath)
		return cachePath, nil
	}

	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	fileURL := fmt.Sprintf("%s/datasets/%s/resolve/%s/%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), repo, revision, remotePath)
	host := hostOf(fileURL)

	c.logger.Info("Downloading dataset file", "repo", repo, "revision", revision, "file", remotePath)

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * c.baseRetryDelay
			c.logger.Warn("Retrying download",
				"attempt", attempt,
				"max_retries", c.cfg.MaxRetries,
				"backoff", backoff,
				"file", remotePath)

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiters.Wait(ctx, host, c.cfg.RequestsPerMinute); err != nil {
			return "", fmt.Errorf("rate limiter wait failed: %w", err)
		}

		start := time.Now()
		err := c.fetchToFile(ctx, fileURL, cachePath)
		c.collector.RecordDownload(host, time.Since(start), err == nil)
		if err == nil {
			return cachePath, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("max retries exceeded downloading %s: %w", remotePath, lastErr)
}

func (c *Client) fetchToFile(ctx context.Context, fileURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &downloadError{url: fileURL, err: err, retryable: true}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &downloadError{
			url:        fileURL,
			statusCode: resp.StatusCode,
			body:       string(body),
			retryable:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	// Atomic write: fill a temp file, then rename into the cache
	tmpPath := destPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmpPath)
		return &downloadError{url: fileURL, err: err, retryable: true}
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to move file into cache: %w", err)
	}

	return nil
}

// FetchRows downloads one file and decodes it into source-shaped rows.
// Parquet, JSON-array and JSON-lines files are supported.
func (c *Client) FetchRows(ctx context.Context, repo, revision, remotePath string) ([]models.Row, error) {
	localPath, err := c.Download(ctx, repo, revision, remotePath)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(remotePath)) {
	case ".parquet":
		return ReadParquetRows(ctx, localPath)
	case ".json", ".jsonl":
		return ReadJSONRows(localPath)
	default:
		return nil, fmt.Errorf("unsupported source file format: %s", remotePath)
	}
}

// downloadError carries enough context to decide retryability
type downloadError struct {
	url        string
	statusCode int
	body       string
	err        error
	retryable  bool
}

func (e *downloadError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("download %s failed: %v", e.url, e.err)
	}
	return fmt.Sprintf("download %s failed with status %d: %s", e.url, e.statusCode, e.body)
}

func (e *downloadError) Unwrap() error {
	return e.err
}

func isRetryable(err error) bool {
	if de, ok := err.(*downloadError); ok {
		return de.retryable
	}
	return false
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
