package hub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/distillprep/distillprep/internal/config"
	"github.com/distillprep/distillprep/internal/metrics"
)

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	cfg := config.HubConfig{
		Endpoint:          endpoint,
		CacheDir:          t.TempDir(),
		RequestsPerMinute: 6000,
		BurstPercent:      50,
		MaxRetries:        2,
		TimeoutSeconds:    5,
	}
	c := NewClient(cfg, "", metrics.NewCollector(slog.Default()), slog.Default())
	c.baseRetryDelay = time.Millisecond
	return c
}

func TestDownloadCachesFile(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/datasets/org/repo/resolve/main/data/train.json" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"input": "q", "label": "a"}]`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	path, err := c.Download(context.Background(), "org/repo", "main", "data/train.json")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(data) != `[{"input": "q", "label": "a"}]` {
		t.Errorf("downloaded content = %q", data)
	}

	// Second download is served from cache
	if _, err := c.Download(context.Background(), "org/repo", "main", "data/train.json"); err != nil {
		t.Fatalf("cached Download() error = %v", err)
	}
	if requests != 1 {
		t.Errorf("server saw %d requests, want 1", requests)
	}
}

func TestDownloadRetriesServerErrors(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	if _, err := c.Download(context.Background(), "org/repo", "main", "file.json"); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if requests != 2 {
		t.Errorf("server saw %d requests, want 2", requests)
	}
}

func TestDownloadDoesNotRetryNotFound(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	if _, err := c.Download(context.Background(), "org/repo", "main", "missing.json"); err == nil {
		t.Fatal("Download() expected error for 404")
	}
	if requests != 1 {
		t.Errorf("server saw %d requests, want 1 (no retries)", requests)
	}
}

func TestDownloadSendsAuthToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	c.token = "secret"

	if _, err := c.Download(context.Background(), "org/repo", "main", "file.json"); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret")
	}
}

func TestFetchRowsRejectsUnknownFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("binary"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.FetchRows(context.Background(), "org/repo", "main", "weights.bin")
	if err == nil {
		t.Fatal("FetchRows() expected error for unsupported format")
	}
}

func TestReadJSONRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			name:    "json array",
			content: `[{"input": "a", "label": "1"}, {"input": "b", "label": "2"}]`,
			want:    2,
		},
		{
			name:    "json lines",
			content: "{\"input\": \"a\"}\n\n{\"input\": \"b\"}\n{\"input\": \"c\"}\n",
			want:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rows.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			rows, err := ReadJSONRows(path)
			if err != nil {
				t.Fatalf("ReadJSONRows() error = %v", err)
			}
			if len(rows) != tt.want {
				t.Errorf("ReadJSONRows() returned %d rows, want %d", len(rows), tt.want)
			}
		})
	}
}

func TestReadJSONRowsMissingFile(t *testing.T) {
	_, err := ReadJSONRows(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("ReadJSONRows() expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}
