package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Fetcher downloads the dataset CSV from a remote source when it is not
// already present locally. It stands in for the upstream dataset-hosting
// collaborator; a single attempt, no retries — a failed download is fatal
// to startup.
type Fetcher struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFetcher creates a dataset fetcher for the given source URL.
func NewFetcher(url string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// EnsureLocal downloads the dataset to destPath unless a file already exists
// there. The download goes through a temp file in the same directory so a
// partial transfer never leaves a truncated CSV behind.
func (f *Fetcher) EnsureLocal(ctx context.Context, destPath string) error {
	if _, err := os.Stat(destPath); err == nil {
		f.logger.Debug("dataset already present", "path", destPath)
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat dataset: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}

	f.logger.Info("downloading dataset", "url", f.url, "dest", destPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("dataset source error: status %d: %s", resp.StatusCode, body)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return fmt.Errorf("move dataset into place: %w", err)
	}

	f.logger.Info("dataset downloaded", "bytes", n, "dest", destPath)
	return nil
}
