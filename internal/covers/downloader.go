package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// maxCoverSize limits download size to prevent memory exhaustion.
	maxCoverSize = 10 * 1024 * 1024 // 10MB

	// downloadTimeout is the maximum time for a cover download.
	downloadTimeout = 30 * time.Second
)

// Downloader fetches cover images and caches them locally.
type Downloader struct {
	httpClient *http.Client
	storage    *Storage
	logger     *slog.Logger
}

// NewDownloader creates a cover downloader backed by the given storage.
func NewDownloader(storage *Storage, logger *slog.Logger) *Downloader {
	return &Downloader{
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
		storage: storage,
		logger:  logger,
	}
}

// Download fetches the cover at url, caches it for the book, and returns the
// BlurHash placeholder for the image. The cached file survives restarts so a
// book's cover stays available when the original URL goes away.
func (d *Downloader) Download(ctx context.Context, bookID, url string) (string, error) {
	if url == "" {
		return "", errors.New("empty cover URL")
	}

	downloadCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize))
	if err != nil {
		return "", fmt.Errorf("read data: %w", err)
	}

	hash, err := ComputeBlurHash(data)
	if err != nil {
		d.logger.Warn("failed to compute cover blurhash",
			"book_id", bookID,
			"url", url,
			"error", err,
		)
		// The cover is still worth caching without a placeholder
		hash = ""
	}

	if err := d.storage.Save(bookID, data); err != nil {
		return "", fmt.Errorf("store: %w", err)
	}

	d.logger.Info("cached cover",
		"book_id", bookID,
		"size", len(data),
	)

	return hash, nil
}
