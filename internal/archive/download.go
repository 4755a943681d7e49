package archive

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/vk/themeforge/internal/ctxlog"
	"resty.dev/v3"
)

// Downloader fetches archives over HTTP.
type Downloader struct {
	client *resty.Client
}

// NewDownloader creates a downloader with its own HTTP client.
func NewDownloader() *Downloader {
	return &Downloader{client: resty.New().SetHeader("User-Agent", "themeforge")}
}

// Close releases the HTTP client.
func (d *Downloader) Close() error {
	return d.client.Close()
}

// FileName returns the local name for an archive URL.
func FileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return "archive"
}

// Fetch downloads rawURL into dir and returns the written file path. The
// file only appears once the body was fully received.
func (d *Downloader) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL)
	logger.Info("⬇️ Downloading archive")

	res, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return "", fmt.Errorf("downloading %s: unexpected status %s", rawURL, res.Status())
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	target := filepath.Join(dir, FileName(rawURL))
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, res.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("moving download into place: %w", err)
	}
	logger.Info("✅ Archive downloaded", "path", target, "bytes", n)
	return target, nil
}
