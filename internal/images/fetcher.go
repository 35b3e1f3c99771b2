package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	browserUserAgent = "Mozilla/5.0"
	imageAccept      = "image/avif,image/webp,image/apng,image/*,*/*;q=0.8"
	defaultMediaType = "image/png"
)

// Fetcher downloads source images from product pages and CDNs
type Fetcher struct {
	HTTPClient *http.Client
}

// Image is a downloaded image held in memory
type Image struct {
	Data        []byte
	ContentType string
	SourceURL   string
}

// FetchError reports a non-200 answer from the image source
type FetchError struct {
	StatusCode int
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%d) for URL: %s", e.StatusCode, e.URL)
}

// NewFetcher creates a new image fetcher
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads url. Some shops refuse hotlinked images, so the request
// looks like a browser and carries referer when one is given.
func (f *Fetcher) Fetch(ctx context.Context, url, referer string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", imageAccept)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{StatusCode: resp.StatusCode, URL: url}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultMediaType
	}

	slog.Debug("Fetched image", "url", url, "bytes", len(data), "content_type", contentType)

	return &Image{
		Data:        data,
		ContentType: contentType,
		SourceURL:   url,
	}, nil
}
