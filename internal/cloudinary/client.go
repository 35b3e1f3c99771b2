// Package cloudinary talks to the media host's signed upload API without a
// vendor SDK.
package cloudinary

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public API origin of the media host.
const DefaultBaseURL = "https://api.cloudinary.com"

// Options configures a Client.
type Options struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
	BaseURL   string
	Timeout   time.Duration
}

// Client uploads assets to one cloud account.
type Client struct {
	HTTPClient *http.Client
	opts       Options
	now        func() time.Time
}

// UploadError is returned when the host answers with a status other than 200
// or 201.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed (%d): %s", e.StatusCode, e.Body)
}

// NewClient creates a client with its own HTTP timeout.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
		},
		opts: opts,
		now:  time.Now,
	}
}

// Endpoint returns the image upload URL for the configured cloud.
func (c *Client) Endpoint() string {
	return fmt.Sprintf("%s/v1_1/%s/image/upload", strings.TrimRight(c.opts.BaseURL, "/"), c.opts.CloudName)
}

// Upload stores data under publicID and returns the host's secure URL. A
// missing secure_url in a successful response yields "" and no error.
func (c *Client) Upload(ctx context.Context, data []byte, contentType, publicID string) (string, error) {
	params := UploadParams(c.opts.Folder, publicID, c.now().Unix())
	signature := Sign(params, c.opts.APISecret)

	form := url.Values{}
	form.Set("file", DataURI(contentType, data))
	for k, v := range params {
		form.Set(k, formatValue(v))
	}
	form.Set("api_key", c.opts.APIKey)
	form.Set("signature", signature)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	slog.Debug("Uploading asset", "public_id", publicID, "bytes", len(data), "content_type", contentType)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send upload request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", &UploadError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	return result.SecureURL, nil
}

// DataURI wraps raw bytes as a base64 data URI. An empty content type is
// reported as image/png.
func DataURI(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "image/png"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
