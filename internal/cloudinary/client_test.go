package cloudinary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(Options{
		CloudName: "demo",
		APIKey:    "key123",
		APISecret: "shh",
		Folder:    "husq_parts",
		BaseURL:   server.URL,
	})
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

func TestUploadSendsSignedForm(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1_1/demo/image/upload", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", r.PostForm.Get("file"))
		assert.Equal(t, "husq_parts", r.PostForm.Get("folder"))
		assert.Equal(t, "true", r.PostForm.Get("overwrite"))
		assert.Equal(t, "false", r.PostForm.Get("unique_filename"))
		assert.Equal(t, "1700000000", r.PostForm.Get("timestamp"))
		assert.Equal(t, "Red_Widget", r.PostForm.Get("public_id"))
		assert.Equal(t, "key123", r.PostForm.Get("api_key"))
		assert.Equal(t, "4b71e15cbee546478eab7bdb255fbefd09b66598", r.PostForm.Get("signature"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/husq_parts/Red_Widget.jpg"}`))
	})

	got, err := c.Upload(context.Background(), []byte("hello"), "image/jpeg", "Red_Widget")
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/husq_parts/Red_Widget.jpg", got)
}

func TestUploadOmitsEmptyPublicID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, present := r.PostForm["public_id"]
		assert.False(t, present)
		assert.Equal(t, "2d3d170b149ef41e90096a85ef4121459b9f6599", r.PostForm.Get("signature"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"secure_url":"https://h/image/upload/a.png"}`))
	})

	got, err := c.Upload(context.Background(), []byte("x"), "", "")
	require.NoError(t, err)
	assert.Equal(t, "https://h/image/upload/a.png", got)
}

func TestUploadMissingSecureURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"public_id":"x"}`))
	})

	got, err := c.Upload(context.Background(), []byte("x"), "image/png", "x")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUploadErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	})

	_, err := c.Upload(context.Background(), []byte("x"), "image/png", "x")
	require.Error(t, err)

	var uploadErr *UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Equal(t, http.StatusUnauthorized, uploadErr.StatusCode)
	assert.Contains(t, uploadErr.Body, "Invalid Signature")
	assert.Contains(t, err.Error(), "upload failed (401)")
}

func TestEndpoint(t *testing.T) {
	c := NewClient(Options{CloudName: "acme", BaseURL: "https://api.example.com/"})
	assert.Equal(t, "https://api.example.com/v1_1/acme/image/upload", c.Endpoint())

	assert.Equal(t, "https://api.cloudinary.com/v1_1/acme/image/upload", NewClient(Options{CloudName: "acme"}).Endpoint())
}

func TestDataURI(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AQI=", DataURI("", []byte{1, 2}))
	assert.Equal(t, "data:image/webp;base64,AQI=", DataURI("image/webp", []byte{1, 2}))
}
