package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken         = "test-token"
	headerContentType = "Content-Type"
)

var fakePNG = []byte("\x89PNG\r\n\x1a\nfake")

func testClient(baseURL string) *Client {
	return &Client{
		token:      testToken,
		style:      DefaultStyle,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Basemap_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mapbox/light-v11/static/15.440000,47.070000,10.00/600x400", r.URL.Path)
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))
		assert.Equal(t, "false", r.URL.Query().Get("logo"))

		w.Header().Set(headerContentType, "image/png")
		_, _ = w.Write(fakePNG)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	img, err := c.Basemap(context.Background(), 15.44, 47.07, 10, 600, 400)
	require.NoError(t, err)
	assert.Equal(t, fakePNG, img)
}

func TestClient_Basemap_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized - Invalid Token"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Basemap(context.Background(), 15.44, 47.07, 10, 600, 400)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Invalid Token")
}

func TestClient_Basemap_NotAnImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Basemap(context.Background(), 15.44, 47.07, 10, 600, 400)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an image")
}

func TestClient_Basemap_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Second)
		_, _ = w.Write(fakePNG)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(srv.URL)
	_, err := c.Basemap(ctx, 15.44, 47.07, 10, 600, 400)
	require.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(testToken, 3*time.Second, slog.Default())
	assert.Equal(t, DefaultStyle, c.style)
	assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
	assert.Equal(t, "https://api.mapbox.com/styles/v1", c.baseURL)
}
