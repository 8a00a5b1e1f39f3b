package linkpreview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient("", "", "", 60)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, 60, client.rateLimiter.Burst())

	client = NewClient("https://preview.example.com/", "key", "Planner/1.0", 0)
	assert.Equal(t, "https://preview.example.com", client.baseURL)
}

func TestPreview_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "https://example.com/product?id=7&ref=x", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.Header.Get("X-Linkpreview-Api-Key"))
		assert.Equal(t, "ChristmasPlanner/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"title":       " Lego Castle ",
			"image":       "https://img.example.com/castle.jpg",
			"description": "Only $89.99 this week",
			"url":         "https://example.com/product?id=7&ref=x",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", "ChristmasPlanner/1.0", 60)
	preview, err := client.Preview(context.Background(), "https://example.com/product?id=7&ref=x")

	require.NoError(t, err)
	assert.Equal(t, "Lego Castle", preview.Title)
	assert.Equal(t, "https://img.example.com/castle.jpg", preview.Image)
	assert.Equal(t, "Only $89.99 this week", preview.Description)
	assert.True(t, preview.Usable())
}

func TestPreview_NoAPIKeyHeaderWhenUnset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["X-Linkpreview-Api-Key"]
		assert.False(t, present)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", 0)
	preview, err := client.Preview(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.False(t, preview.Usable())
}

func TestPreview_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":429}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", 0)
	preview, err := client.Preview(context.Background(), "https://example.com")

	assert.Nil(t, preview)
	assert.ErrorIs(t, err, domain.ErrLinkPreviewUnavailable)
}

func TestPreview_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", 0)
	_, err := client.Preview(context.Background(), "https://example.com")

	assert.ErrorIs(t, err, domain.ErrLinkPreviewUnavailable)
}

func TestPreview_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := NewClient(serverURL, "", "", 0)
	_, err := client.Preview(context.Background(), "https://example.com")

	assert.ErrorIs(t, err, domain.ErrLinkPreviewUnavailable)
}

func TestPreview_RateLimited(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"title":"ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", 2)
	ctx := context.Background()

	_, err := client.Preview(ctx, "https://example.com/1")
	require.NoError(t, err)
	_, err = client.Preview(ctx, "https://example.com/2")
	require.NoError(t, err)

	_, err = client.Preview(ctx, "https://example.com/3")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, 2, calls)
}
