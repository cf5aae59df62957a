package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientUsesConfiguredModelAndBaseURL(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", "custom-embed-model", srv.URL, 2*time.Second)

	vec, err := client.Embed(context.Background(), "golden visa requirements")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "/embeddings", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "custom-embed-model", gotReq.Model)
	assert.Equal(t, "golden visa requirements", gotReq.Input)
}

func TestOpenAIClientDefaultsWhenUnconfigured(t *testing.T) {
	client := NewOpenAIClient("key", "", "", 0)

	assert.Equal(t, DefaultModel, client.model)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}

func TestOpenAIClientSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient("key", "", srv.URL, time.Second)

	_, err := client.Embed(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
