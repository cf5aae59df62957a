package embedding

import (
	"context"
	"hash/fnv"
)

const mockDimensions = 32

// MockClient produces deterministic vectors derived from the input text,
// so tests and credential-free runs behave consistently.
type MockClient struct {
	// EmbedError, when set, is returned by every call.
	EmbedError error

	// Call tracking for assertions
	EmbedCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.EmbedCalls = append(c.EmbedCalls, text)
	if c.EmbedError != nil {
		return nil, c.EmbedError
	}

	// Identical input always yields the identical vector.
	vec := make([]float32, mockDimensions)
	for i := range vec {
		h := fnv.New32a()
		_, _ = h.Write([]byte(text))
		_, _ = h.Write([]byte{byte(i)})
		vec[i] = float32(h.Sum32()%1000)/1000.0 - 0.5
	}
	return vec, nil
}
