package llm

import (
	"context"

	"github.com/Harshitk-cp/sibyl/internal/domain"
)

// MockClient is a configurable LLM client for testing.
// Set the response fields to control what each method returns.
type MockClient struct {
	DecideResponse     *domain.AgentDecision
	DecideError        error
	SynthesizeResponse string
	SynthesizeError    error
	JudgeResponse      *domain.VerificationVerdict
	JudgeError         error

	// DecideResponses, when non-empty, is consumed one per call before
	// falling back to DecideResponse. Useful for scripting a loop.
	DecideResponses []*domain.AgentDecision

	// Call tracking for assertions
	DecideCalls     []domain.DecisionRequest
	SynthesizeCalls []string
	JudgeCalls      []struct{ Query, Draft string }
}

func NewMockClient() *MockClient {
	return &MockClient{
		DecideResponse: &domain.AgentDecision{
			Reasoning:   "mock reasoning",
			FinalAnswer: "Mock final answer",
		},
		SynthesizeResponse: "Mock synthesized answer",
		JudgeResponse: &domain.VerificationVerdict{
			Status: domain.VerdictVerified,
			Score:  0.95,
		},
	}
}

func (c *MockClient) Decide(ctx context.Context, req domain.DecisionRequest) (*domain.AgentDecision, error) {
	c.DecideCalls = append(c.DecideCalls, req)
	if c.DecideError != nil {
		return nil, c.DecideError
	}
	if len(c.DecideResponses) > 0 {
		next := c.DecideResponses[0]
		c.DecideResponses = c.DecideResponses[1:]
		return next, nil
	}
	return c.DecideResponse, nil
}

func (c *MockClient) Synthesize(ctx context.Context, query string, evidence []string) (string, error) {
	c.SynthesizeCalls = append(c.SynthesizeCalls, query)
	if c.SynthesizeError != nil {
		return "", c.SynthesizeError
	}
	return c.SynthesizeResponse, nil
}

func (c *MockClient) Judge(ctx context.Context, query, draft string, evidence []string) (*domain.VerificationVerdict, error) {
	c.JudgeCalls = append(c.JudgeCalls, struct{ Query, Draft string }{query, draft})
	if c.JudgeError != nil {
		return nil, c.JudgeError
	}
	return c.JudgeResponse, nil
}
