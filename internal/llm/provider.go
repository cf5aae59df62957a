package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/sibyl/internal/domain"
)

// Provider constants
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// NewClient creates an LLM client based on the provider name.
// Returns an error if the provider is unknown or the API key is empty (except for mock).
func NewClient(provider, apiKey string) (domain.LLMClient, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIClient(apiKey), nil

	case ProviderAnthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for Anthropic provider")
		}
		return NewAnthropicClient(apiKey), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: openai, anthropic, mock)", provider)
	}
}

// stripFences removes markdown code fences models sometimes wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func formatTools(tools []domain.ToolSpec) string {
	var sb strings.Builder
	for _, t := range tools {
		sb.WriteString("- ")
		sb.WriteString(t.Name)
		sb.WriteString(": ")
		sb.WriteString(t.Description)
		if t.InputSchema != "" {
			sb.WriteString(" Arguments: ")
			sb.WriteString(t.InputSchema)
		}
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		return "(none)\n"
	}
	return sb.String()
}

func formatHistory(steps []domain.AgentStep) string {
	if len(steps) == 0 {
		return "(first step)\n"
	}
	var sb strings.Builder
	for _, s := range steps {
		sb.WriteString(fmt.Sprintf("Step %d reasoning: %s\n", s.StepNumber, s.Reasoning))
		for _, tc := range s.ToolCalls {
			sb.WriteString(fmt.Sprintf("  called %s(%s)\n", tc.ToolName, string(tc.Arguments)))
		}
		if s.Observation != "" {
			sb.WriteString("  observation: ")
			sb.WriteString(s.Observation)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatFallbacks(fallbacks []domain.Partition) string {
	if len(fallbacks) == 0 {
		return "none"
	}
	parts := make([]string, len(fallbacks))
	for i, p := range fallbacks {
		parts[i] = string(p)
	}
	return strings.Join(parts, ", ")
}

func formatEvidence(evidence []string) string {
	if len(evidence) == 0 {
		return "(no evidence)"
	}
	var sb strings.Builder
	for i, e := range evidence {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, e))
	}
	return sb.String()
}

func buildDecidePrompt(req domain.DecisionRequest) string {
	return fmt.Sprintf(decidePrompt,
		formatTools(req.Tools),
		req.Routing.Primary,
		formatFallbacks(req.Routing.Fallbacks),
		req.Routing.Confidence,
		formatHistory(req.History),
		req.Query,
	)
}

func parseDecision(raw string) (*domain.AgentDecision, error) {
	raw = stripFences(raw)
	var decision domain.AgentDecision
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		return nil, fmt.Errorf("parse decision result: %w (raw: %s)", err, raw)
	}
	// A decision carrying both is treated as final: the answer is already there.
	if decision.FinalAnswer != "" {
		decision.ToolCalls = nil
	}
	return &decision, nil
}

func parseVerdict(raw string) (*domain.VerificationVerdict, error) {
	raw = stripFences(raw)
	var verdict domain.VerificationVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return nil, fmt.Errorf("parse verdict result: %w (raw: %s)", err, raw)
	}
	if !domain.ValidVerdictStatus(string(verdict.Status)) {
		verdict.Status = domain.VerdictPartiallyVerified
	}
	if verdict.Score < 0 {
		verdict.Score = 0
	}
	if verdict.Score > 1 {
		verdict.Score = 1
	}
	return &verdict, nil
}
