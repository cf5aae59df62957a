package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/sibyl/internal/domain"
)

const (
	openAIChatURL = "https://api.openai.com/v1/chat/completions"
	openAIModel   = "gpt-4o-mini"

	openAIAgentTemperature = 0.7
	openAIJudgeTemperature = 0.0
)

type OpenAIClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(openAIRequest{
		Model:       openAIModel,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read openai response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result openAIResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unmarshal openai response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("openai API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai API returned no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) Decide(ctx context.Context, req domain.DecisionRequest) (*domain.AgentDecision, error) {
	result, err := c.complete(ctx, buildDecidePrompt(req), 2048, openAIAgentTemperature)
	if err != nil {
		return nil, fmt.Errorf("decide: %w", err)
	}
	return parseDecision(result)
}

func (c *OpenAIClient) Synthesize(ctx context.Context, query string, evidence []string) (string, error) {
	prompt := fmt.Sprintf(synthesizePrompt, formatEvidence(evidence), query)
	result, err := c.complete(ctx, prompt, 1024, openAIAgentTemperature)
	if err != nil {
		return "", fmt.Errorf("synthesize: %w", err)
	}
	return result, nil
}

func (c *OpenAIClient) Judge(ctx context.Context, query, draft string, evidence []string) (*domain.VerificationVerdict, error) {
	prompt := fmt.Sprintf(judgePrompt, formatEvidence(evidence), query, draft)
	result, err := c.complete(ctx, prompt, 1024, openAIJudgeTemperature)
	if err != nil {
		return nil, fmt.Errorf("judge: %w", err)
	}
	return parseVerdict(result)
}
