package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by SIBYL_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("SIBYL_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

// LLMProvider returns the configured LLM provider.
// Defaults to "openai" if not set.
// Valid values: openai, anthropic, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// EmbeddingProvider returns the configured embedding provider.
// Defaults to "openai" if not set.
// Valid values: openai, mock
func EmbeddingProvider() string {
	p := os.Getenv("EMBEDDING_PROVIDER")
	if p == "" {
		return "openai"
	}
	return p
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// EmbeddingAPIKey returns the API key for the configured embedding provider.
func EmbeddingAPIKey() string {
	switch EmbeddingProvider() {
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// EmbeddingModel returns the embedding model name.
// Empty means the client default.
func EmbeddingModel() string {
	return os.Getenv("EMBEDDING_MODEL")
}

// EmbeddingBaseURL returns the embedding endpoint base.
// Empty means the provider's public API.
func EmbeddingBaseURL() string {
	return os.Getenv("EMBEDDING_BASE_URL")
}

// EmbeddingTimeout returns the embedding call timeout.
// Defaults to 15s if not set.
func EmbeddingTimeout() time.Duration {
	return durationEnv("EMBEDDING_TIMEOUT", 15*time.Second)
}

// RerankAPIKey returns the re-ranking service credential.
// Empty means re-ranking is disabled and results pass through unordered.
func RerankAPIKey() string {
	return os.Getenv("RERANK_API_KEY")
}

// RerankBaseURL returns the re-ranking service endpoint base.
func RerankBaseURL() string {
	u := os.Getenv("RERANK_BASE_URL")
	if u == "" {
		return "https://api.cohere.ai"
	}
	return u
}

// RerankTimeout returns the re-ranking call timeout.
// Defaults to 5s if not set.
func RerankTimeout() time.Duration {
	return durationEnv("RERANK_TIMEOUT", 5*time.Second)
}

// CacheMaxEntries returns the semantic cache population cap.
// Defaults to 1000 if not set.
func CacheMaxEntries() int {
	return intEnv("CACHE_MAX_ENTRIES", 1000)
}

// CacheSimilarityThreshold returns the cosine threshold for semantic hits.
// Defaults to 0.95 if not set.
func CacheSimilarityThreshold() float64 {
	return floatEnv("CACHE_SIMILARITY_THRESHOLD", 0.95)
}

// CacheTTL returns the default entry TTL. Defaults to 1h if not set.
func CacheTTL() time.Duration {
	return durationEnv("CACHE_TTL", time.Hour)
}

// GoldenSimilarityThreshold returns the strict threshold for the golden
// answer shortcut. Defaults to 0.85 if not set.
func GoldenSimilarityThreshold() float64 {
	return floatEnv("GOLDEN_SIMILARITY_THRESHOLD", 0.85)
}

// AgentStepBudget returns the maximum agent loop iterations.
// Defaults to 3 if not set.
func AgentStepBudget() int {
	return intEnv("AGENT_STEP_BUDGET", 3)
}

// AgentDeadline returns the outer deadline for one orchestration run.
// Defaults to 60s if not set.
func AgentDeadline() time.Duration {
	return durationEnv("AGENT_DEADLINE", 60*time.Second)
}

// ToolTimeout returns the per-tool-call timeout inside one agent step.
// Defaults to 10s if not set.
func ToolTimeout() time.Duration {
	return durationEnv("TOOL_TIMEOUT", 10*time.Second)
}

// JudgeThreshold returns the verdict score below which an answer is flagged
// unverified. Defaults to 0.7 if not set.
func JudgeThreshold() float64 {
	return floatEnv("JUDGE_THRESHOLD", 0.7)
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

func intEnv(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func floatEnv(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
