package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/Harshitk-cp/sibyl/internal/registry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultStepBudget  = 3
	DefaultRunDeadline = 60 * time.Second
	DefaultToolTimeout = 10 * time.Second
)

// fallbackAnswer is the last resort when a run produced neither evidence
// nor reasoning. The contract is a non-empty answer, always.
const fallbackAnswer = "I could not gather enough information to answer this question. Please rephrase or try again."

// RunResult is one orchestration run's output: the draft, the evidence that
// backs it, and the full step trace.
type RunResult struct {
	Draft           string
	Evidence        domain.EvidenceSet
	Steps           []domain.AgentStep
	Conflicts       []domain.ConflictRecord
	BudgetExhausted bool
}

// OrchestratorService drives the bounded reason→tool→observe loop.
type OrchestratorService struct {
	llm       domain.LLMClient
	registry  *registry.Registry
	embedder  domain.EmbeddingClient
	reranker  *RerankService
	conflicts *ConflictService
	docs      domain.DocumentStore

	stepBudget  int
	runDeadline time.Duration
	toolTimeout time.Duration
	logger      *zap.Logger
}

func NewOrchestratorService(
	llm domain.LLMClient,
	reg *registry.Registry,
	embedder domain.EmbeddingClient,
	reranker *RerankService,
	conflicts *ConflictService,
	docs domain.DocumentStore,
	logger *zap.Logger,
) *OrchestratorService {
	return &OrchestratorService{
		llm:         llm,
		registry:    reg,
		embedder:    embedder,
		reranker:    reranker,
		conflicts:   conflicts,
		docs:        docs,
		stepBudget:  DefaultStepBudget,
		runDeadline: DefaultRunDeadline,
		toolTimeout: DefaultToolTimeout,
		logger:      logger,
	}
}

// SetBudgets overrides the loop bounds; zero values keep the defaults.
func (s *OrchestratorService) SetBudgets(stepBudget int, runDeadline, toolTimeout time.Duration) {
	if stepBudget > 0 {
		s.stepBudget = stepBudget
	}
	if runDeadline > 0 {
		s.runDeadline = runDeadline
	}
	if toolTimeout > 0 {
		s.toolTimeout = toolTimeout
	}
}

// Run executes the loop for one query. It always returns a result with a
// non-empty draft; budget or deadline exhaustion forces best-effort
// synthesis from whatever evidence was gathered.
func (s *OrchestratorService) Run(ctx context.Context, q domain.Query, routing domain.RoutingDecision) *RunResult {
	runCtx, cancel := context.WithTimeout(ctx, s.runDeadline)
	defer cancel()

	tools := s.buildTools(routing, q.Tier)
	specs := make([]domain.ToolSpec, 0, len(tools))
	for _, t := range tools {
		specs = append(specs, t.Spec())
	}

	result := &RunResult{}
	seen := make(map[uuid.UUID]bool)

	// Provider init can fail at startup and leave no reasoning model; the
	// run degrades to forced synthesis instead of dereferencing nil.
	if s.llm == nil {
		s.logger.Warn("no reasoning model configured, forcing synthesis")
	}

	for step := 1; s.llm != nil && step <= s.stepBudget; step++ {
		if runCtx.Err() != nil {
			s.logger.Warn("run deadline exceeded mid-loop", zap.Int("step", step))
			break
		}

		decision, err := s.llm.Decide(runCtx, domain.DecisionRequest{
			Query:   q.Text,
			Routing: routing,
			Tools:   specs,
			History: result.Steps,
		})
		if err != nil {
			s.logger.Warn("reasoning call failed, forcing synthesis",
				zap.Int("step", step), zap.Error(err))
			break
		}

		if decision.IsFinal() {
			result.Steps = append(result.Steps, domain.AgentStep{
				StepNumber: step,
				Reasoning:  decision.Reasoning,
				IsFinal:    true,
			})
			result.Draft = decision.FinalAnswer
			break
		}

		observation := s.dispatch(runCtx, tools, decision.ToolCalls, result, seen)
		result.Steps = append(result.Steps, domain.AgentStep{
			StepNumber:  step,
			Reasoning:   decision.Reasoning,
			ToolCalls:   decision.ToolCalls,
			Observation: observation,
		})
	}

	if result.Draft == "" {
		result.BudgetExhausted = true
		result.Draft = s.synthesize(ctx, q, result)
	}

	return result
}

// dispatch runs all tool calls of one step concurrently. The loop advances
// only once every call returns or times out; a failing call contributes its
// failure text as the observation.
func (s *OrchestratorService) dispatch(ctx context.Context, tools map[string]Tool, calls []domain.ToolCall, result *RunResult, seen map[uuid.UUID]bool) string {
	observations := make([]string, len(calls))
	toolResults := make([]*ToolResult, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		g.Go(func() error {
			tool, ok := tools[call.ToolName]
			if !ok {
				observations[i] = fmt.Sprintf("unknown tool %q", call.ToolName)
				return nil
			}

			callCtx, cancel := context.WithTimeout(gctx, s.toolTimeout)
			defer cancel()

			res, err := tool.Execute(callCtx, call.Arguments)
			if err != nil {
				observations[i] = fmt.Sprintf("tool %s failed: %v", call.ToolName, err)
				s.logger.Warn("tool call failed",
					zap.String("tool", call.ToolName), zap.Error(err))
				return nil
			}
			observations[i] = res.Observation
			toolResults[i] = res
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range toolResults {
		if res == nil {
			continue
		}
		for _, d := range res.Documents {
			if seen[d.ID] {
				continue
			}
			seen[d.ID] = true
			result.Evidence.Documents = append(result.Evidence.Documents, d)
		}
		result.Conflicts = append(result.Conflicts, res.Conflicts...)
	}

	return strings.Join(observations, "\n")
}

// synthesize produces the forced best-effort answer. With evidence it asks
// the model for a grounded draft; without it, the most recent reasoning
// text stands in.
func (s *OrchestratorService) synthesize(ctx context.Context, q domain.Query, result *RunResult) string {
	if s.llm != nil && len(result.Evidence.Documents) > 0 {
		// The run deadline may already be spent; synthesis gets its own
		// bounded slice of time.
		synthCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.toolTimeout)
		defer cancel()

		draft, err := s.llm.Synthesize(synthCtx, q.Text, result.Evidence.Texts())
		if err == nil && draft != "" {
			return draft
		}
		s.logger.Warn("forced synthesis failed", zap.Error(err))
	}

	for i := len(result.Steps) - 1; i >= 0; i-- {
		if r := strings.TrimSpace(result.Steps[i].Reasoning); r != "" {
			return r
		}
	}
	return fallbackAnswer
}

func (s *OrchestratorService) buildTools(routing domain.RoutingDecision, tier string) map[string]Tool {
	search := NewSearchTool(s.registry, s.embedder, s.reranker, s.conflicts, routing, tier, s.logger)
	deepDive := NewDeepDiveTool(s.docs)
	return map[string]Tool{
		search.Spec().Name:   search,
		deepDive.Spec().Name: deepDive,
	}
}
