package service

import (
	"context"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"go.uber.org/zap"
)

// DefaultJudgeThreshold is the verdict score below which an answer is
// surfaced flagged as unverified.
const DefaultJudgeThreshold = 0.7

// JudgeService scores drafted answers for evidentiary support. It is
// fail-open throughout: a missing model or a failing call degrades to a
// low-confidence pass, never an error to the caller.
type JudgeService struct {
	llm       domain.LLMClient
	threshold float64
	logger    *zap.Logger
}

func NewJudgeService(llm domain.LLMClient, threshold float64, logger *zap.Logger) *JudgeService {
	if threshold <= 0 {
		threshold = DefaultJudgeThreshold
	}
	return &JudgeService{llm: llm, threshold: threshold, logger: logger}
}

// Threshold returns the configured acceptance threshold.
func (s *JudgeService) Threshold() float64 {
	return s.threshold
}

// Verify issues one judgment call comparing the draft's claims against the
// evidence and returns the parsed verdict.
func (s *JudgeService) Verify(ctx context.Context, query, draft string, evidence []string) domain.VerificationVerdict {
	if s.llm == nil {
		s.logger.Warn("no judging model configured, passing draft unverified-by-default")
		return domain.VerificationVerdict{
			Status:    domain.VerdictVerified,
			Score:     1.0,
			Reasoning: "no judging model configured",
		}
	}

	// Greetings and meta-questions legitimately have no retrieval evidence;
	// an empty set is a low-confidence pass, not a reject.
	if len(evidence) == 0 {
		return domain.VerificationVerdict{
			Status:    domain.VerdictPartiallyVerified,
			Score:     0.5,
			Reasoning: "no evidence to verify against",
		}
	}

	verdict, err := s.llm.Judge(ctx, query, draft, evidence)
	if err != nil {
		s.logger.Warn("judging call failed", zap.Error(err))
		return domain.VerificationVerdict{
			Status:    domain.VerdictPartiallyVerified,
			Score:     0.5,
			Reasoning: "judging call failed: " + err.Error(),
		}
	}

	s.logger.Debug("verdict",
		zap.String("status", string(verdict.Status)),
		zap.Float64("score", verdict.Score),
		zap.Int("unsupported_claims", len(verdict.UnsupportedClaims)))

	return *verdict
}
