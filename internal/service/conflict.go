package service

import (
	"github.com/Harshitk-cp/sibyl/internal/domain"
	"go.uber.org/zap"
)

const (
	ruleUpdatesWin     = "updates_partition_wins"
	ruleHigherScoreWin = "higher_relevance_wins"
)

// ConflictService detects and resolves disagreements between designated
// overlapping partition pairs. The pair table is domain knowledge, not a
// general recency metric.
type ConflictService struct {
	pairs  []domain.PartitionPair
	logger *zap.Logger
}

func NewConflictService(logger *zap.Logger) *ConflictService {
	return &ConflictService{pairs: domain.OverlappingPairs, logger: logger}
}

// NewConflictServiceWithPairs allows a custom pair table, mainly for tests.
func NewConflictServiceWithPairs(pairs []domain.PartitionPair, logger *zap.Logger) *ConflictService {
	return &ConflictService{pairs: pairs, logger: logger}
}

// Detect records one conflict per overlapping pair where both partitions
// returned results. The conflict is temporal when either side carries a
// recency signal (an effective-at timestamp), else semantic.
func (s *ConflictService) Detect(resultsByPartition map[domain.Partition][]domain.RetrievedDocument) []domain.ConflictRecord {
	var conflicts []domain.ConflictRecord

	for _, pair := range s.pairs {
		baseDocs := resultsByPartition[pair.Base]
		updateDocs := resultsByPartition[pair.Updates]
		if len(baseDocs) == 0 || len(updateDocs) == 0 {
			continue
		}

		base := topDocument(baseDocs)
		update := topDocument(updateDocs)

		if hasRecencySignal(base) || hasRecencySignal(update) {
			conflicts = append(conflicts, domain.ConflictRecord{
				Type:        domain.ConflictTemporal,
				LosingID:    base.ID,
				WinningID:   update.ID,
				RuleApplied: ruleUpdatesWin,
			})
			continue
		}

		winner, loser := update, base
		if base.Score > update.Score {
			winner, loser = base, update
		}
		conflicts = append(conflicts, domain.ConflictRecord{
			Type:        domain.ConflictSemantic,
			LosingID:    loser.ID,
			WinningID:   winner.ID,
			RuleApplied: ruleHigherScoreWin,
		})
	}

	return conflicts
}

// Resolve merges the per-partition results into one evidence set. Conflict
// losers are excluded from the evidence but returned flagged rather than
// dropped, so callers can surface them next to the conflict report.
// Documents without a detected conflict are never removed, and no pair
// loses both sides.
func (s *ConflictService) Resolve(resultsByPartition map[domain.Partition][]domain.RetrievedDocument, conflicts []domain.ConflictRecord) (domain.EvidenceSet, []domain.RetrievedDocument) {
	losers := make(map[string]bool, len(conflicts))
	for _, c := range conflicts {
		losers[c.LosingID.String()] = true
		s.logger.Debug("conflict resolved",
			zap.String("type", string(c.Type)),
			zap.String("winner", c.WinningID.String()),
			zap.String("loser", c.LosingID.String()),
			zap.String("rule", c.RuleApplied))
	}

	var merged, flagged []domain.RetrievedDocument
	for _, docs := range resultsByPartition {
		for _, d := range docs {
			if losers[d.ID.String()] {
				d.ConflictLoser = true
				flagged = append(flagged, d)
				continue
			}
			merged = append(merged, d)
		}
	}

	return domain.EvidenceSet{Documents: merged}, flagged
}

func topDocument(docs []domain.RetrievedDocument) domain.RetrievedDocument {
	best := docs[0]
	for _, d := range docs[1:] {
		if d.Score > best.Score {
			best = d
		}
	}
	return best
}

func hasRecencySignal(d domain.RetrievedDocument) bool {
	return d.Metadata.EffectiveAt != nil
}
