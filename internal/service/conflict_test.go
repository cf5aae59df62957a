package service

import (
	"testing"
	"time"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func doc(partition domain.Partition, score float64, effectiveAt *time.Time) domain.RetrievedDocument {
	return domain.RetrievedDocument{
		ID:              uuid.New(),
		Text:            "text",
		SourcePartition: partition,
		Score:           score,
		Metadata:        domain.DocumentMetadata{EffectiveAt: effectiveAt},
	}
}

func TestConflictService_TemporalUpdatesWinRegardlessOfScore(t *testing.T) {
	s := NewConflictService(zap.NewNop())
	now := time.Now()

	base := doc(domain.PartitionKnowledge, 0.7, nil)
	update := doc(domain.PartitionKnowledgeUpdates, 0.6, &now)

	results := map[domain.Partition][]domain.RetrievedDocument{
		domain.PartitionKnowledge:        {base},
		domain.PartitionKnowledgeUpdates: {update},
	}

	conflicts := s.Detect(results)
	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.ConflictTemporal, conflicts[0].Type)
	assert.Equal(t, update.ID, conflicts[0].WinningID)
	assert.Equal(t, base.ID, conflicts[0].LosingID)
}

func TestConflictService_SemanticHigherScoreWins(t *testing.T) {
	s := NewConflictService(zap.NewNop())

	base := doc(domain.PartitionTax, 0.9, nil)
	update := doc(domain.PartitionTaxUpdates, 0.4, nil)

	results := map[domain.Partition][]domain.RetrievedDocument{
		domain.PartitionTax:        {base},
		domain.PartitionTaxUpdates: {update},
	}

	conflicts := s.Detect(results)
	require.Len(t, conflicts, 1)
	assert.Equal(t, domain.ConflictSemantic, conflicts[0].Type)
	assert.Equal(t, base.ID, conflicts[0].WinningID)
	assert.Equal(t, update.ID, conflicts[0].LosingID)
}

func TestConflictService_NoConflictWhenOneSideEmpty(t *testing.T) {
	s := NewConflictService(zap.NewNop())

	results := map[domain.Partition][]domain.RetrievedDocument{
		domain.PartitionKnowledge: {doc(domain.PartitionKnowledge, 0.8, nil)},
	}

	assert.Empty(t, s.Detect(results))
}

func TestConflictService_ResolveExcludesLosersKeepsRest(t *testing.T) {
	s := NewConflictService(zap.NewNop())
	now := time.Now()

	base := doc(domain.PartitionKnowledge, 0.7, nil)
	update := doc(domain.PartitionKnowledgeUpdates, 0.6, &now)
	bystander := doc(domain.PartitionVisa, 0.5, nil)

	results := map[domain.Partition][]domain.RetrievedDocument{
		domain.PartitionKnowledge:        {base},
		domain.PartitionKnowledgeUpdates: {update},
		domain.PartitionVisa:             {bystander},
	}

	conflicts := s.Detect(results)
	evidence, flagged := s.Resolve(results, conflicts)

	require.Len(t, flagged, 1)
	assert.Equal(t, base.ID, flagged[0].ID)
	assert.True(t, flagged[0].ConflictLoser, "excluded document must carry the loser flag")
	assert.Len(t, evidence.Documents, 2)

	ids := map[uuid.UUID]bool{}
	for _, d := range evidence.Documents {
		ids[d.ID] = true
	}
	assert.True(t, ids[update.ID], "winner must survive")
	assert.True(t, ids[bystander.ID], "unconflicted document must never be removed")
	assert.False(t, ids[base.ID], "loser must be excluded")
}

func TestConflictService_NeverDiscardsBothSides(t *testing.T) {
	s := NewConflictService(zap.NewNop())

	base := doc(domain.PartitionTax, 0.5, nil)
	update := doc(domain.PartitionTaxUpdates, 0.5, nil)

	results := map[domain.Partition][]domain.RetrievedDocument{
		domain.PartitionTax:        {base},
		domain.PartitionTaxUpdates: {update},
	}

	conflicts := s.Detect(results)
	evidence, _ := s.Resolve(results, conflicts)

	require.Len(t, conflicts, 1)
	assert.Len(t, evidence.Documents, 1, "exactly one side survives")
}

func TestConflictService_ResolveWithNoConflictsKeepsEverything(t *testing.T) {
	s := NewConflictService(zap.NewNop())

	results := map[domain.Partition][]domain.RetrievedDocument{
		domain.PartitionVisa:  {doc(domain.PartitionVisa, 0.8, nil)},
		domain.PartitionLegal: {doc(domain.PartitionLegal, 0.6, nil)},
	}

	evidence, flagged := s.Resolve(results, nil)
	assert.Empty(t, flagged)
	assert.Len(t, evidence.Documents, 2)
}
