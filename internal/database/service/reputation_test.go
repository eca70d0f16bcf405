package service

import (
	"context"
	"testing"

	"github.com/linkdao/reputation/internal/database/models"
	"github.com/linkdao/reputation/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// The bun-backed models must keep satisfying the store seams.
var (
	_ recordStore  = (*models.ReputationModel)(nil)
	_ historyStore = (*models.HistoryModel)(nil)
	_ actorStore   = (*models.ActorModel)(nil)
	_ ruleSource   = (*RuleService)(nil)
)

type stubRuleSource struct {
	rule *types.ReputationRule
	err  error
}

func (s *stubRuleSource) ActiveRule(context.Context, string) (*types.ReputationRule, error) {
	return s.rule, s.err
}

type fakeRecordStore struct {
	records map[string]*types.ReputationRecord
	creates int
	updates int
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: make(map[string]*types.ReputationRecord)}
}

func (f *fakeRecordStore) GetRecord(_ context.Context, key string) (*types.ReputationRecord, error) {
	return f.records[key], nil
}

func (f *fakeRecordStore) GetRecordForUpdate(
	_ context.Context, _ bun.Tx, key string,
) (*types.ReputationRecord, error) {
	return f.records[key], nil
}

func (f *fakeRecordStore) CreateRecord(
	_ context.Context, _ bun.IDB, key string, baseline float64,
) error {
	f.creates++
	f.records[key] = &types.ReputationRecord{ActorKey: key, Score: baseline}

	return nil
}

func (f *fakeRecordStore) UpdateScore(
	_ context.Context, _ bun.IDB, key string, score float64,
) error {
	f.updates++
	f.records[key].Score = score

	return nil
}

type fakeHistoryStore struct {
	entries []*types.ReputationHistoryEntry
}

func (f *fakeHistoryStore) Insert(
	_ context.Context, _ bun.IDB, entry *types.ReputationHistoryEntry,
) error {
	f.entries = append(f.entries, entry)

	return nil
}

func (f *fakeHistoryStore) GetActorHistory(
	context.Context, string, int,
) ([]*types.ReputationHistoryEntry, error) {
	return f.entries, nil
}

type fakeActorStore struct {
	ensured []string
}

func (f *fakeActorStore) Ensure(_ context.Context, _ bun.IDB, key string) error {
	f.ensured = append(f.ensured, key)

	return nil
}

func newFakeReputationService(rule *types.ReputationRule) (
	*ReputationService, *fakeRecordStore, *fakeHistoryStore, *fakeActorStore,
) {
	records := newFakeRecordStore()
	history := &fakeHistoryStore{}
	actors := &fakeActorStore{}

	svc := &ReputationService{
		reputation: records,
		history:    history,
		actors:     actors,
		rules:      &stubRuleSource{rule: rule},
		bounds: types.ScoreBounds{
			Lower:    0,
			Upper:    types.DefaultUpperBound,
			Baseline: types.DefaultBaseline,
		},
		logger: zap.NewNop(),
	}

	return svc, records, history, actors
}

func TestApplyEvent_NoActiveRuleIsNoOp(t *testing.T) {
	t.Parallel()

	svc, records, history, actors := newFakeReputationService(nil)

	entry, err := svc.ApplyEvent(t.Context(), "0xactor", "unmapped_event", nil)
	require.NoError(t, err)
	assert.Nil(t, entry)

	assert.Zero(t, records.creates)
	assert.Zero(t, records.updates)
	assert.Empty(t, history.entries)
	assert.Empty(t, actors.ensured)
}

func TestApplyEvent_LazyRecordCreation(t *testing.T) {
	t.Parallel()

	rule := &types.ReputationRule{
		EventType:    types.EventTypeOrderCompleted,
		ScoreImpact:  2.5,
		WeightFactor: 1,
		IsActive:     true,
	}
	svc, records, history, actors := newFakeReputationService(rule)

	entry, err := svc.applyEventInTx(t.Context(), bun.Tx{}, "0xnewcomer", rule, nil)
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, 1, records.creates, "first event creates exactly one record")
	assert.Equal(t, []string{"0xnewcomer"}, actors.ensured)

	assert.InDelta(t, types.DefaultBaseline, entry.PreviousScore, 0.0001)
	assert.InDelta(t, 52.5, entry.NewScore, 0.0001)
	assert.InDelta(t, 2.5, entry.Delta, 0.0001)

	require.Len(t, history.entries, 1)
	assert.Equal(t, types.EventTypeOrderCompleted, history.entries[0].EventType)

	record := records.records["0xnewcomer"]
	require.NotNil(t, record)
	assert.InDelta(t, 52.5, record.Score, 0.0001)
}

func TestApplyEvent_ExistingRecordClampsAtUpperBound(t *testing.T) {
	t.Parallel()

	rule := &types.ReputationRule{
		EventType:    types.EventTypePositiveReview,
		ScoreImpact:  10,
		WeightFactor: 1,
		IsActive:     true,
	}
	svc, records, history, _ := newFakeReputationService(rule)
	records.records["0xveteran"] = &types.ReputationRecord{ActorKey: "0xveteran", Score: 99}

	entry, err := svc.applyEventInTx(t.Context(), bun.Tx{}, "0xveteran", rule, &ApplyOptions{
		ReferenceID: "rev-7",
	})
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Zero(t, records.creates, "existing records are reused, not recreated")
	assert.InDelta(t, 99, entry.PreviousScore, 0.0001)
	assert.InDelta(t, types.DefaultUpperBound, entry.NewScore, 0.0001)
	assert.InDelta(t, 10, entry.Delta, 0.0001, "history keeps the unclamped delta")
	assert.Equal(t, "rev-7", entry.ReferenceID)

	require.Len(t, history.entries, 1)
}
