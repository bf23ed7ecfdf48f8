package analytics_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nulzo/scribe/internal/analytics"
	"github.com/nulzo/scribe/internal/store"
	"github.com/nulzo/scribe/internal/store/model"
	"github.com/nulzo/scribe/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

type MockGenerations struct {
	mock.Mock
}

func (m *MockGenerations) Log(ctx context.Context, log *model.GenerationLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockGenerations) LogBatch(ctx context.Context, logs []*model.GenerationLog) error {
	return m.Called(ctx, logs).Error(0)
}

func (m *MockGenerations) Recent(ctx context.Context, limit int) ([]model.GenerationLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.GenerationLog), args.Error(1)
}

func (m *MockGenerations) DailyUsage(ctx context.Context, days int) ([]model.DailyUsage, error) {
	args := m.Called(ctx, days)
	return args.Get(0).([]model.DailyUsage), args.Error(1)
}

type mockRepo struct {
	gens *MockGenerations
}

func (r mockRepo) Generations() store.GenerationRepository { return r.gens }
func (r mockRepo) Close() error { return nil }

func TestService_ClampsArguments(t *testing.T) {
	gens := new(MockGenerations)
	svc := analytics.NewService(mockRepo{gens: gens})
	ctx := context.Background()

	gens.On("DailyUsage", ctx, analytics.DefaultUsageDays).Return([]model.DailyUsage{}, nil).Once()
	gens.On("DailyUsage", ctx, analytics.MaxUsageDays).Return([]model.DailyUsage{}, nil).Once()
	gens.On("DailyUsage", ctx, 3).Return([]model.DailyUsage{{Provider: "mock", Requests: 1}}, nil).Once()
	gens.On("Recent", ctx, analytics.DefaultRecentLimit).Return([]model.GenerationLog{}, nil).Once()
	gens.On("Recent", ctx, analytics.MaxRecentLimit).Return([]model.GenerationLog{}, nil).Once()

	_, err := svc.GetUsageOverview(ctx, 0)
	require.NoError(t, err)
	_, err = svc.GetUsageOverview(ctx, 10000)
	require.NoError(t, err)
	usage, err := svc.GetUsageOverview(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, usage[0].Requests)

	_, err = svc.GetRecent(ctx, -1)
	require.NoError(t, err)
	_, err = svc.GetRecent(ctx, 1_000_000)
	require.NoError(t, err)

	gens.AssertExpectations(t)
}

func TestIngestor_FlushesOnStop(t *testing.T) {
	repo, err := sqlite.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	ing := analytics.NewIngestor(zap.NewNop(), repo, analytics.WithFlushInterval(time.Hour))
	ing.Start(context.Background())

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		ing.Log(&model.GenerationLog{
			ID:        fmt.Sprintf("g-%d", i),
			Operation: "generate",
			Provider:  "mock",
			CreatedAt: now,
		})
	}
	ing.Stop()

	recent, err := repo.Generations().Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 5)
}

func TestIngestor_FlushesFullBatches(t *testing.T) {
	gens := new(MockGenerations)
	var mu sync.Mutex
	var sizes []int
	gens.On("LogBatch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			sizes = append(sizes, len(args.Get(1).([]*model.GenerationLog)))
		}).
		Return(nil)

	ing := analytics.NewIngestor(zap.NewNop(), mockRepo{gens: gens},
		analytics.WithBatchSize(2),
		analytics.WithFlushInterval(time.Hour),
	)
	ing.Start(context.Background())
	for i := 0; i < 5; i++ {
		ing.Log(&model.GenerationLog{ID: fmt.Sprintf("g-%d", i)})
	}
	ing.Stop()

	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, n := range sizes {
		assert.LessOrEqual(t, n, 2)
		total += n
	}
	assert.Equal(t, 5, total)
}

func TestIngestor_DropsWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	gens := new(MockGenerations)

	// never started, so nothing drains the buffer
	ing := analytics.NewIngestor(zap.New(core), mockRepo{gens: gens}, analytics.WithBufferSize(1))
	ing.Log(&model.GenerationLog{ID: "kept"})
	ing.Log(&model.GenerationLog{ID: "dropped"})

	require.Equal(t, 1, logs.FilterMessage("Analytics buffer full, dropping log").Len())
	assert.Equal(t, "dropped", logs.All()[0].ContextMap()["generation_id"])
}

func TestIngestor_LogAfterStopIsDropped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	gens := new(MockGenerations)

	ing := analytics.NewIngestor(zap.New(core), mockRepo{gens: gens})
	ing.Start(context.Background())
	ing.Stop()
	ing.Stop()

	ing.Log(&model.GenerationLog{ID: "late"})
	assert.Equal(t, 1, logs.FilterMessage("Analytics ingestor stopped, dropping log").Len())
	gens.AssertNotCalled(t, "LogBatch", mock.Anything, mock.Anything)
}

func TestIngestor_LogAfterContextEndsIsReported(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	gens := new(MockGenerations)
	gens.On("LogBatch", mock.Anything, mock.Anything).Return(nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	ing := analytics.NewIngestor(zap.New(core), mockRepo{gens: gens})
	ing.Start(ctx)
	cancel()

	assert.Eventually(t, func() bool {
		ing.Log(&model.GenerationLog{ID: "late"})
		return logs.FilterMessage("Analytics ingestor stopped, dropping log").Len() > 0
	}, time.Second, 10*time.Millisecond)

	ing.Stop()
}
