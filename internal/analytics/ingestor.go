package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/nulzo/scribe/internal/store"
	"github.com/nulzo/scribe/internal/store/model"
	"go.uber.org/zap"
)

const (
	DefaultBufferSize = 10000
	DefaultBatchSize  = 50
	DefaultFlushTime  = 5 * time.Second
)

// Ingestor handles the asynchronous persistence of generation logs.
// Log never blocks; when the buffer is full the entry is dropped.
type Ingestor interface {
	Log(log *model.GenerationLog)
	Start(ctx context.Context)
	Stop()
}

type IngestorOption func(*ingestor)

func WithBatchSize(n int) IngestorOption {
	return func(i *ingestor) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

func WithFlushInterval(d time.Duration) IngestorOption {
	return func(i *ingestor) {
		if d > 0 {
			i.flushTime = d
		}
	}
}

func WithBufferSize(n int) IngestorOption {
	return func(i *ingestor) {
		if n > 0 {
			i.logChan = make(chan *model.GenerationLog, n)
		}
	}
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	logChan   chan *model.GenerationLog
	batchSize int
	flushTime time.Duration

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewIngestor(logger *zap.Logger, repo store.Repository, opts ...IngestorOption) Ingestor {
	i := &ingestor{
		logger:    logger,
		repo:      repo,
		logChan:   make(chan *model.GenerationLog, DefaultBufferSize),
		batchSize: DefaultBatchSize,
		flushTime: DefaultFlushTime,
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *ingestor) Log(log *model.GenerationLog) {
	// done also closes when the Start context ends, before any Stop
	select {
	case <-i.quit:
		i.logger.Warn("Analytics ingestor stopped, dropping log", zap.String("generation_id", log.ID))
		return
	case <-i.done:
		i.logger.Warn("Analytics ingestor stopped, dropping log", zap.String("generation_id", log.ID))
		return
	default:
	}

	select {
	case i.logChan <- log:
	default:
		i.logger.Warn("Analytics buffer full, dropping log", zap.String("generation_id", log.ID))
	}
}

// Start runs the worker until Stop or until ctx ends. Callers that keep
// logging during shutdown should pass a context that outlives it.
func (i *ingestor) Start(ctx context.Context) {
	go i.worker(ctx)
}

// Stop flushes whatever is buffered and waits for the worker to exit.
func (i *ingestor) Stop() {
	i.stopOnce.Do(func() {
		close(i.quit)
	})
	<-i.done
}

func (i *ingestor) worker(ctx context.Context) {
	defer close(i.done)

	batch := make([]*model.GenerationLog, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		if err := i.repo.Generations().LogBatch(context.Background(), batch); err != nil {
			i.logger.Error("Failed to persist generation logs", zap.Int("count", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	drain := func() {
		for {
			select {
			case log := <-i.logChan:
				batch = append(batch, log)
				if len(batch) >= i.batchSize {
					flush()
				}
			default:
				flush()
				return
			}
		}
	}

	for {
		select {
		case log := <-i.logChan:
			batch = append(batch, log)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-i.quit:
			drain()
			return
		case <-ctx.Done():
			drain()
			return
		}
	}
}
