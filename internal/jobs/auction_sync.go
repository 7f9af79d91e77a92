package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"arta_auction_backend/internal/auction"
	"arta_auction_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const syncRunTimeout = 2 * time.Minute

// AuctionRefresher reloads the auction snapshot from chain.
type AuctionRefresher interface {
	RefreshAuctions(ctx context.Context) ([]auction.Auction, error)
}

// SyncOptions controls one snapshot sync.
type SyncOptions struct {
	// BatchSize caps documents per bulk request; <= 0 sends everything at once.
	BatchSize int
	// RefreshIndex makes indexed documents searchable before Sync returns.
	RefreshIndex bool
}

// AuctionSyncJob periodically refreshes the auction snapshot and re-indexes it for search.
type AuctionSyncJob struct {
	auctions      AuctionRefresher
	index         auction.SearchIndex
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
	// indexPending is set when the search index could not be prepared at startup.
	indexPending atomic.Bool
}

// NewAuctionSyncJob creates the job. index may be nil when search is not configured.
func NewAuctionSyncJob(auctions AuctionRefresher, index auction.SearchIndex, logger *zap.Logger, cfg *config.Config) *AuctionSyncJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.SkipIfStillRunning(cronLog)),
	)

	return &AuctionSyncJob{
		auctions:      auctions,
		index:         index,
		logger:        logger.Named("AuctionSyncJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
	}
}

// SetupAndStart schedules the job on AUCTION_SYNC_SCHEDULE. An empty schedule disables it.
func (j *AuctionSyncJob) SetupAndStart() error {
	jobSpec := j.cfg.AuctionSyncSchedule
	if jobSpec == "" {
		j.logger.Warn("Auction sync schedule not defined (AUCTION_SYNC_SCHEDULE). Job will not run.")
		return nil
	}

	if j.index != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := j.index.EnsureIndex(ctx)
		cancel()
		if err != nil {
			j.logger.Error("Failed to prepare auction search index; retrying on each sync", zap.Error(err))
			j.indexPending.Store(true)
		}
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule auction sync job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Auction sync job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *AuctionSyncJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), syncRunTimeout)
	defer cancel()

	count, err := j.Sync(ctx, SyncOptions{})
	if err != nil {
		j.logger.Error("Auction sync run failed", zap.Error(err))
		return
	}
	j.logger.Debug("Auction sync run completed", zap.Int("auctions", count))
}

// Sync refreshes the snapshot and, when search is configured, bulk-indexes it.
// It returns the number of auctions in the new snapshot.
func (j *AuctionSyncJob) Sync(ctx context.Context, opts SyncOptions) (int, error) {
	list, err := j.auctions.RefreshAuctions(ctx)
	if err != nil {
		return 0, fmt.Errorf("refreshing auctions: %w", err)
	}
	if j.index == nil {
		return len(list), nil
	}
	if j.indexPending.Load() {
		if err := j.index.EnsureIndex(ctx); err != nil {
			return 0, fmt.Errorf("preparing search index: %w", err)
		}
		j.indexPending.Store(false)
		j.logger.Info("Auction search index prepared")
	}

	batch := opts.BatchSize
	if batch <= 0 || batch > len(list) {
		batch = len(list)
	}
	for start := 0; start < len(list); start += batch {
		end := start + batch
		if end > len(list) {
			end = len(list)
		}
		if err := j.index.IndexAuctions(ctx, list[start:end], opts.RefreshIndex); err != nil {
			return 0, fmt.Errorf("indexing auctions %d-%d: %w", start, end-1, err)
		}
	}
	return len(list), nil
}

// Stop gracefully stops the cron scheduler.
func (j *AuctionSyncJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	j.logger.Info("Stopping auction sync job scheduler...")
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Auction sync job scheduler stopped gracefully.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Auction sync job scheduler stop timed out.")
	}
}

// cronLogger adapts zap.Logger to cron.Logger.
type cronLogger struct {
	zl *zap.Logger
}

func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info is demoted to debug: cron reports every wake-up at info.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Debug(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
