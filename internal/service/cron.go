package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"paygram/internal/service/ledger"
	"paygram/pkg/logger"
	"paygram/pkg/utils/lock"
)

const stalePendingLockKey = "cron:fail_stale_pending"

// CronService runs the periodic maintenance jobs. Each job takes a
// distributed lock first so only one instance in the deployment runs it.
type CronService struct {
	cron       *cron.Cron
	ledger     *ledger.Service
	lock       lock.DistributedLock
	pendingTTL time.Duration
}

func NewCronService(ledgerSvc *ledger.Service, l lock.DistributedLock, pendingTTL time.Duration) *CronService {
	if pendingTTL <= 0 {
		pendingTTL = 30 * time.Minute
	}
	return &CronService{
		cron:       cron.New(),
		ledger:     ledgerSvc,
		lock:       l,
		pendingTTL: pendingTTL,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc("@every 1m", s.failStalePending); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info("cron scheduler started", zap.Duration("pending_ttl", s.pendingTTL))
	return nil
}

// Stop halts the scheduler and waits for running jobs.
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("cron scheduler stopped")
}

// failStalePending sweeps pending transactions whose signer outcome was
// never recorded, typically after a crash mid-transfer, into failed.
func (s *CronService) failStalePending() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	acquired, err := s.lock.Acquire(ctx, stalePendingLockKey, time.Minute)
	if err != nil {
		logger.Error("acquire cron lock failed", zap.Error(err))
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if err := s.lock.Release(context.Background(), stalePendingLockKey); err != nil {
			logger.Warn("release cron lock failed", zap.Error(err))
		}
	}()

	swept, err := s.ledger.FailStale(ctx, s.pendingTTL)
	if err != nil {
		logger.Error("fail stale pending sweep failed", zap.Error(err))
		return
	}
	if swept > 0 {
		logger.Info("swept stale pending transactions", zap.Int64("count", swept))
	}
}
