package subscription

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"gymhub/internal/clock"
	"gymhub/internal/logger"
	"gymhub/internal/metrics"
)

const sweepLockKey = "gymhub:subscription:sweep:lock"

// Sweeper periodically expires past-due subscriptions. A Redis lock
// elects a single sweeping instance per interval so multiple replicas
// do not race on the same batch (the sweep itself is idempotent, the
// lock just avoids redundant work).
type Sweeper struct {
	repo       Repository
	rdb        *redis.Client
	clk        clock.Clock
	interval   time.Duration
	instanceID string
}

func NewSweeper(repo Repository, rdb *redis.Client, clk clock.Clock, interval time.Duration, instanceID string) *Sweeper {
	return &Sweeper{
		repo:       repo,
		rdb:        rdb,
		clk:        clk,
		interval:   interval,
		instanceID: instanceID,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Info("subscription sweeper started", "interval", s.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("subscription sweeper stopped")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

// lockTTL is slightly below the interval so a crashed holder frees the
// slot before the next tick, floored at half the interval so very short
// intervals never produce a non-positive TTL.
func (s *Sweeper) lockTTL() time.Duration {
	ttl := s.interval - time.Second
	if ttl < s.interval/2 {
		ttl = s.interval / 2
	}
	return ttl
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	acquired, err := s.rdb.SetNX(ctx, sweepLockKey, s.instanceID, s.lockTTL()).Result()
	if err != nil {
		logger.Error("sweep lock acquisition failed: " + err.Error())
		return
	}
	if !acquired {
		logger.Debug("sweep skipped, another instance holds the lock")
		return
	}

	count, err := s.repo.SweepExpired(ctx, s.clk.Now())
	if err != nil {
		logger.Error("expiry sweep failed: " + err.Error())
		return
	}
	metrics.RecordSweep(count)
	if count > 0 {
		logger.Infof("expiry sweep transitioned %d subscriptions to EXPIRED", count)
	}
}
