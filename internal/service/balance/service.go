package balance

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"paygram/pkg/cache"
	"paygram/pkg/chain"
	"paygram/pkg/errno"
	"paygram/pkg/logger"
)

const balanceTTL = 30 * time.Second

// ChainStateProvider reads balances from the chain. *chain.Client is the
// production implementation.
type ChainStateProvider interface {
	GetBalance(ctx context.Context, address string) (chain.Balance, error)
}

// Service reads on-chain balances through a short-lived cache. Balances
// change only when a transfer lands, so a 30s window trades little
// freshness for far fewer RPC round trips.
type Service struct {
	chain ChainStateProvider
	cache cache.Cache
}

func NewService(provider ChainStateProvider, c cache.Cache) *Service {
	return &Service{chain: provider, cache: c}
}

// Get returns the token and native balance for address, serving from cache
// when a recent read exists. Cache failures are logged and bypassed; the
// chain read is the source of truth.
func (s *Service) Get(ctx context.Context, address string) (chain.Balance, error) {
	if address == "" {
		return chain.Balance{}, errno.ErrValidation.WithDetailf("address is required")
	}

	key := "balance:" + address
	if s.cache != nil {
		var cached chain.Balance
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("balance cache read failed", zap.String("address", address), zap.Error(err))
		}
	}

	bal, err := s.chain.GetBalance(ctx, address)
	if err != nil {
		return chain.Balance{}, errno.ErrExternalService.WithDetailf("read balance for %s: %v", address, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, bal, balanceTTL); err != nil {
			logger.Warn("balance cache write failed", zap.String("address", address), zap.Error(err))
		}
	}
	return bal, nil
}

// Invalidate drops the cached balance for address, used right after a
// transfer settles so the sender sees the new figure immediately.
func (s *Service) Invalidate(ctx context.Context, address string) {
	if s.cache == nil || address == "" {
		return
	}
	if err := s.cache.Delete(ctx, "balance:"+address); err != nil {
		logger.Warn("balance cache invalidate failed", zap.String("address", address), zap.Error(err))
	}
}
