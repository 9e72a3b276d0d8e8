package balance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygram/pkg/cache"
	"paygram/pkg/chain"
	"paygram/pkg/errno"
)

type stubProvider struct {
	balance chain.Balance
	err     error
	calls   int
}

func (p *stubProvider) GetBalance(ctx context.Context, address string) (chain.Balance, error) {
	p.calls++
	return p.balance, p.err
}

func TestGetCachesReads(t *testing.T) {
	provider := &stubProvider{balance: chain.Balance{
		Token:  decimal.RequireFromString("42.5"),
		Native: decimal.RequireFromString("0.1"),
	}}
	svc := NewService(provider, cache.NewMemoryCache(time.Minute, time.Minute))
	ctx := context.Background()

	first, err := svc.Get(ctx, "0xA1")
	require.NoError(t, err)
	second, err := svc.Get(ctx, "0xA1")
	require.NoError(t, err)

	assert.True(t, first.Token.Equal(second.Token))
	assert.Equal(t, 1, provider.calls)
}

func TestGetDistinctAddresses(t *testing.T) {
	provider := &stubProvider{balance: chain.Balance{Token: decimal.NewFromInt(1)}}
	svc := NewService(provider, cache.NewMemoryCache(time.Minute, time.Minute))
	ctx := context.Background()

	_, err := svc.Get(ctx, "0xA1")
	require.NoError(t, err)
	_, err = svc.Get(ctx, "0xB2")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestGetChainError(t *testing.T) {
	provider := &stubProvider{err: errors.New("rpc down")}
	svc := NewService(provider, cache.NewMemoryCache(time.Minute, time.Minute))

	_, err := svc.Get(context.Background(), "0xA1")
	assert.True(t, errno.IsCode(err, errno.ErrExternalService))
}

func TestGetValidation(t *testing.T) {
	svc := NewService(&stubProvider{}, nil)
	_, err := svc.Get(context.Background(), "")
	assert.True(t, errno.IsCode(err, errno.ErrValidation))
}

func TestInvalidateForcesFreshRead(t *testing.T) {
	provider := &stubProvider{balance: chain.Balance{Token: decimal.NewFromInt(10)}}
	svc := NewService(provider, cache.NewMemoryCache(time.Minute, time.Minute))
	ctx := context.Background()

	_, err := svc.Get(ctx, "0xA1")
	require.NoError(t, err)

	svc.Invalidate(ctx, "0xA1")

	_, err = svc.Get(ctx, "0xA1")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestNilCachePassesThrough(t *testing.T) {
	provider := &stubProvider{balance: chain.Balance{Token: decimal.NewFromInt(10)}}
	svc := NewService(provider, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, "0xA1")
	require.NoError(t, err)
	_, err = svc.Get(ctx, "0xA1")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}
