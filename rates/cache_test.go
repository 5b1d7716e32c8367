package rates

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"

	pnl "go-oiltrade-pnl"
)

type mock struct {
	count int32
}

func (m *mock) Latest(_ context.Context, _ pnl.Currency) (pnl.Rates, error) {
	atomic.AddInt32(&m.count, 1)
	return pnl.Rates{pnl.USD: 1.164}, nil
}

func TestCachingService(t *testing.T) {
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx) // must cancel to stop go-routine started by this test
	defer cancel()

	var underlyingService mock
	s := NewCachingService(1*time.Minute, log.NewNopLogger(), &underlyingService)

	_, _ = s.Latest(ctx, pnl.EUR)
	assert.Equal(t, atomic.LoadInt32(&underlyingService.count), int32(1))

	_, _ = s.Latest(ctx, pnl.EUR)
	assert.Equal(t, atomic.LoadInt32(&underlyingService.count), int32(1))
}

func TestCachingService_PeriodicRefresh(t *testing.T) {
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx) // must cancel to stop go-routine started by this test
	defer cancel()

	var underlyingService mock
	s := NewCachingService(1*time.Millisecond, log.NewNopLogger(), &underlyingService)

	_, _ = s.Latest(ctx, pnl.EUR)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&underlyingService.count), int32(1))

	last := atomic.LoadInt32(&underlyingService.count)
	time.Sleep(1 * time.Millisecond)
	_, _ = s.Latest(ctx, pnl.EUR)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&underlyingService.count), last)
}
