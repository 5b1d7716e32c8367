package rates

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/log"

	pnl "go-oiltrade-pnl"
)

// cachingService decorates a rates.Service with a read-through cache of rate
// tables keyed by base currency. The cachingService is concurrency safe and
// will periodically refresh cached values, so a calculation never waits on
// the network once a base currency has been seen.
type cachingService struct {
	// next the service being decorated with a cache
	next Service

	// cache the cached rate table per base currency
	cache map[pnl.Currency]pnl.Rates

	// updateFrequency how often to refresh cached values (the staleness
	// tolerance, typically an hour)
	updateFrequency time.Duration

	// lock synchronizes access to cache to make it concurrency safe
	lock sync.RWMutex

	logger log.Logger
}

// NewCachingService returns a new caching Service
func NewCachingService(updateFrequency time.Duration, logger log.Logger, s Service) Service {
	return &cachingService{
		next:            s,
		cache:           map[pnl.Currency]pnl.Rates{},
		updateFrequency: updateFrequency,
		logger:          logger,
	}
}

// Latest looks up quotes for a base currency and caches the result
func (s *cachingService) Latest(ctx context.Context, base pnl.Currency) (pnl.Rates, error) {
	s.lock.RLock()
	rates, ok := s.cache[base]
	s.lock.RUnlock()

	if !ok {
		// Note there is a race condition here in that multiple requests for a base that isn't yet cached
		// will result in multiple concurrent attempts to refresh. This should be harmless, unless the
		// underlying source throttles the requests. We could avoid this by holding a lock while calling
		// and waiting on the underlying source, but that is a blocking operation so I'd rather not.
		// To avoid running multiple go routines to periodically refresh the same base, the refreshNow
		// function will inform of the first time the base is cached.
		rates, firstTime, err := s.refreshNow(ctx, base)
		if err != nil {
			return nil, fmt.Errorf("refreshing rate cache [%v]: %w", base, err)
		}
		if firstTime {
			go s.refreshPeriodically(ctx, base)
		}
		return rates, nil
	}

	return rates, nil
}

// refreshNow refreshes a cached entry immediately
func (s *cachingService) refreshNow(ctx context.Context, base pnl.Currency) (pnl.Rates, bool, error) {
	rates, err := s.next.Latest(ctx, base)
	if err != nil {
		return nil, false, fmt.Errorf("refresh [%v]: %w", base, err)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.cache[base]
	s.cache[base] = rates
	return rates, !ok, nil
}

// refreshPeriodically refreshes a cached entry on a given schedule.
// This is expected to be called from a go-routine for each base currency.
func (s *cachingService) refreshPeriodically(ctx context.Context, base pnl.Currency) {
	for {
		select {
		case <-time.After(s.updateFrequency):
			_, _, err := s.refreshNow(ctx, base)
			if err != nil {
				// Don't return, just log and hope this is a transient error
				s.logger.Log("msg", "periodic refresh failed", "base", base, "error", err)
			}
		case <-ctx.Done():
			s.uncache(base)
			return
		}
	}
}

// uncache safely removes a base currency from the cache
func (s *cachingService) uncache(base pnl.Currency) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.cache, base)
}
