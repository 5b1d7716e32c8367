package rates

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"

	pnl "go-oiltrade-pnl"
)

type failing struct{}

func (failing) Latest(_ context.Context, _ pnl.Currency) (pnl.Rates, error) {
	return nil, &pnl.RateFetchError{URL: "http://example.invalid", Err: errors.New("down")}
}

func TestFallbackService_DegradesToConfiguredRates(t *testing.T) {
	fallback := pnl.Rates{pnl.USD: 1.164, pnl.MDL: 19.5}
	s := NewFallbackService(pnl.EUR, fallback, log.NewNopLogger(), failing{})

	rates, err := s.Latest(context.Background(), pnl.EUR)

	assert.Nil(t, err)
	assert.Equal(t, pnl.Rate(1.164), rates[pnl.USD])
	assert.Equal(t, pnl.Rate(19.5), rates[pnl.MDL])
}

func TestFallbackService_PassesThroughOnSuccess(t *testing.T) {
	var underlyingService mock
	s := NewFallbackService(pnl.EUR, pnl.Rates{pnl.USD: 99}, log.NewNopLogger(), &underlyingService)

	rates, err := s.Latest(context.Background(), pnl.EUR)

	assert.Nil(t, err)
	assert.Equal(t, pnl.Rate(1.164), rates[pnl.USD]) // live value, not the fallback
}

func TestFallbackService_OtherBaseStillFails(t *testing.T) {
	s := NewFallbackService(pnl.EUR, pnl.Rates{pnl.USD: 1.164}, log.NewNopLogger(), failing{})

	_, err := s.Latest(context.Background(), pnl.USD)

	var fetchErr *pnl.RateFetchError
	assert.True(t, errors.As(err, &fetchErr))
}
