package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	pnl "go-oiltrade-pnl"
)

func TestService_Latest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		assert.True(t, strings.HasSuffix(req.URL.String(), "/latest/EUR"))
		response := `{
			"base": "EUR",
			"rates": {
				"USD": 1.164,
				"MDL": 19.5
			}
		}`
		_, _ = rw.Write([]byte(response))
	}))
	defer server.Close()

	s := service{
		url:      server.URL,
		maxTries: 1,
	}

	rates, err := s.Latest(context.Background(), pnl.EUR)

	assert.Nil(t, err)
	assert.Equal(t, pnl.Rate(1.164), rates[pnl.USD])
	assert.Equal(t, pnl.Rate(19.5), rates[pnl.MDL])
}

func TestService_LatestMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		_, _ = rw.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	s := service{
		url:      server.URL,
		maxTries: 3,
	}

	_, err := s.Latest(context.Background(), pnl.EUR)

	var fetchErr *pnl.RateFetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestService_LatestRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&calls, 1)
		rw.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := service{
		url:      server.URL,
		maxTries: 3,
	}

	_, err := s.Latest(context.Background(), pnl.EUR)

	var fetchErr *pnl.RateFetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestService_LatestClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&calls, 1)
		rw.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := service{
		url:      server.URL,
		maxTries: 3,
	}

	_, err := s.Latest(context.Background(), pnl.EUR)

	assert.NotNil(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestService_LatestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		time.Sleep(10 * time.Millisecond)
		_, _ = rw.Write([]byte("{}"))
	}))
	defer server.Close()

	s := service{
		url:      server.URL,
		maxTries: 1,
	}
	s.client.Timeout = 1 * time.Millisecond

	_, err := s.Latest(context.Background(), pnl.EUR)

	assert.NotNil(t, err)
}
