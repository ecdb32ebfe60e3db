package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/offview/internal/product"
)

// fakeFetcher answers from funcs and records every request it sees.
type fakeFetcher struct {
	mu       sync.Mutex
	terms    []string
	codes    []string
	searchFn func(ctx context.Context, term string) ([]product.Product, error)
	detailFn func(ctx context.Context, code string) (product.Detail, error)
}

func (f *fakeFetcher) Search(ctx context.Context, term string) ([]product.Product, error) {
	f.mu.Lock()
	f.terms = append(f.terms, term)
	f.mu.Unlock()
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(ctx, term)
}

func (f *fakeFetcher) Product(ctx context.Context, code string) (product.Detail, error) {
	f.mu.Lock()
	f.codes = append(f.codes, code)
	f.mu.Unlock()
	if f.detailFn == nil {
		return product.Detail{Code: code}, nil
	}
	return f.detailFn(ctx, code)
}

func (f *fakeFetcher) requestedCodes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.codes...)
}

// gate blocks a fake call until released.
type gate chan struct{}

func (g gate) wait(ctx context.Context) error {
	select {
	case <-g:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newTestController(t *testing.T, f Fetcher, fence bool) *Controller {
	t.Helper()
	c := NewController(Config{Fetcher: f, FenceStale: fence})
	t.Cleanup(c.Close)
	return c
}

// waitForPending blocks until n messages are queued.
func waitForPending(t *testing.T, c *Controller, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return c.Channel().Len() >= n },
		time.Second, time.Millisecond, "expected %d pending messages", n)
}

var errTransport = errors.New("transport failure")
