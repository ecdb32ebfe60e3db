package fetch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/offview/internal/product"
)

func darkChocolate() product.Product {
	return product.Product{Code: product.StringPtr("1"), Name: product.StringPtr("Dark Chocolate")}
}

func TestController_Initial(t *testing.T) {
	c := newTestController(t, &fakeFetcher{}, true)

	s := c.State()
	require.Equal(t, ViewSearchResults, s.View)
	require.False(t, s.Loading)
	require.Nil(t, s.Err)
	require.Nil(t, s.Selected)
	require.Empty(t, s.Results)
	require.Equal(t, 0, c.PollMessages(), "nothing to apply")
}

func TestController_SearchScenario(t *testing.T) {
	f := &fakeFetcher{searchFn: func(context.Context, string) ([]product.Product, error) {
		return []product.Product{darkChocolate()}, nil
	}}
	c := newTestController(t, f, true)

	c.OnSearchSubmitted("chocolate")
	s := c.State()
	require.True(t, s.Loading, "loading right after spawning")
	require.Equal(t, "chocolate", s.SearchTerm)

	waitForPending(t, c, 1)
	require.Equal(t, 1, c.PollMessages())

	s = c.State()
	require.False(t, s.Loading)
	require.Equal(t, []product.Product{darkChocolate()}, s.Results)
	require.Equal(t, 1, c.Metrics().Completed)
}

func TestController_SearchKeepsStaleResultsWhileLoading(t *testing.T) {
	release := make(gate)
	calls := 0
	f := &fakeFetcher{searchFn: func(ctx context.Context, _ string) ([]product.Product, error) {
		calls++
		if calls > 1 {
			if err := release.wait(ctx); err != nil {
				return nil, err
			}
		}
		return []product.Product{darkChocolate()}, nil
	}}
	c := newTestController(t, f, true)

	c.OnSearchSubmitted("chocolate")
	waitForPending(t, c, 1)
	c.PollMessages()

	c.OnSearchSubmitted("milk")
	s := c.State()
	require.True(t, s.Loading)
	require.Equal(t, []product.Product{darkChocolate()}, s.Results, "previous results remain visible")

	close(release)
	waitForPending(t, c, 1)
	c.PollMessages()
	require.False(t, c.State().Loading)
}

func TestController_DetailErrorScenario(t *testing.T) {
	f := &fakeFetcher{detailFn: func(context.Context, string) (product.Detail, error) {
		return product.Detail{}, errTransport
	}}
	c := newTestController(t, f, true)

	c.OnProductSelected(darkChocolate())
	s := c.State()
	require.Equal(t, ViewProductDetails, s.View)
	require.True(t, s.Loading)

	waitForPending(t, c, 1)
	c.PollMessages()

	s = c.State()
	require.False(t, s.Loading)
	require.Equal(t, "transport failure", s.ErrText())
	require.Nil(t, s.Selected, "selection unchanged on error")
	require.Equal(t, ViewProductDetails, s.View, "view does not change on error")
	require.Equal(t, []string{"1"}, f.requestedCodes())
}

func TestController_ErrorLeavesResultsAndSelectionUntouched(t *testing.T) {
	fail := false
	f := &fakeFetcher{
		searchFn: func(context.Context, string) ([]product.Product, error) {
			if fail {
				return nil, errTransport
			}
			return []product.Product{darkChocolate()}, nil
		},
	}
	c := newTestController(t, f, true)

	c.OnSearchSubmitted("chocolate")
	waitForPending(t, c, 1)
	c.PollMessages()
	c.OnProductSelected(darkChocolate())
	waitForPending(t, c, 1)
	c.PollMessages()
	before := c.State()
	require.NotNil(t, before.Selected)

	fail = true
	c.OnSearchSubmitted("chocolate")
	waitForPending(t, c, 1)
	c.PollMessages()

	after := c.State()
	require.False(t, after.Loading)
	require.Equal(t, "transport failure", after.ErrText())
	require.Equal(t, before.Results, after.Results)
	require.Equal(t, before.Selected, after.Selected)
}

func TestController_LoadingClearsError(t *testing.T) {
	f := &fakeFetcher{searchFn: func(context.Context, string) ([]product.Product, error) {
		return nil, errTransport
	}}
	c := newTestController(t, f, true)

	c.OnSearchSubmitted("x")
	waitForPending(t, c, 1)
	c.PollMessages()
	require.NotNil(t, c.State().Err)

	c.OnSearchSubmitted("y")
	s := c.State()
	require.True(t, s.Loading)
	require.Nil(t, s.Err, "starting a request clears the stale error")
}

func TestController_MissingCodeUsesSentinel(t *testing.T) {
	f := &fakeFetcher{detailFn: func(_ context.Context, code string) (product.Detail, error) {
		return product.Detail{}, errTransport
	}}
	c := newTestController(t, f, true)

	require.NotPanics(t, func() {
		c.OnProductSelected(product.Product{Name: product.StringPtr("No Code")})
		waitForPending(t, c, 1)
		c.PollMessages()
	})

	require.Equal(t, []string{product.UnknownCode}, f.requestedCodes())
	require.False(t, c.State().Loading)
}

func TestController_BackIsIdempotent(t *testing.T) {
	c := newTestController(t, &fakeFetcher{}, true)

	c.OnProductSelected(darkChocolate())
	waitForPending(t, c, 1)
	c.PollMessages()
	require.NotNil(t, c.State().Selected)

	c.OnBackRequested()
	once := c.State()
	c.OnBackRequested()
	twice := c.State()

	require.Equal(t, once, twice)
	require.Equal(t, ViewSearchResults, twice.View)
	require.Nil(t, twice.Selected)
}

func TestController_SelectKeepsPreviousDetailVisible(t *testing.T) {
	release := make(gate)
	f := &fakeFetcher{detailFn: func(ctx context.Context, code string) (product.Detail, error) {
		if code == "2" {
			if err := release.wait(ctx); err != nil {
				return product.Detail{}, err
			}
		}
		return product.Detail{Code: code}, nil
	}}
	c := newTestController(t, f, true)

	c.OnProductSelected(darkChocolate())
	waitForPending(t, c, 1)
	c.PollMessages()

	c.OnProductSelected(product.Product{Code: product.StringPtr("2")})
	s := c.State()
	require.True(t, s.Loading)
	require.Equal(t, "1", s.Selected.Code, "stale detail stays until the new one lands")

	close(release)
	waitForPending(t, c, 1)
	c.PollMessages()
	require.Equal(t, "2", c.State().Selected.Code)
}

func TestController_OutOfOrderDelivery(t *testing.T) {
	release := make(gate)
	f := &fakeFetcher{
		searchFn: func(ctx context.Context, term string) ([]product.Product, error) {
			if err := release.wait(ctx); err != nil {
				return nil, err
			}
			return []product.Product{{Name: product.StringPtr(term)}}, nil
		},
		detailFn: func(_ context.Context, code string) (product.Detail, error) {
			return product.Detail{Code: code}, nil
		},
	}
	c := newTestController(t, f, true)

	c.OnSearchSubmitted("apple")
	c.OnProductSelected(product.Product{Code: product.StringPtr("123")})
	c.OnBackRequested()

	// The detail lookup started second but completes first.
	waitForPending(t, c, 1)
	require.Equal(t, 1, c.PollMessages())
	s := c.State()
	require.Equal(t, "123", s.Selected.Code)
	require.Equal(t, ViewSearchResults, s.View, "a late detail does not switch screens")
	require.Empty(t, s.Results)

	close(release)
	waitForPending(t, c, 1)
	require.Equal(t, 1, c.PollMessages())
	require.Equal(t, "apple", *c.State().Results[0].Name)
}

// overlappingSearches submits "old" then "new", lets "new" finish first and
// then "old", and polls both in one cycle.
func overlappingSearches(t *testing.T, fence bool) (*Controller, int) {
	t.Helper()
	releaseOld := make(gate)
	f := &fakeFetcher{searchFn: func(ctx context.Context, term string) ([]product.Product, error) {
		if term == "old" {
			if err := releaseOld.wait(ctx); err != nil {
				return nil, err
			}
		}
		return []product.Product{{Name: product.StringPtr(term)}}, nil
	}}
	c := newTestController(t, f, fence)

	c.OnSearchSubmitted("old")
	c.OnSearchSubmitted("new")
	waitForPending(t, c, 1)
	close(releaseOld)
	waitForPending(t, c, 2)

	return c, c.PollMessages()
}

func TestController_FencingDiscardsSupersededResults(t *testing.T) {
	c, applied := overlappingSearches(t, true)

	require.Equal(t, 1, applied)
	require.Equal(t, "new", *c.State().Results[0].Name)
	require.False(t, c.State().Loading)
	require.Equal(t, 1, c.Metrics().Discarded)
}

func TestController_WithoutFencingLastAppliedWins(t *testing.T) {
	c, applied := overlappingSearches(t, false)

	require.Equal(t, 2, applied)
	require.Equal(t, "old", *c.State().Results[0].Name, "stale result overwrites the newer one")
	require.Equal(t, 0, c.Metrics().Discarded)
}

func TestController_FencingIsPerKind(t *testing.T) {
	release := make(gate)
	f := &fakeFetcher{searchFn: func(ctx context.Context, term string) ([]product.Product, error) {
		if err := release.wait(ctx); err != nil {
			return nil, err
		}
		return []product.Product{{Name: product.StringPtr(term)}}, nil
	}}
	c := newTestController(t, f, true)

	c.OnSearchSubmitted("apple")
	c.OnProductSelected(darkChocolate())
	waitForPending(t, c, 1)
	close(release)
	waitForPending(t, c, 2)
	c.PollMessages()

	s := c.State()
	require.Equal(t, "apple", *s.Results[0].Name, "a newer detail request does not fence a search")
	require.NotNil(t, s.Selected)
}

func TestController_StateIsASnapshot(t *testing.T) {
	f := &fakeFetcher{searchFn: func(context.Context, string) ([]product.Product, error) {
		return []product.Product{darkChocolate()}, nil
	}}
	c := newTestController(t, f, true)
	c.OnSearchSubmitted("chocolate")
	waitForPending(t, c, 1)
	c.PollMessages()

	s := c.State()
	s.Results[0] = product.Product{}
	require.Equal(t, darkChocolate(), c.State().Results[0])
}

func TestController_TimeoutProducesError(t *testing.T) {
	f := &fakeFetcher{searchFn: func(ctx context.Context, _ string) ([]product.Product, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c := NewController(Config{Fetcher: f, Timeout: 10 * time.Millisecond})
	t.Cleanup(c.Close)

	c.OnSearchSubmitted("slow")
	waitForPending(t, c, 1)
	c.PollMessages()

	require.Contains(t, c.State().ErrText(), "deadline exceeded")
}

func TestController_CloseStopsWorkersWithoutPanicking(t *testing.T) {
	f := &fakeFetcher{searchFn: func(ctx context.Context, _ string) ([]product.Product, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c := NewController(Config{Fetcher: f})

	c.OnSearchSubmitted("forever")
	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "Close did not return")
	}
	require.ErrorIs(t, c.Channel().Send(ErrorMsg{}), ErrChannelClosed)
}

func TestController_ListenCmd(t *testing.T) {
	c := newTestController(t, &fakeFetcher{}, true)

	c.OnSearchSubmitted("x")
	require.Equal(t, MessagesReadyMsg{}, c.ListenCmd()())
	waitForPending(t, c, 1)
	require.Equal(t, 1, c.PollMessages())
}

func TestController_LatencyMetric(t *testing.T) {
	now := time.Date(2025, 12, 13, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := NewController(Config{Fetcher: &fakeFetcher{}, Now: clock})
	t.Cleanup(c.Close)

	c.OnSearchSubmitted("x")
	waitForPending(t, c, 1)
	now = now.Add(300 * time.Millisecond)
	c.PollMessages()

	require.Equal(t, 300*time.Millisecond, c.Metrics().LastLatency)
}
