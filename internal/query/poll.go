package query

import (
	"context"
	"time"

	"github.com/linkstash/linkstash/internal/cache"
	"github.com/linkstash/linkstash/internal/domain"
)

// DefaultSuggestionInterval is how often a mounted suggestion watch polls
// the backend. Suggestions are computed asynchronously server-side, so the
// watch refetches on a fixed beat regardless of staleness.
const DefaultSuggestionInterval = time.Second

// SuggestionWatch polls one bookmark's AI suggestion while it is mounted.
// Polling starts on Start and stops when Stop is called (no component
// subscribes anymore) or the context is cancelled.
type SuggestionWatch struct {
	queries    *Queries
	bookmarkID string
	interval   time.Duration

	updates chan *domain.AISuggestion
	stopCh  chan struct{}
}

// WatchSuggestion creates a watch for the bookmark's AI suggestion.
// A non-positive interval falls back to DefaultSuggestionInterval.
func (q *Queries) WatchSuggestion(bookmarkID string, interval time.Duration) *SuggestionWatch {
	if interval <= 0 {
		interval = DefaultSuggestionInterval
	}
	return &SuggestionWatch{
		queries:    q,
		bookmarkID: bookmarkID,
		interval:   interval,
		updates:    make(chan *domain.AISuggestion, 1),
		stopCh:     make(chan struct{}),
	}
}

// Start begins polling. It fetches immediately, then refetches every
// interval, publishing each result on Updates. Fetch errors are skipped;
// the next tick tries again.
func (w *SuggestionWatch) Start(ctx context.Context) {
	go func() {
		defer close(w.updates)

		w.poll(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.poll(ctx)
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the watch. Safe to call once; the Updates channel is closed
// after the current poll, if any, settles.
func (w *SuggestionWatch) Stop() {
	close(w.stopCh)
}

// Updates delivers each polled suggestion value, nil while the backend has
// none ready. The channel is closed when the watch stops.
func (w *SuggestionWatch) Updates() <-chan *domain.AISuggestion {
	return w.updates
}

func (w *SuggestionWatch) poll(ctx context.Context) {
	sugg, err := cache.GetAs(ctx, w.queries.cache, cache.BookmarkSuggestion(w.bookmarkID), func(ctx context.Context) (*domain.AISuggestion, error) {
		return w.queries.client.GetSuggestion(ctx, w.bookmarkID)
	})
	if err != nil {
		return
	}
	// The poll must hit the network next tick regardless of freshness.
	w.queries.cache.Invalidate(cache.BookmarkSuggestion(w.bookmarkID))

	// Keep only the most recent value when the consumer lags.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- sugg:
	default:
	}
}
