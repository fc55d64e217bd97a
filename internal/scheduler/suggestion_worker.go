package scheduler

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/logger"
	"github.com/linkstash/linkstash/internal/store"
)

const (
	// DefaultSuggestionDelay is how long a bookmark stays without a
	// suggestion after being saved, so clients can observe the pending
	// (null) phase.
	DefaultSuggestionDelay = 3 * time.Second
	// DefaultSuggestionTick is how often pending bookmarks are scanned.
	DefaultSuggestionTick = time.Second
)

var tagShape = regexp.MustCompile(`^[a-z0-9\-_]+$`)

// SuggestionWorker computes metadata suggestions for saved bookmarks in the
// background. Suggestions are derived from the bookmark URL; they are
// advisory only and never written back into the bookmark itself.
type SuggestionWorker struct {
	memory   *store.Memory
	logger   logger.Logger
	delay    time.Duration
	interval time.Duration
	stopCh   chan struct{}
}

// NewSuggestionWorker creates a new suggestion worker.
func NewSuggestionWorker(
	memory *store.Memory,
	log logger.Logger,
	delay time.Duration,
	interval time.Duration,
) *SuggestionWorker {
	if delay == 0 {
		delay = DefaultSuggestionDelay
	}
	if interval == 0 {
		interval = DefaultSuggestionTick
	}
	return &SuggestionWorker{
		memory:   memory,
		logger:   log,
		delay:    delay,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic suggestion scan.
func (sw *SuggestionWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(sw.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sw.scan()
			case <-sw.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop stops the worker.
func (sw *SuggestionWorker) Stop() {
	close(sw.stopCh)
}

func (sw *SuggestionWorker) scan() {
	for _, b := range sw.memory.PendingSuggestions(sw.delay) {
		sugg := Suggest(b)
		sw.memory.SetSuggestion(b.ID, sugg)
		sw.logger.Debug("computed suggestion",
			logger.String("bookmark_id", b.ID),
			logger.String("title", sugg.Title))
	}
}

// Suggest derives a metadata suggestion from a bookmark's URL. The result is
// deterministic so tests can assert on it.
func Suggest(b domain.Bookmark) domain.AISuggestion {
	host, segment := splitURL(b.URL)

	title := humanize(segment)
	if title == "" {
		// No usable path segment: fall back to the first host label.
		label, _, _ := strings.Cut(strings.TrimPrefix(host, "www."), ".")
		title = humanize(label)
	}
	if title == "" {
		title = "Saved page"
	}

	description := "Page saved from " + host
	if host == "" {
		description = "Saved page"
	}

	return domain.AISuggestion{
		Title:       title,
		Description: description,
		Tags:        hostTags(host),
	}
}

// splitURL extracts the host and the last meaningful path segment.
func splitURL(raw string) (host, segment string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", ""
	}
	host = u.Hostname()

	for _, part := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if part != "" {
			segment = part
		}
	}
	return host, segment
}

// humanize turns a URL path segment like "effective-go" into "Effective Go".
func humanize(s string) string {
	s = strings.TrimSuffix(s, ".html")
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// hostTags derives tag names from the host labels, keeping only labels that
// already satisfy the tag name shape.
func hostTags(host string) []string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	var tags []string
	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > 64 {
			continue
		}
		if !tagShape.MatchString(label) {
			continue
		}
		tags = append(tags, label)
		if len(tags) == 2 {
			break
		}
	}
	return tags
}
