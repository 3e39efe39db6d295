// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

// Package feeds fetches the latest episodes of podcast items from their
// RSS or Atom feed.
//
// Parsed feeds are cached per URL, concurrent requests for the same feed
// share one fetch, and all fetches go through a circuit breaker so a dead
// podcast host cannot stall detail pages.
package feeds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/tomtom215/masterpiece/internal/breaker"
	"github.com/tomtom215/masterpiece/internal/cache"
	"github.com/tomtom215/masterpiece/internal/logging"
	"github.com/tomtom215/masterpiece/internal/metrics"
)

var (
	// ErrInvalidURL is returned for feed URLs that are not absolute http(s).
	ErrInvalidURL = errors.New("invalid feed url")

	// ErrTooLarge is returned when a feed body exceeds Config.MaxBytes.
	ErrTooLarge = errors.New("feed too large")
)

const (
	maxDescriptionRunes = 500
	maxErrorBodySize    = 64 * 1024
)

// Episode is one feed entry.
type Episode struct {
	GUID        string     `json:"guid,omitempty"`
	Title       string     `json:"title"`
	Link        string     `json:"link,omitempty"`
	Description string     `json:"description,omitempty"`
	Published   *time.Time `json:"published,omitempty"`
	AudioURL    string     `json:"audioUrl,omitempty"`
	AudioType   string     `json:"audioType,omitempty"`
	Duration    string     `json:"duration,omitempty"`
}

// Feed is a parsed podcast feed trimmed to the latest episodes.
type Feed struct {
	Title       string    `json:"title"`
	Link        string    `json:"link,omitempty"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Episodes    []Episode `json:"episodes"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Config configures a Fetcher.
type Config struct {
	// Timeout bounds one fetch. Default 10s.
	Timeout time.Duration

	// CacheTTL is how long a parsed feed is reused. Default 30m.
	CacheTTL time.Duration

	// CacheSize bounds the number of cached feeds. Default 256.
	CacheSize int

	// MaxEpisodes kept per feed. Default 10.
	MaxEpisodes int

	// MaxBytes bounds a feed body. Default 5MB.
	MaxBytes int64

	// RequestsPerSecond caps outbound fetches across all feeds. Zero means
	// unlimited.
	RequestsPerSecond float64

	// Client overrides the HTTP client.
	Client *http.Client

	Breaker breaker.Settings
}

// Fetcher retrieves and caches feeds.
type Fetcher struct {
	cfg     Config
	client  *http.Client
	cache   *cache.LRU[*Feed]
	breaker *breaker.Breaker[*gofeed.Feed]
	limiter *rate.Limiter
	group   singleflight.Group
}

// NewFetcher creates a fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.MaxEpisodes <= 0 {
		cfg.MaxEpisodes = 10
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 5 << 20
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = "podcast-feeds"
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Fetcher{
		cfg:     cfg,
		client:  client,
		cache:   cache.New(cache.Options[*Feed]{Capacity: cfg.CacheSize, TTL: cfg.CacheTTL}),
		breaker: breaker.New[*gofeed.Feed](cfg.Breaker),
		limiter: limiter,
	}
}

// Episodes returns the feed at feedURL, from cache when fresh. cached
// reports whether the result came from the cache.
func (f *Fetcher) Episodes(ctx context.Context, feedURL string) (feed *Feed, cached bool, err error) {
	if err := validateURL(feedURL); err != nil {
		return nil, false, err
	}

	if feed, ok := f.cache.Get(feedURL); ok {
		metrics.RecordCacheLookup("feeds", true)
		return feed, true, nil
	}
	metrics.RecordCacheLookup("feeds", false)

	if err := f.limiter.Wait(ctx); err != nil {
		metrics.FeedFetches.WithLabelValues("rate_limited").Inc()
		return nil, false, fmt.Errorf("fetch feed: %w", err)
	}

	// The fetch is shared by every waiter, so one caller leaving must not
	// cancel it. Each caller still stops waiting on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := f.group.DoChan(feedURL, func() (interface{}, error) {
		return f.fetch(shared, feedURL)
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*Feed), false, nil
	}
}

func (f *Fetcher) fetch(ctx context.Context, feedURL string) (*Feed, error) {
	log := logging.Ctx(ctx).With().Str("component", "feeds").Str("url", logging.SanitizeValue(feedURL)).Logger()

	raw, err := f.breaker.Execute(func() (*gofeed.Feed, error) {
		ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()

		body, err := f.download(ctx, feedURL)
		if err != nil {
			return nil, err
		}
		return gofeed.NewParser().Parse(bytes.NewReader(body))
	})
	if err != nil {
		result := "failure"
		if errors.Is(err, breaker.ErrRejected) {
			result = "rejected"
		}
		metrics.FeedFetches.WithLabelValues(result).Inc()
		log.Warn().Err(err).Msg("Podcast feed fetch failed")
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	metrics.FeedFetches.WithLabelValues("success").Inc()

	feed := convert(raw, f.cfg.MaxEpisodes)
	f.cache.Add(feedURL, feed)
	log.Debug().Int("episodes", len(feed.Episodes)).Msg("Podcast feed fetched")
	return feed, nil
}

// download reads the feed body, at most cfg.MaxBytes of it.
func (f *Fetcher) download(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "masterpiece-feeds/1.0")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/xml;q=0.9, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, fmt.Errorf("GET %s failed with status %d: %s", feedURL, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("GET %s: reading body: %w", feedURL, err)
	}
	if int64(len(data)) > f.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, feedURL, f.cfg.MaxBytes)
	}
	return data, nil
}

// BreakerState reports the feed breaker state.
func (f *Fetcher) BreakerState() string { return f.breaker.State() }

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

func convert(raw *gofeed.Feed, maxEpisodes int) *Feed {
	out := &Feed{
		Title:       raw.Title,
		Link:        raw.Link,
		Description: truncate(raw.Description, maxDescriptionRunes),
		Episodes:    make([]Episode, 0, min(len(raw.Items), maxEpisodes)),
		FetchedAt:   time.Now().UTC(),
	}
	if raw.Image != nil {
		out.Image = raw.Image.URL
	}

	for _, item := range raw.Items {
		if len(out.Episodes) == maxEpisodes {
			break
		}
		if item == nil {
			continue
		}
		ep := Episode{
			GUID:      item.GUID,
			Title:     item.Title,
			Link:      item.Link,
			Published: item.PublishedParsed,
		}
		desc := item.Description
		if desc == "" {
			desc = item.Content
		}
		ep.Description = truncate(desc, maxDescriptionRunes)
		for _, enc := range item.Enclosures {
			if enc != nil && enc.URL != "" {
				ep.AudioURL, ep.AudioType = enc.URL, enc.Type
				break
			}
		}
		if item.ITunesExt != nil {
			ep.Duration = item.ITunesExt.Duration
		}
		out.Episodes = append(out.Episodes, ep)
	}
	return out
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
