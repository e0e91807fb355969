package competitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brandpulse/brandpulse/internal/platform"
	"github.com/brandpulse/brandpulse/pkg/logging"
	"github.com/brandpulse/brandpulse/pkg/telemetry"
)

// AdapterSource resolves the adapter for a platform
type AdapterSource interface {
	For(p platform.Platform) (platform.Adapter, error)
}

// Collector orchestrates parser, adapters, analyzer and scorer into
// per-profile collection results. It is rate-limit-aware by construction:
// fetches run in batches of Options.Concurrency with a fixed delay between
// batches, bounding the instantaneous upstream request count.
type Collector struct {
	adapters AdapterSource
	logger   *zap.Logger
	now      func() time.Time
}

// NewCollector creates a collector over an adapter source
func NewCollector(adapters AdapterSource) *Collector {
	return &Collector{
		adapters: adapters,
		logger:   logging.GetLogger().With(zap.String("component", "collector")),
		now:      time.Now,
	}
}

// CollectOne collects one profile. It never returns an error: collection
// failures are captured in the result so callers can distinguish partial
// from total failure across a batch.
func (c *Collector) CollectOne(ctx context.Context, profileURL string, opts Options) *CollectionResult {
	ctx, span := telemetry.StartSpan(ctx, "collector.collect_one")
	defer span.End()

	opts = opts.withDefaults()

	ref, err := platform.ParseProfileURL(profileURL)
	if err != nil {
		return c.errorResult(profileURL, err)
	}

	adapter, err := c.adapters.For(ref.Platform)
	if err != nil {
		return c.errorResult(profileURL, err)
	}

	profile, err := adapter.FetchProfile(ctx, ref)
	if err != nil {
		return c.errorResult(profileURL, err)
	}

	posts, err := adapter.FetchRecentPosts(ctx, ref, opts.MaxPosts)
	if err != nil {
		return c.errorResult(profileURL, err)
	}

	posts = filterLookback(posts, c.now().AddDate(0, 0, -opts.TimePeriodDays))
	if len(posts) > opts.MaxPosts {
		posts = posts[:opts.MaxPosts]
	}

	engagement := AnalyzeEngagement(posts, profile.Followers)
	content := AnalyzeContent(posts, ref.Platform, opts.TimePeriodDays)
	quality := ScoreDataQuality(profile, posts, engagement.TotalEngagement)

	return &CollectionResult{
		ProfileURL:  profileURL,
		Profile:     profile,
		Content:     content,
		Engagement:  engagement,
		DataQuality: quality,
		CollectedAt: c.now().UTC(),
	}
}

// CollectMultiple collects many profiles in batches. Within a batch all
// fetches run concurrently and each is independently wrapped, so one
// failure never cancels its siblings. Batch N+1 never starts before batch
// N has settled and the inter-batch delay has elapsed.
func (c *Collector) CollectMultiple(ctx context.Context, profileURLs []string, opts Options) []*CollectionResult {
	ctx, span := telemetry.StartSpan(ctx, "collector.collect_multiple")
	defer span.End()

	opts = opts.withDefaults()
	results := make([]*CollectionResult, len(profileURLs))

	for start := 0; start < len(profileURLs); start += opts.Concurrency {
		end := start + opts.Concurrency
		if end > len(profileURLs) {
			end = len(profileURLs)
		}

		c.logger.Debug("Collecting batch",
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int("total", len(profileURLs)))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = c.CollectOne(ctx, profileURLs[i], opts)
			}(i)
		}
		wg.Wait()

		// Delay before the next batch to respect upstream rate limits
		if end < len(profileURLs) {
			if err := c.wait(ctx, opts.BatchDelay); err != nil {
				for i := end; i < len(profileURLs); i++ {
					results[i] = c.errorResult(profileURLs[i], err)
				}
				break
			}
		}
	}
	return results
}

// wait sleeps for the given duration, honoring context cancellation
func (c *Collector) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Collector) errorResult(profileURL string, err error) *CollectionResult {
	c.logger.Warn("Profile collection failed",
		zap.String("url", profileURL),
		zap.Error(err))
	return &CollectionResult{
		ProfileURL:  profileURL,
		Error:       err.Error(),
		CollectedAt: c.now().UTC(),
	}
}

// filterLookback keeps posts newer than the cutoff, preserving order
func filterLookback(posts []platform.Post, cutoff time.Time) []platform.Post {
	filtered := posts[:0:0]
	for _, post := range posts {
		if post.CreatedAt.After(cutoff) {
			filtered = append(filtered, post)
		}
	}
	return filtered
}
