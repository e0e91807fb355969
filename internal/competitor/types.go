// Package competitor implements the competitor-analysis pipeline: URL
// parsing, per-profile data collection with bounded concurrency, derived
// content and engagement metrics, data-quality scoring, and a
// freshness-windowed cache over collected results.
package competitor

import (
	"time"

	"github.com/brandpulse/brandpulse/internal/platform"
)

// Collection defaults
const (
	DefaultMaxPosts       = 50
	DefaultTimePeriodDays = 30
	DefaultConcurrency    = 3
	DefaultBatchDelay     = 2 * time.Second
)

// Engagement trend values
const (
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// Data quality levels
const (
	QualityLow    = "low"
	QualityMedium = "medium"
	QualityHigh   = "high"
)

// Options controls one collection run
type Options struct {
	MaxPosts       int           `json:"max_posts"`
	TimePeriodDays int           `json:"time_period_days"`
	Concurrency    int           `json:"-"`
	BatchDelay     time.Duration `json:"-"`
}

// withDefaults fills unset option fields
func (o Options) withDefaults() Options {
	if o.MaxPosts <= 0 {
		o.MaxPosts = DefaultMaxPosts
	}
	if o.TimePeriodDays <= 0 {
		o.TimePeriodDays = DefaultTimePeriodDays
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.BatchDelay <= 0 {
		o.BatchDelay = DefaultBatchDelay
	}
	return o
}

// HashtagCount is one hashtag with its occurrence count
type HashtagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// HourCount is one hour-of-day bucket with its post count
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// DayCount is one weekday bucket with its post count
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// PostingSchedule summarizes when an account posts
type PostingSchedule struct {
	TopHours []HourCount `json:"top_hours"`
	TopDays  []DayCount  `json:"top_days"`
}

// ContentMetrics is the derived view over a profile's recent posts
type ContentMetrics struct {
	Posts               []platform.Post `json:"posts"`
	TotalPosts          int             `json:"total_posts"`
	AveragePostsPerWeek float64         `json:"average_posts_per_week"`
	ContentTypes        map[string]int  `json:"content_types"`
	TopHashtags         []HashtagCount  `json:"top_hashtags"`
	PostingSchedule     PostingSchedule `json:"posting_schedule"`
}

// EngagementSummary is the derived engagement aggregate over a post sample
type EngagementSummary struct {
	AverageLikes    float64 `json:"average_likes"`
	AverageComments float64 `json:"average_comments"`
	AverageShares   float64 `json:"average_shares"`
	TotalEngagement int64   `json:"total_engagement"`
	// EngagementRate is average per-post engagement over followers, as a
	// percentage with one decimal of precision
	EngagementRate float64 `json:"engagement_rate"`
	Trend          string  `json:"trend"`
}

// DataQuality is a heuristic confidence measure in how complete a
// collected profile's data is
type DataQuality struct {
	Score   int      `json:"score"` // 0-100
	Level   string   `json:"level"` // low, medium, high
	Factors []string `json:"factors"`
}

// CollectionResult is the unit flowing through cache and collector: a full
// per-profile collection on success, or the captured error on failure.
// Failures travel as values so one bad profile never aborts its siblings.
type CollectionResult struct {
	ProfileURL  string             `json:"profile_url"`
	Profile     *platform.Profile  `json:"profile,omitempty"`
	Content     *ContentMetrics    `json:"content,omitempty"`
	Engagement  *EngagementSummary `json:"engagement,omitempty"`
	DataQuality *DataQuality       `json:"data_quality,omitempty"`
	Error       string             `json:"error,omitempty"`
	CollectedAt time.Time          `json:"collected_at"`
}

// Failed reports whether this result captured a collection failure
func (r *CollectionResult) Failed() bool {
	return r.Error != ""
}
