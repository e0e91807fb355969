package competitor

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/brandpulse/brandpulse/internal/platform"
)

var hashtagPattern = regexp.MustCompile(`#[\w]+`)

const (
	topHashtags = 20
	topHours    = 5
	topDays     = 3

	// trend computation needs at least this many posts
	trendMinPosts = 5
	// relative change beyond this is a trend, within it is stable
	trendThreshold = 0.10
)

// AnalyzeContent derives content metrics from a post sample. Posts are
// expected newest first and already filtered to the lookback window.
func AnalyzeContent(posts []platform.Post, p platform.Platform, timePeriodDays int) *ContentMetrics {
	if timePeriodDays <= 0 {
		timePeriodDays = DefaultTimePeriodDays
	}

	metrics := &ContentMetrics{
		Posts:           posts,
		TotalPosts:      len(posts),
		ContentTypes:    map[string]int{},
		TopHashtags:     extractHashtags(posts),
		PostingSchedule: postingSchedule(posts),
	}

	weeks := float64(timePeriodDays) / 7
	metrics.AveragePostsPerWeek = round1(float64(len(posts)) / weeks)

	for _, post := range posts {
		metrics.ContentTypes[classifyContentType(post, p)]++
	}
	return metrics
}

// classifyContentType tags a post with a per-platform content heuristic
func classifyContentType(post platform.Post, p platform.Platform) string {
	switch p {
	case platform.Twitter:
		if post.IsRepost {
			return "retweet"
		}
		if post.HasMedia {
			return "media"
		}
		return "text"
	case platform.YouTube:
		return "video"
	case platform.Instagram:
		if post.IsVideo {
			return "video"
		}
		return "media"
	default:
		if post.IsVideo {
			return "video"
		}
		if post.HasMedia {
			return "media"
		}
		return "text"
	}
}

// extractHashtags returns the most frequent hashtags across the sample,
// case-folded, ordered by count descending
func extractHashtags(posts []platform.Post) []HashtagCount {
	counts := map[string]int{}
	for _, post := range posts {
		for _, tag := range hashtagPattern.FindAllString(post.Text, -1) {
			counts[strings.ToLower(tag)]++
		}
	}

	tags := make([]HashtagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, HashtagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})

	if len(tags) > topHashtags {
		tags = tags[:topHashtags]
	}
	return tags
}

// postingSchedule buckets posts by hour of day and weekday and keeps the
// busiest buckets
func postingSchedule(posts []platform.Post) PostingSchedule {
	hourCounts := map[int]int{}
	dayCounts := map[string]int{}
	for _, post := range posts {
		hourCounts[post.CreatedAt.Hour()]++
		dayCounts[post.CreatedAt.Weekday().String()]++
	}

	hours := make([]HourCount, 0, len(hourCounts))
	for hour, count := range hourCounts {
		hours = append(hours, HourCount{Hour: hour, Count: count})
	}
	sort.Slice(hours, func(i, j int) bool {
		if hours[i].Count != hours[j].Count {
			return hours[i].Count > hours[j].Count
		}
		return hours[i].Hour < hours[j].Hour
	})
	if len(hours) > topHours {
		hours = hours[:topHours]
	}

	days := make([]DayCount, 0, len(dayCounts))
	for day, count := range dayCounts {
		days = append(days, DayCount{Day: day, Count: count})
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].Count != days[j].Count {
			return days[i].Count > days[j].Count
		}
		return days[i].Day < days[j].Day
	})
	if len(days) > topDays {
		days = days[:topDays]
	}

	return PostingSchedule{TopHours: hours, TopDays: days}
}

// AnalyzeEngagement aggregates engagement across the sample and classifies
// the trend by comparing the newer half of the sample against the older
// half. Posts are expected newest first.
func AnalyzeEngagement(posts []platform.Post, followers int64) *EngagementSummary {
	summary := &EngagementSummary{
		Trend: TrendInsufficientData,
	}
	if len(posts) == 0 {
		return summary
	}

	var likes, comments, shares int64
	for _, post := range posts {
		likes += post.Likes
		comments += post.Comments
		shares += post.Shares
	}

	n := float64(len(posts))
	summary.AverageLikes = round1(float64(likes) / n)
	summary.AverageComments = round1(float64(comments) / n)
	summary.AverageShares = round1(float64(shares) / n)
	summary.TotalEngagement = likes + comments + shares

	if followers > 0 {
		averageEngagement := float64(summary.TotalEngagement) / n
		summary.EngagementRate = round1(averageEngagement / float64(followers) * 100)
	}

	summary.Trend = engagementTrend(posts)
	return summary
}

// engagementTrend classifies the direction of engagement over the sample
func engagementTrend(posts []platform.Post) string {
	if len(posts) < trendMinPosts {
		return TrendInsufficientData
	}

	mid := len(posts) / 2
	newerMean := meanEngagement(posts[:mid])
	olderMean := meanEngagement(posts[mid:])

	if olderMean == 0 {
		if newerMean > 0 {
			return TrendIncreasing
		}
		return TrendStable
	}

	change := (newerMean - olderMean) / olderMean
	switch {
	case change > trendThreshold:
		return TrendIncreasing
	case change < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func meanEngagement(posts []platform.Post) float64 {
	if len(posts) == 0 {
		return 0
	}
	var total int64
	for _, post := range posts {
		total += post.Engagement()
	}
	return float64(total) / float64(len(posts))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
