package competitor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brandpulse/brandpulse/internal/ai"
	"github.com/brandpulse/brandpulse/internal/models"
	"github.com/brandpulse/brandpulse/pkg/logging"
	"github.com/brandpulse/brandpulse/pkg/telemetry"
)

// Request bounds
const (
	MaxProfilesPerRequest = 10

	// posts forwarded to the AI service per competitor, for payload-size control
	payloadPostCap = 10
)

// Input validation errors
var (
	ErrNoProfiles      = errors.New("no competitor urls provided")
	ErrTooManyProfiles = fmt.Errorf("at most %d competitor urls per request", MaxProfilesPerRequest)
)

// AllFailedError is returned when every requested profile failed
// collection; nothing is sent to the AI service in that case.
type AllFailedError struct {
	Failures []FailureDetail
}

// Error implements the error interface
func (e *AllFailedError) Error() string {
	return fmt.Sprintf("all %d competitor profiles failed collection", len(e.Failures))
}

// AnalysisStore persists analysis records
type AnalysisStore interface {
	Create(ctx context.Context, record *models.AnalysisRecord) error
	MarkCompleted(ctx context.Context, id string, result, metadata string) error
	MarkFailed(ctx context.Context, id string, errorDetails string) error
}

// AnalyzeOptions are the caller-supplied knobs on one analysis request.
// Feature toggles default to enabled when omitted.
type AnalyzeOptions struct {
	MaxPosts                   int   `json:"maxPosts,omitempty"`
	TimePeriodDays             int   `json:"timePeriodDays,omitempty"`
	IncludeContentAnalysis     *bool `json:"includeContentAnalysis,omitempty"`
	IncludeEngagementAnalysis  *bool `json:"includeEngagementAnalysis,omitempty"`
	IncludeAudienceAnalysis    *bool `json:"includeAudienceAnalysis,omitempty"`
	IncludeCompetitiveInsights *bool `json:"includeCompetitiveInsights,omitempty"`
	IncludeRecommendations     *bool `json:"includeRecommendations,omitempty"`
}

// AnalyzeRequest is one competitor-analysis request
type AnalyzeRequest struct {
	CompetitorURLs []string        `json:"competitorUrls"`
	CampaignID     string          `json:"campaignId,omitempty"`
	AnalysisType   string          `json:"analysisType,omitempty"`
	Options        *AnalyzeOptions `json:"options,omitempty"`
}

// CompetitorSummary is the per-profile view returned to the caller
type CompetitorSummary struct {
	ProfileURL     string       `json:"profile_url"`
	Platform       string       `json:"platform"`
	Username       string       `json:"username"`
	DisplayName    string       `json:"display_name"`
	Followers      int64        `json:"followers"`
	EngagementRate float64      `json:"engagement_rate"`
	Trend          string       `json:"trend"`
	TotalPosts     int          `json:"total_posts"`
	DataQuality    *DataQuality `json:"data_quality"`
	FromCache      bool         `json:"from_cache"`
}

// FailureDetail is one profile's captured collection failure
type FailureDetail struct {
	ProfileURL string `json:"profile_url"`
	Error      string `json:"error"`
}

// Warnings carries partial-failure information alongside a success
type Warnings struct {
	FailedCompetitors []FailureDetail `json:"failed_competitors"`
}

// AnalysisMetadata aggregates run metadata persisted with the record
type AnalysisMetadata struct {
	ModelVersion       string   `json:"model_version"`
	ProcessingTimeMS   int64    `json:"processing_time_ms"`
	Confidence         float64  `json:"confidence"`
	AverageDataQuality float64  `json:"average_data_quality"`
	PlatformsAnalyzed  []string `json:"platforms_analyzed"`
	TotalPostsAnalyzed int      `json:"total_posts_analyzed"`
}

// AnalyzeResponse is the orchestrator's result for one request
type AnalyzeResponse struct {
	AnalysisID          string              `json:"analysis_id"`
	Status              string              `json:"status"`
	CompetitorsAnalyzed int                 `json:"competitors_analyzed"`
	CompetitorsFailed   int                 `json:"competitors_failed"`
	CacheHits           int                 `json:"cache_hits"`
	CacheMisses         int                 `json:"cache_misses"`
	Competitors         []CompetitorSummary `json:"competitors"`
	Insights            *ai.Insights        `json:"insights,omitempty"`
	Metadata            *AnalysisMetadata   `json:"metadata,omitempty"`
	Warnings            *Warnings           `json:"warnings,omitempty"`
}

// Service orchestrates one analysis request: cache lookups, collection of
// misses, caching of fresh successes, AI payload assembly, the AI call,
// and persistence of the record on both outcomes.
//
// The service is not idempotent at the record level: every call creates a
// new AnalysisRecord. Only the underlying competitor data is deduplicated
// through the cache.
type Service struct {
	cache     *Cache
	collector *Collector
	ai        ai.Analyzer
	store     AnalysisStore
	logger    *zap.Logger
	defaults  Options
}

// NewService creates the analysis orchestrator
func NewService(cache *Cache, collector *Collector, analyzer ai.Analyzer, store AnalysisStore, defaults Options) *Service {
	return &Service{
		cache:     cache,
		collector: collector,
		ai:        analyzer,
		store:     store,
		logger:    logging.GetLogger().With(zap.String("component", "analysis-service")),
		defaults:  defaults.withDefaults(),
	}
}

// Analyze runs one analysis request for a user
func (s *Service) Analyze(ctx context.Context, userID string, req *AnalyzeRequest) (*AnalyzeResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "analysis.run")
	defer span.End()

	start := time.Now()

	if len(req.CompetitorURLs) == 0 {
		return nil, ErrNoProfiles
	}
	if len(req.CompetitorURLs) > MaxProfilesPerRequest {
		return nil, ErrTooManyProfiles
	}

	opts := s.collectionOptions(req.Options)

	record, err := s.createRecord(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis record: %w", err)
	}

	// Batch cache lookup for all requested URLs
	cached, hits, misses := s.cache.GetMultiple(req.CompetitorURLs, opts)
	s.logger.Info("Cache lookup",
		zap.String("analysis_id", record.ID),
		zap.Int("hits", len(hits)),
		zap.Int("misses", len(misses)))

	// Collect only the misses, then cache the fresh successes. Failed
	// collections are never cached so the next request retries them.
	fresh := map[string]*CollectionResult{}
	if len(misses) > 0 {
		for _, result := range s.collector.CollectMultiple(ctx, misses, opts) {
			fresh[result.ProfileURL] = result
		}
		s.cache.SetMultiple(fresh, opts)
	}

	// Merge cached and fresh into input order, then partition
	var successes []*CollectionResult
	var failures []FailureDetail
	var summaries []CompetitorSummary
	seen := map[string]bool{}
	for _, profileURL := range req.CompetitorURLs {
		if seen[profileURL] {
			continue
		}
		seen[profileURL] = true

		result, fromCache := cached[profileURL], true
		if result == nil {
			result, fromCache = fresh[profileURL], false
		}
		if result == nil {
			// collection was cancelled before this URL was reached
			failures = append(failures, FailureDetail{ProfileURL: profileURL, Error: "collection did not run"})
			continue
		}
		if result.Failed() {
			failures = append(failures, FailureDetail{ProfileURL: profileURL, Error: result.Error})
			continue
		}
		successes = append(successes, result)
		summaries = append(summaries, summarize(result, fromCache))
	}

	if len(successes) == 0 {
		allFailed := &AllFailedError{Failures: failures}
		s.persistFailure(ctx, record.ID, allFailed.Error(), failures)
		return nil, allFailed
	}

	// At least one profile succeeded: call the AI service
	payload := s.buildPayload(req, successes)
	insights, err := s.ai.Analyze(ctx, payload)
	if err != nil {
		s.persistFailure(ctx, record.ID, err.Error(), failures)
		return nil, fmt.Errorf("AI analysis failed: %w", err)
	}

	metadata := buildMetadata(successes, insights, time.Since(start))

	response := &AnalyzeResponse{
		AnalysisID:          record.ID,
		Status:              models.AnalysisStatusCompleted,
		CompetitorsAnalyzed: len(successes),
		CompetitorsFailed:   len(failures),
		CacheHits:           len(hits),
		CacheMisses:         len(misses),
		Competitors:         summaries,
		Insights:            insights,
		Metadata:            metadata,
	}
	if len(failures) > 0 {
		response.Warnings = &Warnings{FailedCompetitors: failures}
	}

	s.persistSuccess(ctx, record.ID, response, metadata)

	stats := s.cache.Stats()
	s.logger.Info("Analysis completed",
		zap.String("analysis_id", record.ID),
		zap.Int("analyzed", len(successes)),
		zap.Int("failed", len(failures)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Float64("cache_hit_rate", stats.HitRate))
	return response, nil
}

func (s *Service) collectionOptions(reqOpts *AnalyzeOptions) Options {
	opts := s.defaults
	if reqOpts != nil {
		if reqOpts.MaxPosts > 0 {
			opts.MaxPosts = reqOpts.MaxPosts
		}
		if reqOpts.TimePeriodDays > 0 {
			opts.TimePeriodDays = reqOpts.TimePeriodDays
		}
	}
	return opts
}

func (s *Service) createRecord(ctx context.Context, userID string, req *AnalyzeRequest) (*models.AnalysisRecord, error) {
	params, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	record := &models.AnalysisRecord{
		ID:            uuid.NewString(),
		UserID:        userID,
		Status:        models.AnalysisStatusProcessing,
		RequestParams: string(params),
		CreatedAt:     time.Now().UTC(),
	}
	if req.CampaignID != "" {
		record.CampaignID = sql.NullString{String: req.CampaignID, Valid: true}
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// persistFailure records the failure; a write error here is logged and
// never masks the original error being reported to the user
func (s *Service) persistFailure(ctx context.Context, id, cause string, failures []FailureDetail) {
	details := map[string]interface{}{
		"error":              cause,
		"failed_competitors": failures,
	}
	payload, _ := json.Marshal(details)
	if err := s.store.MarkFailed(ctx, id, string(payload)); err != nil {
		s.logger.Error("Failed to persist failed analysis record",
			zap.String("analysis_id", id),
			zap.Error(err))
	}
}

func (s *Service) persistSuccess(ctx context.Context, id string, response *AnalyzeResponse, metadata *AnalysisMetadata) {
	result, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("Failed to encode analysis result", zap.String("analysis_id", id), zap.Error(err))
		return
	}
	meta, _ := json.Marshal(metadata)
	if err := s.store.MarkCompleted(ctx, id, string(result), string(meta)); err != nil {
		s.logger.Error("Failed to persist completed analysis record",
			zap.String("analysis_id", id),
			zap.Error(err))
	}
}

// buildPayload assembles the normalized AI payload from successful
// collections, capping each post sample for payload-size control
func (s *Service) buildPayload(req *AnalyzeRequest, successes []*CollectionResult) *ai.AnalysisPayload {
	analysisType := req.AnalysisType
	if analysisType == "" {
		analysisType = "competitor_analysis"
	}

	payload := &ai.AnalysisPayload{
		AnalysisType: analysisType,
		Features:     featureToggles(req.Options),
		Competitors:  make([]ai.CompetitorRecord, 0, len(successes)),
	}

	for _, result := range successes {
		competitorRecord := ai.CompetitorRecord{
			Platform:         string(result.Profile.Platform),
			Username:         result.Profile.Username,
			DisplayName:      result.Profile.DisplayName,
			Followers:        result.Profile.Followers,
			Verified:         result.Profile.Verified,
			Bio:              result.Profile.Bio,
			ProfileURL:       result.ProfileURL,
			DataQualityScore: result.DataQuality.Score,
			DataQualityLevel: result.DataQuality.Level,
			Engagement: ai.EngagementFeatures{
				AverageLikes:    result.Engagement.AverageLikes,
				AverageComments: result.Engagement.AverageComments,
				AverageShares:   result.Engagement.AverageShares,
				TotalEngagement: result.Engagement.TotalEngagement,
				EngagementRate:  result.Engagement.EngagementRate,
				Trend:           result.Engagement.Trend,
			},
			Content: ai.ContentFeatures{
				TotalPosts:          result.Content.TotalPosts,
				AveragePostsPerWeek: result.Content.AveragePostsPerWeek,
				ContentTypes:        result.Content.ContentTypes,
			},
		}

		for _, hashtag := range result.Content.TopHashtags {
			competitorRecord.Content.TopHashtags = append(competitorRecord.Content.TopHashtags, hashtag.Tag)
		}
		for _, hour := range result.Content.PostingSchedule.TopHours {
			competitorRecord.Content.TopPostingHours = append(competitorRecord.Content.TopPostingHours, hour.Hour)
		}
		for _, day := range result.Content.PostingSchedule.TopDays {
			competitorRecord.Content.TopPostingDays = append(competitorRecord.Content.TopPostingDays, day.Day)
		}

		sample := result.Content.Posts
		if len(sample) > payloadPostCap {
			sample = sample[:payloadPostCap]
		}
		for _, post := range sample {
			competitorRecord.Content.SamplePosts = append(competitorRecord.Content.SamplePosts, ai.PostSample{
				Text:        post.Text,
				Likes:       post.Likes,
				Comments:    post.Comments,
				Shares:      post.Shares,
				ContentType: classifyContentType(post, result.Profile.Platform),
				CreatedAt:   post.CreatedAt,
			})
		}

		payload.Competitors = append(payload.Competitors, competitorRecord)
	}
	return payload
}

func featureToggles(opts *AnalyzeOptions) ai.FeatureToggles {
	enabled := func(flag *bool) bool {
		return flag == nil || *flag
	}
	if opts == nil {
		opts = &AnalyzeOptions{}
	}
	return ai.FeatureToggles{
		ContentAnalysis:     enabled(opts.IncludeContentAnalysis),
		EngagementAnalysis:  enabled(opts.IncludeEngagementAnalysis),
		AudienceAnalysis:    enabled(opts.IncludeAudienceAnalysis),
		CompetitiveInsights: enabled(opts.IncludeCompetitiveInsights),
		Recommendations:     enabled(opts.IncludeRecommendations),
	}
}

func summarize(result *CollectionResult, fromCache bool) CompetitorSummary {
	return CompetitorSummary{
		ProfileURL:     result.ProfileURL,
		Platform:       string(result.Profile.Platform),
		Username:       result.Profile.Username,
		DisplayName:    result.Profile.DisplayName,
		Followers:      result.Profile.Followers,
		EngagementRate: result.Engagement.EngagementRate,
		Trend:          result.Engagement.Trend,
		TotalPosts:     result.Content.TotalPosts,
		DataQuality:    result.DataQuality,
		FromCache:      fromCache,
	}
}

func buildMetadata(successes []*CollectionResult, insights *ai.Insights, elapsed time.Duration) *AnalysisMetadata {
	metadata := &AnalysisMetadata{
		ModelVersion:     insights.ModelVersion,
		ProcessingTimeMS: elapsed.Milliseconds(),
		Confidence:       insights.Confidence,
	}

	platforms := map[string]bool{}
	var qualityTotal int
	for _, result := range successes {
		platforms[string(result.Profile.Platform)] = true
		qualityTotal += result.DataQuality.Score
		metadata.TotalPostsAnalyzed += result.Content.TotalPosts
	}
	metadata.AverageDataQuality = round1(float64(qualityTotal) / float64(len(successes)))

	for name := range platforms {
		metadata.PlatformsAnalyzed = append(metadata.PlatformsAnalyzed, name)
	}
	sort.Strings(metadata.PlatformsAnalyzed)
	return metadata
}
