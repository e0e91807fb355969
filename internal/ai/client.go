// Package ai is a thin client for the external analysis service. The
// service accepts a normalized competitor payload and returns structured
// insights; it is treated as a black box with its own availability.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/brandpulse/brandpulse/pkg/config"
	"github.com/brandpulse/brandpulse/pkg/logging"
	"github.com/brandpulse/brandpulse/pkg/telemetry"
)

// Analyzer is the capability the orchestrator depends on
type Analyzer interface {
	Analyze(ctx context.Context, payload *AnalysisPayload) (*Insights, error)
}

// PostSample is one post in the AI payload, trimmed to what the analysis
// model consumes
type PostSample struct {
	Text        string    `json:"text"`
	Likes       int64     `json:"likes"`
	Comments    int64     `json:"comments"`
	Shares      int64     `json:"shares"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CompetitorRecord is one competitor's normalized data in the AI payload.
// The post sample is capped by the orchestrator for payload-size control.
type CompetitorRecord struct {
	Platform         string             `json:"platform"`
	Username         string             `json:"username"`
	DisplayName      string             `json:"display_name"`
	Followers        int64              `json:"followers"`
	Verified         bool               `json:"verified"`
	Bio              string             `json:"bio,omitempty"`
	ProfileURL       string             `json:"profile_url"`
	Engagement       EngagementFeatures `json:"engagement"`
	Content          ContentFeatures    `json:"content"`
	DataQualityScore int                `json:"data_quality_score"`
	DataQualityLevel string             `json:"data_quality_level"`
}

// EngagementFeatures carries the derived engagement aggregate
type EngagementFeatures struct {
	AverageLikes    float64 `json:"average_likes"`
	AverageComments float64 `json:"average_comments"`
	AverageShares   float64 `json:"average_shares"`
	TotalEngagement int64   `json:"total_engagement"`
	EngagementRate  float64 `json:"engagement_rate"`
	Trend           string  `json:"trend"`
}

// ContentFeatures carries the derived content metrics plus a capped sample
type ContentFeatures struct {
	TotalPosts          int            `json:"total_posts"`
	AveragePostsPerWeek float64        `json:"average_posts_per_week"`
	ContentTypes        map[string]int `json:"content_types"`
	TopHashtags         []string       `json:"top_hashtags"`
	TopPostingHours     []int          `json:"top_posting_hours"`
	TopPostingDays      []string       `json:"top_posting_days"`
	SamplePosts         []PostSample   `json:"sample_posts"`
}

// AnalysisPayload is the request body sent to the analysis service
type AnalysisPayload struct {
	AnalysisType string             `json:"analysis_type"`
	Model        string             `json:"model"`
	Competitors  []CompetitorRecord `json:"competitors"`
	Features     FeatureToggles     `json:"features"`
}

// FeatureToggles selects which analysis sections the service produces
type FeatureToggles struct {
	ContentAnalysis     bool `json:"content_analysis"`
	EngagementAnalysis  bool `json:"engagement_analysis"`
	AudienceAnalysis    bool `json:"audience_analysis"`
	CompetitiveInsights bool `json:"competitive_insights"`
	Recommendations     bool `json:"recommendations"`
}

// Insight is one structured finding
type Insight struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
}

// Insights is the structured response from the analysis service
type Insights struct {
	Summary         string    `json:"summary"`
	Insights        []Insight `json:"insights"`
	Recommendations []string  `json:"recommendations"`
	Confidence      float64   `json:"confidence"`
	ModelVersion    string    `json:"model_version"`
}

// ServiceError reports a non-2xx response from the analysis service
type ServiceError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("AI service returned status %d: %s", e.StatusCode, e.Body)
}

// Client calls the external analysis service over HTTP
type Client struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates an analysis-service client from config
func NewClient(cfg *config.AIConfig) *Client {
	return &Client{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logging.GetLogger().With(zap.String("component", "ai-client")),
	}
}

// Analyze sends the normalized payload and decodes the structured insights
func (c *Client) Analyze(ctx context.Context, payload *AnalysisPayload) (*Insights, error) {
	ctx, span := telemetry.StartSpan(ctx, "ai.analyze")
	defer span.End()

	if payload.Model == "" {
		payload.Model = c.model
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("AI service request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read AI service response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("AI service call failed",
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)))
		return nil, &ServiceError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(responseBody), 512),
		}
	}

	var insights Insights
	if err := json.Unmarshal(responseBody, &insights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal AI service response: %w", err)
	}

	c.logger.Info("AI analysis completed",
		zap.Int("competitors", len(payload.Competitors)),
		zap.Duration("elapsed", time.Since(start)))
	return &insights, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
