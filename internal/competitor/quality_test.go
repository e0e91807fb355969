package competitor

import (
	"reflect"
	"testing"

	"github.com/brandpulse/brandpulse/internal/platform"
)

func TestScoreDataQuality(t *testing.T) {
	profile := &platform.Profile{Platform: platform.Twitter, Username: "acme"}
	makePosts := func(n int) []platform.Post {
		return make([]platform.Post, n)
	}

	tests := []struct {
		name            string
		profile         *platform.Profile
		posts           []platform.Post
		totalEngagement int64
		expectedScore   int
		expectedLevel   string
		expectedFactors []string
	}{
		{
			name:            "everything present",
			profile:         profile,
			posts:           makePosts(12),
			totalEngagement: 500,
			expectedScore:   100,
			expectedLevel:   QualityHigh,
			expectedFactors: []string{"profile_data", "content_collected", "sufficient_volume", "engagement_data"},
		},
		{
			name:            "few posts with engagement",
			profile:         profile,
			posts:           makePosts(3),
			totalEngagement: 10,
			expectedScore:   90,
			expectedLevel:   QualityHigh,
			expectedFactors: []string{"profile_data", "content_collected", "engagement_data"},
		},
		{
			name:            "profile and posts but zero engagement",
			profile:         profile,
			posts:           makePosts(10),
			totalEngagement: 0,
			expectedScore:   80,
			expectedLevel:   QualityHigh,
			expectedFactors: []string{"profile_data", "content_collected", "sufficient_volume"},
		},
		{
			name:            "profile and sparse content",
			profile:         profile,
			posts:           makePosts(1),
			totalEngagement: 0,
			expectedScore:   70,
			expectedLevel:   QualityMedium,
			expectedFactors: []string{"profile_data", "content_collected"},
		},
		{
			name:            "profile only",
			profile:         profile,
			posts:           nil,
			totalEngagement: 0,
			expectedScore:   30,
			expectedLevel:   QualityLow,
			expectedFactors: []string{"profile_data"},
		},
		{
			name:            "nothing collected",
			profile:         nil,
			posts:           nil,
			totalEngagement: 0,
			expectedScore:   0,
			expectedLevel:   QualityLow,
			expectedFactors: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quality := ScoreDataQuality(tt.profile, tt.posts, tt.totalEngagement)
			if quality.Score != tt.expectedScore {
				t.Errorf("Score = %d, want %d", quality.Score, tt.expectedScore)
			}
			if quality.Level != tt.expectedLevel {
				t.Errorf("Level = %q, want %q", quality.Level, tt.expectedLevel)
			}
			if !reflect.DeepEqual(quality.Factors, tt.expectedFactors) {
				t.Errorf("Factors = %v, want %v", quality.Factors, tt.expectedFactors)
			}
		})
	}
}

func TestScoreDataQualityDeterministic(t *testing.T) {
	profile := &platform.Profile{Username: "acme"}
	posts := make([]platform.Post, 7)

	first := ScoreDataQuality(profile, posts, 42)
	second := ScoreDataQuality(profile, posts, 42)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ScoreDataQuality() not deterministic: %+v vs %+v", first, second)
	}
}
