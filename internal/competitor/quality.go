package competitor

import (
	"github.com/brandpulse/brandpulse/internal/platform"
)

// Scoring weights for data completeness
const (
	qualityProfileWeight    = 30
	qualityContentWeight    = 40
	qualityVolumeBonus      = 10
	qualityEngagementWeight = 20

	qualityVolumeThreshold = 10
	qualityMediumFloor     = 50
	qualityHighFloor       = 80
)

// ScoreDataQuality assigns a 0-100 confidence score to a collected profile
// based on which data was obtainable. Deterministic, no I/O.
func ScoreDataQuality(profile *platform.Profile, posts []platform.Post, totalEngagement int64) *DataQuality {
	quality := &DataQuality{
		Factors: []string{},
	}

	if profile != nil {
		quality.Score += qualityProfileWeight
		quality.Factors = append(quality.Factors, "profile_data")
	}
	if len(posts) > 0 {
		quality.Score += qualityContentWeight
		quality.Factors = append(quality.Factors, "content_collected")
	}
	if len(posts) >= qualityVolumeThreshold {
		quality.Score += qualityVolumeBonus
		quality.Factors = append(quality.Factors, "sufficient_volume")
	}
	if totalEngagement > 0 {
		quality.Score += qualityEngagementWeight
		quality.Factors = append(quality.Factors, "engagement_data")
	}

	switch {
	case quality.Score >= qualityHighFloor:
		quality.Level = QualityHigh
	case quality.Score >= qualityMediumFloor:
		quality.Level = QualityMedium
	default:
		quality.Level = QualityLow
	}
	return quality
}
