// Package platform fetches public profile and post data from upstream
// social platform APIs and normalizes it into a common shape.
package platform

import (
	"errors"
	"fmt"
	"time"
)

// Platform identifies a supported social platform
type Platform string

// Supported platforms
const (
	Twitter   Platform = "twitter"
	Instagram Platform = "instagram"
	YouTube   Platform = "youtube"
	LinkedIn  Platform = "linkedin"
	Facebook  Platform = "facebook"
)

// Profile reference kinds. YouTube and LinkedIn URLs carry a subtype that
// decides which upstream lookup to use.
const (
	KindChannel  = "channel"  // youtube.com/channel/<id>
	KindCustom   = "custom"   // youtube.com/c/<name> or /user/<name>
	KindHandle   = "handle"   // youtube.com/@handle
	KindPersonal = "personal" // linkedin.com/in/<slug>
	KindCompany  = "company"  // linkedin.com/company/<slug>
)

// Ref identifies one profile on one platform, as extracted from its URL
type Ref struct {
	Platform Platform `json:"platform"`
	Username string   `json:"username"`
	Kind     string   `json:"kind,omitempty"`
}

// Profile is a point-in-time snapshot of an account's public data,
// normalized across platforms. Snapshots are never updated in place; a
// re-collection produces a new one.
type Profile struct {
	Platform    Platform `json:"platform"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	Followers   int64    `json:"followers"`
	Verified    bool     `json:"verified"`
	Bio         string   `json:"bio"`
	ProfileURL  string   `json:"profile_url"`
}

// Post is one published item with normalized engagement counts. Adapters
// map platform field names (favorite_count, like_count, statistics.likeCount)
// onto this shape before returning.
type Post struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Likes     int64     `json:"likes"`
	Comments  int64     `json:"comments"`
	Shares    int64     `json:"shares"`
	HasMedia  bool      `json:"has_media"`
	IsRepost  bool      `json:"is_repost"`
	IsVideo   bool      `json:"is_video"`
	CreatedAt time.Time `json:"created_at"`
}

// Engagement returns the post's combined engagement count
func (p Post) Engagement() int64 {
	return p.Likes + p.Comments + p.Shares
}

// Errors shared by all adapters
var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrInvalidProfileURL   = errors.New("invalid profile url")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrRateLimited         = errors.New("rate limited by upstream")
)

// UpstreamError reports a non-2xx response from a platform API
type UpstreamError struct {
	Platform   Platform
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Platform, e.StatusCode, e.Body)
}
