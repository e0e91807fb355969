package platform

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/brandpulse/brandpulse/pkg/config"
	"github.com/brandpulse/brandpulse/pkg/telemetry"
)

type instagramAdapter struct {
	client *apiClient
}

func newInstagramAdapter(cfg config.PlatformConfig, logger *zap.Logger) *instagramAdapter {
	return &instagramAdapter{
		client: newAPIClient(Instagram, cfg, logger),
	}
}

func (a *instagramAdapter) FetchProfile(ctx context.Context, ref Ref) (*Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "instagram.fetch_profile")
	defer span.End()

	query := url.Values{}
	query.Set("fields", "username,name,biography,followers_count,is_verified")

	var response struct {
		Username       string `json:"username"`
		Name           string `json:"name"`
		Biography      string `json:"biography"`
		FollowersCount int64  `json:"followers_count"`
		IsVerified     bool   `json:"is_verified"`
	}
	if err := a.client.getJSON(ctx, "/"+url.PathEscape(ref.Username), query, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch instagram profile %s: %w", ref.Username, err)
	}

	return &Profile{
		Platform:    Instagram,
		Username:    response.Username,
		DisplayName: response.Name,
		Followers:   response.FollowersCount,
		Verified:    response.IsVerified,
		Bio:         response.Biography,
		ProfileURL:  "https://instagram.com/" + response.Username,
	}, nil
}

func (a *instagramAdapter) FetchRecentPosts(ctx context.Context, ref Ref, maxResults int) ([]Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "instagram.fetch_recent_posts")
	defer span.End()

	query := url.Values{}
	query.Set("fields", "caption,like_count,comments_count,media_type,timestamp")
	query.Set("limit", strconv.Itoa(clampMaxResults(maxResults, 100)))

	var response struct {
		Data []struct {
			ID            string    `json:"id"`
			Caption       string    `json:"caption"`
			LikeCount     int64     `json:"like_count"`
			CommentsCount int64     `json:"comments_count"`
			MediaType     string    `json:"media_type"` // IMAGE, VIDEO, CAROUSEL_ALBUM
			Timestamp     time.Time `json:"timestamp"`
		} `json:"data"`
	}
	if err := a.client.getJSON(ctx, "/"+url.PathEscape(ref.Username)+"/media", query, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch instagram media for %s: %w", ref.Username, err)
	}

	posts := make([]Post, 0, len(response.Data))
	for _, media := range response.Data {
		posts = append(posts, Post{
			ID:        media.ID,
			Text:      media.Caption,
			Likes:     media.LikeCount,
			Comments:  media.CommentsCount,
			HasMedia:  true, // every instagram post carries media
			IsVideo:   media.MediaType == "VIDEO",
			CreatedAt: media.Timestamp,
		})
	}
	return posts, nil
}
