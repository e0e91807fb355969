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

type facebookAdapter struct {
	client *apiClient
}

func newFacebookAdapter(cfg config.PlatformConfig, logger *zap.Logger) *facebookAdapter {
	return &facebookAdapter{
		client: newAPIClient(Facebook, cfg, logger),
	}
}

func (a *facebookAdapter) FetchProfile(ctx context.Context, ref Ref) (*Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "facebook.fetch_profile")
	defer span.End()

	query := url.Values{}
	query.Set("fields", "name,about,fan_count,verification_status,username")

	var response struct {
		Name               string `json:"name"`
		About              string `json:"about"`
		FanCount           int64  `json:"fan_count"`
		VerificationStatus string `json:"verification_status"`
		Username           string `json:"username"`
	}
	if err := a.client.getJSON(ctx, "/"+url.PathEscape(ref.Username), query, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch facebook page %s: %w", ref.Username, err)
	}

	username := response.Username
	if username == "" {
		username = ref.Username
	}

	return &Profile{
		Platform:    Facebook,
		Username:    username,
		DisplayName: response.Name,
		Followers:   response.FanCount,
		Verified:    response.VerificationStatus == "blue_verified",
		Bio:         response.About,
		ProfileURL:  "https://facebook.com/" + username,
	}, nil
}

func (a *facebookAdapter) FetchRecentPosts(ctx context.Context, ref Ref, maxResults int) ([]Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "facebook.fetch_recent_posts")
	defer span.End()

	query := url.Values{}
	query.Set("fields", "message,created_time,attachments,shares,likes.summary(true),comments.summary(true)")
	query.Set("limit", strconv.Itoa(clampMaxResults(maxResults, 100)))

	var response struct {
		Data []struct {
			ID          string    `json:"id"`
			Message     string    `json:"message"`
			CreatedTime time.Time `json:"created_time"`
			Attachments *struct {
				Data []struct {
					Type string `json:"type"`
				} `json:"data"`
			} `json:"attachments"`
			Shares *struct {
				Count int64 `json:"count"`
			} `json:"shares"`
			Likes struct {
				Summary struct {
					TotalCount int64 `json:"total_count"`
				} `json:"summary"`
			} `json:"likes"`
			Comments struct {
				Summary struct {
					TotalCount int64 `json:"total_count"`
				} `json:"summary"`
			} `json:"comments"`
		} `json:"data"`
	}
	if err := a.client.getJSON(ctx, "/"+url.PathEscape(ref.Username)+"/posts", query, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch facebook posts for %s: %w", ref.Username, err)
	}

	posts := make([]Post, 0, len(response.Data))
	for _, item := range response.Data {
		post := Post{
			ID:        item.ID,
			Text:      item.Message,
			Likes:     item.Likes.Summary.TotalCount,
			Comments:  item.Comments.Summary.TotalCount,
			CreatedAt: item.CreatedTime,
		}
		if item.Shares != nil {
			post.Shares = item.Shares.Count
		}
		if item.Attachments != nil {
			for _, attachment := range item.Attachments.Data {
				post.HasMedia = true
				if attachment.Type == "video_inline" || attachment.Type == "video" {
					post.IsVideo = true
				}
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}
