package platform

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brandpulse/brandpulse/pkg/config"
	"github.com/brandpulse/brandpulse/pkg/telemetry"
)

type youtubeAdapter struct {
	client *apiClient
}

func newYouTubeAdapter(cfg config.PlatformConfig, logger *zap.Logger) *youtubeAdapter {
	return &youtubeAdapter{
		client: newAPIClient(YouTube, cfg, logger),
	}
}

type youtubeChannel struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		CustomURL   string `json:"customUrl"`
	} `json:"snippet"`
	Statistics struct {
		SubscriberCount string `json:"subscriberCount"`
	} `json:"statistics"`
}

func (a *youtubeAdapter) FetchProfile(ctx context.Context, ref Ref) (*Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "youtube.fetch_profile")
	defer span.End()

	channel, err := a.lookupChannel(ctx, ref)
	if err != nil {
		return nil, err
	}

	subscribers, _ := strconv.ParseInt(channel.Statistics.SubscriberCount, 10, 64)

	return &Profile{
		Platform:    YouTube,
		Username:    strings.TrimPrefix(channel.Snippet.CustomURL, "@"),
		DisplayName: channel.Snippet.Title,
		Followers:   subscribers,
		Bio:         channel.Snippet.Description,
		ProfileURL:  "https://youtube.com/channel/" + channel.ID,
	}, nil
}

func (a *youtubeAdapter) FetchRecentPosts(ctx context.Context, ref Ref, maxResults int) ([]Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "youtube.fetch_recent_posts")
	defer span.End()

	channel, err := a.lookupChannel(ctx, ref)
	if err != nil {
		return nil, err
	}

	// Search gives ordering but no statistics; a second call fills those in.
	query := url.Values{}
	query.Set("part", "id")
	query.Set("channelId", channel.ID)
	query.Set("type", "video")
	query.Set("order", "date")
	query.Set("maxResults", strconv.Itoa(clampMaxResults(maxResults, 50)))

	var search struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := a.client.getJSON(ctx, "/search", query, &search); err != nil {
		return nil, fmt.Errorf("failed to search youtube videos for %s: %w", ref.Username, err)
	}
	if len(search.Items) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		ids = append(ids, item.ID.VideoID)
	}

	query = url.Values{}
	query.Set("part", "snippet,statistics")
	query.Set("id", strings.Join(ids, ","))

	var videos struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string    `json:"title"`
				Description string    `json:"description"`
				PublishedAt time.Time `json:"publishedAt"`
			} `json:"snippet"`
			Statistics struct {
				LikeCount    string `json:"likeCount"`
				CommentCount string `json:"commentCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	if err := a.client.getJSON(ctx, "/videos", query, &videos); err != nil {
		return nil, fmt.Errorf("failed to fetch youtube video stats for %s: %w", ref.Username, err)
	}

	posts := make([]Post, 0, len(videos.Items))
	for _, video := range videos.Items {
		likes, _ := strconv.ParseInt(video.Statistics.LikeCount, 10, 64)
		comments, _ := strconv.ParseInt(video.Statistics.CommentCount, 10, 64)
		posts = append(posts, Post{
			ID:        video.ID,
			Text:      video.Snippet.Title + "\n" + video.Snippet.Description,
			Likes:     likes,
			Comments:  comments,
			HasMedia:  true,
			IsVideo:   true,
			CreatedAt: video.Snippet.PublishedAt,
		})
	}
	return posts, nil
}

// lookupChannel resolves the channel by the lookup kind the URL parser
// extracted: channel id, legacy custom/user name, or @handle.
func (a *youtubeAdapter) lookupChannel(ctx context.Context, ref Ref) (*youtubeChannel, error) {
	query := url.Values{}
	query.Set("part", "snippet,statistics")

	switch ref.Kind {
	case KindChannel:
		query.Set("id", ref.Username)
	case KindCustom:
		query.Set("forUsername", ref.Username)
	default:
		query.Set("forHandle", "@"+ref.Username)
	}

	var response struct {
		Items []youtubeChannel `json:"items"`
	}
	if err := a.client.getJSON(ctx, "/channels", query, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch youtube channel %s: %w", ref.Username, err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: youtube channel %s", ErrProfileNotFound, ref.Username)
	}
	return &response.Items[0], nil
}
