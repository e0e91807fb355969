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

type twitterAdapter struct {
	client *apiClient
}

func newTwitterAdapter(cfg config.PlatformConfig, logger *zap.Logger) *twitterAdapter {
	return &twitterAdapter{
		client: newAPIClient(Twitter, cfg, logger),
	}
}

type twitterUser struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Username      string `json:"username"`
	Description   string `json:"description"`
	Verified      bool   `json:"verified"`
	PublicMetrics struct {
		FollowersCount int64 `json:"followers_count"`
	} `json:"public_metrics"`
}

type twitterTweet struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
	PublicMetrics struct {
		LikeCount    int64 `json:"like_count"`
		ReplyCount   int64 `json:"reply_count"`
		RetweetCount int64 `json:"retweet_count"`
	} `json:"public_metrics"`
	Attachments struct {
		MediaKeys []string `json:"media_keys"`
	} `json:"attachments"`
	ReferencedTweets []struct {
		Type string `json:"type"`
	} `json:"referenced_tweets"`
}

func (a *twitterAdapter) FetchProfile(ctx context.Context, ref Ref) (*Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "twitter.fetch_profile")
	defer span.End()

	user, err := a.lookupUser(ctx, ref.Username)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Platform:    Twitter,
		Username:    user.Username,
		DisplayName: user.Name,
		Followers:   user.PublicMetrics.FollowersCount,
		Verified:    user.Verified,
		Bio:         user.Description,
		ProfileURL:  "https://twitter.com/" + user.Username,
	}, nil
}

func (a *twitterAdapter) FetchRecentPosts(ctx context.Context, ref Ref, maxResults int) ([]Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "twitter.fetch_recent_posts")
	defer span.End()

	user, err := a.lookupUser(ctx, ref.Username)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("max_results", strconv.Itoa(clampMaxResults(maxResults, 100)))
	query.Set("tweet.fields", "created_at,public_metrics,attachments,referenced_tweets")
	query.Set("exclude", "replies")

	var response struct {
		Data []twitterTweet `json:"data"`
	}
	if err := a.client.getJSON(ctx, "/users/"+user.ID+"/tweets", query, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch tweets for %s: %w", ref.Username, err)
	}

	posts := make([]Post, 0, len(response.Data))
	for _, tweet := range response.Data {
		post := Post{
			ID:        tweet.ID,
			Text:      tweet.Text,
			Likes:     tweet.PublicMetrics.LikeCount,
			Comments:  tweet.PublicMetrics.ReplyCount,
			Shares:    tweet.PublicMetrics.RetweetCount,
			HasMedia:  len(tweet.Attachments.MediaKeys) > 0,
			CreatedAt: tweet.CreatedAt,
		}
		for _, referenced := range tweet.ReferencedTweets {
			if referenced.Type == "retweeted" || referenced.Type == "quoted" {
				post.IsRepost = true
			}
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (a *twitterAdapter) lookupUser(ctx context.Context, username string) (*twitterUser, error) {
	query := url.Values{}
	query.Set("user.fields", "description,public_metrics,verified")

	var response struct {
		Data *twitterUser `json:"data"`
	}
	if err := a.client.getJSON(ctx, "/users/by/username/"+url.PathEscape(username), query, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch twitter user %s: %w", username, err)
	}
	if response.Data == nil {
		return nil, fmt.Errorf("%w: twitter user %s", ErrProfileNotFound, username)
	}
	return response.Data, nil
}

func clampMaxResults(n, max int) int {
	if n <= 0 || n > max {
		return max
	}
	return n
}
