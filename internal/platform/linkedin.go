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

type linkedInAdapter struct {
	client *apiClient
}

func newLinkedInAdapter(cfg config.PlatformConfig, logger *zap.Logger) *linkedInAdapter {
	return &linkedInAdapter{
		client: newAPIClient(LinkedIn, cfg, logger),
	}
}

func (a *linkedInAdapter) FetchProfile(ctx context.Context, ref Ref) (*Profile, error) {
	ctx, span := telemetry.StartSpan(ctx, "linkedin.fetch_profile")
	defer span.End()

	if ref.Kind == KindCompany {
		return a.fetchOrganization(ctx, ref)
	}
	return a.fetchPerson(ctx, ref)
}

func (a *linkedInAdapter) fetchPerson(ctx context.Context, ref Ref) (*Profile, error) {
	var response struct {
		LocalizedFirstName string `json:"localizedFirstName"`
		LocalizedLastName  string `json:"localizedLastName"`
		LocalizedHeadline  string `json:"localizedHeadline"`
		VanityName         string `json:"vanityName"`
	}
	path := "/people/(vanityName:" + url.PathEscape(ref.Username) + ")"
	if err := a.client.getJSON(ctx, path, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch linkedin profile %s: %w", ref.Username, err)
	}

	return &Profile{
		Platform:    LinkedIn,
		Username:    ref.Username,
		DisplayName: response.LocalizedFirstName + " " + response.LocalizedLastName,
		Bio:         response.LocalizedHeadline,
		ProfileURL:  "https://linkedin.com/in/" + ref.Username,
	}, nil
}

func (a *linkedInAdapter) fetchOrganization(ctx context.Context, ref Ref) (*Profile, error) {
	query := url.Values{}
	query.Set("q", "vanityName")
	query.Set("vanityName", ref.Username)

	var response struct {
		Elements []struct {
			ID                   int64  `json:"id"`
			LocalizedName        string `json:"localizedName"`
			LocalizedDescription string `json:"localizedDescription"`
			FollowerCount        int64  `json:"followerCount"`
		} `json:"elements"`
	}
	if err := a.client.getJSON(ctx, "/organizations", query, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch linkedin organization %s: %w", ref.Username, err)
	}
	if len(response.Elements) == 0 {
		return nil, fmt.Errorf("%w: linkedin organization %s", ErrProfileNotFound, ref.Username)
	}

	org := response.Elements[0]
	return &Profile{
		Platform:    LinkedIn,
		Username:    ref.Username,
		DisplayName: org.LocalizedName,
		Followers:   org.FollowerCount,
		Bio:         org.LocalizedDescription,
		ProfileURL:  "https://linkedin.com/company/" + ref.Username,
	}, nil
}

func (a *linkedInAdapter) FetchRecentPosts(ctx context.Context, ref Ref, maxResults int) ([]Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "linkedin.fetch_recent_posts")
	defer span.End()

	query := url.Values{}
	query.Set("q", "authors")
	query.Set("authors", "List(urn:li:organization:"+url.QueryEscape(ref.Username)+")")
	query.Set("count", strconv.Itoa(clampMaxResults(maxResults, 50)))
	query.Set("sortBy", "LAST_MODIFIED")

	var response struct {
		Elements []struct {
			ID         string `json:"id"`
			Commentary string `json:"commentary"`
			CreatedAt  int64  `json:"createdAt"` // epoch millis
			Content    *struct {
				Media *struct {
					ID string `json:"id"`
				} `json:"media"`
			} `json:"content"`
			SocialCounts struct {
				NumLikes    int64 `json:"numLikes"`
				NumComments int64 `json:"numComments"`
				NumShares   int64 `json:"numShares"`
			} `json:"socialCounts"`
		} `json:"elements"`
	}
	if err := a.client.getJSON(ctx, "/posts", query, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch linkedin posts for %s: %w", ref.Username, err)
	}

	posts := make([]Post, 0, len(response.Elements))
	for _, element := range response.Elements {
		posts = append(posts, Post{
			ID:        element.ID,
			Text:      element.Commentary,
			Likes:     element.SocialCounts.NumLikes,
			Comments:  element.SocialCounts.NumComments,
			Shares:    element.SocialCounts.NumShares,
			HasMedia:  element.Content != nil && element.Content.Media != nil,
			CreatedAt: time.UnixMilli(element.CreatedAt),
		})
	}
	return posts, nil
}
