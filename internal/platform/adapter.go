package platform

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/brandpulse/brandpulse/pkg/config"
	"github.com/brandpulse/brandpulse/pkg/logging"
)

// Adapter fetches profile and post data from one platform. Implementations
// normalize platform-specific field names into the shared Profile and Post
// shapes. Adapters fail independently; callers decide whether a failure
// aborts anything beyond the profile being fetched.
type Adapter interface {
	FetchProfile(ctx context.Context, ref Ref) (*Profile, error)
	FetchRecentPosts(ctx context.Context, ref Ref, maxResults int) ([]Post, error)
}

// Registry holds one adapter per supported platform
type Registry struct {
	adapters map[Platform]Adapter
}

// NewRegistry builds adapters for every supported platform from config
func NewRegistry(cfg *config.PlatformsConfig) *Registry {
	logger := logging.GetLogger().With(zap.String("component", "platform"))
	return &Registry{
		adapters: map[Platform]Adapter{
			Twitter:   newTwitterAdapter(cfg.Twitter, logger),
			Instagram: newInstagramAdapter(cfg.Instagram, logger),
			YouTube:   newYouTubeAdapter(cfg.YouTube, logger),
			LinkedIn:  newLinkedInAdapter(cfg.LinkedIn, logger),
			Facebook:  newFacebookAdapter(cfg.Facebook, logger),
		},
	}
}

// For returns the adapter for a platform. Unknown platforms fail closed
// with ErrUnsupportedPlatform rather than returning a nil adapter.
func (r *Registry) For(p Platform) (Adapter, error) {
	adapter, ok := r.adapters[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, p)
	}
	return adapter, nil
}
