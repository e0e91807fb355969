package platform

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseProfileURL extracts the platform, username and lookup kind from a
// social profile URL. It performs no network access.
func ParseProfileURL(raw string) (Ref, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %s", ErrInvalidProfileURL, raw)
	}

	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	segments := splitPath(u.Path)

	switch {
	case strings.Contains(host, "twitter.com") || host == "x.com" || strings.HasSuffix(host, ".x.com"):
		return parseSingleSegment(Twitter, raw, segments)
	case strings.Contains(host, "instagram.com"):
		return parseSingleSegment(Instagram, raw, segments)
	case strings.Contains(host, "youtube.com"):
		return parseYouTube(raw, segments)
	case strings.Contains(host, "linkedin.com"):
		return parseLinkedIn(raw, segments)
	case strings.Contains(host, "facebook.com"):
		return parseSingleSegment(Facebook, raw, segments)
	default:
		return Ref{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, host)
	}
}

func splitPath(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

func parseSingleSegment(p Platform, raw string, segments []string) (Ref, error) {
	if len(segments) == 0 {
		return Ref{}, fmt.Errorf("%w: no username in %s", ErrInvalidProfileURL, raw)
	}
	return Ref{
		Platform: p,
		Username: strings.TrimPrefix(segments[0], "@"),
	}, nil
}

func parseYouTube(raw string, segments []string) (Ref, error) {
	if len(segments) == 0 {
		return Ref{}, fmt.Errorf("%w: no channel in %s", ErrInvalidProfileURL, raw)
	}

	switch segments[0] {
	case "channel":
		if len(segments) < 2 {
			return Ref{}, fmt.Errorf("%w: missing channel id in %s", ErrInvalidProfileURL, raw)
		}
		return Ref{Platform: YouTube, Username: segments[1], Kind: KindChannel}, nil
	case "c", "user":
		if len(segments) < 2 {
			return Ref{}, fmt.Errorf("%w: missing channel name in %s", ErrInvalidProfileURL, raw)
		}
		return Ref{Platform: YouTube, Username: segments[1], Kind: KindCustom}, nil
	default:
		if strings.HasPrefix(segments[0], "@") {
			return Ref{Platform: YouTube, Username: strings.TrimPrefix(segments[0], "@"), Kind: KindHandle}, nil
		}
		return Ref{}, fmt.Errorf("%w: unrecognized youtube path in %s", ErrInvalidProfileURL, raw)
	}
}

func parseLinkedIn(raw string, segments []string) (Ref, error) {
	if len(segments) < 2 {
		return Ref{}, fmt.Errorf("%w: no profile slug in %s", ErrInvalidProfileURL, raw)
	}

	switch segments[0] {
	case "in":
		return Ref{Platform: LinkedIn, Username: segments[1], Kind: KindPersonal}, nil
	case "company":
		return Ref{Platform: LinkedIn, Username: segments[1], Kind: KindCompany}, nil
	default:
		return Ref{}, fmt.Errorf("%w: unrecognized linkedin path in %s", ErrInvalidProfileURL, raw)
	}
}
