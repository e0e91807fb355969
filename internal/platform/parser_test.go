package platform

import (
	"errors"
	"testing"
)

func TestParseProfileURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected Ref
	}{
		{
			name:     "twitter",
			url:      "https://twitter.com/acme",
			expected: Ref{Platform: Twitter, Username: "acme"},
		},
		{
			name:     "twitter with at prefix",
			url:      "https://twitter.com/@acme",
			expected: Ref{Platform: Twitter, Username: "acme"},
		},
		{
			name:     "x.com domain",
			url:      "https://x.com/acme",
			expected: Ref{Platform: Twitter, Username: "acme"},
		},
		{
			name:     "twitter with www and trailing slash",
			url:      "https://www.twitter.com/acme/",
			expected: Ref{Platform: Twitter, Username: "acme"},
		},
		{
			name:     "instagram",
			url:      "https://www.instagram.com/acme.co",
			expected: Ref{Platform: Instagram, Username: "acme.co"},
		},
		{
			name:     "youtube channel id",
			url:      "https://youtube.com/channel/UC1234567890",
			expected: Ref{Platform: YouTube, Username: "UC1234567890", Kind: KindChannel},
		},
		{
			name:     "youtube custom url",
			url:      "https://www.youtube.com/c/AcmeVideos",
			expected: Ref{Platform: YouTube, Username: "AcmeVideos", Kind: KindCustom},
		},
		{
			name:     "youtube legacy user url",
			url:      "https://www.youtube.com/user/acmevideos",
			expected: Ref{Platform: YouTube, Username: "acmevideos", Kind: KindCustom},
		},
		{
			name:     "youtube handle",
			url:      "https://www.youtube.com/@acme",
			expected: Ref{Platform: YouTube, Username: "acme", Kind: KindHandle},
		},
		{
			name:     "linkedin personal",
			url:      "https://www.linkedin.com/in/jane-doe",
			expected: Ref{Platform: LinkedIn, Username: "jane-doe", Kind: KindPersonal},
		},
		{
			name:     "linkedin company",
			url:      "https://www.linkedin.com/company/acme-inc",
			expected: Ref{Platform: LinkedIn, Username: "acme-inc", Kind: KindCompany},
		},
		{
			name:     "facebook",
			url:      "https://www.facebook.com/acmepage",
			expected: Ref{Platform: Facebook, Username: "acmepage"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseProfileURL(tt.url)
			if err != nil {
				t.Fatalf("ParseProfileURL(%q) error = %v", tt.url, err)
			}
			if ref != tt.expected {
				t.Errorf("ParseProfileURL(%q) = %+v, want %+v", tt.url, ref, tt.expected)
			}
		})
	}
}

func TestParseProfileURLErrors(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{
			name:    "unknown host",
			url:     "https://example.com/acme",
			wantErr: ErrUnsupportedPlatform,
		},
		{
			name:    "tiktok not supported",
			url:     "https://www.tiktok.com/@acme",
			wantErr: ErrUnsupportedPlatform,
		},
		{
			name:    "twitter without username",
			url:     "https://twitter.com/",
			wantErr: ErrInvalidProfileURL,
		},
		{
			name:    "youtube channel without id",
			url:     "https://youtube.com/channel",
			wantErr: ErrInvalidProfileURL,
		},
		{
			name:    "youtube watch page",
			url:     "https://youtube.com/watch?v=abc123",
			wantErr: ErrInvalidProfileURL,
		},
		{
			name:    "linkedin without slug",
			url:     "https://www.linkedin.com/in",
			wantErr: ErrInvalidProfileURL,
		},
		{
			name:    "linkedin feed page",
			url:     "https://www.linkedin.com/feed/update/123",
			wantErr: ErrInvalidProfileURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfileURL(tt.url)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseProfileURL(%q) error = %v, want %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
