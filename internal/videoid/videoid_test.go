package videoid

import (
	"errors"
	"testing"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
)

func TestResolveRecognizedSyntaxes(t *testing.T) {
	const want = "S3wsCRJVUyg"

	tests := []struct {
		name    string
		locator string
	}{
		{"bare id", "S3wsCRJVUyg"},
		{"short link", "https://youtu.be/S3wsCRJVUyg"},
		{"short link with share params", "https://youtu.be/S3wsCRJVUyg?si=svRtQPHef9TSMABt"},
		{"watch link", "https://www.youtube.com/watch?v=S3wsCRJVUyg"},
		{"watch link without scheme", "www.youtube.com/watch?v=S3wsCRJVUyg"},
		{"watch link with extra params", "https://youtube.com/watch?feature=shared&v=S3wsCRJVUyg"},
		{"mobile watch link", "https://m.youtube.com/watch?v=S3wsCRJVUyg"},
		{"embed link", "https://www.youtube.com/embed/S3wsCRJVUyg"},
		{"shorts link", "https://www.youtube.com/shorts/S3wsCRJVUyg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.locator)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.locator, err)
			}
			if got != want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.locator, got, want)
			}
		})
	}
}

func TestResolveInvalidLocators(t *testing.T) {
	tests := []struct {
		name    string
		locator string
	}{
		{"empty", ""},
		{"too short id", "abc123"},
		{"unrelated url", "https://example.com/watch?v=S3wsCRJVUyg"},
		{"channel link", "https://www.youtube.com/@SomeChannel"},
		{"id with invalid characters", "S3wsCRJVUy!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.locator)
			if err == nil {
				t.Fatalf("Resolve(%q) expected error, got nil", tt.locator)
			}
			var classified *apierr.Error
			if !errors.As(err, &classified) || classified.Kind != apierr.KindInvalidLocator {
				t.Errorf("Resolve(%q) error = %v, want invalid locator", tt.locator, err)
			}
		})
	}
}

func TestWatchURL(t *testing.T) {
	got := WatchURL("S3wsCRJVUyg")
	want := "https://www.youtube.com/watch?v=S3wsCRJVUyg"
	if got != want {
		t.Errorf("WatchURL() = %q, want %q", got, want)
	}
}
