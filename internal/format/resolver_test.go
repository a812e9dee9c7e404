package format

import (
	"errors"
	"reflect"
	"testing"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
	"github.com/SpaceXe-tech/yt-api/internal/media"
)

func scenarioInfo() *media.Info {
	return &media.Info{
		ID:    "S3wsCRJVUyg",
		Title: "Test Video",
		Formats: []media.Format{
			{Itag: 248, Kind: media.KindVideo, QualityLabel: "1080p", Extension: "webm", Bitrate: 2500000, ContentLength: 52_000_000},
			{Itag: 247, Kind: media.KindVideo, QualityLabel: "720p", Extension: "webm", Bitrate: 1200000, ContentLength: 33_000_000},
			{Itag: 251, Kind: media.KindAudio, QualityLabel: "medium", Extension: "webm", Bitrate: 160000, ContentLength: 4_100_000},
			{Itag: 250, Kind: media.KindAudio, QualityLabel: "low", Extension: "webm", Bitrate: 70000, ContentLength: 1_900_000},
		},
	}
}

func TestSelectVideoQuality(t *testing.T) {
	info := scenarioInfo()

	got, err := Select(info, "1080p", 0)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if got.Itag != 248 || got.Kind != media.KindVideo {
		t.Errorf("Select() = itag %d kind %s, want itag 248 kind video", got.Itag, got.Kind)
	}
}

func TestSelectAudioQuality(t *testing.T) {
	info := scenarioInfo()

	got, err := Select(info, "medium", 0)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if got.Itag != 251 || got.Kind != media.KindAudio {
		t.Errorf("Select() = itag %d kind %s, want itag 251 kind audio", got.Itag, got.Kind)
	}
}

func TestSelectUnsupportedQualityListsAvailable(t *testing.T) {
	info := scenarioInfo()

	_, err := Select(info, "2160p", 0)
	if err == nil {
		t.Fatal("Select() expected error for 2160p, got nil")
	}
	var classified *apierr.Error
	if !errors.As(err, &classified) || classified.Kind != apierr.KindUnsupportedQuality {
		t.Fatalf("Select() error = %v, want unsupported quality", err)
	}
	want := []string{"1080p", "720p", "medium", "low"}
	if !reflect.DeepEqual(classified.Available, want) {
		t.Errorf("Available = %v, want %v", classified.Available, want)
	}
}

func TestSelectUnknownLabel(t *testing.T) {
	_, err := Select(scenarioInfo(), "potato", 0)
	var classified *apierr.Error
	if !errors.As(err, &classified) || classified.Kind != apierr.KindUnsupportedQuality {
		t.Fatalf("Select() error = %v, want unsupported quality", err)
	}
}

func TestSelectDeterministic(t *testing.T) {
	info := scenarioInfo()

	first, err := Select(info, "720p", 0)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Select(info, "720p", 0)
		if err != nil {
			t.Fatalf("Select() error on repeat %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("Select() repeat %d = %+v, want %+v", i, again, first)
		}
	}
}

func TestSelectAudioBitratePicksNearest(t *testing.T) {
	info := &media.Info{
		Formats: []media.Format{
			{Itag: 249, Kind: media.KindAudio, QualityLabel: "low", Bitrate: 50000},
			{Itag: 250, Kind: media.KindAudio, QualityLabel: "low", Bitrate: 70000},
		},
	}

	got, err := Select(info, "low", 64)
	if err != nil {
		t.Fatalf("Select() error: %v", err)
	}
	if got.Itag != 250 {
		t.Errorf("Select() with bitrate 64 = itag %d, want 250", got.Itag)
	}
}

func TestQualityPartition(t *testing.T) {
	for _, q := range []string{"ultralow", "low", "medium"} {
		if !IsAudioQuality(q) {
			t.Errorf("IsAudioQuality(%q) = false, want true", q)
		}
		if IsVideoQuality(q) {
			t.Errorf("IsVideoQuality(%q) = true, want false", q)
		}
	}
	for _, q := range []string{"144p", "720p", "1080p", "4320p"} {
		if !IsVideoQuality(q) {
			t.Errorf("IsVideoQuality(%q) = false, want true", q)
		}
		if IsAudioQuality(q) {
			t.Errorf("IsAudioQuality(%q) = true, want false", q)
		}
	}
}

func TestAvailableQualitiesSizeNeverBlocks(t *testing.T) {
	// A missing content length must not hide the quality.
	info := &media.Info{
		Formats: []media.Format{
			{Itag: 18, Kind: media.KindVideo, QualityLabel: "360p", ContentLength: 0},
		},
	}
	got := AvailableQualities(info)
	if len(got) != 1 || got[0] != "360p" {
		t.Errorf("AvailableQualities() = %v, want [360p]", got)
	}
}
