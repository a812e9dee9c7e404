// Package format resolves requested quality labels against the formats a
// video actually offers.
package format

import (
	"sort"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
	"github.com/SpaceXe-tech/yt-api/internal/media"
)

// The quality space is partitioned into a fixed audio set and a fixed video
// set. The partition decides whether a request means audio-only or
// audio+video before any format is inspected.
var (
	audioQualities = []string{"ultralow", "low", "medium"}
	videoQualities = []string{"144p", "240p", "360p", "480p", "720p", "1080p", "1440p", "2160p", "4320p"}
)

// IsAudioQuality reports whether the label belongs to the audio partition.
func IsAudioQuality(quality string) bool {
	for _, q := range audioQualities {
		if q == quality {
			return true
		}
	}
	return false
}

// IsVideoQuality reports whether the label belongs to the video partition.
func IsVideoQuality(quality string) bool {
	for _, q := range videoQualities {
		if q == quality {
			return true
		}
	}
	return false
}

// Select picks the format matching the requested quality label. For audio
// requests a positive bitrate (kbps) narrows multiple candidates to the
// nearest one. Selection is deterministic: the same metadata and quality
// always yield the same format or the same error.
//
// Size information on the returned format is whatever the extractor reported;
// a zero ContentLength is not an error.
func Select(info *media.Info, quality string, bitrate int) (media.Format, error) {
	var kind media.MediaKind
	switch {
	case IsAudioQuality(quality):
		kind = media.KindAudio
	case IsVideoQuality(quality):
		kind = media.KindVideo
	default:
		return media.Format{}, apierr.UnsupportedQuality(quality, AvailableQualities(info))
	}

	var candidates []media.Format
	for _, f := range info.Formats {
		if f.Kind == kind && f.QualityLabel == quality {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return media.Format{}, apierr.UnsupportedQuality(quality, AvailableQualities(info))
	}

	if kind == media.KindAudio && bitrate > 0 {
		return nearestBitrate(candidates, bitrate*1000), nil
	}

	// Ties resolved by highest bitrate, then lowest itag for stability.
	best := candidates[0]
	for _, f := range candidates[1:] {
		if f.Bitrate > best.Bitrate || (f.Bitrate == best.Bitrate && f.Itag < best.Itag) {
			best = f
		}
	}
	return best, nil
}

func nearestBitrate(candidates []media.Format, target int) media.Format {
	best := candidates[0]
	bestDist := distance(best.Bitrate, target)
	for _, f := range candidates[1:] {
		if d := distance(f.Bitrate, target); d < bestDist || (d == bestDist && f.Itag < best.Itag) {
			best, bestDist = f, d
		}
	}
	return best
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// AvailableQualities lists the distinct quality labels the video offers,
// video labels first, each partition ordered best quality first.
func AvailableQualities(info *media.Info) []string {
	offered := make(map[string]media.MediaKind, len(info.Formats))
	for _, f := range info.Formats {
		if f.QualityLabel != "" {
			offered[f.QualityLabel] = f.Kind
		}
	}

	var video, audio []string
	for label, kind := range offered {
		if kind == media.KindVideo {
			video = append(video, label)
		} else {
			audio = append(audio, label)
		}
	}
	sort.Slice(video, func(i, j int) bool { return rank(videoQualities, video[i]) > rank(videoQualities, video[j]) })
	sort.Slice(audio, func(i, j int) bool { return rank(audioQualities, audio[i]) > rank(audioQualities, audio[j]) })
	return append(video, audio...)
}

func rank(order []string, label string) int {
	for i, l := range order {
		if l == label {
			return i
		}
	}
	return len(order)
}
