package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassifyPassthrough(t *testing.T) {
	original := UnsupportedQuality("2160p", []string{"1080p"})
	wrapped := fmt.Errorf("selecting format: %w", original)

	got := Classify(wrapped)
	if got.Kind != KindUnsupportedQuality {
		t.Errorf("Classify() kind = %s, want unsupported quality", got.Kind)
	}
	if len(got.Available) != 1 || got.Available[0] != "1080p" {
		t.Errorf("Classify() lost Available: %v", got.Available)
	}
}

func TestClassifyForbidden(t *testing.T) {
	tests := []error{
		errors.New("unexpected status code: 403"),
		errors.New("response forbidden by upstream"),
		errors.New("Login required to view this video"),
	}
	for _, err := range tests {
		if got := Classify(err); got.Kind != KindForbidden {
			t.Errorf("Classify(%v) kind = %s, want forbidden", err, got.Kind)
		}
	}
}

func TestClassifyTransfer(t *testing.T) {
	tests := []error{
		errors.New("read tcp: connection reset by peer"),
		errors.New("unexpected EOF"),
	}
	for _, err := range tests {
		if got := Classify(err); got.Kind != KindTransfer {
			t.Errorf("Classify(%v) kind = %s, want transfer", err, got.Kind)
		}
	}
}

func TestClassifyUnknownIsInternal(t *testing.T) {
	if got := Classify(errors.New("something odd")); got.Kind != KindInternal {
		t.Errorf("Classify() kind = %s, want internal", got.Kind)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidLocator, http.StatusBadRequest},
		{KindUnsupportedQuality, http.StatusBadRequest},
		{KindValidation, http.StatusBadRequest},
		{KindExtraction, http.StatusForbidden},
		{KindForbidden, http.StatusForbidden},
		{KindTransfer, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.kind); got != tt.want {
			t.Errorf("Status(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	err := Wrap(KindInternal, "unexpected failure", errors.New("panic in sqlite driver"))
	if msg := err.PublicMessage(); msg != "unexpected failure" {
		t.Errorf("PublicMessage() = %q leaks internal detail", msg)
	}

	upstream := Wrap(KindForbidden, "upstream denied access to the media", errors.New("status 403"))
	if msg := upstream.PublicMessage(); msg == "upstream denied access to the media" {
		t.Error("PublicMessage() dropped the upstream detail for a forbidden error")
	}
}
