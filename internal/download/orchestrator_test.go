package download

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
	"github.com/SpaceXe-tech/yt-api/internal/media"
	"github.com/SpaceXe-tech/yt-api/internal/model"
	"github.com/SpaceXe-tech/yt-api/internal/progress"
	"github.com/SpaceXe-tech/yt-api/internal/storage"
)

// fakeTransfer serves a fixed byte payload or a fixed error.
type fakeTransfer struct {
	data []byte
	err  error
}

func (f *fakeTransfer) Stream(context.Context, string, int) (io.ReadCloser, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return io.NopCloser(bytes.NewReader(f.data)), int64(len(f.data)), nil
}

func testOrchestrator(t *testing.T, transfer *fakeTransfer) (*Orchestrator, *storage.Manager) {
	t.Helper()
	cfg := &model.StorageConfig{
		DownloadDir:     t.TempDir(),
		CleanupInterval: 3600,
		FileTTLSeconds:  3600,
	}
	store := storage.NewManager(cfg)
	return NewOrchestrator(transfer, store, cfg), store
}

func testLinks(filename string) string {
	return "http://localhost:8000/static/media/" + filename
}

func scenarioInfo() *media.Info {
	return &media.Info{ID: "S3wsCRJVUyg", Title: "Test Video"}
}

func videoFormat() media.Format {
	return media.Format{Itag: 248, Kind: media.KindVideo, QualityLabel: "1080p", Extension: "webm"}
}

func TestRunSuccess(t *testing.T) {
	payload := bytes.Repeat([]byte("media"), 1000)
	orch, store := testOrchestrator(t, &fakeTransfer{data: payload})

	sink := progress.NewBuffered()
	tracker := progress.NewTracker(sink)

	result, err := orch.Run(context.Background(), scenarioInfo(), videoFormat(), testLinks, tracker)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	terminal := sink.Wait()
	if terminal.Kind != progress.EventCompleted {
		t.Fatalf("terminal event = %s, want completed", terminal.Kind)
	}
	if !result.Success {
		t.Error("result.Success = false")
	}
	if result.Path == "" {
		t.Error("result.Path is empty")
	}
	if result.Size != int64(len(payload)) {
		t.Errorf("result.Size = %d, want %d (filesystem size)", result.Size, len(payload))
	}
	if result.Link != testLinks(result.Filename) {
		t.Errorf("result.Link = %q", result.Link)
	}

	written, err := os.ReadFile(result.Path)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	if !bytes.Equal(written, payload) {
		t.Error("artifact content differs from transfer payload")
	}
	if store.TrackedCount() != 1 {
		t.Errorf("tracked artifacts = %d, want 1", store.TrackedCount())
	}
}

func TestRunTransferFailure(t *testing.T) {
	orch, _ := testOrchestrator(t, &fakeTransfer{err: errors.New("connection reset")})

	sink := progress.NewBuffered()
	tracker := progress.NewTracker(sink)

	_, err := orch.Run(context.Background(), scenarioInfo(), videoFormat(), testLinks, tracker)
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}

	terminal := sink.Wait()
	if terminal.Kind != progress.EventFailed {
		t.Fatalf("terminal event = %s, want error", terminal.Kind)
	}
	if terminal.Err.Kind != apierr.KindTransfer {
		t.Errorf("classified kind = %s, want transfer", terminal.Err.Kind)
	}
}

func TestRunFailureLeavesNoPartFiles(t *testing.T) {
	failing := &fakeTransfer{err: errors.New("connection reset")}
	orch, store := testOrchestrator(t, failing)

	sink := progress.NewBuffered()
	tracker := progress.NewTracker(sink)
	orch.Run(context.Background(), scenarioInfo(), videoFormat(), testLinks, tracker)

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("reading artifact dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("artifact dir has %d leftover entries after failure", len(entries))
	}
}

func TestArtifactNameDerivedFromTitleAndQuality(t *testing.T) {
	orch, _ := testOrchestrator(t, &fakeTransfer{data: []byte("x")})

	name := orch.artifactName(scenarioInfo(), videoFormat())
	if name != "Test Video 1080p.webm" {
		t.Errorf("artifactName() = %q", name)
	}

	// Path-hostile titles are sanitized.
	hostile := &media.Info{ID: "abc", Title: "a/b\\c:d"}
	name = orch.artifactName(hostile, videoFormat())
	if name != "a_b_c_d 1080p.webm" {
		t.Errorf("artifactName() sanitized = %q", name)
	}
}
