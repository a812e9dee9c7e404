package storage

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SpaceXe-tech/yt-api/internal/model"
	"github.com/SpaceXe-tech/yt-api/pkg/logger"

	"go.uber.org/zap"
)

// Manager owns the artifact directory: it hands out paths for new downloads,
// tracks completed artifacts and removes them once their TTL elapses.
type Manager struct {
	cfg       *model.StorageConfig
	artifacts map[string]*model.DownloadedFile
	mu        sync.RWMutex
	quitChan  chan bool
}

// NewManager creates a new artifact manager
func NewManager(cfg *model.StorageConfig) *Manager {
	return &Manager{
		cfg:       cfg,
		artifacts: make(map[string]*model.DownloadedFile),
		quitChan:  make(chan bool),
	}
}

// Start starts the cleanup routine
func (m *Manager) Start() {
	go m.cleanupRoutine()
}

// Stop stops the cleanup routine
func (m *Manager) Stop() {
	select {
	case m.quitChan <- true:
	default:
		logger.LogWarn("Could not send stop signal to cleanup routine")
	}
}

// SaveArtifact registers a completed artifact for TTL tracking
func (m *Manager) SaveArtifact(id string, file *model.DownloadedFile) {
	file.ID = id
	file.CreatedAt = time.Now()
	file.ExpiresAt = time.Now().Add(time.Duration(m.cfg.FileTTLSeconds) * time.Second)

	m.mu.Lock()
	m.artifacts[id] = file
	m.mu.Unlock()

	logger.LogInfo("Artifact saved", zap.String("id", id), zap.String("filename", file.Filename))
}

// Get returns a tracked artifact by id, or nil
func (m *Manager) Get(id string) *model.DownloadedFile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.artifacts[id]
}

// EnsureDir ensures the artifact directory exists
func (m *Manager) EnsureDir() error {
	return os.MkdirAll(m.cfg.DownloadDir, 0755)
}

// Dir returns the artifact directory
func (m *Manager) Dir() string {
	return m.cfg.DownloadDir
}

// ArtifactPath returns the path an artifact with the given name lives at
func (m *Manager) ArtifactPath(filename string) string {
	return filepath.Join(m.cfg.DownloadDir, filename)
}

// FileTTL returns how long artifacts are kept
func (m *Manager) FileTTL() time.Duration {
	return time.Duration(m.cfg.FileTTLSeconds) * time.Second
}

// cleanupRoutine periodically removes expired artifacts
func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(time.Duration(m.cfg.CleanupInterval) * time.Second)
	defer ticker.Stop()

	logger.LogInfo("Artifact cleanup routine started",
		zap.Int("cleanup_interval_seconds", m.cfg.CleanupInterval),
		zap.Int("file_ttl_seconds", m.cfg.FileTTLSeconds))

	for {
		select {
		case <-m.quitChan:
			logger.LogInfo("Artifact cleanup routine stopped")
			return
		case <-ticker.C:
			m.cleanupExpired()
		}
	}
}

// cleanupExpired removes artifacts past their TTL. Untracked leftovers in the
// directory are left alone; only files this process produced are removed.
func (m *Manager) cleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	deletedCount := 0
	var deletedIds []string

	for id, file := range m.artifacts {
		if !now.After(file.ExpiresAt) {
			continue
		}
		if err := os.Remove(file.FilePath); err != nil {
			if !os.IsNotExist(err) {
				logger.LogError("Failed to remove artifact", err,
					zap.String("id", id),
					zap.String("path", file.FilePath))
			}
		} else {
			deletedCount++
		}
		// Drop from tracking either way.
		deletedIds = append(deletedIds, id)
	}

	for _, id := range deletedIds {
		delete(m.artifacts, id)
	}

	if deletedCount > 0 {
		logger.LogInfo("Artifact cleanup completed",
			zap.Int("deleted_count", deletedCount),
			zap.Int("remaining_tracked", len(m.artifacts)))
	}
}

// TrackedCount returns the number of artifacts currently tracked
func (m *Manager) TrackedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.artifacts)
}

// ManualCleanup triggers a cleanup run immediately (useful for testing)
func (m *Manager) ManualCleanup() {
	m.cleanupExpired()
}
