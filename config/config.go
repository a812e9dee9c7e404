package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/SpaceXe-tech/yt-api/internal/model"

	"github.com/joho/godotenv"
)

// Load loads configuration from environment variables
func Load() *model.Config {
	godotenv.Load()

	return &model.Config{
		Server: model.ServerConfig{
			Port:            getEnvInt("SERVER_PORT", 8000),
			Host:            getEnvStr("SERVER_HOST", "0.0.0.0"),
			Timeout:         getEnvInt("SERVER_TIMEOUT", 300),
			BaseURL:         getEnvStr("API_BASE_URL", ""),
			StaticServerURL: getEnvStr("STATIC_SERVER_URL", ""),
		},
		Storage: model.StorageConfig{
			DownloadDir:     getEnvStr("DOWNLOAD_DIR", "./static/media"),
			CleanupInterval: getEnvInt("STORAGE_CLEANUP_INTERVAL", 3600),
			FileTTLSeconds:  getEnvInt("FILE_TTL_SECONDS", 86400),
			FilenamePrefix:  getEnvStr("FILENAME_PREFIX", ""),
		},
		Cache: model.CacheConfig{
			DatabasePath:  getEnvStr("CACHE_DATABASE_PATH", "./db.sqlite3"),
			TTLHours:      getEnvInt("VIDEO_INFO_CACHE_PERIOD_IN_HRS", 4),
			SweepInterval: getEnvInt("CACHE_SWEEP_INTERVAL", 1800),
		},
		Extractor: model.ExtractorConfig{
			Timeout:            getEnvInt("EXTRACTOR_TIMEOUT", 60),
			SearchLimit:        getEnvInt("SEARCH_LIMIT", 50),
			DefaultExtension:   getEnvExtension("DEFAULT_EXTENSION", "webm"),
			DefaultAudioFormat: getEnvExtension("DEFAULT_AUDIO_FORMAT", "m4a"),
		},
		Logging: model.LoggingConfig{
			Level:        getEnvStr("LOG_LEVEL", "info"),
			FilePath:     getEnvStr("LOG_FILE", "./log/app.log"),
			RotationSize: getEnvInt64("LOG_ROTATION_SIZE", 104857600),
			MaxBackups:   getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:       getEnvInt("LOG_MAX_AGE", 7),
		},
	}
}

// getEnvExtension validates container extension values against the set the
// extractor can actually deliver
func getEnvExtension(key, defaultVal string) string {
	val := strings.ToLower(getEnvStr(key, defaultVal))
	switch val {
	case "webm", "mp4", "m4a":
		return val
	}
	return defaultVal
}

func getEnvStr(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	valStr := getEnvStr(key, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	valStr := getEnvStr(key, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}
	return defaultVal
}
