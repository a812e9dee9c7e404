package model

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Cache     CacheConfig
	Extractor ExtractorConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port    int
	Host    string
	Timeout int // seconds
	// BaseURL overrides the request host when building artifact links.
	BaseURL string
	// StaticServerURL points artifact links at a separate static file server
	// when set.
	StaticServerURL string
}

// StorageConfig holds artifact storage configuration
type StorageConfig struct {
	DownloadDir     string
	CleanupInterval int // seconds
	FileTTLSeconds  int // Time to live for downloaded artifacts
	FilenamePrefix  string
}

// CacheConfig holds metadata cache configuration
type CacheConfig struct {
	DatabasePath  string
	TTLHours      int
	SweepInterval int // seconds
}

// ExtractorConfig holds extraction collaborator configuration
type ExtractorConfig struct {
	Timeout            int // seconds
	SearchLimit        int // hard cap on search results per query
	DefaultExtension   string
	DefaultAudioFormat string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string
	FilePath     string
	RotationSize int64 // bytes
	MaxBackups   int
	MaxAge       int // days
}
