package config

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"omitempty,gt=0"` // 0 takes the default port
}

// DatasetConfig points at the bundled binary timetable assets
type DatasetConfig struct {
	StopsPath  string `yaml:"stopsPath"`
	RoutesPath string `yaml:"routesPath"`
}

// CacheConfig tunes the two journey cache tiers
type CacheConfig struct {
	MemoryCapacity   int    `yaml:"memoryCapacity" validate:"gte=0"`
	MemoryTTLMinutes int    `yaml:"memoryTTLMinutes" validate:"gte=0"`
	DiskPath         string `yaml:"diskPath"`
	PreloadLimit     int    `yaml:"preloadLimit" validate:"gte=0"`
}

// RouterConfig tunes the journey engine
type RouterConfig struct {
	MaxRounds int `yaml:"maxRounds" validate:"gte=0"` // one round per transfer explored
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server" validate:"required"`
	Dataset DatasetConfig `yaml:"dataset"`
	Cache   CacheConfig   `yaml:"cache"`
	Router  RouterConfig  `yaml:"router"`
}
