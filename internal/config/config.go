package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Render   RenderConfig
	Assets   AssetsConfig
	Redis    RedisConfig
	Video    VideoConfig
	LogLevel string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	ReadTimeout  int
	WriteTimeout int
}

// RenderConfig holds mockup rendering configuration
type RenderConfig struct {
	Workers        int    // batch worker pool size
	TimeoutSeconds int    // per-render timeout
	CacheTTL       int    // rendered-output cache TTL in seconds
	DefaultDevice  string // device used when a request names none
}

// AssetsConfig holds paths to bundled assets
type AssetsConfig struct {
	FramesPath  string // directory of device bezel PNGs
	DevicesPath string // directory of device spec YAML files
}

// RedisConfig holds Redis configuration; an empty Addr disables both the
// render cache and the job stream consumer
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string // render request stream name
	Group    string // consumer group name
}

// VideoConfig holds external video tool configuration
type VideoConfig struct {
	FFmpegPath     string
	FFprobePath    string
	TimeoutSeconds int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 60),
		},
		Render: RenderConfig{
			Workers:        getEnvAsInt("RENDER_WORKERS", 4),
			TimeoutSeconds: getEnvAsInt("RENDER_TIMEOUT", 60),
			CacheTTL:       getEnvAsInt("RENDER_CACHE_TTL", 3600),
			DefaultDevice:  getEnv("RENDER_DEFAULT_DEVICE", "iphone_17_pro_max"),
		},
		Assets: AssetsConfig{
			FramesPath:  getEnv("ASSETS_FRAMES_PATH", "assets/frames"),
			DevicesPath: getEnv("ASSETS_DEVICES_PATH", "assets/devices"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Stream:   getEnv("REDIS_STREAM", "mockups.render_requests"),
			Group:    getEnv("REDIS_GROUP", "mockup-renderer"),
		},
		Video: VideoConfig{
			FFmpegPath:     getEnv("FFMPEG_PATH", "ffmpeg"),
			FFprobePath:    getEnv("FFPROBE_PATH", "ffprobe"),
			TimeoutSeconds: getEnvAsInt("VIDEO_TIMEOUT", 600),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
