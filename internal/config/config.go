package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Retention RetentionConfig `yaml:"retention"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	BasePath    string `yaml:"base_path"`
	Env         string `yaml:"env"`
	CORSOrigins string `yaml:"cors_origins"`
}

// CORSOriginList splits the comma-separated origins setting
func (s ServerConfig) CORSOriginList() []string {
	parts := strings.Split(s.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type DatabaseConfig struct {
	// URL is a postgres DSN; when empty the service falls back to a local
	// SQLite file, which matches the single-process deployment model.
	URL  string `yaml:"url"`
	File string `yaml:"file"`
}

type RedisConfig struct {
	// URL is optional; the service runs fully without Redis.
	URL string `yaml:"url"`
}

type CatalogConfig struct {
	BaseURL       string        `yaml:"base_url"`
	ImageBaseURL  string        `yaml:"image_base_url"`
	APIKey        string        `yaml:"api_key"`
	Timeout       time.Duration `yaml:"timeout"`
	MoviesPerRoom int           `yaml:"movies_per_room"`
	MinRating     float64       `yaml:"min_rating"`
}

type RetentionConfig struct {
	// MaxAge of zero disables the retention sweep entirely; rooms are then
	// never physically deleted.
	MaxAge   time.Duration `yaml:"max_age"`
	Schedule string        `yaml:"schedule"`
}

// Load reads the optional yaml file at path, then applies environment
// variable overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8000,
			BasePath:    "/api",
			Env:         "dev",
			CORSOrigins: "*",
		},
		Database: DatabaseConfig{
			File: "movie_night.db",
		},
		Catalog: CatalogConfig{
			BaseURL:       "https://api.themoviedb.org/3",
			ImageBaseURL:  "https://image.tmdb.org/t/p",
			Timeout:       10 * time.Second,
			MoviesPerRoom: 20,
			MinRating:     5.0,
		},
		Retention: RetentionConfig{
			Schedule: "@hourly",
		},
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Server.Env = env
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.CORSOrigins = origins
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if dbFile := os.Getenv("DATABASE_FILE"); dbFile != "" {
		cfg.Database.File = dbFile
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if apiKey := os.Getenv("TMDB_API_KEY"); apiKey != "" {
		cfg.Catalog.APIKey = apiKey
	}
	if baseURL := os.Getenv("TMDB_BASE_URL"); baseURL != "" {
		cfg.Catalog.BaseURL = baseURL
	}
	if count := os.Getenv("MOVIES_PER_ROOM"); count != "" {
		if n, err := strconv.Atoi(count); err == nil && n > 0 {
			cfg.Catalog.MoviesPerRoom = n
		}
	}
	if maxAge := os.Getenv("ROOM_RETENTION_MAX_AGE"); maxAge != "" {
		if d, err := time.ParseDuration(maxAge); err == nil {
			cfg.Retention.MaxAge = d
		}
	}
	if schedule := os.Getenv("ROOM_RETENTION_SCHEDULE"); schedule != "" {
		cfg.Retention.Schedule = schedule
	}

	return cfg, nil
}
