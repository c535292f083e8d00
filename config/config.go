package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`

	// Heat-map cache lifetime in seconds.
	HeatmapCacheTTL int `mapstructure:"HEATMAP_CACHE_TTL"`

	// External busy-calendar feeds, "participantId=url" pairs separated by
	// commas. Imported events become that participant's busy blocks.
	BusyFeeds string `mapstructure:"BUSY_FEEDS"`
	// Cron expression for the feed refresh job.
	FeedRefreshSpec string `mapstructure:"FEED_REFRESH_SPEC"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("HEATMAP_CACHE_TTL", 300)
	viper.SetDefault("BUSY_FEEDS", "")
	viper.SetDefault("FEED_REFRESH_SPEC", "@every 30m")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// FeedSource is one configured external calendar feed.
type FeedSource struct {
	ID  string
	URL string
}

// ParseBusyFeeds splits the BUSY_FEEDS setting into feed sources. Malformed
// entries are skipped.
func ParseBusyFeeds() []FeedSource {
	var sources []FeedSource
	for _, entry := range strings.Split(AppConfig.BusyFeeds, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		sources = append(sources, FeedSource{ID: parts[0], URL: parts[1]})
	}
	return sources
}
