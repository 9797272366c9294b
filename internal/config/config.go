package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the contest API.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DataFile            string
	RedisURL            string
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	GenerationModel     string
	JudgeModel          string
	ImageSize           string
	GenerationTimeout   time.Duration
	FetchTimeout        time.Duration
	JudgeTimeout        time.Duration
	SessionTTL          time.Duration
	LeaderboardCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional
// .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CONTEST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Zukunftsstadt Contest API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("data.file", "data/submissions.csv")
	v.SetDefault("generation.model", "dall-e-3")
	v.SetDefault("generation.timeout", "60s")
	v.SetDefault("judge.model", "gpt-4o")
	v.SetDefault("judge.timeout", "60s")
	v.SetDefault("image.size", "1024x1024")
	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("leaderboard.cache_ttl", "30s")

	generationTimeout, err := parseDuration(v, "generation.timeout")
	if err != nil {
		return Config{}, err
	}

	fetchTimeout, err := parseDuration(v, "fetch.timeout")
	if err != nil {
		return Config{}, err
	}

	judgeTimeout, err := parseDuration(v, "judge.timeout")
	if err != nil {
		return Config{}, err
	}

	sessionTTL, err := parseDuration(v, "session.ttl")
	if err != nil {
		return Config{}, err
	}

	cacheTTL, err := parseDuration(v, "leaderboard.cache_ttl")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DataFile:            v.GetString("data.file"),
		RedisURL:            v.GetString("redis.url"),
		OpenAIAPIKey:        v.GetString("openai_api_key"),
		OpenAIBaseURL:       v.GetString("openai_base_url"),
		GenerationModel:     v.GetString("generation.model"),
		JudgeModel:          v.GetString("judge.model"),
		ImageSize:           v.GetString("image.size"),
		GenerationTimeout:   generationTimeout,
		FetchTimeout:        fetchTimeout,
		JudgeTimeout:        judgeTimeout,
		SessionTTL:          sessionTTL,
		LeaderboardCacheTTL: cacheTTL,
	}

	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("openai api key must be provided")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	duration, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return duration, nil
}
