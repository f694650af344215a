package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pr-bump-notifier/internal/domain"

	"github.com/joho/godotenv"
)

const (
	defaultGitHubAPIURL    = "https://api.github.com"
	defaultHTTPTimeout     = 30 * time.Second
	defaultDeliveryRate    = 1.0
	defaultSchedule        = "0 9 * * 1-5"
	defaultScheduleTargets = "slack"
)

// Config - конфигурация одного запуска, собирается один раз при старте процесса.
type Config struct {
	GitHubToken     string
	GitHubAPIURL    string
	Repositories    []domain.RepositoryRef
	RoutingFile     string
	HTTPTimeout     time.Duration
	DeliveryRate    float64
	LogLevel        string
	LogFormat       string
	Schedule        string
	ScheduleTargets []string

	lookup func(string) string
}

// LoadConfig читает .env (если он есть) и переменные окружения.
// Ошибка godotenv возвращается отдельно от конфигурации и не является фатальной.
func LoadConfig() (Config, error) {
	err := godotenv.Load()

	return Config{
		GitHubToken:     strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		GitHubAPIURL:    getEnv("GITHUB_API_URL", defaultGitHubAPIURL),
		RoutingFile:     os.Getenv("ROUTING_FILE"),
		HTTPTimeout:     getDuration("HTTP_TIMEOUT", defaultHTTPTimeout),
		DeliveryRate:    getFloat("DELIVERY_RATE_PER_SEC", defaultDeliveryRate),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		Schedule:        getEnv("SCHEDULE", defaultSchedule),
		ScheduleTargets: splitList(getEnv("SCHEDULE_TARGETS", defaultScheduleTargets)),
		lookup:          os.Getenv,
	}, err
}

// Validate проверяет обязательные параметры и разбирает список репозиториев.
func (c *Config) Validate() error {
	if c.GitHubToken == "" {
		return fmt.Errorf("%w: %w", domain.ErrConfig, domain.ErrMissingToken)
	}

	repos, err := ParseRepositories(repositorySource(c.env))
	if err != nil {
		return err
	}
	c.Repositories = repos

	return nil
}

// WebhookURL возвращает URL вебхука адресата; пустая строка означает, что адресат не настроен.
func (c Config) WebhookURL(destinationID string) string {
	if destinationID == "" {
		return ""
	}
	return strings.TrimSpace(c.env(destinationID))
}

// WithLookup подменяет источник переменных окружения.
func (c Config) WithLookup(lookup func(string) string) Config {
	c.lookup = lookup
	return c
}

func (c Config) env(key string) string {
	if c.lookup == nil {
		return os.Getenv(key)
	}
	return c.lookup(key)
}

// GITHUB_REPOSITORIES имеет приоритет, GITHUB_REPOSITORY - запасной источник для одного репозитория.
func repositorySource(env func(string) string) string {
	if raw := strings.TrimSpace(env("GITHUB_REPOSITORIES")); raw != "" {
		return raw
	}
	return env("GITHUB_REPOSITORY")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
		return d
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f > 0 {
		return f
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
