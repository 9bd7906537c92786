package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// PipelineConfig bounds the reservation processing pipeline.
type PipelineConfig struct {
	Concurrency    int
	RetryBudget    int
	BackoffBase    time.Duration
	ItemTimeout    time.Duration
	PollInterval   time.Duration
	MaxAdvanceDays int
	BufferHours    int
}

// AllocatorConfig carries the scoring weights. The defaults are heuristic
// constants, not tuned values; operators may override them per deployment.
type AllocatorConfig struct {
	SkillWeight        float64
	PerformanceWeight  float64
	WorkloadWeight     float64
	ExperienceWeight   float64
	OverlapBufferHours int
	WorkloadCapacity   int
}

// JobSpec describes one derived work item type and its offset from the stay boundary.
type JobSpec struct {
	Type            string
	OffsetHours     int
	DurationMinutes int
	Priority        string
	Capabilities    []string
}

type JobsConfig struct {
	PreService  []JobSpec
	PostService []JobSpec
}

type AuditConfig struct {
	Enabled bool
	Bucket  string
	Region  string
}

type Config struct {
	Env       string
	LogLevel  string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Pipeline  PipelineConfig
	Allocator AllocatorConfig
	Jobs      JobsConfig
	Audit     AuditConfig
}

var (
	mu       sync.RWMutex
	instance *Config
)

// Load reads .env (if present) and environment variables, applies defaults,
// and caches the result for Get / GetSafe.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 7070)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "stayops")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL_HOURS", 24)

	v.SetDefault("PIPELINE_CONCURRENCY", 3)
	v.SetDefault("PIPELINE_RETRY_BUDGET", 3)
	v.SetDefault("PIPELINE_BACKOFF_BASE_MS", 1000)
	v.SetDefault("PIPELINE_ITEM_TIMEOUT_SECONDS", 30)
	v.SetDefault("PIPELINE_POLL_INTERVAL_SECONDS", 5)
	v.SetDefault("PIPELINE_MAX_ADVANCE_DAYS", 365)
	v.SetDefault("PIPELINE_BUFFER_HOURS", 4)

	v.SetDefault("ALLOCATOR_SKILL_WEIGHT", 0.4)
	v.SetDefault("ALLOCATOR_PERFORMANCE_WEIGHT", 0.3)
	v.SetDefault("ALLOCATOR_WORKLOAD_WEIGHT", 0.2)
	v.SetDefault("ALLOCATOR_EXPERIENCE_WEIGHT", 0.1)
	v.SetDefault("ALLOCATOR_OVERLAP_BUFFER_HOURS", 2)
	v.SetDefault("ALLOCATOR_WORKLOAD_CAPACITY", 10)

	v.SetDefault("AUDIT_S3_ENABLED", false)
	v.SetDefault("AUDIT_S3_BUCKET", "")
	v.SetDefault("AUDIT_S3_REGION", "ap-southeast-1")

	cfg := &Config{
		Env:      v.GetString("ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  time.Duration(v.GetInt("TOKEN_TTL_HOURS")) * time.Hour,
		},
		Pipeline: PipelineConfig{
			Concurrency:    v.GetInt("PIPELINE_CONCURRENCY"),
			RetryBudget:    v.GetInt("PIPELINE_RETRY_BUDGET"),
			BackoffBase:    time.Duration(v.GetInt("PIPELINE_BACKOFF_BASE_MS")) * time.Millisecond,
			ItemTimeout:    time.Duration(v.GetInt("PIPELINE_ITEM_TIMEOUT_SECONDS")) * time.Second,
			PollInterval:   time.Duration(v.GetInt("PIPELINE_POLL_INTERVAL_SECONDS")) * time.Second,
			MaxAdvanceDays: v.GetInt("PIPELINE_MAX_ADVANCE_DAYS"),
			BufferHours:    v.GetInt("PIPELINE_BUFFER_HOURS"),
		},
		Allocator: AllocatorConfig{
			SkillWeight:        v.GetFloat64("ALLOCATOR_SKILL_WEIGHT"),
			PerformanceWeight:  v.GetFloat64("ALLOCATOR_PERFORMANCE_WEIGHT"),
			WorkloadWeight:     v.GetFloat64("ALLOCATOR_WORKLOAD_WEIGHT"),
			ExperienceWeight:   v.GetFloat64("ALLOCATOR_EXPERIENCE_WEIGHT"),
			OverlapBufferHours: v.GetInt("ALLOCATOR_OVERLAP_BUFFER_HOURS"),
			WorkloadCapacity:   v.GetInt("ALLOCATOR_WORKLOAD_CAPACITY"),
		},
		Jobs: DefaultJobsConfig(),
		Audit: AuditConfig{
			Enabled: v.GetBool("AUDIT_S3_ENABLED"),
			Bucket:  v.GetString("AUDIT_S3_BUCKET"),
			Region:  v.GetString("AUDIT_S3_REGION"),
		},
	}

	if cfg.Env == "production" && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

// DefaultJobsConfig is the stock 2+2 derivation set: two pre-service items
// before check-in, two post-service items after check-out.
func DefaultJobsConfig() JobsConfig {
	return JobsConfig{
		PreService: []JobSpec{
			{Type: "provisioning", OffsetHours: 24, DurationMinutes: 60, Priority: "medium", Capabilities: []string{"provisioning"}},
			{Type: "inspection", OffsetHours: 2, DurationMinutes: 30, Priority: "high", Capabilities: []string{"inspection"}},
		},
		PostService: []JobSpec{
			{Type: "cleaning", OffsetHours: 2, DurationMinutes: 120, Priority: "high", Capabilities: []string{"cleaning"}},
			{Type: "maintenance_check", OffsetHours: 4, DurationMinutes: 45, Priority: "low", Capabilities: []string{"maintenance"}},
		},
	}
}

func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// GetSafe returns the cached config and whether Load has run.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
