package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Scoring  ScoringConfig
	Lead     LeadConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	Driver     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type LogConfig struct {
	Level  string
	Format string
}

// ScoringConfig holds the match weights. Zero values fall back to the
// defaults in the matching package.
type ScoringConfig struct {
	SalaryWeight   float64
	CategoryWeight float64
	SkillPerMatch  float64
	SkillCap       float64
	LocationWeight float64
	Ceiling        int
}

type LeadConfig struct {
	Multiplier   int
	MatchesLimit int
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidValue       = errors.New("invalid configuration value")
)

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFrom(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", "600s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LEAD_MULTIPLIER", 3)
	v.SetDefault("LEAD_MATCHES_LIMIT", 50)
	v.SetDefault("SCORE_CEILING", 99)
	return v
}

func LoadFrom(v *viper.Viper) (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		Driver:     strings.ToLower(opt("STORE_DRIVER")),
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	cfg.Log = LogConfig{
		Level:  strings.ToLower(opt("LOG_LEVEL")),
		Format: strings.ToLower(opt("LOG_FORMAT")),
	}

	cfg.Scoring = scoringFrom(v)

	cfg.Lead = LeadConfig{
		Multiplier:   v.GetInt("LEAD_MULTIPLIER"),
		MatchesLimit: v.GetInt("LEAD_MATCHES_LIMIT"),
	}

	if cfg.Database.Driver == StoreDriverPostgres {
		for _, key := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER"} {
			req(key)
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	switch cfg.Database.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("%w: STORE_DRIVER=%q", errInvalidValue, cfg.Database.Driver)
	}
	if cfg.Lead.Multiplier < 1 {
		return fmt.Errorf("%w: LEAD_MULTIPLIER must be >= 1", errInvalidValue)
	}
	return validateScoring(cfg.Scoring)
}

// LoadScoring reads only the SCORE_* keys, for tools that score without
// running the service.
func LoadScoring() (ScoringConfig, error) {
	_ = godotenv.Load()
	return LoadScoringFrom(newViper())
}

func LoadScoringFrom(v *viper.Viper) (ScoringConfig, error) {
	sc := scoringFrom(v)
	if err := validateScoring(sc); err != nil {
		return ScoringConfig{}, err
	}
	return sc, nil
}

func scoringFrom(v *viper.Viper) ScoringConfig {
	return ScoringConfig{
		SalaryWeight:   v.GetFloat64("SCORE_SALARY_WEIGHT"),
		CategoryWeight: v.GetFloat64("SCORE_CATEGORY_WEIGHT"),
		SkillPerMatch:  v.GetFloat64("SCORE_SKILL_PER_MATCH"),
		SkillCap:       v.GetFloat64("SCORE_SKILL_CAP"),
		LocationWeight: v.GetFloat64("SCORE_LOCATION_WEIGHT"),
		Ceiling:        v.GetInt("SCORE_CEILING"),
	}
}

func validateScoring(sc ScoringConfig) error {
	if sc.Ceiling < 0 {
		return fmt.Errorf("%w: SCORE_CEILING must be >= 0", errInvalidValue)
	}
	for key, w := range map[string]float64{
		"SCORE_SALARY_WEIGHT":   sc.SalaryWeight,
		"SCORE_CATEGORY_WEIGHT": sc.CategoryWeight,
		"SCORE_SKILL_PER_MATCH": sc.SkillPerMatch,
		"SCORE_SKILL_CAP":       sc.SkillCap,
		"SCORE_LOCATION_WEIGHT": sc.LocationWeight,
	} {
		if w < 0 {
			return fmt.Errorf("%w: %s must be >= 0", errInvalidValue, key)
		}
	}
	return nil
}
