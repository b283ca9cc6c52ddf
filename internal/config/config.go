package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	PostgresDSN     string        `mapstructure:"database_url"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	NotifyChannel   string        `mapstructure:"notify_channel"`
	WebhookGuardTTL time.Duration `mapstructure:"webhook_guard_ttl"`
	MatchMinScore   float64       `mapstructure:"match_min_score"`
	MaxStatusSkip   int           `mapstructure:"max_status_skip"`
	DBMaxOpenConns  int           `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns  int           `mapstructure:"db_max_idle_conns"`
	DBConnMaxIdle   time.Duration `mapstructure:"db_conn_max_idle"`
	DBConnMaxLife   time.Duration `mapstructure:"db_conn_max_life"`
	Debug           bool          `mapstructure:"debug"`
	JSONLogs        bool          `mapstructure:"json_logs"`
}

func Load() *Config {
	// The shared instance also carries CLI flag bindings.
	v := viper.GetViper()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("notify_channel", "educonnect:notifications")
	v.SetDefault("webhook_guard_ttl", 24*time.Hour)
	v.SetDefault("match_min_score", 0.0)
	v.SetDefault("max_status_skip", 1)
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 10)
	v.SetDefault("db_conn_max_idle", 5*time.Minute)
	v.SetDefault("db_conn_max_life", 30*time.Minute)
	v.SetDefault("debug", false)
	v.SetDefault("json_logs", true)

	cfg := &Config{
		PostgresDSN:     v.GetString("database_url"),
		RedisAddr:       v.GetString("redis_addr"),
		RedisPassword:   v.GetString("redis_password"),
		RedisDB:         v.GetInt("redis_db"),
		NotifyChannel:   v.GetString("notify_channel"),
		WebhookGuardTTL: v.GetDuration("webhook_guard_ttl"),
		MatchMinScore:   v.GetFloat64("match_min_score"),
		MaxStatusSkip:   v.GetInt("max_status_skip"),
		DBMaxOpenConns:  v.GetInt("db_max_open_conns"),
		DBMaxIdleConns:  v.GetInt("db_max_idle_conns"),
		DBConnMaxIdle:   v.GetDuration("db_conn_max_idle"),
		DBConnMaxLife:   v.GetDuration("db_conn_max_life"),
		Debug:           v.GetBool("debug"),
		JSONLogs:        v.GetBool("json_logs"),
	}

	if cfg.PostgresDSN == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return cfg
}
