package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort   string
	DBDriver     string
	DBDSN        string
	ResetDB      bool
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	SwaggerHost  string
	LogLevel     string
	ListCacheTTL time.Duration
}

func defaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("db_driver", "mysql")
	v.SetDefault("db_dsn", "user:password@tcp(localhost:3306)/auctions?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("reset_db", false)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_password", "")
	v.SetDefault("jwt_secret", "change-me")
	v.SetDefault("swagger_host", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("list_cache_ttl", 5*time.Second)
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	v := viper.New()
	defaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return &Config{
		ServerPort:   v.GetString("server_port"),
		DBDriver:     strings.ToLower(v.GetString("db_driver")),
		DBDSN:        v.GetString("db_dsn"),
		ResetDB:      v.GetBool("reset_db"),
		RedisAddr:    v.GetString("redis_addr"),
		RedisDB:      v.GetInt("redis_db"),
		RedisPass:    v.GetString("redis_password"),
		JWTSecret:    v.GetString("jwt_secret"),
		SwaggerHost:  v.GetString("swagger_host"),
		LogLevel:     v.GetString("log_level"),
		ListCacheTTL: v.GetDuration("list_cache_ttl"),
	}
}
