package config

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-redis/redis/v8"
	"gopkg.in/yaml.v3"
)

var ctx = context.Background()

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

type ServerConfig struct {
	Port     string `yaml:"port"`
	BaseURL  string `yaml:"base_url"`
	LogLevel string `yaml:"log_level"`
}

// SessionConfig controls the Redis-backed session store.
type SessionConfig struct {
	TTL         int64  `yaml:"ttl"` // seconds
	StateSecret string `yaml:"state_secret"`
}

// OAuthClient holds one provider registration. A registration counts as
// configured only when both fields are non-empty.
type OAuthClient struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

type OAuthConfig struct {
	Google OAuthClient `yaml:"google"`
	Naver  OAuthClient `yaml:"naver"`
}

// AdminConfig seeds a form-login account at startup when both fields are set.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	MySQL   MySQLConfig   `yaml:"mysql"`
	Redis   RedisConfig   `yaml:"redis"`
	Session SessionConfig `yaml:"session"`
	OAuth   OAuthConfig   `yaml:"oauth"`
	Admin   AdminConfig   `yaml:"admin"`
}

var GlobalConfig *Config
var RedisClient *redis.Client

func InitConfig(path string) {
	data, err := os.ReadFile(path + "/config.yaml")
	if err != nil {
		log.Fatalf("Read config failed: %v", err)
	}
	if err := yaml.Unmarshal(data, &GlobalConfig); err != nil {
		log.Fatalf("Parse config failed: %v", err)
	}
	applyEnvOverrides()
	applyDefaults()
}

func InitRedis() {
	opt := &redis.Options{
		Addr:     GlobalConfig.Redis.Addr,
		Password: GlobalConfig.Redis.Password,
		DB:       GlobalConfig.Redis.DB,
	}
	if GlobalConfig.Redis.TLS {
		opt.TLSConfig = &tls.Config{}
	}
	RedisClient = redis.NewClient(opt)
	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		panic(fmt.Sprintf("Redis connect failed: %v", err))
	}
}

func applyEnvOverrides() {
	if GlobalConfig == nil {
		GlobalConfig = &Config{}
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		GlobalConfig.MySQL.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		GlobalConfig.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		GlobalConfig.Redis.Password = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		GlobalConfig.Server.Port = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		GlobalConfig.Server.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		GlobalConfig.Server.LogLevel = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			GlobalConfig.Session.TTL = parsed
		}
	}
	if v := os.Getenv("STATE_SECRET"); v != "" {
		GlobalConfig.Session.StateSecret = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		GlobalConfig.OAuth.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		GlobalConfig.OAuth.Google.ClientSecret = v
	}
	if v := os.Getenv("NAVER_CLIENT_ID"); v != "" {
		GlobalConfig.OAuth.Naver.ClientID = v
	}
	if v := os.Getenv("NAVER_CLIENT_SECRET"); v != "" {
		GlobalConfig.OAuth.Naver.ClientSecret = v
	}
	if v := os.Getenv("ADMIN_EMAIL"); v != "" {
		GlobalConfig.Admin.Email = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		GlobalConfig.Admin.Password = v
	}
}

func applyDefaults() {
	if GlobalConfig.Server.Port == "" {
		GlobalConfig.Server.Port = ":8080"
	}
	if GlobalConfig.Server.BaseURL == "" {
		GlobalConfig.Server.BaseURL = "http://localhost:8080"
	}
	if GlobalConfig.Session.TTL <= 0 {
		GlobalConfig.Session.TTL = 1800 // 30 minutes, matching the session store default
	}
}
