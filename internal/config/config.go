package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override config keys.
// WASTEWISE_SERVER__PORT=9000 sets server.port.
const EnvPrefix = "WASTEWISE_"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Firebase  FirebaseConfig  `koanf:"firebase"`
	MQTT      MQTTConfig      `koanf:"mqtt"`
	Simulator SimulatorConfig `koanf:"simulator"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Data      DataConfig      `koanf:"data"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	Env             string        `koanf:"env"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

// DatabaseConfig points at the Postgres instance holding the trip journal
// and waste history. Empty URL disables both.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

type AuthConfig struct {
	JWTSecret        string        `koanf:"jwt_secret"`
	TokenTTL         time.Duration `koanf:"token_ttl"`
	OperatorEmail    string        `koanf:"operator_email"`
	OperatorName     string        `koanf:"operator_name"`
	OperatorPassword string        `koanf:"operator_password"`
}

type FirebaseConfig struct {
	CredentialsFile   string `koanf:"credentials_file"`
	CredentialsBase64 string `koanf:"credentials_base64"`
}

// MQTTConfig enables the sensor subscriber when Broker is set.
type MQTTConfig struct {
	Broker   string `koanf:"broker"`
	ClientID string `koanf:"client_id"`
	Topic    string `koanf:"topic"`
	QoS      byte   `koanf:"qos"`
}

// SimulatorConfig enables random fill drift when Interval is positive.
type SimulatorConfig struct {
	Interval time.Duration `koanf:"interval"`
	Seed     int64         `koanf:"seed"`
}

// RateLimitConfig caps requests per client IP. Zero RequestsPerHour disables it.
type RateLimitConfig struct {
	RequestsPerHour int `koanf:"requests_per_hour"`
	Burst           int `koanf:"burst"`
}

type DataConfig struct {
	SeedFile    string `koanf:"seed_file"`
	HistoryFile string `koanf:"history_file"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			Env:             "production",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
		Auth: AuthConfig{
			TokenTTL:      60 * time.Minute,
			OperatorEmail: "operator@wastewise.local",
			OperatorName:  "Control Room",
		},
		Firebase: FirebaseConfig{CredentialsFile: "./firebase-service-account.json"},
		MQTT: MQTTConfig{
			ClientID: "wastewise-backend",
			Topic:    "bins/+/fill",
			QoS:      1,
		},
		RateLimit: RateLimitConfig{RequestsPerHour: 100, Burst: 100},
		Data:      DataConfig{HistoryFile: "waste_history.csv"},
	}
}

// Load reads .env, then the optional YAML file at path, then WASTEWISE_
// environment overrides, then the bare variable names used by deployments
// (PORT, DATABASE_URL, APP_JWT_SECRET, FIREBASE_CREDENTIALS_FILE,
// FIREBASE_CREDENTIALS_BASE64, APP_ENV).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyLegacyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyLegacyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			c.Server.Port = port
		} else {
			c.Server.Port = -1
		}
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Server.Env = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("APP_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("FIREBASE_CREDENTIALS_FILE"); v != "" {
		c.Firebase.CredentialsFile = v
	}
	if v := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); v != "" {
		c.Firebase.CredentialsBase64 = v
	}
}

// Validate checks ranges that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	if c.Simulator.Interval < 0 {
		return fmt.Errorf("simulator.interval must not be negative")
	}
	if c.RateLimit.RequestsPerHour < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", c.MQTT.QoS)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) IsDev() bool {
	return strings.EqualFold(c.Server.Env, "dev")
}
