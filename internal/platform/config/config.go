package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type Config struct {
	Host  string         `yaml:"host"`
	Port  int            `yaml:"port"`
	Debug bool           `yaml:"debug"`
	DB    DatabaseConfig `yaml:"database"`

	// Base URLs of the peer services
	UserServiceBaseURL     string `yaml:"user_service_base_url"`
	MaterialServiceBaseURL string `yaml:"material_service_base_url"`

	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// Load builds the runtime configuration: built-in defaults, overlaid by an
// optional YAML file at path, overlaid by environment variables.
// A .env file in the working directory is picked up if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Host:  "0.0.0.0",
		Port:  8081,
		Debug: false,
		DB: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Username: "root",
			Password: "root",
			DBName:   "borrow_db",
		},
		UserServiceBaseURL:     "http://localhost:8083",
		MaterialServiceBaseURL: "http://localhost:8082",
		DefaultPageSize:        DefaultPageSize,
		MaxPageSize:            MaxPageSize,
	}

	if path != "" {
		buf, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(buf, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg.Host = envStr("HOST", cfg.Host)
	cfg.Port = envInt("PORT", cfg.Port)
	cfg.Debug = envBool("DEBUG", cfg.Debug)
	cfg.DB.Host = envStr("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = envInt("DB_PORT", cfg.DB.Port)
	cfg.DB.Username = envStr("DB_USER", cfg.DB.Username)
	cfg.DB.Password = envStr("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.DBName = envStr("DB_NAME", cfg.DB.DBName)
	cfg.UserServiceBaseURL = envStr("USER_SERVICE_BASE_URL", cfg.UserServiceBaseURL)
	cfg.MaterialServiceBaseURL = envStr("MATERIAL_SERVICE_BASE_URL", cfg.MaterialServiceBaseURL)
	cfg.DefaultPageSize = envInt("DEFAULT_PAGE_SIZE", cfg.DefaultPageSize)
	cfg.MaxPageSize = envInt("MAX_PAGE_SIZE", cfg.MaxPageSize)

	return cfg, nil
}

func envStr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
