package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		URL        string `yaml:"url"`
		ViewTTLMin int    `yaml:"view_ttl_min"` // dedup window for job view counting
	} `yaml:"redis"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Jobs struct {
		ExpirySweepMin    int `yaml:"expiry_sweep_min"`    // job expiry worker interval
		RatingSweepMin    int `yaml:"rating_sweep_min"`    // rating reconciliation interval
		DefaultMaxApplied int `yaml:"default_max_applied"` // default proposal cap per job
	} `yaml:"jobs"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or falls back to environment variables
// when DATABASE_URL is set (the mode used by CI and tests).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.Redis.URL = os.Getenv("REDIS_URL")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.Redis.ViewTTLMin == 0 {
		cfg.Redis.ViewTTLMin = 30
	}
	if cfg.Jobs.ExpirySweepMin == 0 {
		cfg.Jobs.ExpirySweepMin = 60
	}
	if cfg.Jobs.RatingSweepMin == 0 {
		cfg.Jobs.RatingSweepMin = 360
	}
	if cfg.Jobs.DefaultMaxApplied == 0 {
		cfg.Jobs.DefaultMaxApplied = 20
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
