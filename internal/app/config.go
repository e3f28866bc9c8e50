package app

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maplecart/storefront-backend/internal/logger"
	"github.com/maplecart/storefront-backend/internal/utils"
)

type Config struct {
	Port            string        `yaml:"port"`
	LogMode         string        `yaml:"log_mode"`
	JWTSecretKey    string        `yaml:"jwt_secret_key"`
	AccessTokenTTL  time.Duration `yaml:"-"`
	RefreshTokenTTL time.Duration `yaml:"-"`
	CORSOrigins     []string      `yaml:"cors_origins"`

	AccessTokenTTLSeconds  int `yaml:"access_token_ttl_seconds"`
	RefreshTokenTTLSeconds int `yaml:"refresh_token_ttl_seconds"`
}

// LoadConfig reads an optional YAML file named by CONFIG_PATH, then lets
// environment variables override the file values. Everything has a default,
// so a bare environment still boots.
func LoadConfig(log *logger.Logger) Config {
	cfg := Config{}
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn("Could not read config file, falling back to env", "path", path, "error", err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Warn("Could not parse config file, falling back to env", "path", path, "error", err)
			cfg = Config{}
		}
	}

	cfg.Port = utils.GetEnv("PORT", fallback(cfg.Port, "8080"), log)
	cfg.LogMode = utils.GetEnv("LOG_MODE", fallback(cfg.LogMode, "development"), log)
	cfg.JWTSecretKey = utils.GetEnv("JWT_SECRET_KEY", fallback(cfg.JWTSecretKey, "defaultsecret"), log)

	accessTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", fallbackInt(cfg.AccessTokenTTLSeconds, 3600), log)
	refreshTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", fallbackInt(cfg.RefreshTokenTTLSeconds, 86400), log)
	cfg.AccessTokenTTL = time.Duration(accessTTL) * time.Second
	cfg.RefreshTokenTTL = time.Duration(refreshTTL) * time.Second
	return cfg
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func fallbackInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
