package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config представляет конфигурацию приложения
type Config struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURI string `yaml:"base_uri"`

	// OAuth (Azure AD)
	OAuth struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		TenantID     string `yaml:"tenant_id"`
		RedirectURI  string `yaml:"redirect_uri"`
	} `yaml:"oauth"`

	// Auth
	Auth struct {
		AllowedPrincipals []string `yaml:"allowed_principals"`
		SessionSecret     string   `yaml:"session_secret"`
	} `yaml:"auth"`

	// Security
	Security struct {
		EnableCORS     bool     `yaml:"enable_cors"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"security"`

	// Video settings
	Video struct {
		SkipInterval int `yaml:"skip_interval"`
		JPEGQuality  int `yaml:"jpeg_quality"`
	} `yaml:"video"`

	// Cameras
	Cameras []CameraConfig `yaml:"cameras"`

	// Logging
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// CameraConfig описывает одну камеру в реестре
type CameraConfig struct {
	Name     string `yaml:"name"`
	Address  string `yaml:"address"`
	Port     int    `yaml:"port"`
	Channel  int    `yaml:"channel"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoadConfig загружает конфигурацию из файла и окружения
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults подставляет значения по умолчанию для необязательных полей
func applyDefaults(cfg *Config) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	if cfg.BaseURI == "" {
		cfg.BaseURI = fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port)
	}
	if cfg.Video.SkipInterval == 0 {
		cfg.Video.SkipInterval = 10
	}
	if cfg.Video.JPEGQuality == 0 {
		cfg.Video.JPEGQuality = 85
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if len(cfg.Security.AllowedOrigins) == 0 {
		cfg.Security.AllowedOrigins = []string{"*"}
	}
	for i := range cfg.Cameras {
		if cfg.Cameras[i].Port == 0 {
			cfg.Cameras[i].Port = 554
		}
		if cfg.Cameras[i].Channel == 0 {
			cfg.Cameras[i].Channel = 101
		}
	}
}

// Validate проверяет конфигурацию перед стартом.
// Пустой список камер или отсутствие OAuth-кредов останавливает запуск.
func (cfg *Config) Validate() error {
	if len(cfg.Cameras) == 0 {
		return fmt.Errorf("config: camera list is empty")
	}

	seen := make(map[string]struct{}, len(cfg.Cameras))
	for _, cam := range cfg.Cameras {
		if cam.Name == "" {
			return fmt.Errorf("config: camera without a name")
		}
		if _, dup := seen[cam.Name]; dup {
			return fmt.Errorf("config: duplicate camera name %q", cam.Name)
		}
		seen[cam.Name] = struct{}{}
		if cam.Address == "" {
			return fmt.Errorf("config: camera %q has no address", cam.Name)
		}
	}

	if cfg.OAuth.ClientID == "" || cfg.OAuth.ClientSecret == "" {
		return fmt.Errorf("config: oauth client_id/client_secret are required")
	}
	if cfg.OAuth.TenantID == "" {
		return fmt.Errorf("config: oauth tenant_id is required")
	}
	if cfg.OAuth.RedirectURI == "" {
		return fmt.Errorf("config: oauth redirect_uri is required")
	}
	if cfg.Auth.SessionSecret == "" {
		return fmt.Errorf("config: auth session_secret is required")
	}
	if len(cfg.Auth.AllowedPrincipals) == 0 {
		return fmt.Errorf("config: auth allowed_principals is empty")
	}

	return nil
}
