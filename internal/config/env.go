package config

import (
	"os"
	"strings"
)

// applyEnvOverrides переопределяет секреты из переменных окружения.
// Файл конфигурации можно хранить без кредов и докидывать их через env.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CLIENT_ID"); v != "" {
		cfg.OAuth.ClientID = v
	}
	if v := os.Getenv("CLIENT_SECRET"); v != "" {
		cfg.OAuth.ClientSecret = v
	}
	if v := os.Getenv("TENANT_ID"); v != "" {
		cfg.OAuth.TenantID = v
	}
	if v := os.Getenv("REDIRECT_URI"); v != "" {
		cfg.OAuth.RedirectURI = v
	}
	if v := os.Getenv("BASE_URI"); v != "" {
		cfg.BaseURI = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Auth.SessionSecret = v
	}
	if v := os.Getenv("ALLOWED_PRINCIPALS"); v != "" {
		cfg.Auth.AllowedPrincipals = splitCSV(v)
	}
}

// splitCSV разбивает список через запятую, отбрасывая пустые элементы
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
