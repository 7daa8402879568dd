package config

import (
	"os"
)

// DirectusConfig describes the connection to the content store.
type DirectusConfig struct {
	APIURL   string `yaml:"api_url"`
	APIToken string `yaml:"api_token"`
}

func GetDirectusConfig() *DirectusConfig {
	return &DirectusConfig{
		APIURL:   getEnv("DIRECTUS_API_URL", "http://localhost:8055"),
		APIToken: getEnv("DIRECTUS_API_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
