package env

import "os"

const prefix = "TRENDORA_"

// Get returns the value of the given environment variable or a fallback.
// The app-prefixed form (TRENDORA_<key>) takes precedence over the bare key.
func Get(key, fallback string) string {
	if val := os.Getenv(prefix + key); val != "" {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
