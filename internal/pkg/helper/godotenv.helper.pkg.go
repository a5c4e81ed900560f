package helper

import (
	"os"
	"strings"
)

// GetEnv retrieves an environment variable or returns the default value
func GetEnv(key string, defaultValue ...string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
