package util

import (
	"os"
	"strings"
)

// Getenv returns the environment variable named key, or fallback when it is unset or blank
func Getenv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return fallback
}
