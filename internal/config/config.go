// Package config resolves run settings from the environment. Command-line
// flags take precedence; these values only seed their defaults.
package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"
)

type Config struct {
	Workers   int
	Strict    bool
	Verbose   bool
	LogFormat string // console or json
}

func Load() Config {
	return Config{
		Workers:   envInt("IMGCONV_WORKERS", runtime.NumCPU()),
		Strict:    envBool("IMGCONV_STRICT", false),
		Verbose:   envBool("IMGCONV_VERBOSE", false),
		LogFormat: strings.ToLower(env("IMGCONV_LOG_FORMAT", "console")),
	}
}

func env(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
