package config

import (
	"os"
	"strings"
	"time"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	apiBaseURLVar = "API_BASE_URL"
	envVar        = "ENV"
	listenHostVar = "LISTEN_HOST"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// GetPort returns the web shell listen address. The shell serves a single
// local session, so a bare port binds to LISTEN_HOST (default 127.0.0.1).
func (EnvVars) GetPort() string {
	return ListenAddr(GetEnv(portEnvVar, "3000"))
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Storefront")
}

// GetAPIBaseURL returns the remote API root (e.g., "http://localhost:8080").
// Endpoints such as /auth/login are resolved against it.
func (EnvVars) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiBaseURLVar, "http://localhost:8080"), "/")
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "DEV")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvDuration parses a Go duration ("10s", "1m"). Invalid values fall back to the default.
func GetEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// ListenAddr turns a port into a listen address on LISTEN_HOST. Values that
// already carry a host part (":8080", "0.0.0.0:8080") are kept as given.
func ListenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return GetEnv(listenHostVar, "127.0.0.1") + ":" + port
}
