package config

import "time"

type ClientConfig interface {
	GetClientTimeout() time.Duration
	GetJWKSURL() string
	GetTokenIssuer() string
}

type Client struct{}

var _ ClientConfig = Client{}

// GetClientTimeout bounds every remote API call made by the auth client
func (Client) GetClientTimeout() time.Duration {
	return GetEnvDuration("CLIENT_TIMEOUT", 10*time.Second)
}

// GetJWKSURL is empty unless token signature verification has been opted into
func (Client) GetJWKSURL() string {
	return GetEnv("JWKS_URL", "")
}

func (Client) GetTokenIssuer() string {
	return GetEnv("TOKEN_ISSUER", "")
}
