package config

import "time"

type StubConfig interface {
	GetStubPort() string
	GetStubSigningSecret() string
	GetStubTokenExpiry() time.Duration
}

type Stub struct{}

var _ StubConfig = Stub{}

func (Stub) GetStubPort() string {
	return ListenAddr(GetEnv("STUB_PORT", "8080"))
}

func (Stub) GetStubSigningSecret() string {
	return GetEnv("STUB_SIGNING_SECRET", "dev-secret")
}

func (Stub) GetStubTokenExpiry() time.Duration {
	return GetEnvDuration("STUB_TOKEN_EXPIRY", 1*time.Hour)
}
