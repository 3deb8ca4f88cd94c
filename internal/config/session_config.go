package config

type SessionStoreType string

const (
	SessionStoreSQLite SessionStoreType = "sqlite"
	SessionStoreMemory SessionStoreType = "memory"
	SessionStoreRedis  SessionStoreType = "redis"
)

type SessionConfig interface {
	GetSessionStore() SessionStoreType
	GetSessionDBPath() string
	GetRedisURL() string
	GetRedisKeyPrefix() string
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionStore() SessionStoreType {
	return SessionStoreType(GetEnv("SESSION_STORE", string(SessionStoreSQLite)))
}

func (Session) GetSessionDBPath() string {
	return GetEnv("SESSION_DB_PATH", "./data/session.db")
}

func (Session) GetRedisURL() string {
	return GetEnv("REDIS_URL", "redis://localhost:6379/0")
}

func (Session) GetRedisKeyPrefix() string {
	return GetEnv("REDIS_KEY_PREFIX", "storefront:")
}
