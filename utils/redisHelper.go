package utils

import (
	"time"

	"github.com/ditfinops/opex_backend/config"
)

const sessionKeyPrefix = "Token:"

// StoreSessionToken keeps the issued token alive in redis for the token
// lifespan so logout can revoke it before JWT expiry.
func StoreSessionToken(token string, username string) error {
	return config.SetRedisValue(sessionKeyPrefix+token, username, TokenLifespan())
}

func LookupSessionToken(token string) (string, bool, error) {
	return config.GetRedisValue(sessionKeyPrefix + token)
}

func RevokeSessionToken(token string) error {
	return config.RemoveRedisKey(sessionKeyPrefix + token)
}

// CacheObject stores an arbitrary object with a bounded TTL. Used by the
// master-data read path; failures are non-fatal for callers.
func CacheObject(key string, value interface{}, ttl time.Duration) error {
	return config.SetRedisObject(key, value, ttl)
}

func GetCachedObject(key string, dest interface{}) (bool, error) {
	return config.GetRedisObject(key, dest)
}

func InvalidateCache(keys ...string) error {
	return config.RemoveRedisKey(keys...)
}
