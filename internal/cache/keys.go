package cache

import (
	"strconv"
)

// UnreadKey is the cache key for a recipient's unread notification count.
func UnreadKey(userID int64) string {
	return "unread:" + strconv.FormatInt(userID, 10)
}

// SessionKey is the cache key for a resolved session token. The token is
// hashed so raw bearer tokens never appear in Redis.
func SessionKey(token string) string {
	return "session:" + HashKey(token)
}
