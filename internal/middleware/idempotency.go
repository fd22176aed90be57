package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"leavedesk/internal/shared/response"
)

const (
	idempotencyTTL     = 24 * time.Hour
	idempotencyLockTTL = 30 * time.Second
)

// storedResponse is what a finished request leaves behind so a replay
// can reproduce the original status and body.
type storedResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency dedupes POST submissions carrying an Idempotency-Key
// header, so a double-clicked leave submission is persisted once. A
// replayed key gets the original response back, status code included.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString("user_id")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		// Replay a finished response if we have one
		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var stored storedResponse
			if json.Unmarshal([]byte(val), &stored) == nil && stored.Status != 0 {
				response.Success(c, stored.Status, stored.Data, nil)
				c.Abort()
				return
			}
		}

		// SetNX lock with a short expiry so a crashed worker cannot
		// wedge the key forever
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()

		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING",
				"Your request is still being processed, please wait.", nil)
			c.Abort()
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}

// FinalizeIdempotency records a successful response under the key the
// Idempotency middleware reserved, then releases the in-flight lock.
func FinalizeIdempotency(c *gin.Context, rdb *redis.Client, status int, data any) {
	cacheKey := c.GetString("idempotency_cache_key")
	if cacheKey == "" {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	stored, err := json.Marshal(storedResponse{Status: status, Data: payload})
	if err != nil {
		return
	}
	rdb.Set(c.Request.Context(), cacheKey, stored, idempotencyTTL)
	ReleaseIdempotencyLock(c, rdb)
}

// ReleaseIdempotencyLock frees the in-flight lock so a failed request
// can be retried immediately.
func ReleaseIdempotencyLock(c *gin.Context, rdb *redis.Client) {
	if lockKey := c.GetString("idempotency_lock_key"); lockKey != "" {
		rdb.Del(c.Request.Context(), lockKey)
	}
}
