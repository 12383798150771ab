// internal/middleware/idempotency.go
package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// How long a mutation may hold the in-progress lock before the key is
// considered abandoned.
const provisionalLockTTL = 60 * time.Second

type idempEntry struct {
	InProgress bool      `json:"in_progress"`
	Code       int       `json:"code"`
	Body       []byte    `json:"body"`
	BodySHA256 string    `json:"body_sha256"`
	CreatedAt  time.Time `json:"created_at"`
}

// Idempotency replays the stored response for a repeated mutation carrying
// the same Idempotency-Key. Mutations here are not safely retryable (a
// retried liquidate must not liquidate twice), so clients that retry supply
// a key; requests without one pass through untouched.
func Idempotency(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		reqKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		if reqKey == "" {
			c.Next()
			return
		}

		staffID, _ := c.Get("staff_id")
		staff, _ := staffID.(string)

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		sum := sha256.Sum256(body)
		bhash := hex.EncodeToString(sum[:])
		key := "idemp:" + c.Request.Method + ":" + c.FullPath() + ":" + staff + ":" + reqKey

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		entry := idempEntry{InProgress: true, BodySHA256: bhash, CreatedAt: time.Now().UTC()}
		raw, _ := json.Marshal(entry)

		ok, err := rdb.SetNX(ctx, key, raw, provisionalLockTTL).Result()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "idempotency store unavailable",
			})
			return
		}
		if !ok {
			// Key exists: the body must match, and we may be able to replay.
			var cur idempEntry
			if data, errLoad := rdb.Get(ctx, key).Bytes(); errLoad == nil {
				_ = json.Unmarshal(data, &cur)
			} else {
				logrus.WithError(errLoad).Warnf("Failed to load idempotency entry %s", key)
			}

			if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error": "Idempotency-Key reused with a different request body",
				})
				return
			}
			if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
				c.Data(cur.Code, "application/json", cur.Body)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "request is already in progress",
			})
			return
		}

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw
		c.Next()

		final := idempEntry{
			Code:       blw.Status(),
			Body:       blw.body.Bytes(),
			BodySHA256: bhash,
			CreatedAt:  time.Now().UTC(),
		}
		raw, _ = json.Marshal(final)
		if err := rdb.Set(context.Background(), key, raw, ttl).Err(); err != nil {
			logrus.WithError(err).Warnf("Failed to persist idempotency entry %s", key)
		}
	}
}
