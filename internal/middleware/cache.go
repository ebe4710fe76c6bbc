package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"cscportal/api/internal/cache"
	"cscportal/api/internal/config"
)

const (
	cacheHeader       = "X-Cache"
	maxCachedBody     = 1 << 20
	defaultCacheTTL   = 30 * time.Second
	invalidateTimeout = 2 * time.Second
)

type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.buf.Len() <= maxCachedBody {
		w.buf.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	if w.buf.Len() <= maxCachedBody {
		w.buf.WriteString(s)
	}
	return w.ResponseWriter.WriteString(s)
}

type cachedResponse struct {
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

func cacheKey(prefix string, c *gin.Context) string {
	sum := sha1.Sum([]byte(c.FullPath() + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// ResponseCache serves repeated public GETs from redis. Only 200 responses
// are stored, and a redis failure falls through to the handler.
func ResponseCache(cfg config.CacheConfig, client *redis.Client, log zerolog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || client == nil {
		return func(c *gin.Context) { c.Next() }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cacheKey(cfg.Prefix, c)

		if raw, err := client.Get(ctx, key).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(raw, &cached) == nil {
				c.Header(cacheHeader, "HIT")
				c.Data(http.StatusOK, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Header(cacheHeader, "MISS")

		c.Next()

		if cw.Status() != http.StatusOK || cw.buf.Len() > maxCachedBody {
			return
		}
		payload, err := json.Marshal(cachedResponse{ContentType: cw.Header().Get("Content-Type"), Body: cw.buf.Bytes()})
		if err != nil {
			return
		}
		if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("cache store failed")
		}
	}
}

// InvalidateCache drops every cached response after a successful write so
// public listings never lag an admin change by more than one request.
func InvalidateCache(cfg config.CacheConfig, client *redis.Client, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !cfg.Enabled || client == nil || c.Request.Method == http.MethodGet {
			return
		}
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			return
		}
		ctx, cancel := contextWithTimeout(c, invalidateTimeout)
		defer cancel()
		if err := cache.InvalidatePrefix(ctx, client, cfg.Prefix+":"); err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("cache invalidation failed")
		}
	}
}
