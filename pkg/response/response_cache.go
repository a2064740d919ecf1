package response

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	. "usuariosapi/pkg"
	. "usuariosapi/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// ResponseCache middleware para cache de respostas GET
type ResponseCache struct {
	cache   *cache.Cache
	config  map[string]ResponseCacheConfig
	logger  *zap.Logger
	metrics *AppMetrics
}

type CachedResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Timestamp  time.Time           `json:"timestamp"`
}

func NewResponseCache(logger *zap.Logger, metrics *AppMetrics) *ResponseCache {
	c := cache.New(5*time.Minute, 10*time.Minute)

	configs := map[string]ResponseCacheConfig{
		"/usuarios": {
			TTL:     3 * time.Second,
			Enabled: true,
		},
		"default": {
			TTL:     1 * time.Second,
			Enabled: true,
		},
	}

	return &ResponseCache{
		cache:   c,
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "GET" {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		config, exists := rc.config[path]
		if !exists {
			config = rc.config["default"]
		}

		if !config.Enabled {
			c.Next()
			return
		}

		cacheKey := rc.generateCacheKey(c, path)

		if cachedResp, found := rc.cache.Get(cacheKey); found {
			cached := cachedResp.(CachedResponse)

			if time.Since(cached.Timestamp) < config.TTL {
				_, span := CreateChildSpan(c.Request.Context(), "cache.response.hit", []attribute.KeyValue{
					attribute.String("cache.key", cacheKey),
					attribute.String("cache.path", path),
					attribute.String("cache.age", time.Since(cached.Timestamp).String()),
					attribute.String("cache.source", "memory"),
				})
				defer span.End()

				span.SetAttributes(
					attribute.Int("cache.status_code", cached.StatusCode),
					attribute.Int("cache.body_size", len(cached.Body)),
					attribute.String("cache.ttl", config.TTL.String()),
				)

				if rc.metrics != nil {
					rc.metrics.RecordCacheHit(c.Request.Context(), path)
				}

				rc.logger.Debug("Cache hit",
					zap.String("path", path),
					zap.String("cache_key", cacheKey),
					zap.Duration("age", time.Since(cached.Timestamp)))

				for key, values := range cached.Headers {
					for _, value := range values {
						c.Header(key, value)
					}
				}

				c.Header("X-Cache", "HIT")
				c.Header("X-Cache-Age", fmt.Sprintf("%.0f", time.Since(cached.Timestamp).Seconds()))

				c.Data(cached.StatusCode, "application/json", cached.Body)
				c.Abort()
				return
			}

			rc.cache.Delete(cacheKey)
		}

		ctx, span := CreateChildSpan(c.Request.Context(), "cache.response.miss", []attribute.KeyValue{
			attribute.String("cache.key", cacheKey),
			attribute.String("cache.path", path),
			attribute.String("cache.source", "memory"),
		})
		defer span.End()

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(c.Request.Context(), path)
		}

		rc.logger.Debug("Cache miss",
			zap.String("path", path),
			zap.String("cache_key", cacheKey))

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if writer.statusCode >= 200 && writer.statusCode < 300 {
			_, cacheSpan := CreateChildSpan(ctx, "cache.response.store", []attribute.KeyValue{
				attribute.String("cache.key", cacheKey),
				attribute.String("cache.path", path),
				attribute.String("cache.source", "memory"),
				attribute.Int("cache.status_code", writer.statusCode),
				attribute.Int("cache.body_size", len(writer.body.Bytes())),
				attribute.String("cache.ttl", config.TTL.String()),
			})
			cacheSpan.End()

			cachedResp := CachedResponse{
				StatusCode: writer.statusCode,
				Headers:    writer.Header(),
				Body:       writer.body.Bytes(),
				Timestamp:  time.Now(),
			}

			rc.cache.Set(cacheKey, cachedResp, config.TTL)

			c.Header("X-Cache", "MISS")
		}
	}
}

func (rc *ResponseCache) generateCacheKey(c *gin.Context, path string) string {
	keyParts := []string{path}

	if c.Request.URL.RawQuery != "" {
		keyParts = append(keyParts, c.Request.URL.RawQuery)
	}

	keyParts = append(keyParts, fmt.Sprintf("ip_%s", GetClientIP(c)))

	keyString := strings.Join(keyParts, "|")
	hash := md5.Sum([]byte(keyString))

	return fmt.Sprintf("cache:%s:%x", path, hash)
}

// InvalidatePath descarta as entradas de um path após uma escrita,
// subrotas incluídas.
func (rc *ResponseCache) InvalidatePath(path string) {
	prefix := fmt.Sprintf("cache:%s", path)

	for key := range rc.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			rc.cache.Delete(key)
			rc.logger.Debug("Cache invalidated",
				zap.String("key", key),
				zap.String("path", path))
		}
	}
}

// InvalidationMiddleware drops the cached GET responses of a collection
// after a successful write anywhere under it.
func (rc *ResponseCache) InvalidationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" {
			return
		}

		status := c.Writer.Status()

		if status < 200 || status >= 300 {
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		rc.InvalidatePath(collectionRoot(path))
	}
}

func collectionRoot(path string) string {
	trimmed := strings.TrimPrefix(path, "/")

	if i := strings.Index(trimmed, "/"); i >= 0 {
		return "/" + trimmed[:i]
	}

	return path
}

func (rc *ResponseCache) InvalidateAllCache() {
	rc.cache.Flush()
	rc.logger.Info("All cache invalidated")
}

func (rc *ResponseCache) SetConfig(path string, config ResponseCacheConfig) {
	rc.config[path] = config
}

func (rc *ResponseCache) GetStats() map[string]interface{} {
	stats := make(map[string]interface{})

	activeEntries := rc.cache.ItemCount()

	stats["active_entries"] = activeEntries
	stats["configs"] = len(rc.config)

	return stats
}

type responseWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
