package middleware

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"stagedoor/internal/cache"
	"stagedoor/internal/logger"
	"stagedoor/internal/repository"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id for log correlation. An id supplied
// by the caller is kept; otherwise a fresh one is generated. The id is echoed
// in the response header and stored in the request context where
// logger.WithContext picks it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = logger.NewRequestID()
		}

		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// CORS handles cross-origin requests and preflight
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// Logger emits one structured log line per completed request
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		userID, exists := c.Get("user_id")

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		if requestID := c.GetString("request_id"); requestID != "" {
			logFields = append(logFields, "request_id", requestID)
		}

		if exists {
			logFields = append(logFields, "user_id", userID)
		}

		log := logger.Get()
		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			log.Error("Request completed with error", logFields...)
		} else {
			log.Debug("Request completed", logFields...)
		}
	}
}

// Recovery converts panics into 500 responses with a detailed log entry
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Get().Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
	})
}

// BasicAuth authenticates the request via HTTP Basic Auth. Credentials are
// checked against the Valkey cache first, then against the users table; a
// database hit is written back to the cache. Requests without credentials
// are rejected.
func BasicAuth(userRepo *repository.UserRepository, valkeyClient *cache.ValkeyClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", "Basic realm=\"Restricted\"")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		userID, ok := authenticate(c, username, password, userRepo, valkeyClient)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		c.Set("user_id", userID)
		c.Request = c.Request.WithContext(logger.ContextWithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// OptionalBasicAuth is BasicAuth for endpoints that also serve anonymous
// callers. A request without an Authorization header passes through with no
// user id; a request with bad credentials is still rejected so a typo does
// not silently demote the caller to anonymous.
func OptionalBasicAuth(userRepo *repository.UserRepository, valkeyClient *cache.ValkeyClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		userID, ok := authenticate(c, username, password, userRepo, valkeyClient)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		c.Set("user_id", userID)
		c.Request = c.Request.WithContext(logger.ContextWithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func authenticate(c *gin.Context, username, password string, userRepo *repository.UserRepository, valkeyClient *cache.ValkeyClient) (int64, bool) {
	ctx := c.Request.Context()

	hash := sha256.Sum256([]byte(password))
	passwordHash := fmt.Sprintf("%x", hash)

	if valkeyClient != nil {
		if userID, err := valkeyClient.GetUserIDByAuth(ctx, username, passwordHash); err == nil {
			return userID, true
		}
	}

	user, err := userRepo.GetByEmail(ctx, username)
	if err != nil || user == nil || !user.IsActive {
		return 0, false
	}
	if user.PasswordHash == "" || passwordHash != user.PasswordHash {
		return 0, false
	}

	if valkeyClient != nil {
		if err := valkeyClient.StoreUserAuth(ctx, username, passwordHash, user.ID); err != nil {
			logger.Get().Warn("Failed to cache user auth", "error", err, "user_id", user.ID)
		}
	}

	return user.ID, true
}
