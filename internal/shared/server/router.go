package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"healthtrack-backend/internal/documents"
	"healthtrack-backend/internal/ingest"
	"healthtrack-backend/internal/markers"
	"healthtrack-backend/internal/shared/config"
	"healthtrack-backend/internal/shared/metrics"
	"healthtrack-backend/internal/shared/server/middleware"
	"healthtrack-backend/internal/shared/server/respond"
	"healthtrack-backend/internal/users"
)

// RouterDeps carries the handlers wired by bootstrap.
type RouterDeps struct {
	Config          config.Config
	UsersHandler    *users.Handler
	DocumentHandler *documents.Handler
	IngestHandler   *ingest.Handler
	MarkersHandler  *markers.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// Auth endpoints and /health are public; everything else requires a session.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(authRateLimits()))
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterAuthRoutes(auth)
	}

	private := api.Group("")
	private.Use(middleware.Auth(deps.Config.AuthSecret))
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(private)
	}
	if deps.DocumentHandler != nil || deps.IngestHandler != nil {
		docs := private.Group("/documents")
		if deps.IngestHandler != nil {
			deps.IngestHandler.RegisterRoutes(docs)
		}
		if deps.DocumentHandler != nil {
			deps.DocumentHandler.RegisterRoutes(docs)
		}
	}
	if deps.MarkersHandler != nil {
		deps.MarkersHandler.RegisterRoutes(private.Group("/markers"))
	}

	return r
}

// authRateLimits throttles credential endpoints per client IP.
func authRateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"LOGIN":    {Rate: 0.5, Burst: 5},
			"REGISTER": {Rate: 0.2, Burst: 3},
		},
		GroupFor: func(c *gin.Context) string {
			path := c.FullPath()
			switch {
			case strings.HasSuffix(path, "/login"):
				return "LOGIN"
			case strings.HasSuffix(path, "/register"):
				return "REGISTER"
			default:
				return ""
			}
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
