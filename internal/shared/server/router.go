package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartnotes-backend/internal/ai"
	"smartnotes-backend/internal/ingest"
	"smartnotes-backend/internal/notes"
	"smartnotes-backend/internal/services/health"
	"smartnotes-backend/internal/shared/config"
	"smartnotes-backend/internal/shared/metrics"
	"smartnotes-backend/internal/shared/server/middleware"
	"smartnotes-backend/internal/shared/server/respond"
	"smartnotes-backend/internal/users"
)

// RouterDeps are the handlers and collaborators mounted by NewRouter.
type RouterDeps struct {
	Config        config.Config
	Verifier      middleware.TokenVerifier
	Health        *health.Service
	UsersHandler  *users.Handler
	NotesHandler  *notes.Handler
	AIHandler     *ai.Handler
	IngestHandler *ingest.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !deps.Config.IsDevLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		metrics.HTTP(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterPublicRoutes(api)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(deps.Verifier))
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(protected)
	}
	if deps.NotesHandler != nil {
		deps.NotesHandler.RegisterRoutes(protected)
	}
	if deps.AIHandler != nil {
		deps.AIHandler.RegisterRoutes(protected)
	}
	if deps.IngestHandler != nil {
		deps.IngestHandler.RegisterRoutes(protected)
	}

	return r
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
