package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"figcheck/internal/handler"
	"figcheck/internal/middleware"
	"figcheck/internal/service"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 32 << 20

// Options carries the cross-cutting settings the router needs.
type Options struct {
	AllowedOrigins []string
	Logger         *zap.Logger
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	tokenSvc service.TokenService,
	verifyH *handler.VerificationHandler,
	healthH *handler.HealthHandler,
	opts Options,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Protected routes - require valid JWT
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(tokenSvc))
	v1.Use(middleware.BodyLimit(maxBodyBytes))

	v1.POST("/verify", verifyH.Verify)

	runs := v1.Group("/runs")
	runs.POST("", verifyH.SubmitRun)
	runs.GET("", verifyH.ListRuns)
	runs.GET("/:id", verifyH.GetRun)
	runs.GET("/:id/export", verifyH.ExportRun)
	runs.POST("/:id/archive", verifyH.ArchiveRun)

	return r
}
