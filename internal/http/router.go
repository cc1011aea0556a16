package http

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/studyhub/studyhub/internal/auth"
	"github.com/studyhub/studyhub/internal/config"
	"github.com/studyhub/studyhub/internal/db"
	"github.com/studyhub/studyhub/internal/http/handlers"
	"github.com/studyhub/studyhub/internal/http/middlewares"
	"github.com/studyhub/studyhub/internal/observability"
	mongorepo "github.com/studyhub/studyhub/internal/repo/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, database *mongo.Database, prom *observability.Prom, cfg config.Config) *gin.Engine {
	cfgEnv := os.Getenv("APP_ENV")

	if cfgEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(otelgin.Middleware("studyhub"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// health
	ping := func() error {
		if database == nil {
			return nil
		}

		return db.Ping(database)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/", h.Root)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// token service + access guard
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	authMw := middlewares.NewAuthMiddleware(jwtManager)

	tokensHandler := handlers.NewTokensHandler(jwtManager)
	r.POST("/jwt", tokensHandler.Create)

	// wire up repositories
	assignmentsRepo := mongorepo.NewAssignmentsRepo(database, prom)
	usersRepo := mongorepo.NewUsersRepo(database, prom)

	// submissions collection is provisioned but has no routes yet
	_ = mongorepo.NewSubmissionsRepo(database, prom)

	assignmentsHandler := handlers.NewAssignmentsHandler(assignmentsRepo)
	usersHandler := handlers.NewUsersHandler(usersRepo)

	r.GET("/assignments", assignmentsHandler.List)
	r.POST("/assignments", authMw.RequireAuth(), assignmentsHandler.Create)
	r.GET("/assignments/:id", assignmentsHandler.GetByID)
	r.PATCH("/assignments/:id", authMw.RequireAuth(), assignmentsHandler.Update)
	r.DELETE("/assignments/:id", authMw.RequireAuth(), assignmentsHandler.Delete)

	r.POST("/users", usersHandler.Create)
	r.GET("/users", authMw.RequireAuth(), usersHandler.List)
	r.GET("/users/:email", authMw.RequireAuth(), usersHandler.GetByEmail)

	return r
}
