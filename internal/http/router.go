package http

import (
	"context"
	"log/slog"
	"os"
	"time"

	"gatekeeper/internal/config"
	"gatekeeper/internal/http/handlers"
	"gatekeeper/internal/http/middlewares"
	"gatekeeper/internal/observability"
	"gatekeeper/internal/repo/memory"
	"gatekeeper/internal/repo/postgres"
	"gatekeeper/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config, sessions *session.Manager, prom *observability.Prom, gatherer prometheus.Gatherer) *gin.Engine {
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
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("gatekeeper"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// wire up the credential store; the in-memory repo covers dev mode
	// without a database

	var usersRepo interface {
		handlers.UserReader
		handlers.UserWriter
	}

	if pool != nil {
		usersRepo = postgres.NewUsersRepo(pool, prom)
	} else {
		usersRepo = memory.NewUsersRepo()
	}

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, sessions, prom)
	sessionMw := middlewares.NewSessionMiddleware(sessions)

	auth := r.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.GET("/logout", authHandler.Logout)
	auth.GET("/user", sessionMw.RequireSession(), authHandler.Me)

	return r
}
