package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/emberfield/village/internal/database"
	"github.com/emberfield/village/internal/economy"
	"github.com/emberfield/village/internal/handler"
	"github.com/emberfield/village/internal/inventory"
	"github.com/emberfield/village/internal/logger"
	"github.com/emberfield/village/internal/metrics"
	"github.com/emberfield/village/internal/node"
	"github.com/emberfield/village/internal/player"
	"github.com/emberfield/village/internal/repository"
	"github.com/emberfield/village/internal/skill"
	"github.com/emberfield/village/internal/village"
)

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
}

// NewServer wires the HTTP surface: middleware stack, health/metrics
// endpoints and the versioned game API.
func NewServer(
	port int,
	dbPool database.Pool,
	playerService player.Service,
	nodeService node.Service,
	inventoryService inventory.Service,
	skillService skill.Service,
	villageService village.Service,
	economyService economy.Service,
	commandRepo repository.Command,
) *Server {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/players", func(r chi.Router) {
			r.Post("/", handler.HandleRegisterPlayer(playerService))
			r.Get("/", handler.HandleListPlayers(playerService))

			r.Route("/{playerID}", func(r chi.Router) {
				r.Get("/", handler.HandleGetPlayer(playerService))
				r.Get("/inventory", handler.HandleGetPlayerInventory(inventoryService))
				r.Post("/target", handler.HandleSetTarget(playerService))
				r.Post("/arrived", handler.HandleArrive(playerService))
				r.Post("/skill", handler.HandleBumpSkill(skillService))
				r.Post("/donate", handler.HandleDonate(economyService))
				r.Post("/sell", handler.HandleSell(economyService))
				r.Post("/buy-tool", handler.HandleBuyTool(economyService))
			})
		})

		r.Route("/nodes", func(r chi.Router) {
			r.Get("/", handler.HandleListNodes(nodeService))
			r.Get("/harvestable", handler.HandlePickHarvestable(nodeService))
		})

		r.Get("/village", handler.HandleGetVillage(villageService))
		r.Get("/leaderboard", handler.HandleLeaderboard(playerService))
		r.Get("/commands", handler.HandleRecentCommands(commandRepo))
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool: dbPool,
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health checks and metrics scrapes would drown out the log.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)
		log.Info("Request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		log.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info("Server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
