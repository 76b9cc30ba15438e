package api

import (
	"log"
	"net/http"

	"stagedoor/internal/cache"
	"stagedoor/internal/config"
	"stagedoor/internal/database"
	"stagedoor/internal/handlers"
	"stagedoor/internal/logger"
	"stagedoor/internal/messaging"
	"stagedoor/internal/middleware"
	"stagedoor/internal/repository"
	"stagedoor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the HTTP surface over the reservation and booking services.
type Server struct {
	router   *gin.Engine
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	// Auth works without the cache, every credential check just hits the
	// users table instead.
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		logger.Get().Warn("Valkey unavailable, auth cache disabled", "error", err)
		valkeyClient = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, cfg.HoldDuration, cfg.CancelCutoff)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")

	// Seat maps and holds are open to anonymous callers; credentials, when
	// present, personalize the answer.
	optional := api.Group("")
	optional.Use(middleware.OptionalBasicAuth(s.repos.Users, s.valkey))
	{
		optional.GET("/shows/:id/seats", h.ListSeats)
		optional.POST("/reservations", h.CreateReservation)
		optional.DELETE("/reservations/:id", h.ReleaseReservation)
		optional.POST("/bookings", h.CreateBooking)
		optional.GET("/bookings/:id", h.GetBooking)
		optional.DELETE("/bookings/:id", h.CancelBooking)
	}

	// Listing endpoints need an identity to list for.
	authed := api.Group("")
	authed.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
	{
		authed.GET("/reservations", h.ListReservations)
		authed.GET("/bookings", h.ListBookings)
	}

	api.POST("/shows", h.CreateShow)
	api.POST("/maintenance/sweep", h.SweepReservations)

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	check := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if check.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   check.Status,
		"service":  "stagedoor-api",
		"database": check,
	})
}

// GetRouter exposes the router; cmd/api builds its own http.Server around it
// so shutdown can be made graceful.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing Valkey connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
