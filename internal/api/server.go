package api

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"tixgate/internal/cache"
	"tixgate/internal/config"
	"tixgate/internal/external"
	"tixgate/internal/handlers"
	"tixgate/internal/logger"
	"tixgate/internal/messaging"
	"tixgate/internal/metrics"
	"tixgate/internal/middleware"
	"tixgate/internal/models"
	"tixgate/internal/service"
	"tixgate/internal/session"
	"tixgate/internal/tokenstore"
)

// Server представляет HTTP сервер API
type Server struct {
	router       *gin.Engine
	config       *config.Config
	natsClient   *messaging.NATSClient
	valkeyClient *cache.ValkeyClient
	sessions     *session.Manager
	rateLimiter  *middleware.RateLimiter
	services     *service.Services
	auth         *external.AuthClient
	registry     *prometheus.Registry
	collector    *metrics.Collector
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	// Valkey и NATS опциональны: без них шлюз продолжает работать,
	// кеш и события просто отключаются.
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		logger.Get().Warn("Valkey unavailable, cache and valkey sessions disabled", "error", err)
		valkeyClient = nil
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Get().Warn("NATS unavailable, event publishing disabled", "error", err)
		natsClient = nil
	}

	authClient := external.NewAuthClient(cfg.Auth)
	eventClient := external.NewEventClient(cfg.Events)
	ticketClient := external.NewTicketClient(cfg.Tickets)
	transactionClient := external.NewTransactionClient(cfg.Transactions)
	reviewClient := external.NewReviewClient(cfg.Reviews)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	services := service.NewServices(eventClient, ticketClient, transactionClient, reviewClient, valkeyClient, natsClient, collector)

	sessions := session.NewManager(sessionFactory(cfg, valkeyClient, authClient, collector), cfg.SessionTTL)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(collector.Middleware())

	server := &Server{
		router:       router,
		config:       cfg,
		natsClient:   natsClient,
		valkeyClient: valkeyClient,
		sessions:     sessions,
		rateLimiter:  rateLimiter,
		services:     services,
		auth:         authClient,
		registry:     registry,
		collector:    collector,
	}

	server.setupRoutes()

	return server
}

// sessionFactory picks the token store backend each new browser session gets.
func sessionFactory(cfg *config.Config, valkeyClient *cache.ValkeyClient, authClient *external.AuthClient, collector *metrics.Collector) session.Factory {
	return func(sid string) *session.Session {
		var store tokenstore.Store
		switch cfg.SessionBackend {
		case "valkey":
			if valkeyClient != nil {
				store = tokenstore.NewValkey(valkeyClient.Client(), "session:"+sid, cfg.SessionTTL)
			} else {
				store = tokenstore.NewMemory()
			}
		case "file":
			store = tokenstore.NewFile(filepath.Join(cfg.SessionDir, sid+".json"))
		default:
			store = tokenstore.NewMemory()
		}
		sess := session.New(store, authClient)
		sess.OnRehydrated(collector.RecordRehydration)
		return sess
	}
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.auth, s.services, s.natsClient)

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler(s.registry)))

	attendeeUp := []models.Role{models.RoleAttendee, models.RoleOrganizer, models.RoleAdmin}
	organizerUp := []models.Role{models.RoleOrganizer, models.RoleAdmin}

	withSession := s.router.Group("")
	withSession.Use(s.rateLimiter.Middleware())
	withSession.Use(middleware.Sessions(s.sessions))
	{
		withSession.GET(middleware.LoginPath, h.LoginPage)
		withSession.GET(middleware.UnauthorizedPath, h.UnauthorizedPage)

		api := withSession.Group("/api")
		{
			auth := api.Group("/auth")
			{
				auth.POST("/register", h.Register)
				auth.POST("/login", h.Login)
				auth.POST("/logout", h.Logout)
				auth.GET("/me", middleware.Guard(attendeeUp...), h.Me)
				auth.PUT("/profile", middleware.Guard(attendeeUp...), h.UpdateProfile)
			}

			events := api.Group("/events")
			{
				events.GET("", h.ListEvents)
				events.GET("/:id", h.GetEvent)
				events.POST("", middleware.Guard(organizerUp...), h.CreateEvent)
				events.PUT("/:id", middleware.Guard(organizerUp...), h.UpdateEvent)
				events.DELETE("/:id", middleware.Guard(organizerUp...), h.DeleteEvent)
				events.POST("/:id/publish", middleware.Guard(organizerUp...), h.TransitionEvent("publish"))
				events.POST("/:id/cancel", middleware.Guard(organizerUp...), h.TransitionEvent("cancel"))
				events.POST("/:id/complete", middleware.Guard(organizerUp...), h.TransitionEvent("complete"))
				events.POST("/:id/purchase", middleware.Guard(attendeeUp...), h.PurchaseTickets)
			}

			tickets := api.Group("/tickets")
			{
				tickets.GET("/event/:eventId", h.ListEventTickets)
				tickets.POST("", middleware.Guard(organizerUp...), h.CreateTicket)
				tickets.DELETE("/:id", middleware.Guard(organizerUp...), h.DeleteTicket)
				tickets.POST("/:id/validate", middleware.Guard(organizerUp...), h.ValidateTicket)
			}

			wallet := api.Group("/wallet", middleware.Guard(attendeeUp...))
			{
				wallet.GET("/balance", h.GetBalance)
				wallet.POST("/topup", h.TopUp)
				wallet.POST("/withdraw", h.WithdrawFunds)
				wallet.GET("/transactions", h.ListMyTransactions)
			}

			reviews := api.Group("/reviews")
			{
				reviews.GET("/event/:eventId", h.ListEventReviews)
				reviews.GET("/flagged", middleware.Guard(organizerUp...), h.ListFlaggedReviews)
				reviews.POST("/event/:eventId", middleware.Guard(attendeeUp...), h.CreateReview)
				reviews.PUT("/:id", middleware.Guard(attendeeUp...), h.UpdateReview)
				reviews.DELETE("/:id", middleware.Guard(attendeeUp...), h.DeleteReview)
				reviews.POST("/:id/flag", middleware.Guard(organizerUp...), h.FlagReview)
				reviews.POST("/:id/cancel-flag", middleware.Guard(organizerUp...), h.CancelFlagReview)
			}

			admin := api.Group("/admin", middleware.Guard(models.RoleAdmin))
			{
				admin.GET("/transactions", h.ListTransactions)
				admin.PUT("/transactions/:id/refund", h.RefundTransaction)
				admin.DELETE("/transactions/:id", h.DeleteTransaction)
			}
		}
	}
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	s.collector.SetActiveSessions(s.sessions.Len())
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "tixgate",
		"version": "1.0.0",
	})
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	s.rateLimiter.Stop()
	s.sessions.Stop()

	if s.natsClient != nil {
		if err := s.natsClient.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkeyClient != nil {
		if err := s.valkeyClient.Close(); err != nil {
			logger.Get().Error("Error closing Valkey connection", "error", err)
			return err
		}
	}

	return nil
}
