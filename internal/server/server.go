package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"gymhub/internal/auth"
	"gymhub/internal/booking"
	"gymhub/internal/classtype"
	"gymhub/internal/clock"
	"gymhub/internal/config"
	"gymhub/internal/equipment"
	"gymhub/internal/gym"
	"gymhub/internal/identity"
	"gymhub/internal/plan"
	"gymhub/internal/session"
	"gymhub/internal/subscription"
	"gymhub/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config

	// SubscriptionRepo is exposed for the background sweeper.
	SubscriptionRepo subscription.Repository
}

func New(db *sqlx.DB, cfg *config.Config, clk clock.Clock) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(ValidationMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.RateLimitTTL))

	userRepo := user.NewRepository(db)
	gymRepo := gym.NewRepository(db)
	equipmentRepo := equipment.NewRepository(db)
	planRepo := plan.NewRepository(db)
	classTypeRepo := classtype.NewRepository(db)
	subscriptionRepo := subscription.NewRepository(db)
	sessionRepo := session.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	userHandler := user.NewHandler(user.NewService(userRepo, gymRepo, cfg.JWTSecret, clk))
	gymHandler := gym.NewHandler(gym.NewService(gymRepo, userRepo))
	equipmentHandler := equipment.NewHandler(equipment.NewService(equipmentRepo, gymRepo))
	planHandler := plan.NewHandler(plan.NewService(planRepo, gymRepo))
	classTypeHandler := classtype.NewHandler(classtype.NewService(classTypeRepo, gymRepo))
	subscriptionHandler := subscription.NewHandler(
		subscription.NewService(subscriptionRepo, planRepo, userRepo, gymRepo, clk))
	sessionHandler := session.NewHandler(session.NewService(sessionRepo, gymRepo, classTypeRepo))
	bookingHandler := booking.NewHandler(
		booking.NewService(bookingRepo, sessionRepo, userRepo, gymRepo, clk))

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware, auth.RequireActive())
	{
		protected.GET("/me", userHandler.GetMe)
		protected.PATCH("/me", userHandler.UpdateMe)

		protected.GET("/users", userHandler.ListUsers)
		protected.GET("/users/:userID", userHandler.GetUser)
		protected.POST("/users", userHandler.CreateUser)
		protected.POST("/users/:userID/approve", userHandler.ApproveUser)
		protected.PATCH("/users/:userID/role", userHandler.ChangeRole)
		protected.DELETE("/users/:userID", userHandler.DeleteUser)

		protected.POST("/gyms", gymHandler.CreateGym)
		protected.GET("/gyms", gymHandler.ListGyms)
		protected.GET("/gyms/:gymID", gymHandler.GetGym)
		protected.PATCH("/gyms/:gymID", gymHandler.UpdateGym)
		protected.DELETE("/gyms/:gymID", gymHandler.DeleteGym)

		protected.POST("/gyms/:gymID/branches", gymHandler.CreateBranch)
		protected.GET("/branches", gymHandler.ListBranches)
		protected.GET("/branches/:branchID", gymHandler.GetBranch)
		protected.PATCH("/branches/:branchID", gymHandler.UpdateBranch)
		protected.DELETE("/branches/:branchID", gymHandler.DeleteBranch)

		protected.POST("/branches/:branchID/staff", gymHandler.AssignStaff)
		protected.GET("/branches/:branchID/staff", gymHandler.ListStaff)
		protected.DELETE("/staff-assignments/:assignmentID", gymHandler.RemoveStaff)

		protected.POST("/branches/:branchID/equipment", equipmentHandler.Create)
		protected.GET("/branches/:branchID/equipment", equipmentHandler.List)
		protected.GET("/equipment", equipmentHandler.List)
		protected.GET("/equipment/:equipmentID", equipmentHandler.Get)
		protected.PATCH("/equipment/:equipmentID", equipmentHandler.Update)
		protected.DELETE("/equipment/:equipmentID", equipmentHandler.Delete)

		protected.POST("/plans", planHandler.Create)
		protected.GET("/plans", planHandler.List)
		protected.GET("/plans/:planID", planHandler.Get)
		protected.PATCH("/plans/:planID", planHandler.Update)
		protected.DELETE("/plans/:planID", planHandler.Delete)

		protected.POST("/class-types", classTypeHandler.Create)
		protected.GET("/class-types", classTypeHandler.List)
		protected.GET("/class-types/:classTypeID", classTypeHandler.Get)
		protected.PATCH("/class-types/:classTypeID", classTypeHandler.Update)
		protected.DELETE("/class-types/:classTypeID", classTypeHandler.Delete)

		protected.POST("/subscriptions", subscriptionHandler.Create)
		protected.GET("/subscriptions", subscriptionHandler.List)
		protected.GET("/subscriptions/:subscriptionID", subscriptionHandler.Get)
		protected.PATCH("/subscriptions/:subscriptionID/status", subscriptionHandler.UpdateStatus)

		protected.POST("/branches/:branchID/sessions", sessionHandler.Create)
		protected.GET("/sessions", sessionHandler.List)
		protected.GET("/sessions/:sessionID", sessionHandler.Get)
		protected.PATCH("/sessions/:sessionID", sessionHandler.Update)
		protected.DELETE("/sessions/:sessionID", sessionHandler.Delete)

		protected.POST("/sessions/:sessionID/bookings", bookingHandler.Create)
		protected.GET("/bookings", bookingHandler.List)
		protected.GET("/bookings/:bookingID", bookingHandler.Get)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.Cancel)
		protected.PATCH("/bookings/:bookingID/attendance", bookingHandler.MarkAttendance)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireActive(), auth.RequireRole(identity.RoleSuperAdmin))
	{
		admin.POST("/subscriptions/sweep", subscriptionHandler.Sweep)
	}

	router.GET("/health", Health)
	router.GET("/ready", Readiness(db))
	router.GET("/metrics", Metrics())

	return &Server{
		router:           router,
		db:               db,
		config:           cfg,
		SubscriptionRepo: subscriptionRepo,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
