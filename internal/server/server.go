package server

import (
	"context"
	"net/http"

	"gymdesk/internal/attendance"
	"gymdesk/internal/auth"
	"gymdesk/internal/catalog"
	"gymdesk/internal/config"
	"gymdesk/internal/discount"
	"gymdesk/internal/email"
	"gymdesk/internal/employee"
	"gymdesk/internal/member"
	"gymdesk/internal/registration"
	"gymdesk/internal/schedule"
	"gymdesk/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())

	memberRepo := member.NewRepository(db)
	memberService := member.NewService(memberRepo)
	memberHandler := member.NewHandler(memberService)

	catalogService := catalog.NewService(catalog.NewRepository(db))
	catalogHandler := catalog.NewHandler(catalogService)

	discountService := discount.NewService(discount.NewRepository(db))
	discountHandler := discount.NewHandler(discountService)

	registrationService := registration.NewService(
		registration.NewRepository(db), memberService, catalogService, discountService, emailService)
	registrationHandler := registration.NewHandler(registrationService)

	attendanceService := attendance.NewService(
		attendance.NewRepository(db), memberService, memberRepo)
	attendanceHandler := attendance.NewHandler(attendanceService)

	employeeRepo := employee.NewRepository(db)
	employeeService := employee.NewService(employeeRepo)
	employeeHandler := employee.NewHandler(employeeService)

	scheduleService := schedule.NewService(schedule.NewRepository(db), employeeRepo)
	scheduleHandler := schedule.NewHandler(scheduleService)

	userService := user.NewService(
		user.NewRepository(db), emailService, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	userHandler := user.NewHandler(userService)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/verify-email", userHandler.VerifyEmail)
		public.POST("/resend-verification", userHandler.ResendVerification)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
		public.POST("/forgot-password", userHandler.ForgotPassword)
		public.POST("/reset-password", userHandler.ResetPassword)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTAccessSecret)
	frontDesk := auth.RequireRole("admin", "manager", "reception")
	management := auth.RequireRole("admin", "manager")

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/members", memberHandler.List)
		protected.GET("/members/:id", memberHandler.Get)
		protected.POST("/members", frontDesk, memberHandler.Create)
		protected.PUT("/members/:id", frontDesk, memberHandler.Update)
		protected.DELETE("/members/:id", management, memberHandler.Delete)
		protected.GET("/members/:id/packages", registrationHandler.MemberActivePackages)

		protected.GET("/packages", catalogHandler.List)
		protected.GET("/packages/:id", catalogHandler.Get)
		protected.POST("/packages", management, catalogHandler.Create)
		protected.PUT("/packages/:id", management, catalogHandler.Update)
		protected.DELETE("/packages/:id", management, catalogHandler.Delete)

		protected.GET("/discounts", discountHandler.List)
		protected.GET("/discounts/active", discountHandler.ListActive)
		protected.GET("/discounts/statistics", management, discountHandler.Stats)
		protected.GET("/discounts/:id", discountHandler.Get)
		protected.POST("/discounts", management, discountHandler.Create)
		protected.PUT("/discounts/:id", management, discountHandler.Update)
		protected.DELETE("/discounts/:id", management, discountHandler.Delete)
		protected.POST("/discounts/apply", frontDesk, discountHandler.Apply)

		protected.GET("/registrations", registrationHandler.List)
		protected.GET("/registrations/:id", registrationHandler.Get)
		protected.POST("/registrations", frontDesk, registrationHandler.Create)
		protected.PUT("/registrations/:id/status", frontDesk, registrationHandler.UpdateStatus)

		att := protected.Group("/attendance")
		att.Use(frontDesk)
		{
			att.POST("/checkin", attendanceHandler.CheckIn)
			att.POST("/checkout", attendanceHandler.CheckOut)
			att.GET("/today", attendanceHandler.Today)
			att.GET("/overview", attendanceHandler.Overview)
			att.GET("/member/:id", attendanceHandler.MemberHistory)
			att.GET("", attendanceHandler.List)
		}

		protected.GET("/employees", employeeHandler.List)
		protected.GET("/employees/:id", employeeHandler.Get)
		protected.POST("/employees", management, employeeHandler.Create)
		protected.PUT("/employees/:id", management, employeeHandler.Update)
		protected.DELETE("/employees/:id", management, employeeHandler.Delete)

		protected.GET("/work-schedules", scheduleHandler.List)
		protected.GET("/work-schedules/:id", scheduleHandler.Get)
		protected.POST("/work-schedules", management, scheduleHandler.Create)
		protected.PUT("/work-schedules/:id", management, scheduleHandler.Update)
		protected.DELETE("/work-schedules/:id", management, scheduleHandler.Delete)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
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

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
