package router

import (
	"log"
	"time"

	"github.com/elevateacademy/portal-api/config"
	"github.com/elevateacademy/portal-api/database"
	"github.com/elevateacademy/portal-api/handlers"
	admin_handlers "github.com/elevateacademy/portal-api/handlers/admin"
	auth_handlers "github.com/elevateacademy/portal-api/handlers/auth"
	course_handlers "github.com/elevateacademy/portal-api/handlers/course"
	email_handlers "github.com/elevateacademy/portal-api/handlers/email"
	payment_handlers "github.com/elevateacademy/portal-api/handlers/payment"
	review_handlers "github.com/elevateacademy/portal-api/handlers/review"
	testimonial_handlers "github.com/elevateacademy/portal-api/handlers/testimonial"
	"github.com/elevateacademy/portal-api/services"
	"github.com/elevateacademy/portal-api/utils/auth"
	"github.com/elevateacademy/portal-api/utils/cache"
	"github.com/elevateacademy/portal-api/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnviornmentVariable) {
	if env.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "elevate-academy-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis is optional. Without it the featured caches and brute force
	// protection are skipped and everything else keeps working.
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Caching and brute force protection disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Services
	userService := services.NewUserService(db)
	courseService := services.NewCourseService(db, redisCache)
	reviewService := services.NewReviewService(db)
	testimonialService := services.NewTestimonialService(db, redisCache)
	paymentService := services.NewPaymentService(db, userService)
	settingService := services.NewSettingService(db)
	statsService := services.NewStatsService(db)
	emailService := services.NewEmailService(env)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, userService, emailService, bruteForceProtection)
	courseHandler := course_handlers.NewCourseHandler(courseService)
	reviewHandler := review_handlers.NewReviewHandler(reviewService)
	testimonialHandler := testimonial_handlers.NewTestimonialHandler(testimonialService)
	paymentHandler := payment_handlers.NewPaymentHandler(paymentService, userService, emailService)
	userHandler := admin_handlers.NewUserHandler(userService)
	bulkHandler := admin_handlers.NewBulkHandler(courseService, reviewService, testimonialService, userService)
	settingHandler := admin_handlers.NewSettingHandler(settingService)
	auditHandler := admin_handlers.NewAuditHandler(db)
	dashboardHandler := admin_handlers.NewDashboardHandler(statsService)
	emailHandler := email_handlers.NewEmailHandler(emailService)
	healthHandler := handlers.NewHealthHandler(store, redisCache)

	allowedOrigins := env.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	api := app.Group("/api/v1")

	// Health (public)
	api.Get("/health", healthHandler.Check)

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Course catalog (public)
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListPublished)
	courses.Get("/featured", courseHandler.ListFeatured)
	courses.Get("/:slug", courseHandler.GetBySlug)

	// Reviews (public reads, member writes)
	reviews := api.Group("/reviews")
	reviews.Get("/", reviewHandler.ListApproved)
	reviews.Get("/featured", reviewHandler.ListFeatured)
	reviews.Get("/me", authMiddleware.Required(), reviewHandler.GetOwn)
	reviews.Post("/", authMiddleware.Required(), reviewHandler.Submit)
	reviews.Put("/me", authMiddleware.Required(), reviewHandler.UpdateOwn)

	// Testimonials (public reads, member writes)
	testimonials := api.Group("/testimonials")
	testimonials.Get("/", testimonialHandler.ListApproved)
	testimonials.Get("/featured", testimonialHandler.ListFeatured)
	testimonials.Get("/me", authMiddleware.Required(), testimonialHandler.GetOwn)
	testimonials.Post("/", authMiddleware.Required(), testimonialHandler.Submit)
	testimonials.Put("/me", authMiddleware.Required(), testimonialHandler.UpdateOwn)

	// Payments (member)
	payments := api.Group("/payments", authMiddleware.Required())
	payments.Post("/", paymentHandler.Submit)
	payments.Get("/me", paymentHandler.ListOwn)

	// Public settings (site copy, contact details, published prices)
	api.Get("/settings", settingHandler.ListPublicSettings)

	// ==================== Admin Panel ====================

	admin := api.Group("/admin", authMiddleware.RequireAdmin())

	// Dashboard
	admin.Get("/dashboard", dashboardHandler.Overview)

	// Course management
	admin.Get("/courses", courseHandler.ListAll)
	admin.Get("/courses/:id", courseHandler.GetByID)
	admin.Post("/courses", middleware.AdminAuditLog(db, "course_create", "courses"), courseHandler.Create)
	admin.Put("/courses/:id", middleware.AdminAuditLog(db, "course_update", "courses"), courseHandler.Update)
	admin.Delete("/courses/:id", middleware.AdminAuditLog(db, "course_delete", "courses"), courseHandler.Delete)
	admin.Post("/courses/:id/duplicate", middleware.AdminAuditLog(db, "course_duplicate", "courses"), courseHandler.Duplicate)
	admin.Post("/courses/bulk", middleware.AdminAuditLog(db, "course_bulk", "courses"), bulkHandler.Courses)

	// Review moderation
	admin.Get("/reviews", reviewHandler.ListAll)
	admin.Put("/reviews/:id/status", middleware.AdminAuditLog(db, "review_moderate", "reviews"), reviewHandler.SetStatus)
	admin.Delete("/reviews/:id", middleware.AdminAuditLog(db, "review_delete", "reviews"), reviewHandler.Delete)
	admin.Post("/reviews/bulk", middleware.AdminAuditLog(db, "review_bulk", "reviews"), bulkHandler.Reviews)

	// Testimonial moderation
	admin.Get("/testimonials", testimonialHandler.ListAll)
	admin.Put("/testimonials/:id/status", middleware.AdminAuditLog(db, "testimonial_moderate", "testimonials"), testimonialHandler.SetStatus)
	admin.Delete("/testimonials/:id", middleware.AdminAuditLog(db, "testimonial_delete", "testimonials"), testimonialHandler.Delete)
	admin.Post("/testimonials/bulk", middleware.AdminAuditLog(db, "testimonial_bulk", "testimonials"), bulkHandler.Testimonials)

	// User management
	admin.Get("/users", userHandler.ListUsers)
	admin.Get("/users/by-email", userHandler.GetUserByEmail)
	admin.Get("/users/:id", userHandler.GetUser)
	admin.Post("/users", middleware.AdminAuditLog(db, "user_create", "users"), userHandler.CreateUser)
	admin.Delete("/users/:id", middleware.AdminAuditLog(db, "user_delete", "users"), userHandler.DeleteUser)
	admin.Put("/users/:id/password", middleware.AdminAuditLog(db, "password_reset", "users"), userHandler.ResetPassword)
	admin.Put("/users/:id/membership", middleware.AdminAuditLog(db, "membership_update", "users"), userHandler.SetMembership)
	admin.Post("/users/bulk", middleware.AdminAuditLog(db, "user_bulk", "users"), bulkHandler.Users)

	// Payment verification
	admin.Get("/payments", paymentHandler.ListAll)
	admin.Get("/payments/pending", paymentHandler.ListPending)
	admin.Post("/payments/:id/verify", middleware.AdminAuditLog(db, "payment_verify", "payments"), paymentHandler.Verify)
	admin.Post("/payments/:id/reject", middleware.AdminAuditLog(db, "payment_reject", "payments"), paymentHandler.Reject)

	// Settings management
	admin.Get("/settings", settingHandler.ListSettings)
	admin.Get("/settings/:key", settingHandler.GetSetting)
	admin.Put("/settings/:key", middleware.AdminAuditLog(db, "setting_update", "settings"), settingHandler.UpdateSetting)

	// Outbound email
	admin.Post("/email/send", middleware.AdminAuditLog(db, "email_send", "email"), emailHandler.Send)

	// Audit trail
	admin.Get("/audit-logs", auditHandler.ListAuditLogs)
}
