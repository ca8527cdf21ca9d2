package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	"github.com/edumart/api/database"
	"github.com/edumart/api/handlers"
	auth_handlers "github.com/edumart/api/handlers/auth"
	cart_handlers "github.com/edumart/api/handlers/cart"
	chat_handlers "github.com/edumart/api/handlers/chat"
	course_handlers "github.com/edumart/api/handlers/course"
	earning_handlers "github.com/edumart/api/handlers/earning"
	lesson_handlers "github.com/edumart/api/handlers/lesson"
	notification_handlers "github.com/edumart/api/handlers/notification"
	order_handlers "github.com/edumart/api/handlers/order"
	ticket_handlers "github.com/edumart/api/handlers/ticket"
	"github.com/edumart/api/model"
	"github.com/edumart/api/services"
	"github.com/edumart/api/utils/auth"
	"github.com/edumart/api/utils/cache"
	"github.com/edumart/api/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "edumart-api"
	}

	// Initialize JWT manager with config
	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Initialize Redis cache; the API degrades without it
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection and cart count caching will be disabled.", err)
	}

	// Initialize brute force protection
	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Initialize auth middleware with DB for blacklist checking
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Initialize services
	sequenceService := services.NewSequenceService(db)
	cartService := services.NewCartService(db, redisCache)
	settlementService := services.NewSettlementService(db, sequenceService)
	ticketService := services.NewTicketService(db, sequenceService)
	chatService := services.NewChatService(db, services.NewMemoryRoomRegistry())

	// Initialize handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	courseHandler := course_handlers.NewCourseHandler(db, sequenceService)
	lessonHandler := lesson_handlers.NewLessonHandler(db, sequenceService)
	cartHandler := cart_handlers.NewCartHandler(cartService)
	orderHandler := order_handlers.NewOrderHandler(db, settlementService)
	earningHandler := earning_handlers.NewEarningHandler(settlementService)
	ticketHandler := ticket_handlers.NewTicketHandler(db, ticketService)
	notificationHandler := notification_handlers.NewNotificationHandler(db)
	chatHandler := chat_handlers.NewChatHandler(chatService, ticketService, jwtManager)
	healthHandler := handlers.NewHealthHandler(store, redisCache)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// API v1 group
	api := app.Group("/api/v1")

	// Health check endpoint (public)
	api.Get("/health", healthHandler.Health)

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.Refresh)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.Profile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Courses routes
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)   // Public: List/search courses
	courses.Get("/:id", courseHandler.GetCourse)  // Public: Get course with lessons
	courses.Post("/", authMiddleware.RequireRole(model.RoleCreator, model.RoleAdmin), courseHandler.CreateCourse)
	courses.Put("/:id", authMiddleware.RequireRole(model.RoleCreator, model.RoleAdmin), courseHandler.UpdateCourse)
	courses.Delete("/:id", authMiddleware.RequireRole(model.RoleCreator, model.RoleAdmin), courseHandler.DeleteCourse)
	courses.Patch("/:id/status", authMiddleware.RequireAdmin(), courseHandler.SetStatus) // Admin only: moderation decision

	// Lessons routes (nested under courses)
	lessons := api.Group("/courses/:courseId/lessons")
	lessons.Get("/", lessonHandler.ListLessons) // Public: List lessons in order
	lessons.Post("/", authMiddleware.RequireRole(model.RoleCreator, model.RoleAdmin), lessonHandler.CreateLesson)
	lessons.Put("/:id", authMiddleware.RequireRole(model.RoleCreator, model.RoleAdmin), lessonHandler.UpdateLesson)
	lessons.Delete("/:id", authMiddleware.RequireRole(model.RoleCreator, model.RoleAdmin), lessonHandler.DeleteLesson)

	// Cart routes (all protected)
	cart := api.Group("/cart", authMiddleware.Required())
	cart.Get("/", cartHandler.GetCart)
	cart.Get("/count", cartHandler.GetCartCount)
	cart.Post("/add", cartHandler.AddToCart)
	cart.Put("/updatecartitem", cartHandler.UpdateCartItem)
	cart.Put("/updatetotalprice", cartHandler.UpdateTotalPrice)
	cart.Delete("/removefromcart", cartHandler.RemoveFromCart)
	cart.Delete("/clearcart", cartHandler.ClearCart)

	// Order routes (all protected)
	orders := api.Group("/orders", authMiddleware.Required())
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)

	// Earnings routes (creators and admins)
	earnings := api.Group("/earnings", authMiddleware.RequireRole(model.RoleCreator, model.RoleAdmin))
	earnings.Get("/", earningHandler.GetEarnings)
	earnings.Post("/withdraw", earningHandler.Withdraw)

	// Ticket routes (all protected)
	tickets := api.Group("/tickets", authMiddleware.Required())
	tickets.Post("/", ticketHandler.CreateTicket)
	tickets.Get("/", ticketHandler.ListTickets)
	tickets.Get("/:id", ticketHandler.GetTicket)
	tickets.Put("/:id", authMiddleware.RequireSupport(), ticketHandler.UpdateTicket)
	tickets.Delete("/:id", ticketHandler.DeleteTicket)
	tickets.Get("/:id/messages", chatHandler.History)

	// Notification routes (all protected)
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.ListNotifications)
	notifications.Get("/unread-count", notificationHandler.GetUnreadCount)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)
	notifications.Put("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.DeleteNotification)
	notifications.Delete("/", notificationHandler.DeleteAllNotifications)

	// Ticket chat websocket; token is passed as a query parameter
	app.Get("/ws/chat", chatHandler.Upgrade, websocket.New(chatHandler.Serve))
}
