package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/duotopia/backend/internal/apperr"
	"github.com/duotopia/backend/internal/assignment"
	"github.com/duotopia/backend/internal/authz"
	"github.com/duotopia/backend/internal/config"
	"github.com/duotopia/backend/internal/feedback"
	"github.com/duotopia/backend/internal/grading"
	"github.com/duotopia/backend/internal/identity"
	"github.com/duotopia/backend/internal/middleware"
	"github.com/duotopia/backend/internal/notify"
	"github.com/duotopia/backend/internal/orggraph"
	"github.com/duotopia/backend/internal/progresshub"
	"github.com/duotopia/backend/internal/providers/assessment"
	"github.com/duotopia/backend/internal/shared/blobstore"
	"github.com/duotopia/backend/internal/shared/database"
	"github.com/duotopia/backend/internal/shared/fcm"
	"github.com/duotopia/backend/internal/shared/httpclient"
	"github.com/duotopia/backend/internal/shared/metrics"
	"github.com/duotopia/backend/internal/shared/redis"
	"github.com/duotopia/backend/internal/speech"
)

func main() {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connected successfully")

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Initialize Redis connection
	redisClient, err := redis.Connect(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Redis connected successfully")

	// Initialize blob store for recorded audio and provider payloads
	blobClient, err := blobstore.New(context.Background(), cfg.Blob)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}
	log.Println("Blob store connected successfully")

	// Initialize FCM Client
	fcmClient, err := fcm.NewClient(cfg.FCM)
	if err != nil {
		log.Printf("Warning: Failed to initialize FCM client: %v", err)
		fcmClient = &fcm.Client{} // Use empty client
	}
	if fcmClient.IsInitialized() {
		log.Println("FCM client initialized successfully")
	} else {
		log.Println("FCM client not configured, push notifications disabled")
	}

	// Process-wide HTTP client shared by every outbound provider call
	sharedHTTPClient := httpclient.New()

	// In-memory authorization engine rehydrated from persisted
	// memberships below (§4.1, §9).
	authzEngine := authz.NewEngine()

	jwtManager := identity.NewJWTManager(cfg.JWT)

	// Initialize Identity Module
	identityRepo := identity.NewRepository(db)
	identityService := identity.NewService(identityRepo, jwtManager)
	identityHandler := identity.NewHandler(identityService)

	// Initialize Organization Graph Module
	orggraphRepo := orggraph.NewRepository(db)
	orggraphService := orggraph.NewService(orggraphRepo, authzEngine)
	orggraphHandler := orggraph.NewHandler(orggraphService)

	// Rehydrate every active membership into the authorization engine
	// before accepting traffic — the engine starts empty each boot.
	if err := orggraphService.Rehydrate(context.Background()); err != nil {
		log.Fatalf("Failed to rehydrate authorization engine: %v", err)
	}
	log.Println("Authorization engine rehydrated")

	// Initialize Assignment Module (classrooms, contents, assignments)
	assignmentRepo := assignment.NewRepository(db)
	assignmentService := assignment.NewService(assignmentRepo, authzEngine)
	assignmentHandler := assignment.NewHandler(assignmentService)

	// Initialize Feedback Module
	feedbackRepo := feedback.NewRepository(db)
	feedbackService := feedback.NewService(feedbackRepo, authzEngine)
	feedbackHandler := feedback.NewHandler(feedbackService)

	// Initialize the external assessment provider, sharing the
	// process-wide HTTP client and circuit breaker across every call
	assessmentProvider := assessment.NewHTTPProvider(cfg.Provider, sharedHTTPClient)

	// Initialize Speech Module (scoped credentials, recording upload)
	speechRepo := speech.NewRepository(db)
	credentialIssuer := speech.NewCredentialIssuer(cfg.JWT, cfg.Provider, cfg.Worker, redisClient)
	uploader := speech.NewUploader(speechRepo, blobClient)
	speechHandler := speech.NewHandler(credentialIssuer, uploader)

	// Initialize Notification Module
	notifyRepo := notify.NewRepository(db)
	notifyService := notify.NewService(notifyRepo, redisClient)
	notifyHandler := notify.NewHandler(notifyService)
	notifyWorker := notify.NewWorker(redisClient, fcmClient, notifyRepo)

	// Initialize live batch-grade progress feed (before Grading Module
	// so its Reporter can be wired in below)
	progressHub := progresshub.NewHub()
	go progressHub.Run() // Start the hub in a goroutine
	progressReporter := progresshub.NewReporter(progressHub)
	progressHandler := progresshub.NewHandler(progressHub, jwtManager)

	// Initialize Grading Module (batch assessment dispatch)
	gradingRepo := grading.NewRepository(db)
	gradingService := grading.NewService(gradingRepo, assignmentService, assessmentProvider, blobClient, cfg.Worker.PoolSize, cfg.Worker.ItemTimeoutSeconds)
	gradingService.SetNotifier(notifyService)
	gradingService.SetProgressReporter(progressReporter)
	gradingHandler := grading.NewHandler(gradingService)

	// Route-registry authorization descriptors (§9): only collection
	// routes whose domain id sits directly in the path are registered
	// here; everything else authorizes inside its own service gate.
	authzRegistry := middleware.NewRegistry()
	authzRegistry.Register(fiber.MethodPost, "/api/v1/schools/:schoolID/teachers", middleware.RouteDescriptor{
		Resource: authz.ResourceTeacher, Action: authz.ActionManage, Kind: authz.DomainKindSchool, DomainParam: "schoolID",
	})
	authzRegistry.Register(fiber.MethodDelete, "/api/v1/schools/:schoolID/teachers/:teacherID", middleware.RouteDescriptor{
		Resource: authz.ResourceTeacher, Action: authz.ActionManage, Kind: authz.DomainKindSchool, DomainParam: "schoolID",
	})

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Duotopia Backend",
		ErrorHandler: apperr.FiberErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), c.Route().Path, statusClass(c.Response().StatusCode())).Inc()
		return err
	})

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "duotopia-backend",
		})
	})

	// Prometheus scrape endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register WebSocket routes before other routes to handle upgrade
	// properly.
	progressHandler.RegisterWebSocketRoutes(app)

	// API routes group
	api := app.Group("/api/v1")

	// Register public auth routes (register, login, refresh)
	identityHandler.RegisterRoutes(api)

	// Speech credential/upload routes accept both authenticated and
	// anonymous demo callers (§4.3.a), so auth is optional here.
	speechGroup := api.Group("", middleware.OptionalAuth(jwtManager))
	speechHandler.RegisterRoutes(speechGroup)

	// Protected routes group: mandatory auth + route-registry authz
	protected := api.Group("", middleware.Auth(jwtManager), middleware.Authz(authzEngine, authzRegistry))

	// Register protected auth routes (change-password, me, students)
	identityHandler.RegisterProtectedRoutes(protected)

	orggraphHandler.RegisterRoutes(protected)
	assignmentHandler.RegisterRoutes(protected)
	feedbackHandler.RegisterRoutes(protected)
	gradingHandler.RegisterRoutes(protected)
	notifyHandler.RegisterRoutes(protected)

	// Initialize and start Notification Worker
	notifyWorker.Start()
	log.Println("Notification worker started")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")

		// Stop notification worker
		notifyWorker.Stop()

		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// statusClass buckets an HTTP status code into its class for the
// request counter's cardinality (avoids one label series per status).
func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
