package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"edu-progression-system/handlers"
	"edu-progression-system/middleware"
	"edu-progression-system/models"
	"edu-progression-system/services"
	"edu-progression-system/utils"
	"edu-progression-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 32 * 1024 * 1024, // 32MB, enough for module asset uploads
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.LearningModule{},
		&models.ModuleProgress{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.ProcessedEvent{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := services.SeedBadgeCatalog(db); err != nil {
		log.Fatal("failed to seed badge catalog:", err)
	}
	if err := services.SeedAchievementCatalog(db); err != nil {
		log.Fatal("failed to seed achievement catalog:", err)
	}

	storage, err := utils.NewObjectStorage()
	if err != nil {
		log.Fatal("failed to initialize object storage:", err)
	}

	// Redis is optional for a single instance: without it the login guard
	// falls back to the in-process store and the leaderboard serves from
	// the database.
	var rdb *redis.Client
	var guard services.RateLimitStore
	var memoryGuard *services.MemoryRateLimitStore
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		guard = services.NewRedisRateLimitStore(rdb)
		log.Println("✅ Redis connected — shared login guard + leaderboard cache enabled")
	} else {
		memoryGuard = services.NewMemoryRateLimitStore()
		guard = memoryGuard
		log.Println("⚠️  REDIS_ADDR not set — using in-process login guard (single instance only)")
	}

	services.InitMetrics()

	loginService := services.NewLoginService(db, guard)
	progressionService := services.NewProgressionService(db)
	badgeService := services.NewBadgeService(db)
	achievementService := services.NewAchievementService(db)
	completionService := services.NewCompletionService(db)
	moduleService := services.NewModuleService(db)
	leaderboardService := services.NewLeaderboardService(db, rdb)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	moduleService.StartPublishScheduler(memoryGuard)
	go workers.RunLeaderboardRebuild(ctx, leaderboardService, 5*time.Minute)

	handlers.SetupAuthRoutes(app, loginService)
	handlers.SetupModuleRoutes(app, moduleService, storage)
	handlers.SetupProgressionRoutes(app,
		completionService, progressionService, badgeService,
		achievementService, moduleService, leaderboardService)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Module publish scheduler running")
	log.Println("✅ Leaderboard rebuild worker running (every 5m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
