package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/arkadelo/profilehub/config"
	"github.com/arkadelo/profilehub/internal/api/handlers"
	"github.com/arkadelo/profilehub/internal/api/middleware"
	"github.com/arkadelo/profilehub/internal/api/routes"
	"github.com/arkadelo/profilehub/internal/cache"
	"github.com/arkadelo/profilehub/internal/feed"
	"github.com/arkadelo/profilehub/internal/flow"
	"github.com/arkadelo/profilehub/internal/geocode"
	"github.com/arkadelo/profilehub/internal/identity"
	"github.com/arkadelo/profilehub/internal/logger"
	"github.com/arkadelo/profilehub/internal/models"
	mongorepo "github.com/arkadelo/profilehub/internal/repositories/mongo"
	"github.com/arkadelo/profilehub/internal/services"
	"github.com/arkadelo/profilehub/internal/session"
	"github.com/arkadelo/profilehub/internal/storage"
	"github.com/arkadelo/profilehub/internal/workers"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Backends
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	if err := config.PostgresDB.AutoMigrate(&models.Account{}, &models.PasswordReset{}); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "profilehub"
	}
	mongoDB := config.MongoClient.Database(dbName)

	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		log.Fatal("GCS_BUCKET environment variable is not set")
	}
	store, err := storage.NewGCSStore(ctx, bucket)
	if err != nil {
		log.Fatalf("GCS init error: %v", err)
	}
	defer store.Close()

	// Repositories and core components
	userRepo := mongorepo.NewUserRepo(mongoDB)
	subRepo := mongorepo.NewSubmissionRepo(mongoDB)

	roleCache := cache.NewRedisCache(config.RedisClient)
	roles := session.NewRoleReader(userRepo, roleCache, l)

	provider := identity.NewPostgresProvider(config.PostgresDB, l)

	ttl := 24 * time.Hour
	if v := os.Getenv("JWT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		}
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}
	tokens := identity.NewTokenIssuer(secret, "profilehub", os.Getenv("JWT_AUDIENCE"), ttl)

	// Session resolver: owns first-sign-in record creation, torn down
	// with the process
	resolver := session.NewResolver(provider, userRepo, roles, l)
	resolver.Start(ctx)
	defer resolver.Close()

	hub := feed.NewHub()

	reaper := &workers.PhotoReaperPool{
		Redis:  config.RedisClient,
		Store:  store,
		Logger: l,
	}
	if err := reaper.Start(ctx); err != nil {
		log.Fatalf("photo reaper error: %v", err)
	}

	userSvc := services.NewUserService(userRepo, roles)
	subSvc := services.NewSubmissionService(subRepo, hub)

	submitFlow := flow.New(provider, userSvc, subSvc, store, l,
		flow.WithGeocoder(geocode.NewClient(os.Getenv("NOMINATIM_URL"))),
		flow.WithReaper(reaper),
	)

	// HTTP
	r := gin.New()
	r.Use(middleware.RequestLogger(l), gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Tokens:     tokens,
		Roles:      roles,
		Auth:       handlers.NewAuthHandler(provider, tokens, roles, l),
		Profile:    handlers.NewProfileHandler(userSvc),
		Submission: handlers.NewSubmissionHandler(subSvc, submitFlow),
		Admin:      handlers.NewAdminHandler(userSvc, subSvc),
		Pages:      handlers.NewPageHandler(subSvc),
		WS:         handlers.NewWSHandler(hub, l),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
