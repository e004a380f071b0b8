package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/olagu/console/docs"
	"github.com/olagu/console/internal/config"
	"github.com/olagu/console/internal/database"
	"github.com/olagu/console/internal/handler"
	"github.com/olagu/console/internal/middleware"
	"github.com/olagu/console/internal/migration"
	"github.com/olagu/console/internal/remote"
	"github.com/olagu/console/internal/repository"
	"github.com/olagu/console/internal/routes"
	"github.com/olagu/console/internal/service"
	pkgcache "github.com/olagu/console/pkg/cache"
	"github.com/olagu/console/pkg/kvstore"
	pkglogger "github.com/olagu/console/pkg/logger"
	pkgredis "github.com/olagu/console/pkg/redis"
	pkgstorage "github.com/olagu/console/pkg/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Olagu Console API
// @version         1.0
// @description     Post review, donations, admins and gift codes for the Olagu community console
//
// @host            localhost:3002
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Console credential issued by the remote auth service. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	// Redis backs sessions and rate limiting; the record store may use it too
	redisClient, err := pkgredis.NewClient(pkgredis.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
		defer redisClient.Close()
	}

	store, err := openStore(cfg, redisClient)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	defer store.Close()

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient, cfg.Store.KeyPrefix)
	} else {
		pkglogger.Warn("Sessions are kept in memory and will not survive a restart")
		cacheService = pkgcache.NewMemoryService()
	}

	// S3-compatible storage for uploaded proof images
	var uploader pkgstorage.Uploader
	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, s3Err := pkgstorage.NewS3Client(pkgstorage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if s3Err != nil {
			pkglogger.Warn("S3 storage init failed: %v (file uploads disabled)", s3Err)
		} else {
			uploader = s3Client
			pkglogger.Info("Connected to S3 storage")
		}
	}

	remoteClient := remote.NewClient(remote.Config{
		BaseURL:      cfg.Remote.BaseURL,
		Timeout:      cfg.Remote.Timeout,
		LoginTimeout: cfg.Remote.LoginTimeout,
		Location:     cfg.Location(),
	})

	// Repositories
	postRepo := repository.NewPostRepository(store)
	donationRepo := repository.NewDonationRepository(store)
	credentialRepo := repository.NewCredentialRepository(cacheService)

	// Services
	postService := service.NewPostService(postRepo, remoteClient, service.PostServiceConfig{
		Location:            cfg.Location(),
		BlockAfterRejection: cfg.Posts.BlockAfterRejection,
	})
	donationService := service.NewDonationService(donationRepo, cfg.Donations.Maintenance)
	authService := service.NewAuthService(remoteClient, credentialRepo, service.AuthServiceConfig{
		DefaultTTL:   cfg.Session.TTL,
		BearerSecret: cfg.Session.JWTSecret,
	})
	if cfg.Session.JWTSecret == "" {
		pkglogger.Info("SESSION_JWT_SECRET not set, bearer tokens are refused; cookie sessions only")
	}
	adminService := service.NewAdminService(remoteClient)
	giftCodeService := service.NewGiftCodeService(remoteClient)
	dashboardService := service.NewDashboardService(postService, donationService, adminService)

	sessionCfg := middleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
		LoginURL:   cfg.Session.LoginURL,
	}

	deps := map[string]handler.Pinger{"cache": cacheService}
	if redisClient != nil {
		deps["redis"] = redisPinger{redisClient}
	}

	handlers := routes.Handlers{
		Post:      handler.NewPostHandler(postService, uploader, cfg.Posts.MaxImageBytes),
		Donation:  handler.NewDonationHandler(donationService),
		Auth:      handler.NewAuthHandler(authService, sessionCfg),
		Admin:     handler.NewAdminHandler(adminService),
		GiftCode:  handler.NewGiftCodeHandler(giftCodeService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Health:    handler.NewHealthHandler(remoteClient, deps),
	}
	if err := handler.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := splitAndTrim(cfg.CORS.AllowOrigins, ",")
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())
	if cfg.Posts.MaxImageBytes > 0 {
		// two images plus form fields
		router.MaxMultipartMemory = 2*cfg.Posts.MaxImageBytes + 1<<20
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	rateLimit := middleware.DefaultRateLimitConfig()
	rateLimit.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
	var limiter *redis.Client
	if cfg.RateLimit.Enabled {
		limiter = redisClient
	}

	routes.Setup(router, handlers, routes.Options{
		Session:   sessionCfg,
		Restorer:  authService,
		Redis:     limiter,
		RateLimit: rateLimit,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		pkglogger.Info("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	pkglogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Error("Server forced to shutdown: %v", err)
	}
}

// openStore picks the record store backend from store.driver
func openStore(cfg *config.Config, redisClient *redis.Client) (kvstore.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		pkglogger.Warn("Using the in-memory record store; posts and donations are not persisted")
		return kvstore.NewMemoryStore(), nil
	case "redis":
		if redisClient == nil {
			return nil, errors.New("store driver redis requires a Redis connection")
		}
		return kvstore.NewRedisStore(redisClient, cfg.Store.KeyPrefix), nil
	case "mysql", "sqlite":
		level := gormlogger.Warn
		if cfg.IsDevelopment() {
			level = gormlogger.Info
		}
		db, err := database.Open(cfg, level)
		if err != nil {
			return nil, err
		}
		if err := migration.Run(db); err != nil {
			return nil, err
		}
		pkglogger.Info("Record store ready (%s)", cfg.Store.Driver)
		return kvstore.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
