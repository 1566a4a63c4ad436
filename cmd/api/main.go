package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"washhub/internal/config"
	"washhub/internal/database"
	"washhub/internal/domain/file"
	"washhub/internal/middleware"
	jwtsvc "washhub/internal/pkg/jwt"
)

func main() {
	// Local dev convenience; in deployment the environment is already set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&file.FileRecord{}); err != nil {
		log.Fatal(err)
	}

	gateway, err := file.NewMinioGateway(
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.Region,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatal(err)
	}

	fileRepo := file.NewRepository(db)
	fileService := file.NewService(fileRepo, gateway, cfg.BucketPrefix, cfg.PresignTTL)
	fileHandler := file.NewHandler(fileService)

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)

	r := gin.Default()
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorLogger())

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			file.RegisterRoutes(protected, fileHandler)
		}
	}

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
