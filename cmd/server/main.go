package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/chi-demo/app"

	"github.com/Flame174reg/SiteSerenity-sub000/internal/api"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/api/middleware"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/repository/psql"
	"github.com/Flame174reg/SiteSerenity-sub000/internal/service"
	s3storage "github.com/Flame174reg/SiteSerenity-sub000/internal/storage/s3"
)

type Config struct {
	DB   DbConfig
	S3   S3Config
	Auth AuthConfig

	GalleryRoot string `env:"GALLERY_ROOT" env-default:"weekly"`
}

type AuthConfig struct {
	JWTSecret        string   `env:"AUTH_JWT_SECRET" env-required:"true"`
	OwnerDiscordID   string   `env:"OWNER_DISCORD_ID" env-required:"true"`
	FallbackAdminIDs []string `env:"FALLBACK_ADMIN_IDS" env-separator:"," env-default:""`
}

type DbConfig struct {
	Port     uint16 `env:"GALLERY_PG_PORT" env-default:"5432"`
	Host     string `env:"GALLERY_PG_HOST" env-default:"localhost"`
	Name     string `env:"GALLERY_PG_NAME" env-default:"serenity_db"`
	User     string `env:"GALLERY_PG_USER" env-default:"serenity"`
	Password string `env:"GALLERY_PG_PASSWORD" env-default:"pwd"`
}

type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	BucketName      string `env:"AWS_S3_BUCKET" env-default:"serenity-gallery"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	PublicBaseURL   string `env:"GALLERY_PUBLIC_BASE_URL" env-default:""`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"true"`
}

func (c DbConfig) toDatabaseUrl() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

func NewDbPool(ctx context.Context, dbConfig DbConfig) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dbConfig.toDatabaseUrl())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

func initializeS3Backend(config S3Config) (*s3storage.S3Backend, error) {
	backend, err := s3storage.NewS3Backend(s3storage.Config{
		Endpoint:        config.Endpoint,
		AccessKeyID:     config.AccessKeyID,
		SecretAccessKey: config.SecretAccessKey,
		Bucket:          config.BucketName,
		Region:          config.Region,
		PublicBaseURL:   config.PublicBaseURL,
		UsePathStyle:    config.UsePathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 backend: %w", err)
	}
	return backend, nil
}

func main() {
	// Load configuration
	var config Config
	if err := cleanenv.ReadEnv(&config); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	// Initialize database connection
	ctx := context.Background()
	dbPool, err := NewDbPool(ctx, config.DB)
	if err != nil {
		slog.Error("Failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// Initialize repositories
	roleRepo := psql.NewRoleRepository(dbPool)
	captionRepo := psql.NewCaptionRepository(dbPool)
	userRepo := psql.NewUserRepository(dbPool)
	contentRepo := psql.NewSiteContentRepository(dbPool)

	// Initialize S3 storage backend
	s3Backend, err := initializeS3Backend(config.S3)
	if err != nil {
		slog.Error("Failed to initialize S3 backend", "err", err)
		os.Exit(1)
	}

	// Initialize services
	roleService := service.NewRoleService(roleRepo, config.Auth.OwnerDiscordID, config.Auth.FallbackAdminIDs)
	galleryService := service.NewGalleryService(s3Backend, captionRepo, roleService, config.GalleryRoot)
	contentService := service.NewSiteContentService(contentRepo)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)
	server.R.Method("GET", "/metrics", promhttp.Handler())

	// Initialize API handlers
	roleHandler := api.NewRoleHandler(roleService)
	userHandler := api.NewUserHandler(userRepo, roleService)
	galleryHandler := api.NewGalleryHandler(galleryService)
	contentHandler := api.NewSiteContentHandler(contentService, roleService)

	server.R.Route("/api", func(r chi.Router) {
		r.Use(middleware.Metrics)
		r.Use(middleware.Authenticator([]byte(config.Auth.JWTSecret)))

		r.Mount("/roles", roleHandler.Routes())
		r.Mount("/admin", roleHandler.AdminRoutes())
		r.Mount("/users", userHandler.Routes())
		r.Mount("/folders", galleryHandler.FolderRoutes())
		r.Mount("/photos", galleryHandler.PhotoRoutes())
		r.Mount("/albums", galleryHandler.AlbumRoutes())
		r.Mount("/site-content", contentHandler.Routes())
	})

	// Start server
	server.Run()
}
