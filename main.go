// path: main.go
package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cidadeperfeita/controllers"
	"cidadeperfeita/database"
	"cidadeperfeita/routes"
	"cidadeperfeita/storage"
)

func main() {
	_ = godotenv.Load()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zl.Sync()
	zlog := zl.Sugar()

	db, err := database.Connect(zlog)
	if err != nil {
		zlog.Fatalw("db connect failed", "err", err)
	}
	defer database.Close(db)

	store := database.NewReportStore(db, zlog)
	if err := store.EnsureSchema(context.Background()); err != nil {
		zlog.Fatalw("schema setup failed", "err", err)
	}

	files, err := storage.NewFileStore(getenv("UPLOAD_DIR", "uploads"), zlog)
	if err != nil {
		zlog.Fatalw("upload dir setup failed", "err", err)
	}

	policy := controllers.DefaultUploadPolicy()
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			policy.MaxBytes = n
		}
	}

	api := controllers.NewAPI(store, files, policy, zlog)

	app := fiber.New(fiber.Config{
		// Leave headroom over the photo ceiling for the other form fields.
		BodyLimit: int(policy.MaxBytes) + 1024*1024,
	})
	app.Use(recover.New())

	// Log concise request lines
	app.Use(logger.New(logger.Config{
		TimeFormat: "15:04:05",
	}))

	// CORS (dev-friendly)
	app.Use(cors.New(cors.Config{
		AllowOrigins: getenv("CORS_ORIGINS", "http://localhost:3000, http://localhost:3001"),
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "*",
		MaxAge:       int((12 * time.Hour).Seconds()),
	}))

	// Static preview for uploaded files
	app.Static(storage.PublicPrefix, files.Root())

	// Health
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	// API
	routes.Register(app, api)

	addr := ":" + getenv("PORT", "4000")
	zlog.Infow("API listening", "addr", addr)
	zlog.Fatal(app.Listen(addr))
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
