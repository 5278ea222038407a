package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"backoffice/internal/auth"
	"backoffice/internal/config"
	"backoffice/internal/engine"
	"backoffice/internal/entities"
	"backoffice/internal/metadata"
	"backoffice/internal/service"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (port: %d, driver: %s)", cfg.Server.Port, cfg.Database.Driver)

	// 2. Wire entity services
	var factories entities.Factories
	if cfg.Database.IsLocal() {
		db, err := service.OpenLocal(cfg.Database.Path)
		if err != nil {
			log.Fatalf("Failed to open local database: %v", err)
		}
		defer db.Close()
		factories, err = entities.NewLocalFactories(db)
		if err != nil {
			log.Fatalf("Failed to prepare local tables: %v", err)
		}
		log.Printf("Serving entities from %s", cfg.Database.Path)
	} else {
		factories = entities.NewRESTFactories(cfg.API.BaseURL)
		log.Printf("Serving entities from %s", cfg.API.BaseURL)
	}

	// 3. Load entity configurations
	reg := metadata.NewRegistry()
	if err := reg.Load(entities.Build(factories)); err != nil {
		log.Fatalf("Invalid entity configuration: %v", err)
	}

	// 4. Create Fiber app
	app := fiber.New()
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))

	// 5. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 6. Auth routes (no auth required)
	authHandler := auth.NewHandler(auth.Options{
		Mode:              cfg.Auth.Mode,
		JWTSecret:         cfg.Auth.JWTSecret,
		AdminEmail:        cfg.Auth.AdminEmail,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		APIBaseURL:        cfg.API.BaseURL,
		CookieName:        cfg.Auth.CookieName,
	})
	auth.RegisterAuthRoutes(app, authHandler)

	// 7. Root redirect into the admin
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/admin/articles", fiber.StatusSeeOther)
	})

	// 8. Dynamic admin CRUD routes
	engineHandler := engine.NewHandler(reg, cfg.Auth.CookieName)
	engine.RegisterAdminRoutes(app, engineHandler)

	// 9. Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting admin on %s", addr)
	log.Fatal(app.Listen(addr))
}
