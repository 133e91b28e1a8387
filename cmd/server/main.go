package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/benbeisheim/chess-backend/internal/config"
	"github.com/benbeisheim/chess-backend/internal/controller"
	"github.com/benbeisheim/chess-backend/internal/logging"
	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr); err != nil {
		log.WithError(err).Fatal("invalid logging configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := service.ManagerOptions{TTL: cfg.GameTTL}
	if cfg.LayoutFile != "" {
		layout, err := model.LoadLayout(cfg.LayoutFile)
		if err != nil {
			log.WithError(err).Fatal("failed to load layout")
		}
		opts.Layout = &layout
		log.WithField("file", cfg.LayoutFile).Info("using custom layout")
	}

	// Initialize services
	gameManager := service.NewGameManager(ctx, opts)
	gameService := service.NewGameService(gameManager, cfg.Bottom())

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	app := newApp(cfg, gameController, wsController)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.WithFields(log.Fields{"addr": cfg.Addr, "bottom": cfg.BottomColor}).Info("listening")
	if err := app.Listen(cfg.Addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func newApp(cfg config.Config, gameController *controller.GameController, wsController *controller.WebSocketController) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(middleware.RequestLogger())

	controller.RegisterRoutes(app, gameController, wsController)
	return app
}
