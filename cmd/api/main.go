package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	config "github.com/anjiri1684/talent_booking/configs"
	"github.com/anjiri1684/talent_booking/database"
	"github.com/anjiri1684/talent_booking/handlers"
	"github.com/anjiri1684/talent_booking/jobs"
	applog "github.com/anjiri1684/talent_booking/logger"
	"github.com/anjiri1684/talent_booking/models"
	"github.com/anjiri1684/talent_booking/mq"
	"github.com/anjiri1684/talent_booking/notifications"
	"github.com/anjiri1684/talent_booking/realtime"
	"github.com/anjiri1684/talent_booking/routes"
	"github.com/anjiri1684/talent_booking/services"
	"github.com/anjiri1684/talent_booking/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "🔥 Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := applog.NewLoggerWithLevel(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.WithField("error", err.Error()).Fatal("🔥 Server stopped with error")
	}
	log.Info("Server stopped")
}

func run(cfg *config.AppConfig, log applog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(cfg.Database, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}
	if err := database.SeedAdmin(db, database.AdminSeed{
		ID:       cfg.Admin.UserID,
		Email:    cfg.Admin.Email,
		FullName: cfg.Admin.FullName,
	}, log); err != nil {
		return err
	}

	mailer := notifications.NewMailer(notifications.Config{
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.Username,
		SMTPPassword: cfg.SMTP.Password,
		FromEmail:    cfg.SMTP.FromEmail,
		FromName:     cfg.SMTP.FromName,
	}, log)

	changeHub := realtime.NewHub(log)
	chatHub := websocket.NewHub(log)

	// Without a broker the relay feeds the local hub directly.
	var publisher realtime.Publisher = changeHub
	var consumer *mq.Consumer
	if cfg.Realtime.RabbitURL != "" {
		p, err := mq.NewPublisher(cfg.Realtime.RabbitURL, cfg.Realtime.Exchange)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p

		consumer, err = mq.NewConsumer(cfg.Realtime.RabbitURL, cfg.Realtime.Exchange, cfg.Realtime.RelayBatchSize, log)
		if err != nil {
			return err
		}
		defer consumer.Close()
		log.WithField("exchange", cfg.Realtime.Exchange).Info("✅ Change events fan out through RabbitMQ")
	}
	relay := realtime.NewRelay(db, publisher, log, cfg.Realtime.RelayInterval, cfg.Realtime.RelayBatchSize)

	deps := handlers.Dependencies{
		DB:        db,
		Log:       log,
		Config:    cfg,
		Mailer:    mailer,
		Relay:     relay,
		ChangeHub: changeHub,
		ChatHub:   chatHub,
		Printer:   services.ChromePrinter{},
	}
	if cfg.Cloudinary.URL != "" {
		uploader, err := services.NewCloudinaryUploader(cfg.Cloudinary.URL, cfg.Cloudinary.InvoiceFolder)
		if err != nil {
			return fmt.Errorf("cloudinary: %w", err)
		}
		deps.Uploader = uploader
	}
	if cfg.ExchangeAPI.APIKey != "" {
		deps.Rates = services.NewRateCache(cfg.ExchangeAPI.BaseURL, cfg.ExchangeAPI.APIKey, cfg.ExchangeAPI.CacheTTL, log)
	}
	handlers.Init(deps)

	scheduler, err := jobs.Schedule(cfg.Jobs, &jobs.Runner{DB: db, Log: log, Mailer: mailer, Relay: relay})
	if err != nil {
		return err
	}

	app := newApp(cfg, log)
	routes.Setup(app, cfg.Auth.JWTSecret)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return relay.Run(ctx)
	})
	if consumer != nil {
		g.Go(func() error {
			return consumer.Run(ctx, func(ctx context.Context, ev models.ChangeEvent) error {
				return changeHub.Publish(ctx, ev)
			})
		})
	}
	g.Go(func() error {
		scheduler.Start()
		<-ctx.Done()
		<-scheduler.Stop().Done()
		return nil
	})
	g.Go(func() error {
		log.WithField("port", cfg.Server.Port).Info("✅ Server is running")
		return app.Listen(fmt.Sprintf(":%d", cfg.Server.Port))
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down server...")
		return app.Shutdown()
	})

	return g.Wait()
}

func newApp(cfg *config.AppConfig, log applog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork:      false,
		AppName:      cfg.Server.AppName,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.WithFields(map[string]interface{}{
				"path":   c.Path(),
				"method": c.Method(),
				"error":  err.Error(),
			}).Error("[ERROR] Unhandled request error")
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version, webhook-id, webhook-timestamp, webhook-signature",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Africa/Nairobi",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to " + cfg.Server.AppName + " API",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}
