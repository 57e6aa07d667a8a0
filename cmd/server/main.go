// @title Eventhub API
// @version 1.0
// @description Events, categories, RSVPs and role management.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventhub/config"
	_ "eventhub/docs"
	"eventhub/internal/adapters/auth"
	"eventhub/internal/adapters/email"
	deliveryhttp "eventhub/internal/delivery/http"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
	"eventhub/internal/repository/postgres"
	"eventhub/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		log.Fatalf("db connection failed: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		logger.Info("schema migrated")
	}

	store := postgres.NewStore(db)
	repos := store.Repositories()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		log.Fatalf("email templates: %v", err)
	}
	notifier := services.NewEmailNotifier(services.NewEmailService(mailer, renderer, logger), services.NotifierConfig{
		SiteURL:       cfg.SiteURL,
		ActivationTTL: cfg.ActivationTokenTTL,
		Timeout:       cfg.NotifyTimeout,
	}, logger)

	tokens := auth.NewJWT(cfg.JWTSecret)
	roleService := services.NewRoleService(repos, store, logger)
	profileSync := services.NewProfileSynchronizer(repos.Profiles, logger)
	accountService := services.NewAccountService(
		repos,
		store,
		auth.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		roleService,
		notifier,
		// Role grant runs before the profile link.
		[]domain.AccountCreationHook{roleService, profileSync},
		services.AccountConfig{TokenExpiry: cfg.JWTExpiry, ActivationTTL: cfg.ActivationTokenTTL},
		logger,
	)
	catalogService := services.NewCatalogService(repos.Categories, repos.Events, logger)
	rsvpService := services.NewRSVPService(repos, notifier, logger)
	statsService := services.NewStatsService(repos)

	if created, err := accountService.EnsureBootstrapAdmin(ctx, cfg.BootstrapAdmin.Email, cfg.BootstrapAdmin.Username, cfg.BootstrapAdmin.Password); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	} else if created {
		logger.Info("bootstrap admin created", "email", cfg.BootstrapAdmin.Email)
	}

	router := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:     controllers.NewAuthController(logger, accountService),
		User:     controllers.NewUserController(logger, accountService, roleService, rsvpService, profileSync),
		Admin:    controllers.NewAdminController(logger, accountService, roleService, statsService),
		Category: controllers.NewCategoryController(logger, catalogService),
		Event:    controllers.NewEventController(logger, catalogService),
		RSVP:     controllers.NewRSVPController(logger, rsvpService),
	}, tokens, roleService, logger)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, router))
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("http listening", "addr", httpServer.Addr, "env", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
