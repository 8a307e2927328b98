package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"parishevents/config"
	adapterauth "parishevents/internal/adapters/auth"
	"parishevents/internal/adapters/email"
	"parishevents/internal/cards"
	httpdelivery "parishevents/internal/delivery/http"
	"parishevents/internal/delivery/http/controllers"
	"parishevents/internal/delivery/http/middleware"
	"parishevents/internal/repository/postgres"
	"parishevents/internal/services"
)

// @title Parish Events API
// @version 1.0
// @description Event registration, check-in, and card generation backend for parish community events.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrantRepo := postgres.NewRegistrantRepository(db)
	checkInRepo := postgres.NewCheckInRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	receiptRepo := postgres.NewReceiptRepository(db)
	donationRepo := postgres.NewDonationRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)

	// Adapters
	hasher := adapterauth.NewBcryptHasher(12)
	issuer, verifier := adapterauth.NewJWTCodec(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mailer.Provider,
		FromAddress: cfg.Mailer.FromAddress,
		FromName:    cfg.Mailer.FromName,
		SES: email.SESConfig{
			Region:          cfg.Mailer.SESRegion,
			AccessKeyID:     cfg.Mailer.SESAccessKeyID,
			SecretAccessKey: cfg.Mailer.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}

	assets := cards.NewAssetStore(cfg.CardAssetDir, cfg.CardAssetTimeout, logger)
	composer := cards.NewComposer(cards.ComposerConfig{
		Kind:      cards.KindBadge,
		EventName: cfg.CardEventName,
		WithQR:    true,
	}, assets, logger)

	// Services
	emailSvc := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	authSvc := services.NewAuthService(userRepo, roleRepo, hasher, issuer, cfg.JWTExpiry)
	registrationSvc := services.NewRegistrationService(registrantRepo, eventRepo, emailSvc, logger)
	checkInSvc := services.NewCheckInService(registrantRepo, checkInRepo, logger)
	cardSvc := services.NewCardExportService(composer, logger, "cards")
	teamSvc := services.NewTeamService(teamRepo, registrantRepo)
	paymentSvc := services.NewPaymentService(receiptRepo, registrantRepo)
	financeSvc := services.NewFinanceService(donationRepo, expenseRepo)

	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:       controllers.NewAuthController(logger, authSvc),
		Event:      controllers.NewEventController(logger, eventRepo),
		Registrant: controllers.NewRegistrantController(logger, registrationSvc, registrantRepo),
		CheckIn:    controllers.NewCheckInController(logger, checkInSvc),
		Card:       controllers.NewCardController(logger, cardSvc, registrantRepo),
		Team:       controllers.NewTeamController(logger, teamSvc),
		Payment:    controllers.NewPaymentController(logger, paymentSvc),
		Finance:    controllers.NewFinanceController(logger, financeSvc),
	}, verifier, logger)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("server stopped")
}
