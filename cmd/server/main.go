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
	"github.com/pressly/goose/v3"

	"eventrsvp/config"
	"eventrsvp/internal/adapters/auth"
	"eventrsvp/internal/adapters/otp"
	"eventrsvp/internal/adapters/storage"
	delivery "eventrsvp/internal/delivery/http"
	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
	"eventrsvp/internal/migrations"
	"eventrsvp/internal/repository/postgres"
	"eventrsvp/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(ctx, db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	otpProvider, err := otp.NewProvider(otp.ProviderConfig{
		Provider: cfg.OTPProvider,
		Twilio: otp.TwilioConfig{
			AccountSID: cfg.TwilioAccountSID,
			AuthToken:  cfg.TwilioAuthToken,
			ServiceSID: cfg.TwilioVerifyServiceSID,
		},
	})
	if err != nil {
		logger.Error("failed to create otp provider", "error", err)
		os.Exit(1)
	}

	objectStorage, err := storage.NewObjectStorage(storage.StorageConfig{
		Provider: cfg.StorageProvider,
		S3: storage.S3Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		},
	})
	if err != nil {
		logger.Error("failed to create object storage", "error", err)
		os.Exit(1)
	}

	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)
	tokenExpiry := time.Duration(cfg.TokenExpiryHours) * time.Hour
	policy := domain.ConflictPolicy(cfg.ConflictPolicy)

	store := postgres.NewStore(db)

	reconciliation := services.NewReconciliationService(store, policy)
	onboarding := services.NewOnboardingService(store, otpProvider, issuer, tokenExpiry, policy)
	users := services.NewUserService(store, objectStorage)
	events := services.NewEventService(store, objectStorage)
	subEvents := services.NewSubEventService(store)
	groups := services.NewGroupService(store, cfg.FrontendURL)
	rsvps := services.NewRSVPService(store)
	reports := services.NewReportService(store)

	mux := delivery.NewRouter(delivery.Controllers{
		Onboarding: controllers.NewOnboardingController(logger, onboarding),
		User:       controllers.NewUserController(logger, users, reconciliation),
		Event:      controllers.NewEventController(logger, events),
		SubEvent:   controllers.NewSubEventController(logger, subEvents),
		Group:      controllers.NewGroupController(logger, groups),
		Invite:     controllers.NewInviteController(logger, rsvps),
		Rsvp:       controllers.NewRsvpController(logger, rsvps),
		Report:     controllers.NewReportController(logger, reports, store.Invites()),
	}, verifier, logger)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
