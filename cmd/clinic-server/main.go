package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medcore/eyeclinic-api/internal/config"
	"github.com/medcore/eyeclinic-api/internal/domain/analytics"
	"github.com/medcore/eyeclinic-api/internal/domain/appointment"
	"github.com/medcore/eyeclinic-api/internal/domain/authn"
	"github.com/medcore/eyeclinic-api/internal/domain/clinic"
	"github.com/medcore/eyeclinic-api/internal/domain/colortest"
	"github.com/medcore/eyeclinic-api/internal/domain/doctor"
	"github.com/medcore/eyeclinic-api/internal/domain/medreport"
	"github.com/medcore/eyeclinic-api/internal/domain/patient"
	"github.com/medcore/eyeclinic-api/internal/domain/prescription"
	"github.com/medcore/eyeclinic-api/internal/domain/settings"
	"github.com/medcore/eyeclinic-api/internal/domain/testresult"
	"github.com/medcore/eyeclinic-api/internal/domain/user"
	"github.com/medcore/eyeclinic-api/internal/domain/waitingroom"
	"github.com/medcore/eyeclinic-api/internal/platform/auth"
	"github.com/medcore/eyeclinic-api/internal/platform/db"
	"github.com/medcore/eyeclinic-api/internal/platform/middleware"
	"github.com/medcore/eyeclinic-api/internal/platform/respond"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Eye clinic management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			applied, err := migrator.Up(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Applied %d migration(s)\n", applied)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logger
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = respond.HTTPErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins(),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)

	// Repositories
	txRunner := db.NewTxRunner(pool)
	clinicRepo := clinic.NewRepoPG(pool)
	userRepo := user.NewRepoPG(pool)
	patientRepo := patient.NewRepoPG(pool)
	doctorRepo := doctor.NewRepoPG(pool)
	scheduleRepo := doctor.NewScheduleRepoPG(pool)
	appointmentRepo := appointment.NewRepoPG(pool)
	prescriptionRepo := prescription.NewRepoPG(pool)
	reportRepo := medreport.NewRepoPG(pool)
	testResultRepo := testresult.NewRepoPG(pool)
	plateRepo := colortest.NewPlateRepoPG(pool)
	sessionRepo := colortest.NewSessionRepoPG(pool)
	waitingRepo := waitingroom.NewRepoPG(pool)
	settingsRepo := settings.NewRepoPG(pool)
	analyticsRepo := analytics.NewRepoPG(pool)

	// Services and handlers
	clinicSvc := clinic.NewService(clinicRepo)
	clinicHandler := clinic.NewHandler(clinicSvc)
	userHandler := user.NewHandler(user.NewService(userRepo))
	patientHandler := patient.NewHandler(patient.NewService(patientRepo))
	doctorHandler := doctor.NewHandler(doctor.NewService(doctorRepo, scheduleRepo, txRunner))
	appointmentHandler := appointment.NewHandler(appointment.NewService(appointmentRepo, patientRepo, doctorRepo, scheduleRepo, txRunner))
	prescriptionHandler := prescription.NewHandler(prescription.NewService(prescriptionRepo))
	reportHandler := medreport.NewHandler(medreport.NewService(reportRepo))
	testResultHandler := testresult.NewHandler(testresult.NewService(testResultRepo))
	colorTestHandler := colortest.NewHandler(colortest.NewService(plateRepo, sessionRepo, txRunner))
	waitingHandler := waitingroom.NewHandler(waitingroom.NewService(waitingRepo, txRunner))
	settingsHandler := settings.NewHandler(settings.NewService(settingsRepo))
	analyticsHandler := analytics.NewHandler(analytics.NewService(analyticsRepo))
	authHandler := authn.NewHandler(authn.NewService(userRepo, patientRepo, clinicSvc, issuer, txRunner))

	// The web dashboard calls the API under /api while older mobile builds
	// hit the routes at the root, so everything is mounted on both.
	for _, prefix := range []string{"", "/api"} {
		base := e.Group(prefix)
		base.Use(middleware.RateLimit(rateLimitCfg))

		authHandler.RegisterPublicRoutes(base)

		protected := base.Group("", auth.Middleware(issuer))
		authHandler.RegisterProtectedRoutes(protected)
		clinicHandler.RegisterRoutes(protected)
		userHandler.RegisterRoutes(protected)
		patientHandler.RegisterRoutes(protected)
		doctorHandler.RegisterRoutes(protected)
		appointmentHandler.RegisterRoutes(protected)
		prescriptionHandler.RegisterRoutes(protected)
		reportHandler.RegisterRoutes(protected)
		testResultHandler.RegisterRoutes(protected)
		colorTestHandler.RegisterRoutes(protected)
		waitingHandler.RegisterRoutes(protected)
		settingsHandler.RegisterRoutes(protected)
		analyticsHandler.RegisterRoutes(protected)
	}

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
