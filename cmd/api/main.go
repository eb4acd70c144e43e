package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eashaop2023/admineashaop/internal/admins"
	"github.com/eashaop2023/admineashaop/internal/appointments"
	"github.com/eashaop2023/admineashaop/internal/auth"
	"github.com/eashaop2023/admineashaop/internal/cache"
	"github.com/eashaop2023/admineashaop/internal/config"
	"github.com/eashaop2023/admineashaop/internal/db"
	"github.com/eashaop2023/admineashaop/internal/doctors"
	"github.com/eashaop2023/admineashaop/internal/jobs"
	"github.com/eashaop2023/admineashaop/internal/middleware"
	"github.com/eashaop2023/admineashaop/internal/notifications"
	"github.com/eashaop2023/admineashaop/internal/reports"
	"github.com/eashaop2023/admineashaop/internal/transport"
	"github.com/eashaop2023/admineashaop/internal/users"
	"github.com/eashaop2023/admineashaop/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB), slog.Bool("transactions", cfg.MongoTransactions))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	scheduler := jobs.New(logger, cfg.Timezone)

	var cacheStore cache.Cache = cache.NewNoop()
	var blacklistStore auth.BlacklistStore
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected, blacklist shared")
		defer redisCache.Close()
		cacheStore = redisCache
		blacklistStore = auth.NewCacheStore(redisCache)
	} else {
		memory := auth.NewMemoryStore()
		if _, err := scheduler.Add(jobs.MaintenanceSpec, "blacklist prune", memory.Prune); err != nil {
			logger.Error("job registration failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis disabled, blacklist kept in memory")
		blacklistStore = memory
	}
	blacklist := auth.NewBlacklist(blacklistStore)

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:    []byte(cfg.JWTSecret),
			AccessTTL: time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			Issuer:    "admineashaop",
		}
	} else {
		logger.Warn("JWT_SECRET not set, admin routes disabled")
	}

	dispatcher := notifications.NewDispatcher(selectMailer(cfg, logger), logger, cfg.MailQueueSize, cfg.MailWorkers, 8*time.Second)
	doctorMailer := notifications.NewDoctorMailer(dispatcher, cfg.FrontendBaseURL, max(1, int(cfg.SetupTokenTTL/(24*time.Hour))))

	val := validation.New()
	tx := db.TxRunner{Client: client, Enabled: cfg.MongoTransactions}

	adminService := admins.NewService(admins.NewRepository(cols.Admins), jwtManager, blacklist)
	adminHandler := admins.NewHandler(adminService, val, logger)

	appointmentService := appointments.NewService(appointments.NewRepository(cols.Appointments))
	appointmentHandler := appointments.NewHandler(appointmentService, logger)

	reportService := reports.NewService(
		appointmentService,
		reports.NewCounter(cols.Users, cols.Doctors),
		cacheStore,
		time.Duration(cfg.CacheTTLSeconds)*time.Second,
		cfg.Timezone,
	)
	reportHandler := reports.NewHandler(reportService, logger)
	appointmentService.SetInvalidator(reportService, logger)

	doctorService := doctors.NewService(
		doctors.NewRepository(cols.Doctors, cols.VerifiedDoctors),
		adminService,
		doctorMailer,
		tx,
		doctors.Options{OnboardingMode: cfg.OnboardingMode, SetupTokenTTL: cfg.SetupTokenTTL},
	)
	doctorService.SetInvalidator(reportService, logger)
	doctorHandler := doctors.NewHandler(doctorService, val, logger)

	userService := users.NewService(users.NewRepository(cols.Users))
	userService.SetInvalidator(reportService, logger)
	userHandler := users.NewHandler(userService, logger)

	authLimiter := middleware.NewRateLimiter(cfg.RateLimitAuth, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	if _, err := scheduler.Add(jobs.MaintenanceSpec, "rate limit sweep", authLimiter.Sweep); err != nil {
		logger.Error("job registration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	scheduler.Start()

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/admin", func(api chi.Router) {
		api.With(authLimiter.Middleware).Post("/register", adminHandler.Register)
		api.With(authLimiter.Middleware).Post("/login", adminHandler.Login)
		api.Post("/logout", adminHandler.Logout)
		api.With(authLimiter.Middleware).Get("/doctor/verify-setup-token", doctorHandler.VerifySetupToken)
		api.With(authLimiter.Middleware).Post("/doctor/setup-password", doctorHandler.SetupPassword)

		// chi requires middlewares before routes, so protected routes live in a group.
		api.Group(func(protected chi.Router) {
			protected.Use(middleware.AdminAuth(jwtManager, blacklist, logger))

			protected.Get("/users", userHandler.List)
			protected.Get("/users/{id}", userHandler.Get)
			protected.Delete("/users/{id}", userHandler.Delete)

			protected.Get("/doctors", doctorHandler.List)
			protected.Get("/doctors/{id}", doctorHandler.Get)
			protected.Delete("/doctors/{id}", doctorHandler.Delete)
			protected.Post("/doctors/{id}/verify", doctorHandler.Verify)
			protected.Get("/verified-doctors", doctorHandler.ListVerified)
			protected.Post("/doctor/{doctorId}/review", doctorHandler.Review)

			protected.Get("/appointments", appointmentHandler.List)
			protected.Get("/appointments/{id}", appointmentHandler.Get)
			protected.Delete("/appointments/{id}", appointmentHandler.Delete)
			protected.Get("/appointments/user/{id}", appointmentHandler.ByUser)
			protected.Get("/appointments/doctor/{id}", appointmentHandler.ByDoctor)

			protected.Get("/dashboard/summary", reportHandler.Dashboard)
			protected.Get("/billing/summary", reportHandler.Billing)
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	scheduler.Stop(shutdownCtx)
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("mail queue not drained", slog.String("error", err.Error()))
	}
}

// selectMailer prefers the Brevo API, then SMTP, then logging only.
func selectMailer(cfg *config.Config, logger *slog.Logger) notifications.Mailer {
	if brevo := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox); brevo != nil {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
		return brevo
	}
	if smtp := notifications.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPMail, cfg.SMTPPassword); smtp != nil {
		logger.Info("smtp mailer enabled", slog.String("host", cfg.SMTPHost))
		return smtp
	}
	logger.Info("mail delivery disabled, messages are logged")
	return notifications.LogMailer{Log: logger}
}
