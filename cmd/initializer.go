package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jmlastro/internal/config"
	"jmlastro/internal/handlers"
	"jmlastro/internal/payment"
	"jmlastro/internal/repositories"
	"jmlastro/internal/services"
	"jmlastro/internal/ws"
	"jmlastro/utils"
)

type application struct {
	log   *zap.SugaredLogger
	db    *sql.DB
	redis *redis.Client

	tokens         *utils.Manager
	sessions       *handlers.Sessions
	userService    *services.UserService
	limiter        *ipRateLimiter
	webhookLimiter *ipRateLimiter
	orderHub       *ws.OrderHub

	userHandler         *handlers.UserHandler
	astrologerHandler   *handlers.AstrologerHandler
	serviceHandler      *handlers.ServiceHandler
	contentHandler      *handlers.ContentHandler
	consultationHandler *handlers.ConsultationHandler
	reviewHandler       *handlers.ReviewHandler
	orderHandler        *handlers.OrderHandler
	paymentHandler      *handlers.PaymentHandler
	bookingHandler      *handlers.BookingHandler
	calculatorHandler   *handlers.CalculatorHandler
	healthHandler       *handlers.HealthHandler
}

func initializeApp(cfg config.Config, db *sql.DB, rdb *redis.Client, logger *zap.SugaredLogger) (*application, error) {
	tokens, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		return nil, err
	}

	// Repositories
	userRepo := &repositories.UserRepository{DB: db}
	astrologerRepo := &repositories.AstrologerRepository{DB: db}
	serviceRepo := &repositories.ServiceRepository{DB: db}
	blogRepo := &repositories.BlogRepository{DB: db}
	horoscopeRepo := &repositories.HoroscopeRepository{DB: db}
	consultationRepo := &repositories.ConsultationRepository{DB: db}
	reviewRepo := &repositories.ReviewRepository{DB: db}
	serviceReviewRepo := &repositories.ServiceReviewRepository{DB: db}
	orderRepo := &repositories.OrderRepository{DB: db}
	paymentRepo := &repositories.PaymentRepository{DB: db}
	draftRepo := &repositories.DraftRepository{Client: rdb, TTL: cfg.Redis.DraftTTL}

	// Payments
	mock := &payment.MockGateway{
		Delay:         cfg.Payments.MockDelay,
		RedirectBase:  cfg.Payments.RedirectBaseURL,
		PayeeID:       cfg.Payments.UPIPayeeID,
		PayeeName:     cfg.Payments.UPIPayeeName,
		WebhookSecret: cfg.Payments.WebhookSecret,
	}
	confirmers := map[string]payment.Gateway{mock.Name(): mock}
	var gateway payment.Gateway = mock
	if cfg.Payments.StripeSecretKey != "" {
		stripeGateway := payment.NewStripeGateway(cfg.Payments.StripeSecretKey, cfg.Payments.StripeWebhookSecret)
		confirmers[stripeGateway.Name()] = stripeGateway
		if cfg.Payments.Provider == "stripe" {
			gateway = stripeGateway
		}
	}

	var mailer services.Mailer
	if cfg.Mail.Enabled() {
		mailer = services.NewSMTPMailer(cfg.Mail)
	} else {
		logger.Info("smtp not configured, confirmation emails disabled")
	}

	var uploader services.ImageUploader
	if cfg.Storage.Enabled() {
		u, err := utils.NewUploader(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		uploader = u
	} else {
		logger.Info("object storage not configured, image uploads disabled")
	}

	hub := ws.NewOrderHub(func(r *http.Request) (string, bool) {
		userID, _, ok := handlers.UserFromContext(r.Context())
		return userID, ok
	}, logger)

	// Services
	userService := &services.UserService{
		UserRepo:     userRepo,
		TokenManager: tokens,
		AccessTTL:    cfg.Auth.AccessTTL,
		RefreshTTL:   cfg.Auth.RefreshTTL,
	}
	astrologerService := &services.AstrologerService{AstrologerRepo: astrologerRepo, Uploader: uploader}
	serviceService := &services.ServiceService{ServiceRepo: serviceRepo, DefaultCurrency: cfg.Payments.Currency}
	blogService := &services.BlogService{BlogRepo: blogRepo}
	horoscopeService := &services.HoroscopeService{HoroscopeRepo: horoscopeRepo}
	consultationService := &services.ConsultationService{ConsultationRepo: consultationRepo, AstrologerRepo: astrologerRepo}
	reviewService := &services.ReviewService{
		ReviewRepo:        reviewRepo,
		ServiceReviewRepo: serviceReviewRepo,
		ConsultationRepo:  consultationRepo,
		OrderRepo:         orderRepo,
	}
	orderService := &services.OrderService{
		OrderRepo:      orderRepo,
		AstrologerRepo: astrologerRepo,
		ServiceRepo:    serviceRepo,
		Currency:       cfg.Payments.Currency,
		Provider:       gateway.Name(),
	}
	paymentService := &services.PaymentService{
		PaymentRepo: paymentRepo,
		OrderRepo:   orderRepo,
		UserRepo:    userRepo,
		Gateway:     gateway,
		Confirmers:  confirmers,
		Events:      hub,
		Mailer:      mailer,
		PayeeID:     cfg.Payments.UPIPayeeID,
		PayeeName:   cfg.Payments.UPIPayeeName,
		Log:         logger.Named("payments"),
	}
	bookingService := &services.BookingService{DraftRepo: draftRepo, Orders: orderService, Payments: paymentService}
	calculatorService := services.NewCalculatorService(0)

	proxies, err := cfg.Server.ProxyPrefixes()
	if err != nil {
		return nil, err
	}

	sessions := handlers.NewSessions(cfg.Auth.SessionSecret, cfg.Auth.SecureCookie, int(cfg.Auth.RefreshTTL/time.Second))

	return &application{
		log:            logger,
		db:             db,
		redis:          rdb,
		tokens:         tokens,
		sessions:       sessions,
		userService:    userService,
		limiter:        newIPRateLimiter(30, 10, proxies),
		webhookLimiter: newIPRateLimiter(600, 100, proxies),
		orderHub:       hub,

		userHandler:         &handlers.UserHandler{Service: userService, Sessions: sessions, Log: logger},
		astrologerHandler:   &handlers.AstrologerHandler{Service: astrologerService, Log: logger},
		serviceHandler:      &handlers.ServiceHandler{Service: serviceService, Log: logger},
		contentHandler:      &handlers.ContentHandler{Blog: blogService, Horoscopes: horoscopeService, Log: logger},
		consultationHandler: &handlers.ConsultationHandler{Service: consultationService, Log: logger},
		reviewHandler:       &handlers.ReviewHandler{Service: reviewService, Log: logger},
		orderHandler:        &handlers.OrderHandler{Service: orderService, Log: logger},
		paymentHandler:      &handlers.PaymentHandler{Service: paymentService, Log: logger},
		bookingHandler:      &handlers.BookingHandler{Service: bookingService, Log: logger},
		calculatorHandler:   &handlers.CalculatorHandler{Service: calculatorService, Log: logger},
		healthHandler: &handlers.HealthHandler{Log: logger, Checks: map[string]handlers.HealthCheck{
			"mysql": db.PingContext,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}},
	}, nil
}

func openDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func openRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
