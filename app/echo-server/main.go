package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hossain-shifat/TaskNest-sub000/app/echo-server/router"
	notificationService "github.com/hossain-shifat/TaskNest-sub000/business/notification"
	"github.com/hossain-shifat/TaskNest-sub000/business/payment"
	"github.com/hossain-shifat/TaskNest-sub000/business/submission"
	"github.com/hossain-shifat/TaskNest-sub000/business/task"
	userService "github.com/hossain-shifat/TaskNest-sub000/business/user"
	"github.com/hossain-shifat/TaskNest-sub000/business/withdrawal"
	"github.com/hossain-shifat/TaskNest-sub000/internal/middleware"
	"github.com/hossain-shifat/TaskNest-sub000/internal/repository/notification"
	psqlRepo "github.com/hossain-shifat/TaskNest-sub000/internal/repository/postgres"
	redisRepo "github.com/hossain-shifat/TaskNest-sub000/internal/repository/redis"
	"github.com/hossain-shifat/TaskNest-sub000/internal/repository/stripe"
	"github.com/hossain-shifat/TaskNest-sub000/internal/rest"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/config"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/database"
	redisdb "github.com/hossain-shifat/TaskNest-sub000/pkg/database/redis"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/logger"
	"github.com/hossain-shifat/TaskNest-sub000/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting TaskNest API", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	metrics.Init()

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	stripeRepo := stripe.NewStripeRepository(
		stripe.StripeConfig{
			SecretKey:  cfg.Stripe.StripeSecretKey,
			BaseUrl:    cfg.Stripe.StripeBaseUrl,
			SuccessUrl: cfg.Stripe.SuccessUrl,
			CancelUrl:  cfg.Stripe.CancelUrl,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	taskRepo := psqlRepo.NewTaskRepository(db)
	submissionRepo := psqlRepo.NewSubmissionRepository(db)
	withdrawalRepo := psqlRepo.NewWithdrawalRepository(db)
	paymentRepo := psqlRepo.NewPaymentRepository(db)
	notificationRepo := psqlRepo.NewNotificationRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)

	// Init service
	userSvc := userService.NewUserService(userRepo, validate, mailjetEmail, tokenRepo, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	taskSvc := task.NewTaskService(taskRepo, userRepo)
	submissionSvc := submission.NewSubmissionService(submissionRepo, taskRepo, userRepo)
	withdrawalSvc := withdrawal.NewWithdrawalService(withdrawalRepo, userRepo)
	paymentSvc := payment.NewPaymentService(paymentRepo, stripeRepo, userRepo)
	notificationSvc := notificationService.NewNotificationService(notificationRepo)

	// Init handler
	userHandler := rest.NewUserHandler(userSvc)
	taskHandler := rest.NewTaskHandler(taskSvc)
	submissionHandler := rest.NewSubmissionHandler(submissionSvc)
	withdrawalHandler := rest.NewWithdrawalHandler(withdrawalSvc)
	paymentHandler := rest.NewPaymentHandler(paymentSvc)
	notificationHandler := rest.NewNotificationHandler(notificationSvc)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(userSvc)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetupTaskRoutes(api, taskHandler, authRequired, adminOnly)
	router.SetupSubmissionRoutes(api, submissionHandler, authRequired)
	router.SetupWithdrawalRoutes(api, withdrawalHandler, authRequired, adminOnly)
	router.SetupPaymentRoutes(api, paymentHandler, authRequired)
	router.SetupNotificationRoutes(api, notificationHandler, authRequired)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
