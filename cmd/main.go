package main

import (
	"net/http"
	"os"
	"time"

	"github.com/wdbprojects/instamart-backend/api/handler"
	apiMiddleware "github.com/wdbprojects/instamart-backend/api/middleware"
	"github.com/wdbprojects/instamart-backend/api/routes"
	"github.com/wdbprojects/instamart-backend/config"
	"github.com/wdbprojects/instamart-backend/internal/entity"
	"github.com/wdbprojects/instamart-backend/internal/repository"
	"github.com/wdbprojects/instamart-backend/internal/service"
	"github.com/wdbprojects/instamart-backend/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	db, err := config.ConnectionDb(cfg)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Session{},
		&entity.VerificationCode{},
		&entity.AuditLog{},
	); err != nil {
		logger.WithError(err).Fatal("database migration failed")
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	codeRepo := repository.NewVerificationCodeRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	var emailSender service.EmailSender
	if cfg.ResendAPIKey != "" {
		emailSender = service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailSender, cfg.IsDevelopment())
	}

	passwordHasher := service.BcryptPasswordHasher{}
	authConfig := service.AuthConfig{
		AccessTokenSecret:  []byte(cfg.AccessTokenSecret),
		RefreshTokenSecret: []byte(cfg.RefreshTokenSecret),
		AppOrigin:          cfg.AppOrigin,
	}

	authService := service.NewAuthService(
		userRepo,
		sessionRepo,
		codeRepo,
		auditRepo,
		emailSender,
		passwordHasher,
		service.RealClock{},
		authConfig,
	)
	verificationService := service.NewVerificationService(
		userRepo,
		sessionRepo,
		codeRepo,
		auditRepo,
		emailSender,
		passwordHasher,
		service.RealClock{},
		authConfig,
	)

	authHandler := handler.NewAuthHandler(authService, verificationService, validate)
	authHandler.SecureCookies = !cfg.IsDevelopment()
	userHandler := handler.NewUserHandler(authService)
	sessionHandler := handler.NewSessionHandler(authService)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{
		AccessTokenOptions: utils.SignOptions{
			Secret:   []byte(cfg.AccessTokenSecret),
			Audience: utils.TokenAudience,
		},
	}
	router := routes.NewRouter(app, authHandler, userHandler, sessionHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
