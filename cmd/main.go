package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	goredis "github.com/redis/go-redis/v9"

	api "github.com/craftlink/auth-server/internal/api/http"
	"github.com/craftlink/auth-server/internal/config"
	"github.com/craftlink/auth-server/internal/identity"
	"github.com/craftlink/auth-server/internal/logger"
	"github.com/craftlink/auth-server/internal/model"
	"github.com/craftlink/auth-server/internal/notify"
	"github.com/craftlink/auth-server/internal/repository/postgres"
	redisrepo "github.com/craftlink/auth-server/internal/repository/redis"
	"github.com/craftlink/auth-server/internal/secret"
	"github.com/craftlink/auth-server/internal/server"
	"github.com/craftlink/auth-server/internal/service"
	storage "github.com/craftlink/auth-server/internal/storage/minio"
	"github.com/craftlink/auth-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.Database.Timeout)
	db, err := postgres.NewConection(connectCtx, cfg.Database.DSN)
	connectCancel()
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	accountRepo := postgres.NewAccountRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	codeRepo := redisrepo.NewCodeRepository(redisClient)
	tokenManager := token.NewJWT(cfg.JWT.Secret)
	hasher := secret.NewBcrypt()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	notifier := notify.NewTimeoutGateway(notify.NewLogGateway(logger), cfg.Notify.Timeout)
	googleResolver := identity.NewGoogle(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)

	sessionService := service.NewSessionService(tokenManager, sessionRepo, cfg.JWT.SessionTTL, logger)
	verificationService := service.NewVerification(accountRepo, codeRepo, hasher, notifier, sessionService,
		service.VerificationConfig{
			EmailTokenTTL:  cfg.Email.TokenTTL,
			CodeTTL:        cfg.OTP.TTL,
			ResendCooldown: cfg.OTP.ResendCooldown,
			MaxAttempts:    cfg.OTP.MaxAttempts,
		}, logger)
	registrationService := service.NewRegistration(accountRepo, hasher, verificationService, logger)
	authService := service.NewAuth(accountRepo, hasher, sessionService, logger)
	roleService := service.NewRole(accountRepo, logger)
	socialService := service.NewSocial(accountRepo, googleResolver, sessionService, logger)
	accountService := service.NewAccountService(accountRepo, storageClient, logger)

	ctxMgr := api.NewContextManager()
	validate := validator.New()

	router := api.NewRouter(
		api.NewAuthHandler(registrationService, authService, ctxMgr, validate, logger),
		api.NewVerificationHandler(verificationService, validate, logger),
		api.NewRoleHandler(roleService, ctxMgr, validate, logger),
		api.NewSocialHandler(socialService, logger),
		api.NewAccountHandler(accountService, ctxMgr, logger),
		api.NewAuthenticate(sessionService, ctxMgr, logger),
		api.NewLogging(logger),
	)

	httpServer := server.NewHTTPServer(router, fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
