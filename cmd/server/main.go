package main

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"auth-portal/internal/auth"
	"auth-portal/internal/config"
	apphttp "auth-portal/internal/http"
	"auth-portal/internal/repository"
	"auth-portal/internal/repository/sqlite"
	"auth-portal/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	privateKey, publicKey, err := loadKeys(cfg)
	if err != nil {
		logger.Fatalf("load signing keys: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}

	hasher := auth.NewPasswordHasher()
	userService := service.NewUserService(userRepo, hasher)

	if cfg.Dev.Seed {
		if err := seedTestUser(ctx, userService); err != nil {
			logger.Warnf("seed test user: %v", err)
		}
	}

	tokens, err := auth.NewTokenIssuer(privateKey, publicKey, cfg.JWT.Issuer)
	if err != nil {
		logger.Fatalf("build token issuer: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, tokens, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// loadKeys resolves the RSA key pair from configuration. The private key
// is required: this process issues tokens, not just verifies them. When
// no separate public key is configured it is derived from the private one.
func loadKeys(cfg config.Config) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	var (
		privateKey *rsa.PrivateKey
		err        error
	)
	switch {
	case cfg.JWT.PrivateKey != "":
		privateKey, err = auth.ParsePrivateKeyPEM([]byte(cfg.JWT.PrivateKey))
	case cfg.JWT.PrivateKeyPath != "":
		privateKey, err = auth.LoadPrivateKey(cfg.JWT.PrivateKeyPath)
	default:
		return nil, nil, errors.New("jwt private key is required (AUTH_JWT_PRIVATEKEY or AUTH_JWT_PRIVATEKEYPATH)")
	}
	if err != nil {
		return nil, nil, err
	}

	switch {
	case cfg.JWT.PublicKey != "":
		publicKey, err := auth.ParsePublicKeyPEM([]byte(cfg.JWT.PublicKey))
		if err != nil {
			return nil, nil, err
		}
		return privateKey, publicKey, nil
	case cfg.JWT.PublicKeyPath != "":
		pemBytes, err := os.ReadFile(cfg.JWT.PublicKeyPath)
		if err != nil {
			return nil, nil, fmt.Errorf("read public key file: %w", err)
		}
		publicKey, err := auth.ParsePublicKeyPEM(pemBytes)
		if err != nil {
			return nil, nil, err
		}
		return privateKey, publicKey, nil
	default:
		return privateKey, &privateKey.PublicKey, nil
	}
}

// seedTestUser creates the development account unless it already exists.
func seedTestUser(ctx context.Context, users service.UserService) error {
	const (
		seedEmail    = "test@example.com"
		seedPassword = "Password123!"
	)

	if _, err := users.GetByEmail(ctx, seedEmail); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	_, err := users.Register(ctx, seedEmail, seedPassword, "Test", "User")
	if err != nil && !errors.Is(err, service.ErrEmailTaken) {
		return err
	}
	return nil
}
