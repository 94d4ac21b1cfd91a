package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/abz-group/portal-api/internal/config"
	"github.com/abz-group/portal-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/abz-group/portal-api/internal/infrastructure/jwt"
	s3infra "github.com/abz-group/portal-api/internal/infrastructure/s3"
	"github.com/abz-group/portal-api/internal/infrastructure/smtp"
	"github.com/abz-group/portal-api/internal/infrastructure/sns"
	transporthttp "github.com/abz-group/portal-api/internal/transport/http"
	"github.com/abz-group/portal-api/internal/verification"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Tokens cannot be minted without a secret, so this is fatal.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — email delivery still works without it).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		slog.Warn("sns sender not available, sms delivery disabled", "err", err)
	}

	codes := verification.NewStore(cfg.VerificationTTL)
	codes.StartSweeper(time.Minute, time.Hour)
	defer codes.Close()

	deps := &transporthttp.Deps{
		UserRepo:          dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		SessionRepo:       dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		ReimbursementRepo: dynamo.NewReimbursementRepo(dynamoClient, cfg.DynamoTables.Reimbursements),
		DocumentRepo:      dynamo.NewDocumentRepo(dynamoClient, cfg.DynamoTables.Documents),
		CardRepo:          dynamo.NewCardRepo(dynamoClient, cfg.DynamoTables.Cards),
		S3Store:           s3Store,
		Mailer:            mailer,
		SMSSender:         smsSender,
		JWTProvider:       jwtProvider,
		Codes:             codes,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	slog.Info("server stopped")
}
