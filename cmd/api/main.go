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

	"github.com/joho/godotenv"
	"github.com/otp-auth-api/internal/application/otp"
	"github.com/otp-auth-api/internal/config"
	"github.com/otp-auth-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/otp-auth-api/internal/infrastructure/jwt"
	redisinfra "github.com/otp-auth-api/internal/infrastructure/redis"
	s3infra "github.com/otp-auth-api/internal/infrastructure/s3"
	"github.com/otp-auth-api/internal/infrastructure/smtp"
	"github.com/otp-auth-api/internal/infrastructure/sns"
	transporthttp "github.com/otp-auth-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Signing secret is mandatory.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamodb: %v", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	userOTPs, sellerOTPs := otpStores(ctx, cfg, dynamoClient)

	// S3 avatar store.
	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("s3: %v", err)
	}
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName, s3infra.PublicBaseURL(cfg))

	// SNS SMS sender (optional; phone OTPs are logged and skipped without it).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(ctx, cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	if cfg.DebugEchoOTP {
		log.Println("WARN: DEBUG_ECHO_OTP is enabled; one-time codes are returned in API responses")
	}

	deps := &transporthttp.Deps{
		UserRepo:       dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users, cfg.DynamoTables.Identifiers),
		SellerRepo:     dynamo.NewSellerRepo(dynamoClient, cfg.DynamoTables.Sellers, cfg.DynamoTables.Identifiers),
		UserOTPStore:   userOTPs,
		SellerOTPStore: sellerOTPs,
		ObjectStore:    s3Store,
		Mailer:         smtp.NewMailer(cfg),
		SMSSender:      smsSender,
		JWTProvider:    jwtProvider,
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
		log.Printf("Server starting on :%s (env=%s, otp store=%s)", cfg.AppPort, cfg.AppEnv, cfg.OTPStoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

// otpStores returns one store per actor kind for the configured backend.
func otpStores(ctx context.Context, cfg *config.Config, db dynamo.DB) (user, seller otp.Store) {
	switch cfg.OTPStoreBackend {
	case "redis":
		rdb, err := redisinfra.NewClient(ctx, cfg)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		return redisinfra.NewOTPStore(rdb, "otp:user"), redisinfra.NewOTPStore(rdb, "otp:seller")
	case "memory":
		log.Println("WARN: in-memory OTP store; codes do not survive restarts or span instances")
		return otp.NewMemoryStore(), otp.NewMemoryStore()
	case "dynamo":
		return dynamo.NewOTPRepo(db, cfg.DynamoTables.UserOTPs), dynamo.NewOTPRepo(db, cfg.DynamoTables.SellerOTPs)
	}
	log.Fatalf("unknown OTP_STORE_BACKEND %q", cfg.OTPStoreBackend)
	return nil, nil
}
