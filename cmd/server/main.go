package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"cinebook/internal/booking"
	"cinebook/internal/config"
	"cinebook/internal/database"
	"cinebook/internal/handler"
	"cinebook/internal/payment"
	"cinebook/internal/queue"
	"cinebook/internal/repository"
	"cinebook/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, database.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; caching and rate limiting disabled")
	}

	var gateway booking.PaymentGateway
	if cfg.KhaltiSecretKey != "" {
		gateway = payment.NewKhaltiGateway(payment.KhaltiConfig{
			BaseURL:    cfg.KhaltiBaseURL,
			SecretKey:  cfg.KhaltiSecretKey,
			ReturnURL:  cfg.KhaltiReturnURL,
			WebsiteURL: cfg.KhaltiWebsiteURL,
		}, nil)
	} else {
		log.Printf("khalti secret not set; payment endpoints disabled")
	}

	store := repository.NewStore(db)
	svc := booking.NewService(store, gateway, queue.NewPublisher(cfg.AMQPURL))

	bookingHandler := handler.NewBookingHandler(svc)
	adminHandler := handler.NewAdminBookingHandler(svc)

	e := echo.New()
	router.RegisterRoutes(e, bookingHandler, rdb)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret, rdb)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	if cfg.AMQPURL != "" {
		go queue.StartBookingConsumer(cfg.AMQPURL)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
