package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"safari/internal/auth"
	intconfig "safari/internal/config"
	"safari/internal/events"
	router "safari/internal/http"
	"safari/internal/http/handlers"
	"safari/internal/idempotency"
	"safari/internal/repositories"
	"safari/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer intconfig.CloseDB()

	catalog := repositories.CatalogRepo{DB: db}
	bookings := repositories.BookingRepo{DB: db}
	admins := repositories.AdminRepo{DB: db}

	idem := newIdempotencyStore(env)
	publisher, closePublisher := newPublisher(env)
	defer closePublisher()

	authSvc := services.AuthService{Admins: admins, Issuer: auth.NewIssuer(env.JWTSecret, env.JWTTTL())}
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := authSvc.EnsureAdmin(bootCtx, env.AdminName, env.AdminEmail, env.AdminPassword); err != nil {
		log.Printf("[BOOT] bootstrap admin not created: %v", err)
	}
	bootCancel()

	hd := &handlers.Handler{
		Catalog: services.CatalogService{Catalog: catalog},
		Bookings: services.BookingService{
			Catalog:     catalog,
			Bookings:    bookings,
			Idempotency: idem,
			Events:      publisher,
		},
		Vouchers: services.VoucherService{Bookings: bookings, Secret: env.VoucherSecret},
		Auth:     authSvc,
		DB:       db,
	}
	r := router.NewRouter(env, hd)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly.")
}

// newIdempotencyStore uses Redis when REDIS_ADDR is set and reachable.
func newIdempotencyStore(env intconfig.Env) idempotency.Store {
	if env.RedisAddr == "" {
		return idempotency.NewMemoryStore(idempotency.DefaultTTL)
	}
	rs := idempotency.NewRedisStore(env.RedisAddr, env.RedisPassword)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rs.Ping(ctx); err != nil {
		log.Printf("[BOOT] redis unavailable, idempotency keys kept in memory: %v", err)
		_ = rs.Close()
		return idempotency.NewMemoryStore(idempotency.DefaultTTL)
	}
	log.Printf("[BOOT] idempotency keys in redis at %s", env.RedisAddr)
	return rs
}

// newPublisher uses RabbitMQ when RABBIT_URL is set, otherwise events are logged.
func newPublisher(env intconfig.Env) (events.Publisher, func()) {
	if env.RabbitURL == "" {
		return events.LogPublisher{}, func() {}
	}
	p, err := events.NewRabbitPublisher(env.RabbitURL, env.BookingExchange)
	if err != nil {
		log.Printf("[BOOT] rabbitmq unavailable, booking events only logged: %v", err)
		return events.LogPublisher{}, func() {}
	}
	log.Printf("[BOOT] publishing booking events to exchange %s", env.BookingExchange)
	return p, func() { _ = p.Close() }
}
