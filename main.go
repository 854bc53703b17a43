package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ventura-backend/config"
	"ventura-backend/controllers"
	"ventura-backend/routes"
	"ventura-backend/services"
	"ventura-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("❌ ERROR: JWT_SECRET environment variable is not set.")
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established and migrations applied.")

	// Shared collaborators
	files := utils.NewFileStore(cfg.StorageDir)
	paypal := services.NewPayPalClient(cfg.PayPal)

	// Services
	reservationService := services.NewReservationService(db)
	documentService := services.NewDocumentService(db, files, cfg.HotelName)
	paymentService := services.NewPaymentService(db, paypal, documentService, cfg.PayPal.Currency)
	reportService := services.NewReportService(db)

	// Controllers
	authController := controllers.NewAuthController(db, cfg)
	reservationController := controllers.NewReservationController(reservationService, documentService, files)
	paymentController := controllers.NewPaymentController(paymentService)
	reportController := controllers.NewReportController(reportService, files, cfg.HotelName)

	router := routes.SetupRouter(cfg, authController, reservationController, paymentController, reportController)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// WriteTimeout must outlast the 30s payment-provider call.
		WriteTimeout:      40 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Graceful shutdown with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
