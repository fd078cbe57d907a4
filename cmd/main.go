// cmd/main.go is the application entry point.
// It wires together all layers, starts the HTTP server and the
// overdue-reminder background job.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/pagekeep/pagekeep/internal/database"
	"github.com/pagekeep/pagekeep/internal/handler"
	"github.com/pagekeep/pagekeep/internal/mailer"
	"github.com/pagekeep/pagekeep/internal/reminder"
	"github.com/pagekeep/pagekeep/internal/repository"
	"github.com/pagekeep/pagekeep/internal/service"
	"github.com/pagekeep/pagekeep/internal/storage"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}

	ctx := context.Background()

	// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	if err := database.Init(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}
	log.Println("✓ Connected to PostgreSQL")

	images, err := storage.NewDisk(getEnv("IMAGE_DIR", "./images"))
	if err != nil {
		log.Fatalf("image storage: %v", err)
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	bookRepo := repository.NewBookRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	publicationRepo := repository.NewPublicationRepository(pool)
	emailRepo := repository.NewEmailRepository(pool)

	authSvc := service.NewAuthService(userRepo)
	bookSvc := service.NewBookService(bookRepo)
	cartSvc := service.NewCartService(cartRepo)
	reservationSvc := service.NewReservationService(reservationRepo)
	feedbackSvc := service.NewFeedbackService(feedbackRepo)
	submissionSvc := service.NewSubmissionService(submissionRepo)
	publicationSvc := service.NewPublicationService(publicationRepo)
	emailSvc := service.NewEmailService(emailRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	bookHandler := handler.NewBookHandler(bookSvc, cartSvc, images)
	cartHandler := handler.NewCartHandler(cartSvc)
	reservationHandler := handler.NewReservationHandler(reservationSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	submissionHandler := handler.NewSubmissionHandler(submissionSvc)
	publicationHandler := handler.NewPublicationHandler(publicationSvc, images)
	emailHandler := handler.NewEmailHandler(emailSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS

	// Health
	r.Get("/health", handler.HealthCheck)

	// API routes
	r.Route("/auth", authHandler.Routes)
	r.Route("/books", bookHandler.PublicRoutes)
	r.Route("/librarian", bookHandler.LibrarianRoutes)
	r.Route("/cart", cartHandler.Routes)
	r.Route("/reserved", reservationHandler.Routes)
	r.Route("/feedback", feedbackHandler.Routes)
	r.Route("/submission", submissionHandler.Routes)
	r.Route("/publication", publicationHandler.Routes)
	r.Route("/emails", emailHandler.Routes)

	// Uploaded book covers.
	r.Handle("/images/*", http.StripPrefix("/images/",
		http.FileServer(http.Dir(getEnv("IMAGE_DIR", "./images")))))

	// ── 4. Overdue-reminder job ───────────────────────────────────────────
	var mail mailer.Mailer = mailer.Log{}
	if os.Getenv("SMTP_HOST") != "" {
		mail = mailer.NewSMTPFromEnv()
	}
	// Short default tick; already-notified (user, book, day) pairs are
	// skipped, so frequent scans never re-send.
	interval := time.Minute
	if v := os.Getenv("REMINDER_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("invalid REMINDER_INTERVAL %q: %v", v, err)
		}
		interval = d
	}
	jobCtx, stopJob := context.WithCancel(ctx)
	defer stopJob()
	go reminder.New(emailRepo, mail, interval).Run(jobCtx)

	// ── 5. Start server with graceful shutdown ────────────────────────────
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server…")
	stopJob()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
