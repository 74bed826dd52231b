package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fittracker/server/internal/api"
	"fittracker/server/internal/backup"
	"fittracker/server/internal/config"
	"fittracker/server/internal/mail"
	"fittracker/server/internal/payment"
	"fittracker/server/internal/repository/mongo"
	"fittracker/server/internal/service"
	"fittracker/server/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting FitTracker server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	go func() { // Run index creation in the background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts"))
		mongo.EnsureClientIndexes(ctx, appDB.Collection("clients"))
		mongo.EnsureGlossaryIndexes(ctx, appDB.Collection("glossary_entries"))
		mongo.EnsureCoachProfileIndexes(ctx, appDB.Collection("coach_profiles"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	clientRepo := mongo.NewMongoClientRepository(appDB)
	glossaryRepo := mongo.NewMongoGlossaryRepository(appDB)
	profileRepo := mongo.NewMongoCoachProfileRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	mailer := mail.NewResendMailer(cfg.Mail.APIKey, cfg.Mail.FromAddress)
	checkoutProvider := payment.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.PriceID, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL)

	// The backup scheduler's export callback is the backup service itself,
	// so the two are wired in sequence.
	backupService := service.NewBackupService(workoutRepo, clientRepo, profileRepo, fileStorage, cfg.Backup.SnapshotPath)
	scheduler := backup.NewScheduler(cfg.Backup.Debounce, backupService.CloudExport)
	defer scheduler.Stop()
	backupService.AttachScheduler(scheduler)

	authService := service.NewAuthService(userRepo, mailer, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.ResetExpiration, cfg.Mail.ResetBaseURL)
	workoutService := service.NewWorkoutService(workoutRepo, glossaryRepo, profileRepo, scheduler)
	clientService := service.NewClientService(clientRepo, scheduler)
	glossaryService := service.NewGlossaryService(glossaryRepo, scheduler)
	profileService := service.NewProfileService(profileRepo, fileStorage, scheduler)
	billingService := service.NewBillingService(userRepo, checkoutProvider)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret,
		authService, workoutService, clientService, glossaryService,
		profileService, backupService, billingService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // PDF export can take a while
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
