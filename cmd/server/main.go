package main

import (
	"alcyxob/coachplan/internal/api"
	"alcyxob/coachplan/internal/config"
	"alcyxob/coachplan/internal/notifier"
	"alcyxob/coachplan/internal/repository/mongo"
	"alcyxob/coachplan/internal/service"
	"alcyxob/coachplan/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title CoachPlan API
// @version 1.0
// @description API for authoring multi-week training programs and tracking client progress.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting CoachPlan Server...")

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
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureProgramIndexes(ctx, appDB.Collection("programs"))
		mongo.EnsureWeekIndexes(ctx, appDB.Collection("weeks"))
		mongo.EnsureDayIndexes(ctx, appDB.Collection("days"))
		mongo.EnsureProgressLogIndexes(ctx, appDB.Collection("progress_logs"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Println("Initializing blob storage...")
	blobStore, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Notifier ---
	var mailer notifier.Notifier = notifier.Noop{}
	if cfg.Email.SendGridAPIKey != "" {
		mailer = notifier.NewSendGridNotifier(cfg.Email.SendGridAPIKey, cfg.Email.FromName, cfg.Email.FromAddress)
		log.Println("SendGrid notifier enabled.")
	} else {
		log.Println("No email provider configured, notifications disabled.")
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	weekRepo := mongo.NewMongoWeekRepository(appDB)
	dayRepo := mongo.NewMongoDayRepository(appDB)
	progressLogRepo := mongo.NewMongoProgressLogRepository(appDB)
	txRunner := mongo.NewMongoTxRunner(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	catalogService := service.NewCatalogService(exerciseRepo)
	tracker := service.NewPositionTracker(programRepo, weekRepo, dayRepo)
	editorService := service.NewEditorService(programRepo, weekRepo, dayRepo, userRepo, catalogService, tracker, txRunner, service.DefaultAuthorize, mailer)
	progressService := service.NewProgressService(programRepo, weekRepo, dayRepo, progressLogRepo, exerciseRepo, tracker, txRunner)
	rosterService := service.NewRosterService(userRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, editorService, progressService, catalogService, rosterService, blobStore)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
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
