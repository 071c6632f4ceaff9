package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/approvalflow/configs"
	"github.com/maheshrc27/approvalflow/internal/api/handlers"
	"github.com/maheshrc27/approvalflow/internal/api/middleware"
	job "github.com/maheshrc27/approvalflow/internal/jobs"
	"github.com/maheshrc27/approvalflow/internal/queue"
	"github.com/maheshrc27/approvalflow/internal/repository"
	"github.com/maheshrc27/approvalflow/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	postRepo := repository.NewPostRepository(db)
	plannerPostRepo := repository.NewPlannerPostRepository(db)
	sessionRepo := repository.NewApprovalSessionRepository(db)
	postApprovalRepo := repository.NewPostApprovalRepository(db)

	resolverService := service.NewResolverService(postRepo, plannerPostRepo)
	lockService := service.NewLockService(resolverService)
	postService := service.NewPostService(resolverService, lockService)
	approvalService := service.NewApprovalService(sessionRepo, postApprovalRepo, resolverService)
	submissionService := service.NewSubmissionService(resolverService, postService, approvalService)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	// public approval flow, share token is the only credential
	approval := handlers.NewApprovalHandler(approvalService, submissionService, *cfg, client)
	app.Get("/approval/session", approval.GetSession)
	app.Get("/approval/posts", approval.ListPosts)
	app.Post("/approval/submit", approval.Submit)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	post := handlers.NewPostHandler(postService)
	api.Get("/posts", post.GetPost)
	api.Post("/posts/edit", post.EditPost)
	api.Post("/posts/release", post.ReleaseLock)
	api.Post("/posts/remove", post.RemovePost)

	api.Post("/approvals/create", approval.CreateSession)

	// cron jobs
	cleanupJob := job.NewSessionCleanupJob(sessionRepo)

	// queue
	queueW := queue.NewQueue(*cfg)

	c := cron.New()
	c.AddFunc("@every 01h00m00s", cleanupJob.PurgeExpired)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeApprovalNotify, queueW.HandleApprovalNotifyTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
