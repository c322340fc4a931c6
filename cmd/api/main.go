package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"textassign/internal/config"
	"textassign/internal/handler"
	"textassign/internal/middleware"
	"textassign/internal/queue"
	"textassign/internal/repository"
	"textassign/internal/service"
	"textassign/internal/webhook"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Connected to database")

	// Connect to RabbitMQ. The engine assigns correctly without the broker,
	// so a failed connection degrades the service instead of killing it.
	var events service.EventPublisher
	var broker service.BrokerStatus
	queueConn, err := queue.NewConnection(cfg.GetRabbitMQURL())
	if err != nil {
		log.Printf("⚠️  RabbitMQ unavailable, assignment events disabled: %v", err)
	} else {
		defer queueConn.Close()
		broker = queueConn
		publisher, err := queue.NewEventPublisher(queueConn, cfg.RabbitMQ.QueueName)
		if err != nil {
			log.Printf("⚠️  Failed to set up event publisher, assignment events disabled: %v", err)
		} else {
			events = publisher
		}
	}

	// Repositories
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	contactRepo := repository.NewContactRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	// Outbound webhooks
	webhookCfg := webhook.Config{
		ApprovalURL:   cfg.Webhooks.ApprovalURL,
		ApprovalToken: cfg.Webhooks.ApprovalToken,
		DrainURL:      cfg.Webhooks.DrainURL,
		Timeout:       cfg.Webhooks.Timeout,
	}
	approvalClient := webhook.NewApprovalClient(webhookCfg)
	drainClient := webhook.NewDrainClient(webhookCfg)

	// Services
	auth := service.NewRoleAuthorizer(userRepo)
	pool := service.NewPoolService(orgRepo, teamRepo, campaignRepo)
	claims := service.NewClaimService(assignmentRepo, contactRepo, teamRepo, campaignRepo)
	notifier := service.NewNotifierService(pool, drainClient, cfg.Webhooks.NotifyDelay, cfg.Webhooks.DrainTeamIDs)
	dist := service.NewDistributionService(db, pool, claims, events, notifier)
	requests := service.NewRequestService(db, requestRepo, userRepo, pool, dist, auth, approvalClient)
	health := service.NewHealthChecker(db, broker, "1.0.0")

	// Handlers
	healthHandler := handler.NewHealthHandler(health)
	assignmentHandler := handler.NewAssignmentHandler(requests, pool, claims, auth)

	// Router
	router := mux.NewRouter()
	router.Use(middleware.Recovery)

	router.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET")

	router.HandleFunc("/organizations/{id}/request-texts", assignmentHandler.RequestTexts).Methods("POST")
	router.HandleFunc("/organizations/{id}/assignment-targets", assignmentHandler.ListTargets).Methods("GET")
	router.HandleFunc("/assignment-requests/{id}/approve", assignmentHandler.Approve).Methods("POST")
	router.HandleFunc("/assignment-requests/{id}/reject", assignmentHandler.Reject).Methods("POST")
	router.HandleFunc("/assignments/{id}/find-new-contact", assignmentHandler.FindNewContact).Methods("POST")

	// Machine-to-machine fulfillment endpoint behind basic auth
	autoassign := middleware.BasicAuth(cfg.Autoassign.Username, cfg.Autoassign.Password)
	router.Handle("/autoassign", autoassign(http.HandlerFunc(assignmentHandler.Autoassign))).Methods("POST")

	// Start server
	port := ":" + cfg.Server.Port
	log.Printf("🚀 API Server starting on port %s", port)
	log.Printf("📍 Health check: http://localhost%s/health", port)
	log.Printf("🌍 Environment: %s", cfg.Env)

	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
