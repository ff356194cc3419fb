package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	database "github.com/syaswanth456/moneymanager/db"
	"github.com/syaswanth456/moneymanager/internal/events"
	eventsKafka "github.com/syaswanth456/moneymanager/internal/events/kafka"
	"github.com/syaswanth456/moneymanager/internal/identity"
	"github.com/syaswanth456/moneymanager/internal/ledger/application"
	"github.com/syaswanth456/moneymanager/internal/ledger/infrastructure"
	"github.com/syaswanth456/moneymanager/internal/ledger/interfaces"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router          *http.ServeMux
	identityService identity.Service
	identityHandler *identity.Handler
	accountHandler  *interfaces.AccountHandler
	entryHandler    *interfaces.EntryHandler
	categoryHandler *interfaces.CategoryHandler
	summaryHandler  *interfaces.SummaryHandler
}

func NewServer(
	identityService identity.Service,
	identityHandler *identity.Handler,
	accountHandler *interfaces.AccountHandler,
	entryHandler *interfaces.EntryHandler,
	categoryHandler *interfaces.CategoryHandler,
	summaryHandler *interfaces.SummaryHandler,
) *Server {
	return &Server{
		identityService: identityService,
		identityHandler: identityHandler,
		accountHandler:  accountHandler,
		entryHandler:    entryHandler,
		categoryHandler: categoryHandler,
		summaryHandler:  summaryHandler,
		router:          http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET Provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/auth/init", http.HandlerFunc(s.identityHandler.HandleFinalizeSignIn))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using the provider access token middleware)
	protectedRoutes := http.NewServeMux()
	authMiddleware := s.identityService.AccessTokenMiddleware()

	// ACCOUNTS API
	protectedRoutes.Handle("GET /api/protected/accounts",
		authMiddleware(http.HandlerFunc(s.accountHandler.GetAccounts)))

	protectedRoutes.Handle("POST /api/protected/accounts",
		authMiddleware(http.HandlerFunc(s.accountHandler.CreateAccount)))

	protectedRoutes.Handle("GET /api/protected/accounts/{accountID}",
		authMiddleware(http.HandlerFunc(s.accountHandler.GetAccount)))

	protectedRoutes.Handle("PUT /api/protected/accounts/{accountID}",
		authMiddleware(http.HandlerFunc(s.accountHandler.UpdateAccount)))

	protectedRoutes.Handle("DELETE /api/protected/accounts/{accountID}",
		authMiddleware(http.HandlerFunc(s.accountHandler.DeleteAccount)))

	protectedRoutes.Handle("POST /api/protected/accounts/{accountID}/recalculate",
		authMiddleware(http.HandlerFunc(s.accountHandler.RecalculateAccount)))

	// ENTRIES API
	protectedRoutes.Handle("GET /api/protected/entries",
		authMiddleware(http.HandlerFunc(s.entryHandler.GetEntries)))

	protectedRoutes.Handle("POST /api/protected/entries",
		authMiddleware(http.HandlerFunc(s.entryHandler.CreateEntry)))

	protectedRoutes.Handle("PUT /api/protected/entries/{entryID}",
		authMiddleware(http.HandlerFunc(s.entryHandler.UpdateEntry)))

	protectedRoutes.Handle("DELETE /api/protected/entries/{entryID}",
		authMiddleware(http.HandlerFunc(s.entryHandler.DeleteEntry)))

	protectedRoutes.Handle("POST /api/protected/withdraw",
		authMiddleware(http.HandlerFunc(s.entryHandler.Withdraw)))

	// CATEGORIES API
	protectedRoutes.Handle("GET /api/protected/categories",
		authMiddleware(http.HandlerFunc(s.categoryHandler.GetCategories)))

	protectedRoutes.Handle("POST /api/protected/categories",
		authMiddleware(http.HandlerFunc(s.categoryHandler.CreateCategory)))

	protectedRoutes.Handle("PUT /api/protected/categories/{categoryID}",
		authMiddleware(http.HandlerFunc(s.categoryHandler.UpdateCategory)))

	protectedRoutes.Handle("DELETE /api/protected/categories/{categoryID}",
		authMiddleware(http.HandlerFunc(s.categoryHandler.DeleteCategory)))

	// SUMMARY API
	protectedRoutes.Handle("GET /api/protected/summary",
		authMiddleware(http.HandlerFunc(s.summaryHandler.GetSummary)))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func newPublisher() events.Publisher {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		log.Println("KAFKA_BROKERS not set, entry mutation events disabled")
		return events.NoopPublisher{}
	}
	return eventsKafka.NewPublisher(strings.Split(brokers, ","), "ledger_entry_mutations")
}

// StartRepairScheduler periodically re-derives every account balance so a
// recalculation that failed after a committed mutation never leaves a balance
// stale for long.
func StartRepairScheduler(accountRepo *infrastructure.AccountRepository, recalculator *application.Recalculator) error {
	c := cron.New()
	_, err := c.AddFunc("@every 1h", func() {
		ctx := context.Background()
		accounts, err := accountRepo.FindAll(ctx)
		if err != nil {
			log.Printf("Repair sweep could not list accounts: %v", err)
			return
		}
		repaired := 0
		for _, account := range accounts {
			if _, err := recalculator.Recalculate(ctx, account.ID, account.UserID); err != nil {
				log.Printf("Repair sweep failed for account %s: %v", account.ID, err)
				continue
			}
			repaired++
		}
		log.Printf("Repair sweep recalculated %d/%d accounts", repaired, len(accounts))
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	accountRepo := infrastructure.NewAccountRepository(dbService.DB)
	entryRepo := infrastructure.NewEntryRepository(dbService.DB)
	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	userRepo := identity.NewUserRepository(dbService.DB)

	publisher := newPublisher()

	recalculator := application.NewRecalculator(accountRepo, entryRepo)
	accountService := application.NewAccountService(accountRepo, entryRepo)
	categoryService := application.NewCategoryService(categoryRepo)
	summaryService := application.NewSummaryService(entryRepo)
	entryService := application.NewEntryService(entryRepo, accountRepo, categoryRepo, recalculator, publisher)

	verifier := identity.NewHSVerifier()
	identityService := identity.NewService(verifier, userRepo, accountService)
	identityHandler := identity.NewHandler(identityService)

	accountHandler := interfaces.NewAccountHandler(accountService, recalculator, respondJSON, respondError)
	entryHandler := interfaces.NewEntryHandler(entryService, respondJSON, respondError)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, respondJSON, respondError)
	summaryHandler := interfaces.NewSummaryHandler(summaryService, respondJSON, respondError)

	server := NewServer(identityService, identityHandler, accountHandler, entryHandler, categoryHandler, summaryHandler)
	server.RegisterRoutes()

	if err := StartRepairScheduler(accountRepo, recalculator); err != nil {
		log.Fatalf("Scheduler didn't start, stoping the app ...")
	}

	handler := loggingMiddleware(http.HandlerFunc(server.router.ServeHTTP))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s...", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
