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

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/elie009/utlityhub360-sub002/internal/config"
	"github.com/elie009/utlityhub360-sub002/internal/handler"
	"github.com/elie009/utlityhub360-sub002/internal/repository"
	"github.com/elie009/utlityhub360-sub002/internal/service"
	"github.com/elie009/utlityhub360-sub002/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Repositories
	accountRepo := repository.NewAccountRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	savingsRepo := repository.NewSavingsTransactionRepository(db)

	// Services
	ledger := service.NewLedgerService(journalRepo)
	savings := service.NewSavingsService(accountRepo, savingsRepo, ledger)
	accrual := service.NewAccrualService(accountRepo, ledger, cfg.GetMinPostableInterest())
	amortization := service.NewAmortizationService(loanRepo, scheduleRepo, ledger)

	// Handlers
	accountHandler := handler.NewAccountHandler(savings, accrual, redisClient)
	loanHandler := handler.NewLoanHandler(amortization)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(accountHandler, loanHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(accountHandler *handler.AccountHandler, loanHandler *handler.LoanHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health checks
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/accounts", accountHandler.CreateAccount).Methods("POST")
	api.HandleFunc("/accounts/{accountId}", accountHandler.GetAccount).Methods("GET")
	api.HandleFunc("/accounts/{accountId}", accountHandler.DeleteAccount).Methods("DELETE")
	api.HandleFunc("/accounts/{accountId}/transactions", accountHandler.GetMovements).Methods("GET")
	api.HandleFunc("/accounts/{accountId}/deposit", accountHandler.Deposit).Methods("POST")
	api.HandleFunc("/accounts/{accountId}/withdraw", accountHandler.Withdraw).Methods("POST")
	api.HandleFunc("/accounts/{accountId}/accrue", accountHandler.Accrue).Methods("POST")

	api.HandleFunc("/loans", loanHandler.CreateLoan).Methods("POST")
	api.HandleFunc("/loans/{loanId}/schedule", loanHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/loans/{loanId}/outstanding", loanHandler.GetOutstanding).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payments", loanHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/extend", loanHandler.ExtendTerm).Methods("POST")
	api.HandleFunc("/loans/{loanId}/regenerate", loanHandler.Regenerate).Methods("POST")
	api.HandleFunc("/loans/{loanId}/installments", loanHandler.AddInstallment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/installments/{number}", loanHandler.DeleteInstallment).Methods("DELETE")

	return router
}
