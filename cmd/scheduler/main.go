package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/elie009/utlityhub360-sub002/internal/config"
	"github.com/elie009/utlityhub360-sub002/internal/notification"
	"github.com/elie009/utlityhub360-sub002/internal/repository"
	"github.com/elie009/utlityhub360-sub002/internal/service"
)

func main() {
	log.Println("Starting accounting scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	accountRepo := repository.NewAccountRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	ledger := service.NewLedgerService(journalRepo)
	accrual := service.NewAccrualService(accountRepo, ledger, cfg.GetMinPostableInterest())
	dispatcher := notification.NewRedisDispatcher(redisClient, cfg.GetNotificationDedupTTL(), notification.NewLogDispatcher())
	sweep := service.NewSweepService(scheduleRepo, loanRepo, dispatcher, cfg.Accounting.ReminderWindowDays)

	// Cancelled on shutdown so a running batch stops taking new accounts.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone: %v", err)
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	if _, err := c.AddFunc(cfg.Scheduler.AccrualSpec, func() {
		runAccrual(ctx, accrual)
	}); err != nil {
		log.Fatalf("Error scheduling interest accrual job: %v", err)
	}

	if _, err := c.AddFunc(cfg.Scheduler.SweepSpec, func() {
		runSweep(ctx, sweep)
	}); err != nil {
		log.Fatalf("Error scheduling due-date sweep job: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	cancel()
	// Stop returns a context that is done once in-flight jobs finish.
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}

func runAccrual(ctx context.Context, accrual *service.AccrualService) {
	log.Println("Running interest accrual batch...")

	result, err := accrual.ApplyInterestToDueAccounts(ctx, time.Now())
	if err != nil {
		log.Printf("Interest accrual batch failed: %v", err)
		return
	}

	log.Printf("Interest accrual batch done: processed=%d total_interest=%s errors=%d",
		result.Processed, result.TotalInterest.StringFixed(2), len(result.Errors))
	for _, e := range result.Errors {
		log.Printf("  accrual error account=%s: %s", e.AccountID, e.Err)
	}
}

func runSweep(ctx context.Context, sweep *service.SweepService) {
	log.Println("Running due-date sweep...")

	result, err := sweep.Sweep(ctx, time.Now())
	if err != nil {
		log.Printf("Due-date sweep failed: %v", err)
		return
	}

	log.Printf("Due-date sweep done: overdue=%d reminders=%d errors=%d",
		result.MarkedOverdue, result.RemindersSent, len(result.Errors))
	for _, e := range result.Errors {
		log.Printf("  sweep error loan=%s installment=%d: %s", e.LoanID, e.Number, e.Err)
	}
}
