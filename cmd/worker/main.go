package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hostelhub/config"
	"hostelhub/internal/database"
	"hostelhub/internal/repository"
	"hostelhub/internal/router"
	"hostelhub/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// The worker runs recurring invoice generation and overdue reminders. Run
// as many replicas as needed: each schedule is billed under a redis lock.
func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var rdb *redis.Client
	var locker service.Locker
	if cfg.Redis.URL != "" {
		rdb, err = database.NewRedis(cfg.Redis.URL)
		if err != nil {
			log.Printf("[worker] redis unavailable, running without locks: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
			locker = repository.NewRedisLocker(rdb)
		}
	}

	services, err := router.NewServices(cfg, db, rdb, nil)
	if err != nil {
		log.Fatalf("services: %v", err)
	}
	runner := service.NewBillingRunner(services.UOW, services.Schedules, services.Billing, services.Payments,
		locker, services.Clock, cfg.Worker.LookaheadDays, cfg.Worker.LockTTL)

	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(cfg.Worker.GenerateCron, func() {
		if _, err := runner.GenerateDueSchedules(context.Background()); err != nil {
			log.Printf("[worker] generation run failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("[worker] WORKER_GENERATE_CRON %q: %v", cfg.Worker.GenerateCron, err)
	}
	if _, err := c.AddFunc(cfg.Worker.ReminderCron, func() {
		n, err := runner.SendReminders(context.Background())
		if err != nil {
			log.Printf("[worker] reminder run failed: %v", err)
			return
		}
		log.Printf("[worker] %d reminder(s) recorded", n)
	}); err != nil {
		log.Fatalf("[worker] WORKER_REMINDER_CRON %q: %v", cfg.Worker.ReminderCron, err)
	}

	c.Start()
	log.Printf("[worker] started (generate %q, reminders %q, lookahead %d days)",
		cfg.Worker.GenerateCron, cfg.Worker.ReminderCron, cfg.Worker.LookaheadDays)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[worker] shutting down...")
	<-c.Stop().Done()
	fmt.Println("worker stopped")
}
