package router

import (
	"fmt"
	"log"

	"hostelhub/config"
	"hostelhub/internal/database"
	"hostelhub/internal/repository"
	"hostelhub/internal/service"
	"hostelhub/pkg/clock"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the wired service graph shared by the API and the worker.
type Services struct {
	UOW        *database.UnitOfWork
	Clock      clock.Clock
	Hostels    *repository.HostelRepository
	Schedules  service.ScheduleStore
	Auth       *service.AuthService
	FeeConfig  *service.FeeConfigService
	Fees       *service.FeeStructureService
	Billing    *service.PaymentScheduleService
	Payments   *service.PaymentService
	Commission *service.CommissionService
	Referrals  *service.ReferralService
	Bookings   *service.BookingService
	Waitlist   *service.BookingWaitlistService
}

// NewServices builds every service over db. rdb may be nil unless a store is
// configured as "redis"; publisher may be nil.
func NewServices(cfg *config.Config, db *gorm.DB, rdb *redis.Client, publisher service.WaitlistPublisher) (*Services, error) {
	clk := clock.System{}

	userRepo := repository.NewUserRepository(db)
	hostelRepo := repository.NewHostelRepository(db)
	feeRepo := repository.NewFeeStructureRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	programRepo := repository.NewReferralProgramRepository(db)

	schedules, err := scheduleStore(cfg.Stores.Schedule, db, rdb)
	if err != nil {
		return nil, err
	}
	waitlist, err := waitlistStore(cfg.Stores.Waitlist, db, rdb)
	if err != nil {
		return nil, err
	}

	defaults := service.PaymentDefaults{Gateway: cfg.Payment.DefaultGateway, Currency: cfg.Payment.Currency}
	commission := service.NewCommissionService(bookingRepo, referralRepo, programRepo, clk, service.DefaultCompletion())
	referrals := service.NewReferralService(referralRepo, programRepo)

	return &Services{
		UOW:        database.NewUnitOfWork(db),
		Clock:      clk,
		Hostels:    hostelRepo,
		Schedules:  schedules,
		Auth:       service.NewAuthService(&cfg.JWT, userRepo),
		FeeConfig:  service.NewFeeConfigService(feeRepo),
		Fees:       service.NewFeeStructureService(feeRepo, hostelRepo, clk),
		Billing:    service.NewPaymentScheduleService(schedules, paymentRepo, clk, defaults),
		Payments:   service.NewPaymentService(paymentRepo, clk),
		Commission: commission,
		Referrals:  referrals,
		Bookings:   service.NewBookingService(bookingRepo, hostelRepo, referrals, commission, clk, cfg.Payment.Currency),
		Waitlist:   service.NewBookingWaitlistService(waitlist, hostelRepo, clk, publisher),
	}, nil
}

// Redis-backed stores sit outside the SQL transaction, so a failed unit of
// work does not roll back their writes.
func scheduleStore(kind string, db *gorm.DB, rdb *redis.Client) (service.ScheduleStore, error) {
	switch kind {
	case "", "sql":
		return repository.NewSQLScheduleStore(db), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("SCHEDULE_STORE=redis needs a redis connection")
		}
		log.Println("[config] payment schedules stored in redis")
		return repository.NewRedisScheduleStore(rdb), nil
	}
	return nil, fmt.Errorf("unknown SCHEDULE_STORE %q", kind)
}

func waitlistStore(kind string, db *gorm.DB, rdb *redis.Client) (service.WaitlistStore, error) {
	switch kind {
	case "", "sql":
		return repository.NewSQLWaitlistStore(db), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("WAITLIST_STORE=redis needs a redis connection")
		}
		log.Println("[config] waitlist stored in redis")
		return repository.NewRedisWaitlistStore(rdb), nil
	}
	return nil, fmt.Errorf("unknown WAITLIST_STORE %q", kind)
}
