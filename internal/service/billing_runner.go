package service

import (
	"context"
	"log"
	"time"

	"hostelhub/pkg/clock"
	"hostelhub/pkg/dates"
)

// RunSummary reports one pass of the generation job.
type RunSummary struct {
	Schedules         int `json:"schedules"`
	Locked            int `json:"locked"`
	Failed            int `json:"failed"`
	PaymentsGenerated int `json:"payments_generated"`
	PaymentsSkipped   int `json:"payments_skipped"`
}

// BillingRunner drives the recurring jobs: invoice generation for due
// schedules and reminders for overdue payments.
type BillingRunner struct {
	uow       UnitOfWork
	store     ScheduleStore
	schedules *PaymentScheduleService
	payments  *PaymentService
	locker    Locker
	clock     clock.Clock
	lookahead time.Duration
	lockTTL   time.Duration
}

func NewBillingRunner(uow UnitOfWork, store ScheduleStore, schedules *PaymentScheduleService, payments *PaymentService, locker Locker, clk clock.Clock, lookaheadDays int, lockTTL time.Duration) *BillingRunner {
	return &BillingRunner{
		uow:       uow,
		store:     store,
		schedules: schedules,
		payments:  payments,
		locker:    locker,
		clock:     clk,
		lookahead: time.Duration(lookaheadDays) * 24 * time.Hour,
		lockTTL:   lockTTL,
	}
}

// GenerateDueSchedules bills every active auto-invoicing schedule whose next
// due date falls within the lookahead window. Each schedule runs in its own
// unit of work under a lock; one failure does not stop the rest.
func (r *BillingRunner) GenerateDueSchedules(ctx context.Context) (RunSummary, error) {
	var sum RunSummary
	list, err := r.store.ListActiveSchedules(ctx)
	if err != nil {
		return sum, err
	}
	today := dates.Of(r.clock.Now())
	horizon := dates.Of(today.Add(r.lookahead))

	for _, sch := range list {
		if !sch.AutoGenerateInvoice {
			continue
		}
		to := horizon
		if sch.EndDate != nil {
			to = dates.Min(to, *sch.EndDate)
		}
		from := dates.Of(sch.NextDueDate)
		if from.After(to) {
			continue
		}
		sum.Schedules++

		key := "schedule:" + sch.ID.String()
		var token string
		if r.locker != nil {
			var ok bool
			var err error
			token, ok, err = r.locker.TryLock(ctx, key, r.lockTTL)
			if err != nil {
				log.Printf("[billing] lock %s: %v", key, err)
				sum.Failed++
				continue
			}
			if !ok {
				sum.Locked++
				continue
			}
		}

		req := GenerateRequest{FromDate: from, ToDate: to, SkipIfAlreadyPaid: true}
		var res *GenerationResult
		err := r.uow.Do(ctx, func(ctx context.Context) error {
			var err error
			res, err = r.schedules.GenerateScheduledPayments(ctx, sch.ID, req)
			return err
		})
		if r.locker != nil {
			if err := r.locker.Unlock(ctx, key, token); err != nil {
				log.Printf("[billing] unlock %s: %v", key, err)
			}
		}
		if err != nil {
			log.Printf("[billing] schedule %s: %v", sch.ID, err)
			sum.Failed++
			continue
		}
		sum.PaymentsGenerated += res.PaymentsGenerated
		sum.PaymentsSkipped += res.PaymentsSkipped
	}
	log.Printf("[billing] generation run: schedules=%d generated=%d skipped=%d locked=%d failed=%d",
		sum.Schedules, sum.PaymentsGenerated, sum.PaymentsSkipped, sum.Locked, sum.Failed)
	return sum, nil
}

// SendReminders records reminders for payments overdue as of today.
func (r *BillingRunner) SendReminders(ctx context.Context) (int, error) {
	var sent int
	err := r.uow.Do(ctx, func(ctx context.Context) error {
		var err error
		sent, err = r.payments.SendReminders(ctx, r.clock.Now())
		return err
	})
	return sent, err
}
