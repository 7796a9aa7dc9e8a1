package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/pkg/clock"
	"hostelhub/pkg/dates"
	"hostelhub/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentAnalytics struct {
	HostelID       uuid.UUID       `json:"hostel_id"`
	DateFrom       time.Time       `json:"date_from"`
	DateTo         time.Time       `json:"date_to"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalRefunded  decimal.Decimal `json:"total_refunded"`
	CompletedCount int64           `json:"completed_count"`
	FailedCount    int64           `json:"failed_count"`
	PendingCount   int64           `json:"pending_count"`
	SuccessRate    decimal.Decimal `json:"success_rate"`
	OverdueCount   int64           `json:"overdue_count"`
	OverdueAmount  decimal.Decimal `json:"overdue_amount"`
}

type PaymentService struct {
	payments PaymentRepository
	clock    clock.Clock
}

func NewPaymentService(payments PaymentRepository, clk clock.Clock) *PaymentService {
	return &PaymentService{payments: payments, clock: clk}
}

func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("payment", id)
	}
	return p, nil
}

func (s *PaymentService) ListForStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	return s.payments.ListByStudent(ctx, studentID, limit, offset)
}

// MarkProcessing records that the payer has started paying.
func (s *PaymentService) MarkProcessing(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.transition(ctx, id, domain.PaymentProcessing, []domain.PaymentStatus{domain.PaymentPending}, nil)
}

// MarkCompleted sets paid_at and issues a receipt number.
func (s *PaymentService) MarkCompleted(ctx context.Context, id uuid.UUID, transactionID string) (*models.Payment, error) {
	from := []domain.PaymentStatus{domain.PaymentPending, domain.PaymentProcessing}
	return s.transition(ctx, id, domain.PaymentCompleted, from, func(p *models.Payment, now time.Time) {
		p.PaidAt = &now
		receipt := receiptNumber(now)
		p.ReceiptNumber = &receipt
		if transactionID != "" {
			p.TransactionID = &transactionID
		}
	})
}

func (s *PaymentService) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*models.Payment, error) {
	from := []domain.PaymentStatus{domain.PaymentPending, domain.PaymentProcessing}
	return s.transition(ctx, id, domain.PaymentFailed, from, func(p *models.Payment, now time.Time) {
		p.FailedAt = &now
		p.FailureReason = reason
	})
}

// Refund adds amount to the refunded total. The total never decreases and
// never exceeds the payment amount.
func (s *PaymentService) Refund(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*models.Payment, error) {
	amount = money.Quantize(amount)
	if !amount.IsPositive() {
		return nil, domain.Invalid("amount", "must be greater than 0")
	}
	p, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.PaymentStatus != domain.PaymentCompleted && p.PaymentStatus != domain.PaymentPartiallyRefunded {
		return nil, &domain.TransitionError{Entity: "payment", From: string(p.PaymentStatus), To: string(domain.PaymentRefunded)}
	}
	total := p.RefundAmount.Add(amount)
	if total.GreaterThan(p.Amount) {
		return nil, domain.Invalid("amount", fmt.Sprintf("refund would exceed payment amount %s", p.Amount.StringFixed(2)))
	}
	now := s.clock.Now()
	p.RefundAmount = total
	p.RefundedAt = &now
	if total.Equal(p.Amount) {
		p.PaymentStatus = domain.PaymentRefunded
	} else {
		p.PaymentStatus = domain.PaymentPartiallyRefunded
	}
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}
	log.Printf("[payments] refunded %s on %s (total %s)", amount.StringFixed(2), p.ID, total.StringFixed(2))
	return p, nil
}

func (s *PaymentService) transition(ctx context.Context, id uuid.UUID, to domain.PaymentStatus, allowed []domain.PaymentStatus, apply func(*models.Payment, time.Time)) (*models.Payment, error) {
	p, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	ok := false
	for _, st := range allowed {
		if p.PaymentStatus == st {
			ok = true
			break
		}
	}
	if !ok {
		return nil, &domain.TransitionError{Entity: "payment", From: string(p.PaymentStatus), To: string(to)}
	}
	p.PaymentStatus = to
	if apply != nil {
		apply(p, s.clock.Now())
	}
	if err := s.payments.Update(ctx, p); err != nil {
		return nil, err
	}
	log.Printf("[payments] %s -> %s", p.ID, to)
	return p, nil
}

// Analytics summarises a hostel's payments between two dates, inclusive.
func (s *PaymentService) Analytics(ctx context.Context, hostelID uuid.UUID, dateFrom, dateTo time.Time) (*PaymentAnalytics, error) {
	from, to := dates.Of(dateFrom), dates.Of(dateTo)
	if from.After(to) {
		return nil, domain.Invalid("date_from", "must not be after date_to")
	}
	end := to.AddDate(0, 0, 1)

	revenue, err := s.payments.RevenueTotals(ctx, hostelID, from, end)
	if err != nil {
		return nil, err
	}
	counts, err := s.payments.CountByStatus(ctx, hostelID, from, end)
	if err != nil {
		return nil, err
	}
	overdue, err := s.payments.OverdueTotals(ctx, hostelID, to)
	if err != nil {
		return nil, err
	}

	completed := counts[domain.PaymentCompleted] + counts[domain.PaymentPartiallyRefunded] + counts[domain.PaymentRefunded]
	failed := counts[domain.PaymentFailed]
	return &PaymentAnalytics{
		HostelID:       hostelID,
		DateFrom:       from,
		DateTo:         to,
		TotalRevenue:   money.Quantize(revenue.Gross.Sub(revenue.Refunded)),
		TotalRefunded:  money.Quantize(revenue.Refunded),
		CompletedCount: completed,
		FailedCount:    failed,
		PendingCount:   counts[domain.PaymentPending] + counts[domain.PaymentProcessing],
		SuccessRate:    money.Ratio(completed, completed+failed),
		OverdueCount:   overdue.Count,
		OverdueAmount:  money.Quantize(overdue.Amount),
	}, nil
}

// ListOverdue returns pending payments due before asOf. A nil hostelID spans all hostels.
func (s *PaymentService) ListOverdue(ctx context.Context, hostelID *uuid.UUID, asOf time.Time, limit int) ([]models.Payment, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	return s.payments.ListOverdue(ctx, hostelID, dates.Of(asOf), limit)
}

// SendReminders records a reminder on every overdue payment and returns how
// many were marked. Delivery is left to the notification channel.
func (s *PaymentService) SendReminders(ctx context.Context, asOf time.Time) (int, error) {
	overdue, err := s.ListOverdue(ctx, nil, asOf, 0)
	if err != nil {
		return 0, err
	}
	now := s.clock.Now()
	sent := 0
	for _, p := range overdue {
		if err := s.payments.MarkReminderSent(ctx, p.ID, now); err != nil {
			return sent, err
		}
		sent++
	}
	if sent > 0 {
		log.Printf("[payments] reminders recorded for %d overdue payment(s)", sent)
	}
	return sent, nil
}

func receiptNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "RCPT-" + at.Format("20060102") + "-" + suffix
}
