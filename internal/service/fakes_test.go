package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hostelhub/internal/domain"
	"hostelhub/internal/models"
	"hostelhub/internal/repository"
	"hostelhub/pkg/dates"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := dates.Date(y, m, d)
	return &t
}

type passthroughUOW struct{ calls int }

func (u *passthroughUOW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	u.calls++
	return fn(ctx)
}

type fakeHostels struct {
	byID map[uuid.UUID]*models.Hostel
}

func newFakeHostels(hostels ...*models.Hostel) *fakeHostels {
	f := &fakeHostels{byID: map[uuid.UUID]*models.Hostel{}}
	for _, h := range hostels {
		f.byID[h.ID] = h
	}
	return f
}

func (f *fakeHostels) GetByID(_ context.Context, id uuid.UUID) (*models.Hostel, error) {
	h, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *h
	return &cp, nil
}

type fakeFees struct {
	rows []*models.FeeStructure
}

func (f *fakeFees) Create(_ context.Context, fs *models.FeeStructure) error {
	if fs.ID == uuid.Nil {
		fs.ID = uuid.New()
	}
	fs.CreatedAt = time.Now()
	cp := *fs
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeFees) GetByID(_ context.Context, id uuid.UUID) (*models.FeeStructure, error) {
	for _, r := range f.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeFees) Update(_ context.Context, fs *models.FeeStructure) error {
	for i, r := range f.rows {
		if r.ID == fs.ID {
			cp := *fs
			f.rows[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("fee structure %s missing", fs.ID)
}

func (f *fakeFees) ListByHostel(_ context.Context, hostelID uuid.UUID, activeOnly bool) ([]models.FeeStructure, error) {
	var out []models.FeeStructure
	for _, r := range f.rows {
		if r.HostelID == hostelID && (!activeOnly || r.IsActive) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeFees) FindEffective(_ context.Context, hostelID uuid.UUID, roomType domain.RoomType, feeType domain.FeeType, asOf time.Time) (*models.FeeStructure, error) {
	var best *models.FeeStructure
	for _, r := range f.rows {
		if r.HostelID != hostelID || r.RoomType != roomType || r.FeeType != feeType || !r.IsActive {
			continue
		}
		if r.EffectiveFrom.After(asOf) || (r.EffectiveTo != nil && r.EffectiveTo.Before(asOf)) {
			continue
		}
		if best == nil || r.EffectiveFrom.After(best.EffectiveFrom) {
			best = r
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

type fakePayments struct {
	mu        sync.Mutex
	rows      []*models.Payment
	reminders map[uuid.UUID]int
}

func newFakePayments() *fakePayments {
	return &fakePayments{reminders: map[uuid.UUID]int{}}
}

func (f *fakePayments) Create(_ context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakePayments) GetByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	for _, r := range f.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePayments) Update(_ context.Context, p *models.Payment) error {
	for i, r := range f.rows {
		if r.ID == p.ID {
			cp := *p
			f.rows[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("payment %s missing", p.ID)
}

func (f *fakePayments) FindByStudentHostelDueDate(_ context.Context, studentID, hostelID uuid.UUID, due time.Time) (*models.Payment, error) {
	for _, r := range f.rows {
		if r.StudentID == studentID && r.HostelID == hostelID && r.DueDate != nil && r.DueDate.Equal(due) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePayments) ListByStudent(_ context.Context, studentID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	var out []models.Payment
	for _, r := range f.rows {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakePayments) RevenueTotals(_ context.Context, hostelID uuid.UUID, from, to time.Time) (repository.RevenueTotals, error) {
	t := repository.RevenueTotals{Gross: decimal.Zero, Refunded: decimal.Zero}
	for _, r := range f.rows {
		if r.HostelID != hostelID || !r.PaymentStatus.Collected() || r.PaidAt == nil {
			continue
		}
		if r.PaidAt.Before(from) || !r.PaidAt.Before(to) {
			continue
		}
		t.Gross = t.Gross.Add(r.Amount)
		t.Refunded = t.Refunded.Add(r.RefundAmount)
		t.Count++
	}
	return t, nil
}

func (f *fakePayments) CountByStatus(_ context.Context, hostelID uuid.UUID, from, to time.Time) (map[domain.PaymentStatus]int64, error) {
	out := map[domain.PaymentStatus]int64{}
	for _, r := range f.rows {
		if r.HostelID == hostelID && !r.CreatedAt.Before(from) && r.CreatedAt.Before(to) {
			out[r.PaymentStatus]++
		}
	}
	return out, nil
}

func (f *fakePayments) OverdueTotals(_ context.Context, hostelID uuid.UUID, asOf time.Time) (repository.OverdueTotals, error) {
	t := repository.OverdueTotals{Amount: decimal.Zero}
	for _, r := range f.rows {
		if r.HostelID == hostelID && r.PaymentStatus == domain.PaymentPending && r.DueDate != nil && r.DueDate.Before(asOf) {
			t.Amount = t.Amount.Add(r.Amount)
			t.Count++
		}
	}
	return t, nil
}

func (f *fakePayments) ListOverdue(_ context.Context, hostelID *uuid.UUID, asOf time.Time, limit int) ([]models.Payment, error) {
	var out []models.Payment
	for _, r := range f.rows {
		if hostelID != nil && r.HostelID != *hostelID {
			continue
		}
		if r.PaymentStatus == domain.PaymentPending && r.DueDate != nil && r.DueDate.Before(asOf) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(*out[j].DueDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakePayments) MarkReminderSent(_ context.Context, id uuid.UUID, at time.Time) error {
	for _, r := range f.rows {
		if r.ID == id {
			r.ReminderSentCount++
			r.LastReminderAt = &at
			f.reminders[id]++
			return nil
		}
	}
	return fmt.Errorf("payment %s missing", id)
}

type fakeScheduleStore struct {
	byID map[uuid.UUID]models.PaymentSchedule
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{byID: map[uuid.UUID]models.PaymentSchedule{}}
}

func (f *fakeScheduleStore) GetSchedule(_ context.Context, id uuid.UUID) (*models.PaymentSchedule, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeScheduleStore) SaveSchedule(_ context.Context, id uuid.UUID, s *models.PaymentSchedule) error {
	s.ID = id
	f.byID[id] = *s
	return nil
}

func (f *fakeScheduleStore) ListSchedulesForStudent(_ context.Context, studentID uuid.UUID) ([]models.PaymentSchedule, error) {
	var out []models.PaymentSchedule
	for _, s := range f.byID {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) ListActiveSchedules(_ context.Context) ([]models.PaymentSchedule, error) {
	var out []models.PaymentSchedule
	for _, s := range f.byID {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextDueDate.Before(out[j].NextDueDate) })
	return out, nil
}

type fakeWaitlistStore struct {
	order []uuid.UUID
	byID  map[uuid.UUID]models.WaitlistEntry
}

func newFakeWaitlistStore() *fakeWaitlistStore {
	return &fakeWaitlistStore{byID: map[uuid.UUID]models.WaitlistEntry{}}
}

func (f *fakeWaitlistStore) CreateEntry(_ context.Context, e *models.WaitlistEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	f.order = append(f.order, e.ID)
	f.byID[e.ID] = *e
	return nil
}

func (f *fakeWaitlistStore) UpdateEntry(_ context.Context, e *models.WaitlistEntry) error {
	if _, ok := f.byID[e.ID]; !ok {
		return domain.NotFound("waitlist entry", e.ID)
	}
	f.byID[e.ID] = *e
	return nil
}

func (f *fakeWaitlistStore) GetEntry(_ context.Context, id uuid.UUID) (*models.WaitlistEntry, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *fakeWaitlistStore) ListForHostelRoomType(_ context.Context, hostelID uuid.UUID, roomType domain.RoomType) ([]models.WaitlistEntry, error) {
	var out []models.WaitlistEntry
	for _, id := range f.order {
		e := f.byID[id]
		if e.HostelID == hostelID && e.RoomType == roomType {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeBookings struct {
	byID map[uuid.UUID]models.Booking
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{byID: map[uuid.UUID]models.Booking{}}
}

func (f *fakeBookings) Create(_ context.Context, b *models.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	f.byID[b.ID] = *b
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBookings) Update(_ context.Context, b *models.Booking) error {
	f.byID[b.ID] = *b
	return nil
}

type fakeReferrals struct {
	byID    map[uuid.UUID]models.Referral
	updates int
	seq     int
}

func newFakeReferrals() *fakeReferrals {
	return &fakeReferrals{byID: map[uuid.UUID]models.Referral{}}
}

func (f *fakeReferrals) put(r models.Referral) models.Referral {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.byID[r.ID] = r
	return r
}

func (f *fakeReferrals) CreateWithCode(_ context.Context, r *models.Referral) error {
	f.seq++
	r.ReferralCode = fmt.Sprintf("%08X", f.seq)
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.byID[r.ID] = *r
	return nil
}

func (f *fakeReferrals) GetByID(_ context.Context, id uuid.UUID) (*models.Referral, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeReferrals) GetByCode(_ context.Context, code string) (*models.Referral, error) {
	for _, r := range f.byID {
		if strings.EqualFold(r.ReferralCode, code) {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeReferrals) Update(_ context.Context, r *models.Referral) error {
	f.updates++
	f.byID[r.ID] = *r
	return nil
}

func (f *fakeReferrals) ListByReferrer(_ context.Context, referrerID uuid.UUID) ([]models.Referral, error) {
	var out []models.Referral
	for _, r := range f.byID {
		if r.ReferrerID == referrerID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakePrograms struct {
	byID map[uuid.UUID]models.ReferralProgram
}

func newFakePrograms() *fakePrograms {
	return &fakePrograms{byID: map[uuid.UUID]models.ReferralProgram{}}
}

func (f *fakePrograms) Create(_ context.Context, p *models.ReferralProgram) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.byID[p.ID] = *p
	return nil
}

func (f *fakePrograms) GetByID(_ context.Context, id uuid.UUID) (*models.ReferralProgram, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePrograms) ListActive(_ context.Context) ([]models.ReferralProgram, error) {
	var out []models.ReferralProgram
	for _, p := range f.byID {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeLocker struct {
	held map[string]bool
}

func (l *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	if l.held[key] {
		return "", false, nil
	}
	l.held[key] = true
	return key, true, nil
}

func (l *fakeLocker) Unlock(_ context.Context, key, _ string) error {
	delete(l.held, key)
	return nil
}

type recordingPublisher struct {
	events []WaitlistEvent
}

func (p *recordingPublisher) PublishWaitlistEvent(_ uuid.UUID, e WaitlistEvent) {
	p.events = append(p.events, e)
}
