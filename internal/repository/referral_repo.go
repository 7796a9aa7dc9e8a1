package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"hostelhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// generateReferralCode returns an 8-character uppercase hex referral code.
func generateReferralCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// CreateWithCode assigns a fresh unique code to ref and persists it.
func (r *ReferralRepository) CreateWithCode(ctx context.Context, ref *models.Referral) error {
	db := conn(ctx, r.db)
	for i := 0; i < 10; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return err
		}
		var count int64
		if err := db.Model(&models.Referral{}).Where("referral_code = ?", code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		ref.ReferralCode = code
		return db.Create(ref).Error
	}
	return fmt.Errorf("failed to generate a unique referral code after retries")
}

func (r *ReferralRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Referral, error) {
	return firstOrNil[models.Referral](conn(ctx, r.db).Where("id = ?", id))
}

func (r *ReferralRepository) GetByCode(ctx context.Context, code string) (*models.Referral, error) {
	return firstOrNil[models.Referral](conn(ctx, r.db).Where("referral_code = ?", strings.ToUpper(code)))
}

func (r *ReferralRepository) Update(ctx context.Context, ref *models.Referral) error {
	return conn(ctx, r.db).Omit("Program").Save(ref).Error
}

func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]models.Referral, error) {
	var list []models.Referral
	err := conn(ctx, r.db).Where("referrer_id = ?", referrerID).Order("created_at DESC").Find(&list).Error
	return list, err
}

type ReferralProgramRepository struct {
	db *gorm.DB
}

func NewReferralProgramRepository(db *gorm.DB) *ReferralProgramRepository {
	return &ReferralProgramRepository{db: db}
}

func (r *ReferralProgramRepository) Create(ctx context.Context, p *models.ReferralProgram) error {
	return conn(ctx, r.db).Create(p).Error
}

func (r *ReferralProgramRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ReferralProgram, error) {
	return firstOrNil[models.ReferralProgram](conn(ctx, r.db).Where("id = ?", id))
}

func (r *ReferralProgramRepository) ListActive(ctx context.Context) ([]models.ReferralProgram, error) {
	var list []models.ReferralProgram
	err := conn(ctx, r.db).Where("is_active = ?", true).Order("created_at DESC").Find(&list).Error
	return list, err
}
