package repository

import (
	"context"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CashRepository is the data access contract for cash sessions and their
// movement ledger.
type CashRepository interface {
	CreateSession(ctx context.Context, s *model.CashSession) error
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error)
	// FindSessionForUpdateTx locks the session row so its OPEN state cannot
	// flip between the check and the dependent write.
	FindSessionForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CashSession, error)
	FindOpenByStore(ctx context.Context, storeID uuid.UUID) (*model.CashSession, error)
	UpdateSession(ctx context.Context, s *model.CashSession) error
	CreateMovement(ctx context.Context, m *model.CashMovement) error
	ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)
	// SumCashMovements returns the signed cash total of the session:
	// Σ INCOME − Σ EXPENSE, EFECTIVO movements only.
	SumCashMovements(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error)
	DB() *gorm.DB
}

type cashRepo struct{ db *gorm.DB }

func NewCashRepository(db *gorm.DB) CashRepository { return &cashRepo{db: db} }

func (r *cashRepo) DB() *gorm.DB { return r.db }

func (r *cashRepo) CreateSession(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cashRepo) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).Preload("Store").First(&s, id).Error
	return &s, err
}

func (r *cashRepo) FindSessionForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error; err != nil {
		return nil, err
	}
	if err := tx.Preload("Store").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashRepo) FindOpenByStore(ctx context.Context, storeID uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ?", storeID, model.SessionOpen).
		First(&s).Error
	return &s, err
}

func (r *cashRepo) UpdateSession(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cashRepo) CreateMovement(ctx context.Context, m *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cashRepo) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("cash_session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

func (r *cashRepo) SumCashMovements(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	var result struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&model.CashMovement{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0) AS total",
			model.CashIncome).
		Where("cash_session_id = ? AND payment_type = ?", sessionID, model.PaymentCash).
		Scan(&result).Error
	return result.Total, err
}
