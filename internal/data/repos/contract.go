package repos

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/domain"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/logger"
)

// ContractFilter narrows ListByClient. Both filters are applied in SQL so
// pagination stays correct: a page filtered after the fact could come back
// short or skip rows.
type ContractFilter struct {
	// ActiveOn, when set, keeps only contracts with no end date or an end
	// date strictly after this day.
	ActiveOn *time.Time
	// UpdatedSince, when set, keeps only contracts whose last_updated_at is
	// strictly after this instant.
	UpdatedSince *time.Time
}

// PageSpec is an offset/limit window with a ready-to-use ORDER BY clause.
// OrderBy must come from a column whitelist, never from raw client input.
type PageSpec struct {
	Offset  int
	Limit   int
	OrderBy string
}

type ContractRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contracts []*domain.Contract) ([]*domain.Contract, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*domain.Contract, error)
	UpdateCost(ctx context.Context, tx *gorm.DB, id uint, cost decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) (int64, error)
	ListByClient(ctx context.Context, tx *gorm.DB, clientID uint, filter ContractFilter, page PageSpec) ([]*domain.Contract, int64, error)
	SumActiveByClient(ctx context.Context, tx *gorm.DB, clientID uint, today time.Time) (decimal.Decimal, error)
	CloseAllActiveByClient(ctx context.Context, tx *gorm.DB, clientID uint, today time.Time) (int64, error)
	DeleteAllByClient(ctx context.Context, tx *gorm.DB, clientID uint) (int64, error)
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	repoLog := baseLog.With("repo", "ContractRepo")
	return &contractRepo{db: db, log: repoLog}
}

func (cr *contractRepo) Create(ctx context.Context, tx *gorm.DB, contracts []*domain.Contract) ([]*domain.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(contracts) == 0 {
		return []*domain.Contract{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&contracts).Error; err != nil {
		return nil, err
	}

	return contracts, nil
}

// GetByID returns gorm.ErrRecordNotFound when no contract has that id.
func (cr *contractRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*domain.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result domain.Contract
	if err := transaction.WithContext(ctx).
		First(&result, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *contractRepo) UpdateCost(ctx context.Context, tx *gorm.DB, id uint, cost decimal.Decimal, updatedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"cost_amount":     cost,
			"last_updated_at": updatedAt,
		}).Error
}

func (cr *contractRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Contract{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (cr *contractRepo) ListByClient(ctx context.Context, tx *gorm.DB, clientID uint, filter ContractFilter, page PageSpec) ([]*domain.Contract, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	query := transaction.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("client_id = ?", clientID)
	if filter.ActiveOn != nil {
		query = query.Where("end_date IS NULL OR end_date > ?", *filter.ActiveOn)
	}
	if filter.UpdatedSince != nil {
		query = query.Where("last_updated_at > ?", *filter.UpdatedSince)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*domain.Contract
	if err := query.
		Order(page.OrderBy).
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (cr *contractRepo) SumActiveByClient(ctx context.Context, tx *gorm.DB, clientID uint, today time.Time) (decimal.Decimal, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var sum decimal.Decimal
	if err := transaction.WithContext(ctx).
		Model(&domain.Contract{}).
		Select("COALESCE(SUM(cost_amount), 0)").
		Where("client_id = ?", clientID).
		Where("end_date IS NULL OR end_date > ?", today).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

func (cr *contractRepo) CloseAllActiveByClient(ctx context.Context, tx *gorm.DB, clientID uint, today time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("client_id = ?", clientID).
		Where("end_date IS NULL OR end_date > ?", today).
		Updates(map[string]any{
			"end_date":        today,
			"last_updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (cr *contractRepo) DeleteAllByClient(ctx context.Context, tx *gorm.DB, clientID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Where("client_id = ?", clientID).
		Delete(&domain.Contract{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
