package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/domain"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/logger"
)

type ClientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, clients []*domain.Client) ([]*domain.Client, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*domain.Client, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	EmailInUseByOther(ctx context.Context, tx *gorm.DB, email string, id uint) (bool, error)
	CompanyIdentifierExists(ctx context.Context, tx *gorm.DB, identifier string) (bool, error)
	UpdateContact(ctx context.Context, tx *gorm.DB, id uint, name, email, phone string, updatedAt time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) (int64, error)
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	repoLog := baseLog.With("repo", "ClientRepo")
	return &clientRepo{db: db, log: repoLog}
}

func (cr *clientRepo) Create(ctx context.Context, tx *gorm.DB, clients []*domain.Client) ([]*domain.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(clients) == 0 {
		return []*domain.Client{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&clients).Error; err != nil {
		return nil, err
	}

	return clients, nil
}

// GetByID returns gorm.ErrRecordNotFound when no client has that id.
func (cr *clientRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*domain.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result domain.Client
	if err := transaction.WithContext(ctx).
		First(&result, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *clientRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Client{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (cr *clientRepo) EmailInUseByOther(ctx context.Context, tx *gorm.DB, email string, id uint) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Client{}).
		Where("email = ? AND id <> ?", email, id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (cr *clientRepo) CompanyIdentifierExists(ctx context.Context, tx *gorm.DB, identifier string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Client{}).
		Where("company_identifier = ?", identifier).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (cr *clientRepo) UpdateContact(ctx context.Context, tx *gorm.DB, id uint, name, email, phone string, updatedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Client{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":       name,
			"email":      email,
			"phone":      phone,
			"updated_at": updatedAt,
		}).Error
}

func (cr *clientRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Client{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
