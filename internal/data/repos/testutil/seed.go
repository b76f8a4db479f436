package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/domain"
)

func SeedPersonClient(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *domain.Client {
	tb.Helper()
	birthdate := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()
	c := &domain.Client{
		Type:      domain.ClientTypePerson,
		Name:      "Jane",
		Email:     email,
		Phone:     "+41 79 123 45 67",
		Birthdate: &birthdate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed person client: %v", err)
	}
	return c
}

func SeedCompanyClient(tb testing.TB, ctx context.Context, tx *gorm.DB, email, identifier string) *domain.Client {
	tb.Helper()
	now := time.Now().UTC()
	c := &domain.Client{
		Type:              domain.ClientTypeCompany,
		Name:              "Acme",
		Email:             email,
		Phone:             "+41 21 555 00 11",
		CompanyIdentifier: &identifier,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed company client: %v", err)
	}
	return c
}

func SeedContract(tb testing.TB, ctx context.Context, tx *gorm.DB, clientID uint, endDate *time.Time, cost string) *domain.Contract {
	tb.Helper()
	amount, err := decimal.NewFromString(cost)
	if err != nil {
		tb.Fatalf("seed contract: bad cost %q: %v", cost, err)
	}
	c := &domain.Contract{
		ClientID:      clientID,
		StartDate:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       endDate,
		CostAmount:    amount,
		LastUpdatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contract: %v", err)
	}
	return c
}

func PtrTime(v time.Time) *time.Time { return &v }
