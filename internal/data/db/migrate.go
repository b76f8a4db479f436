package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Client{},
		&domain.Contract{},
	)
}

// EnsureContractIndexes creates the composite indexes backing the contract
// list/sum filters (active-by-client) and the updatedSince lookup. Filtering
// happens at the database, so these must exist for the queries to stay
// index-backed under pagination.
func EnsureContractIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_contract_client_end_date
		ON contract (client_id, end_date);
	`).Error; err != nil {
		return fmt.Errorf("create idx_contract_client_end_date: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_contract_client_last_updated
		ON contract (client_id, last_updated_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_contract_client_last_updated: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureContractIndexes(s.db); err != nil {
		s.log.Error("Contract index migration failed", "error", err)
		return err
	}
	return nil
}
