package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contract belongs to exactly one client; the reference never changes after
// creation. A nil EndDate (or one strictly after today) means the contract is
// active. LastUpdatedAt is maintained by the service layer on every mutation
// and is never exposed through the API.
type Contract struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ClientID      uint            `gorm:"not null;index;column:client_id" json:"client_id"`
	Client        *Client         `gorm:"constraint:OnDelete:RESTRICT;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	StartDate     time.Time       `gorm:"type:date;not null;column:start_date" json:"start_date"`
	EndDate       *time.Time      `gorm:"type:date;column:end_date" json:"end_date,omitempty"`
	CostAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null;column:cost_amount" json:"cost_amount"`
	LastUpdatedAt time.Time       `gorm:"not null;column:last_updated_at" json:"-"`
}

func (Contract) TableName() string { return "contract" }

// ActiveOn reports whether the contract counts as active on the given date:
// no end date, or an end date strictly after it. An end date equal to the
// given date is not active.
func (c *Contract) ActiveOn(day time.Time) bool {
	return c.EndDate == nil || c.EndDate.After(day)
}
