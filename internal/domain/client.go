package domain

import (
	"time"
)

type ClientType string

const (
	ClientTypePerson  ClientType = "PERSON"
	ClientTypeCompany ClientType = "COMPANY"
)

func (t ClientType) Valid() bool {
	return t == ClientTypePerson || t == ClientTypeCompany
}

// Client is stored as a single table with nullable variant columns: exactly
// one of Birthdate (PERSON) and CompanyIdentifier (COMPANY) is populated,
// determined by Type. Type and the variant field are fixed at creation.
type Client struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Type              ClientType `gorm:"type:varchar(16);not null;column:type" json:"type"`
	Name              string     `gorm:"not null;column:name" json:"name"`
	Email             string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Phone             string     `gorm:"not null;column:phone" json:"phone"`
	Birthdate         *time.Time `gorm:"type:date;column:birthdate" json:"birthdate,omitempty"`
	CompanyIdentifier *string    `gorm:"uniqueIndex;column:company_identifier" json:"company_identifier,omitempty"`
	CreatedAt         time.Time  `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null;column:updated_at" json:"updated_at"`
}

func (Client) TableName() string { return "client" }
