package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/domain"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/dates"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/services"
)

// ClientView is the wire shape of a client. Both variant fields are always
// present; the one not applicable to the actual variant is null.
type ClientView struct {
	ID                uint    `json:"id"`
	Type              string  `json:"type"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Birthdate         *string `json:"birthdate"`
	CompanyIdentifier *string `json:"companyIdentifier"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// ContractView deliberately omits lastUpdatedAt; it is an internal filter
// column, not part of the read model.
type ContractView struct {
	ID         uint            `json:"id"`
	ClientID   uint            `json:"clientId"`
	StartDate  string          `json:"startDate"`
	EndDate    *string         `json:"endDate"`
	CostAmount decimal.Decimal `json:"costAmount"`
}

type ContractPageView struct {
	Items      []ContractView `json:"items"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
}

func clientView(c *domain.Client) ClientView {
	return ClientView{
		ID:                c.ID,
		Type:              string(c.Type),
		Name:              c.Name,
		Email:             c.Email,
		Phone:             c.Phone,
		Birthdate:         dates.FormatPtr(c.Birthdate),
		CompanyIdentifier: c.CompanyIdentifier,
		CreatedAt:         c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func contractView(c *domain.Contract) ContractView {
	return ContractView{
		ID:         c.ID,
		ClientID:   c.ClientID,
		StartDate:  dates.Format(c.StartDate),
		EndDate:    dates.FormatPtr(c.EndDate),
		CostAmount: c.CostAmount,
	}
}

func contractPageView(p *services.ContractPage) ContractPageView {
	items := make([]ContractView, 0, len(p.Items))
	for _, c := range p.Items {
		items = append(items, contractView(c))
	}
	return ContractPageView{
		Items:      items,
		Page:       p.Page,
		Size:       p.Size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}
