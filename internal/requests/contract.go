package requests

import "github.com/shopspring/decimal"

// ContractCreate is the payload for contract creation. StartDate defaults to
// today when omitted; EndDate may be omitted to create an open-ended
// (active) contract.
type ContractCreate struct {
	StartDate  *Date            `json:"startDate"`
	EndDate    *Date            `json:"endDate"`
	CostAmount *decimal.Decimal `json:"costAmount"`
}

type ContractCostUpdate struct {
	CostAmount *decimal.Decimal `json:"costAmount"`
}
