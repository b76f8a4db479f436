package validation

import (
	"github.com/shopspring/decimal"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/apierr"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/dates"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/requests"
)

// costAmount allows at most 12 integer digits, so any valid value is
// strictly below 10^12.
var maxCost = decimal.New(1, 12)

// ContractCreate validates a single contract-creation payload. The endDate
// check uses the effective start date (today when startDate is omitted) and
// applies to both the single and the batch path.
func ContractCreate(req *requests.ContractCreate) []apierr.FieldError {
	errs := costAmount(req.CostAmount)

	if req.EndDate != nil {
		start := dates.Today()
		if req.StartDate != nil {
			start = req.StartDate.Time
		}
		if req.EndDate.Time.Before(start) {
			errs = append(errs, apierr.FieldError{
				Field:         "endDate",
				Message:       "endDate must be >= startDate",
				RejectedValue: dates.Format(req.EndDate.Time),
			})
		}
	}

	return errs
}

func ContractCreateBatch(items []requests.ContractCreate) []apierr.FieldError {
	var errs []apierr.FieldError
	for i := range items {
		errs = append(errs, apierr.At(i, ContractCreate(&items[i]))...)
	}
	return errs
}

func ContractCostUpdate(req *requests.ContractCostUpdate) []apierr.FieldError {
	return costAmount(req.CostAmount)
}

func costAmount(cost *decimal.Decimal) []apierr.FieldError {
	if cost == nil {
		return []apierr.FieldError{{Field: "costAmount", Message: "costAmount is required"}}
	}

	var errs []apierr.FieldError
	if cost.Sign() <= 0 {
		errs = append(errs, apierr.FieldError{
			Field:         "costAmount",
			Message:       "costAmount must be > 0",
			RejectedValue: cost.String(),
		})
	}
	if cost.Exponent() < -2 {
		errs = append(errs, apierr.FieldError{
			Field:         "costAmount",
			Message:       "costAmount allows at most 2 fractional digits",
			RejectedValue: cost.String(),
		})
	}
	if cost.Abs().GreaterThanOrEqual(maxCost) {
		errs = append(errs, apierr.FieldError{
			Field:         "costAmount",
			Message:       "costAmount allows at most 12 integer digits",
			RejectedValue: cost.String(),
		})
	}
	return errs
}
