package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/requests"
)

func cost(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func date(y int, m time.Month, d int) *requests.Date {
	return &requests.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func TestContractCreateValid(t *testing.T) {
	req := requests.ContractCreate{CostAmount: cost("100.00")}
	if errs := ContractCreate(&req); len(errs) != 0 {
		t.Fatalf("open-ended contract: unexpected errors: %+v", errs)
	}

	req = requests.ContractCreate{
		StartDate:  date(2024, 1, 1),
		EndDate:    date(2024, 12, 31),
		CostAmount: cost("0.01"),
	}
	if errs := ContractCreate(&req); len(errs) != 0 {
		t.Fatalf("bounded contract: unexpected errors: %+v", errs)
	}
}

func TestContractCreateCostRequired(t *testing.T) {
	req := requests.ContractCreate{}
	errs := ContractCreate(&req)
	if len(errs) != 1 || errs[0].Field != "costAmount" {
		t.Fatalf("expected a single costAmount error, got %+v", errs)
	}
}

func TestContractCreateCostRules(t *testing.T) {
	for _, bad := range []string{"0", "-5", "10.123", "1000000000000"} {
		req := requests.ContractCreate{CostAmount: cost(bad)}
		if len(fieldMessages(ContractCreate(&req), "costAmount")) == 0 {
			t.Fatalf("costAmount %q should be rejected", bad)
		}
	}
	// 12 integer digits is the maximum allowed.
	req := requests.ContractCreate{CostAmount: cost("999999999999.99")}
	if errs := ContractCreate(&req); len(errs) != 0 {
		t.Fatalf("max cost should be accepted, got %+v", errs)
	}
}

func TestContractCreateEndBeforeStart(t *testing.T) {
	req := requests.ContractCreate{
		StartDate:  date(2024, 6, 1),
		EndDate:    date(2024, 5, 1),
		CostAmount: cost("50"),
	}
	if len(fieldMessages(ContractCreate(&req), "endDate")) == 0 {
		t.Fatalf("expected an endDate error")
	}

	// Equal dates are allowed.
	req.EndDate = date(2024, 6, 1)
	if errs := ContractCreate(&req); len(errs) != 0 {
		t.Fatalf("endDate == startDate should be accepted, got %+v", errs)
	}
}

func TestContractCreateEndBeforeDefaultStart(t *testing.T) {
	// No startDate means the effective start is today, so a past endDate
	// must be rejected.
	req := requests.ContractCreate{
		EndDate:    date(2000, 1, 1),
		CostAmount: cost("50"),
	}
	if len(fieldMessages(ContractCreate(&req), "endDate")) == 0 {
		t.Fatalf("expected an endDate error for a past endDate with default start")
	}
}

func TestContractCreateBatchIndexesErrors(t *testing.T) {
	items := []requests.ContractCreate{
		{CostAmount: cost("100")},
		{CostAmount: cost("200")},
		{CostAmount: cost("-5")},
	}
	errs := ContractCreateBatch(items)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %+v", errs)
	}
	if errs[0].Index == nil || *errs[0].Index != 2 {
		t.Fatalf("expected index 2, got %+v", errs[0])
	}
}

func TestContractCostUpdate(t *testing.T) {
	req := requests.ContractCostUpdate{CostAmount: cost("150.00")}
	if errs := ContractCostUpdate(&req); len(errs) != 0 {
		t.Fatalf("valid cost update: unexpected errors: %+v", errs)
	}
	req.CostAmount = nil
	if errs := ContractCostUpdate(&req); len(errs) != 1 || errs[0].Field != "costAmount" {
		t.Fatalf("expected a costAmount error, got %+v", errs)
	}
}
