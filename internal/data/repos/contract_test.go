package repos

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/data/repos/testutil"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/domain"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/dates"
)

func TestContractRepoCRUD(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewContractRepo(db, testutil.Logger(t))
	ctx := context.Background()

	client := testutil.SeedPersonClient(t, ctx, tx, "contractrepo@example.com")

	created, err := repo.Create(ctx, tx, []*domain.Contract{
		{
			ClientID:      client.ID,
			StartDate:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
			CostAmount:    decimal.RequireFromString("120.50"),
			LastUpdatedAt: time.Now().UTC(),
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == 0 {
		t.Fatalf("Create: expected 1 contract with id, got %+v", created)
	}

	got, err := repo.GetByID(ctx, tx, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ClientID != client.ID || !got.CostAmount.Equal(decimal.RequireFromString("120.50")) {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}

	before := got.LastUpdatedAt
	newCost := decimal.RequireFromString("99.99")
	if err := repo.UpdateCost(ctx, tx, created[0].ID, newCost, before.Add(time.Second)); err != nil {
		t.Fatalf("UpdateCost: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if !got.CostAmount.Equal(newCost) {
		t.Fatalf("UpdateCost: cost not applied: %s", got.CostAmount)
	}
	if !got.LastUpdatedAt.After(before) {
		t.Fatalf("UpdateCost: last updated must advance, got %v -> %v", before, got.LastUpdatedAt)
	}

	affected, err := repo.Delete(ctx, tx, created[0].ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if affected != 1 {
		t.Fatalf("Delete: expected 1 row, got %d", affected)
	}
}

func TestContractRepoSumActiveByClient(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewContractRepo(db, testutil.Logger(t))
	ctx := context.Background()

	client := testutil.SeedPersonClient(t, ctx, tx, "sumactive@example.com")
	other := testutil.SeedPersonClient(t, ctx, tx, "sumactive-other@example.com")
	today := dates.Today()

	// Open-ended and future-ending contracts count.
	testutil.SeedContract(t, ctx, tx, client.ID, nil, "100.00")
	testutil.SeedContract(t, ctx, tx, client.ID, testutil.PtrTime(today.AddDate(0, 1, 0)), "50.25")
	// An end date of exactly today means the contract is no longer active.
	testutil.SeedContract(t, ctx, tx, client.ID, testutil.PtrTime(today), "999.99")
	testutil.SeedContract(t, ctx, tx, client.ID, testutil.PtrTime(today.AddDate(0, 0, -1)), "888.88")
	// Another client's contracts must not leak into the sum.
	testutil.SeedContract(t, ctx, tx, other.ID, nil, "777.77")

	sum, err := repo.SumActiveByClient(ctx, tx, client.ID, today)
	if err != nil {
		t.Fatalf("SumActiveByClient: %v", err)
	}
	if want := decimal.RequireFromString("150.25"); !sum.Equal(want) {
		t.Fatalf("SumActiveByClient: want %s, got %s", want, sum)
	}

	empty := testutil.SeedPersonClient(t, ctx, tx, "sumactive-empty@example.com")
	sum, err = repo.SumActiveByClient(ctx, tx, empty.ID, today)
	if err != nil {
		t.Fatalf("SumActiveByClient empty: %v", err)
	}
	if !sum.IsZero() {
		t.Fatalf("SumActiveByClient empty: want zero, got %s", sum)
	}
}

func TestContractRepoListByClient(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewContractRepo(db, testutil.Logger(t))
	ctx := context.Background()

	client := testutil.SeedPersonClient(t, ctx, tx, "listbyclient@example.com")
	today := dates.Today()

	open := testutil.SeedContract(t, ctx, tx, client.ID, nil, "10.00")
	future := testutil.SeedContract(t, ctx, tx, client.ID, testutil.PtrTime(today.AddDate(1, 0, 0)), "20.00")
	expired := testutil.SeedContract(t, ctx, tx, client.ID, testutil.PtrTime(today.AddDate(0, 0, -1)), "30.00")

	all, total, err := repo.ListByClient(ctx, tx, client.ID, ContractFilter{}, PageSpec{Limit: 10, OrderBy: "id asc"})
	if err != nil {
		t.Fatalf("ListByClient all: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("ListByClient all: want 3/3, got %d/%d", len(all), total)
	}
	if all[0].ID != open.ID || all[2].ID != expired.ID {
		t.Fatalf("ListByClient all: order wrong: %v", []uint{all[0].ID, all[1].ID, all[2].ID})
	}

	active, total, err := repo.ListByClient(ctx, tx, client.ID,
		ContractFilter{ActiveOn: &today}, PageSpec{Limit: 10, OrderBy: "id asc"})
	if err != nil {
		t.Fatalf("ListByClient active: %v", err)
	}
	if total != 2 || len(active) != 2 {
		t.Fatalf("ListByClient active: want 2/2, got %d/%d", len(active), total)
	}
	for _, c := range active {
		if c.ID == expired.ID {
			t.Fatalf("ListByClient active: expired contract returned")
		}
	}

	cutoff := future.LastUpdatedAt.Add(time.Hour)
	if err := repo.UpdateCost(ctx, tx, future.ID, decimal.RequireFromString("25.00"), cutoff.Add(time.Hour)); err != nil {
		t.Fatalf("UpdateCost: %v", err)
	}
	recent, total, err := repo.ListByClient(ctx, tx, client.ID,
		ContractFilter{UpdatedSince: &cutoff}, PageSpec{Limit: 10, OrderBy: "id asc"})
	if err != nil {
		t.Fatalf("ListByClient updatedSince: %v", err)
	}
	if total != 1 || len(recent) != 1 || recent[0].ID != future.ID {
		t.Fatalf("ListByClient updatedSince: want only the updated contract, got %d/%d", len(recent), total)
	}

	page, total, err := repo.ListByClient(ctx, tx, client.ID, ContractFilter{}, PageSpec{Offset: 2, Limit: 2, OrderBy: "id asc"})
	if err != nil {
		t.Fatalf("ListByClient paged: %v", err)
	}
	if total != 3 || len(page) != 1 || page[0].ID != expired.ID {
		t.Fatalf("ListByClient paged: want last row only, got %d rows of %d", len(page), total)
	}
}

func TestContractRepoCloseAndDeleteAllByClient(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewContractRepo(db, testutil.Logger(t))
	ctx := context.Background()

	client := testutil.SeedPersonClient(t, ctx, tx, "closeall@example.com")
	today := dates.Today()

	testutil.SeedContract(t, ctx, tx, client.ID, nil, "10.00")
	testutil.SeedContract(t, ctx, tx, client.ID, testutil.PtrTime(today.AddDate(0, 2, 0)), "20.00")
	expired := testutil.SeedContract(t, ctx, tx, client.ID, testutil.PtrTime(today.AddDate(0, 0, -5)), "30.00")

	closed, err := repo.CloseAllActiveByClient(ctx, tx, client.ID, today)
	if err != nil {
		t.Fatalf("CloseAllActiveByClient: %v", err)
	}
	if closed != 2 {
		t.Fatalf("CloseAllActiveByClient: want 2 closed, got %d", closed)
	}

	sum, err := repo.SumActiveByClient(ctx, tx, client.ID, today)
	if err != nil {
		t.Fatalf("SumActiveByClient after close: %v", err)
	}
	if !sum.IsZero() {
		t.Fatalf("SumActiveByClient after close: want zero, got %s", sum)
	}

	got, err := repo.GetByID(ctx, tx, expired.ID)
	if err != nil {
		t.Fatalf("GetByID expired: %v", err)
	}
	if got.EndDate == nil || !dates.Midnight(*got.EndDate).Equal(today.AddDate(0, 0, -5)) {
		t.Fatalf("CloseAllActiveByClient: expired end date must stay untouched, got %v", got.EndDate)
	}

	deleted, err := repo.DeleteAllByClient(ctx, tx, client.ID)
	if err != nil {
		t.Fatalf("DeleteAllByClient: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("DeleteAllByClient: want 3 deleted, got %d", deleted)
	}
}
