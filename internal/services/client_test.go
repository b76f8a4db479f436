package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/data/repos"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/data/repos/testutil"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/domain"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/apierr"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/dates"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/requests"
)

func newClientService(t *testing.T, db *gorm.DB) (ClientService, repos.ContractRepo) {
	t.Helper()
	log := testutil.Logger(t)
	clientRepo := repos.NewClientRepo(db, log)
	contractRepo := repos.NewContractRepo(db, log)
	return NewClientService(db, log, clientRepo, contractRepo), contractRepo
}

func personCreate(email string) *requests.ClientCreate {
	birthdate := requests.Date{Time: time.Date(1985, 4, 12, 0, 0, 0, 0, time.UTC)}
	return &requests.ClientCreate{
		Type:      string(domain.ClientTypePerson),
		Name:      "Jane Doe",
		Email:     email,
		Phone:     "+41 79 123 45 67",
		Birthdate: &birthdate,
	}
}

func companyCreate(email, identifier string) *requests.ClientCreate {
	return &requests.ClientCreate{
		Type:              string(domain.ClientTypeCompany),
		Name:              "Acme SA",
		Email:             email,
		Phone:             "+41 21 555 00 11",
		CompanyIdentifier: &identifier,
	}
}

func asAPIError(t *testing.T, err error) *apierr.Error {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected an api error, got %v", err)
	}
	return ae
}

func TestClientServiceCreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, _ := newClientService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, tx, personCreate("clientsvc@example.com"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.Type != domain.ClientTypePerson || created.Birthdate == nil {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	got, err := svc.Get(ctx, tx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Email != "clientsvc@example.com" {
		t.Fatalf("Get: unexpected result: %+v", got)
	}

	_, err = svc.Get(ctx, tx, created.ID+100000)
	ae := asAPIError(t, err)
	if ae.Code != apierr.CodeNotFound || ae.Status != 404 {
		t.Fatalf("Get missing: want 404 NOT_FOUND, got %+v", ae)
	}
}

func TestClientServiceCreateConflicts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, _ := newClientService(t, db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, tx, personCreate("conflict@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := svc.Create(ctx, tx, personCreate("conflict@example.com"))
	ae := asAPIError(t, err)
	if ae.Code != apierr.CodeConflict || ae.Message != "email already exists" {
		t.Fatalf("duplicate email: want conflict, got %+v", ae)
	}

	if _, err := svc.Create(ctx, tx, companyCreate("acme@example.com", "XYZ-789")); err != nil {
		t.Fatalf("Create company: %v", err)
	}
	_, err = svc.Create(ctx, tx, companyCreate("acme2@example.com", "XYZ-789"))
	ae = asAPIError(t, err)
	if ae.Code != apierr.CodeConflict || ae.Message != "companyIdentifier already exists" {
		t.Fatalf("duplicate identifier: want conflict, got %+v", ae)
	}
}

func TestClientServiceCreateValidation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, _ := newClientService(t, db)

	req := personCreate("novalid@example.com")
	req.Birthdate = nil
	_, err := svc.Create(context.Background(), tx, req)
	ae := asAPIError(t, err)
	if ae.Code != apierr.CodeValidation || len(ae.Fields) == 0 {
		t.Fatalf("want validation error with fields, got %+v", ae)
	}
}

func TestClientServiceUpdate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, _ := newClientService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, tx, personCreate("update@example.com"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	other, err := svc.Create(ctx, tx, personCreate("update-other@example.com"))
	if err != nil {
		t.Fatalf("Create other: %v", err)
	}

	updated, err := svc.Update(ctx, tx, created.ID, &requests.ClientUpdate{
		Name:  "Janet Doe",
		Email: "update@example.com",
		Phone: "0791112233",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Janet Doe" || updated.Phone != "0791112233" {
		t.Fatalf("Update: not applied: %+v", updated)
	}
	if updated.Birthdate == nil {
		t.Fatalf("Update: birthdate must survive a contact update")
	}

	_, err = svc.Update(ctx, tx, created.ID, &requests.ClientUpdate{
		Name:  "Janet Doe",
		Email: other.Email,
		Phone: "0791112233",
	})
	ae := asAPIError(t, err)
	if ae.Code != apierr.CodeConflict {
		t.Fatalf("update to taken email: want conflict, got %+v", ae)
	}

	_, err = svc.Update(ctx, tx, created.ID+100000, &requests.ClientUpdate{
		Name:  "Nobody",
		Email: "nobody@example.com",
		Phone: "0790000000",
	})
	ae = asAPIError(t, err)
	if ae.Code != apierr.CodeNotFound {
		t.Fatalf("update missing client: want 404, got %+v", ae)
	}
}

func TestClientServiceDeleteCascade(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, contractRepo := newClientService(t, db)
	ctx := context.Background()

	client := testutil.SeedPersonClient(t, ctx, tx, "cascade@example.com")
	today := dates.Today()
	testutil.SeedContract(t, ctx, tx, client.ID, nil, "10.00")
	testutil.SeedContract(t, ctx, tx, client.ID, testutil.PtrTime(today.AddDate(0, 0, -3)), "20.00")

	if err := svc.Delete(ctx, tx, client.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := svc.Get(ctx, tx, client.ID)
	ae := asAPIError(t, err)
	if ae.Code != apierr.CodeNotFound {
		t.Fatalf("client must be gone, got %+v", ae)
	}

	_, total, err := contractRepo.ListByClient(ctx, tx, client.ID,
		repos.ContractFilter{}, repos.PageSpec{Limit: 10, OrderBy: "id asc"})
	if err != nil {
		t.Fatalf("ListByClient: %v", err)
	}
	if total != 0 {
		t.Fatalf("contracts must be gone, %d left", total)
	}

	err = svc.Delete(ctx, tx, client.ID)
	ae = asAPIError(t, err)
	if ae.Code != apierr.CodeNotFound {
		t.Fatalf("deleting a missing client: want 404, got %+v", ae)
	}
}

func TestClientServiceCreateBatch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	svc, _ := newClientService(t, db)
	ctx := context.Background()

	created, err := svc.CreateBatch(ctx, tx, []requests.ClientCreate{
		*personCreate("batch-a@example.com"),
		*companyCreate("batch-b@example.com", "BAT-001"),
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if len(created) != 2 || created[0].ID == 0 || created[1].ID == 0 {
		t.Fatalf("CreateBatch: want 2 created clients, got %+v", created)
	}

	_, err = svc.CreateBatch(ctx, tx, nil)
	ae := asAPIError(t, err)
	if ae.Code != apierr.CodeBadRequest {
		t.Fatalf("empty batch: want bad request, got %+v", ae)
	}

	bad := *personCreate("batch-c@example.com")
	bad.Birthdate = nil
	_, err = svc.CreateBatch(ctx, tx, []requests.ClientCreate{
		*personCreate("batch-d@example.com"),
		bad,
	})
	ae = asAPIError(t, err)
	if ae.Code != apierr.CodeValidation {
		t.Fatalf("invalid item: want validation error, got %+v", ae)
	}
	for _, fe := range ae.Fields {
		if fe.Index == nil || *fe.Index != 1 {
			t.Fatalf("field errors must point at item 1: %+v", fe)
		}
	}
}

// A duplicate email inside one batch fails at insert time, so this case runs
// against the service's own transaction to prove nothing survives the
// rollback.
func TestClientServiceCreateBatchRollsBack(t *testing.T) {
	db := testutil.DB(t)
	svc, _ := newClientService(t, db)
	ctx := context.Background()

	const email = "batch-rollback@example.com"
	_, err := svc.CreateBatch(ctx, nil, []requests.ClientCreate{
		*personCreate(email),
		*personCreate(email),
	})
	ae := asAPIError(t, err)
	if ae.Code != apierr.CodeConflict {
		t.Fatalf("duplicate in batch: want conflict, got %+v", ae)
	}
	if ae.Message != "[1] email already exists" {
		t.Fatalf("conflict message must carry the item index, got %q", ae.Message)
	}

	exists, err := repos.NewClientRepo(db, testutil.Logger(t)).EmailExists(ctx, nil, email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if exists {
		t.Fatalf("first batch item must not survive the rollback")
	}
}
