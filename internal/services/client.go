package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/data/repos"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/domain"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/apierr"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/dates"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/logger"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/requests"
	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/validation"
)

type ClientService interface {
	Create(ctx context.Context, tx *gorm.DB, req *requests.ClientCreate) (*domain.Client, error)
	CreateBatch(ctx context.Context, tx *gorm.DB, items []requests.ClientCreate) ([]*domain.Client, error)
	Get(ctx context.Context, tx *gorm.DB, id uint) (*domain.Client, error)
	Update(ctx context.Context, tx *gorm.DB, id uint, req *requests.ClientUpdate) (*domain.Client, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type clientService struct {
	db           *gorm.DB
	log          *logger.Logger
	clientRepo   repos.ClientRepo
	contractRepo repos.ContractRepo
}

func NewClientService(
	db *gorm.DB,
	baseLog *logger.Logger,
	clientRepo repos.ClientRepo,
	contractRepo repos.ContractRepo,
) ClientService {
	serviceLog := baseLog.With("service", "ClientService")
	return &clientService{
		db:           db,
		log:          serviceLog,
		clientRepo:   clientRepo,
		contractRepo: contractRepo,
	}
}

func (cs *clientService) Create(ctx context.Context, tx *gorm.DB, req *requests.ClientCreate) (*domain.Client, error) {
	transaction := tx
	if transaction == nil {
		transaction = cs.db
	}
	return cs.createOne(ctx, transaction, req)
}

// createOne assumes the caller resolved the transaction. The conditional
// variant check repeats here even though handlers validate first: a malformed
// payload must never reach storage regardless of the entry path.
func (cs *clientService) createOne(ctx context.Context, tx *gorm.DB, req *requests.ClientCreate) (*domain.Client, error) {
	if errs := validation.ClientCreate(req); len(errs) > 0 {
		return nil, apierr.Validation(errs)
	}

	exists, err := cs.clientRepo.EmailExists(ctx, tx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("email already exists")
	}

	now := time.Now().UTC()
	client := &domain.Client{
		Type:      domain.ClientType(req.Type),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch client.Type {
	case domain.ClientTypePerson:
		birthdate := dates.Midnight(req.Birthdate.Time)
		client.Birthdate = &birthdate
	case domain.ClientTypeCompany:
		taken, err := cs.clientRepo.CompanyIdentifierExists(ctx, tx, *req.CompanyIdentifier)
		if err != nil {
			return nil, fmt.Errorf("check companyIdentifier: %w", err)
		}
		if taken {
			return nil, apierr.Conflict("companyIdentifier already exists")
		}
		identifier := *req.CompanyIdentifier
		client.CompanyIdentifier = &identifier
	}

	if _, err := cs.clientRepo.Create(ctx, tx, []*domain.Client{client}); err != nil {
		cs.log.Error("Create client failed", "error", err)
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

// CreateBatch is all-or-nothing: validation errors are collected up front
// with item indexes, and any failure while persisting rolls back every
// client created so far.
func (cs *clientService) CreateBatch(ctx context.Context, tx *gorm.DB, items []requests.ClientCreate) ([]*domain.Client, error) {
	if len(items) == 0 {
		return nil, apierr.BadRequest("batch must contain at least one client")
	}
	if errs := validation.ClientCreateBatch(items); len(errs) > 0 {
		return nil, apierr.Validation(errs)
	}

	var created []*domain.Client
	err := inTx(cs.db, tx, func(tx *gorm.DB) error {
		for i := range items {
			client, err := cs.createOne(ctx, tx, &items[i])
			if err != nil {
				var ae *apierr.Error
				if errors.As(err, &ae) {
					return apierr.New(ae.Status, ae.Code, fmt.Sprintf("[%d] %s", i, ae.Message))
				}
				return err
			}
			created = append(created, client)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (cs *clientService) Get(ctx context.Context, tx *gorm.DB, id uint) (*domain.Client, error) {
	client, err := cs.clientRepo.GetByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Client", id)
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return client, nil
}

// Update touches only name/email/phone. Birthdate and companyIdentifier are
// never accepted through this path.
func (cs *clientService) Update(ctx context.Context, tx *gorm.DB, id uint, req *requests.ClientUpdate) (*domain.Client, error) {
	if errs := validation.ClientUpdate(req); len(errs) > 0 {
		return nil, apierr.Validation(errs)
	}

	client, err := cs.Get(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	inUse, err := cs.clientRepo.EmailInUseByOther(ctx, tx, req.Email, id)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if inUse {
		return nil, apierr.Conflict("email already exists")
	}

	now := time.Now().UTC()
	if err := cs.clientRepo.UpdateContact(ctx, tx, id, req.Name, req.Email, req.Phone, now); err != nil {
		cs.log.Error("Update client failed", "error", err, "client_id", id)
		return nil, fmt.Errorf("update client: %w", err)
	}

	client.Name = req.Name
	client.Email = req.Email
	client.Phone = req.Phone
	client.UpdatedAt = now
	return client, nil
}

// Delete runs the cascade in one transaction, in this order: close the
// client's active contracts (endDate = today), delete all of the client's
// contracts, then delete the client. A failure at any step rolls back all of
// them.
func (cs *clientService) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return inTx(cs.db, tx, func(tx *gorm.DB) error {
		if _, err := cs.Get(ctx, tx, id); err != nil {
			return err
		}

		today := dates.Today()
		closed, err := cs.contractRepo.CloseAllActiveByClient(ctx, tx, id, today)
		if err != nil {
			return fmt.Errorf("close active contracts: %w", err)
		}
		deleted, err := cs.contractRepo.DeleteAllByClient(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("delete contracts: %w", err)
		}
		if _, err := cs.clientRepo.Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("delete client: %w", err)
		}

		cs.log.Info("Deleted client with contract cascade",
			"client_id", id,
			"contracts_closed", closed,
			"contracts_deleted", deleted,
		)
		return nil
	})
}
